package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/service"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/ratelimit"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/logger"
)

type AttachmentUseCase struct {
	session  *ChatSessionUseCase
	uploader service.FileUploadService
	metadata repository.FileMetadataRepository
	limiter  *ratelimit.RateLimiter
}

func NewAttachmentUseCase(session *ChatSessionUseCase, uploader service.FileUploadService, metadata repository.FileMetadataRepository, limiter *ratelimit.RateLimiter) *AttachmentUseCase {
	return &AttachmentUseCase{
		session:  session,
		uploader: uploader,
		metadata: metadata,
		limiter:  limiter,
	}
}

// SendFile uploads the file and appends the resulting message to the
// chat. If the upload fails, nothing is appended and the error is
// returned. The metadata record is best effort.
func (uc *AttachmentUseCase) SendFile(ctx context.Context, chatID, senderID, fileName, contentType string, file io.Reader) (*entity.Message, error) {
	if err := uc.limiter.Allow(senderID, "send_file"); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("chats/%s/%s", chatID, fileName)
	result, err := uc.uploader.Upload(ctx, file, contentType, objectName)
	if err != nil {
		return nil, err
	}

	fileType := entity.FileTypeDocument
	text := "Archivo: " + fileName
	if strings.HasPrefix(contentType, "image/") {
		fileType = entity.FileTypeImage
		text = ""
	}

	now := time.Now().UnixMilli()
	message := &entity.Message{
		ID:     now,
		Text:   text,
		Sender: senderID,
		Time:   now,
		File: &entity.FileAttachment{
			Name: fileName,
			URL:  result.URL,
			Type: fileType,
		},
	}

	if err := uc.session.appendMessage(ctx, chatID, message); err != nil {
		return nil, err
	}

	if uc.metadata != nil {
		record := &entity.FileMetadata{
			ID:         uuid.New().String(),
			URL:        result.URL,
			ObjectName: result.ObjectName,
			ChatID:     chatID,
			UploadedBy: senderID,
			Filename:   fileName,
			FileType:   fileType,
			FileSize:   result.Size,
		}
		if err := uc.metadata.Create(ctx, record); err != nil {
			logger.Warn("Attachment sent to chat %s but metadata record failed: %v", chatID, err)
		}
	}

	return message, nil
}

// ListAttachments returns one page of a chat's attachment records,
// newest first.
func (uc *AttachmentUseCase) ListAttachments(ctx context.Context, chatID string, page, pageSize int) ([]*entity.FileMetadata, int64, error) {
	offset := (page - 1) * pageSize
	return uc.metadata.ListByChat(ctx, chatID, pageSize, offset)
}
