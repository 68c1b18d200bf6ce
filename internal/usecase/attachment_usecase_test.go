package usecase

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/service"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/infrastructure/ratelimit"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
)

type fakeUploader struct {
	fail    bool
	uploads []string
}

func (f *fakeUploader) Upload(ctx context.Context, file io.Reader, contentType, objectName string) (*service.UploadResult, error) {
	if f.fail {
		return nil, errors.Internal("bucket unavailable", nil)
	}
	size, _ := io.Copy(io.Discard, file)
	f.uploads = append(f.uploads, objectName)
	return &service.UploadResult{
		URL:        "https://storage.googleapis.com/test-bucket/" + objectName,
		ObjectName: objectName,
		Size:       size,
	}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, objectName string) error { return nil }
func (f *fakeUploader) Close() error                                        { return nil }

type fakeMetadataRepo struct {
	fail    bool
	records []*entity.FileMetadata
}

func (f *fakeMetadataRepo) Create(ctx context.Context, metadata *entity.FileMetadata) error {
	if f.fail {
		return errors.Internal("firestore unavailable", nil)
	}
	f.records = append(f.records, metadata)
	return nil
}

func (f *fakeMetadataRepo) GetByID(ctx context.Context, id string) (*entity.FileMetadata, error) {
	return nil, errors.NotFound("File metadata", nil)
}

func (f *fakeMetadataRepo) ListByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.FileMetadata, int64, error) {
	return f.records, int64(len(f.records)), nil
}

func newAttachmentFixture(uploader *fakeUploader, metadata *fakeMetadataRepo) (*AttachmentUseCase, *ChatSessionUseCase) {
	session, _ := newSessionFixture()
	return NewAttachmentUseCase(session, uploader, metadata, ratelimit.NewRateLimiter()), session
}

func TestSendFileImage(t *testing.T) {
	uploader := &fakeUploader{}
	metadata := &fakeMetadataRepo{}
	uc, session := newAttachmentFixture(uploader, metadata)
	ctx := context.Background()

	chat, err := session.CreateChat(ctx, "x", [2]string{"u1", "u2"})
	require.NoError(t, err)

	msg, err := uc.SendFile(ctx, chat.ID, "u1", "foto.png", "image/png", strings.NewReader("pixels"))
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.NotNil(t, msg.File)

	assert.Equal(t, entity.FileTypeImage, msg.File.Type)
	assert.Empty(t, msg.Text, "image messages carry no text")
	assert.Equal(t, "foto.png", msg.File.Name)
	assert.Equal(t, []string{"chats/" + chat.ID + "/foto.png"}, uploader.uploads)

	messages, total, err := session.Messages(ctx, chat.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, messages, 1)
	assert.Equal(t, msg.File.URL, messages[0].File.URL)

	require.Len(t, metadata.records, 1)
	assert.Equal(t, chat.ID, metadata.records[0].ChatID)
	assert.Equal(t, int64(len("pixels")), metadata.records[0].FileSize)
}

func TestSendFileDocumentGetsLabel(t *testing.T) {
	uploader := &fakeUploader{}
	uc, session := newAttachmentFixture(uploader, &fakeMetadataRepo{})
	ctx := context.Background()

	chat, err := session.CreateChat(ctx, "x", [2]string{"u1", "u2"})
	require.NoError(t, err)

	msg, err := uc.SendFile(ctx, chat.ID, "u1", "factura.pdf", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, entity.FileTypeDocument, msg.File.Type)
	assert.Equal(t, "Archivo: factura.pdf", msg.Text)
}

func TestSendFileUploadFailureAppendsNothing(t *testing.T) {
	uploader := &fakeUploader{fail: true}
	uc, session := newAttachmentFixture(uploader, &fakeMetadataRepo{})
	ctx := context.Background()

	chat, err := session.CreateChat(ctx, "x", [2]string{"u1", "u2"})
	require.NoError(t, err)

	msg, err := uc.SendFile(ctx, chat.ID, "u1", "foto.png", "image/png", strings.NewReader("pixels"))
	assert.Nil(t, msg)
	require.Error(t, err)

	_, total, err := session.Messages(ctx, chat.ID, 1, 50)
	require.NoError(t, err)
	assert.Zero(t, total, "a failed upload must not leave a message behind")
}

func TestSendFileMetadataFailureIsNotFatal(t *testing.T) {
	uc, session := newAttachmentFixture(&fakeUploader{}, &fakeMetadataRepo{fail: true})
	ctx := context.Background()

	chat, err := session.CreateChat(ctx, "x", [2]string{"u1", "u2"})
	require.NoError(t, err)

	msg, err := uc.SendFile(ctx, chat.ID, "u1", "foto.png", "image/png", strings.NewReader("pixels"))
	require.NoError(t, err)
	require.NotNil(t, msg)

	_, total, err := session.Messages(ctx, chat.ID, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestSendFileWithoutMetadataRepo(t *testing.T) {
	session, _ := newSessionFixture()
	uc := NewAttachmentUseCase(session, &fakeUploader{}, nil, ratelimit.NewRateLimiter())
	ctx := context.Background()

	chat, err := session.CreateChat(ctx, "x", [2]string{"u1", "u2"})
	require.NoError(t, err)

	_, err = uc.SendFile(ctx, chat.ID, "u1", "foto.png", "image/png", strings.NewReader("pixels"))
	require.NoError(t, err)
}
