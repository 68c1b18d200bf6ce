package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/repository"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/logger"
)

type firestoreFileMetadataRepository struct {
	client *firestore.Client
}

func NewFirestoreFileMetadataRepository(client *firestore.Client) repository.FileMetadataRepository {
	return &firestoreFileMetadataRepository{
		client: client,
	}
}

func (r *firestoreFileMetadataRepository) Create(ctx context.Context, metadata *entity.FileMetadata) error {
	if metadata.CreatedAt.IsZero() {
		metadata.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("file_metadata").Doc(metadata.ID).Set(ctx, metadata)
	if err != nil {
		return errors.Internal("Failed to create file metadata", err)
	}
	return nil
}

func (r *firestoreFileMetadataRepository) GetByID(ctx context.Context, id string) (*entity.FileMetadata, error) {
	doc, err := r.client.Collection("file_metadata").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("File metadata", err)
		}
		return nil, errors.Internal("Failed to get file metadata", err)
	}

	var metadata entity.FileMetadata
	if err := doc.DataTo(&metadata); err != nil {
		return nil, errors.Internal("Failed to parse file metadata", err)
	}
	return &metadata, nil
}

func (r *firestoreFileMetadataRepository) ListByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.FileMetadata, int64, error) {
	query := r.client.Collection("file_metadata").
		Where("chatId", "==", chatID).
		OrderBy("createdAt", firestore.Desc)

	var all []*entity.FileMetadata
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while listing attachments for chat %s: %v", chatID, err)
			return nil, 0, errors.Internal("Failed to list attachments", err)
		}

		var metadata entity.FileMetadata
		if err := doc.DataTo(&metadata); err != nil {
			logger.Warn("Skipping malformed attachment record %s: %v", doc.Ref.ID, err)
			continue
		}
		all = append(all, &metadata)
	}

	total := int64(len(all))

	start := offset
	if start > len(all) {
		start = len(all)
	}
	end := len(all)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	return all[start:end], total, nil
}
