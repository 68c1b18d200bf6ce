package repository

import (
	"context"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/entity"
)

type FileMetadataRepository interface {
	Create(ctx context.Context, metadata *entity.FileMetadata) error
	GetByID(ctx context.Context, id string) (*entity.FileMetadata, error)
	ListByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.FileMetadata, int64, error)
}
