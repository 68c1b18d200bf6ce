package service

import (
	"context"
	"io"
)

type UploadResult struct {
	URL        string
	ObjectName string
	Size       int64
}

type FileUploadService interface {
	Upload(ctx context.Context, file io.Reader, contentType, objectName string) (*UploadResult, error)
	Delete(ctx context.Context, objectName string) error
	Close() error
}
