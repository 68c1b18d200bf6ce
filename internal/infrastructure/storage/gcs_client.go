package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/FusionTech-2430/all-connected-app-sub000/internal/domain/service"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/errors"
	"github.com/FusionTech-2430/all-connected-app-sub000/pkg/logger"
)

type GCSClient struct {
	client     *storage.Client
	bucketName string
}

func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.Internal("Failed to create storage client", err)
	}

	return &GCSClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

var _ service.FileUploadService = (*GCSClient)(nil)

// Upload streams file into the bucket under objectName and makes the
// object publicly readable so chat clients can fetch it directly.
func (g *GCSClient) Upload(ctx context.Context, file io.Reader, contentType, objectName string) (*service.UploadResult, error) {
	bucket := g.client.Bucket(g.bucketName)
	obj := bucket.Object(objectName)

	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType

	size, err := io.Copy(writer, file)
	if err != nil {
		writer.Close()
		return nil, errors.Internal("Failed to upload file", err)
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Internal("Failed to finalize upload", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		logger.Warn("Failed to set public ACL on %s: %v", objectName, err)
	}

	return &service.UploadResult{
		URL:        fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucketName, objectName),
		ObjectName: objectName,
		Size:       size,
	}, nil
}

func (g *GCSClient) Delete(ctx context.Context, objectName string) error {
	obj := g.client.Bucket(g.bucketName).Object(objectName)
	if err := obj.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete file", err)
	}
	return nil
}

func (g *GCSClient) Close() error {
	return g.client.Close()
}
