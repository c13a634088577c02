// Package storage provides access to the external blob store holding
// uploaded application photos.
package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored blob.
type UploadResult struct {
	PublicID string
	URL      string
	Width    int
	Height   int
}

// BlobStore uploads and deletes media blobs in an external object store.
type BlobStore interface {
	Upload(ctx context.Context, file io.Reader, folder string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}
