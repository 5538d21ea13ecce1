// Package storage provides a thin interface over S3-compatible object
// storage, used by the uploads module for ticket images.
package storage

import (
	"context"
	"io"
)

// ObjectStore is the storage operation set the uploads module needs.
type ObjectStore interface {
	// EnsureBucketExists creates the bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context, bucket string) error

	// UploadObject streams an object into the bucket and returns its
	// public URL.
	UploadObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) (string, error)

	// DeleteObject removes an object from the bucket.
	DeleteObject(ctx context.Context, bucket, key string) error
}
