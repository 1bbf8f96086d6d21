// Package objstore abstracts upload blob storage behind a small interface
// with filesystem and S3-compatible backends.
package objstore

import (
	"context"
	"io"
)

// Kind buckets uploads by purpose; it becomes the first path segment of
// the object key.
type Kind string

// Upload kinds.
const (
	KindFont  Kind = "fonts"
	KindSound Kind = "sounds"
	KindImage Kind = "images"
	KindBook  Kind = "books"
)

// Storage stores uploaded blobs and serves them by URL.
type Storage interface {
	// Put stores a blob and returns its public URL.
	Put(ctx context.Context, kind Kind, name string, contentType string, r io.Reader, size int64) (string, error)
	// Get opens a previously stored blob by its public URL.
	Get(ctx context.Context, url string) (io.ReadCloser, error)
	// Delete removes a previously stored blob by its public URL.
	// Deleting an unknown URL is not an error.
	Delete(ctx context.Context, url string) error
	// Probe verifies the backend is reachable. Used by the health check.
	Probe(ctx context.Context) error
}
