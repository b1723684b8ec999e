// Package document renders and stores the files the TMS hands out: delivery
// notes for dispatches and attachments on bookings.
package document

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// ObjectStorage stores binary objects under string keys
type ObjectStorage interface {
	// Upload writes body under key, replacing any existing object
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// DownloadURL returns a time-limited URL for key. expiresIn <= 0 uses the default.
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	// Exists reports whether key is stored
	Exists(ctx context.Context, key string) (bool, error)
	// List returns the objects whose key starts with prefix
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// PDFRenderer turns a full HTML document into a PDF
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// HTMLRenderer executes a named document template
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, name string, data any) (string, error)
}
