package port

import (
	"context"
	"io"
)

// TextLoader turns a PDF into page-ordered plain text.
type TextLoader interface {
	LoadFile(ctx context.Context, path string) (string, error)
	Load(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}
