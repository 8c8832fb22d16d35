// Package pdftext extracts page-ordered plain text from PDF files.
package pdftext

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"poextract/internal/domain"
	"poextract/internal/logger"
)

// Loader implements port.TextLoader on top of ledongthuc/pdf.
type Loader struct {
	log *zap.Logger
}

// NewLoader creates a Loader.
func NewLoader(log *zap.Logger) *Loader {
	return &Loader{log: logger.OrNop(log)}
}

// LoadFile extracts the text of the PDF at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "pdftext: open %s", path)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", eris.Wrapf(err, "pdftext: stat %s", path)
	}
	return l.Load(ctx, f, info.Size())
}

// Load extracts the text of every page in order. Each page that yields text
// contributes that text followed by a newline; pages without extractable text
// (blank or image-only) contribute nothing, so an image-only PDF yields "".
func (l *Loader) Load(ctx context.Context, r io.ReaderAt, size int64) (text string, err error) {
	// The pdf package panics on some malformed object streams.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = eris.Wrapf(domain.ErrInvalidPDF, "pdftext: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", eris.Wrapf(domain.ErrInvalidPDF, "pdftext: %v", err)
	}

	var sb strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "pdftext: cancelled")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			l.log.Debug("skipping unreadable page", zap.Int("page", i), zap.Error(err))
			continue
		}
		if content == "" {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	l.log.Debug("pdf text extracted", zap.Int("pages", pages), zap.Int("chars", sb.Len()))
	return sb.String(), nil
}
