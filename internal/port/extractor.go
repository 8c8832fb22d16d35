package port

import (
	"context"

	"poextract/internal/domain"
)

// DocumentExtractor turns one document's text into header and items.
type DocumentExtractor interface {
	Extract(ctx context.Context, docType domain.DocumentType, pdfText string) (*domain.ExtractionResult, error)
}
