package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"poextract/internal/domain"
)

// MockDocumentExtractor is a mock implementation of port.DocumentExtractor.
type MockDocumentExtractor struct {
	mock.Mock
}

func (m *MockDocumentExtractor) Extract(ctx context.Context, docType domain.DocumentType, pdfText string) (*domain.ExtractionResult, error) {
	args := m.Called(ctx, docType, pdfText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionResult), args.Error(1)
}
