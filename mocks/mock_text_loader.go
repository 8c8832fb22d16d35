package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockTextLoader is a mock implementation of port.TextLoader.
type MockTextLoader struct {
	mock.Mock
}

func (m *MockTextLoader) LoadFile(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockTextLoader) Load(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	args := m.Called(ctx, r, size)
	return args.String(0), args.Error(1)
}
