package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"poextract/internal/port"
)

// MockInferenceClient is a mock implementation of port.InferenceClient.
type MockInferenceClient struct {
	mock.Mock
}

func (m *MockInferenceClient) Chat(ctx context.Context, req port.ChatRequest) (*port.ChatResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ChatResponse), args.Error(1)
}

func (m *MockInferenceClient) Name() string {
	args := m.Called()
	return args.String(0)
}
