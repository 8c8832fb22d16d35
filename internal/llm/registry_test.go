package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poextract/internal/config"
	"poextract/internal/domain"
	"poextract/internal/llm"
	"poextract/internal/port"
)

type stubClient struct{ name string }

func (s *stubClient) Chat(context.Context, port.ChatRequest) (*port.ChatResponse, error) {
	return &port.ChatResponse{Text: "{}"}, nil
}

func (s *stubClient) Name() string { return s.name }

func TestNewClient_Registered(t *testing.T) {
	llm.RegisterProvider("stub-registry", func(cfg *config.Config) (port.InferenceClient, error) {
		return &stubClient{name: "stub-registry"}, nil
	})

	cfg := &config.Config{Inference: config.InferenceConfig{Provider: "stub-registry"}}
	client, err := llm.NewClient(cfg)
	require.NoError(t, err)
	assert.Equal(t, "stub-registry", client.Name())
	assert.Contains(t, llm.Providers(), "stub-registry")
}

func TestNewClient_Unknown(t *testing.T) {
	cfg := &config.Config{Inference: config.InferenceConfig{Provider: "does-not-exist"}}
	_, err := llm.NewClient(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
	assert.Contains(t, err.Error(), "does-not-exist")
}
