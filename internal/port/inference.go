package port

import "context"

// ChatRequest is a single-turn prompt with fixed generation parameters.
type ChatRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// ChatResponse carries the model's raw text output.
type ChatResponse struct {
	Text      string
	ModelUsed string
	// StopReason is the provider's finish reason, when it reports one.
	StopReason string
}

// InferenceClient abstracts the external generative-inference endpoint.
type InferenceClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	// Name identifies the provider in logs and metrics.
	Name() string
}
