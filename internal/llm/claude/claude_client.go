package claude

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"poextract/internal/config"
	"poextract/internal/llm"
	"poextract/internal/port"
)

const (
	defaultModel = "claude-sonnet-4-20250514"
	providerName = config.ProviderClaude
)

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.Config) (port.InferenceClient, error) {
		return NewClient(cfg), nil
	})
}

// Client implements port.InferenceClient using the Anthropic Messages API.
type Client struct {
	client sdk.Client
	model  string
}

// NewClient creates a Claude client from the application config. The SDK's
// own retries are disabled.
func NewClient(cfg *config.Config) *Client {
	return NewClientWithEndpoint(cfg, cfg.Claude.Endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom base URL (for testing).
func NewClientWithEndpoint(cfg *config.Config, baseURL string) *Client {
	model := cfg.Claude.Model
	if model == "" {
		model = defaultModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.Claude.APIKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if cfg.Inference.ReadTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Inference.ConnectTimeout+cfg.Inference.ReadTimeout))
	}
	return &Client{client: sdk.NewClient(opts...), model: model}
}

func (c *Client) Name() string { return providerName }

func (c *Client) Chat(ctx context.Context, req port.ChatRequest) (*port.ChatResponse, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: sdk.Float(req.Temperature),
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return nil, classify(err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &port.ChatResponse{
		Text:       text.String(),
		ModelUsed:  string(msg.Model),
		StopReason: string(msg.StopReason),
	}, nil
}

func classify(err error) error {
	var apiErr *sdk.Error
	if !errors.As(err, &apiErr) {
		return llm.NewCallError(providerName, 0, eris.Wrap(err, "claude: call messages API"))
	}
	if apiErr.StatusCode == 429 {
		retryAfter := 0
		if apiErr.Response != nil {
			retryAfter = llm.ParseRetryAfterHeader(apiErr.Response.Header.Get("Retry-After"))
		}
		return llm.NewRateLimitError(providerName, err, retryAfter)
	}
	return llm.NewCallError(providerName, apiErr.StatusCode, err)
}
