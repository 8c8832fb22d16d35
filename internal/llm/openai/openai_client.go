package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"poextract/internal/config"
	"poextract/internal/llm"
	"poextract/internal/port"
)

const (
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o"
	providerName = config.ProviderOpenAI
)

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.Config) (port.InferenceClient, error) {
		return NewClient(cfg), nil
	})
}

// Client implements port.InferenceClient using an OpenAI-compatible Chat Completions API.
type Client struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewClient creates an OpenAI client from the application config.
func NewClient(cfg *config.Config) *Client {
	endpoint := cfg.OpenAI.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	return NewClientWithEndpoint(cfg, endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.Config, endpoint string) *Client {
	model := cfg.OpenAI.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		apiKey:   cfg.OpenAI.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   newHTTPClient(cfg.Inference.ConnectTimeout, cfg.Inference.ReadTimeout),
	}
}

func newHTTPClient(connect, read time.Duration) *http.Client {
	if connect <= 0 {
		connect = 10 * time.Second
	}
	if read <= 0 {
		read = 240 * time.Second
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: connect}).DialContext
	return &http.Client{Timeout: connect + read, Transport: transport}
}

func (c *Client) Name() string { return providerName }

func (c *Client) Chat(ctx context.Context, req port.ChatRequest) (*port.ChatResponse, error) {
	reqBody := map[string]interface{}{
		"model":       c.model,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": req.Prompt,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, eris.Wrap(err, "openai: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "openai: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, llm.NewCallError(providerName, 0, eris.Wrap(err, "openai: call chat completions"))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, llm.NewCallError(providerName, resp.StatusCode, eris.Wrap(err, "openai: read response"))
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := eris.Errorf("openai: API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := llm.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, llm.NewRateLimitError(providerName, baseErr, retryAfter)
		}
		return nil, llm.NewCallError(providerName, resp.StatusCode, baseErr)
	}

	return parseResponse(respBody, c.model)
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// parseResponse returns the first choice's text untouched; a truncated
// completion is left for the response parser to reject.
func parseResponse(body []byte, model string) (*port.ChatResponse, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, llm.NewCallError(providerName, http.StatusOK, eris.Wrap(err, "openai: unmarshal response"))
	}

	if len(resp.Choices) == 0 {
		return nil, llm.NewCallError(providerName, http.StatusOK, eris.New("openai: empty response from API: no choices"))
	}

	if resp.Model != "" {
		model = resp.Model
	}
	return &port.ChatResponse{
		Text:       resp.Choices[0].Message.Content,
		ModelUsed:  model,
		StopReason: resp.Choices[0].FinishReason,
	}, nil
}

// truncate cuts s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
