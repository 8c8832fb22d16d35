// Package oci talks to the OCI Generative AI inference service with a Cohere
// chat request, one attempt per prompt.
package oci

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/generativeaiinference"
	"github.com/rotisserie/eris"

	"poextract/internal/config"
	"poextract/internal/llm"
	"poextract/internal/port"
)

const providerName = config.ProviderOCI

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.Config) (port.InferenceClient, error) {
		return NewClient(cfg)
	})
}

// chatAPI is the part of generativeaiinference.GenerativeAiInferenceClient we use.
type chatAPI interface {
	Chat(ctx context.Context, request generativeaiinference.ChatRequest) (generativeaiinference.ChatResponse, error)
}

// Client implements port.InferenceClient on OCI Generative AI.
type Client struct {
	api           chatAPI
	compartmentID string
	modelID       string
}

// NewClient signs requests with the API key bundle in cfg.OCI and sends them
// to cfg.OCI.Endpoint.
func NewClient(cfg *config.Config) (*Client, error) {
	provider := common.NewRawConfigurationProvider(
		cfg.OCI.Tenancy,
		cfg.OCI.User,
		cfg.OCI.Region,
		cfg.OCI.Fingerprint,
		cfg.OCI.PrivateKey,
		nil,
	)
	api, err := generativeaiinference.NewGenerativeAiInferenceClientWithConfigurationProvider(provider)
	if err != nil {
		return nil, eris.Wrap(err, "oci: create generative AI client")
	}
	if cfg.OCI.Endpoint != "" {
		api.Host = cfg.OCI.Endpoint
	}
	api.HTTPClient = newHTTPClient(cfg.Inference.ConnectTimeout, cfg.Inference.ReadTimeout)

	return newClient(api, cfg.OCI.CompartmentID, cfg.OCI.ModelID), nil
}

func newClient(api chatAPI, compartmentID, modelID string) *Client {
	return &Client{api: api, compartmentID: compartmentID, modelID: modelID}
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
	transport.ResponseHeaderTimeout = read
	return &http.Client{Transport: transport}
}

func (c *Client) Name() string { return providerName }

func (c *Client) Chat(ctx context.Context, req port.ChatRequest) (*port.ChatResponse, error) {
	resp, err := c.api.Chat(ctx, c.buildRequest(req))
	if err != nil {
		return nil, classify(err)
	}

	text, finish, err := responseText(resp.ChatResult.ChatResponse)
	if err != nil {
		return nil, llm.NewCallError(providerName, http.StatusOK, err)
	}

	model := c.modelID
	if resp.ChatResult.ModelId != nil {
		model = *resp.ChatResult.ModelId
	}
	return &port.ChatResponse{Text: text, ModelUsed: model, StopReason: finish}, nil
}

func (c *Client) buildRequest(req port.ChatRequest) generativeaiinference.ChatRequest {
	noRetry := common.NoRetryPolicy()
	return generativeaiinference.ChatRequest{
		ChatDetails: generativeaiinference.ChatDetails{
			CompartmentId: common.String(c.compartmentID),
			ServingMode: generativeaiinference.OnDemandServingMode{
				ModelId: common.String(c.modelID),
			},
			ChatRequest: generativeaiinference.CohereChatRequest{
				Message:     common.String(req.Prompt),
				MaxTokens:   common.Int(req.MaxTokens),
				Temperature: common.Float64(req.Temperature),
			},
		},
		RequestMetadata: common.RequestMetadata{RetryPolicy: &noRetry},
	}
}

func responseText(resp generativeaiinference.BaseChatResponse) (string, string, error) {
	var cohere *generativeaiinference.CohereChatResponse
	switch r := resp.(type) {
	case generativeaiinference.CohereChatResponse:
		cohere = &r
	case *generativeaiinference.CohereChatResponse:
		cohere = r
	case nil:
		return "", "", eris.New("oci: empty chat response")
	default:
		return "", "", eris.Errorf("oci: unexpected chat response type %T", resp)
	}
	if cohere == nil || cohere.Text == nil {
		return "", "", eris.New("oci: chat response has no text")
	}
	return *cohere.Text, string(cohere.FinishReason), nil
}

func classify(err error) error {
	var svcErr common.ServiceError
	if !errors.As(err, &svcErr) {
		return llm.NewCallError(providerName, 0, eris.Wrap(err, "oci: call chat API"))
	}
	if svcErr.GetHTTPStatusCode() == http.StatusTooManyRequests {
		return llm.NewRateLimitError(providerName, err, 0)
	}
	return llm.NewCallError(providerName, svcErr.GetHTTPStatusCode(), err)
}
