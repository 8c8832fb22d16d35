package extraction

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"poextract/internal/domain"
	"poextract/internal/logger"
	"poextract/internal/metrics"
	"poextract/internal/port"
)

// Options are the fixed generation parameters sent with every prompt.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Extractor turns the raw text of one document into structured data with a
// single model call. It never retries.
type Extractor struct {
	client port.InferenceClient
	opts   Options
	log    *zap.Logger
}

// NewExtractor creates an Extractor over client.
func NewExtractor(client port.InferenceClient, opts Options, log *zap.Logger) *Extractor {
	return &Extractor{client: client, opts: opts, log: logger.OrNop(log)}
}

// Extract builds the prompt for docType, calls the model once and parses the
// response. Empty pdfText is not an error; it is sent as-is.
func (e *Extractor) Extract(ctx context.Context, docType domain.DocumentType, pdfText string) (*domain.ExtractionResult, error) {
	log := e.log.With(zap.String("doc_type", string(docType)), zap.String("provider", e.client.Name()))

	prompt, err := BuildPrompt(docType, pdfText)
	if err != nil {
		return nil, err
	}
	if pdfText == "" {
		log.Warn("document has no extractable text; sending empty text to model")
	}

	start := time.Now()
	resp, err := e.client.Chat(ctx, port.ChatRequest{
		Prompt:      prompt,
		MaxTokens:   e.opts.MaxTokens,
		Temperature: e.opts.Temperature,
	})
	metrics.InferenceDuration.WithLabelValues(e.client.Name(), string(docType)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DocumentExtractions.WithLabelValues(string(docType), "inference_error").Inc()
		log.Error("inference call failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, eris.Wrapf(err, "extraction: %s inference", docType)
	}

	result, err := ParseExtraction(docType, resp.Text)
	if err != nil {
		metrics.DocumentExtractions.WithLabelValues(string(docType), "decode_error").Inc()
		var de *DecodeError
		if errors.As(err, &de) {
			log.Error("model response could not be decoded",
				zap.String("reason", de.Reason),
				zap.String("stop_reason", resp.StopReason),
			)
		}
		return nil, eris.Wrapf(err, "extraction: %s response", docType)
	}

	metrics.DocumentExtractions.WithLabelValues(string(docType), "ok").Inc()
	log.Info("document extracted",
		zap.String("model", resp.ModelUsed),
		zap.String("stop_reason", resp.StopReason),
		zap.Int("text_chars", len(pdfText)),
		zap.Int("header_fields", result.Header.Len()),
		zap.Int("items", len(result.Items)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}
