package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	docotel "github.com/docugate-io/docugate/internal/otel"
)

var tracer = docotel.Tracer("github.com/docugate-io/docugate/internal/embedding")

// OpenAIProvider implements Provider against the OpenAI embeddings API.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	dims    int
	timeout time.Duration
}

// NewOpenAIProvider creates an OpenAI embedding provider with the given API
// key, model, expected dimensionality, and per-call timeout (zero means
// TimeoutEmbedCall).
func NewOpenAIProvider(apiKey, model string, dims int, timeout time.Duration) *OpenAIProvider {
	return &OpenAIProvider{
		client:  openai.NewClient(apiKey),
		model:   model,
		dims:    dims,
		timeout: timeout,
	}
}

// NewOpenAIProviderWithBaseURL creates an OpenAI provider with a custom base
// URL (e.g. for tests pointing at a mock server). baseURL should be the
// scheme+host without path; the client appends /v1 as needed.
func NewOpenAIProviderWithBaseURL(apiKey, baseURL, model string, dims int) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL + "/v1"
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
		dims:   dims,
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string { return "openai" }

// Model returns the embedding model identifier.
func (p *OpenAIProvider) Model() string { return p.model }

// Dims returns the expected embedding dimensionality.
func (p *OpenAIProvider) Dims() int { return p.dims }

// Embed requests an embedding for text from the OpenAI API.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	ctx, span := tracer.Start(ctx, "embedding.embed",
		trace.WithAttributes(
			attribute.String("embedding.provider", "openai"),
			attribute.String("embedding.model", p.model),
		))
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	timeout := p.timeout
	if timeout <= 0 {
		timeout = TimeoutEmbedCall
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: []string{text},
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("openai embeddings call: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings call: no data returned")
	}

	vec := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float64(v)
	}
	span.SetAttributes(attribute.Int("embedding.dims", len(vec)))
	return vec, nil
}
