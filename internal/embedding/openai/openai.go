package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultEmbeddingTimeout = 30 * time.Second

// Config configures the OpenAI SDK embedder.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	BatchSize  int
	MaxRetries int
}

// Embedder calls the OpenAI embeddings API through the official SDK.
type Embedder struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	timeout   time.Duration
	batchSize int
	dimension int
}

// NewEmbedder creates an embedder reading its API key from cfg.APIKeyEnv.
func NewEmbedder(cfg Config) (*Embedder, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	model := openai.EmbeddingModel(cfg.Model)
	if model == "" {
		model = openai.EmbeddingModelTextEmbedding3Small
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultEmbeddingTimeout
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 64
	}
	opts := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(cfg.MaxRetries)}
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	cli := openai.NewClient(opts...)
	return &Embedder{
		client:    &cli,
		model:     model,
		timeout:   timeout,
		batchSize: batch,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "openai:" + string(e.model) }

// Prepare is a no-op for remote embedding.
func (e *Embedder) Prepare(corpus []string) error { return nil }

// Dimension returns the dimension seen on the first response, 0 before that.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed returns the embedding of a single text.
func (e *Embedder) Embed(text string) ([]float64, error) {
	out, err := e.request([]string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in requests of at most the configured batch size.
func (e *Embedder) EmbedBatch(texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		vecs, err := e.request(texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *Embedder) request(texts []string) ([][]float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		idx := int(d.Index)
		if idx < 0 || idx >= len(texts) || out[idx] != nil {
			return nil, fmt.Errorf("openai embeddings: invalid index %d", d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, errors.New("openai embeddings: empty embedding")
		}
		if e.dimension == 0 {
			e.dimension = len(d.Embedding)
		}
		out[idx] = d.Embedding
	}
	return out, nil
}
