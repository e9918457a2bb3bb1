// Package embedding generates text embeddings through OpenAI. Queries and
// documents must share one embedding model; ModelID is recorded alongside
// every stored vector so the retrieval layer can reject mismatched spaces.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
)

const (
	// Model is the OpenAI embedding model used for documents and queries.
	Model = "text-embedding-3-small"

	// Dimension is the vector size produced by Model. Matches
	// storage.VectorDimension.
	Dimension = 1536

	// DefaultBatchSize balances requests-per-minute against tokens-per-minute
	// rate limits.
	DefaultBatchSize = 500
)

// Embedder generates embeddings with batching and exponential backoff on rate
// limit errors.
type Embedder struct {
	client    *Client
	batchSize int
}

// NewEmbedder creates an Embedder. A batchSize of 0 uses DefaultBatchSize.
func NewEmbedder(client *Client, batchSize int) *Embedder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Embedder{
		client:    client,
		batchSize: batchSize,
	}
}

// ModelID identifies the embedding model/version. Stored with every document
// and checked at query time.
func (e *Embedder) ModelID() string {
	return Model
}

// Embed generates the embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedAll(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedAll generates embeddings for texts, batching requests and retrying
// rate-limited batches with exponential backoff.
func (e *Embedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	var all [][]float32

	for i := 0; i < len(texts); i += e.batchSize {
		end := min(i+e.batchSize, len(texts))
		batch := texts[i:end]

		vectors, err := e.embedBatchWithRetry(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", i, end, err)
		}
		all = append(all, vectors...)
	}

	return all, nil
}

// embedBatchWithRetry embeds one batch, retrying with backoff on HTTP 429.
// Other errors are permanent and fail immediately.
func (e *Embedder) embedBatchWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32

	operation := func() error {
		resp, err := e.client.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: texts,
			},
			Model: Model,
		})
		if err != nil {
			if isRateLimitError(err) {
				return err // retry with backoff
			}
			return backoff.Permanent(err)
		}

		vectors = make([][]float32, len(resp.Data))
		for i, data := range resp.Data {
			vectors[i] = toFloat32(data.Embedding)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	err := backoff.Retry(operation, backoff.WithContext(b, ctx))
	return vectors, err
}

func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// toFloat32 narrows the API's float64 vectors for storage.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
