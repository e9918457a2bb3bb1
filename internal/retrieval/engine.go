// Package retrieval selects the stored documents most relevant to a query
// and assembles bounded grounding context from them.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gridironlabs/statline/internal/collab"
	"github.com/gridironlabs/statline/internal/storage"
)

// DefaultMinSimilarity is the relevance floor below which candidates are
// discarded rather than padded into context.
const DefaultMinSimilarity = 0.4

// Embedder produces query embeddings. Must be the same model used at index
// time; ModelID is checked against every candidate document.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelID() string
}

// Store is the similarity-search primitive the engine consumes. Results are
// active documents in descending score order.
type Store interface {
	Nearest(ctx context.Context, vector []float32, k int, filter storage.Filter) ([]storage.ScoredDocument, error)
}

// Result is the outcome of one retrieval. ContextFound=false is a normal
// outcome, not an error: the caller must branch to an ungrounded answer.
type Result struct {
	Documents    []storage.StoredDocument
	Context      string
	ContextFound bool
}

// Engine retrieves grounding context for queries. Reads are idempotent and
// side-effect-free; the engine holds no state beyond its collaborators.
type Engine struct {
	store         Store
	embedder      Embedder
	minSimilarity float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinSimilarity overrides the relevance floor.
func WithMinSimilarity(floor float64) Option {
	return func(e *Engine) { e.minSimilarity = floor }
}

// NewEngine creates a retrieval engine over store and embedder.
func NewEngine(store Store, embedder Embedder, opts ...Option) *Engine {
	e := &Engine{
		store:         store,
		embedder:      embedder,
		minSimilarity: DefaultMinSimilarity,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Retrieve returns up to k documents relevant to query, packed whole into at
// most maxContextChars of context. filter narrows candidates by metadata; a
// nil filter considers the whole corpus.
func (e *Engine) Retrieve(ctx context.Context, query string, k, maxContextChars int, filter *storage.Filter) (*Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if maxContextChars <= 0 {
		return nil, fmt.Errorf("max context chars must be positive, got %d", maxContextChars)
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, collab.Unavailable("embedding service", err)
	}

	var f storage.Filter
	if filter != nil {
		f = *filter
	}
	candidates, err := e.store.Nearest(ctx, vector, k, f)
	if err != nil {
		return nil, collab.Unavailable("document store", err)
	}

	// Mixing embedding spaces silently degrades every similarity score, so a
	// mismatched document fails the query loudly instead of being skipped.
	queryModel := e.embedder.ModelID()
	for _, c := range candidates {
		if c.Document.EmbeddingModel != queryModel {
			return nil, &ModelMismatchError{
				QueryModel: queryModel,
				StoreModel: c.Document.EmbeddingModel,
				DocumentID: c.Document.ID,
			}
		}
	}

	kept := candidates[:0]
	for _, c := range candidates {
		if c.Score >= e.minSimilarity {
			kept = append(kept, c)
		}
	}

	// Similarity descending; ties go to the most recently updated document.
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Score != kept[j].Score {
			return kept[i].Score > kept[j].Score
		}
		return kept[i].Document.UpdatedAt.After(kept[j].Document.UpdatedAt)
	})

	// Greedy whole-document packing: stop before the budget would overflow.
	// Partial documents are never included.
	var included []storage.StoredDocument
	var parts []string
	used := 0
	for _, c := range kept {
		cost := len(c.Document.Text)
		if len(parts) > 0 {
			cost += len(contextSeparator)
		}
		if used+cost > maxContextChars {
			break
		}
		used += cost
		parts = append(parts, c.Document.Text)
		included = append(included, c.Document)
	}

	return &Result{
		Documents:    included,
		Context:      strings.Join(parts, contextSeparator),
		ContextFound: len(included) > 0,
	}, nil
}

const contextSeparator = "\n\n"
