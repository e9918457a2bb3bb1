package storage

import (
	"time"

	"github.com/gridironlabs/statline/internal/docmeta"
)

// StoredDocument is one indexed document in the corpus. Documents are never
// physically removed; logical deletion flips IsActive so retrieval history
// stays auditable.
type StoredDocument struct {
	ID             string
	Text           string
	Category       docmeta.Category
	Metadata       docmeta.Metadata
	EmbeddingModel string
	Embedding      []float32 // populated on writes only, not returned by reads
	CreatedAt      time.Time
	UpdatedAt      time.Time
	IsActive       bool
}

// ScoredDocument pairs a retrieved document with its similarity score.
type ScoredDocument struct {
	Document StoredDocument
	Score    float64
}

// Filter narrows candidate documents by metadata. Zero values match
// everything.
type Filter struct {
	Category docmeta.Category
	PolicyID string
	Position string
	PlayerID string
	Season   int
}

// CollectionName is the single Qdrant collection for all documents.
const CollectionName = "sports_documents"

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536
