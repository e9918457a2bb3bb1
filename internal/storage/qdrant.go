// Package storage persists embedded documents in Qdrant and exposes the
// similarity-search primitive the retrieval engine builds on.
package storage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"

	"github.com/gridironlabs/statline/internal/docmeta"
)

// reserved payload keys; everything else in a payload is a flattened
// metadata field owned by docmeta.
var reservedPayloadKeys = map[string]bool{
	"text":            true,
	"category":        true,
	"embedding_model": true,
	"created_at":      true,
	"updated_at":      true,
	"is_active":       true,
}

// QdrantStore wraps the Qdrant client with connection management and health
// checks.
type QdrantStore struct {
	client *qdrant.Client
	host   string
	port   int
	now    func() time.Time
}

// NewQdrantStore creates a Qdrant-backed document store. It health-checks
// with exponential backoff on startup and fails fast if Qdrant is
// unreachable.
func NewQdrantStore(host string, port int) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	store := &QdrantStore{
		client: client,
		host:   host,
		port:   port,
		now:    time.Now,
	}

	if err := store.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return store, nil
}

// healthCheckWithRetry retries the health check with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *QdrantStore) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, b)
}

// Health performs a single health check against Qdrant.
func (s *QdrantStore) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// EnsureCollection creates the documents collection (1536-dim cosine vectors)
// and payload indexes if they do not exist. Idempotent.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	for _, name := range collections {
		if name == CollectionName {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: CollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     VectorDimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return s.createPayloadIndexes(ctx)
}

// createPayloadIndexes indexes every filterable field. Without these,
// filtered queries scan the whole collection.
func (s *QdrantStore) createPayloadIndexes(ctx context.Context) error {
	keyword := []string{
		"category",
		"embedding_model",
		"policy",
		"position",
		"player_id",
		"season",
	}
	for _, field := range keyword {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: CollectionName,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("failed to create index for field %s: %w", field, err)
		}
	}

	_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: CollectionName,
		FieldName:      "is_active",
		FieldType:      qdrant.FieldType_FieldTypeBool.Enum(),
	})
	if err != nil {
		return fmt.Errorf("failed to create index for field is_active: %w", err)
	}
	return nil
}

// Close closes the Qdrant client connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Upsert stores doc, fully replacing any prior document with the same id.
// CreatedAt survives re-indexing; UpdatedAt always advances.
func (s *QdrantStore) Upsert(ctx context.Context, doc *StoredDocument) error {
	if len(doc.Embedding) != VectorDimension {
		return fmt.Errorf("%w: document %s has %d dimensions, expected %d",
			ErrDimensionMismatch, doc.ID, len(doc.Embedding), VectorDimension)
	}

	nowTime := s.now().UTC()
	createdAt := nowTime
	if existing, err := s.GetDocument(ctx, doc.ID); err == nil {
		createdAt = existing.CreatedAt
	}
	doc.CreatedAt = createdAt
	doc.UpdatedAt = nowTime
	doc.IsActive = true

	payload := map[string]any{
		"text":            doc.Text,
		"category":        string(doc.Category),
		"embedding_model": doc.EmbeddingModel,
		"created_at":      doc.CreatedAt.Format(time.RFC3339),
		"updated_at":      doc.UpdatedAt.Format(time.RFC3339),
		"is_active":       true,
	}
	if doc.Metadata != nil {
		for key, value := range doc.Metadata.Fields() {
			payload[key] = value
		}
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(doc.ID),
		Vectors: qdrant.NewVectors(doc.Embedding...),
		Payload: qdrant.NewValueMap(payload),
	}

	return s.upsertWithRetry(ctx, []*qdrant.PointStruct{point})
}

// upsertWithRetry performs the upsert with exponential backoff.
func (s *QdrantStore) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: CollectionName,
			Points:         points,
		})
		return err
	}, b)
}

// GetDocument retrieves a document by id, active or not.
// Returns ErrDocumentNotFound when no point exists.
func (s *QdrantStore) GetDocument(ctx context.Context, id string) (*StoredDocument, error) {
	result, err := s.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: CollectionName,
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(id)},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if len(result) == 0 {
		return nil, ErrDocumentNotFound
	}

	doc, err := documentFromPayload(id, result[0].Payload)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Nearest returns the top-k documents by cosine similarity to vector,
// restricted to active documents matching filter. Results come back in
// descending score order.
func (s *QdrantStore) Nearest(ctx context.Context, vector []float32, k int, filter Filter) ([]ScoredDocument, error) {
	if len(vector) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), VectorDimension)
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: CollectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         filterConditions(filter),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	scored := make([]ScoredDocument, 0, len(results))
	for _, result := range results {
		doc, err := documentFromPayload(result.Id.GetUuid(), result.Payload)
		if err != nil {
			continue // skip undecodable points rather than failing the query
		}
		scored = append(scored, ScoredDocument{
			Document: *doc,
			Score:    float64(result.Score),
		})
	}

	return scored, nil
}

// GetActive returns every active document in a category, scrolling through
// the collection in stable batches.
func (s *QdrantStore) GetActive(ctx context.Context, category docmeta.Category) ([]StoredDocument, error) {
	filter := filterConditions(Filter{Category: category})
	batchSize := uint32(100)

	var docs []StoredDocument
	var offset *qdrant.PointId
	for {
		results, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: CollectionName,
			Filter:         filter,
			Limit:          qdrant.PtrOf(batchSize),
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scroll documents: %w", err)
		}

		for _, result := range results {
			doc, err := documentFromPayload(result.Id.GetUuid(), result.Payload)
			if err != nil {
				continue
			}
			docs = append(docs, *doc)
		}

		if uint32(len(results)) < batchSize {
			break
		}
		offset = results[len(results)-1].Id
	}

	return docs, nil
}

// Deactivate logically deletes a document. The point and its vector stay in
// the collection for auditability; only the is_active flag flips.
func (s *QdrantStore) Deactivate(ctx context.Context, id string) error {
	_, err := s.client.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: CollectionName,
		Payload:        qdrant.NewValueMap(map[string]any{"is_active": false}),
		PointsSelector: qdrant.NewPointsSelector(qdrant.NewIDUUID(id)),
	})
	if err != nil {
		return fmt.Errorf("failed to deactivate document %s: %w", id, err)
	}
	return nil
}

// CountByCategory returns the number of active documents per category.
func (s *QdrantStore) CountByCategory(ctx context.Context) (map[docmeta.Category]int, error) {
	counts := make(map[docmeta.Category]int, len(docmeta.Categories))
	for _, category := range docmeta.Categories {
		count, err := s.client.Count(ctx, &qdrant.CountPoints{
			CollectionName: CollectionName,
			Filter:         filterConditions(Filter{Category: category}),
			Exact:          qdrant.PtrOf(true),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to count %s documents: %w", category, err)
		}
		counts[category] = int(count)
	}
	return counts, nil
}

// filterConditions translates a Filter into Qdrant must-conditions.
// Active-only is always enforced.
func filterConditions(f Filter) *qdrant.Filter {
	must := []*qdrant.Condition{
		qdrant.NewMatchBool("is_active", true),
	}
	if f.Category != "" {
		must = append(must, qdrant.NewMatch("category", string(f.Category)))
	}
	if f.PolicyID != "" {
		must = append(must, qdrant.NewMatch("policy", f.PolicyID))
	}
	if f.Position != "" {
		must = append(must, qdrant.NewMatch("position", f.Position))
	}
	if f.PlayerID != "" {
		must = append(must, qdrant.NewMatch("player_id", f.PlayerID))
	}
	if f.Season > 0 {
		must = append(must, qdrant.NewMatch("season", strconv.Itoa(f.Season)))
	}
	return &qdrant.Filter{Must: must}
}

// documentFromPayload rebuilds a StoredDocument, including its typed
// metadata, from a point payload.
func documentFromPayload(id string, payload map[string]*qdrant.Value) (*StoredDocument, error) {
	category := docmeta.Category(payload["category"].GetStringValue())

	fields := make(map[string]string)
	for key, value := range payload {
		if reservedPayloadKeys[key] {
			continue
		}
		fields[key] = value.GetStringValue()
	}
	meta, err := docmeta.FromFields(category, fields)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", id, err)
	}

	createdAt, err := time.Parse(time.RFC3339, payload["created_at"].GetStringValue())
	if err != nil {
		createdAt = time.Time{}
	}
	updatedAt, err := time.Parse(time.RFC3339, payload["updated_at"].GetStringValue())
	if err != nil {
		updatedAt = time.Time{}
	}

	return &StoredDocument{
		ID:             id,
		Text:           payload["text"].GetStringValue(),
		Category:       category,
		Metadata:       meta,
		EmbeddingModel: payload["embedding_model"].GetStringValue(),
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		IsActive:       payload["is_active"].GetBoolValue(),
	}, nil
}
