// Package session keeps per-conversation turn history in Redis. History feeds
// persona smoothing; losing it degrades personalization, never correctness.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gridironlabs/statline/internal/collab"
	"github.com/gridironlabs/statline/internal/persona"
)

const (
	turnsPrefix = "chat:turns:"

	// DefaultMaxTurns bounds stored history per session.
	DefaultMaxTurns = 20

	// DefaultTTL expires idle sessions.
	DefaultTTL = 24 * time.Hour
)

// Turn is one question/answer exchange with its persona annotation.
type Turn struct {
	Query      string          `json:"query"`
	Answer     string          `json:"answer"`
	Persona    persona.Persona `json:"persona"`
	Confidence float64         `json:"confidence"`
	Grounded   bool            `json:"grounded"`
	AskedAt    time.Time       `json:"asked_at"`
}

// TurnStore is a Redis-backed conversation history. Each session holds a
// bounded list of recent turns with a sliding TTL.
type TurnStore struct {
	client   *redis.Client
	maxTurns int
	ttl      time.Duration
}

// NewTurnStore creates a TurnStore. maxTurns <= 0 uses DefaultMaxTurns;
// ttl <= 0 uses DefaultTTL.
func NewTurnStore(client *redis.Client, maxTurns int, ttl time.Duration) *TurnStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TurnStore{client: client, maxTurns: maxTurns, ttl: ttl}
}

// Append records a turn, trims history to the bound, and refreshes the
// session TTL.
func (s *TurnStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	if sessionID == "" {
		return errors.New("empty session id")
	}
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	key := turnsPrefix + sessionID
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.maxTurns-1))
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return collab.Unavailable("session store", err)
	}
	return nil
}

// Recent returns up to n turns in chronological order, oldest first. A
// session with no history returns an empty slice, not an error.
func (s *TurnStore) Recent(ctx context.Context, sessionID string, n int) ([]Turn, error) {
	if sessionID == "" {
		return nil, errors.New("empty session id")
	}
	if n <= 0 || n > s.maxTurns {
		n = s.maxTurns
	}

	raw, err := s.client.LRange(ctx, turnsPrefix+sessionID, 0, int64(n-1)).Result()
	if err != nil {
		return nil, collab.Unavailable("session store", err)
	}

	// LPush stores newest first; reverse to chronological.
	turns := make([]Turn, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var turn Turn
		if err := json.Unmarshal([]byte(raw[i]), &turn); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Clear drops a session's history.
func (s *TurnStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("empty session id")
	}
	if err := s.client.Del(ctx, turnsPrefix+sessionID).Err(); err != nil {
		return collab.Unavailable("session store", err)
	}
	return nil
}

// PersonaHistory converts turns into classification results for smoothing.
func PersonaHistory(turns []Turn) []persona.Result {
	results := make([]persona.Result, len(turns))
	for i, turn := range turns {
		results[i] = persona.Result{Persona: turn.Persona, Confidence: turn.Confidence}
	}
	return results
}
