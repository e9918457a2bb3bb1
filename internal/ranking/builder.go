// Package ranking builds ordered, deduplicated, bounded leaderboards from a
// scored population. Builds are deterministic: the same entities, policy,
// filter, and bound always produce the same leaderboard regardless of input
// order.
package ranking

import (
	"fmt"
	"sort"
	"time"

	"github.com/gridironlabs/statline/internal/scoring"
	"github.com/gridironlabs/statline/internal/stats"
)

// EntityType distinguishes player and team leaderboards.
type EntityType string

const (
	EntityPlayer EntityType = "player"
	EntityTeam   EntityType = "team"
)

// Entity is one candidate for ranking: a player season vector or a team
// aggregate flattened to its stat map.
type Entity struct {
	ID       string
	Type     EntityType
	Name     string
	Position stats.Position
	TeamID   string
	Stats    map[string]float64
}

// ScoredEntity is one leaderboard entry.
type ScoredEntity struct {
	EntityID   string
	EntityType EntityType
	Name       string
	Position   stats.Position
	TeamID     string
	Score      float64
	PolicyID   string
}

// Leaderboard is an immutable ranking under one policy. Entries are strictly
// non-increasing by score, unique by entity id, and at most TopN long.
type Leaderboard struct {
	PolicyID       string
	PositionFilter stats.Position
	TopN           int
	GeneratedAt    time.Time
	Entries        []ScoredEntity
}

// Filter selects which entities are ranked. Entities failing the filter are
// excluded before scoring.
type Filter func(Entity) bool

// Any passes every entity.
func Any(Entity) bool { return true }

// ByPosition keeps entities at the given position.
func ByPosition(p stats.Position) Filter {
	return func(e Entity) bool { return e.Position == p }
}

// ByTeam keeps entities on the given team.
func ByTeam(teamID string) Filter {
	return func(e Entity) bool { return e.TeamID == teamID }
}

// Builder constructs leaderboards through a scoring engine.
type Builder struct {
	engine *scoring.Engine
	now    func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides the timestamp source, letting tests build byte-identical
// leaderboards.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a leaderboard builder backed by engine.
func NewBuilder(engine *scoring.Engine, opts ...Option) *Builder {
	b := &Builder{engine: engine, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build ranks entities under policyID. Duplicate ids are collapsed before
// sorting, keeping the later occurrence (last write wins, mirroring the
// aggregation policy upstream). Ties sort by entity id ascending so the order
// is reproducible across runs.
func (b *Builder) Build(entities []Entity, policyID string, filter Filter, topN int, positionFilter stats.Position) (*Leaderboard, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("top_n must be positive, got %d", topN)
	}
	if filter == nil {
		filter = Any
	}

	// Dedupe by id, later entity wins.
	byID := make(map[string]Entity, len(entities))
	order := make([]string, 0, len(entities))
	for _, e := range entities {
		if _, seen := byID[e.ID]; !seen {
			order = append(order, e.ID)
		}
		byID[e.ID] = e
	}

	entries := make([]ScoredEntity, 0, len(order))
	for _, id := range order {
		e := byID[id]
		if !filter(e) {
			continue
		}
		score, err := b.engine.Score(e.Stats, policyID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, ScoredEntity{
			EntityID:   e.ID,
			EntityType: e.Type,
			Name:       e.Name,
			Position:   e.Position,
			TeamID:     e.TeamID,
			Score:      score,
			PolicyID:   policyID,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].EntityID < entries[j].EntityID
	})

	if len(entries) > topN {
		entries = entries[:topN]
	}

	return &Leaderboard{
		PolicyID:       policyID,
		PositionFilter: positionFilter,
		TopN:           topN,
		GeneratedAt:    b.now(),
		Entries:        entries,
	}, nil
}

// PlayerEntities adapts aggregated season vectors for ranking. Names resolve
// through the optional nameFor func; ids are used when it is nil.
func PlayerEntities(vectors map[string]*stats.PlayerSeasonVector, nameFor func(playerID string) string) []Entity {
	ids := make([]string, 0, len(vectors))
	for id := range vectors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entities := make([]Entity, 0, len(ids))
	for _, id := range ids {
		vec := vectors[id]
		name := id
		if nameFor != nil {
			if n := nameFor(id); n != "" {
				name = n
			}
		}
		entities = append(entities, Entity{
			ID:       id,
			Type:     EntityPlayer,
			Name:     name,
			Position: vec.Position,
			TeamID:   vec.TeamID,
			Stats:    vec.Stats,
		})
	}
	return entities
}

// TeamEntities adapts team aggregates for ranking.
func TeamEntities(teams map[string]*stats.TeamAggregate) []Entity {
	ids := make([]string, 0, len(teams))
	for id := range teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entities := make([]Entity, 0, len(ids))
	for _, id := range ids {
		entities = append(entities, Entity{
			ID:     id,
			Type:   EntityTeam,
			Name:   id,
			TeamID: id,
			Stats:  teams[id].Stats,
		})
	}
	return entities
}
