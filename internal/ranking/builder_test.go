package ranking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/statline/internal/scoring"
	"github.com/gridironlabs/statline/internal/stats"
)

func fixedClock() time.Time {
	return time.Date(2025, 11, 2, 9, 0, 0, 0, time.UTC)
}

func qb(id string, passYards, passTD float64) Entity {
	return Entity{
		ID:       id,
		Type:     EntityPlayer,
		Name:     id,
		Position: stats.QB,
		Stats: map[string]float64{
			stats.StatPassingYards: passYards,
			stats.StatPassingTD:    passTD,
		},
	}
}

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	return NewBuilder(scoring.NewEngine(scoring.Config{}), WithClock(fixedClock))
}

func TestBuild_OrdersByScoreThenID(t *testing.T) {
	builder := newBuilder(t)

	// p1 and p3 tie at 42.0, p2 scores 30.0.
	entities := []Entity{
		qb("p3", 550, 5), // 42.0
		qb("p1", 550, 5), // 42.0
		qb("p2", 450, 3), // 30.0
	}

	lb, err := builder.Build(entities, scoring.PolicyStandard, Any, 10, "")
	require.NoError(t, err)
	require.Len(t, lb.Entries, 3)

	assert.Equal(t, "p1", lb.Entries[0].EntityID)
	assert.Equal(t, "p3", lb.Entries[1].EntityID)
	assert.Equal(t, "p2", lb.Entries[2].EntityID)
	assert.Equal(t, 42.0, lb.Entries[0].Score)
	assert.Equal(t, 42.0, lb.Entries[1].Score)
	assert.Equal(t, 30.0, lb.Entries[2].Score)
}

func TestBuild_DeterministicAcrossInputOrder(t *testing.T) {
	builder := newBuilder(t)
	entities := []Entity{
		qb("p1", 550, 5),
		qb("p2", 450, 3),
		qb("p3", 550, 5),
		qb("p4", 300, 1),
	}
	reversed := make([]Entity, len(entities))
	for i, e := range entities {
		reversed[len(entities)-1-i] = e
	}

	first, err := builder.Build(entities, scoring.PolicyStandard, Any, 3, "")
	require.NoError(t, err)
	second, err := builder.Build(reversed, scoring.PolicyStandard, Any, 3, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuild_DeduplicatesLastWriteWins(t *testing.T) {
	builder := newBuilder(t)
	entities := []Entity{
		qb("p1", 100, 0), // superseded
		qb("p2", 200, 0),
		qb("p1", 550, 5), // wins
	}

	lb, err := builder.Build(entities, scoring.PolicyStandard, Any, 10, "")
	require.NoError(t, err)
	require.Len(t, lb.Entries, 2)

	ids := map[string]bool{}
	for _, e := range lb.Entries {
		require.False(t, ids[e.EntityID], "duplicate entity %s", e.EntityID)
		ids[e.EntityID] = true
	}
	assert.Equal(t, "p1", lb.Entries[0].EntityID)
	assert.Equal(t, 42.0, lb.Entries[0].Score)
}

func TestBuild_TopNBound(t *testing.T) {
	builder := newBuilder(t)
	entities := []Entity{
		qb("p1", 500, 4),
		qb("p2", 400, 3),
		qb("p3", 300, 2),
		qb("p4", 200, 1),
	}

	lb, err := builder.Build(entities, scoring.PolicyStandard, Any, 2, "")
	require.NoError(t, err)
	assert.Len(t, lb.Entries, 2)
	assert.Equal(t, 2, lb.TopN)

	// Fewer candidates than top_n: length matches the population.
	lb, err = builder.Build(entities[:1], scoring.PolicyStandard, Any, 10, "")
	require.NoError(t, err)
	assert.Len(t, lb.Entries, 1)
}

func TestBuild_FilterExcludesBeforeScoring(t *testing.T) {
	builder := newBuilder(t)
	entities := []Entity{
		qb("p1", 550, 5),
		{ID: "p2", Type: EntityPlayer, Position: stats.RB,
			Stats: map[string]float64{stats.StatRushingYards: 1200}},
	}

	lb, err := builder.Build(entities, scoring.PolicyStandard, ByPosition(stats.QB), 10, stats.QB)
	require.NoError(t, err)
	require.Len(t, lb.Entries, 1)
	assert.Equal(t, "p1", lb.Entries[0].EntityID)
	assert.Equal(t, stats.QB, lb.PositionFilter)
}

func TestBuild_ScoresNonIncreasing(t *testing.T) {
	builder := newBuilder(t)
	entities := []Entity{
		qb("p5", 123, 2), qb("p2", 480, 1), qb("p9", 480, 1),
		qb("p1", 77, 0), qb("p4", 512, 4),
	}

	lb, err := builder.Build(entities, scoring.PolicyStandard, Any, 10, "")
	require.NoError(t, err)
	for i := 1; i < len(lb.Entries); i++ {
		assert.GreaterOrEqual(t, lb.Entries[i-1].Score, lb.Entries[i].Score)
	}
}

func TestBuild_UnknownPolicyFailsRequest(t *testing.T) {
	builder := newBuilder(t)

	_, err := builder.Build([]Entity{qb("p1", 100, 1)}, "superflex", Any, 5, "")
	var upe *scoring.UnknownPolicyError
	require.True(t, errors.As(err, &upe))
}

func TestBuild_RejectsNonPositiveTopN(t *testing.T) {
	builder := newBuilder(t)
	_, err := builder.Build(nil, scoring.PolicyStandard, Any, 0, "")
	require.Error(t, err)
}

func TestBuild_NewBuildNeverMutatesPrior(t *testing.T) {
	builder := newBuilder(t)
	entities := []Entity{qb("p1", 550, 5), qb("p2", 450, 3)}

	first, err := builder.Build(entities, scoring.PolicyStandard, Any, 10, "")
	require.NoError(t, err)
	firstTop := first.Entries[0].EntityID

	_, err = builder.Build(entities, scoring.PolicyPPR, ByPosition(stats.QB), 1, stats.QB)
	require.NoError(t, err)

	assert.Equal(t, firstTop, first.Entries[0].EntityID)
	assert.Len(t, first.Entries, 2)
}

func TestTeamEntities_WinPctLeaderboard(t *testing.T) {
	builder := NewBuilder(scoring.NewEngine(scoring.Config{WinPctTieCredit: true}), WithClock(fixedClock))

	teams := map[string]*stats.TeamAggregate{
		"KC":  {TeamID: "KC", Stats: map[string]float64{stats.StatWins: 11, stats.StatLosses: 6}},
		"DET": {TeamID: "DET", Stats: map[string]float64{stats.StatWins: 12, stats.StatLosses: 5}},
		"CAR": {TeamID: "CAR", Stats: map[string]float64{}},
	}

	lb, err := builder.Build(TeamEntities(teams), scoring.PolicyWinPct, Any, 32, "")
	require.NoError(t, err)
	require.Len(t, lb.Entries, 3)
	assert.Equal(t, "DET", lb.Entries[0].EntityID)
	assert.Equal(t, "KC", lb.Entries[1].EntityID)
	// Gameless team ranks last at 0.0 instead of being excluded.
	assert.Equal(t, "CAR", lb.Entries[2].EntityID)
	assert.Equal(t, 0.0, lb.Entries[2].Score)
}
