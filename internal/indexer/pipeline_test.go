package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/statline/internal/collab"
	"github.com/gridironlabs/statline/internal/docmeta"
	"github.com/gridironlabs/statline/internal/ranking"
	"github.com/gridironlabs/statline/internal/report"
	"github.com/gridironlabs/statline/internal/scoring"
	"github.com/gridironlabs/statline/internal/stats"
	"github.com/gridironlabs/statline/internal/storage"
)

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) ModelID() string { return "test-embedding-model" }

type fakeStore struct {
	docs map[string]*storage.StoredDocument
	err  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]*storage.StoredDocument)}
}

func (f *fakeStore) Upsert(_ context.Context, doc *storage.StoredDocument) error {
	if f.err != nil {
		return f.err
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func newPipeline(store Store) *Pipeline {
	builder := ranking.NewBuilder(scoring.NewEngine(scoring.Config{WinPctTieCredit: true}))
	return NewPipeline(&fakeEmbedder{}, store, builder, nil)
}

func TestDocumentID_StableForNaturalKeys(t *testing.T) {
	meta := docmeta.PlayerListMeta{Season: 2025, PolicyID: scoring.PolicyStandard}
	assert.Equal(t, DocumentID(meta), DocumentID(meta))

	other := docmeta.PlayerListMeta{Season: 2025, PolicyID: scoring.PolicyPPR}
	assert.NotEqual(t, DocumentID(meta), DocumentID(other))
}

func TestDocumentID_FreshWithoutNaturalKey(t *testing.T) {
	meta := docmeta.PlayerNewsMeta{PublishedAt: "2025-11-01"} // no player id, no key
	assert.NotEqual(t, DocumentID(meta), DocumentID(meta))
}

func TestIndex_UpsertsEmbeddedDocument(t *testing.T) {
	store := newFakeStore()
	meta := docmeta.StandingsMeta{Season: 2025}

	doc, err := newPipeline(store).Index(context.Background(), "# Standings", meta)
	require.NoError(t, err)

	stored, ok := store.docs[doc.ID]
	require.True(t, ok)
	assert.Equal(t, "# Standings", stored.Text)
	assert.Equal(t, docmeta.Standings, stored.Category)
	assert.Equal(t, "test-embedding-model", stored.EmbeddingModel)
	assert.Equal(t, []float32{1, 0, 0}, stored.Embedding)
	assert.True(t, stored.IsActive)
}

func TestIndex_RejectsInvalidMetadata(t *testing.T) {
	store := newFakeStore()
	_, err := newPipeline(store).Index(context.Background(), "text", docmeta.StandingsMeta{})
	require.Error(t, err)
	assert.Empty(t, store.docs)
}

func TestIndex_CollaboratorFailuresWrap(t *testing.T) {
	builder := ranking.NewBuilder(scoring.NewEngine(scoring.Config{}))
	meta := docmeta.StandingsMeta{Season: 2025}

	p := NewPipeline(&fakeEmbedder{err: errors.New("quota")}, newFakeStore(), builder, nil)
	_, err := p.Index(context.Background(), "text", meta)
	assert.True(t, collab.IsUnavailable(err))

	p = NewPipeline(&fakeEmbedder{}, &fakeStore{err: errors.New("down")}, builder, nil)
	_, err = p.Index(context.Background(), "text", meta)
	assert.True(t, collab.IsUnavailable(err))
}

func populateInput() PopulateInput {
	return PopulateInput{
		Season: 2025,
		Records: []stats.StatRecord{
			{PlayerID: "p1", TeamID: "BUF", Position: stats.QB, Week: 1, Stats: map[string]float64{
				stats.StatPassingYards: 300, stats.StatPassingTD: 3,
			}},
			{PlayerID: "p2", TeamID: "ATL", Position: stats.RB, Week: 1, Stats: map[string]float64{
				stats.StatRushingYards: 120, stats.StatRushingTD: 1, stats.StatReceptions: 4,
			}},
		},
		Standings: []TeamRecord{
			{TeamID: "BUF", Wins: 11, Losses: 6},
			{TeamID: "ATL", Wins: 8, Losses: 8, Ties: 1},
		},
		Schedule: []report.ScheduleGame{
			{Week: 1, HomeID: "BUF", AwayID: "NYJ"},
			{Week: 2, HomeID: "ATL", AwayID: "NO"},
		},
		Injuries: []report.InjuryItem{
			{PlayerName: "CeeDee Lamb", Position: stats.WR, TeamID: "DAL", Status: "Questionable"},
			{PlayerName: "Josh Jacobs", Position: stats.RB, TeamID: "GB", Status: "Out"},
		},
		InjuryReportDate: "2025-11-02",
		News: []NewsItem{
			{PlayerID: "p1", PlayerName: "Josh Allen", Title: "Allen shoulder update",
				Body: "Allen practiced in full.", PublishedAt: "2025-11-01", Source: "espn"},
		},
		PlayerNames: map[string]string{"p1": "Josh Allen", "p2": "Bijan Robinson"},
		TopN:        10,
	}
}

func TestPopulateSeason_IndexesFullCorpus(t *testing.T) {
	store := newFakeStore()
	result, err := newPipeline(store).PopulateSeason(context.Background(), populateInput())
	require.NoError(t, err)

	// 3 policies x (overall + 5 positions) player lists, 2 team rankings,
	// standings, schedule (full + 2 weeks), injuries (full + 2 teams), 1 news.
	assert.Equal(t, 28, result.Documents)
	assert.Empty(t, result.FailedDocs)
	assert.Empty(t, result.RejectedRecords)
	assert.Len(t, store.docs, 28)

	overall := store.docs[DocumentID(docmeta.PlayerListMeta{Season: 2025, PolicyID: scoring.PolicyStandard})]
	require.NotNil(t, overall)
	assert.Contains(t, overall.Text, "Josh Allen")
	assert.Contains(t, overall.Text, "Bijan Robinson")

	standings := store.docs[DocumentID(docmeta.StandingsMeta{Season: 2025})]
	require.NotNil(t, standings)
	assert.Contains(t, standings.Text, "BUF - 11-6")

	week2 := store.docs[DocumentID(docmeta.ScheduleMeta{Season: 2025, Week: 2})]
	require.NotNil(t, week2)
	assert.Contains(t, week2.Text, "NO at ATL")
	assert.NotContains(t, week2.Text, "NYJ")

	dal := store.docs[DocumentID(docmeta.PlayerInjuriesMeta{ReportDate: "2025-11-02", TeamID: "DAL"})]
	require.NotNil(t, dal)
	assert.Contains(t, dal.Text, "CeeDee Lamb")
	assert.NotContains(t, dal.Text, "Josh Jacobs")
}

func TestPopulateSeason_ReindexKeepsDocumentCountStable(t *testing.T) {
	store := newFakeStore()
	p := newPipeline(store)

	_, err := p.PopulateSeason(context.Background(), populateInput())
	require.NoError(t, err)
	_, err = p.PopulateSeason(context.Background(), populateInput())
	require.NoError(t, err)

	// Every document is natural-keyed, so the second run overwrites in place.
	assert.Len(t, store.docs, 28)
}

func TestPopulateSeason_CollectsRejectedRecords(t *testing.T) {
	in := PopulateInput{
		Season: 2025,
		Records: []stats.StatRecord{
			{PlayerID: "", Week: 1, Stats: map[string]float64{stats.StatPassingYards: 100}},
			{PlayerID: "p1", TeamID: "BUF", Position: stats.QB, Week: 1, Stats: map[string]float64{
				stats.StatPassingYards: 250,
			}},
		},
	}

	store := newFakeStore()
	result, err := newPipeline(store).PopulateSeason(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, result.RejectedRecords, 1)
	assert.Equal(t, "empty player_id", result.RejectedRecords[0].Err.Reason)
	// Player lists and team rankings still index from the valid record.
	assert.Equal(t, 20, result.Documents)
}

func TestPopulateSeason_StoreDownCollectsFailures(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	result, err := newPipeline(store).PopulateSeason(context.Background(), PopulateInput{
		Season: 2025,
		Records: []stats.StatRecord{
			{PlayerID: "p1", TeamID: "BUF", Position: stats.QB, Week: 1, Stats: map[string]float64{
				stats.StatPassingYards: 250,
			}},
		},
	})
	require.NoError(t, err)
	assert.Zero(t, result.Documents)
	assert.Len(t, result.FailedDocs, 20)
}

func TestPopulateSeason_RejectsBadSeason(t *testing.T) {
	_, err := newPipeline(newFakeStore()).PopulateSeason(context.Background(), PopulateInput{})
	require.Error(t, err)
}
