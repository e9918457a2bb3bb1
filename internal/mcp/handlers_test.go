package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridironlabs/statline/internal/answer"
	"github.com/gridironlabs/statline/internal/docmeta"
	"github.com/gridironlabs/statline/internal/persona"
	"github.com/gridironlabs/statline/internal/retrieval"
	"github.com/gridironlabs/statline/internal/session"
	"github.com/gridironlabs/statline/internal/storage"
)

type fakeRetriever struct {
	result  *retrieval.Result
	err     error
	gotK    int
	gotFltr *storage.Filter
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, k, _ int, filter *storage.Filter) (*retrieval.Result, error) {
	f.gotK = k
	f.gotFltr = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeGenerator struct {
	gotReq answer.Request
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, req answer.Request) (*answer.Answer, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &answer.Answer{Text: "generated answer", Persona: req.Persona, Grounded: req.ContextFound}, nil
}

type fakeHistory struct {
	turns    []session.Turn
	appended []session.Turn
	err      error
}

func (f *fakeHistory) Append(_ context.Context, _ string, turn session.Turn) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, turn)
	return nil
}

func (f *fakeHistory) Recent(_ context.Context, _ string, _ int) ([]session.Turn, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.turns, nil
}

type fakeStatusStore struct {
	counts    map[docmeta.Category]int
	countErr  error
	healthErr error
}

func (f *fakeStatusStore) Health(_ context.Context) error { return f.healthErr }

func (f *fakeStatusStore) CountByCategory(_ context.Context) (map[docmeta.Category]int, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	return f.counts, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func groundedResult() *retrieval.Result {
	return &retrieval.Result{
		Documents: []storage.StoredDocument{{
			ID:        "d1",
			Text:      "1. Josh Allen (QB, BUF) - 312.4 pts",
			Category:  docmeta.PlayerList,
			UpdatedAt: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		}},
		Context:      "1. Josh Allen (QB, BUF) - 312.4 pts",
		ContextFound: true,
	}
}

func testConfig(r Retriever, g Generator, h History) *Config {
	return &Config{
		Retriever:       r,
		Generator:       g,
		History:         h,
		TopK:            5,
		MaxContextChars: 8000,
		PersonaWindow:   3,
	}
}

func TestAskQuestion_GroundedAnswerWithSources(t *testing.T) {
	retriever := &fakeRetriever{result: groundedResult()}
	generator := &fakeGenerator{}
	handler := makeAskHandler(testConfig(retriever, generator, nil), discardLogger())

	_, out, err := handler(context.Background(), nil, AskQuestionInput{
		Question: "Who is the top QB this season?",
	})
	require.NoError(t, err)

	assert.Equal(t, "generated answer", out.Answer)
	assert.True(t, out.Grounded)
	require.Len(t, out.Sources, 1)
	assert.Equal(t, "d1", out.Sources[0].ID)
	assert.Equal(t, "player_list", out.Sources[0].Category)
	assert.Equal(t, 5, retriever.gotK)
}

func TestAskQuestion_ClassifiesPersona(t *testing.T) {
	generator := &fakeGenerator{}
	handler := makeAskHandler(testConfig(&fakeRetriever{result: groundedResult()}, generator, nil), discardLogger())

	_, out, err := handler(context.Background(), nil, AskQuestionInput{
		Question: "What contrarian leverage plays have the best ownership edge?",
	})
	require.NoError(t, err)
	assert.Equal(t, "professional", out.Persona)
	assert.Equal(t, persona.Professional, generator.gotReq.Persona)
	assert.Greater(t, out.Confidence, 0.0)
}

func TestAskQuestion_SmoothsPersonaOverSession(t *testing.T) {
	history := &fakeHistory{turns: []session.Turn{
		{Persona: persona.Dabbler}, {Persona: persona.Dabbler}, {Persona: persona.Dabbler},
	}}
	generator := &fakeGenerator{}
	handler := makeAskHandler(testConfig(&fakeRetriever{result: groundedResult()}, generator, history), discardLogger())

	// The question itself classifies rookie; history outvotes it.
	_, out, err := handler(context.Background(), nil, AskQuestionInput{
		Question:  "Should I start Josh Allen?",
		SessionID: "s1",
	})
	require.NoError(t, err)
	assert.Equal(t, "dabbler", out.Persona)

	require.Len(t, history.appended, 1)
	assert.Equal(t, persona.Dabbler, history.appended[0].Persona)
	assert.Equal(t, "generated answer", history.appended[0].Answer)
}

func TestAskQuestion_UngroundedPassesThrough(t *testing.T) {
	retriever := &fakeRetriever{result: &retrieval.Result{ContextFound: false}}
	generator := &fakeGenerator{}
	handler := makeAskHandler(testConfig(retriever, generator, nil), discardLogger())

	_, out, err := handler(context.Background(), nil, AskQuestionInput{Question: "Who wins week 20?"})
	require.NoError(t, err)
	assert.False(t, out.Grounded)
	assert.False(t, generator.gotReq.ContextFound)
	assert.Empty(t, out.Sources)
}

func TestAskQuestion_HistoryFailureDegradesGracefully(t *testing.T) {
	history := &fakeHistory{err: errors.New("redis down")}
	handler := makeAskHandler(testConfig(&fakeRetriever{result: groundedResult()}, &fakeGenerator{}, history), discardLogger())

	_, out, err := handler(context.Background(), nil, AskQuestionInput{Question: "Should I start Josh Allen?", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "rookie", out.Persona)
}

func TestAskQuestion_RetrieverFailureIsAnError(t *testing.T) {
	handler := makeAskHandler(testConfig(&fakeRetriever{err: errors.New("down")}, &fakeGenerator{}, nil), discardLogger())

	_, _, err := handler(context.Background(), nil, AskQuestionInput{Question: "q"})
	require.Error(t, err)
}

func TestAskQuestion_RequiresQuestion(t *testing.T) {
	handler := makeAskHandler(testConfig(&fakeRetriever{}, &fakeGenerator{}, nil), discardLogger())
	_, _, err := handler(context.Background(), nil, AskQuestionInput{})
	require.Error(t, err)
}

func TestSearchDocuments_FiltersByCategory(t *testing.T) {
	retriever := &fakeRetriever{result: groundedResult()}
	handler := makeSearchHandler(testConfig(retriever, &fakeGenerator{}, nil))

	_, out, err := handler(context.Background(), nil, SearchDocumentsInput{
		Query:    "top quarterbacks",
		Category: "player_list",
		Season:   2025,
	})
	require.NoError(t, err)

	require.NotNil(t, retriever.gotFltr)
	assert.Equal(t, docmeta.PlayerList, retriever.gotFltr.Category)
	assert.Equal(t, 2025, retriever.gotFltr.Season)
	require.Len(t, out.Results, 1)
	assert.Contains(t, out.Results[0].Text, "Josh Allen")
}

func TestSearchDocuments_RejectsUnknownCategory(t *testing.T) {
	handler := makeSearchHandler(testConfig(&fakeRetriever{}, &fakeGenerator{}, nil))
	_, _, err := handler(context.Background(), nil, SearchDocumentsInput{Query: "q", Category: "matchups"})
	require.Error(t, err)
}

func TestSearchDocuments_NoMatchesGetsMessage(t *testing.T) {
	retriever := &fakeRetriever{result: &retrieval.Result{}}
	handler := makeSearchHandler(testConfig(retriever, &fakeGenerator{}, nil))

	_, out, err := handler(context.Background(), nil, SearchDocumentsInput{Query: "curling scores"})
	require.NoError(t, err)
	assert.Empty(t, out.Results)
	assert.NotEmpty(t, out.Message)
}

func TestGetIndexStatus_ReportsCounts(t *testing.T) {
	store := &fakeStatusStore{counts: map[docmeta.Category]int{
		docmeta.PlayerList: 18,
		docmeta.Standings:  1,
	}}
	cfg := testConfig(&fakeRetriever{}, &fakeGenerator{}, nil)
	cfg.Store = store
	handler := makeStatusHandler(cfg)

	_, out, err := handler(context.Background(), nil, StatusInput{})
	require.NoError(t, err)
	assert.Equal(t, 19, out.TotalDocuments)
	assert.Equal(t, 18, out.ByCategory["player_list"])
	assert.Equal(t, "connected", out.Store)
}

func TestGetIndexStatus_DisconnectedStore(t *testing.T) {
	cfg := testConfig(&fakeRetriever{}, &fakeGenerator{}, nil)
	cfg.Store = &fakeStatusStore{counts: map[docmeta.Category]int{}, healthErr: errors.New("unreachable")}
	handler := makeStatusHandler(cfg)

	_, out, err := handler(context.Background(), nil, StatusInput{})
	require.NoError(t, err)
	assert.Equal(t, "disconnected", out.Store)
}

func TestHealthHandler(t *testing.T) {
	healthy := NewHealthHandler(&fakeStatusStore{})
	rec := httptest.NewRecorder()
	healthy(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	unhealthy := NewHealthHandler(&fakeStatusStore{healthErr: errors.New("down")})
	rec = httptest.NewRecorder()
	unhealthy(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
