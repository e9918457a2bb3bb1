// Package indexer turns aggregated statistics into embedded, stored
// documents. The pipeline is the only writer to the document store.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gridironlabs/statline/internal/collab"
	"github.com/gridironlabs/statline/internal/docmeta"
	"github.com/gridironlabs/statline/internal/ranking"
	"github.com/gridironlabs/statline/internal/report"
	"github.com/gridironlabs/statline/internal/scoring"
	"github.com/gridironlabs/statline/internal/stats"
	"github.com/gridironlabs/statline/internal/storage"
)

// docNamespace seeds deterministic document ids. Documents with a natural key
// always map to the same id, so re-indexing updates in place.
var docNamespace = uuid.MustParse("8f2f9f6e-3c1d-4a52-9b7e-2f4d8a1c6e03")

// DocumentID derives the storage id for a document. Natural-keyed metadata
// produces a stable id; everything else gets a fresh one.
func DocumentID(meta docmeta.Metadata) string {
	if key, ok := meta.NaturalKey(); ok {
		name := string(meta.Category()) + "|" + key
		return uuid.NewSHA1(docNamespace, []byte(name)).String()
	}
	return uuid.New().String()
}

// Embedder produces document embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelID() string
}

// Store persists indexed documents.
type Store interface {
	Upsert(ctx context.Context, doc *storage.StoredDocument) error
}

// Pipeline orchestrates rendering, embedding, and storage of documents.
type Pipeline struct {
	embedder Embedder
	store    Store
	builder  *ranking.Builder
	splitter *report.Splitter
	logger   *slog.Logger
}

// NewPipeline creates an indexing pipeline with the given components.
func NewPipeline(embedder Embedder, store Store, builder *ranking.Builder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		embedder: embedder,
		store:    store,
		builder:  builder,
		splitter: report.NewSplitter(),
		logger:   logger,
	}
}

// Index validates metadata, embeds text, and upserts the document. Documents
// with a natural key overwrite any previous version of themselves.
func (p *Pipeline) Index(ctx context.Context, text string, meta docmeta.Metadata) (*storage.StoredDocument, error) {
	if text == "" {
		return nil, errors.New("empty document text")
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}

	vector, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, collab.Unavailable("embedding service", err)
	}

	doc := &storage.StoredDocument{
		ID:             DocumentID(meta),
		Text:           text,
		Category:       meta.Category(),
		Metadata:       meta,
		EmbeddingModel: p.embedder.ModelID(),
		Embedding:      vector,
		IsActive:       true,
	}
	if err := p.store.Upsert(ctx, doc); err != nil {
		return nil, collab.Unavailable("document store", err)
	}

	p.logger.Debug("Indexed document", "id", doc.ID, "category", doc.Category)
	return doc, nil
}

// TeamRecord is one team's season record.
type TeamRecord struct {
	TeamID string
	Wins   int
	Losses int
	Ties   int
}

// NewsItem is one news article to index.
type NewsItem struct {
	PlayerID    string
	PlayerName  string
	Title       string
	Body        string
	PublishedAt string
	Source      string
}

// PopulateInput is everything needed to build a season's document corpus.
type PopulateInput struct {
	Season           int
	Records          []stats.StatRecord
	Standings        []TeamRecord
	Schedule         []report.ScheduleGame
	Injuries         []report.InjuryItem
	InjuryReportDate string
	News             []NewsItem
	PlayerNames      map[string]string
	TopN             int
}

// PopulateResult contains statistics about one populate run.
type PopulateResult struct {
	Documents       int
	FailedDocs      []FailedDoc
	RejectedRecords []stats.Rejected
	Duration        time.Duration
}

// FailedDoc records a document that failed to index.
type FailedDoc struct {
	Label  string
	Reason string
}

// fantasyPositions are the positions that get their own leaderboard document.
var fantasyPositions = []stats.Position{stats.QB, stats.RB, stats.WR, stats.TE, stats.K}

var policyLabels = map[string]string{
	scoring.PolicyStandard: "Standard",
	scoring.PolicyHalfPPR:  "Half PPR",
	scoring.PolicyPPR:      "PPR",
}

// PopulateSeason builds and indexes the full document corpus for a season:
// player leaderboards per scoring policy and position, team offense and
// defense rankings, standings, schedule, injuries, and news. Individual
// document failures are collected, not fatal; the rest of the corpus still
// indexes.
func (p *Pipeline) PopulateSeason(ctx context.Context, in PopulateInput) (*PopulateResult, error) {
	if in.Season <= 0 {
		return nil, fmt.Errorf("season must be positive, got %d", in.Season)
	}
	topN := in.TopN
	if topN <= 0 {
		topN = 10
	}

	start := time.Now()
	result := &PopulateResult{}

	vectors, rejected := stats.Aggregate(in.Records, stats.Scope{})
	result.RejectedRecords = rejected
	p.logger.Info("Aggregated season", "season", in.Season, "players", len(vectors), "rejected", len(rejected))

	nameFor := func(id string) string { return in.PlayerNames[id] }
	players := ranking.PlayerEntities(vectors, nameFor)

	// Player leaderboards: one overall and one per position for each fantasy
	// scoring policy.
	for _, policy := range []string{scoring.PolicyStandard, scoring.PolicyHalfPPR, scoring.PolicyPPR} {
		label := policyLabels[policy]

		lb, err := p.builder.Build(players, policy, ranking.Any, topN, "")
		if err != nil {
			return nil, fmt.Errorf("build %s leaderboard: %w", policy, err)
		}
		title := fmt.Sprintf("Top Players - %s (%d)", label, in.Season)
		p.indexDoc(ctx, result, title, report.Leaderboard(title, lb),
			docmeta.PlayerListMeta{Season: in.Season, PolicyID: policy})

		for _, pos := range fantasyPositions {
			lb, err := p.builder.Build(players, policy, ranking.ByPosition(pos), topN, pos)
			if err != nil {
				return nil, fmt.Errorf("build %s %s leaderboard: %w", policy, pos, err)
			}
			title := fmt.Sprintf("Top %s - %s (%d)", pos, label, in.Season)
			p.indexDoc(ctx, result, title, report.Leaderboard(title, lb),
				docmeta.PlayerListMeta{Season: in.Season, PolicyID: policy, Position: string(pos)})
		}
	}

	if err := p.indexTeamRankings(ctx, result, in.Season, vectors, topN); err != nil {
		return nil, err
	}
	if err := p.indexStandings(ctx, result, in.Season, in.Standings); err != nil {
		return nil, err
	}
	p.indexSchedule(ctx, result, in.Season, in.Schedule)
	p.indexInjuries(ctx, result, in.InjuryReportDate, in.Injuries)

	for _, item := range in.News {
		text := item.Body
		if item.Title != "" {
			text = fmt.Sprintf("# %s\n\n%s", item.Title, item.Body)
		}
		p.indexDoc(ctx, result, "news: "+item.Title, text, docmeta.PlayerNewsMeta{
			PlayerID:    item.PlayerID,
			PublishedAt: item.PublishedAt,
			Source:      item.Source,
		})
	}

	result.Duration = time.Since(start)
	p.logger.Info("Populate complete",
		"season", in.Season,
		"documents", result.Documents,
		"failed", len(result.FailedDocs),
		"duration", result.Duration,
	)
	return result, nil
}

func (p *Pipeline) indexTeamRankings(ctx context.Context, result *PopulateResult, season int, vectors map[string]*stats.PlayerSeasonVector, topN int) error {
	offense := stats.AggregateTeams(vectors, stats.Position.Offensive)
	lb, err := p.builder.Build(ranking.TeamEntities(offense), scoring.PolicyOffenseAgg, ranking.Any, topN, "")
	if err != nil {
		return fmt.Errorf("build offense rankings: %w", err)
	}
	title := fmt.Sprintf("Team Offense Rankings (%d)", season)
	p.indexDoc(ctx, result, title, report.TeamRanking(title, "yards", lb),
		docmeta.TeamRankingsMeta{Season: season, PolicyID: scoring.PolicyOffenseAgg})

	defense := stats.AggregateTeams(vectors, stats.Position.Defensive)
	lb, err = p.builder.Build(ranking.TeamEntities(defense), scoring.PolicyDefenseAgg, ranking.Any, topN, "")
	if err != nil {
		return fmt.Errorf("build defense rankings: %w", err)
	}
	title = fmt.Sprintf("Team Defense Rankings (%d)", season)
	p.indexDoc(ctx, result, title, report.TeamRanking(title, "points", lb),
		docmeta.TeamRankingsMeta{Season: season, PolicyID: scoring.PolicyDefenseAgg})
	return nil
}

func (p *Pipeline) indexStandings(ctx context.Context, result *PopulateResult, season int, records []TeamRecord) error {
	if len(records) == 0 {
		return nil
	}
	teams := make(map[string]*stats.TeamAggregate, len(records))
	for _, r := range records {
		teams[r.TeamID] = &stats.TeamAggregate{
			TeamID: r.TeamID,
			Stats: map[string]float64{
				stats.StatWins:   float64(r.Wins),
				stats.StatLosses: float64(r.Losses),
				stats.StatTies:   float64(r.Ties),
			},
		}
	}

	lb, err := p.builder.Build(ranking.TeamEntities(teams), scoring.PolicyWinPct, ranking.Any, len(teams), "")
	if err != nil {
		return fmt.Errorf("build standings: %w", err)
	}
	title := fmt.Sprintf("League Standings (%d)", season)
	p.indexDoc(ctx, result, title, report.Standings(title, lb, teams),
		docmeta.StandingsMeta{Season: season})
	return nil
}

// indexSchedule stores the full-season schedule plus one document per week
// section, so week-specific questions retrieve tight context.
func (p *Pipeline) indexSchedule(ctx context.Context, result *PopulateResult, season int, games []report.ScheduleGame) {
	if len(games) == 0 {
		return
	}
	title := fmt.Sprintf("Season Schedule (%d)", season)
	text := report.Schedule(title, games)
	p.indexDoc(ctx, result, title, text, docmeta.ScheduleMeta{Season: season, Week: 0})

	sections, err := p.splitter.Split([]byte(text))
	if err != nil {
		p.logger.Warn("Failed to split schedule", "error", err)
		return
	}
	for _, section := range sections {
		week, ok := weekFromTitle(section.Title)
		if !ok {
			continue
		}
		p.indexDoc(ctx, result, fmt.Sprintf("schedule week %d", week), section.Text(),
			docmeta.ScheduleMeta{Season: season, Week: week})
	}
}

// indexInjuries stores the league-wide injury report plus one document per
// team section.
func (p *Pipeline) indexInjuries(ctx context.Context, result *PopulateResult, reportDate string, items []report.InjuryItem) {
	if len(items) == 0 || reportDate == "" {
		return
	}
	title := "Injury Report - " + reportDate
	text := report.Injuries(title, items)
	p.indexDoc(ctx, result, title, text, docmeta.PlayerInjuriesMeta{ReportDate: reportDate})

	sections, err := p.splitter.Split([]byte(text))
	if err != nil {
		p.logger.Warn("Failed to split injury report", "error", err)
		return
	}
	for _, section := range sections {
		if section.Title == "" || section.Path == section.Title {
			continue // top-level section, already covered by the full report
		}
		p.indexDoc(ctx, result, "injuries "+section.Title, section.Text(),
			docmeta.PlayerInjuriesMeta{ReportDate: reportDate, TeamID: section.Title})
	}
}

// indexDoc indexes one document, recording failures instead of aborting the
// run.
func (p *Pipeline) indexDoc(ctx context.Context, result *PopulateResult, label, text string, meta docmeta.Metadata) {
	if _, err := p.Index(ctx, text, meta); err != nil {
		p.logger.Warn("Failed to index document", "doc", label, "error", err)
		result.FailedDocs = append(result.FailedDocs, FailedDoc{Label: label, Reason: err.Error()})
		return
	}
	result.Documents++
}

func weekFromTitle(title string) (int, bool) {
	rest, ok := strings.CutPrefix(title, "Week ")
	if !ok {
		return 0, false
	}
	week, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return week, true
}
