// Package docmeta defines the typed metadata carried by every stored
// document. Each document category has its own explicit field set, validated
// at indexing time, instead of a free-form map.
package docmeta

import (
	"errors"
	"fmt"
	"strconv"
)

// Category identifies the kind of document stored in the corpus.
type Category string

const (
	Schedule       Category = "schedule"
	TeamRankings   Category = "team_rankings"
	PlayerList     Category = "player_list"
	Standings      Category = "standings"
	PlayerInjuries Category = "player_injuries"
	PlayerNews     Category = "player_news"
)

// Categories lists every known category in a fixed order.
var Categories = []Category{Schedule, TeamRankings, PlayerList, Standings, PlayerInjuries, PlayerNews}

// ErrUnknownCategory reports a category outside the fixed set.
var ErrUnknownCategory = errors.New("unknown document category")

// Metadata is the typed per-category document annotation. NaturalKey returns
// the stable identity of the logical document when one exists; documents
// without a natural key get fresh ids on every index call.
type Metadata interface {
	Category() Category
	NaturalKey() (string, bool)
	Validate() error
	// Fields flattens the metadata for store payloads. Keys are stable and
	// round-trip through FromFields.
	Fields() map[string]string
}

// ScheduleMeta annotates a season schedule document. Week 0 covers the full
// season.
type ScheduleMeta struct {
	Season int
	Week   int
}

func (m ScheduleMeta) Category() Category { return Schedule }

func (m ScheduleMeta) NaturalKey() (string, bool) {
	return fmt.Sprintf("%d|w%d", m.Season, m.Week), true
}

func (m ScheduleMeta) Validate() error {
	if m.Season <= 0 {
		return fmt.Errorf("schedule: season must be positive, got %d", m.Season)
	}
	if m.Week < 0 {
		return fmt.Errorf("schedule: week must be >= 0, got %d", m.Week)
	}
	return nil
}

func (m ScheduleMeta) Fields() map[string]string {
	return map[string]string{
		"season": strconv.Itoa(m.Season),
		"week":   strconv.Itoa(m.Week),
	}
}

// TeamRankingsMeta annotates a team ranking document (offense or defense
// aggregate, or win_pct standings-style ranking).
type TeamRankingsMeta struct {
	Season   int
	PolicyID string
}

func (m TeamRankingsMeta) Category() Category { return TeamRankings }

func (m TeamRankingsMeta) NaturalKey() (string, bool) {
	return fmt.Sprintf("%d|%s", m.Season, m.PolicyID), true
}

func (m TeamRankingsMeta) Validate() error {
	if m.Season <= 0 {
		return fmt.Errorf("team_rankings: season must be positive, got %d", m.Season)
	}
	if m.PolicyID == "" {
		return errors.New("team_rankings: policy id required")
	}
	return nil
}

func (m TeamRankingsMeta) Fields() map[string]string {
	return map[string]string{
		"season": strconv.Itoa(m.Season),
		"policy": m.PolicyID,
	}
}

// PlayerListMeta annotates a player leaderboard document. Position is empty
// for overall (all-position) leaderboards.
type PlayerListMeta struct {
	Season   int
	PolicyID string
	Position string
}

func (m PlayerListMeta) Category() Category { return PlayerList }

func (m PlayerListMeta) NaturalKey() (string, bool) {
	pos := m.Position
	if pos == "" {
		pos = "all"
	}
	return fmt.Sprintf("%d|%s|%s", m.Season, m.PolicyID, pos), true
}

func (m PlayerListMeta) Validate() error {
	if m.Season <= 0 {
		return fmt.Errorf("player_list: season must be positive, got %d", m.Season)
	}
	if m.PolicyID == "" {
		return errors.New("player_list: policy id required")
	}
	return nil
}

func (m PlayerListMeta) Fields() map[string]string {
	return map[string]string{
		"season":   strconv.Itoa(m.Season),
		"policy":   m.PolicyID,
		"position": m.Position,
	}
}

// StandingsMeta annotates a league standings document.
type StandingsMeta struct {
	Season int
}

func (m StandingsMeta) Category() Category { return Standings }

func (m StandingsMeta) NaturalKey() (string, bool) {
	return strconv.Itoa(m.Season), true
}

func (m StandingsMeta) Validate() error {
	if m.Season <= 0 {
		return fmt.Errorf("standings: season must be positive, got %d", m.Season)
	}
	return nil
}

func (m StandingsMeta) Fields() map[string]string {
	return map[string]string{"season": strconv.Itoa(m.Season)}
}

// PlayerInjuriesMeta annotates an injury report for one report date
// (2006-01-02 format). TeamID is set on per-team report sections and empty on
// the league-wide report.
type PlayerInjuriesMeta struct {
	ReportDate string
	TeamID     string
}

func (m PlayerInjuriesMeta) Category() Category { return PlayerInjuries }

func (m PlayerInjuriesMeta) NaturalKey() (string, bool) {
	if m.TeamID == "" {
		return m.ReportDate, true
	}
	return fmt.Sprintf("%s|%s", m.ReportDate, m.TeamID), true
}

func (m PlayerInjuriesMeta) Validate() error {
	if m.ReportDate == "" {
		return errors.New("player_injuries: report date required")
	}
	return nil
}

func (m PlayerInjuriesMeta) Fields() map[string]string {
	return map[string]string{
		"report_date": m.ReportDate,
		"team_id":     m.TeamID,
	}
}

// PlayerNewsMeta annotates a news document. Player-specific news keys on
// (player, date); general news has no natural key and always indexes fresh.
type PlayerNewsMeta struct {
	PlayerID    string
	PublishedAt string
	Source      string
}

func (m PlayerNewsMeta) Category() Category { return PlayerNews }

func (m PlayerNewsMeta) NaturalKey() (string, bool) {
	if m.PlayerID == "" {
		return "", false
	}
	return fmt.Sprintf("%s|%s", m.PlayerID, m.PublishedAt), true
}

func (m PlayerNewsMeta) Validate() error {
	if m.PublishedAt == "" {
		return errors.New("player_news: published date required")
	}
	return nil
}

func (m PlayerNewsMeta) Fields() map[string]string {
	return map[string]string{
		"player_id":    m.PlayerID,
		"published_at": m.PublishedAt,
		"source":       m.Source,
	}
}

// FromFields reconstructs typed metadata from a flattened store payload.
func FromFields(category Category, fields map[string]string) (Metadata, error) {
	switch category {
	case Schedule:
		season, err := intField(fields, "season")
		if err != nil {
			return nil, err
		}
		week, err := intField(fields, "week")
		if err != nil {
			return nil, err
		}
		return ScheduleMeta{Season: season, Week: week}, nil
	case TeamRankings:
		season, err := intField(fields, "season")
		if err != nil {
			return nil, err
		}
		return TeamRankingsMeta{Season: season, PolicyID: fields["policy"]}, nil
	case PlayerList:
		season, err := intField(fields, "season")
		if err != nil {
			return nil, err
		}
		return PlayerListMeta{Season: season, PolicyID: fields["policy"], Position: fields["position"]}, nil
	case Standings:
		season, err := intField(fields, "season")
		if err != nil {
			return nil, err
		}
		return StandingsMeta{Season: season}, nil
	case PlayerInjuries:
		return PlayerInjuriesMeta{ReportDate: fields["report_date"], TeamID: fields["team_id"]}, nil
	case PlayerNews:
		return PlayerNewsMeta{
			PlayerID:    fields["player_id"],
			PublishedAt: fields["published_at"],
			Source:      fields["source"],
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
}

func intField(fields map[string]string, key string) (int, error) {
	raw, ok := fields[key]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("metadata field %s: %w", key, err)
	}
	return v, nil
}
