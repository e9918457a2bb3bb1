// Package source loads season data snapshots from disk. A snapshot is one
// JSON file holding everything the populate pipeline needs for a season.
package source

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gridironlabs/statline/internal/indexer"
	"github.com/gridironlabs/statline/internal/report"
	"github.com/gridironlabs/statline/internal/stats"
)

// TeamRecord is one team's season record in a snapshot.
type TeamRecord struct {
	TeamID string `json:"team_id"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Ties   int    `json:"ties"`
}

// Game is one scheduled matchup in a snapshot.
type Game struct {
	Week    int    `json:"week"`
	HomeID  string `json:"home_id"`
	AwayID  string `json:"away_id"`
	Kickoff string `json:"kickoff,omitempty"`
}

// Injury is one injury report entry in a snapshot.
type Injury struct {
	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name"`
	Position   string `json:"position"`
	TeamID     string `json:"team_id"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
}

// Article is one news item in a snapshot.
type Article struct {
	PlayerID    string `json:"player_id,omitempty"`
	PlayerName  string `json:"player_name,omitempty"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	PublishedAt string `json:"published_at"`
	Source      string `json:"source,omitempty"`
}

// Snapshot is a full season data dump.
type Snapshot struct {
	Season           int                `json:"season"`
	Records          []stats.StatRecord `json:"records"`
	Standings        []TeamRecord       `json:"standings"`
	Schedule         []Game             `json:"schedule"`
	Injuries         []Injury           `json:"injuries"`
	InjuryReportDate string             `json:"injury_report_date,omitempty"`
	News             []Article          `json:"news,omitempty"`
	PlayerNames      map[string]string  `json:"player_names,omitempty"`
}

// Load reads and validates a snapshot file.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if snap.Season <= 0 {
		return nil, fmt.Errorf("snapshot %s: season must be positive, got %d", path, snap.Season)
	}
	return &snap, nil
}

// PopulateInput converts the snapshot for the indexing pipeline.
func (s *Snapshot) PopulateInput(topN int) indexer.PopulateInput {
	in := indexer.PopulateInput{
		Season:           s.Season,
		Records:          s.Records,
		InjuryReportDate: s.InjuryReportDate,
		PlayerNames:      s.PlayerNames,
		TopN:             topN,
	}

	for _, r := range s.Standings {
		in.Standings = append(in.Standings, indexer.TeamRecord{
			TeamID: r.TeamID, Wins: r.Wins, Losses: r.Losses, Ties: r.Ties,
		})
	}
	for _, g := range s.Schedule {
		in.Schedule = append(in.Schedule, report.ScheduleGame{
			Week: g.Week, HomeID: g.HomeID, AwayID: g.AwayID, Kickoff: g.Kickoff,
		})
	}
	for _, inj := range s.Injuries {
		in.Injuries = append(in.Injuries, report.InjuryItem{
			PlayerID:   inj.PlayerID,
			PlayerName: inj.PlayerName,
			Position:   stats.Position(inj.Position),
			TeamID:     inj.TeamID,
			Status:     inj.Status,
			Note:       inj.Note,
		})
	}
	for _, a := range s.News {
		in.News = append(in.News, indexer.NewsItem{
			PlayerID:    a.PlayerID,
			PlayerName:  a.PlayerName,
			Title:       a.Title,
			Body:        a.Body,
			PublishedAt: a.PublishedAt,
			Source:      a.Source,
		})
	}
	return in
}
