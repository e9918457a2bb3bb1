// Package stats defines raw stat records and the season aggregation that
// reduces them to per-player and per-team stat vectors.
package stats

// Position identifies a player's roster position.
type Position string

// Roster positions. DEF covers team defenses; LB/DB/DL cover IDP roles.
const (
	QB  Position = "QB"
	RB  Position = "RB"
	WR  Position = "WR"
	TE  Position = "TE"
	K   Position = "K"
	DEF Position = "DEF"
	LB  Position = "LB"
	DB  Position = "DB"
	DL  Position = "DL"
)

// Offensive reports whether p counts toward team offensive aggregates.
func (p Position) Offensive() bool {
	switch p {
	case QB, RB, WR, TE:
		return true
	}
	return false
}

// Defensive reports whether p counts toward team defensive aggregates.
func (p Position) Defensive() bool {
	switch p {
	case DEF, LB, DB, DL:
		return true
	}
	return false
}

// Canonical stat field names. Scoring policies reference these; records may
// carry any additional fields, which aggregate through untouched.
const (
	StatPassingYards        = "passing_yards"
	StatPassingTD           = "passing_td"
	StatRushingYards        = "rushing_yards"
	StatRushingTD           = "rushing_td"
	StatReceivingYards      = "receiving_yards"
	StatReceivingTD         = "receiving_td"
	StatReceptions          = "receptions"
	StatInterceptionsThrown = "interceptions_thrown"
	StatFumblesLost         = "fumbles_lost"
	StatSacks               = "sacks"
	StatInterceptions       = "interceptions"
	StatWins                = "wins"
	StatLosses              = "losses"
	StatTies                = "ties"
)

// StatRecord is one player's statistics for one week. Week 0 is a season
// aggregate. Records are immutable once ingested; re-ingestion supersedes
// rather than mutates.
type StatRecord struct {
	PlayerID string             `json:"player_id"`
	TeamID   string             `json:"team_id"`
	Position Position           `json:"position"`
	Week     int                `json:"week"`
	Stats    map[string]float64 `json:"stats"`
}

// PlayerSeasonVector is the sum of all in-scope records for one player.
// Team and position come from the player's most recent record, since players
// can change teams mid-season.
type PlayerSeasonVector struct {
	PlayerID string
	TeamID   string
	Position Position
	Stats    map[string]float64
}

// TeamAggregate is the sum of player vectors attributed to one team.
type TeamAggregate struct {
	TeamID string
	Stats  map[string]float64
}

// Scope bounds aggregation to a week range. The zero Scope covers the whole
// season including week-0 aggregate records.
type Scope struct {
	FromWeek int
	ToWeek   int
}

// Contains reports whether week falls inside the scope.
func (s Scope) Contains(week int) bool {
	if s.FromWeek == 0 && s.ToWeek == 0 {
		return true
	}
	if week < s.FromWeek {
		return false
	}
	return s.ToWeek == 0 || week <= s.ToWeek
}
