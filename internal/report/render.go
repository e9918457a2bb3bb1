// Package report renders aggregated data as markdown documents for indexing
// and splits multi-section reports back into embeddable sections.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gridironlabs/statline/internal/ranking"
	"github.com/gridironlabs/statline/internal/stats"
)

// InjuryItem is one entry in an injury report.
type InjuryItem struct {
	PlayerID   string
	PlayerName string
	Position   stats.Position
	TeamID     string
	Status     string
	Note       string
}

// ScheduleGame is one matchup in a schedule document.
type ScheduleGame struct {
	Week    int
	HomeID  string
	AwayID  string
	Kickoff string
}

// Leaderboard renders a ranked population as a markdown document. Rank lines
// carry position and team so the text stands alone as retrieval context.
func Leaderboard(title string, lb *ranking.Leaderboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	for i, entry := range lb.Entries {
		fmt.Fprintf(&b, "%d. %s", i+1, entry.Name)
		if entry.Position != "" || entry.TeamID != "" {
			b.WriteString(" (")
			if entry.Position != "" {
				b.WriteString(string(entry.Position))
				if entry.TeamID != "" {
					b.WriteString(", ")
				}
			}
			b.WriteString(entry.TeamID)
			b.WriteString(")")
		}
		fmt.Fprintf(&b, " - %.1f pts\n", entry.Score)
	}

	return b.String()
}

// TeamRanking renders a team aggregate leaderboard with raw totals instead of
// fantasy points.
func TeamRanking(title, unit string, lb *ranking.Leaderboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for i, entry := range lb.Entries {
		fmt.Fprintf(&b, "%d. %s - %.0f %s\n", i+1, entry.Name, entry.Score, unit)
	}
	return b.String()
}

// Standings renders a win-percentage leaderboard with each team's record.
func Standings(title string, lb *ranking.Leaderboard, teams map[string]*stats.TeamAggregate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	for i, entry := range lb.Entries {
		record := ""
		if team, ok := teams[entry.EntityID]; ok {
			wins := int(team.Stats[stats.StatWins])
			losses := int(team.Stats[stats.StatLosses])
			ties := int(team.Stats[stats.StatTies])
			record = fmt.Sprintf("%d-%d", wins, losses)
			if ties > 0 {
				record = fmt.Sprintf("%s-%d", record, ties)
			}
		}
		fmt.Fprintf(&b, "%d. %s - %s (%.3f)\n", i+1, entry.Name, record, entry.Score)
	}

	return b.String()
}

// Injuries renders an injury report grouped by team.
func Injuries(title string, items []InjuryItem) string {
	byTeam := make(map[string][]InjuryItem)
	for _, item := range items {
		byTeam[item.TeamID] = append(byTeam[item.TeamID], item)
	}
	teamIDs := make([]string, 0, len(byTeam))
	for id := range byTeam {
		teamIDs = append(teamIDs, id)
	}
	sort.Strings(teamIDs)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, teamID := range teamIDs {
		fmt.Fprintf(&b, "## %s\n\n", teamID)
		for _, item := range byTeam[teamID] {
			fmt.Fprintf(&b, "- %s (%s): %s", item.PlayerName, item.Position, item.Status)
			if item.Note != "" {
				fmt.Fprintf(&b, " - %s", item.Note)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Schedule renders a schedule document grouped by week.
func Schedule(title string, games []ScheduleGame) string {
	byWeek := make(map[int][]ScheduleGame)
	weeks := make([]int, 0)
	for _, game := range games {
		if _, seen := byWeek[game.Week]; !seen {
			weeks = append(weeks, game.Week)
		}
		byWeek[game.Week] = append(byWeek[game.Week], game)
	}
	sort.Ints(weeks)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, week := range weeks {
		fmt.Fprintf(&b, "## Week %d\n\n", week)
		for _, game := range byWeek[week] {
			fmt.Fprintf(&b, "- %s at %s", game.AwayID, game.HomeID)
			if game.Kickoff != "" {
				fmt.Fprintf(&b, " (%s)", game.Kickoff)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
