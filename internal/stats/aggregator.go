package stats

import "math"

// Rejected pairs a malformed record with the reason it was dropped.
type Rejected struct {
	Record StatRecord
	Err    *InvalidRecordError
}

// Aggregate reduces records to one PlayerSeasonVector per player. Records
// outside scope are skipped; malformed records are collected as rejected and
// the rest of the population aggregates normally. Fields absent from a record
// contribute 0. Pure function of its input.
func Aggregate(records []StatRecord, scope Scope) (map[string]*PlayerSeasonVector, []Rejected) {
	vectors := make(map[string]*PlayerSeasonVector)
	latestWeek := make(map[string]int)
	var rejected []Rejected

	for _, rec := range records {
		if err := validate(rec); err != nil {
			rejected = append(rejected, Rejected{Record: rec, Err: err})
			continue
		}
		if !scope.Contains(rec.Week) {
			continue
		}

		vec, ok := vectors[rec.PlayerID]
		if !ok {
			vec = &PlayerSeasonVector{
				PlayerID: rec.PlayerID,
				TeamID:   rec.TeamID,
				Position: rec.Position,
				Stats:    make(map[string]float64),
			}
			vectors[rec.PlayerID] = vec
			latestWeek[rec.PlayerID] = rec.Week
		}

		for field, value := range rec.Stats {
			vec.Stats[field] += value
		}

		// Team and position follow the most recent record: last write wins
		// across mid-season trades.
		if rec.Week >= latestWeek[rec.PlayerID] {
			latestWeek[rec.PlayerID] = rec.Week
			if rec.TeamID != "" {
				vec.TeamID = rec.TeamID
			}
			if rec.Position != "" {
				vec.Position = rec.Position
			}
		}
	}

	return vectors, rejected
}

// AggregateTeams folds player vectors into per-team aggregates, summing only
// players whose position passes keep. Players without a team are skipped.
func AggregateTeams(vectors map[string]*PlayerSeasonVector, keep func(Position) bool) map[string]*TeamAggregate {
	teams := make(map[string]*TeamAggregate)
	for _, vec := range vectors {
		if vec.TeamID == "" || !keep(vec.Position) {
			continue
		}
		agg, ok := teams[vec.TeamID]
		if !ok {
			agg = &TeamAggregate{TeamID: vec.TeamID, Stats: make(map[string]float64)}
			teams[vec.TeamID] = agg
		}
		for field, value := range vec.Stats {
			agg.Stats[field] += value
		}
	}
	return teams
}

func validate(rec StatRecord) *InvalidRecordError {
	if rec.PlayerID == "" {
		return &InvalidRecordError{PlayerID: rec.PlayerID, Week: rec.Week, Reason: "empty player_id"}
	}
	if rec.Week < 0 {
		return &InvalidRecordError{PlayerID: rec.PlayerID, Week: rec.Week, Reason: "negative week"}
	}
	for field, value := range rec.Stats {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return &InvalidRecordError{
				PlayerID: rec.PlayerID,
				Week:     rec.Week,
				Reason:   "non-numeric value for stat " + field,
			}
		}
	}
	return nil
}
