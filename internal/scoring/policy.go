// Package scoring applies named scoring policies to stat vectors. Policies
// live in one fixed table; adding a format means adding an entry, not
// branching through the codebase.
package scoring

import (
	"sort"

	"github.com/gridironlabs/statline/internal/stats"
)

// Policy identifiers.
const (
	PolicyStandard   = "std"
	PolicyHalfPPR    = "half_ppr"
	PolicyPPR        = "ppr"
	PolicyOffenseAgg = "offense_agg"
	PolicyDefenseAgg = "defense_agg"
	PolicyWinPct     = "win_pct"
)

// standardWeights is the base fantasy scoring used by std/half_ppr/ppr.
var standardWeights = map[string]float64{
	stats.StatPassingYards:        0.04,
	stats.StatPassingTD:           4,
	stats.StatRushingYards:        0.1,
	stats.StatRushingTD:           6,
	stats.StatReceivingYards:      0.1,
	stats.StatReceivingTD:         6,
	stats.StatInterceptionsThrown: -2,
	stats.StatFumblesLost:         -2,
}

// policies maps every known policy id to its scoring function. Linear
// policies are weight tables; win_pct is the only special form.
var policies = map[string]func(vector map[string]float64, cfg Config) float64{
	PolicyStandard: func(v map[string]float64, _ Config) float64 {
		return weighted(v, standardWeights)
	},
	PolicyHalfPPR: func(v map[string]float64, _ Config) float64 {
		return weighted(v, standardWeights) + v[stats.StatReceptions]*0.5
	},
	PolicyPPR: func(v map[string]float64, _ Config) float64 {
		return weighted(v, standardWeights) + v[stats.StatReceptions]
	},
	PolicyOffenseAgg: func(v map[string]float64, _ Config) float64 {
		return v[stats.StatPassingYards] + v[stats.StatRushingYards] + v[stats.StatReceivingYards]
	},
	PolicyDefenseAgg: func(v map[string]float64, _ Config) float64 {
		return v[stats.StatSacks] + v[stats.StatInterceptions]*2
	},
	PolicyWinPct: winPct,
}

// Config carries policy behavior flags.
type Config struct {
	// WinPctTieCredit controls tie handling for win_pct: when true, ties
	// count 0.5 in the numerator and fully in the denominator; when false,
	// ties are excluded from both.
	WinPctTieCredit bool
}

// Engine scores stat vectors under the policy table. Scoring is deterministic
// and total: missing fields contribute 0, extra fields are ignored.
type Engine struct {
	cfg Config
}

// NewEngine creates a scoring engine with the given policy configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Score computes the score of vector under policyID.
// Unknown policies fail with UnknownPolicyError.
func (e *Engine) Score(vector map[string]float64, policyID string) (float64, error) {
	fn, ok := policies[policyID]
	if !ok {
		return 0, &UnknownPolicyError{PolicyID: policyID}
	}
	return fn(vector, e.cfg), nil
}

// Known reports whether policyID exists in the policy table.
func Known(policyID string) bool {
	_, ok := policies[policyID]
	return ok
}

// PolicyIDs returns all policy identifiers in lexical order.
func PolicyIDs() []string {
	ids := make([]string, 0, len(policies))
	for id := range policies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func weighted(vector, weights map[string]float64) float64 {
	var total float64
	for field, weight := range weights {
		total += vector[field] * weight
	}
	return total
}

// winPct scores a team record. A winless, gameless record scores 0.0 rather
// than erroring: such teams rank lowest instead of disappearing.
func winPct(v map[string]float64, cfg Config) float64 {
	wins := v[stats.StatWins]
	losses := v[stats.StatLosses]
	ties := v[stats.StatTies]

	if cfg.WinPctTieCredit {
		games := wins + losses + ties
		if games == 0 {
			return 0
		}
		return (wins + 0.5*ties) / games
	}

	games := wins + losses
	if games == 0 {
		return 0
	}
	return wins / games
}
