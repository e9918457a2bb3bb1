// Package persona classifies user expertise from free-text queries and
// supplies the response-shaping rules for each persona. Classification is
// deterministic and rule-based: fixed keyword sets checked in a fixed
// precedence order.
package persona

import "strings"

// Persona is a user expertise level.
type Persona string

const (
	Newbie       Persona = "newbie"
	Rookie       Persona = "rookie"
	Dabbler      Persona = "dabbler"
	Professional Persona = "professional"
)

// Result is the outcome of classifying one query. Ephemeral: computed per
// query, persisted only as a conversation-turn annotation if the caller
// chooses.
type Result struct {
	Persona           Persona
	Confidence        float64
	MatchedIndicators []string
}

// Keyword sets per persona, checked in precedence order. Specificity of
// vocabulary outranks surface simplicity: a query containing both "what is"
// and "leverage" classifies professional.
var (
	professionalKeywords = []string{
		"advanced", "edge", "contrarian", "ownership", "leverage", "game theory", "stack",
	}
	dabblerKeywords = []string{
		"data shows", "trends", "analytics", "stats", "numbers", "optimize",
	}
	newbieKeywords = []string{
		"what is", "what does", "how do i", "i'm new", "don't know", "explain", "help me understand",
	}
)

// Classify inspects query and returns the best-matching persona. Queries
// matching no keyword set fall back to rookie with confidence 0 — never an
// error.
func Classify(query string) Result {
	lowered := strings.ToLower(query)

	for _, set := range []struct {
		persona  Persona
		keywords []string
	}{
		{Professional, professionalKeywords},
		{Dabbler, dabblerKeywords},
		{Newbie, newbieKeywords},
	} {
		matched := matchKeywords(lowered, set.keywords)
		if len(matched) == 0 {
			continue
		}
		confidence := float64(len(matched)) / float64(len(set.keywords))
		if confidence > 1 {
			confidence = 1
		}
		return Result{
			Persona:           set.persona,
			Confidence:        confidence,
			MatchedIndicators: matched,
		}
	}

	return Result{Persona: Rookie, Confidence: 0, MatchedIndicators: []string{}}
}

func matchKeywords(lowered string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Smooth applies majority-vote smoothing over the last window prior results
// plus current. Callers that track conversation history use this to keep the
// persona from flapping turn to turn; ties keep the current classification.
func Smooth(current Result, history []Result, window int) Result {
	if window <= 0 || len(history) == 0 {
		return current
	}
	recent := history
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	votes := map[Persona]int{current.Persona: 1}
	for _, r := range recent {
		votes[r.Persona]++
	}

	best := current.Persona
	bestVotes := votes[current.Persona]
	for _, p := range []Persona{Professional, Dabbler, Newbie, Rookie} {
		if votes[p] > bestVotes {
			best = p
			bestVotes = votes[p]
		}
	}

	if best == current.Persona {
		return current
	}
	return Result{Persona: best, Confidence: current.Confidence, MatchedIndicators: current.MatchedIndicators}
}
