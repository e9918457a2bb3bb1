package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_ProfessionalOutranksNewbiePhrasing(t *testing.T) {
	result := Classify("What is contrarian leverage in DFS?")

	assert.Equal(t, Professional, result.Persona)
	assert.ElementsMatch(t, []string{"contrarian", "leverage"}, result.MatchedIndicators)
	assert.InDelta(t, 2.0/7.0, result.Confidence, 1e-12)
}

func TestClassify_RookieFallback(t *testing.T) {
	result := Classify("Is Josh Allen playing this week?")

	assert.Equal(t, Rookie, result.Persona)
	assert.Zero(t, result.Confidence)
	assert.Empty(t, result.MatchedIndicators)
}

func TestClassify_Dabbler(t *testing.T) {
	result := Classify("The data shows his target trends improving - do the stats back a start?")

	assert.Equal(t, Dabbler, result.Persona)
	assert.ElementsMatch(t, []string{"data shows", "trends", "stats"}, result.MatchedIndicators)
	assert.InDelta(t, 3.0/6.0, result.Confidence, 1e-12)
}

func TestClassify_Newbie(t *testing.T) {
	result := Classify("How do I set my lineup? Please explain.")

	assert.Equal(t, Newbie, result.Persona)
	assert.ElementsMatch(t, []string{"how do i", "explain"}, result.MatchedIndicators)
}

func TestClassify_DabblerOutranksNewbie(t *testing.T) {
	result := Classify("what is the analytics take here")
	assert.Equal(t, Dabbler, result.Persona)
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, Professional, Classify("OWNERSHIP Leverage play?").Persona)
}

func TestClassify_Deterministic(t *testing.T) {
	query := "Explain the contrarian stats angle"
	first := Classify(query)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Classify(query))
	}
}

func TestSmooth_MajorityVote(t *testing.T) {
	history := []Result{
		{Persona: Professional},
		{Persona: Professional},
		{Persona: Professional},
	}
	current := Classify("Is Josh Allen playing this week?") // rookie fallback

	smoothed := Smooth(current, history, 5)
	assert.Equal(t, Professional, smoothed.Persona)
}

func TestSmooth_TieKeepsCurrent(t *testing.T) {
	history := []Result{{Persona: Dabbler}}
	current := Result{Persona: Rookie, Confidence: 0}

	// One vote each: current persona wins the tie.
	smoothed := Smooth(current, history, 5)
	assert.Equal(t, Rookie, smoothed.Persona)
}

func TestSmooth_WindowBoundsHistory(t *testing.T) {
	history := []Result{
		{Persona: Professional}, {Persona: Professional}, {Persona: Professional},
		{Persona: Newbie}, {Persona: Newbie},
	}
	current := Result{Persona: Newbie}

	// Window of 2 only sees the trailing newbie turns.
	smoothed := Smooth(current, history, 2)
	assert.Equal(t, Newbie, smoothed.Persona)
}

func TestAdaptationFor_CoversEveryPersona(t *testing.T) {
	for _, p := range []Persona{Newbie, Rookie, Dabbler, Professional} {
		a := AdaptationFor(p)
		assert.NotEmpty(t, a.Tone, "%s tone", p)
		assert.NotEmpty(t, a.Guidelines, "%s guidelines", p)
	}

	assert.Equal(t, AdaptationFor(Rookie), AdaptationFor(Persona("galaxy-brain")))
}
