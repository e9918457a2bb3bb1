package answer

import (
	"fmt"
	"strings"

	"github.com/gridironlabs/statline/internal/persona"
)

const groundedInstructions = "Answer using only the statistics in the context. " +
	"If the context does not contain what the question asks for, say so plainly instead of guessing numbers."

const ungroundedDisclaimer = "No current statistics matched this question. " +
	"Answer from general fantasy football knowledge and state clearly that you are not citing current season data."

// systemPrompt folds a persona's adaptation rules into the assistant's system
// message. Pure function of the adaptation.
func systemPrompt(a persona.Adaptation) string {
	var b strings.Builder
	b.WriteString("You are a fantasy football assistant.\n\n")
	fmt.Fprintf(&b, "Audience: %s\n", a.Audience)
	fmt.Fprintf(&b, "Tone: %s\n", a.Tone)
	fmt.Fprintf(&b, "Complexity: %s\n", a.Complexity)
	fmt.Fprintf(&b, "Terminology: %s\n\n", a.Terminology)
	b.WriteString("Guidelines:\n")
	for _, g := range a.Guidelines {
		fmt.Fprintf(&b, "- %s\n", g)
	}
	return b.String()
}

// userPrompt assembles the user message. Grounded answers carry the retrieved
// context; ungrounded answers carry the disclaimer instead.
func userPrompt(query, context string, grounded bool) string {
	if !grounded {
		return fmt.Sprintf("%s\n\nQuestion: %s", ungroundedDisclaimer, query)
	}
	return fmt.Sprintf("Context:\n%s\n\n%s\n\nQuestion: %s", context, groundedInstructions, query)
}
