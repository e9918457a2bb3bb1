// Package answer generates persona-adapted responses grounded in retrieved
// statistics.
package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/gridironlabs/statline/internal/collab"
	"github.com/gridironlabs/statline/internal/persona"
)

// Request is one answer generation call. Context and ContextFound come from
// the retrieval engine; an empty context with ContextFound=false produces an
// ungrounded answer with an explicit disclaimer.
type Request struct {
	Query        string
	Context      string
	ContextFound bool
	Persona      persona.Persona
}

// Answer is a generated response. Grounded reports whether retrieved
// statistics backed it.
type Answer struct {
	Text     string
	Persona  persona.Persona
	Grounded bool
}

// Generator produces answers using GPT-4o.
type Generator struct {
	client *openai.Client
	model  openai.ChatModel
}

// NewGenerator creates an answer generator with the given OpenAI client.
func NewGenerator(client *openai.Client) *Generator {
	return &Generator{
		client: client,
		model:  openai.ChatModelGPT4o,
	}
}

// Generate answers req.Query in the register of req.Persona. The persona
// changes tone and framing only, never which statistics are cited.
func (g *Generator) Generate(ctx context.Context, req Request) (*Answer, error) {
	if req.Query == "" {
		return nil, errors.New("empty query")
	}

	adaptation := persona.AdaptationFor(req.Persona)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(adaptation)),
			openai.UserMessage(userPrompt(req.Query, req.Context, req.ContextFound)),
		},
		Model: g.model,
	})
	if err != nil {
		return nil, collab.Unavailable("chat service", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return &Answer{
		Text:     resp.Choices[0].Message.Content,
		Persona:  req.Persona,
		Grounded: req.ContextFound,
	}, nil
}
