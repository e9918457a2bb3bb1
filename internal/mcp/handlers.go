package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gridironlabs/statline/internal/answer"
	"github.com/gridironlabs/statline/internal/docmeta"
	"github.com/gridironlabs/statline/internal/persona"
	"github.com/gridironlabs/statline/internal/session"
	"github.com/gridironlabs/statline/internal/storage"
)

// makeAskHandler creates the ask_question tool handler.
// Answer flow:
//  1. Classify the question into a persona, smoothed over session history
//  2. Retrieve grounding context from the document store
//  3. Generate a persona-adapted answer (with disclaimer when ungrounded)
//  4. Record the turn in session history (best effort)
func makeAskHandler(deps *Config, logger *slog.Logger) func(
	context.Context, *mcp.CallToolRequest, AskQuestionInput,
) (*mcp.CallToolResult, AskQuestionOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskQuestionInput) (
		*mcp.CallToolResult, AskQuestionOutput, error,
	) {
		if input.Question == "" {
			return nil, AskQuestionOutput{}, fmt.Errorf("question is required")
		}

		classified := persona.Classify(input.Question)
		if deps.History != nil && input.SessionID != "" {
			turns, err := deps.History.Recent(ctx, input.SessionID, deps.PersonaWindow)
			if err != nil {
				// Missing history degrades personalization only; answer anyway.
				logger.Warn("Failed to load session history", "session", input.SessionID, "error", err)
			} else {
				classified = persona.Smooth(classified, session.PersonaHistory(turns), deps.PersonaWindow)
			}
		}

		result, err := deps.Retriever.Retrieve(ctx, input.Question, deps.TopK, deps.MaxContextChars, nil)
		if err != nil {
			return nil, AskQuestionOutput{}, fmt.Errorf("retrieval failed: %w", err)
		}

		generated, err := deps.Generator.Generate(ctx, answer.Request{
			Query:        input.Question,
			Context:      result.Context,
			ContextFound: result.ContextFound,
			Persona:      classified.Persona,
		})
		if err != nil {
			return nil, AskQuestionOutput{}, fmt.Errorf("answer generation failed: %w", err)
		}

		if deps.History != nil && input.SessionID != "" {
			turn := session.Turn{
				Query:      input.Question,
				Answer:     generated.Text,
				Persona:    classified.Persona,
				Confidence: classified.Confidence,
				Grounded:   generated.Grounded,
				AskedAt:    time.Now().UTC(),
			}
			if err := deps.History.Append(ctx, input.SessionID, turn); err != nil {
				logger.Warn("Failed to record turn", "session", input.SessionID, "error", err)
			}
		}

		sources := make([]SourceRef, 0, len(result.Documents))
		for _, doc := range result.Documents {
			sources = append(sources, SourceRef{
				ID:        doc.ID,
				Category:  string(doc.Category),
				UpdatedAt: doc.UpdatedAt,
			})
		}

		return nil, AskQuestionOutput{
			Answer:     generated.Text,
			Persona:    string(classified.Persona),
			Confidence: classified.Confidence,
			Grounded:   generated.Grounded,
			Sources:    sources,
		}, nil
	}
}

// makeSearchHandler creates the search_documents tool handler.
func makeSearchHandler(deps *Config) func(
	context.Context, *mcp.CallToolRequest, SearchDocumentsInput,
) (*mcp.CallToolResult, SearchDocumentsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocumentsInput) (
		*mcp.CallToolResult, SearchDocumentsOutput, error,
	) {
		if input.Query == "" {
			return nil, SearchDocumentsOutput{}, fmt.Errorf("query is required")
		}
		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 5
		}

		var filter *storage.Filter
		if input.Category != "" || input.Season > 0 || input.Position != "" {
			filter = &storage.Filter{
				Season:   input.Season,
				Position: input.Position,
			}
			if input.Category != "" {
				category := docmeta.Category(input.Category)
				if !slices.Contains(docmeta.Categories, category) {
					return nil, SearchDocumentsOutput{}, fmt.Errorf("invalid category %q", input.Category)
				}
				filter.Category = category
			}
		}

		// Context packing is irrelevant here; the bound just needs to admit
		// every candidate.
		result, err := deps.Retriever.Retrieve(ctx, input.Query, maxResults, searchContextBound, filter)
		if err != nil {
			return nil, SearchDocumentsOutput{}, fmt.Errorf("search failed: %w", err)
		}

		if len(result.Documents) == 0 {
			return nil, SearchDocumentsOutput{
				Results: []DocumentResult{},
				Message: "No matching documents found. Try broader search terms.",
			}, nil
		}

		results := make([]DocumentResult, 0, len(result.Documents))
		for _, doc := range result.Documents {
			results = append(results, DocumentResult{
				ID:        doc.ID,
				Category:  string(doc.Category),
				Text:      doc.Text,
				UpdatedAt: doc.UpdatedAt,
			})
		}
		return nil, SearchDocumentsOutput{Results: results}, nil
	}
}

const searchContextBound = 1 << 20

// makeStatusHandler creates the get_index_status tool handler.
func makeStatusHandler(deps *Config) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusOutput, error,
	) {
		counts, err := deps.Store.CountByCategory(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("failed to count documents: %w", err)
		}

		total := 0
		byCategory := make(map[string]int, len(counts))
		for category, n := range counts {
			total += n
			byCategory[string(category)] = n
		}

		store := "connected"
		if err := deps.Store.Health(ctx); err != nil {
			store = "disconnected"
		}

		return nil, StatusOutput{
			TotalDocuments: total,
			ByCategory:     byCategory,
			Store:          store,
		}, nil
	}
}
