package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gridironlabs/statline/internal/answer"
	"github.com/gridironlabs/statline/internal/docmeta"
	"github.com/gridironlabs/statline/internal/retrieval"
	"github.com/gridironlabs/statline/internal/session"
	"github.com/gridironlabs/statline/internal/storage"
)

// Retriever fetches grounding context for queries.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k, maxContextChars int, filter *storage.Filter) (*retrieval.Result, error)
}

// Generator produces persona-adapted answers.
type Generator interface {
	Generate(ctx context.Context, req answer.Request) (*answer.Answer, error)
}

// History is the optional conversation store. A nil History disables persona
// smoothing and turn recording.
type History interface {
	Append(ctx context.Context, sessionID string, turn session.Turn) error
	Recent(ctx context.Context, sessionID string, n int) ([]session.Turn, error)
}

// StatusStore exposes the index health and counts used by get_index_status.
type StatusStore interface {
	Health(ctx context.Context) error
	CountByCategory(ctx context.Context) (map[docmeta.Category]int, error)
}

// Config holds server dependencies and tuning.
type Config struct {
	Retriever Retriever
	Generator Generator
	History   History
	Store     StatusStore
	Logger    *slog.Logger

	// TopK and MaxContextChars bound ask_question retrieval.
	TopK            int
	MaxContextChars int
	// PersonaWindow is how many prior turns vote in persona smoothing.
	PersonaWindow int
}

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.MaxContextChars <= 0 {
		cfg.MaxContextChars = 8000
	}
	if cfg.PersonaWindow <= 0 {
		cfg.PersonaWindow = 3
	}

	impl := &mcp.Implementation{
		Name:    "statline-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Ask a fantasy football question. Answers are grounded in indexed season statistics and adapted to the asker's expertise level.",
	}, makeAskHandler(cfg, logger))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Semantically search indexed season documents (leaderboards, standings, schedule, injuries, news). Returns document text without answer generation.",
	}, makeSearchHandler(cfg))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_index_status",
		Description: "Get the current state of the document index: total and per-category document counts and store connectivity.",
	}, makeStatusHandler(cfg))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until client
// disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance for transport
// handlers that need to wrap it.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
