// Package main provides the MCP server entry point for the fantasy football
// statistics assistant.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/gridironlabs/statline/internal/answer"
	"github.com/gridironlabs/statline/internal/config"
	"github.com/gridironlabs/statline/internal/embedding"
	mcpserver "github.com/gridironlabs/statline/internal/mcp"
	"github.com/gridironlabs/statline/internal/retrieval"
	"github.com/gridironlabs/statline/internal/session"
	"github.com/gridironlabs/statline/internal/storage"
)

func main() {
	// Load .env file if present (local development), ignore if missing
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	store, err := storage.NewQdrantStore(cfg.QdrantHost, cfg.QdrantPort)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		log.Fatalf("failed to create embedding client: %v", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, 0)

	engine := retrieval.NewEngine(store, embedder,
		retrieval.WithMinSimilarity(cfg.MinSimilarity))
	generator := answer.NewGenerator(embeddingClient.Client())

	// Session history is optional: without Redis the server still answers,
	// just without persona smoothing across turns.
	var history mcpserver.History
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to parse Redis URL: %v", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, running without session history", "error", err)
			client.Close()
		} else {
			defer client.Close()
			history = session.NewTurnStore(client, cfg.SessionMaxTurns,
				time.Duration(cfg.SessionTTLHours)*time.Hour)
		}
	}

	server := mcpserver.NewServer(&mcpserver.Config{
		Retriever:       engine,
		Generator:       generator,
		History:         history,
		Store:           store,
		Logger:          logger,
		TopK:            cfg.RetrievalTopK,
		MaxContextChars: cfg.MaxContextChars,
		PersonaWindow:   cfg.PersonaWindow,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/", mcpserver.NewLandingHandler())
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(store))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, nil))

	serverMode := os.Getenv("SERVER_MODE") == "true"

	if serverMode {
		// HTTP mode: serve MCP over HTTP for remote clients
		log.Printf("Starting HTTP server on %s (MCP at /mcp, health at /health)", cfg.Addr)
		if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	} else {
		// Stdio mode: run MCP over stdin/stdout, health endpoint in background
		go func() {
			log.Printf("Starting health server on %s", cfg.Addr)
			if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
				log.Printf("Health server error: %v", err)
			}
		}()

		log.Println("Starting Statline MCP Server (stdio mode)...")
		if err := server.Run(ctx); err != nil {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
