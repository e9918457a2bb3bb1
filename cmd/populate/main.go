// Package main provides the populate CLI that builds the season document
// corpus from a data snapshot.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gridironlabs/statline/internal/config"
	"github.com/gridironlabs/statline/internal/embedding"
	"github.com/gridironlabs/statline/internal/indexer"
	"github.com/gridironlabs/statline/internal/ranking"
	"github.com/gridironlabs/statline/internal/scoring"
	"github.com/gridironlabs/statline/internal/source"
	"github.com/gridironlabs/statline/internal/storage"
)

var topN int

var rootCmd = &cobra.Command{
	Use:   "statline",
	Short: "Fantasy football statistics indexing tool",
	Long:  "CLI tool for managing the season document corpus in Qdrant",
}

var populateCmd = &cobra.Command{
	Use:   "populate <snapshot.json>",
	Short: "Build and index the season document corpus from a snapshot",
	Long: `Aggregates a season data snapshot and indexes the resulting documents.

This command:
1. Connects to Qdrant and verifies health
2. Aggregates player stat records into season totals
3. Builds leaderboards per scoring policy and position
4. Renders team rankings, standings, schedule, injuries, and news
5. Embeds every document and upserts it by natural key

Environment variables:
  STATLINE_QDRANT_HOST  Qdrant hostname (default: localhost)
  STATLINE_QDRANT_PORT  Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY        OpenAI API key for embeddings (required)`,
	Args: cobra.ExactArgs(1),
	RunE: runPopulate,
}

func init() {
	populateCmd.Flags().IntVar(&topN, "top-n", 0, "leaderboard size (default from config)")
	rootCmd.AddCommand(populateCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPopulate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if topN <= 0 {
		topN = cfg.RankingTopN
	}

	fmt.Println("Starting populate...")
	fmt.Println()

	snap, err := source.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Loaded snapshot for season %d (%d records)\n", snap.Season, len(snap.Records))

	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.QdrantHost, cfg.QdrantPort)
	store, err := storage.NewQdrantStore(cfg.QdrantHost, cfg.QdrantPort)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	if err := store.Health(ctx); err != nil {
		return fmt.Errorf("Qdrant health check failed: %w", err)
	}
	fmt.Println("Qdrant healthy")

	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, 0)

	builder := ranking.NewBuilder(scoring.NewEngine(scoring.Config{
		WinPctTieCredit: cfg.WinPctTieCredit,
	}))
	pipeline := indexer.NewPipeline(embedder, store, builder, slog.Default())

	fmt.Println()
	fmt.Println("Indexing season documents...")
	result, err := pipeline.PopulateSeason(ctx, snap.PopulateInput(topN))
	if err != nil {
		return fmt.Errorf("populate failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Populate complete!")
	fmt.Printf("  Documents: %d\n", result.Documents)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Second))

	if len(result.RejectedRecords) > 0 {
		fmt.Println()
		fmt.Printf("Rejected records: %d\n", len(result.RejectedRecords))
		for _, rejected := range result.RejectedRecords {
			fmt.Printf("  - player %q week %d: %s\n",
				rejected.Record.PlayerID, rejected.Record.Week, rejected.Err.Reason)
		}
	}

	if len(result.FailedDocs) > 0 {
		fmt.Println()
		fmt.Println("Failed documents:")
		for _, failed := range result.FailedDocs {
			fmt.Printf("  - %s: %s\n", failed.Label, failed.Reason)
		}
	}

	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))

	return nil
}
