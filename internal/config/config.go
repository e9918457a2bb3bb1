// Package config loads service configuration by layering defaults, an
// optional YAML file, and environment variables.
package config

import "github.com/gridironlabs/statline/internal/retrieval"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QdrantHost and QdrantPort locate the document store (gRPC port).
	QdrantHost string `koanf:"qdrant_host"`
	QdrantPort int    `koanf:"qdrant_port"`

	// RedisURL locates the session store. Empty disables session history.
	RedisURL string `koanf:"redis_url"`

	// RetrievalTopK bounds candidates fetched per query.
	RetrievalTopK int `koanf:"retrieval_top_k"`

	// MaxContextChars bounds assembled grounding context.
	MaxContextChars int `koanf:"max_context_chars"`

	// MinSimilarity is the retrieval relevance floor in [0, 1].
	MinSimilarity float64 `koanf:"min_similarity"`

	// RankingTopN bounds indexed leaderboards.
	RankingTopN int `koanf:"ranking_top_n"`

	// WinPctTieCredit counts ties as half a win in win percentage.
	WinPctTieCredit bool `koanf:"win_pct_tie_credit"`

	// SessionMaxTurns bounds stored history per conversation.
	SessionMaxTurns int `koanf:"session_max_turns"`

	// SessionTTLHours expires idle conversations.
	SessionTTLHours int `koanf:"session_ttl_hours"`

	// PersonaWindow is how many prior turns vote in persona smoothing.
	PersonaWindow int `koanf:"persona_window"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		QdrantHost:      "localhost",
		QdrantPort:      6334,
		RedisURL:        "redis://localhost:6379/0",
		RetrievalTopK:   5,
		MaxContextChars: 8000,
		MinSimilarity:   retrieval.DefaultMinSimilarity,
		RankingTopN:     10,
		WinPctTieCredit: true,
		SessionMaxTurns: 20,
		SessionTTLHours: 24,
		PersonaWindow:   3,
	}
}
