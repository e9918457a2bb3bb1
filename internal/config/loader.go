package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if STATLINE_CONFIG is set
//  3. env (prefix STATLINE_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("STATLINE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Environment variables: STATLINE_ADDR, STATLINE_RETRIEVAL_TOP_K, ...
	// Keys keep their underscores to match the struct tags.
	envProvider := env.Provider("STATLINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "statline_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.QdrantHost == "" || c.QdrantPort <= 0 {
		return fmt.Errorf("invalid qdrant endpoint %s:%d", c.QdrantHost, c.QdrantPort)
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("retrieval_top_k must be positive, got %d", c.RetrievalTopK)
	}
	if c.MaxContextChars <= 0 {
		return fmt.Errorf("max_context_chars must be positive, got %d", c.MaxContextChars)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("min_similarity must be in [0, 1], got %g", c.MinSimilarity)
	}
	if c.RankingTopN <= 0 {
		return fmt.Errorf("ranking_top_n must be positive, got %d", c.RankingTopN)
	}
	return nil
}
