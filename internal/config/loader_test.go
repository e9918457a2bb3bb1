package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "localhost", cfg.QdrantHost)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.Equal(t, 5, cfg.RetrievalTopK)
	assert.Equal(t, 0.4, cfg.MinSimilarity)
	assert.True(t, cfg.WinPctTieCredit)
	assert.Equal(t, 3, cfg.PersonaWindow)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STATLINE_ADDR", ":9999")
	t.Setenv("STATLINE_RETRIEVAL_TOP_K", "12")
	t.Setenv("STATLINE_MIN_SIMILARITY", "0.25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 12, cfg.RetrievalTopK)
	assert.Equal(t, 0.25, cfg.MinSimilarity)
	// Untouched keys keep their defaults.
	assert.Equal(t, 8000, cfg.MaxContextChars)
}

func TestLoad_FileLayer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7070\"\nranking_top_n: 25\n"), 0o644))
	t.Setenv("STATLINE_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, 25, cfg.RankingTopN)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o644))
	t.Setenv("STATLINE_CONFIG", path)
	t.Setenv("STATLINE_ADDR", ":6060")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Addr)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("STATLINE_MIN_SIMILARITY", "1.5")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MissingFileFails(t *testing.T) {
	t.Setenv("STATLINE_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.Error(t, err)
}
