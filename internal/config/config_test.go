package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 145, cfg.DLPID)
	assert.Equal(t, 0.2, cfg.Scoring.MinComplexity)
	assert.Equal(t, 0.6, cfg.Scoring.MinQuality)
	assert.Equal(t, 50, cfg.Scoring.TargetWordCount)
	assert.Equal(t, 0.5, cfg.Scoring.ValidityThreshold)
	assert.Equal(t, 30*time.Second, cfg.Tier2.Timeout())
	assert.InDelta(t, 1.0, cfg.Scoring.QualityWeight+cfg.Scoring.UniquenessWeight+cfg.Scoring.WordCountWeight, 1e-9)
	assert.InDelta(t, 1.0, cfg.Tier2.QualityWeight+cfg.Tier2.UniquenessWeight, 1e-9)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
dlp_id = 7

[embedder]
provider = "ollama"
model = "nomic-embed-text"
base_url = "http://localhost:11434"

[scoring]
min_quality = 0.7
target_word_count = 80

[tier2]
url = "https://oracle.example.com"
timeout_seconds = 10
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.DLPID)
	assert.Equal(t, "ollama", cfg.Embedder.Provider)
	assert.Equal(t, 0.7, cfg.Scoring.MinQuality)
	// Unset keys keep their defaults.
	assert.Equal(t, 0.2, cfg.Scoring.MinComplexity)
	assert.Equal(t, 80, cfg.Scoring.TargetWordCount)
	assert.Equal(t, 10*time.Second, cfg.Tier2.Timeout())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DLP_ID", "999")
	t.Setenv("EMBEDDER_PROVIDER", "gemini")
	t.Setenv("TIER_2_API_KEY", "secret")

	cfg := FromEnv()

	assert.Equal(t, 999, cfg.DLPID)
	assert.Equal(t, "gemini", cfg.Embedder.Provider)
	assert.Equal(t, "secret", cfg.Tier2.APIKey)
}
