package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type EmbedderConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type ScoringConfig struct {
	MinComplexity     float64 `toml:"min_complexity"`
	MinQuality        float64 `toml:"min_quality"`
	TargetWordCount   int     `toml:"target_word_count"`
	ValidityThreshold float64 `toml:"validity_threshold"`
	QualityWeight     float64 `toml:"quality_weight"`
	UniquenessWeight  float64 `toml:"uniqueness_weight"`
	WordCountWeight   float64 `toml:"word_count_weight"`
}

type Tier2Config struct {
	URL            string `toml:"url"`
	APIKey         string `toml:"api_key"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// Weights for the recombined cross-submission verdict.
	QualityWeight    float64 `toml:"quality_weight"`
	UniquenessWeight float64 `toml:"uniqueness_weight"`
}

func (t Tier2Config) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

type Config struct {
	DLPID    int            `toml:"dlp_id"`
	Embedder EmbedderConfig `toml:"embedder"`
	Scoring  ScoringConfig  `toml:"scoring"`
	Tier2    Tier2Config    `toml:"tier2"`
}

// Default returns the configuration used when no file or overrides are
// present. The thresholds match the deployed proof task.
func Default() *Config {
	return &Config{
		DLPID: 145,
		Embedder: EmbedderConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Scoring: ScoringConfig{
			MinComplexity:     0.2,
			MinQuality:        0.6,
			TargetWordCount:   50,
			ValidityThreshold: 0.5,
			QualityWeight:     0.4,
			UniquenessWeight:  0.4,
			WordCountWeight:   0.2,
		},
		Tier2: Tier2Config{
			TimeoutSeconds:   30,
			QualityWeight:    0.6,
			UniquenessWeight: 0.4,
		},
	}
}

// Load reads a TOML config file and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv builds a configuration from defaults plus environment
// variables only, for deployments that ship no config file.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DLP_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			c.DLPID = id
		}
	}
	if v := os.Getenv("EMBEDDER_PROVIDER"); v != "" {
		c.Embedder.Provider = v
	}
	if v := os.Getenv("EMBEDDER_MODEL"); v != "" {
		c.Embedder.Model = v
	}
	if v := os.Getenv("EMBEDDER_API_KEY"); v != "" {
		c.Embedder.APIKey = v
	}
	if v := os.Getenv("EMBEDDER_BASE_URL"); v != "" {
		c.Embedder.BaseURL = v
	}
	if v := os.Getenv("TIER_2_API_URL"); v != "" {
		c.Tier2.URL = v
	}
	if v := os.Getenv("TIER_2_API_KEY"); v != "" {
		c.Tier2.APIKey = v
	}
}
