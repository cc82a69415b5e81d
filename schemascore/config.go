package schemascore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = "schemascore.json"

// EmbedderConfig wraps the configuration for the ORT embedder and cache.
// When ModelPath is empty the engine runs with the lexical backend only.
type EmbedderConfig struct {
	OrtDLL        string `json:"ortDll"`
	ModelPath     string `json:"modelPath"`
	TokenizerPath string `json:"tokenizerPath"`
	MaxSeqLen     int    `json:"maxSeqLen"`
	CacheDir      string `json:"cacheDir"`
	ModelID       string `json:"modelId"`
}

// Config aggregates the tunable scoring settings.
type Config struct {
	// Weights is the per-dimension point allocation. Missing dimensions keep
	// their defaults; unknown keys are ignored.
	Weights Weights `json:"weights"`
	// SimilarityThreshold is the pairwise name-similarity cutoff in [0, 1].
	SimilarityThreshold float64 `json:"similarityThreshold"`
	// MeaningfulMin is the minimum similarity to the "meaningful field name"
	// reference below which a name is rejected.
	MeaningfulMin float64 `json:"meaningfulMin"`
	// PlaceholderMax is the maximum similarity to the placeholder reference
	// above which a name is rejected.
	PlaceholderMax float64 `json:"placeholderMax"`

	Embedder EmbedderConfig `json:"embedder"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	out := c
	out.Weights = c.Weights.Clone()
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Weights == nil {
		c.Weights = DefaultWeights()
	} else {
		c.Weights = DefaultWeights().Merge(c.Weights)
	}
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = 0.8
	}
	if c.MeaningfulMin == 0 {
		c.MeaningfulMin = 0.05
	}
	if c.PlaceholderMax == 0 {
		c.PlaceholderMax = 0.80
	}
	if c.Embedder.MaxSeqLen == 0 {
		c.Embedder.MaxSeqLen = 128
	}
}

// LoadConfig loads configuration from the given path or the default
// schemascore.json. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	if cfg.Embedder.CacheDir != "" {
		if err := os.MkdirAll(cfg.Embedder.CacheDir, 0o755); err != nil {
			return cfg, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
