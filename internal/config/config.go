package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"

	"semaxis/internal/domain"
)

// CompatEmbedderConfig holds configuration for the OpenAI-compatible HTTP embedder
// (OpenAI, Ollama, LocalAI and similar servers).
type CompatEmbedderConfig struct {
	BaseURL     string `yaml:"base_url" env:"SEMAXIS_COMPAT_BASE_URL"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model" env:"SEMAXIS_COMPAT_MODEL"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
	MaxRetries  int    `yaml:"max_retries"`
	// AllowMissingKey is for servers that need no key, such as a local Ollama.
	AllowMissingKey bool `yaml:"allow_missing_key"`
}

// OpenAIEmbedderConfig holds configuration for the official OpenAI SDK embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url" env:"SEMAXIS_OPENAI_BASE_URL"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model" env:"SEMAXIS_OPENAI_MODEL"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
	MaxRetries  int    `yaml:"max_retries"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string               `yaml:"type" env:"SEMAXIS_EMBEDDER_TYPE"`
	Compat CompatEmbedderConfig `yaml:"compat"`
	OpenAI OpenAIEmbedderConfig `yaml:"openai"`
}

// DataConfig locates the example files and the persisted axis.
type DataConfig struct {
	PositiveFile     string `yaml:"positive_file" env:"SEMAXIS_POSITIVE_FILE"`
	NegativeFile     string `yaml:"negative_file" env:"SEMAXIS_NEGATIVE_FILE"`
	AxisFile         string `yaml:"axis_file" env:"SEMAXIS_AXIS_FILE"`
	BootstrapSamples bool   `yaml:"bootstrap_samples" env:"SEMAXIS_BOOTSTRAP_SAMPLES"`
}

// ScoringConfig holds the interpretation band boundaries.
type ScoringConfig struct {
	High     float64 `yaml:"high"`
	Moderate float64 `yaml:"moderate"`
	Low      float64 `yaml:"low"`
}

// EvaluationConfig holds the overall-score policy and the quality grade cut-offs.
type EvaluationConfig struct {
	AccuracyWeight    float64 `yaml:"accuracy_weight"`
	SeparationWeight  float64 `yaml:"separation_weight"`
	ConsistencyWeight float64 `yaml:"consistency_weight"`
	SeparationScale   float64 `yaml:"separation_scale"`
	SeparationCap     float64 `yaml:"separation_cap"`
	OverlapPenalty    float64 `yaml:"overlap_penalty"`
	ExcellentAbove    float64 `yaml:"excellent_above"`
	GoodAbove         float64 `yaml:"good_above"`
	FairAbove         float64 `yaml:"fair_above"`
	DatasetFile       string  `yaml:"dataset_file" env:"SEMAXIS_DATASET_FILE"`
}

// CacheConfig configures the optional embedding cache for remote embedders.
type CacheConfig struct {
	Type     string `yaml:"type" env:"SEMAXIS_CACHE_TYPE"`
	Addr     string `yaml:"addr" env:"SEMAXIS_REDIS_ADDR"`
	Password string `yaml:"password" env:"SEMAXIS_REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
	TTLSecs  int    `yaml:"ttl_secs"`
}

// ServerConfig configures the HTTP scoring endpoint started by `semaxis serve`.
type ServerConfig struct {
	Addr string `yaml:"addr" env:"SEMAXIS_SERVER_ADDR"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level" env:"SEMAXIS_LOG_LEVEL"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Data       DataConfig       `yaml:"data"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Cache      CacheConfig      `yaml:"cache"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from a specified path on top of the defaults, then
// applies environment overrides. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/semaxis/config.yaml.
// If neither exists, it writes defaults to ~/.config/semaxis/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	if err := Save(userPath, Default()); err != nil {
		return nil, "", err
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks values that would make scoring or evaluation meaningless.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "tfidf", "compat", "openai":
	default:
		return domain.NewValidationErr(fmt.Sprintf("unknown embedder: %s", c.Embedder.Type))
	}
	switch c.Cache.Type {
	case "none", "redis":
	default:
		return domain.NewValidationErr(fmt.Sprintf("unknown cache: %s", c.Cache.Type))
	}
	if c.Embedder.Compat.MaxRetries < 0 || c.Embedder.OpenAI.MaxRetries < 0 {
		return domain.NewValidationErr("embedder max_retries must not be negative")
	}
	if c.Scoring.High < c.Scoring.Moderate || c.Scoring.Moderate < c.Scoring.Low {
		return domain.NewValidationErr(fmt.Sprintf("scoring thresholds must satisfy high >= moderate >= low, got %v/%v/%v",
			c.Scoring.High, c.Scoring.Moderate, c.Scoring.Low))
	}
	e := c.Evaluation
	if e.AccuracyWeight < 0 || e.SeparationWeight < 0 || e.ConsistencyWeight < 0 || e.OverlapPenalty < 0 {
		return domain.NewValidationErr("evaluation weights must not be negative")
	}
	if e.SeparationScale <= 0 {
		return domain.NewValidationErr("evaluation separation_scale must be positive")
	}
	if c.Data.AxisFile == "" {
		return domain.NewValidationErr("data axis_file must be set")
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "semaxis", "config.yaml"), nil
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Embedder: EmbedderConfig{
			Type:   "tfidf",
			Compat: CompatEmbedderConfig{MaxRetries: 5},
			OpenAI: OpenAIEmbedderConfig{MaxRetries: 2},
		},
		Data: DataConfig{
			PositiveFile:     filepath.Join("data", "positive_examples.txt"),
			NegativeFile:     filepath.Join("data", "negative_examples.txt"),
			AxisFile:         filepath.Join("data", "semantic_axis.bin"),
			BootstrapSamples: true,
		},
		Scoring: ScoringConfig{High: 0.1, Moderate: 0, Low: -0.1},
		Evaluation: EvaluationConfig{
			AccuracyWeight:    1.0 / 3,
			SeparationWeight:  1.0 / 3,
			ConsistencyWeight: 1.0 / 3,
			SeparationScale:   2.0,
			SeparationCap:     1.0,
			OverlapPenalty:    0.2,
			ExcellentAbove:    0.8,
			GoodAbove:         0.6,
			FairAbove:         0.4,
		},
		Cache:  CacheConfig{Type: "none", Addr: "localhost:6379", TTLSecs: 7 * 24 * 3600},
		Server: ServerConfig{Addr: ":5000"},
		Log:    LogConfig{Level: "info"},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Cache.Type == "" {
		cfg.Cache.Type = "none"
	}
	compat := &cfg.Embedder.Compat
	if compat.BaseURL == "" {
		compat.BaseURL = "https://api.openai.com/v1"
	}
	if compat.APIKeyEnv == "" {
		compat.APIKeyEnv = "OPENAI_API_KEY"
	}
	if compat.Model == "" {
		compat.Model = "text-embedding-3-small"
	}
	if compat.TimeoutSecs == 0 {
		compat.TimeoutSecs = 30
	}
	if compat.BatchSize == 0 {
		compat.BatchSize = 32
	}
	oa := &cfg.Embedder.OpenAI
	if oa.APIKeyEnv == "" {
		oa.APIKeyEnv = "OPENAI_API_KEY"
	}
	if oa.Model == "" {
		oa.Model = "text-embedding-3-small"
	}
	if oa.TimeoutSecs == 0 {
		oa.TimeoutSecs = 30
	}
	if oa.BatchSize == 0 {
		oa.BatchSize = 64
	}
}
