package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Forecast ForecastConfig `yaml:"forecast"`
	Chat     ChatConfig     `yaml:"chat"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// ForecastConfig locates the trained model artifact.
type ForecastConfig struct {
	Artifact ArtifactConfig `yaml:"artifact"`
}

// ArtifactConfig selects between a local bundle file and object storage.
// When the S3 endpoint is set the bundle is fetched from object storage;
// otherwise Path is read from disk.
type ArtifactConfig struct {
	Path string         `yaml:"path"`
	S3   S3SourceConfig `yaml:"s3"`
}

// S3SourceConfig contains S3-compatible object storage settings.
type S3SourceConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Key       string `yaml:"key"`
	Region    string `yaml:"region"`
}

// ChatConfig controls the FAQ chat pipeline.
type ChatConfig struct {
	SimilarityThreshold float64         `yaml:"similarityThreshold"`
	TopRecommendations  int             `yaml:"topRecommendations"`
	Embedding           EmbeddingConfig `yaml:"embedding"`
	Valkey              ValkeyConfig    `yaml:"valkey"`
	Postgres            PostgresConfig  `yaml:"postgres"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`
	APIKey    string `yaml:"apiKey"`
	BaseURL   string `yaml:"baseUrl"`
	Model     string `yaml:"model"`
	LocalDims int    `yaml:"localDims"`
}

// ValkeyConfig contains connection information for the trending store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings for the corpus source.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Embedding provider names.
const (
	EmbeddingProviderOpenAI = "openai"
	EmbeddingProviderLocal  = "local"
)

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("MODEL_ARTIFACT_PATH"); v != "" {
		cfg.Forecast.Artifact.Path = v
	}
	if v := os.Getenv("MODEL_ARTIFACT_S3_ENDPOINT"); v != "" {
		cfg.Forecast.Artifact.S3.Endpoint = v
	}
	if v := os.Getenv("MODEL_ARTIFACT_S3_ACCESS_KEY"); v != "" {
		cfg.Forecast.Artifact.S3.AccessKey = v
	}
	if v := os.Getenv("MODEL_ARTIFACT_S3_SECRET_KEY"); v != "" {
		cfg.Forecast.Artifact.S3.SecretKey = v
	}
	if v := os.Getenv("MODEL_ARTIFACT_S3_BUCKET"); v != "" {
		cfg.Forecast.Artifact.S3.Bucket = v
	}
	if v := os.Getenv("MODEL_ARTIFACT_S3_KEY"); v != "" {
		cfg.Forecast.Artifact.S3.Key = v
	}
	if v := os.Getenv("MODEL_ARTIFACT_S3_REGION"); v != "" {
		cfg.Forecast.Artifact.S3.Region = v
	}
	if v := os.Getenv("CHAT_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chat.SimilarityThreshold = parsed
		}
	}
	if v := os.Getenv("CHAT_RECOMMENDATIONS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chat.TopRecommendations = parsed
		}
	}
	if v := os.Getenv("CHAT_EMBEDDING_PROVIDER"); v != "" {
		cfg.Chat.Embedding.Provider = v
	}
	if v := os.Getenv("CHAT_EMBEDDING_API_KEY"); v != "" {
		cfg.Chat.Embedding.APIKey = v
	}
	if v := os.Getenv("CHAT_EMBEDDING_BASE_URL"); v != "" {
		cfg.Chat.Embedding.BaseURL = v
	}
	if v := os.Getenv("CHAT_EMBEDDING_MODEL"); v != "" {
		cfg.Chat.Embedding.Model = v
	}
	if v := os.Getenv("CHAT_VALKEY_ENABLED"); v != "" {
		cfg.Chat.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CHAT_VALKEY_ADDR"); v != "" {
		cfg.Chat.Valkey.Addr = v
	}
	if v := os.Getenv("CHAT_POSTGRES_DSN"); v != "" {
		cfg.Chat.Postgres.DSN = v
	}
	if v := os.Getenv("CHAT_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chat.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("CHAT_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chat.Postgres.MinConns = int32(parsed)
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Forecast: ForecastConfig{
			Artifact: ArtifactConfig{
				Path: "models/optimized_temple_brain.json",
			},
		},
		Chat: ChatConfig{
			SimilarityThreshold: 0.35,
			TopRecommendations:  10,
			Embedding: EmbeddingConfig{
				Provider:  EmbeddingProviderOpenAI,
				Model:     "text-embedding-3-small",
				LocalDims: 64,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Forecast.Artifact.S3.Endpoint == "" && c.Forecast.Artifact.Path == "" {
		return errors.New("forecast.artifact requires a path or an s3 endpoint")
	}
	if c.Forecast.Artifact.S3.Endpoint != "" {
		if c.Forecast.Artifact.S3.Bucket == "" || c.Forecast.Artifact.S3.Key == "" {
			return errors.New("forecast.artifact.s3 requires bucket and key")
		}
	}
	// A threshold of 0 would match every query; the chat service treats
	// non-positive values as unset, so reject them here instead.
	if c.Chat.SimilarityThreshold <= 0 || c.Chat.SimilarityThreshold > 1 {
		return errors.New("chat.similarityThreshold must be within (0,1]")
	}
	if c.Chat.TopRecommendations < 0 {
		return errors.New("chat.topRecommendations cannot be negative")
	}
	switch c.Chat.Embedding.Provider {
	case EmbeddingProviderOpenAI, EmbeddingProviderLocal:
	default:
		return fmt.Errorf("chat.embedding.provider must be %q or %q", EmbeddingProviderOpenAI, EmbeddingProviderLocal)
	}
	if c.Chat.Embedding.Provider == EmbeddingProviderOpenAI && strings.TrimSpace(c.Chat.Embedding.Model) == "" {
		return errors.New("chat.embedding.model cannot be empty")
	}
	if c.Chat.Valkey.Enabled && strings.TrimSpace(c.Chat.Valkey.Addr) == "" {
		return errors.New("chat.valkey.addr cannot be empty when valkey is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
