package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
http:
  address: ":9090"
forecast:
  artifact:
    path: /opt/models/bundle.json
chat:
  similarityThreshold: 0.5
  embedding:
    provider: local
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "/opt/models/bundle.json", cfg.Forecast.Artifact.Path)
	require.Equal(t, 0.5, cfg.Chat.SimilarityThreshold)
	require.Equal(t, EmbeddingProviderLocal, cfg.Chat.Embedding.Provider)
	// untouched defaults survive
	require.Equal(t, 10, cfg.Chat.TopRecommendations)
	require.True(t, cfg.HTTP.RateLimit.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err) // explicit CONFIG_PATH must exist
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.HTTP.Address = "" }},
		{"no artifact source", func(c *Config) { c.Forecast.Artifact.Path = "" }},
		{"s3 without bucket", func(c *Config) { c.Forecast.Artifact.S3.Endpoint = "https://s3.local" }},
		{"threshold above one", func(c *Config) { c.Chat.SimilarityThreshold = 1.5 }},
		{"zero threshold", func(c *Config) { c.Chat.SimilarityThreshold = 0 }},
		{"bad provider", func(c *Config) { c.Chat.Embedding.Provider = "tensorflow" }},
		{"valkey without addr", func(c *Config) { c.Chat.Valkey.Enabled = true }},
		{"rate limit without rpm", func(c *Config) { c.HTTP.RateLimit.RequestsPerMinute = 0 }},
	}

	for _, tc := range cases {
		cfg := defaultConfig()
		tc.mutate(cfg)
		require.Error(t, cfg.Validate(), tc.name)
	}
}

func TestValidate_DefaultIsValid(t *testing.T) {
	require.NoError(t, defaultConfig().Validate())
}
