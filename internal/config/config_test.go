package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.Host)
	assert.Empty(t, cfg.Token)
	assert.Equal(t, 15, cfg.TimeoutSeconds)
	assert.Equal(t, 5, cfg.PageSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PHOTOSHARE_HOST", "https://photos.example.com")
	t.Setenv("PHOTOSHARE_TOKEN", "tok-123")
	t.Setenv("PHOTOSHARE_TIMEOUT", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://photos.example.com", cfg.Host)
	assert.Equal(t, "tok-123", cfg.Token)
	assert.Equal(t, 30, cfg.TimeoutSeconds)
	assert.Equal(t, 5, cfg.PageSize, "unset values keep their defaults")
}

func TestValidate(t *testing.T) {
	valid := Config{Host: "http://localhost:8080", TimeoutSeconds: 15, PageSize: 5}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing host", func(c *Config) { c.Host = "" }, "PHOTOSHARE_HOST is required"},
		{"relative host", func(c *Config) { c.Host = "localhost:8080" }, "absolute URL"},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, "PHOTOSHARE_TIMEOUT"},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, "PHOTOSHARE_PAGE_SIZE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
