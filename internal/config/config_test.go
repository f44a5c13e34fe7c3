package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.NotEmpty(t, cfg.TokenPath)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://store.example.com\nlocale: en-US\nrequest_timeout: 5s\n",
	), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://store.example.com", cfg.BaseURL)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)

	// Environment wins over the file.
	t.Setenv("DEATHSTORE_API_URL", "http://127.0.0.1:9999")
	t.Setenv("DEATHSTORE_LOCALE", "pt-BR")
	t.Setenv("DEATHSTORE_REQUEST_TIMEOUT", "2m")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.BaseURL)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
}

func TestLoad_BadTimeoutEnv(t *testing.T) {
	t.Setenv("DEATHSTORE_REQUEST_TIMEOUT", "soon")
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: [broken"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}
