package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	v, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, "classic", cfg.Render.Template)
	assert.False(t, cfg.Kafka.Enabled)
	assert.True(t, cfg.Export.Sidecars)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: \"9000\"\nrender:\n  template: poker\nkafka:\n  brokers: [a:1, b:2]\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("CARDFORGE_STORAGE_PATH", "/data/cards")

	v, err := LoadConfig(dir)
	require.NoError(t, err)
	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "poker", cfg.Render.Template)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Kafka.Brokers)
	assert.Equal(t, "/data/cards", cfg.Storage.Path)
}

func TestParseConfigRejectsBackend(t *testing.T) {
	t.Setenv("CARDFORGE_STORAGE_BACKEND", "s3")
	v, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	_, err = ParseConfig(v)
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CARDFORGE_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnv("CARDFORGE_TEST_KEY", "default"))
	assert.Equal(t, "default", GetEnv("CARDFORGE_UNSET_KEY", "default"))
}
