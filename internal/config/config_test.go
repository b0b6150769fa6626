package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mural/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".mural_data.json"), cfg.Document.Path)
	assert.Equal(t, filepath.Join(home, ".local", "share", "mural", "history.db"), cfg.History.DBPath)
	assert.Equal(t, 50, cfg.History.MaxSnapshots)
	assert.Empty(t, cfg.History.Schedule)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MURAL_DOCUMENT_PATH", "/data/board.json")
	t.Setenv("MURAL_HISTORY_SCHEDULE", "@every 10m")
	t.Setenv("MURAL_WATCH_DEBOUNCE", "2s")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/board.json", cfg.Document.Path)
	assert.Equal(t, "@every 10m", cfg.History.Schedule)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
}

func TestLoad_ConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	file := filepath.Join(home, "mural.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
document:
  path: ~/boards/main.json
history:
  max_snapshots: 5
logger:
  format: json
`), 0644))

	cfg, err := config.Load(file)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "boards", "main.json"), cfg.Document.Path)
	assert.Equal(t, 5, cfg.History.MaxSnapshots)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MURAL_LOGGER_FORMAT", "xml")

	_, err := config.Load("")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
