package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v, err := NewViper("")
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.False(t, cfg.Structural)
	assert.False(t, cfg.RawHTML)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("INHERITDOC_WORKERS", "3")
	t.Setenv("INHERITDOC_FORMAT", "html")
	t.Setenv("INHERITDOC_LOG_LEVEL", "debug")
	t.Setenv("INHERITDOC_LOG_JSON", "true")
	t.Setenv("INHERITDOC_DB_PATH", "/tmp/x.db")
	t.Setenv("INHERITDOC_RAW_HTML", "true")

	v, err := NewViper("")
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "html", cfg.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.True(t, cfg.RawHTML)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inheritdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: ~/docs.db\nstructural: true\nlog:\n  level: warn\n"), 0644))

	v, err := NewViper(path)
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "docs.db"), cfg.DBPath)
	assert.True(t, cfg.Structural)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Format, "defaults still apply")
}

func TestNewViper_MissingFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"format", "pdf"},
		{"workers", -1},
		{"log.level", "loud"},
		{"db_path", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, err := NewViper("")
			require.NoError(t, err)
			v.Set(tt.key, tt.value)

			_, err = Load(v)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
