package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"BOOKSHELF_DB_DRIVER", "BOOKSHELF_DB_DSN", "BOOKSHELF_LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.Driver)
	assert.Equal(t, "bookshelf.db", cfg.DSN)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BOOKSHELF_DB_DRIVER", "mysql")
	t.Setenv("BOOKSHELF_DB_DSN", "app:app@tcp(localhost:3306)/bookdb")
	t.Setenv("BOOKSHELF_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Driver)
	assert.Equal(t, "app:app@tcp(localhost:3306)/bookdb", cfg.DSN)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "loud"}.Level())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "WARN"}.Level())
}
