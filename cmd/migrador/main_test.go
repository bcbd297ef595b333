package main

import (
	"context"
	"path/filepath"
	"testing"

	"agencia/internal/config"
	"agencia/internal/log"
	"agencia/internal/migrator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCommand(t *testing.T) {
	for _, c := range []string{"seed", "schema", "data", "all", "sequences"} {
		assert.True(t, validCommand(c), c)
	}
	for _, c := range []string{"", "SCHEMA", "drop", "help"} {
		assert.False(t, validCommand(c), c)
	}
}

func TestMigrate_MissingSourceReturnsError(t *testing.T) {
	ctx := log.WithContext(context.Background(), log.Discard())
	cfg := &config.Config{SQLiteDBPath: filepath.Join(t.TempDir(), "missing.db")}

	report, err := migrate(ctx, cfg, "all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.db")
	assert.Equal(t, migrator.StateInit, report.State)
	assert.False(t, report.Failed())
}

func TestSeed_CreatesStore(t *testing.T) {
	ctx := log.WithContext(context.Background(), log.Discard())
	cfg := &config.Config{SQLiteDBPath: filepath.Join(t.TempDir(), "agencia.db")}

	require.NoError(t, seed(ctx, cfg))
	require.NoError(t, seed(ctx, cfg), "seeding twice is a no-op")
	assert.FileExists(t, cfg.SQLiteDBPath)
}
