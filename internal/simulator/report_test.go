package simulator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/minicasino/internal/games"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	strategy, err := ParseStrategy(games.MinesGame, "reveal:2")
	require.NoError(t, err)
	cfg := Config{Game: games.MinesGame, Rounds: 300, Workers: 2, Seed: 4, Strategy: strategy}
	stats := run(t, cfg)

	sim, err := New(newCatalog(), Config{Game: cfg.Game, Rounds: cfg.Rounds, Workers: 2, Seed: 4, Strategy: strategy, Logger: quietLogger()})
	require.NoError(t, err)
	report := NewReport(stats, sim.Config())

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteReport(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Report
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "mines", got.Game)
	assert.Equal(t, "reveal:2", got.Strategy)
	assert.Equal(t, "1.00", got.Wager)
	assert.Equal(t, 300, got.Rounds)
	assert.Equal(t, stats.Wins+stats.Losses, got.Wins+got.Losses)
	assert.InDelta(t, stats.RTP(), got.RTP, 1e-12)
	assert.NotEmpty(t, got.Progress)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp.*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files are cleaned up")
}

func TestWriteReportMissingDirectory(t *testing.T) {
	err := WriteReport(filepath.Join(t.TempDir(), "missing", "report.json"), Report{})
	assert.Error(t, err)
}
