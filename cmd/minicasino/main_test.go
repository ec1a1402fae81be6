package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, level, err := loadConfig(&Globals{Config: filepath.Join(t.TempDir(), "none.hcl")})
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, level)
	assert.Equal(t, "blackjack", cfg.Lobby.DefaultGame)
}

func TestLoadConfigFlagOverridesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lobby.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`lobby {
  log_level = "warn"
  default_game = "wheel"
}
`), 0o644))

	_, level, err := loadConfig(&Globals{Config: path})
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, level)

	cfg, level, err := loadConfig(&Globals{Config: path, LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, level)
	assert.Equal(t, "wheel", cfg.Lobby.DefaultGame)

	_, _, err = loadConfig(&Globals{Config: path, LogLevel: "loud"})
	assert.Error(t, err)
}

func TestCLIParses(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		command string
	}{
		{name: "default is play", args: nil, command: "play"},
		{name: "play flags", args: []string{"play", "--seed", "7", "--no-color", "--metrics-addr", ":9090"}, command: "play"},
		{name: "simulate", args: []string{"simulate", "-g", "wheel", "--tier", "hard", "-n", "10", "-w", "2"}, command: "simulate"},
		{name: "odds", args: []string{"odds", "--game", "mines", "--mines", "3"}, command: "odds"},
		{name: "version", args: []string{"version"}, command: "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cli CLI
			parser, err := kong.New(&cli, kong.Name("minicasino"), kong.Vars{"version": "test"})
			require.NoError(t, err)
			ctx, err := parser.Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.command, ctx.Command())
		})
	}
}

func TestCLIRejectsUnknownGame(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("minicasino"), kong.Vars{"version": "test"})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"simulate", "-g", "roulette"})
	assert.Error(t, err)
}

func TestOddsCommandRuns(t *testing.T) {
	g := &Globals{Config: filepath.Join(t.TempDir(), "none.hcl")}
	for _, game := range []string{"mines", "tower", "wheel"} {
		assert.NoError(t, (&OddsCmd{Game: game}).Run(g), game)
	}
	assert.Error(t, (&OddsCmd{Game: "mines", Mines: 30}).Run(g))
}
