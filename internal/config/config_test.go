package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lox/minicasino/internal/games"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigMatchesGameDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	settings, err := cfg.Settings()
	require.NoError(t, err)

	want := games.DefaultSettings()
	assert.Equal(t, want.Blackjack, settings.Blackjack)
	assert.Equal(t, want.Mines, settings.Mines)
	assert.Equal(t, want.Tower, settings.Tower)
	assert.Equal(t, want.TowerTiers, settings.TowerTiers)
	assert.Equal(t, want.Coinflip, settings.Coinflip)
	assert.Equal(t, want.Wheel, settings.Wheel)
	assert.Equal(t, want.WheelTiers, settings.WheelTiers)
	assert.Equal(t, want.ResetDelay, settings.ResetDelay)

	balance, err := cfg.StartingBalance()
	require.NoError(t, err)
	assert.Equal(t, "10.00", balance.StringFixed(2))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseOverridesAndDefaults(t *testing.T) {
	src := `
lobby {
  starting_balance = "250.50"
  log_level        = "debug"
  default_game     = "wheel"
}

pacing {
  spin_ms = 1500
}

mines {
  mines = 3
}

tower {
  height       = 4
  default_tier = "steep"
}

tier "gentle" {
  tiles = 4
  safe  = 3
}

tier "steep" {
  tiles = 4
  safe  = 1
}

wheel "flat" {
  segments = [0.5, 1.4]
}

wheel "spiky" {
  segments = [0, 0, 0, 3.8]
  default  = true
}
`
	cfg, err := Parse([]byte(src), "lobby.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	balance, err := cfg.StartingBalance()
	require.NoError(t, err)
	assert.Equal(t, "250.50", balance.StringFixed(2))
	assert.Equal(t, "0.01", cfg.Lobby.MinStake)
	assert.Equal(t, "minicasino.log", cfg.Lobby.LogFile)

	settings, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, settings.Wheel.Spin)
	assert.Equal(t, 800*time.Millisecond, settings.Blackjack.DealerStep)
	assert.Equal(t, 6, settings.Blackjack.Decks)
	assert.Equal(t, 3, settings.Mines.Mines)
	assert.Equal(t, 25, settings.Mines.Cells)
	assert.Equal(t, 4, settings.Tower.Height)
	assert.Equal(t, games.TowerTier{Name: "steep", Tiles: 4, Safe: 1}, settings.Tower.Tier)
	assert.Len(t, settings.TowerTiers, 2)
	assert.Equal(t, "spiky", settings.Wheel.Tier.Name)
	assert.Equal(t, "3.8x", settings.Wheel.Tier.Segments[3].Label)

	catalog := games.NewCatalog(settings, nil)
	rules, err := catalog.Rules(games.TowerGame, "gentle")
	require.NoError(t, err)
	assert.Equal(t, 4, rules.(*games.Tower).Table().Height())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lobby.hcl")
	require.NoError(t, os.WriteFile(path, []byte("coinflip {\n  multiplier = 1.95\n}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1.95, cfg.Coinflip.Multiplier)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("lobby {"), "broken.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`unknown { x = 1 }`), "unknown.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`tier "x" { tiles = 3 }`), "tier.hcl")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative balance", func(c *Config) { c.Lobby.StartingBalance = "-1" }},
		{"garbage balance", func(c *Config) { c.Lobby.StartingBalance = "lots" }},
		{"zero stake", func(c *Config) { c.Lobby.MinStake = "0" }},
		{"sub-cent stake", func(c *Config) { c.Lobby.MinStake = "0.001" }},
		{"log level", func(c *Config) { c.Lobby.LogLevel = "loud" }},
		{"default game", func(c *Config) { c.Lobby.DefaultGame = "roulette" }},
		{"negative pacing", func(c *Config) { c.Pacing.SpinMS = -1 }},
		{"too many decks", func(c *Config) { c.Blackjack.Decks = 9 }},
		{"natural below even money", func(c *Config) { c.Blackjack.NaturalMultiplier = 1.5 }},
		{"too many mines", func(c *Config) { c.Mines.Mines = 25 }},
		{"house edge above one", func(c *Config) { c.Mines.HouseEdge = 1.2 }},
		{"tier without risk", func(c *Config) { c.TowerTiers[0].Safe = c.TowerTiers[0].Tiles }},
		{"duplicate tier", func(c *Config) { c.TowerTiers[1].Name = c.TowerTiers[0].Name }},
		{"missing default tier", func(c *Config) { c.Tower.DefaultTier = "nope" }},
		{"coinflip multiplier", func(c *Config) { c.Coinflip.Multiplier = -2 }},
		{"negative segment", func(c *Config) { c.Wheels[0].Segments = []float64{1, -1} }},
		{"empty wheel", func(c *Config) { c.Wheels[0].Segments = nil }},
		{"duplicate wheel", func(c *Config) { c.Wheels[1].Name = c.Wheels[0].Name }},
		{"two default wheels", func(c *Config) {
			c.Wheels[0].Default = true
			c.Wheels[1].Default = true
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

			_, err := cfg.Settings()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNormalizer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lobby.MinStake = "0.10"

	n, err := cfg.Normalizer()
	require.NoError(t, err)
	assert.Equal(t, "0.10", n.MinStake.StringFixed(2))
}
