// Package config loads the lobby configuration from HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/minicasino/internal/games"
	"github.com/lox/minicasino/internal/odds"
	"github.com/lox/minicasino/internal/wager"
	"github.com/shopspring/decimal"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the complete lobby configuration
type Config struct {
	Lobby      *LobbySettings     `hcl:"lobby,block"`
	Pacing     *PacingSettings    `hcl:"pacing,block"`
	Blackjack  *BlackjackSettings `hcl:"blackjack,block"`
	Mines      *MinesSettings     `hcl:"mines,block"`
	Tower      *TowerSettings     `hcl:"tower,block"`
	TowerTiers []TowerTierConfig  `hcl:"tier,block"`
	Coinflip   *CoinflipSettings  `hcl:"coinflip,block"`
	Wheels     []WheelTierConfig  `hcl:"wheel,block"`
}

// LobbySettings contains lobby-wide settings
type LobbySettings struct {
	StartingBalance string `hcl:"starting_balance,optional"`
	MinStake        string `hcl:"min_stake,optional"`
	LogLevel        string `hcl:"log_level,optional"`
	LogFile         string `hcl:"log_file,optional"`
	DefaultGame     string `hcl:"default_game,optional"`
}

// PacingSettings holds the reveal delays in milliseconds
type PacingSettings struct {
	DealerStepMS int `hcl:"dealer_step_ms,optional"`
	SpinMS       int `hcl:"spin_ms,optional"`
	FlipMS       int `hcl:"flip_ms,optional"`
	ResetMS      int `hcl:"reset_ms,optional"`
}

// BlackjackSettings configures the blackjack table
type BlackjackSettings struct {
	Decks             int     `hcl:"decks,optional"`
	NaturalMultiplier float64 `hcl:"natural_multiplier,optional"`
}

// MinesSettings configures the mines grid
type MinesSettings struct {
	Cells     int     `hcl:"cells,optional"`
	Mines     int     `hcl:"mines,optional"`
	HouseEdge float64 `hcl:"house_edge,optional"`
}

// TowerSettings configures the tower
type TowerSettings struct {
	Height      int     `hcl:"height,optional"`
	HouseEdge   float64 `hcl:"house_edge,optional"`
	DefaultTier string  `hcl:"default_tier,optional"`
}

// TowerTierConfig defines a tower difficulty
type TowerTierConfig struct {
	Name  string `hcl:"name,label"`
	Tiles int    `hcl:"tiles"`
	Safe  int    `hcl:"safe"`
}

// CoinflipSettings configures the coinflip payout
type CoinflipSettings struct {
	Multiplier float64 `hcl:"multiplier,optional"`
}

// WheelTierConfig defines a wheel tier
type WheelTierConfig struct {
	Name     string    `hcl:"name,label"`
	Segments []float64 `hcl:"segments"`
	Default  bool      `hcl:"default,optional"`
}

// DefaultConfig returns the configuration of the original lobby
func DefaultConfig() *Config {
	settings := games.DefaultSettings()

	cfg := &Config{
		Lobby: &LobbySettings{
			StartingBalance: "10.00",
			MinStake:        "0.01",
			LogLevel:        "info",
			LogFile:         "minicasino.log",
			DefaultGame:     games.BlackjackGame,
		},
		Pacing: &PacingSettings{
			DealerStepMS: int(settings.Blackjack.DealerStep / time.Millisecond),
			SpinMS:       int(settings.Wheel.Spin / time.Millisecond),
			FlipMS:       int(settings.Coinflip.Flip / time.Millisecond),
			ResetMS:      int(settings.ResetDelay / time.Millisecond),
		},
		Blackjack: &BlackjackSettings{
			Decks:             settings.Blackjack.Decks,
			NaturalMultiplier: settings.Blackjack.NaturalMultiplier,
		},
		Mines: &MinesSettings{
			Cells:     settings.Mines.Cells,
			Mines:     settings.Mines.Mines,
			HouseEdge: settings.Mines.HouseEdge,
		},
		Tower: &TowerSettings{
			Height:      settings.Tower.Height,
			HouseEdge:   settings.Tower.HouseEdge,
			DefaultTier: settings.Tower.Tier.Name,
		},
		Coinflip: &CoinflipSettings{
			Multiplier: settings.Coinflip.Multiplier,
		},
	}
	for _, t := range settings.TowerTiers {
		cfg.TowerTiers = append(cfg.TowerTiers, TowerTierConfig{Name: t.Name, Tiles: t.Tiles, Safe: t.Safe})
	}
	for _, w := range settings.WheelTiers {
		wc := WheelTierConfig{Name: w.Name, Default: w.Name == settings.Wheel.Tier.Name}
		for _, s := range w.Segments {
			wc.Segments = append(wc.Segments, s.Multiplier)
		}
		cfg.Wheels = append(cfg.Wheels, wc)
	}
	return cfg
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults for anything it omits.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults(DefaultConfig())
	return &config, nil
}

func (c *Config) applyDefaults(d *Config) {
	if c.Lobby == nil {
		c.Lobby = d.Lobby
	}
	if c.Lobby.StartingBalance == "" {
		c.Lobby.StartingBalance = d.Lobby.StartingBalance
	}
	if c.Lobby.MinStake == "" {
		c.Lobby.MinStake = d.Lobby.MinStake
	}
	if c.Lobby.LogLevel == "" {
		c.Lobby.LogLevel = d.Lobby.LogLevel
	}
	if c.Lobby.LogFile == "" {
		c.Lobby.LogFile = d.Lobby.LogFile
	}
	if c.Lobby.DefaultGame == "" {
		c.Lobby.DefaultGame = d.Lobby.DefaultGame
	}

	if c.Pacing == nil {
		c.Pacing = d.Pacing
	}
	if c.Pacing.DealerStepMS == 0 {
		c.Pacing.DealerStepMS = d.Pacing.DealerStepMS
	}
	if c.Pacing.SpinMS == 0 {
		c.Pacing.SpinMS = d.Pacing.SpinMS
	}
	if c.Pacing.FlipMS == 0 {
		c.Pacing.FlipMS = d.Pacing.FlipMS
	}
	if c.Pacing.ResetMS == 0 {
		c.Pacing.ResetMS = d.Pacing.ResetMS
	}

	if c.Blackjack == nil {
		c.Blackjack = d.Blackjack
	}
	if c.Blackjack.Decks == 0 {
		c.Blackjack.Decks = d.Blackjack.Decks
	}
	if c.Blackjack.NaturalMultiplier == 0 {
		c.Blackjack.NaturalMultiplier = d.Blackjack.NaturalMultiplier
	}

	if c.Mines == nil {
		c.Mines = d.Mines
	}
	if c.Mines.Cells == 0 {
		c.Mines.Cells = d.Mines.Cells
	}
	if c.Mines.Mines == 0 {
		c.Mines.Mines = d.Mines.Mines
	}
	if c.Mines.HouseEdge == 0 {
		c.Mines.HouseEdge = d.Mines.HouseEdge
	}

	if c.Tower == nil {
		c.Tower = d.Tower
	}
	if c.Tower.Height == 0 {
		c.Tower.Height = d.Tower.Height
	}
	if c.Tower.HouseEdge == 0 {
		c.Tower.HouseEdge = d.Tower.HouseEdge
	}
	if len(c.TowerTiers) == 0 {
		c.TowerTiers = d.TowerTiers
	}
	if c.Tower.DefaultTier == "" {
		c.Tower.DefaultTier = c.TowerTiers[0].Name
	}

	if c.Coinflip == nil {
		c.Coinflip = d.Coinflip
	}
	if c.Coinflip.Multiplier == 0 {
		c.Coinflip.Multiplier = d.Coinflip.Multiplier
	}

	if len(c.Wheels) == 0 {
		c.Wheels = d.Wheels
	}
}

// Validate validates the lobby configuration
func (c *Config) Validate() error {
	if _, err := c.StartingBalance(); err != nil {
		return err
	}
	if _, err := c.MinStake(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Lobby.LogLevel); err != nil {
		return fmt.Errorf("lobby: log level %q: %w", c.Lobby.LogLevel, ErrInvalidConfig)
	}
	if !isGame(c.Lobby.DefaultGame) {
		return fmt.Errorf("lobby: unknown default game %q: %w", c.Lobby.DefaultGame, ErrInvalidConfig)
	}

	p := c.Pacing
	if p.DealerStepMS < 0 || p.SpinMS < 0 || p.FlipMS < 0 || p.ResetMS < 0 {
		return fmt.Errorf("pacing: delays must not be negative: %w", ErrInvalidConfig)
	}

	if c.Blackjack.Decks < 1 || c.Blackjack.Decks > 8 {
		return fmt.Errorf("blackjack: decks must be between 1 and 8, got %d: %w", c.Blackjack.Decks, ErrInvalidConfig)
	}
	if c.Blackjack.NaturalMultiplier < 2 {
		return fmt.Errorf("blackjack: natural multiplier must be at least 2: %w", ErrInvalidConfig)
	}

	if _, err := odds.NewMinesTable(c.Mines.Cells, c.Mines.Mines, c.Mines.HouseEdge); err != nil {
		return fmt.Errorf("mines: %w: %w", ErrInvalidConfig, err)
	}

	seen := make(map[string]bool)
	for _, t := range c.TowerTiers {
		if seen[t.Name] {
			return fmt.Errorf("tier %q defined twice: %w", t.Name, ErrInvalidConfig)
		}
		seen[t.Name] = true
		if _, err := odds.NewTowerTable(t.Tiles, t.Safe, c.Tower.Height, c.Tower.HouseEdge); err != nil {
			return fmt.Errorf("tier %q: %w: %w", t.Name, ErrInvalidConfig, err)
		}
	}
	if !seen[c.Tower.DefaultTier] {
		return fmt.Errorf("tower: default tier %q is not defined: %w", c.Tower.DefaultTier, ErrInvalidConfig)
	}

	if c.Coinflip.Multiplier <= 0 {
		return fmt.Errorf("coinflip: multiplier must be positive: %w", ErrInvalidConfig)
	}

	clear(seen)
	defaults := 0
	for _, w := range c.Wheels {
		if seen[w.Name] {
			return fmt.Errorf("wheel %q defined twice: %w", w.Name, ErrInvalidConfig)
		}
		seen[w.Name] = true
		if err := odds.ValidateSegments(odds.NewSegments(w.Segments...)); err != nil {
			return fmt.Errorf("wheel %q: %w: %w", w.Name, ErrInvalidConfig, err)
		}
		if w.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("only one wheel may be the default: %w", ErrInvalidConfig)
	}

	return nil
}

// StartingBalance parses the opening balance.
func (c *Config) StartingBalance() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Lobby.StartingBalance)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("lobby: starting balance %q: %w", c.Lobby.StartingBalance, ErrInvalidConfig)
	}
	return d.Round(2), nil
}

// MinStake parses the smallest accepted wager.
func (c *Config) MinStake() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Lobby.MinStake)
	if err != nil || !d.IsPositive() || !d.Equal(d.Truncate(2)) {
		return decimal.Zero, fmt.Errorf("lobby: min stake %q: %w", c.Lobby.MinStake, ErrInvalidConfig)
	}
	return d, nil
}

// Normalizer returns the bet input normalizer for the configured stake.
func (c *Config) Normalizer() (wager.Normalizer, error) {
	stake, err := c.MinStake()
	if err != nil {
		return wager.Normalizer{}, err
	}
	return wager.New(stake), nil
}

// Settings converts the configuration into game settings.
func (c *Config) Settings() (games.Settings, error) {
	if err := c.Validate(); err != nil {
		return games.Settings{}, err
	}

	s := games.Settings{
		Blackjack: games.BlackjackConfig{
			Decks:             c.Blackjack.Decks,
			NaturalMultiplier: c.Blackjack.NaturalMultiplier,
			DealerStep:        millis(c.Pacing.DealerStepMS),
		},
		Mines: games.MinesConfig{
			Cells:     c.Mines.Cells,
			Mines:     c.Mines.Mines,
			HouseEdge: c.Mines.HouseEdge,
		},
		Tower: games.TowerConfig{
			Height:    c.Tower.Height,
			HouseEdge: c.Tower.HouseEdge,
		},
		Coinflip: games.CoinflipConfig{
			Multiplier: c.Coinflip.Multiplier,
			Flip:       millis(c.Pacing.FlipMS),
		},
		Wheel:      games.WheelConfig{Spin: millis(c.Pacing.SpinMS)},
		ResetDelay: millis(c.Pacing.ResetMS),
	}

	for _, t := range c.TowerTiers {
		tier := games.TowerTier{Name: t.Name, Tiles: t.Tiles, Safe: t.Safe}
		s.TowerTiers = append(s.TowerTiers, tier)
		if t.Name == c.Tower.DefaultTier {
			s.Tower.Tier = tier
		}
	}

	for i, w := range c.Wheels {
		tier := games.WheelTier{Name: w.Name, Segments: odds.NewSegments(w.Segments...)}
		s.WheelTiers = append(s.WheelTiers, tier)
		if w.Default || i == 0 {
			s.Wheel.Tier = tier
		}
	}

	return s, nil
}

func isGame(name string) bool {
	for _, g := range games.Names() {
		if g == name {
			return true
		}
	}
	return false
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
