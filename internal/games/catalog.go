package games

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/minicasino/internal/round"
)

// ErrUnknownGame is returned for game or tier names the catalog lacks.
var ErrUnknownGame = errors.New("unknown game")

// Settings configures every game in the lobby.
type Settings struct {
	Blackjack  BlackjackConfig
	Mines      MinesConfig
	Tower      TowerConfig
	TowerTiers []TowerTier
	Coinflip   CoinflipConfig
	Wheel      WheelConfig
	WheelTiers []WheelTier
	// ResetDelay is how long the lobby shows a settled round before
	// returning to betting.
	ResetDelay time.Duration
}

// DefaultSettings mirrors the original lobby.
func DefaultSettings() Settings {
	return Settings{
		Blackjack:  DefaultBlackjackConfig(),
		Mines:      DefaultMinesConfig(),
		Tower:      DefaultTowerConfig(),
		TowerTiers: DefaultTowerTiers(),
		Coinflip:   DefaultCoinflipConfig(),
		Wheel:      DefaultWheelConfig(),
		WheelTiers: DefaultWheelTiers(),
		ResetDelay: time.Second,
	}
}

// Catalog builds rule sets by game and tier name.
type Catalog struct {
	settings Settings
	logger   *log.Logger
}

// NewCatalog creates a catalog for settings.
func NewCatalog(settings Settings, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Default()
	}
	return &Catalog{settings: settings, logger: logger}
}

// Settings returns the settings the catalog was built with.
func (c *Catalog) Settings() Settings {
	return c.settings
}

// Tiers lists the selectable difficulties of game; games without tiers
// return nil. Mines tiers are mine counts.
func (c *Catalog) Tiers(game string) []string {
	switch game {
	case TowerGame:
		names := make([]string, len(c.settings.TowerTiers))
		for i, t := range c.settings.TowerTiers {
			names[i] = t.Name
		}
		return names
	case WheelGame:
		names := make([]string, len(c.settings.WheelTiers))
		for i, t := range c.settings.WheelTiers {
			names[i] = t.Name
		}
		return names
	case MinesGame:
		names := make([]string, 0, c.settings.Mines.Cells-1)
		for m := 1; m < c.settings.Mines.Cells; m++ {
			names = append(names, strconv.Itoa(m))
		}
		return names
	}
	return nil
}

// DefaultTier is the tier Rules uses for an empty tier name.
func (c *Catalog) DefaultTier(game string) string {
	switch game {
	case TowerGame:
		return c.settings.Tower.Tier.Name
	case WheelGame:
		return c.settings.Wheel.Tier.Name
	case MinesGame:
		return strconv.Itoa(c.settings.Mines.Mines)
	}
	return ""
}

// Rules builds the rule set for game at tier.
func (c *Catalog) Rules(game, tier string) (round.Rules, error) {
	switch game {
	case BlackjackGame:
		return NewBlackjack(c.settings.Blackjack, c.logger), nil
	case MinesGame:
		cfg := c.settings.Mines
		if tier != "" {
			n, err := strconv.Atoi(tier)
			if err != nil {
				return nil, fmt.Errorf("mines tier %q: %w", tier, ErrUnknownGame)
			}
			cfg.Mines = n
		}
		m, err := NewMines(cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	case TowerGame:
		cfg := c.settings.Tower
		if tier != "" {
			t, ok := findTowerTier(c.settings.TowerTiers, tier)
			if !ok {
				return nil, fmt.Errorf("tower tier %q: %w", tier, ErrUnknownGame)
			}
			cfg.Tier = t
		}
		t, err := NewTower(cfg)
		if err != nil {
			return nil, err
		}
		return t, nil
	case CoinflipGame:
		cf, err := NewCoinflip(c.settings.Coinflip)
		if err != nil {
			return nil, err
		}
		return cf, nil
	case WheelGame:
		cfg := c.settings.Wheel
		if tier != "" {
			t, ok := findWheelTier(c.settings.WheelTiers, tier)
			if !ok {
				return nil, fmt.Errorf("wheel tier %q: %w", tier, ErrUnknownGame)
			}
			cfg.Tier = t
		}
		w, err := NewWheel(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	return nil, fmt.Errorf("%q: %w", game, ErrUnknownGame)
}

// NewEngine builds an engine for game at tier. Options are applied after
// the catalog's logger, so callers can override it.
func (c *Catalog) NewEngine(game, tier string, ledger round.Ledger, opts ...round.EngineOption) (*round.Engine, error) {
	rules, err := c.Rules(game, tier)
	if err != nil {
		return nil, err
	}
	opts = append([]round.EngineOption{round.WithLogger(c.logger)}, opts...)
	return round.NewEngine(rules, ledger, opts...), nil
}

func findTowerTier(tiers []TowerTier, name string) (TowerTier, bool) {
	for _, t := range tiers {
		if t.Name == name {
			return t, true
		}
	}
	return TowerTier{}, false
}

func findWheelTier(tiers []WheelTier, name string) (WheelTier, bool) {
	for _, t := range tiers {
		if t.Name == name {
			return t, true
		}
	}
	return WheelTier{}, false
}
