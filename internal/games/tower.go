package games

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/minicasino/internal/odds"
	"github.com/lox/minicasino/internal/round"
)

// TowerTier is a difficulty: how many tiles a row has and how many are safe.
type TowerTier struct {
	Name  string
	Tiles int
	Safe  int
}

// Tower difficulties.
var (
	TowerEasy   = TowerTier{Name: "easy", Tiles: 3, Safe: 2}
	TowerMedium = TowerTier{Name: "medium", Tiles: 2, Safe: 1}
	TowerHard   = TowerTier{Name: "hard", Tiles: 3, Safe: 1}
)

// DefaultTowerTiers lists the bundled difficulties, easiest first.
func DefaultTowerTiers() []TowerTier {
	return []TowerTier{TowerEasy, TowerMedium, TowerHard}
}

// TowerConfig describes a tower.
type TowerConfig struct {
	Height    int
	HouseEdge float64
	Tier      TowerTier
}

// DefaultTowerConfig is a five level easy tower.
func DefaultTowerConfig() TowerConfig {
	return TowerConfig{Height: 5, HouseEdge: odds.TowerHouseEdge, Tier: TowerEasy}
}

// Tower is the climbing game: pick one tile per level, cash out or fall.
type Tower struct {
	cfg   TowerConfig
	table *odds.TowerTable
}

// NewTower validates cfg and loads its payout table.
func NewTower(cfg TowerConfig) (*Tower, error) {
	table, err := odds.Tower(cfg.Tier.Tiles, cfg.Tier.Safe, cfg.Height, cfg.HouseEdge)
	if err != nil {
		return nil, fmt.Errorf("tower tier %q: %w", cfg.Tier.Name, err)
	}
	return &Tower{cfg: cfg, table: table}, nil
}

func (t *Tower) Game() string { return TowerGame }

// Config returns the tower parameters.
func (t *Tower) Config() TowerConfig { return t.cfg }

// Table returns the payout table.
func (t *Tower) Table() *odds.TowerTable { return t.table }

func (t *Tower) NewPlay(rng *rand.Rand) (round.Play, error) {
	safe := make([][]bool, t.cfg.Height)
	for level := range safe {
		row := make([]bool, t.cfg.Tier.Tiles)
		for placed := 0; placed < t.cfg.Tier.Safe; {
			idx := rng.IntN(t.cfg.Tier.Tiles)
			if !row[idx] {
				row[idx] = true
				placed++
			}
		}
		safe[level] = row
	}
	return &towerPlay{rules: t, safe: safe}, nil
}

// NewPlayWithLayout starts a play where safe[level] lists the safe tiles.
func (t *Tower) NewPlayWithLayout(safe [][]int) (round.Play, error) {
	if len(safe) != t.cfg.Height {
		return nil, fmt.Errorf("want %d levels, got %d: %w", t.cfg.Height, len(safe), odds.ErrInvalidParameters)
	}
	layout := make([][]bool, len(safe))
	for level, tiles := range safe {
		if len(tiles) != t.cfg.Tier.Safe {
			return nil, fmt.Errorf("level %d wants %d safe tiles: %w", level, t.cfg.Tier.Safe, odds.ErrInvalidParameters)
		}
		row := make([]bool, t.cfg.Tier.Tiles)
		for _, idx := range tiles {
			if idx < 0 || idx >= len(row) || row[idx] {
				return nil, fmt.Errorf("level %d tile %d: %w", level, idx, odds.ErrInvalidParameters)
			}
			row[idx] = true
		}
		layout[level] = row
	}
	return &towerPlay{rules: t, safe: layout}, nil
}

// TowerPick is one tile the player chose.
type TowerPick struct {
	Level int
	Tile  int
	Safe  bool
}

// TowerView is the tower as the player sees it. Layout is only populated
// once the round is over.
type TowerView struct {
	Tier        string
	Height      int
	Tiles       int
	Level       int
	Picks       []TowerPick
	Layout      [][]bool
	Multipliers []float64
}

type towerPlay struct {
	rules *Tower
	safe  [][]bool
	level int
	picks []TowerPick
	over  bool
}

func (p *towerPlay) Apply(a round.Action) (round.Transition, error) {
	if a.Kind != round.KindReveal {
		return round.Transition{}, unsupported(TowerGame, a)
	}
	row := p.safe[p.level]
	if a.Index < 0 || a.Index >= len(row) {
		return round.Transition{}, fmt.Errorf("tile %d out of range: %w", a.Index, round.ErrInvalidAction)
	}

	safe := row[a.Index]
	p.picks = append(p.picks, TowerPick{Level: p.level, Tile: a.Index, Safe: safe})
	if !safe {
		p.over = true
		return round.Settle(round.Result{
			Outcome: round.Loss,
			Text:    fmt.Sprintf("Fell on level %d", p.level+1),
		}), nil
	}

	p.level++
	if p.level == p.rules.cfg.Height {
		p.over = true
		return round.Settle(round.Result{
			Outcome:    round.Win,
			Multiplier: p.Multiplier(),
			Text:       "Reached the top",
		}), nil
	}
	return round.Continue(), nil
}

func (p *towerPlay) Progress() int { return p.level }

func (p *towerPlay) Multiplier() float64 {
	return p.rules.table.MustMultiplier(p.level)
}

func (p *towerPlay) CanCashOut() bool { return p.level > 0 && !p.over }

func (p *towerPlay) View() any {
	v := TowerView{
		Tier:        p.rules.cfg.Tier.Name,
		Height:      p.rules.cfg.Height,
		Tiles:       p.rules.cfg.Tier.Tiles,
		Level:       p.level,
		Picks:       append([]TowerPick(nil), p.picks...),
		Multipliers: p.rules.table.Multipliers(),
	}
	if p.over {
		v.Layout = make([][]bool, len(p.safe))
		for i, row := range p.safe {
			v.Layout[i] = append([]bool(nil), row...)
		}
	}
	return v
}
