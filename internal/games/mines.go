package games

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/minicasino/internal/odds"
	"github.com/lox/minicasino/internal/round"
)

// MinesConfig describes the grid.
type MinesConfig struct {
	Cells     int
	Mines     int
	HouseEdge float64
}

// DefaultMinesConfig is a 5x5 grid with five mines.
func DefaultMinesConfig() MinesConfig {
	return MinesConfig{Cells: 25, Mines: 5, HouseEdge: odds.MinesHouseEdge}
}

// Mines is the tile-reveal game: find safe cells, cash out before a mine.
type Mines struct {
	cfg   MinesConfig
	table *odds.MinesTable
}

// NewMines validates cfg and loads its payout table.
func NewMines(cfg MinesConfig) (*Mines, error) {
	table, err := odds.Mines(cfg.Cells, cfg.Mines, cfg.HouseEdge)
	if err != nil {
		return nil, err
	}
	return &Mines{cfg: cfg, table: table}, nil
}

func (m *Mines) Game() string { return MinesGame }

// Config returns the grid parameters.
func (m *Mines) Config() MinesConfig { return m.cfg }

// Table returns the payout table.
func (m *Mines) Table() *odds.MinesTable { return m.table }

func (m *Mines) NewPlay(rng *rand.Rand) (round.Play, error) {
	mines := make([]bool, m.cfg.Cells)
	for placed := 0; placed < m.cfg.Mines; {
		idx := rng.IntN(m.cfg.Cells)
		if !mines[idx] {
			mines[idx] = true
			placed++
		}
	}
	return newMinesPlay(m, mines), nil
}

// NewPlayWithMines starts a play on a fixed layout. It is used to replay
// boards and in tests.
func (m *Mines) NewPlayWithMines(positions ...int) (round.Play, error) {
	if len(positions) != m.cfg.Mines {
		return nil, fmt.Errorf("want %d mines, got %d: %w", m.cfg.Mines, len(positions), odds.ErrInvalidParameters)
	}
	mines := make([]bool, m.cfg.Cells)
	for _, idx := range positions {
		if idx < 0 || idx >= m.cfg.Cells || mines[idx] {
			return nil, fmt.Errorf("mine position %d: %w", idx, odds.ErrInvalidParameters)
		}
		mines[idx] = true
	}
	return newMinesPlay(m, mines), nil
}

// MinesView is the grid as the player sees it. Mines is only populated once
// a mine was hit or the board was cleared.
type MinesView struct {
	Cells          int
	Revealed       []bool
	Mines          []bool
	Exploded       int
	Safe           int
	Multiplier     float64
	// NextMultiplier is zero once every safe cell is revealed.
	NextMultiplier float64
}

type minesPlay struct {
	rules    *Mines
	mines    []bool
	revealed []bool
	safe     int
	exploded int
	over     bool
}

func newMinesPlay(rules *Mines, mines []bool) *minesPlay {
	return &minesPlay{
		rules:    rules,
		mines:    mines,
		revealed: make([]bool, len(mines)),
		exploded: -1,
	}
}

func (p *minesPlay) Apply(a round.Action) (round.Transition, error) {
	if a.Kind != round.KindReveal {
		return round.Transition{}, unsupported(MinesGame, a)
	}
	i := a.Index
	if i < 0 || i >= len(p.mines) {
		return round.Transition{}, fmt.Errorf("cell %d out of range: %w", i, round.ErrInvalidAction)
	}
	if p.revealed[i] {
		return round.Transition{}, fmt.Errorf("cell %d already revealed: %w", i, round.ErrInvalidAction)
	}

	p.revealed[i] = true
	if p.mines[i] {
		p.exploded = i
		p.over = true
		return round.Settle(round.Result{
			Outcome: round.Loss,
			Text:    fmt.Sprintf("Mine at cell %d", i+1),
		}), nil
	}

	p.safe++
	if p.safe == p.rules.table.MaxReveals() {
		p.over = true
		return round.Settle(round.Result{
			Outcome:    round.Win,
			Multiplier: p.Multiplier(),
			Text:       "Board cleared",
		}), nil
	}
	return round.Continue(), nil
}

func (p *minesPlay) Progress() int { return p.safe }

func (p *minesPlay) Multiplier() float64 {
	return p.rules.table.MustMultiplier(p.safe)
}

func (p *minesPlay) CanCashOut() bool { return p.safe > 0 && !p.over }

func (p *minesPlay) View() any {
	v := MinesView{
		Cells:          len(p.mines),
		Revealed:       append([]bool(nil), p.revealed...),
		Exploded:       p.exploded,
		Safe:           p.safe,
		Multiplier:     p.Multiplier(),
	}
	if p.safe < p.rules.table.MaxReveals() {
		v.NextMultiplier = p.rules.table.MustMultiplier(p.safe + 1)
	}
	if p.over {
		v.Mines = append([]bool(nil), p.mines...)
	}
	return v
}
