package odds

import (
	"errors"
	"fmt"
)

var (
	// ErrUndefinedPayout is returned for a progress level outside a table.
	ErrUndefinedPayout = errors.New("undefined payout")
	// ErrInvalidParameters is returned when a table cannot be built.
	ErrInvalidParameters = errors.New("invalid odds parameters")
)

// MinesHouseEdge is the share of fair odds Mines pays out.
const MinesHouseEdge = 0.99

// MinesProbability is the chance of revealing k safe cells in a row on a
// grid of cells cells hiding mines mines.
func MinesProbability(cells, mines, k int) float64 {
	p := 1.0
	for i := 0; i < k; i++ {
		p *= float64(cells-mines-i) / float64(cells-i)
	}
	return p
}

// MinesTable holds the cash-out multiplier for every number of safe reveals.
type MinesTable struct {
	cells       int
	mines       int
	edge        float64
	multipliers []float64
}

// NewMinesTable builds the table for a grid. Row 0 is 1x; row k is
// RoundToTwo(edge / P(k)).
func NewMinesTable(cells, mines int, edge float64) (*MinesTable, error) {
	if cells < 2 || mines < 1 || mines >= cells {
		return nil, fmt.Errorf("mines table with %d cells and %d mines: %w", cells, mines, ErrInvalidParameters)
	}
	if edge <= 0 || edge > 1 {
		return nil, fmt.Errorf("mines house edge %v: %w", edge, ErrInvalidParameters)
	}

	safe := cells - mines
	t := &MinesTable{
		cells:       cells,
		mines:       mines,
		edge:        edge,
		multipliers: make([]float64, safe+1),
	}
	t.multipliers[0] = 1
	for k := 1; k <= safe; k++ {
		t.multipliers[k] = RoundToTwo(edge / MinesProbability(cells, mines, k))
	}
	return t, nil
}

// Multiplier returns the payout after k safe reveals.
func (t *MinesTable) Multiplier(k int) (float64, error) {
	if k < 0 || k >= len(t.multipliers) {
		return 0, fmt.Errorf("mines %d/%d after %d reveals: %w", t.mines, t.cells, k, ErrUndefinedPayout)
	}
	return t.multipliers[k], nil
}

// MustMultiplier is Multiplier for callers that only ask for reachable
// reveal counts. It panics on an undefined payout.
func (t *MinesTable) MustMultiplier(k int) float64 {
	m, err := t.Multiplier(k)
	if err != nil {
		panic(err)
	}
	return m
}

// MaxReveals is the number of safe cells on the grid.
func (t *MinesTable) MaxReveals() int { return t.cells - t.mines }

// Cells returns the grid size.
func (t *MinesTable) Cells() int { return t.cells }

// Mines returns the mine count.
func (t *MinesTable) Mines() int { return t.mines }

// Multipliers returns a copy of the whole table.
func (t *MinesTable) Multipliers() []float64 {
	out := make([]float64, len(t.multipliers))
	copy(out, t.multipliers)
	return out
}
