package odds

import "fmt"

// TowerHouseEdge is the share of fair odds Tower pays out.
const TowerHouseEdge = 0.97

// TowerTable holds the cash-out multiplier for every level of a tower.
type TowerTable struct {
	tiles       int
	safe        int
	height      int
	edge        float64
	multipliers []float64
}

// NewTowerTable builds the table for a tower whose rows have tiles tiles of
// which safe are safe. Level 0 is 1x; level l is RoundHalfUp2(edge / (safe/tiles)^l).
func NewTowerTable(tiles, safe, height int, edge float64) (*TowerTable, error) {
	if tiles < 2 || safe < 1 || safe >= tiles || height < 1 {
		return nil, fmt.Errorf("tower table %d/%d x%d: %w", safe, tiles, height, ErrInvalidParameters)
	}
	if edge <= 0 || edge > 1 {
		return nil, fmt.Errorf("tower house edge %v: %w", edge, ErrInvalidParameters)
	}

	t := &TowerTable{
		tiles:       tiles,
		safe:        safe,
		height:      height,
		edge:        edge,
		multipliers: make([]float64, height+1),
	}
	ratio := float64(safe) / float64(tiles)
	t.multipliers[0] = 1
	for level := 1; level <= height; level++ {
		p := 1.0
		for l := 1; l <= level; l++ {
			p *= ratio
		}
		t.multipliers[level] = RoundHalfUp2(edge / p)
	}
	return t, nil
}

// Multiplier returns the payout after clearing level rows.
func (t *TowerTable) Multiplier(level int) (float64, error) {
	if level < 0 || level >= len(t.multipliers) {
		return 0, fmt.Errorf("tower %d/%d at level %d: %w", t.safe, t.tiles, level, ErrUndefinedPayout)
	}
	return t.multipliers[level], nil
}

// MustMultiplier is Multiplier for callers that only ask for reachable
// levels. It panics on an undefined payout.
func (t *TowerTable) MustMultiplier(level int) float64 {
	m, err := t.Multiplier(level)
	if err != nil {
		panic(err)
	}
	return m
}

// Height returns the number of rows.
func (t *TowerTable) Height() int { return t.height }

// Tiles returns the number of tiles per row.
func (t *TowerTable) Tiles() int { return t.tiles }

// Safe returns the number of safe tiles per row.
func (t *TowerTable) Safe() int { return t.safe }

// Multipliers returns a copy of the whole table.
func (t *TowerTable) Multipliers() []float64 {
	out := make([]float64, len(t.multipliers))
	copy(out, t.multipliers)
	return out
}
