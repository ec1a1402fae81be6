package odds

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type minesKey struct {
	cells, mines int
	edge         float64
}

type towerKey struct {
	tiles, safe, height int
	edge                float64
}

// Tables memoizes payout tables per parameter set. Tables are immutable so
// a cached table is shared freely.
type Tables struct {
	mines *lru.Cache[minesKey, *MinesTable]
	tower *lru.Cache[towerKey, *TowerTable]
}

// NewTables creates a memo holding up to size tables of each kind.
func NewTables(size int) *Tables {
	if size < 1 {
		size = 1
	}
	mines, _ := lru.New[minesKey, *MinesTable](size)
	tower, _ := lru.New[towerKey, *TowerTable](size)
	return &Tables{mines: mines, tower: tower}
}

var defaultTables = NewTables(64)

// Mines returns the memoized mines table for the parameters.
func (t *Tables) Mines(cells, mines int, edge float64) (*MinesTable, error) {
	key := minesKey{cells: cells, mines: mines, edge: edge}
	if table, ok := t.mines.Get(key); ok {
		return table, nil
	}
	table, err := NewMinesTable(cells, mines, edge)
	if err != nil {
		return nil, err
	}
	t.mines.Add(key, table)
	return table, nil
}

// Tower returns the memoized tower table for the parameters.
func (t *Tables) Tower(tiles, safe, height int, edge float64) (*TowerTable, error) {
	key := towerKey{tiles: tiles, safe: safe, height: height, edge: edge}
	if table, ok := t.tower.Get(key); ok {
		return table, nil
	}
	table, err := NewTowerTable(tiles, safe, height, edge)
	if err != nil {
		return nil, err
	}
	t.tower.Add(key, table)
	return table, nil
}

// Mines looks a table up in the package memo.
func Mines(cells, mines int, edge float64) (*MinesTable, error) {
	return defaultTables.Mines(cells, mines, edge)
}

// Tower looks a table up in the package memo.
func Tower(tiles, safe, height int, edge float64) (*TowerTable, error) {
	return defaultTables.Tower(tiles, safe, height, edge)
}
