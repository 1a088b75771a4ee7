// Package core defines domain models for the warehouse simulation.
package core

// Cell is an integer grid coordinate. Equality and map-key hashing work by value.
type Cell struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Manhattan returns the L1 distance to another cell.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.Row-o.Row) + abs(c.Col-o.Col)
}

// neighborOffsets is the fixed 4-connected expansion order: up, down, left, right.
// Planners rely on this order for reproducible paths.
var neighborOffsets = [4]Cell{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// Adjacent4 returns the four axis neighbors in deterministic order,
// without any bounds or passability filtering.
func (c Cell) Adjacent4() [4]Cell {
	var out [4]Cell
	for i, d := range neighborOffsets {
		out[i] = Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
