package core

import "sort"

// GridWorld is the static map: dimensions, obstacles, shelf storage cells with
// weight capacities, charging stations and delivery goals. It never mutates
// after construction; all dynamic occupancy lives in the engine.
type GridWorld struct {
	Width, Height int

	obstacles map[Cell]bool
	storage   map[Cell]float64 // cell -> max shelf weight
	chargers  map[Cell]bool
	goals     map[Cell]bool
}

// NewGridWorld validates the declared cell sets and builds the map.
// Obstacle, charging and storage sets must be pairwise disjoint and in bounds.
func NewGridWorld(width, height int, obstacles []Cell, storage map[Cell]float64, chargers, goals []Cell) (*GridWorld, error) {
	if width <= 0 || height <= 0 {
		return nil, Configf("grid dimensions must be positive, got %dx%d", width, height)
	}
	g := &GridWorld{
		Width:     width,
		Height:    height,
		obstacles: make(map[Cell]bool, len(obstacles)),
		storage:   make(map[Cell]float64, len(storage)),
		chargers:  make(map[Cell]bool, len(chargers)),
		goals:     make(map[Cell]bool, len(goals)),
	}
	for _, c := range obstacles {
		if !g.InBounds(c) {
			return nil, Configf("obstacle %v out of bounds", c)
		}
		g.obstacles[c] = true
	}
	for c, capacity := range storage {
		if !g.InBounds(c) {
			return nil, Configf("storage cell %v out of bounds", c)
		}
		if capacity <= 0 {
			return nil, Configf("storage cell %v capacity must be positive, got %g", c, capacity)
		}
		if g.obstacles[c] {
			return nil, Configf("storage cell %v overlaps an obstacle", c)
		}
		g.storage[c] = capacity
	}
	for _, c := range chargers {
		if !g.InBounds(c) {
			return nil, Configf("charging station %v out of bounds", c)
		}
		if g.obstacles[c] {
			return nil, Configf("charging station %v overlaps an obstacle", c)
		}
		if _, ok := g.storage[c]; ok {
			return nil, Configf("charging station %v overlaps a storage cell", c)
		}
		g.chargers[c] = true
	}
	for _, c := range goals {
		if !g.InBounds(c) {
			return nil, Configf("goal cell %v out of bounds", c)
		}
		if g.obstacles[c] {
			return nil, Configf("goal cell %v overlaps an obstacle", c)
		}
		g.goals[c] = true
	}
	return g, nil
}

// InBounds reports whether the cell lies within [0,height)x[0,width).
func (g *GridWorld) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Height && c.Col >= 0 && c.Col < g.Width
}

// IsPassable is false for obstacles and out-of-bounds cells.
func (g *GridWorld) IsPassable(c Cell) bool {
	return g.InBounds(c) && !g.obstacles[c]
}

func (g *GridWorld) IsObstacle(c Cell) bool        { return g.obstacles[c] }
func (g *GridWorld) IsChargingStation(c Cell) bool { return g.chargers[c] }
func (g *GridWorld) IsShelfStorage(c Cell) bool    { _, ok := g.storage[c]; return ok }
func (g *GridWorld) IsGoal(c Cell) bool            { return g.goals[c] }

// ShelfCapacity returns the storage cell's weight capacity.
func (g *GridWorld) ShelfCapacity(c Cell) (float64, bool) {
	capacity, ok := g.storage[c]
	return capacity, ok
}

// Neighbors returns the passable 4-connected neighbors in deterministic order.
func (g *GridWorld) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, 4)
	for _, n := range c.Adjacent4() {
		if g.IsPassable(n) {
			out = append(out, n)
		}
	}
	return out
}

// ChargingStations returns all charger cells sorted by row, then column.
func (g *GridWorld) ChargingStations() []Cell {
	return sortedCells(g.chargers)
}

// StorageCells returns all shelf storage cells sorted by row, then column.
func (g *GridWorld) StorageCells() []Cell {
	out := make([]Cell, 0, len(g.storage))
	for c := range g.storage {
		out = append(out, c)
	}
	sortCells(out)
	return out
}

// GoalCells returns all delivery cells sorted by row, then column.
func (g *GridWorld) GoalCells() []Cell {
	return sortedCells(g.goals)
}

func sortedCells(set map[Cell]bool) []Cell {
	out := make([]Cell, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sortCells(out)
	return out
}

// sortCells orders by row, then column, for reproducible iteration.
func sortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
}
