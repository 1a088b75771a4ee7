// Package algo implements single-agent grid path planning.
package algo

import (
	"fmt"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// Path is an ordered cell sequence from start to goal inclusive.
// A nil Path means no path was found; callers re-plan on a later tick.
type Path []core.Cell

// Planner finds a path between two cells. Implementations are stateless per
// call: static obstacles come from the grid, dynamic occupancy from blocked.
type Planner interface {
	// Plan returns a start..goal path avoiding obstacles and blocked cells,
	// or nil if the goal is unreachable. An unreachable goal is an expected,
	// common condition, never an error.
	Plan(g *core.GridWorld, start, goal core.Cell, blocked map[core.Cell]bool) Path

	// Name returns the algorithm name.
	Name() string
}

// Algorithm selects a planner implementation.
type Algorithm string

const (
	AlgorithmAStar Algorithm = "astar"
	AlgorithmBFS   Algorithm = "bfs"
)

// ParseAlgorithm maps a config string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgorithmAStar, AlgorithmBFS:
		return Algorithm(s), nil
	case "":
		return AlgorithmAStar, nil
	default:
		return "", fmt.Errorf("unknown planning algorithm %q", s)
	}
}

// NewPlanner builds the planner for an algorithm.
func NewPlanner(a Algorithm) Planner {
	switch a {
	case AlgorithmBFS:
		return NewBFS()
	default:
		return NewAStar()
	}
}

// reachable reports whether the planner may expand into the cell.
// The goal itself must not be dynamically blocked.
func reachable(g *core.GridWorld, c core.Cell, blocked map[core.Cell]bool) bool {
	return g.IsPassable(c) && !blocked[c]
}
