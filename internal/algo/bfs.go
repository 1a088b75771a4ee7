package algo

import (
	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// BFS is uninformed breadth-first search: shortest path by edge count,
// equivalent to A* with a zero heuristic. It is the baseline for environments
// where heuristic admissibility cannot be guaranteed.
type BFS struct{}

// NewBFS creates the BFS planner.
func NewBFS() *BFS { return &BFS{} }

func (*BFS) Name() string { return "BFS" }

// Plan implements Planner. Cells are explored in FIFO order over 4-connected
// neighbors; a came-from map reconstructs the path.
func (*BFS) Plan(g *core.GridWorld, start, goal core.Cell, blocked map[core.Cell]bool) Path {
	if !g.IsPassable(start) || !reachable(g, goal, blocked) {
		return nil
	}
	if start == goal {
		return Path{start}
	}

	queue := []core.Cell{start}
	cameFrom := map[core.Cell]core.Cell{start: start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbor := range g.Neighbors(current) {
			if _, seen := cameFrom[neighbor]; seen || blocked[neighbor] {
				continue
			}
			cameFrom[neighbor] = current

			if neighbor == goal {
				return walkBack(cameFrom, start, goal)
			}
			queue = append(queue, neighbor)
		}
	}

	return nil // no path found
}

func walkBack(cameFrom map[core.Cell]core.Cell, start, goal core.Cell) Path {
	var rev Path
	for c := goal; ; c = cameFrom[c] {
		rev = append(rev, c)
		if c == start {
			break
		}
	}
	path := make(Path, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}
