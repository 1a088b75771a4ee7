package algo

import (
	"container/heap"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// AStar is heuristic-guided search with Manhattan distance, admissible on a
// 4-connected grid.
type AStar struct{}

// NewAStar creates the A* planner.
func NewAStar() *AStar { return &AStar{} }

func (*AStar) Name() string { return "A*" }

// astarNode for priority queue.
type astarNode struct {
	cell   core.Cell
	g      int // cost so far
	h      int // heuristic to goal
	f      int // g + h
	parent *astarNode
	index  int // heap index
}

// astarHeap implements heap.Interface. Ties on f break on smaller h, then
// lower row, then lower column, so plans are reproducible across runs.
type astarHeap []*astarNode

func (h astarHeap) Len() int { return len(h) }
func (h astarHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].h != h[j].h {
		return h[i].h < h[j].h
	}
	if h[i].cell.Row != h[j].cell.Row {
		return h[i].cell.Row < h[j].cell.Row
	}
	return h[i].cell.Col < h[j].cell.Col
}
func (h astarHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *astarHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// Plan implements Planner.
func (*AStar) Plan(g *core.GridWorld, start, goal core.Cell, blocked map[core.Cell]bool) Path {
	if !g.IsPassable(start) || !reachable(g, goal, blocked) {
		return nil
	}
	if start == goal {
		return Path{start}
	}

	open := &astarHeap{}
	heap.Init(open)
	heap.Push(open, &astarNode{cell: start, g: 0, h: start.Manhattan(goal), f: start.Manhattan(goal)})

	visited := make(map[core.Cell]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*astarNode)

		if current.cell == goal {
			return reconstructPath(current)
		}

		if visited[current.cell] {
			continue
		}
		visited[current.cell] = true

		for _, neighbor := range g.Neighbors(current.cell) {
			if visited[neighbor] || blocked[neighbor] {
				continue
			}
			h := neighbor.Manhattan(goal)
			heap.Push(open, &astarNode{
				cell:   neighbor,
				g:      current.g + 1,
				h:      h,
				f:      current.g + 1 + h,
				parent: current,
			})
		}
	}

	return nil // no path found
}

func reconstructPath(node *astarNode) Path {
	var n int
	for p := node; p != nil; p = p.parent {
		n++
	}
	path := make(Path, n)
	for p := node; p != nil; p = p.parent {
		n--
		path[n] = p.cell
	}
	return path
}
