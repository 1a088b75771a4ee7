package algo

import (
	"testing"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// openGrid builds an n x n grid with no obstacles.
func openGrid(t *testing.T, n int) *core.GridWorld {
	t.Helper()
	g, err := core.NewGridWorld(n, n, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewGridWorld: %v", err)
	}
	return g
}

// walledGrid builds an n x n grid split by a vertical wall at column col,
// leaving a one-cell gap at row gapRow.
func walledGrid(t *testing.T, n, col, gapRow int) *core.GridWorld {
	t.Helper()
	var wall []core.Cell
	for row := 0; row < n; row++ {
		if row == gapRow {
			continue
		}
		wall = append(wall, core.Cell{Row: row, Col: col})
	}
	g, err := core.NewGridWorld(n, n, wall, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewGridWorld: %v", err)
	}
	return g
}

func planners() []Planner {
	return []Planner{NewAStar(), NewBFS()}
}

func TestPlanOpenGridLength(t *testing.T) {
	g := openGrid(t, 7)
	start := core.Cell{Row: 0, Col: 0}
	goal := core.Cell{Row: 4, Col: 5}
	want := start.Manhattan(goal) + 1 // D+1 cells

	for _, p := range planners() {
		t.Run(p.Name(), func(t *testing.T) {
			path := p.Plan(g, start, goal, nil)
			if path == nil {
				t.Fatal("expected a path, got nil")
			}
			if len(path) != want {
				t.Errorf("path length = %d, want %d", len(path), want)
			}
			if path[0] != start || path[len(path)-1] != goal {
				t.Errorf("path endpoints = %v..%v, want %v..%v",
					path[0], path[len(path)-1], start, goal)
			}
			assertContiguous(t, g, path, nil)
		})
	}
}

func TestPlanThroughWallGap(t *testing.T) {
	g := walledGrid(t, 5, 2, 3)
	start := core.Cell{Row: 0, Col: 0}
	goal := core.Cell{Row: 0, Col: 4}
	gap := core.Cell{Row: 3, Col: 2}

	for _, p := range planners() {
		t.Run(p.Name(), func(t *testing.T) {
			path := p.Plan(g, start, goal, nil)
			if path == nil {
				t.Fatal("expected a path through the gap, got nil")
			}
			found := false
			for _, c := range path {
				if c == gap {
					found = true
				}
			}
			if !found {
				t.Errorf("path %v does not pass through the gap %v", path, gap)
			}
			assertContiguous(t, g, path, nil)
		})
	}
}

func TestPlanNotFound(t *testing.T) {
	// Goal enclosed by dynamic blocks: a NotFound result, not an error.
	g := openGrid(t, 5)
	goal := core.Cell{Row: 2, Col: 2}
	blocked := map[core.Cell]bool{}
	for _, n := range goal.Adjacent4() {
		blocked[n] = true
	}

	for _, p := range planners() {
		t.Run(p.Name(), func(t *testing.T) {
			if path := p.Plan(g, core.Cell{Row: 0, Col: 0}, goal, blocked); path != nil {
				t.Errorf("expected nil path, got %v", path)
			}
		})
	}
}

func TestPlanBlockedGoal(t *testing.T) {
	g := openGrid(t, 5)
	goal := core.Cell{Row: 1, Col: 1}
	blocked := map[core.Cell]bool{goal: true}

	for _, p := range planners() {
		t.Run(p.Name(), func(t *testing.T) {
			if path := p.Plan(g, core.Cell{Row: 0, Col: 0}, goal, blocked); path != nil {
				t.Errorf("expected nil path to a blocked goal, got %v", path)
			}
		})
	}
}

func TestPlanAvoidsDynamicBlocks(t *testing.T) {
	g := openGrid(t, 3)
	blocked := map[core.Cell]bool{{Row: 0, Col: 1}: true}
	start := core.Cell{Row: 0, Col: 0}
	goal := core.Cell{Row: 0, Col: 2}

	for _, p := range planners() {
		t.Run(p.Name(), func(t *testing.T) {
			path := p.Plan(g, start, goal, blocked)
			if path == nil {
				t.Fatal("expected a detour path, got nil")
			}
			for _, c := range path {
				if blocked[c] {
					t.Errorf("path %v enters blocked cell %v", path, c)
				}
			}
			if len(path) != 5 { // detour through row 1
				t.Errorf("detour length = %d, want 5", len(path))
			}
		})
	}
}

func TestPlanDeterministic(t *testing.T) {
	g := walledGrid(t, 9, 4, 6)
	start := core.Cell{Row: 1, Col: 0}
	goal := core.Cell{Row: 7, Col: 8}

	for _, p := range planners() {
		t.Run(p.Name(), func(t *testing.T) {
			first := p.Plan(g, start, goal, nil)
			if first == nil {
				t.Fatal("expected a path, got nil")
			}
			for i := 0; i < 10; i++ {
				again := p.Plan(g, start, goal, nil)
				if len(again) != len(first) {
					t.Fatalf("run %d length %d != %d", i, len(again), len(first))
				}
				for j := range first {
					if again[j] != first[j] {
						t.Fatalf("run %d diverges at step %d: %v != %v",
							i, j, again[j], first[j])
					}
				}
			}
		})
	}
}

func TestPlanStartEqualsGoal(t *testing.T) {
	g := openGrid(t, 3)
	c := core.Cell{Row: 1, Col: 1}

	for _, p := range planners() {
		path := p.Plan(g, c, c, nil)
		if len(path) != 1 || path[0] != c {
			t.Errorf("%s: Plan(c, c) = %v, want [%v]", p.Name(), path, c)
		}
	}
}

// assertContiguous checks the path is 4-connected and never enters an
// impassable or blocked cell.
func assertContiguous(t *testing.T, g *core.GridWorld, path Path, blocked map[core.Cell]bool) {
	t.Helper()
	for i, c := range path {
		if !g.IsPassable(c) || blocked[c] {
			t.Errorf("path step %d enters invalid cell %v", i, c)
		}
		if i > 0 && path[i-1].Manhattan(c) != 1 {
			t.Errorf("path steps %d-%d not adjacent: %v -> %v", i-1, i, path[i-1], c)
		}
	}
}
