package core

import (
	"errors"
	"testing"
)

func TestGridWorldQueries(t *testing.T) {
	g, err := NewGridWorld(5, 5,
		[]Cell{{2, 2}},
		map[Cell]float64{{4, 4}: 10},
		[]Cell{{0, 4}},
		[]Cell{{0, 0}},
	)
	if err != nil {
		t.Fatalf("NewGridWorld: %v", err)
	}

	if g.IsPassable(Cell{2, 2}) {
		t.Error("obstacle cell should not be passable")
	}
	if g.IsPassable(Cell{-1, 0}) || g.IsPassable(Cell{0, 5}) {
		t.Error("out-of-bounds cells should not be passable")
	}
	if !g.IsChargingStation(Cell{0, 4}) {
		t.Error("expected charging station at (0,4)")
	}
	if !g.IsShelfStorage(Cell{4, 4}) {
		t.Error("expected storage at (4,4)")
	}
	if cap, ok := g.ShelfCapacity(Cell{4, 4}); !ok || cap != 10 {
		t.Errorf("ShelfCapacity(4,4) = %v, %v; want 10, true", cap, ok)
	}
	if !g.IsGoal(Cell{0, 0}) {
		t.Error("expected goal at (0,0)")
	}
}

func TestGridWorldNeighborOrder(t *testing.T) {
	g, err := NewGridWorld(3, 3, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewGridWorld: %v", err)
	}

	got := g.Neighbors(Cell{1, 1})
	want := []Cell{{0, 1}, {2, 1}, {1, 0}, {1, 2}} // up, down, left, right
	if len(got) != len(want) {
		t.Fatalf("Neighbors = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Corner cell keeps the same relative order.
	got = g.Neighbors(Cell{0, 0})
	want = []Cell{{1, 0}, {0, 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("corner Neighbors[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGridWorldValidation(t *testing.T) {
	cases := []struct {
		name      string
		obstacles []Cell
		storage   map[Cell]float64
		chargers  []Cell
	}{
		{"obstacle out of bounds", []Cell{{9, 9}}, nil, nil},
		{"storage out of bounds", nil, map[Cell]float64{{5, 0}: 1}, nil},
		{"zero capacity", nil, map[Cell]float64{{1, 1}: 0}, nil},
		{"storage on obstacle", []Cell{{1, 1}}, map[Cell]float64{{1, 1}: 5}, nil},
		{"charger on obstacle", []Cell{{1, 1}}, nil, []Cell{{1, 1}}},
		{"charger on storage", nil, map[Cell]float64{{1, 1}: 5}, []Cell{{1, 1}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGridWorld(5, 5, tc.obstacles, tc.storage, tc.chargers, nil)
			if err == nil {
				t.Fatal("expected configuration error, got nil")
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("expected *ConfigError, got %T", err)
			}
		})
	}
}

func TestAgentBatteryBounds(t *testing.T) {
	a := NewAgent(0, Cell{0, 0}, 3, 1, 2, 0)

	for i := 0; i < 5; i++ {
		a.Drain()
	}
	if a.Battery != 0 {
		t.Errorf("battery after over-drain = %g, want 0", a.Battery)
	}
	if !a.IsDepleted() {
		t.Error("expected depleted agent")
	}

	for i := 0; i < 5; i++ {
		a.Charge()
	}
	if a.Battery != a.MaxBattery {
		t.Errorf("battery after over-charge = %g, want %g", a.Battery, a.MaxBattery)
	}
}

func TestAgentCarryLimit(t *testing.T) {
	unlimited := NewAgent(0, Cell{0, 0}, 10, 1, 1, 0)
	if !unlimited.CanCarry(999) {
		t.Error("zero limit should carry any weight")
	}

	limited := NewAgent(1, Cell{0, 0}, 10, 1, 1, 5)
	if !limited.CanCarry(5) || limited.CanCarry(5.1) {
		t.Error("carry limit should be inclusive at the boundary")
	}
}

func TestCellManhattan(t *testing.T) {
	if d := (Cell{0, 0}).Manhattan(Cell{4, 4}); d != 8 {
		t.Errorf("Manhattan = %d, want 8", d)
	}
	if d := (Cell{3, 1}).Manhattan(Cell{1, 4}); d != 5 {
		t.Errorf("Manhattan = %d, want 5", d)
	}
}
