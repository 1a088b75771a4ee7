package sim

import (
	"errors"
	"testing"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

func testLedger(t *testing.T) (*ResourceLedger, map[core.ShelfID]*core.Shelf) {
	t.Helper()
	storage := map[core.Cell]float64{
		{Row: 1, Col: 1}: 10,
		{Row: 2, Col: 2}: 10,
	}
	grid, err := core.NewGridWorld(4, 4, nil, storage, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	shelves := map[core.ShelfID]*core.Shelf{
		0: core.NewShelf(0, core.Cell{Row: 1, Col: 1}, 6),
		1: core.NewShelf(1, core.Cell{Row: 2, Col: 2}, 3),
	}
	return NewResourceLedger(grid, shelves), shelves
}

func TestPickupExclusive(t *testing.T) {
	l, shelves := testLedger(t)
	a := core.NewAgent(0, core.Cell{Row: 1, Col: 1}, 100, 1, 5, 0)
	b := core.NewAgent(1, core.Cell{Row: 1, Col: 1}, 100, 1, 5, 0)

	if err := l.TryPickup(a, shelves[0]); err != nil {
		t.Fatalf("first pickup: %v", err)
	}
	if err := l.TryPickup(b, shelves[0]); !errors.Is(err, core.ErrShelfCarried) {
		t.Fatalf("second pickup err = %v, want ErrShelfCarried", err)
	}
	if b.IsCarrying() || shelves[0].CarriedBy != a.ID {
		t.Error("failed pickup must not change state")
	}
	if err := l.TryPickup(a, shelves[1]); !errors.Is(err, core.ErrAgentLoaded) {
		t.Fatalf("double load err = %v, want ErrAgentLoaded", err)
	}
}

func TestPickupCapacity(t *testing.T) {
	l, shelves := testLedger(t)
	weak := core.NewAgent(0, core.Cell{Row: 1, Col: 1}, 100, 1, 5, 5)
	if err := l.TryPickup(weak, shelves[0]); !errors.Is(err, core.ErrCapacityExceeded) {
		t.Fatalf("err = %v, want ErrCapacityExceeded for weight 6 vs limit 5", err)
	}
	if err := l.TryPickup(weak, shelves[1]); err != nil {
		t.Fatalf("weight 3 vs limit 5: %v", err)
	}
}

func TestReleaseNeedsStorage(t *testing.T) {
	l, shelves := testLedger(t)
	a := core.NewAgent(0, core.Cell{Row: 1, Col: 1}, 100, 1, 5, 0)
	if err := l.TryPickup(a, shelves[0]); err != nil {
		t.Fatal(err)
	}

	a.Cell = core.Cell{Row: 0, Col: 0}
	if _, err := l.Release(a); !errors.Is(err, core.ErrInvalidDrop) {
		t.Fatalf("drop off storage err = %v, want ErrInvalidDrop", err)
	}
	if !a.IsCarrying() {
		t.Error("failed drop must keep the shelf on the agent")
	}

	a.Cell = core.Cell{Row: 2, Col: 2}
	s, err := l.Release(a)
	if err != nil {
		t.Fatalf("drop on storage: %v", err)
	}
	if s.Cell != a.Cell || s.IsCarried() || a.IsCarrying() {
		t.Errorf("release state: shelf %+v agent carrying %v", s, a.Carrying)
	}
}
