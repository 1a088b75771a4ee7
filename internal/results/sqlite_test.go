package results

import (
	"path/filepath"
	"testing"

	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

func TestInsertAndList(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	metrics := sim.Metrics{Ticks: 24, Moves: 32, Deliveries: 1, Returns: 1}
	id, err := store.Insert(Episode{
		Scenario: "smoke", Algorithm: "astar", Seed: 42,
		Ticks: 24, Done: true, Metrics: metrics,
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("expected a row id")
	}
	if _, err := store.Insert(Episode{Scenario: "smoke", Algorithm: "bfs", Seed: 42, Ticks: 30, Done: true}); err != nil {
		t.Fatal(err)
	}

	eps, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(eps) != 2 {
		t.Fatalf("episodes = %d, want 2", len(eps))
	}
	if eps[0].Algorithm != "bfs" {
		t.Errorf("order: first = %s, want newest (bfs)", eps[0].Algorithm)
	}
	if eps[1].Metrics != metrics {
		t.Errorf("metrics round trip = %+v, want %+v", eps[1].Metrics, metrics)
	}
}
