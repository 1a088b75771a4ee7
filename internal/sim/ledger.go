package sim

import (
	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// ResourceLedger arbitrates shelf ownership and placement. Pickups check
// exclusivity and the agent's carrying limit; drops check that the target is
// a storage cell with enough capacity for the shelf.
type ResourceLedger struct {
	grid    *core.GridWorld
	shelves map[core.ShelfID]*core.Shelf
}

func NewResourceLedger(grid *core.GridWorld, shelves map[core.ShelfID]*core.Shelf) *ResourceLedger {
	return &ResourceLedger{grid: grid, shelves: shelves}
}

// Shelf looks up a shelf by id, nil if unknown.
func (l *ResourceLedger) Shelf(id core.ShelfID) *core.Shelf { return l.shelves[id] }

// TryPickup transfers the shelf to the agent. It fails without state change
// when the shelf is already carried, the agent is already loaded, or the
// shelf weight exceeds the agent's carrying limit.
func (l *ResourceLedger) TryPickup(a *core.Agent, s *core.Shelf) error {
	if s.IsCarried() {
		return core.ErrShelfCarried
	}
	if a.IsCarrying() {
		return core.ErrAgentLoaded
	}
	if !a.CanCarry(s.Weight) {
		return core.ErrCapacityExceeded
	}
	s.CarriedBy = a.ID
	s.Cell = a.Cell
	a.Carrying = s.ID
	return nil
}

// Release drops the agent's carried shelf at its current cell. The cell must
// be a storage cell whose capacity admits the shelf weight.
func (l *ResourceLedger) Release(a *core.Agent) (*core.Shelf, error) {
	s := l.shelves[a.Carrying]
	if s == nil {
		return nil, core.ErrInvalidDrop
	}
	capacity, ok := l.grid.ShelfCapacity(a.Cell)
	if !ok || s.Weight > capacity {
		return nil, core.ErrInvalidDrop
	}
	s.CarriedBy = core.NoAgent
	s.Cell = a.Cell
	a.Carrying = core.NoShelf
	return s, nil
}

// Detach hands the carried shelf off at the agent's cell without a storage
// check. Used at delivery goals when the return leg is disabled.
func (l *ResourceLedger) Detach(a *core.Agent) (*core.Shelf, error) {
	s := l.shelves[a.Carrying]
	if s == nil {
		return nil, core.ErrInvalidDrop
	}
	s.CarriedBy = core.NoAgent
	s.Cell = a.Cell
	a.Carrying = core.NoShelf
	return s, nil
}
