package sim

import "github.com/elektrokombinacija/warehouse-sim/internal/core"

// EventKind labels one entry in the per-tick event stream.
type EventKind string

const (
	EventMoved     EventKind = "moved"
	EventPickedUp  EventKind = "picked_up"
	EventDelivered EventKind = "delivered"
	EventReturned  EventKind = "returned"
	EventCharged   EventKind = "charged"
	EventBlocked   EventKind = "blocked"
	EventStalled   EventKind = "stalled"
)

// Event records one observable state change during a tick. The stream for a
// tick is emitted in agent-identifier order and is identical across runs with
// the same scenario and seed.
type Event struct {
	Tick    int          `json:"tick"`
	Kind    EventKind    `json:"event_kind"`
	Agent   core.AgentID `json:"agent_id"`
	From    core.Cell    `json:"old_cell"`
	To      core.Cell    `json:"new_cell"`
	Battery float64      `json:"battery"`
	Shelf   core.ShelfID `json:"shelf_id"`
	Task    core.TaskID  `json:"task_id"`
}
