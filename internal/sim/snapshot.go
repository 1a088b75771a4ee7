package sim

import (
	"sort"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

func (l leg) String() string {
	switch l {
	case legFetch:
		return "fetch"
	case legDeliver:
		return "deliver"
	case legReturn:
		return "return"
	case legCharge:
		return "charge"
	default:
		return "idle"
	}
}

// AgentSnapshot is the serializable view of one agent.
type AgentSnapshot struct {
	ID         core.AgentID `json:"id"`
	Cell       core.Cell    `json:"cell"`
	Battery    float64      `json:"battery"`
	MaxBattery float64      `json:"max_battery"`
	Carrying   core.ShelfID `json:"carrying"`
	Task       core.TaskID  `json:"task"`
	Leg        string       `json:"leg"`
	Goal       *core.Cell   `json:"goal,omitempty"`
	Charging   bool         `json:"charging,omitempty"`
	Stranded   bool         `json:"stranded,omitempty"`
}

// ShelfSnapshot is the serializable view of one shelf.
type ShelfSnapshot struct {
	ID        core.ShelfID `json:"id"`
	Home      core.Cell    `json:"home"`
	Cell      core.Cell    `json:"cell"`
	Weight    float64      `json:"weight"`
	CarriedBy core.AgentID `json:"carried_by"`
	Delivered bool         `json:"delivered,omitempty"`
}

// TaskSnapshot is the serializable view of one task.
type TaskSnapshot struct {
	ID         core.TaskID  `json:"id"`
	Shelf      core.ShelfID `json:"shelf"`
	Dest       core.Cell    `json:"dest"`
	State      string       `json:"state"`
	AssignedTo core.AgentID `json:"assigned_to"`
}

// Snapshot is the full engine state at a tick boundary, ordered by
// identifier so equal states serialize identically.
type Snapshot struct {
	Tick    int             `json:"tick"`
	Agents  []AgentSnapshot `json:"agents"`
	Shelves []ShelfSnapshot `json:"shelves"`
	Tasks   []TaskSnapshot  `json:"tasks"`
	Pending []core.TaskID   `json:"pending"`
	Metrics Metrics         `json:"metrics"`
}

// Snapshot captures the current state for logging or rendering.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:    e.tick,
		Pending: append([]core.TaskID(nil), e.queue...),
		Metrics: e.metrics,
	}
	for _, a := range e.agents {
		r := e.runs[a.ID]
		as := AgentSnapshot{
			ID: a.ID, Cell: a.Cell,
			Battery: a.Battery, MaxBattery: a.MaxBattery,
			Carrying: a.Carrying, Task: r.task, Leg: r.leg.String(),
			Charging: r.charging, Stranded: r.stranded,
		}
		if a.Goal != nil {
			g := *a.Goal
			as.Goal = &g
		}
		snap.Agents = append(snap.Agents, as)
	}
	for _, s := range e.shelves {
		snap.Shelves = append(snap.Shelves, ShelfSnapshot{
			ID: s.ID, Home: s.Home, Cell: s.Cell,
			Weight: s.Weight, CarriedBy: s.CarriedBy, Delivered: s.Delivered,
		})
	}
	sort.Slice(snap.Shelves, func(i, j int) bool { return snap.Shelves[i].ID < snap.Shelves[j].ID })
	for _, t := range e.tasks {
		snap.Tasks = append(snap.Tasks, TaskSnapshot{
			ID: t.ID, Shelf: t.Shelf, Dest: t.Dest,
			State: t.State.String(), AssignedTo: t.AssignedTo,
		})
	}
	sort.Slice(snap.Tasks, func(i, j int) bool { return snap.Tasks[i].ID < snap.Tasks[j].ID })
	return snap
}
