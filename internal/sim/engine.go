// Package sim implements the discrete-tick warehouse engine: task
// assignment, path planning, deterministic conflict resolution and
// battery accounting over a validated scenario.
package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/elektrokombinacija/warehouse-sim/internal/algo"
	"github.com/elektrokombinacija/warehouse-sim/internal/config"
	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// leg is the journey segment an agent is currently on.
type leg int

const (
	legNone   leg = iota
	legFetch      // empty, heading to the shelf
	legDeliver    // loaded, heading to the task destination
	legReturn     // loaded, carrying the shelf back to its home cell
	legCharge     // empty or loaded, heading to a charging station
)

// agentRun is the engine-side controller state for one agent.
type agentRun struct {
	agent    *core.Agent
	task     core.TaskID
	leg      leg
	retries  int
	charging bool // parked on a station until full
	stranded bool // battery hit zero away from a station
}

// Engine advances a warehouse episode one tick at a time. All mutation
// happens inside Step; between calls the engine is safe to query.
type Engine struct {
	grid    *core.GridWorld
	planner algo.Planner
	ledger  *ResourceLedger

	agents  []*core.Agent // identifier order
	runs    map[core.AgentID]*agentRun
	shelves map[core.ShelfID]*core.Shelf
	tasks   map[core.TaskID]*core.Task
	queue   []core.TaskID // pending tasks, FIFO

	// failed tracks which agents exhausted their replanning budget on a
	// task; once every candidate has failed the task is reported stalled.
	failed   map[core.TaskID]map[core.AgentID]bool
	reported map[core.TaskID]bool

	rng  *rand.Rand
	tick int

	stepLimit     int
	maxRetries    int
	lowBattery    float64
	returnShelves bool

	metrics Metrics
}

// New builds an engine from a validated scenario.
func New(scn *config.Scenario) (*Engine, error) {
	var obstacles, chargers []core.Cell
	for _, c := range scn.Obstacles {
		obstacles = append(obstacles, c.Cell())
	}
	for _, c := range scn.Chargers {
		chargers = append(chargers, c.Cell())
	}
	grid, err := core.NewGridWorld(scn.Width, scn.Height, obstacles, scn.StorageMap(), chargers, scn.GoalCells())
	if err != nil {
		return nil, err
	}
	alg, err := algo.ParseAlgorithm(scn.Algorithm)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		grid:          grid,
		planner:       algo.NewPlanner(alg),
		runs:          make(map[core.AgentID]*agentRun, len(scn.Agents)),
		shelves:       make(map[core.ShelfID]*core.Shelf, len(scn.Shelves)),
		tasks:         make(map[core.TaskID]*core.Task, len(scn.Tasks)),
		failed:        make(map[core.TaskID]map[core.AgentID]bool),
		reported:      make(map[core.TaskID]bool),
		rng:           rand.New(rand.NewSource(scn.Seed)),
		stepLimit:     scn.StepLimit,
		maxRetries:    scn.MaxReplanRetries,
		lowBattery:    scn.LowBatteryFraction,
		returnShelves: !scn.DisableShelfReturn,
	}
	for _, spec := range scn.Agents {
		a := core.NewAgent(core.AgentID(spec.ID), spec.Start.Cell(),
			spec.MaxBattery, spec.DrainPerStep, spec.ChargePerStep, spec.MaxCarryWeight)
		e.agents = append(e.agents, a)
		e.runs[a.ID] = &agentRun{agent: a, task: core.NoTask}
	}
	sort.Slice(e.agents, func(i, j int) bool { return e.agents[i].ID < e.agents[j].ID })
	for _, spec := range scn.Shelves {
		e.shelves[core.ShelfID(spec.ID)] = core.NewShelf(core.ShelfID(spec.ID), spec.Cell.Cell(), spec.Weight)
	}
	for i, spec := range scn.Tasks {
		t := core.NewTask(core.TaskID(i), core.ShelfID(spec.Shelf), spec.Dest.Cell())
		e.tasks[t.ID] = t
		e.queue = append(e.queue, t.ID)
	}
	e.ledger = NewResourceLedger(grid, e.shelves)
	return e, nil
}

// Tick returns the number of committed ticks.
func (e *Engine) Tick() int { return e.tick }

// Metrics returns a copy of the accumulated counters.
func (e *Engine) Metrics() Metrics { return e.metrics }

// Grid exposes the static map for read-only queries.
func (e *Engine) Grid() *core.GridWorld { return e.grid }

// IsDone reports whether every task reached a terminal state and no agent is
// still on a delivery or return leg, or the step limit was hit. A fleet with
// every agent stranded is also done: no state can change anymore.
func (e *Engine) IsDone() bool {
	if e.tick >= e.stepLimit {
		return true
	}
	stranded := 0
	for _, r := range e.runs {
		if r.stranded {
			stranded++
		}
	}
	if stranded == len(e.runs) && len(e.runs) > 0 {
		return true
	}
	if len(e.queue) > 0 {
		return false
	}
	for _, t := range e.tasks {
		if t.State == core.TaskPending || t.State == core.TaskAssigned {
			return false
		}
	}
	for _, r := range e.runs {
		if r.leg == legFetch || r.leg == legDeliver || r.leg == legReturn {
			return false
		}
	}
	return true
}

// Step advances one tick in three phases: assignment and planning, conflict
// resolution over simultaneous move proposals, and state commit with event
// emission. Events within a tick are ordered by agent identifier; the whole
// stream is reproducible for a fixed scenario and seed.
func (e *Engine) Step() ([]Event, error) {
	e.tick++
	e.metrics.Ticks++

	var events []Event
	events = e.assignAndPlan(events)

	want := e.propose()
	allowed, held := resolveMoves(e.agents, want)
	e.metrics.Conflicts += len(held)
	for _, id := range held {
		// Losers hold silently and replan next tick.
		e.runs[id].agent.Path = nil
	}

	events = e.commit(events, want, allowed)
	if err := e.checkOccupancy(); err != nil {
		return events, err
	}
	return events, nil
}

// assignAndPlan is phase 1: battery triage, task assignment for idle agents,
// and path planning for agents whose path is empty.
func (e *Engine) assignAndPlan(events []Event) []Event {
	for _, a := range e.agents {
		r := e.runs[a.ID]
		if r.stranded {
			continue
		}

		if a.IsDepleted() && !e.grid.IsChargingStation(a.Cell) {
			r.stranded = true
			e.metrics.StrandedAgents++
			events = append(events, e.event(EventBlocked, a, a.Cell, a.Cell, r.task))
			if r.task != core.NoTask {
				if a.IsCarrying() {
					// The shelf is pinned under the dead agent, so no
					// other agent can finish the task.
					e.metrics.TasksStalled++
					events = append(events, Event{
						Tick: e.tick, Kind: EventStalled, Agent: core.NoAgent,
						Shelf: a.Carrying, Task: r.task,
					})
				} else {
					e.requeueFront(r.task)
					r.task = core.NoTask
				}
			}
			r.leg = legNone
			a.Path, a.Goal = nil, nil
			continue
		}

		if r.charging {
			if !a.IsFull() {
				continue // stays parked, charges in commit
			}
			r.charging = false
			r.leg = e.resumeLeg(r)
		}

		if a.BatteryFraction() < e.lowBattery && r.leg != legCharge && !r.charging && len(e.grid.ChargingStations()) > 0 {
			if e.grid.IsChargingStation(a.Cell) {
				r.charging = true
			} else {
				r.leg = legCharge
			}
			if !a.IsCarrying() && r.task != core.NoTask {
				e.requeueFront(r.task)
				r.task = core.NoTask
			}
			a.Path, a.Goal = nil, nil
			if r.charging {
				continue
			}
		}
	}

	events = e.assignTasks(events)

	for _, a := range e.agents {
		r := e.runs[a.ID]
		if r.stranded || r.charging || r.leg == legNone || len(a.Path) > 0 {
			continue
		}
		if r.leg == legCharge {
			events = e.planCharge(events, r, a)
			continue
		}
		goal, ok := e.legGoal(r)
		if !ok {
			r.leg = legNone
			continue
		}
		if a.Goal != nil && *a.Goal == goal && a.Cell == goal {
			continue // arrival pending in commit
		}
		e.metrics.PlanAttempts++
		p := e.planner.Plan(e.grid, a.Cell, goal, e.occupiedBy(a.ID))
		if p == nil {
			e.metrics.PlanFailures++
			r.retries++
			events = append(events, e.event(EventBlocked, a, a.Cell, a.Cell, r.task))
			if r.retries > e.maxRetries {
				if r.leg == legFetch {
					e.markFailed(r.task, a.ID)
					e.requeueBack(r.task)
					r.task = core.NoTask
					r.leg = legNone
				}
				// Loaded or charge-bound agents have nothing better to do
				// than keep trying.
				r.retries = 0
			}
			continue
		}
		r.retries = 0
		g := goal
		a.Goal = &g
		a.Path = p[1:]
	}
	return events
}

// assignTasks hands pending tasks to idle agents, front of the queue first.
// The nearest eligible agent wins; distance ties are broken by the seeded
// RNG. A task every candidate has failed on is reported stalled and its
// failure record cleared so the cycle can restart.
func (e *Engine) assignTasks(events []Event) []Event {
	remaining := e.queue[:0:0]
	for _, tid := range e.queue {
		t := e.tasks[tid]
		shelf := e.shelves[t.Shelf]

		var candidates []*core.Agent
		carriable := false
		for _, a := range e.agents {
			r := e.runs[a.ID]
			if !a.CanCarry(shelf.Weight) {
				continue
			}
			carriable = true
			if r.stranded || r.charging || r.task != core.NoTask || r.leg != legNone {
				continue
			}
			if e.failed[tid][a.ID] {
				continue
			}
			candidates = append(candidates, a)
		}

		if len(candidates) == 0 {
			exhausted := carriable && len(e.failed[tid]) > 0 && e.allFailed(tid, shelf.Weight)
			if (!carriable || exhausted) && !e.reported[tid] {
				e.metrics.TasksStalled++
				events = append(events, Event{
					Tick: e.tick, Kind: EventStalled, Agent: core.NoAgent,
					Shelf: t.Shelf, Task: tid,
				})
				e.reported[tid] = true
				if exhausted {
					delete(e.failed, tid)
				}
			}
			remaining = append(remaining, tid)
			continue
		}

		best := candidates[:0:0]
		bestDist := -1
		for _, a := range candidates {
			d := a.Cell.Manhattan(shelf.Cell)
			switch {
			case bestDist < 0 || d < bestDist:
				bestDist = d
				best = append(best[:0], a)
			case d == bestDist:
				best = append(best, a)
			}
		}
		winner := best[e.rng.Intn(len(best))]

		t.State = core.TaskAssigned
		t.AssignedTo = winner.ID
		r := e.runs[winner.ID]
		r.task = tid
		r.leg = legFetch
		delete(e.reported, tid)
	}
	e.queue = remaining
	return events
}

// propose is phase 2: every agent's desired cell for this tick, computed
// against start-of-tick state only.
func (e *Engine) propose() map[core.AgentID]core.Cell {
	want := make(map[core.AgentID]core.Cell, len(e.agents))
	for _, a := range e.agents {
		r := e.runs[a.ID]
		if r.stranded || a.IsDepleted() || len(a.Path) == 0 {
			want[a.ID] = a.Cell
			continue
		}
		want[a.ID] = a.Path[0]
	}
	return want
}

// commit is phase 3: apply the allowed moves, drain and charge batteries,
// and handle arrivals (pickup, delivery, return, charging dock).
func (e *Engine) commit(events []Event, want map[core.AgentID]core.Cell, allowed map[core.AgentID]bool) []Event {
	for _, a := range e.agents {
		r := e.runs[a.ID]
		if allowed[a.ID] {
			from := a.Cell
			a.Cell = want[a.ID]
			a.Path = a.Path[1:]
			a.Drain()
			e.metrics.Moves++
			if a.IsCarrying() {
				e.shelves[a.Carrying].Cell = a.Cell
			}
			ev := e.event(EventMoved, a, from, a.Cell, r.task)
			events = append(events, ev)
		} else if e.grid.IsChargingStation(a.Cell) && !a.IsFull() {
			a.Charge()
			e.metrics.ChargeTicks++
			events = append(events, e.event(EventCharged, a, a.Cell, a.Cell, r.task))
			if r.stranded && !a.IsDepleted() {
				r.stranded = false
			}
		}

		if len(a.Path) == 0 && a.Goal != nil && a.Cell == *a.Goal {
			events = e.arrive(events, r, a)
		}
	}
	return events
}

// arrive handles an agent whose path is exhausted at its goal.
func (e *Engine) arrive(events []Event, r *agentRun, a *core.Agent) []Event {
	a.Goal = nil
	switch r.leg {
	case legFetch:
		t := e.tasks[r.task]
		s := e.ledger.Shelf(t.Shelf)
		if err := e.ledger.TryPickup(a, s); err != nil {
			// Rejected pickup skips the tick; the task stays with the agent
			// until its retry budget runs out.
			r.retries++
			if r.retries > e.maxRetries {
				e.markFailed(r.task, a.ID)
				e.requeueBack(r.task)
				r.task = core.NoTask
				r.leg = legNone
				r.retries = 0
			}
			return events
		}
		r.retries = 0
		r.leg = legDeliver
		e.metrics.Pickups++
		events = append(events, e.event(EventPickedUp, a, a.Cell, a.Cell, r.task))

	case legDeliver:
		t := e.tasks[r.task]
		s := e.ledger.Shelf(t.Shelf)
		t.State = core.TaskCompleted
		s.Delivered = true
		e.metrics.Deliveries++
		events = append(events, e.event(EventDelivered, a, a.Cell, a.Cell, r.task))
		if e.returnShelves {
			r.leg = legReturn
		} else {
			_, _ = e.ledger.Detach(a)
			r.task = core.NoTask
			r.leg = legNone
		}

	case legReturn:
		s, err := e.ledger.Release(a)
		if err != nil {
			r.retries++
			return events
		}
		r.retries = 0
		e.metrics.Returns++
		ev := e.event(EventReturned, a, a.Cell, a.Cell, r.task)
		ev.Shelf = s.ID
		events = append(events, ev)
		r.task = core.NoTask
		r.leg = legNone

	case legCharge:
		r.charging = true
		r.leg = legNone
	}
	return events
}

// CancelTask withdraws a task between ticks. A pending task is removed from
// the queue; an assigned agent is redirected at its next planning phase. An
// agent already carrying the shelf returns it home first.
func (e *Engine) CancelTask(id core.TaskID) error {
	t := e.tasks[id]
	if t == nil {
		return fmt.Errorf("cancel: unknown task %d", id)
	}
	switch t.State {
	case core.TaskCompleted, core.TaskCancelled:
		return fmt.Errorf("cancel: task %d already %s", id, t.State)
	case core.TaskPending:
		for i, tid := range e.queue {
			if tid == id {
				e.queue = append(e.queue[:i], e.queue[i+1:]...)
				break
			}
		}
	case core.TaskAssigned:
		r := e.runs[t.AssignedTo]
		r.agent.Path, r.agent.Goal = nil, nil
		if r.agent.IsCarrying() && r.agent.Carrying == t.Shelf {
			r.leg = legReturn
		} else {
			r.task = core.NoTask
			r.leg = legNone
		}
	}
	t.State = core.TaskCancelled
	e.metrics.TasksCancelled++
	return nil
}

// AddTask appends a new delivery request to the pending pool between ticks.
func (e *Engine) AddTask(shelf core.ShelfID, dest core.Cell) (core.TaskID, error) {
	if _, ok := e.shelves[shelf]; !ok {
		return core.NoTask, fmt.Errorf("add task: unknown shelf %d", shelf)
	}
	if !e.grid.IsPassable(dest) {
		return core.NoTask, fmt.Errorf("add task: destination %v not passable", dest)
	}
	id := core.TaskID(len(e.tasks))
	e.tasks[id] = core.NewTask(id, shelf, dest)
	e.queue = append(e.queue, id)
	return id, nil
}

func (e *Engine) event(kind EventKind, a *core.Agent, from, to core.Cell, task core.TaskID) Event {
	return Event{
		Tick: e.tick, Kind: kind, Agent: a.ID,
		From: from, To: to, Battery: a.Battery,
		Shelf: a.Carrying, Task: task,
	}
}

// legGoal resolves the target cell for the agent's current leg.
func (e *Engine) legGoal(r *agentRun) (core.Cell, bool) {
	switch r.leg {
	case legFetch:
		t := e.tasks[r.task]
		return e.ledger.Shelf(t.Shelf).Cell, true
	case legDeliver:
		return e.tasks[r.task].Dest, true
	case legReturn:
		s := e.ledger.Shelf(r.agent.Carrying)
		if s == nil {
			return core.Cell{}, false
		}
		return s.Home, true
	}
	return core.Cell{}, false
}

// resumeLeg picks the leg to continue after a charging stop.
func (e *Engine) resumeLeg(r *agentRun) leg {
	if !r.agent.IsCarrying() {
		return legNone
	}
	if t := e.tasks[r.task]; t != nil && t.State == core.TaskAssigned {
		return legDeliver
	}
	return legReturn
}

// planCharge routes a low-battery agent to a charging station, trying
// stations in Manhattan-distance order and settling on the first one that is
// unoccupied and reachable. An occupied or cut-off nearest station must not
// pin the agent; a farther free station still serves.
func (e *Engine) planCharge(events []Event, r *agentRun, a *core.Agent) []Event {
	stations := e.grid.ChargingStations()
	sort.SliceStable(stations, func(i, j int) bool {
		return a.Cell.Manhattan(stations[i]) < a.Cell.Manhattan(stations[j])
	})
	blocked := e.occupiedBy(a.ID)
	e.metrics.PlanAttempts++
	for _, goal := range stations {
		if blocked[goal] {
			continue
		}
		p := e.planner.Plan(e.grid, a.Cell, goal, blocked)
		if p == nil {
			continue
		}
		r.retries = 0
		g := goal
		a.Goal = &g
		a.Path = p[1:]
		return events
	}
	e.metrics.PlanFailures++
	r.retries++
	events = append(events, e.event(EventBlocked, a, a.Cell, a.Cell, r.task))
	if r.retries > e.maxRetries {
		// Nothing better to do than keep trying next tick.
		r.retries = 0
	}
	return events
}

// occupiedBy is the dynamic blocked set for planning: every other agent's
// current cell, rebuilt each call from start-of-tick state.
func (e *Engine) occupiedBy(self core.AgentID) map[core.Cell]bool {
	occ := make(map[core.Cell]bool, len(e.agents))
	for _, a := range e.agents {
		if a.ID != self {
			occ[a.Cell] = true
		}
	}
	return occ
}

func (e *Engine) markFailed(tid core.TaskID, aid core.AgentID) {
	if e.failed[tid] == nil {
		e.failed[tid] = make(map[core.AgentID]bool)
	}
	e.failed[tid][aid] = true
}

// allFailed reports whether every agent able to carry the shelf has burned
// its retry budget on the task.
func (e *Engine) allFailed(tid core.TaskID, weight float64) bool {
	for _, a := range e.agents {
		if a.CanCarry(weight) && !e.runs[a.ID].stranded && !e.failed[tid][a.ID] {
			return false
		}
	}
	return true
}

// requeueFront puts a preempted task back at the head of the queue.
func (e *Engine) requeueFront(tid core.TaskID) {
	t := e.tasks[tid]
	t.State = core.TaskPending
	t.AssignedTo = core.NoAgent
	e.queue = append([]core.TaskID{tid}, e.queue...)
}

// requeueBack cycles a failed task to the tail so another agent is tried.
func (e *Engine) requeueBack(tid core.TaskID) {
	t := e.tasks[tid]
	t.State = core.TaskPending
	t.AssignedTo = core.NoAgent
	e.queue = append(e.queue, tid)
}

// checkOccupancy asserts the collision-free invariant after commit. A
// violation aborts the step: it means conflict resolution has a bug.
func (e *Engine) checkOccupancy() error {
	seen := make(map[core.Cell]core.AgentID, len(e.agents))
	for _, a := range e.agents {
		if other, dup := seen[a.Cell]; dup {
			return fmt.Errorf("tick %d: agents %d and %d both occupy %v after commit", e.tick, other, a.ID, a.Cell)
		}
		seen[a.Cell] = a.ID
	}
	return nil
}
