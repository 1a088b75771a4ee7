package sim

import "github.com/elektrokombinacija/warehouse-sim/internal/core"

// resolveMoves arbitrates the simultaneous move proposals of one tick.
// Agents must be sorted by identifier; want maps each agent to its proposed
// next cell (its own cell for a hold). The returned set names the agents
// whose moves commit this tick.
//
// Rules, applied in order:
//  1. Two or more proposals for the same cell: the lowest identifier wins,
//     the rest hold.
//  2. A swap (two agents proposing each other's cells) holds the higher
//     identifier. The lower keeps its claim but is then held by rule 3,
//     since its target cell is still occupied by the now-stationary other
//     agent. Letting the lower one cross anyway would put two agents on one
//     cell, so neither moves this tick and both re-plan.
//  3. A proposal into a cell whose occupant is not moving away holds, and
//     holds cascade down chains of followers.
func resolveMoves(agents []*core.Agent, want map[core.AgentID]core.Cell) (allowed map[core.AgentID]bool, held []core.AgentID) {
	allowed = make(map[core.AgentID]bool, len(agents))
	occupant := make(map[core.Cell]core.AgentID, len(agents))
	for _, a := range agents {
		occupant[a.Cell] = a.ID
		if t, ok := want[a.ID]; ok && t != a.Cell {
			allowed[a.ID] = true
		}
	}

	deny := func(id core.AgentID) {
		if allowed[id] {
			delete(allowed, id)
			held = append(held, id)
		}
	}

	// Same-destination contention. Iteration in identifier order makes the
	// first claimant the winner.
	claimed := make(map[core.Cell]bool, len(agents))
	for _, a := range agents {
		if !allowed[a.ID] {
			continue
		}
		t := want[a.ID]
		if claimed[t] {
			deny(a.ID)
			continue
		}
		claimed[t] = true
	}

	// Swap deadlocks.
	for _, a := range agents {
		if !allowed[a.ID] {
			continue
		}
		other, ok := occupant[want[a.ID]]
		if !ok || other <= a.ID || !allowed[other] {
			continue
		}
		if want[other] == a.Cell {
			deny(other)
		}
	}

	// Occupancy cascade: a move into a cell whose occupant holds is itself a
	// hold. Repeat until stable so chains compress correctly.
	for changed := true; changed; {
		changed = false
		for _, a := range agents {
			if !allowed[a.ID] {
				continue
			}
			other, occupied := occupant[want[a.ID]]
			if occupied && !allowed[other] {
				deny(a.ID)
				changed = true
			}
		}
	}
	return allowed, held
}
