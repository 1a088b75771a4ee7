package core

// AgentID is a unique agent identifier. Lower IDs win conflict arbitration.
type AgentID int

// NoShelf marks an agent that is not carrying anything.
const NoShelf ShelfID = -1

// Agent is the per-agent mutable state: position, battery, cargo, committed path.
type Agent struct {
	ID   AgentID
	Cell Cell
	Home Cell // starting cell

	Battery       float64
	MaxBattery    float64
	DrainPerStep  float64
	ChargePerStep float64

	// MaxCarryWeight bounds shelf pickups; 0 disables the per-agent limit.
	MaxCarryWeight float64

	Carrying ShelfID
	Path     []Cell // remaining cells, next step first
	Goal     *Cell
}

// NewAgent creates an agent at its home cell with a full battery.
func NewAgent(id AgentID, home Cell, maxBattery, drain, charge, carryLimit float64) *Agent {
	return &Agent{
		ID:             id,
		Cell:           home,
		Home:           home,
		Battery:        maxBattery,
		MaxBattery:     maxBattery,
		DrainPerStep:   drain,
		ChargePerStep:  charge,
		MaxCarryWeight: carryLimit,
		Carrying:       NoShelf,
	}
}

// Drain consumes one movement step of battery, clamped at zero.
func (a *Agent) Drain() {
	a.Battery -= a.DrainPerStep
	if a.Battery < 0 {
		a.Battery = 0
	}
}

// Charge adds one stationary step of charge, capped at MaxBattery.
func (a *Agent) Charge() {
	a.Battery += a.ChargePerStep
	if a.Battery > a.MaxBattery {
		a.Battery = a.MaxBattery
	}
}

// BatteryFraction returns the charge level in [0,1].
func (a *Agent) BatteryFraction() float64 {
	if a.MaxBattery <= 0 {
		return 1.0
	}
	return a.Battery / a.MaxBattery
}

// IsDepleted reports a dead battery; a depleted agent cannot move.
func (a *Agent) IsDepleted() bool { return a.Battery <= 0 }

// IsFull reports a battery at capacity.
func (a *Agent) IsFull() bool { return a.Battery >= a.MaxBattery }

// IsCarrying reports whether the agent holds a shelf.
func (a *Agent) IsCarrying() bool { return a.Carrying != NoShelf }

// CanCarry checks the optional per-agent weight limit.
func (a *Agent) CanCarry(weight float64) bool {
	return a.MaxCarryWeight <= 0 || weight <= a.MaxCarryWeight
}
