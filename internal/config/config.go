// Package config loads and validates warehouse scenario configurations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/warehouse-sim/internal/algo"
	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// CellSpec names a grid cell in a scenario file.
type CellSpec struct {
	Row int `yaml:"row" json:"row"`
	Col int `yaml:"col" json:"col"`
}

// Cell converts to the core value type.
func (c CellSpec) Cell() core.Cell { return core.Cell{Row: c.Row, Col: c.Col} }

// StorageSpec declares a shelf-storage cell with its weight capacity.
// Capacity 0 falls back to the scenario default.
type StorageSpec struct {
	Cell     CellSpec `yaml:"cell" json:"cell"`
	Capacity float64  `yaml:"capacity" json:"capacity"`
}

// ShelfSpec declares a shelf at its home storage cell.
type ShelfSpec struct {
	ID     int      `yaml:"id" json:"id"`
	Cell   CellSpec `yaml:"cell" json:"cell"`
	Weight float64  `yaml:"weight" json:"weight"`
}

// AgentSpec declares an agent and its battery parameters.
// Zero battery fields take scenario defaults; max_carry_weight 0 means the
// agent has no individual carrying limit.
type AgentSpec struct {
	ID             int      `yaml:"id" json:"id"`
	Start          CellSpec `yaml:"start" json:"start"`
	MaxBattery     float64  `yaml:"max_battery" json:"max_battery"`
	DrainPerStep   float64  `yaml:"drain_per_step" json:"drain_per_step"`
	ChargePerStep  float64  `yaml:"charge_per_step" json:"charge_per_step"`
	MaxCarryWeight float64  `yaml:"max_carry_weight" json:"max_carry_weight"`
}

// TaskSpec pairs a shelf with a delivery cell.
type TaskSpec struct {
	Shelf int      `yaml:"shelf" json:"shelf"`
	Dest  CellSpec `yaml:"dest" json:"dest"`
}

// Scenario is a full episode configuration.
type Scenario struct {
	Name   string `yaml:"name" json:"name"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`

	Obstacles []CellSpec    `yaml:"obstacles" json:"obstacles,omitempty"`
	Storage   []StorageSpec `yaml:"storage" json:"storage,omitempty"`
	Shelves   []ShelfSpec   `yaml:"shelves" json:"shelves"`
	Chargers  []CellSpec    `yaml:"chargers" json:"chargers,omitempty"`
	Goals     []CellSpec    `yaml:"goals" json:"goals,omitempty"`
	Agents    []AgentSpec   `yaml:"agents" json:"agents"`
	Tasks     []TaskSpec    `yaml:"tasks" json:"tasks"`

	Algorithm        string `yaml:"algorithm" json:"algorithm"`
	MaxReplanRetries int    `yaml:"max_replan_retries" json:"max_replan_retries"`
	StepLimit        int    `yaml:"step_limit" json:"step_limit"`
	Seed             int64  `yaml:"seed" json:"seed"`

	// DefaultCapacity applies to storage cells declared without one and to
	// shelf home cells not listed under storage.
	DefaultCapacity float64 `yaml:"default_capacity" json:"default_capacity"`

	// Battery defaults for agents that leave their fields at zero.
	DefaultMaxBattery    float64 `yaml:"default_max_battery" json:"default_max_battery"`
	DefaultDrainPerStep  float64 `yaml:"default_drain_per_step" json:"default_drain_per_step"`
	DefaultChargePerStep float64 `yaml:"default_charge_per_step" json:"default_charge_per_step"`

	// LowBatteryFraction is the charge fraction below which agents divert to
	// the nearest charging station ahead of any delivery work.
	LowBatteryFraction float64 `yaml:"low_battery_fraction" json:"low_battery_fraction"`

	// DisableShelfReturn skips the leg that carries a delivered shelf back to
	// its home storage cell.
	DisableShelfReturn bool `yaml:"disable_shelf_return" json:"disable_shelf_return"`
}

// Load reads a YAML scenario, applies defaults and validates it.
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scn Scenario
	if err := yaml.Unmarshal(b, &scn); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	scn.ApplyDefaults()
	if err := scn.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &scn, nil
}

// ApplyDefaults fills unset tunables.
func (s *Scenario) ApplyDefaults() {
	if s.Algorithm == "" {
		s.Algorithm = string(algo.AlgorithmAStar)
	}
	if s.MaxReplanRetries <= 0 {
		s.MaxReplanRetries = 5
	}
	if s.StepLimit <= 0 {
		s.StepLimit = 1000
	}
	if s.DefaultCapacity <= 0 {
		s.DefaultCapacity = 10
	}
	if s.DefaultMaxBattery <= 0 {
		s.DefaultMaxBattery = 100
	}
	if s.DefaultDrainPerStep <= 0 {
		s.DefaultDrainPerStep = 1
	}
	if s.DefaultChargePerStep <= 0 {
		s.DefaultChargePerStep = 5
	}
	if s.LowBatteryFraction <= 0 || s.LowBatteryFraction >= 1 {
		s.LowBatteryFraction = 0.2
	}
	for i := range s.Agents {
		if s.Agents[i].MaxBattery <= 0 {
			s.Agents[i].MaxBattery = s.DefaultMaxBattery
		}
		if s.Agents[i].DrainPerStep <= 0 {
			s.Agents[i].DrainPerStep = s.DefaultDrainPerStep
		}
		if s.Agents[i].ChargePerStep <= 0 {
			s.Agents[i].ChargePerStep = s.DefaultChargePerStep
		}
	}
	for i := range s.Storage {
		if s.Storage[i].Capacity <= 0 {
			s.Storage[i].Capacity = s.DefaultCapacity
		}
	}
}

// StorageMap resolves the full storage-cell capacity map: declared storage
// cells plus shelf home cells at the default capacity.
func (s *Scenario) StorageMap() map[core.Cell]float64 {
	m := make(map[core.Cell]float64, len(s.Storage)+len(s.Shelves))
	for _, st := range s.Storage {
		m[st.Cell.Cell()] = st.Capacity
	}
	for _, sh := range s.Shelves {
		if _, ok := m[sh.Cell.Cell()]; !ok {
			m[sh.Cell.Cell()] = s.DefaultCapacity
		}
	}
	return m
}

// GoalCells resolves the delivery cell set: declared goals plus task
// destinations.
func (s *Scenario) GoalCells() []core.Cell {
	seen := make(map[core.Cell]bool, len(s.Goals)+len(s.Tasks))
	var out []core.Cell
	add := func(c core.Cell) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, g := range s.Goals {
		add(g.Cell())
	}
	for _, t := range s.Tasks {
		add(t.Dest.Cell())
	}
	return out
}

// Validate checks the scenario for the fatal inconsistencies that must stop
// a reset: overlapping cell sets, out-of-bounds cells, zero agents, shelves
// heavier than their storage cells.
func (s *Scenario) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return core.Configf("grid dimensions must be positive, got %dx%d", s.Width, s.Height)
	}
	if len(s.Agents) == 0 {
		return core.Configf("scenario declares zero agents")
	}
	if _, err := algo.ParseAlgorithm(s.Algorithm); err != nil {
		return core.Configf("%v", err)
	}

	inBounds := func(c CellSpec) bool {
		return c.Row >= 0 && c.Row < s.Height && c.Col >= 0 && c.Col < s.Width
	}
	obstacles := make(map[core.Cell]bool, len(s.Obstacles))
	for _, c := range s.Obstacles {
		obstacles[c.Cell()] = true
	}
	storage := s.StorageMap()

	agentIDs := make(map[int]bool, len(s.Agents))
	starts := make(map[core.Cell]int, len(s.Agents))
	for _, a := range s.Agents {
		if agentIDs[a.ID] {
			return core.Configf("duplicate agent id %d", a.ID)
		}
		agentIDs[a.ID] = true
		if !inBounds(a.Start) {
			return core.Configf("agent %d start %v out of bounds", a.ID, a.Start.Cell())
		}
		if obstacles[a.Start.Cell()] {
			return core.Configf("agent %d starts on an obstacle %v", a.ID, a.Start.Cell())
		}
		if other, dup := starts[a.Start.Cell()]; dup {
			return core.Configf("agents %d and %d share start cell %v", other, a.ID, a.Start.Cell())
		}
		starts[a.Start.Cell()] = a.ID
	}

	shelfIDs := make(map[int]ShelfSpec, len(s.Shelves))
	homes := make(map[core.Cell]int, len(s.Shelves))
	for _, sh := range s.Shelves {
		if _, dup := shelfIDs[sh.ID]; dup {
			return core.Configf("duplicate shelf id %d", sh.ID)
		}
		shelfIDs[sh.ID] = sh
		if !inBounds(sh.Cell) {
			return core.Configf("shelf %d home %v out of bounds", sh.ID, sh.Cell.Cell())
		}
		if sh.Weight <= 0 {
			return core.Configf("shelf %d weight must be positive, got %g", sh.ID, sh.Weight)
		}
		capacity := storage[sh.Cell.Cell()]
		if sh.Weight > capacity {
			return core.Configf("shelf %d weight %g exceeds storage capacity %g at %v",
				sh.ID, sh.Weight, capacity, sh.Cell.Cell())
		}
		if other, dup := homes[sh.Cell.Cell()]; dup {
			return core.Configf("shelves %d and %d share home cell %v", other, sh.ID, sh.Cell.Cell())
		}
		homes[sh.Cell.Cell()] = sh.ID
	}

	for _, t := range s.Tasks {
		if _, ok := shelfIDs[t.Shelf]; !ok {
			return core.Configf("task references unknown shelf %d", t.Shelf)
		}
		if !inBounds(t.Dest) {
			return core.Configf("task destination %v out of bounds", t.Dest.Cell())
		}
		if obstacles[t.Dest.Cell()] {
			return core.Configf("task destination %v is an obstacle", t.Dest.Cell())
		}
	}

	// Set-overlap and bounds checks for the map itself are shared with the
	// engine via NewGridWorld.
	var obstacleCells, chargerCells, goalCells []core.Cell
	for _, c := range s.Obstacles {
		obstacleCells = append(obstacleCells, c.Cell())
	}
	for _, c := range s.Chargers {
		chargerCells = append(chargerCells, c.Cell())
	}
	goalCells = s.GoalCells()
	if _, err := core.NewGridWorld(s.Width, s.Height, obstacleCells, storage, chargerCells, goalCells); err != nil {
		return err
	}
	return nil
}
