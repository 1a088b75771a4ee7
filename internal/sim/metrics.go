package sim

// Metrics accumulates counters over the lifetime of one engine instance.
type Metrics struct {
	Ticks          int `json:"ticks"`
	Moves          int `json:"moves"`
	Pickups        int `json:"pickups"`
	Deliveries     int `json:"deliveries"`
	Returns        int `json:"returns"`
	ChargeTicks    int `json:"charge_ticks"`
	Conflicts      int `json:"conflicts"`
	PlanAttempts   int `json:"plan_attempts"`
	PlanFailures   int `json:"plan_failures"`
	TasksStalled   int `json:"tasks_stalled"`
	TasksCancelled int `json:"tasks_cancelled"`
	StrandedAgents int `json:"stranded_agents"`
}
