package sim

// Snapshot is the aggregate state published after every tick. Grids stay
// inside the solvers; observers that need fields query the simulation
// directly.
type Snapshot struct {
	Step            int                `json:"step"`
	Clock           float64            `json:"clock_seconds"`
	HourOfDay       float64            `json:"hour_of_day"`
	Means           map[string]float64 `json:"means"`
	Hypoxic         bool               `json:"hypoxic"`
	HypoxicFraction float64            `json:"hypoxic_fraction"`
	Status          string             `json:"regulatory_status"`
	Violations      int                `json:"violations"`
	Ecosystem       string             `json:"ecosystem_health"`
}

type Metric interface {
	Name() string
	Observe(snap Snapshot, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(snap Snapshot)
}

// Result collects a completed run.
type Result struct {
	Snapshots  []Snapshot
	Metrics    map[string]float64
	StepsTaken int
}
