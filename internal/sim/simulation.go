// Package sim couples the hydrodynamics and biogeochemistry solvers with the
// ecosystem, remediation, and regulatory collaborators, and steps them in a
// fixed order once per tick.
package sim

import (
	"context"
	"fmt"

	"github.com/hydroeco/hydrosim/internal/biogeo"
	"github.com/hydroeco/hydrosim/internal/config"
	"github.com/hydroeco/hydrosim/internal/ecology"
	"github.com/hydroeco/hydrosim/internal/grid"
	"github.com/hydroeco/hydrosim/internal/hydro"
	"github.com/hydroeco/hydrosim/internal/regulatory"
	"github.com/hydroeco/hydrosim/internal/remediation"
)

const secondsPerDay = 86400.0

// Injection stamps default to an 11x11 cell footprint at the domain center.
const defaultInjectRadius = 5

// Simulation owns every solver for one water body. It is not safe for
// concurrent use; callers that share one across goroutines serialize access
// themselves.
type Simulation struct {
	profile *config.Profile

	flow    *hydro.Solver
	chem    *biogeo.Solver
	eco     *ecology.Model
	zones   *remediation.Manager
	monitor *regulatory.Monitor

	step       int
	lastReport regulatory.Report

	metrics   []Metric
	observers []Observer
}

// New builds a simulation from a named environment profile.
func New(profileID string) (*Simulation, error) {
	p := config.GetProfile(profileID)
	if p == nil {
		return nil, fmt.Errorf("sim: unknown profile %q", profileID)
	}
	return NewFromProfile(p)
}

// NewFromProfile builds a simulation from an explicit profile, typically one
// with config overrides applied.
func NewFromProfile(p *config.Profile) (*Simulation, error) {
	if p == nil {
		return nil, fmt.Errorf("sim: nil profile")
	}

	s := &Simulation{
		profile:   p,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

// build allocates fresh solvers from the profile. Reset reuses it wholesale
// rather than zeroing fields in place.
func (s *Simulation) build() error {
	p := s.profile

	flow, err := hydro.New(p.GridNx, p.GridNy, p.DomainLx, p.DomainLy, p.MeanDepth, p.EddyViscosity)
	if err != nil {
		return fmt.Errorf("sim: hydrodynamics: %w", err)
	}

	chem, err := biogeo.New(p.GridNx, p.GridNy, p.DomainLx, p.DomainLy, p.Baseline, biogeo.Params(p.Kinetics))
	if err != nil {
		return fmt.Errorf("sim: biogeochemistry: %w", err)
	}

	s.flow = flow
	s.chem = chem
	s.eco = ecology.New()
	s.zones = remediation.NewManager(p.GridNx, p.GridNy)
	s.monitor = regulatory.NewMonitor(p.WaterbodyType)
	s.step = 0
	s.lastReport = regulatory.Report{}
	return nil
}

// Reset discards all state and rebuilds from the profile. Attached metrics
// and observers survive; metrics are reset.
func (s *Simulation) Reset() error {
	if err := s.build(); err != nil {
		return err
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	return nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Step advances the coupled system by dt seconds: circulation first, then
// tracer transport and kinetics on the updated flow, then the interventions
// and assessments that read the finished chemistry.
func (s *Simulation) Step(dt float64) Snapshot {
	s.flow.Update(dt)
	u, v := s.flow.VelocityField()
	s.chem.Update(dt, u, v)
	s.zones.Apply(s.chem, dt)

	means := s.chem.Means()
	s.eco.Update(dt/secondsPerDay, ecology.Conditions{
		Hypoxic:           s.chem.IsHypoxic(),
		PhytoplanktonMean: means["phytoplankton"],
	})
	s.lastReport = s.monitor.Assess(s.chem)

	s.step++
	snap := s.snapshot(means)

	for _, m := range s.metrics {
		m.Observe(snap, s.chem.Clock())
	}
	for _, obs := range s.observers {
		obs.OnStep(snap)
	}
	return snap
}

func (s *Simulation) snapshot(means map[string]float64) Snapshot {
	return Snapshot{
		Step:            s.step,
		Clock:           s.chem.Clock(),
		HourOfDay:       s.chem.HourOfDay(),
		Means:           means,
		Hypoxic:         s.chem.IsHypoxic(),
		HypoxicFraction: s.chem.HypoxicFraction(),
		Status:          s.lastReport.Status,
		Violations:      len(s.lastReport.Violations),
		Ecosystem:       s.eco.HealthStatus(),
	}
}

// Run steps the simulation n times, honoring context cancellation between
// ticks. Metrics are reset at the start and reported in the result.
func (s *Simulation) Run(ctx context.Context, n int, dt float64) (*Result, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("sim: dt must be positive, got %f", dt)
	}
	if n <= 0 {
		return nil, fmt.Errorf("sim: step count must be positive, got %d", n)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Snapshots: make([]Snapshot, 0, n),
		Metrics:   make(map[string]float64),
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		result.Snapshots = append(result.Snapshots, s.Step(dt))
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// InjectNutrient adds a uniform nutrient patch centered at (x, y).
func (s *Simulation) InjectNutrient(x, y, radius int, amount float64) {
	s.chem.InjectNutrient(x, y, radius, amount)
}

// InjectNutrientCenter adds nutrients at the domain center with the default
// footprint.
func (s *Simulation) InjectNutrientCenter(amount float64) {
	s.chem.InjectNutrient(s.profile.GridNx/2, s.profile.GridNy/2, defaultInjectRadius, amount)
}

// InjectPollutant adds an organic pollutant patch centered at (x, y).
func (s *Simulation) InjectPollutant(x, y, radius int, amount float64) {
	s.chem.InjectPollutant(x, y, radius, amount)
}

// InjectPollutantCenter adds pollutant at the domain center with the default
// footprint.
func (s *Simulation) InjectPollutantCenter(amount float64) {
	s.chem.InjectPollutant(s.profile.GridNx/2, s.profile.GridNy/2, defaultInjectRadius, amount)
}

// InjectTemperature adds a thermal anomaly centered at (x, y).
func (s *Simulation) InjectTemperature(x, y, radius int, delta float64) {
	s.chem.InjectTemperature(x, y, radius, delta)
}

// InjectMomentum stirs the flow field around (x, y).
func (s *Simulation) InjectMomentum(x, y, radius int, du, dv float64) {
	s.flow.InjectMomentum(x, y, radius, du, dv)
}

// ActivateHeatwave turns on the temperature anomaly source.
func (s *Simulation) ActivateHeatwave(intensity float64) { s.chem.ActivateHeatwave(intensity) }

// DeactivateHeatwave turns it off.
func (s *Simulation) DeactivateHeatwave() { s.chem.DeactivateHeatwave() }

// Deploy installs a remediation zone.
func (s *Simulation) Deploy(x, y, radius int, typ remediation.Type, intensity float64) (*remediation.Zone, error) {
	return s.zones.Deploy(x, y, radius, typ, intensity)
}

// RemoveZone deactivates a remediation zone by ID.
func (s *Simulation) RemoveZone(id int) error { return s.zones.Remove(id) }

// FlowAt returns the face velocities at cell (i, j); zero out of range.
func (s *Simulation) FlowAt(i, j int) (float64, float64) { return s.flow.FlowAt(i, j) }

// Tracer returns the live field for a tracer name; unknown names give a zero
// grid.
func (s *Simulation) Tracer(name string) *grid.Field { return s.chem.Tracer(name) }

// Status returns a snapshot without advancing the simulation.
func (s *Simulation) Status() Snapshot { return s.snapshot(s.chem.Means()) }

func (s *Simulation) Profile() *config.Profile          { return s.profile }
func (s *Simulation) Chemistry() *biogeo.Solver         { return s.chem }
func (s *Simulation) Flow() *hydro.Solver               { return s.flow }
func (s *Simulation) Ecosystem() *ecology.Model         { return s.eco }
func (s *Simulation) Remediation() *remediation.Manager { return s.zones }
func (s *Simulation) Compliance() regulatory.Report     { return s.lastReport }
func (s *Simulation) ComplianceHistory() []regulatory.Violation {
	return s.monitor.History()
}
func (s *Simulation) StepCount() int { return s.step }
