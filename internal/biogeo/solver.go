// Package biogeo evolves the water-quality tracers of an NPZD
// (nutrient-phytoplankton-zooplankton-detritus) model, together with
// temperature, dissolved oxygen, pH, and biochemical oxygen demand, on the
// same cell-centered grid the hydrodynamics solver circulates.
package biogeo

import (
	"math"

	"github.com/hydroeco/hydrosim/internal/grid"
)

const secondsPerDay = 86400.0

// Temperature forcing. Solar input follows a diurnal sine that peaks at
// local noon; atmospheric cooling is constant.
const (
	solarHeatingRate       = 1.5e-4 // degC/s at full sun
	atmosphericCoolingRate = 4e-5   // degC/s
)

// Physical clamp ranges. Enforced at the end of every update so no tracer is
// ever observable outside its bound between ticks.
const (
	maxNutrient      = 500.0 // umol/L
	maxPhytoplankton = 100.0
	maxZooplankton   = 50.0
	maxDetritus      = 100.0
	maxOxygen        = 20.0 // mg/L
	minPH            = 6.0
	maxPH            = 9.0
	maxBOD           = 50.0 // mg/L
	minTemperature   = 0.0  // degC
	maxTemperature   = 40.0
)

// Params holds the biological rate constants (per day) and the transport
// diffusivities (m^2/s).
type Params struct {
	GrowthRate         float64 // phytoplankton max growth
	GrazingRate        float64
	MortalityPhyto     float64
	MortalityZoo       float64
	Remineralization   float64
	HalfSaturation     float64 // Monod half-saturation constant, umol/L
	Diffusivity        float64 // turbulent tracer diffusivity
	ThermalDiffusivity float64
}

func DefaultParams() Params {
	return Params{
		GrowthRate:         0.5,
		GrazingRate:        0.2,
		MortalityPhyto:     0.1,
		MortalityZoo:       0.05,
		Remineralization:   0.03,
		HalfSaturation:     1.0,
		Diffusivity:        0.05,
		ThermalDiffusivity: 0.1,
	}
}

// Solver owns all tracer grids, the heatwave state, and the simulation
// clock. It never reads from the hydrodynamics solver; velocities arrive as
// read-only arguments once per tick.
type Solver struct {
	Nx, Ny int

	dx, dy float64
	params Params

	nutrient      *grid.Field
	phytoplankton *grid.Field
	zooplankton   *grid.Field
	detritus      *grid.Field
	oxygen        *grid.Field
	ph            *grid.Field
	bod           *grid.Field
	temperature   *grid.Field

	heatwaveActive    bool
	heatwaveIntensity float64 // degC anomaly

	clock float64 // elapsed seconds, never reset
}

// Baseline initial tracer values, matching the historical defaults.
var defaultBaseline = map[string]float64{
	"nutrient":         10.0,
	"phytoplankton":    1.0,
	"zooplankton":      0.5,
	"detritus":         0.1,
	"dissolved_oxygen": 8.0,
	"ph":               8.1,
	"bod":              1.0,
	"temperature":      20.0,
}

// New allocates a solver with uniform baseline tracer fields. Values missing
// from baseline fall back to the historical defaults; a nil baseline uses
// them all.
func New(nx, ny int, lx, ly float64, baseline map[string]float64, params Params) (*Solver, error) {
	if nx < 3 || ny < 3 {
		return nil, ErrGridShape
	}
	if lx <= 0 || ly <= 0 {
		return nil, ErrPhysicalParam
	}

	value := func(name string) float64 {
		if baseline != nil {
			if v, ok := baseline[name]; ok {
				return v
			}
		}
		return defaultBaseline[name]
	}

	s := &Solver{
		Nx: nx, Ny: ny,
		dx:            lx / float64(nx),
		dy:            ly / float64(ny),
		params:        params,
		nutrient:      grid.NewUniform(nx, ny, value("nutrient")),
		phytoplankton: grid.NewUniform(nx, ny, value("phytoplankton")),
		zooplankton:   grid.NewUniform(nx, ny, value("zooplankton")),
		detritus:      grid.NewUniform(nx, ny, value("detritus")),
		oxygen:        grid.NewUniform(nx, ny, value("dissolved_oxygen")),
		ph:            grid.NewUniform(nx, ny, value("ph")),
		bod:           grid.NewUniform(nx, ny, value("bod")),
		temperature:   grid.NewUniform(nx, ny, value("temperature")),
	}
	return s, nil
}

// Update advances all tracers by dtSeconds under the supplied cell-centered
// velocity field. Passing nil velocities skips transport (reaction-only
// tick). Stage order is fixed: temperature, reaction kinetics, advection,
// diffusion, oxygen dynamics, clamping.
func (s *Solver) Update(dtSeconds float64, u, v *grid.Field) {
	if dtSeconds <= 0 {
		return
	}
	dtDays := dtSeconds / secondsPerDay

	s.updateTemperature(dtSeconds, u, v)
	s.react(dtDays)

	if u != nil && v != nil {
		for _, f := range []**grid.Field{&s.nutrient, &s.phytoplankton, &s.zooplankton, &s.detritus, &s.oxygen, &s.bod} {
			*f = grid.UpwindAdvect(*f, u, v, dtSeconds, s.dx, s.dy)
		}
	}

	for _, f := range []**grid.Field{&s.nutrient, &s.phytoplankton, &s.zooplankton, &s.detritus, &s.oxygen} {
		*f = grid.Diffuse(*f, s.params.Diffusivity, dtSeconds, s.dx, s.dy)
	}

	s.updateOxygen(dtDays)
	s.clampAll()
	s.clock += dtSeconds
}

// updateTemperature applies diurnal solar heating, constant atmospheric
// cooling, and the active heatwave anomaly, then transports heat by the same
// upwind scheme as every other tracer.
func (s *Solver) updateTemperature(dtSeconds float64, u, v *grid.Field) {
	solar := math.Sin(math.Pi * (s.HourOfDay() - 6.0) / 12.0)
	if solar < 0 {
		solar = 0
	}

	heating := solarHeatingRate*solar - atmosphericCoolingRate
	if s.heatwaveActive {
		heating += s.heatwaveIntensity / secondsPerDay
	}
	s.temperature.AddConst(heating * dtSeconds)

	if u != nil && v != nil {
		s.temperature = grid.UpwindAdvect(s.temperature, u, v, dtSeconds, s.dx, s.dy)
	}
	s.temperature = grid.Diffuse(s.temperature, s.params.ThermalDiffusivity, dtSeconds, s.dx, s.dy)
	s.temperature.Clamp(minTemperature, maxTemperature)
}

func (s *Solver) clampAll() {
	s.nutrient.Clamp(0, maxNutrient)
	s.phytoplankton.Clamp(0, maxPhytoplankton)
	s.zooplankton.Clamp(0, maxZooplankton)
	s.detritus.Clamp(0, maxDetritus)
	s.oxygen.Clamp(0, maxOxygen)
	s.ph.Clamp(minPH, maxPH)
	s.bod.Clamp(0, maxBOD)
	s.temperature.Clamp(minTemperature, maxTemperature)
}

// Clock returns elapsed simulation seconds.
func (s *Solver) Clock() float64 { return s.clock }

// HourOfDay derives the diurnal phase from the clock; the counter itself
// never wraps.
func (s *Solver) HourOfDay() float64 {
	return math.Mod(s.clock, secondsPerDay) / 3600.0
}

// ActivateHeatwave sets the heatwave anomaly; it perturbs the temperature
// source term starting with the next update.
func (s *Solver) ActivateHeatwave(intensity float64) {
	s.heatwaveActive = true
	s.heatwaveIntensity = intensity
}

func (s *Solver) DeactivateHeatwave() {
	s.heatwaveActive = false
	s.heatwaveIntensity = 0
}

// Heatwave reports the current heatwave state.
func (s *Solver) Heatwave() (bool, float64) {
	return s.heatwaveActive, s.heatwaveIntensity
}
