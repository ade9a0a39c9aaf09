// Package ecology tracks higher-order indicator species beyond the NPZD
// pools. It is a rule-based heuristic: aggregate chemistry in, linear
// population penalties out.
package ecology

// Population decline/growth rates, per day.
const (
	hypoxiaStonefly    = 0.5
	hypoxiaTopPredator = 0.2
	bloomLeechGain     = 20.0
	overgrazeSeagrass  = 0.1

	bloomThreshold    = 5.0 // umol/L phytoplankton
	predatorCollapse  = 5.0
	initialStoneflies = 100.0
	initialLeeches    = 5.0
	initialSeagrass   = 500.0
	initialPredators  = 10.0
)

// Conditions is the aggregate chemistry snapshot the model reads each tick.
type Conditions struct {
	Hypoxic           bool
	PhytoplanktonMean float64
}

// Model holds populations of key indicator species: stoneflies mark pristine
// water, leeches mark polluted water, seagrass forms habitat, and the top
// predator anchors the food web.
type Model struct {
	Stoneflies  float64
	Leeches     float64
	Seagrass    float64 // m^2
	TopPredator float64
}

func New() *Model {
	return &Model{
		Stoneflies:  initialStoneflies,
		Leeches:     initialLeeches,
		Seagrass:    initialSeagrass,
		TopPredator: initialPredators,
	}
}

// Update applies chemical impacts and the trophic cascade rule over dtDays.
func (m *Model) Update(dtDays float64, c Conditions) {
	if c.Hypoxic {
		// Stoneflies are very sensitive to low oxygen; predators less so.
		m.Stoneflies *= 1 - hypoxiaStonefly*dtDays
		m.TopPredator *= 1 - hypoxiaTopPredator*dtDays
	}

	// Algal blooms favor pollution-tolerant species.
	if c.PhytoplanktonMean > bloomThreshold {
		m.Leeches += bloomLeechGain * dtDays
	}

	// Predator collapse releases grazers that strip seagrass beds.
	if m.TopPredator < predatorCollapse {
		m.Seagrass *= 1 - overgrazeSeagrass*dtDays
	}

	for _, p := range []*float64{&m.Stoneflies, &m.Leeches, &m.Seagrass, &m.TopPredator} {
		if *p < 0 {
			*p = 0
		}
	}
}

// HealthStatus gives a qualitative assessment from the balance of indicator
// species.
func (m *Model) HealthStatus() string {
	switch {
	case m.Stoneflies > 50 && m.Seagrass > 400:
		return "Pristine: healthy and balanced ecosystem."
	case m.Leeches > 50:
		return "Heavily Polluted: dominated by pollution-tolerant species."
	case m.Seagrass < 100:
		return "Habitat Collapse: critical loss of foundational seagrass beds."
	case m.TopPredator < 2:
		return "Trophic Cascade: loss of top predators is destabilizing the food web."
	default:
		return "Moderate: system is under stress."
	}
}
