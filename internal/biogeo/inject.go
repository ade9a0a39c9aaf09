package biogeo

import "github.com/hydroeco/hydrosim/internal/grid"

// InjectNutrient adds a nutrient load uniformly over the square bounding box
// of the given radius around (i, j).
func (s *Solver) InjectNutrient(i, j, radius int, amount float64) {
	s.nutrient.StampBox(i, j, radius, amount)
	s.nutrient.Clamp(0, maxNutrient)
}

// InjectPollutant adds a BOD load over the square bounding box and consumes
// dissolved oxygen at half the injected amount.
func (s *Solver) InjectPollutant(i, j, radius int, amount float64) {
	s.bod.StampBox(i, j, radius, amount)
	s.oxygen.StampBox(i, j, radius, -amount/2)
	s.bod.Clamp(0, maxBOD)
	s.oxygen.Clamp(0, maxOxygen)
}

// InjectTemperature adds a Gaussian-weighted temperature anomaly within the
// circular radius around (i, j). Unlike the other injectors this one uses a
// true radial falloff; the asymmetry is historical behavior.
func (s *Solver) InjectTemperature(i, j, radius int, deltaT float64) {
	s.temperature.StampGaussian(i, j, radius, deltaT)
	s.temperature.Clamp(minTemperature, maxTemperature)
}

// TracerNames lists every tracer the solver carries, in a fixed order.
var TracerNames = []string{
	"nutrient",
	"phytoplankton",
	"zooplankton",
	"detritus",
	"dissolved_oxygen",
	"ph",
	"bod",
	"temperature",
}

// Tracer returns the grid for the named tracer. Unrecognized names yield a
// zero grid rather than an error.
func (s *Solver) Tracer(name string) *grid.Field {
	switch name {
	case "nutrient":
		return s.nutrient
	case "phytoplankton":
		return s.phytoplankton
	case "zooplankton":
		return s.zooplankton
	case "detritus":
		return s.detritus
	case "dissolved_oxygen":
		return s.oxygen
	case "ph":
		return s.ph
	case "bod":
		return s.bod
	case "temperature":
		return s.temperature
	default:
		return grid.New(s.Nx, s.Ny)
	}
}

// Means returns the spatial mean of every tracer.
func (s *Solver) Means() map[string]float64 {
	m := make(map[string]float64, len(TracerNames))
	for _, name := range TracerNames {
		m[name] = s.Tracer(name).Mean()
	}
	return m
}

// IsHypoxic reports whether the domain-mean dissolved oxygen is below the
// 2.0 mg/L hypoxia threshold.
func (s *Solver) IsHypoxic() bool {
	return s.oxygen.Mean() < hypoxiaThreshold
}

// HypoxicFraction reports the fraction of cells below the hypoxia threshold.
func (s *Solver) HypoxicFraction() float64 {
	return s.oxygen.FractionBelow(hypoxiaThreshold)
}
