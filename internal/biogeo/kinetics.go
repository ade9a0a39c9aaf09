package biogeo

import "math"

// Oxygen dynamics constants (rates per day unless noted).
const (
	photosynthesisYield = 0.12 // mg/L DO per umol/L phytoplankton
	respirationPhyto    = 0.1
	respirationZoo      = 0.15
	respirationDetritus = 0.05
	reaerationRate      = 0.1

	hypoxiaThreshold = 2.0 // mg/L
)

// react applies the local NPZD reaction kinetics cell by cell. No transport
// happens here; the stage is a pure element-wise transform.
//
// Mass bookkeeping: summed over N+P+Z+D the source terms cancel except for
// the unassimilated 20% of grazing, which leaves the modeled pools.
func (s *Solver) react(dtDays float64) {
	p := s.params
	for i := 0; i < s.Nx; i++ {
		for j := 0; j < s.Ny; j++ {
			N := s.nutrient.At(i, j)
			P := s.phytoplankton.At(i, j)
			Z := s.zooplankton.At(i, j)
			D := s.detritus.At(i, j)
			T := s.temperature.At(i, j)

			// Q10 ~ 2 temperature correction, unity at 20 degC.
			fT := math.Pow(1.066, T-20.0)

			growth := fT * p.GrowthRate * N / (N + p.HalfSaturation) * P
			grazing := p.GrazingRate * P * Z
			mortP := p.MortalityPhyto * P
			zooGrowth := 0.8 * grazing // assimilation efficiency
			mortZ := p.MortalityZoo * Z
			detritusGain := mortP + mortZ
			detritusLoss := p.Remineralization * D

			s.nutrient.Set(i, j, N-(growth-detritusLoss)*dtDays)
			s.phytoplankton.Set(i, j, P+(growth-grazing-mortP)*dtDays)
			s.zooplankton.Set(i, j, Z+(zooGrowth-mortZ)*dtDays)
			s.detritus.Set(i, j, D+(detritusGain-detritusLoss)*dtDays)
		}
	}
}

// updateOxygen applies photosynthesis, BOD-scaled respiration, and
// reaeration toward the temperature-dependent saturation value.
func (s *Solver) updateOxygen(dtDays float64) {
	for i := 0; i < s.Nx; i++ {
		for j := 0; j < s.Ny; j++ {
			P := s.phytoplankton.At(i, j)
			Z := s.zooplankton.At(i, j)
			D := s.detritus.At(i, j)
			B := s.bod.At(i, j)
			T := s.temperature.At(i, j)
			DO := s.oxygen.At(i, j)

			photosynthesis := photosynthesisYield * P * dtDays
			respiration := (respirationPhyto*P + respirationZoo*Z + respirationDetritus*D) * B * dtDays
			reaeration := reaerationRate * (Saturation(T) - DO) * dtDays

			s.oxygen.Set(i, j, DO+photosynthesis-respiration+reaeration)
		}
	}
}

// Saturation returns the temperature-dependent dissolved oxygen saturation
// ceiling in mg/L, limited to [4, 16].
func Saturation(temperature float64) float64 {
	sat := 14.6 - 0.41*(temperature-10.0)
	if sat < 4 {
		return 4
	}
	if sat > 16 {
		return 16
	}
	return sat
}
