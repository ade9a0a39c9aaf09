package config

// Kinetics carries the biological rate constants (per day) and transport
// diffusivities (m^2/s) an environment profile prescribes.
type Kinetics struct {
	GrowthRate         float64 `yaml:"growth_rate" json:"growth_rate"`
	GrazingRate        float64 `yaml:"grazing_rate" json:"grazing_rate"`
	MortalityPhyto     float64 `yaml:"mortality_phyto" json:"mortality_phyto"`
	MortalityZoo       float64 `yaml:"mortality_zoo" json:"mortality_zoo"`
	Remineralization   float64 `yaml:"remineralization" json:"remineralization"`
	HalfSaturation     float64 `yaml:"half_saturation" json:"half_saturation"`
	Diffusivity        float64 `yaml:"diffusivity" json:"diffusivity"`
	ThermalDiffusivity float64 `yaml:"thermal_diffusivity" json:"thermal_diffusivity"`
}

// DefaultKinetics matches the standard NPZD parameterization.
func DefaultKinetics() Kinetics {
	return Kinetics{
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

// Profile is a named environment baseline: grid geometry, physics
// parameters, uniform starting chemistry, and the regulatory context. This
// is a screening configuration layer, not site calibration.
type Profile struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`

	GridNx   int     `yaml:"grid_nx" json:"grid_nx"`
	GridNy   int     `yaml:"grid_ny" json:"grid_ny"`
	DomainLx float64 `yaml:"domain_lx" json:"domain_lx"` // meters
	DomainLy float64 `yaml:"domain_ly" json:"domain_ly"`

	WaterbodyType string `yaml:"waterbody_type" json:"waterbody_type"`

	MeanDepth     float64 `yaml:"mean_depth" json:"mean_depth"`         // meters
	EddyViscosity float64 `yaml:"eddy_viscosity" json:"eddy_viscosity"` // m^2/s

	Baseline map[string]float64 `yaml:"baseline" json:"baseline"`
	Kinetics Kinetics           `yaml:"kinetics" json:"kinetics"`
}

var Profiles = map[string]*Profile{
	"urban_lake": {
		ID:            "urban_lake",
		Name:          "Urban Lake",
		Description:   "Warm, nutrient-impacted lake with elevated BOD risk.",
		GridNx:        100,
		GridNy:        100,
		DomainLx:      200.0,
		DomainLy:      200.0,
		WaterbodyType: "warm_water_fishery",
		MeanDepth:     6.0,
		EddyViscosity: 0.02,
		Baseline: map[string]float64{
			"temperature":      24.0,
			"nutrient":         35.0,
			"phytoplankton":    2.5,
			"zooplankton":      0.8,
			"detritus":         0.3,
			"dissolved_oxygen": 7.0,
			"ph":               8.0,
			"bod":              2.5,
		},
		Kinetics: DefaultKinetics(),
	},
	"coastal_estuary": {
		ID:            "coastal_estuary",
		Name:          "Coastal Estuary",
		Description:   "Mixing-dominated nearshore estuary; well-oxygenated but event-sensitive.",
		GridNx:        100,
		GridNy:        100,
		DomainLx:      200.0,
		DomainLy:      200.0,
		WaterbodyType: "estuarine",
		MeanDepth:     12.0,
		EddyViscosity: 0.03,
		Baseline: map[string]float64{
			"temperature":      20.0,
			"nutrient":         15.0,
			"phytoplankton":    1.2,
			"zooplankton":      0.6,
			"detritus":         0.15,
			"dissolved_oxygen": 8.5,
			"ph":               8.1,
			"bod":              1.2,
		},
		Kinetics: DefaultKinetics(),
	},
	"cold_river": {
		ID:            "cold_river",
		Name:          "Cold-Water River Reach",
		Description:   "Cooler, higher-DO reach with stricter DO and temperature expectations.",
		GridNx:        100,
		GridNy:        100,
		DomainLx:      200.0,
		DomainLy:      200.0,
		WaterbodyType: "cold_water_fishery",
		MeanDepth:     3.0,
		EddyViscosity: 0.01,
		Baseline: map[string]float64{
			"temperature":      14.0,
			"nutrient":         8.0,
			"phytoplankton":    0.6,
			"zooplankton":      0.3,
			"detritus":         0.08,
			"dissolved_oxygen": 10.0,
			"ph":               7.6,
			"bod":              0.8,
		},
		Kinetics: DefaultKinetics(),
	},
}

// GetProfile returns the named profile, or nil when unknown.
func GetProfile(id string) *Profile {
	return Profiles[id]
}

// ListProfiles returns the available profile IDs.
func ListProfiles() []string {
	ids := make([]string, 0, len(Profiles))
	for id := range Profiles {
		ids = append(ids, id)
	}
	return ids
}
