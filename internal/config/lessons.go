package config

// LessonAction is one scripted step in a lesson: reset the simulation,
// perturb it, or advance it.
type LessonAction struct {
	Type string `yaml:"type" json:"type"` // reset, inject, heatwave, remediate, step

	// inject
	Nutrient  float64 `yaml:"nutrient,omitempty" json:"nutrient,omitempty"`
	Pollutant float64 `yaml:"pollutant,omitempty" json:"pollutant,omitempty"`

	// heatwave
	Activate  bool    `yaml:"activate,omitempty" json:"activate,omitempty"`
	Intensity float64 `yaml:"intensity,omitempty" json:"intensity,omitempty"`

	// remediate
	X            int     `yaml:"x,omitempty" json:"x,omitempty"`
	Y            int     `yaml:"y,omitempty" json:"y,omitempty"`
	Radius       int     `yaml:"radius,omitempty" json:"radius,omitempty"`
	Intervention string  `yaml:"intervention,omitempty" json:"intervention,omitempty"`
	Effort       float64 `yaml:"effort,omitempty" json:"effort,omitempty"`

	// step
	Steps int `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// Lesson is a named, ordered action script bound to an environment profile.
type Lesson struct {
	ID          string         `yaml:"id" json:"id"`
	Profile     string         `yaml:"profile" json:"profile"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Actions     []LessonAction `yaml:"actions" json:"actions"`
}

var Lessons = []*Lesson{
	{
		ID:          "lake_bloom_then_hypoxia",
		Profile:     "urban_lake",
		Name:        "Bloom then Hypoxia",
		Description: "Add nutrients, then observe bloom growth and DO decline from respiration and BOD.",
		Actions: []LessonAction{
			{Type: "reset"},
			{Type: "inject", Nutrient: 12.0},
			{Type: "step", Steps: 20},
		},
	},
	{
		ID:          "lake_bod_shock",
		Profile:     "urban_lake",
		Name:        "BOD Shock",
		Description: "Introduce a pollutant pulse and watch DO crash dynamics.",
		Actions: []LessonAction{
			{Type: "reset"},
			{Type: "inject", Pollutant: 4.0},
			{Type: "step", Steps: 15},
		},
	},
	{
		ID:          "estuary_heatwave",
		Profile:     "coastal_estuary",
		Name:        "Marine Heatwave",
		Description: "Activate a heatwave and observe temperature-driven DO saturation stress.",
		Actions: []LessonAction{
			{Type: "reset"},
			{Type: "heatwave", Activate: true, Intensity: 3.5},
			{Type: "step", Steps: 20},
		},
	},
	{
		ID:          "estuary_compound_stress",
		Profile:     "coastal_estuary",
		Name:        "Compound Stress: Heatwave and Spill",
		Description: "Combine a heatwave with a BOD pulse and observe compounding DO stress.",
		Actions: []LessonAction{
			{Type: "reset"},
			{Type: "heatwave", Activate: true, Intensity: 4.0},
			{Type: "inject", Pollutant: 2.5},
			{Type: "step", Steps: 20},
		},
	},
	{
		ID:          "lake_chronic_loading",
		Profile:     "urban_lake",
		Name:        "Chronic Nutrient Loading",
		Description: "Repeated small nutrient inputs accumulate into bloom risk over time.",
		Actions: []LessonAction{
			{Type: "reset"},
			{Type: "inject", Nutrient: 4.0},
			{Type: "step", Steps: 6},
			{Type: "inject", Nutrient: 4.0},
			{Type: "step", Steps: 6},
			{Type: "inject", Nutrient: 4.0},
			{Type: "step", Steps: 10},
		},
	},
	{
		ID:          "lake_aeration_remediation",
		Profile:     "urban_lake",
		Name:        "Aeration Remediation",
		Description: "Create stress, deploy aeration, and compare recovery behavior.",
		Actions: []LessonAction{
			{Type: "reset"},
			{Type: "inject", Pollutant: 3.0},
			{Type: "step", Steps: 6},
			{Type: "remediate", X: 50, Y: 50, Radius: 12, Intervention: "aeration", Effort: 1.0},
			{Type: "step", Steps: 12},
		},
	},
	{
		ID:          "river_nutrient_pulse",
		Profile:     "cold_river",
		Name:        "River Nutrient Pulse",
		Description: "Single nutrient pulse in a cold reach to contrast bloom dynamics with lakes.",
		Actions: []LessonAction{
			{Type: "reset"},
			{Type: "inject", Nutrient: 8.0},
			{Type: "step", Steps: 12},
		},
	},
}

// GetLesson returns the lesson with the given ID, or nil when unknown.
func GetLesson(id string) *Lesson {
	for _, l := range Lessons {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// ListLessons returns all lessons, filtered by profile when profile is
// non-empty.
func ListLessons(profile string) []*Lesson {
	if profile == "" {
		return Lessons
	}
	out := make([]*Lesson, 0)
	for _, l := range Lessons {
		if l.Profile == profile {
			out = append(out, l)
		}
	}
	return out
}
