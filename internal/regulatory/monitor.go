// Package regulatory assesses water quality against numeric criteria in the
// style of a state standards program: per-parameter violation tracking,
// consecutive-exceedance impairment listing, and TMDL load targets.
package regulatory

import (
	"fmt"

	"github.com/hydroeco/hydrosim/internal/biogeo"
)

// Attainment categories, worst first.
const (
	StatusSevere    = "severely_impaired"
	StatusImpaired  = "impaired"
	StatusAttaining = "attaining"
)

// Dissolved oxygen criteria, mg/L.
const (
	doColdWaterMin = 6.0
	doWarmWaterMin = 5.0
	doSurvivalMin  = 3.0
)

// Nutrient criteria, umol/L.
const (
	nutrientEutrophic      = 50.0
	nutrientHypereutrophic = 100.0
)

// pH range.
const (
	phMin = 6.5
	phMax = 8.5
)

// Temperature maxima, degrees C.
const (
	tempColdWaterMax = 20.0
	tempWarmWaterMax = 28.0
	tempCriticalMax  = 32.0
)

// BOD tiers, mg/L.
const (
	bodGoodMax = 1.0
	bodFairMax = 3.0
	bodPoorMax = 5.0
)

// Total maximum daily load targets, as domain means.
const (
	tmdlNutrient = 30.0
	tmdlBOD      = 2.0
)

const (
	severeStreak   = 10 // consecutive assessments before severe listing
	impairedStreak = 5
	maxViolations  = 100
)

// Violation is one recorded criteria exceedance.
type Violation struct {
	Tick      int     `json:"tick"`
	Parameter string  `json:"parameter"`
	Observed  float64 `json:"observed"`
	Limit     float64 `json:"limit"`
	Severity  string  `json:"severity"` // warning, violation, critical
	Detail    string  `json:"detail"`
}

// Report is the outcome of one assessment pass.
type Report struct {
	Tick       int             `json:"tick"`
	Status     string          `json:"status"`
	Violations []Violation     `json:"violations"`
	TMDL       map[string]bool `json:"tmdl_attainment"`
	Streaks    map[string]int  `json:"violation_streaks"`
	Impaired   []string        `json:"impaired_parameters"`
}

// Monitor evaluates chemistry snapshots against the criteria for one
// waterbody class and remembers violation history across assessments.
type Monitor struct {
	coldWater bool
	tick      int
	streaks   map[string]int
	history   []Violation
}

// NewMonitor creates a monitor for the given waterbody class. Cold-water
// fisheries get the stricter oxygen and temperature criteria.
func NewMonitor(waterbodyType string) *Monitor {
	return &Monitor{
		coldWater: waterbodyType == "cold_water_fishery",
		streaks:   make(map[string]int),
	}
}

// Assess evaluates the current chemistry means and returns a report. Each
// call advances the assessment tick.
func (m *Monitor) Assess(chem *biogeo.Solver) Report {
	m.tick++
	means := chem.Means()

	var found []Violation
	found = append(found, m.checkOxygen(means["dissolved_oxygen"])...)
	found = append(found, m.checkNutrient(means["nutrient"])...)
	found = append(found, m.checkPH(means["ph"])...)
	found = append(found, m.checkTemperature(means["temperature"])...)
	found = append(found, m.checkBOD(means["bod"])...)

	violated := make(map[string]bool)
	for i := range found {
		found[i].Tick = m.tick
		violated[found[i].Parameter] = true
	}
	for _, p := range []string{"dissolved_oxygen", "nutrient", "ph", "temperature", "bod"} {
		if violated[p] {
			m.streaks[p]++
		} else {
			m.streaks[p] = 0
		}
	}

	m.history = append(m.history, found...)
	if len(m.history) > maxViolations {
		m.history = m.history[len(m.history)-maxViolations:]
	}

	return Report{
		Tick:       m.tick,
		Status:     m.status(),
		Violations: found,
		TMDL: map[string]bool{
			"nutrient": means["nutrient"] <= tmdlNutrient,
			"bod":      means["bod"] <= tmdlBOD,
		},
		Streaks:  m.copyStreaks(),
		Impaired: m.impaired(),
	}
}

func (m *Monitor) checkOxygen(do float64) []Violation {
	min := doWarmWaterMin
	if m.coldWater {
		min = doColdWaterMin
	}
	switch {
	case do < doSurvivalMin:
		return []Violation{{
			Parameter: "dissolved_oxygen", Observed: do, Limit: doSurvivalMin,
			Severity: "critical",
			Detail:   fmt.Sprintf("DO %.2f mg/L below acute survival minimum %.1f", do, doSurvivalMin),
		}}
	case do < min:
		return []Violation{{
			Parameter: "dissolved_oxygen", Observed: do, Limit: min,
			Severity: "violation",
			Detail:   fmt.Sprintf("DO %.2f mg/L below designated-use minimum %.1f", do, min),
		}}
	}
	return nil
}

func (m *Monitor) checkNutrient(n float64) []Violation {
	switch {
	case n > nutrientHypereutrophic:
		return []Violation{{
			Parameter: "nutrient", Observed: n, Limit: nutrientHypereutrophic,
			Severity: "critical",
			Detail:   fmt.Sprintf("nutrients %.1f umol/L indicate hypereutrophic conditions", n),
		}}
	case n > nutrientEutrophic:
		return []Violation{{
			Parameter: "nutrient", Observed: n, Limit: nutrientEutrophic,
			Severity: "violation",
			Detail:   fmt.Sprintf("nutrients %.1f umol/L exceed eutrophication threshold", n),
		}}
	}
	return nil
}

func (m *Monitor) checkPH(ph float64) []Violation {
	if ph < phMin {
		return []Violation{{
			Parameter: "ph", Observed: ph, Limit: phMin,
			Severity: "violation",
			Detail:   fmt.Sprintf("pH %.2f below protective range %.1f-%.1f", ph, phMin, phMax),
		}}
	}
	if ph > phMax {
		return []Violation{{
			Parameter: "ph", Observed: ph, Limit: phMax,
			Severity: "violation",
			Detail:   fmt.Sprintf("pH %.2f above protective range %.1f-%.1f", ph, phMin, phMax),
		}}
	}
	return nil
}

func (m *Monitor) checkTemperature(temp float64) []Violation {
	max := tempWarmWaterMax
	if m.coldWater {
		max = tempColdWaterMax
	}
	switch {
	case temp > tempCriticalMax:
		return []Violation{{
			Parameter: "temperature", Observed: temp, Limit: tempCriticalMax,
			Severity: "critical",
			Detail:   fmt.Sprintf("temperature %.1f C above lethal threshold %.1f", temp, tempCriticalMax),
		}}
	case temp > max:
		return []Violation{{
			Parameter: "temperature", Observed: temp, Limit: max,
			Severity: "violation",
			Detail:   fmt.Sprintf("temperature %.1f C above designated-use maximum %.1f", temp, max),
		}}
	}
	return nil
}

func (m *Monitor) checkBOD(bod float64) []Violation {
	switch {
	case bod > bodPoorMax:
		return []Violation{{
			Parameter: "bod", Observed: bod, Limit: bodPoorMax,
			Severity: "critical",
			Detail:   fmt.Sprintf("BOD %.2f mg/L indicates gross organic pollution", bod),
		}}
	case bod > bodFairMax:
		return []Violation{{
			Parameter: "bod", Observed: bod, Limit: bodFairMax,
			Severity: "violation",
			Detail:   fmt.Sprintf("BOD %.2f mg/L exceeds fair-condition ceiling", bod),
		}}
	case bod > bodGoodMax:
		return []Violation{{
			Parameter: "bod", Observed: bod, Limit: bodGoodMax,
			Severity: "warning",
			Detail:   fmt.Sprintf("BOD %.2f mg/L above reference condition", bod),
		}}
	}
	return nil
}

// status derives the attainment category from the worst current streak.
func (m *Monitor) status() string {
	worst := 0
	for _, s := range m.streaks {
		if s > worst {
			worst = s
		}
	}
	switch {
	case worst > severeStreak:
		return StatusSevere
	case worst > impairedStreak:
		return StatusImpaired
	default:
		return StatusAttaining
	}
}

// impaired lists parameters whose streak has crossed the impairment bar.
func (m *Monitor) impaired() []string {
	out := make([]string, 0)
	for _, p := range []string{"dissolved_oxygen", "nutrient", "ph", "temperature", "bod"} {
		if m.streaks[p] > impairedStreak {
			out = append(out, p)
		}
	}
	return out
}

func (m *Monitor) copyStreaks() map[string]int {
	out := make(map[string]int, len(m.streaks))
	for k, v := range m.streaks {
		out[k] = v
	}
	return out
}

// History returns the retained violation log, most recent last.
func (m *Monitor) History() []Violation {
	return m.history
}
