// Package metrics provides run-level observers that reduce per-tick
// snapshots to single summary values.
package metrics

import (
	"github.com/hydroeco/hydrosim/internal/regulatory"
	"github.com/hydroeco/hydrosim/internal/sim"
)

// TracerMean averages one tracer's domain mean over the run.
type TracerMean struct {
	name    string
	tracer  string
	total   float64
	samples int
}

func NewTracerMean(tracer string) *TracerMean {
	return &TracerMean{
		name:   "mean_" + tracer,
		tracer: tracer,
	}
}

func (m *TracerMean) Name() string { return m.name }

func (m *TracerMean) Observe(snap sim.Snapshot, t float64) {
	m.total += snap.Means[m.tracer]
	m.samples++
}

func (m *TracerMean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *TracerMean) Reset() {
	m.total = 0
	m.samples = 0
}

// HypoxicExposure integrates the hypoxic area fraction over simulated time,
// yielding hypoxia-weighted seconds.
type HypoxicExposure struct {
	name     string
	exposure float64
	lastT    float64
	samples  int
}

func NewHypoxicExposure() *HypoxicExposure {
	return &HypoxicExposure{name: "hypoxic_exposure"}
}

func (m *HypoxicExposure) Name() string { return m.name }

func (m *HypoxicExposure) Observe(snap sim.Snapshot, t float64) {
	if m.samples > 0 {
		m.exposure += snap.HypoxicFraction * (t - m.lastT)
	}
	m.lastT = t
	m.samples++
}

func (m *HypoxicExposure) Value() float64 {
	return m.exposure
}

func (m *HypoxicExposure) Reset() {
	m.exposure = 0
	m.lastT = 0
	m.samples = 0
}

// ComplianceRate reports the fraction of ticks spent in attainment.
type ComplianceRate struct {
	name      string
	attaining int
	samples   int
}

func NewComplianceRate() *ComplianceRate {
	return &ComplianceRate{name: "compliance_rate"}
}

func (m *ComplianceRate) Name() string { return m.name }

func (m *ComplianceRate) Observe(snap sim.Snapshot, t float64) {
	m.samples++
	if snap.Status == regulatory.StatusAttaining {
		m.attaining++
	}
}

func (m *ComplianceRate) Value() float64 {
	if m.samples == 0 {
		return 1.0
	}
	return float64(m.attaining) / float64(m.samples)
}

func (m *ComplianceRate) Reset() {
	m.attaining = 0
	m.samples = 0
}

// NPZDDrift tracks the change of the combined nutrient, phytoplankton,
// zooplankton, and detritus mean pool since the first observed tick. The
// kinetics leak only the unassimilated grazing fraction, so large magnitudes
// point at transport or injection effects.
type NPZDDrift struct {
	name    string
	initial float64
	current float64
	samples int
}

func NewNPZDDrift() *NPZDDrift {
	return &NPZDDrift{name: "npzd_drift"}
}

func (m *NPZDDrift) Name() string { return m.name }

func (m *NPZDDrift) Observe(snap sim.Snapshot, t float64) {
	pool := snap.Means["nutrient"] + snap.Means["phytoplankton"] +
		snap.Means["zooplankton"] + snap.Means["detritus"]
	if m.samples == 0 {
		m.initial = pool
	}
	m.current = pool
	m.samples++
}

func (m *NPZDDrift) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.current - m.initial
}

func (m *NPZDDrift) Reset() {
	m.initial = 0
	m.current = 0
	m.samples = 0
}

// BloomPeak tracks the maximum phytoplankton mean seen during the run.
type BloomPeak struct {
	name string
	peak float64
}

func NewBloomPeak() *BloomPeak {
	return &BloomPeak{name: "bloom_peak"}
}

func (m *BloomPeak) Name() string { return m.name }

func (m *BloomPeak) Observe(snap sim.Snapshot, t float64) {
	if p := snap.Means["phytoplankton"]; p > m.peak {
		m.peak = p
	}
}

func (m *BloomPeak) Value() float64 {
	return m.peak
}

func (m *BloomPeak) Reset() {
	m.peak = 0
}
