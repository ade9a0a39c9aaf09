package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hydroeco/hydrosim/internal/biogeo"
	"github.com/hydroeco/hydrosim/internal/config"
	"github.com/hydroeco/hydrosim/internal/sim"
)

// Half-hour ticks keep multi-day scenarios cheap on the coarse pond grid
// while staying inside the explicit diffusion stability bound at dx=20m.
const tickSeconds = 1800.0

const ticksPerDay = 48

func registerScenarioProfiles() {
	config.Profiles["scenario_pond"] = &config.Profile{
		ID:            "scenario_pond",
		Name:          "Scenario Pond",
		GridNx:        10,
		GridNy:        10,
		DomainLx:      200.0,
		DomainLy:      200.0,
		WaterbodyType: "warm_water_fishery",
		MeanDepth:     5.0,
		EddyViscosity: 0.01,
		Kinetics:      config.DefaultKinetics(),
	}
	config.Profiles["scenario_sterile"] = &config.Profile{
		ID:            "scenario_sterile",
		Name:          "Sterile Scenario Pond",
		GridNx:        10,
		GridNy:        10,
		DomainLx:      200.0,
		DomainLy:      200.0,
		WaterbodyType: "warm_water_fishery",
		MeanDepth:     5.0,
		EddyViscosity: 0.01,
		Baseline: map[string]float64{
			"phytoplankton":    0.0,
			"zooplankton":      0.0,
			"detritus":         0.0,
			"dissolved_oxygen": 4.0,
		},
		Kinetics: config.DefaultKinetics(),
	}
}

var _ = BeforeSuite(registerScenarioProfiles)

func newScenarioSim(profile string) *sim.Simulation {
	s, err := sim.New(profile)
	Expect(err).NotTo(HaveOccurred())
	return s
}

var _ = Describe("nutrient enrichment", func() {
	It("drives phytoplankton growth that draws the injected nutrients down", func() {
		s := newScenarioSim("scenario_pond")

		s.InjectNutrientCenter(50.0)
		afterInjection := s.Status().Means

		result, err := s.Run(context.Background(), ticksPerDay, tickSeconds)
		Expect(err).NotTo(HaveOccurred())

		final := result.Snapshots[len(result.Snapshots)-1].Means
		Expect(final["phytoplankton"]).To(BeNumerically(">", 1.2*afterInjection["phytoplankton"]))
		Expect(final["nutrient"]).To(BeNumerically("<", afterInjection["nutrient"]))
		Expect(final["zooplankton"]).To(BeNumerically(">", afterInjection["zooplankton"]))
	})
})

var _ = Describe("organic pollution", func() {
	It("depresses oxygen and triggers an impairment listing", func() {
		s := newScenarioSim("scenario_pond")

		s.InjectPollutantCenter(7.0)
		doAfterSpill := s.Status().Means["dissolved_oxygen"]
		Expect(doAfterSpill).To(BeNumerically("<", 5.0))

		result, err := s.Run(context.Background(), 8, tickSeconds)
		Expect(err).NotTo(HaveOccurred())

		last := result.Snapshots[len(result.Snapshots)-1]
		Expect(last.Means["dissolved_oxygen"]).To(BeNumerically("<", doAfterSpill))
		Expect(last.Violations).To(BeNumerically(">=", 1))
		Expect(last.Status).To(Equal("impaired"))
		Expect(s.Compliance().Impaired).To(ContainElement("dissolved_oxygen"))
	})
})

var _ = Describe("marine heatwave", func() {
	It("warms the water by its intensity per day relative to a control run", func() {
		ctx := context.Background()

		heated := newScenarioSim("scenario_pond")
		control := newScenarioSim("scenario_pond")
		heated.ActivateHeatwave(3.5)

		hr, err := heated.Run(ctx, ticksPerDay, tickSeconds)
		Expect(err).NotTo(HaveOccurred())
		cr, err := control.Run(ctx, ticksPerDay, tickSeconds)
		Expect(err).NotTo(HaveOccurred())

		tHeated := hr.Snapshots[ticksPerDay-1].Means["temperature"]
		tControl := cr.Snapshots[ticksPerDay-1].Means["temperature"]
		Expect(tHeated - tControl).To(BeNumerically("~", 3.5, 1e-6))

		// Warmer water holds less oxygen at saturation.
		Expect(biogeo.Saturation(tHeated)).To(BeNumerically("<", biogeo.Saturation(tControl)))
	})
})

var _ = Describe("reaeration", func() {
	It("recovers undersaturated sterile water monotonically without overshoot", func() {
		s := newScenarioSim("scenario_sterile")

		result, err := s.Run(context.Background(), ticksPerDay, tickSeconds)
		Expect(err).NotTo(HaveOccurred())

		prev := 4.0
		for _, snap := range result.Snapshots {
			do := snap.Means["dissolved_oxygen"]
			Expect(do).To(BeNumerically(">", prev))
			Expect(do).To(BeNumerically("<", biogeo.Saturation(snap.Means["temperature"])))
			prev = do
		}
		Expect(prev).To(BeNumerically(">", 4.5))
	})
})

var _ = Describe("lesson replay", func() {
	It("runs the bloom lesson end to end on its own profile", func() {
		s := newScenarioSim("urban_lake")

		lesson := config.GetLesson("lake_bloom_then_hypoxia")
		Expect(lesson).NotTo(BeNil())

		snaps, err := s.RunLesson(context.Background(), lesson, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(snaps).To(HaveLen(20))
		Expect(snaps[0].Means["nutrient"]).To(BeNumerically(">", 35.0))
	})
})
