package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hydroeco/hydrosim/internal/biogeo"
	"github.com/hydroeco/hydrosim/internal/config"
	"github.com/hydroeco/hydrosim/internal/metrics"
	"github.com/hydroeco/hydrosim/internal/server"
	"github.com/hydroeco/hydrosim/internal/sim"
	"github.com/hydroeco/hydrosim/internal/store"
	"github.com/hydroeco/hydrosim/internal/tui"
)

var (
	dataDir    string
	profileID  string
	lessonID   string
	dt         float64
	steps      int
	tracer     string
	configFile string
	addr       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hydrosim",
		Short: "coupled water-body circulation and quality simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hydrosim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&profileID, "profile", "urban_lake", "environment profile")
	runCmd.Flags().StringVar(&lessonID, "lesson", "", "lesson script to replay instead of free running")
	runCmd.Flags().Float64Var(&dt, "dt", 0.1, "tick length, seconds")
	runCmd.Flags().IntVar(&steps, "steps", 100, "number of ticks")
	runCmd.Flags().StringVar(&tracer, "tracer", "dissolved_oxygen", "tracer tracked by the run metrics")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with the live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&profileID, "profile", "urban_lake", "environment profile")
	liveCmd.Flags().Float64Var(&dt, "dt", 0.1, "tick length, seconds")
	liveCmd.Flags().StringVar(&tracer, "tracer", "dissolved_oxygen", "tracer shown on the heatmap")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "expose a simulation over the JSON HTTP API",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&profileID, "profile", "urban_lake", "environment profile")
	serveCmd.Flags().Float64Var(&dt, "dt", 0.1, "default tick length, seconds")
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "list environment profiles",
		RunE:  listProfiles,
	}

	lessonsCmd := &cobra.Command{
		Use:   "lessons",
		Short: "list lesson scripts",
		RunE:  listLessons,
	}
	lessonsCmd.Flags().StringVar(&profileID, "profile", "", "filter by profile")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run's tracer series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&tracer, "tracer", "dissolved_oxygen", "tracer column to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's tracer series to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, profilesCmd, lessonsCmd, listCmd, plotCmd, exportCmd, exportCSVCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("profile") {
			profileID = cfg.Profile
		}
		if !cmd.Flags().Changed("lesson") {
			lessonID = cfg.Lesson
		}
		if !cmd.Flags().Changed("dt") {
			dt = cfg.Dt
		}
		if !cmd.Flags().Changed("steps") {
			steps = cfg.Steps
		}
		if !cmd.Flags().Changed("tracer") {
			tracer = cfg.Tracer
		}
	}

	if lessonID != "" {
		lesson := config.GetLesson(lessonID)
		if lesson == nil {
			return fmt.Errorf("unknown lesson: %s", lessonID)
		}
		profileID = lesson.Profile
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	profile := config.GetProfile(profileID)
	if profile == nil {
		return fmt.Errorf("unknown profile: %s", profileID)
	}
	if cfg != nil {
		profile = cfg.ApplyOverrides(profile)
	}

	simulation, err := sim.NewFromProfile(profile)
	if err != nil {
		return err
	}

	runMetrics := []sim.Metric{
		metrics.NewTracerMean(tracer),
		metrics.NewBloomPeak(),
		metrics.NewHypoxicExposure(),
		metrics.NewComplianceRate(),
		metrics.NewNPZDDrift(),
	}
	for _, m := range runMetrics {
		simulation.AddMetric(m)
	}

	fmt.Printf("running %s", profileID)
	if lessonID != "" {
		fmt.Printf(" lesson %s", lessonID)
	}
	fmt.Println("...")
	start := time.Now()

	var result *sim.Result
	if lessonID != "" {
		snaps, err := simulation.RunLesson(context.Background(), config.GetLesson(lessonID), dt)
		if err != nil {
			return err
		}
		result = &sim.Result{
			Snapshots:  snaps,
			Metrics:    make(map[string]float64),
			StepsTaken: len(snaps),
		}
		for _, m := range runMetrics {
			result.Metrics[m.Name()] = m.Value()
		}
	} else {
		result, err = simulation.Run(context.Background(), steps, dt)
		if err != nil {
			return err
		}
	}

	elapsed := time.Since(start)

	runID, err := st.Save(profileID, lessonID, dt, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	final := simulation.Status()
	fmt.Printf("\ncompliance: %s\n", final.Status)
	fmt.Printf("ecosystem: %s\n", final.Ecosystem)

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	simulation, err := sim.New(profileID)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(simulation, dt, tracer))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	simulation, err := sim.New(profileID)
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	srv := server.New(simulation, dt, log)
	log.WithFields(logrus.Fields{
		"addr":    addr,
		"profile": profileID,
	}).Info("serving")

	return http.ListenAndServe(addr, srv.Handler())
}

func listProfiles(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tWATERBODY\tGRID\tDEPTH")
	for _, id := range config.ListProfiles() {
		p := config.GetProfile(id)
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%.1fm\n",
			p.ID, p.Name, p.WaterbodyType, p.GridNx, p.GridNy, p.MeanDepth)
	}
	return w.Flush()
}

func listLessons(cmd *cobra.Command, args []string) error {
	lessons := config.ListLessons(profileID)
	if len(lessons) == 0 {
		fmt.Println("no lessons found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROFILE\tNAME\tACTIONS")
	for _, l := range lessons {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", l.ID, l.Profile, l.Name, len(l.Actions))
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROFILE\tLESSON\tTIME\tSTEPS\tDT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.3fs\n",
			run.ID,
			run.Profile,
			run.Lesson,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Dt,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	data := series.Column(tracer)
	if len(data) == 0 {
		return fmt.Errorf("no %s data in run %s (tracers: %v)", tracer, runID, biogeo.TracerNames)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("profile: %s\n", meta.Profile)
	fmt.Printf("samples: %d\n\n", len(data))

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("mean %s vs tick", tracer)),
	)
	fmt.Println(graph)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(series.Headers); err != nil {
		return err
	}
	for _, row := range series.Rows {
		record := make([]string, len(row))
		for i, val := range row {
			record[i] = strconv.FormatFloat(val, 'f', 6, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}
