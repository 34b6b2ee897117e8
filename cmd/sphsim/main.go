package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/sphsim/internal/analysis"
	"github.com/san-kum/sphsim/internal/automation"
	"github.com/san-kum/sphsim/internal/compute"
	"github.com/san-kum/sphsim/internal/config"
	"github.com/san-kum/sphsim/internal/control"
	"github.com/san-kum/sphsim/internal/export"
	"github.com/san-kum/sphsim/internal/gui"
	"github.com/san-kum/sphsim/internal/metrics"
	"github.com/san-kum/sphsim/internal/optim"
	"github.com/san-kum/sphsim/internal/sim"
	"github.com/san-kum/sphsim/internal/sph"
	"github.com/san-kum/sphsim/internal/storage"
	"github.com/san-kum/sphsim/internal/stream"
	"github.com/san-kum/sphsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	steps      int
	workers    int
	wallLeft   float64
	controller string
	overrides  []string
	outFile    string
	// export-svg
	scale   float64
	braille bool
	// serve
	addr string
	fps  int
	// bench
	benchSteps int
	// sweep and montecarlo
	batchPreset  string
	batchSteps   int
	batchWorkers int
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepPoints  int
	trials       int
	perturb      float64
	seed         int64
	// tune
	tuneGrid   []string
	tuneMetric string
)

// main registers the sphsim commands. With no subcommand it opens the
// terminal preset picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "sphsim",
		Short: "2D smoothed particle hydrodynamics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".sphsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "sloshing frequency and final fluid profile",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the final particles of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().Float64Var(&scale, "scale", 400, "pixels per world unit")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render through the terminal canvas")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return viz.Run(cfg)
		},
	}
	addConfigFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in a window; P pauses, drag to move the wall",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg)
		},
	}
	addConfigFlags(guiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "stream frames over a websocket",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	addConfigFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", stream.DefaultOptions().Addr, "listen address")
	serveCmd.Flags().IntVar(&fps, "fps", 30, "frames per second sent to clients")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the solver",
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchSteps, "steps", 200, "steps per measurement")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter across a range",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&batchPreset, "preset", "small", "preset to sweep")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "stiffness", "parameter name")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 500, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 4000, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 5, "number of values")
	sweepCmd.Flags().IntVar(&batchSteps, "steps", 0, "steps per run (0 keeps the preset)")
	sweepCmd.Flags().IntVar(&batchWorkers, "workers", compute.DefaultWorkers(), "concurrent runs")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "jitter the initial lattice and count contained runs",
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().StringVar(&batchPreset, "preset", "small", "preset")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.002, "max jitter per axis")
	monteCarloCmd.Flags().IntVar(&batchSteps, "steps", 0, "steps per run (0 keeps the preset)")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")

	tuneCmd := &cobra.Command{
		Use:     "tune",
		Short:   "grid search parameters for the lowest metric",
		Example: "  sphsim tune --preset piston --grid stiffness=1000:3000:3 --grid viscosity=20:80:4 --metric compression",
		RunE:    runTune,
	}
	tuneCmd.Flags().StringVar(&batchPreset, "preset", "small", "preset")
	tuneCmd.Flags().StringArrayVar(&tuneGrid, "grid", nil, "parameter range as name=lo:hi:n")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "compression", "metric to minimise")
	tuneCmd.Flags().IntVar(&batchSteps, "steps", 0, "steps per run (0 keeps the preset)")

	configCmd := &cobra.Command{
		Use:   "config [file]",
		Short: "write a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	addConfigFlags(configCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportSVGCmd, presetsCmd,
		liveCmd, guiCmd, serveCmd, benchCmd, scenarioCmd, sweepCmd, monteCarloCmd, tuneCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "dam_break", "preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml), overrides --preset")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().IntVar(&workers, "workers", 1, "goroutines per solver stage")
	cmd.Flags().Float64Var(&wallLeft, "wall-left", 0, "initial left wall position")
	cmd.Flags().StringVar(&controller, "controller", "hold", "wall controller: "+strings.Join(control.Kinds(), ", "))
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter, e.g. --set viscosity=80")
}

// loadConfig resolves preset, config file and explicitly set flags, in
// that order of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("wall-left") {
		cfg.Wall.Left = wallLeft
	}
	if flags.Changed("controller") {
		cfg.Wall.Kind = controller
	}
	for _, kv := range overrides {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("bad --set %q, want name=value", kv)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("bad --set %q: %w", kv, err)
		}
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func controllerName(cfg *config.Config) string {
	if cfg.Wall.Kind == "" {
		return "hold"
	}
	return cfg.Wall.Kind
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n := cfg.Params.ParticlesPerSide * cfg.Params.ParticlesPerSide
	fmt.Printf("running %s: %d particles, %d steps of %gs...\n", cfg.Name, n, cfg.Steps, cfg.Dt)
	start := time.Now()

	result, runErr := automation.RunConfig(ctx, cfg)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunInfo{
		Name:       cfg.Name,
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		Controller: controllerName(cfg),
		Params:     cfg.SolverParams(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printMetrics(result.Metrics)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	return runErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPARTICLES\tSTEPS\tDT\tCTRL")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%gs\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.StepsTaken,
			run.Dt,
			run.Controller,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(series))

	result := &sim.Result{Samples: series}
	plots := []struct {
		caption string
		column  func(sim.Sample) float64
	}{
		{"kinetic energy", func(s sim.Sample) float64 { return s.KineticEnergy }},
		{"max pressure", func(s sim.Sample) float64 { return s.MaxPressure }},
		{"mean density", func(s sim.Sample) float64 { return s.MeanDensity }},
		{"wall position", func(s sim.Sample) float64 { return s.WallLeft }},
	}
	for _, p := range plots {
		graph := asciigraph.Plot(result.Column(p.column),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) < 4 {
		return fmt.Errorf("need at least 4 samples, have %d", len(series))
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	ke := (&sim.Result{Samples: series}).Column(func(s sim.Sample) float64 { return s.KineticEnergy })
	sampleDt := series[1].Time - series[0].Time

	ps := analysis.PowerSpectrum(ke)
	if len(ps) > 2 {
		graph := asciigraph.Plot(ps[1:],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (kinetic energy)"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	freq, mag := analysis.DominantFrequency(ke, sampleDt)
	fmt.Printf("dominant frequency: %.3f hz (power %.4g)\n", freq, mag)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	particles, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	if len(particles) == 0 {
		return nil
	}
	fmt.Printf("\nfront position: %.3f\n", analysis.FrontPosition(particles))
	c := metrics.Centroid(particles)
	fmt.Printf("centroid: (%.3f, %.3f)\n", c.X, c.Y)
	fmt.Println("height profile:")
	fmt.Println(viz.Sparkline(toFloats(analysis.HeightProfile(particles, meta.Params.Height, 40)), 40))
	return nil
}

func toFloats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	particles, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	w := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return export.WriteJSON(w, meta, series, particles)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	particles, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	wall := 0.0
	if n := len(series); n > 0 {
		wall = series[n-1].WallLeft
	}

	var svg string
	if braille {
		svg = export.CanvasToSVG(brailleCanvas(particles, meta.Params), scale/100)
	} else {
		svg = export.ParticlesToSVG(particles, meta.Params, wall, scale, 0)
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func brailleCanvas(ps []sph.Particle, p sph.Params) *viz.Canvas {
	c := viz.NewCanvas(80, 24)
	view := viz.NewViewport(p.Width, p.Height, c)
	for _, q := range ps {
		c.Set(view.ToDot(q.Position))
	}
	return c
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tSTEPS\tDT\tCTRL\tVISCOSITY")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		n := cfg.Params.ParticlesPerSide
		fmt.Fprintf(w, "%s\t%d\t%d\t%g\t%s\t%g\n", name, n*n, cfg.Steps, cfg.Dt, controllerName(cfg), cfg.Params.Viscosity)
	}
	return w.Flush()
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	solver, err := cfg.NewSolver()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := stream.DefaultOptions()
	opts.Addr = addr
	if fps > 0 {
		opts.FrameInterval = time.Second / time.Duration(fps)
	}
	return stream.ListenAndServe(ctx, sim.NewDriver(solver, cfg.Dt), opts)
}

func bench(cmd *cobra.Command, args []string) error {
	sides := []int{10, 20, 30}
	workerCounts := []int{1, compute.DefaultWorkers()}

	fmt.Printf("benchmarking %d steps per run\n\n", benchSteps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tWORKERS\tTIME\tSTEPS/SEC\tPARTICLE-STEPS/SEC")

	for _, side := range sides {
		for _, nw := range workerCounts {
			p := sph.DefaultParams()
			p.ParticlesPerSide = side
			p.Workers = nw
			s, err := sph.New(p)
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < benchSteps; i++ {
				s.Step(config.DefaultDt)
			}
			elapsed := time.Since(start)

			stepsPerSec := float64(benchSteps) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.0f\n",
				s.Len(), nw, elapsed.Round(time.Millisecond), stepsPerSec, stepsPerSec*float64(s.Len()))
		}
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outputs, err := automation.RunScenario(ctx, sc, os.Stdout)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nRUN\tSTEPS\tMAX SPEED\tCONTAINMENT\tSAVED")
	for _, out := range outputs {
		saved := "-"
		if out.SaveAs != "" {
			id, err := st.Save(storage.RunInfo{
				Name:       out.SaveAs,
				Dt:         out.Config.Dt,
				Steps:      out.Config.Steps,
				Controller: controllerName(out.Config),
				Params:     out.Config.SolverParams(),
			}, out.Result)
			if err != nil {
				return err
			}
			saved = id
		}
		fmt.Fprintf(w, "%s\t%d\t%.3f\t%.3f\t%s\n",
			out.Name, out.Result.StepsTaken, out.Result.Metrics["max_speed"], out.Result.Metrics["containment"], saved)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("sweeping %s over [%g, %g] in %d points on %s\n\n", sweepParam, sweepMin, sweepMax, sweepPoints, batchPreset)
	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Preset:    batchPreset,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepPoints,
		Steps:     batchSteps,
		Workers:   batchWorkers,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMAX P\tMAX SPEED\tCOMPRESSION\tCONTAINMENT\tFINAL KE\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%g\t%.1f\t%.3f\t%.4f\t%.3f\t%.5f\n",
			r.ParamValue, r.MaxPressure, r.MaxSpeed, r.Compression, r.Containment, r.FinalKE)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Preset:       batchPreset,
		Perturbation: perturb,
		NumTrials:    trials,
		Steps:        batchSteps,
		Seed:         seed,
	}, os.Stdout)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\n%d trials: %d contained, %d escaped or diverged\n", len(results), stable, unstable)
	fmt.Printf("contained: %s %.0f%%\n", viz.ProgressBar(float64(stable)/float64(max(len(results), 1)), 30), 100*float64(stable)/float64(max(len(results), 1)))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	if len(tuneGrid) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	base := config.GetPreset(batchPreset)
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", batchPreset, config.ListPresets())
	}
	if batchSteps > 0 {
		base.Steps = batchSteps
	}

	names := make([]string, len(tuneGrid))
	ranges := make([][]float64, len(tuneGrid))
	for i, spec := range tuneGrid {
		name, values, err := parseGrid(spec)
		if err != nil {
			return err
		}
		names[i], ranges[i] = name, values
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch(names, ranges)
	fmt.Printf("searching %d points on %s for the lowest %s\n", gs.Points(), batchPreset, tuneMetric)
	best, val, err := gs.Search(ctx, base, tuneMetric)
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6f\n", tuneMetric, val)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}

// parseGrid reads name=lo:hi:n.
func parseGrid(spec string) (string, []float64, error) {
	name, rng, ok := strings.Cut(spec, "=")
	parts := strings.Split(rng, ":")
	if !ok || len(parts) != 3 {
		return "", nil, fmt.Errorf("bad --grid %q, want name=lo:hi:n", spec)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	n, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || n < 1 {
		return "", nil, fmt.Errorf("bad --grid %q, want name=lo:hi:n", spec)
	}
	return name, optim.Linspace(lo, hi, n), nil
}
