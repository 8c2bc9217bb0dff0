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

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/demonsim/internal/analysis"
	"github.com/san-kum/demonsim/internal/automation"
	"github.com/san-kum/demonsim/internal/config"
	"github.com/san-kum/demonsim/internal/control"
	"github.com/san-kum/demonsim/internal/demon"
	"github.com/san-kum/demonsim/internal/experiment"
	"github.com/san-kum/demonsim/internal/export"
	"github.com/san-kum/demonsim/internal/optim"
	"github.com/san-kum/demonsim/internal/storage"
	"github.com/san-kum/demonsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	scenario   string
	seed       int64
	dt         float64
	duration   float64
	sample     int
	timeLimit  float64
	// Play loop
	frameRate int
	substeps  int
	theme     string
	// Bench
	benchRuns     int
	benchParallel int
	// Export
	outFile string
	// Demon autopilot, consulted every n steps when n > 0
	autopilot int
	// Speed histogram bins printed after a run
	histBins int
	// Sweep
	sweepParams []string
	sweepMetric string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "demonsim",
	})
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "demonsim",
		Short: "maxwell's demon collision sandbox",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
		// Default to the game when no command is given
		RunE: playGame,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".demonsim", "data directory")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&scenario, "scenario", "demon", "scenario (demon, gas, headon)")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "timestep")

	addPlayFlags(rootCmd)

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play the demon game in the terminal",
		Args:  cobra.NoArgs,
		RunE:  playGame,
	}
	addPlayFlags(playCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().IntVar(&sample, "sample", config.DefaultSampleEvery, "record every n steps")
	runCmd.Flags().IntVar(&autopilot, "autopilot", 0, "let the greedy demon move the gate every n steps")
	runCmd.Flags().IntVar(&histBins, "hist", 0, "print a speed histogram with n bins against Maxwell-Boltzmann")

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run a yaml batch of presets",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and score of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run a seeded ensemble and report drift and throughput",
		Args:  cobra.NoArgs,
		RunE:  benchEnsemble,
	}
	benchCmd.Flags().Float64Var(&duration, "time", 0.1, "duration per run")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 8, "number of seeds")
	benchCmd.Flags().IntVar(&benchParallel, "parallel", 0, "max concurrent runs (0 = unlimited)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search parameters minimising a metric",
		Args:  cobra.NoArgs,
		RunE:  sweepParameters,
	}
	sweepCmd.Flags().Float64Var(&duration, "time", 0.05, "duration per run")
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimise")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run headless and write the final frame as svg",
		Args:  cobra.NoArgs,
		RunE:  snapshotSVG,
	}
	snapshotCmd.Flags().Float64Var(&duration, "time", 0.5, "duration")
	snapshotCmd.Flags().StringVarP(&outFile, "output", "o", "demon.svg", "output file")
	snapshotCmd.Flags().StringVar(&theme, "theme", "classic", "color theme")

	rootCmd.AddCommand(playCmd, runCmd, listCmd, plotCmd, exportCmd, presetsCmd, benchCmd, sweepCmd, snapshotCmd, batchCmd)
	return rootCmd
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&timeLimit, "time-limit", config.DefaultTimeLimit, "round length in seconds")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFrameRate, "frames per second")
	cmd.Flags().IntVar(&substeps, "substeps", config.DefaultStepsPerFrame, "physics steps per frame")
	cmd.Flags().StringVar(&theme, "theme", "classic", "color theme")
}

// resolveConfig layers defaults, preset, config file and changed flags,
// in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("scenario") {
		cfg.Scenario = scenario
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	// Commands carry their own --time default, used unless a preset or
	// config file already chose a duration.
	if f := flags.Lookup("time"); f != nil {
		switch {
		case f.Changed:
			cfg.Duration = duration
		case preset == "" && configFile == "":
			d, err := strconv.ParseFloat(f.DefValue, 64)
			if err != nil {
				return nil, fmt.Errorf("time default %q: %w", f.DefValue, err)
			}
			cfg.Duration = d
		}
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sample
	}
	if flags.Changed("time-limit") {
		cfg.TimeLimit = timeLimit
	}
	if flags.Changed("fps") {
		cfg.View.FrameRate = frameRate
	}
	if flags.Changed("substeps") {
		cfg.View.StepsPerFrame = substeps
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func playGame(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	round := int64(0)
	build := func() (*demon.Game, error) {
		s := cfg.Seed + round
		round++
		logger.Debug("new round", "scenario", cfg.Scenario, "seed", s)
		return registry.Build(cfg, s)
	}

	game, err := build()
	if err != nil {
		return err
	}

	final, err := viz.Run(game, viz.Options{
		Title:         cfg.Scenario,
		Dt:            cfg.Dt,
		StepsPerFrame: cfg.View.StepsPerFrame,
		FrameRate:     cfg.View.FrameRate,
		Theme:         theme,
		Autopilot:     control.NewGreedy(),
		Rebuild:       build,
	})
	if final != nil {
		fmt.Printf("%s: score %.1f%% after %d steps\n", final.Status(), final.Score(), final.Steps())
	}
	return err
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir).WithLogger(logger)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	exp.SetLogger(logger)
	if err := exp.Setup(); err != nil {
		return err
	}
	var ap *control.Autopilot
	if autopilot > 0 {
		ap = control.NewAutopilot(exp.Game(), control.NewGreedy(), autopilot)
		exp.GetSimulator().AddObserver(ap)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Scenario: cfg.Scenario,
		Preset:   preset,
		Seed:     cfg.Seed,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Bodies:   exp.Game().World().Bodies(),
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if result.Finished {
		fmt.Println("sorted before the end of the run")
	}
	if ap != nil {
		fmt.Printf("gate moves: %d\n", ap.Moves())
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	if histBins > 0 {
		h := analysis.SpeedHistogram(exp.Game().World().Sets(), histBins, 0)
		fmt.Printf("\nspeeds (chi2 %.3g against Rayleigh):\n", h.ChiSquare())
		fmt.Print(analysis.HistogramToASCII(h, 40))
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir).WithLogger(logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tBODIES\tSCORE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.0es\t%d\t%.1f%%\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Bodies,
			100*run.Metrics["separation"],
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

	snaps, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(snaps) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(snaps))

	energy := make([]float64, len(snaps))
	score := make([]float64, len(snaps))
	for i, s := range snaps {
		energy[i] = s.Energy
		score[i] = s.Score
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{energy, "kinetic energy"},
		{score, "score (%)"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if outFile == "" {
		return st.ExportJSON(os.Stdout, args[0])
	}
	if err := st.ExportJSONFile(outFile, args[0]); err != nil {
		return err
	}
	logger.Info("exported", "run", args[0], "file", outFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCENARIO\tBALLS\tSPEED\tDT")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d+%d\t%g/%g\t%g\n",
			name, p.Scenario,
			p.Left.Count, p.Right.Count,
			p.Left.Speed, p.Right.Speed,
			p.Dt,
		)
	}
	return w.Flush()
}

func benchEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	exp.SetLogger(logger)

	logger.Info("benchmarking", "scenario", cfg.Scenario, "runs", benchRuns, "steps", cfg.SimConfig().Steps())
	start := time.Now()
	results, err := exp.Ensemble(context.Background(), benchRuns, benchParallel)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tDRIFT\tMAX DRIFT\tSCORE")
	total := 0
	for i, r := range results {
		total += r.StepsTaken
		fmt.Fprintf(w, "%d\t%d\t%.2e\t%.2e\t%.1f%%\n",
			cfg.Seed+int64(i),
			r.StepsTaken,
			r.EnergyDrift,
			r.Metrics["energy_drift"],
			r.Final().Score,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d steps in %v (%.0f steps/sec)\n", total, elapsed, float64(total)/elapsed.Seconds())
	return nil
}

// parseSweepParam splits "name=v1,v2" into its name and values.
func parseSweepParam(arg string) (string, []float64, error) {
	name, list, ok := strings.Cut(arg, "=")
	if !ok || list == "" {
		return "", nil, fmt.Errorf("bad --param %q, want name=v1,v2", arg)
	}
	var vals []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("--param %s: %w", name, err)
		}
		vals = append(vals, v)
	}
	return name, vals, nil
}

func sweepParameters(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, arg := range sweepParams {
		name, vals, err := parseSweepParam(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	gs, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, all, err := gs.Search(ctx, cfg, experiment.NewRegistry(), sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(sweepMetric))
	for _, p := range all {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", p.Params[n])
		}
		fmt.Fprintf(w, "%.4g\n", p.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.4g at %v\n", sweepMetric, best.Value, best.Params)
	return nil
}

func snapshotSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg, experiment.NewRegistry())
	exp.SetLogger(logger)
	if err := exp.Setup(); err != nil {
		return err
	}

	game := exp.Game()
	var tracer *export.Tracer
	if game.Left().Len() > 0 {
		tracer = export.NewTracer(game.Left(), 0, cfg.SampleEvery)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report := max(cfg.SimConfig().Steps()/10, 1)
	step := 0
	err = exp.Watch(ctx, func(g *demon.Game, t float64) bool {
		if tracer != nil {
			tracer.OnStep(g.World(), t)
		}
		if step%report == 0 {
			logger.Debug("snapshot progress", "t", t, "score", g.Score())
		}
		step++
		return true
	})
	if err != nil {
		return err
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	var trails [][]mgl64.Vec2
	if tracer != nil {
		trails = append(trails, tracer.Path())
	}
	if err := export.WriteGameSVG(f, game, viz.GetTheme(theme), 600, trails...); err != nil {
		return err
	}
	logger.Info("wrote snapshot", "file", outFile, "score", game.Score())
	if tracer != nil {
		xs := make([]float64, len(tracer.Path()))
		for i, p := range tracer.Path() {
			xs[i] = p.X()
		}
		logger.Info("traced ball", "samples", len(xs), "bounce_hz", analysis.DominantFrequency(xs, cfg.Dt*float64(cfg.SampleEvery)))
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	batch, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir).WithLogger(logger)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("batch", "name", batch.Name, "steps", len(batch.Steps))
	results, err := automation.NewRunner(experiment.NewRegistry(), st, logger).Run(ctx, batch)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSEED\tSTEPS\tDRIFT\tSCORE\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.2e\t%.1f%%\t%s\n",
			r.Step, r.Seed, r.Result.StepsTaken, r.Result.EnergyDrift, r.Result.Final().Score, r.RunID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	finished, mean := automation.Summary(results)
	fmt.Printf("\n%d/%d sorted, mean score %.1f%%\n", finished, len(results), mean)
	return nil
}
