package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/driftpair/internal/analysis"
	"github.com/san-kum/driftpair/internal/automation"
	"github.com/san-kum/driftpair/internal/config"
	"github.com/san-kum/driftpair/internal/export"
	"github.com/san-kum/driftpair/internal/gui"
	"github.com/san-kum/driftpair/internal/metrics"
	"github.com/san-kum/driftpair/internal/motion"
	"github.com/san-kum/driftpair/internal/noise"
	"github.com/san-kum/driftpair/internal/optim"
	"github.com/san-kum/driftpair/internal/sim"
	"github.com/san-kum/driftpair/internal/storage"
	"github.com/san-kum/driftpair/internal/viz"
)

var (
	dataDir    string
	configFile string
	seed       int64
	noiseKind  string
	smooth     float64
	ticks      int
	frameRate  int
	backend    string
	outFile    string
	entity     int
	levelMin   float64
	levelMax   float64
	steps      int
	trials     int
	metricName string
	maximize   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "driftpair",
		Short: "two circles wandering on noise, caring about each other or not",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".driftpair", "data directory")

	sceneFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&configFile, "config", "", "scene file path (yaml)")
		cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
		cmd.Flags().StringVar(&noiseKind, "noise", noise.DefaultKind, fmt.Sprintf("noise field %v", noise.Kinds()))
		cmd.Flags().Float64Var(&smooth, "smooth", motion.DefaultSmooth, "noise step per tick")
	}
	sceneFlags(rootCmd)
	rootCmd.Flags().StringVar(&backend, "backend", gui.BackendRaylib, fmt.Sprintf("window backend %v", gui.Backends()))

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "open the animation window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	sceneFlags(guiCmd)
	guiCmd.Flags().StringVar(&backend, "backend", gui.BackendRaylib, fmt.Sprintf("window backend %v", gui.Backends()))

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run the animation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 60, "frames per second")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run headless and store the paths",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	sceneFlags(runCmd)
	runCmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "run every preset headless with the same seed and compare metrics",
		Args:  cobra.NoArgs,
		RunE:  comparePresets,
	}
	sceneFlags(compareCmd)
	compareCmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of headless runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	sceneFlags(scenarioCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "sweep the coordination level of one entity",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks per point")
	sweepCmd.Flags().IntVar(&entity, "entity", 1, "entity index to sweep")
	sweepCmd.Flags().Float64Var(&levelMin, "min", config.Leave, "lowest level")
	sweepCmd.Flags().Float64Var(&levelMax, "max", config.Approach, "highest level")
	sweepCmd.Flags().IntVar(&steps, "steps", 8, "number of sweep points")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "repeat a scene over many seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	sceneFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks per trial")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search both coordination levels for the best metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	sceneFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&ticks, "ticks", 600, "number of ticks per grid point")
	tuneCmd.Flags().Float64Var(&levelMin, "min", config.Leave, "lowest level")
	tuneCmd.Flags().Float64Var(&levelMax, "max", config.Approach, "highest level")
	tuneCmd.Flags().IntVar(&steps, "steps", 5, "grid points per entity")
	tuneCmd.Flags().StringVar(&metricName, "metric", "separation", "metric to optimize")
	tuneCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot separation and positions of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the separation",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render the trails of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run paths to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list coordination presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLEVELS\tDESCRIPTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, formatLevels(p.Levels), p.Description)
			}
			return w.Flush()
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(guiCmd, liveCmd, runCmd, compareCmd, scenarioCmd, sweepCmd, monteCarloCmd, tuneCmd, listCmd, plotCmd, analyzeCmd, exportSVGCmd, exportCSVCmd, exportJSONCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScene resolves the scene: defaults, then the scene file, then the
// preset named on the command line, then flags.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if len(args) > 0 {
		if err := cfg.Apply(args[0]); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("noise") {
		cfg.Noise = noiseKind
	}
	if cmd.Flags().Changed("smooth") {
		cfg.Smooth = smooth
	}
	return cfg, nil
}

func buildWorld(cmd *cobra.Command, args []string) (*motion.World, string, error) {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return nil, "", err
	}
	w, err := cfg.World()
	if err != nil {
		return nil, "", err
	}
	return w, cfg.Preset, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	w, preset, err := buildWorld(cmd, args)
	if err != nil {
		return err
	}
	return gui.Run(w, preset, backend)
}

func runLive(cmd *cobra.Command, args []string) error {
	w, preset, err := buildWorld(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(w, preset, frameRate)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	w, preset, err := buildWorld(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	name := preset
	if name == "" {
		name = "custom"
	}
	fmt.Printf("running %s for %d ticks (seed %d)...\n", name, ticks, w.Seed())
	start := time.Now()

	runner := sim.New(w)
	runner.AddMetric(metrics.NewSeparation())
	runner.AddMetric(metrics.NewTravel())
	runner.AddMetric(metrics.NewCooperation())

	result, err := runner.Run(ctx, ticks)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		fmt.Printf("interrupted after %d ticks\n", result.Ticks)
	}

	elapsed := time.Since(start)

	runID, saveErr := st.Save(storage.Describe(preset, w), result)
	if saveErr != nil {
		return saveErr
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.Ticks)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	base, err := loadScene(cmd, nil)
	if err != nil {
		return err
	}
	if base.Seed == 0 {
		base.Seed = time.Now().UnixNano()
	}

	fmt.Printf("comparing presets over %d ticks (seed %d)\n\n", ticks, base.Seed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tLEVELS\tSEPARATION\tTRAVEL\tCOOPERATION")

	for _, name := range config.ListPresets() {
		cfg := base.Clone()
		if err := cfg.Apply(name); err != nil {
			return err
		}
		runner, err := automation.NewRunner(cfg)
		if err != nil {
			return err
		}
		result, err := runner.Run(cmd.Context(), ticks)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.3f\n",
			name,
			formatLevels(config.GetPreset(name).Levels),
			result.Metrics["separation"],
			result.Metrics["travel"],
			result.Metrics["cooperation"],
		)
	}
	return w.Flush()
}

func printProgress(label string) automation.Progress {
	return func(done, total int) {
		fmt.Printf("%s %d/%d\n", label, done, total)
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	base, err := loadScene(cmd, nil)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("  %s\n", scenario.Description)
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, base, st, printProgress("step"))
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tTICKS\tSEPARATION\tCOOPERATION\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%.3f\t%s\n",
			r.Step,
			r.Preset,
			r.Result.Ticks,
			r.Result.Metrics["separation"],
			r.Result.Metrics["cooperation"],
			r.RunID,
		)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:     base,
		Entity:   entity,
		LevelMin: levelMin,
		LevelMax: levelMax,
		NumSteps: steps,
		Ticks:    ticks,
	}, nil)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tSEPARATION\tTRAVEL\tCOOPERATION")
	seps := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.2f\t%.2f\t%.2f\t%.3f\n", r.Level, r.Separation, r.Travel, r.Cooperation)
		seps[i] = r.Separation
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(seps,
		asciigraph.Height(10),
		asciigraph.Caption(fmt.Sprintf("mean separation vs level of entity %d", entity)),
	))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:      base,
		NumTrials: trials,
		Ticks:     ticks,
		Seed:      base.Seed,
	}, func(done, total int) {
		if done%10 == 0 || done == total {
			fmt.Printf("monte carlo: %d/%d trials complete\n", done, total)
		}
	})
	if err != nil {
		return err
	}

	mean, stddev := automation.MonteCarloStats(results)
	fmt.Printf("\nmean separation: %.2f ± %.2f over %d trials\n", mean, stddev, len(results))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	base, err := loadScene(cmd, nil)
	if err != nil {
		return err
	}
	if base.Seed == 0 {
		base.Seed = time.Now().UnixNano()
	}

	grid := optim.Linspace(levelMin, levelMax, steps)
	search := optim.NewGridSearch([]string{"level0", "level1"}, [][]float64{grid, grid})
	search.Maximize = maximize

	build := func(params map[string]float64) (*sim.Runner, error) {
		cfg := base.Clone()
		for i, name := range []string{"level0", "level1"} {
			lvl := params[name]
			if err := cfg.SetLevel(i, &lvl); err != nil {
				return nil, err
			}
		}
		return automation.NewRunner(cfg)
	}

	best, val, err := search.Search(cmd.Context(), build, ticks, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.4f (seed %d)\n", metricName, val, base.Seed)
	fmt.Printf("  level0: %.2f\n", best["level0"])
	fmt.Printf("  level1: %.2f\n", best["level1"])
	return nil
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tTICKS\tSEED\tNOISE\tSEPARATION")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%.2f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Seed,
			run.Noise,
			run.Metrics["separation"],
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

	tracks, separations, err := st.LoadTracks(runID)
	if err != nil {
		return err
	}
	if len(tracks) == 0 || len(tracks[0].Path) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(tracks[0].Path))

	if len(tracks) == 2 {
		fmt.Println(asciigraph.Plot(separations,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("separation"),
		))
		fmt.Println()
	}

	for _, t := range tracks {
		xs := make([]float64, len(t.Path))
		ys := make([]float64, len(t.Path))
		for i, p := range t.Path {
			xs[i], ys[i] = p.X, p.Y
		}
		fmt.Println(asciigraph.PlotMany([][]float64{xs, ys},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Yellow),
			asciigraph.Caption(t.Name+" x (blue), y (yellow)"),
		))
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

	_, separations, err := st.LoadTracks(runID)
	if err != nil {
		return err
	}
	if len(meta.Entities) != 2 || len(separations) < 2 {
		return fmt.Errorf("run %s has no separation signal", runID)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s\n\n", meta.Preset)

	ps := analysis.PowerSpectrum(separations)
	plotData := ps
	if len(ps) > 8 {
		plotData = ps[:len(ps)/4]
	}

	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (separation)"),
	))
	fmt.Println()

	period, _ := analysis.DominantPeriod(separations)
	if period == 0 {
		fmt.Println("no dominant period")
		return nil
	}
	fmt.Printf("dominant period: %.1f ticks (%.2f s at 60 fps)\n", period, period/60)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	tracks, _, err := st.LoadTracks(runID)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	export.WriteSVG(f, int(meta.Width), int(meta.Height), tracks)
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	tracks, separations, err := st.LoadTracks(runID)
	if err != nil {
		return err
	}

	if len(tracks) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"tick"}
	for _, t := range tracks {
		header = append(header, t.Name+"_x", t.Name+"_y")
	}
	header = append(header, "separation")
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range tracks[0].Path {
		row := []string{strconv.Itoa(i)}
		for _, t := range tracks {
			row = append(row,
				strconv.FormatFloat(t.Path[i].X, 'f', 6, 64),
				strconv.FormatFloat(t.Path[i].Y, 'f', 6, 64),
			)
		}
		sep := 0.0
		if i < len(separations) {
			sep = separations[i]
		}
		row = append(row, strconv.FormatFloat(sep, 'f', 6, 64))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tracks, separations, err := st.LoadTracks(runID)
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, tracks, separations)
}

func formatLevels(levels []*float64) string {
	s := ""
	for i, l := range levels {
		if i > 0 {
			s += "/"
		}
		if l == nil {
			s += "none"
		} else {
			s += strconv.FormatFloat(*l, 'g', -1, 64)
		}
	}
	return s
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
