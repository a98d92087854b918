package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/swarmfx/internal/automation"
	"github.com/san-kum/swarmfx/internal/config"
	"github.com/san-kum/swarmfx/internal/export"
	"github.com/san-kum/swarmfx/internal/gui"
	"github.com/san-kum/swarmfx/internal/logging"
	"github.com/san-kum/swarmfx/internal/metrics"
	"github.com/san-kum/swarmfx/internal/render"
	"github.com/san-kum/swarmfx/internal/sim"
	"github.com/san-kum/swarmfx/internal/storage"
	"github.com/san-kum/swarmfx/internal/viz"
)

var (
	configFile string
	preset     string
	seed       int64
	dataDir    string
	logLevel   string
	logFormat  string
	logFile    string

	// headless runs
	ticks    int
	realtime bool
	runs     int
	every    int
	width    float64
	height   float64
	swarms   int
	masses   int
	noSave   bool

	snapTicks  int
	snapWidth  float64
	snapHeight float64
	snapFile   string

	exportFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "swarmfx",
		Short:        "particle swarm and bubble animation",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (default: fresh per launch)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console or json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "live terminal animation",
		RunE:  runTUI,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the animation window",
		RunE:  runGUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record the session",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 1000, "number of ticks")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "pace ticks at the configured interval")
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of seeded runs to execute in parallel")
	runCmd.Flags().IntVar(&every, "every", 10, "record a frame every n ticks")
	runCmd.Flags().Float64Var(&width, "width", 0, "canvas width (0 uses the fallback)")
	runCmd.Flags().Float64Var(&height, "height", 0, "canvas height (0 uses the fallback)")
	runCmd.Flags().IntVar(&swarms, "swarms", 0, "initial particle swarms")
	runCmd.Flags().IntVar(&masses, "bubbles", 0, "initial bubble masses")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write the run to the data directory")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "replay a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "run headless and write an svg snapshot",
		RunE:  runSnapshot,
	}
	snapshotCmd.Flags().IntVar(&snapTicks, "ticks", 120, "number of ticks before the snapshot")
	snapshotCmd.Flags().Float64Var(&snapWidth, "width", 0, "canvas width (0 uses the fallback)")
	snapshotCmd.Flags().Float64Var(&snapHeight, "height", 0, "canvas height (0 uses the fallback)")
	snapshotCmd.Flags().StringVarP(&snapFile, "output", "o", "snapshot.svg", "output file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportCmd.Flags().StringVarP(&exportFile, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run:   listPresets,
	}

	rootCmd.AddCommand(tuiCmd, guiCmd, runCmd, scriptCmd, snapshotCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, the preset and finally any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (see swarmfx presets)", preset)
		}
		cfg.ApplyPreset(p)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if flags.Changed("swarms") {
		cfg.InitialSwarms = swarms
	}
	if flags.Changed("bubbles") {
		cfg.InitialBubbleMasses = masses
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stderr belongs to the terminal UI, so logs only go to a file.
	log := zap.NewNop()
	if cfg.Logging.File != "" {
		if log, err = newLogger(cfg); err != nil {
			return err
		}
		defer log.Sync()
	}

	opts := []viz.Option{viz.WithLogger(log), viz.WithSnapshotDir(cfg.DataDir)}
	if preset == "" {
		return viz.RunInteractive(cfg, opts...)
	}

	m, err := viz.NewModel(cfg, append(opts, viz.WithName(preset))...)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	return gui.Run(cfg, log)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	surface := render.FixedSurface{W: width, H: height}

	if runs > 1 {
		return runEnsemble(ctx, cfg, surface, log)
	}

	frames := storage.NewFrameRecorder(every)
	d, err := sim.NewDriver(render.NewRecorder(), surface, cfg.Sim(),
		sim.WithLogger(log),
		sim.WithObserver(frames),
	)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		d.AddMetric(m)
	}
	cfg.Populate(d)

	log.Info("running",
		zap.String("preset", preset),
		zap.Int64("seed", cfg.Seed),
		zap.Int("ticks", ticks),
		zap.Bool("realtime", realtime),
	)

	var result *sim.Result
	if realtime {
		result, err = d.Loop(ctx, ticks)
	} else {
		result, err = d.Run(ctx, ticks)
	}
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		log.Warn("run interrupted", zap.Error(err), zap.Int("ticks", result.Ticks))
	}

	fmt.Printf("seed: %d\n", cfg.Seed)
	fmt.Printf("ticks: %d\n", result.Ticks)
	fmt.Printf("time: %.3fs\n", result.Time)
	fmt.Printf("particles: %d\n", result.Particles)
	fmt.Printf("bubbles: %d\n", result.Bubbles)
	fmt.Printf("recycled: %d\n", result.Recycled)
	printMetrics(result.Metrics)

	if noSave {
		return nil
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunInfo{
		Preset:       preset,
		Seed:         cfg.Seed,
		TimeStep:     cfg.TimeStep,
		Swarms:       cfg.InitialSwarms,
		BubbleMasses: cfg.InitialBubbleMasses,
	}, result, frames.Frames())
	if err != nil {
		return err
	}

	fmt.Printf("\nrun_id: %s\n", runID)
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config, surface render.Surface, log *zap.Logger) error {
	ens := sim.NewEnsemble(cfg.Sim(), runs, cfg.Seed).
		WithMetrics(metrics.Default).
		WithSetup(cfg.Populate)

	log.Info("running ensemble", zap.Int("runs", runs), zap.Int("ticks", ticks))
	results, err := ens.Run(ctx, surface, ticks)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tTIME\tPARTICLES\tBUBBLES\tRECYCLED\tMEAN_SPEED\tMEAN_LIFE")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%d\t%d\t%d\t%.3f\t%.3f\n",
			cfg.Seed+int64(i),
			r.Time,
			r.Particles,
			r.Bubbles,
			r.Recycled,
			r.Metrics["mean_speed"],
			r.Metrics["mean_life"],
		)
	}
	return w.Flush()
}

func printMetrics(m map[string]float64) {
	if len(m) == 0 {
		return
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, m[name])
	}
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	if sc.Preset != "" && !cmd.Flags().Changed("preset") {
		preset = sc.Preset
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if sc.Seed != nil && !cmd.Flags().Changed("seed") {
		cfg.Seed = *sc.Seed
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("running scenario", zap.String("name", sc.Name), zap.Int64("seed", cfg.Seed))

	rec := render.NewRecorder()
	surface := render.FixedSurface{W: sc.Width, H: sc.Height}
	d, err := sim.NewDriver(rec, surface, cfg.Sim(), sim.WithLogger(log))
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		d.AddMetric(m)
	}

	base := filepath.Dir(args[0])
	runner := automation.NewRunner(d,
		automation.WithLogger(log),
		automation.WithSnapshot(func(path string) error {
			if !filepath.IsAbs(path) {
				path = filepath.Join(base, path)
			}
			w, h := d.CanvasSize()
			return writeSnapshot(path, int(w), int(h), rec.Visuals())
		}),
	)

	ctx, cancel := signalContext()
	defer cancel()

	results, err := runner.Run(ctx, sc)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tACTION\tTIME\tPARTICLES\tBUBBLES\tRUNNING")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%.3f\t%d\t%d\t%t\n", r.Step, r.Action, r.Time, r.Particles, r.Bubbles, r.Running)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	printMetrics(d.Result().Metrics)
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("taking snapshot", zap.Int64("seed", cfg.Seed), zap.Int("ticks", snapTicks))

	rec := render.NewRecorder()
	d, err := sim.NewDriver(rec, render.FixedSurface{W: snapWidth, H: snapHeight}, cfg.Sim(), sim.WithLogger(log))
	if err != nil {
		return err
	}
	cfg.Populate(d)

	ctx, cancel := signalContext()
	defer cancel()
	if _, err := d.Run(ctx, snapTicks); err != nil {
		return err
	}

	w, h := d.CanvasSize()
	if err := writeSnapshot(snapFile, int(w), int(h), rec.Visuals()); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d visuals)\n", snapFile, rec.Len())
	return nil
}

func writeSnapshot(path string, w, h int, visuals []render.Visual) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Snapshot(f, w, h, visuals); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func openStore(cmd *cobra.Command) (*storage.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tTICKS\tDT\tPARTICLES\tBUBBLES\tRECYCLED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.TimeStep,
			run.Particles,
			run.Bubbles,
			run.Recycled,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(frames))

	series := []struct {
		caption string
		value   func(storage.Frame) float64
	}{
		{"mean particle speed", func(f storage.Frame) float64 { return f.MeanSpeed }},
		{"mean bubble life", func(f storage.Frame) float64 { return f.MeanLife }},
		{"live particles", func(f storage.Frame) float64 { return float64(f.Particles) }},
	}

	for _, s := range series {
		data := make([]float64, len(frames))
		for i, f := range frames {
			data[i] = s.value(f)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	if exportFile == "" {
		return st.ExportJSONTo(args[0], os.Stdout)
	}
	if err := st.ExportJSON(args[0], exportFile); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", exportFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDT\tSWARM_SIZE\tBUBBLE_COUNT\tSWARMS\tBUBBLE_MASSES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.3f\t%d\t%d\t%d\t%d\n",
			name, p.TimeStep, p.SwarmSize, p.BubbleCount, p.InitialSwarms, p.InitialBubbleMasses)
	}
	w.Flush()
}
