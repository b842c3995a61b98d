package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/wavetrace/internal/config"
	"github.com/san-kum/wavetrace/internal/export"
	"github.com/san-kum/wavetrace/internal/field"
	"github.com/san-kum/wavetrace/internal/metrics"
	"github.com/san-kum/wavetrace/internal/ncgrid"
	"github.com/san-kum/wavetrace/internal/physics"
	"github.com/san-kum/wavetrace/internal/ray"
	"github.com/san-kum/wavetrace/internal/sim"
	"github.com/san-kum/wavetrace/internal/storage"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	runName    string
	endTime    float64
	stepSize   float64
	workers    int
	refraction string
	gravity    float64
	// single ray
	bathyFile   string
	currentFile string
	x0, y0      float64
	kx0, ky0    float64
	// export
	outFile string
	svgFile string
	width   int
	height  int
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "wavetrace",
		Short:        "surface gravity wave ray tracer",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".wavetrace", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "trace a batch of rays and save the run",
		Args:  cobra.NoArgs,
		RunE:  runBatch,
	}
	addIntegrationFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration (scenario/variant)")
	runCmd.Flags().StringVar(&runName, "name", "", "run name")
	runCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = all CPUs)")
	runCmd.Flags().Float64Var(&gravity, "gravity", physics.Gravity, "gravitational acceleration")

	singleCmd := &cobra.Command{
		Use:   "single",
		Short: "trace one ray over a NetCDF bathymetry",
		Args:  cobra.NoArgs,
		RunE:  runSingle,
	}
	addIntegrationFlags(singleCmd)
	singleCmd.Flags().StringVar(&bathyFile, "bathymetry", "", "bathymetry NetCDF file")
	singleCmd.Flags().StringVar(&currentFile, "current", "", "current NetCDF file")
	singleCmd.Flags().Float64Var(&x0, "x0", 0, "initial x (m)")
	singleCmd.Flags().Float64Var(&y0, "y0", 0, "initial y (m)")
	singleCmd.Flags().Float64Var(&kx0, "kx0", 0, "initial kx (rad/m)")
	singleCmd.Flags().Float64Var(&ky0, "ky0", 0, "initial ky (rad/m)")
	_ = singleCmd.MarkFlagRequired("bathymetry")

	genCmd := &cobra.Command{
		Use:   "gen [out.nc]",
		Short: "write the bathymetry of a config or preset as NetCDF",
		Args:  cobra.ExactArgs(1),
		RunE:  genGrid,
	}
	genCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	genCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration (scenario/variant)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run rays to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run rays as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVarP(&svgFile, "out", "o", "rays.svg", "output file")
	plotCmd.Flags().IntVar(&width, "width", 800, "image width")
	plotCmd.Flags().IntVar(&height, "height", 600, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, singleCmd, genCmd, listCmd, showCmd, exportJSONCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addIntegrationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&endTime, "time", config.DefaultEndTime, "end time (s)")
	cmd.Flags().Float64Var(&stepSize, "dt", config.DefaultStepSize, "step size (s)")
	cmd.Flags().StringVar(&refraction, "refraction", physics.RefractionReduced.String(), "refraction term (reduced, dispersion)")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// loadConfig resolves the run configuration: preset, then config file, then
// explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		scenario, variant, _ := strings.Cut(preset, "/")
		p := config.GetPreset(scenario, variant)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (scenarios: %v)", preset, config.Scenarios())
		}
		cfg = p
		if cfg.Name == "" {
			cfg.Name = scenario + "_" + variant
		}
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		cfg.EndTime = endTime
	}
	if flags.Changed("dt") {
		cfg.StepSize = stepSize
	}
	if flags.Changed("refraction") {
		cfg.Refraction = refraction
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
	}
	if flags.Changed("name") {
		cfg.Name = runName
	}
	if cfg.Name == "" {
		cfg.Name = "run"
	}
	return cfg, nil
}

func withMetrics(s *sim.Simulator) *sim.Simulator {
	s.AddMetric(func() sim.Metric { return metrics.NewPathLength() })
	s.AddMetric(func() sim.Metric { return metrics.NewFrequencyDrift() })
	s.AddMetric(func() sim.Metric { return metrics.NewMinDepth() })
	return s
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}
	ics, err := cfg.InitialConditions()
	if err != nil {
		return err
	}
	depth, current, err := cfg.Sources()
	if err != nil {
		return err
	}

	s := withMetrics(sim.New(depth, current))
	if cfg.Gravity > 0 {
		s.SetGravity(cfg.Gravity)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("tracing %d rays (%s)...\n", len(ics), cfg.Name)
	start := time.Now()

	bundle, err := sim.NewBatch(s, cfg.Workers).WithLogger(newLogger()).Run(ctx, ics, simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Name, simCfg, cfg.Workers, bundle)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nrays:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, sc := range bundle.Summary() {
		fmt.Fprintf(w, "  %s\t%d\n", sc.Status, sc.Count)
	}
	return w.Flush()
}

func runSingle(cmd *cobra.Command, args []string) error {
	r, err := physics.ParseRefraction(refraction)
	if err != nil {
		return err
	}
	simCfg := sim.Config{EndTime: endTime, StepSize: stepSize, Refraction: r}

	bathy, err := ncgrid.LoadBathymetry(bathyFile)
	if err != nil {
		return err
	}
	depth, err := field.NewGridDepth(bathy)
	if err != nil {
		return err
	}
	var current field.Current
	if currentFile != "" {
		g, err := ncgrid.LoadCurrent(currentFile)
		if err != nil {
			return err
		}
		if current, err = field.NewGridCurrent(g); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	ic := ray.InitialCondition{X: x0, Y: y0, KX: kx0, KY: ky0}
	tr, err := withMetrics(sim.New(depth, current)).Trace(ctx, ic, simCfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T\tX\tY\tKX\tKY")
	for _, s := range tr.States {
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\t%.6f\t%.6f\n", s.T, s.X, s.Y, s.KX, s.KY)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nstatus: %s (code %d)\n", tr.Status, sim.CodeOf(tr, nil))
	if tr.Err != nil {
		fmt.Printf("reason: %v\n", tr.Err)
	}
	for _, name := range []string{"path_length", "frequency_drift", "min_depth"} {
		if v, ok := tr.Metrics[name]; ok {
			fmt.Printf("  %s: %.6f\n", name, v)
		}
	}
	return nil
}

func genGrid(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	g, err := cfg.BathymetryGrid()
	if err != nil {
		return err
	}
	if err := ncgrid.Write(args[0], g); err != nil {
		return err
	}
	e := g.Extent()
	fmt.Printf("wrote %s: %dx%d nodes over [%g, %g]x[%g, %g]\n",
		args[0], g.Nx(), g.Ny(), e.XMin, e.XMax, e.YMin, e.YMax)
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tEND\tDT\tREFRACTION\tRAYS\tCOMPLETED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.4fs\t%s\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.EndTime,
			run.StepSize,
			run.Refraction,
			run.Rays,
			run.Summary[ray.Completed.String()],
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	b, err := st.LoadBundle(args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		return storage.WriteBundle(os.Stdout, b)
	}
	if err := storage.ExportJSON(outFile, b); err != nil {
		return err
	}
	fmt.Printf("exported %d rays to %s\n", len(b.Rays), outFile)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	b, err := st.LoadBundle(args[0])
	if err != nil {
		return err
	}
	svg := export.BundleToSVG(b, width, height)
	if svg == "" {
		return fmt.Errorf("run %s has no states to plot", args[0])
	}
	if err := os.WriteFile(svgFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgFile)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := config.Scenarios()
	if len(args) == 1 {
		scenarios = []string{args[0]}
	}
	for _, s := range scenarios {
		presets := config.ListPresets(s)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", s)
			continue
		}
		fmt.Printf("presets for %s:\n", s)
		for _, p := range presets {
			fmt.Printf("  %s/%s\n", s, p)
		}
	}
	return nil
}
