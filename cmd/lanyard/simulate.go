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

	"github.com/san-kum/lanyard/internal/automation"
	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/experiment"
	"github.com/san-kum/lanyard/internal/lanyard"
	"github.com/san-kum/lanyard/internal/optim"
	"github.com/san-kum/lanyard/internal/sim"
	"github.com/san-kum/lanyard/internal/storage"
	"github.com/san-kum/lanyard/internal/view"
	"github.com/spf13/cobra"
)

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// parseParams reads name=value pairs.
func parseParams(pairs []string) (map[string]float64, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("param %q: expected name=value", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

// parseGrid reads name=v1,v2,... entries into parallel name and value lists.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, e := range entries {
		name, raw, ok := strings.Cut(e, "=")
		if !ok || raw == "" {
			return nil, nil, fmt.Errorf("grid %q: expected name=v1,v2,...", e)
		}
		var values []float64
		for _, field := range strings.Split(raw, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %q: %w", e, err)
			}
			values = append(values, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

// loadExperiment merges the config file, if any, with the command's flags.
// Flags given explicitly win over the file.
func loadExperiment(cmd *cobra.Command) (experiment.Config, *config.Profile, error) {
	fileCfg := config.DefaultConfig()
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return experiment.Config{}, nil, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = c
	}

	flags := cmd.Flags()
	use := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && (configFile == "" || f.Changed)
	}
	if use("device") {
		fileCfg.Device = device
	}
	if use("preset") {
		fileCfg.Preset = preset
	}
	if use("integrator") {
		fileCfg.Integrator = integrator
	}
	if use("dt") {
		fileCfg.Dt = dt
	}
	if use("time") {
		fileCfg.Duration = simTime(cmd)
	}
	if use("seed") {
		fileCfg.Seed = seed
	}
	if use("width") {
		fileCfg.Width = width
	}
	if use("height") {
		fileCfg.Height = height
	}

	cfg, err := experiment.FromConfig(fileCfg)
	if err != nil {
		return experiment.Config{}, nil, err
	}
	profile, err := fileCfg.ResolveProfile()
	if err != nil {
		return experiment.Config{}, nil, err
	}
	if cfg.Params, err = parseParams(params); err != nil {
		return experiment.Config{}, nil, err
	}
	return cfg, profile, nil
}

func loadScenario(overrides map[string]float64) (*automation.Scenario, error) {
	sc, err := automation.LoadScenario(scenarioFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario: %w", err)
	}
	if len(overrides) > 0 && sc.Params == nil {
		sc.Params = make(map[string]float64, len(overrides))
	}
	for k, v := range overrides {
		sc.Params[k] = v
	}
	return sc, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	ctx, cancel := interruptContext()
	defer cancel()

	var (
		info   storage.RunInfo
		result *dynamo.Result
		runErr error
	)
	start := time.Now()

	if scenarioFile != "" {
		overrides, err := parseParams(params)
		if err != nil {
			return err
		}
		sc, err := loadScenario(overrides)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("integrator") {
			sc.Integrator = integrator
		}
		expCfg, err := sc.Experiment()
		if err != nil {
			return err
		}
		info = storage.RunInfo{
			Name:       sc.Name,
			Device:     expCfg.Device,
			Preset:     expCfg.Preset,
			Integrator: expCfg.Integrator,
			Dt:         expCfg.Dt,
			Duration:   expCfg.Duration,
			Seed:       seed,
			Params:     expCfg.Params,
		}
		fmt.Printf("running scenario %s (%s/%s)...\n", sc.Name, info.Device, info.Preset)
		result, runErr = automation.RunScenario(ctx, sc, registry)
	} else {
		cfg, profile, err := loadExperiment(cmd)
		if err != nil {
			return err
		}
		integ, err := registry.GetIntegrator(cfg.Integrator)
		if err != nil {
			return err
		}
		exp := experiment.New(cfg)
		if err := exp.Setup(profile, integ, registry.DefaultMetrics()); err != nil {
			return err
		}
		info = storage.RunInfo{
			Name:       "run",
			Device:     cfg.Device,
			Preset:     cfg.Preset,
			Integrator: cfg.Integrator,
			Dt:         cfg.Dt,
			Duration:   cfg.Duration,
			Seed:       cfg.Seed,
			Params:     cfg.Params,
		}
		fmt.Printf("running %s/%s...\n", info.Device, info.Preset)
		result, runErr = exp.Run(ctx)
	}

	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(info, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksTaken)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadExperiment(cmd)
	if err != nil {
		return err
	}
	sweep := &automation.ParameterSweep{
		Device:     cfg.Device,
		Preset:     cfg.Preset,
		Integrator: cfg.Integrator,
		Viewport:   cfg.Viewport,
		ParamName:  paramName,
		ParamMin:   paramMin,
		ParamMax:   paramMax,
		NumSteps:   numSteps,
		Duration:   cfg.Duration,
		Dt:         cfg.Dt,
	}
	if scenarioFile != "" {
		if sweep.Scenario, err = loadScenario(nil); err != nil {
			return err
		}
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("sweeping %s over [%g, %g] in %d steps...\n", paramName, paramMin, paramMax, numSteps)
	results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tEND X\tEND Y\tSTRETCH\tGAP\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.3f\t%.3f\t%.4f\t%.4f\t%v\n",
			r.ParamValue, r.Final.End.X(), r.Final.End.Y(), r.MaxStretch, r.AnchorGap, r.Stable)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadExperiment(cmd)
	if err != nil {
		return err
	}
	mc := &automation.MonteCarloConfig{
		Device:       cfg.Device,
		Preset:       cfg.Preset,
		Integrator:   cfg.Integrator,
		Viewport:     cfg.Viewport,
		Perturbation: perturbation,
		NumTrials:    numTrials,
		Duration:     cfg.Duration,
		Dt:           cfg.Dt,
		Seed:         cfg.Seed,
	}

	ctx, cancel := interruptContext()
	defer cancel()

	fmt.Printf("running %d trials (perturbation %.3f)...\n", numTrials, perturbation)
	start := time.Now()
	results, err := automation.RunMonteCarlo(ctx, mc, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tEND X\tEND Y\tSTRETCH\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.4f\t%v\n", r.TrialID, r.Final.End.X(), r.Final.End.Y(), r.MaxStretch, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d  (%v)\n", stable, unstable, time.Since(start).Round(time.Millisecond))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	if len(grid) == 0 {
		return fmt.Errorf("tune needs at least one --grid name=v1,v2,...")
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	cfg, profile, err := loadExperiment(cmd)
	if err != nil {
		return err
	}
	var sc *automation.Scenario
	if scenarioFile != "" {
		if sc, err = loadScenario(nil); err != nil {
			return err
		}
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(metricName); err != nil {
		return err
	}
	build := func(p map[string]float64) (*experiment.Experiment, error) {
		integ, err := registry.GetIntegrator(cfg.Integrator)
		if err != nil {
			return nil, err
		}
		c := cfg
		c.Params = p
		exp := experiment.New(c)
		if err := exp.Setup(profile, integ, registry.DefaultMetrics()); err != nil {
			return nil, err
		}
		if sc != nil {
			exp.GetSimulator().SetScript(sc.Script())
		}
		return exp, nil
	}

	ctx, cancel := interruptContext()
	defer cancel()

	search := optim.NewGridSearch(names, ranges)
	fmt.Printf("searching %d candidates for the lowest %s...\n", search.Candidates(), metricName)
	best, value, err := search.Search(ctx, build, metricName)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6f\n", metricName, value)
	for _, name := range names {
		fmt.Printf("  %s: %g\n", name, best[name])
	}
	return nil
}

// benchViewport is a representative window for a device class.
func benchViewport(device string) view.Viewport {
	if device == view.Mobile.String() {
		return view.Viewport{Width: 390, Height: 844}
	}
	return view.Viewport{Width: config.DefaultWidth, Height: config.DefaultHeight}
}

func benchPresets(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()
	integ, err := registry.GetIntegrator(integrator)
	if err != nil {
		return err
	}

	var jobs []sim.Job
	for _, d := range config.ListDevices() {
		for _, name := range config.ListPresets(d) {
			p := config.GetPreset(d, name)
			jobs = append(jobs, sim.Job{Name: d + "/" + name, Profile: *p, Viewport: benchViewport(d)})
		}
	}

	ctx, cancel := interruptContext()
	defer cancel()

	simCfg := dynamo.Config{Dt: dt, Duration: simTime(cmd), ValidateState: true}
	fmt.Printf("benchmarking %d presets (%s)...\n", len(jobs), integrator)
	start := time.Now()
	results, err := sim.NewEnsemble(jobs, registry.DefaultMetrics, lanyard.WithIntegrator(integ)).Run(ctx, simCfg)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	total := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tTICKS\tSTRETCH\tGAP\tERRORS")
	for i, r := range results {
		total += r.TicksTaken
		fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\t%d\n", jobs[i].Name, r.TicksTaken,
			r.Metrics["rope_stretch"], r.Metrics["anchor_gap"], len(r.Errors))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")
	fmt.Fprintf(w, "%.1f\t%.4f\t%d\t%v\t%.0f\n", simCfg.Duration, simCfg.Dt, total,
		elapsed.Round(time.Millisecond), float64(total)/elapsed.Seconds())
	return w.Flush()
}
