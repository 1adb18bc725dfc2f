package main

import (
	"os"

	"github.com/san-kum/lanyard/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	debug   bool

	device     string
	preset     string
	configFile string
	integrator string
	dt         float64
	seed       int64
	width      int
	height     int
	params     []string

	scenarioFile string

	// sweep and montecarlo
	paramName    string
	paramMin     float64
	paramMax     float64
	numSteps     int
	numTrials    int
	perturbation float64

	// tune
	metricName string
	grid       []string

	// live
	liveDevice string
	theme      string
	watch      bool
	menu       bool
	gifPath    string

	// analyze and phase
	axis string

	// export-svg
	svgKind   string
	outFile   string
	svgWidth  int
	svgHeight int
)

// main registers the lanyard commands and runs the root command. With no
// subcommand it opens the live view, or the preset menu when asked.
func main() {
	var logFile *os.File

	rootCmd := &cobra.Command{
		Use:   "lanyard",
		Short: "lanyard chain simulation",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logFile = setupLogging(dataDir, debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				logFile.Close()
			}
		},
		RunE: runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lanyard", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs to <data>/logs")
	addLiveFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().Float64("time", config.DefaultDuration, "duration in seconds")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "pointer scenario file (yaml)")
	runCmd.Flags().StringArrayVar(&params, "param", nil, "profile parameter override, name=value (repeatable)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one profile parameter across a range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().Float64("time", 5, "duration of each run")
	sweepCmd.Flags().StringVar(&paramName, "name", "damping", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 8, "last value")
	sweepCmd.Flags().IntVar(&numSteps, "steps", 5, "number of values")
	sweepCmd.Flags().StringVar(&scenarioFile, "scenario", "", "pointer scenario to replay in every run")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run randomly displaced chains in parallel",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addSceneFlags(monteCarloCmd)
	monteCarloCmd.Flags().Float64("time", 5, "duration of each trial")
	monteCarloCmd.Flags().IntVar(&numTrials, "trials", 16, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturbation, "perturb", 0.2, "max x/y offset of each body")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search profile parameters against a metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().Float64("time", 3, "duration of each run")
	tuneCmd.Flags().StringVar(&metricName, "metric", "kinetic_energy", "metric to minimize")
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&scenarioFile, "scenario", "", "pointer scenario to replay in every run")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run every preset in parallel and time it",
		Args:  cobra.NoArgs,
		RunE:  benchPresets,
	}
	benchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	benchCmd.Flags().Float64("time", config.DefaultDuration, "simulated seconds per preset")
	benchCmd.Flags().StringVar(&integrator, "integrator", "symplectic", "integrator")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the chain in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

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

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "swing frequency of the card",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&axis, "axis", "x", "card axis: x or y")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of the card",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().StringVar(&axis, "axis", "x", "card axis: x or y")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the final ribbon or the card trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "ribbon", "ribbon or trajectory")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 0, "image width (default: the run's viewport)")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 0, "image height (default: the run's viewport)")

	presetsCmd := &cobra.Command{
		Use:   "presets [device]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file with the defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configValidateCmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "load a config file and check its profile",
		Args:  cobra.ExactArgs(1),
		RunE:  validateConfig,
	}
	configCmd.AddCommand(configInitCmd, configValidateCmd)

	rootCmd.AddCommand(runCmd, sweepCmd, monteCarloCmd, tuneCmd, benchCmd, liveCmd, listCmd, plotCmd,
		analyzeCmd, phaseCmd, exportJSONCmd, exportSVGCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&device, "device", "auto", "device class: desktop, mobile or auto")
	cmd.Flags().StringVar(&preset, "preset", "default", "preset name")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&integrator, "integrator", "symplectic", "integrator")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "viewport width in pixels")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "viewport height in pixels")
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&liveDevice, "device", "desktop", "device class: desktop or mobile")
	cmd.Flags().StringVar(&preset, "preset", "default", "preset name")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild the scene when the config file changes")
	cmd.Flags().StringVar(&theme, "theme", "night", "color theme")
	cmd.Flags().BoolVar(&menu, "menu", false, "start on the preset menu")
	cmd.Flags().StringVar(&gifPath, "gif", "lanyard.gif", "where recordings are written")
	cmd.Flags().StringArrayVar(&params, "param", nil, "profile parameter override, name=value (repeatable)")
}

// simTime reads --time from the command's own flag set, since the commands
// default it differently.
func simTime(cmd *cobra.Command) float64 {
	t, _ := cmd.Flags().GetFloat64("time")
	return t
}
