package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lanyard/internal/analysis"
	"github.com/san-kum/lanyard/internal/config"
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/export"
	"github.com/san-kum/lanyard/internal/storage"
	"github.com/san-kum/lanyard/internal/view"
	"github.com/san-kum/lanyard/internal/viz"
	"github.com/spf13/cobra"
)

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
	fmt.Fprintln(w, "ID\tDEVICE\tPRESET\tINTEGRATOR\tTIME\tTICKS\tSTRETCH")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.4f\n",
			run.ID, run.Device, run.Preset, run.Integrator,
			run.Timestamp.Format("2006-01-02 15:04:05"), run.Ticks, run.Metrics["rope_stretch"])
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
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", runID)
	}

	series := []struct {
		caption string
		value   func(s dynamo.Sample) float64
	}{
		{"card height", func(s dynamo.Sample) float64 { return s.End.Y() }},
		{"rope stretch", func(s dynamo.Sample) float64 { return s.Stretch }},
		{"anchor gap", func(s dynamo.Sample) float64 { return s.AnchorGap }},
	}

	fmt.Printf("%s  %s/%s  %s  %d ticks\n\n", meta.ID, meta.Device, meta.Preset, meta.Integrator, meta.Ticks)
	for _, s := range series {
		data := make([]float64, len(samples))
		for i, sample := range samples {
			data[i] = s.value(sample)
		}
		fmt.Println(asciigraph.Plot(data, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption(s.caption)))
		fmt.Println()
	}
	return nil
}

func loadResult(st *storage.Store, runID string) (*storage.RunMetadata, *dynamo.Result, error) {
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	ribbon, err := st.LoadRibbon(runID)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}
	return meta, &dynamo.Result{
		Samples:    samples,
		Ribbon:     ribbon,
		Metrics:    meta.Metrics,
		TicksTaken: meta.Ticks,
	}, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadResult(storage.New(dataDir), args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return storage.ExportJSON(out, meta.RunInfo, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	meta, result, err := loadResult(storage.New(dataDir), runID)
	if err != nil {
		return err
	}

	vp := benchViewport(meta.Device)
	if svgWidth > 0 {
		vp.Width = svgWidth
	}
	if svgHeight > 0 {
		vp.Height = svgHeight
	}
	stroke := string(viz.GetTheme("night").Band)

	var svg string
	switch svgKind {
	case "ribbon":
		profile, err := config.LookupPreset(meta.Device, meta.Preset)
		if err != nil {
			return err
		}
		cam := view.NewCamera(profile.Camera.Position, profile.Camera.FOV, vp)
		svg = export.RibbonToSVG(result.Ribbon, cam, vp.Width, vp.Height, stroke)
	case "trajectory":
		svg = export.TrajectoryToSVG(result.Samples, vp.Width, vp.Height, stroke)
	default:
		return fmt.Errorf("unknown svg kind %q (want ribbon or trajectory)", svgKind)
	}
	if svg == "" {
		return fmt.Errorf("run %s has nothing to draw for %s", runID, svgKind)
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

func listPresets(cmd *cobra.Command, args []string) error {
	devices := config.ListDevices()
	if len(args) == 1 {
		devices = []string{args[0]}
	}
	for _, d := range devices {
		presets := config.ListPresets(d)
		if len(presets) == 0 {
			fmt.Printf("no presets for device: %s\n", d)
			continue
		}
		fmt.Printf("presets for %s:\n", d)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "lanyard.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	profile, err := cfg.ResolveProfile()
	if err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	fmt.Printf("%s: ok (%s profile)\n", args[0], profile.Device)
	var names []string
	for name, v := range profile.GetParams() {
		names = append(names, fmt.Sprintf("%s=%g", name, v))
	}
	sort.Strings(names)
	fmt.Printf("  %s\n", strings.Join(names, " "))
	return nil
}

func parseAxis(s string) (analysis.Axis, error) {
	switch s {
	case "x":
		return analysis.AxisX, nil
	case "y":
		return analysis.AxisY, nil
	}
	return 0, fmt.Errorf("unknown axis %q (want x or y)", s)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	ax, err := parseAxis(axis)
	if err != nil {
		return err
	}

	r, err := analysis.Swing(samples, meta.Dt, ax)
	if err != nil {
		return err
	}

	fmt.Printf("swing analysis: %s\n", meta.ID)
	fmt.Printf("profile: %s/%s\n\n", meta.Device, meta.Preset)

	plotData := r.Spectrum[:max(len(r.Spectrum)/4, 2)]
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (card %s)", r.Axis)),
	))
	fmt.Println()
	fmt.Printf("dominant frequency: %.3f hz\n", r.Frequency)
	fmt.Printf("period: %.3f s\n", r.Period)
	fmt.Printf("amplitude: %.3f\n", r.Amplitude)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	ax, err := parseAxis(axis)
	if err != nil {
		return err
	}

	portrait := analysis.CardPhase(samples, meta.Dt, ax)
	if portrait == nil {
		return fmt.Errorf("run %s has too few samples", runID)
	}
	fmt.Printf("phase portrait: %s (card %s against its velocity)\n\n", meta.ID, ax)
	fmt.Println(analysis.PhasePortraitToCanvas(portrait, 70, 20).String())
	return nil
}
