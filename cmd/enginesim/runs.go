package main

import (
	"errors"
	"fmt"
	"math/cmplx"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/enginesim/internal/analysis"
	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/export"
	"github.com/san-kum/enginesim/internal/physics"
	"github.com/san-kum/enginesim/internal/sim"
	"github.com/san-kum/enginesim/internal/storage"
)

var errNoData = errors.New("no data")

// loadRun resolves an id, id prefix or "latest" against the data directory.
func loadRun(ref string) (*storage.RunMetadata, []dynamo.Sample, error) {
	st := storage.New(dataDir)
	id, err := st.Resolve(ref)
	if err != nil {
		return nil, nil, err
	}

	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(id)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s: %w", id, errNoData)
	}
	return meta, samples, nil
}

func paramsOf(meta *storage.RunMetadata) physics.Params {
	return physics.Params{
		T:  meta.Engine["t"],
		R:  meta.Engine["r"],
		K1: meta.Engine["k1"],
		K2: meta.Engine["k2"],
		K3: meta.Engine["k3"],
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
	fmt.Fprintln(w, "ID\tTIME\tPROFILE\tINTERVAL\tH\tSAMPLES\tFINAL_X")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%g\t%d\t%.6g\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Profile,
			run.TStart, run.TEnd,
			run.Step,
			run.Samples,
			run.Metrics["final_x"],
		)
	}

	return w.Flush()
}

var plotCaptions = []string{"x (speed)", "x'", "x''", "x'''", "x''''", "F (disturbance)"}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("profile: %s\n", meta.Profile)
	fmt.Printf("samples: %d\n\n", len(samples))

	for idx, caption := range plotCaptions {
		graph := asciigraph.Plot(sim.Column(samples, idx),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	if len(phaseAxes) != 2 {
		return fmt.Errorf("--axes needs two indices, got %d", len(phaseAxes))
	}
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	p := analysis.PhasePortrait(samples, phaseAxes[0], phaseAxes[1])
	if p == nil {
		return fmt.Errorf("axes must be in 0..%d", len(sim.ColumnNames)-1)
	}

	fmt.Printf("phase portrait: %s\n", meta.ID)
	fmt.Printf("%s vs %s\n\n", sim.ColumnNames[p.YIndex], sim.ColumnNames[p.XIndex])
	fmt.Println(p.ASCII(70, 20))
	return nil
}

func figureRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if err := export.WriteFigure(figurePath, samples); err != nil {
		return err
	}
	log.WithField("path", figurePath).Infof("figure for run %s written", meta.ID)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	times := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.T
	}
	xs := sim.Column(samples, 0)

	resp, err := analysis.Response(times, xs, analysis.DefaultSettlingBand)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n\n", meta.ID)
	fmt.Println("response of x:")
	fmt.Printf("  final:     %.6g\n", resp.Final)
	fmt.Printf("  peak:      %.6g at t=%.3f\n", resp.Peak, resp.PeakTime)
	fmt.Printf("  overshoot: %.2f%%\n", resp.Overshoot)
	fmt.Printf("  settling:  %.3f s\n\n", resp.SettlingTime)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COLUMN\tMEAN\tSTDDEV\tMIN\tMAX\tRMS")
	for idx, name := range sim.ColumnNames {
		st, err := analysis.Describe(sim.Column(samples, idx))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.6g\t%.6g\t%.6g\t%.6g\t%.6g\n", name, st.Mean, st.StdDev, st.Min, st.Max, st.RMS)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if sp, err := analysis.PowerSpectrum(sim.Column(samples, 2), meta.Step); err == nil {
		fmt.Println()
		fmt.Println(asciigraph.Plot(sp.Power[:min(len(sp.Power), max(len(sp.Power)/8, 2))],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (x'')"),
		))
		if f := sp.Dominant(); f > 0 {
			fmt.Printf("\ndominant frequency: %.4f hz (period %.3f s)\n", f, 1/f)
		}
	} else {
		log.WithError(err).Warn("spectrum skipped")
	}

	p := paramsOf(meta)
	if p.T == 0 {
		return nil
	}
	fmt.Println("\npoles:")
	for _, z := range analysis.Poles(p) {
		fmt.Printf("  %9.5f %+9.5fi  |z|=%.5f\n", real(z), imag(z), cmplx.Abs(z))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	doc := export.NewDocument(samples)
	doc.ID = meta.ID
	doc.Engine = meta.Engine
	doc.Forcing = map[string]any{"profile": meta.Profile}
	for k, v := range meta.Forcing {
		doc.Forcing[k] = v
	}
	doc.Metrics = meta.Metrics
	return export.WriteJSON(os.Stdout, doc)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	if len(svgAxes) != 2 {
		return fmt.Errorf("--axes needs two indices, got %d", len(svgAxes))
	}
	for _, a := range svgAxes {
		if a < 0 || a >= len(sim.ColumnNames) {
			return fmt.Errorf("axes must be in 0..%d", len(sim.ColumnNames)-1)
		}
	}
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg := export.TrajectorySVG(sim.Column(samples, svgAxes[0]), sim.Column(samples, svgAxes[1]), 800, 600, "#00ccff")
	_, err = fmt.Fprint(os.Stdout, svg)
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Printf("  %-10s %s\n", name, c.Forcing.Profile)
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func listHistory(cmd *cobra.Command, args []string) error {
	a, err := storage.OpenArchive(historyPath)
	if err != nil {
		return err
	}
	defer a.Close()

	runs, err := a.Runs()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("archive is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tPRESET\tPROFILE\tT\tR\tK1\tK2\tK3\tSAMPLES\tFINAL_X")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g\t%g\t%g\t%g\t%g\t%d\t%.6g\n",
			r.ID, r.CreatedAt, r.Preset, r.Profile, r.T, r.R, r.K1, r.K2, r.K3, r.Samples, r.FinalX)
	}
	return w.Flush()
}
