package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/experiment"
	"github.com/san-kum/enginesim/internal/export"
	"github.com/san-kum/enginesim/internal/forcing"
	"github.com/san-kum/enginesim/internal/integrators"
	"github.com/san-kum/enginesim/internal/logging"
	"github.com/san-kum/enginesim/internal/optim"
	"github.com/san-kum/enginesim/internal/physics"
	"github.com/san-kum/enginesim/internal/sim"
	"github.com/san-kum/enginesim/internal/storage"
	"github.com/san-kum/enginesim/internal/viz"
)

// buildConfig resolves the run configuration. A config file wins over a
// preset, and explicitly set flags win over both.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		c, err := config.Load("")
		if err != nil {
			return nil, err
		}
		cfg = c
	}

	f := cmd.Flags()
	override := func(name string, dst *float64, v float64) {
		if f.Changed(name) {
			*dst = v
		}
	}
	override("T", &cfg.Engine.T, engineT)
	override("r", &cfg.Engine.R, engineR)
	override("k1", &cfg.Engine.K1, engineK1)
	override("k2", &cfg.Engine.K2, engineK2)
	override("k3", &cfg.Engine.K3, engineK3)
	override("amplitude", &cfg.Forcing.Amplitude, amplitude)
	override("alpha", &cfg.Forcing.Alpha, alpha)
	override("omega", &cfg.Forcing.Omega, omega)
	override("t-start", &cfg.Time.Start, tStart)
	override("t-end", &cfg.Time.End, tEnd)
	override("h", &cfg.Time.Step, step)
	if f.Changed("profile") {
		cfg.Forcing.Profile = profile
	}
	if f.Lookup("out") != nil && f.Changed("out") {
		cfg.Output.Path = outPath
	}
	if f.Lookup("precision") != nil && f.Changed("precision") {
		cfg.Output.Precision = precision
	}
	if !f.Changed("log-level") && cfg.LogLevel != "" {
		log = logging.New(cfg.LogLevel, os.Stderr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry(), nil, sim.WithLogger(log))
	if err != nil {
		return err
	}

	engine := exp.Engine()
	fmt.Println(viz.RenderParams(exp.GetSimulator().IntegratorName(), engine.Params, engine.Profile, cfg.SimConfig()))
	fmt.Println()

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if cfg.Output.Path != "" {
		if err := writeResults(cfg.Output.Path, result, cfg.Output.Precision); err != nil {
			return err
		}
		log.WithField("path", cfg.Output.Path).Info("results written")
	}

	meta := storage.RunMetadata{
		Timestamp:  time.Now(),
		Preset:     preset,
		Engine:     engine.GetParams(),
		Profile:    engine.Profile.Name(),
		Forcing:    engine.Profile.Params(),
		TStart:     cfg.Time.Start,
		TEnd:       cfg.Time.End,
		Step:       cfg.Time.Step,
		Integrator: exp.GetSimulator().IntegratorName(),
		Precision:  cfg.Output.Precision,
		Metrics:    result.Metrics,
	}

	if !noStore {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta.ID, err = st.Save(meta, result.Samples)
		if err != nil {
			return err
		}
	}

	if archivePath != "" {
		if err := archiveRun(archivePath, meta, result); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	if meta.ID != "" {
		fmt.Printf("run id: %s\n", meta.ID)
	}
	fmt.Printf("samples: %d\n", len(result.Samples))
	fmt.Printf("final x: %.6f\n", result.Final().State[0])
	fmt.Println("\nmetrics:")
	return viz.WriteMetrics(os.Stdout, result.Metrics)
}

func writeResults(path string, result *sim.Result, prec int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(f, result.Samples, prec); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func archiveRun(path string, meta storage.RunMetadata, result *sim.Result) error {
	a, err := storage.OpenArchive(path)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.SaveRun(meta, result.Samples); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"archive": path, "id": meta.ID}).Info("run archived")
	return nil
}

func printParams(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	prof, err := forcing.New(cfg.ForcingSpec())
	if err != nil {
		return err
	}
	return viz.WriteParams(os.Stdout, integrators.NewRK4().Name(), cfg.Params(), prof, cfg.SimConfig())
}

var checkTimes = []float64{0, 0.5, 1, 2, 5}

func checkForcing(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	names := []string{cfg.Forcing.Profile}
	if checkAll {
		names = forcing.Names()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROFILE\tT\tORDER\tANALYTIC\tNUMERIC\tERROR")

	worst := 0.0
	for _, name := range names {
		spec := cfg.ForcingSpec()
		spec.Profile = name
		prof, err := forcing.New(spec)
		if err != nil {
			return err
		}

		rs := forcing.Check(prof, checkTimes, forcing.DefaultCheckStep)
		for _, r := range rs {
			fmt.Fprintf(w, "%s\t%.2f\t%d\t%.8g\t%.8g\t%.2e\n", prof.Name(), r.T, r.Order, r.Analytic, r.Numeric, r.Err())
		}
		worst = max(worst, forcing.MaxError(rs))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nmax error: %.2e (tolerance %.2e)\n", worst, checkTol)
	if worst > checkTol {
		return fmt.Errorf("forcing derivatives disagree with finite differences: %.2e > %.2e", worst, checkTol)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	prof, err := forcing.New(cfg.ForcingSpec())
	if err != nil {
		return err
	}

	engine := physics.NewEngine(cfg.Params(), prof)
	m := viz.NewLiveModel(engine, integrators.NewRK4(), cfg.SimConfig(), cfg.InitialState())

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Err()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	gs := optim.NewGridSearch([]string{sweepParam}, [][]float64{sweepValues}, sweepWorkers)

	start := time.Now()
	res, err := gs.Search(ctx, cfg, experiment.NewRegistry(), sweepMetric)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"points": len(res.Points), "elapsed": time.Since(start)}).Info("sweep finished")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\t\n", sweepParam, sweepMetric)
	for _, pt := range res.Points {
		mark := ""
		if pt.Params[sweepParam] == res.Best.Params[sweepParam] {
			mark = "<- best"
		}
		fmt.Fprintf(w, "%.6g\t%.6g\t%s\n", pt.Params[sweepParam], pt.Value, mark)
	}
	return w.Flush()
}
