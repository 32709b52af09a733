package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/enginesim/internal/logging"
)

var (
	dataDir  string
	logLevel string
	log      = logging.New(logging.DefaultLevel, os.Stderr)

	// model flags shared by run, params, check, live and sweep
	configFile string
	preset     string
	profile    string
	engineT    float64
	engineR    float64
	engineK1   float64
	engineK2   float64
	engineK3   float64
	amplitude  float64
	alpha      float64
	omega      float64
	tStart     float64
	tEnd       float64
	step       float64

	outPath     string
	precision   int
	archivePath string
	noStore     bool

	checkTol float64
	checkAll bool

	sweepParam   string
	sweepValues  []float64
	sweepMetric  string
	sweepWorkers int

	phaseAxes   []int
	svgAxes     []int
	figurePath  string
	historyPath string
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "enginesim",
		Short:         "aircraft engine control loop simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logging.New(logLevel, os.Stderr)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".enginesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "log level (debug|info|warn|error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate the loop and write the results table",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().StringVar(&outPath, "out", "", "results table path (default from config)")
	runCmd.Flags().IntVar(&precision, "precision", 0, "digits after the decimal point (default from config)")
	runCmd.Flags().StringVar(&archivePath, "archive", "", "also archive the run into this sqlite database")
	runCmd.Flags().BoolVar(&noStore, "no-store", false, "do not save the run under --data")

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "print loop parameters and derived coefficients",
		Args:  cobra.NoArgs,
		RunE:  printParams,
	}
	addModelFlags(paramsCmd)

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "compare forcing derivatives with finite differences",
		Args:  cobra.NoArgs,
		RunE:  checkForcing,
	}
	addModelFlags(checkCmd)
	checkCmd.Flags().Float64Var(&checkTol, "tol", 1e-4, "maximum absolute error")
	checkCmd.Flags().BoolVar(&checkAll, "all", false, "check every profile")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "step the loop in a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search one loop parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "k3", "parameter to vary (t|r|k1|k2|k3)")
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", []float64{0.25, 0.5, 1}, "values to try")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "ise", "metric to minimize")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 4, "concurrent runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of two columns",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntSliceVar(&phaseAxes, "axes", []int{2, 3}, "state indices for the x and y axes")

	figureCmd := &cobra.Command{
		Use:   "figure [run_id]",
		Short: "render the six-panel PNG figure",
		Args:  cobra.ExactArgs(1),
		RunE:  figureRun,
	}
	figureCmd.Flags().StringVar(&figurePath, "out", "simulation_results.png", "png path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "step response, statistics, spectrum and poles",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a phase trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntSliceVar(&svgAxes, "axes", []int{0, 1}, "state indices for the x and y axes")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file with the defaults",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initConfigCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "list runs in a sqlite archive",
		Args:  cobra.NoArgs,
		RunE:  listHistory,
	}
	historyCmd.Flags().StringVar(&historyPath, "archive", "enginesim.db", "sqlite database")

	rootCmd.AddCommand(runCmd, paramsCmd, checkCmd, liveCmd, sweepCmd, listCmd, plotCmd, phaseCmd,
		figureCmd, analyzeCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initConfigCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&profile, "profile", "", "forcing profile")
	f.Float64Var(&engineT, "T", 0, "time constant")
	f.Float64Var(&engineR, "r", 0, "feedback coefficient")
	f.Float64Var(&engineK1, "k1", 0, "transfer coefficient 1")
	f.Float64Var(&engineK2, "k2", 0, "transfer coefficient 2")
	f.Float64Var(&engineK3, "k3", 0, "transfer coefficient 3")
	f.Float64Var(&amplitude, "amplitude", 0, "forcing amplitude")
	f.Float64Var(&alpha, "alpha", 0, "forcing decay rate")
	f.Float64Var(&omega, "omega", 0, "forcing angular frequency")
	f.Float64Var(&tStart, "t-start", 0, "start time")
	f.Float64Var(&tEnd, "t-end", 0, "end time")
	f.Float64Var(&step, "h", 0, "integration step")
}
