package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/growthsim/internal/config"
	"github.com/san-kum/growthsim/internal/growth"
	"github.com/san-kum/growthsim/internal/logging"
	"github.com/san-kum/growthsim/internal/metrics"
	"github.com/san-kum/growthsim/internal/report"
	"github.com/san-kum/growthsim/internal/scenario"
	"github.com/san-kum/growthsim/internal/storage"
	"github.com/san-kum/growthsim/internal/sweep"
)

var (
	dataDir  string
	logLevel string
	logger   *slog.Logger

	savings          float64
	populationGrowth float64
	depreciation     float64
	capitalShare     float64
	labor            float64
	initialCapital   float64
	periods          int

	configFile string
	preset     string
	noSave     bool
	breakdown  bool
	asJSON     bool

	sweepField   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepWorkers int

	spread float64
	trials int
	seed   int64
)

// main registers the growthsim commands and exits with status 1 on error.
func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(env).Execute(); err != nil {
		if logger == nil {
			logger = logging.NewLogger(logLevel, os.Stderr)
		}
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flag defaults come from env.
func newRootCmd(env config.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "growthsim",
		Short:         "discrete-time Solow growth simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLogger(logLevel, cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", env.DataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", env.LogLevel, "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate the capital path",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")
	runCmd.Flags().BoolVar(&breakdown, "breakdown", false, "print output, investment and break-even per period")

	steadyCmd := &cobra.Command{
		Use:   "steady-state",
		Short: "print the closed-form steady state",
		Args:  cobra.NoArgs,
		RunE:  steadyState,
	}
	addModelFlags(steadyCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "simulate a range of values for one parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepField, "field", growth.FieldSavings, fmt.Sprintf("parameter to vary %v", growth.FieldNames()))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", env.Workers, "parallel simulations")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "simulate random perturbations of one parameter",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addModelFlags(monteCarloCmd)
	monteCarloCmd.Flags().StringVar(&sweepField, "field", growth.FieldInitialCapital, fmt.Sprintf("parameter to perturb %v", growth.FieldNames()))
	monteCarloCmd.Flags().Float64Var(&spread, "spread", 10, "maximum absolute perturbation")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	monteCarloCmd.Flags().IntVar(&sweepWorkers, "workers", env.Workers, "parallel simulations")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&sweepWorkers, "workers", env.Workers, "parallel simulations")
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarize a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a saved path to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().BoolVar(&breakdown, "breakdown", false, "include the per-period breakdown")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, steadyCmd, sweepCmd, monteCarloCmd, scenarioCmd, listCmd, showCmd, exportCSVCmd, exportJSONCmd, presetsCmd)
	return rootCmd
}

func addModelFlags(cmd *cobra.Command) {
	d := growth.DefaultParams()
	cmd.Flags().Float64Var(&savings, "savings", d.Savings, "savings rate s")
	cmd.Flags().Float64Var(&populationGrowth, "population-growth", d.PopulationGrowth, "population growth rate n")
	cmd.Flags().Float64Var(&depreciation, "depreciation", d.Depreciation, "depreciation rate")
	cmd.Flags().Float64Var(&capitalShare, "capital-share", d.CapitalShare, "capital share alpha")
	cmd.Flags().Float64Var(&labor, "labor", d.Labor, "labor force L")
	cmd.Flags().Float64Var(&initialCapital, "initial-capital", d.InitialCapital, "initial capital K0")
	cmd.Flags().IntVar(&periods, "periods", d.Periods, "number of periods T")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a summary")
}

// resolveConfig applies the preset, then the config file, then any flag the
// user set explicitly.
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
		if preset != "" && loaded.Name == config.DefaultConfig().Name {
			loaded.Name = cfg.Name
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("savings") {
		cfg.Model.Savings = savings
	}
	if flags.Changed("population-growth") {
		cfg.Model.PopulationGrowth = populationGrowth
	}
	if flags.Changed("depreciation") {
		cfg.Model.Depreciation = depreciation
	}
	if flags.Changed("capital-share") {
		cfg.Model.CapitalShare = capitalShare
	}
	if flags.Changed("labor") {
		cfg.Model.Labor = labor
	}
	if flags.Changed("initial-capital") {
		cfg.Model.InitialCapital = initialCapital
	}
	if flags.Changed("periods") {
		cfg.Model.Periods = periods
	}
	if flags.Changed("no-save") {
		cfg.Output.Save = !noSave
	}
	if flags.Changed("breakdown") {
		cfg.Output.Breakdown = breakdown
	}
	if flags.Changed("field") {
		cfg.Sweep.Field = sweepField
	}
	if flags.Changed("min") {
		cfg.Sweep.Min = sweepMin
	}
	if flags.Changed("max") {
		cfg.Sweep.Max = sweepMax
	}
	if flags.Changed("steps") {
		cfg.Sweep.Steps = sweepSteps
	}
	if flags.Changed("workers") || (configFile == "" && flags.Lookup("workers") != nil) {
		cfg.Sweep.Workers = sweepWorkers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sim, err := cfg.Simulator()
	if err != nil {
		return err
	}

	logger.Debug("simulating", "name", cfg.Name, "periods", cfg.Model.Periods)
	start := time.Now()

	path, err := sim.Simulate()
	if err != nil {
		var numErr *growth.NumericError
		if errors.As(err, &numErr) {
			logger.Error("simulation aborted", "period", numErr.Period, "capital", numErr.Capital)
		}
		return fmt.Errorf("simulate %s: %w", cfg.Name, err)
	}
	logger.Debug("simulation finished", "elapsed", time.Since(start))

	summary := report.Summary{Name: cfg.Name, Params: sim.Params(), Path: path}
	var kstarPtr *float64
	summary.SteadyState, summary.SteadyStateErr = sim.SteadyState()
	if summary.SteadyStateErr != nil {
		logger.Warn("steady state undefined", "err", summary.SteadyStateErr)
		summary.Metrics = metrics.Evaluate(path, metrics.NewGrowthRate(), metrics.NewMonotonic())
	} else {
		kstar := summary.SteadyState
		kstarPtr = &kstar
		summary.Metrics = metrics.Evaluate(path, metrics.Default(kstar)...)
	}

	if cfg.Output.Save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		summary.ID, err = st.Save(storage.Run{
			Name:        cfg.Name,
			Params:      sim.Params(),
			Path:        path,
			SteadyState: kstarPtr,
			Metrics:     summary.Metrics,
		})
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		logger.Info("run saved", "id", summary.ID, "dir", dataDir)
	}

	if asJSON {
		meta := &storage.RunMetadata{
			ID:          summary.ID,
			Name:        cfg.Name,
			Params:      sim.Params(),
			SteadyState: kstarPtr,
			Final:       path.Final(),
			Metrics:     summary.Metrics,
		}
		var flows []growth.Flow
		if cfg.Output.Breakdown {
			flows = sim.Breakdown(path)
		}
		return storage.ExportJSON(out, meta, path, flows)
	}

	fmt.Fprintln(out, report.Render(summary))

	if cfg.Output.Breakdown {
		return printBreakdown(out, sim.Breakdown(path))
	}
	return nil
}

func printBreakdown(out io.Writer, flows []growth.Flow) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tCAPITAL\tOUTPUT\tINVESTMENT\tBREAK-EVEN\tNET")
	for _, f := range flows {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			f.Period, f.Capital, f.Output, f.Investment, f.BreakEven, f.Net())
	}
	return w.Flush()
}

func steadyState(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sim, err := cfg.Simulator()
	if err != nil {
		return err
	}

	kstar, err := sim.SteadyState()
	if err != nil {
		return err
	}

	if asJSON {
		return json.NewEncoder(out).Encode(map[string]any{
			"params":       sim.Params(),
			"steady_state": kstar,
		})
	}
	fmt.Fprintf(out, "%.6f\n", kstar)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sets, err := sweep.Linspace(cfg.Model, cfg.Sweep.Field, cfg.Sweep.Min, cfg.Sweep.Max, cfg.Sweep.Steps)
	if err != nil {
		return err
	}

	logger.Debug("sweeping", "field", cfg.Sweep.Field, "sets", len(sets), "workers", cfg.Sweep.Workers)

	outcomes, err := sweep.Run(context.Background(), sets, cfg.Sweep.Workers)
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			logger.Warn("sweep point failed", "index", o.Index, cfg.Sweep.Field, o.Params.Fields()[cfg.Sweep.Field], "err", o.Err)
		}
	}

	if asJSON {
		type row struct {
			Value       float64            `json:"value"`
			SteadyState *float64           `json:"steady_state,omitempty"`
			Final       *float64           `json:"final,omitempty"`
			Metrics     map[string]float64 `json:"metrics,omitempty"`
			Error       string             `json:"error,omitempty"`
		}
		rows := make([]row, len(outcomes))
		for i, o := range outcomes {
			rows[i].Value = o.Params.Fields()[cfg.Sweep.Field]
			if o.Err != nil {
				rows[i].Error = o.Err.Error()
				continue
			}
			final := o.Path.Final()
			rows[i].Final = &final
			if o.SteadyStateErr == nil {
				kstar := o.SteadyState
				rows[i].SteadyState = &kstar
			}
			rows[i].Metrics = o.Metrics
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprint(out, report.Table(cfg.Sweep.Field, outcomes))
	if best, ok := sweep.Best(outcomes, "final_gap"); ok {
		fmt.Fprintf(out, "\nclosest to steady state: %s = %g\n", cfg.Sweep.Field, best.Params.Fields()[cfg.Sweep.Field])
	}
	if failed > 0 {
		fmt.Fprintf(out, "%d of %d points failed\n", failed, len(outcomes))
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	field := sweepField
	sets, err := sweep.Perturb(cfg.Model, field, spread, trials, seed)
	if err != nil {
		return err
	}

	logger.Debug("monte carlo", "field", field, "trials", trials, "seed", seed)

	outcomes, err := sweep.Run(context.Background(), sets, cfg.Sweep.Workers)
	if err != nil {
		return err
	}

	var finals []float64
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			continue
		}
		finals = append(finals, o.Path.Final())
	}

	fmt.Fprintf(out, "monte carlo: %d trials, %s = %g ± %g, seed %d\n", trials, field, cfg.Model.Fields()[field], spread, seed)
	fmt.Fprintf(out, "failed: %d\n", failed)
	if len(finals) == 0 {
		return nil
	}

	lo, hi, sum := finals[0], finals[0], 0.0
	for _, k := range finals {
		lo = min(lo, k)
		hi = max(hi, k)
		sum += k
	}
	fmt.Fprintf(out, "final capital: mean %.4f, min %.4f, max %.4f\n", sum/float64(len(finals)), lo, hi)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	logger.Info("running scenario", "name", sc.Name, "steps", len(sc.Steps))

	results, err := scenario.Run(context.Background(), sc, sweepWorkers)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFINAL\tSTEADY STATE\tRUN ID")
	for _, r := range results {
		o := r.Outcome
		if o.Err != nil {
			logger.Warn("scenario step failed", "step", r.Step.Name, "err", o.Err)
			fmt.Fprintf(w, "%s\t-\t-\t%v\n", r.Step.Name, o.Err)
			continue
		}

		kstar := "undefined"
		var kstarPtr *float64
		if o.SteadyStateErr == nil {
			v := o.SteadyState
			kstarPtr = &v
			kstar = fmt.Sprintf("%.4f", v)
		}

		runID := "-"
		if !noSave {
			runID, err = st.Save(storage.Run{
				Name:        r.Step.Name,
				Params:      o.Params,
				Path:        o.Path,
				SteadyState: kstarPtr,
				Metrics:     o.Metrics,
			})
			if err != nil {
				return fmt.Errorf("save step %s: %w", r.Step.Name, err)
			}
		}
		fmt.Fprintf(w, "%s\t%.4f\t%s\t%s\n", r.Step.Name, o.Path.Final(), kstar, runID)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tPERIODS\tFINAL\tSTEADY STATE")

	for _, run := range runs {
		kstar := "undefined"
		if run.SteadyState != nil {
			kstar = fmt.Sprintf("%.4f", *run.SteadyState)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4f\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Periods,
			run.Final,
			kstar,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, growth.Path, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	path, err := st.LoadPath(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, path, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	meta, path, err := loadRun(args[0])
	if err != nil {
		return err
	}

	summary := report.Summary{
		ID:      meta.ID,
		Name:    meta.Name,
		Params:  meta.Params,
		Path:    path,
		Metrics: meta.Metrics,
	}
	if meta.SteadyState != nil {
		summary.SteadyState = *meta.SteadyState
	} else {
		summary.SteadyStateErr = growth.ErrDomain
	}

	fmt.Fprintln(out, report.Render(summary))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	_, path, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if len(path) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(out, path)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	meta, path, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var flows []growth.Flow
	if breakdown {
		sim, err := growth.New(meta.Params)
		if err != nil {
			return err
		}
		flows = sim.Breakdown(path)
	}

	return storage.ExportJSON(out, meta, path, flows)
}
