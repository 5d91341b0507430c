package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/retire/internal/api"
	"github.com/rgehrsitz/retire/internal/calculation"
	"github.com/rgehrsitz/retire/internal/compare"
	"github.com/rgehrsitz/retire/internal/config"
	"github.com/rgehrsitz/retire/internal/output"
	"github.com/rgehrsitz/retire/internal/store"
	"github.com/rgehrsitz/retire/internal/tui"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "retire %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(os.Stdout, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "retire",
	Short: "FERS retirement income simulator",
	Long: "Month-by-month retirement income projection for federal employees:\n" +
		"FERS annuity, SRS supplement, TSP with RMDs, Social Security, FEHB,\n" +
		"and federal/state tax, with Monte Carlo batches and scenario comparison.",
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario-file]",
	Short: "Project monthly retirement income for a scenario",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := config.LoadSettings()
		if err != nil {
			log.Fatal(err)
		}

		parser := config.NewInputParser()
		file, err := parser.LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}
		params := file.Primary()

		sim := calculation.NewSimulator()
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			sim.SetLogger(simpleCLILogger{})
		}

		result, err := sim.Project(params)
		if err != nil {
			log.Fatal(err)
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = settings.Defaults.OutputFormat
		}
		rendered, err := output.RenderProjection(result, format)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(rendered))

		if noSave, _ := cmd.Flags().GetBool("no-save"); settings.History.Enabled && !noSave {
			rec, err := store.NewSimulationRun(params, result)
			saveRun(settings, rec, err)
		}
	},
}

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo [scenario-file]",
	Short: "Run a Monte Carlo batch over sampled COLA and growth paths",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := config.LoadSettings()
		if err != nil {
			log.Fatal(err)
		}

		parser := config.NewInputParser()
		file, err := parser.LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}
		params := file.Primary()

		// The file's monte_carlo block wins; without one, sample around the
		// scenario's scalar rates with the flag volatilities.
		var cfg calculation.MonteCarloConfig
		if file.MonteCarlo != nil {
			cfg = file.MonteCarlo.Config()
		} else {
			colaStdDev, _ := cmd.Flags().GetFloat64("cola-stddev")
			growthStdDev, _ := cmd.Flags().GetFloat64("growth-stddev")
			cfg = calculation.MonteCarloConfig{
				COLAMean:     params.COLA.At(0),
				COLAStdDev:   decimal.NewFromFloat(colaStdDev),
				GrowthMean:   params.TSPGrowth.At(0),
				GrowthStdDev: decimal.NewFromFloat(growthStdDev),
			}
		}
		if paths, _ := cmd.Flags().GetInt("paths"); paths > 0 {
			cfg.NumPaths = paths
		} else if cfg.NumPaths == 0 {
			cfg.NumPaths = settings.Defaults.MonteCarloPaths
		}
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetInt64("seed")
			cfg.Seed = &seed
		}
		if trackBalance, _ := cmd.Flags().GetBool("track-balance"); trackBalance {
			cfg.TrackBalance = true
		}

		runner := calculation.NewMonteCarloRunner(calculation.NewSimulator())
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			runner.SetLogger(simpleCLILogger{})
		}

		res, err := runner.Run(cmd.Context(), params, cfg)
		if err != nil {
			log.Fatal(err)
		}

		report := &output.MonteCarloReport{
			ScenarioName: params.Name,
			Result:       res,
			Snapshots:    calculation.BuildSummarySnapshots(res, params),
		}
		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = settings.Defaults.OutputFormat
		}
		rendered, err := output.RenderMonteCarlo(report, format)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(string(rendered))

		if noSave, _ := cmd.Flags().GetBool("no-save"); settings.History.Enabled && !noSave {
			rec, err := store.NewMonteCarloRun(params, res)
			saveRun(settings, rec, err)
		}
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [scenario-file]",
	Short: "Compare two retirement scenarios",
	Long:  "Compare the two scenarios of a comparison file: lifetime and first-year income,\nfinal TSP balance, depletion, breakeven month, and optional household and cash-flow views.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		file, err := parser.LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}
		a, b, err := file.Pair()
		if err != nil {
			log.Fatal(err)
		}

		sim := calculation.NewSimulator()
		if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
			sim.SetLogger(simpleCLILogger{})
		}

		withHousehold, _ := cmd.Flags().GetBool("household")
		engine := compare.NewCompareEngine(sim)
		result, err := engine.Compare(cmd.Context(), a, b, compare.CompareOptions{
			IncludeHousehold: withHousehold,
			Expenses:         file.Expenses,
		})
		if err != nil {
			log.Fatal(err)
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		switch outputFormat {
		case "csv":
			formatter := &compare.CSVFormatter{}
			out, err := formatter.Format(result)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Print(out)
		case "json":
			formatter := &compare.JSONFormatter{Pretty: true}
			out, err := formatter.Format(result)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(out)
		case "table", "console", "":
			formatter := &compare.TableFormatter{}
			fmt.Print(formatter.Format(result))
		default:
			log.Fatalf("Unknown output format: %s", outputFormat)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [scenario-file]",
	Short: "Validate a scenario file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		if _, err := parser.LoadFromFile(args[0]); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Scenario file %s is valid\n", args[0])
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local HTTP API server",
	Long:  "Serve the projection engine over HTTP: POST /api/simulate, /api/montecarlo,\n/api/compare, and the saved-run endpoints under /api/runs.",
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := config.LoadSettings()
		if err != nil {
			log.Fatal(err)
		}
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = settings.Server.Addr
		}

		var history *store.Store
		if settings.History.Enabled {
			st, err := store.Open(settings.History.DatabasePath())
			if err != nil {
				log.Printf("WARN: run history unavailable: %v", err)
			} else {
				defer st.Close()
				history = st
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Printf("Serving API on http://%s", addr)
		if err := api.Serve(ctx, addr, api.NewHandler(history, version)); err != nil {
			log.Fatal(err)
		}
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui [scenario-file]",
	Short: "Browse projection results interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(tui.NewModel(args[0]), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

// saveRun persists a run summary. History failures warn rather than fail:
// the projection output already went to stdout.
func saveRun(settings config.Settings, rec *store.RunRecord, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not summarize run for history: %v\n", err)
		return
	}
	st, err := store.Open(settings.History.DatabasePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		return
	}
	defer st.Close()

	id, err := st.SaveRun(rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Saved as run %d (see: retire history show %d)\n", id, id)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func init() {
	simulateCmd.Flags().StringP("format", "f", "", "Output format (console, csv, json)")
	simulateCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	simulateCmd.Flags().Bool("no-save", false, "Skip saving the run to history")

	montecarloCmd.Flags().StringP("format", "f", "", "Output format (console, csv, json)")
	montecarloCmd.Flags().Int("paths", 0, "Number of simulated paths (default from file or settings)")
	montecarloCmd.Flags().Int64("seed", 0, "Random seed for a reproducible batch")
	montecarloCmd.Flags().Float64("cola-stddev", 0.005, "COLA volatility when the file has no monte_carlo block")
	montecarloCmd.Flags().Float64("growth-stddev", 0.10, "TSP growth volatility when the file has no monte_carlo block")
	montecarloCmd.Flags().Bool("track-balance", false, "Include the TSP balance percentile table")
	montecarloCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	montecarloCmd.Flags().Bool("no-save", false, "Skip saving the run to history")

	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	compareCmd.Flags().Bool("household", false, "Include the combined household projection")
	compareCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")

	serveCmd.Flags().String("addr", "", "Listen address (default from settings)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(montecarloCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd())

	initHistoryCommand()
}

func initHistoryCommand() {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved simulation runs",
		Long:  "List, show, and delete run summaries saved by simulate and montecarlo.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			settings, err := config.LoadSettings()
			if err != nil {
				log.Fatal(err)
			}
			st, err := store.Open(settings.History.DatabasePath())
			if err != nil {
				log.Fatal(err)
			}
			defer st.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := st.ListRuns(limit)
			if err != nil {
				log.Fatal(err)
			}
			if len(runs) == 0 {
				fmt.Println("No saved runs.")
				return
			}

			fmt.Printf("%-4s %-11s %-22s %-16s %7s %16s %14s\n",
				"ID", "KIND", "SCENARIO", "CREATED", "MONTHS", "LIFETIME", "BALANCE")
			for _, r := range runs {
				fmt.Printf("%-4d %-11s %-22s %-16s %7d %16s %14s\n",
					r.ID, r.Kind, truncate(r.Scenario, 22),
					r.CreatedAt.Format("2006-01-02 15:04"), r.Months,
					"$"+r.LifetimeIncome.StringFixed(0), "$"+r.FinalBalance.StringFixed(0))
			}
		},
	}
	listCmd.Flags().Int("limit", 20, "Maximum number of runs to list")

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show one saved run in detail",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				log.Fatalf("run id must be an integer, got %q", args[0])
			}
			settings, err := config.LoadSettings()
			if err != nil {
				log.Fatal(err)
			}
			st, err := store.Open(settings.History.DatabasePath())
			if err != nil {
				log.Fatal(err)
			}
			defer st.Close()

			rec, err := st.GetRun(id)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Printf("Run %d (%s)\n", rec.ID, rec.Kind)
			fmt.Printf("  Scenario:        %s\n", rec.Scenario)
			fmt.Printf("  Created:         %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("  Retirement date: %s\n", rec.RetirementDate.Format("2006-01-02"))
			fmt.Printf("  Months:          %d\n", rec.Months)
			fmt.Printf("  Lifetime income: %s\n", output.FormatCurrency(rec.LifetimeIncome))
			fmt.Printf("  Final balance:   %s\n", output.FormatCurrency(rec.FinalBalance))
			if rec.DepletionProbability != nil {
				fmt.Printf("  Depletion risk:  %s%%\n", rec.DepletionProbability.StringFixed(1))
			}
			if withParams, _ := cmd.Flags().GetBool("params"); withParams {
				fmt.Printf("\n%s\n", rec.Params)
			}
		},
	}
	showCmd.Flags().Bool("params", false, "Print the stored scenario parameters as JSON")

	deleteCmd := &cobra.Command{
		Use:   "delete [run-id]",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				log.Fatalf("run id must be an integer, got %q", args[0])
			}
			settings, err := config.LoadSettings()
			if err != nil {
				log.Fatal(err)
			}
			st, err := store.Open(settings.History.DatabasePath())
			if err != nil {
				log.Fatal(err)
			}
			defer st.Close()

			if err := st.DeleteRun(id); err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Deleted run %d\n", id)
		},
	}

	historyCmd.AddCommand(listCmd)
	historyCmd.AddCommand(showCmd)
	historyCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
