package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/checkout-sim/report"
	"github.com/inference-sim/checkout-sim/sim"
	"github.com/inference-sim/checkout-sim/sim/replication"
	"github.com/inference-sim/checkout-sim/sim/trace"
)

var (
	opts         simOptions
	logLevel     string // Log verbosity level
	plotDir      string // Directory for PNG plots; text charts when empty
	csvDir       string // Directory for CSV series; none when empty
	replications int    // Number of Monte Carlo replications
	parallelism  int    // Replications run concurrently
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "checkout-sim",
	Short: "Discrete-event simulator for a shop with checkout counters",
}

// runCmd executes one simulation and reports its statistics
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one checkout simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := opts.resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Could not build simulator: %v", err)
		}
		res, err := s.Run()
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		out := cmd.OutOrStdout()
		report.PrintSummary(out, res)
		if res.Trace != nil {
			report.PrintTrace(out, trace.Summarize(res.Trace))
		}

		series := []report.Series{report.QueueSeries(res), report.WaitSeries(res)}
		plotter := report.NewPlotter(plotDir, out)
		for _, sr := range series {
			if err := plotter.Plot(sr); err != nil {
				if errors.Is(err, report.ErrNoData) {
					logrus.Warnf("Nothing to plot for %s", sr.Title)
					continue
				}
				logrus.Fatalf("Plotting failed: %v", err)
			}
		}
		if csvDir != "" {
			if err := writeCSVs(csvDir, series); err != nil {
				logrus.Fatalf("Writing CSV failed: %v", err)
			}
		}
		logrus.Info("Simulation complete.")
	},
}

// replicateCmd runs a Monte Carlo study over consecutive seeds
var replicateCmd = &cobra.Command{
	Use:   "replicate",
	Short: "Run independent replications and summarize them",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := opts.resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		if cfg.Seed == nil {
			cfg = cfg.WithSeed(time.Now().UnixNano())
			logrus.Infof("No seed configured, base seed is %d", *cfg.Seed)
		}

		start := time.Now()
		study, err := replication.Run(cmd.Context(), cfg, replications, parallelism)
		if err != nil {
			logrus.Fatalf("Replications failed: %v", err)
		}
		report.PrintStudy(cmd.OutOrStdout(), study)
		logrus.Infof("%d replications done in %s", replications, time.Since(start))
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

func writeCSVs(dir string, series []report.Series) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, s := range series {
		path := filepath.Join(dir, s.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := report.WriteCSV(f, s); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		logrus.Infof("Wrote %s", path)
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	opts.bind(runCmd)
	runCmd.Flags().StringVar(&plotDir, "out-dir", "", "Directory for PNG plots (text charts on stdout when empty or unwritable)")
	runCmd.Flags().StringVar(&csvDir, "csv", "", "Directory for CSV exports of the queue-length and waiting-time series")

	opts.bind(replicateCmd)
	replicateCmd.Flags().IntVar(&replications, "replications", 10, "Number of independent replications")
	replicateCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Replications run concurrently (0 = GOMAXPROCS)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replicateCmd)
}
