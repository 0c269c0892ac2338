package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/line"
)

var (
	// CLI flags shared by the run and optimize subcommands
	scenarioPath string  // Path to a YAML scenario file; empty uses the built-in baseline
	simTime      float64 // Simulated minutes per run
	warmup       float64 // Warm-up minutes truncated from statistics
	seed         int64   // Master seed for all random streams
	logLevel     string  // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "prodtwin",
	Short: "Discrete-event digital twin for multi-station production lines",
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging applies the --log flag before any subcommand work starts.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadScenarioOrDefault resolves the --scenario flag, falling back to the
// built-in baseline line when no file is given.
func loadScenarioOrDefault() *line.ScenarioConfig {
	if scenarioPath == "" {
		cfg := line.DefaultScenario()
		return &cfg
	}
	cfg, err := line.LoadScenario(scenarioPath)
	if err != nil {
		logrus.Fatalf("Cannot load scenario: %v", err)
	}
	return cfg
}

// addCommonFlags registers the flags every simulating subcommand takes.
func addCommonFlags(c *cobra.Command) {
	c.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file (default: built-in baseline)")
	c.Flags().Float64Var(&simTime, "sim-time", 480, "Simulated minutes per run (one shift)")
	c.Flags().Float64Var(&warmup, "warmup", 60, "Warm-up minutes excluded from statistics")
	c.Flags().Int64Var(&seed, "seed", 42, "Master seed for all random streams")
	c.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
