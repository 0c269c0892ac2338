package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/line"
)

// runCmd executes one simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and print the shift report",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg := loadScenarioOrDefault()
		// An unset --seed defers to the scenario file's seed.
		if !cmd.Flags().Changed("seed") && cfg.Seed != 0 {
			seed = cfg.Seed
		}

		logrus.Infof("Starting run: scenario=%q sim-time=%.0fmin warmup=%.0fmin seed=%d",
			cfg.Name, simTime, warmup, seed)

		start := time.Now()
		res, err := line.RunSimulation(*cfg, simTime, warmup, seed)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}

		printRunReport(res, time.Since(start))
	},
}

func init() {
	addCommonFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
