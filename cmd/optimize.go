package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/analysis"
	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/line"
	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/optimize"
)

var (
	// CLI flags for the optimize subcommand
	capacitySpecs []string // Station=min-max range specs
	replications  int      // Simulation runs per candidate
	maxCost       float64  // Upgrade budget
	unitCost      float64  // Price of one added machine slot
	minThroughput float64  // Required units/hour, 0 disables the filter
	optWorkers    int      // Parallel candidate evaluations, 0 = all CPUs
)

// optimizeCmd grid-searches capacity configurations for the loaded scenario
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Grid-search station capacities for the best throughput per upgrade cost",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg := loadScenarioOrDefault()
		if !cmd.Flags().Changed("seed") && cfg.Seed != 0 {
			seed = cfg.Seed
		}

		ranges, err := parseCapacityRanges(capacitySpecs)
		if err != nil {
			logrus.Fatalf("Invalid --capacity value: %v", err)
		}
		if len(ranges) == 0 {
			ranges = defaultRanges(cfg)
		}

		res, err := optimize.GridSearchOptimize(optimize.Options{
			Scenario:         *cfg,
			Ranges:           ranges,
			MaxCost:          maxCost,
			MinThroughput:    minThroughput,
			Replications:     replications,
			SimTime:          simTime,
			Warmup:           warmup,
			Seed:             seed,
			CapacityUnitCost: unitCost,
			Workers:          optWorkers,
			Rates:            analysis.DefaultCostRates(),
		})
		if err != nil {
			logrus.Fatalf("Optimization failed: %v", err)
		}

		printOptimizeReport(cfg, res)
	},
}

// parseCapacityRanges turns "Station=min-max" (or "Station=n") specs into
// search ranges.
func parseCapacityRanges(specs []string) (map[string]optimize.CapacityRange, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[string]optimize.CapacityRange, len(specs))
	for _, spec := range specs {
		name, bounds, ok := strings.Cut(spec, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%q: want Station=min-max", spec)
		}
		lo, hi, found := strings.Cut(bounds, "-")
		if !found {
			hi = lo
		}
		minCap, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("%q: bad lower bound: %w", spec, err)
		}
		maxCap, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("%q: bad upper bound: %w", spec, err)
		}
		out[strings.TrimSpace(name)] = optimize.CapacityRange{Min: minCap, Max: maxCap}
	}
	return out, nil
}

// defaultRanges explores one extra slot per station when no explicit ranges
// are given.
func defaultRanges(cfg *line.ScenarioConfig) map[string]optimize.CapacityRange {
	out := make(map[string]optimize.CapacityRange, len(cfg.Stations))
	for _, st := range cfg.Stations {
		out[st.Name] = optimize.CapacityRange{Min: st.Capacity, Max: st.Capacity + 1}
	}
	return out
}

func init() {
	addCommonFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&capacitySpecs, "capacity", nil,
		"Station capacity range to explore, e.g. Assembly=2-4 (repeatable; default: each station up one slot)")
	optimizeCmd.Flags().IntVar(&replications, "replications", 3, "Simulation runs per candidate")
	optimizeCmd.Flags().Float64Var(&maxCost, "max-cost", 1000, "Upgrade budget; costlier candidates are skipped")
	optimizeCmd.Flags().Float64Var(&unitCost, "unit-cost", optimize.DefaultCapacityUnitCost, "Cost of one added machine slot")
	optimizeCmd.Flags().Float64Var(&minThroughput, "min-throughput", 0, "Required mean units/hour (0 disables the filter)")
	optimizeCmd.Flags().IntVar(&optWorkers, "workers", 0, "Parallel candidate evaluations (0 = all CPUs)")

	rootCmd.AddCommand(optimizeCmd)
}
