package cmd

import (
	"fmt"
	"time"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/analysis"
	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/line"
	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/optimize"
)

// printRunReport displays a finished run the way a shift supervisor would
// read it: line totals, per-station load, the bottleneck, and the bill.
func printRunReport(res *line.Result, wall time.Duration) {
	m := analysis.MetricsFromResult(res)
	ranking := analysis.DetectBottleneck(res.Stations, res.Records, res.Queues)
	costs := analysis.CalculateFinancials(res.Stations, res.WIP, res.StatsWindow()/60.0, analysis.DefaultCostRates())

	fmt.Println("=== Production Run ===")
	fmt.Printf("Run ID               : %s\n", res.RunID)
	fmt.Printf("Scenario             : %s\n", res.Scenario.Name)
	fmt.Printf("Horizon / warm-up    : %.0f / %.0f min (wall %s)\n", res.Duration, res.Warmup, wall.Round(time.Millisecond))
	fmt.Printf("Completed Units      : %.0f\n", m[analysis.MetricTotalCompleted])
	fmt.Printf("Throughput           : %.2f units/hour\n", m[analysis.MetricThroughputPerHour])
	if lead, ok := m[analysis.MetricAvgLeadTime]; ok {
		fmt.Printf("Average Lead Time    : %.1f min (max %.1f)\n", lead, m[analysis.MetricMaxLeadTime])
	}
	if u, ok := m[analysis.MetricAvgUtilization]; ok {
		fmt.Printf("Average Utilization  : %.1f%% (range %.1f%% - %.1f%%)\n",
			100*u, 100*m[analysis.MetricMinUtilization], 100*m[analysis.MetricMaxUtilization])
	}
	if w, ok := m[analysis.MetricAvgWIP]; ok {
		fmt.Printf("Work In Progress     : %.1f avg / %.0f peak\n", w, m[analysis.MetricMaxWIP])
	}

	fmt.Println("\n=== Stations ===")
	for _, st := range res.Stations {
		fmt.Printf("%-12s cap %d : processed %4d | util %5.1f%% | available %5.1f%%\n",
			st.Name, st.Capacity, st.Processed, 100*st.Utilization, 100*st.Availability)
	}

	if curve := analysis.ProductionOverTime(res.Records); len(curve) > 0 {
		fmt.Println("\n=== Output Milestones ===")
		for _, q := range []int{25, 50, 75, 100} {
			p := curve[(q*len(curve)-1)/100]
			fmt.Printf("%3d%% of output (%4d units) by t=%.1f min\n", q, p.Cumulative, p.Time)
		}
	}

	if len(ranking) > 0 {
		b := ranking[0]
		fmt.Println("\n=== Bottleneck ===")
		fmt.Printf("%s (score %.2f): util %.1f%%, avg queue %.1f, avg wait %.1f min, cycle %.1f min\n",
			b.Station, b.Score, 100*b.Utilization, b.AvgQueue, b.AvgWait, b.CycleTime)
	}

	fmt.Println("\n=== Costs ===")
	fmt.Printf("Labor                : %.2f\n", costs.Labor)
	fmt.Printf("Energy               : %.2f\n", costs.Energy)
	fmt.Printf("Downtime             : %.2f\n", costs.Downtime)
	fmt.Printf("Holding              : %.2f\n", costs.Holding)
	fmt.Printf("Total                : %.2f\n", costs.Total)
	if perUnit, ok := costs.PerUnit(res.Completed()); ok {
		fmt.Printf("Per Unit             : %.2f\n", perUnit)
	}
}

// printOptimizeReport lists every evaluated configuration, winner starred.
func printOptimizeReport(cfg *line.ScenarioConfig, res *optimize.Result) {
	fmt.Println("=== Capacity Grid Search ===")
	if res.FallbackUnfiltered {
		fmt.Println("NOTE: no configuration met the throughput target; ranking is unfiltered")
	}

	names := make([]string, len(cfg.Stations))
	for i := range cfg.Stations {
		names[i] = cfg.Stations[i].Name
	}
	fmt.Printf("Stations             : %v\n\n", names)

	fmt.Printf("  %-14s %10s %12s %10s %10s  %s\n",
		"capacities", "cost", "units/hour", "lead min", "score", "bottleneck")
	for i := range res.Configs {
		c := &res.Configs[i]
		marker := "  "
		if c == res.Best {
			marker = "* "
		}
		fmt.Printf("%s%-14v %10.0f %12.2f %10.1f %10.4f  %s (%.0f%%)\n",
			marker, c.Capacities, c.ImplementationCost, c.ThroughputMean, c.LeadTimeMean,
			c.Score, c.BottleneckStation, 100*c.BottleneckUtilization)
	}

	b := res.Best
	fmt.Printf("\nBest: %v at cost %.0f -> %.2f units/hour (score %.4f)\n",
		b.Capacities, b.ImplementationCost, b.ThroughputMean, b.Score)
}
