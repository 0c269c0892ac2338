// Package optimize searches the capacity space of a production line for the
// configuration with the best throughput return on upgrade spend. Candidates
// are evaluated by replicated simulation runs with independently derived
// seeds, so results are reproducible regardless of evaluation parallelism.
package optimize

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim"
	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/analysis"
	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/line"
)

// DefaultCapacityUnitCost prices one added machine slot when Options leaves
// it unset.
const DefaultCapacityUnitCost = 100.0

// CapacityRange bounds one station's capacity in the search grid, inclusive.
type CapacityRange struct {
	Min int
	Max int
}

// Options parameterizes a grid search over station capacities.
type Options struct {
	Scenario line.ScenarioConfig
	// Ranges maps station names to the capacities to explore. Stations not
	// listed keep their baseline capacity.
	Ranges map[string]CapacityRange
	// MaxCost is the upgrade budget. Candidates costing more are skipped
	// before any simulation runs.
	MaxCost float64
	// MinThroughput, when positive, restricts the ranking to candidates
	// whose mean throughput reaches it. If none does, the search falls back
	// to the unfiltered ranking and flags the result.
	MinThroughput float64
	Replications  int
	SimTime       float64 // minutes per replication
	Warmup        float64 // minutes truncated from each replication
	Seed          int64   // master seed; per-replication seeds are derived
	// CapacityUnitCost prices one added slot; zero selects the default.
	CapacityUnitCost float64
	// Workers caps evaluation parallelism; zero or negative uses all CPUs.
	Workers int
	// Rates prices each candidate's runs; the zero value selects the
	// default rate card.
	Rates analysis.CostRates
}

// ConfigResult aggregates the replications of one capacity vector.
type ConfigResult struct {
	Capacities            []int // parallel to the scenario's stations
	ImplementationCost    float64
	ThroughputMean        float64
	ThroughputStd         float64
	LeadTimeMean          float64
	LeadTimeStd           float64
	BottleneckStation     string
	BottleneckUtilization float64
	CostMean              float64
	Score                 float64
	Feasible              bool
}

// Result is a completed search: every evaluated configuration in grid
// order, the winner, and whether the throughput target had to be waived.
type Result struct {
	Configs            []ConfigResult
	Best               *ConfigResult
	FallbackUnfiltered bool
}

// GridSearchOptimize enumerates the Cartesian product of the capacity
// ranges, discards candidates over budget, simulates the rest, and ranks
// them by throughput per unit of upgrade spend.
func GridSearchOptimize(opts Options) (*Result, error) {
	opts.Scenario.ApplyDefaults()
	if err := opts.Scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if math.IsNaN(opts.SimTime) || math.IsInf(opts.SimTime, 0) || opts.SimTime <= 0 {
		return nil, fmt.Errorf("sim duration must be positive, got %f", opts.SimTime)
	}
	if math.IsNaN(opts.Warmup) || math.IsInf(opts.Warmup, 0) || opts.Warmup < 0 {
		return nil, fmt.Errorf("warm-up must be non-negative, got %f", opts.Warmup)
	}
	if opts.Replications < 1 {
		return nil, fmt.Errorf("replications must be >= 1, got %d", opts.Replications)
	}
	if math.IsNaN(opts.MaxCost) || opts.MaxCost < 0 {
		return nil, fmt.Errorf("max cost must be non-negative, got %f", opts.MaxCost)
	}
	if opts.CapacityUnitCost == 0 {
		opts.CapacityUnitCost = DefaultCapacityUnitCost
	}
	if opts.CapacityUnitCost < 0 {
		return nil, fmt.Errorf("capacity unit cost must be positive, got %f", opts.CapacityUnitCost)
	}
	if opts.Rates == (analysis.CostRates{}) {
		opts.Rates = analysis.DefaultCostRates()
	}

	stations := opts.Scenario.Stations
	names := make([]string, 0, len(opts.Ranges))
	for name := range opts.Ranges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r := opts.Ranges[name]
		if !hasStation(stations, name) {
			return nil, fmt.Errorf("capacity range for unknown station %q", name)
		}
		if r.Min < 1 {
			return nil, fmt.Errorf("station %q: capacity range must start at >= 1, got %d", name, r.Min)
		}
		if r.Max < r.Min {
			return nil, fmt.Errorf("station %q: capacity range %d-%d is inverted", name, r.Min, r.Max)
		}
	}

	candidates := enumerateCandidates(stations, opts.Ranges)

	type candidate struct {
		caps []int
		cost float64
	}
	kept := make([]candidate, 0, len(candidates))
	for _, caps := range candidates {
		cost := implementationCost(caps, stations, opts.CapacityUnitCost)
		if cost <= opts.MaxCost {
			kept = append(kept, candidate{caps: caps, cost: cost})
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("no capacity configuration fits the %.0f cost budget", opts.MaxCost)
	}
	logrus.Infof("Grid search: evaluating %d of %d configurations, %d replications each",
		len(kept), len(candidates), opts.Replications)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(kept) {
		workers = len(kept)
	}

	// Results land at their candidate's index, so the grid order (and with
	// it the winner on score ties) is independent of goroutine scheduling.
	configs := make([]ConfigResult, len(kept))
	errs := make([]error, len(kept))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				configs[i], errs[i] = evaluateCandidate(opts, kept[i].caps, kept[i].cost)
			}
		}()
	}
	for i := range kept {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for i := range configs {
		configs[i].Feasible = opts.MinThroughput <= 0 || configs[i].ThroughputMean >= opts.MinThroughput
	}

	result := &Result{Configs: configs}
	pool := make([]int, 0, len(configs))
	for i := range configs {
		if configs[i].Feasible {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		logrus.Warnf("No configuration reached %.2f units/hour; ranking all %d evaluated configurations instead",
			opts.MinThroughput, len(configs))
		result.FallbackUnfiltered = true
		for i := range configs {
			pool = append(pool, i)
		}
	}

	best := pool[0]
	for _, i := range pool[1:] {
		if configs[i].Score > configs[best].Score {
			best = i
		}
	}
	result.Best = &result.Configs[best]

	logrus.Infof("Grid search done: best capacities %v, score %.4f", result.Best.Capacities, result.Best.Score)
	return result, nil
}

// enumerateCandidates builds the Cartesian product of per-station capacity
// choices, last station varying fastest.
func enumerateCandidates(stations []line.StationConfig, ranges map[string]CapacityRange) [][]int {
	grid := make([][]int, len(stations))
	for i, st := range stations {
		if r, ok := ranges[st.Name]; ok {
			for c := r.Min; c <= r.Max; c++ {
				grid[i] = append(grid[i], c)
			}
		} else {
			grid[i] = []int{st.Capacity}
		}
	}

	var out [][]int
	idx := make([]int, len(grid))
	for {
		caps := make([]int, len(grid))
		for i, j := range idx {
			caps[i] = grid[i][j]
		}
		out = append(out, caps)

		k := len(idx) - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < len(grid[k]) {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			return out
		}
	}
}

// evaluateCandidate runs the replications for one capacity vector and
// aggregates them. Seeds derive from the master seed, the vector, and the
// replication index, so every candidate's runs are independent of each other
// and of evaluation order.
func evaluateCandidate(opts Options, caps []int, implCost float64) (ConfigResult, error) {
	scenario := opts.Scenario.WithCapacities(caps)

	throughputs := make([]float64, opts.Replications)
	leads := make([]float64, opts.Replications)
	costs := make([]float64, opts.Replications)
	utilSums := make([]float64, len(caps))

	for r := 0; r < opts.Replications; r++ {
		seed := sim.DeriveSeed(opts.Seed, fmt.Sprintf("cfg=%v/rep=%d", caps, r))
		res, err := line.RunSimulation(scenario, opts.SimTime, opts.Warmup, seed)
		if err != nil {
			return ConfigResult{}, fmt.Errorf("replication %d of %v: %w", r, caps, err)
		}

		window := res.StatsWindow()
		if window > 0 {
			throughputs[r] = float64(len(res.Records)) / (window / 60.0)
		}
		if len(res.Records) > 0 {
			var lead float64
			for _, rec := range res.Records {
				lead += rec.LeadTime
			}
			leads[r] = lead / float64(len(res.Records))
		}
		costs[r] = analysis.CalculateFinancials(res.Stations, res.WIP, window/60.0, opts.Rates).Total
		for i, st := range res.Stations {
			utilSums[i] += st.Utilization
		}
	}

	cr := ConfigResult{
		Capacities:         caps,
		ImplementationCost: implCost,
		ThroughputMean:     stat.Mean(throughputs, nil),
		ThroughputStd:      sampleStd(throughputs),
		LeadTimeMean:       stat.Mean(leads, nil),
		LeadTimeStd:        sampleStd(leads),
		CostMean:           stat.Mean(costs, nil),
	}
	for i := range utilSums {
		mean := utilSums[i] / float64(opts.Replications)
		if i == 0 || mean > cr.BottleneckUtilization {
			cr.BottleneckUtilization = mean
			cr.BottleneckStation = opts.Scenario.Stations[i].Name
		}
	}
	cr.Score = cr.ThroughputMean / (1 + implCost)
	return cr, nil
}

// implementationCost prices the net capacity a candidate adds over the
// baseline. Shuffling slots between stations or removing them costs nothing.
func implementationCost(caps []int, stations []line.StationConfig, unitCost float64) float64 {
	delta := 0
	for i, c := range caps {
		delta += c - stations[i].Capacity
	}
	if delta <= 0 {
		return 0
	}
	return float64(delta) * unitCost
}

func hasStation(stations []line.StationConfig, name string) bool {
	for i := range stations {
		if stations[i].Name == name {
			return true
		}
	}
	return false
}

func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}
