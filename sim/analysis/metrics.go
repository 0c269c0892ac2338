// Package analysis turns raw simulation output into summary metrics,
// bottleneck rankings, cost breakdowns, and real-vs-simulated validation
// scores. Everything here is pure arithmetic over a finished run's records
// and samples; nothing touches the scheduler or draws random numbers.
package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/line"
)

// Metric keys returned by ComputeMetrics. A key is present only when the run
// produced the data needed to compute it; callers must check presence rather
// than relying on zero values.
const (
	MetricThroughputPerHour = "throughput_per_hour"
	MetricTotalCompleted    = "total_completed"
	MetricAvgLeadTime       = "avg_lead_time"
	MetricStdLeadTime       = "std_lead_time"
	MetricMinLeadTime       = "min_lead_time"
	MetricMaxLeadTime       = "max_lead_time"
	MetricAvgUtilization    = "avg_utilization"
	MetricMinUtilization    = "min_utilization"
	MetricMaxUtilization    = "max_utilization"
	MetricAvgWIP            = "avg_wip"
	MetricMaxWIP            = "max_wip"
	MetricAvgQueueLength    = "avg_queue_length"
)

// ComputeMetrics summarizes one run. window is the post-warm-up horizon in
// minutes (Result.StatsWindow); throughput and total_completed are always
// present, lead-time keys require at least one completion, utilization
// requires station stats, and the WIP/queue keys require monitor samples.
func ComputeMetrics(records []line.CompletionRecord, stats []line.StationStats,
	queues []line.QueueSample, wip []line.WIPSample, window float64) map[string]float64 {

	m := make(map[string]float64, 12)

	m[MetricTotalCompleted] = float64(len(records))
	m[MetricThroughputPerHour] = 0
	if window > 0 {
		m[MetricThroughputPerHour] = float64(len(records)) / (window / 60.0)
	}

	if len(records) > 0 {
		leads := make([]float64, len(records))
		for i, r := range records {
			leads[i] = r.LeadTime
		}
		m[MetricAvgLeadTime] = stat.Mean(leads, nil)
		m[MetricStdLeadTime] = sampleStd(leads)
		m[MetricMinLeadTime] = minOf(leads)
		m[MetricMaxLeadTime] = maxOf(leads)
	}

	if len(stats) > 0 {
		utils := make([]float64, len(stats))
		for i, s := range stats {
			utils[i] = s.Utilization
		}
		m[MetricAvgUtilization] = stat.Mean(utils, nil)
		m[MetricMinUtilization] = minOf(utils)
		m[MetricMaxUtilization] = maxOf(utils)
	}

	if len(wip) > 0 {
		levels := make([]float64, len(wip))
		for i, s := range wip {
			levels[i] = float64(s.WIP)
		}
		m[MetricAvgWIP] = stat.Mean(levels, nil)
		m[MetricMaxWIP] = maxOf(levels)
	}

	if len(queues) > 0 {
		totals := make([]float64, len(queues))
		for i, s := range queues {
			sum := 0
			for _, l := range s.Lengths {
				sum += l
			}
			totals[i] = float64(sum)
		}
		m[MetricAvgQueueLength] = stat.Mean(totals, nil)
	}

	return m
}

// MetricsFromResult is the common entry point: it unpacks a Result and feeds
// it through ComputeMetrics.
func MetricsFromResult(res *line.Result) map[string]float64 {
	return ComputeMetrics(res.Records, res.Stations, res.Queues, res.WIP, res.StatsWindow())
}

// ProductionPoint is one step of the cumulative output curve.
type ProductionPoint struct {
	Time       float64
	Cumulative int
}

// ProductionOverTime builds the cumulative completion curve from a run's
// records, ordered by finish time.
func ProductionOverTime(records []line.CompletionRecord) []ProductionPoint {
	times := make([]float64, len(records))
	for i, r := range records {
		times[i] = r.Finished
	}
	sort.Float64s(times)

	points := make([]ProductionPoint, len(times))
	for i, t := range times {
		points[i] = ProductionPoint{Time: t, Cumulative: i + 1}
	}
	return points
}

// sampleStd is the sample standard deviation, with fewer than two
// observations defined as zero spread rather than NaN.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}
