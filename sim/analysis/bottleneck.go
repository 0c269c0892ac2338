package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/line"
)

// Weighting of the bottleneck score components.
const (
	weightUtilization = 0.4
	weightQueue       = 0.2
	weightWait        = 0.2
	weightCycle       = 0.2
)

// BottleneckScore ranks one station's contribution to limiting line output.
type BottleneckScore struct {
	Station     string
	Score       float64 // composite in [0, 1]
	Utilization float64
	AvgQueue    float64 // mean input-queue length over monitor samples
	AvgWait     float64 // mean queue wait per unit, minutes
	CycleTime   float64 // mean gap between consecutive completions, minutes
}

// DetectBottleneck scores every station and returns them worst-first, stable
// on ties. The composite blends utilization with saturating transforms of
// queue length and wait (so an unbounded queue cannot drown out the other
// signals) and the station's completion cycle time relative to the slowest
// station.
func DetectBottleneck(stats []line.StationStats, records []line.CompletionRecord,
	queues []line.QueueSample) []BottleneckScore {

	cycles := make([]float64, len(stats))
	maxCycle := 0.0
	for i := range stats {
		cycles[i] = meanCycleTime(records, i)
		if cycles[i] > maxCycle {
			maxCycle = cycles[i]
		}
	}

	scores := make([]BottleneckScore, len(stats))
	for i, st := range stats {
		s := BottleneckScore{
			Station:     st.Name,
			Utilization: st.Utilization,
			AvgQueue:    meanQueueLength(queues, i),
			AvgWait:     meanWait(records, i),
			CycleTime:   cycles[i],
		}
		score := weightUtilization*s.Utilization +
			weightQueue*(s.AvgQueue/(s.AvgQueue+2)) +
			weightWait*(s.AvgWait/(s.AvgWait+10))
		if maxCycle > 0 {
			score += weightCycle * (s.CycleTime / maxCycle)
		}
		s.Score = clamp01(score)
		scores[i] = s
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores
}

func meanQueueLength(queues []line.QueueSample, station int) float64 {
	var xs []float64
	for _, q := range queues {
		if station < len(q.Lengths) {
			xs = append(xs, float64(q.Lengths[station]))
		}
	}
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

func meanWait(records []line.CompletionRecord, station int) float64 {
	var xs []float64
	for _, r := range records {
		if station < len(r.Stations) {
			xs = append(xs, r.Stations[station].Wait)
		}
	}
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// meanCycleTime is the average gap between consecutive completions at one
// station, which for sorted finish times reduces to the span over the count
// of gaps. Fewer than two completions give no gap to measure.
func meanCycleTime(records []line.CompletionRecord, station int) float64 {
	var ends []float64
	for _, r := range records {
		if station < len(r.Stations) && r.Stations[station].Done {
			ends = append(ends, r.Stations[station].End)
		}
	}
	if len(ends) < 2 {
		return 0
	}
	sort.Float64s(ends)
	return (ends[len(ends)-1] - ends[0]) / float64(len(ends)-1)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
