package line

// CompletionRecord is one unit's emitted record after it reached the
// terminal queue and survived warm-up filtering. Stations is indexed by
// station position; entries with Done unset mean the unit has no recorded
// times there.
type CompletionRecord struct {
	UnitID   string
	Created  float64
	Finished float64
	LeadTime float64
	Stations []StationTimes
}

// StationStats is the end-of-run summary for one station.
type StationStats struct {
	Name         string
	Capacity     int
	Processed    int
	BusyTime     float64
	DownTime     float64
	Utilization  float64
	Availability float64
}

// QueueSample is one monitor observation of per-station queue lengths,
// parallel to the line's stations.
type QueueSample struct {
	Time    float64
	Lengths []int
}

// WIPSample is one monitor observation of work-in-process: units arrived
// but not yet through the last station.
type WIPSample struct {
	Time float64
	WIP  int
}

// Result bundles all outputs of one simulation run for downstream consumers
// (analytics, the optimizer, the CLI report).
type Result struct {
	RunID    string // correlation id for external consumers; not part of determinism
	Scenario ScenarioConfig
	Duration float64 // simulated minutes
	Warmup   float64 // warm-up boundary in minutes

	Records  []CompletionRecord
	Stations []StationStats
	Queues   []QueueSample
	WIP      []WIPSample
}

// Completed returns the number of post-warm-up completion records.
func (r *Result) Completed() int {
	return len(r.Records)
}

// StatsWindow returns the observation window the station counters cover:
// the post-warm-up portion of the run, floored at zero for runs shorter
// than their warm-up.
func (r *Result) StatsWindow() float64 {
	w := r.Duration - r.Warmup
	if w < 0 {
		return 0
	}
	return w
}
