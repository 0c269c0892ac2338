package line

import (
	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim"
)

// Station is one stage of the pipeline: a named machine group with a
// capacity-limited resource, a service-time sampler, optional reliability
// parameters, and running counters. Counters are mutated only by the
// station's own workers and breakdown generator, and zeroed once at the
// warm-up boundary.
type Station struct {
	Name     string
	Capacity int
	Resource *sim.Resource
	Service  sim.DurationSampler
	MTBF     float64
	MTTR     float64

	BusyTime  float64
	DownTime  float64
	Processed int
}

// NewStation builds a station from its configuration. The service sampler
// kind (exponential or deterministic) is shared line-wide.
func NewStation(cfg StationConfig, procDistribution string) *Station {
	return &Station{
		Name:     cfg.Name,
		Capacity: cfg.Capacity,
		Resource: sim.NewResource(cfg.Capacity),
		Service:  sim.NewDurationSampler(procDistribution, cfg.ProcMean),
		MTBF:     cfg.MTBF,
		MTTR:     cfg.MTTR,
	}
}

// HasBreakdowns reports whether a breakdown generator runs for this station.
func (st *Station) HasBreakdowns() bool {
	return st.MTBF > 0 && st.MTTR > 0
}

// RecordProcessing accrues one finished service hold. The full sampled
// duration is attributed at the instant the hold ends; a hold still open at
// the horizon is never recorded.
func (st *Station) RecordProcessing(duration float64) {
	st.BusyTime += duration
	st.Processed++
}

// RecordDowntime accrues one finished repair hold, same attribution rule as
// RecordProcessing.
func (st *Station) RecordDowntime(duration float64) {
	st.DownTime += duration
}

// ResetCounters zeroes busy time, down time, and processed count. Called
// exactly once, at the warm-up boundary, to drop empty-system startup bias.
func (st *Station) ResetCounters() {
	st.BusyTime = 0
	st.DownTime = 0
	st.Processed = 0
}

// Stats derives the station's summary over an observation window of
// `elapsed` minutes. Utilization is busy / (elapsed * capacity) and
// availability 1 - down / (elapsed * capacity); with no elapsed time both
// are undefined and report the idle-and-healthy sentinels (0 and 1).
func (st *Station) Stats(elapsed float64) StationStats {
	s := StationStats{
		Name:         st.Name,
		Capacity:     st.Capacity,
		Processed:    st.Processed,
		BusyTime:     st.BusyTime,
		DownTime:     st.DownTime,
		Utilization:  0,
		Availability: 1,
	}
	if elapsed > 0 {
		machineMinutes := elapsed * float64(st.Capacity)
		s.Utilization = st.BusyTime / machineMinutes
		s.Availability = 1 - st.DownTime/machineMinutes
	}
	return s
}
