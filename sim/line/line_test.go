package line

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim"
)

func singleStationScenario(procDist string, procMean float64) ScenarioConfig {
	return ScenarioConfig{
		Name:             "solo",
		Seed:             7,
		InterarrivalMean: 2.0,
		ProcDistribution: procDist,
		MonitorInterval:  5,
		Stations: []StationConfig{
			{Name: "Solo", Capacity: 1, ProcMean: procMean},
		},
	}
}

func TestRunSimulationDeterministic(t *testing.T) {
	cfg := DefaultScenario()

	a, err := RunSimulation(cfg, 480, 60, 42)
	require.NoError(t, err)
	b, err := RunSimulation(cfg, 480, 60, 42)
	require.NoError(t, err)

	require.Equal(t, a.Records, b.Records)
	require.Equal(t, a.Stations, b.Stations)
	require.Equal(t, a.Queues, b.Queues)
	require.Equal(t, a.WIP, b.WIP)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRunSimulationSeedChangesOutcome(t *testing.T) {
	cfg := DefaultScenario()

	a, err := RunSimulation(cfg, 480, 60, 1)
	require.NoError(t, err)
	b, err := RunSimulation(cfg, 480, 60, 2)
	require.NoError(t, err)

	assert.NotEqual(t, a.Records, b.Records)
}

// Warm-up must only truncate what a full-horizon run observes, never change
// the trajectory itself: the reset event draws no random numbers, so runs
// with and without a warm-up see identical unit histories.
func TestWarmupTruncatesNotRewrites(t *testing.T) {
	cfg := DefaultScenario()
	const warmup = 60.0

	full, err := RunSimulation(cfg, 480, 0, 42)
	require.NoError(t, err)
	truncated, err := RunSimulation(cfg, 480, warmup, 42)
	require.NoError(t, err)
	require.NotEmpty(t, truncated.Records)

	wantRecords := make([]CompletionRecord, 0, len(full.Records))
	for _, r := range full.Records {
		if r.Finished >= warmup {
			wantRecords = append(wantRecords, r)
		}
	}
	require.Equal(t, wantRecords, truncated.Records)

	var wantQueues []QueueSample
	for _, q := range full.Queues {
		if q.Time >= warmup {
			wantQueues = append(wantQueues, q)
		}
	}
	require.Equal(t, wantQueues, truncated.Queues)

	var wantWIP []WIPSample
	for _, w := range full.WIP {
		if w.Time >= warmup {
			wantWIP = append(wantWIP, w)
		}
	}
	require.Equal(t, wantWIP, truncated.WIP)
}

// On a single-station line every post-warm-up completion increments the
// processed counter exactly once, so the counter reset at the boundary is
// directly observable against the record filter.
func TestWarmupResetsStationCounters(t *testing.T) {
	cfg := singleStationScenario(sim.DistDeterministic, 3.0)

	res, err := RunSimulation(cfg, 200, 50, 7)
	require.NoError(t, err)
	require.NotEmpty(t, res.Records)

	st := res.Stations[0]
	assert.Equal(t, len(res.Records), st.Processed)

	var busy float64
	for _, r := range res.Records {
		busy += r.Stations[0].End - r.Stations[0].Start
	}
	assert.InDelta(t, busy, st.BusyTime, 1e-6)
}

func TestUtilizationMatchesDeterministicService(t *testing.T) {
	cfg := singleStationScenario(sim.DistDeterministic, 5.0)

	res, err := RunSimulation(cfg, 100, 0, 3)
	require.NoError(t, err)

	st := res.Stations[0]
	require.GreaterOrEqual(t, st.Processed, 3)
	assert.LessOrEqual(t, st.Processed, 20, "one machine at 5 min per unit cannot finish more in 100 min")
	assert.InDelta(t, 5.0*float64(st.Processed)/100.0, st.Utilization, 1e-9)
	assert.Equal(t, len(res.Records), st.Processed)

	for _, r := range res.Records {
		assert.GreaterOrEqual(t, r.LeadTime, 5.0-1e-9)
	}
}

func TestBreakdownsAccrueDowntime(t *testing.T) {
	cfg := singleStationScenario(sim.DistExponential, 1.0)
	cfg.Stations[0].MTBF = 5
	cfg.Stations[0].MTTR = 2

	res, err := RunSimulation(cfg, 400, 0, 11)
	require.NoError(t, err)

	st := res.Stations[0]
	assert.Greater(t, st.DownTime, 0.0)
	assert.Less(t, st.Availability, 1.0)
	assert.GreaterOrEqual(t, st.Availability, 0.0)
	assert.LessOrEqual(t, st.BusyTime+st.DownTime, 400.0+1e-9,
		"one machine slot cannot be held longer than the whole run")
}

func TestMonitorSamplesAtInterval(t *testing.T) {
	cfg := singleStationScenario(sim.DistExponential, 3.0)

	res, err := RunSimulation(cfg, 20, 0, 5)
	require.NoError(t, err)

	require.Len(t, res.Queues, 4)
	require.Len(t, res.WIP, 4)
	for i, want := range []float64{5, 10, 15, 20} {
		assert.Equal(t, want, res.Queues[i].Time)
		assert.Equal(t, want, res.WIP[i].Time)
		require.Len(t, res.Queues[i].Lengths, 1)
		assert.GreaterOrEqual(t, res.Queues[i].Lengths[0], 0)
		assert.GreaterOrEqual(t, res.WIP[i].WIP, 0)
	}
}

func TestRunShorterThanWarmup(t *testing.T) {
	cfg := singleStationScenario(sim.DistExponential, 3.0)

	res, err := RunSimulation(cfg, 10, 50, 7)
	require.NoError(t, err)

	assert.Empty(t, res.Records)
	assert.Empty(t, res.Queues)
	assert.Empty(t, res.WIP)
	assert.Equal(t, 0.0, res.StatsWindow())
	for _, st := range res.Stations {
		assert.Equal(t, 0.0, st.Utilization)
		assert.Equal(t, 1.0, st.Availability)
	}
}

func TestRunSimulationRejectsBadInput(t *testing.T) {
	valid := singleStationScenario(sim.DistExponential, 3.0)

	bad := valid
	bad.Stations = []StationConfig{{Name: "X", Capacity: 0, ProcMean: 1}}
	_, err := RunSimulation(bad, 100, 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")

	_, err = RunSimulation(valid, 0, 0, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration")

	_, err = RunSimulation(valid, math.NaN(), 0, 1)
	require.Error(t, err)

	_, err = RunSimulation(valid, 100, -1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warm-up")

	_, err = RunSimulation(valid, 100, math.Inf(1), 1)
	require.Error(t, err)
}

func TestRecordTimelineMonotonic(t *testing.T) {
	cfg := DefaultScenario()

	res, err := RunSimulation(cfg, 480, 60, 42)
	require.NoError(t, err)
	require.NotEmpty(t, res.Records)

	for _, r := range res.Records {
		require.Len(t, r.Stations, 4)
		prevEnd := r.Created
		for i, ts := range r.Stations {
			require.True(t, ts.Entered && ts.Started && ts.Done, "record %s station %d incomplete", r.UnitID, i)
			assert.GreaterOrEqual(t, ts.QueueEnter, prevEnd-1e-9)
			assert.GreaterOrEqual(t, ts.Start, ts.QueueEnter-1e-9)
			assert.GreaterOrEqual(t, ts.End, ts.Start)
			assert.InDelta(t, ts.Start-ts.QueueEnter, ts.Wait, 1e-9)
			prevEnd = ts.End
		}
		assert.InDelta(t, r.Stations[3].End, r.Finished, 1e-12)
		assert.InDelta(t, r.Finished-r.Created, r.LeadTime, 1e-12)
		assert.Greater(t, r.LeadTime, 0.0)
	}
}
