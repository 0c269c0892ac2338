package line

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim"
)

// RNG subsystem labels. Each process family draws from its own stream, so
// adding a station or toggling breakdowns never shifts another subsystem's
// draws.
const subsystemArrivals = "arrivals"

func subsystemService(station string) string { return "service/" + station }
func subsystemFailure(station string) string { return "failure/" + station }

// ProductionLine composes the stations into a pipeline: one arrival
// generator feeding the first buffer, per-capacity-unit workers at every
// station, a breakdown generator per unreliable station, a periodic monitor,
// and a one-shot warm-up reset. One line serves exactly one run; replications
// each build a fresh line with an independently seeded RNG.
type ProductionLine struct {
	Scenario ScenarioConfig
	Sched    *sim.Scheduler
	Stations []*Station
	Buffers  []*Buffer
	Units    []*Unit // every unit created, in arrival order
	Finished []*Unit // terminal queue, in completion order
	Warmup   float64

	rng          *sim.PartitionedRNG
	queueSamples []QueueSample
	wipSamples   []WIPSample
}

// NewProductionLine wires a line from an already-validated scenario and
// starts its processes. Workers suspend on their empty input buffers; the
// first arrival, first failures, the monitor tick, and the warm-up reset are
// queued as the initial events.
func NewProductionLine(cfg ScenarioConfig, warmup float64, seed int64) *ProductionLine {
	pl := &ProductionLine{
		Scenario: cfg,
		Sched:    sim.NewScheduler(),
		Stations: make([]*Station, len(cfg.Stations)),
		Buffers:  make([]*Buffer, len(cfg.Stations)),
		Warmup:   warmup,
		rng:      sim.NewPartitionedRNG(seed),
	}
	for i, sc := range cfg.Stations {
		pl.Stations[i] = NewStation(sc, cfg.ProcDistribution)
		pl.Buffers[i] = &Buffer{}
	}

	// The reset is scheduled first so that, at the boundary instant, it
	// fires ahead of any same-time event queued during construction.
	if warmup > 0 {
		pl.Sched.Schedule(warmup, pl.resetAtWarmup)
	}
	for i := range pl.Stations {
		for c := 0; c < pl.Stations[i].Capacity; c++ {
			pl.runWorker(i)
		}
	}
	pl.runArrivals()
	for i := range pl.Stations {
		if pl.Stations[i].HasBreakdowns() {
			pl.runBreakdowns(i)
		}
	}
	pl.runMonitor()

	return pl
}

// runArrivals starts the arrival generator: sample an exponential
// interarrival gap, create the unit, stamp its first queue entry, hand it to
// the first buffer, repeat.
func (pl *ProductionLine) runArrivals() {
	rng := pl.rng.ForSubsystem(subsystemArrivals)
	iat := sim.NewDurationSampler(sim.DistExponential, pl.Scenario.InterarrivalMean)

	var loop func()
	loop = func() {
		pl.Sched.Schedule(iat.Sample(rng), func() {
			now := pl.Sched.Now()
			u := NewUnit(fmt.Sprintf("P%d", len(pl.Units)), now, len(pl.Stations))
			pl.Units = append(pl.Units, u)

			u.Stations[0].QueueEnter = now
			u.Stations[0].Entered = true
			pl.Buffers[0].Put(u)

			loop()
		})
	}
	loop()
}

// runWorker starts one station worker: take a unit from the input buffer,
// request a machine slot at production priority, serve, record, release,
// and pass the unit on. The wait time persisted on the unit is measured at
// admission, so it includes any time a repair held the slot ahead of it.
func (pl *ProductionLine) runWorker(idx int) {
	st := pl.Stations[idx]
	buf := pl.Buffers[idx]
	rng := pl.rng.ForSubsystem(subsystemService(st.Name))

	var loop func()
	loop = func() {
		buf.Take(func(u *Unit) {
			st.Resource.Request(sim.PriorityProduction, func() {
				now := pl.Sched.Now()
				ts := &u.Stations[idx]
				ts.Start = now
				ts.Started = true
				ts.Wait = now - ts.QueueEnter

				d := st.Service.Sample(rng)
				pl.Sched.Schedule(d, func() {
					st.RecordProcessing(d)
					st.Resource.Release()

					ts.End = pl.Sched.Now()
					ts.Done = true
					pl.forward(u, idx)

					loop()
				})
			})
		})
	}
	loop()
}

// forward moves a unit that finished service at station idx into the next
// buffer, or into the terminal queue after the last station.
func (pl *ProductionLine) forward(u *Unit, idx int) {
	now := pl.Sched.Now()
	if idx+1 < len(pl.Stations) {
		next := &u.Stations[idx+1]
		next.QueueEnter = now
		next.Entered = true
		pl.Buffers[idx+1].Put(u)
		return
	}
	u.Finished = now
	u.Complete = true
	pl.Finished = append(pl.Finished, u)
}

// runBreakdowns starts the breakdown generator for station idx: wait an
// exponential time-to-failure, claim a slot at breakdown priority, hold it
// for an exponential repair time, record the downtime, release, repeat.
// Admission is non-preemptive, so in-progress work finishes before the
// failure takes effect; downtime is counted from admission, not from the
// sampled failure instant.
func (pl *ProductionLine) runBreakdowns(idx int) {
	st := pl.Stations[idx]
	rng := pl.rng.ForSubsystem(subsystemFailure(st.Name))
	failure := sim.NewDurationSampler(sim.DistExponential, st.MTBF)
	repair := sim.NewDurationSampler(sim.DistExponential, st.MTTR)

	var loop func()
	loop = func() {
		pl.Sched.Schedule(failure.Sample(rng), func() {
			st.Resource.Request(sim.PriorityBreakdown, func() {
				d := repair.Sample(rng)
				pl.Sched.Schedule(d, func() {
					st.RecordDowntime(d)
					st.Resource.Release()
					loop()
				})
			})
		})
	}
	loop()
}

// runMonitor starts the periodic sampler. Samples taken before the warm-up
// boundary are discarded at the source.
func (pl *ProductionLine) runMonitor() {
	interval := pl.Scenario.MonitorInterval

	var loop func()
	loop = func() {
		pl.Sched.Schedule(interval, func() {
			if now := pl.Sched.Now(); now >= pl.Warmup {
				lengths := make([]int, len(pl.Buffers))
				for i, b := range pl.Buffers {
					lengths[i] = b.Len()
				}
				pl.queueSamples = append(pl.queueSamples, QueueSample{Time: now, Lengths: lengths})
				pl.wipSamples = append(pl.wipSamples, WIPSample{Time: now, WIP: len(pl.Units) - len(pl.Finished)})
			}
			loop()
		})
	}
	loop()
}

// resetAtWarmup zeroes every station's counters, exactly once. Units already
// in flight keep flowing; only the accumulated statistics restart.
func (pl *ProductionLine) resetAtWarmup() {
	for _, st := range pl.Stations {
		st.ResetCounters()
	}
	logrus.Debugf("[t=%.1f] warm-up boundary: station counters reset", pl.Sched.Now())
}

// Run advances the line to simTime and assembles the run's outputs.
func (pl *ProductionLine) Run(simTime float64) *Result {
	pl.Sched.Run(simTime)

	res := &Result{
		RunID:    uuid.NewString(),
		Scenario: pl.Scenario,
		Duration: simTime,
		Warmup:   pl.Warmup,
		Records:  pl.collectRecords(),
		Stations: pl.collectStats(simTime),
		Queues:   pl.queueSamples,
		WIP:      pl.wipSamples,
	}
	logrus.Infof("Simulation ended at t=%.1f: %d arrivals, %d completions, %d records after warm-up",
		pl.Sched.Now(), len(pl.Units), len(pl.Finished), len(res.Records))
	return res
}

// collectRecords walks every unit that reached the terminal queue, drops
// those that finished before the warm-up boundary, and emits one immutable
// record per survivor, in arrival order.
func (pl *ProductionLine) collectRecords() []CompletionRecord {
	records := make([]CompletionRecord, 0, len(pl.Finished))
	for _, u := range pl.Units {
		if !u.Complete || u.Finished < pl.Warmup {
			continue
		}
		times := make([]StationTimes, len(u.Stations))
		copy(times, u.Stations)
		records = append(records, CompletionRecord{
			UnitID:   u.ID,
			Created:  u.Created,
			Finished: u.Finished,
			LeadTime: u.Finished - u.Created,
			Stations: times,
		})
	}
	return records
}

// collectStats summarizes each station over the post-warm-up window.
func (pl *ProductionLine) collectStats(simTime float64) []StationStats {
	elapsed := simTime - pl.Warmup
	if elapsed < 0 {
		elapsed = 0
	}
	out := make([]StationStats, len(pl.Stations))
	for i, st := range pl.Stations {
		out[i] = st.Stats(elapsed)
	}
	return out
}

// RunSimulation validates the scenario and executes one full run. This is
// the entry point external collaborators (CLI, service layers) call.
func RunSimulation(cfg ScenarioConfig, simTime, warmup float64, seed int64) (*Result, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if math.IsNaN(simTime) || math.IsInf(simTime, 0) || simTime <= 0 {
		return nil, fmt.Errorf("sim duration must be positive, got %f", simTime)
	}
	if math.IsNaN(warmup) || math.IsInf(warmup, 0) || warmup < 0 {
		return nil, fmt.Errorf("warm-up must be non-negative, got %f", warmup)
	}

	pl := NewProductionLine(cfg, warmup, seed)
	return pl.Run(simTime), nil
}
