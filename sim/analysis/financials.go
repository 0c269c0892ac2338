package analysis

import (
	"gonum.org/v1/gonum/stat"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/line"
)

// CostRates prices a run's resource usage. Currency units are abstract;
// the defaults describe the baseline factory model.
type CostRates struct {
	LaborRatePerHour       float64 // per machine-hour of staffed capacity
	BusyPowerRate          float64 // per machine-hour while processing
	IdlePowerRate          float64 // per machine-hour while idle
	DowntimeCostPerMinute  float64 // per minute under repair
	HoldingCostPerItemHour float64 // per unit-hour of work in progress
}

// DefaultCostRates returns the baseline rate card.
func DefaultCostRates() CostRates {
	return CostRates{
		LaborRatePerHour:       15.0,
		BusyPowerRate:          2.5,
		IdlePowerRate:          0.8,
		DowntimeCostPerMinute:  5.0,
		HoldingCostPerItemHour: 0.5,
	}
}

// CostBreakdown is the priced summary of one run window.
type CostBreakdown struct {
	Labor    float64
	Energy   float64
	Downtime float64
	Holding  float64
	Total    float64
}

// PerUnit spreads the total cost over completed units; ok is false when
// nothing finished.
func (c CostBreakdown) PerUnit(completed int) (float64, bool) {
	if completed <= 0 {
		return 0, false
	}
	return c.Total / float64(completed), true
}

// CalculateFinancials prices the post-warm-up window: labor for every
// staffed machine-hour, energy split between busy and idle rates, repair
// downtime by the minute, and WIP holding from the monitor's average level.
// A zero-length window prices to zero across the board.
func CalculateFinancials(stats []line.StationStats, wip []line.WIPSample,
	elapsedHours float64, rates CostRates) CostBreakdown {

	var b CostBreakdown
	if elapsedHours <= 0 {
		return b
	}

	for _, st := range stats {
		machineHours := float64(st.Capacity) * elapsedHours
		busyHours := st.BusyTime / 60.0
		downHours := st.DownTime / 60.0
		idleHours := machineHours - busyHours - downHours
		if idleHours < 0 {
			idleHours = 0
		}

		b.Labor += machineHours * rates.LaborRatePerHour
		b.Energy += busyHours*rates.BusyPowerRate + idleHours*rates.IdlePowerRate
		b.Downtime += st.DownTime * rates.DowntimeCostPerMinute
	}

	if len(wip) > 0 {
		levels := make([]float64, len(wip))
		for i, s := range wip {
			levels[i] = float64(s.WIP)
		}
		b.Holding = stat.Mean(levels, nil) * elapsedHours * rates.HoldingCostPerItemHour
	}

	b.Total = b.Labor + b.Energy + b.Downtime + b.Holding
	return b
}
