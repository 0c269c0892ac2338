package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim/line"
)

func recordsWithLead(n int, lead float64) []line.CompletionRecord {
	out := make([]line.CompletionRecord, n)
	for i := range out {
		out[i] = line.CompletionRecord{LeadTime: lead}
	}
	return out
}

func TestCompareRealVsSimPerfectMatch(t *testing.T) {
	records := recordsWithLead(10, 20)

	v := CompareRealVsSim(records, records, 60)
	assert.InDelta(t, 10.0, v.ThroughputReal, 1e-12)
	assert.InDelta(t, 10.0, v.ThroughputSim, 1e-12)
	assert.Zero(t, v.ThroughputErrorPct)
	assert.Zero(t, v.LeadTimeErrorPct)
	assert.Equal(t, 100.0, v.ValidationScore)
}

func TestCompareRealVsSimSignedErrors(t *testing.T) {
	observed := recordsWithLead(10, 20)
	simulated := recordsWithLead(8, 25)

	v := CompareRealVsSim(observed, simulated, 60)
	assert.InDelta(t, 10.0, v.ThroughputReal, 1e-12)
	assert.InDelta(t, 8.0, v.ThroughputSim, 1e-12)
	assert.InDelta(t, -20.0, v.ThroughputErrorPct, 1e-9)
	assert.InDelta(t, 25.0, v.LeadTimeErrorPct, 1e-9)
	assert.InDelta(t, 77.5, v.ValidationScore, 1e-9) // 100 - (20+25)/2
}

func TestCompareRealVsSimEmptyInputsStayDefined(t *testing.T) {
	v := CompareRealVsSim(nil, nil, 480)
	assert.Zero(t, v.ThroughputReal)
	assert.Zero(t, v.LeadTimeReal)
	assert.Equal(t, 100.0, v.ValidationScore, "two empty datasets agree")

	v = CompareRealVsSim(nil, recordsWithLead(5, 10), 480)
	assert.InDelta(t, 100.0, v.ThroughputErrorPct, 1e-12, "zero baseline saturates the error")
	assert.InDelta(t, 100.0, v.LeadTimeErrorPct, 1e-12)
	assert.Equal(t, 0.0, v.ValidationScore)
}

func TestCompareRealVsSimScoreNeverNegative(t *testing.T) {
	observed := recordsWithLead(100, 10)
	simulated := recordsWithLead(1, 1000)

	v := CompareRealVsSim(observed, simulated, 60)
	assert.GreaterOrEqual(t, v.ValidationScore, 0.0)
	assert.LessOrEqual(t, v.ValidationScore, 100.0)
}
