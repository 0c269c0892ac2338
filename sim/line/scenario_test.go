package line

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenarioFile(t, `
name: two-stage
seed: 7
interarrival_mean: 1.5
proc_distribution: det
monitor_interval: 2
stations:
  - name: Milling
    capacity: 2
    proc_mean: 3.0
    mtbf: 120
    mttr: 10
  - name: Polishing
    capacity: 1
    proc_mean: 1.0
`)
	cfg, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "two-stage", cfg.Name)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 1.5, cfg.InterarrivalMean)
	assert.Equal(t, sim.DistDeterministic, cfg.ProcDistribution)
	assert.Equal(t, 2.0, cfg.MonitorInterval)
	require.Len(t, cfg.Stations, 2)
	assert.True(t, cfg.Stations[0].HasBreakdowns())
	assert.False(t, cfg.Stations[1].HasBreakdowns())
	assert.NoError(t, cfg.Validate())
}

func TestLoadScenarioAppliesDefaults(t *testing.T) {
	path := writeScenarioFile(t, `
seed: 1
interarrival_mean: 2.0
stations:
  - name: Solo
    capacity: 1
    proc_mean: 1.0
`)
	cfg, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, sim.DistExponential, cfg.ProcDistribution)
	assert.Equal(t, DefaultMonitorInterval, cfg.MonitorInterval)
}

func TestLoadScenarioRejectsUnknownKeys(t *testing.T) {
	path := writeScenarioFile(t, `
seed: 1
interarrival_mean: 2.0
interarival_stdev: 0.5
stations:
  - name: Solo
    capacity: 1
    proc_mean: 1.0
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing scenario")
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading scenario")
}

func TestScenarioValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScenarioConfig)
		wantErr string
	}{
		{"default scenario is valid", func(c *ScenarioConfig) {}, ""},
		{"zero interarrival mean", func(c *ScenarioConfig) { c.InterarrivalMean = 0 }, "interarrival_mean"},
		{"NaN interarrival mean", func(c *ScenarioConfig) { c.InterarrivalMean = math.NaN() }, "interarrival_mean"},
		{"unknown distribution", func(c *ScenarioConfig) { c.ProcDistribution = "uniform" }, "proc_distribution"},
		{"negative monitor interval", func(c *ScenarioConfig) { c.MonitorInterval = -1 }, "monitor_interval"},
		{"negative cost", func(c *ScenarioConfig) { c.Cost = -1 }, "cost"},
		{"no stations", func(c *ScenarioConfig) { c.Stations = nil }, "at least one station"},
		{"zero capacity", func(c *ScenarioConfig) { c.Stations[0].Capacity = 0 }, "capacity"},
		{"zero processing mean", func(c *ScenarioConfig) { c.Stations[1].ProcMean = 0 }, "proc_mean"},
		{"mttr without mtbf", func(c *ScenarioConfig) { c.Stations[0].MTBF = 0 }, "both"},
		{"mtbf without mttr", func(c *ScenarioConfig) { c.Stations[0].MTTR = 0 }, "both"},
		{"duplicate station names", func(c *ScenarioConfig) { c.Stations[1].Name = c.Stations[0].Name }, "duplicate"},
		{"empty station name", func(c *ScenarioConfig) { c.Stations[2].Name = "" }, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultScenario()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWithCapacitiesDeepCopy(t *testing.T) {
	base := DefaultScenario()
	derived := base.WithCapacities([]int{3, 2, 4, 1})
	assert.Equal(t, []int{3, 2, 4, 1}, stationCapacities(derived))
	assert.Equal(t, []int{1, 1, 2, 1}, stationCapacities(base), "baseline must not be mutated")
	assert.Equal(t, 10, derived.TotalCapacity())
	assert.Equal(t, 5, base.TotalCapacity())
}

func TestWithCapacitiesShortSlice(t *testing.T) {
	base := DefaultScenario()
	derived := base.WithCapacities([]int{9})
	assert.Equal(t, []int{9, 1, 2, 1}, stationCapacities(derived))
}

func stationCapacities(c ScenarioConfig) []int {
	caps := make([]int, len(c.Stations))
	for i := range c.Stations {
		caps[i] = c.Stations[i].Capacity
	}
	return caps
}
