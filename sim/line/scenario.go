package line

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Mennah-Elsheikh/production-line-digital-twin/sim"
)

// DefaultMonitorInterval is the queue/WIP sampling period in minutes when a
// scenario does not set one.
const DefaultMonitorInterval = 5.0

// ScenarioConfig parameterizes one production-line configuration. It is
// immutable during a run: every replication builds its own ProductionLine
// from a scenario, never the other way around.
type ScenarioConfig struct {
	Name             string          `yaml:"name,omitempty"`
	Seed             int64           `yaml:"seed"`
	InterarrivalMean float64         `yaml:"interarrival_mean"`
	ProcDistribution string          `yaml:"proc_distribution,omitempty"` // "exp" (default) or "det"
	MonitorInterval  float64         `yaml:"monitor_interval,omitempty"`  // minutes, default 5
	Cost             float64         `yaml:"cost,omitempty"`              // implementation cost for scenario comparison
	Stations         []StationConfig `yaml:"stations"`
}

// StationConfig defines one station of the pipeline. MTBF and MTTR are
// either both zero (the station never fails) or both positive (a breakdown
// generator is armed with exponential failure/repair times).
type StationConfig struct {
	Name     string  `yaml:"name"`
	Capacity int     `yaml:"capacity"`
	ProcMean float64 `yaml:"proc_mean"`
	MTBF     float64 `yaml:"mtbf,omitempty"`
	MTTR     float64 `yaml:"mttr,omitempty"`
}

// HasBreakdowns reports whether this station gets a breakdown generator.
func (s *StationConfig) HasBreakdowns() bool {
	return s.MTBF > 0 && s.MTTR > 0
}

// DefaultScenario returns the baseline four-station line: Cutting, Drilling,
// Assembly (two parallel machines), Painting.
func DefaultScenario() ScenarioConfig {
	return ScenarioConfig{
		Name:             "baseline",
		Seed:             42,
		InterarrivalMean: 2.0,
		ProcDistribution: sim.DistExponential,
		MonitorInterval:  DefaultMonitorInterval,
		Stations: []StationConfig{
			{Name: "Cutting", Capacity: 1, ProcMean: 3.0, MTBF: 180, MTTR: 8},
			{Name: "Drilling", Capacity: 1, ProcMean: 4.5, MTBF: 150, MTTR: 12},
			{Name: "Assembly", Capacity: 2, ProcMean: 6.0, MTBF: 240, MTTR: 15},
			{Name: "Painting", Capacity: 1, ProcMean: 2.5, MTBF: 200, MTTR: 6},
		},
	}
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var cfg ScenarioConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills omitted optional fields in-place. Idempotent.
func (c *ScenarioConfig) ApplyDefaults() {
	if c.ProcDistribution == "" {
		c.ProcDistribution = sim.DistExponential
	}
	if c.MonitorInterval == 0 {
		c.MonitorInterval = DefaultMonitorInterval
	}
}

// Validate checks that all fields describe a runnable line, reporting the
// first violation found.
func (c *ScenarioConfig) Validate() error {
	if err := validateFinitePositive("interarrival_mean", c.InterarrivalMean); err != nil {
		return err
	}
	if c.ProcDistribution != "" && c.ProcDistribution != sim.DistExponential && c.ProcDistribution != sim.DistDeterministic {
		return fmt.Errorf("unknown proc_distribution %q; valid: exp, det", c.ProcDistribution)
	}
	if c.MonitorInterval != 0 {
		if err := validateFinitePositive("monitor_interval", c.MonitorInterval); err != nil {
			return err
		}
	}
	if math.IsNaN(c.Cost) || math.IsInf(c.Cost, 0) || c.Cost < 0 {
		return fmt.Errorf("cost must be non-negative and finite, got %f", c.Cost)
	}
	if len(c.Stations) == 0 {
		return fmt.Errorf("at least one station required")
	}
	seen := make(map[string]bool, len(c.Stations))
	for i := range c.Stations {
		if err := validateStation(&c.Stations[i], i); err != nil {
			return err
		}
		if seen[c.Stations[i].Name] {
			return fmt.Errorf("station[%d]: duplicate name %q", i, c.Stations[i].Name)
		}
		seen[c.Stations[i].Name] = true
	}
	return nil
}

func validateStation(s *StationConfig, idx int) error {
	prefix := fmt.Sprintf("station[%d]", idx)
	if s.Name == "" {
		return fmt.Errorf("%s: name must not be empty", prefix)
	}
	if s.Capacity < 1 {
		return fmt.Errorf("%s: capacity must be >= 1, got %d", prefix, s.Capacity)
	}
	if err := validateFinitePositive(prefix+".proc_mean", s.ProcMean); err != nil {
		return err
	}
	// Reliability parameters come as a pair. A zero MTBF with a repair time
	// set would divide by zero in failure sampling, so it is rejected here.
	switch {
	case s.MTBF == 0 && s.MTTR == 0:
		// reliable station, no breakdown generator
	case s.MTBF > 0 && s.MTTR > 0:
		if err := validateFinitePositive(prefix+".mtbf", s.MTBF); err != nil {
			return err
		}
		if err := validateFinitePositive(prefix+".mttr", s.MTTR); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s: mtbf and mttr must both be positive or both omitted, got mtbf=%f mttr=%f",
			prefix, s.MTBF, s.MTTR)
	}
	return nil
}

// WithCapacities returns a deep copy of the scenario with station capacities
// replaced by caps (parallel to Stations). Used by the optimizer to derive
// candidate configurations without mutating the baseline.
func (c *ScenarioConfig) WithCapacities(caps []int) ScenarioConfig {
	out := *c
	out.Stations = make([]StationConfig, len(c.Stations))
	copy(out.Stations, c.Stations)
	for i := range out.Stations {
		if i < len(caps) {
			out.Stations[i].Capacity = caps[i]
		}
	}
	return out
}

// TotalCapacity returns the sum of station capacities.
func (c *ScenarioConfig) TotalCapacity() int {
	total := 0
	for i := range c.Stations {
		total += c.Stations[i].Capacity
	}
	return total
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
