package sim

import "math/rand"

// Service-time distribution kinds accepted in scenario configuration.
const (
	DistExponential   = "exp"
	DistDeterministic = "det"
)

// minDuration floors sampled durations so a degenerate draw can never
// produce a zero-length (same-instant) timer.
const minDuration = 1e-9

// DurationSampler generates service, interarrival, failure, and repair
// durations for the line's processes.
type DurationSampler interface {
	// Sample returns the next duration in minutes. Always positive.
	Sample(rng *rand.Rand) float64
}

// ExponentialSampler draws exponentially distributed durations with the
// given mean (the memoryless case used for arrivals, failures, and repairs,
// and for service when the scenario selects "exp").
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	d := rng.ExpFloat64() * s.mean
	if d < minDuration {
		return minDuration
	}
	return d
}

// ConstantSampler always returns the same duration (the "det" service case).
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return s.value
}

// NewDurationSampler creates a DurationSampler for the given distribution
// kind and mean. Kinds are validated upstream by scenario validation;
// anything unrecognized samples exponentially.
func NewDurationSampler(kind string, mean float64) DurationSampler {
	switch kind {
	case DistDeterministic:
		return &ConstantSampler{value: mean}
	default:
		return &ExponentialSampler{mean: mean}
	}
}
