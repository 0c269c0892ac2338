package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantSampler_AlwaysReturnsMean(t *testing.T) {
	s := NewDurationSampler(DistDeterministic, 5.0)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		assert.Equal(t, 5.0, s.Sample(rng))
	}
}

func TestExponentialSampler_AlwaysPositive(t *testing.T) {
	s := NewDurationSampler(DistExponential, 2.0)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		d := s.Sample(rng)
		if d <= 0 {
			t.Fatalf("sample %d: duration = %f, want > 0", i, d)
		}
	}
}

func TestExponentialSampler_DeterministicForSeed(t *testing.T) {
	s := NewDurationSampler(DistExponential, 3.5)

	draw := func() []float64 {
		rng := rand.New(rand.NewSource(99))
		out := make([]float64, 8)
		for i := range out {
			out[i] = s.Sample(rng)
		}
		return out
	}

	assert.Equal(t, draw(), draw())
}

func TestNewDurationSampler_KindSelection(t *testing.T) {
	assert.IsType(t, &ConstantSampler{}, NewDurationSampler(DistDeterministic, 1.0))
	assert.IsType(t, &ExponentialSampler{}, NewDurationSampler(DistExponential, 1.0))
	// Unknown kinds are validated upstream; the constructor stays total.
	assert.IsType(t, &ExponentialSampler{}, NewDurationSampler("", 1.0))
}
