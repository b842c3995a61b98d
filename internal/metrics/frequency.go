// Package metrics provides per-ray diagnostics accumulated while tracing.
package metrics

import (
	"math"

	"github.com/san-kum/wavetrace/internal/physics"
	"github.com/san-kum/wavetrace/internal/ray"
)

// FrequencyDrift tracks the largest relative change of the absolute
// frequency ω + k·U from its value at the first state.
type FrequencyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewFrequencyDrift() *FrequencyDrift {
	return &FrequencyDrift{}
}

func (f *FrequencyDrift) Name() string { return "frequency_drift" }

func (f *FrequencyDrift) Observe(kin *physics.Kinematics, s ray.State) {
	w, err := kin.AbsoluteFrequency(s)
	if err != nil {
		return
	}
	if f.samples == 0 {
		f.initial = w
	}
	f.samples++

	if f.initial != 0 {
		f.maxDrift = math.Max(f.maxDrift, math.Abs(w-f.initial)/math.Abs(f.initial))
	}
}

func (f *FrequencyDrift) Value() float64 { return f.maxDrift }

func (f *FrequencyDrift) Reset() {
	f.initial = 0
	f.maxDrift = 0
	f.samples = 0
}
