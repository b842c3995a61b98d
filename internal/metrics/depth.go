package metrics

import (
	"math"

	"github.com/san-kum/wavetrace/internal/physics"
	"github.com/san-kum/wavetrace/internal/ray"
)

// MinDepth is the shallowest water depth seen along the ray. It is NaN
// until a state could be sampled.
type MinDepth struct {
	min     float64
	samples int
}

func NewMinDepth() *MinDepth {
	return &MinDepth{min: math.NaN()}
}

func (m *MinDepth) Name() string { return "min_depth" }

func (m *MinDepth) Observe(kin *physics.Kinematics, s ray.State) {
	smp, err := kin.Sample(s.Vector())
	if err != nil {
		return
	}
	if m.samples == 0 || smp.Depth.Value < m.min {
		m.min = smp.Depth.Value
	}
	m.samples++
}

func (m *MinDepth) Value() float64 { return m.min }

func (m *MinDepth) Reset() {
	m.min = math.NaN()
	m.samples = 0
}
