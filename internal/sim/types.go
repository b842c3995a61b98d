package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/wavetrace/internal/physics"
	"github.com/san-kum/wavetrace/internal/ray"
)

// maxSteps bounds EndTime/StepSize so Steps stays representable.
const maxSteps = float64(math.MaxInt64 / 2)

// Config controls one integration. The run always starts at t = 0.
type Config struct {
	EndTime    float64
	StepSize   float64
	Refraction physics.Refraction
}

func (c Config) Validate() error {
	if !(c.StepSize > 0) || math.IsInf(c.StepSize, 0) {
		return fmt.Errorf("%w: step size must be positive and finite, got %v", ray.ErrInvalidParameter, c.StepSize)
	}
	if !(c.EndTime > 0) || math.IsInf(c.EndTime, 0) {
		return fmt.Errorf("%w: end time must be positive and finite, got %v", ray.ErrInvalidParameter, c.EndTime)
	}
	if n := c.EndTime / c.StepSize; !(n < maxSteps) {
		return fmt.Errorf("%w: %g steps of %v do not fit in an int", ray.ErrInvalidParameter, n, c.StepSize)
	}
	return nil
}

// Steps is the number of steps needed to reach EndTime. A ratio within a
// relative 1e-9 of an integer is not rounded up.
func (c Config) Steps() int {
	n := c.EndTime / c.StepSize
	r := math.Round(n)
	if math.Abs(n-r) <= 1e-9*r {
		return int(r)
	}
	return int(math.Ceil(n))
}

// Metric accumulates a scalar over the states of one ray.
type Metric interface {
	Name() string
	Observe(kin *physics.Kinematics, s ray.State)
	Value() float64
	Reset()
}

// MetricFactory makes a fresh Metric. Every ray gets its own instances.
type MetricFactory func() Metric

// Bundle holds the trajectories of a batch; Rays[i] belongs to input i.
type Bundle struct {
	Rays []ray.Trajectory
}

// Count returns the number of rays that ended with status s.
func (b *Bundle) Count(s ray.Status) int {
	n := 0
	for i := range b.Rays {
		if b.Rays[i].Status == s {
			n++
		}
	}
	return n
}

// StatusCount is one row of a Summary.
type StatusCount struct {
	Status ray.Status
	Count  int
}

// Summary counts the rays per terminal status, ordered by status.
func (b *Bundle) Summary() []StatusCount {
	counts := make(map[ray.Status]int)
	for i := range b.Rays {
		counts[b.Rays[i].Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, StatusCount{s, n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}
