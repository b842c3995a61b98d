// Package sim integrates rays through a depth and current environment, one
// at a time or as a parallel batch.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/wavetrace/internal/field"
	"github.com/san-kum/wavetrace/internal/integrators"
	"github.com/san-kum/wavetrace/internal/physics"
	"github.com/san-kum/wavetrace/internal/ray"
)

// Simulator traces single rays through one environment. It holds sampler
// state, so it must not be used from several goroutines; Clone it instead.
type Simulator struct {
	kin        *physics.Kinematics
	integrator *integrators.RK4
	metrics    []MetricFactory
}

// New returns a simulator over the given depth and current. current may be
// nil for still water.
func New(depth field.Depth, current field.Current) *Simulator {
	return &Simulator{
		kin:        &physics.Kinematics{Depth: depth, Current: current},
		integrator: integrators.NewRK4(),
	}
}

func (s *Simulator) AddMetric(f MetricFactory) { s.metrics = append(s.metrics, f) }

// SetGravity overrides physics.Gravity.
func (s *Simulator) SetGravity(g float64) { s.kin.Gravity = g }

// Kinematics returns the ray equations the simulator integrates.
func (s *Simulator) Kinematics() *physics.Kinematics { return s.kin }

// Clone returns a simulator with private sampler state that shares the
// grids and metric factories.
func (s *Simulator) Clone() *Simulator {
	return &Simulator{
		kin:        s.kin.Clone(),
		integrator: integrators.NewRK4(),
		metrics:    s.metrics,
	}
}

// maxPrealloc caps the states reserved up front; longer rays grow by append.
const maxPrealloc = 4096

// Trace integrates one ray from t = 0 until EndTime or a terminal event.
// Terminal events end up in the trajectory's Status and Err; the returned
// error is reserved for an invalid call or a canceled context, in which case
// the states gathered so far are still returned.
func (s *Simulator) Trace(ctx context.Context, ic ray.InitialCondition, cfg Config) (ray.Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return ray.Trajectory{Status: ray.Failed, Err: err}, err
	}
	if s.kin.Depth == nil {
		err := fmt.Errorf("%w: simulator has no depth source", ray.ErrInvalidParameter)
		return ray.Trajectory{Status: ray.Failed, Err: err}, err
	}

	kin := *s.kin
	kin.Refraction = cfg.Refraction

	steps := cfg.Steps()
	dt := cfg.StepSize
	tr := ray.Trajectory{States: make([]ray.State, 0, min(steps+1, maxPrealloc))}

	metrics := make([]Metric, len(s.metrics))
	for i, f := range s.metrics {
		metrics[i] = f()
		metrics[i].Reset()
	}
	observe := func(st ray.State) {
		tr.States = append(tr.States, st)
		for _, m := range metrics {
			m.Observe(&kin, st)
		}
	}
	stop := func(step int, t float64, v ray.Vector, err error) {
		tr.Status = ray.StatusOf(err)
		tr.Err = &ray.StepError{Step: step, Time: t, State: v, Err: err}
	}

	v := ic.Vector()
	k1, err := kin.Derive(0, v)
	if err != nil {
		stop(0, 0, v, err)
		return s.finish(tr, metrics), nil
	}
	observe(ray.At(0, v))

	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			stop(i, tr.States[len(tr.States)-1].T, v, err)
			return s.finish(tr, metrics), err
		}

		t := float64(i-1) * dt
		next, err := s.integrator.Step(&kin, t, v, k1, dt)
		if err != nil {
			stop(i, t, v, err)
			break
		}
		tn := float64(i) * dt
		if !next.IsFinite() {
			stop(i, tn, next, fmt.Errorf("%w: non-finite state %v", ray.ErrInvalidState, next))
			break
		}
		kn, err := kin.Derive(tn, next)
		if err != nil {
			stop(i, tn, next, err)
			break
		}

		v, k1 = next, kn
		observe(ray.At(tn, v))
	}

	if tr.Status == ray.Running {
		tr.Status = ray.Completed
	}
	return s.finish(tr, metrics), nil
}

func (s *Simulator) finish(tr ray.Trajectory, metrics []Metric) ray.Trajectory {
	if len(metrics) == 0 {
		return tr
	}
	tr.Metrics = make(map[string]float64, len(metrics))
	for _, m := range metrics {
		tr.Metrics[m.Name()] = m.Value()
	}
	return tr
}
