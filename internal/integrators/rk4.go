// Package integrators advances ray states in time.
package integrators

import "github.com/san-kum/wavetrace/internal/ray"

// System is a first order system dv/dt = f(t, v).
type System interface {
	Derive(t float64, v ray.Vector) (ray.Vector, error)
}

// RK4 is the classic four stage Runge-Kutta method with a fixed step.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

// Step advances v from t to t+dt. k1 must be sys.Derive(t, v); callers pass
// it in so the post-step evaluation of one step doubles as the first stage of
// the next. A stage error aborts the step and is returned unchanged.
func (r *RK4) Step(sys System, t float64, v, k1 ray.Vector, dt float64) (ray.Vector, error) {
	h := dt * 0.5

	k2, err := sys.Derive(t+h, v.AddScaled(h, k1))
	if err != nil {
		return ray.Vector{}, err
	}
	k3, err := sys.Derive(t+h, v.AddScaled(h, k2))
	if err != nil {
		return ray.Vector{}, err
	}
	k4, err := sys.Derive(t+dt, v.AddScaled(dt, k3))
	if err != nil {
		return ray.Vector{}, err
	}

	var out ray.Vector
	dt6 := dt / 6.0
	for i := range out {
		out[i] = v[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out, nil
}
