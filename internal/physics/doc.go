// Package physics holds the linear water wave dispersion relation and the
// ray equations built on it.
//
// A ray is the vector [x, y, kx, ky]. [Kinematics] evaluates its time
// derivative from a depth source and an optional current source:
//
//	dx/dt  = cg·cos θ + u
//	dy/dt  = cg·sin θ + v
//	dkx/dt = R·∂H/∂x - kx·∂u/∂x - ky·∂v/∂x
//	dky/dt = R·∂H/∂y - kx·∂u/∂y - ky·∂v/∂y
//
// where R is the depth refraction coefficient selected by [Refraction].
//
// # Refraction
//
// [RefractionReduced] uses R = -g·k/(2·sqrt(tanh kH)).
// [RefractionDispersion] uses R = -∂ω/∂H = -k·ω/sinh(2kH), which conserves
// the absolute frequency ω + k·U along a ray in steady fields:
//
//	kin := &physics.Kinematics{Depth: d, Refraction: physics.RefractionDispersion}
//	w0, _ := kin.AbsoluteFrequency(first)
//	w1, _ := kin.AbsoluteFrequency(last) // w1 ≈ w0
package physics
