// Package ray provides the core value types shared by every stage of the
// wave ray tracer.
//
// The package defines:
//
//   - [State]: one sample of a ray (time, position, wavenumber)
//   - [Vector]: the integrated part of a state, dX/dt = f(X)
//   - [InitialCondition]: the starting point and wavenumber of a ray
//   - [Trajectory]: the ordered states of one ray and how it ended
//   - [Status]: the terminal state of a trajectory
//
// It also holds the error taxonomy used across the module. Errors are
// sentinels meant to be matched with [errors.Is]; callers wrap them for
// context.
package ray
