package ray

import (
	"math"
)

// Indices into a Vector.
const (
	IX = iota
	IY
	IKX
	IKY
)

// Vector is the integrated ray state: position (m) and wavenumber (rad/m).
type Vector [4]float64

func (v Vector) Add(o Vector) Vector {
	return Vector{v[0] + o[0], v[1] + o[1], v[2] + o[2], v[3] + o[3]}
}

func (v Vector) Scale(f float64) Vector {
	return Vector{v[0] * f, v[1] * f, v[2] * f, v[3] * f}
}

// AddScaled returns v + f*o.
func (v Vector) AddScaled(f float64, o Vector) Vector {
	return Vector{v[0] + f*o[0], v[1] + f*o[1], v[2] + f*o[2], v[3] + f*o[3]}
}

func (v Vector) IsFinite() bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// State is one sample of a ray.
type State struct {
	T  float64 `json:"t"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	KX float64 `json:"kx"`
	KY float64 `json:"ky"`
}

// At builds the state at time t from an integrated vector.
func At(t float64, v Vector) State {
	return State{T: t, X: v[IX], Y: v[IY], KX: v[IKX], KY: v[IKY]}
}

func (s State) Vector() Vector {
	return Vector{s.X, s.Y, s.KX, s.KY}
}

// Wavenumber returns |k|.
func (s State) Wavenumber() float64 {
	return math.Hypot(s.KX, s.KY)
}

// Direction returns the propagation angle atan2(ky, kx) in radians.
func (s State) Direction() float64 {
	return math.Atan2(s.KY, s.KX)
}

// InitialCondition is the starting point of one ray.
type InitialCondition struct {
	X  float64 `yaml:"x" json:"x"`
	Y  float64 `yaml:"y" json:"y"`
	KX float64 `yaml:"kx" json:"kx"`
	KY float64 `yaml:"ky" json:"ky"`
}

// FromWavelength builds an initial condition from a wavelength (m) and a
// heading measured counterclockwise from the x axis (rad).
func FromWavelength(x, y, wavelength, heading float64) InitialCondition {
	k := 2 * math.Pi / wavelength
	return InitialCondition{X: x, Y: y, KX: k * math.Cos(heading), KY: k * math.Sin(heading)}
}

func (ic InitialCondition) Vector() Vector {
	return Vector{ic.X, ic.Y, ic.KX, ic.KY}
}

// Trajectory is the time ordered output of one ray. States only holds valid
// samples; Err carries the termination cause for every status but Completed.
type Trajectory struct {
	States  []State
	Status  Status
	Err     error
	Metrics map[string]float64
}

func (tr *Trajectory) Len() int { return len(tr.States) }

// Last returns the final valid state, if any.
func (tr *Trajectory) Last() (State, bool) {
	if len(tr.States) == 0 {
		return State{}, false
	}
	return tr.States[len(tr.States)-1], true
}
