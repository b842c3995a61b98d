package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/wavetrace/internal/field"
	"github.com/san-kum/wavetrace/internal/grid"
	"github.com/san-kum/wavetrace/internal/ray"
)

// Kinematics is the right hand side of the ray equations. Depth is required;
// a nil Current means still water and a zero Gravity means Gravity.
//
// A Kinematics shares the per-goroutine state of its sources. Use Clone to
// get one for another goroutine.
type Kinematics struct {
	Depth      field.Depth
	Current    field.Current
	Gravity    float64
	Refraction Refraction
}

func (m *Kinematics) gravity() float64 {
	if m.Gravity == 0 {
		return Gravity
	}
	return m.Gravity
}

// Clone returns a copy with private source state.
func (m *Kinematics) Clone() *Kinematics {
	c := *m
	if m.Depth != nil {
		c.Depth = m.Depth.Clone()
	}
	if m.Current != nil {
		c.Current = m.Current.Clone()
	}
	return &c
}

// Sample is the environment seen by a ray at one point.
type Sample struct {
	K, Theta float64
	Depth    grid.Scalar
	Current  grid.Vector
	Cg       float64
}

// Sample evaluates the fields at the ray position. Besides sampling errors it
// fails with ray.ErrInvalidState for a zero or non-finite wavenumber and
// ray.ErrGrounded where H <= 0.
func (m *Kinematics) Sample(v ray.Vector) (Sample, error) {
	if m.Depth == nil {
		return Sample{}, fmt.Errorf("%w: kinematics has no depth source", ray.ErrInvalidParameter)
	}
	x, y, kx, ky := v[ray.IX], v[ray.IY], v[ray.IKX], v[ray.IKY]
	k := math.Hypot(kx, ky)
	if !(k > 0) || math.IsInf(k, 0) {
		return Sample{}, fmt.Errorf("%w: wavenumber magnitude %v", ray.ErrInvalidState, k)
	}

	d, err := m.Depth.Depth(x, y)
	if err != nil {
		return Sample{}, err
	}
	if d.Value <= 0 {
		return Sample{}, fmt.Errorf("%w: depth %g at (%g, %g)", ray.ErrGrounded, d.Value, x, y)
	}

	s := Sample{K: k, Theta: math.Atan2(ky, kx), Depth: d}
	if m.Current != nil {
		if s.Current, err = m.Current.Current(x, y); err != nil {
			return Sample{}, err
		}
	}
	s.Cg = GroupVelocity(m.gravity(), k, d.Value)
	return s, nil
}

// Derive returns d[x, y, kx, ky]/dt. The fields are steady, so t is unused.
func (m *Kinematics) Derive(_ float64, v ray.Vector) (ray.Vector, error) {
	s, err := m.Sample(v)
	if err != nil {
		return ray.Vector{}, err
	}
	kx, ky := v[ray.IKX], v[ray.IKY]
	c := s.Current
	r := m.Refraction.coefficient(m.gravity(), s.K, s.Depth.Value)

	out := ray.Vector{
		s.Cg*math.Cos(s.Theta) + c.U,
		s.Cg*math.Sin(s.Theta) + c.V,
		r*s.Depth.DX - kx*c.DUDX - ky*c.DVDX,
		r*s.Depth.DY - kx*c.DUDY - ky*c.DVDY,
	}
	if !out.IsFinite() {
		return ray.Vector{}, fmt.Errorf("%w: non-finite rate %v at depth %g", ray.ErrInvalidState, out, s.Depth.Value)
	}
	return out, nil
}

// AbsoluteFrequency is ω + kx·u + ky·v at the state, the quantity conserved
// along a ray under RefractionDispersion in steady fields.
func (m *Kinematics) AbsoluteFrequency(st ray.State) (float64, error) {
	s, err := m.Sample(st.Vector())
	if err != nil {
		return 0, err
	}
	w := IntrinsicFrequency(m.gravity(), s.K, s.Depth.Value)
	return w + st.KX*s.Current.U + st.KY*s.Current.V, nil
}
