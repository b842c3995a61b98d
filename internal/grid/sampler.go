package grid

import (
	"fmt"
	"math"

	"github.com/san-kum/wavetrace/internal/ray"
)

// Scalar is a field value and its spatial gradient.
type Scalar struct {
	Value  float64
	DX, DY float64
}

// Vector is a two component field value and its Jacobian.
type Vector struct {
	U, V       float64
	DUDX, DUDY float64
	DVDX, DVDY float64
}

// Sampler evaluates fields of one grid. It remembers the last cell it used,
// so successive queries along a trajectory skip the search. A Sampler is not
// safe for concurrent use; create one per goroutine.
type Sampler struct {
	g      *Grid
	hx, hy int
}

func (g *Grid) Sampler() *Sampler {
	return &Sampler{g: g}
}

// Grid returns the grid being sampled.
func (s *Sampler) Grid() *Grid { return s.g }

// cell holds the locating result for one query point.
type cell struct {
	i, j    int
	xi, eta float64
	dx, dy  float64
}

func (s *Sampler) locate(x, y float64) (cell, error) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return cell{}, fmt.Errorf("%w: position (%v, %v) is NaN", ray.ErrOutOfDomain, x, y)
	}
	i, okx := s.g.x.cell(x, s.hx)
	j, oky := s.g.y.cell(y, s.hy)
	if !okx || !oky {
		e := s.g.Extent()
		return cell{}, fmt.Errorf("%w: (%g, %g) outside [%g, %g]x[%g, %g]",
			ray.ErrOutOfDomain, x, y, e.XMin, e.XMax, e.YMin, e.YMax)
	}
	s.hx, s.hy = i, j

	xs, ys := s.g.x.vals, s.g.y.vals
	c := cell{i: i, j: j, dx: xs[i+1] - xs[i], dy: ys[j+1] - ys[j]}
	c.xi = (x - xs[i]) / c.dx
	c.eta = (y - ys[j]) / c.dy
	return c, nil
}

func interp(f *Field, c cell) Scalar {
	f00 := f.At(c.i, c.j)
	f10 := f.At(c.i+1, c.j)
	f01 := f.At(c.i, c.j+1)
	f11 := f.At(c.i+1, c.j+1)
	xi, eta := c.xi, c.eta

	return Scalar{
		Value: (1-xi)*(1-eta)*f00 + xi*(1-eta)*f10 + (1-xi)*eta*f01 + xi*eta*f11,
		DX:    ((1-eta)*(f10-f00) + eta*(f11-f01)) / c.dx,
		DY:    ((1-xi)*(f01-f00) + xi*(f11-f10)) / c.dy,
	}
}

// Scalar interpolates the named field at (x, y).
func (s *Sampler) Scalar(name string, x, y float64) (Scalar, error) {
	f, err := s.g.Field(name)
	if err != nil {
		return Scalar{}, err
	}
	c, err := s.locate(x, y)
	if err != nil {
		return Scalar{}, err
	}
	return interp(f, c), nil
}

// Vector interpolates the fields u and v at (x, y) sharing one cell lookup.
func (s *Sampler) Vector(u, v string, x, y float64) (Vector, error) {
	fu, err := s.g.Field(u)
	if err != nil {
		return Vector{}, err
	}
	fv, err := s.g.Field(v)
	if err != nil {
		return Vector{}, err
	}
	c, err := s.locate(x, y)
	if err != nil {
		return Vector{}, err
	}
	a, b := interp(fu, c), interp(fv, c)
	return Vector{
		U: a.Value, V: b.Value,
		DUDX: a.DX, DUDY: a.DY,
		DVDX: b.DX, DVDY: b.DY,
	}, nil
}
