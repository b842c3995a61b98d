package field

import (
	"fmt"

	"github.com/san-kum/wavetrace/internal/grid"
	"github.com/san-kum/wavetrace/internal/ray"
)

// ConstantDepth is a flat bottom at depth H.
type ConstantDepth struct {
	H float64
}

func (d ConstantDepth) Depth(x, y float64) (grid.Scalar, error) {
	if err := checkPoint(x, y); err != nil {
		return grid.Scalar{}, err
	}
	return grid.Scalar{Value: d.H}, nil
}

func (d ConstantDepth) Clone() Depth { return d }

// SlopeDepth is a planar bottom H = H0 + DHDX*x + DHDY*y.
type SlopeDepth struct {
	H0         float64
	DHDX, DHDY float64
}

func (d SlopeDepth) Depth(x, y float64) (grid.Scalar, error) {
	if err := checkPoint(x, y); err != nil {
		return grid.Scalar{}, err
	}
	return grid.Scalar{
		Value: d.H0 + d.DHDX*x + d.DHDY*y,
		DX:    d.DHDX,
		DY:    d.DHDY,
	}, nil
}

func (d SlopeDepth) Clone() Depth { return d }

// ConstantCurrent is a uniform current.
type ConstantCurrent struct {
	U, V float64
}

func (c ConstantCurrent) Current(x, y float64) (grid.Vector, error) {
	if err := checkPoint(x, y); err != nil {
		return grid.Vector{}, err
	}
	return grid.Vector{U: c.U, V: c.V}, nil
}

func (c ConstantCurrent) Clone() Current { return c }

// LinearCurrent has a constant rate of change in space:
// u = U0 + DUDX*x + DUDY*y, v = V0 + DVDX*x + DVDY*y.
type LinearCurrent struct {
	U0, V0     float64
	DUDX, DUDY float64
	DVDX, DVDY float64
}

func (c LinearCurrent) Current(x, y float64) (grid.Vector, error) {
	if err := checkPoint(x, y); err != nil {
		return grid.Vector{}, err
	}
	return grid.Vector{
		U:    c.U0 + c.DUDX*x + c.DUDY*y,
		V:    c.V0 + c.DVDX*x + c.DVDY*y,
		DUDX: c.DUDX, DUDY: c.DUDY,
		DVDX: c.DVDX, DVDY: c.DVDY,
	}, nil
}

func (c LinearCurrent) Clone() Current { return c }

// Bounded limits an analytic depth to a rectangle; outside it the source
// reports ray.ErrOutOfDomain.
type Bounded struct {
	Inner  Depth
	Extent grid.Extent
}

func (b Bounded) Depth(x, y float64) (grid.Scalar, error) {
	e := b.Extent
	if !(x >= e.XMin && x <= e.XMax && y >= e.YMin && y <= e.YMax) {
		return grid.Scalar{}, fmt.Errorf("%w: (%g, %g) outside [%g, %g]x[%g, %g]",
			ray.ErrOutOfDomain, x, y, e.XMin, e.XMax, e.YMin, e.YMax)
	}
	return b.Inner.Depth(x, y)
}

func (b Bounded) Clone() Depth {
	return Bounded{Inner: b.Inner.Clone(), Extent: b.Extent}
}
