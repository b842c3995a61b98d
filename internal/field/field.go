// Package field provides the depth and current sources the ray equations
// sample. Sources are either backed by a grid or analytic.
//
// A source may hold per-goroutine state (a sampler cell hint), so each
// worker takes its own copy with Clone.
package field

import (
	"fmt"
	"math"

	"github.com/san-kum/wavetrace/internal/grid"
	"github.com/san-kum/wavetrace/internal/ray"
)

// Depth gives the water depth H (positive down) and its gradient.
type Depth interface {
	Depth(x, y float64) (grid.Scalar, error)
	Clone() Depth
}

// Current gives the current (u, v) and its Jacobian.
type Current interface {
	Current(x, y float64) (grid.Vector, error)
	Clone() Current
}

// GridDepth samples the "depth" field of a grid.
type GridDepth struct {
	s *grid.Sampler
}

func NewGridDepth(g *grid.Grid) (*GridDepth, error) {
	if !g.Has(grid.Depth) {
		return nil, fmt.Errorf("%w: bathymetry grid has no %q field", ray.ErrSchemaInvalid, grid.Depth)
	}
	return &GridDepth{s: g.Sampler()}, nil
}

func (d *GridDepth) Depth(x, y float64) (grid.Scalar, error) {
	return d.s.Scalar(grid.Depth, x, y)
}

func (d *GridDepth) Clone() Depth {
	return &GridDepth{s: d.s.Grid().Sampler()}
}

// Grid returns the underlying grid.
func (d *GridDepth) Grid() *grid.Grid { return d.s.Grid() }

// GridCurrent samples the "u" and "v" fields of a grid.
type GridCurrent struct {
	s *grid.Sampler
}

func NewGridCurrent(g *grid.Grid) (*GridCurrent, error) {
	for _, f := range []string{grid.U, grid.V} {
		if !g.Has(f) {
			return nil, fmt.Errorf("%w: current grid has no %q field", ray.ErrSchemaInvalid, f)
		}
	}
	return &GridCurrent{s: g.Sampler()}, nil
}

func (c *GridCurrent) Current(x, y float64) (grid.Vector, error) {
	return c.s.Vector(grid.U, grid.V, x, y)
}

func (c *GridCurrent) Clone() Current {
	return &GridCurrent{s: c.s.Grid().Sampler()}
}

func (c *GridCurrent) Grid() *grid.Grid { return c.s.Grid() }

func checkPoint(x, y float64) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return fmt.Errorf("%w: position (%v, %v) is not finite", ray.ErrOutOfDomain, x, y)
	}
	return nil
}

// FromGrids builds the sources for a bathymetry grid and an optional current
// grid. A nil current grid gives a nil Current.
func FromGrids(bathy, current *grid.Grid) (Depth, Current, error) {
	if bathy == nil {
		return nil, nil, fmt.Errorf("%w: no bathymetry grid", ray.ErrInvalidParameter)
	}
	d, err := NewGridDepth(bathy)
	if err != nil {
		return nil, nil, err
	}
	if current == nil {
		return d, nil, nil
	}
	c, err := NewGridCurrent(current)
	if err != nil {
		return nil, nil, err
	}
	return d, c, nil
}
