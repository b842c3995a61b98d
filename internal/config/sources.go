package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/wavetrace/internal/field"
	"github.com/san-kum/wavetrace/internal/grid"
	"github.com/san-kum/wavetrace/internal/ncgrid"
	"github.com/san-kum/wavetrace/internal/ray"
)

// bathymetryModels build depth functions from parameters. Missing
// parameters take the defaults shown.
var bathymetryModels = map[string]func(p params) grid.Func{
	// h
	"constant": func(p params) grid.Func {
		h := p.get("h", DefaultDepth)
		return func(x, y float64) float64 { return h }
	},
	// h0 + dhdx*x + dhdy*y
	"slope": func(p params) grid.Func {
		h0, dx, dy := p.get("h0", 50), p.get("dhdx", -5e-2), p.get("dhdy", 0)
		return func(x, y float64) float64 { return h0 + dx*x + dy*y }
	},
	// h0 offshore, then falling by slope per metre past x0, never below 0
	"linear_beach": func(p params) grid.Func {
		h0, x0, slope := p.get("h0", 2000), p.get("x0", 50000), p.get("slope", 0.05)
		return func(x, y float64) float64 {
			if x < x0 {
				return h0
			}
			return math.Max(h0-slope*(x-x0), 0)
		}
	},
	// h0 minus a gaussian mount of the given height centred on (cx, cy)
	"sea_mount": func(p params) grid.Func {
		h0, height := p.get("h0", 200), p.get("height", 180)
		cx, cy, r := p.get("cx", 5000), p.get("cy", 5000), p.get("radius", 1000)
		return func(x, y float64) float64 {
			d2 := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			return h0 - height*math.Exp(-d2/(2*r*r))
		}
	},
}

var currentModels = map[string]func(p params) field.Current{
	"none": func(p params) field.Current { return nil },
	"constant": func(p params) field.Current {
		return field.ConstantCurrent{U: p.get("u", 0), V: p.get("v", 0)}
	},
	"linear": func(p params) field.Current {
		return field.LinearCurrent{
			U0: p.get("u0", 0), V0: p.get("v0", 0),
			DUDX: p.get("dudx", 0), DUDY: p.get("dudy", 0),
			DVDX: p.get("dvdx", 0), DVDY: p.get("dvdy", 0),
		}
	},
}

type params map[string]float64

func (p params) get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

func names[T any](m map[string]T) string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// Axes returns the synthetic grid axes of the domain.
func (d DomainConfig) Axes() (x, y []float64, err error) {
	if d.NX < 2 || d.NY < 2 || !(d.DX > 0) || !(d.DY > 0) {
		return nil, nil, fmt.Errorf("%w: domain needs nx, ny >= 2 and positive spacing, got %+v",
			ray.ErrInvalidParameter, d)
	}
	if x, err = grid.Uniform(0, float64(d.NX-1)*d.DX, d.NX); err != nil {
		return nil, nil, err
	}
	if y, err = grid.Uniform(0, float64(d.NY-1)*d.DY, d.NY); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// BathymetryGrid loads or synthesizes the depth grid.
func (c *Config) BathymetryGrid() (*grid.Grid, error) {
	b := c.Bathymetry
	if b.File != "" {
		return ncgrid.LoadBathymetry(b.File)
	}
	model, ok := bathymetryModels[b.Model]
	if !ok {
		return nil, fmt.Errorf("%w: unknown bathymetry model %q (have %s)",
			ray.ErrInvalidParameter, b.Model, names(bathymetryModels))
	}
	x, y, err := c.Domain.Axes()
	if err != nil {
		return nil, err
	}
	return grid.FromFunc(x, y, map[string]grid.Func{grid.Depth: model(b.Params)})
}

// analyticDepths are the bathymetry models with a closed form.
var analyticDepths = map[string]func(p params) field.Depth{
	"constant": func(p params) field.Depth {
		return field.ConstantDepth{H: p.get("h", DefaultDepth)}
	},
	"slope": func(p params) field.Depth {
		return field.SlopeDepth{H0: p.get("h0", 50), DHDX: p.get("dhdx", -5e-2), DHDY: p.get("dhdy", 0)}
	},
}

// AnalyticDepth returns the closed-form bathymetry limited to the domain.
func (c *Config) AnalyticDepth() (field.Depth, error) {
	b := c.Bathymetry
	model, ok := analyticDepths[b.Model]
	if !ok {
		return nil, fmt.Errorf("%w: bathymetry model %q has no analytic form (have %s)",
			ray.ErrInvalidParameter, b.Model, names(analyticDepths))
	}
	x, y, err := c.Domain.Axes()
	if err != nil {
		return nil, err
	}
	return field.Bounded{
		Inner:  model(b.Params),
		Extent: grid.Extent{XMin: x[0], XMax: x[len(x)-1], YMin: y[0], YMax: y[len(y)-1]},
	}, nil
}

func (c *Config) depth() (field.Depth, error) {
	if c.Bathymetry.Analytic && c.Bathymetry.File == "" {
		return c.AnalyticDepth()
	}
	bathy, err := c.BathymetryGrid()
	if err != nil {
		return nil, err
	}
	return field.NewGridDepth(bathy)
}

// Sources builds the depth and current sources of the run. The current is
// nil when none is configured.
func (c *Config) Sources() (field.Depth, field.Current, error) {
	depth, err := c.depth()
	if err != nil {
		return nil, nil, err
	}

	cur := c.Current
	if cur == nil {
		return depth, nil, nil
	}
	if cur.File != "" {
		g, err := ncgrid.LoadCurrent(cur.File)
		if err != nil {
			return nil, nil, err
		}
		current, err := field.NewGridCurrent(g)
		if err != nil {
			return nil, nil, err
		}
		return depth, current, nil
	}
	model, ok := currentModels[cur.Model]
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown current model %q (have %s)",
			ray.ErrInvalidParameter, cur.Model, names(currentModels))
	}
	return depth, model(cur.Params), nil
}
