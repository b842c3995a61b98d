// Package grid holds regular 2D grids of scalar fields and the bilinear
// sampler that evaluates them, with their gradients, at arbitrary points.
package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/wavetrace/internal/ray"
)

// Names of the fields the ray engine reads.
const (
	Depth = "depth"
	U     = "u"
	V     = "v"
)

// Field is one named array on a grid, row major with shape (ny, nx).
type Field struct {
	name string
	vals []float64
	nx   int
}

func (f *Field) Name() string { return f.name }

// At returns the stored value at node (i, j), i along x and j along y.
func (f *Field) At(i, j int) float64 {
	return f.vals[j*f.nx+i]
}

// Grid is an immutable rectilinear grid. It is safe for concurrent reads;
// each goroutine samples it through its own Sampler.
type Grid struct {
	x, y   axis
	fields map[string]*Field
}

// New validates the axes and fields and returns a grid holding copies of
// them. Every field must have len(x)*len(y) values indexed [j*len(x)+i].
func New(x, y []float64, fields map[string][]float64) (*Grid, error) {
	ax, err := newAxis("x", x)
	if err != nil {
		return nil, err
	}
	ay, err := newAxis("y", y)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: grid has no fields", ray.ErrSchemaInvalid)
	}

	g := &Grid{x: ax, y: ay, fields: make(map[string]*Field, len(fields))}
	n := ax.n() * ay.n()
	for name, vals := range fields {
		if len(vals) != n {
			return nil, fmt.Errorf("%w: field %s has %d values, want %d (ny=%d, nx=%d)",
				ray.ErrSchemaInvalid, name, len(vals), n, ay.n(), ax.n())
		}
		c := make([]float64, n)
		copy(c, vals)
		g.fields[name] = &Field{name: name, vals: c, nx: ax.n()}
	}
	return g, nil
}

// Field returns the named field.
func (g *Grid) Field(name string) (*Field, error) {
	f, ok := g.fields[name]
	if !ok {
		return nil, fmt.Errorf("%w: no field %q", ray.ErrSchemaInvalid, name)
	}
	return f, nil
}

// Has reports whether the grid carries the named field.
func (g *Grid) Has(name string) bool {
	_, ok := g.fields[name]
	return ok
}

// FieldNames returns the field names in sorted order.
func (g *Grid) FieldNames() []string {
	names := make([]string, 0, len(g.fields))
	for n := range g.fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (g *Grid) Nx() int { return g.x.n() }
func (g *Grid) Ny() int { return g.y.n() }

// X returns a copy of the x axis.
func (g *Grid) X() []float64 { return append([]float64(nil), g.x.vals...) }

// Y returns a copy of the y axis.
func (g *Grid) Y() []float64 { return append([]float64(nil), g.y.vals...) }

// Values returns a copy of the named field in row-major order.
func (g *Grid) Values(name string) ([]float64, error) {
	f, err := g.Field(name)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), f.vals...), nil
}

// Extent is the closed rectangle covered by the grid.
type Extent struct {
	XMin, XMax, YMin, YMax float64
}

func (g *Grid) Extent() Extent {
	return Extent{g.x.min(), g.x.max(), g.y.min(), g.y.max()}
}

// Contains reports whether (x, y) is inside the closed grid extent.
func (g *Grid) Contains(x, y float64) bool {
	return g.x.contains(x) && g.y.contains(y)
}

// Range returns the smallest and largest value of the named field, ignoring
// NaN entries.
func (g *Grid) Range(name string) (lo, hi float64, err error) {
	f, err := g.Field(name)
	if err != nil {
		return 0, 0, err
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range f.vals {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, nil
}
