// Package ncgrid reads and writes grids stored as NetCDF classic files.
//
// A file holds two 1D coordinate variables and any number of 2D field
// variables with dimensions (y, x). Files written with dimensions (x, y) are
// transposed on load. Coordinates and fields may use any numeric NetCDF
// type; everything is converted to float64.
package ncgrid

import (
	"fmt"
	"os"
	"sort"

	"github.com/ctessum/cdf"

	"github.com/san-kum/wavetrace/internal/grid"
	"github.com/san-kum/wavetrace/internal/ray"
)

// Schema names the variables to read.
type Schema struct {
	X, Y string
	// Fields maps file variable names to grid field names.
	Fields map[string]string
}

var (
	Bathymetry = Schema{X: "x", Y: "y", Fields: map[string]string{"depth": grid.Depth}}
	Current    = Schema{X: "x", Y: "y", Fields: map[string]string{"u": grid.U, "v": grid.V}}
)

func LoadBathymetry(path string) (*grid.Grid, error) { return Load(path, Bathymetry) }
func LoadCurrent(path string) (*grid.Grid, error)    { return Load(path, Current) }

// Load opens path and builds a grid from the variables named by s.
func Load(path string, s Schema) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ray.ErrFileIO, err)
	}
	defer f.Close()

	g, err := Read(f, s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Read builds a grid from an open NetCDF file.
func Read(rw cdf.ReaderWriterAt, s Schema) (*grid.Grid, error) {
	if len(s.Fields) == 0 {
		return nil, fmt.Errorf("%w: schema has no fields", ray.ErrInvalidParameter)
	}
	nc, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ray.ErrFileIO, err)
	}
	h := nc.Header

	x, err := readAxis(nc, s.X)
	if err != nil {
		return nil, err
	}
	y, err := readAxis(nc, s.Y)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(s.Fields))
	for v := range s.Fields {
		names = append(names, v)
	}
	sort.Strings(names)

	fields := make(map[string][]float64, len(names))
	for _, v := range names {
		if !hasVariable(h, v) {
			return nil, fmt.Errorf("%w: missing variable %q", ray.ErrSchemaInvalid, v)
		}
		lens := h.Lengths(v)
		if len(lens) != 2 {
			return nil, fmt.Errorf("%w: variable %q has %d dimensions, want 2", ray.ErrSchemaInvalid, v, len(lens))
		}
		vals, err := readFloat64s(nc, v, lens[0]*lens[1])
		if err != nil {
			return nil, err
		}

		flip, ok := orientation(h.Dimensions(v), lens, h.Dimensions(s.X)[0], h.Dimensions(s.Y)[0], len(x), len(y))
		if !ok {
			return nil, fmt.Errorf("%w: variable %q has shape %v %v, want (%s=%d, %s=%d)",
				ray.ErrSchemaInvalid, v, h.Dimensions(v), lens, s.Y, len(y), s.X, len(x))
		}
		if flip {
			vals = transpose(vals, len(x), len(y))
		}
		fields[s.Fields[v]] = vals
	}
	return grid.New(x, y, fields)
}

func hasVariable(h *cdf.Header, name string) bool {
	for _, v := range h.Variables() {
		if v == name {
			return true
		}
	}
	return false
}

func readAxis(nc *cdf.File, name string) ([]float64, error) {
	if !hasVariable(nc.Header, name) {
		return nil, fmt.Errorf("%w: missing coordinate variable %q", ray.ErrSchemaInvalid, name)
	}
	lens := nc.Header.Lengths(name)
	if len(lens) != 1 {
		return nil, fmt.Errorf("%w: coordinate %q has %d dimensions, want 1", ray.ErrSchemaInvalid, name, len(lens))
	}
	return readFloat64s(nc, name, lens[0])
}

// orientation reports whether a field with the given dimensions is stored
// as (x, y) and needs transposing. Dimension names decide first; lengths
// decide when the names do not match the coordinates.
func orientation(dims []string, lens []int, xdim, ydim string, nx, ny int) (flip, ok bool) {
	switch {
	case dims[0] == ydim && dims[1] == xdim:
		return false, lens[0] == ny && lens[1] == nx
	case dims[0] == xdim && dims[1] == ydim:
		return true, lens[0] == nx && lens[1] == ny
	case lens[0] == ny && lens[1] == nx:
		return false, true
	case lens[0] == nx && lens[1] == ny:
		return true, true
	}
	return false, false
}

// transpose turns an (nx, ny) row major array into (ny, nx).
func transpose(vals []float64, nx, ny int) []float64 {
	out := make([]float64, len(vals))
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			out[j*nx+i] = vals[i*ny+j]
		}
	}
	return out
}
