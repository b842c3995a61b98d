package ncgrid

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"

	"github.com/san-kum/wavetrace/internal/grid"
	"github.com/san-kum/wavetrace/internal/ray"
)

// Write stores g at path with coordinate variables x and y and one double
// variable per field with dimensions (y, x).
func Write(path string, g *grid.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ray.ErrFileIO, err)
	}
	if err := write(f, g); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ray.ErrFileIO, err)
	}
	return nil
}

func write(w *os.File, g *grid.Grid) error {
	names := g.FieldNames()

	h := cdf.NewHeader([]string{"x", "y"}, []int{g.Nx(), g.Ny()})
	h.AddAttribute("", "comment", "wavetrace grid")
	h.AddVariable("x", []string{"x"}, []float64{0})
	h.AddAttribute("x", "units", "m")
	h.AddVariable("y", []string{"y"}, []float64{0})
	h.AddAttribute("y", "units", "m")
	for _, n := range names {
		h.AddVariable(n, []string{"y", "x"}, []float64{0})
	}
	h.Define()
	if errs := h.Check(); len(errs) > 0 {
		return fmt.Errorf("%w: invalid header: %v", ray.ErrSchemaInvalid, errs[0])
	}

	nc, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("%w: %v", ray.ErrFileIO, err)
	}

	put := func(name string, vals []float64) error {
		end := nc.Header.Lengths(name)
		wr := nc.Writer(name, make([]int, len(end)), end)
		if _, err := wr.Write(vals); err != nil {
			return fmt.Errorf("%w: writing %q: %v", ray.ErrFileIO, name, err)
		}
		return nil
	}

	if err := put("x", g.X()); err != nil {
		return err
	}
	if err := put("y", g.Y()); err != nil {
		return err
	}
	for _, n := range names {
		vals, err := g.Values(n)
		if err != nil {
			return err
		}
		if err := put(n, vals); err != nil {
			return err
		}
	}
	return cdf.UpdateNumRecs(w)
}
