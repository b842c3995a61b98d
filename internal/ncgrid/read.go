package ncgrid

import (
	"fmt"

	"github.com/ctessum/cdf"

	"github.com/san-kum/wavetrace/internal/ray"
)

// readFloat64s reads all n values of variable v and converts them.
func readFloat64s(nc *cdf.File, v string, n int) ([]float64, error) {
	r := nc.Reader(v, nil, nil)
	if r == nil {
		return nil, fmt.Errorf("%w: no reader for variable %q", ray.ErrSchemaInvalid, v)
	}
	buf := r.Zero(n)
	got, err := r.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", ray.ErrFileIO, v, err)
	}
	if got != n {
		return nil, fmt.Errorf("%w: read %d of %d values of %q", ray.ErrFileIO, got, n, v)
	}

	out := make([]float64, n)
	switch b := buf.(type) {
	case []float64:
		copy(out, b)
	case []float32:
		for i, x := range b {
			out[i] = float64(x)
		}
	case []int32:
		for i, x := range b {
			out[i] = float64(x)
		}
	case []int16:
		for i, x := range b {
			out[i] = float64(x)
		}
	case []int8:
		for i, x := range b {
			out[i] = float64(x)
		}
	case []uint8:
		for i, x := range b {
			out[i] = float64(x)
		}
	default:
		return nil, fmt.Errorf("%w: variable %q has non-numeric type %T", ray.ErrSchemaInvalid, v, buf)
	}
	return out, nil
}
