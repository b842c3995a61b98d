package grid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/wavetrace/internal/ray"
)

// Uniform returns n evenly spaced coordinates from min to max inclusive.
func Uniform(min, max float64, n int) ([]float64, error) {
	if n < 2 || !(max > min) {
		return nil, fmt.Errorf("%w: uniform axis needs n >= 2 and max > min, got n=%d [%g, %g]",
			ray.ErrInvalidParameter, n, min, max)
	}
	return floats.Span(make([]float64, n), min, max), nil
}

// Func gives a field value at a point.
type Func func(x, y float64) float64

// FromFunc builds a grid by evaluating each named function at every node.
func FromFunc(x, y []float64, fns map[string]Func) (*Grid, error) {
	fields := make(map[string][]float64, len(fns))
	for name, fn := range fns {
		vals := make([]float64, len(x)*len(y))
		for j, yj := range y {
			for i, xi := range x {
				vals[j*len(x)+i] = fn(xi, yj)
			}
		}
		fields[name] = vals
	}
	return New(x, y, fields)
}
