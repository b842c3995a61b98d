package grid

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/wavetrace/internal/ray"
)

// axis is a strictly increasing coordinate array.
type axis struct {
	vals []float64
}

func newAxis(name string, vals []float64) (axis, error) {
	if len(vals) < 2 {
		return axis{}, fmt.Errorf("%w: axis %s has %d points, need at least 2",
			ray.ErrSchemaInvalid, name, len(vals))
	}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return axis{}, fmt.Errorf("%w: axis %s[%d] is not finite", ray.ErrSchemaInvalid, name, i)
		}
		if i > 0 && v <= vals[i-1] {
			return axis{}, fmt.Errorf("%w: axis %s not strictly increasing at index %d",
				ray.ErrSchemaInvalid, name, i)
		}
	}
	c := make([]float64, len(vals))
	copy(c, vals)
	return axis{vals: c}, nil
}

func (a axis) n() int        { return len(a.vals) }
func (a axis) min() float64  { return a.vals[0] }
func (a axis) max() float64  { return a.vals[len(a.vals)-1] }
func (a axis) lastCell() int { return len(a.vals) - 2 }

func (a axis) contains(x float64) bool {
	return x >= a.vals[0] && x <= a.vals[len(a.vals)-1]
}

// inCell reports whether x lies in [vals[i], vals[i+1]), or in the closed
// last cell.
func (a axis) inCell(i int, x float64) bool {
	if i < 0 || i > a.lastCell() {
		return false
	}
	if i == a.lastCell() {
		return x >= a.vals[i] && x <= a.vals[i+1]
	}
	return x >= a.vals[i] && x < a.vals[i+1]
}

// cell returns the index i of the cell holding x. hint is tried first, then
// its neighbours, then a binary search.
func (a axis) cell(x float64, hint int) (int, bool) {
	if !a.contains(x) {
		return 0, false
	}
	for _, i := range [3]int{hint, hint + 1, hint - 1} {
		if a.inCell(i, x) {
			return i, true
		}
	}

	// first index with vals[i] > x
	i := sort.Search(len(a.vals), func(i int) bool { return a.vals[i] > x }) - 1
	if i > a.lastCell() {
		i = a.lastCell()
	}
	return i, true
}
