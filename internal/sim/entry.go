package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/wavetrace/internal/field"
	"github.com/san-kum/wavetrace/internal/ray"
)

// TraceSingle traces one ray through depth and an optional current.
func TraceSingle(ctx context.Context, ic ray.InitialCondition, cfg Config, depth field.Depth, current field.Current) (ray.Trajectory, error) {
	return New(depth, current).Trace(ctx, ic, cfg)
}

// TraceBatch traces every ray of ics on workers goroutines.
func TraceBatch(ctx context.Context, ics []ray.InitialCondition, cfg Config, depth field.Depth, current field.Current, workers int) (*Bundle, error) {
	return NewBatch(New(depth, current), workers).Run(ctx, ics, cfg)
}

// Zip builds initial conditions from parallel coordinate arrays.
func Zip(xs, ys, kxs, kys []float64) ([]ray.InitialCondition, error) {
	n := len(xs)
	if len(ys) != n || len(kxs) != n || len(kys) != n {
		return nil, fmt.Errorf("%w: batch arrays have lengths x=%d y=%d kx=%d ky=%d",
			ray.ErrInvalidParameter, len(xs), len(ys), len(kxs), len(kys))
	}
	ics := make([]ray.InitialCondition, n)
	for i := range ics {
		ics[i] = ray.InitialCondition{X: xs[i], Y: ys[i], KX: kxs[i], KY: kys[i]}
	}
	return ics, nil
}
