package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/wavetrace/internal/ray"
)

// Batch traces many independent rays on a fixed pool of workers. Output
// order and values do not depend on the number of workers.
type Batch struct {
	Simulator *Simulator
	Workers   int

	logger *slog.Logger
}

// NewBatch returns a batch over sim. workers <= 0 means runtime.NumCPU().
func NewBatch(sim *Simulator, workers int) *Batch {
	return &Batch{Simulator: sim, Workers: workers}
}

func (b *Batch) WithLogger(l *slog.Logger) *Batch {
	b.logger = l
	return b
}

func (b *Batch) log() *slog.Logger {
	if b.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.logger
}

func (b *Batch) workers(n int) int {
	w := b.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	return min(w, n)
}

// Run traces every initial condition. A ray ending early never affects the
// others. The error is non-nil only for an invalid call or a canceled
// context; in the latter case the bundle holds whatever finished and every
// ray that never started is Failed with the context error.
func (b *Batch) Run(ctx context.Context, ics []ray.InitialCondition, cfg Config) (*Bundle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.Simulator == nil {
		return nil, fmt.Errorf("%w: batch has no simulator", ray.ErrInvalidParameter)
	}

	bundle := &Bundle{Rays: make([]ray.Trajectory, len(ics))}
	if len(ics) == 0 {
		return bundle, nil
	}

	log := b.log()
	nw := b.workers(len(ics))
	start := time.Now()
	log.Info("batch started", "rays", len(ics), "workers", nw, "steps", cfg.Steps(), "dt", cfg.StepSize)

	q := newWorkQueue(len(ics))
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < nw; w++ {
		sim := b.Simulator.Clone()
		g.Go(func() error {
			for {
				i, ok := q.next()
				if !ok {
					return nil
				}
				tr, err := sim.Trace(gctx, ics[i], cfg)
				bundle.Rays[i] = tr
				if err != nil {
					return fmt.Errorf("ray %d: %w", i, err)
				}
				if tr.Status != ray.Completed {
					log.Debug("ray stopped", "ray", i, "status", tr.Status, "states", tr.Len(), "err", tr.Err)
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn("batch aborted", "err", err, "unclaimed", q.remaining())
		cause := ctx.Err()
		if cause == nil {
			cause = err
		}
		for i := range bundle.Rays {
			if bundle.Rays[i].Status == ray.Running {
				bundle.Rays[i] = ray.Trajectory{Status: ray.Failed, Err: cause}
			}
		}
		return bundle, err
	}

	attrs := []any{"rays", len(ics), "elapsed", time.Since(start)}
	for _, sc := range bundle.Summary() {
		attrs = append(attrs, sc.Status.String(), sc.Count)
	}
	log.Info("batch finished", attrs...)
	return bundle, nil
}
