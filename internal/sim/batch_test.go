package sim_test

import (
	"context"
	"errors"
	"math"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavetrace/internal/field"
	"github.com/san-kum/wavetrace/internal/grid"
	"github.com/san-kum/wavetrace/internal/metrics"
	"github.com/san-kum/wavetrace/internal/physics"
	"github.com/san-kum/wavetrace/internal/ray"
	"github.com/san-kum/wavetrace/internal/sim"
)

func seaMount() (field.Depth, field.Current) {
	axis, err := grid.Uniform(0, 20000, 101)
	Expect(err).NotTo(HaveOccurred())

	g, err := grid.FromFunc(axis, axis, map[string]grid.Func{
		grid.Depth: func(x, y float64) float64 {
			r2 := (x-10000)*(x-10000) + (y-10000)*(y-10000)
			return 200 - 180*math.Exp(-r2/(2*2000*2000))
		},
		grid.U: func(x, y float64) float64 { return 0.2 * math.Sin(y/3000) },
		grid.V: func(x, y float64) float64 { return 0 },
	})
	Expect(err).NotTo(HaveOccurred())

	d, c, err := field.FromGrids(g, g)
	Expect(err).NotTo(HaveOccurred())
	return d, c
}

func fan(n int) []ray.InitialCondition {
	ics := make([]ray.InitialCondition, n)
	for i := range ics {
		y := 2000 + 16000*float64(i)/float64(n-1)
		ics[i] = ray.FromWavelength(1000, y, 150, 0.1*math.Sin(float64(i)))
	}
	return ics
}

var ignoreErr = cmpopts.IgnoreFields(ray.Trajectory{}, "Err")

var _ = Describe("Batch", func() {
	var (
		ctx   context.Context
		depth field.Depth
		cur   field.Current
		cfg   sim.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		depth, cur = seaMount()
		cfg = sim.Config{EndTime: 2000, StepSize: 5, Refraction: physics.RefractionDispersion}
	})

	Describe("determinism", func() {
		It("produces identical bundles for any worker count", func() {
			ics := fan(40)
			newSim := func() *sim.Simulator {
				s := sim.New(depth, cur)
				s.AddMetric(func() sim.Metric { return metrics.NewPathLength() })
				return s
			}

			ref, err := sim.NewBatch(newSim(), 1).Run(ctx, ics, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(ref.Rays).To(HaveLen(len(ics)))

			for _, w := range []int{3, 8, 0} {
				got, err := sim.NewBatch(newSim(), w).Run(ctx, ics, cfg)
				Expect(err).NotTo(HaveOccurred())
				Expect(cmp.Diff(ref, got, ignoreErr)).To(BeEmpty(), "workers=%d", w)

				for i := range ref.Rays {
					Expect(errString(got.Rays[i].Err)).To(Equal(errString(ref.Rays[i].Err)))
				}
			}
		})

		It("matches tracing each ray on its own", func() {
			ics := fan(7)
			b, err := sim.TraceBatch(ctx, ics, cfg, depth, cur, 4)
			Expect(err).NotTo(HaveOccurred())

			for i, ic := range ics {
				tr, err := sim.TraceSingle(ctx, ic, cfg, depth.Clone(), cur.Clone())
				Expect(err).NotTo(HaveOccurred())
				Expect(cmp.Diff(tr, b.Rays[i], ignoreErr)).To(BeEmpty(), "ray %d", i)
			}
		})
	})

	Describe("partial success", func() {
		It("keeps each ray's outcome independent", func() {
			axis, _ := grid.Uniform(0, 1000, 101)
			g, err := grid.FromFunc(axis, axis, map[string]grid.Func{
				grid.Depth: func(x, y float64) float64 { return 100 },
			})
			Expect(err).NotTo(HaveOccurred())
			d, _, err := field.FromGrids(g, nil)
			Expect(err).NotTo(HaveOccurred())

			ics := []ray.InitialCondition{
				ray.FromWavelength(500, 500, 50, 0),
				ray.FromWavelength(990, 500, 50, 0),
				{X: 500, Y: 500},
				ray.FromWavelength(100, 100, 50, math.Pi/4),
				ray.FromWavelength(1000, 500, 50, 0),
			}
			short := sim.Config{EndTime: 50, StepSize: 1}

			b, err := sim.TraceBatch(ctx, ics, short, d, nil, 3)
			Expect(err).NotTo(HaveOccurred())

			statuses := make([]ray.Status, len(b.Rays))
			for i, tr := range b.Rays {
				statuses[i] = tr.Status
			}
			Expect(statuses).To(Equal([]ray.Status{ray.Completed, ray.ExitedDomain, ray.Failed, ray.Completed, ray.ExitedDomain}))

			Expect(b.Rays[0].States).To(HaveLen(51))
			Expect(b.Rays[1].States).To(HaveLen(3))
			Expect(b.Rays[1].Err).To(MatchError(ray.ErrOutOfDomain))
			Expect(b.Rays[2].States).To(BeEmpty())
			Expect(b.Rays[2].Err).To(MatchError(ray.ErrInvalidState))
			Expect(b.Count(ray.Completed)).To(Equal(2))

			Expect(b.Rays[4].States).To(HaveLen(1))
			Expect(b.Rays[4].States[0].X).To(Equal(1000.0))
			Expect(b.Rays[4].Err).To(MatchError(ray.ErrOutOfDomain))

			for _, s := range b.Rays[1].States {
				Expect(g.Contains(s.X, s.Y)).To(BeTrue())
			}
		})
	})

	Describe("call errors", func() {
		It("rejects an invalid config", func() {
			_, err := sim.TraceBatch(ctx, fan(3), sim.Config{EndTime: 10}, depth, cur, 2)
			Expect(errors.Is(err, ray.ErrInvalidParameter)).To(BeTrue())
		})

		It("rejects mismatched input arrays", func() {
			_, err := sim.Zip([]float64{1, 2}, []float64{1, 2}, []float64{0.1}, []float64{0, 0})
			Expect(err).To(MatchError(ray.ErrInvalidParameter))
		})

		It("returns an empty bundle for no rays", func() {
			b, err := sim.TraceBatch(ctx, nil, cfg, depth, cur, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Rays).To(BeEmpty())
		})

		It("stops on a canceled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			b, err := sim.TraceBatch(cctx, fan(10), cfg, depth, cur, 2)
			Expect(err).To(MatchError(context.Canceled))
			Expect(b.Rays).To(HaveLen(10))
			for i, tr := range b.Rays {
				Expect(tr.Status.Terminal()).To(BeTrue(), "ray %d", i)
				Expect(tr.Status).To(Equal(ray.Failed), "ray %d", i)
				Expect(tr.Err).To(MatchError(context.Canceled), "ray %d", i)
			}
		})
	})
})

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
