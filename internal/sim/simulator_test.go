package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/wavetrace/internal/field"
	"github.com/san-kum/wavetrace/internal/grid"
	"github.com/san-kum/wavetrace/internal/metrics"
	"github.com/san-kum/wavetrace/internal/physics"
	"github.com/san-kum/wavetrace/internal/ray"
)

func gridDepth(t *testing.T, x, y []float64, h grid.Func) field.Depth {
	t.Helper()
	g, err := grid.FromFunc(x, y, map[string]grid.Func{grid.Depth: h})
	if err != nil {
		t.Fatal(err)
	}
	d, err := field.NewGridDepth(g)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestStraightRayConstantDepth(t *testing.T) {
	axis, _ := grid.Uniform(0, 2000, 201)
	depth := gridDepth(t, axis, axis, func(x, y float64) float64 { return 140 })

	heading := 20 * math.Pi / 180
	ic := ray.FromWavelength(50, 500, 100, heading)
	cfg := Config{EndTime: 100, StepSize: 1}

	tr, err := New(depth, nil).Trace(context.Background(), ic, cfg)
	if err != nil {
		t.Fatalf("trace failed: %v", err)
	}
	if tr.Status != ray.Completed || tr.Err != nil {
		t.Fatalf("expected completed, got %v (%v)", tr.Status, tr.Err)
	}
	if tr.Len() != 101 {
		t.Fatalf("expected 101 states, got %d", tr.Len())
	}

	cg := physics.GroupVelocity(physics.Gravity, 2*math.Pi/100, 140)
	for i, s := range tr.States {
		if s.T != float64(i) {
			t.Fatalf("state %d: expected t=%d, got %v", i, i, s.T)
		}
		wantX := 50 + cg*math.Cos(heading)*s.T
		wantY := 500 + cg*math.Sin(heading)*s.T
		if math.Abs(s.X-wantX) > 1e-6 || math.Abs(s.Y-wantY) > 1e-6 {
			t.Errorf("t=%v: expected (%.6f, %.6f), got (%.6f, %.6f)", s.T, wantX, wantY, s.X, s.Y)
		}
		if s.KX != ic.KX || s.KY != ic.KY {
			t.Errorf("t=%v: wavenumber changed to (%v, %v)", s.T, s.KX, s.KY)
		}
	}
}

func TestGroundingKeepsLastWetState(t *testing.T) {
	x, _ := grid.Uniform(0, 1000, 101)
	y, _ := grid.Uniform(0, 100, 11)
	beach := func(x, _ float64) float64 {
		switch {
		case x <= 500:
			return 10
		case x >= 510:
			return -5
		default:
			return 10 - 1.5*(x-500)
		}
	}

	for _, r := range []physics.Refraction{physics.RefractionReduced, physics.RefractionDispersion} {
		t.Run(r.String(), func(t *testing.T) {
			sim := New(gridDepth(t, x, y, beach), nil)
			ic := ray.InitialCondition{X: 405, Y: 50, KX: 0.314}

			tr, err := sim.Trace(context.Background(), ic, Config{EndTime: 1000, StepSize: 10, Refraction: r})
			if err != nil {
				t.Fatal(err)
			}
			if tr.Status != ray.Grounded {
				t.Fatalf("expected grounded, got %v (%v)", tr.Status, tr.Err)
			}
			if !errors.Is(tr.Err, ray.ErrGrounded) {
				t.Errorf("expected ErrGrounded, got %v", tr.Err)
			}
			var se *ray.StepError
			if !errors.As(tr.Err, &se) || se.Step != 4 {
				t.Errorf("expected grounding on step 4, got %v", tr.Err)
			}

			if tr.Len() != 4 {
				t.Fatalf("expected 4 states, got %d", tr.Len())
			}
			last, _ := tr.Last()
			if last.T != 30 || last.X < 490 || last.X > 491 {
				t.Errorf("unexpected last state %+v", last)
			}
			for _, s := range tr.States {
				if beach(s.X, s.Y) <= 0 {
					t.Errorf("dry state in trajectory: %+v", s)
				}
			}
		})
	}
}

func TestZeroWavenumberFailsBeforeFirstStep(t *testing.T) {
	sim := New(field.ConstantDepth{H: 100}, nil)
	tr, err := sim.Trace(context.Background(), ray.InitialCondition{X: 1, Y: 1}, Config{EndTime: 10, StepSize: 1})
	if err != nil {
		t.Fatalf("expected no call error, got %v", err)
	}
	if tr.Status != ray.Failed || !errors.Is(tr.Err, ray.ErrInvalidState) {
		t.Errorf("expected failed with ErrInvalidState, got %v (%v)", tr.Status, tr.Err)
	}
	if tr.Len() != 0 {
		t.Errorf("expected no states, got %d", tr.Len())
	}
}

func TestStartOutsideDomain(t *testing.T) {
	axis, _ := grid.Uniform(0, 100, 11)
	sim := New(gridDepth(t, axis, axis, func(x, y float64) float64 { return 20 }), nil)

	tr, err := sim.Trace(context.Background(), ray.InitialCondition{X: -5, Y: 50, KX: 0.1}, Config{EndTime: 10, StepSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Status != ray.ExitedDomain || tr.Len() != 0 {
		t.Errorf("expected exited domain with no states, got %v with %d states", tr.Status, tr.Len())
	}
}

func TestExitDomainKeepsInsideStates(t *testing.T) {
	axis, _ := grid.Uniform(0, 1000, 101)
	sim := New(gridDepth(t, axis, axis, func(x, y float64) float64 { return 100 }), nil)
	ic := ray.FromWavelength(990, 500, 50, 0)

	tr, err := sim.Trace(context.Background(), ic, Config{EndTime: 50, StepSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Status != ray.ExitedDomain {
		t.Fatalf("expected exited domain, got %v", tr.Status)
	}
	if tr.Len() != 3 {
		t.Errorf("expected 3 states, got %d", tr.Len())
	}
	for _, s := range tr.States {
		if s.X > 1000 {
			t.Errorf("state outside domain: %+v", s)
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	sim := New(field.ConstantDepth{H: 10}, nil)
	ic := ray.FromWavelength(0, 0, 10, 0)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero step", Config{EndTime: 10, StepSize: 0}},
		{"negative step", Config{EndTime: 10, StepSize: -1}},
		{"zero end", Config{EndTime: 0, StepSize: 1}},
		{"nan end", Config{EndTime: math.NaN(), StepSize: 1}},
		{"inf step", Config{EndTime: 10, StepSize: math.Inf(1)}},
		{"step count overflows int", Config{EndTime: 1e300, StepSize: 1e-300}},
		{"step count too large", Config{EndTime: 1e19, StepSize: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Trace(context.Background(), ic, tt.cfg)
			if !errors.Is(err, ray.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}

	if _, err := New(nil, nil).Trace(context.Background(), ic, Config{EndTime: 1, StepSize: 1}); !errors.Is(err, ray.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter without depth, got %v", err)
	}
}

func TestLongEndTimeExitsEarly(t *testing.T) {
	x, _ := grid.Uniform(0, 1000, 101)
	sim := New(gridDepth(t, x, x, func(x, y float64) float64 { return 100 }), nil)

	tr, err := sim.Trace(context.Background(), ray.FromWavelength(990, 500, 50, 0), Config{EndTime: 1e15, StepSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Status != ray.ExitedDomain {
		t.Fatalf("expected exited domain, got %v (%v)", tr.Status, tr.Err)
	}
	if tr.Len() != 3 {
		t.Errorf("expected 3 states, got %d", tr.Len())
	}
}

func TestNonDivisibleEndTime(t *testing.T) {
	sim := New(field.ConstantDepth{H: 50}, nil)
	tr, err := sim.Trace(context.Background(), ray.FromWavelength(0, 0, 20, 1), Config{EndTime: 1, StepSize: 0.3})
	if err != nil {
		t.Fatal(err)
	}
	last, _ := tr.Last()
	if tr.Len() != 5 || math.Abs(last.T-1.2) > 1e-12 {
		t.Errorf("expected 5 states ending at t=1.2, got %d ending at %v", tr.Len(), last.T)
	}
}

func TestTraceCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim := New(field.ConstantDepth{H: 50}, nil)
	tr, err := sim.Trace(ctx, ray.FromWavelength(0, 0, 20, 0), Config{EndTime: 10, StepSize: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if tr.Len() != 1 || tr.Status != ray.Failed {
		t.Errorf("expected the initial state and failed status, got %d states, %v", tr.Len(), tr.Status)
	}
}

func TestFrequencyConservedWithDispersionRefraction(t *testing.T) {
	sim := New(field.SlopeDepth{H0: 50, DHDX: -5e-2}, field.LinearCurrent{DUDY: 1e-3})
	sim.AddMetric(func() Metric { return metrics.NewFrequencyDrift() })
	sim.AddMetric(func() Metric { return metrics.NewPathLength() })

	ic := ray.FromWavelength(0, 0, 40, 30*math.Pi/180)
	tr, err := sim.Trace(context.Background(), ic, Config{EndTime: 100, StepSize: 0.5, Refraction: physics.RefractionDispersion})
	if err != nil {
		t.Fatal(err)
	}
	if tr.Status != ray.Completed {
		t.Fatalf("expected completed, got %v (%v)", tr.Status, tr.Err)
	}
	if d := tr.Metrics["frequency_drift"]; d > 1e-6 {
		t.Errorf("absolute frequency drifted by %v", d)
	}
	if tr.Metrics["path_length"] <= 0 {
		t.Errorf("expected positive path length, got %v", tr.Metrics["path_length"])
	}

	first, last := tr.States[0], tr.States[tr.Len()-1]
	if last.Direction() >= first.Direction() {
		t.Errorf("expected the ray to turn toward the shore, heading %v -> %v", first.Direction(), last.Direction())
	}
}

func TestMetricsArePerTrace(t *testing.T) {
	sim := New(field.ConstantDepth{H: 50}, nil)
	sim.AddMetric(func() Metric { return metrics.NewPathLength() })
	cfg := Config{EndTime: 10, StepSize: 1}
	ic := ray.FromWavelength(0, 0, 20, 0)

	a, _ := sim.Trace(context.Background(), ic, cfg)
	b, _ := sim.Trace(context.Background(), ic, cfg)
	if a.Metrics["path_length"] != b.Metrics["path_length"] {
		t.Errorf("metric leaked across traces: %v vs %v", a.Metrics["path_length"], b.Metrics["path_length"])
	}
}
