package ncgrid

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ctessum/cdf"

	"github.com/san-kum/wavetrace/internal/grid"
	"github.com/san-kum/wavetrace/internal/ray"
)

type rawVar struct {
	name string
	dims []string
	data interface{}
}

func writeRaw(t *testing.T, dims []string, lens []int, vars []rawVar) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "raw.nc")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	h := cdf.NewHeader(dims, lens)
	for _, v := range vars {
		proto := reflect.MakeSlice(reflect.TypeOf(v.data), 1, 1).Interface()
		h.AddVariable(v.name, v.dims, proto)
	}
	h.Define()

	nc, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vars {
		end := nc.Header.Lengths(v.name)
		if _, err := nc.Writer(v.name, make([]int, len(end)), end).Write(v.data); err != nil {
			t.Fatalf("write %s: %v", v.name, err)
		}
	}
	return path
}

func TestWriteLoadRoundTrip(t *testing.T) {
	x := []float64{0, 10, 25, 45}
	y := []float64{-5, 5, 15}
	g, err := grid.FromFunc(x, y, map[string]grid.Func{
		grid.Depth: func(x, y float64) float64 { return 100 - x + 0.5*y },
		grid.U:     func(x, y float64) float64 { return 0.01 * x },
		grid.V:     func(x, y float64) float64 { return -0.02 * y },
	})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "grid.nc")
	if err := Write(path, g); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	bathy, err := LoadBathymetry(path)
	if err != nil {
		t.Fatalf("load bathymetry: %v", err)
	}
	cur, err := LoadCurrent(path)
	if err != nil {
		t.Fatalf("load current: %v", err)
	}

	if !reflect.DeepEqual(bathy.X(), x) || !reflect.DeepEqual(bathy.Y(), y) {
		t.Errorf("axes changed: x=%v y=%v", bathy.X(), bathy.Y())
	}
	for _, c := range []struct {
		g    *grid.Grid
		name string
	}{{bathy, grid.Depth}, {cur, grid.U}, {cur, grid.V}} {
		want, _ := g.Values(c.name)
		got, err := c.g.Values(c.name)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: expected %v, got %v", c.name, want, got)
		}
	}
	if bathy.Has(grid.U) {
		t.Error("bathymetry schema should not load current fields")
	}
}

func TestLoadConvertsNumericTypes(t *testing.T) {
	path := writeRaw(t, []string{"x", "y"}, []int{3, 2}, []rawVar{
		{"x", []string{"x"}, []float32{0, 1.5, 3}},
		{"y", []string{"y"}, []int32{0, 2}},
		{"depth", []string{"y", "x"}, []int16{10, 20, 30, 40, 50, 60}},
	})

	g, err := LoadBathymetry(path)
	if err != nil {
		t.Fatal(err)
	}
	s, err := g.Sampler().Scalar(grid.Depth, 1.5, 2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Value != 50 {
		t.Errorf("expected depth 50 at (1.5, 2), got %v", s.Value)
	}
	if e := g.Extent(); e.XMax != 3 || e.YMax != 2 {
		t.Errorf("unexpected extent %+v", e)
	}
}

func TestLoadTransposesXY(t *testing.T) {
	// depth stored (x, y): value = 10*i + j
	path := writeRaw(t, []string{"x", "y"}, []int{3, 3}, []rawVar{
		{"x", []string{"x"}, []float64{0, 1, 2}},
		{"y", []string{"y"}, []float64{0, 1, 2}},
		{"depth", []string{"x", "y"}, []float64{0, 1, 2, 10, 11, 12, 20, 21, 22}},
	})

	g, err := LoadBathymetry(path)
	if err != nil {
		t.Fatal(err)
	}
	f, _ := g.Field(grid.Depth)
	if f.At(2, 1) != 21 || f.At(1, 2) != 12 {
		t.Errorf("expected (2,1)=21 and (1,2)=12, got %v and %v", f.At(2, 1), f.At(1, 2))
	}
}

func TestLoadErrors(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage.nc")
	if err := os.WriteFile(garbage, []byte("not a netcdf file"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path func(t *testing.T) string
		want error
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.nc") }, ray.ErrFileIO},
		{"not netcdf", func(t *testing.T) string { return garbage }, ray.ErrFileIO},
		{"missing depth", func(t *testing.T) string {
			return writeRaw(t, []string{"x", "y"}, []int{2, 2}, []rawVar{
				{"x", []string{"x"}, []float64{0, 1}},
				{"y", []string{"y"}, []float64{0, 1}},
				{"elevation", []string{"y", "x"}, []float64{1, 2, 3, 4}},
			})
		}, ray.ErrSchemaInvalid},
		{"missing coordinate", func(t *testing.T) string {
			return writeRaw(t, []string{"x", "y"}, []int{2, 2}, []rawVar{
				{"x", []string{"x"}, []float64{0, 1}},
				{"depth", []string{"y", "x"}, []float64{1, 2, 3, 4}},
			})
		}, ray.ErrSchemaInvalid},
		{"1d depth", func(t *testing.T) string {
			return writeRaw(t, []string{"x", "y"}, []int{2, 2}, []rawVar{
				{"x", []string{"x"}, []float64{0, 1}},
				{"y", []string{"y"}, []float64{0, 1}},
				{"depth", []string{"x"}, []float64{1, 2}},
			})
		}, ray.ErrSchemaInvalid},
		{"shape mismatch", func(t *testing.T) string {
			return writeRaw(t, []string{"x", "y", "z"}, []int{2, 3, 4}, []rawVar{
				{"x", []string{"x"}, []float64{0, 1}},
				{"y", []string{"y"}, []float64{0, 1, 2}},
				{"depth", []string{"z", "x"}, make([]float64, 8)},
			})
		}, ray.ErrSchemaInvalid},
		{"unsorted axis", func(t *testing.T) string {
			return writeRaw(t, []string{"x", "y"}, []int{2, 2}, []rawVar{
				{"x", []string{"x"}, []float64{1, 0}},
				{"y", []string{"y"}, []float64{0, 1}},
				{"depth", []string{"y", "x"}, []float64{1, 2, 3, 4}},
			})
		}, ray.ErrSchemaInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBathymetry(tt.path(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTranspose(t *testing.T) {
	got := transpose([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	want := []float64{1, 4, 2, 5, 3, 6}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 0 {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
