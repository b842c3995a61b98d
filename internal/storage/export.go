package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/wavetrace/internal/ray"
	"github.com/san-kum/wavetrace/internal/sim"
)

// RayJSON is one trajectory in column form.
type RayJSON struct {
	T      []float64          `json:"t_vec"`
	X      []float64          `json:"x_vec"`
	Y      []float64          `json:"y_vec"`
	KX     []float64          `json:"kx_vec"`
	KY     []float64          `json:"ky_vec"`
	Status ray.Status         `json:"status"`
	Error  string             `json:"error,omitempty"`
	Metric map[string]float64 `json:"metrics,omitempty"`
}

// BundleJSON is the JSON form of a batch result.
type BundleJSON struct {
	Rays []RayJSON `json:"rays"`
}

func NewBundleJSON(b *sim.Bundle) *BundleJSON {
	out := &BundleJSON{Rays: make([]RayJSON, len(b.Rays))}
	for i, tr := range b.Rays {
		n := tr.Len()
		r := RayJSON{
			T:      make([]float64, n),
			X:      make([]float64, n),
			Y:      make([]float64, n),
			KX:     make([]float64, n),
			KY:     make([]float64, n),
			Status: tr.Status,
			Metric: finiteMetrics(tr.Metrics),
		}
		for j, s := range tr.States {
			r.T[j], r.X[j], r.Y[j], r.KX[j], r.KY[j] = s.T, s.X, s.Y, s.KX, s.KY
		}
		if tr.Err != nil {
			r.Error = tr.Err.Error()
		}
		out.Rays[i] = r
	}
	return out
}

// finiteMetrics drops undefined values, which JSON cannot encode.
func finiteMetrics(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

// Bundle converts back to trajectories. Termination errors only survive as
// text, so Err is left nil.
func (bj *BundleJSON) Bundle() (*sim.Bundle, error) {
	b := &sim.Bundle{Rays: make([]ray.Trajectory, len(bj.Rays))}
	for i, r := range bj.Rays {
		n := len(r.T)
		if len(r.X) != n || len(r.Y) != n || len(r.KX) != n || len(r.KY) != n {
			return nil, fmt.Errorf("ray %d: column lengths differ", i)
		}
		tr := ray.Trajectory{States: make([]ray.State, n), Status: r.Status, Metrics: r.Metric}
		for j := range tr.States {
			tr.States[j] = ray.State{T: r.T[j], X: r.X[j], Y: r.Y[j], KX: r.KX[j], KY: r.KY[j]}
		}
		b.Rays[i] = tr
	}
	return b, nil
}

func WriteBundle(w io.Writer, b *sim.Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewBundleJSON(b))
}

func ReadBundle(r io.Reader) (*sim.Bundle, error) {
	var bj BundleJSON
	if err := json.NewDecoder(r).Decode(&bj); err != nil {
		return nil, err
	}
	return bj.Bundle()
}

// ExportJSON writes b to path in bundle JSON form.
func ExportJSON(path string, b *sim.Bundle) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBundle(file, b); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

var rayHeader = []string{"t", "x", "y", "kx", "ky"}

// WriteRayCSV writes one trajectory with the header t,x,y,kx,ky.
func WriteRayCSV(w io.Writer, states []ray.State) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rayHeader); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, s := range states {
		if err := cw.Write([]string{f(s.T), f(s.X), f(s.Y), f(s.KX), f(s.KY)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadRayCSV(r io.Reader) ([]ray.State, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(rayHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header")
	}

	states := make([]ray.State, 0, len(records)-1)
	for i, rec := range records[1:] {
		var v [5]float64
		for j := range v {
			if v[j], err = strconv.ParseFloat(rec[j], 64); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
		}
		states = append(states, ray.State{T: v[0], X: v[1], Y: v[2], KX: v[3], KY: v[4]})
	}
	return states, nil
}
