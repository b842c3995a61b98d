package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/wavetrace/internal/physics"
	"github.com/san-kum/wavetrace/internal/ray"
)

// PathLength is the polyline length of the ray in metres.
type PathLength struct {
	prev   []float64
	length float64
}

func NewPathLength() *PathLength {
	return &PathLength{}
}

func (p *PathLength) Name() string { return "path_length" }

func (p *PathLength) Observe(_ *physics.Kinematics, s ray.State) {
	cur := []float64{s.X, s.Y}
	if p.prev != nil {
		p.length += floats.Distance(p.prev, cur, 2)
	}
	p.prev = cur
}

func (p *PathLength) Value() float64 { return p.length }

func (p *PathLength) Reset() {
	p.prev = nil
	p.length = 0
}
