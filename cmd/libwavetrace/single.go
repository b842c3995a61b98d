package main

import (
	"context"

	"github.com/san-kum/wavetrace/internal/field"
	"github.com/san-kum/wavetrace/internal/ncgrid"
	"github.com/san-kum/wavetrace/internal/ray"
	"github.com/san-kum/wavetrace/internal/sim"
)

func singleRay(path string, ic ray.InitialCondition, cfg sim.Config) sim.Code {
	bathy, err := ncgrid.LoadBathymetry(path)
	if err != nil {
		return sim.CodeOf(ray.Trajectory{}, err)
	}
	depth, current, err := field.FromGrids(bathy, nil)
	if err != nil {
		return sim.CodeOf(ray.Trajectory{}, err)
	}
	tr, err := sim.TraceSingle(context.Background(), ic, cfg, depth, current)
	return sim.CodeOf(tr, err)
}

func main() {}
