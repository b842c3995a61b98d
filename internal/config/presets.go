package config

import (
	"math"
	"sort"

	"github.com/san-kum/wavetrace/internal/ray"
)

// Presets are ready-made scenarios keyed by scenario and variant.
var Presets = map[string]map[string]*Config{
	"constant_depth": {
		"oblique": {
			Domain:     DomainConfig{NX: 201, NY: 201, DX: 10, DY: 10},
			Bathymetry: SourceConfig{Model: "constant", Params: map[string]float64{"h": 140}, Analytic: true},
			EndTime:    100,
			StepSize:   1,
			Rays:       []ray.InitialCondition{ray.FromWavelength(50, 500, 100, 20*math.Pi/180)},
		},
		"shear": {
			Domain:     DomainConfig{NX: 201, NY: 201, DX: 50, DY: 50},
			Bathymetry: SourceConfig{Model: "constant", Params: map[string]float64{"h": 1000}},
			Current:    &SourceConfig{Model: "linear", Params: map[string]float64{"dudy": 1e-4}},
			EndTime:    1000,
			StepSize:   1,
			Refraction: "dispersion",
			Fan:        &FanConfig{X0: 1000, Y0: 2000, X1: 1000, Y1: 8000, N: 7, Wavelength: 100},
		},
	},
	"linear_beach": {
		"right": {
			Domain: DomainConfig{NX: 200, NY: 100, DX: 500, DY: 500},
			Bathymetry: SourceConfig{Model: "linear_beach", Params: map[string]float64{
				"h0": 2000, "x0": 50000, "slope": 0.05,
			}},
			EndTime:    100000,
			StepSize:   1,
			Refraction: "dispersion",
			Rays: []ray.InitialCondition{
				ray.FromWavelength(10000, 1000, 2*math.Pi/0.05, math.Pi/6),
				ray.FromWavelength(10000, 49000, 2*math.Pi/0.05, -math.Pi/6),
				ray.FromWavelength(10000, 25000, 2*math.Pi/0.05, 0),
			},
		},
		"shallow": {
			Domain: DomainConfig{NX: 101, NY: 51, DX: 20, DY: 20},
			Bathymetry: SourceConfig{Model: "linear_beach", Params: map[string]float64{
				"h0": 50, "x0": 1000, "slope": 0.05,
			}},
			EndTime:    1000,
			StepSize:   0.5,
			Refraction: "dispersion",
			Fan:        &FanConfig{X0: 100, Y0: 100, X1: 100, Y1: 900, N: 9, Wavelength: 60, Heading: 30},
		},
	},
	"sea_mount": {
		"island": {
			Domain: DomainConfig{NX: 201, NY: 201, DX: 50, DY: 50},
			Bathymetry: SourceConfig{Model: "sea_mount", Params: map[string]float64{
				"h0": 200, "height": 180, "cx": 5000, "cy": 5000, "radius": 1000,
			}},
			EndTime:    1500,
			StepSize:   1,
			Refraction: "dispersion",
			Fan:        &FanConfig{X0: 100, Y0: 3000, X1: 100, Y1: 7000, N: 21, Wavelength: 200},
		},
	},
}

func GetPreset(scenario, variant string) *Config {
	variants, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := variants[variant]
	if !ok {
		return nil
	}
	return cfg.clone()
}

// clone copies c with its maps, slices and pointers, so edits never reach
// the preset table.
func (c *Config) clone() *Config {
	out := *c
	out.Bathymetry = c.Bathymetry.clone()
	if c.Current != nil {
		cur := c.Current.clone()
		out.Current = &cur
	}
	if c.Fan != nil {
		fan := *c.Fan
		out.Fan = &fan
	}
	out.Rays = append([]ray.InitialCondition(nil), c.Rays...)
	return &out
}

func (s SourceConfig) clone() SourceConfig {
	if s.Params != nil {
		p := make(map[string]float64, len(s.Params))
		for k, v := range s.Params {
			p[k] = v
		}
		s.Params = p
	}
	return s
}

func ListPresets(scenario string) []string {
	variants, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenarios returns the preset scenario names in sorted order.
func Scenarios() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
