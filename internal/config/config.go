// Package config loads YAML run files describing the environment, the
// integration settings and the rays to trace.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/wavetrace/internal/physics"
	"github.com/san-kum/wavetrace/internal/ray"
	"github.com/san-kum/wavetrace/internal/sim"
)

const (
	DefaultEndTime    = 1000.0
	DefaultStepSize   = 1.0
	DefaultDepth      = 100.0
	DefaultNX         = 101
	DefaultNY         = 101
	DefaultSpacing    = 100.0
	DefaultWavelength = 100.0
)

type Config struct {
	Name       string                 `yaml:"name,omitempty"`
	Domain     DomainConfig           `yaml:"domain"`
	Bathymetry SourceConfig           `yaml:"bathymetry"`
	Current    *SourceConfig          `yaml:"current,omitempty"`
	EndTime    float64                `yaml:"end_time"`
	StepSize   float64                `yaml:"step_size"`
	Workers    int                    `yaml:"workers"`
	Refraction string                 `yaml:"refraction"`
	Gravity    float64                `yaml:"gravity,omitempty"`
	Rays       []ray.InitialCondition `yaml:"rays,omitempty"`
	Fan        *FanConfig             `yaml:"fan,omitempty"`
}

// DomainConfig is the node layout of synthetic grids. Node (i, j) sits at
// (i*DX, j*DY).
type DomainConfig struct {
	NX int     `yaml:"nx"`
	NY int     `yaml:"ny"`
	DX float64 `yaml:"dx"`
	DY float64 `yaml:"dy"`
}

// SourceConfig is either a NetCDF file or a named model with parameters.
// An analytic bathymetry model is evaluated exactly instead of being
// sampled onto the domain grid.
type SourceConfig struct {
	File     string             `yaml:"file,omitempty"`
	Model    string             `yaml:"model,omitempty"`
	Params   map[string]float64 `yaml:"params,omitempty"`
	Analytic bool               `yaml:"analytic,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Domain: DomainConfig{NX: DefaultNX, NY: DefaultNY, DX: DefaultSpacing, DY: DefaultSpacing},
		Bathymetry: SourceConfig{
			Model:  "constant",
			Params: map[string]float64{"h": DefaultDepth},
		},
		EndTime:    DefaultEndTime,
		StepSize:   DefaultStepSize,
		Refraction: physics.RefractionReduced.String(),
		Fan: &FanConfig{
			X0: 500, Y0: 2000, X1: 500, Y1: 8000,
			N: 7, Wavelength: DefaultWavelength,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	def := cfg.Bathymetry
	cfg.Bathymetry = SourceConfig{}
	cfg.Fan = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Bathymetry.File == "" && cfg.Bathymetry.Model == "" {
		cfg.Bathymetry = def
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig returns the integration settings.
func (c *Config) SimConfig() (sim.Config, error) {
	r, err := physics.ParseRefraction(c.Refraction)
	if err != nil {
		return sim.Config{}, err
	}
	sc := sim.Config{EndTime: c.EndTime, StepSize: c.StepSize, Refraction: r}
	return sc, sc.Validate()
}

// InitialConditions returns the explicit rays followed by the fan, if any.
func (c *Config) InitialConditions() ([]ray.InitialCondition, error) {
	ics := append([]ray.InitialCondition(nil), c.Rays...)
	if c.Fan != nil {
		fan, err := Fan(*c.Fan)
		if err != nil {
			return nil, err
		}
		ics = append(ics, fan...)
	}
	return ics, nil
}

// FanConfig places N rays evenly on the segment (X0, Y0)-(X1, Y1), all
// with the same wavelength and heading (degrees counterclockwise from +x).
type FanConfig struct {
	X0         float64 `yaml:"x0"`
	Y0         float64 `yaml:"y0"`
	X1         float64 `yaml:"x1"`
	Y1         float64 `yaml:"y1"`
	N          int     `yaml:"n"`
	Wavelength float64 `yaml:"wavelength"`
	Heading    float64 `yaml:"heading"`
}

func Fan(f FanConfig) ([]ray.InitialCondition, error) {
	if f.N < 1 {
		return nil, fmt.Errorf("%w: fan needs at least one ray, got %d", ray.ErrInvalidParameter, f.N)
	}
	if !(f.Wavelength > 0) || math.IsInf(f.Wavelength, 0) {
		return nil, fmt.Errorf("%w: fan wavelength must be positive, got %v", ray.ErrInvalidParameter, f.Wavelength)
	}

	heading := f.Heading * math.Pi / 180
	ics := make([]ray.InitialCondition, f.N)
	for i := range ics {
		s := 0.0
		if f.N > 1 {
			s = float64(i) / float64(f.N-1)
		}
		x := f.X0 + s*(f.X1-f.X0)
		y := f.Y0 + s*(f.Y1-f.Y0)
		ics[i] = ray.FromWavelength(x, y, f.Wavelength, heading)
	}
	return ics, nil
}
