package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/wavetrace/internal/ray"
)

// Gravity is the gravitational acceleration in m/s².
const Gravity = 9.81

// Refraction selects the depth refraction term of the wavenumber equation.
type Refraction int

const (
	RefractionReduced Refraction = iota
	RefractionDispersion
)

var refractionNames = map[Refraction]string{
	RefractionReduced:    "reduced",
	RefractionDispersion: "dispersion",
}

func (r Refraction) String() string {
	if n, ok := refractionNames[r]; ok {
		return n
	}
	return fmt.Sprintf("refraction(%d)", int(r))
}

// ParseRefraction maps a name to a Refraction. The empty string is the
// default, RefractionReduced.
func ParseRefraction(s string) (Refraction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RefractionReduced, nil
	}
	for r, n := range refractionNames {
		if n == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown refraction %q (want reduced or dispersion)", ray.ErrInvalidParameter, s)
}

// IntrinsicFrequency is ω = sqrt(g·k·tanh(kH)).
func IntrinsicFrequency(g, k, h float64) float64 {
	return math.Sqrt(g * k * math.Tanh(k*h))
}

// GroupVelocity is cg = ∂ω/∂k for water depth h.
func GroupVelocity(g, k, h float64) float64 {
	kh := k * h
	th := math.Tanh(kh)
	sech := 1 / math.Cosh(kh)
	return 0.5 * g * (th + kh*sech*sech) / math.Sqrt(g*k*th)
}

// PhaseSpeed is c = ω/k.
func PhaseSpeed(g, k, h float64) float64 {
	return IntrinsicFrequency(g, k, h) / k
}

// coefficient multiplies the depth gradient in the wavenumber equation.
func (r Refraction) coefficient(g, k, h float64) float64 {
	kh := k * h
	if r == RefractionDispersion {
		return -k * IntrinsicFrequency(g, k, h) / math.Sinh(2*kh)
	}
	return -0.5 * g * k / math.Sqrt(math.Tanh(kh))
}
