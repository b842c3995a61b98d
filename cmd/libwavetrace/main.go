// Command libwavetrace builds the C shared library exposing single_ray:
//
//	go build -buildmode=c-shared -o libwavetrace.so ./cmd/libwavetrace
package main

// #include <stdint.h>
import "C"

import (
	"github.com/san-kum/wavetrace/internal/physics"
	"github.com/san-kum/wavetrace/internal/ray"
	"github.com/san-kum/wavetrace/internal/sim"
)

//export single_ray
func single_ray(bathymetryPath *C.char, x0, y0, kx0, ky0, endTime, stepSize C.double) C.int32_t {
	return C.int32_t(singleRay(C.GoString(bathymetryPath),
		ray.InitialCondition{X: float64(x0), Y: float64(y0), KX: float64(kx0), KY: float64(ky0)},
		sim.Config{EndTime: float64(endTime), StepSize: float64(stepSize), Refraction: physics.RefractionReduced},
	))
}
