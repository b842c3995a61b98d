// Package export renders traced ray bundles.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/wavetrace/internal/grid"
	"github.com/san-kum/wavetrace/internal/ray"
	"github.com/san-kum/wavetrace/internal/sim"
)

// StatusColors is the stroke used for each terminal status.
var StatusColors = map[ray.Status]string{
	ray.Completed:    "#00ff00",
	ray.Grounded:     "#ffaa00",
	ray.ExitedDomain: "#00aaff",
	ray.Failed:       "#ff3333",
}

// Bounds returns the extent covering every state in b, or false when b holds
// no states.
func Bounds(b *sim.Bundle) (grid.Extent, bool) {
	var e grid.Extent
	found := false
	for _, tr := range b.Rays {
		for _, s := range tr.States {
			if !found {
				e = grid.Extent{XMin: s.X, XMax: s.X, YMin: s.Y, YMax: s.Y}
				found = true
				continue
			}
			e.XMin = min(e.XMin, s.X)
			e.XMax = max(e.XMax, s.X)
			e.YMin = min(e.YMin, s.Y)
			e.YMax = max(e.YMax, s.Y)
		}
	}
	return e, found
}

// pad widens e by 10% on each side and keeps both ranges non-zero.
func pad(e grid.Extent) grid.Extent {
	rangeX := e.XMax - e.XMin
	rangeY := e.YMax - e.YMin
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return grid.Extent{
		XMin: e.XMin - rangeX*0.1,
		XMax: e.XMax + rangeX*0.1,
		YMin: e.YMin - rangeY*0.1,
		YMax: e.YMax + rangeY*0.1,
	}
}

// BundleToSVG draws every ray of b as a polyline in a width x height
// image, stroked by status. Rays with fewer than two states are drawn as a
// dot. An empty bundle yields "".
func BundleToSVG(b *sim.Bundle, width, height int) string {
	e, ok := Bounds(b)
	if !ok {
		return ""
	}
	e = pad(e)
	rangeX := e.XMax - e.XMin
	rangeY := e.YMax - e.YMin

	project := func(s ray.State) (float64, float64) {
		x := (s.X - e.XMin) / rangeX * float64(width)
		y := float64(height) - (s.Y-e.YMin)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, tr := range b.Rays {
		if len(tr.States) == 0 {
			continue
		}
		color, ok := StatusColors[tr.Status]
		if !ok {
			color = "#ffffff"
		}

		if len(tr.States) == 1 {
			x, y := project(tr.States[0])
			sb.WriteString(fmt.Sprintf(`<circle id="ray-%d" cx="%.1f" cy="%.1f" r="1.5" fill="%s"/>
`, i, x, y, color))
			continue
		}

		sb.WriteString(fmt.Sprintf(`<path id="ray-%d" fill="none" stroke="%s" stroke-width="1.5" d="M`, i, color))
		for j, s := range tr.States {
			x, y := project(s)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
