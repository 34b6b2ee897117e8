package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/sphsim/internal/sph"
	"github.com/san-kum/sphsim/internal/viz"
)

// ParticlesToSVG draws the particles of one frame inside the tank. scale is
// pixels per world unit. Particles are shaded from blue (no pressure) to
// white (maxPressure); a non-positive maxPressure uses the frame's peak.
func ParticlesToSVG(ps []sph.Particle, p sph.Params, wallLeft, scale, maxPressure float64) string {
	width := p.Width * scale
	height := p.Height * scale

	if maxPressure <= 0 {
		for _, q := range ps {
			maxPressure = math.Max(maxPressure, q.Pressure)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect x="0" y="0" width="%.1f" height="%.0f" fill="#333333"/>
<line x1="%.1f" y1="0" x2="%.1f" y2="%.0f" stroke="#ff5555" stroke-width="2"/>
<g>
`, width, height, width, height, wallLeft*scale, height, wallLeft*scale, wallLeft*scale, height))

	radius := p.KernelRange * scale / 4
	for _, q := range ps {
		cx := q.Position.X * scale
		cy := height - q.Position.Y*scale
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, radius, pressureColor(q.Pressure, maxPressure)))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func pressureColor(pressure, maxPressure float64) string {
	frac := 0.0
	if maxPressure > 0 {
		frac = math.Min(1, math.Max(0, pressure/maxPressure))
	}
	r := int(40 + frac*215)
	g := int(120 + frac*135)
	return fmt.Sprintf("#%02x%02xff", r, g)
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#5fafff">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.Get(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values against times as a polyline.
func SeriesToSVG(times, values []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[n-1]
	minY, maxY := values[0], values[0]
	for _, v := range values[:n] {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
