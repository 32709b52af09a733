package export

import (
	"fmt"
	"math"
	"strings"
)

// svgMargin pads the data box on every side, as a fraction of its span.
const svgMargin = 0.1

type box struct{ x0, y0, w, h float64 }

func bounds(xs, ys []float64) box {
	lx, hx := math.Inf(1), math.Inf(-1)
	ly, hy := math.Inf(1), math.Inf(-1)
	for i := range xs {
		lx, hx = min(lx, xs[i]), max(hx, xs[i])
		ly, hy = min(ly, ys[i]), max(hy, ys[i])
	}
	b := box{x0: lx, y0: ly, w: hx - lx, h: hy - ly}
	if b.w == 0 {
		b.w = 1
	}
	if b.h == 0 {
		b.h = 1
	}
	b.x0 -= b.w * svgMargin
	b.y0 -= b.h * svgMargin
	b.w *= 1 + 2*svgMargin
	b.h *= 1 + 2*svgMargin
	return b
}

// TrajectorySVG draws ys against xs as one path on a dark background.
// Fewer than two points yield "".
func TrajectorySVG(xs, ys []float64, width, height int, strokeColor string) string {
	n := min(len(xs), len(ys))
	if n < 2 {
		return ""
	}
	xs, ys = xs[:n], ys[:n]
	b := bounds(xs, ys)
	fw, fh := float64(width), float64(height)

	var d strings.Builder
	for i := range n {
		px := (xs[i] - b.x0) / b.w * fw
		py := fh - (ys[i]-b.y0)/b.h*fh
		if i == 0 {
			fmt.Fprintf(&d, "M%.1f,%.1f", px, py)
			continue
		}
		fmt.Fprintf(&d, " L%.1f,%.1f", px, py)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
</svg>`, width, height, width, height, strokeColor, d.String())
}
