package analysis

import (
	"strings"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/sim"
)

type Point struct{ X, Y float64 }

// Portrait is one column of a run plotted against another. Indices follow
// sim.Column: 0..3 are x..x‴, 4 is x⁗, 5 is F.
type Portrait struct {
	XIndex, YIndex int
	Points         []Point
}

func PhasePortrait(samples []dynamo.Sample, xIdx, yIdx int) *Portrait {
	if xIdx < 0 || yIdx < 0 || xIdx >= len(sim.ColumnNames) || yIdx >= len(sim.ColumnNames) {
		return nil
	}

	xs := sim.Column(samples, xIdx)
	ys := sim.Column(samples, yIdx)

	p := &Portrait{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, len(samples)),
	}
	for i := range samples {
		p.Points[i] = Point{xs[i], ys[i]}
	}
	return p
}

// Crossings records (x, y) at every upward crossing of threshold by column
// crossIdx, interpolated linearly between the bracketing samples.
func Crossings(samples []dynamo.Sample, crossIdx int, threshold float64, xIdx, yIdx int) []Point {
	if len(samples) < 2 {
		return nil
	}
	c := sim.Column(samples, crossIdx)
	xs := sim.Column(samples, xIdx)
	ys := sim.Column(samples, yIdx)

	var out []Point
	for i := 1; i < len(samples); i++ {
		prev, cur := c[i-1], c[i]
		if prev < threshold && cur >= threshold {
			frac := (threshold - prev) / (cur - prev)
			out = append(out, Point{
				X: xs[i-1] + frac*(xs[i]-xs[i-1]),
				Y: ys[i-1] + frac*(ys[i]-ys[i-1]),
			})
		}
	}
	return out
}

// ASCII renders the portrait on a width×height character grid, with axes
// where they cross the visible area.
func (p *Portrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
