package viz

import (
	"math"
	"strings"
)

// brailleBase is U+2800, the empty Braille cell. Each cell holds a 2×4 block
// of dots; dotBits[row][col] is the bit for that dot.
const brailleBase = '\u2800'

var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Braille raster of Width×Height cells, addressed in dots:
// x in [0, 2·Width), y in [0, 4·Height), y growing downwards.
type Canvas struct {
	Width, Height int
	cells         []uint8
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{Width: w, Height: h, cells: make([]uint8, w*h)}
}

// Set lights one dot. Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return
	}
	c.cells[(y/4)*c.Width+x/2] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	clear(c.cells)
}

// DrawLine lights every dot on the segment, stepping along its longer axis.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	n := max(absInt(dx), absInt(dy))
	if n == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		c.Set(x0+int(math.Round(f*float64(dx))), y0+int(math.Round(f*float64(dy))))
	}
}

// Trace clears the canvas and draws ys against xs as a connected line,
// scaled to fill the canvas. Non-finite points are skipped.
func (c *Canvas) Trace(xs, ys []float64) {
	c.Clear()

	type pt struct{ x, y float64 }
	pts := make([]pt, 0, len(xs))
	for i := 0; i < min(len(xs), len(ys)); i++ {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			pts = append(pts, pt{xs[i], ys[i]})
		}
	}
	if len(pts) == 0 {
		return
	}

	minX, maxX, minY, maxY := pts[0].x, pts[0].x, pts[0].y, pts[0].y
	for _, p := range pts {
		minX = min(minX, p.x)
		maxX = max(maxX, p.x)
		minY = min(minY, p.y)
		maxY = max(maxY, p.y)
	}
	spanX, spanY := maxX-minX, maxY-minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}

	w, h := c.Width*2-1, c.Height*4-1
	project := func(p pt) (int, int) {
		return int((p.x - minX) / spanX * float64(w)),
			h - int((p.y-minY)/spanY*float64(h))
	}

	x0, y0 := project(pts[0])
	c.Set(x0, y0)
	for _, p := range pts[1:] {
		x1, y1 := project(p)
		c.DrawLine(x0, y0, x1, y1)
		x0, y0 = x1, y1
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// String renders one text line per cell row.
func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for i, bits := range c.cells {
		b.WriteRune(brailleBase + rune(bits))
		if (i+1)%c.Width == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
