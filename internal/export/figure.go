package export

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/sim"
)

var panelTitles = []string{
	"x(t)",
	"x'(t)",
	"x''(t)",
	"x'''(t)",
	"x''''(t)",
	"disturbance F(t)",
}

var panelColors = []color.Color{
	color.RGBA{B: 200, A: 255},
	color.RGBA{G: 140, A: 255},
	color.RGBA{R: 200, A: 255},
	color.RGBA{R: 160, B: 160, A: 255},
	color.RGBA{R: 200, G: 120, A: 255},
	color.Black,
}

const (
	figureRows = 3
	figureCols = 2
)

// WriteFigure renders every column against time on a 3×2 grid and saves it
// as PNG.
func WriteFigure(path string, samples []dynamo.Sample) error {
	if len(samples) < 2 {
		return errors.New("export: figure needs at least two samples")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	times := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.T
	}

	plots := make([][]*plot.Plot, figureRows)
	for r := range plots {
		plots[r] = make([]*plot.Plot, figureCols)
		for c := range plots[r] {
			idx := r*figureCols + c
			p, err := panel(times, sim.Column(samples, idx), idx)
			if err != nil {
				return err
			}
			plots[r][c] = p
		}
	}

	img := vgimg.NewWith(
		vgimg.UseWH(14*vg.Inch, 10*vg.Inch),
		vgimg.UseDPI(150),
	)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      figureRows,
		Cols:      figureCols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: img}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

func panel(ts, ys []float64, idx int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panelTitles[idx]
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = Header[idx+1]
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(ts))
	for i := range ts {
		pts[i].X = ts[i]
		pts[i].Y = ys[i]
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = panelColors[idx]
	p.Add(line)
	return p, nil
}
