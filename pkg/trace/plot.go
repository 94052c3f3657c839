package trace

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// RenderPNG draws the trace as a connected scatter of the derived Cartesian
// points (x, y) = (d*cos(θ), d*sin(θ)) and saves it as a PNG. Samples with
// an infinite distance have no finite Cartesian image and are skipped; the
// CSV artifact keeps them.
func RenderPNG(path string, samples []Sample) error {
	pts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		if math.IsInf(s.Distance, 0) || math.IsNaN(s.Distance) {
			continue
		}
		rad := s.Angle * math.Pi / 180
		pts = append(pts, plotter.XY{
			X: s.Distance * math.Cos(rad),
			Y: s.Distance * math.Sin(rad),
		})
	}

	p := plot.New()
	p.Title.Text = "Room Map"
	p.X.Label.Text = "X (cm)"
	p.Y.Label.Text = "Y (cm)"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("trace line: %w", err)
	}
	line.Color = color.RGBA{B: 255, A: 255}
	line.Width = vg.Points(1)
	p.Add(line)

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("trace points: %w", err)
	}
	scatter.Color = color.RGBA{B: 255, A: 255}
	scatter.Radius = vg.Points(2)
	p.Add(scatter)

	if err := p.Save(10*vg.Inch, 10*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
