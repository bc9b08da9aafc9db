package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// New2DPlot plots the true, measured and filtered series of a simulation run.
// Each series is a matrix whose first two columns hold the step and the value, as returned by Series.
// The true and measured values are drawn as scatter glyphs; the filter output as a line.
// It returns error if any series is nil or has fewer than 2 columns.
func New2DPlot(model, measure, filtered *mat.Dense) (*plot.Plot, error) {
	for name, m := range map[string]*mat.Dense{"model": model, "measure": measure, "filtered": filtered} {
		if m == nil {
			return nil, fmt.Errorf("missing %s series", name)
		}
		if _, c := m.Dims(); c < 2 {
			return nil, fmt.Errorf("invalid %s series: %d columns", name, c)
		}
	}

	p := plot.New()
	p.Title.Text = "Constant velocity tracking"
	p.X.Label.Text = "step"
	p.Y.Label.Text = "position"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	truth, err := plotter.NewScatter(xys(model))
	if err != nil {
		return nil, fmt.Errorf("failed to plot model series: %w", err)
	}
	truth.GlyphStyle = draw.GlyphStyle{
		Color:  color.RGBA{R: 255, B: 128, A: 255},
		Radius: vg.Points(2),
		Shape:  draw.PyramidGlyph{},
	}

	meas, err := plotter.NewScatter(xys(measure))
	if err != nil {
		return nil, fmt.Errorf("failed to plot measure series: %w", err)
	}
	meas.GlyphStyle = draw.GlyphStyle{
		Color:  color.RGBA{G: 200, A: 255},
		Radius: vg.Points(2),
		Shape:  draw.CircleGlyph{},
	}

	est, err := plotter.NewLine(xys(filtered))
	if err != nil {
		return nil, fmt.Errorf("failed to plot filtered series: %w", err)
	}
	est.LineStyle.Color = color.RGBA{B: 255, A: 255}
	est.LineStyle.Width = vg.Points(1)

	p.Add(truth, meas, est)
	p.Legend.Add("truth", truth)
	p.Legend.Add("measurement", meas)
	p.Legend.Add("filtered", est)

	return p, nil
}

func xys(m *mat.Dense) plotter.XYs {
	r, _ := m.Dims()

	pts := make(plotter.XYs, r)
	for i := range pts {
		pts[i].X, pts[i].Y = m.At(i, 0), m.At(i, 1)
	}

	return pts
}
