// Package plot renders dashboard charts as PNG images.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"github.com/farxc/painel-ies/internal/census/types"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var ErrNoData = errors.New("chart has no data")

const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

// Palette in series order.
var palette = []string{"#2C5E8A", "#5FAEEB", "#2E7CD1", "#36A2E0", "#6EC3EE", "#C6E4F8", "#1A4B7D"}

func hexColor(hex string) color.Color {
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// horizontal reports whether a chart kind is drawn with categories on the Y
// axis. Pie and treemap charts have no gonum plotter and are drawn as sorted
// horizontal bars.
func horizontal(kind types.ChartKind) bool {
	switch kind {
	case types.ChartHBar, types.ChartStacked, types.ChartPie, types.ChartTreemap:
		return true
	}
	return false
}

// Render writes c as a PNG to w.
func Render(c types.Chart, w io.Writer) error {
	categories := c.Categories()
	if len(categories) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.Legend.Top = true

	hbar := horizontal(c.Kind)
	width := vg.Points(18)
	if c.Kind == types.ChartGrouped && len(c.Series) > 1 {
		width = vg.Points(36 / float64(len(c.Series)))
	}

	var below *plotter.BarChart
	for i, s := range c.Series {
		values := make(plotter.Values, len(categories))
		for j, pt := range s.Points {
			if j < len(values) {
				values[j] = pt.Value
			}
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("failed to build bars for %s: %w", s.Name, err)
		}
		bars.Horizontal = hbar
		bars.Color = hexColor(palette[i%len(palette)])
		bars.LineStyle.Width = vg.Length(0)

		switch c.Kind {
		case types.ChartStacked:
			if below != nil {
				bars.StackOn(below)
			}
			below = bars
		case types.ChartGrouped:
			bars.Offset = vg.Length(float64(i)-float64(len(c.Series)-1)/2) * width
		}

		p.Add(bars)
		if len(c.Series) > 1 {
			p.Legend.Add(s.Name, bars)
		}
	}

	if hbar {
		p.NominalY(categories...)
	} else {
		p.NominalX(categories...)
		if len(categories) > 6 {
			p.X.Tick.Label.Rotation = 0.6
			p.X.Tick.Label.XAlign = draw.XRight
		}
	}
	p.Add(plotter.NewGrid())

	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("failed to render chart %s: %w", c.ID, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart %s: %w", c.ID, err)
	}
	return nil
}
