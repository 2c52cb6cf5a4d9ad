package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/okian/windrose/internal/domain/trace"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	guideRings  = 4
	ringSamples = 72
)

var (
	guideColor   = color.Gray{Y: 200}
	defaultColor = color.RGBA{R: 0x33, G: 0xb5, B: 0xe5, A: 0xff}
)

// PNG draws the traces in order onto a square polar view and writes the
// image to w. Wedge traces become filled polygons and scatter traces become
// glyphs; later traces are drawn on top.
func (r *Renderer) PNG(w io.Writer, traces []trace.Trace) error {
	p := plot.New()
	p.Title.Text = r.title
	p.HideAxes()
	p.Legend.Top = true
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	lim := extent(traces)
	p.X.Min, p.X.Max = -lim, lim
	p.Y.Min, p.Y.Max = -lim, lim

	if err := r.addGuides(p, lim/pad); err != nil {
		return err
	}

	for i := range traces {
		tr := &traces[i]
		switch tr.Kind {
		case trace.KindWedgeFill:
			if err := r.addWedges(p, tr); err != nil {
				return err
			}
		case trace.KindScatter:
			if err := r.addScatter(p, tr); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedTrace, tr.Kind)
		}
	}

	wt, err := p.WriterTo(vg.Length(r.widthIn)*vg.Inch, vg.Length(r.heightIn)*vg.Inch, FormatPNG)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// addGuides draws concentric reference rings up to radius.
func (r *Renderer) addGuides(p *plot.Plot, radius float64) error {
	for k := 1; k <= guideRings; k++ {
		rk := radius * float64(k) / guideRings
		pts := make(plotter.XYs, ringSamples+1)
		for i := range pts {
			pts[i].X, pts[i].Y = r.XY(360*float64(i)/ringSamples, rk)
		}
		ring, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%w: guide: %w", ErrRender, err)
		}
		ring.Color = guideColor
		ring.Width = vg.Points(0.5)
		p.Add(ring)
	}
	return nil
}

// addWedges fills the closed fan outline of a wedge trace. Every sector of
// the outline returns through the origin, so a single ring fills them all.
func (r *Renderer) addWedges(p *plot.Plot, tr *trace.Trace) error {
	n := min(len(tr.Theta), len(tr.R))
	pts := make(plotter.XYs, 0, n+1)
	pts = append(pts, plotter.XY{})
	for i := 0; i < n; i++ {
		if !finite(tr.Theta[i]) || !finite(tr.R[i]) {
			continue
		}
		x, y := r.XY(tr.Theta[i], tr.R[i])
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	if len(pts) < 3 {
		return nil
	}

	poly, err := plotter.NewPolygon(pts)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, tr.Name, err)
	}
	fill := defaultColor
	if c, err := trace.ParseColor(tr.FillColor); err == nil {
		fill = c
	}
	poly.Color = withOpacity(fill, tr.Opacity)
	poly.LineStyle.Width = 0
	if tr.Line != nil && tr.Line.Width > 0 {
		poly.LineStyle.Width = vg.Points(tr.Line.Width)
		if c, err := trace.ParseColor(tr.Line.Color); err == nil {
			poly.LineStyle.Color = c
		}
	}
	p.Add(poly)
	p.Legend.Add(tr.Name, poly)
	return nil
}

// addScatter draws one glyph per finite point.
func (r *Renderer) addScatter(p *plot.Plot, tr *trace.Trace) error {
	n := min(len(tr.Theta), len(tr.R))
	marker := tr.Marker
	if marker == nil {
		marker = &trace.Marker{}
	}

	pts := make(plotter.XYs, 0, n)
	index := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !finite(tr.Theta[i]) || !finite(tr.R[i]) {
			continue
		}
		x, y := r.XY(tr.Theta[i], tr.R[i])
		pts = append(pts, plotter.XY{X: x, Y: y})
		index = append(index, i)
	}
	if len(pts) == 0 {
		return nil
	}

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, tr.Name, err)
	}
	sizes := markerSizes(marker, n)
	colors := pointColors(marker, n)
	shape := glyph(marker.Symbol)
	sc.GlyphStyleFunc = func(k int) draw.GlyphStyle {
		i := index[k]
		c := colors[i]
		if c == nil {
			c = defaultColor
		}
		return draw.GlyphStyle{
			Color:  withOpacity(c, tr.Opacity),
			Radius: vg.Points(sizes[i] / 2),
			Shape:  shape,
		}
	}
	sc.GlyphStyle = sc.GlyphStyleFunc(0)
	p.Add(sc)
	p.Legend.Add(tr.Name, sc)
	return nil
}

// pointColors resolves the marker colour of every point: one solid colour,
// a ramp over numeric values or categories for text and boolean values.
func pointColors(marker *trace.Marker, n int) []color.Color {
	out := make([]color.Color, n)
	switch c := marker.Color.(type) {
	case string:
		solid, err := trace.ParseColor(c)
		if err != nil {
			solid = defaultColor
		}
		for i := range out {
			out[i] = solid
		}
	case trace.Floats:
		copy(out, ramp(c, scalePalette(marker.Colorscale)))
	case []string, []bool:
		out = categories(marker, n, plotutil.Color)
	}
	return out
}

func glyph(symbol string) draw.GlyphDrawer {
	switch symbol {
	case "square":
		return draw.BoxGlyph{}
	case "triangle-up", "triangle-down":
		return draw.PyramidGlyph{}
	case "cross":
		return draw.PlusGlyph{}
	case "x":
		return draw.CrossGlyph{}
	case "diamond", "star":
		return draw.RingGlyph{}
	default:
		return draw.CircleGlyph{}
	}
}

func withOpacity(c color.Color, opacity *float64) color.Color {
	if opacity == nil {
		return c
	}
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	nc.A = uint8(math.Round(255 * math.Max(0, math.Min(1, *opacity))))
	return nc
}
