// Package render draws trace descriptors as static previews: PNG images
// through gonum/plot and interactive HTML pages through go-echarts.
//
// Both renderers project polar points onto the plane the same way, so the
// angular rotation and direction options apply to either format.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/okian/windrose/internal/domain/trace"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
)

// Angular directions.
const (
	CounterClockwise = "counterclockwise"
	Clockwise        = "clockwise"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatHTML = "html"
)

const (
	defaultSizeIn = 6.0
	// scaleColors is the number of steps sampled from a colour scale.
	scaleColors = 9
	// pad enlarges the plotted extent so outer points stay visible.
	pad = 1.05
)

// Renderer holds the layout shared by the output formats. It is immutable
// after New and safe for concurrent use.
type Renderer struct {
	widthIn   float64
	heightIn  float64
	rotation  float64
	clockwise bool
	title     string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the output size in inches. Non-positive values are ignored.
func WithSize(widthIn, heightIn float64) Option {
	return func(r *Renderer) {
		if widthIn > 0 {
			r.widthIn = widthIn
		}
		if heightIn > 0 {
			r.heightIn = heightIn
		}
	}
}

// WithRotation sets where angle 0 points, in degrees counterclockwise from
// the positive x axis.
func WithRotation(deg float64) Option {
	return func(r *Renderer) {
		if !math.IsNaN(deg) && !math.IsInf(deg, 0) {
			r.rotation = deg
		}
	}
}

// WithDirection sets the direction of increasing angles.
func WithDirection(dir string) Option {
	return func(r *Renderer) {
		r.clockwise = dir == Clockwise
	}
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(r *Renderer) {
		r.title = title
	}
}

// New returns a Renderer with a 6x6 inch canvas, angle 0 on the positive x
// axis and counterclockwise angles.
func New(opts ...Option) *Renderer {
	r := &Renderer{widthIn: defaultSizeIn, heightIn: defaultSizeIn}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// XY projects a polar point onto the plane.
func (r *Renderer) XY(theta, radius float64) (x, y float64) {
	a := theta
	if r.clockwise {
		a = -a
	}
	rad := (a + r.rotation) * math.Pi / 180
	return radius * math.Cos(rad), radius * math.Sin(rad)
}

// extent returns the half-width of the square view that holds every finite
// point of traces.
func extent(traces []trace.Trace) float64 {
	maxR := 0.0
	for i := range traces {
		for _, v := range traces[i].R {
			if finite(v) && math.Abs(v) > maxR {
				maxR = math.Abs(v)
			}
		}
	}
	if maxR == 0 {
		return 1
	}
	return maxR * pad
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// scalePalette samples a named colour scale. Brewer scales are used as is;
// a few others map onto gonum's continuous maps; anything else falls back
// to YlOrRd.
func scalePalette(name string) []color.Color {
	if p, err := brewer.GetPalette(brewer.TypeAny, name, scaleColors); err == nil {
		return p.Colors()
	}
	switch name {
	case "Hot", "Blackbody":
		return moreland.BlackBody().Palette(scaleColors).Colors()
	case "Bluered", "Picnic":
		return moreland.SmoothBlueRed().Palette(scaleColors).Colors()
	case "Jet", "Rainbow", "Portland":
		return palette.Rainbow(scaleColors, palette.Blue, palette.Red, 1, 1, 1).Colors()
	case "Viridis", "Cividis", "Electric", "Earth":
		return moreland.Kindlmann().Palette(scaleColors).Colors()
	}
	p, _ := brewer.GetPalette(brewer.TypeAny, "YlOrRd", scaleColors)
	return p.Colors()
}

// ramp maps each value onto the palette, scaled between the finite minimum
// and maximum. Non-finite values get nil.
func ramp(values []float64, colors []color.Color) []color.Color {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if finite(v) {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	out := make([]color.Color, len(values))
	last := float64(len(colors) - 1)
	for i, v := range values {
		if !finite(v) {
			continue
		}
		t := 0.0
		if hi > lo {
			t = (v - lo) / (hi - lo)
		}
		out[i] = colors[int(math.Floor(t*last+0.5))]
	}
	return out
}

// categories assigns colours to text or boolean values in order of first
// appearance.
func categories(marker *trace.Marker, n int, pick func(int) color.Color) []color.Color {
	out := make([]color.Color, n)
	seen := map[string]int{}
	assign := func(i int, key string) {
		idx, ok := seen[key]
		if !ok {
			idx = len(seen)
			seen[key] = idx
		}
		out[i] = pick(idx)
	}
	switch vals := marker.Color.(type) {
	case []string:
		for i := 0; i < n && i < len(vals); i++ {
			assign(i, vals[i])
		}
	case []bool:
		for i := 0; i < n && i < len(vals); i++ {
			assign(i, fmt.Sprint(vals[i]))
		}
	}
	return out
}

// hex formats c as #rrggbb.
func hex(c color.Color) string {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", nc.R, nc.G, nc.B)
}

// markerSizes returns the rendered diameter of every point, in points.
func markerSizes(marker *trace.Marker, n int) []float64 {
	out := make([]float64, n)
	switch s := marker.Size.(type) {
	case trace.Floats:
		ref := marker.Sizeref
		if ref <= 0 {
			ref = 1
		}
		for i := range out {
			v := 0.0
			if i < len(s) && finite(s[i]) && s[i] > 0 {
				v = s[i] / ref
				if marker.Sizemode == "area" {
					v = math.Sqrt(v)
				}
			}
			out[i] = math.Max(v, marker.Sizemin)
		}
	case float64:
		for i := range out {
			out[i] = s
		}
	default:
		for i := range out {
			out[i] = 15
		}
	}
	return out
}
