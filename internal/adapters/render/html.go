package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/okian/windrose/internal/domain/trace"
)

// pixelsPerInch converts the configured size to CSS pixels.
const pixelsPerInch = 96

// HTML writes an interactive page plotting the scatter traces on a square
// plane. Wedge traces are not supported by the HTML preview.
func (r *Renderer) HTML(w io.Writer, traces []trace.Trace) error {
	for i := range traces {
		if traces[i].Kind != trace.KindScatter {
			return fmt.Errorf("%w: %q in html preview", ErrUnsupportedTrace, traces[i].Kind)
		}
	}

	lim := extent(traces)
	title := r.title
	if title == "" {
		title = "Polar scatter"
	}

	sc := charts.NewScatter()
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     fmt.Sprintf("%dpx", int(r.widthIn*pixelsPerInch)),
			Height:    fmt.Sprintf("%dpx", int(r.heightIn*pixelsPerInch)),
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("traces=%d", len(traces))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Min: -lim, Max: lim, Name: "x", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Min: -lim, Max: lim, Name: "y", NameLocation: "middle", NameGap: 30}),
	}

	for i := range traces {
		tr := &traces[i]
		data, values := r.scatterData(tr)
		marker := tr.Marker
		if marker == nil {
			marker = &trace.Marker{}
		}

		series := []charts.SeriesOpts{
			charts.WithScatterChartOpts(opts.ScatterChart{Symbol: symbol(marker.Symbol)}),
		}
		if c, ok := marker.Color.(string); ok {
			if rgba, err := trace.ParseColor(c); err == nil {
				series = append(series, charts.WithItemStyleOpts(opts.ItemStyle{Color: hex(rgba)}))
			}
		}
		if values != nil && marker.Showscale {
			global = append(global, visualMap(values, marker.Colorscale))
		}
		sc.AddSeries(tr.Name, data, series...)
	}
	sc.SetGlobalOptions(global...)

	if err := sc.Render(w); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// scatterData projects the finite points of tr. When the marker carries a
// numeric colour ramp the value rides along as the third dimension and is
// also returned for the visual map.
func (r *Renderer) scatterData(tr *trace.Trace) ([]opts.ScatterData, []float64) {
	n := min(len(tr.Theta), len(tr.R))
	var shade trace.Floats
	var sizes []float64
	if tr.Marker != nil {
		shade, _ = tr.Marker.Color.(trace.Floats)
		sizes = markerSizes(tr.Marker, n)
	}

	data := make([]opts.ScatterData, 0, n)
	var values []float64
	for i := 0; i < n; i++ {
		if !finite(tr.Theta[i]) || !finite(tr.R[i]) {
			continue
		}
		x, y := r.XY(tr.Theta[i], tr.R[i])
		d := opts.ScatterData{Value: []interface{}{x, y}}
		if i < len(shade) && finite(shade[i]) {
			d.Value = []interface{}{x, y, shade[i]}
			values = append(values, shade[i])
		}
		if sizes != nil {
			d.SymbolSize = int(math.Round(sizes[i]))
		}
		data = append(data, d)
	}
	return data, values
}

func visualMap(values []float64, scale string) charts.GlobalOpts {
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	colors := scalePalette(scale)
	inRange := make([]string, len(colors))
	for i, c := range colors {
		inRange[i] = hex(c)
	}
	return charts.WithVisualMapOpts(opts.VisualMap{
		Show:       opts.Bool(true),
		Calculable: opts.Bool(true),
		Min:        float32(lo),
		Max:        float32(hi),
		Dimension:  "2",
		InRange:    &opts.VisualMapInRange{Color: inRange},
	})
}

func symbol(s string) string {
	switch s {
	case "square":
		return "rect"
	case "diamond":
		return "diamond"
	case "triangle-up", "triangle-down":
		return "triangle"
	case "circle", "":
		return "circle"
	default:
		return "pin"
	}
}
