package windrose

import (
	"strconv"

	"github.com/okian/windrose/internal/domain/trace"
)

// DefaultSpeedUnit labels the speed bins when no unit is given.
const DefaultSpeedUnit = "m/s"

// Assemble builds one wedge-fill trace per speed bin, highest bin first so
// the lower bins are drawn on top.
func Assemble(p Profile, ex *Expander, unit string) []trace.Trace {
	if ex == nil {
		ex = NewExpander()
	}
	if unit == "" {
		unit = DefaultSpeedUnit
	}

	nb := p.SpeedBins()
	out := make([]trace.Trace, 0, nb)
	for b := nb - 1; b >= 0; b-- {
		theta, r := ex.Expand(p.Rows[b])
		opacity := 1.0
		out = append(out, trace.Trace{
			Kind:      trace.KindWedgeFill,
			Type:      trace.RendererType,
			Mode:      trace.ModeLines,
			Name:      Label(p.Levels[b], p.Levels[b+1], unit),
			Theta:     theta,
			R:         r,
			Fill:      trace.FillToSelf,
			FillColor: BinColor(b, nb).String(),
			Opacity:   &opacity,
			Line:      &trace.Line{Color: trace.OutlineColor, Width: 0},
		})
	}
	return out
}

// Label formats a speed bin legend entry, e.g. "0 - 2 m/s".
func Label(lower, upper float64, unit string) string {
	return strconv.FormatFloat(lower, 'f', -1, 64) + " - " + strconv.FormatFloat(upper, 'f', -1, 64) + " " + unit
}

// BinColor is the fill colour of speed bin b out of n: hue runs from 255 for
// the lowest bin down to 0 for the highest.
func BinColor(b, n int) trace.HSL {
	hue := 255.0
	if n > 1 {
		hue = 255 * (1 - float64(b)/float64(n-1))
	}
	return trace.HSL{H: hue, S: 100, L: 60}
}
