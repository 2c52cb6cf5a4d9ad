// Package scatter derives the polar scatter trace from a series map.
package scatter

import (
	"fmt"

	"github.com/okian/windrose/internal/domain/options"
	"github.com/okian/windrose/internal/domain/series"
	"github.com/okian/windrose/internal/domain/trace"
)

// Build returns the single scatter trace for the mapping.
//
// A size series overrides the marker size per point. In ramp colour mode the
// colour series (the index axis when unmapped) supplies per-point colours.
// Optional series that do not resolve are ignored.
func Build(m *series.Map, mapping options.Mapping, marker options.Marker, colorOption string) (trace.Trace, error) {
	p, err := m.ResolvePolar(mapping.Angle, mapping.Magnitude)
	if err != nil {
		return trace.Trace{}, err
	}

	theta, ok := p.Angle.Float64s()
	if !ok {
		return trace.Trace{}, fmt.Errorf("%w: angle %q", ErrNonNumericField, p.Angle.Name)
	}
	r, ok := p.Magnitude.Float64s()
	if !ok {
		return trace.Trace{}, fmt.Errorf("%w: magnitude %q", ErrNonNumericField, p.Magnitude.Name)
	}

	mk := &trace.Marker{
		Size:       marker.Size,
		Symbol:     marker.Symbol,
		Color:      marker.Color,
		Colorscale: marker.Colorscale,
		Sizemode:   marker.Sizemode,
		Sizemin:    marker.Sizemin,
		Sizeref:    marker.Sizeref,
		Showscale:  marker.ShowScale(),
	}

	if mapping.Size != "" {
		if s, found := m.Lookup(mapping.Size); found {
			if sizes, numeric := s.Float64s(); numeric {
				mk.Size = clone(sizes)
			}
		}
	}

	if colorOption == options.ColorRamp {
		name := mapping.Color
		if name == "" {
			name = series.IndexAxisName
		}
		if c, found := m.Lookup(name); found {
			mk.Color = colorValues(c)
		}
	}

	return trace.Trace{
		Kind:   trace.KindScatter,
		Type:   trace.RendererType,
		Mode:   trace.ModeMarkers,
		Name:   p.Magnitude.Name,
		Theta:  clone(theta),
		R:      clone(r),
		Fill:   trace.FillNone,
		Marker: mk,
	}, nil
}

func colorValues(s *series.Series) any {
	switch s.Type {
	case series.Text:
		return append([]string(nil), s.Texts...)
	case series.Boolean:
		return append([]bool(nil), s.Bools...)
	default:
		return clone(s.Numbers)
	}
}

func clone(v []float64) trace.Floats {
	out := make(trace.Floats, len(v))
	copy(out, v)
	return out
}
