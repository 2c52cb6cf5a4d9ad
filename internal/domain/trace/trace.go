// Package trace defines the geometric trace descriptors handed to the polar
// renderer.
package trace

import (
	"math"
	"strconv"
)

// Kind is the geometry of a trace.
type Kind string

// Trace geometries.
const (
	KindScatter   Kind = "polar-scatter"
	KindWedgeFill Kind = "polar-wedge-fill"
)

// RendererType is the polar renderer's trace type for every kind.
const RendererType = "scatterpolar"

// Modes and fills used by the engine.
const (
	ModeMarkers = "markers"
	ModeLines   = "lines"
	FillNone    = "none"
	FillToSelf  = "toself"
)

// Floats is a float slice whose JSON form writes non-finite values as null.
type Floats []float64

// MarshalJSON implements json.Marshaler.
func (f Floats) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	buf := make([]byte, 0, 2+len(f)*8)
	buf = append(buf, '[')
	for i, v := range f {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
			continue
		}
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	return append(buf, ']'), nil
}

// Line is the outline style of a trace.
type Line struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Marker is the point style of a scatter trace. Size and Color hold either a
// scalar or a per-point slice.
type Marker struct {
	Size       any     `json:"size"`
	Symbol     string  `json:"symbol,omitempty"`
	Color      any     `json:"color,omitempty"`
	Colorscale string  `json:"colorscale,omitempty"`
	Sizemode   string  `json:"sizemode,omitempty"`
	Sizemin    float64 `json:"sizemin,omitempty"`
	Sizeref    float64 `json:"sizeref,omitempty"`
	Showscale  bool    `json:"showscale"`
}

// Trace is one layer of the polar chart.
type Trace struct {
	Kind      Kind     `json:"kind"`
	Type      string   `json:"type"`
	Mode      string   `json:"mode"`
	Name      string   `json:"name"`
	Theta     Floats   `json:"theta"`
	R         Floats   `json:"r"`
	Fill      string   `json:"fill"`
	FillColor string   `json:"fillcolor,omitempty"`
	Opacity   *float64 `json:"opacity,omitempty"`
	Line      *Line    `json:"line,omitempty"`
	Marker    *Marker  `json:"marker,omitempty"`
}

// Len returns the number of points.
func (t *Trace) Len() int { return len(t.Theta) }
