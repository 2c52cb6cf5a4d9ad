// Package series normalises input frames into a flat, ordered map of typed
// series with synthesized time and index axes.
package series

import (
	"strconv"
	"strings"
)

// Type is the inferred value type of a series.
type Type string

// Series value types.
const (
	Numeric Type = "numeric"
	Text    Type = "text"
	Boolean Type = "boolean"
)

// Reserved names under which the synthetic axes can be looked up.
const (
	TimeAxisName  = "@time"
	IndexAxisName = "@index"
)

// Series is one named column of values. Only the slice matching Type is set.
// Numeric gaps are NaN.
type Series struct {
	Name    string
	Type    Type
	Numbers []float64
	Texts   []string
	Bools   []bool
	// Origin records the encounter order across all frames.
	Origin int
}

// Len returns the number of values.
func (s *Series) Len() int {
	switch s.Type {
	case Text:
		return len(s.Texts)
	case Boolean:
		return len(s.Bools)
	default:
		return len(s.Numbers)
	}
}

// Float64s returns the values as numbers. Booleans map to 0/1 and text is
// parsed; ok is false when a text value is not a number. The returned slice
// must not be modified.
func (s *Series) Float64s() ([]float64, bool) {
	switch s.Type {
	case Text:
		out := make([]float64, len(s.Texts))
		for i, t := range s.Texts {
			v, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
			if err != nil {
				return nil, false
			}
			out[i] = v
		}
		return out, true
	case Boolean:
		out := make([]float64, len(s.Bools))
		for i, b := range s.Bools {
			if b {
				out[i] = 1
			}
		}
		return out, true
	default:
		return s.Numbers, true
	}
}

// Values returns the typed value slice ([]float64, []string or []bool).
func (s *Series) Values() any {
	switch s.Type {
	case Text:
		return s.Texts
	case Boolean:
		return s.Bools
	default:
		return s.Numbers
	}
}

// Axes holds the synthesized time and index series. Both always have the
// same length.
type Axes struct {
	Time  Series
	Index Series
}

func newAxes() Axes {
	return Axes{
		Time:  Series{Name: TimeAxisName, Type: Numeric, Origin: -1, Numbers: []float64{}},
		Index: Series{Name: IndexAxisName, Type: Numeric, Origin: -1, Numbers: []float64{}},
	}
}

// Len returns the axes length.
func (a *Axes) Len() int { return len(a.Index.Numbers) }

// Map is an ordered name -> series mapping plus the synthetic axes.
type Map struct {
	Axes Axes

	byName map[string]*Series
	order  []string
}

// NewMap returns an empty map with empty axes.
func NewMap() *Map {
	return &Map{
		Axes:   newAxes(),
		byName: make(map[string]*Series),
	}
}

// Set stores s under its name. Replacing an existing name keeps its position.
func (m *Map) Set(s Series) {
	if _, ok := m.byName[s.Name]; !ok {
		m.order = append(m.order, s.Name)
	}
	m.byName[s.Name] = &s
}

// Get returns the real (non-synthetic) series with the given name.
func (m *Map) Get(name string) (*Series, bool) {
	s, ok := m.byName[name]
	return s, ok
}

// Lookup resolves a user-supplied name: real series first, then the reserved
// axis names.
func (m *Map) Lookup(name string) (*Series, bool) {
	if s, ok := m.byName[name]; ok {
		return s, true
	}
	switch name {
	case TimeAxisName:
		return &m.Axes.Time, true
	case IndexAxisName:
		return &m.Axes.Index, true
	}
	return nil, false
}

// Names returns the real series names in map order.
func (m *Map) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// First returns the first real series in map order.
func (m *Map) First() (*Series, bool) {
	if len(m.order) == 0 {
		return nil, false
	}
	return m.byName[m.order[0]], true
}

// Len returns the number of real series.
func (m *Map) Len() int { return len(m.order) }
