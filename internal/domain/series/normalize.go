package series

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/okian/windrose/internal/domain/frame"
)

// Normalize flattens frames into a Map. Fields are added in encounter order;
// the axes are seeded once, from the first field with values, using that
// field's frame time column (or the 0-based position where it has no value).
//
// Later frames never re-seed the axes, so their fields are not aligned to
// their own time column.
func Normalize(frames []frame.Frame, displayName frame.DisplayNameFunc) *Map {
	m := NewMap()
	if displayName == nil {
		displayName = frame.PlainDisplayName
	}

	origin := 0
	for i := range frames {
		fr := &frames[i]
		timeField := fr.TimeField()

		for j := range fr.Fields {
			f := &fr.Fields[j]
			if f == timeField || f.Values == nil {
				continue
			}

			s := fromField(displayName(f, fr), f.Values)
			s.Origin = origin
			origin++
			m.Set(s)

			if m.Axes.Len() == 0 && len(f.Values) > 0 {
				m.Axes = seedAxes(len(f.Values), timeField)
			}
		}
	}
	return m
}

func seedAxes(n int, timeField *frame.Field) Axes {
	a := newAxes()
	a.Time.Numbers = make([]float64, n)
	a.Index.Numbers = make([]float64, n)
	for j := 0; j < n; j++ {
		a.Index.Numbers[j] = float64(j)
		a.Time.Numbers[j] = float64(j)
		if timeField == nil || j >= len(timeField.Values) {
			continue
		}
		if ts, ok := toMillis(timeField.Values[j]); ok {
			a.Time.Numbers[j] = ts
		}
	}
	return a
}

// fromField infers the series type from the first value.
func fromField(name string, values []any) Series {
	s := Series{Name: name, Type: inferType(values)}
	switch s.Type {
	case Boolean:
		s.Bools = make([]bool, len(values))
		for i, v := range values {
			b, _ := v.(bool)
			s.Bools[i] = b
		}
	case Text:
		s.Texts = make([]string, len(values))
		for i, v := range values {
			switch t := v.(type) {
			case string:
				s.Texts[i] = t
			case nil:
			default:
				s.Texts[i] = fmt.Sprint(t)
			}
		}
	default:
		s.Numbers = make([]float64, len(values))
		for i, v := range values {
			f, ok := ToFloat(v)
			if !ok {
				f = math.NaN()
			}
			s.Numbers[i] = f
		}
	}
	return s
}

func inferType(values []any) Type {
	if len(values) == 0 {
		return Numeric
	}
	switch values[0].(type) {
	case bool:
		return Boolean
	case string:
		return Text
	default:
		return Numeric
	}
}

// ToFloat converts a Go numeric value, json.Number or bool to float64.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// toMillis converts a temporal value to epoch milliseconds.
func toMillis(v any) (float64, bool) {
	switch t := v.(type) {
	case time.Time:
		return float64(t.UnixMilli()), true
	case string:
		ts, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return 0, false
		}
		return float64(ts.UnixMilli()), true
	case nil:
		return 0, false
	default:
		return ToFloat(v)
	}
}
