package series

import "fmt"

// Polar is the pair of series plotted as angle and magnitude.
type Polar struct {
	Angle     *Series
	Magnitude *Series
	// OverTime is set when the magnitude fell back to the angle field and the
	// time axis took the angle slot.
	OverTime bool
}

// ResolvePolar picks the angle and magnitude series for a mapping.
//
// The angle is the named series, or the first real series when no name is
// given. When no magnitude resolves, the angle series is plotted as magnitude
// and, if the time axis has values, time becomes the angle.
func (m *Map) ResolvePolar(angle, magnitude string) (Polar, error) {
	var (
		a  *Series
		ok bool
	)
	if angle != "" {
		a, ok = m.Lookup(angle)
	} else {
		a, ok = m.First()
	}
	if !ok {
		field := angle
		if field == "" {
			field = "no field selected"
		}
		return Polar{}, fmt.Errorf("%w: angle %q", ErrUnresolvedField, field)
	}

	p := Polar{Angle: a}
	if magnitude != "" {
		if r, found := m.Lookup(magnitude); found {
			p.Magnitude = r
			return p, nil
		}
	}

	p.Magnitude = a
	if m.Axes.Time.Len() > 0 {
		p.Angle = &m.Axes.Time
		p.OverTime = true
	}
	return p, nil
}
