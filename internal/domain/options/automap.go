package options

// AutoMap fills unset roles from the available series names: angle takes the
// first name, magnitude the second (or the first when there is only one) and
// colour the third. Size is never inferred.
func AutoMap(m Mapping, names []string) Mapping {
	if len(names) == 0 {
		return m
	}
	if m.Angle == "" {
		m.Angle = names[0]
	}
	if m.Magnitude == "" {
		m.Magnitude = names[0]
		if len(names) > 1 {
			m.Magnitude = names[1]
		}
	}
	if m.Color == "" && len(names) > 2 {
		m.Color = names[2]
	}
	return m
}
