package windrose

import "gonum.org/v1/gonum/floats"

// DefaultFanSamples is the number of arc points drawn per direction sector.
const DefaultFanSamples = 15

// Expander turns per-direction radii into closed wedge outlines.
type Expander struct {
	samples int
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// WithSamples sets the arc points per sector. Values below 1 are ignored.
func WithSamples(n int) ExpanderOption {
	return func(e *Expander) {
		if n >= 1 {
			e.samples = n
		}
	}
}

// NewExpander returns an Expander with DefaultFanSamples points per sector.
func NewExpander(opts ...ExpanderOption) *Expander {
	e := &Expander{samples: DefaultFanSamples}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Samples returns the arc points per sector.
func (e *Expander) Samples() int { return e.samples }

// PointsPerSector is the number of points Expand emits per direction.
func (e *Expander) PointsPerSector() int { return e.samples + 1 }

// Expand samples each direction's arc from its sector start to the next
// sector's start (the last runs to 360°) at that direction's radius, then
// closes it through the origin with one (0, 0) point.
func (e *Expander) Expand(radii []float64) (theta, r []float64) {
	n := len(radii)
	if n == 0 {
		return []float64{}, []float64{}
	}
	width := 360 / float64(n)

	theta = make([]float64, 0, n*e.PointsPerSector())
	r = make([]float64, 0, n*e.PointsPerSector())
	arc := make([]float64, e.samples+1)
	for d, radius := range radii {
		start := float64(d)*width - width/2
		end := 360.0
		if d+1 < n {
			end = float64(d+1)*width - width/2
		}
		floats.Span(arc, start, end)
		for _, a := range arc[:e.samples] {
			theta = append(theta, a)
			r = append(r, radius)
		}
		theta = append(theta, 0)
		r = append(r, 0)
	}
	return theta, r
}
