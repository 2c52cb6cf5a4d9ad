// Package options holds the typed panel options and resolves them to a
// complete, valid set at the service boundary.
package options

// Plot modes.
const (
	PlotScatter  = "scatter"
	PlotWindrose = "windrose"
)

// Colour modes for scatter markers.
const (
	ColorRamp  = "ramp"
	ColorSolid = "solid"
)

// Mapping binds plot roles to series names. Empty means unset.
type Mapping struct {
	Angle     string `json:"angle,omitempty"`
	Magnitude string `json:"magnitude,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
}

// Marker is the scatter marker style.
type Marker struct {
	Size       float64 `json:"size" default:"15" validate:"gt=0,finite"`
	Symbol     string  `json:"symbol" default:"circle" validate:"oneof=circle square diamond cross x triangle-up triangle-down star"`
	Color      string  `json:"color" default:"#33B5E5" validate:"iscolor"`
	Colorscale string  `json:"colorscale" default:"YlOrRd" validate:"oneof=YlOrRd YlGnBu RdBu Reds Blues Greens Greys Hot Jet Viridis Cividis Portland Picnic Electric Earth Blackbody Bluered Rainbow"`
	Sizemode   string  `json:"sizemode" default:"diameter" validate:"oneof=diameter area"`
	Sizemin    float64 `json:"sizemin" default:"3" validate:"gte=0,finite"`
	Sizeref    float64 `json:"sizeref" default:"0.2" validate:"gt=0,finite"`
	Showscale  *bool   `json:"showscale" default:"true"`
}

// ShowScale reports the showscale flag, treating unset as true.
func (m *Marker) ShowScale() bool {
	return m.Showscale == nil || *m.Showscale
}

// Settings are the plot-level options.
type Settings struct {
	Plot              string  `json:"plot" default:"scatter" validate:"oneof=scatter windrose"`
	Petals            int     `json:"petals" default:"32" validate:"gte=1,lte=360"`
	WindSpeedInterval float64 `json:"wind_speed_interval" default:"2" validate:"gt=0,finite"`
	SpeedUnit         string  `json:"speed_unit" default:"m/s" validate:"max=16"`
	Marker            Marker  `json:"marker"`
	ColorOption       string  `json:"color_option" default:"ramp" validate:"oneof=ramp solid"`
}

// Options is the full option set handed to the engine.
type Options struct {
	Mapping  Mapping  `json:"mapping"`
	Settings Settings `json:"settings"`
}

// Default returns the option set with every default applied.
func Default() Options {
	var o Options
	_ = setDefaults(&o)
	return o
}
