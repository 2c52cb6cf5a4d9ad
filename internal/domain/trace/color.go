package trace

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// OutlineColor is the wedge outline colour.
const OutlineColor = "rgb(0,0,0)"

// HSL is a colour in hue (degrees), saturation and lightness (percent).
type HSL struct {
	H, S, L float64
}

// String formats the colour as a CSS hsl() value.
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%s,%s%%,%s%%)", fmtFloat(c.H), fmtFloat(c.S), fmtFloat(c.L))
}

// RGBA converts the colour for raster output.
func (c HSL) RGBA() color.RGBA {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	return toRGBA(colorful.Hsl(h, unit(c.S/100), unit(c.L/100)))
}

// ParseColor reads the CSS colour forms the engine and the options emit:
// #rrggbb, #rgb, rgb(r,g,b) and hsl(h,s%,l%).
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case strings.HasPrefix(s, "#"):
		// colorful.Hex tolerates short and trailing digits.
		if len(s) != 4 && len(s) != 7 {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q: %v", ErrBadColor, s, err)
		}
		return toRGBA(c), nil
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts, err := parseArgs(s[4:len(s)-1], 3)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		return toRGBA(colorful.Color{R: parts[0] / 255, G: parts[1] / 255, B: parts[2] / 255}), nil
	case strings.HasPrefix(s, "hsl(") && strings.HasSuffix(s, ")"):
		parts, err := parseArgs(s[4:len(s)-1], 3)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
		return HSL{H: parts[0], S: parts[1], L: parts[2]}.RGBA(), nil
	}
	return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func parseArgs(s string, n int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, ErrBadColor
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(f), "%"), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func unit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
