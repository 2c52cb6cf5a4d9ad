package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/okian/windrose/internal/domain/trace"
	"github.com/okian/windrose/internal/domain/windrose"
	. "github.com/smartystreets/goconvey/convey"
)

func roseTraces() []trace.Trace {
	p, err := windrose.Bin(
		[]float64{0, 90, 180, 270, 45, 300},
		[]float64{1, 3, 5, 2, 0.5, 4.5},
		windrose.BinConfig{Directions: 8, Interval: 2},
	)
	if err != nil {
		panic(err)
	}
	return windrose.Assemble(p, windrose.NewExpander(), "m/s")
}

func scatterTrace(c any) trace.Trace {
	return trace.Trace{
		Kind:  trace.KindScatter,
		Type:  trace.RendererType,
		Mode:  trace.ModeMarkers,
		Name:  "speed",
		Theta: trace.Floats{0, 90, 180, math.NaN()},
		R:     trace.Floats{1, 2, 3, 4},
		Fill:  trace.FillNone,
		Marker: &trace.Marker{
			Size:       15.0,
			Symbol:     "square",
			Color:      c,
			Colorscale: "YlOrRd",
			Sizemode:   "diameter",
			Sizemin:    3,
			Sizeref:    0.2,
			Showscale:  true,
		},
	}
}

func TestProjection(t *testing.T) {
	Convey("Given the default renderer", t, func() {
		r := New()

		Convey("Then angle 90 points up", func() {
			x, y := r.XY(90, 2)
			So(x, ShouldAlmostEqual, 0.0, 1e-12)
			So(y, ShouldAlmostEqual, 2.0, 1e-12)
		})
	})

	Convey("Given a compass layout", t, func() {
		r := New(WithRotation(90), WithDirection(Clockwise))

		Convey("Then north is up and east is right", func() {
			x, y := r.XY(0, 1)
			So(x, ShouldAlmostEqual, 0.0, 1e-12)
			So(y, ShouldAlmostEqual, 1.0, 1e-12)

			x, y = r.XY(90, 1)
			So(x, ShouldAlmostEqual, 1.0, 1e-12)
			So(y, ShouldAlmostEqual, 0.0, 1e-12)
		})
	})

	Convey("Given invalid layout options", t, func() {
		r := New(WithSize(-1, 0), WithRotation(math.NaN()))

		Convey("Then the defaults stay", func() {
			So(r.widthIn, ShouldEqual, 6.0)
			So(r.heightIn, ShouldEqual, 6.0)
			So(r.rotation, ShouldEqual, 0.0)
		})
	})
}

func TestPNG(t *testing.T) {
	Convey("Given a small renderer", t, func() {
		r := New(WithSize(2, 2), WithTitle("station"))
		var buf bytes.Buffer

		Convey("When wind-rose wedges are drawn", func() {
			err := r.PNG(&buf, roseTraces())

			Convey("Then a decodable PNG is written", func() {
				So(err, ShouldBeNil)
				img, err := png.Decode(&buf)
				So(err, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When scatter traces with each colour kind are drawn", func() {
			traces := []trace.Trace{
				scatterTrace("#ff0000"),
				scatterTrace(trace.Floats{1, 2, 3, 4}),
				scatterTrace([]string{"a", "b", "a", "c"}),
				scatterTrace([]bool{true, false, true, true}),
			}
			err := r.PNG(&buf, traces)

			Convey("Then the image is written", func() {
				So(err, ShouldBeNil)
				So(bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), ShouldBeTrue)
			})
		})

		Convey("When there are no traces", func() {
			err := r.PNG(&buf, nil)

			Convey("Then only the guides are drawn", func() {
				So(err, ShouldBeNil)
				So(buf.Len(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When a trace kind is unknown", func() {
			err := r.PNG(&buf, []trace.Trace{{Kind: "bar"}})

			Convey("Then it is rejected", func() {
				So(errors.Is(err, ErrUnsupportedTrace), ShouldBeTrue)
			})
		})
	})
}

func TestHTML(t *testing.T) {
	Convey("Given the default renderer", t, func() {
		r := New()
		var buf bytes.Buffer

		Convey("When a ramp-coloured scatter trace is drawn", func() {
			err := r.HTML(&buf, []trace.Trace{scatterTrace(trace.Floats{1, 2, 3, 4})})

			Convey("Then an echarts page is written", func() {
				So(err, ShouldBeNil)
				page := buf.String()
				So(page, ShouldContainSubstring, "echarts")
				So(page, ShouldContainSubstring, "Polar scatter")
				So(page, ShouldContainSubstring, "visualMap")
			})
		})

		Convey("When wedges are drawn", func() {
			err := r.HTML(&buf, roseTraces())

			Convey("Then they are rejected", func() {
				So(errors.Is(err, ErrUnsupportedTrace), ShouldBeTrue)
			})
		})
	})
}

func TestColorHelpers(t *testing.T) {
	Convey("Given a colour scale", t, func() {
		colors := scalePalette("YlOrRd")
		So(colors, ShouldHaveLength, scaleColors)

		Convey("When values are ramped", func() {
			out := ramp([]float64{10, math.NaN(), 20, 15}, colors)

			Convey("Then the extremes take the ends of the scale", func() {
				So(out[0], ShouldResemble, colors[0])
				So(out[1], ShouldBeNil)
				So(out[2], ShouldResemble, colors[scaleColors-1])
				So(out[3], ShouldResemble, colors[4])
			})
		})

		Convey("When the scale is unknown", func() {
			So(scalePalette("Nope"), ShouldResemble, colors)
			So(scalePalette("Jet"), ShouldHaveLength, scaleColors)
			So(scalePalette("Hot"), ShouldHaveLength, scaleColors)
		})
	})

	Convey("Given categorical colours", t, func() {
		m := &trace.Marker{Color: []string{"a", "b", "a"}}
		pick := func(i int) color.Color { return color.Gray{Y: uint8(i)} }

		Convey("Then equal values share a colour", func() {
			out := categories(m, 3, pick)
			So(out[0], ShouldResemble, out[2])
			So(out[1], ShouldNotResemble, out[0])
		})
	})

	Convey("Given per-point sizes", t, func() {
		m := &trace.Marker{Size: trace.Floats{1, math.NaN(), 0.2}, Sizeref: 0.2, Sizemin: 3, Sizemode: "diameter"}

		Convey("Then sizes are scaled by sizeref and floored at sizemin", func() {
			So(markerSizes(m, 3), ShouldResemble, []float64{5, 3, 3})
		})
	})

	Convey("Given a colour", t, func() {
		So(hex(color.RGBA{R: 0x33, G: 0xb5, B: 0xe5, A: 0xff}), ShouldEqual, "#33b5e5")
	})
}
