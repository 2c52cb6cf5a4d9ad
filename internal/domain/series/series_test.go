package series_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/windrose/internal/domain/frame"
	"github.com/okian/windrose/internal/domain/series"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given no frames", t, func() {
		m := series.Normalize(nil, nil)

		Convey("Then only empty axes exist", func() {
			So(m.Len(), ShouldEqual, 0)
			So(m.Axes.Time.Len(), ShouldEqual, 0)
			So(m.Axes.Index.Len(), ShouldEqual, 0)
		})
	})

	Convey("Given a field named like a disambiguation suffix", t, func() {
		frames := []frame.Frame{
			{Fields: []frame.Field{{Name: "speed 2", Values: []any{1.0, 2.0}}}},
			{Fields: []frame.Field{{Name: "speed", Values: []any{3.0, 4.0}}}},
			{Fields: []frame.Field{{Name: "speed", Values: []any{5.0, 6.0}}}},
		}
		m := series.Normalize(frames, frame.NewDisplayNamer(frames))

		Convey("Then every field survives as its own series", func() {
			So(m.Names(), ShouldResemble, []string{"speed 2", "speed", "speed 3"})
			own, _ := m.Get("speed 2")
			So(own.Numbers, ShouldResemble, []float64{1, 2})
			third, _ := m.Get("speed 3")
			So(third.Numbers, ShouldResemble, []float64{5, 6})
		})
	})

	Convey("Given a frame with a time column and mixed fields", t, func() {
		frames := []frame.Frame{{
			Name: "station",
			Fields: []frame.Field{
				{Name: "Time", Type: frame.FieldTypeTime, Values: []any{1000.0, 2000.0, nil}},
				{Name: "dir", Type: frame.FieldTypeNumber, Values: []any{10.0, 20.0, 30.0}},
				{Name: "label", Type: frame.FieldTypeString, Values: []any{"a", "b", "c"}},
				{Name: "gusty", Type: frame.FieldTypeBoolean, Values: []any{true, false, true}},
				{Name: "unset"},
			},
		}}
		m := series.Normalize(frames, frame.NewDisplayNamer(frames))

		Convey("Then the time field is not a series and nil fields are skipped", func() {
			So(m.Names(), ShouldResemble, []string{"dir", "label", "gusty"})
		})

		Convey("And types are inferred from the first value", func() {
			dir, _ := m.Get("dir")
			label, _ := m.Get("label")
			gusty, _ := m.Get("gusty")
			So(dir.Type, ShouldEqual, series.Numeric)
			So(label.Type, ShouldEqual, series.Text)
			So(gusty.Type, ShouldEqual, series.Boolean)
			So(gusty.Bools, ShouldResemble, []bool{true, false, true})
		})

		Convey("And origin order increases in encounter order", func() {
			dir, _ := m.Get("dir")
			label, _ := m.Get("label")
			gusty, _ := m.Get("gusty")
			So(dir.Origin, ShouldEqual, 0)
			So(label.Origin, ShouldEqual, 1)
			So(gusty.Origin, ShouldEqual, 2)
		})

		Convey("And the axes take the time values, falling back to position", func() {
			So(m.Axes.Time.Numbers, ShouldResemble, []float64{1000, 2000, 2})
			So(m.Axes.Index.Numbers, ShouldResemble, []float64{0, 1, 2})
		})
	})

	Convey("Given several frames", t, func() {
		frames := []frame.Frame{
			{Name: "empty", Fields: []frame.Field{{Name: "x", Values: []any{}}}},
			{Name: "a", Fields: []frame.Field{
				{Name: "Time", Values: []any{"2024-01-01T00:00:00Z", "2024-01-01T00:00:01Z"}},
				{Name: "speed", Values: []any{1.0, 2.0}},
			}},
			{Name: "b", Fields: []frame.Field{
				{Name: "Time", Values: []any{5.0, 6.0, 7.0, 8.0}},
				{Name: "speed", Values: []any{3.0, 4.0, 5.0, 6.0}},
			}},
		}
		m := series.Normalize(frames, frame.NewDisplayNamer(frames))

		Convey("Then the first non-empty group seeds the axes", func() {
			So(m.Axes.Index.Numbers, ShouldResemble, []float64{0, 1})
			start := float64(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli())
			So(m.Axes.Time.Numbers, ShouldResemble, []float64{start, start + 1000})
		})

		Convey("And later frames still contribute disambiguated series", func() {
			So(m.Names(), ShouldResemble, []string{"x", "speed (a)", "speed (b)"})
			b, ok := m.Get("speed (b)")
			So(ok, ShouldBeTrue)
			So(b.Len(), ShouldEqual, 4)
		})
	})

	Convey("Given numeric values of assorted Go kinds", t, func() {
		frames := []frame.Frame{{Fields: []frame.Field{
			{Name: "v", Values: []any{1, int64(2), float32(3.5), json.Number("4.25"), nil, "junk"}},
		}}}
		m := series.Normalize(frames, nil)
		v, _ := m.Get("v")

		Convey("Then they convert to float64 with NaN gaps", func() {
			want := []float64{1, 2, 3.5, 4.25, math.NaN(), math.NaN()}
			So(cmp.Diff(want, v.Numbers, cmp.Comparer(func(a, b float64) bool {
				return a == b || (math.IsNaN(a) && math.IsNaN(b))
			})), ShouldBeEmpty)
		})
	})

	Convey("Given an identically named field in the same frame", t, func() {
		frames := []frame.Frame{{Fields: []frame.Field{
			{Name: "v", Values: []any{1.0}},
			{Name: "w", Values: []any{2.0}},
		}}}
		name := func(f *frame.Field, _ *frame.Frame) string { return "same" }
		m := series.Normalize(frames, name)

		Convey("Then the later field replaces the earlier one in place", func() {
			So(m.Names(), ShouldResemble, []string{"same"})
			s, _ := m.Get("same")
			So(s.Numbers, ShouldResemble, []float64{2})
			So(s.Origin, ShouldEqual, 1)
		})
	})
}

func TestFloat64s(t *testing.T) {
	Convey("Given series of each type", t, func() {
		Convey("Then booleans map to 0 and 1", func() {
			s := series.Series{Type: series.Boolean, Bools: []bool{true, false}}
			v, ok := s.Float64s()
			So(ok, ShouldBeTrue)
			So(v, ShouldResemble, []float64{1, 0})
		})

		Convey("And numeric text is parsed", func() {
			s := series.Series{Type: series.Text, Texts: []string{" 1.5", "2"}}
			v, ok := s.Float64s()
			So(ok, ShouldBeTrue)
			So(v, ShouldResemble, []float64{1.5, 2})
		})

		Convey("And non-numeric text is rejected", func() {
			s := series.Series{Type: series.Text, Texts: []string{"N"}}
			_, ok := s.Float64s()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestResolvePolar(t *testing.T) {
	Convey("Given a map with field A and a populated time axis", t, func() {
		frames := []frame.Frame{{Fields: []frame.Field{
			{Name: "Time", Values: []any{100.0, 200.0}},
			{Name: "A", Values: []any{5.0, 6.0}},
		}}}
		m := series.Normalize(frames, nil)

		Convey("When no magnitude is mapped", func() {
			p, err := m.ResolvePolar("A", "")

			Convey("Then time takes the angle slot and A the magnitude", func() {
				So(err, ShouldBeNil)
				So(p.OverTime, ShouldBeTrue)
				So(p.Angle.Name, ShouldEqual, series.TimeAxisName)
				So(p.Magnitude.Name, ShouldEqual, "A")
			})
		})

		Convey("When the magnitude names a missing field", func() {
			p, err := m.ResolvePolar("", "nope")

			Convey("Then the same fallback applies", func() {
				So(err, ShouldBeNil)
				So(p.Angle.Numbers, ShouldResemble, []float64{100, 200})
				So(p.Magnitude.Numbers, ShouldResemble, []float64{5, 6})
			})
		})

		Convey("When both roles name series", func() {
			p, err := m.ResolvePolar("A", series.IndexAxisName)

			Convey("Then they are used as given", func() {
				So(err, ShouldBeNil)
				So(p.OverTime, ShouldBeFalse)
				So(p.Angle.Name, ShouldEqual, "A")
				So(p.Magnitude.Numbers, ShouldResemble, []float64{0, 1})
			})
		})

		Convey("When the angle names a missing field", func() {
			_, err := m.ResolvePolar("B", "A")

			Convey("Then resolution fails", func() {
				So(errors.Is(err, series.ErrUnresolvedField), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty map", t, func() {
		_, err := series.NewMap().ResolvePolar("", "")
		So(errors.Is(err, series.ErrUnresolvedField), ShouldBeTrue)
	})

	Convey("Given a real field named like an axis", t, func() {
		m := series.NewMap()
		m.Set(series.Series{Name: series.TimeAxisName, Type: series.Numeric, Numbers: []float64{9}})

		Convey("Then lookup prefers the real field", func() {
			s, ok := m.Lookup(series.TimeAxisName)
			So(ok, ShouldBeTrue)
			So(s.Numbers, ShouldResemble, []float64{9})
			So(m.Axes.Time.Len(), ShouldEqual, 0)
		})
	})
}
