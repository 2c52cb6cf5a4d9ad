package frame_test

import (
	"testing"

	"github.com/okian/windrose/internal/domain/frame"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTimeField(t *testing.T) {
	Convey("Given a frame with a Time column", t, func() {
		fr := frame.Frame{Fields: []frame.Field{
			{Name: "speed", Values: []any{1.0}},
			{Name: "Time", Values: []any{1000.0}},
			{Name: "ts", Type: frame.FieldTypeTime, Values: []any{2000.0}},
		}}

		Convey("Then the first temporal field is returned", func() {
			So(fr.TimeField(), ShouldNotBeNil)
			So(fr.TimeField().Name, ShouldEqual, "Time")
		})

		Convey("And Len reports the longest field", func() {
			fr.Fields[0].Values = []any{1.0, 2.0, 3.0}
			So(fr.Len(), ShouldEqual, 3)
		})
	})

	Convey("Given a frame without temporal fields", t, func() {
		fr := frame.Frame{Fields: []frame.Field{{Name: "speed"}}}
		So(fr.TimeField(), ShouldBeNil)
	})
}

func TestDisplayNamer(t *testing.T) {
	Convey("Given frames sharing a field name", t, func() {
		frames := []frame.Frame{
			{Name: "north", Fields: []frame.Field{{Name: "speed"}, {Name: "dir"}}},
			{Name: "south", Fields: []frame.Field{{Name: "speed"}}},
		}
		name := frame.NewDisplayNamer(frames)

		Convey("Then unique names are kept", func() {
			So(name(&frames[0].Fields[1], &frames[0]), ShouldEqual, "dir")
		})

		Convey("And shared names are qualified by frame name", func() {
			So(name(&frames[0].Fields[0], &frames[0]), ShouldEqual, "speed (north)")
			So(name(&frames[1].Fields[0], &frames[1]), ShouldEqual, "speed (south)")
		})
	})

	Convey("Given labelled fields with the same name", t, func() {
		frames := []frame.Frame{
			{Fields: []frame.Field{{Name: "speed", Labels: map[string]string{"station": "b", "height": "10"}}}},
			{Fields: []frame.Field{{Name: "speed", Labels: map[string]string{"station": "a"}}}},
		}
		name := frame.NewDisplayNamer(frames)

		Convey("Then labels disambiguate them in sorted key order", func() {
			So(name(&frames[0].Fields[0], &frames[0]), ShouldEqual, `speed {height="10", station="b"}`)
			So(name(&frames[1].Fields[0], &frames[1]), ShouldEqual, `speed {station="a"}`)
		})
	})

	Convey("Given unnamed frames with clashing fields", t, func() {
		frames := []frame.Frame{
			{Fields: []frame.Field{{Name: "speed"}}},
			{Fields: []frame.Field{{Name: "speed"}}},
		}
		name := frame.NewDisplayNamer(frames)

		Convey("Then a positional suffix keeps them apart", func() {
			So(name(&frames[0].Fields[0], &frames[0]), ShouldEqual, "speed")
			So(name(&frames[1].Fields[0], &frames[1]), ShouldEqual, "speed 2")
		})
	})

	Convey("Given a field whose name matches a generated suffix", t, func() {
		frames := []frame.Frame{
			{Fields: []frame.Field{{Name: "speed 2"}}},
			{Fields: []frame.Field{{Name: "speed"}}},
			{Fields: []frame.Field{{Name: "speed"}}},
			{Fields: []frame.Field{{Name: "speed"}}},
		}
		name := frame.NewDisplayNamer(frames)

		Convey("Then the suffix skips names other fields own", func() {
			So(name(&frames[0].Fields[0], &frames[0]), ShouldEqual, "speed 2")
			So(name(&frames[1].Fields[0], &frames[1]), ShouldEqual, "speed")
			So(name(&frames[2].Fields[0], &frames[2]), ShouldEqual, "speed 3")
			So(name(&frames[3].Fields[0], &frames[3]), ShouldEqual, "speed 4")
		})
	})

	Convey("Given a later field named like an earlier suffix", t, func() {
		frames := []frame.Frame{
			{Fields: []frame.Field{{Name: "speed"}}},
			{Fields: []frame.Field{{Name: "speed"}}},
			{Fields: []frame.Field{{Name: "speed 2"}}},
		}
		name := frame.NewDisplayNamer(frames)

		Convey("Then the real field keeps its name", func() {
			So(name(&frames[1].Fields[0], &frames[1]), ShouldEqual, "speed 3")
			So(name(&frames[2].Fields[0], &frames[2]), ShouldEqual, "speed 2")
		})
	})

	Convey("Given an explicit display name", t, func() {
		f := frame.Field{Name: "ws", DisplayName: "Wind speed"}
		So(frame.PlainDisplayName(&f, nil), ShouldEqual, "Wind speed")
	})
}
