package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/windrose/internal/app"
	"github.com/okian/windrose/internal/domain/frame"
	"github.com/okian/windrose/internal/domain/options"
	"github.com/okian/windrose/internal/domain/series"
	"github.com/okian/windrose/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func windFrames(speed float64) []frame.Frame {
	return []frame.Frame{{
		Name: "mast",
		Fields: []frame.Field{
			{Name: "Time", Type: frame.FieldTypeTime, Values: []any{1.0, 2.0, 3.0, 4.0}},
			{Name: "dir", Type: frame.FieldTypeNumber, Values: []any{0.0, 90.0, 180.0, 270.0}},
			{Name: "speed", Type: frame.FieldTypeNumber, Values: []any{speed, speed, speed, speed}},
		},
	}}
}

func roseRequest(speed float64) service.Request {
	req := service.Request{Frames: windFrames(speed)}
	req.Options.Mapping = options.Mapping{Angle: "dir", Magnitude: "speed"}
	req.Options.Settings.Plot = options.PlotWindrose
	req.Options.Settings.Petals = 4
	return req
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["memoSize"], ShouldEqual, 1024)
			So(stats["fanSamples"], ShouldEqual, 15)
			So(stats["maxSpeedBins"], ShouldEqual, service.DefaultMaxSpeedBins)
			So(stats["speedUnit"], ShouldEqual, "m/s")
			So(stats["autoMap"], ShouldEqual, false)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithMemoSize(8),
			service.WithFanSamples(5),
			service.WithSpeedUnit("kn"),
			service.WithAutoMap(true),
			service.WithFanSamples(-1), // ignored
		)

		Convey("Then they should be applied", func() {
			stats := svc.GetStats()
			So(stats["memoSize"], ShouldEqual, 8)
			So(stats["fanSamples"], ShouldEqual, 5)
			So(stats["speedUnit"], ShouldEqual, "kn")
			So(stats["autoMap"], ShouldEqual, true)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When computing before Start", func() {
			_, err := svc.Compute(ctx, roseRequest(1))

			Convey("Then it should be rejected", func() {
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting the service twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["memoEntries"], ShouldEqual, int64(0))
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
				So(svc.Size(), ShouldEqual, 0)
				_, err := svc.Compute(ctx, roseRequest(1))
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			})
		})
	})
}

func TestService_Compute(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithSpeedUnit("kn"))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When a wind rose is requested without a unit", func() {
			resp, err := svc.Compute(ctx, roseRequest(1))

			Convey("Then the configured unit labels the bins", func() {
				So(err, ShouldBeNil)
				So(resp.Plot, ShouldEqual, options.PlotWindrose)
				So(resp.Traces, ShouldHaveLength, 1)
				So(resp.Traces[0].Name, ShouldEqual, "0 - 2 kn")
				So(resp.Issues, ShouldBeEmpty)
				So(resp.Issues, ShouldNotBeNil)
				So(resp.Cached, ShouldBeFalse)
				So(resp.Samples, ShouldEqual, 4)
				So(resp.Options.Settings.SpeedUnit, ShouldEqual, "kn")
			})
		})

		Convey("When the request names its own unit", func() {
			req := roseRequest(1)
			req.Options.Settings.SpeedUnit = "mph"
			resp, err := svc.Compute(ctx, req)

			Convey("Then the request unit wins", func() {
				So(err, ShouldBeNil)
				So(resp.Traces[0].Name, ShouldEqual, "0 - 2 mph")
			})
		})

		Convey("When the same request is computed twice", func() {
			first, err := svc.Compute(ctx, roseRequest(1))
			So(err, ShouldBeNil)
			second, err := svc.Compute(ctx, roseRequest(1))
			So(err, ShouldBeNil)

			Convey("Then the second answer comes from the memo", func() {
				So(first.Cached, ShouldBeFalse)
				So(second.Cached, ShouldBeTrue)
				So(second.Traces, ShouldResemble, first.Traces)
				So(svc.Size(), ShouldEqual, 1)
				So(svc.GetStats()["memoHits"], ShouldEqual, int64(1))
			})

			Convey("And a changed value misses", func() {
				third, err := svc.Compute(ctx, roseRequest(3))
				So(err, ShouldBeNil)
				So(third.Cached, ShouldBeFalse)
				So(third.Traces[0].Name, ShouldEqual, "2 - 4 kn")
				So(svc.Size(), ShouldEqual, 2)
			})
		})

		Convey("When options carry invalid values", func() {
			req := roseRequest(1)
			req.Options.Settings.Petals = 1000

			resp, err := svc.Compute(ctx, req)

			Convey("Then they are reset and reported", func() {
				So(err, ShouldBeNil)
				So(resp.Issues, ShouldHaveLength, 1)
				So(resp.Issues[0].Field, ShouldEqual, "settings.petals")
				So(resp.Options.Settings.Petals, ShouldEqual, 32)
				So(resp.Traces[0].Len(), ShouldEqual, 32*16)
			})
		})

		Convey("When auto mapping is requested", func() {
			req := service.Request{Frames: windFrames(1), AutoMap: true}
			req.Options.Settings.Plot = options.PlotWindrose

			resp, err := svc.Compute(ctx, req)

			Convey("Then the first two series take angle and magnitude", func() {
				So(err, ShouldBeNil)
				So(resp.Options.Mapping.Angle, ShouldEqual, "dir")
				So(resp.Options.Mapping.Magnitude, ShouldEqual, "speed")
				So(resp.Traces, ShouldHaveLength, 1)
			})
		})

		Convey("When the angle cannot be resolved", func() {
			req := roseRequest(1)
			req.Options.Mapping.Angle = "gust"

			_, err := svc.Compute(ctx, req)

			Convey("Then the error is classified", func() {
				So(errors.Is(err, series.ErrUnresolvedField), ShouldBeTrue)
				So(service.Reason(err), ShouldEqual, "unresolved_field")
			})
		})

		Convey("When the input is empty", func() {
			resp, err := svc.Compute(ctx, service.Request{})

			Convey("Then no traces are returned", func() {
				So(err, ShouldBeNil)
				So(resp.Traces, ShouldBeEmpty)
				So(resp.Plot, ShouldEqual, options.PlotScatter)
			})
		})
	})
}

func TestService_SpeedBinLimit(t *testing.T) {
	Convey("Given a wind rose needing 4100 speed bins", t, func() {
		ctx := context.Background()
		req := roseRequest(8200)
		req.Options.Settings.WindSpeedInterval = 2

		Convey("When the service keeps the default limit", func() {
			svc := service.New(service.WithFanSamples(1))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			_, err := svc.Compute(ctx, req)

			Convey("Then the request is refused", func() {
				So(service.Reason(err), ShouldEqual, "too_many_speed_bins")
			})
		})

		Convey("When the limit is disabled", func() {
			svc := service.New(service.WithFanSamples(1), service.WithMaxSpeedBins(0))
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()
			resp, err := svc.Compute(ctx, req)

			Convey("Then every speed bin becomes a trace", func() {
				So(err, ShouldBeNil)
				So(resp.Traces, ShouldHaveLength, 4100)
			})
		})
	})
}

func TestReason(t *testing.T) {
	Convey("Given an unclassified error", t, func() {
		Convey("Then it is internal", func() {
			So(service.Reason(errors.New("boom")), ShouldEqual, "internal")
		})
	})
}
