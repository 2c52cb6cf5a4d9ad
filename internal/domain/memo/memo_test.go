package memo_test

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/okian/windrose/internal/domain/engine"
	"github.com/okian/windrose/internal/domain/frame"
	"github.com/okian/windrose/internal/domain/memo"
	"github.com/okian/windrose/internal/domain/options"
	. "github.com/smartystreets/goconvey/convey"
)

func result(plot string) engine.Result {
	return engine.Result{Plot: plot}
}

func TestMemo(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new memo", t, func() {
		m := memo.New(memo.WithMaxSize(3))

		Convey("When a key is missing", func() {
			_, ok := m.Get(ctx, 1)

			Convey("Then it counts a miss", func() {
				So(ok, ShouldBeFalse)
				So(m.Stats().Misses, ShouldEqual, 1)
				So(m.Size(), ShouldEqual, 0)
			})
		})

		Convey("When a result is stored", func() {
			m.Put(ctx, 1, result("scatter"))
			got, ok := m.Get(ctx, 1)

			Convey("Then it is returned and counts a hit", func() {
				So(ok, ShouldBeTrue)
				So(got.Plot, ShouldEqual, "scatter")
				So(m.Stats().Hits, ShouldEqual, 1)
				So(m.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a key is stored twice", func() {
			m.Put(ctx, 1, result("scatter"))
			m.Put(ctx, 1, result("windrose"))
			got, _ := m.Get(ctx, 1)

			Convey("Then the latest result wins without growing", func() {
				So(got.Plot, ShouldEqual, "windrose")
				So(m.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the memo overflows", func() {
			m.Put(ctx, 1, result("a"))
			m.Put(ctx, 2, result("b"))
			m.Put(ctx, 3, result("c"))
			_, _ = m.Get(ctx, 1)
			m.Put(ctx, 4, result("d"))

			Convey("Then the least recently used entry is evicted", func() {
				So(m.Size(), ShouldEqual, 3)
				_, ok := m.Get(ctx, 2)
				So(ok, ShouldBeFalse)
				for _, k := range []memo.Key{1, 3, 4} {
					_, ok := m.Get(ctx, k)
					So(ok, ShouldBeTrue)
				}
				So(m.Stats().Evictions, ShouldEqual, 1)
				So(m.Stats().MaxSize, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a single-entry memo", t, func() {
		m := memo.New(memo.WithMaxSize(1))
		m.Put(ctx, 1, result("a"))
		m.Put(ctx, 2, result("b"))

		Convey("Then only the newest entry is kept", func() {
			So(m.Size(), ShouldEqual, 1)
			_, ok := m.Get(ctx, 1)
			So(ok, ShouldBeFalse)
			_, ok = m.Get(ctx, 2)
			So(ok, ShouldBeTrue)
		})
	})

	Convey("Given an unbounded memo", t, func() {
		m := memo.New(memo.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			m.Put(ctx, memo.Key(i), result("a"))
		}

		Convey("Then nothing is evicted", func() {
			So(m.Size(), ShouldEqual, 1000)
			So(m.Stats().Evictions, ShouldEqual, 0)
		})
	})

	Convey("Given concurrent access", t, func() {
		m := memo.New(memo.WithMaxSize(100))
		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 500; i++ {
					k := memo.Key(g*1000 + i%150)
					if _, ok := m.Get(ctx, k); !ok {
						m.Put(ctx, k, result("a"))
					}
				}
			}(g)
		}
		wg.Wait()

		Convey("Then the bound holds", func() {
			So(m.Size(), ShouldBeLessThanOrEqualTo, 100)
			st := m.Stats()
			So(st.Hits+st.Misses, ShouldEqual, 8*500)
		})
	})
}

func TestFingerprint(t *testing.T) {
	frames := func() []frame.Frame {
		return []frame.Frame{{
			Name: "station",
			Fields: []frame.Field{
				{Name: "Time", Values: []any{1.0, 2.0}},
				{Name: "dir", Labels: map[string]string{"site": "a", "mast": "1"}, Values: []any{10.0, math.NaN()}},
				{Name: "ok", Values: []any{true, false}},
			},
		}}
	}
	opts := options.Default()

	Convey("Given identical inputs", t, func() {
		a, err := memo.Fingerprint(frames(), opts)
		So(err, ShouldBeNil)
		b, err := memo.Fingerprint(frames(), opts)
		So(err, ShouldBeNil)

		Convey("Then the fingerprints match", func() {
			So(a, ShouldEqual, b)
		})
	})

	Convey("Given numerically equal values of different kinds", t, func() {
		fa := frames()
		fb := frames()
		fb[0].Fields[1].Values[0] = json.Number("10")
		a, _ := memo.Fingerprint(fa, opts)
		b, _ := memo.Fingerprint(fb, opts)
		So(a, ShouldEqual, b)
	})

	Convey("Given any change to the input", t, func() {
		base, _ := memo.Fingerprint(frames(), opts)

		Convey("Then a changed value misses", func() {
			f := frames()
			f[0].Fields[1].Values[0] = 11.0
			k, _ := memo.Fingerprint(f, opts)
			So(k, ShouldNotEqual, base)
		})

		Convey("And a bool replaced by its numeric twin misses", func() {
			f := frames()
			f[0].Fields[2].Values[0] = 1.0
			k, _ := memo.Fingerprint(f, opts)
			So(k, ShouldNotEqual, base)
		})

		Convey("And a changed label misses", func() {
			f := frames()
			f[0].Fields[1].Labels["site"] = "b"
			k, _ := memo.Fingerprint(f, opts)
			So(k, ShouldNotEqual, base)
		})

		Convey("And a changed option misses", func() {
			o := options.Default()
			o.Settings.Petals = 16
			k, _ := memo.Fingerprint(frames(), o)
			So(k, ShouldNotEqual, base)
		})

		Convey("And a nil value list differs from an empty one", func() {
			f1 := frames()
			f1[0].Fields[2].Values = nil
			f2 := frames()
			f2[0].Fields[2].Values = []any{}
			k1, _ := memo.Fingerprint(f1, opts)
			k2, _ := memo.Fingerprint(f2, opts)
			So(k1, ShouldNotEqual, k2)
		})
	})
}
