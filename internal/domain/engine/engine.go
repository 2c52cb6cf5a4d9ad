// Package engine turns input frames and resolved options into polar traces.
//
// The engine is a pure, synchronous function of its inputs: it normalises the
// frames into a series map and dispatches on the plot mode to the scatter
// builder or the wind-rose binner, fan expander and assembler.
package engine

import (
	"fmt"

	"github.com/okian/windrose/internal/domain/frame"
	"github.com/okian/windrose/internal/domain/options"
	"github.com/okian/windrose/internal/domain/scatter"
	"github.com/okian/windrose/internal/domain/series"
	"github.com/okian/windrose/internal/domain/trace"
	"github.com/okian/windrose/internal/domain/windrose"
)

// NamerFunc builds the display-name resolver for a set of frames.
type NamerFunc func(frames []frame.Frame) frame.DisplayNameFunc

// Result is the output of one computation.
type Result struct {
	Plot   string        `json:"plot"`
	Traces []trace.Trace `json:"traces"`
	// Series lists the normalised series names in map order.
	Series []string `json:"series"`
	// Samples is the number of points that reached the plot.
	Samples int `json:"samples"`
}

// Engine computes traces. It holds only immutable configuration and is safe
// for concurrent use.
type Engine struct {
	expander     *windrose.Expander
	namer        NamerFunc
	maxSpeedBins int
}

// Option configures an Engine.
type Option func(*Engine)

// WithFanSamples sets the arc points per wind-rose sector.
func WithFanSamples(n int) Option {
	return func(e *Engine) {
		e.expander = windrose.NewExpander(windrose.WithSamples(n))
	}
}

// WithMaxSpeedBins bounds the speed bins of one wind rose; n <= 0 means no
// limit.
func WithMaxSpeedBins(n int) Option {
	return func(e *Engine) {
		e.maxSpeedBins = n
	}
}

// WithNamer replaces the default display-name resolver.
func WithNamer(fn NamerFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.namer = fn
		}
	}
}

// New returns an Engine with default settings.
func New(opts ...Option) *Engine {
	e := &Engine{
		expander: windrose.NewExpander(),
		namer:    frame.NewDisplayNamer,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FanSamples returns the configured arc points per sector.
func (e *Engine) FanSamples() int { return e.expander.Samples() }

// SeriesNames returns the names the frames normalise to, in map order. The
// synthetic axes are not included.
func (e *Engine) SeriesNames(frames []frame.Frame) []string {
	return series.Normalize(frames, e.namer(frames)).Names()
}

// Compute derives the traces for frames under o. The options must already be
// resolved. An input without any series yields no traces and no error.
func (e *Engine) Compute(frames []frame.Frame, o options.Options) (Result, error) {
	m := series.Normalize(frames, e.namer(frames))
	res := Result{Plot: o.Settings.Plot, Traces: []trace.Trace{}, Series: m.Names()}
	if m.Len() == 0 {
		return res, nil
	}

	switch o.Settings.Plot {
	case options.PlotScatter:
		tr, err := scatter.Build(m, o.Mapping, o.Settings.Marker, o.Settings.ColorOption)
		if err != nil {
			return res, fmt.Errorf("scatter: %w", err)
		}
		res.Traces = append(res.Traces, tr)
		res.Samples = tr.Len()
	case options.PlotWindrose:
		traces, samples, err := e.rose(m, o)
		if err != nil {
			return res, fmt.Errorf("windrose: %w", err)
		}
		res.Traces = traces
		res.Samples = samples
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownPlot, o.Settings.Plot)
	}
	return res, nil
}

func (e *Engine) rose(m *series.Map, o options.Options) ([]trace.Trace, int, error) {
	p, err := m.ResolvePolar(o.Mapping.Angle, o.Mapping.Magnitude)
	if err != nil {
		return nil, 0, err
	}
	angles, ok := p.Angle.Float64s()
	if !ok {
		return nil, 0, fmt.Errorf("%w: angle %q", scatter.ErrNonNumericField, p.Angle.Name)
	}
	magnitudes, ok := p.Magnitude.Float64s()
	if !ok {
		return nil, 0, fmt.Errorf("%w: magnitude %q", scatter.ErrNonNumericField, p.Magnitude.Name)
	}

	profile, err := windrose.Bin(angles, magnitudes, windrose.BinConfig{
		Directions:   o.Settings.Petals,
		Interval:     o.Settings.WindSpeedInterval,
		MaxSpeedBins: e.maxSpeedBins,
	})
	if err != nil {
		return nil, 0, err
	}
	return windrose.Assemble(profile, e.expander, o.Settings.SpeedUnit), profile.Samples, nil
}
