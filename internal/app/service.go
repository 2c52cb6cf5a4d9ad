// Package service wires the trace engine, option resolution and the result
// memo into the dependencies required by the HTTP API and the CLIs.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/windrose/internal/domain/engine"
	"github.com/okian/windrose/internal/domain/frame"
	"github.com/okian/windrose/internal/domain/memo"
	"github.com/okian/windrose/internal/domain/options"
	"github.com/okian/windrose/internal/domain/scatter"
	"github.com/okian/windrose/internal/domain/series"
	"github.com/okian/windrose/internal/domain/trace"
	"github.com/okian/windrose/internal/domain/windrose"
	"github.com/okian/windrose/pkg/logger"
	"github.com/okian/windrose/pkg/metrics"
)

// Request is one trace computation: the input frames and the raw options as
// sent by the caller.
type Request struct {
	Frames  []frame.Frame   `json:"frames"`
	Options options.Options `json:"options"`
	// AutoMap fills unset mapping roles from the series names.
	AutoMap bool `json:"auto_map,omitempty"`
}

// Response carries the traces of a Request and the option issues found while
// resolving it.
type Response struct {
	Plot    string          `json:"plot"`
	Traces  []trace.Trace   `json:"traces"`
	Issues  []options.Issue `json:"issues"`
	Cached  bool            `json:"cached"`
	Samples int             `json:"samples"`
	Series  []string        `json:"series"`
	// Options are the resolved options the traces were computed with.
	Options options.Options `json:"options"`
}

// DefaultMaxSpeedBins bounds the speed bins of one wind rose when the caller
// configures no limit of its own.
const DefaultMaxSpeedBins = 4096

// Service implements the API dependencies for the trace engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine *engine.Engine
	memo   memo.Memo

	// Configuration
	memoSize     int
	fanSamples   int
	maxSpeedBins int
	speedUnit    string
	autoMap      bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMemoSize bounds the result memo; values <= 0 make it unbounded.
func WithMemoSize(size int) Option {
	return func(s *Service) {
		s.memoSize = size
	}
}

// WithFanSamples sets the arc points per wind-rose sector.
func WithFanSamples(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fanSamples = n
		}
	}
}

// WithMaxSpeedBins bounds the speed bins of one wind rose; n <= 0 removes
// the limit.
func WithMaxSpeedBins(n int) Option {
	return func(s *Service) {
		s.maxSpeedBins = n
	}
}

// WithSpeedUnit sets the legend unit used when a request does not name one.
func WithSpeedUnit(unit string) Option {
	return func(s *Service) {
		if unit != "" {
			s.speedUnit = unit
		}
	}
}

// WithAutoMap enables auto mapping for every request.
func WithAutoMap(enabled bool) Option {
	return func(s *Service) {
		s.autoMap = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		memoSize:     1024,
		fanSamples:   windrose.DefaultFanSamples,
		maxSpeedBins: DefaultMaxSpeedBins,
		speedUnit:    windrose.DefaultSpeedUnit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the engine and the memo. Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.engine = engine.New(
		engine.WithFanSamples(s.fanSamples),
		engine.WithMaxSpeedBins(s.maxSpeedBins),
	)
	s.memo = memo.New(memo.WithMaxSize(s.memoSize))
	metrics.UpdateFanSamples(s.engine.FanSamples())

	s.started = true
	s.logger.Info(ctx, "trace service started",
		logger.Int("memoSize", s.memoSize),
		logger.Int("fanSamples", s.fanSamples),
		logger.Int("maxSpeedBins", s.maxSpeedBins),
		logger.String("speedUnit", s.speedUnit),
		logger.Bool("autoMap", s.autoMap),
	)

	return nil
}

// Stop releases the memo. A stopped service rejects computations until it is
// started again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.memo = nil
	s.engine = nil
	s.started = false
	s.logger.Info(context.Background(), "trace service stopped")
}

// Compute resolves the request options and returns the traces, serving
// repeated inputs from the memo.
func (s *Service) Compute(ctx context.Context, req Request) (Response, error) {
	s.mu.RLock()
	started, eng, mem := s.started, s.engine, s.memo
	s.mu.RUnlock()
	if !started {
		return Response{}, ErrNotStarted
	}

	start := time.Now()
	o := req.Options
	if o.Settings.SpeedUnit == "" {
		o.Settings.SpeedUnit = s.speedUnit
	}
	if req.AutoMap || s.autoMap {
		o.Mapping = options.AutoMap(o.Mapping, eng.SeriesNames(req.Frames))
	}

	resolved, issues, err := options.Resolve(o)
	if err != nil {
		metrics.RecordComputationError(Reason(err))
		return Response{}, err
	}
	for _, is := range issues {
		metrics.RecordOptionIssue(is.Field)
		s.logger.Debug(ctx, "option reset to default",
			logger.String("field", is.Field),
			logger.String("code", is.Code),
			logger.String("default", is.Default),
		)
	}
	if issues == nil {
		issues = []options.Issue{}
	}

	key, ferr := memo.Fingerprint(req.Frames, resolved)
	if ferr != nil {
		s.logger.Warn(ctx, "skipping memo", logger.Error(ferr))
	} else if res, ok := mem.Get(ctx, key); ok {
		metrics.RecordMemoLookup(true)
		return respond(res, issues, resolved, true), nil
	} else {
		metrics.RecordMemoLookup(false)
	}

	res, err := eng.Compute(req.Frames, resolved)
	if err != nil {
		reason := Reason(err)
		metrics.RecordComputationError(reason)
		s.logger.Debug(ctx, "computation rejected",
			logger.String("plot", resolved.Settings.Plot),
			logger.String("reason", reason),
			logger.Error(err),
		)
		return Response{}, err
	}

	if ferr == nil {
		mem.Put(ctx, key, res)
		st := mem.Stats()
		metrics.UpdateMemo(st.Entries, st.Evictions)
	}
	metrics.RecordComputation(res.Plot, len(res.Traces), res.Samples, float64(time.Since(start).Microseconds())/1000)

	return respond(res, issues, resolved, false), nil
}

func respond(res engine.Result, issues []options.Issue, o options.Options, cached bool) Response {
	return Response{
		Plot:    res.Plot,
		Traces:  res.Traces,
		Issues:  issues,
		Cached:  cached,
		Samples: res.Samples,
		Series:  res.Series,
		Options: o,
	}
}

// Reason classifies a computation error for metrics and API error codes.
func Reason(err error) string {
	switch {
	case errors.Is(err, series.ErrUnresolvedField):
		return "unresolved_field"
	case errors.Is(err, scatter.ErrNonNumericField):
		return "non_numeric_field"
	case errors.Is(err, engine.ErrUnknownPlot):
		return "unknown_plot"
	case errors.Is(err, windrose.ErrTooManySpeedBins):
		return "too_many_speed_bins"
	case errors.Is(err, windrose.ErrInvalidBinConfig):
		return "invalid_bin_config"
	case errors.Is(err, options.ErrInvalidOptions):
		return "invalid_options"
	default:
		return "internal"
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"memoSize":     s.memoSize,
		"fanSamples":   s.fanSamples,
		"maxSpeedBins": s.maxSpeedBins,
		"speedUnit":    s.speedUnit,
		"autoMap":      s.autoMap,
	}

	if s.started {
		st := s.memo.Stats()
		stats["memoEntries"] = st.Entries
		stats["memoHits"] = st.Hits
		stats["memoMisses"] = st.Misses
		stats["memoEvictions"] = st.Evictions

		metrics.UpdateMemo(st.Entries, st.Evictions)
	}

	return stats
}

// Size returns the current number of memoised results.
func (s *Service) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.memo == nil {
		return 0
	}
	return s.memo.Size()
}

