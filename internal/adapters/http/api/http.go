// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/windrose/internal/adapters/render"
	service "github.com/okian/windrose/internal/app"
)

// DefaultMaxBodyBytes caps request bodies when the server is not configured.
const DefaultMaxBodyBytes int64 = 8 << 20

// Dependencies required by HTTP handlers. Using an interface keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Compute resolves options and returns the traces of a request.
	Compute(ctx context.Context, req service.Request) (service.Response, error)
}

// Server wires HTTP routes for the trace API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	tracesHandler *TracesHandler
	renderHandler *RenderHandler
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxBodyBytes int64
	render       []render.Option
}

// WithMaxBodyBytes caps request bodies. Non-positive values are ignored.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithRenderOptions sets the base layout of rendered previews.
func WithRenderOptions(opts ...render.Option) ServerOption {
	return func(c *serverConfig) {
		c.render = append(c.render, opts...)
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		tracesHandler: NewTracesHandler(deps, cfg.maxBodyBytes),
		renderHandler: NewRenderHandler(deps, cfg.maxBodyBytes, cfg.render...),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	handle := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}
	handle("/healthz", "healthz", s.healthHandler.HandleHealth)
	handle("/stats", "stats", s.statsHandler.HandleStats)
	handle("/traces", "traces", s.tracesHandler.HandlePostTraces)
	handle("/render/png", "render_png", s.renderHandler.HandlePNG)
	handle("/render/html", "render_html", s.renderHandler.HandleHTML)
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// decodeRequest reads a bounded JSON request body into req.
func decodeRequest(w http.ResponseWriter, r *http.Request, limit int64, op string) (service.Request, error) {
	var req service.Request
	if r.Method != http.MethodPost {
		return req, NewKind(op, ErrMethodNotAllowed)
	}
	body := http.MaxBytesReader(w, r.Body, limit)
	dec := json.NewDecoder(body)
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, WrapKind(op, ErrTooLarge, err)
		}
		return req, WrapKind(op, ErrBadRequest, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return req, WrapKind(op, ErrBadRequest, errors.New("trailing data after request object"))
	}
	return req, nil
}

// computeError classifies a failed service computation raised by op.
func computeError(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrNotStarted):
		return WrapKind(op, ErrUnavailable, err)
	case service.Reason(err) != "internal":
		return WrapKind(op, ErrUnprocessable, err)
	}
	return WrapKind(op, ErrInternal, err)
}

// classify maps an error onto an HTTP status and a stable error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "method_not_allowed"
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, ErrUnsupported):
		return http.StatusUnprocessableEntity, "unsupported_trace"
	case errors.Is(err, ErrUnprocessable):
		return http.StatusUnprocessableEntity, service.Reason(err)
	}
	return http.StatusInternalServerError, "internal_error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: requestID(r)})
}
