package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/windrose/internal/adapters/render"
	"github.com/okian/windrose/pkg/logger"
	"github.com/okian/windrose/pkg/metrics"
)

// RenderHandler computes traces and draws them as a preview image or page.
type RenderHandler struct {
	deps    Dependencies
	maxBody int64
	opts    []render.Option
}

// NewRenderHandler creates a new render handler with the base layout opts.
func NewRenderHandler(deps Dependencies, maxBody int64, opts ...render.Option) *RenderHandler {
	return &RenderHandler{deps: deps, maxBody: maxBody, opts: opts}
}

// HandlePNG handles POST /render/png requests.
func (h *RenderHandler) HandlePNG(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "api.render_png", render.FormatPNG, "image/png")
}

// HandleHTML handles POST /render/html requests.
func (h *RenderHandler) HandleHTML(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "api.render_html", render.FormatHTML, "text/html; charset=utf-8")
}

func (h *RenderHandler) handle(w http.ResponseWriter, r *http.Request, op, format, contentType string) {
	ctx := r.Context()

	opts, err := h.layout(r, op)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := decodeRequest(w, r, h.maxBody, op)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.deps.Compute(ctx, req)
	if err != nil {
		writeError(w, r, computeError(op, err))
		return
	}

	start := time.Now()
	rd := render.New(opts...)
	var buf bytes.Buffer
	if format == render.FormatPNG {
		err = rd.PNG(&buf, res.Traces)
	} else {
		err = rd.HTML(&buf, res.Traces)
	}
	if err != nil {
		logger.Get().Debug(ctx, "render failed",
			logger.String("op", op),
			logger.String("format", format),
			logger.Error(err))
		kind := ErrInternal
		if errors.Is(err, render.ErrUnsupportedTrace) {
			kind = ErrUnsupported
		}
		writeError(w, r, WrapKind(op, kind, err))
		return
	}
	metrics.RecordRender(format, float64(time.Since(start).Microseconds())/1000)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// layout appends the query overrides rotation, direction and title to the
// base layout.
func (h *RenderHandler) layout(r *http.Request, op string) ([]render.Option, error) {
	opts := append([]render.Option(nil), h.opts...)
	q := r.URL.Query()
	if v := q.Get("rotation"); v != "" {
		deg, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, WrapKind(op, ErrBadRequest, err)
		}
		opts = append(opts, render.WithRotation(deg))
	}
	switch v := q.Get("direction"); v {
	case "":
	case render.Clockwise, render.CounterClockwise:
		opts = append(opts, render.WithDirection(v))
	default:
		return nil, WrapKind(op, ErrBadRequest, fmt.Errorf("unknown direction %q", v))
	}
	if v := q.Get("title"); v != "" {
		opts = append(opts, render.WithTitle(v))
	}
	return opts, nil
}
