package api

import (
	"net/http"

	service "github.com/okian/windrose/internal/app"
	"github.com/okian/windrose/pkg/logger"
)

// TracesHandler handles trace computation requests.
type TracesHandler struct {
	deps    Dependencies
	maxBody int64
}

// NewTracesHandler creates a new traces handler.
func NewTracesHandler(deps Dependencies, maxBody int64) *TracesHandler {
	return &TracesHandler{deps: deps, maxBody: maxBody}
}

type tracesResponse struct {
	RequestID string `json:"request_id"`
	service.Response
}

// HandlePostTraces handles POST /traces requests. The body is a request of
// frames and options; the reply carries the traces and any option issues.
func (h *TracesHandler) HandlePostTraces(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_traces"
	ctx := r.Context()

	req, err := decodeRequest(w, r, h.maxBody, op)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.deps.Compute(ctx, req)
	if err != nil {
		logger.Get().Debug(ctx, "trace computation failed",
			logger.String("op", op),
			logger.Error(err))
		writeError(w, r, computeError(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tracesResponse{RequestID: requestID(r), Response: res})
}
