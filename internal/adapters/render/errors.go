package render

import "errors"

// Sentinel errors returned by the renderers.
var (
	// ErrUnsupportedTrace marks a trace kind the output format cannot draw.
	ErrUnsupportedTrace = errors.New("unsupported trace")
	// ErrRender wraps failures of the underlying plotting library.
	ErrRender = errors.New("render failed")
)
