package engine

import "errors"

// ErrUnknownPlot is returned for a plot mode the engine does not draw.
var ErrUnknownPlot = errors.New("unknown plot mode")
