package trace

import "errors"

// ErrBadColor is returned for colour strings ParseColor does not understand.
var ErrBadColor = errors.New("unsupported color")
