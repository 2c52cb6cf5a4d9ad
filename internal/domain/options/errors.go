package options

import "errors"

// ErrInvalidOptions is returned when options cannot be brought to a valid
// state.
var ErrInvalidOptions = errors.New("invalid options")
