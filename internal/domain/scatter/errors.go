package scatter

import "errors"

// ErrNonNumericField is returned when the angle or magnitude series cannot be
// read as numbers.
var ErrNonNumericField = errors.New("non-numeric field")
