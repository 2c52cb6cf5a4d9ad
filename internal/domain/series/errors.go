package series

import "errors"

// Sentinel errors for series resolution.
var (
	ErrUnresolvedField = errors.New("unresolved field")
)
