package windrose

import "errors"

// Sentinel errors for wind-rose binning.
var (
	ErrInvalidBinConfig = errors.New("invalid bin config")
	ErrTooManySpeedBins = errors.New("too many speed bins")
)
