package service

import "errors"

// ErrNotStarted is returned by Compute before Start or after Stop.
var ErrNotStarted = errors.New("service not started")
