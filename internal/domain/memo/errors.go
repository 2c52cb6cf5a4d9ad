package memo

import "errors"

// ErrFingerprint is returned when an input cannot be fingerprinted.
var ErrFingerprint = errors.New("cannot fingerprint input")
