package core

import "errors"

var (
	// ErrOutOfRange indicates a geodetic component outside its valid domain.
	ErrOutOfRange = errors.New("coordinate out of range")
	// ErrInvalidParameter indicates a non-positive dimension, an overlap
	// outside (0,1), or a zero line count.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrMissingPrecondition indicates an absent origin/takeoff or an empty pattern.
	ErrMissingPrecondition = errors.New("missing precondition")
)
