package bench

import "errors"

var (
	ErrEmptyDescriptor   = errors.New("bench: empty benchmark descriptor")
	ErrInvalidDescriptor = errors.New("bench: invalid benchmark descriptor")
)
