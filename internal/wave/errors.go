package wave

import "errors"

var (
	ErrInvalidGrid = errors.New("wave: invalid grid dimensions")
	ErrInvalidWave = errors.New("wave: invalid wave parameters")
)
