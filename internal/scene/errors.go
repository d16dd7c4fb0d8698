package scene

import "errors"

var (
	ErrUnknownScene         = errors.New("scene: unknown scene")
	ErrUnknownOption        = errors.New("scene: unknown option")
	ErrInvalidOption        = errors.New("scene: invalid option value")
	ErrMapBufferUnsupported = errors.New("scene: map buffer update method requested but buffer mapping is not supported")
)
