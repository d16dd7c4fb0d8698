package capture

import "errors"

var (
	ErrUnknownFormat = errors.New("capture: unknown image format")
	ErrPixelSize     = errors.New("capture: pixel data does not match frame size")
)
