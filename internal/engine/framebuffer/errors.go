package framebuffer

import "errors"

// ErrIncomplete is returned when the driver rejects the attachment setup.
var ErrIncomplete = errors.New("framebuffer: incomplete")
