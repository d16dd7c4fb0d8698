package shader

import "errors"

var (
	ErrCompile  = errors.New("shader: compile failed")
	ErrLink     = errors.New("shader: link failed")
	ErrNoAttrib = errors.New("shader: attribute not active")
)
