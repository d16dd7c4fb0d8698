package mesh

import "errors"

var (
	ErrEmptyMesh        = errors.New("mesh: no vertices")
	ErrNotBuilt         = errors.New("mesh: buffers not built")
	ErrRangeOutOfBounds = errors.New("mesh: vertex range out of bounds")
	ErrMapFailed        = errors.New("mesh: mapping vertex buffer failed")
)
