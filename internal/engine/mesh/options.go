package mesh

import "github.com/go-gl/gl/v4.1-core/gl"

// UpdateMethod selects how changed ranges reach the GPU buffer.
type UpdateMethod int

const (
	// UpdateMethodMap maps the whole buffer and writes the ranges into it.
	UpdateMethodMap UpdateMethod = iota
	// UpdateMethodSubData issues one sub-data write per range.
	UpdateMethodSubData
)

// ParseUpdateMethod converts an option value. Unknown values select
// UpdateMethodMap.
func ParseUpdateMethod(s string) UpdateMethod {
	if s == "subdata" {
		return UpdateMethodSubData
	}
	return UpdateMethodMap
}

func (m UpdateMethod) String() string {
	if m == UpdateMethodSubData {
		return "subdata"
	}
	return "map"
}

// Usage is the buffer usage hint given to the driver.
type Usage int

const (
	UsageStatic Usage = iota
	UsageStream
	UsageDynamic
)

// ParseUsage converts an option value. Unknown values select UsageDynamic.
func ParseUsage(s string) Usage {
	switch s {
	case "static":
		return UsageStatic
	case "stream":
		return UsageStream
	default:
		return UsageDynamic
	}
}

func (u Usage) String() string {
	switch u {
	case UsageStatic:
		return "static"
	case UsageStream:
		return "stream"
	default:
		return "dynamic"
	}
}

// glEnum returns the GL usage constant.
func (u Usage) glEnum() uint32 {
	switch u {
	case UsageStatic:
		return gl.STATIC_DRAW
	case UsageStream:
		return gl.STREAM_DRAW
	default:
		return gl.DYNAMIC_DRAW
	}
}
