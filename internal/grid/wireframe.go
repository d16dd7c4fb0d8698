package grid

import "github.com/go-gl/mathgl/mgl32"

// WireframeVertex is a vertex together with the three corners of the triangle
// it belongs to. The fragment stage uses the corners to find the distance to
// the triangle's edges.
type WireframeVertex struct {
	Position mgl32.Vec3
	Triangle [3]mgl32.Vec3
}

// Attribute slots of a wireframe vertex, in buffer order.
const (
	SlotPosition = iota
	SlotCorner0
	SlotCorner1
	SlotCorner2

	SlotCount
)

// SlotSize is the number of floats in every attribute slot.
const SlotSize = 3

// VertexFormat returns the per-slot float counts of a wireframe vertex.
func VertexFormat() []int {
	format := make([]int, SlotCount)
	for i := range format {
		format[i] = SlotSize
	}
	return format
}

// QuadCorners returns a quad's corners in emission order.
// Even entries lie on the quad's near length line, odd entries on the far one.
func QuadCorners(q Quad) [VerticesPerQuad]mgl32.Vec3 {
	return [VerticesPerQuad]mgl32.Vec3{q.LL, q.UR, q.UL, q.UR, q.LL, q.LR}
}

// WireframeVertices emits VerticesPerQuad vertices for each quad, keeping
// the order of quads.
func WireframeVertices(quads []Quad) []WireframeVertex {
	out := make([]WireframeVertex, 0, len(quads)*VerticesPerQuad)

	for _, q := range quads {
		t := QuadCorners(q)
		for i := range t {
			first := 3 * (i / 3)
			out = append(out, WireframeVertex{
				Position: t[i],
				Triangle: [3]mgl32.Vec3{t[first], t[first+1], t[first+2]},
			})
		}
	}

	return out
}

// Slot returns the position stored in the given attribute slot.
func (v WireframeVertex) Slot(slot int) mgl32.Vec3 {
	if slot == SlotPosition {
		return v.Position
	}
	return v.Triangle[slot-SlotCorner0]
}
