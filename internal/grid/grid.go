// Package grid builds the planar quad grid the wave mesh is rendered on.
//
// Building is split in two steps: Quads computes the corner geometry of every
// grid cell, WireframeVertices lays those corners out as triangle vertices.
// The emission order is relied upon by the wave animator through
// LengthIndexOf, so both live here.
package grid

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// VerticesPerQuad is the number of vertices emitted for each grid cell
// (two triangles).
const VerticesPerQuad = 6

// Dims describes the extent and subdivision of a grid.
type Dims struct {
	Length  float64 // Extent along the wave's travel axis (x)
	Width   float64 // Extent across the wave (y)
	NLength int     // Subdivisions along Length
	NWidth  int     // Subdivisions along Width
}

// Valid reports whether the grid has at least one cell and finite positive
// extents.
func (d Dims) Valid() bool {
	return d.NLength >= 1 && d.NWidth >= 1 && finitePositive(d.Length) && finitePositive(d.Width)
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// QuadCount returns the number of cells in the grid.
func (d Dims) QuadCount() int {
	return d.NLength * d.NWidth
}

// VertexCount returns the number of emitted vertices for the grid.
func (d Dims) VertexCount() int {
	return d.QuadCount() * VerticesPerQuad
}

// MaxLengthIndex returns the last valid length index.
func (d Dims) MaxLengthIndex() int {
	return d.NLength
}

// Quad holds the four corners of one grid cell.
type Quad struct {
	X, Y int // Length and width index of the cell's near corner

	UL mgl32.Vec3
	LL mgl32.Vec3
	UR mgl32.Vec3
	LR mgl32.Vec3
}

// Quads returns the cells of the grid in length-major order: all cells of
// length index 0 first, then length index 1 and so on. Corners are placed over
// [0,Length]x[0,Width] at height baseZ.
func Quads(d Dims, baseZ float32) []Quad {
	quads := make([]Quad, 0, d.QuadCount())

	stepX := d.Length / float64(d.NLength)
	stepY := d.Width / float64(d.NWidth)

	for x := 0; x < d.NLength; x++ {
		x0 := float32(float64(x) * stepX)
		x1 := float32(float64(x+1) * stepX)
		for y := 0; y < d.NWidth; y++ {
			y0 := float32(float64(y) * stepY)
			y1 := float32(float64(y+1) * stepY)

			quads = append(quads, Quad{
				X:  x,
				Y:  y,
				UL: mgl32.Vec3{x0, y1, baseZ},
				LL: mgl32.Vec3{x0, y0, baseZ},
				UR: mgl32.Vec3{x1, y1, baseZ},
				LR: mgl32.Vec3{x1, y0, baseZ},
			})
		}
	}

	return quads
}

// LengthIndexOf returns the length index a vertex's own position lies on.
//
// Within each quad, vertices 0, 2 and 4 sit on the quad's near edge and
// vertices 1, 3 and 5 on its far edge, so parity selects between n and n+1.
func LengthIndexOf(v, nwidth int) int {
	return v/(VerticesPerQuad*nwidth) + v%2
}
