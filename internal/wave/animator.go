package wave

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/wavebench/internal/engine/mesh"
	"github.com/Faultbox/wavebench/internal/grid"
)

// Mesh is the vertex store the animator writes into.
type Mesh interface {
	NextVertex()
	SetAttrib(slot int, v mgl32.Vec3)
	Vertex(i int) []float32
	UpdateVBO(ranges []mesh.Range) error
}

// Animator owns the per-line displacement of a wave mesh.
type Animator struct {
	grid grid.Dims
	fn   Func
	mesh Mesh

	// displacement[n] caches Displacement(n, t) for the last updated t.
	displacement []float64
	ranges       []mesh.Range
}

// New validates p, emits the grid into m with heights at elapsed time 0 and
// returns an animator driving it. m must already use grid.VertexFormat.
func New(p Params, m Mesh) (*Animator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	a := &Animator{
		grid:         p.Grid,
		fn:           NewFunc(p),
		mesh:         m,
		displacement: make([]float64, p.Grid.NLength+1),
	}
	for n := range a.displacement {
		a.displacement[n] = a.Displacement(n, 0)
	}

	a.emit()
	return a, nil
}

// emit adds the grid's wireframe vertices to the mesh.
func (a *Animator) emit() {
	verts := grid.WireframeVertices(grid.Quads(a.grid, 0))
	for v, wv := range verts {
		a.mesh.NextVertex()
		for slot := 0; slot < grid.SlotCount; slot++ {
			a.mesh.SetAttrib(slot, wv.Slot(slot))
		}
		a.writeHeights(v, a.mesh.Vertex(v))
	}
}

// Func returns the wave profile.
func (a *Animator) Func() Func {
	return a.fn
}

// Grid returns the grid dimensions.
func (a *Animator) Grid() grid.Dims {
	return a.grid
}

// Displacement returns the wave height on length line n at the given time.
func (a *Animator) Displacement(n int, elapsed float64) float64 {
	x := float64(n) * a.grid.Length / float64(a.grid.NLength)
	return a.fn.At(x - a.fn.velocity*elapsed)
}

// Heights returns the cached displacement of every length line.
func (a *Animator) Heights() []float64 {
	return a.displacement
}

// Update recomputes the displacement for the elapsed time, rewrites the
// heights of every vertex touching a changed line and uploads those vertex
// ranges. It returns the uploaded inclusive vertex ranges, which are only
// valid until the next call.
func (a *Animator) Update(elapsed float64) ([]mesh.Range, error) {
	a.ranges = a.changedLines(elapsed, a.ranges[:0])

	for i, r := range a.ranges {
		start, end := a.vertexSpan(r.Start, r.End)
		for v := start; v < end; v++ {
			a.writeHeights(v, a.mesh.Vertex(v))
		}
		a.ranges[i] = mesh.Range{Start: start, End: end - 1}
	}

	if len(a.ranges) == 0 {
		return nil, nil
	}
	if err := a.mesh.UpdateVBO(a.ranges); err != nil {
		return nil, err
	}
	return a.ranges, nil
}

// changedLines stores the displacement at elapsed and appends to dst the
// length-index ranges that changed. A range opened at line n starts at n-1 so
// triangles reaching back to the previous, unchanged line are refreshed too.
func (a *Animator) changedLines(elapsed float64, dst []mesh.Range) []mesh.Range {
	for n := range a.displacement {
		d := a.Displacement(n, elapsed)

		if d != a.displacement[n] {
			if last := len(dst) - 1; last >= 0 && dst[last].End == n-1 {
				dst[last].End = n
			} else {
				dst = append(dst, mesh.Range{Start: max(n-1, 0), End: n})
			}
		}

		a.displacement[n] = d
	}
	return dst
}

// vertexSpan maps the length-index range [lo, hi] to the half-open vertex
// range whose heights depend on it.
func (a *Animator) vertexSpan(lo, hi int) (start, end int) {
	perLine := a.grid.NWidth * grid.VerticesPerQuad

	start = lo*perLine + lo%2
	if hi < a.grid.NLength {
		hi++
	}
	end = hi * perLine
	return start, end
}

// writeHeights sets the z component of every attribute slot of vertex v from
// the cached displacement.
func (a *Animator) writeHeights(v int, vert []float32) {
	nw := a.grid.NWidth
	vt := 3 * (v / 3)

	vert[grid.SlotPosition*grid.SlotSize+2] = float32(a.displacement[grid.LengthIndexOf(v, nw)])
	vert[grid.SlotCorner0*grid.SlotSize+2] = float32(a.displacement[grid.LengthIndexOf(vt, nw)])
	vert[grid.SlotCorner1*grid.SlotSize+2] = float32(a.displacement[grid.LengthIndexOf(vt+1, nw)])
	vert[grid.SlotCorner2*grid.SlotSize+2] = float32(a.displacement[grid.LengthIndexOf(vt+2, nw)])
}
