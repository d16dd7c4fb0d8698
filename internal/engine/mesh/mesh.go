// Package mesh keeps a CPU-side vertex store and mirrors it into GL vertex
// buffers, uploading only the vertex ranges it is told have changed.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// UploadStats accumulates what UpdateVBO sent to the GPU.
type UploadStats struct {
	Updates  int   // UpdateVBO calls that uploaded at least one range
	Ranges   int   // Vertex ranges uploaded
	Vertices int   // Vertices uploaded
	Calls    int   // Buffer writes issued (map/unmap pairs or sub-data calls)
	Bytes    int64 // Bytes written into GPU buffers
}

// Mesh is an ordered vertex store with a fixed attribute format and the GL
// buffers mirroring it.
type Mesh struct {
	layout    Layout
	locations []int32
	data      []float32
	count     int

	interleave bool
	method     UpdateMethod
	usage      Usage

	backend backend
	built   bool
	stats   UploadStats
	scratch []float32
}

// New creates an empty mesh that uploads through OpenGL.
func New() *Mesh {
	return &Mesh{backend: &glBackend{}}
}

// newWithBackend creates a mesh with a custom buffer backend.
func newWithBackend(b backend) *Mesh {
	return &Mesh{backend: b}
}

// SetVertexFormat sets the number of floats of every attribute.
// Must be called before any vertex is added.
func (m *Mesh) SetVertexFormat(sizes []int) {
	m.layout = NewLayout(sizes)
	if m.locations == nil {
		m.locations = make([]int32, len(sizes))
		for i := range m.locations {
			m.locations[i] = int32(i)
		}
	}
}

// SetAttribLocations sets the shader attribute location of every attribute.
// Negative locations are left unbound.
func (m *Mesh) SetAttribLocations(locations []int32) {
	m.locations = append([]int32(nil), locations...)
}

// Layout returns the vertex layout.
func (m *Mesh) Layout() Layout {
	return m.layout
}

// Interleave selects one interleaved buffer (true) or one buffer per attribute.
func (m *Mesh) Interleave(interleave bool) {
	m.interleave = interleave
}

// SetUpdateMethod selects how UpdateVBO writes ranges.
func (m *Mesh) SetUpdateMethod(method UpdateMethod) {
	m.method = method
}

// SetUsage sets the buffer usage hint used by BuildVBO.
func (m *Mesh) SetUsage(usage Usage) {
	m.usage = usage
}

// NextVertex appends a zeroed vertex; SetAttrib writes into it.
func (m *Mesh) NextVertex() {
	m.data = append(m.data, make([]float32, m.layout.Stride)...)
	m.count++
}

// SetAttrib sets attribute slot of the last added vertex.
func (m *Mesh) SetAttrib(slot int, v mgl32.Vec3) {
	if m.count == 0 {
		return
	}
	base := (m.count-1)*m.layout.Stride + m.layout.Offsets[slot]
	size := min(m.layout.Sizes[slot], len(v))
	copy(m.data[base:base+size], v[:size])
}

// VertexCount returns the number of vertices in the store.
func (m *Mesh) VertexCount() int {
	return m.count
}

// Vertex returns a mutable view of vertex i, laid out by the vertex format.
func (m *Mesh) Vertex(i int) []float32 {
	return m.data[i*m.layout.Stride : (i+1)*m.layout.Stride]
}

// BuildVBO creates the GPU buffers from the current store.
func (m *Mesh) BuildVBO() error {
	if m.count == 0 {
		return ErrEmptyMesh
	}
	if m.built {
		m.backend.release()
		m.built = false
	}

	var buffers [][]float32
	if m.interleave {
		buffers = [][]float32{m.data}
	} else {
		all := Range{Start: 0, End: m.count - 1}
		for i := range m.layout.Sizes {
			buffers = append(buffers, m.layout.Pack(nil, m.data, all, false, i))
		}
	}

	if err := m.backend.build(buffers, m.layout, m.locations, m.interleave, m.usage); err != nil {
		return err
	}
	m.built = true
	return nil
}

// UpdateVBO uploads the given inclusive vertex ranges from the store.
// An empty list uploads nothing.
func (m *Mesh) UpdateVBO(ranges []Range) error {
	if len(ranges) == 0 {
		return nil
	}
	if !m.built {
		return ErrNotBuilt
	}

	nbuf := 1
	if !m.interleave {
		nbuf = len(m.layout.Sizes)
	}

	m.scratch = m.scratch[:0]
	for b := 0; b < nbuf; b++ {
		writes := make([]write, 0, len(ranges))
		var size int64
		for _, r := range ranges {
			if r.Start < 0 || r.End >= m.count || r.End < r.Start {
				return ErrRangeOutOfBounds
			}
			span := m.layout.Spans(r, m.interleave)[b]
			start := len(m.scratch)
			m.scratch = m.layout.Pack(m.scratch, m.data, r, m.interleave, b)
			writes = append(writes, write{offset: span.Offset, data: m.scratch[start:]})
			size += int64(span.Size)
		}

		if err := m.backend.update(m.method, b, writes); err != nil {
			return err
		}
		m.stats.Bytes += size
		if m.method == UpdateMethodMap {
			m.stats.Calls++
		} else {
			m.stats.Calls += len(writes)
		}
	}

	m.stats.Updates++
	m.stats.Ranges += len(ranges)
	for _, r := range ranges {
		m.stats.Vertices += r.Len()
	}
	return nil
}

// Render draws the mesh as a triangle list.
func (m *Mesh) Render() {
	if !m.built {
		return
	}
	m.backend.draw(m.count)
}

// Stats returns the upload statistics since the last ResetStats.
func (m *Mesh) Stats() UploadStats {
	return m.stats
}

// ResetStats clears the upload statistics.
func (m *Mesh) ResetStats() {
	m.stats = UploadStats{}
}

// Reset releases GPU buffers and clears the vertex store.
func (m *Mesh) Reset() {
	if m.built {
		m.backend.release()
	}
	m.built = false
	m.data = nil
	m.count = 0
	m.scratch = nil
	m.stats = UploadStats{}
}
