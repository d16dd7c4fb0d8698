package mesh

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// write is one contiguous upload into a buffer.
type write struct {
	offset int // bytes
	data   []float32
}

// backend owns the GPU side of a mesh.
type backend interface {
	build(buffers [][]float32, layout Layout, locations []int32, interleave bool, usage Usage) error
	update(method UpdateMethod, buffer int, writes []write) error
	draw(count int)
	release()
}

// glBackend stores vertex data in one VAO with one or more array buffers.
type glBackend struct {
	vao   uint32
	vbos  []uint32
	sizes []int // bytes per buffer
}

func (b *glBackend) build(buffers [][]float32, layout Layout, locations []int32, interleave bool, usage Usage) error {
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	b.vbos = make([]uint32, len(buffers))
	b.sizes = make([]int, len(buffers))
	gl.GenBuffers(int32(len(b.vbos)), &b.vbos[0])

	for i, data := range buffers {
		b.sizes[i] = len(data) * floatSize
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbos[i])
		gl.BufferData(gl.ARRAY_BUFFER, b.sizes[i], unsafe.Pointer(&data[0]), usage.glEnum())

		if interleave {
			stride := int32(layout.Stride * floatSize)
			for a, size := range layout.Sizes {
				if a >= len(locations) || locations[a] < 0 {
					continue
				}
				loc := uint32(locations[a])
				gl.VertexAttribPointerWithOffset(loc, int32(size), gl.FLOAT, false, stride, uintptr(layout.Offsets[a]*floatSize))
				gl.EnableVertexAttribArray(loc)
			}
			continue
		}

		if i >= len(locations) || locations[i] < 0 {
			continue
		}
		loc := uint32(locations[i])
		gl.VertexAttribPointerWithOffset(loc, int32(layout.Sizes[i]), gl.FLOAT, false, 0, 0)
		gl.EnableVertexAttribArray(loc)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (b *glBackend) update(method UpdateMethod, buffer int, writes []write) error {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbos[buffer])
	defer gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if method == UpdateMethodSubData {
		for _, w := range writes {
			gl.BufferSubData(gl.ARRAY_BUFFER, w.offset, len(w.data)*floatSize, unsafe.Pointer(&w.data[0]))
		}
		return nil
	}

	ptr := gl.MapBuffer(gl.ARRAY_BUFFER, gl.WRITE_ONLY)
	if ptr == nil {
		return ErrMapFailed
	}
	mapped := unsafe.Slice((*float32)(ptr), b.sizes[buffer]/floatSize)
	for _, w := range writes {
		copy(mapped[w.offset/floatSize:], w.data)
	}
	if !gl.UnmapBuffer(gl.ARRAY_BUFFER) {
		// Contents are undefined after a failed unmap.
		return ErrMapFailed
	}
	return nil
}

func (b *glBackend) draw(count int) {
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
	gl.BindVertexArray(0)
}

func (b *glBackend) release() {
	if len(b.vbos) > 0 {
		gl.DeleteBuffers(int32(len(b.vbos)), &b.vbos[0])
		b.vbos = nil
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}
