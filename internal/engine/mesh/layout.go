package mesh

import "fmt"

// floatSize is the size in bytes of one vertex component.
const floatSize = 4

// Range is an inclusive span of vertex indices.
type Range struct {
	Start int
	End   int
}

// Len returns the number of vertices in the range.
func (r Range) Len() int {
	return r.End - r.Start + 1
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d]", r.Start, r.End)
}

// Layout describes where each attribute of a vertex lives.
type Layout struct {
	Sizes   []int // Floats per attribute
	Offsets []int // Float offset of each attribute inside one vertex
	Stride  int   // Floats per vertex
}

// NewLayout computes offsets and stride for the given attribute sizes.
func NewLayout(sizes []int) Layout {
	l := Layout{
		Sizes:   append([]int(nil), sizes...),
		Offsets: make([]int, len(sizes)),
	}
	for i, s := range sizes {
		l.Offsets[i] = l.Stride
		l.Stride += s
	}
	return l
}

// Span is one contiguous byte span of a GPU buffer.
type Span struct {
	Buffer int // Index of the target buffer (always 0 when interleaved)
	Offset int // Byte offset into the buffer
	Size   int // Byte length
}

// Spans returns the buffer spans covering a vertex range.
//
// Interleaved meshes keep all attributes in one buffer, so a range maps to one
// span. Otherwise every attribute has its own tightly packed buffer and the
// range maps to one span per attribute.
func (l Layout) Spans(r Range, interleave bool) []Span {
	if interleave {
		return []Span{{
			Buffer: 0,
			Offset: r.Start * l.Stride * floatSize,
			Size:   r.Len() * l.Stride * floatSize,
		}}
	}

	spans := make([]Span, len(l.Sizes))
	for i, s := range l.Sizes {
		spans[i] = Span{
			Buffer: i,
			Offset: r.Start * s * floatSize,
			Size:   r.Len() * s * floatSize,
		}
	}
	return spans
}

// Pack copies attribute data of vertices [r.Start, r.End] from the
// interleaved store into dst, in the layout of the target buffer.
// For interleaved meshes attrib is ignored and the store is copied as is.
func (l Layout) Pack(dst, store []float32, r Range, interleave bool, attrib int) []float32 {
	if interleave {
		return append(dst, store[r.Start*l.Stride:(r.End+1)*l.Stride]...)
	}

	size := l.Sizes[attrib]
	off := l.Offsets[attrib]
	for v := r.Start; v <= r.End; v++ {
		base := v*l.Stride + off
		dst = append(dst, store[base:base+size]...)
	}
	return dst
}
