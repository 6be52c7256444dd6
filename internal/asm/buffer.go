package asm

import (
	"encoding/binary"
	"fmt"
)

// SegmentID identifies a segment within one module.
type SegmentID int

// Segment is a named output area with its own location counter.
//
// The zero value is not usable, segments are created by Context.
type Segment struct {
	ID   SegmentID
	Name string

	origin int64
	code   []byte
}

// Origin returns the address of the first byte of the segment.
func (seg *Segment) Origin() int64 {
	return seg.origin
}

// PC returns the location counter, which is the address of the next byte.
func (seg *Segment) PC() int64 {
	return seg.origin + int64(len(seg.code))
}

// Len returns the number of bytes emitted to the segment.
func (seg *Segment) Len() int {
	return len(seg.code)
}

// Bytes returns the content of the segment. The returned slice is only valid
// until more bytes are written.
func (seg *Segment) Bytes() []byte {
	return seg.code
}

func (seg *Segment) writeByte(b byte) {
	seg.code = append(seg.code, b)
}

func (seg *Segment) write(b []byte) {
	seg.code = append(seg.code, b...)
}

// reserve appends n zero bytes and returns the index of the first one.
func (seg *Segment) reserve(n int) int {
	i := len(seg.code)
	for ; n > 0; n-- {
		seg.code = append(seg.code, 0)
	}
	return i
}

// Field describes how a value is stored in the output.
type Field struct {
	// Width is the size of the field in bytes, from 1 to 4.
	Width int
	// Order is the byte order of multi-byte fields.
	Order binary.ByteOrder
	// Relative stores the target minus From instead of the target.
	Relative bool
	// From is the address relative values are measured from.
	From int64
	// Min and Max bound the stored value before masking.
	Min, Max int64
}

// AbsoluteField is a Width byte field holding either a signed or an unsigned value.
func AbsoluteField(width int, order binary.ByteOrder) Field {
	bits := uint(width * 8)
	return Field{Width: width, Order: order, Min: -(1 << (bits - 1)), Max: 1<<bits - 1}
}

// RelativeField is a Width byte signed displacement measured from `from`.
func RelativeField(width int, order binary.ByteOrder, from int64) Field {
	bits := uint(width * 8)
	return Field{Width: width, Order: order, Relative: true, From: from, Min: -(1 << (bits - 1)), Max: 1<<(bits-1) - 1}
}

// InRange returns true when v fits the field.
func (f Field) InRange(v int64) bool {
	return f.Min <= v && v <= f.Max
}

// put stores v into b, which must be f.Width bytes long. The value is
// truncated to the field width.
func (f Field) put(b []byte, v int64) {
	switch f.Width {
	case 1:
		b[0] = byte(v)
	case 2:
		f.Order.PutUint16(b, uint16(v))
	case 3:
		u := uint32(v)
		if f.Order == binary.BigEndian {
			b[0], b[1], b[2] = byte(u>>16), byte(u>>8), byte(u)
		} else {
			b[0], b[1], b[2] = byte(u), byte(u>>8), byte(u>>16)
		}
	case 4:
		f.Order.PutUint32(b, uint32(v))
	default:
		panic(fmt.Sprintf("BUG: field width must be 1 to 4 but was %d", f.Width))
	}
}

// patch is a field waiting for a label to be bound.
type patch struct {
	seg    *Segment
	index  int
	field  Field
	ref    Pending
	at     Position
}

// Fixup is an absolute field which refers to an external symbol. The bytes in
// the segment are zero until a linker applies it.
type Fixup struct {
	Segment string
	// Offset is the index of the field in the segment bytes.
	Offset int
	Width  int
	Name   string
}
