package asm

import (
	"fmt"
	"math"
)

// RelativeOffset returns target minus the address `length` bytes after the
// location counter, i.e. the displacement a branch of that length would
// encode. It fails with ErrOffsetPending for an unbound target and with
// ErrSegmentMismatch when target is not in the current segment.
func (c *Context) RelativeOffset(target Address, length int64) (int64, error) {
	from := c.PC() + length
	switch t := target.(type) {
	case InSegment:
		if t.Segment != c.current.ID {
			return 0, fmt.Errorf("%w: %s", ErrSegmentMismatch, c.Describe(t))
		}
		return t.Offset - from, nil
	case Pending:
		return 0, ErrOffsetPending
	case Const:
		return 0, fmt.Errorf("%w: %s is absolute", ErrSegmentMismatch, t)
	case External:
		return 0, fmt.Errorf("%w: %s is external", ErrSegmentMismatch, t.Name)
	default:
		panic(fmt.Sprintf("BUG: unknown address %T", target))
	}
}

// TryRelativeOffset is RelativeOffset reporting only whether the offset is known.
func (c *Context) TryRelativeOffset(target Address, length int64) (offset int64, ok bool) {
	offset, err := c.RelativeOffset(target, length)
	return offset, err == nil
}

// ShortOffset returns the offset for a short branch of the given length and
// true when the target is known and within the emitter's short range. A
// pending target is never short: forward branches are sized before their
// target exists.
func (c *Context) ShortOffset(target Address, length int64) (int64, bool) {
	offset, ok := c.TryRelativeOffset(target, length)
	if !ok || !c.emitter.InRange(offset) {
		return 0, false
	}
	return offset, true
}

// FitsSigned8 is the short range of most targets.
func FitsSigned8(offset int64) bool {
	return math.MinInt8 <= offset && offset <= math.MaxInt8
}

// FitsSigned16 is the range of 16-bit relative displacements.
func FitsSigned16(offset int64) bool {
	return math.MinInt16 <= offset && offset <= math.MaxInt16
}
