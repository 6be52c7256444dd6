package asm

import (
	"errors"
	"fmt"
)

// Address is the value of an expression at assembly time. It is one of Const,
// InSegment, External or Pending. Callers must handle all four: a Pending
// address is a reference to a label that is not bound yet.
type Address interface {
	fmt.Stringer
	isAddress()
}

// Const is an absolute number with no segment.
type Const struct {
	Value int64
}

// InSegment is a location inside a segment. Offset is the value of the
// segment's location counter, so it already includes the segment origin.
type InSegment struct {
	Segment SegmentID
	Offset  int64
}

// External names a symbol resolved outside this module.
type External struct {
	Name string
}

// Pending refers to a label which has not been bound yet. Addend is added to
// the label's address once it is known. When Base is set the value is the
// distance from Base, ex. "end-start" with end not defined yet.
type Pending struct {
	Label  LabelID
	Addend int64
	Base   *InSegment
}

func (Const) isAddress()     {}
func (InSegment) isAddress() {}
func (External) isAddress()  {}
func (Pending) isAddress()   {}

// String implements fmt.Stringer.
func (c Const) String() string {
	return fmt.Sprintf("0x%x", c.Value)
}

// String implements fmt.Stringer.
func (s InSegment) String() string {
	return fmt.Sprintf("seg%d:0x%04x", s.Segment, s.Offset)
}

// String implements fmt.Stringer.
func (e External) String() string {
	return e.Name
}

// String implements fmt.Stringer.
func (p Pending) String() string {
	return p.format(fmt.Sprintf("L%d", p.Label), Address.String)
}

func (p Pending) format(label string, base func(Address) string) string {
	if p.Addend != 0 {
		label += fmt.Sprintf("%+d", p.Addend)
	}
	if p.Base != nil {
		label += "-" + base(*p.Base)
	}
	return label
}

// IsConcrete returns true when the value of a is final.
func IsConcrete(a Address) bool {
	switch a.(type) {
	case Const, InSegment:
		return true
	case External, Pending:
		return false
	default:
		panic(fmt.Sprintf("BUG: unknown address %T", a))
	}
}

// ErrNotConstant is returned when an operation requires a number or a
// same-segment value.
var ErrNotConstant = errors.New("constant value required")

// Add returns a+n.
func Add(a Address, n int64) (Address, error) {
	switch v := a.(type) {
	case Const:
		return Const{v.Value + n}, nil
	case InSegment:
		return InSegment{v.Segment, v.Offset + n}, nil
	case Pending:
		return Pending{Label: v.Label, Addend: v.Addend + n, Base: v.Base}, nil
	case External:
		if n == 0 {
			return v, nil
		}
		return nil, fmt.Errorf("%w: offset applied to external symbol %s", ErrNotConstant, v.Name)
	default:
		panic(fmt.Sprintf("BUG: unknown address %T", a))
	}
}

// Sub returns a-b. The difference of two locations in the same segment is a
// Const. A Pending minuend minus a Const stays Pending, and minus a location
// it becomes a Pending distance from that location.
func Sub(a, b Address) (Address, error) {
	switch bv := b.(type) {
	case Const:
		return Add(a, -bv.Value)
	case InSegment:
		switch av := a.(type) {
		case InSegment:
			if av.Segment == bv.Segment {
				return Const{av.Offset - bv.Offset}, nil
			}
		case Pending:
			if av.Base == nil {
				return Pending{Label: av.Label, Addend: av.Addend, Base: &bv}, nil
			}
		case Const, External:
		default:
			panic(fmt.Sprintf("BUG: unknown address %T", a))
		}
	}
	return nil, fmt.Errorf("%w: %s - %s", ErrNotConstant, a, b)
}

// Resolve returns the value of p once its label is bound to address.
func Resolve(p Pending, address Address) (Address, error) {
	a, err := Add(address, p.Addend)
	if err != nil || p.Base == nil {
		return a, err
	}
	return Sub(a, *p.Base)
}

// Value returns the numeric value of a concrete address.
func Value(a Address) (int64, bool) {
	switch v := a.(type) {
	case Const:
		return v.Value, true
	case InSegment:
		return v.Offset, true
	case External, Pending:
		return 0, false
	default:
		panic(fmt.Sprintf("BUG: unknown address %T", a))
	}
}
