package asm

import (
	"encoding/binary"
	"fmt"

	"github.com/inufuto/asm8/experimental"
)

// Condition is a target-specific condition code, as returned by the target's
// condition table.
type Condition byte

// BranchEmitter is implemented once per target. Each method chooses between
// the short, long and trampoline encodings using Context.TryRelativeOffset
// and InRange, and emits the bytes through the Context.
type BranchEmitter interface {
	// ConditionalBranch branches to target when cond holds.
	ConditionalBranch(c *Context, cond Condition, target Address)
	// NegatedConditionalBranch branches to target when cond does not hold.
	NegatedConditionalBranch(c *Context, cond Condition, target Address)
	// UnconditionalBranch always branches to target.
	UnconditionalBranch(c *Context, target Address)
	// InRange returns true when offset can be encoded by the short form.
	InRange(offset int64) bool
}

// Context holds the state of one assembly run: segments, labels, open blocks
// and diagnostics. It is not safe for concurrent use.
type Context struct {
	name     string
	emitter  BranchEmitter
	listener experimental.BranchListener

	segments []*Segment
	current  *Segment

	labels labelTable
	blocks blockStack
	held   *heldExit

	pos    Position
	errs   ErrorList
	fixups []Fixup
}

// DefaultSegment is the name of the segment active at the start of a module.
const DefaultSegment = "CSEG"

// NewContext returns a Context emitting branches with emitter. listener may be nil.
func NewContext(name string, emitter BranchEmitter, listener experimental.BranchListener) *Context {
	c := &Context{name: name, emitter: emitter, listener: listener, labels: newLabelTable()}
	c.current = c.newSegment(DefaultSegment)
	return c
}

func (c *Context) newSegment(name string) *Segment {
	seg := &Segment{ID: SegmentID(len(c.segments)), Name: name}
	c.segments = append(c.segments, seg)
	return seg
}

// Emitter returns the target the Context was created with.
func (c *Context) Emitter() BranchEmitter {
	return c.emitter
}

// SetPosition sets the source position attached to the following diagnostics.
func (c *Context) SetPosition(pos Position) {
	c.pos = pos
}

// Position returns the current source position.
func (c *Context) Position() Position {
	return c.pos
}

// Report records a diagnostic at the current position.
func (c *Context) Report(kind ErrorKind, err error) {
	c.reportAt(c.pos, kind, err)
}

// Reportf records a formatted diagnostic at the current position.
func (c *Context) Reportf(kind ErrorKind, format string, args ...interface{}) {
	c.reportAt(c.pos, kind, fmt.Errorf(format, args...))
}

func (c *Context) reportAt(pos Position, kind ErrorKind, err error) {
	c.errs.Add(NewError(c.name, pos, kind, err))
}

// Errors returns the diagnostics reported so far, in report order.
func (c *Context) Errors() ErrorList {
	return c.errs
}

// UseSegment makes the named segment current, creating it on first use.
func (c *Context) UseSegment(name string) {
	c.commitHeldExit()
	for _, seg := range c.segments {
		if seg.Name == name {
			c.current = seg
			return
		}
	}
	c.current = c.newSegment(name)
}

// Segment returns the current segment.
func (c *Context) Segment() *Segment {
	return c.current
}

// SetOrigin moves the location counter of the current segment. An empty
// segment starts at origin, otherwise the gap up to origin is zero filled.
func (c *Context) SetOrigin(origin int64) {
	c.commitHeldExit()
	seg := c.current
	switch {
	case seg.Len() == 0:
		seg.origin = origin
	case origin >= seg.PC():
		seg.reserve(int(origin - seg.PC()))
	default:
		c.Reportf(ErrorKindRange, "%w: ORG 0x%x is below the location counter 0x%x", ErrOutOfRange, origin, seg.PC())
	}
}

// PC returns the address of the next byte in the current segment.
func (c *Context) PC() int64 {
	c.commitHeldExit()
	return c.current.PC()
}

// CurrentAddress returns PC as an Address of the current segment.
func (c *Context) CurrentAddress() Address {
	pc := c.PC()
	return InSegment{Segment: c.current.ID, Offset: pc}
}

// EmitByte appends one byte.
func (c *Context) EmitByte(b byte) {
	c.commitHeldExit()
	c.current.writeByte(b)
}

// EmitBytes appends the bytes in order.
func (c *Context) EmitBytes(b ...byte) {
	c.commitHeldExit()
	c.current.write(b)
}

// Reserve appends n zero bytes.
func (c *Context) Reserve(n int) {
	c.commitHeldExit()
	c.current.reserve(n)
}

// EmitWord appends a 16-bit absolute value.
func (c *Context) EmitWord(a Address, order binary.ByteOrder) {
	c.EmitField(a, AbsoluteField(2, order))
}

// EmitTripleByte appends a 24-bit absolute value.
func (c *Context) EmitTripleByte(a Address, order binary.ByteOrder) {
	c.EmitField(a, AbsoluteField(3, order))
}

// EmitDoubleWord appends a 32-bit absolute value.
func (c *Context) EmitDoubleWord(a Address, order binary.ByteOrder) {
	c.EmitField(a, AbsoluteField(4, order))
}

// EmitRelative appends a signed width byte displacement of target measured
// from the address `from`.
func (c *Context) EmitRelative(target Address, width int, order binary.ByteOrder, from int64) {
	c.EmitField(target, RelativeField(width, order, from))
}

// EmitField appends a field holding a. When a is Pending, zeros are written
// and the field is patched once the label is bound. The number of bytes
// written never depends on a.
func (c *Context) EmitField(a Address, f Field) {
	c.commitHeldExit()
	seg := c.current
	index := seg.reserve(f.Width)
	if p, ok := a.(Pending); ok {
		l := c.labels.get(p.Label)
		if l.state == labelErased {
			panic(fmt.Sprintf("BUG: reference to erased label %d", p.Label))
		}
		l.patches = append(l.patches, patch{seg: seg, index: index, field: f, ref: p, at: c.pos})
		return
	}
	c.storeField(seg, index, f, a, c.pos)
}

func (c *Context) applyPatch(p *patch, address Address) {
	a, err := Resolve(p.ref, address)
	if err != nil {
		c.reportAt(p.at, ErrorKindAddressing, fmt.Errorf("%w: %s", ErrNotConstant, c.Describe(p.ref)))
		return
	}
	c.storeField(p.seg, p.index, p.field, a, p.at)
}

// storeField writes the concrete or external address a into an already
// reserved field.
func (c *Context) storeField(seg *Segment, index int, f Field, a Address, at Position) {
	var v int64
	switch av := a.(type) {
	case Const:
		if f.Relative {
			c.reportAt(at, ErrorKindAddressing, fmt.Errorf("%w: relative target %s is absolute", ErrSegmentMismatch, av))
			return
		}
		v = av.Value
	case InSegment:
		if f.Relative {
			if av.Segment != seg.ID {
				c.reportAt(at, ErrorKindAddressing, fmt.Errorf("%w: %s", ErrSegmentMismatch, av))
				return
			}
			v = av.Offset - f.From
		} else {
			v = av.Offset
		}
	case External:
		if f.Relative {
			c.reportAt(at, ErrorKindAddressing, fmt.Errorf("%w: relative target %s is external", ErrSegmentMismatch, av.Name))
			return
		}
		c.fixups = append(c.fixups, Fixup{Segment: seg.Name, Offset: index, Width: f.Width, Name: av.Name})
		return
	case Pending:
		panic(fmt.Sprintf("BUG: storing unbound %s", av))
	default:
		panic(fmt.Sprintf("BUG: unknown address %T", a))
	}
	if !f.InRange(v) {
		c.reportAt(at, ErrorKindRange, fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, v, f.Min, f.Max))
	}
	f.put(seg.code[index:index+f.Width], v)
}

// Branch notifies the listener of a branch which starts at site and ends at
// the current location counter.
func (c *Context) Branch(site int64, mnemonic string, target Address, enc experimental.Encoding) {
	if c.listener == nil {
		return
	}
	c.listener.Branch(experimental.BranchEvent{
		Line:     c.pos.Line,
		Segment:  c.current.Name,
		Address:  site,
		Size:     int(c.current.PC() - site),
		Mnemonic: mnemonic,
		Target:   c.Describe(target),
		Backward: IsConcrete(target),
		Encoding: enc,
	})
}

// Describe formats a for diagnostics, naming labels by their symbol and
// segments by their name.
func (c *Context) Describe(a Address) string {
	switch v := a.(type) {
	case Pending:
		return v.format(c.labelName(v.Label), c.Describe)
	case InSegment:
		return fmt.Sprintf("%s:0x%04x", c.segments[v.Segment].Name, v.Offset)
	default:
		return a.String()
	}
}

// ConstValue returns the value of a, which must be a Const.
func (c *Context) ConstValue(a Address) (int64, error) {
	if v, ok := a.(Const); ok {
		return v.Value, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrNotConstant, c.Describe(a))
}

// Output is the result of a module.
type Output struct {
	Segments []*Segment
	Fixups   []Fixup
	Symbols  map[string]Address
}

// Finish closes the module: it commits a held WHILE exit, reports the blocks
// left open and the symbols never defined, and checks that every internal
// label is bound. Diagnostics are available via Errors; the returned error is
// only non-nil for a broken internal invariant.
func (c *Context) Finish() (*Output, error) {
	c.commitHeldExit()
	for len(c.blocks) > 0 {
		c.closeOpenBlock(c.TopBlock())
		c.PopBlock()
	}
	for id := LabelID(1); int(id) < len(c.labels.labels); id++ {
		l := c.labels.get(id)
		if l.state != labelUnbound {
			continue
		}
		if l.name != "" {
			c.reportAt(l.firstUse, ErrorKindAddressing, fmt.Errorf("%w: %s", ErrUndefinedSymbol, l.name))
			l.patches = nil
			continue
		}
		return nil, fmt.Errorf("%w: L%d allocated at line %d", ErrUnboundLabel, id, l.firstUse.Line)
	}
	c.errs.Sort()
	return &Output{Segments: c.segments, Fixups: c.fixups, Symbols: c.Symbols()}, nil
}

// closeOpenBlock reports a block left open at the end of the module and binds
// its pending labels at the end address so the module can still be checked.
func (c *Context) closeOpenBlock(b Block) {
	switch b := b.(type) {
	case *IfBlock:
		c.reportAt(b.at, ErrorKindStructural, ErrMissingEndIf)
		if b.ElseID != 0 {
			c.BindLabel(b.ElseID)
		}
		c.BindLabel(b.EndID)
	case *WhileBlock:
		c.reportAt(b.at, ErrorKindStructural, ErrMissingWEnd)
		c.BindLabel(b.RepeatID)
		c.BindLabel(b.EndID)
	default:
		panic(fmt.Sprintf("BUG: unknown block %T", b))
	}
}
