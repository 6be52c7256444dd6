// Package asm8 assembles structured assembly source for 8 and 16-bit CPUs.
//
// Besides plain instructions, every target accepts the structured statements
// IF/ELSEIF/ELSE/ENDIF and DO/WHILE/WEND, which are lowered into branches in
// a single pass: a branch to a label that is not defined yet always takes the
// encoding which reaches any address, while a branch back to a known label
// takes the shortest encoding in range.
package asm8

import (
	"context"
	"errors"

	"github.com/inufuto/asm8/experimental"
	"github.com/inufuto/asm8/internal/asm"
	"github.com/inufuto/asm8/internal/source"
)

// Segment is the output of one segment, ex. "CSEG".
type Segment struct {
	Name string
	// Origin is the address of Code[0].
	Origin int64
	Code   []byte
}

// Fixup is a field left zero because it refers to a symbol declared with EXT.
type Fixup struct {
	Segment string
	// Offset is the index of the field in Segment.Code.
	Offset int
	// Width is the size of the field in bytes.
	Width int
	Name  string
}

// Module is the result of Assemble.
type Module struct {
	Name   string
	Target string
	// Segments are in order of first use. The first one is always "CSEG".
	Segments []Segment
	Fixups   []Fixup
	// Symbols are the addresses and values of the symbols defined in the
	// source. External symbols are not included.
	Symbols map[string]int64
}

// Segment returns the segment with the given name, or nil.
func (m *Module) Segment(name string) *Segment {
	for i := range m.Segments {
		if m.Segments[i].Name == name {
			return &m.Segments[i]
		}
	}
	return nil
}

// Code returns the bytes of the code segment.
func (m *Module) Code() []byte {
	return m.Segments[0].Code
}

// Causes of the diagnostics, to be matched with errors.Is.
var (
	ErrNoIf            = asm.ErrNoIf
	ErrNoWhile         = asm.ErrNoWhile
	ErrMultipleElse    = asm.ErrMultipleElse
	ErrMissingEndIf    = asm.ErrMissingEndIf
	ErrMissingWEnd     = asm.ErrMissingWEnd
	ErrSegmentMismatch = asm.ErrSegmentMismatch
	ErrNotConstant     = asm.ErrNotConstant
	ErrOutOfRange      = asm.ErrOutOfRange
	ErrUndefinedSymbol = asm.ErrUndefinedSymbol
	ErrDuplicateSymbol = asm.ErrDuplicateSymbol
)

// ErrList is the type of the error returned by Assemble for diagnostics in
// the source. Each element unwraps to the cause, ex. ErrNoIf.
type ErrList = asm.ErrorList

// Assemble assembles src, using name in diagnostics.
//
// When the source has errors, the module is returned along with an ErrList so
// that callers can still inspect the output. A nil module means the
// configuration is invalid or the assembler hit an internal error.
//
// A experimental.BranchListener in ctx under experimental.BranchListenerKey
// is notified of each emitted branch.
func Assemble(ctx context.Context, config *Config, name string, src []byte) (*Module, error) {
	if config == nil {
		config = NewConfig()
	}
	t, err := config.validate()
	if err != nil {
		return nil, err
	}
	var listener experimental.BranchListener
	if ctx != nil {
		listener, _ = ctx.Value(experimental.BranchListenerKey{}).(experimental.BranchListener)
	}

	c := asm.NewContext(name, t, listener)
	if config.origin != 0 {
		c.SetOrigin(config.origin)
	}
	source.Assemble(c, t, src)
	out, err := c.Finish()
	if err != nil {
		return nil, err
	}

	m := &Module{Name: name, Target: t.Name(), Symbols: map[string]int64{}}
	for _, seg := range out.Segments {
		m.Segments = append(m.Segments, Segment{Name: seg.Name, Origin: seg.Origin(), Code: seg.Bytes()})
	}
	for _, f := range out.Fixups {
		m.Fixups = append(m.Fixups, Fixup{Segment: f.Segment, Offset: f.Offset, Width: f.Width, Name: f.Name})
	}
	for sym, a := range out.Symbols {
		if v, ok := asm.Value(a); ok {
			m.Symbols[sym] = v
		}
	}

	errs := c.Errors()
	if config.maxErrors > 0 && len(errs) > config.maxErrors {
		errs = errs[:config.maxErrors]
	}
	if err = errs.Err(); err != nil {
		return m, err
	}
	return m, nil
}

// IsInternal returns true when err comes from a broken invariant of the
// assembler rather than from the source.
func IsInternal(err error) bool {
	return errors.Is(err, asm.ErrUnboundLabel)
}
