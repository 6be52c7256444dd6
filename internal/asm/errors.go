package asm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoIf is reported for ELSE, ELSEIF or ENDIF outside an IF block.
	ErrNoIf = errors.New("no IF statement")
	// ErrNoWhile is reported for WHILE or WEND outside a DO block.
	ErrNoWhile = errors.New("no WHILE statement")
	// ErrMultipleElse is reported for a second ELSE in the same IF block.
	ErrMultipleElse = errors.New("multiple ELSE statement")
	// ErrMissingEndIf is reported for an IF block still open at the end of the module.
	ErrMissingEndIf = errors.New("missing ENDIF")
	// ErrMissingWEnd is reported for a DO block still open at the end of the module.
	ErrMissingWEnd = errors.New("missing WEND")
	// ErrOffsetPending means the branch target is not bound yet.
	ErrOffsetPending = errors.New("offset not known yet")
	// ErrSegmentMismatch means a relative offset crosses segments.
	ErrSegmentMismatch = errors.New("target is not in the current segment")
	// ErrOutOfRange is reported for a value which does not fit its field.
	ErrOutOfRange = errors.New("out of range")
	// ErrUndefinedSymbol is reported for a symbol referenced but never defined.
	ErrUndefinedSymbol = errors.New("undefined symbol")
	// ErrDuplicateSymbol is reported for a symbol defined twice.
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	// ErrUnboundLabel is the hard failure raised when an internal label is left
	// unbound at the end of the module.
	ErrUnboundLabel = errors.New("internal label never bound")
)

// ErrorKind classifies diagnostics.
type ErrorKind byte

const (
	// ErrorKindSyntax is a malformed statement.
	ErrorKindSyntax ErrorKind = iota
	// ErrorKindStructural is a mismatched or missing block keyword.
	ErrorKindStructural
	// ErrorKindAddressing is a value of the wrong kind, e.g. a cross-segment relative target.
	ErrorKindAddressing
	// ErrorKindRange is a value or displacement that does not fit its field.
	ErrorKindRange
	// ErrorKindInternal is a broken invariant of the assembler itself.
	ErrorKindInternal
)

var errorKindNames = [...]string{
	ErrorKindSyntax:     "syntax",
	ErrorKindStructural: "structure",
	ErrorKindAddressing: "addressing",
	ErrorKindRange:      "range",
	ErrorKindInternal:   "internal",
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Position is a location in the source.
type Position struct {
	// Line is the 1-based source line.
	Line uint32
	// Col is the 1-based column, or zero when only the line is known.
	Col uint32
}

// Error is a diagnostic attached to a source position.
type Error struct {
	// Name is the source name, usually the file name.
	Name string
	Position
	Kind  ErrorKind
	cause error
}

// NewError returns a diagnostic of the given kind.
func NewError(name string, pos Position, kind ErrorKind, cause error) *Error {
	return &Error{Name: name, Position: pos, Kind: kind, cause: cause}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Name != "" {
		b.WriteString(e.Name)
		b.WriteByte(':')
	}
	if e.Col == 0 {
		fmt.Fprintf(&b, "%d: %v", e.Line, e.cause)
	} else {
		fmt.Fprintf(&b, "%d:%d: %v", e.Line, e.Col, e.cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ErrorList accumulates diagnostics. A nil or empty list is not an error.
type ErrorList []*Error

// Add appends a diagnostic.
func (l *ErrorList) Add(e *Error) {
	*l = append(*l, e)
}

// Sort orders the list by source position, keeping the report order for
// equal positions.
func (l ErrorList) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		a, b := l[i], l[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
}

// Err returns the list as an error, or nil when it is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Is reports whether any diagnostic in the list matches target.
func (l ErrorList) Is(target error) bool {
	for _, e := range l {
		if errors.Is(e, target) {
			return true
		}
	}
	return false
}
