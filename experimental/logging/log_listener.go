// Package logging includes an experimental.BranchListener which traces the
// branches chosen by the assembler.
package logging

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/inufuto/asm8/experimental"
)

// Writer is the destination of the log. An io.Writer without WriteString is
// wrapped in a bufio.Writer, flushed after each line.
type Writer interface {
	io.Writer
	io.StringWriter
}

type flusher interface {
	Flush() error
}

// NewBranchLoggingListener is an experimental.BranchListener that writes one
// line per emitted branch to w, ex.
//
//	   12 CSEG:0010 LBNE L3 long 4 forward
func NewBranchLoggingListener(w io.Writer) experimental.BranchListener {
	return &branchLoggingListener{w: toInternalWriter(w)}
}

func toInternalWriter(w io.Writer) Writer {
	if w, ok := w.(Writer); ok {
		return w
	}
	return bufio.NewWriter(w)
}

type branchLoggingListener struct {
	w Writer
}

// Branch implements the same method as documented on experimental.BranchListener.
func (l *branchLoggingListener) Branch(e experimental.BranchEvent) {
	direction := "forward"
	if e.Backward {
		direction = "backward"
	}
	line := fmt.Sprintf("%5d %s:%s %s %s %s %d %s\n",
		e.Line, e.Segment, hex4(e.Address), e.Mnemonic, e.Target, e.Encoding, e.Size, direction)
	l.w.WriteString(line) //nolint
	if f, ok := l.w.(flusher); ok {
		f.Flush() //nolint
	}
}

func hex4(v int64) string {
	s := strconv.FormatInt(v, 16)
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}
