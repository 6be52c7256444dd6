package experimental

import "fmt"

// BranchListenerKey is a context.Context Value key. Its associated value should be a BranchListener.
type BranchListenerKey struct{}

// Encoding is the form chosen for one branch.
type Encoding byte

const (
	// EncodingShort is the displacement-limited relative form.
	EncodingShort Encoding = iota
	// EncodingLong is the unconditionally reachable absolute or wide relative form.
	EncodingLong
	// EncodingTrampoline is a short branch on the opposite condition over a long jump.
	EncodingTrampoline
)

// String implements fmt.Stringer.
func (e Encoding) String() string {
	switch e {
	case EncodingShort:
		return "short"
	case EncodingLong:
		return "long"
	case EncodingTrampoline:
		return "trampoline"
	}
	return fmt.Sprintf("Encoding(%d)", e)
}

// BranchEvent describes a branch after its bytes were emitted.
type BranchEvent struct {
	// Line is the source line of the statement which produced the branch.
	Line uint32
	// Segment is the name of the segment holding the branch.
	Segment string
	// Address is the location counter at the first byte of the branch.
	Address int64
	// Size is the number of bytes emitted for the branch.
	Size int
	// Mnemonic is the target-specific name of the instruction.
	Mnemonic string
	// Target is a printable form of the destination.
	Target string
	// Backward is true when the destination was already bound.
	Backward bool
	Encoding Encoding
}

// BranchListener can be registered via BranchListenerKey to be notified of
// every branch the assembler emits, including the ones produced by
// structured statements.
type BranchListener interface {
	// Branch is invoked once per emitted branch, in output order.
	Branch(BranchEvent)
}

// BranchListenerFunc is a function type implementing the BranchListener interface.
type BranchListenerFunc func(BranchEvent)

// Branch satisfies the BranchListener interface, calls f.
func (f BranchListenerFunc) Branch(e BranchEvent) {
	f(e)
}

// MultiBranchListener combines the listeners passed as arguments. Nil
// listeners are skipped.
func MultiBranchListener(listeners ...BranchListener) BranchListener {
	var multi multiBranchListener
	for _, l := range listeners {
		if l != nil {
			multi = append(multi, l)
		}
	}
	switch len(multi) {
	case 0:
		return nil
	case 1:
		return multi[0]
	default:
		return multi
	}
}

type multiBranchListener []BranchListener

func (multi multiBranchListener) Branch(e BranchEvent) {
	for _, l := range multi {
		l.Branch(e)
	}
}
