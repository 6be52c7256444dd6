package asm

import "fmt"

// LabelID identifies a label. Zero is never allocated and marks "no label".
type LabelID int

type labelState byte

const (
	labelUnbound labelState = iota
	labelBound
	// labelErased marks an internal label which turned out to be unnecessary.
	labelErased
)

type label struct {
	state   labelState
	address Address
	// name is empty for internal labels.
	name string
	// firstUse is where an unbound symbol was first referenced.
	firstUse Position
	// patches wait for this label to be bound.
	patches []patch
}

// labelTable is the counter-allocated label namespace of one module.
type labelTable struct {
	// labels is indexed by LabelID. Index zero is unused.
	labels  []label
	symbols map[string]LabelID
}

func newLabelTable() labelTable {
	return labelTable{labels: make([]label, 1), symbols: map[string]LabelID{}}
}

func (t *labelTable) get(id LabelID) *label {
	if id <= 0 || int(id) >= len(t.labels) {
		panic(fmt.Sprintf("BUG: unknown label %d", id))
	}
	return &t.labels[id]
}

func (t *labelTable) allocate(name string, at Position) LabelID {
	t.labels = append(t.labels, label{name: name, firstUse: at})
	return LabelID(len(t.labels) - 1)
}

// NewLabel allocates an internal label (an AutoLabel).
func (c *Context) NewLabel() LabelID {
	return c.labels.allocate("", c.pos)
}

// LabelAddress returns the address a label is bound to, or Pending.
func (c *Context) LabelAddress(id LabelID) Address {
	l := c.labels.get(id)
	if l.state == labelBound {
		return l.address
	}
	return Pending{Label: id}
}

// IsBound returns true when the label has an address.
func (c *Context) IsBound(id LabelID) bool {
	return c.labels.get(id).state == labelBound
}

// DefineLabel binds the label to address and resolves every field waiting
// for it. Binding a label twice is a bug in the caller.
func (c *Context) DefineLabel(id LabelID, address Address) {
	l := c.labels.get(id)
	if l.state != labelUnbound {
		panic(fmt.Sprintf("BUG: label %d defined twice", id))
	}
	if p, ok := address.(Pending); ok {
		panic(fmt.Sprintf("BUG: label %d bound to unbound %s", id, p))
	}
	l.state = labelBound
	l.address = address
	patches := l.patches
	l.patches = nil
	for i := range patches {
		c.applyPatch(&patches[i], address)
	}
}

// BindLabel binds the label to the current address.
func (c *Context) BindLabel(id LabelID) {
	c.DefineLabel(id, c.CurrentAddress())
}

// EraseLabel marks an internal label as unused so that Finish does not
// require it to be bound.
func (c *Context) EraseLabel(id LabelID) {
	l := c.labels.get(id)
	if l.state == labelBound {
		panic(fmt.Sprintf("BUG: label %d erased after being bound", id))
	}
	if len(l.patches) > 0 {
		panic(fmt.Sprintf("BUG: label %d erased while referenced", id))
	}
	l.state = labelErased
}

// Symbol returns the label of a named symbol, allocating it on first use.
func (c *Context) Symbol(name string) LabelID {
	if id, ok := c.labels.symbols[name]; ok {
		return id
	}
	id := c.labels.allocate(name, c.pos)
	c.labels.symbols[name] = id
	return id
}

// SymbolAddress returns the address of a named symbol, Pending if it is not
// defined yet.
func (c *Context) SymbolAddress(name string) Address {
	return c.LabelAddress(c.Symbol(name))
}

// DefineSymbol binds a named symbol to the current address.
func (c *Context) DefineSymbol(name string) {
	c.defineSymbol(name, c.CurrentAddress())
}

// DefineConstant binds a named symbol to an absolute or external value.
func (c *Context) DefineConstant(name string, value Address) {
	c.defineSymbol(name, value)
}

func (c *Context) defineSymbol(name string, value Address) {
	id := c.Symbol(name)
	if c.labels.get(id).state != labelUnbound {
		c.Report(ErrorKindStructural, fmt.Errorf("%w: %s", ErrDuplicateSymbol, name))
		return
	}
	if p, ok := value.(Pending); ok {
		c.Report(ErrorKindAddressing, fmt.Errorf("%w: %s refers to undefined %s", ErrNotConstant, name, c.labelName(p.Label)))
		value = Const{}
	}
	c.DefineLabel(id, value)
}

func (c *Context) labelName(id LabelID) string {
	if n := c.labels.get(id).name; n != "" {
		return n
	}
	return fmt.Sprintf("L%d", id)
}

// Symbols returns the named symbols bound to a value.
func (c *Context) Symbols() map[string]Address {
	ret := make(map[string]Address, len(c.labels.symbols))
	for name, id := range c.labels.symbols {
		if l := c.labels.get(id); l.state == labelBound {
			ret[name] = l.address
		}
	}
	return ret
}
