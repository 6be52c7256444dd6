package asm

// This file lowers the structured statements IF/ELSEIF/ELSE/ENDIF and
// DO/WHILE/WEND into branches. Only the labels allocated here decide the
// direction of a branch: ELSE and END labels are always bound after the
// branches to them, so those branches take the long encoding, while the loop
// begin label is bound before every back-edge, which may then be short.

// heldExit is a WHILE whose exit branch has not been emitted yet. It is
// committed by the next statement that looks at the location counter, unless
// that statement is the WEND of the same loop.
type heldExit struct {
	block *WhileBlock
	cond  Condition
	at    Position
}

// IfStatement opens an IF block and branches to its ELSE label when cond does
// not hold.
func (c *Context) IfStatement(cond Condition) {
	c.commitHeldExit()
	b := c.NewIfBlock()
	c.startIf(b, cond)
}

func (c *Context) startIf(b *IfBlock, cond Condition) {
	c.emitter.NegatedConditionalBranch(c, cond, c.LabelAddress(b.ElseID))
}

// ElseIfStatement is ELSE followed by the IF of a nested condition sharing the
// END label of the block.
func (c *Context) ElseIfStatement(cond Condition) {
	c.commitHeldExit()
	b := c.topIf()
	if b == nil {
		c.Report(ErrorKindStructural, ErrNoIf)
		return
	}
	c.elseBranch(b)
	b.ElseID = c.NewLabel()
	c.startIf(b, cond)
}

// ElseStatement ends the THEN part with a branch to the END label and binds
// the ELSE label.
func (c *Context) ElseStatement() {
	c.commitHeldExit()
	b := c.topIf()
	if b == nil {
		c.Report(ErrorKindStructural, ErrNoIf)
		return
	}
	c.elseBranch(b)
}

func (c *Context) elseBranch(b *IfBlock) {
	if b.ElseID == 0 {
		// The branch is still emitted so that the following addresses do not
		// depend on the error.
		c.Report(ErrorKindStructural, ErrMultipleElse)
	}
	c.emitter.UnconditionalBranch(c, c.LabelAddress(b.EndID))
	if b.ElseID != 0 {
		c.BindLabel(b.ElseID)
		b.ElseID = 0
	}
}

// EndIfStatement binds the pending labels of the innermost IF block and closes it.
func (c *Context) EndIfStatement() {
	c.commitHeldExit()
	b := c.topIf()
	if b == nil {
		c.Report(ErrorKindStructural, ErrNoIf)
		return
	}
	if b.ElseID != 0 {
		c.BindLabel(b.ElseID)
	}
	c.BindLabel(b.EndID)
	c.PopBlock()
}

// DoStatement opens a loop and binds its begin label.
func (c *Context) DoStatement() {
	c.commitHeldExit()
	b := c.NewWhileBlock()
	c.BindLabel(b.BeginID)
}

// WhileStatement leaves the innermost loop when cond does not hold.
//
// The exit branch is held until the next statement. If that statement is the
// WEND of the same loop, the offset from here to the repeat point is zero and
// the test itself becomes the back-edge (see WEndStatement).
func (c *Context) WhileStatement(cond Condition) {
	c.commitHeldExit()
	b := c.topWhile()
	if b == nil {
		c.Report(ErrorKindStructural, ErrNoWhile)
		return
	}
	c.held = &heldExit{block: b, cond: cond, at: c.pos}
}

// commitHeldExit emits the held WHILE exit as a branch to the END label.
func (c *Context) commitHeldExit() {
	h := c.held
	if h == nil {
		return
	}
	c.held = nil
	pos := c.pos
	c.pos = h.at
	h.block.exits++
	c.emitter.NegatedConditionalBranch(c, h.cond, c.LabelAddress(h.block.EndID))
	c.pos = pos
}

// WEndStatement closes the innermost loop with a back-edge to its begin label.
func (c *Context) WEndStatement() {
	b := c.topWhile()
	if b == nil {
		c.commitHeldExit()
		c.Report(ErrorKindStructural, ErrNoWhile)
		return
	}
	if h := c.held; h != nil && h.block == b && b.exits == 0 {
		// The only exit of the loop is a test right before WEND: branch back on
		// the condition as is, and nothing needs the END label.
		c.held = nil
		pos := c.pos
		c.pos = h.at
		c.emitter.ConditionalBranch(c, h.cond, c.LabelAddress(b.BeginID))
		c.pos = pos
		b.EndErased = true
		c.EraseLabel(b.RepeatID)
		c.EraseLabel(b.EndID)
		c.PopBlock()
		return
	}
	c.commitHeldExit()
	c.BindLabel(b.RepeatID)
	c.emitter.UnconditionalBranch(c, c.LabelAddress(b.BeginID))
	c.BindLabel(b.EndID)
	c.PopBlock()
}
