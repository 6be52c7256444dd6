package asm

// Block is a structured-statement scope on the block stack: *IfBlock or *WhileBlock.
type Block interface {
	// Keyword is the statement which opened the block.
	Keyword() string
	// OpenedAt is where the block was opened.
	OpenedAt() Position
}

// IfBlock is opened by IF and closed by ENDIF.
type IfBlock struct {
	// ElseID is the label the failing condition branches to. It is zero once
	// an ELSE has consumed it.
	ElseID LabelID
	EndID  LabelID
	at     Position
}

// Keyword implements Block.Keyword.
func (b *IfBlock) Keyword() string { return "IF" }

// OpenedAt implements Block.OpenedAt.
func (b *IfBlock) OpenedAt() Position { return b.at }

// WhileBlock is opened by DO and closed by WEND.
type WhileBlock struct {
	// BeginID is bound at DO and is the target of every back-edge.
	BeginID LabelID
	// RepeatID is bound at WEND, in front of the unconditional back-edge.
	RepeatID LabelID
	// EndID is bound after WEND and is the target of WHILE exits.
	EndID LabelID
	// EndErased is set when a WHILE right before WEND became the back-edge
	// itself, leaving EndID and RepeatID unused.
	EndErased bool
	// exits counts the WHILE branches to EndID.
	exits int
	at    Position
}

// Keyword implements Block.Keyword.
func (b *WhileBlock) Keyword() string { return "DO" }

// OpenedAt implements Block.OpenedAt.
func (b *WhileBlock) OpenedAt() Position { return b.at }

// blockStack holds the open blocks, innermost last.
type blockStack []Block

// NewIfBlock pushes an IfBlock with fresh labels.
func (c *Context) NewIfBlock() *IfBlock {
	b := &IfBlock{ElseID: c.NewLabel(), EndID: c.NewLabel(), at: c.pos}
	c.PushBlock(b)
	return b
}

// NewWhileBlock pushes a WhileBlock with fresh labels.
func (c *Context) NewWhileBlock() *WhileBlock {
	b := &WhileBlock{BeginID: c.NewLabel(), RepeatID: c.NewLabel(), EndID: c.NewLabel(), at: c.pos}
	c.PushBlock(b)
	return b
}

// PushBlock opens a block.
func (c *Context) PushBlock(b Block) {
	c.blocks = append(c.blocks, b)
}

// TopBlock returns the innermost open block, or nil.
func (c *Context) TopBlock() Block {
	if len(c.blocks) == 0 {
		return nil
	}
	return c.blocks[len(c.blocks)-1]
}

// PopBlock removes and returns the innermost open block, or nil on an empty stack.
func (c *Context) PopBlock() Block {
	n := len(c.blocks)
	if n == 0 {
		return nil
	}
	b := c.blocks[n-1]
	c.blocks[n-1] = nil
	c.blocks = c.blocks[:n-1]
	return b
}

// Depth returns the number of open blocks.
func (c *Context) Depth() int {
	return len(c.blocks)
}

func (c *Context) topIf() *IfBlock {
	b, _ := c.TopBlock().(*IfBlock)
	return b
}

func (c *Context) topWhile() *WhileBlock {
	b, _ := c.TopBlock().(*WhileBlock)
	return b
}
