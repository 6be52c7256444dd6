package asm

import (
	"encoding/binary"

	"github.com/inufuto/asm8/experimental"
)

// testEmitter is a CPU with two byte short branches (opcode 0x20|cond and a
// signed 8-bit displacement from the next instruction) and three byte
// absolute jumps (opcode 0x30|cond and a big endian address). A condition and
// its complement differ in bit 0.
type testEmitter struct{}

const (
	testEQ     Condition = 0
	testNE     Condition = 1
	testCS     Condition = 2
	testCC     Condition = 3
	testAlways Condition = 8

	testShort = 0x20
	testLong  = 0x30
)

func (e testEmitter) ConditionalBranch(c *Context, cond Condition, target Address) {
	e.jump(c, cond, target)
}

func (e testEmitter) NegatedConditionalBranch(c *Context, cond Condition, target Address) {
	e.jump(c, cond^1, target)
}

func (e testEmitter) UnconditionalBranch(c *Context, target Address) {
	e.jump(c, testAlways, target)
}

func (testEmitter) InRange(offset int64) bool {
	return FitsSigned8(offset)
}

func (testEmitter) jump(c *Context, cond Condition, target Address) {
	site := c.PC()
	if offset, ok := c.ShortOffset(target, 2); ok {
		c.EmitBytes(testShort|byte(cond), byte(offset))
		c.Branch(site, "B", target, experimental.EncodingShort)
		return
	}
	c.EmitByte(testLong | byte(cond))
	c.EmitWord(target, binary.BigEndian)
	c.Branch(site, "J", target, experimental.EncodingLong)
}

func newTestContext() *Context {
	return NewContext("test.asm", testEmitter{}, nil)
}

// recorder is an experimental.BranchListener keeping every event.
type recorder []experimental.BranchEvent

func (r *recorder) Branch(e experimental.BranchEvent) {
	*r = append(*r, e)
}
