package source

import (
	"encoding/binary"

	"github.com/inufuto/asm8/experimental"
	"github.com/inufuto/asm8/internal/asm"
)

// testTarget has two byte short branches (0x20|cond, rel8) and three byte
// long ones (0x30|cond, big endian address). A condition and its complement
// differ in bit 0.
type testTarget struct{}

var testConditions = map[string]asm.Condition{"EQ": 0, "NE": 1, "CS": 2, "CC": 3}

const testAlways asm.Condition = 8

func (testTarget) Name() string {
	return "TEST"
}

func (testTarget) ByteOrder() binary.ByteOrder {
	return binary.BigEndian
}

func (testTarget) Condition(name string) (asm.Condition, bool) {
	cond, ok := testConditions[name]
	return cond, ok
}

func (testTarget) InRange(offset int64) bool {
	return asm.FitsSigned8(offset)
}

func (t testTarget) ConditionalBranch(c *asm.Context, cond asm.Condition, target asm.Address) {
	t.jump(c, cond, target)
}

func (t testTarget) NegatedConditionalBranch(c *asm.Context, cond asm.Condition, target asm.Address) {
	t.jump(c, cond^1, target)
}

func (t testTarget) UnconditionalBranch(c *asm.Context, target asm.Address) {
	t.jump(c, testAlways, target)
}

func (testTarget) jump(c *asm.Context, cond asm.Condition, target asm.Address) {
	site := c.PC()
	if offset, ok := c.ShortOffset(target, 2); ok {
		c.EmitBytes(0x20|byte(cond), byte(offset))
		c.Branch(site, "B", target, experimental.EncodingShort)
		return
	}
	c.EmitByte(0x30 | byte(cond))
	c.EmitWord(target, binary.BigEndian)
	c.Branch(site, "J", target, experimental.EncodingLong)
}

// Instruction handles NOP, LD #n and JMP nn.
func (testTarget) Instruction(c *asm.Context, s *Statement) (bool, error) {
	switch s.Mnemonic {
	case "NOP":
		if err := s.ExpectOperands(0); err != nil {
			return true, err
		}
		c.EmitByte(0x12)
	case "LD", "JMP":
		if err := s.ExpectOperands(1); err != nil {
			return true, err
		}
		if s.Mnemonic == "LD" {
			v := s.Eval(s.Operands[0])
			c.EmitByte(0x86)
			c.EmitField(v, asm.AbsoluteField(1, nil))
		} else {
			target := s.EvalTarget(s.Operands[0])
			c.EmitByte(0x7e)
			c.EmitWord(target, binary.BigEndian)
		}
	default:
		return false, nil
	}
	return true, nil
}

func newTestContext() *asm.Context {
	return asm.NewContext("test.asm", testTarget{}, nil)
}
