// Package asm_sm8521 is the Sharp SM8521 target.
package asm_sm8521

import (
	"encoding/binary"
	"fmt"

	"github.com/inufuto/asm8/experimental"
	"github.com/inufuto/asm8/internal/asm"
	"github.com/inufuto/asm8/internal/source"
)

// Target implements source.Target for the SM8521.
type Target struct{}

// NewTarget returns the SM8521 target.
func NewTarget() *Target {
	return &Target{}
}

// Name implements source.Target.Name
func (*Target) Name() string {
	return "SM8521"
}

// ByteOrder implements source.Target.ByteOrder
func (*Target) ByteOrder() binary.ByteOrder {
	return binary.BigEndian
}

// Condition implements source.Target.Condition
func (*Target) Condition(name string) (asm.Condition, bool) {
	cond, ok := conditions[name]
	if !ok {
		return CondZ, false
	}
	return cond, true
}

// InRange implements asm.BranchEmitter.InRange
func (*Target) InRange(offset int64) bool {
	return asm.FitsSigned8(offset)
}

func mnemonic(op string, cond asm.Condition) string {
	if cond == CondT {
		return op
	}
	return op + " " + conditionNames[cond]
}

// ConditionalBranch implements asm.BranchEmitter.ConditionalBranch
func (t *Target) ConditionalBranch(c *asm.Context, cond asm.Condition, target asm.Address) {
	t.jump(c, cond, target)
}

// NegatedConditionalBranch implements asm.BranchEmitter.NegatedConditionalBranch
func (t *Target) NegatedConditionalBranch(c *asm.Context, cond asm.Condition, target asm.Address) {
	t.jump(c, negate(cond), target)
}

// UnconditionalBranch implements asm.BranchEmitter.UnconditionalBranch
func (t *Target) UnconditionalBranch(c *asm.Context, target asm.Address) {
	t.jump(c, CondT, target)
}

// jump uses BR when the target is known and close, JMP otherwise. Every
// condition exists for both, so no trampoline is needed.
func (t *Target) jump(c *asm.Context, cond asm.Condition, target asm.Address) {
	site := c.PC()
	if offset, ok := c.ShortOffset(target, brLen); ok {
		c.EmitBytes(opBR|byte(cond), byte(offset))
		c.Branch(site, mnemonic("BR", cond), target, experimental.EncodingShort)
		return
	}
	c.EmitByte(opJMP | byte(cond))
	c.EmitWord(target, binary.BigEndian)
	c.Branch(site, mnemonic("JMP", cond), target, experimental.EncodingLong)
}

// Instruction implements source.Target.Instruction
func (t *Target) Instruction(c *asm.Context, s *source.Statement) (bool, error) {
	switch m := s.Mnemonic; m {
	case "BR", "JMP":
		cond, target, err := t.jumpOperands(s)
		if err != nil {
			return true, err
		}
		site := c.PC()
		if m == "BR" {
			c.EmitByte(opBR | byte(cond))
			c.EmitRelative(target, 1, nil, site+brLen)
			c.Branch(site, mnemonic(m, cond), target, experimental.EncodingShort)
		} else {
			c.EmitByte(opJMP | byte(cond))
			c.EmitWord(target, binary.BigEndian)
		}
		return true, nil
	default:
		op, ok := implied[m]
		if !ok {
			return false, nil
		}
		if err := s.ExpectOperands(0); err != nil {
			return true, err
		}
		c.EmitByte(op)
		return true, nil
	}
}

// jumpOperands parses "target" or "cc,target".
func (t *Target) jumpOperands(s *source.Statement) (cond asm.Condition, target asm.Address, err error) {
	cond = CondT
	operands := s.Operands
	switch len(operands) {
	case 1:
	case 2:
		var ok bool
		if cond, ok = conditions[operands[0].Keyword()]; !ok {
			return 0, nil, fmt.Errorf("unknown condition %s", operands[0].Text)
		}
		operands = operands[1:]
	default:
		return 0, nil, fmt.Errorf("%s expects 1 or 2 operands but has %d", s.Mnemonic, len(operands))
	}
	target = s.EvalTarget(operands[0])
	return
}
