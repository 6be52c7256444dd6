// Package asm_tlcs900 is the Toshiba TLCS-900 target.
package asm_tlcs900

import (
	"encoding/binary"
	"fmt"

	"github.com/inufuto/asm8/experimental"
	"github.com/inufuto/asm8/internal/asm"
	"github.com/inufuto/asm8/internal/source"
)

// Target implements source.Target for the TLCS-900.
type Target struct{}

// NewTarget returns the TLCS-900 target.
func NewTarget() *Target {
	return &Target{}
}

// Name implements source.Target.Name
func (*Target) Name() string {
	return "TLCS900"
}

// ByteOrder implements source.Target.ByteOrder
func (*Target) ByteOrder() binary.ByteOrder {
	return binary.LittleEndian
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

const (
	jrLen  = 2
	jrlLen = 3
)

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

// jump uses JR when the target is known and close, JRL otherwise.
func (t *Target) jump(c *asm.Context, cond asm.Condition, target asm.Address) {
	site := c.PC()
	if offset, ok := c.ShortOffset(target, jrLen); ok {
		c.EmitBytes(opJR|byte(cond), byte(offset))
		c.Branch(site, mnemonic("JR", cond), target, experimental.EncodingShort)
		return
	}
	c.EmitByte(opJRL | byte(cond))
	c.EmitRelative(target, 2, binary.LittleEndian, site+jrlLen)
	c.Branch(site, mnemonic("JRL", cond), target, experimental.EncodingLong)
}

// Instruction implements source.Target.Instruction
func (t *Target) Instruction(c *asm.Context, s *source.Statement) (bool, error) {
	switch m := s.Mnemonic; m {
	case "JR", "JRL":
		cond, target, err := t.jumpOperands(s)
		if err != nil {
			return true, err
		}
		site := c.PC()
		if m == "JR" {
			c.EmitByte(opJR | byte(cond))
			c.EmitRelative(target, 1, nil, site+jrLen)
			c.Branch(site, mnemonic(m, cond), target, experimental.EncodingShort)
		} else {
			c.EmitByte(opJRL | byte(cond))
			c.EmitRelative(target, 2, binary.LittleEndian, site+jrlLen)
			c.Branch(site, mnemonic(m, cond), target, experimental.EncodingLong)
		}
		return true, nil
	case "JP", "CALL", "CALR":
		if err := s.ExpectOperands(1); err != nil {
			return true, err
		}
		target := s.EvalTarget(s.Operands[0])
		switch m {
		case "JP":
			c.EmitByte(opJP16)
			c.EmitWord(target, binary.LittleEndian)
		case "CALL":
			c.EmitByte(opCALL)
			c.EmitWord(target, binary.LittleEndian)
		default:
			site := c.PC()
			c.EmitByte(opCALR)
			c.EmitRelative(target, 2, binary.LittleEndian, site+jrlLen)
		}
		return true, nil
	case "JP24", "CALL24":
		if err := s.ExpectOperands(1); err != nil {
			return true, err
		}
		target := s.EvalTarget(s.Operands[0])
		if m == "JP24" {
			c.EmitByte(opJP24)
		} else {
			c.EmitByte(opCALL24)
		}
		c.EmitTripleByte(target, binary.LittleEndian)
		return true, nil
	case "LD":
		if err := s.ExpectOperands(2); err != nil {
			return true, err
		}
		r, ok := registers8[s.Operands[0].Keyword()]
		if !ok {
			return true, fmt.Errorf("LD supports only r,n but has %s", s.Operands[0].Text)
		}
		v := s.Eval(s.Operands[1])
		c.EmitByte(opLDn | r)
		c.EmitField(v, asm.AbsoluteField(1, nil))
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
