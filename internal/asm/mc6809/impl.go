// Package asm_mc6809 is the Motorola 6809 target.
package asm_mc6809

import (
	"encoding/binary"
	"fmt"

	"github.com/inufuto/asm8/experimental"
	"github.com/inufuto/asm8/internal/asm"
	"github.com/inufuto/asm8/internal/source"
)

// Target implements source.Target for the 6809.
type Target struct{}

// NewTarget returns the 6809 target.
func NewTarget() *Target {
	return &Target{}
}

// Name implements source.Target.Name
func (*Target) Name() string {
	return "6809"
}

// ByteOrder implements source.Target.ByteOrder
func (*Target) ByteOrder() binary.ByteOrder {
	return binary.BigEndian
}

// Condition implements source.Target.Condition
func (*Target) Condition(name string) (asm.Condition, bool) {
	cond, ok := conditions[name]
	if !ok {
		return CondEQ, false
	}
	return cond, true
}

// InRange implements asm.BranchEmitter.InRange
func (*Target) InRange(offset int64) bool {
	return asm.FitsSigned8(offset)
}

// relativeJumpOpcode is the pair of encodings of one branch. The short form
// has an 8-bit displacement, the long form a 16-bit one, both measured from
// the end of the instruction.
type relativeJumpOpcode struct {
	name        string
	short, long []byte
}

func (o relativeJumpOpcode) instructionLen(short bool) int64 {
	if short {
		return int64(len(o.short)) + 1
	}
	return int64(len(o.long)) + 2
}

func conditionalOpcode(cond asm.Condition) relativeJumpOpcode {
	return relativeJumpOpcode{
		name:  "B" + conditionNames[cond],
		short: []byte{opBRA | byte(cond)},
		long:  []byte{opPage2, opBRA | byte(cond)},
	}
}

var (
	braOpcode = relativeJumpOpcode{name: "BRA", short: []byte{opBRA}, long: []byte{opLBRA}}
	bsrOpcode = relativeJumpOpcode{name: "BSR", short: []byte{opBSR}, long: []byte{opLBSR}}
)

// ConditionalBranch implements asm.BranchEmitter.ConditionalBranch
func (t *Target) ConditionalBranch(c *asm.Context, cond asm.Condition, target asm.Address) {
	t.jump(c, conditionalOpcode(cond), target)
}

// NegatedConditionalBranch implements asm.BranchEmitter.NegatedConditionalBranch
func (t *Target) NegatedConditionalBranch(c *asm.Context, cond asm.Condition, target asm.Address) {
	t.jump(c, conditionalOpcode(negate(cond)), target)
}

// UnconditionalBranch implements asm.BranchEmitter.UnconditionalBranch
func (t *Target) UnconditionalBranch(c *asm.Context, target asm.Address) {
	t.jump(c, braOpcode, target)
}

// jump emits the short form when the target is already known and close
// enough, the long form otherwise. Every Bcc has an LBcc, so there is no
// trampoline on the 6809.
func (t *Target) jump(c *asm.Context, op relativeJumpOpcode, target asm.Address) {
	site := c.PC()
	if offset, ok := c.ShortOffset(target, op.instructionLen(true)); ok {
		c.EmitBytes(op.short...)
		c.EmitByte(byte(offset))
		c.Branch(site, op.name, target, experimental.EncodingShort)
		return
	}
	c.EmitBytes(op.long...)
	c.EmitRelative(target, 2, binary.BigEndian, site+op.instructionLen(false))
	c.Branch(site, "L"+op.name, target, experimental.EncodingLong)
}

// explicitJump emits the form the programmer asked for. A displacement out
// of range is reported, immediately or when the target is bound.
func (t *Target) explicitJump(c *asm.Context, op relativeJumpOpcode, short bool, target asm.Address) {
	site := c.PC()
	end := site + op.instructionLen(short)
	if short {
		c.EmitBytes(op.short...)
		c.EmitRelative(target, 1, nil, end)
		c.Branch(site, op.name, target, experimental.EncodingShort)
		return
	}
	c.EmitBytes(op.long...)
	c.EmitRelative(target, 2, binary.BigEndian, end)
	c.Branch(site, "L"+op.name, target, experimental.EncodingLong)
}

// Instruction implements source.Target.Instruction
func (t *Target) Instruction(c *asm.Context, s *source.Statement) (bool, error) {
	m := s.Mnemonic
	if op, ok := inherent[m]; ok {
		if err := s.ExpectOperands(0); err != nil {
			return true, err
		}
		c.EmitByte(op)
		return true, nil
	}
	if op, ok := t.branchOpcode(m); ok {
		short := m[0] != 'L'
		if err := s.ExpectOperands(1); err != nil {
			return true, err
		}
		t.explicitJump(c, op, short, s.EvalTarget(s.Operands[0]))
		return true, nil
	}
	if op, ok := accumulator[m]; ok {
		return true, t.immediateOrExtended(c, s, op, 1)
	}
	if op, ok := word[m]; ok {
		return true, t.immediateOrExtended(c, s, op, 2)
	}
	if op, ok := extended[m]; ok {
		if err := s.ExpectOperands(1); err != nil {
			return true, err
		}
		if s.Operands[0].Immediate() {
			return true, fmt.Errorf("%s does not take an immediate operand", m)
		}
		target := s.EvalTarget(s.Operands[0])
		c.EmitByte(op)
		c.EmitWord(target, binary.BigEndian)
		return true, nil
	}
	return false, nil
}

// branchOpcode looks up an explicit branch mnemonic: BRA, BSR, Bcc and the
// long forms prefixed with L.
func (t *Target) branchOpcode(m string) (relativeJumpOpcode, bool) {
	base := m
	if len(m) > 1 && m[0] == 'L' && m[1] == 'B' {
		base = m[1:]
	}
	switch base {
	case "BRA":
		return braOpcode, true
	case "BSR":
		return bsrOpcode, true
	}
	if len(base) != 3 || base[0] != 'B' {
		return relativeJumpOpcode{}, false
	}
	// Aliases such as BHS and BLO are accepted too.
	if cond, ok := conditions[base[1:]]; ok {
		return conditionalOpcode(cond), true
	}
	return relativeJumpOpcode{}, false
}

func (t *Target) immediateOrExtended(c *asm.Context, s *source.Statement, op byte, width int) error {
	if err := s.ExpectOperands(1); err != nil {
		return err
	}
	o := s.Operands[0]
	v := s.Eval(o)
	if o.Immediate() {
		c.EmitByte(op)
		c.EmitField(v, asm.AbsoluteField(width, binary.BigEndian))
		return nil
	}
	c.EmitByte(op + 0x30)
	c.EmitWord(v, binary.BigEndian)
	return nil
}
