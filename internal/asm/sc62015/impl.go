// Package asm_sc62015 is the Sharp SC62015 (ESR-L) target.
//
// A relative jump holds an unsigned magnitude; the direction is part of the
// opcode, so the short range is symmetric.
package asm_sc62015

import (
	"encoding/binary"
	"fmt"

	"github.com/inufuto/asm8/experimental"
	"github.com/inufuto/asm8/internal/asm"
	"github.com/inufuto/asm8/internal/source"
)

// Target implements source.Target for the SC62015.
type Target struct{}

// NewTarget returns the SC62015 target.
func NewTarget() *Target {
	return &Target{}
}

// Name implements source.Target.Name
func (*Target) Name() string {
	return "SC62015"
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
//
// The magnitude is one byte, so 0x100 in either direction is out of range.
func (*Target) InRange(offset int64) bool {
	return -0xff <= offset && offset <= 0xff
}

// jrLen is the size of every JR, the point offsets are measured from.
const jrLen = 2

// jumpOpcode is one jump with and without a condition.
type jumpOpcode struct {
	name string
	// jr is the forward JR, jr+1 the backward one.
	jr, jp byte
}

func conditionalOpcode(cond asm.Condition) jumpOpcode {
	return jumpOpcode{
		name: conditionNames[cond],
		jr:   opJRcc + 2*byte(cond),
		jp:   opJPcc + byte(cond),
	}
}

var unconditionalOpcode = jumpOpcode{jr: opJR, jp: opJP}

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
	t.jump(c, unconditionalOpcode, target)
}

func (t *Target) jump(c *asm.Context, op jumpOpcode, target asm.Address) {
	site := c.PC()
	if offset, ok := c.ShortOffset(target, jrLen); ok {
		t.emitJR(c, op, offset)
		c.Branch(site, "JR"+op.name, target, experimental.EncodingShort)
		return
	}
	c.EmitByte(op.jp)
	c.EmitField(target, pageField)
	c.Branch(site, "JP"+op.name, target, experimental.EncodingLong)
}

func (t *Target) emitJR(c *asm.Context, op jumpOpcode, offset int64) {
	if offset < 0 {
		c.EmitBytes(op.jr+1, byte(-offset))
	} else {
		c.EmitBytes(op.jr, byte(offset))
	}
}

// jumpMnemonic splits JR, JP and their conditional forms, ex. JRNZ.
func jumpMnemonic(m string) (op jumpOpcode, relative, ok bool) {
	if len(m) < 2 || m[0] != 'J' || (m[1] != 'R' && m[1] != 'P') {
		return
	}
	relative = m[1] == 'R'
	if len(m) == 2 {
		return unconditionalOpcode, relative, true
	}
	cond, found := conditions[m[2:]]
	if !found {
		return
	}
	return conditionalOpcode(cond), relative, true
}

// Instruction implements source.Target.Instruction
func (t *Target) Instruction(c *asm.Context, s *source.Statement) (bool, error) {
	m := s.Mnemonic
	if op, ok := implied[m]; ok {
		if err := s.ExpectOperands(0); err != nil {
			return true, err
		}
		c.EmitByte(op)
		return true, nil
	}
	if op, relative, ok := jumpMnemonic(m); ok {
		target, err := t.operand(s)
		if err != nil {
			return true, err
		}
		if relative {
			return true, t.explicitJR(c, op, target)
		}
		c.EmitByte(op.jp)
		c.EmitField(target, pageField)
		return true, nil
	}
	switch m {
	case "JPF", "CALL", "CALLF":
		target, err := t.operand(s)
		if err != nil {
			return true, err
		}
		switch m {
		case "JPF":
			c.EmitByte(opJPF)
			c.EmitTripleByte(target, binary.LittleEndian)
		case "CALL":
			c.EmitByte(opCALL)
			c.EmitField(target, pageField)
		default:
			c.EmitByte(opCALLF)
			c.EmitTripleByte(target, binary.LittleEndian)
		}
		return true, nil
	case "MV":
		if err := s.ExpectOperands(2); err != nil {
			return true, err
		}
		if s.Operands[0].Keyword() != "A" {
			return true, fmt.Errorf("MV supports only A,n but has %s", s.Operands[0].Text)
		}
		v := s.Eval(s.Operands[1])
		c.EmitByte(opMVA)
		c.EmitField(v, asm.AbsoluteField(1, nil))
		return true, nil
	}
	return false, nil
}

func (t *Target) operand(s *source.Statement) (asm.Address, error) {
	if err := s.ExpectOperands(1); err != nil {
		return nil, err
	}
	return s.EvalTarget(s.Operands[0]), nil
}

// explicitJR emits the JR the programmer wrote. A forward target is always
// ahead, so it takes the forward opcode with an unsigned field.
func (t *Target) explicitJR(c *asm.Context, op jumpOpcode, target asm.Address) error {
	site := c.PC()
	defer c.Branch(site, "JR"+op.name, target, experimental.EncodingShort)
	if _, ok := target.(asm.Pending); ok {
		c.EmitByte(op.jr)
		c.EmitField(target, asm.Field{Width: 1, Relative: true, From: site + jrLen, Max: 0xff})
		return nil
	}
	offset, err := c.RelativeOffset(target, jrLen)
	if err != nil {
		c.EmitBytes(op.jr, 0)
		return err
	}
	if !t.InRange(offset) {
		c.EmitBytes(op.jr, 0)
		return fmt.Errorf("%w: JR displacement %d", asm.ErrOutOfRange, offset)
	}
	t.emitJR(c, op, offset)
	return nil
}
