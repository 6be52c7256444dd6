// Package asm_i8086 is the Intel 8086 target.
//
// The 8086 has no Jcc with a 16-bit displacement (0F 8x came with the 386),
// so a conditional branch which may be far is a Jcc on the opposite
// condition over a near JMP.
package asm_i8086

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/inufuto/asm8/experimental"
	"github.com/inufuto/asm8/internal/asm"
	"github.com/inufuto/asm8/internal/source"
)

// Target implements source.Target for the 8086.
type Target struct{}

// NewTarget returns the 8086 target.
func NewTarget() *Target {
	return &Target{}
}

// Name implements source.Target.Name
func (*Target) Name() string {
	return "8086"
}

// ByteOrder implements source.Target.ByteOrder
func (*Target) ByteOrder() binary.ByteOrder {
	return binary.LittleEndian
}

// Condition implements source.Target.Condition
func (*Target) Condition(name string) (asm.Condition, bool) {
	cond, ok := conditions[name]
	if !ok {
		return CondE, false
	}
	return cond, true
}

// InRange implements asm.BranchEmitter.InRange
func (*Target) InRange(offset int64) bool {
	return asm.FitsSigned8(offset)
}

const (
	// shortJumpLen is the size of Jcc rel8 and JMP rel8.
	shortJumpLen = 2
	// nearJumpLen is the size of JMP rel16 and CALL rel16.
	nearJumpLen = 3
)

// relativeJumpOpcode is a jump with its rel8 opcode. long is the rel16
// opcode, nil when the jump has none and needs a trampoline.
type relativeJumpOpcode struct {
	name  string
	cond  asm.Condition
	short byte
	long  []byte
}

func conditionalOpcode(cond asm.Condition) relativeJumpOpcode {
	return relativeJumpOpcode{name: "J" + conditionNames[cond], cond: cond, short: opJcc | byte(cond)}
}

var jmpOpcode = relativeJumpOpcode{name: "JMP", short: opJMPShort, long: []byte{opJMPNear}}

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
	t.jump(c, jmpOpcode, target)
}

func (t *Target) jump(c *asm.Context, op relativeJumpOpcode, target asm.Address) {
	site := c.PC()
	if offset, ok := c.ShortOffset(target, shortJumpLen); ok {
		c.EmitBytes(op.short, byte(offset))
		c.Branch(site, op.name, target, experimental.EncodingShort)
		return
	}
	if op.long != nil {
		c.EmitBytes(op.long...)
		c.EmitRelative(target, 2, binary.LittleEndian, site+int64(len(op.long))+2)
		c.Branch(site, op.name+" NEAR", target, experimental.EncodingLong)
		return
	}
	// The skipped JMP rel16 is always nearJumpLen bytes.
	c.EmitBytes(opJcc|byte(negate(op.cond)), nearJumpLen)
	c.EmitByte(opJMPNear)
	c.EmitRelative(target, 2, binary.LittleEndian, site+shortJumpLen+nearJumpLen)
	c.Branch(site, "J"+conditionNames[negate(op.cond)]+"; JMP", target, experimental.EncodingTrampoline)
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
	if op, ok := registerOpcodes[m]; ok {
		if err := s.ExpectOperands(1); err != nil {
			return true, err
		}
		r, ok := registers16[s.Operands[0].Keyword()]
		if !ok {
			return true, fmt.Errorf("%s expects a 16-bit register but has %s", m, s.Operands[0].Text)
		}
		c.EmitByte(op + r)
		return true, nil
	}
	switch m {
	case "JMP":
		target, err := t.operand(s)
		if err != nil {
			return true, err
		}
		t.jump(c, jmpOpcode, target)
		return true, nil
	case "CALL":
		target, err := t.operand(s)
		if err != nil {
			return true, err
		}
		site := c.PC()
		c.EmitByte(opCALLNear)
		c.EmitRelative(target, 2, binary.LittleEndian, site+nearJumpLen)
		return true, nil
	case "LOOP", "JCXZ":
		target, err := t.operand(s)
		if err != nil {
			return true, err
		}
		op := byte(opLOOP)
		if m == "JCXZ" {
			op = opJCXZ
		}
		t.explicitShort(c, m, op, target)
		return true, nil
	case "MOV", "CMP":
		return true, t.registerImmediate(c, s)
	}
	if strings.HasPrefix(m, "J") {
		if cond, ok := conditions[m[1:]]; ok {
			target, err := t.operand(s)
			if err != nil {
				return true, err
			}
			t.explicitShort(c, m, opJcc|byte(cond), target)
			return true, nil
		}
	}
	return false, nil
}

func (t *Target) operand(s *source.Statement) (asm.Address, error) {
	if err := s.ExpectOperands(1); err != nil {
		return nil, err
	}
	return s.EvalTarget(s.Operands[0]), nil
}

// explicitShort emits a jump which only has the rel8 form.
func (t *Target) explicitShort(c *asm.Context, name string, op byte, target asm.Address) {
	site := c.PC()
	c.EmitByte(op)
	c.EmitRelative(target, 1, nil, site+shortJumpLen)
	c.Branch(site, name, target, experimental.EncodingShort)
}

// registerImmediate handles MOV r,imm and CMP AL/AX,imm.
func (t *Target) registerImmediate(c *asm.Context, s *source.Statement) error {
	if err := s.ExpectOperands(2); err != nil {
		return err
	}
	reg := s.Operands[0].Keyword()
	var op byte
	var wide bool
	if s.Mnemonic == "CMP" {
		switch reg {
		case "AL":
			op = opCMPAL
		case "AX":
			op, wide = opCMPAX, true
		default:
			return fmt.Errorf("CMP supports only AL or AX with an immediate but has %s", s.Operands[0].Text)
		}
	} else if r, ok := registers8[reg]; ok {
		op = opMOV8 + r
	} else if r, ok := registers16[reg]; ok {
		op, wide = opMOV16+r, true
	} else {
		return fmt.Errorf("MOV expects a register but has %s", s.Operands[0].Text)
	}

	v := s.Eval(s.Operands[1])
	c.EmitByte(op)
	if wide {
		c.EmitWord(v, binary.LittleEndian)
	} else {
		c.EmitField(v, asm.AbsoluteField(1, nil))
	}
	return nil
}
