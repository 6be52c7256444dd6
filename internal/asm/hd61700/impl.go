// Package asm_hd61700 is the Hitachi HD61700 target.
//
// The displacement of JR is a sign bit and a 7-bit magnitude, measured from
// the address of the displacement byte itself rather than from the next
// instruction.
package asm_hd61700

import (
	"encoding/binary"
	"fmt"

	"github.com/inufuto/asm8/experimental"
	"github.com/inufuto/asm8/internal/asm"
	"github.com/inufuto/asm8/internal/source"
)

// Target implements source.Target for the HD61700.
type Target struct{}

// NewTarget returns the HD61700 target.
func NewTarget() *Target {
	return &Target{}
}

// Name implements source.Target.Name
func (*Target) Name() string {
	return "HD61700"
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
	return -0x7f <= offset && offset <= 0x7f
}

// displacementBase is the distance from the JR opcode to the byte offsets
// are measured from.
const displacementBase = 1

// displacement encodes an offset which is InRange.
func displacement(offset int64) byte {
	if offset < 0 {
		return 0x80 | byte(-offset)
	}
	return byte(offset)
}

func mnemonic(op string, cond asm.Condition) string {
	if cond == condAlways {
		return op
	}
	return op + " " + conditionNames[cond]
}

// ConditionalBranch implements asm.BranchEmitter.ConditionalBranch
func (t *Target) ConditionalBranch(c *asm.Context, cond asm.Condition, target asm.Address) {
	t.jump(c, cond, target)
}

// NegatedConditionalBranch implements asm.BranchEmitter.NegatedConditionalBranch
//
// UZ has no complement, so the branch is a JR UZ over a JP to the target.
func (t *Target) NegatedConditionalBranch(c *asm.Context, cond asm.Condition, target asm.Address) {
	if negated, ok := complement(cond); ok {
		t.jump(c, negated, target)
		return
	}
	site := c.PC()
	c.EmitBytes(opJR|byte(cond), displacement(jpLen+displacementBase))
	c.EmitByte(opJP | byte(condAlways))
	c.EmitWord(target, binary.LittleEndian)
	c.Branch(site, "JR "+conditionNames[cond]+"; JP", target, experimental.EncodingTrampoline)
}

// UnconditionalBranch implements asm.BranchEmitter.UnconditionalBranch
func (t *Target) UnconditionalBranch(c *asm.Context, target asm.Address) {
	t.jump(c, condAlways, target)
}

func (t *Target) jump(c *asm.Context, cond asm.Condition, target asm.Address) {
	site := c.PC()
	if offset, ok := c.ShortOffset(target, displacementBase); ok {
		c.EmitBytes(opJR|byte(cond), displacement(offset))
		c.Branch(site, mnemonic("JR", cond), target, experimental.EncodingShort)
		return
	}
	c.EmitByte(opJP | byte(cond))
	c.EmitWord(target, binary.LittleEndian)
	c.Branch(site, mnemonic("JP", cond), target, experimental.EncodingLong)
}

// Instruction implements source.Target.Instruction
func (t *Target) Instruction(c *asm.Context, s *source.Statement) (bool, error) {
	switch m := s.Mnemonic; m {
	case "JP", "JR":
		cond, target, err := t.jumpOperands(s)
		if err != nil {
			return true, err
		}
		if m == "JP" {
			c.EmitByte(opJP | byte(cond))
			c.EmitWord(target, binary.LittleEndian)
			return true, nil
		}
		return true, t.explicitJR(c, cond, target)
	case "CAL":
		if err := s.ExpectOperands(1); err != nil {
			return true, err
		}
		target := s.EvalTarget(s.Operands[0])
		c.EmitByte(opCAL)
		c.EmitWord(target, binary.LittleEndian)
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
	cond = condAlways
	operands := s.Operands
	switch len(operands) {
	case 1:
	case 2:
		name := operands[0].Keyword()
		var ok bool
		if cond, ok = conditions[name]; !ok {
			return 0, nil, fmt.Errorf("unknown condition %s", operands[0].Text)
		}
		operands = operands[1:]
	default:
		return 0, nil, fmt.Errorf("%s expects 1 or 2 operands but has %d", s.Mnemonic, len(operands))
	}
	target = s.EvalTarget(operands[0])
	return
}

// explicitJR emits a JR to target. A forward target can only be patched with
// a positive offset, so its field is bounded to the positive half.
func (t *Target) explicitJR(c *asm.Context, cond asm.Condition, target asm.Address) error {
	site := c.PC()
	c.EmitByte(opJR | byte(cond))
	defer c.Branch(site, mnemonic("JR", cond), target, experimental.EncodingShort)
	if _, ok := target.(asm.Pending); ok {
		c.EmitField(target, asm.Field{Width: 1, Relative: true, From: site + displacementBase, Max: 0x7f})
		return nil
	}
	// The location counter is now at the displacement byte.
	offset, err := c.RelativeOffset(target, 0)
	if err != nil {
		c.EmitByte(0)
		return err
	}
	if !t.InRange(offset) {
		c.EmitByte(0)
		return fmt.Errorf("%w: JR displacement %d", asm.ErrOutOfRange, offset)
	}
	c.EmitByte(displacement(offset))
	return nil
}
