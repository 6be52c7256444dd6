package asm_sc62015

import (
	"encoding/binary"

	"github.com/inufuto/asm8/internal/asm"
)

// SC62015 condition codes. A condition and its complement differ in bit 0.
const (
	CondZ  asm.Condition = iota // zero
	CondNZ                      // not zero
	CondC                       // carry
	CondNC                      // no carry
)

var conditions = map[string]asm.Condition{
	"Z":  CondZ,
	"NZ": CondNZ,
	"C":  CondC,
	"NC": CondNC,
}

var conditionNames = [...]string{CondZ: "Z", CondNZ: "NZ", CondC: "C", CondNC: "NC"}

func negate(cond asm.Condition) asm.Condition {
	return cond ^ 1
}

const (
	opJP    = 0x02
	opJPF   = 0x03
	opCALL  = 0x04
	opCALLF = 0x05
	opMVA   = 0x08
	// opJR is JR +n, opJR+1 is JR -n.
	opJR = 0x12
	// opJPcc is JPZ mn; the other conditions follow in condition order.
	opJPcc = 0x14
	// opJRcc is JRZ +n, opJRcc+1 is JRZ -n; the other conditions follow in
	// pairs.
	opJRcc = 0x18
)

// pageField is the 16-bit operand of JP and JPcc: the low half of a 20-bit
// address, the bank being the one of the instruction.
var pageField = asm.Field{Width: 2, Order: binary.LittleEndian, Max: 0xfffff}

var implied = map[string]byte{
	"NOP":   0x00,
	"RETI":  0x01,
	"RET":   0x06,
	"RETF":  0x07,
	"SC":    0x97,
	"RC":    0x9f,
	"TCL":   0xce,
	"HALT":  0xde,
	"OFF":   0xdf,
	"WAIT":  0xef,
	"IR":    0xfe,
	"RESET": 0xff,
}
