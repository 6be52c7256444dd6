package asm_sm8521

import "github.com/inufuto/asm8/internal/asm"

// SM8521 condition codes, the low nibble of the BR and JMP opcodes. A
// condition and its complement differ in bit 3.
const (
	CondF   asm.Condition = iota // never
	CondLT                       // signed <
	CondLE                       // signed <=
	CondULE                      // unsigned <=
	CondOV                       // overflow
	CondMI                       // minus
	CondZ                        // zero, equal
	CondC                        // carry, unsigned <
	CondT                        // always
	CondGE                       // signed >=
	CondGT                       // signed >
	CondUGT                      // unsigned >
	CondNOV                      // no overflow
	CondPL                       // plus
	CondNZ                       // not zero, not equal
	CondNC                       // no carry, unsigned >=
)

var conditions = map[string]asm.Condition{
	"LT":  CondLT,
	"LE":  CondLE,
	"ULE": CondULE,
	"OV":  CondOV,
	"MI":  CondMI,
	"Z":   CondZ,
	"EQ":  CondZ,
	"C":   CondC,
	"ULT": CondC,
	"GE":  CondGE,
	"GT":  CondGT,
	"UGT": CondUGT,
	"NOV": CondNOV,
	"PL":  CondPL,
	"NZ":  CondNZ,
	"NE":  CondNZ,
	"NC":  CondNC,
	"UGE": CondNC,
}

var conditionNames = [...]string{
	CondF: "F", CondLT: "LT", CondLE: "LE", CondULE: "ULE",
	CondOV: "OV", CondMI: "MI", CondZ: "Z", CondC: "C",
	CondT: "T", CondGE: "GE", CondGT: "GT", CondUGT: "UGT",
	CondNOV: "NOV", CondPL: "PL", CondNZ: "NZ", CondNC: "NC",
}

func negate(cond asm.Condition) asm.Condition {
	return cond ^ 8
}

const (
	// opJMP is JMP cc,mm; the unconditional JMP mm uses CondT.
	opJMP = 0xc0
	// opBR is BR cc,rr; the unconditional BR rr uses CondT.
	opBR = 0xd0
	// brLen is the size of BR, the point displacements are measured from.
	brLen = 2
)

var implied = map[string]byte{
	"RET":  0xf8,
	"IRET": 0xf9,
	"CLRC": 0xfa,
	"COMC": 0xfb,
	"SETC": 0xfc,
	"EI":   0xfd,
	"DI":   0xfe,
	"NOP":  0xff,
}
