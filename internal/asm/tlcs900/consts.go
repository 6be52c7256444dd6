package asm_tlcs900

import "github.com/inufuto/asm8/internal/asm"

// TLCS-900 condition codes, the low nibble of the JR and JRL opcodes. A
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
	"PE":  CondOV,
	"MI":  CondMI,
	"M":   CondMI,
	"Z":   CondZ,
	"EQ":  CondZ,
	"C":   CondC,
	"ULT": CondC,
	"GE":  CondGE,
	"GT":  CondGT,
	"UGT": CondUGT,
	"NOV": CondNOV,
	"PO":  CondNOV,
	"PL":  CondPL,
	"P":   CondPL,
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
	// opJR is JR cc,d8; the unconditional JR d8 uses CondT.
	opJR = 0x60
	// opJRL is JRL cc,d16; the unconditional JRL d16 uses CondT.
	opJRL    = 0x70
	opJP16   = 0x1a
	opJP24   = 0x1b
	opCALL   = 0x1c
	opCALL24 = 0x1d
	opCALR   = 0x1e
	// opLDn is LD r,n with the register number in the low three bits.
	opLDn = 0x20
)

// registers8 are the numbers of the 8-bit registers in the current bank.
var registers8 = map[string]byte{"W": 0, "A": 1, "B": 2, "C": 3, "D": 4, "E": 5, "H": 6, "L": 7}

var implied = map[string]byte{
	"NOP":    0x00,
	"NORMAL": 0x01,
	"PUSHSR": 0x02,
	"POPSR":  0x03,
	"MAX":    0x04,
	"HALT":   0x05,
	"RETI":   0x07,
	"RET":    0x0e,
	"RCF":    0x10,
	"SCF":    0x11,
	"CCF":    0x12,
	"ZCF":    0x13,
}
