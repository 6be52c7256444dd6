package asm_mc6809

import "github.com/inufuto/asm8/internal/asm"

// 6809 condition codes: the low nibble of the Bcc opcode. A condition and its
// complement differ in bit 0.
// https://www.maddes.net/m6809pm/sections.htm#sec4
const (
	CondHI asm.Condition = 0x2 + iota // C | Z clear, unsigned >
	CondLS                            // C | Z set, unsigned <=
	CondCC                            // C clear, unsigned >=
	CondCS                            // C set, unsigned <
	CondNE                            // Z clear
	CondEQ                            // Z set
	CondVC                            // V clear
	CondVS                            // V set
	CondPL                            // N clear
	CondMI                            // N set
	CondGE                            // N ^ V clear, signed >=
	CondLT                            // N ^ V set, signed <
	CondGT                            // Z | (N ^ V) clear, signed >
	CondLE                            // Z | (N ^ V) set, signed <=
)

var conditions = map[string]asm.Condition{
	"HI": CondHI,
	"LS": CondLS,
	"CC": CondCC,
	"HS": CondCC,
	"NC": CondCC,
	"CS": CondCS,
	"LO": CondCS,
	"C":  CondCS,
	"NE": CondNE,
	"NZ": CondNE,
	"EQ": CondEQ,
	"Z":  CondEQ,
	"VC": CondVC,
	"VS": CondVS,
	"PL": CondPL,
	"MI": CondMI,
	"GE": CondGE,
	"LT": CondLT,
	"GT": CondGT,
	"LE": CondLE,
}

// conditionNames is indexed by condition, used to name Bcc instructions.
var conditionNames = [...]string{
	CondHI: "HI", CondLS: "LS", CondCC: "CC", CondCS: "CS",
	CondNE: "NE", CondEQ: "EQ", CondVC: "VC", CondVS: "VS",
	CondPL: "PL", CondMI: "MI", CondGE: "GE", CondLT: "LT",
	CondGT: "GT", CondLE: "LE",
}

func negate(cond asm.Condition) asm.Condition {
	return cond ^ 1
}

const (
	opBRA   = 0x20
	opLBRA  = 0x16
	opBSR   = 0x8d
	opLBSR  = 0x17
	opPage2 = 0x10
)

// inherent lists the instructions without operand.
var inherent = map[string]byte{
	"NOP":  0x12,
	"SYNC": 0x13,
	"DAA":  0x19,
	"SEX":  0x1d,
	"RTS":  0x39,
	"ABX":  0x3a,
	"RTI":  0x3b,
	"MUL":  0x3d,
	"SWI":  0x3f,
	"NEGA": 0x40,
	"COMA": 0x43,
	"LSRA": 0x44,
	"RORA": 0x46,
	"ASRA": 0x47,
	"ASLA": 0x48,
	"LSLA": 0x48,
	"ROLA": 0x49,
	"DECA": 0x4a,
	"INCA": 0x4c,
	"TSTA": 0x4d,
	"CLRA": 0x4f,
	"NEGB": 0x50,
	"COMB": 0x53,
	"LSRB": 0x54,
	"RORB": 0x56,
	"ASRB": 0x57,
	"ASLB": 0x58,
	"LSLB": 0x58,
	"ROLB": 0x59,
	"DECB": 0x5a,
	"INCB": 0x5c,
	"TSTB": 0x5d,
	"CLRB": 0x5f,
}

// accumulator lists the instructions taking an 8-bit immediate or an
// extended address. The extended opcode is the immediate one plus 0x30.
var accumulator = map[string]byte{
	"SUBA": 0x80,
	"CMPA": 0x81,
	"SBCA": 0x82,
	"ANDA": 0x84,
	"BITA": 0x85,
	"LDA":  0x86,
	"EORA": 0x88,
	"ADCA": 0x89,
	"ORA":  0x8a,
	"ADDA": 0x8b,
	"SUBB": 0xc0,
	"CMPB": 0xc1,
	"SBCB": 0xc2,
	"ANDB": 0xc4,
	"BITB": 0xc5,
	"LDB":  0xc6,
	"EORB": 0xc8,
	"ADCB": 0xc9,
	"ORB":  0xca,
	"ADDB": 0xcb,
}

// word lists the instructions taking a 16-bit immediate or an extended
// address, with the same +0x30 rule.
var word = map[string]byte{
	"CMPX": 0x8c,
	"LDX":  0x8e,
	"LDD":  0xcc,
	"LDU":  0xce,
	"ADDD": 0xc3,
	"SUBD": 0x83,
}

// extended lists the instructions taking only an extended address.
var extended = map[string]byte{
	"STA": 0xb7,
	"STB": 0xf7,
	"STD": 0xfd,
	"STX": 0xbf,
	"STU": 0xff,
	"JMP": 0x7e,
	"JSR": 0xbd,
	"CLR": 0x7f,
	"INC": 0x7c,
	"DEC": 0x7a,
	"TST": 0x7d,
}
