package asm_i8086

import "github.com/inufuto/asm8/internal/asm"

// 8086 condition codes, the low nibble of Jcc. A condition and its complement
// differ in bit 0.
// https://www.felixcloutier.com/x86/jcc
const (
	CondO  asm.Condition = iota // OF set
	CondNO                      // OF clear
	CondB                       // CF set, unsigned <
	CondAE                      // CF clear, unsigned >=
	CondE                       // ZF set
	CondNE                      // ZF clear
	CondBE                      // CF | ZF set, unsigned <=
	CondA                       // CF | ZF clear, unsigned >
	CondS                       // SF set
	CondNS                      // SF clear
	CondP                       // PF set
	CondNP                      // PF clear
	CondL                       // SF != OF, signed <
	CondGE                      // SF == OF, signed >=
	CondLE                      // ZF set or SF != OF, signed <=
	CondG                       // ZF clear and SF == OF, signed >
)

var conditions = map[string]asm.Condition{
	"O":   CondO,
	"NO":  CondNO,
	"B":   CondB,
	"C":   CondB,
	"NAE": CondB,
	"AE":  CondAE,
	"NB":  CondAE,
	"NC":  CondAE,
	"E":   CondE,
	"Z":   CondE,
	"NE":  CondNE,
	"NZ":  CondNE,
	"BE":  CondBE,
	"NA":  CondBE,
	"A":   CondA,
	"NBE": CondA,
	"S":   CondS,
	"NS":  CondNS,
	"P":   CondP,
	"PE":  CondP,
	"NP":  CondNP,
	"PO":  CondNP,
	"L":   CondL,
	"NGE": CondL,
	"GE":  CondGE,
	"NL":  CondGE,
	"LE":  CondLE,
	"NG":  CondLE,
	"G":   CondG,
	"NLE": CondG,
}

var conditionNames = [...]string{
	CondO: "O", CondNO: "NO", CondB: "B", CondAE: "AE",
	CondE: "E", CondNE: "NE", CondBE: "BE", CondA: "A",
	CondS: "S", CondNS: "NS", CondP: "P", CondNP: "NP",
	CondL: "L", CondGE: "GE", CondLE: "LE", CondG: "G",
}

func negate(cond asm.Condition) asm.Condition {
	return cond ^ 1
}

const (
	opJcc      = 0x70
	opJMPShort = 0xeb
	opJMPNear  = 0xe9
	opCALLNear = 0xe8
	opLOOP     = 0xe2
	opJCXZ     = 0xe3
	opINC16    = 0x40
	opDEC16    = 0x48
	opPUSH16   = 0x50
	opPOP16    = 0x58
	opMOV8     = 0xb0
	opMOV16    = 0xb8
	opCMPAL    = 0x3c
	opCMPAX    = 0x3d
)

var registers8 = map[string]byte{"AL": 0, "CL": 1, "DL": 2, "BL": 3, "AH": 4, "CH": 5, "DH": 6, "BH": 7}

var registers16 = map[string]byte{"AX": 0, "CX": 1, "DX": 2, "BX": 3, "SP": 4, "BP": 5, "SI": 6, "DI": 7}

var implied = map[string]byte{
	"CBW":   0x98,
	"CWD":   0x99,
	"PUSHF": 0x9c,
	"POPF":  0x9d,
	"NOP":   0x90,
	"RET":   0xc3,
	"RETF":  0xcb,
	"INT3":  0xcc,
	"IRET":  0xcf,
	"HLT":   0xf4,
	"CMC":   0xf5,
	"CLC":   0xf8,
	"STC":   0xf9,
	"CLI":   0xfa,
	"STI":   0xfb,
	"CLD":   0xfc,
	"STD":   0xfd,
}

// registerOpcodes lists the one byte instructions taking a 16-bit register.
var registerOpcodes = map[string]byte{
	"INC":  opINC16,
	"DEC":  opDEC16,
	"PUSH": opPUSH16,
	"POP":  opPOP16,
}
