package asm_hd61700

import "github.com/inufuto/asm8/internal/asm"

// HD61700 condition codes: the low three bits of the JP and JR opcodes.
const (
	CondZ   asm.Condition = iota // zero
	CondNC                       // no carry
	CondLZ                       // lower nibble zero
	CondUZ                       // upper nibble zero, has no complement
	CondNZ                       // not zero
	CondC                        // carry
	CondNLZ                      // lower nibble not zero
	condAlways
)

var conditions = map[string]asm.Condition{
	"Z":   CondZ,
	"NC":  CondNC,
	"LZ":  CondLZ,
	"UZ":  CondUZ,
	"NZ":  CondNZ,
	"C":   CondC,
	"NLZ": CondNLZ,
}

var conditionNames = [...]string{
	CondZ: "Z", CondNC: "NC", CondLZ: "LZ", CondUZ: "UZ",
	CondNZ: "NZ", CondC: "C", CondNLZ: "NLZ",
}

// complement returns the opposite condition. ok is false for UZ.
func complement(cond asm.Condition) (ret asm.Condition, ok bool) {
	switch cond {
	case CondUZ:
		return 0, false
	case CondZ, CondNC, CondLZ:
		return cond + 4, true
	default:
		return cond - 4, true
	}
}

const (
	// opJP is JP cc,nn; the unconditional JP nn is opJP|condAlways.
	opJP = 0x30
	// opJR is JR cc,±n; the unconditional JR ±n is opJR|condAlways.
	opJR  = 0xb0
	opCAL = 0x77
	// jpLen is the size of JP nn.
	jpLen = 3
)

var implied = map[string]byte{
	"NOP":  0xf8,
	"RTN":  0xf7,
	"CLT":  0xf9,
	"FST":  0xfa,
	"SLW":  0xfb,
	"CANI": 0xfc,
	"RTI":  0xfd,
	"OFF":  0xfe,
	"TRP":  0xff,
}
