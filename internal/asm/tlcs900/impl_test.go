package asm_tlcs900

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inufuto/asm8/experimental"
	"github.com/inufuto/asm8/internal/asm"
	"github.com/inufuto/asm8/internal/source"
)

type recorder []experimental.BranchEvent

func (r *recorder) Branch(e experimental.BranchEvent) {
	*r = append(*r, e)
}

func assemble(t *testing.T, src string) (*asm.Output, asm.ErrorList, recorder) {
	var events recorder
	target := NewTarget()
	c := asm.NewContext("test.asm", target, &events)
	source.Assemble(c, target, []byte(src))
	out, err := c.Finish()
	require.NoError(t, err)
	return out, c.Errors(), events
}

func TestStructured(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []byte
	}{
		{
			name:     "if",
			src:      "\tIF Z\n\tNOP\n\tENDIF",
			expected: []byte{0x7e, 0x01, 0x00, 0x00},
		},
		{
			name:     "test before WEND",
			src:      "\tDO\n\tNOP\n\tWHILE NZ\n\tWEND",
			expected: []byte{0x00, 0x6e, 0xfd},
		},
		{
			name: "elseif",
			src:  "\tIF C\n\tNOP\n\tELSEIF PE\n\tRET\n\tENDIF",
			expected: []byte{
				0x7f, 0x04, 0x00, // JRL NC,elseif
				0x00,             // NOP
				0x78, 0x04, 0x00, // JRL end
				0x7c, 0x01, 0x00, // elseif: JRL NOV,else
				0x0e, // RET
			},
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			out, errs, _ := assemble(t, tc.src)
			require.Empty(t, errs)
			require.Equal(t, tc.expected, out.Segments[0].Bytes())
		})
	}
}

func TestBackEdge(t *testing.T) {
	out, errs, events := assemble(t, "\tDO\n\tDS 126\n\tWEND")
	require.Empty(t, errs)
	require.Equal(t, []byte{0x68, 0x80}, out.Segments[0].Bytes()[126:])
	require.Equal(t, experimental.EncodingShort, events[0].Encoding)

	out, errs, events = assemble(t, "\tDO\n\tDS 127\n\tWEND")
	require.Empty(t, errs)
	require.Equal(t, []byte{0x78, 0x7e, 0xff}, out.Segments[0].Bytes()[127:])
	require.Equal(t, "JRL", events[0].Mnemonic)
	require.Equal(t, 3, events[0].Size)
}

func TestInstruction(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []byte
	}{
		{name: "implied", src: "\tNOP\n\tRET\n\tscf", expected: []byte{0x00, 0x0e, 0x11}},
		{name: "JP", src: "\tJP $1234\n\tCALL $1234", expected: []byte{0x1a, 0x34, 0x12, 0x1c, 0x34, 0x12}},
		{name: "24-bit", src: "\tJP24 $123456\n\tCALL24 $123456", expected: []byte{0x1b, 0x56, 0x34, 0x12, 0x1d, 0x56, 0x34, 0x12}},
		{name: "CALR", src: "L:\tCALR L", expected: []byte{0x1e, 0xfd, 0xff}},
		{name: "LD", src: "\tLD A,5\n\tld l,-1", expected: []byte{0x21, 0x05, 0x27, 0xff}},
		{name: "JR forward", src: "\tJR NZ,L\n\tNOP\nL:", expected: []byte{0x6e, 0x01, 0x00}},
		{name: "JRL backward", src: "L:\tJRL L\n\tJR M,L", expected: []byte{0x78, 0xfd, 0xff, 0x65, 0xfb}},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			out, errs, _ := assemble(t, tc.src)
			require.Empty(t, errs)
			require.Equal(t, tc.expected, out.Segments[0].Bytes())
		})
	}
}

func TestInstruction_errors(t *testing.T) {
	tests := []struct {
		name, src   string
		expectedErr string
	}{
		{name: "JR out of range", src: "\tJR L\n\tDS 200\nL:", expectedErr: "test.asm:1: out of range: 200 not in [-128, 127]"},
		{name: "LD register", src: "\tLD XY,1", expectedErr: "test.asm:1: LD supports only r,n but has XY"},
		{name: "LD value", src: "\tLD A,256", expectedErr: "test.asm:1: out of range: 256 not in [-128, 255]"},
		{name: "unknown condition", src: "\tJR Q,0", expectedErr: "test.asm:1: unknown condition Q"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			_, errs, _ := assemble(t, tc.src)
			require.Equal(t, 1, len(errs))
			require.EqualError(t, errs[0], tc.expectedErr)
		})
	}
}

func TestConditionAliases(t *testing.T) {
	target := NewTarget()
	for alias, name := range map[string]string{"PE": "OV", "M": "MI", "PO": "NOV", "P": "PL", "EQ": "Z", "UGE": "NC"} {
		a, ok := target.Condition(alias)
		require.True(t, ok, alias)
		b, ok := target.Condition(name)
		require.True(t, ok, name)
		require.Equal(t, a, b, alias)
	}
}
