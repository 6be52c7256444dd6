package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inufuto/asm8/internal/asm"
)

func evaluateLine(t *testing.T, c *asm.Context, line string) (asm.Address, error) {
	tokens, _, err := lexLine(line)
	require.NoError(t, err)
	return evaluate(c, c.CurrentAddress, tokens)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr     string
		expected asm.Address
	}{
		{expr: "1+2*3", expected: asm.Const{Value: 7}},
		{expr: "(1+2)*3", expected: asm.Const{Value: 9}},
		{expr: "10-4-3", expected: asm.Const{Value: 3}},
		{expr: "100/7", expected: asm.Const{Value: 14}},
		{expr: "-1", expected: asm.Const{Value: -1}},
		{expr: "~0&$ff", expected: asm.Const{Value: 0xff}},
		{expr: "+5", expected: asm.Const{Value: 5}},
		{expr: "1<<8|2", expected: asm.Const{Value: 0x102}},
		{expr: "$1234>>8", expected: asm.Const{Value: 0x12}},
		{expr: "$f0^$ff", expected: asm.Const{Value: 0x0f}},
		{expr: "'A'+1", expected: asm.Const{Value: 'B'}},
		{expr: "SIZE*2", expected: asm.Const{Value: 0x40}},
		{expr: "$", expected: asm.InSegment{Offset: 0x10}},
		{expr: "*+2", expected: asm.InSegment{Offset: 0x12}},
		{expr: "2+$", expected: asm.InSegment{Offset: 0x12}},
		{expr: "$-START", expected: asm.Const{Value: 0x10}},
		{expr: "START+1", expected: asm.InSegment{Offset: 1}},
		{expr: "PUTC", expected: asm.External{Name: "PUTC"}},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.expr, func(t *testing.T) {
			c := newTestContext()
			c.DefineSymbol("START")
			c.DefineConstant("SIZE", asm.Const{Value: 0x20})
			c.DefineConstant("PUTC", asm.External{Name: "PUTC"})
			c.Reserve(0x10)

			actual, err := evaluateLine(t, c, tc.expr)
			require.NoError(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestEvaluate_forwardReference(t *testing.T) {
	c := newTestContext()
	v, err := evaluateLine(t, c, "LATER+1")
	require.NoError(t, err)
	p, ok := v.(asm.Pending)
	require.True(t, ok)
	require.Equal(t, int64(1), p.Addend)

	v, err = evaluateLine(t, c, "LATER-2")
	require.NoError(t, err)
	require.Equal(t, asm.Pending{Label: p.Label, Addend: -2}, v)

	c.Reserve(4)
	v, err = evaluateLine(t, c, "LATER-$+1")
	require.NoError(t, err)
	require.Equal(t, asm.Pending{Label: p.Label, Addend: 1, Base: &asm.InSegment{Offset: 4}}, v)
}

func TestEvaluate_errors(t *testing.T) {
	tests := []struct {
		expr        string
		expectedErr string
	}{
		{expr: "1+", expectedErr: "missing operand in expression"},
		{expr: "(1+2", expectedErr: "missing ')'"},
		{expr: "1 2", expectedErr: `unexpected "2" in expression`},
		{expr: ")", expectedErr: `unexpected ")" in expression`},
		{expr: "4/0", expectedErr: "division by zero"},
		{expr: "LATER*2", expectedErr: "constant value required: LATER * 2"},
		{expr: "-LATER", expectedErr: "constant value required: -LATER"},
		{expr: "LATER-$-$", expectedErr: "constant value required: LATER-CSEG:0x0000 - CSEG:0x0000"},
		{expr: "PUTC+1", expectedErr: "constant value required: offset applied to external symbol PUTC"},
		{expr: "-$", expectedErr: "constant value required: -CSEG:0x0000"},
		{expr: "$+$", expectedErr: "constant value required: CSEG:0x0000 + CSEG:0x0000"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.expr, func(t *testing.T) {
			c := newTestContext()
			c.DefineConstant("PUTC", asm.External{Name: "PUTC"})
			_, err := evaluateLine(t, c, tc.expr)
			require.EqualError(t, err, tc.expectedErr)
		})
	}
}

func TestEvaluate_empty(t *testing.T) {
	_, err := evaluate(newTestContext(), nil, nil)
	require.EqualError(t, err, "missing expression")
}
