package asm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inufuto/asm8/experimental"
)

func TestIfElse_longElseBody(t *testing.T) {
	c := newTestContext()
	c.IfStatement(testEQ)
	c.EmitBytes(0x86, 0x01) // LDA #1
	c.ElseStatement()
	c.EmitBytes(0x86, 0x02) // LDA #2
	c.Reserve(200)
	c.EndIfStatement()

	out, err := c.Finish()
	require.NoError(t, err)
	require.Empty(t, c.Errors())

	code := out.Segments[0].Bytes()
	require.Equal(t, 210, len(code))
	// The negated branch to the ELSE label and the branch to the END label are
	// both long, patched once the labels are bound.
	require.Equal(t, []byte{
		0x31, 0x00, 0x08, // J NE else
		0x86, 0x01,
		0x38, 0x00, 0xd2, // J end
		0x86, 0x02,
	}, code[:10])
}

func TestIfElseIf(t *testing.T) {
	c := newTestContext()
	c.IfStatement(testEQ)
	c.EmitByte(0xa1)
	c.ElseIfStatement(testCS)
	c.EmitByte(0xa2)
	c.ElseStatement()
	c.EmitByte(0xa3)
	c.EndIfStatement()

	out, err := c.Finish()
	require.NoError(t, err)
	require.Empty(t, c.Errors())
	require.Equal(t, []byte{
		0x31, 0x00, 0x07, // J NE elseif
		0xa1,
		0x38, 0x00, 0x0f, // J end
		0x33, 0x00, 0x0e, // elseif: J CC else
		0xa2,
		0x38, 0x00, 0x0f, // J end
		0xa3, // else
		// end
	}, out.Segments[0].Bytes()[:15])
	require.Equal(t, 15, len(out.Segments[0].Bytes()))
}

func TestIf_withoutElse(t *testing.T) {
	c := newTestContext()
	c.IfStatement(testNE)
	c.EmitByte(0xa1)
	c.EndIfStatement()

	out, err := c.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{0x30, 0x00, 0x04, 0xa1}, out.Segments[0].Bytes())
}

func TestForwardBranchSizeDoesNotDependOnDistance(t *testing.T) {
	for _, n := range []int{0, 1, 100, 300} {
		c := newTestContext()
		c.IfStatement(testEQ)
		c.Reserve(n)
		c.EndIfStatement()

		out, err := c.Finish()
		require.NoError(t, err)
		code := out.Segments[0].Bytes()
		require.Equal(t, n+3, len(code), n)
		require.Equal(t, byte(0x31), code[0])
		require.Equal(t, uint16(n+3), uint16(code[1])<<8|uint16(code[2]))
	}
}

func TestWEnd_backEdge(t *testing.T) {
	tests := []struct {
		name     string
		body     int
		expected []byte
	}{
		{name: "empty", body: 0, expected: []byte{0x28, 0xfe}},
		{name: "shortest limit", body: 126, expected: []byte{0x28, 0x80}},
		{name: "beyond short", body: 127, expected: []byte{0x38, 0x00, 0x00}},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext()
			c.DoStatement()
			c.Reserve(tc.body)
			c.WEndStatement()

			out, err := c.Finish()
			require.NoError(t, err)
			require.Empty(t, c.Errors())
			require.Equal(t, tc.expected, out.Segments[0].Bytes()[tc.body:])
		})
	}
}

func TestWhile_beforeWEnd(t *testing.T) {
	c := newTestContext()
	c.DoStatement()
	b := c.TopBlock().(*WhileBlock)
	c.EmitByte(0x4a)
	c.WhileStatement(testNE)
	c.WEndStatement()

	require.True(t, b.EndErased)
	require.Equal(t, labelErased, c.labels.get(b.EndID).state)
	require.Equal(t, labelErased, c.labels.get(b.RepeatID).state)
	require.Nil(t, c.TopBlock())

	out, err := c.Finish()
	require.NoError(t, err)
	require.Empty(t, c.Errors())
	// A single conditional back-edge, no separate WEND branch.
	require.Equal(t, []byte{0x4a, 0x21, 0xfd}, out.Segments[0].Bytes())
}

func TestWhile_general(t *testing.T) {
	c := newTestContext()
	c.DoStatement()
	b := c.TopBlock().(*WhileBlock)
	c.WhileStatement(testNE)
	c.EmitByte(0xaa)
	c.WEndStatement()

	require.False(t, b.EndErased)
	out, err := c.Finish()
	require.NoError(t, err)
	require.Empty(t, c.Errors())
	require.Equal(t, []byte{
		0x30, 0x00, 0x06, // J EQ end
		0xaa,
		0x28, 0xfa, // repeat: B begin
		// end
	}, out.Segments[0].Bytes())
}

func TestWhile_secondExitBeforeWEnd(t *testing.T) {
	c := newTestContext()
	c.DoStatement()
	b := c.TopBlock().(*WhileBlock)
	c.WhileStatement(testNE)
	c.EmitByte(0xaa)
	c.WhileStatement(testCS)
	c.WEndStatement()

	require.False(t, b.EndErased)
	out, err := c.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x30, 0x00, 0x09, // J EQ end
		0xaa,
		0x33, 0x00, 0x09, // J CC end
		0x28, 0xf7, // B begin
	}, out.Segments[0].Bytes())
}

func TestWhile_labelBeforeWEnd(t *testing.T) {
	c := newTestContext()
	c.DoStatement()
	c.WhileStatement(testNE)
	// The label needs the address, which commits the exit branch.
	c.DefineSymbol("NEXT")
	c.WEndStatement()

	out, err := c.Finish()
	require.NoError(t, err)
	require.Equal(t, int64(3), out.Symbols["NEXT"].(InSegment).Offset)
	require.Equal(t, []byte{0x30, 0x00, 0x05, 0x28, 0xfb}, out.Segments[0].Bytes())
}

func TestIfInsideWhile(t *testing.T) {
	c := newTestContext()
	c.DoStatement()
	loop := c.TopBlock()
	c.IfStatement(testEQ)
	require.Equal(t, 2, c.Depth())
	_, isIf := c.TopBlock().(*IfBlock)
	require.True(t, isIf)
	c.EmitByte(0xa1)
	c.EndIfStatement()

	// Closing the inner IF leaves the loop on top.
	require.Equal(t, 1, c.Depth())
	require.Same(t, loop, c.TopBlock())

	c.WhileStatement(testCS)
	c.WEndStatement()
	require.Equal(t, 0, c.Depth())

	out, err := c.Finish()
	require.NoError(t, err)
	require.Empty(t, c.Errors())
	require.Equal(t, []byte{
		0x31, 0x00, 0x04, // J NE endif
		0xa1,
		0x22, 0xfa, // B CS begin
	}, out.Segments[0].Bytes())
}

func TestStructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		run      func(c *Context)
		expected error
		size     int
	}{
		{
			name:     "ELSE without IF",
			run:      func(c *Context) { c.ElseStatement() },
			expected: ErrNoIf,
		},
		{
			name:     "ELSEIF without IF",
			run:      func(c *Context) { c.ElseIfStatement(testEQ) },
			expected: ErrNoIf,
		},
		{
			name:     "ENDIF without IF",
			run:      func(c *Context) { c.EndIfStatement() },
			expected: ErrNoIf,
		},
		{
			name:     "WHILE without DO",
			run:      func(c *Context) { c.WhileStatement(testEQ) },
			expected: ErrNoWhile,
		},
		{
			name:     "WEND without DO",
			run:      func(c *Context) { c.WEndStatement() },
			expected: ErrNoWhile,
		},
		{
			name: "ENDIF closing DO",
			run: func(c *Context) {
				c.DoStatement()
				c.EndIfStatement()
				c.WEndStatement()
			},
			expected: ErrNoIf,
			size:     2,
		},
		{
			name: "WEND closing IF",
			run: func(c *Context) {
				c.IfStatement(testEQ)
				c.WEndStatement()
				c.EndIfStatement()
			},
			expected: ErrNoWhile,
			size:     3,
		},
		{
			name: "multiple ELSE",
			run: func(c *Context) {
				c.IfStatement(testEQ)
				c.ElseStatement()
				c.ElseStatement()
				c.EndIfStatement()
			},
			expected: ErrMultipleElse,
			// The second ELSE still emits its branch.
			size: 9,
		},
		{
			name:     "missing ENDIF",
			run:      func(c *Context) { c.IfStatement(testEQ) },
			expected: ErrMissingEndIf,
			size:     3,
		},
		{
			name:     "missing WEND",
			run:      func(c *Context) { c.DoStatement(); c.WhileStatement(testEQ) },
			expected: ErrMissingWEnd,
			size:     3,
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			c := newTestContext()
			c.SetPosition(Position{Line: 7})
			tc.run(c)

			out, err := c.Finish()
			require.NoError(t, err)
			errs := c.Errors()
			require.Equal(t, 1, len(errs), errs)
			require.ErrorIs(t, errs[0], tc.expected)
			require.Equal(t, ErrorKindStructural, errs[0].Kind)
			require.Equal(t, uint32(7), errs[0].Line)
			require.Equal(t, tc.size, out.Segments[0].Len())
		})
	}
}

func TestMultipleElse_targets(t *testing.T) {
	c := newTestContext()
	c.IfStatement(testEQ)
	c.ElseStatement()
	c.ElseStatement()
	c.EndIfStatement()

	out, err := c.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{
		0x31, 0x00, 0x06,
		0x38, 0x00, 0x09,
		0x38, 0x00, 0x09,
	}, out.Segments[0].Bytes())
}

func TestLowering_listener(t *testing.T) {
	var events recorder
	c := NewContext("test.asm", testEmitter{}, &events)
	c.SetPosition(Position{Line: 1})
	c.DoStatement()
	c.SetPosition(Position{Line: 2})
	c.IfStatement(testEQ)
	c.SetPosition(Position{Line: 3})
	c.EndIfStatement()
	c.SetPosition(Position{Line: 4})
	c.WEndStatement()
	_, err := c.Finish()
	require.NoError(t, err)

	require.Equal(t, []experimental.BranchEvent{
		{Line: 2, Segment: "CSEG", Address: 0, Size: 3, Mnemonic: "J", Target: "L4", Encoding: experimental.EncodingLong},
		{Line: 4, Segment: "CSEG", Address: 3, Size: 2, Mnemonic: "B", Target: "CSEG:0x0000", Backward: true, Encoding: experimental.EncodingShort},
	}, []experimental.BranchEvent(events))
}
