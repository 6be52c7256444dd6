package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsConcrete(t *testing.T) {
	require.True(t, IsConcrete(Const{1}))
	require.True(t, IsConcrete(InSegment{Segment: 1, Offset: 2}))
	require.False(t, IsConcrete(External{Name: "PUTC"}))
	require.False(t, IsConcrete(Pending{Label: 3}))
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name     string
		a        Address
		n        int64
		expected Address
		err      string
	}{
		{name: "const", a: Const{5}, n: -2, expected: Const{3}},
		{name: "segment", a: InSegment{Segment: 1, Offset: 0x100}, n: 2, expected: InSegment{Segment: 1, Offset: 0x102}},
		{name: "pending", a: Pending{Label: 4, Addend: 1}, n: 2, expected: Pending{Label: 4, Addend: 3}},
		{name: "external zero", a: External{Name: "X"}, n: 0, expected: External{Name: "X"}},
		{name: "external offset", a: External{Name: "X"}, n: 1, err: "constant value required: offset applied to external symbol X"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Add(tc.a, tc.n)
			if tc.err != "" {
				require.EqualError(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestSub(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Address
		expected Address
		err      bool
	}{
		{name: "same segment", a: InSegment{Offset: 0x110}, b: InSegment{Offset: 0x100}, expected: Const{0x10}},
		{name: "const", a: InSegment{Offset: 0x110}, b: Const{0x10}, expected: InSegment{Offset: 0x100}},
		{name: "pending minus const", a: Pending{Label: 1}, b: Const{1}, expected: Pending{Label: 1, Addend: -1}},
		{name: "pending minus location", a: Pending{Label: 1, Addend: 2}, b: InSegment{Offset: 0x10}, expected: Pending{Label: 1, Addend: 2, Base: &InSegment{Offset: 0x10}}},
		{name: "distance minus const", a: Pending{Label: 1, Base: &InSegment{}}, b: Const{1}, expected: Pending{Label: 1, Addend: -1, Base: &InSegment{}}},
		{name: "distance minus location", a: Pending{Label: 1, Base: &InSegment{}}, b: InSegment{}, err: true},
		{name: "const minus location", a: Const{1}, b: InSegment{}, err: true},
		{name: "other segment", a: InSegment{Segment: 1}, b: InSegment{Segment: 0}, err: true},
		{name: "pending subtrahend", a: InSegment{}, b: Pending{Label: 1}, err: true},
		{name: "external", a: External{Name: "X"}, b: InSegment{}, err: true},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Sub(tc.a, tc.b)
			if tc.err {
				require.ErrorIs(t, err, ErrNotConstant)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		p        Pending
		address  Address
		expected Address
		err      bool
	}{
		{name: "label", p: Pending{Label: 1, Addend: 1}, address: InSegment{Offset: 0x10}, expected: InSegment{Offset: 0x11}},
		{name: "constant", p: Pending{Label: 1, Addend: -1}, address: Const{0x10}, expected: Const{0xf}},
		{name: "distance", p: Pending{Label: 1, Base: &InSegment{Offset: 4}}, address: InSegment{Offset: 0x10}, expected: Const{0xc}},
		{name: "distance to other segment", p: Pending{Label: 1, Base: &InSegment{Offset: 4}}, address: InSegment{Segment: 1}, err: true},
		{name: "distance to constant", p: Pending{Label: 1, Base: &InSegment{}}, address: Const{4}, err: true},
		{name: "offset from external", p: Pending{Label: 1, Addend: 1}, address: External{Name: "X"}, err: true},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Resolve(tc.p, tc.address)
			if tc.err {
				require.ErrorIs(t, err, ErrNotConstant)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestValue(t *testing.T) {
	v, ok := Value(Const{7})
	require.True(t, ok)
	require.Equal(t, int64(7), v)

	v, ok = Value(InSegment{Offset: 0x8000})
	require.True(t, ok)
	require.Equal(t, int64(0x8000), v)

	_, ok = Value(Pending{Label: 1})
	require.False(t, ok)

	c := newTestContext()
	n, err := c.ConstValue(Const{3})
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	_, err = c.ConstValue(InSegment{})
	require.EqualError(t, err, "constant value required: CSEG:0x0000")
	_, err = c.ConstValue(Pending{Label: c.Symbol("LATER"), Addend: 1})
	require.EqualError(t, err, "constant value required: LATER+1")
}

func TestAddress_String(t *testing.T) {
	require.Equal(t, "0x1f", Const{0x1f}.String())
	require.Equal(t, "seg1:0x0010", InSegment{Segment: 1, Offset: 0x10}.String())
	require.Equal(t, "PUTC", External{Name: "PUTC"}.String())
	require.Equal(t, "L2", Pending{Label: 2}.String())
	require.Equal(t, "L2-1", Pending{Label: 2, Addend: -1}.String())
	require.Equal(t, "L2+1-seg0:0x0003", Pending{Label: 2, Addend: 1, Base: &InSegment{Offset: 3}}.String())
}
