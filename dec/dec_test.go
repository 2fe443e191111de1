package dec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		num      int64
		exp      uint8
		expected float64
	}{
		{2, 0, 2},
		{2, 1, 0.2},
		{2, 2, 0.02},
		{5928, 1, 592.8},
		{59280, 2, 592.8},
		{592800, 3, 592.8},
		{2203, 3, 2.203},
		{-2203, 3, -2.203},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, New(tt.num, tt.exp).Float())
	}
}

func TestShiftExp(t *testing.T) {
	d := New(2203, 3) // 2.203

	d.ShiftExp(1)
	assert.Equal(t, New(22, 1), d) // 2.2, trailing digits truncated

	d.ShiftExp(3)
	assert.Equal(t, New(2200, 3), d) // precision is not recovered
}

func TestMatchExp(t *testing.T) {
	d := New(2203, 3)
	other := New(50, 1) // 5.0

	matched := d.MatchExp(other)
	assert.Equal(t, d.Exp, matched.Exp)
	assert.Equal(t, int64(5000), matched.Num)

	// the receiver and argument are untouched
	assert.Equal(t, New(2203, 3), d)
	assert.Equal(t, New(50, 1), other)
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Dec
		expected bool
	}{
		{"SameExp", New(202, 1), New(202, 1), true},
		{"SameExpDifferentNum", New(202, 1), New(200, 1), false},
		{"AlignedEqual", New(202, 1), New(2020, 2), true},
		{"AlignedUnequal", New(203, 1), New(2020, 2), false},
		{"WholeVsFraction", New(20201, 2), New(2020100, 4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Equal(tt.b))
			assert.Equal(t, tt.expected, tt.b.Equal(tt.a))
		})
	}
}

func TestCmp(t *testing.T) {
	assert.Equal(t, 1, New(203, 1).Cmp(New(202, 1)))
	assert.Equal(t, -1, New(202, 1).Cmp(New(203, 1)))
	assert.Equal(t, 1, New(20201, 2).Cmp(New(202, 0)))
	assert.Equal(t, 0, New(20201, 2).Cmp(New(2020100, 4)))
}

func TestArithmetic(t *testing.T) {
	// 20.49 + 2 + 0.03 - 5 == 17.52
	d := New(2049, 2)
	d = d.Add(New(200, 2))
	d = d.Add(New(3, 2))

	f := FromFloat(5.0)
	f.ShiftExp(2)
	d = d.Sub(f)

	assert.Equal(t, 17.52, d.Float())
}

func TestMulDiv(t *testing.T) {
	d := New(6, 0).Mul(New(7, 0))
	assert.Equal(t, New(42, 0), d)

	q := New(10, 0).Div(New(2, 0))
	assert.Equal(t, New(5, 0), q)

	// mantissa division truncates: 1/2 at exponent 0 underflows to 0
	z := New(1, 0).Div(New(2, 0))
	assert.Equal(t, int64(0), z.Num)
}

func TestFromFloat(t *testing.T) {
	tests := []struct {
		in       float64
		expected Dec
	}{
		{5.0, New(5, 0)},
		{100.238, New(100238, 3)},
		{-0.25, New(-25, 2)},
		{0, New(0, 0)},
	}

	for _, tt := range tests {
		got := FromFloat(tt.in)
		assert.Equal(t, tt.expected, got)
		assert.Equal(t, tt.in, got.Float())
	}
}

func TestFromFloat32(t *testing.T) {
	got := FromFloat32(100.238)
	assert.Equal(t, float32(100.238), float32(got.Float()))
}

func TestInt64(t *testing.T) {
	assert.Equal(t, int64(101), New(10123, 2).Int64())
	assert.Equal(t, int64(-101), New(-10123, 2).Int64())
}
