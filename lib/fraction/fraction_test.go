package fraction

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotient(t *testing.T) {
	tests := [][]int64{
		{8, 3, 2},
		{12, 4, 3},
		{16, 5, 3},
		{-7, 2, -4},
		{7, -2, -4},
	}
	for _, arg := range tests {
		t.Run(fmt.Sprint(arg), func(t *testing.T) {
			assert.Equal(t, fmt.Sprint(arg[2]), NewInt(arg[0], arg[1]).Quotient().String())
		})
	}
}

func TestRemainder(t *testing.T) {
	assert.True(t, NewInt(8, 3).Remainder().EqualTo(NewInt(2, 3)))
	assert.True(t, NewInt(12, 4).Remainder().EqualTo(NewInt(0, 4)))
	assert.True(t, NewInt(16, 5).Remainder().EqualTo(NewInt(1, 5)))
	assert.True(t, NewInt(-7, 2).Remainder().EqualTo(NewInt(1, 2)))
}

func TestInvert(t *testing.T) {
	f := NewInt(5, 10).Invert()
	assert.Equal(t, "10", f.Numerator.String())
	assert.Equal(t, "5", f.Denominator.String())
}

func TestArithmetic(t *testing.T) {
	sum := NewInt(1, 10).Add(NewInt(4, 12))
	assert.Equal(t, "52/120", sum.String())
	assert.Equal(t, "3/5", NewInt(1, 5).Add(NewInt(2, 5)).String())
	assert.Equal(t, "-28/120", NewInt(1, 10).Subtract(NewInt(4, 12)).String())
	assert.Equal(t, "1/5", NewInt(3, 5).Subtract(NewInt(2, 5)).String())
	assert.Equal(t, "4/120", NewInt(1, 10).Multiply(NewInt(4, 12)).String())
	assert.Equal(t, "20/144", NewInt(5, 12).Multiply(NewInt(4, 12)).String())
	assert.Equal(t, "12/40", NewInt(1, 10).Divide(NewInt(4, 12)).String())
	assert.Equal(t, "60/48", NewInt(5, 12).Divide(NewInt(4, 12)).String())
	assert.Equal(t, "7/2", NewInt(1, 2).Add(FromInt(3)).String())
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		a, b              Fraction
		less, equal, more bool
	}{
		{NewInt(1, 10), NewInt(4, 12), true, false, false},
		{NewInt(1, 3), NewInt(4, 12), false, true, false},
		{NewInt(5, 12), NewInt(4, 12), false, false, true},
		{NewInt(1, -2), NewInt(1, 3), true, false, false},
		{NewInt(-1, -2), NewInt(1, 2), false, true, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.less, tt.a.LessThan(tt.b))
			assert.Equal(t, tt.equal, tt.a.EqualTo(tt.b))
			assert.Equal(t, tt.more, tt.a.GreaterThan(tt.b))
		})
	}
}

func TestArithmeticLaws(t *testing.T) {
	values := []Fraction{NewInt(1, 3), NewInt(-7, 11), NewInt(22, 7), NewInt(0, 5), NewInt(1000000007, 998244353)}
	for _, a := range values {
		for _, b := range values {
			assert.True(t, a.Add(b).Subtract(b).EqualTo(a))
			if b.Numerator.Sign() != 0 {
				assert.True(t, a.Multiply(b).Divide(b).EqualTo(a))
			}
			n := 0
			for _, ok := range []bool{a.LessThan(b), a.EqualTo(b), a.GreaterThan(b)} {
				if ok {
					n++
				}
			}
			assert.Equal(t, 1, n)
		}
	}
}

func TestZeroDenominatorPanics(t *testing.T) {
	assert.Panics(t, func() { NewInt(1, 0) })
	assert.Panics(t, func() { NewInt(1, 2).Divide(FromInt(0)) })
}

func TestToFixed(t *testing.T) {
	tests := []struct {
		f        Fraction
		places   int
		rounding Rounding
		want     string
	}{
		{NewInt(456, 123), 3, RoundHalfUp, "3.707"},
		{NewInt(123, 456), 4, RoundHalfUp, "0.2697"},
		{NewInt(1, 8), 2, RoundHalfUp, "0.13"},
		{NewInt(1, 8), 2, RoundDown, "0.12"},
		{NewInt(1, 8), 2, RoundUp, "0.13"},
		{NewInt(1, 100), 1, RoundUp, "0.1"},
		{NewInt(1, 100), 1, RoundDown, "0"},
		{NewInt(5, 2), 0, RoundHalfUp, "3"},
		{NewInt(54321, 1), 5, RoundHalfUp, "54321"},
		{NewInt(10, 4), 4, RoundHalfUp, "2.5"},
		{NewInt(-1, 8), 2, RoundHalfUp, "-0.13"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.f, tt.places, tt.rounding), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.ToFixed(tt.places, tt.rounding))
		})
	}
	require.Panics(t, func() { NewInt(1, 2).ToFixed(-1, RoundDown) })
}

func TestRoundingBelowPrecision(t *testing.T) {
	// 10^-300 is far below any fixed working precision
	tiny := New(big.NewInt(1), new(big.Int).Exp(big.NewInt(10), big.NewInt(300), nil))
	tests := []struct {
		f        Fraction
		rounding Rounding
		want     string
	}{
		{tiny, RoundUp, "0.01"},
		{tiny, RoundDown, "0"},
		{tiny, RoundHalfUp, "0"},
		{tiny.Multiply(-1), RoundUp, "-0.01"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.rounding), func(t *testing.T) {
			result := tt.f.ToFixed(2, tt.rounding)
			if result != tt.want {
				t.Fatalf("want=%v result=%v", tt.want, result)
			}
		})
	}
	assert.Equal(t, "1", tiny.ToFixed(0, RoundUp))
}

func TestToSignificant(t *testing.T) {
	tests := []struct {
		f        Fraction
		digits   int
		rounding Rounding
		want     string
	}{
		{NewInt(126, 35), 5, RoundHalfUp, "3.6"},
		{NewInt(35, 126), 5, RoundHalfUp, "0.27778"},
		{NewInt(35, 126), 5, RoundDown, "0.27777"},
		{NewInt(1234, 10), 2, RoundHalfUp, "120"},
		{NewInt(123, 10000), 2, RoundHalfUp, "0.012"},
		{NewInt(0, 1), 3, RoundHalfUp, "0"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.f, tt.digits), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.ToSignificant(tt.digits, tt.rounding))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.True(t, NewPercentInt(1, 100).Add(NewPercentInt(2, 100)).EqualTo(NewPercentInt(3, 100)))
	assert.True(t, NewPercentInt(1, 25).Add(NewPercentInt(2, 100)).EqualTo(NewPercentInt(150, 2500)))
	assert.True(t, NewPercentInt(1, 100).Subtract(NewPercentInt(2, 100)).EqualTo(NewPercentInt(-1, 100)))
	assert.True(t, NewPercentInt(1, 100).Multiply(NewPercentInt(2, 100)).EqualTo(NewPercentInt(2, 10000)))
	assert.True(t, NewPercentInt(1, 25).Divide(NewPercentInt(2, 100)).EqualTo(NewPercentInt(100, 50)))
	assert.Equal(t, "1.54", NewPercentInt(154, 10_000).ToFixed(2, RoundHalfUp))
	assert.Equal(t, "1.5", NewPercentInt(154, 10_000).ToSignificant(2, RoundHalfUp))
}

func TestParse(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{NewInt(3, 4), "3/4"},
		{NewPercentInt(1, 100), "1/100"},
		{big.NewInt(-5), "-5/1"},
		{7, "7/1"},
		{int64(-8), "-8/1"},
		{uint64(18446744073709551615), "18446744073709551615/1"},
		{"123456789012345678901234567890", "123456789012345678901234567890/1"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.v), func(t *testing.T) {
			result, err := Parse(tt.v)
			require.NoError(t, err)
			if result.String() != tt.want {
				t.Fatalf("want=%v result=%v", tt.want, result)
			}
		})
	}

	for _, v := range []any{"1.5", "abc", 1.5, nil, (*big.Int)(nil)} {
		_, err := Parse(v)
		assert.Error(t, err, "%v", v)
	}
	assert.Panics(t, func() { NewInt(1, 2).Add(1.5) })
}

func TestIntegerOperands(t *testing.T) {
	half := NewInt(1, 2)
	tests := []struct {
		name   string
		result Fraction
		want   Fraction
	}{
		{"add big", half.Add(big.NewInt(1)), NewInt(3, 2)},
		{"add int", half.Add(1), NewInt(3, 2)},
		{"subtract int64", half.Subtract(int64(1)), NewInt(-1, 2)},
		{"multiply uint64", half.Multiply(uint64(4)), FromInt(2)},
		{"divide string", half.Divide("2"), NewInt(1, 4)},
		{"percent add", NewPercentInt(1, 100).Add(1).Fraction, NewInt(101, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.result.EqualTo(tt.want) {
				t.Fatalf("want=%v result=%v", tt.want, tt.result)
			}
		})
	}

	assert.True(t, half.LessThan(1))
	assert.True(t, half.GreaterThan(0))
	assert.True(t, NewInt(4, 2).EqualTo("2"))
	assert.True(t, NewInt(-1, 2).LessThan(big.NewInt(0)))
}
