// Package fraction implements exact rational arithmetic on unbounded integers.
//
// Fractions are never reduced: comparisons cross-multiply, and every
// operation returns a new value.
package fraction

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

type Rounding int

const (
	RoundDown Rounding = iota
	RoundHalfUp
	RoundUp
)

// Fractionish is anything holding a fraction: Fraction, Percent, currency
// amounts and prices.
type Fractionish interface {
	AsFraction() Fraction
}

var (
	ten = big.NewInt(10)
	one = big.NewInt(1)
)

// Parse coerces the operand of a binary operation: a Fractionish, an
// integer (*big.Int, int, int64, uint64) or a base 10 integer string.
func Parse(v any) (Fraction, error) {
	switch v := v.(type) {
	case Fractionish:
		return v.AsFraction(), nil
	case *big.Int:
		if v == nil {
			return Fraction{}, fmt.Errorf("nil *big.Int is not a fraction")
		}
		return FromBig(v), nil
	case int:
		return FromInt(int64(v)), nil
	case int64:
		return FromInt(v), nil
	case uint64:
		return FromBig(new(big.Int).SetUint64(v)), nil
	case string:
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return Fraction{}, fmt.Errorf("%q is not an integer", v)
		}
		return FromBig(n), nil
	}
	return Fraction{}, fmt.Errorf("could not parse %T as a fraction", v)
}

// mustParse panics on operands Parse rejects.
func mustParse(v any) Fraction {
	f, err := Parse(v)
	if err != nil {
		panic(err)
	}
	return f
}

type Fraction struct {
	Numerator   *big.Int
	Denominator *big.Int
}

// New panics if denominator is zero.
func New(numerator, denominator *big.Int) Fraction {
	if denominator.Sign() == 0 {
		panic("division by zero")
	}
	return Fraction{
		Numerator:   new(big.Int).Set(numerator),
		Denominator: new(big.Int).Set(denominator),
	}
}

func NewInt(numerator, denominator int64) Fraction {
	return New(big.NewInt(numerator), big.NewInt(denominator))
}

func FromBig(n *big.Int) Fraction {
	return New(n, big.NewInt(1))
}

func FromInt(n int64) Fraction {
	return NewInt(n, 1)
}

func (f Fraction) AsFraction() Fraction {
	return f
}

// Quotient performs floor division.
func (f Fraction) Quotient() *big.Int {
	q, _ := floorDivMod(f.Numerator, f.Denominator)
	return q
}

// Remainder is what is left after floor division.
func (f Fraction) Remainder() Fraction {
	_, m := floorDivMod(f.Numerator, f.Denominator)
	return New(m, f.Denominator)
}

func (f Fraction) Invert() Fraction {
	return New(f.Denominator, f.Numerator)
}

func (f Fraction) Add(other any) Fraction {
	o := mustParse(other)
	if f.Denominator.Cmp(o.Denominator) == 0 {
		return New(new(big.Int).Add(f.Numerator, o.Numerator), f.Denominator)
	}
	return New(
		new(big.Int).Add(
			new(big.Int).Mul(f.Numerator, o.Denominator),
			new(big.Int).Mul(o.Numerator, f.Denominator),
		),
		new(big.Int).Mul(f.Denominator, o.Denominator),
	)
}

func (f Fraction) Subtract(other any) Fraction {
	o := mustParse(other)
	if f.Denominator.Cmp(o.Denominator) == 0 {
		return New(new(big.Int).Sub(f.Numerator, o.Numerator), f.Denominator)
	}
	return New(
		new(big.Int).Sub(
			new(big.Int).Mul(f.Numerator, o.Denominator),
			new(big.Int).Mul(o.Numerator, f.Denominator),
		),
		new(big.Int).Mul(f.Denominator, o.Denominator),
	)
}

func (f Fraction) Multiply(other any) Fraction {
	o := mustParse(other)
	return New(
		new(big.Int).Mul(f.Numerator, o.Numerator),
		new(big.Int).Mul(f.Denominator, o.Denominator),
	)
}

// Divide panics if other is zero.
func (f Fraction) Divide(other any) Fraction {
	o := mustParse(other)
	return New(
		new(big.Int).Mul(f.Numerator, o.Denominator),
		new(big.Int).Mul(f.Denominator, o.Numerator),
	)
}

func (f Fraction) cmp(other any) int {
	o := mustParse(other)
	l := new(big.Int).Mul(f.Numerator, o.Denominator)
	r := new(big.Int).Mul(o.Numerator, f.Denominator)
	// cross multiplication flips the order when exactly one denominator is negative
	if f.Denominator.Sign()*o.Denominator.Sign() < 0 {
		return r.Cmp(l)
	}
	return l.Cmp(r)
}

func (f Fraction) LessThan(other any) bool {
	return f.cmp(other) < 0
}

func (f Fraction) EqualTo(other any) bool {
	return f.cmp(other) == 0
}

func (f Fraction) GreaterThan(other any) bool {
	return f.cmp(other) > 0
}

// ToFixed renders the fraction with decimalPlaces digits after the point and
// strips trailing zeros.
func (f Fraction) ToFixed(decimalPlaces int, rounding Rounding) string {
	if decimalPlaces < 0 {
		panic(fmt.Sprintf("%d is negative", decimalPlaces))
	}
	return roundAt(f.Numerator, f.Denominator, decimalPlaces, rounding).String()
}

// ToSignificant renders the fraction with the given number of significant digits.
func (f Fraction) ToSignificant(significantDigits int, rounding Rounding) string {
	if significantDigits <= 0 {
		panic(fmt.Sprintf("%d is not positive", significantDigits))
	}
	if f.Numerator.Sign() == 0 {
		return "0"
	}
	return roundAt(f.Numerator, f.Denominator, significantDigits-magnitude(f.Numerator, f.Denominator), rounding).String()
}

func (f Fraction) String() string {
	return fmt.Sprintf("%s/%s", f.Numerator, f.Denominator)
}

// roundAt rounds n/d to places decimal places, left of the point when places
// is negative. Rounding is on the absolute value: RoundDown truncates, RoundUp
// and RoundHalfUp round away from zero.
func roundAt(n, d *big.Int, places int, rounding Rounding) decimal.Decimal {
	num := new(big.Int).Abs(n)
	den := new(big.Int).Abs(d)
	if places >= 0 {
		num.Mul(num, new(big.Int).Exp(ten, big.NewInt(int64(places)), nil))
	} else {
		den.Mul(den, new(big.Int).Exp(ten, big.NewInt(int64(-places)), nil))
	}
	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		switch rounding {
		case RoundUp:
			q.Add(q, one)
		case RoundHalfUp:
			if r.Lsh(r, 1).Cmp(den) >= 0 {
				q.Add(q, one)
			}
		}
	}
	if (n.Sign() < 0) != (d.Sign() < 0) {
		q.Neg(q)
	}
	return decimal.NewFromBigInt(q, int32(-places))
}

// magnitude is the number of digits left of the decimal point of |n/d|, zero
// or negative below 1: 0.05 has magnitude -1. n must not be zero.
func magnitude(n, d *big.Int) int {
	num := new(big.Int).Abs(n)
	den := new(big.Int).Abs(d)
	if num.Cmp(den) >= 0 {
		return len(new(big.Int).Quo(num, den).String())
	}
	k := 0
	for num.Cmp(den) < 0 {
		num.Mul(num, ten)
		k++
	}
	return 1 - k
}

// floorDivMod returns floor(n/d) and n - d*floor(n/d).
func floorDivMod(n, d *big.Int) (*big.Int, *big.Int) {
	q, m := new(big.Int).QuoRem(n, d, new(big.Int))
	if m.Sign() != 0 && (m.Sign() < 0) != (d.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
		m.Add(m, d)
	}
	return q, m
}
