package fraction

import "math/big"

var oneHundred = FromInt(100)

// Percent is a Fraction rendered as a percentage.
type Percent struct {
	Fraction
}

func NewPercent(numerator, denominator *big.Int) Percent {
	return Percent{New(numerator, denominator)}
}

func NewPercentInt(numerator, denominator int64) Percent {
	return Percent{NewInt(numerator, denominator)}
}

func ToPercent(f any) Percent {
	return Percent{mustParse(f)}
}

func (p Percent) Add(other any) Percent {
	return Percent{p.Fraction.Add(other)}
}

func (p Percent) Subtract(other any) Percent {
	return Percent{p.Fraction.Subtract(other)}
}

func (p Percent) Multiply(other any) Percent {
	return Percent{p.Fraction.Multiply(other)}
}

func (p Percent) Divide(other any) Percent {
	return Percent{p.Fraction.Divide(other)}
}

// ToFixed renders the percentage, e.g. 154/10000 as "1.54".
func (p Percent) ToFixed(decimalPlaces int, rounding Rounding) string {
	return p.Fraction.Multiply(oneHundred).ToFixed(decimalPlaces, rounding)
}

func (p Percent) ToSignificant(significantDigits int, rounding Rounding) string {
	return p.Fraction.Multiply(oneHundred).ToSignificant(significantDigits, rounding)
}
