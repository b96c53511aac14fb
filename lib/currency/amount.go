package currency

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ftchann/v3-quoter/lib/fraction"
	"github.com/ftchann/v3-quoter/lib/invariant"
)

// Amount is a raw, undecimaled quantity of a currency.
type Amount struct {
	fraction.Fraction
	Currency     Currency
	DecimalScale *big.Int
}

func FromRawAmount(c Currency, raw *big.Int) (Amount, error) {
	return FromFractionalAmount(c, raw, big.NewInt(1))
}

// FromFractionalAmount fails when the quotient does not fit in 256 bits.
func FromFractionalAmount(c Currency, numerator, denominator *big.Int) (Amount, error) {
	f := fraction.New(numerator, denominator)
	if _, overflow := uint256.FromBig(f.Quotient()); overflow {
		return Amount{}, invariant.New(invariant.ErrInvalidRange, "AMOUNT")
	}
	return Amount{
		Fraction:     f,
		Currency:     c,
		DecimalScale: new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(c.Decimals())), nil),
	}, nil
}

func fromFraction(c Currency, f fraction.Fraction) (Amount, error) {
	return FromFractionalAmount(c, f.Numerator, f.Denominator)
}

func (a Amount) Add(other Amount) (Amount, error) {
	if !a.Currency.Equals(other.Currency) {
		return Amount{}, invariant.New(invariant.ErrCurrencyMismatch, "CURRENCY")
	}
	return fromFraction(a.Currency, a.Fraction.Add(other))
}

func (a Amount) Subtract(other Amount) (Amount, error) {
	if !a.Currency.Equals(other.Currency) {
		return Amount{}, invariant.New(invariant.ErrCurrencyMismatch, "CURRENCY")
	}
	return fromFraction(a.Currency, a.Fraction.Subtract(other))
}

func (a Amount) Multiply(other any) (Amount, error) {
	return fromFraction(a.Currency, a.Fraction.Multiply(other))
}

func (a Amount) Divide(other any) (Amount, error) {
	return fromFraction(a.Currency, a.Fraction.Divide(other))
}

// ToFixed renders the amount in whole units; decimalPlaces may not exceed the
// currency's decimals.
func (a Amount) ToFixed(decimalPlaces int, rounding fraction.Rounding) (string, error) {
	if decimalPlaces > a.Currency.Decimals() {
		return "", invariant.New(invariant.ErrInvalidRange, "DECIMALS")
	}
	return a.Fraction.Divide(a.DecimalScale).ToFixed(decimalPlaces, rounding), nil
}

func (a Amount) ToSignificant(significantDigits int, rounding fraction.Rounding) string {
	return a.Fraction.Divide(a.DecimalScale).ToSignificant(significantDigits, rounding)
}

func (a Amount) ToExact() string {
	return a.Fraction.Divide(a.DecimalScale).ToFixed(a.Currency.Decimals(), fraction.RoundHalfUp)
}

// Wrapped returns the same amount denominated in the wrapped token.
func (a Amount) Wrapped() Amount {
	if a.Currency.IsToken() {
		return a
	}
	return Amount{
		Fraction:     a.Fraction,
		Currency:     a.Currency.Wrapped(),
		DecimalScale: a.DecimalScale,
	}
}

// Equal reports whether both amounts hold the same value of the same currency.
func (a Amount) Equal(other Amount) bool {
	return a.Currency.Equals(other.Currency) && a.Fraction.EqualTo(other)
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %v", a.Quotient(), a.Currency)
}
