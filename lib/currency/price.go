package currency

import (
	"fmt"
	"math/big"

	"github.com/ftchann/v3-quoter/lib/fraction"
	"github.com/ftchann/v3-quoter/lib/invariant"
)

// Price is the amount of QuoteCurrency one raw unit of BaseCurrency buys.
type Price struct {
	fraction.Fraction
	BaseCurrency  Currency
	QuoteCurrency Currency
	// Scalar adjusts the raw ratio for the decimals of both currencies.
	Scalar fraction.Fraction
}

func NewPrice(base, quote Currency, denominator, numerator *big.Int) Price {
	ten := big.NewInt(10)
	return Price{
		Fraction:      fraction.New(numerator, denominator),
		BaseCurrency:  base,
		QuoteCurrency: quote,
		Scalar: fraction.New(
			new(big.Int).Exp(ten, big.NewInt(int64(base.Decimals())), nil),
			new(big.Int).Exp(ten, big.NewInt(int64(quote.Decimals())), nil),
		),
	}
}

func PriceFromAmounts(base, quote Amount) Price {
	r := quote.Fraction.Divide(base)
	return NewPrice(base.Currency, quote.Currency, r.Denominator, r.Numerator)
}

// Invert swaps base and quote.
func (p Price) Invert() Price {
	return NewPrice(p.QuoteCurrency, p.BaseCurrency, p.Numerator, p.Denominator)
}

// Multiply chains p with other; other's base must be p's quote.
func (p Price) Multiply(other Price) (Price, error) {
	if !p.QuoteCurrency.Equals(other.BaseCurrency) {
		return Price{}, invariant.New(invariant.ErrCurrencyMismatch, "TOKEN")
	}
	f := p.Fraction.Multiply(other)
	return NewPrice(p.BaseCurrency, other.QuoteCurrency, f.Denominator, f.Numerator), nil
}

// Quote converts an amount of the base currency into the quote currency.
func (p Price) Quote(amount Amount) (Amount, error) {
	if !amount.Currency.Equals(p.BaseCurrency) {
		return Amount{}, invariant.New(invariant.ErrCurrencyMismatch, "TOKEN")
	}
	return fromFraction(p.QuoteCurrency, p.Fraction.Multiply(amount))
}

func (p Price) AdjustedForDecimals() fraction.Fraction {
	return p.Fraction.Multiply(p.Scalar)
}

func (p Price) ToSignificant(significantDigits int, rounding fraction.Rounding) string {
	return p.AdjustedForDecimals().ToSignificant(significantDigits, rounding)
}

func (p Price) ToFixed(decimalPlaces int, rounding fraction.Rounding) string {
	return p.AdjustedForDecimals().ToFixed(decimalPlaces, rounding)
}

// Equal compares value and both currencies.
func (p Price) Equal(other Price) bool {
	return p.BaseCurrency.Equals(other.BaseCurrency) &&
		p.QuoteCurrency.Equals(other.QuoteCurrency) &&
		p.Fraction.EqualTo(other)
}

func (p Price) String() string {
	return fmt.Sprintf("%v/%v %s", p.QuoteCurrency, p.BaseCurrency, p.ToSignificant(6, fraction.RoundHalfUp))
}

// ComputePriceImpact is the relative shortfall of outputAmount against what
// midPrice quotes for inputAmount.
func ComputePriceImpact(midPrice Price, inputAmount, outputAmount Amount) (fraction.Percent, error) {
	quoted, err := midPrice.Quote(inputAmount)
	if err != nil {
		return fraction.Percent{}, err
	}
	diff, err := quoted.Subtract(outputAmount)
	if err != nil {
		return fraction.Percent{}, err
	}
	return fraction.ToPercent(diff.Fraction.Divide(quoted)), nil
}
