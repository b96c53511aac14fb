package sqrtprice_math

import (
	"math/big"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	fm "github.com/ftchann/v3-quoter/lib/fullmath"
	"github.com/ftchann/v3-quoter/lib/invariant"
)

// GetPrice returns the integer part of (sqrtPriceX96 / 2^96)^2.
func GetPrice(x96 *big.Int) *big.Int {
	sq := new(big.Int).Mul(x96, x96)
	return sq.Div(sq, cons.Q192)
}

// GetAmount0Delta returns the token0 amount between two prices for the given liquidity.
func GetAmount0Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int, roundUp bool) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}

	numerator1 := new(big.Int).Lsh(liquidity, 96)
	numerator2 := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)

	if roundUp {
		return fm.MulDivRoundingUp(fm.MulDivRoundingUp(numerator1, numerator2, sqrtRatioBX96), cons.One, sqrtRatioAX96)
	}

	res := fm.MulDiv(numerator1, numerator2, sqrtRatioBX96)
	return res.Div(res, sqrtRatioAX96)
}

// GetAmount1Delta returns the token1 amount between two prices for the given liquidity.
func GetAmount1Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int, roundUp bool) *big.Int {
	if sqrtRatioAX96.Cmp(sqrtRatioBX96) > 0 {
		sqrtRatioAX96, sqrtRatioBX96 = sqrtRatioBX96, sqrtRatioAX96
	}

	ratioDiff := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	if roundUp {
		return fm.MulDivRoundingUp(liquidity, ratioDiff, cons.Q96)
	}
	return fm.MulDiv(liquidity, ratioDiff, cons.Q96)
}

// GetAmount0DeltaSigned rounds up when liquidity is added and down when it is removed.
// The result carries the sign of liquidity.
func GetAmount0DeltaSigned(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int) *big.Int {
	if liquidity.Sign() < 0 {
		return new(big.Int).Neg(GetAmount0Delta(sqrtRatioAX96, sqrtRatioBX96, new(big.Int).Neg(liquidity), false))
	}
	return GetAmount0Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity, true)
}

func GetAmount1DeltaSigned(sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int) *big.Int {
	if liquidity.Sign() < 0 {
		return new(big.Int).Neg(GetAmount1Delta(sqrtRatioAX96, sqrtRatioBX96, new(big.Int).Neg(liquidity), false))
	}
	return GetAmount1Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity, true)
}

// GetNextSqrtPriceFromInput returns the price after adding amountIn of the input token.
func GetNextSqrtPriceFromInput(sqrtPX96, liquidity, amountIn *big.Int, zeroForOne bool) (*big.Int, error) {
	if err := validate(sqrtPX96, liquidity); err != nil {
		return nil, err
	}
	if zeroForOne {
		return getNextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amountIn, true)
	}
	return getNextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amountIn, true)
}

// GetNextSqrtPriceFromOutput returns the price after removing amountOut of the output token.
func GetNextSqrtPriceFromOutput(sqrtPX96, liquidity, amountOut *big.Int, zeroForOne bool) (*big.Int, error) {
	if err := validate(sqrtPX96, liquidity); err != nil {
		return nil, err
	}
	if zeroForOne {
		return getNextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amountOut, false)
	}
	return getNextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amountOut, false)
}

func validate(sqrtPX96, liquidity *big.Int) error {
	if sqrtPX96.Sign() <= 0 {
		return invariant.New(invariant.ErrInvalidRange, "SQRT_PRICE")
	}
	if liquidity.Sign() <= 0 {
		return invariant.New(invariant.ErrInvalidRange, "LIQUIDITY")
	}
	return nil
}

func getNextSqrtPriceFromAmount0RoundingUp(sqrtPX96, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if amount.Sign() == 0 {
		return sqrtPX96, nil
	}

	numerator1 := new(big.Int).Lsh(liquidity, 96)
	product := fm.MultiplyIn256(amount, sqrtPX96)
	noOverflow := new(big.Int).Div(product, amount).Cmp(sqrtPX96) == 0

	if add {
		if noOverflow {
			denominator := fm.AddIn256(numerator1, product)
			if denominator.Cmp(numerator1) >= 0 {
				return fm.MulDivRoundingUp(numerator1, sqrtPX96, denominator), nil
			}
		}
		denominator := new(big.Int).Div(numerator1, sqrtPX96)
		return fm.MulDivRoundingUp(numerator1, cons.One, denominator.Add(denominator, amount)), nil
	}

	if !noOverflow {
		return nil, invariant.New(invariant.ErrInvalidRange, "PRODUCT_OVERFLOW")
	}
	if numerator1.Cmp(product) <= 0 {
		return nil, invariant.New(invariant.ErrInvalidRange, "PRICE_UNDERFLOW")
	}
	denominator := new(big.Int).Sub(numerator1, product)
	return fm.MulDivRoundingUp(numerator1, sqrtPX96, denominator), nil
}

func getNextSqrtPriceFromAmount1RoundingDown(sqrtPX96, liquidity, amount *big.Int, add bool) (*big.Int, error) {
	if add {
		var quotient *big.Int
		if amount.Cmp(cons.MaxUint160) <= 0 {
			quotient = new(big.Int).Lsh(amount, 96)
		} else {
			quotient = new(big.Int).Mul(amount, cons.Q96)
		}
		quotient.Div(quotient, liquidity)
		return quotient.Add(quotient, sqrtPX96), nil
	}

	quotient := fm.MulDivRoundingUp(amount, cons.Q96, liquidity)
	if sqrtPX96.Cmp(quotient) <= 0 {
		return nil, invariant.New(invariant.ErrInvalidRange, "PRICE_UNDERFLOW")
	}
	return quotient.Sub(sqrtPX96, quotient), nil
}
