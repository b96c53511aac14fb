package liquidity_amounts

import (
	"math/big"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/fullmath"
	sqrtmath "github.com/ftchann/v3-quoter/lib/sqrtprice_math"
)

func sortRatios(a, b *big.Int) (*big.Int, *big.Int) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

// GetLiquidityForAmount0 matches the router contract, which divides by Q96 in the
// intermediate step and so loses up to 32 bits of precision.
func GetLiquidityForAmount0(sqrtRatioAX96, sqrtRatioBX96, amount0 *big.Int) *big.Int {
	sqrtRatioAX96, sqrtRatioBX96 = sortRatios(sqrtRatioAX96, sqrtRatioBX96)
	intermediate := fullmath.MulDiv(sqrtRatioAX96, sqrtRatioBX96, cons.Q96)
	return fullmath.MulDiv(amount0, intermediate, new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96))
}

// GetLiquidityForAmount0Precise is the exact maximum liquidity for amount0.
func GetLiquidityForAmount0Precise(sqrtRatioAX96, sqrtRatioBX96, amount0 *big.Int) *big.Int {
	sqrtRatioAX96, sqrtRatioBX96 = sortRatios(sqrtRatioAX96, sqrtRatioBX96)
	numerator := new(big.Int).Mul(amount0, sqrtRatioAX96)
	numerator.Mul(numerator, sqrtRatioBX96)
	denominator := new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96)
	denominator.Mul(denominator, cons.Q96)
	return numerator.Div(numerator, denominator)
}

func GetLiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1 *big.Int) *big.Int {
	sqrtRatioAX96, sqrtRatioBX96 = sortRatios(sqrtRatioAX96, sqrtRatioBX96)
	return fullmath.MulDiv(amount1, cons.Q96, new(big.Int).Sub(sqrtRatioBX96, sqrtRatioAX96))
}

// MaxLiquidityForAmounts returns the largest liquidity that amount0 and amount1 can
// back between the two bounds at the current price. Without useFullPrecision the
// token0 side is computed the way the router contract computes it.
func MaxLiquidityForAmounts(sqrtRatioX96, sqrtRatioAX96, sqrtRatioBX96, amount0, amount1 *big.Int, useFullPrecision bool) (liquidity *big.Int) {
	sqrtRatioAX96, sqrtRatioBX96 = sortRatios(sqrtRatioAX96, sqrtRatioBX96)

	forAmount0 := GetLiquidityForAmount0
	if useFullPrecision {
		forAmount0 = GetLiquidityForAmount0Precise
	}

	if sqrtRatioX96.Cmp(sqrtRatioAX96) <= 0 {
		liquidity = forAmount0(sqrtRatioAX96, sqrtRatioBX96, amount0)
	} else if sqrtRatioX96.Cmp(sqrtRatioBX96) < 0 {
		liquidity0 := forAmount0(sqrtRatioX96, sqrtRatioBX96, amount0)
		liquidity1 := GetLiquidityForAmount1(sqrtRatioAX96, sqrtRatioX96, amount1)

		if liquidity0.Cmp(liquidity1) < 0 {
			liquidity = liquidity0
		} else {
			liquidity = liquidity1
		}
	} else {
		liquidity = GetLiquidityForAmount1(sqrtRatioAX96, sqrtRatioBX96, amount1)
	}
	return liquidity
}

// GetLiquidityForAmount is the router flavour of MaxLiquidityForAmounts.
func GetLiquidityForAmount(sqrtRatioX96, sqrtRatioAX96, sqrtRatioBX96, amount0, amount1 *big.Int) *big.Int {
	return MaxLiquidityForAmounts(sqrtRatioX96, sqrtRatioAX96, sqrtRatioBX96, amount0, amount1, false)
}

// GetAmountsForLiquidity returns the token amounts held by liquidity between the
// bounds at the current price, rounded down.
func GetAmountsForLiquidity(sqrtRatioX96, sqrtRatioAX96, sqrtRatioBX96, liquidity *big.Int) (amount0, amount1 *big.Int) {
	sqrtRatioAX96, sqrtRatioBX96 = sortRatios(sqrtRatioAX96, sqrtRatioBX96)

	if sqrtRatioX96.Cmp(sqrtRatioAX96) <= 0 {
		return sqrtmath.GetAmount0Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity, false), new(big.Int)
	}
	if sqrtRatioX96.Cmp(sqrtRatioBX96) < 0 {
		return sqrtmath.GetAmount0Delta(sqrtRatioX96, sqrtRatioBX96, liquidity, false),
			sqrtmath.GetAmount1Delta(sqrtRatioAX96, sqrtRatioX96, liquidity, false)
	}
	return new(big.Int), sqrtmath.GetAmount1Delta(sqrtRatioAX96, sqrtRatioBX96, liquidity, false)
}
