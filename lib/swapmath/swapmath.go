package swapmath

import (
	"math/big"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	fm "github.com/ftchann/v3-quoter/lib/fullmath"
	sqrtmath "github.com/ftchann/v3-quoter/lib/sqrtprice_math"
)

// MaxFee is the fee denominator, in pips.
var MaxFee = cons.E6

// ComputeSwapStep swaps within a single price range. A non-negative amountRemaining
// is an exact input, a negative one an exact output.
func ComputeSwapStep(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, amountRemainingI *big.Int, feePips cons.FeeAmount) (sqrtRatioNextX96, amountIn, amountOut, feeAmount *big.Int, err error) {
	zeroForOne := sqrtRatioCurrentX96.Cmp(sqrtRatioTargetX96) >= 0
	exactIn := amountRemainingI.Sign() >= 0
	fee := big.NewInt(int64(feePips))
	feeComplement := new(big.Int).Sub(MaxFee, fee)

	if exactIn {
		amountRemainingLessFee := fm.MulDiv(amountRemainingI, feeComplement, MaxFee)
		if zeroForOne {
			amountIn = sqrtmath.GetAmount0Delta(sqrtRatioTargetX96, sqrtRatioCurrentX96, liquidity, true)
		} else {
			amountIn = sqrtmath.GetAmount1Delta(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, true)
		}
		if amountRemainingLessFee.Cmp(amountIn) >= 0 {
			sqrtRatioNextX96 = new(big.Int).Set(sqrtRatioTargetX96)
		} else {
			sqrtRatioNextX96, err = sqrtmath.GetNextSqrtPriceFromInput(sqrtRatioCurrentX96, liquidity, amountRemainingLessFee, zeroForOne)
			if err != nil {
				return nil, nil, nil, nil, err
			}
		}
	} else {
		if zeroForOne {
			amountOut = sqrtmath.GetAmount1Delta(sqrtRatioTargetX96, sqrtRatioCurrentX96, liquidity, false)
		} else {
			amountOut = sqrtmath.GetAmount0Delta(sqrtRatioCurrentX96, sqrtRatioTargetX96, liquidity, false)
		}
		if new(big.Int).Neg(amountRemainingI).Cmp(amountOut) >= 0 {
			sqrtRatioNextX96 = new(big.Int).Set(sqrtRatioTargetX96)
		} else {
			sqrtRatioNextX96, err = sqrtmath.GetNextSqrtPriceFromOutput(sqrtRatioCurrentX96, liquidity, new(big.Int).Neg(amountRemainingI), zeroForOne)
			if err != nil {
				return nil, nil, nil, nil, err
			}
		}
	}

	max := sqrtRatioTargetX96.Cmp(sqrtRatioNextX96) == 0

	if zeroForOne {
		if !(max && exactIn) {
			amountIn = sqrtmath.GetAmount0Delta(sqrtRatioNextX96, sqrtRatioCurrentX96, liquidity, true)
		}
		if !(max && !exactIn) {
			amountOut = sqrtmath.GetAmount1Delta(sqrtRatioNextX96, sqrtRatioCurrentX96, liquidity, false)
		}
	} else {
		if !(max && exactIn) {
			amountIn = sqrtmath.GetAmount1Delta(sqrtRatioCurrentX96, sqrtRatioNextX96, liquidity, true)
		}
		if !(max && !exactIn) {
			amountOut = sqrtmath.GetAmount0Delta(sqrtRatioCurrentX96, sqrtRatioNextX96, liquidity, false)
		}
	}

	if !exactIn && amountOut.Cmp(new(big.Int).Neg(amountRemainingI)) > 0 {
		amountOut = new(big.Int).Neg(amountRemainingI)
	}

	if exactIn && sqrtRatioNextX96.Cmp(sqrtRatioTargetX96) != 0 {
		// we didn't reach the target, so take the remainder of the maximum input as fee
		feeAmount = new(big.Int).Sub(amountRemainingI, amountIn)
	} else {
		feeAmount = fm.MulDivRoundingUp(amountIn, fee, feeComplement)
	}

	return
}
