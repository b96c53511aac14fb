package pool

import (
	"math/big"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/currency"
	"github.com/ftchann/v3-quoter/lib/fullmath"
	"github.com/ftchann/v3-quoter/lib/invariant"
	"github.com/ftchann/v3-quoter/lib/liquiditymath"
	"github.com/ftchann/v3-quoter/lib/swapmath"
	td "github.com/ftchann/v3-quoter/lib/tickdata"
	"github.com/ftchann/v3-quoter/lib/tickmath"
)

type StepComputations struct {
	sqrtPriceStartX96 *big.Int
	tickNext          int
	initialized       bool
	sqrtPriceNextX96  *big.Int
	amountIn          *big.Int
	amountOut         *big.Int
	feeAmount         *big.Int
}

type stateStruct struct {
	amountSpecifiedRemainingI *big.Int
	amountCalculatedI         *big.Int
	sqrtPriceX96              *big.Int
	tick                      int
	feeGrowthGlobalX128       *big.Int
	liquidity                 *big.Int
	ticks                     td.Provider
}

// SwapResult is the outcome of a swap and the pool state after it.
type SwapResult struct {
	// AmountCalculated is the output (negative) for exact input swaps and the
	// input for exact output swaps.
	AmountCalculated *big.Int
	// Amount0 and Amount1 are the balance changes of the pool.
	Amount0 *big.Int
	Amount1 *big.Int
	Pool    *Pool
}

// GetOutputAmount quotes the output for inputAmount and returns the pool after the swap.
// A nil sqrtPriceLimitX96 swaps without a limit.
func (p *Pool) GetOutputAmount(inputAmount currency.Amount, sqrtPriceLimitX96 *big.Int) (currency.Amount, *Pool, error) {
	if !inputAmount.Currency.IsToken() || !p.InvolvesToken(inputAmount.Currency) {
		return currency.Amount{}, nil, invariant.New(invariant.ErrCurrencyMismatch, "TOKEN")
	}
	zeroForOne := inputAmount.Currency.Equals(p.Token0)

	result, err := p.Swap(zeroForOne, inputAmount.Quotient(), sqrtPriceLimitX96)
	if err != nil {
		return currency.Amount{}, nil, err
	}

	outputToken := p.Token0
	if zeroForOne {
		outputToken = p.Token1
	}
	out := new(big.Int).Neg(result.AmountCalculated)
	if out.Sign() == 0 && inputAmount.Quotient().Sign() > 0 {
		return currency.Amount{}, nil, invariant.New(invariant.ErrInsufficientInput, "INSUFFICIENT_INPUT_AMOUNT")
	}
	outputAmount, err := currency.FromRawAmount(outputToken, out)
	if err != nil {
		return currency.Amount{}, nil, err
	}
	return outputAmount, result.Pool, nil
}

// GetInputAmount quotes the input needed for outputAmount and returns the pool after the swap.
func (p *Pool) GetInputAmount(outputAmount currency.Amount, sqrtPriceLimitX96 *big.Int) (currency.Amount, *Pool, error) {
	if !outputAmount.Currency.IsToken() || !p.InvolvesToken(outputAmount.Currency) {
		return currency.Amount{}, nil, invariant.New(invariant.ErrCurrencyMismatch, "TOKEN")
	}
	zeroForOne := outputAmount.Currency.Equals(p.Token1)

	result, err := p.Swap(zeroForOne, new(big.Int).Neg(outputAmount.Quotient()), sqrtPriceLimitX96)
	if err != nil {
		return currency.Amount{}, nil, err
	}

	inputToken := p.Token1
	if zeroForOne {
		inputToken = p.Token0
	}
	inputAmount, err := currency.FromRawAmount(inputToken, result.AmountCalculated)
	if err != nil {
		return currency.Amount{}, nil, err
	}
	return inputAmount, result.Pool, nil
}

// Swap runs the swap loop. amountSpecified is an exact input when non-negative and
// an exact output when negative. A nil sqrtPriceLimitX96 defaults to the global bound.
func (p *Pool) Swap(zeroForOne bool, amountSpecified *big.Int, sqrtPriceLimitX96In *big.Int) (*SwapResult, error) {
	var sqrtPriceLimitX96 *big.Int
	if sqrtPriceLimitX96In == nil {
		if zeroForOne {
			sqrtPriceLimitX96 = new(big.Int).Add(tickmath.MinSqrtRatio, cons.One)
		} else {
			sqrtPriceLimitX96 = new(big.Int).Sub(tickmath.MaxSqrtRatio, cons.One)
		}
	} else {
		sqrtPriceLimitX96 = new(big.Int).Set(sqrtPriceLimitX96In)
	}

	if zeroForOne {
		if sqrtPriceLimitX96.Cmp(tickmath.MinSqrtRatio) <= 0 {
			return nil, invariant.New(invariant.ErrInvalidRange, "RATIO_MIN")
		}
		if sqrtPriceLimitX96.Cmp(p.SqrtRatioX96) >= 0 {
			return nil, invariant.New(invariant.ErrInvalidRange, "RATIO_CURRENT")
		}
	} else {
		if sqrtPriceLimitX96.Cmp(tickmath.MaxSqrtRatio) >= 0 {
			return nil, invariant.New(invariant.ErrInvalidRange, "RATIO_MAX")
		}
		if sqrtPriceLimitX96.Cmp(p.SqrtRatioX96) <= 0 {
			return nil, invariant.New(invariant.ErrInvalidRange, "RATIO_CURRENT")
		}
	}

	exactInput := amountSpecified.Sign() >= 0

	var feeGrowthGlobalX128 *big.Int
	if zeroForOne {
		feeGrowthGlobalX128 = new(big.Int).Set(p.FeeGrowthGlobal0X128)
	} else {
		feeGrowthGlobalX128 = new(big.Int).Set(p.FeeGrowthGlobal1X128)
	}
	state := stateStruct{
		new(big.Int).Set(amountSpecified),
		new(big.Int),
		new(big.Int).Set(p.SqrtRatioX96),
		p.TickCurrent,
		feeGrowthGlobalX128,
		new(big.Int).Set(p.Liquidity),
		p.TickDataProvider,
	}
	tickSpacing := p.TickSpacing()

	for state.amountSpecifiedRemainingI.Sign() != 0 && state.sqrtPriceX96.Cmp(sqrtPriceLimitX96) != 0 {
		var step StepComputations
		var err error
		step.sqrtPriceStartX96 = state.sqrtPriceX96

		// each iteration rounds, so jumping straight to the next initialized tick
		// would not match the contract; walk the bitmap words instead
		step.tickNext, step.initialized, err = state.ticks.NextInitializedTickWithinOneWord(state.tick, zeroForOne, tickSpacing)
		if err != nil {
			return nil, err
		}

		if step.tickNext < tickmath.MinTick {
			step.tickNext = tickmath.MinTick
		} else if step.tickNext > tickmath.MaxTick {
			step.tickNext = tickmath.MaxTick
		}

		step.sqrtPriceNextX96, err = tickmath.GetSqrtRatioAtTick(step.tickNext)
		if err != nil {
			return nil, err
		}
		var targetValue *big.Int
		if zeroForOne {
			if step.sqrtPriceNextX96.Cmp(sqrtPriceLimitX96) < 0 {
				targetValue = sqrtPriceLimitX96
			} else {
				targetValue = step.sqrtPriceNextX96
			}
		} else {
			if step.sqrtPriceNextX96.Cmp(sqrtPriceLimitX96) > 0 {
				targetValue = sqrtPriceLimitX96
			} else {
				targetValue = step.sqrtPriceNextX96
			}
		}

		state.sqrtPriceX96, step.amountIn, step.amountOut, step.feeAmount, err =
			swapmath.ComputeSwapStep(state.sqrtPriceX96, targetValue, state.liquidity, state.amountSpecifiedRemainingI, p.Fee)
		if err != nil {
			return nil, err
		}

		if exactInput {
			state.amountSpecifiedRemainingI.Sub(state.amountSpecifiedRemainingI, new(big.Int).Add(step.amountIn, step.feeAmount))
			state.amountCalculatedI.Sub(state.amountCalculatedI, step.amountOut)
		} else {
			state.amountSpecifiedRemainingI.Add(state.amountSpecifiedRemainingI, step.amountOut)
			state.amountCalculatedI.Add(state.amountCalculatedI, new(big.Int).Add(step.amountIn, step.feeAmount))
		}

		if state.liquidity.Sign() > 0 {
			fee := fullmath.MulDiv(step.feeAmount, cons.Q128, state.liquidity)
			state.feeGrowthGlobalX128 = fullmath.AddIn256(state.feeGrowthGlobalX128, fee)
		}

		if state.sqrtPriceX96.Cmp(step.sqrtPriceNextX96) == 0 {
			if step.initialized {
				tick, err := state.ticks.GetTick(step.tickNext)
				if err != nil {
					return nil, err
				}
				if list, ok := state.ticks.(*td.ListProvider); ok {
					feeGrowthGlobal0X128, feeGrowthGlobal1X128 := p.FeeGrowthGlobal0X128, state.feeGrowthGlobalX128
					if zeroForOne {
						feeGrowthGlobal0X128, feeGrowthGlobal1X128 = state.feeGrowthGlobalX128, p.FeeGrowthGlobal1X128
					}
					if state.ticks, err = list.Cross(step.tickNext, feeGrowthGlobal0X128, feeGrowthGlobal1X128); err != nil {
						return nil, err
					}
				}
				// moving leftward, liquidityNet reads with the opposite sign
				liquidityNet := tick.LiquidityNet
				if zeroForOne {
					liquidityNet = new(big.Int).Neg(liquidityNet)
				}
				state.liquidity = liquiditymath.AddDelta(state.liquidity, liquidityNet)
			}
			if zeroForOne {
				state.tick = step.tickNext - 1
			} else {
				state.tick = step.tickNext
			}
		} else if state.sqrtPriceX96.Cmp(step.sqrtPriceStartX96) != 0 {
			// recompute unless we're on a lower tick boundary and haven't moved
			state.tick, err = tickmath.GetTickAtSqrtRatio(state.sqrtPriceX96)
			if err != nil {
				return nil, err
			}
		}
	}

	feeGrowth0, feeGrowth1 := p.FeeGrowthGlobal0X128, state.feeGrowthGlobalX128
	if zeroForOne {
		feeGrowth0, feeGrowth1 = state.feeGrowthGlobalX128, p.FeeGrowthGlobal1X128
	}
	next := newPool(p.Token0, p.Token1, p.Fee, state.sqrtPriceX96, state.liquidity, state.tick,
		new(big.Int).Set(feeGrowth0), new(big.Int).Set(feeGrowth1), state.ticks)

	specified := new(big.Int).Sub(amountSpecified, state.amountSpecifiedRemainingI)
	amount0, amount1 := specified, state.amountCalculatedI
	if zeroForOne != exactInput {
		amount0, amount1 = state.amountCalculatedI, specified
	}
	return &SwapResult{
		AmountCalculated: state.amountCalculatedI,
		Amount0:          amount0,
		Amount1:          amount1,
		Pool:             next,
	}, nil
}
