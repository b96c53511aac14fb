package position

import (
	"math/big"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/currency"
	"github.com/ftchann/v3-quoter/lib/fraction"
	"github.com/ftchann/v3-quoter/lib/invariant"
	la "github.com/ftchann/v3-quoter/lib/liquidity_amounts"
	"github.com/ftchann/v3-quoter/lib/pool"
	"github.com/ftchann/v3-quoter/lib/prices"
	"github.com/ftchann/v3-quoter/lib/sqrtprice_math"
	"github.com/ftchann/v3-quoter/lib/tickmath"
)

// Position is liquidity held between two ticks of a pool.
type Position struct {
	Pool      *pool.Pool
	TickLower int
	TickUpper int
	Liquidity *big.Int
}

// Amounts are raw token0 and token1 quantities.
type Amounts struct {
	Amount0 *big.Int
	Amount1 *big.Int
}

func New(p *pool.Pool, tickLower, tickUpper int, liquidity *big.Int) (*Position, error) {
	if tickLower >= tickUpper {
		return nil, invariant.New(invariant.ErrInvalidOrdering, "TICK_ORDER")
	}
	if tickLower < tickmath.MinTick || tickLower%p.TickSpacing() != 0 {
		return nil, invariant.New(invariant.ErrInvalidRange, "TICK_LOWER")
	}
	if tickUpper > tickmath.MaxTick || tickUpper%p.TickSpacing() != 0 {
		return nil, invariant.New(invariant.ErrInvalidRange, "TICK_UPPER")
	}
	return &Position{Pool: p, TickLower: tickLower, TickUpper: tickUpper, Liquidity: new(big.Int).Set(liquidity)}, nil
}

// Token0PriceLower is the price of token0 at the lower tick.
func (pos *Position) Token0PriceLower() (currency.Price, error) {
	return prices.TickToPrice(pos.Pool.Token0, pos.Pool.Token1, pos.TickLower)
}

// Token0PriceUpper is the price of token0 at the upper tick.
func (pos *Position) Token0PriceUpper() (currency.Price, error) {
	return prices.TickToPrice(pos.Pool.Token0, pos.Pool.Token1, pos.TickUpper)
}

func (pos *Position) bounds() (lower, upper *big.Int) {
	// ticks are range checked in New
	lower, _ = tickmath.GetSqrtRatioAtTick(pos.TickLower)
	upper, _ = tickmath.GetSqrtRatioAtTick(pos.TickUpper)
	return
}

// Amount0 is the token0 the liquidity could be burned for at the current price.
func (pos *Position) Amount0() (currency.Amount, error) {
	return currency.FromRawAmount(pos.Pool.Token0, pos.MintAmounts().Amount0)
}

// Amount1 is the token1 the liquidity could be burned for at the current price.
func (pos *Position) Amount1() (currency.Amount, error) {
	return currency.FromRawAmount(pos.Pool.Token1, pos.MintAmounts().Amount1)
}

// MintAmounts are the amounts needed to mint the position's liquidity at the
// current price, rounded up.
func (pos *Position) MintAmounts() Amounts {
	lower, upper := pos.bounds()
	switch {
	case pos.Pool.TickCurrent < pos.TickLower:
		return Amounts{
			Amount0: sqrtprice_math.GetAmount0Delta(lower, upper, pos.Liquidity, true),
			Amount1: new(big.Int),
		}
	case pos.Pool.TickCurrent < pos.TickUpper:
		return Amounts{
			Amount0: sqrtprice_math.GetAmount0Delta(pos.Pool.SqrtRatioX96, upper, pos.Liquidity, true),
			Amount1: sqrtprice_math.GetAmount1Delta(lower, pos.Pool.SqrtRatioX96, pos.Liquidity, true),
		}
	default:
		return Amounts{
			Amount0: new(big.Int),
			Amount1: sqrtprice_math.GetAmount1Delta(lower, upper, pos.Liquidity, true),
		}
	}
}

// ratiosAfterSlippage returns the sqrt prices reached when token0's price moves
// down and up by the tolerance, kept strictly inside the tick math bounds.
func (pos *Position) ratiosAfterSlippage(slippageTolerance fraction.Percent) (lower, upper *big.Int) {
	one := fraction.FromInt(1)
	price := pos.Pool.Token0Price().Fraction
	priceLower := price.Multiply(one.Subtract(slippageTolerance))
	priceUpper := price.Multiply(slippageTolerance.Add(1))

	lower = prices.EncodeSqrtRatioX96(priceLower.Numerator, priceLower.Denominator)
	if lower.Cmp(tickmath.MinSqrtRatio) <= 0 {
		lower = new(big.Int).Add(tickmath.MinSqrtRatio, cons.One)
	}
	upper = prices.EncodeSqrtRatioX96(priceUpper.Numerator, priceUpper.Denominator)
	if upper.Cmp(tickmath.MaxSqrtRatio) >= 0 {
		upper = new(big.Int).Sub(tickmath.MaxSqrtRatio, cons.One)
	}
	return
}

// counterfactual is the position at another pool price. Liquidity of the pool
// does not matter for the amounts.
func (pos *Position) counterfactual(sqrtRatioX96, liquidity *big.Int) (*Position, error) {
	tick, err := tickmath.GetTickAtSqrtRatio(sqrtRatioX96)
	if err != nil {
		return nil, err
	}
	p, err := pool.New(pos.Pool.Token0, pos.Pool.Token1, pos.Pool.Fee, sqrtRatioX96, cons.Zero, tick, nil)
	if err != nil {
		return nil, err
	}
	return New(p, pos.TickLower, pos.TickUpper, liquidity)
}

// MintAmountsWithSlippage returns the minimum amounts that must be sent to mint
// the position if the price slips by up to the tolerance.
func (pos *Position) MintAmountsWithSlippage(slippageTolerance fraction.Percent) (Amounts, error) {
	sqrtRatioLower, sqrtRatioUpper := pos.ratiosAfterSlippage(slippageTolerance)

	// the router is imprecise, so work from the liquidity it will actually mint
	mint := pos.MintAmounts()
	created, err := FromAmounts(pos.Pool, pos.TickLower, pos.TickUpper, mint.Amount0, mint.Amount1, false)
	if err != nil {
		return Amounts{}, err
	}

	// amount0 is smallest at the upper price, amount1 at the lower
	atUpper, err := pos.counterfactual(sqrtRatioUpper, created.Liquidity)
	if err != nil {
		return Amounts{}, err
	}
	atLower, err := pos.counterfactual(sqrtRatioLower, created.Liquidity)
	if err != nil {
		return Amounts{}, err
	}
	return Amounts{Amount0: atUpper.MintAmounts().Amount0, Amount1: atLower.MintAmounts().Amount1}, nil
}

// BurnAmountsWithSlippage returns the minimum amounts to request when burning
// the position if the price slips by up to the tolerance.
func (pos *Position) BurnAmountsWithSlippage(slippageTolerance fraction.Percent) (Amounts, error) {
	sqrtRatioLower, sqrtRatioUpper := pos.ratiosAfterSlippage(slippageTolerance)

	atUpper, err := pos.counterfactual(sqrtRatioUpper, pos.Liquidity)
	if err != nil {
		return Amounts{}, err
	}
	atLower, err := pos.counterfactual(sqrtRatioLower, pos.Liquidity)
	if err != nil {
		return Amounts{}, err
	}
	return Amounts{Amount0: atUpper.MintAmounts().Amount0, Amount1: atLower.MintAmounts().Amount1}, nil
}

// FromAmounts builds the position with the most liquidity the amounts can pay for.
// With useFullPrecision false the liquidity matches what the router computes.
func FromAmounts(p *pool.Pool, tickLower, tickUpper int, amount0, amount1 *big.Int, useFullPrecision bool) (*Position, error) {
	sqrtRatioAX96, err := tickmath.GetSqrtRatioAtTick(tickLower)
	if err != nil {
		return nil, err
	}
	sqrtRatioBX96, err := tickmath.GetSqrtRatioAtTick(tickUpper)
	if err != nil {
		return nil, err
	}
	liquidity := la.MaxLiquidityForAmounts(p.SqrtRatioX96, sqrtRatioAX96, sqrtRatioBX96, amount0, amount1, useFullPrecision)
	return New(p, tickLower, tickUpper, liquidity)
}

// FromAmount0 assumes an unlimited amount of token1.
func FromAmount0(p *pool.Pool, tickLower, tickUpper int, amount0 *big.Int, useFullPrecision bool) (*Position, error) {
	return FromAmounts(p, tickLower, tickUpper, amount0, cons.MaxUint256, useFullPrecision)
}

// FromAmount1 assumes an unlimited amount of token0 and always uses full precision.
func FromAmount1(p *pool.Pool, tickLower, tickUpper int, amount1 *big.Int) (*Position, error) {
	return FromAmounts(p, tickLower, tickUpper, cons.MaxUint256, amount1, true)
}
