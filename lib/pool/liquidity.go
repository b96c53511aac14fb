package pool

import (
	"math/big"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/fullmath"
	"github.com/ftchann/v3-quoter/lib/invariant"
	"github.com/ftchann/v3-quoter/lib/liquiditymath"
	"github.com/ftchann/v3-quoter/lib/sqrtprice_math"
	td "github.com/ftchann/v3-quoter/lib/tickdata"
	"github.com/ftchann/v3-quoter/lib/tickmath"
)

// ModifyLiquidity mints (positive delta) or burns (negative delta) liquidity
// between tickLower and tickUpper. It returns the new pool and the signed token
// amounts owed to the pool; burns yield negative amounts.
func (p *Pool) ModifyLiquidity(tickLower, tickUpper int, liquidityDelta *big.Int) (*Pool, *big.Int, *big.Int, error) {
	if tickLower >= tickUpper {
		return nil, nil, nil, invariant.New(invariant.ErrInvalidOrdering, "TICK_ORDER")
	}
	if tickLower < tickmath.MinTick {
		return nil, nil, nil, invariant.New(invariant.ErrInvalidRange, "TICK_LOWER")
	}
	if tickUpper > tickmath.MaxTick {
		return nil, nil, nil, invariant.New(invariant.ErrInvalidRange, "TICK_UPPER")
	}

	list, err := p.tickList()
	if err != nil {
		return nil, nil, nil, err
	}
	update := td.Update{
		LiquidityDelta:       liquidityDelta,
		TickCurrent:          p.TickCurrent,
		FeeGrowthGlobal0X128: p.FeeGrowthGlobal0X128,
		FeeGrowthGlobal1X128: p.FeeGrowthGlobal1X128,
	}
	update.Index = tickLower
	if list, err = list.WithLiquidity(update); err != nil {
		return nil, nil, nil, err
	}
	update.Index, update.Upper = tickUpper, true
	if list, err = list.WithLiquidity(update); err != nil {
		return nil, nil, nil, err
	}

	sqrtRatioLowerX96, err := tickmath.GetSqrtRatioAtTick(tickLower)
	if err != nil {
		return nil, nil, nil, err
	}
	sqrtRatioUpperX96, err := tickmath.GetSqrtRatioAtTick(tickUpper)
	if err != nil {
		return nil, nil, nil, err
	}

	liquidity := p.Liquidity
	amount0, amount1 := new(big.Int), new(big.Int)
	switch {
	case p.TickCurrent < tickLower:
		amount0 = sqrtprice_math.GetAmount0DeltaSigned(sqrtRatioLowerX96, sqrtRatioUpperX96, liquidityDelta)
	case p.TickCurrent < tickUpper:
		amount0 = sqrtprice_math.GetAmount0DeltaSigned(p.SqrtRatioX96, sqrtRatioUpperX96, liquidityDelta)
		amount1 = sqrtprice_math.GetAmount1DeltaSigned(sqrtRatioLowerX96, p.SqrtRatioX96, liquidityDelta)
		liquidity = liquiditymath.AddDelta(p.Liquidity, liquidityDelta)
		if liquidity.Sign() < 0 {
			return nil, nil, nil, invariant.New(invariant.ErrInvalidRange, "LS")
		}
	default:
		amount1 = sqrtprice_math.GetAmount1DeltaSigned(sqrtRatioLowerX96, sqrtRatioUpperX96, liquidityDelta)
	}

	next := newPool(p.Token0, p.Token1, p.Fee, p.SqrtRatioX96, new(big.Int).Set(liquidity), p.TickCurrent,
		p.FeeGrowthGlobal0X128, p.FeeGrowthGlobal1X128, list)
	return next, amount0, amount1, nil
}

// tickList returns the pool's ticks as a list that can be updated. A pool
// without tick data starts from an empty list.
func (p *Pool) tickList() (*td.ListProvider, error) {
	switch ticks := p.TickDataProvider.(type) {
	case *td.ListProvider:
		return ticks, nil
	case td.NoProvider:
		return td.NewListProvider(nil, p.TickSpacing())
	default:
		return nil, invariant.New(invariant.ErrNoProvider, "TICK_LIST")
	}
}

// Flash charges the pool fee on the borrowed amounts and credits it to the
// in-range liquidity.
func (p *Pool) Flash(amount0, amount1 *big.Int) (*Pool, error) {
	if p.Liquidity.Sign() <= 0 {
		return nil, invariant.New(invariant.ErrInvalidRange, "L")
	}
	fee := big.NewInt(int64(p.Fee))
	fee0 := fullmath.MulDivRoundingUp(amount0, fee, cons.E6)
	fee1 := fullmath.MulDivRoundingUp(amount1, fee, cons.E6)

	feeGrowth0 := fullmath.AddIn256(p.FeeGrowthGlobal0X128, fullmath.MulDiv(fee0, cons.Q128, p.Liquidity))
	feeGrowth1 := fullmath.AddIn256(p.FeeGrowthGlobal1X128, fullmath.MulDiv(fee1, cons.Q128, p.Liquidity))
	return p.WithFeeGrowth(feeGrowth0, feeGrowth1), nil
}

// FeeGrowthInside returns the fee growth per unit of liquidity accumulated
// between two initialized ticks.
func (p *Pool) FeeGrowthInside(tickLower, tickUpper int) (*big.Int, *big.Int, error) {
	lower, err := p.TickDataProvider.GetTick(tickLower)
	if err != nil {
		return nil, nil, err
	}
	upper, err := p.TickDataProvider.GetTick(tickUpper)
	if err != nil {
		return nil, nil, err
	}
	inside0, inside1 := td.FeeGrowthInside(lower, upper, p.TickCurrent, p.FeeGrowthGlobal0X128, p.FeeGrowthGlobal1X128)
	return inside0, inside1, nil
}
