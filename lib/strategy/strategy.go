// Package strategy picks tick ranges for liquidity positions.
package strategy

import (
	"math/big"

	"github.com/ftchann/v3-quoter/lib/fullmath"
	"github.com/ftchann/v3-quoter/lib/invariant"
	"github.com/ftchann/v3-quoter/lib/pool"
	"github.com/ftchann/v3-quoter/lib/position"
	"github.com/ftchann/v3-quoter/lib/prices"
	"github.com/ftchann/v3-quoter/lib/tickmath"
)

// Range is a tick interval usable by the pool it was picked for.
type Range struct {
	Lower int
	Upper int
}

// AroundPrice is [tc-width, tc+width] where tc is the current tick.
func AroundPrice(p *pool.Pool, width int) (Range, error) {
	if width <= 0 {
		return Range{}, invariant.New(invariant.ErrInvalidRange, "WIDTH")
	}
	lower := max(p.TickCurrent-width, tickmath.MinTick)
	upper := min(p.TickCurrent+width, tickmath.MaxTick)
	return snap(lower, upper, p.TickSpacing())
}

// BollingerBands is [pa - c*o, pa + c*o] where pa is the average price of the
// window, o its volatility and c = multiplierQ10 / 1024.
func BollingerBands(p *pool.Pool, w *prices.Window, multiplierQ10 int64) (Range, error) {
	if w.Len() == 0 {
		return Range{}, invariant.New(invariant.ErrInvalidRange, "WINDOW_EMPTY")
	}
	if multiplierQ10 < 0 {
		return Range{}, invariant.New(invariant.ErrInvalidRange, "MULTIPLIER")
	}
	priceX192 := w.Average()
	band := new(big.Int).Mul(w.Volatility(), big.NewInt(multiplierQ10))
	band.Rsh(band, 10)

	lower := tickmath.MinTick
	if lowerX192 := new(big.Int).Sub(priceX192, band); lowerX192.Sign() > 0 {
		tick, err := tickAtPriceX192(lowerX192)
		if err != nil {
			return Range{}, err
		}
		lower = tick
	}
	upper, err := tickAtPriceX192(new(big.Int).Add(priceX192, band))
	if err != nil {
		return Range{}, err
	}
	return snap(lower, upper, p.TickSpacing())
}

// Size mints as much liquidity on the range as the budget pays for.
func Size(p *pool.Pool, r Range, amount0, amount1 *big.Int) (*position.Position, error) {
	return position.FromAmounts(p, r.Lower, r.Upper, amount0, amount1, true)
}

// tickAtPriceX192 clamps prices outside the tick math bounds to MinTick or MaxTick.
func tickAtPriceX192(priceX192 *big.Int) (int, error) {
	sqrtPriceX96, err := fullmath.Sqrt(priceX192)
	if err != nil {
		return 0, err
	}
	if sqrtPriceX96.Cmp(tickmath.MinSqrtRatio) < 0 {
		return tickmath.MinTick, nil
	}
	if sqrtPriceX96.Cmp(tickmath.MaxSqrtRatio) >= 0 {
		return tickmath.MaxTick, nil
	}
	return tickmath.GetTickAtSqrtRatio(sqrtPriceX96)
}

func snap(lower, upper, tickSpacing int) (Range, error) {
	lower, err := tickmath.NearestUsableTick(lower, tickSpacing)
	if err != nil {
		return Range{}, err
	}
	upper, err = tickmath.NearestUsableTick(upper, tickSpacing)
	if err != nil {
		return Range{}, err
	}
	if lower >= upper {
		// both ends rounded onto the same tick
		if lower+tickSpacing <= tickmath.MaxTick {
			upper = lower + tickSpacing
		} else {
			lower = upper - tickSpacing
		}
	}
	return Range{Lower: lower, Upper: upper}, nil
}
