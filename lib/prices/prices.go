package prices

import (
	"math/big"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/currency"
	"github.com/ftchann/v3-quoter/lib/tickmath"
)

// EncodeSqrtRatioX96 returns floor(sqrt(amount1/amount0)) as a Q64.96. Both amounts must be positive.
func EncodeSqrtRatioX96(amount1, amount0 *big.Int) *big.Int {
	numerator := new(big.Int).Lsh(amount1, 192)
	ratioX192 := numerator.Div(numerator, amount0)
	return ratioX192.Sqrt(ratioX192)
}

// DecodeSqrtRatioX96 returns the price of a Q64.96 sqrt ratio as a float.
func DecodeSqrtRatioX96(sqrtRatioX96 *big.Int) float64 {
	sq := new(big.Int).Mul(sqrtRatioX96, sqrtRatioX96)
	f := new(big.Float).SetPrec(256).SetInt(sq)
	f.Quo(f, new(big.Float).SetPrec(256).SetInt(cons.Q192))
	v, _ := f.Float64()
	return v
}

// TickToPrice returns the price of baseToken in quoteToken at tick.
// Token order decides which way the tick is read.
func TickToPrice(baseToken, quoteToken *currency.Token, tick int) (currency.Price, error) {
	sqrtRatioX96, err := tickmath.GetSqrtRatioAtTick(tick)
	if err != nil {
		return currency.Price{}, err
	}
	ratioX192 := new(big.Int).Mul(sqrtRatioX96, sqrtRatioX96)

	sorted, err := baseToken.SortsBefore(quoteToken)
	if err != nil {
		return currency.Price{}, err
	}
	if sorted {
		return currency.NewPrice(baseToken, quoteToken, cons.Q192, ratioX192), nil
	}
	return currency.NewPrice(baseToken, quoteToken, ratioX192, cons.Q192), nil
}

// PriceToClosestTick returns the greatest tick whose price is at most price.
func PriceToClosestTick(price currency.Price) (int, error) {
	baseToken := price.BaseCurrency.Wrapped()
	quoteToken := price.QuoteCurrency.Wrapped()

	sorted, err := baseToken.SortsBefore(quoteToken)
	if err != nil {
		return 0, err
	}
	var sqrtRatioX96 *big.Int
	if sorted {
		sqrtRatioX96 = EncodeSqrtRatioX96(price.Numerator, price.Denominator)
	} else {
		sqrtRatioX96 = EncodeSqrtRatioX96(price.Denominator, price.Numerator)
	}

	tick, err := tickmath.GetTickAtSqrtRatio(sqrtRatioX96)
	if err != nil {
		return 0, err
	}
	nextTickPrice, err := TickToPrice(baseToken, quoteToken, tick+1)
	if err != nil {
		return 0, err
	}
	if sorted {
		if !price.LessThan(nextTickPrice) {
			tick++
		}
	} else if !price.GreaterThan(nextTickPrice) {
		tick++
	}
	return tick, nil
}
