package liquiditymath

import "math/big"

// AddDelta applies a signed liquidity delta. Callers must not let liquidity go negative.
func AddDelta(x, y *big.Int) *big.Int {
	return new(big.Int).Add(x, y)
}
