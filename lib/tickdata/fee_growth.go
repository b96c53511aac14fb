package tickdata

import (
	"math/big"

	fm "github.com/ftchann/v3-quoter/lib/fullmath"
)

// FeeGrowthInside returns the per-liquidity fee growth between lower and upper.
// All values are Q128 and wrap at 256 bits.
func FeeGrowthInside(lower, upper Tick, tickCurrent int, feeGrowthGlobal0X128, feeGrowthGlobal1X128 *big.Int) (*big.Int, *big.Int) {
	lower0, lower1 := feeGrowthOutside(lower)
	upper0, upper1 := feeGrowthOutside(upper)

	var below0, below1 *big.Int
	if tickCurrent >= lower.Index {
		below0, below1 = lower0, lower1
	} else {
		below0 = fm.SubIn256(feeGrowthGlobal0X128, lower0)
		below1 = fm.SubIn256(feeGrowthGlobal1X128, lower1)
	}

	var above0, above1 *big.Int
	if tickCurrent < upper.Index {
		above0, above1 = upper0, upper1
	} else {
		above0 = fm.SubIn256(feeGrowthGlobal0X128, upper0)
		above1 = fm.SubIn256(feeGrowthGlobal1X128, upper1)
	}

	inside0 := fm.SubIn256(fm.SubIn256(feeGrowthGlobal0X128, below0), above0)
	inside1 := fm.SubIn256(fm.SubIn256(feeGrowthGlobal1X128, below1), above1)
	return inside0, inside1
}
