package tickdata

import (
	"math/big"

	"github.com/ftchann/v3-quoter/lib/invariant"
)

// ValidateList checks that ticks are strictly ascending multiples of tickSpacing
// whose net liquidity sums to zero.
func ValidateList(ticks []Tick, tickSpacing int) error {
	if tickSpacing <= 0 {
		return invariant.New(invariant.ErrInvalidRange, "TICK_SPACING_NONZERO")
	}
	sum := new(big.Int)
	for i, t := range ticks {
		if t.Index%tickSpacing != 0 {
			return invariant.New(invariant.ErrInvariantViolation, "TICK_SPACING")
		}
		sum.Add(sum, t.LiquidityNet)
		if i > 0 && ticks[i-1].Index >= t.Index {
			return invariant.New(invariant.ErrInvalidOrdering, "SORTED")
		}
	}
	if sum.Sign() != 0 {
		return invariant.New(invariant.ErrInvariantViolation, "ZERO_NET")
	}
	return nil
}

func IsBelowSmallest(ticks []Tick, tick int) (bool, error) {
	if len(ticks) == 0 {
		return false, invariant.New(invariant.ErrInvalidRange, "LENGTH")
	}
	return tick < ticks[0].Index, nil
}

func IsAtOrAboveLargest(ticks []Tick, tick int) (bool, error) {
	if len(ticks) == 0 {
		return false, invariant.New(invariant.ErrInvalidRange, "LENGTH")
	}
	return tick >= ticks[len(ticks)-1].Index, nil
}

// GetTick returns the tick with exactly this index. Every absent index fails
// with ErrNotFound.
func GetTick(ticks []Tick, index int) (Tick, error) {
	if len(ticks) == 0 {
		return Tick{}, invariant.New(invariant.ErrNotFound, "LENGTH")
	}
	if index < ticks[0].Index {
		return Tick{}, invariant.New(invariant.ErrNotFound, "BELOW_SMALLEST")
	}
	i, err := binarySearch(ticks, index)
	if err != nil {
		return Tick{}, err
	}
	if ticks[i].Index != index {
		return Tick{}, invariant.New(invariant.ErrNotFound, "NOT_CONTAINED")
	}
	return ticks[i], nil
}

// binarySearch finds the largest tick in the list that is less than or equal to tick.
func binarySearch(ticks []Tick, tick int) (int, error) {
	below, err := IsBelowSmallest(ticks, tick)
	if err != nil {
		return 0, err
	}
	if below {
		return 0, invariant.New(invariant.ErrInvalidRange, "BELOW_SMALLEST")
	}

	l := 0
	r := len(ticks) - 1
	var i int
	for {
		i = (l + r) / 2
		if ticks[i].Index <= tick && (i == len(ticks)-1 || ticks[i+1].Index > tick) {
			return i, nil
		}
		if ticks[i].Index < tick {
			l = i + 1
		} else {
			r = i - 1
		}
	}
}

// NextInitializedTick returns the nearest tick at or below tick when lte, else the
// nearest tick strictly above it.
func NextInitializedTick(ticks []Tick, tick int, lte bool) (Tick, error) {
	below, err := IsBelowSmallest(ticks, tick)
	if err != nil {
		return Tick{}, err
	}
	atOrAbove, _ := IsAtOrAboveLargest(ticks, tick)

	if lte {
		if below {
			return Tick{}, invariant.New(invariant.ErrInvalidRange, "BELOW_SMALLEST")
		}
		if atOrAbove {
			return ticks[len(ticks)-1], nil
		}
		index, err := binarySearch(ticks, tick)
		if err != nil {
			return Tick{}, err
		}
		return ticks[index], nil
	}

	if atOrAbove {
		return Tick{}, invariant.New(invariant.ErrInvalidRange, "AT_OR_ABOVE_LARGEST")
	}
	if below {
		return ticks[0], nil
	}
	index, err := binarySearch(ticks, tick)
	if err != nil {
		return Tick{}, err
	}
	return ticks[index+1], nil
}

// NextInitializedTickWithinOneWord mirrors the 256-tick bitmap words of the pool
// contract. An empty list yields the word boundary, uninitialized.
func NextInitializedTickWithinOneWord(ticks []Tick, tick int, lte bool, tickSpacing int) (int, bool, error) {
	compressed := floorDiv(tick, tickSpacing)

	if lte {
		wordPos := compressed >> 8
		minimum := (wordPos << 8) * tickSpacing
		if len(ticks) == 0 {
			return minimum, false, nil
		}
		if below, _ := IsBelowSmallest(ticks, tick); below {
			return minimum, false, nil
		}
		next, err := NextInitializedTick(ticks, tick, lte)
		if err != nil {
			return 0, false, err
		}
		nextInitializedTick := max(minimum, next.Index)
		return nextInitializedTick, nextInitializedTick == next.Index, nil
	}

	wordPos := (compressed + 1) >> 8
	maximum := (((wordPos + 1) << 8) - 1) * tickSpacing
	if len(ticks) == 0 {
		return maximum, false, nil
	}
	if atOrAbove, _ := IsAtOrAboveLargest(ticks, tick); atOrAbove {
		return maximum, false, nil
	}
	next, err := NextInitializedTick(ticks, tick, lte)
	if err != nil {
		return 0, false, err
	}
	nextInitializedTick := min(maximum, next.Index)
	return nextInitializedTick, nextInitializedTick == next.Index, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
