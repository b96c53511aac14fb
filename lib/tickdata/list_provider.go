package tickdata

import (
	"math/big"
	"slices"

	fm "github.com/ftchann/v3-quoter/lib/fullmath"
	"github.com/ftchann/v3-quoter/lib/invariant"
	"github.com/ftchann/v3-quoter/lib/tickmath"
)

// ListProvider serves ticks from a validated, sorted in-memory list.
// It is never modified after construction; updates return a new list.
type ListProvider struct {
	ticks       []Tick
	tickSpacing int
}

func NewListProvider(ticks []Tick, tickSpacing int) (*ListProvider, error) {
	copied := make([]Tick, len(ticks))
	for i, t := range ticks {
		if t.Index < tickmath.MinTick || t.Index > tickmath.MaxTick {
			return nil, invariant.New(invariant.ErrInvalidRange, "TICK")
		}
		copied[i] = t.Clone()
	}
	if err := ValidateList(copied, tickSpacing); err != nil {
		return nil, err
	}
	return &ListProvider{ticks: copied, tickSpacing: tickSpacing}, nil
}

func (p *ListProvider) TickSpacing() int { return p.tickSpacing }

func (p *ListProvider) Len() int { return len(p.ticks) }

// Ticks returns a copy of the list.
func (p *ListProvider) Ticks() []Tick {
	out := make([]Tick, len(p.ticks))
	for i, t := range p.ticks {
		out[i] = t.Clone()
	}
	return out
}

func (p *ListProvider) GetTick(index int) (Tick, error) {
	return GetTick(p.ticks, index)
}

func (p *ListProvider) NextInitializedTickWithinOneWord(tick int, lte bool, tickSpacing int) (int, bool, error) {
	return NextInitializedTickWithinOneWord(p.ticks, tick, lte, tickSpacing)
}

func (p *ListProvider) search(index int) (int, bool) {
	return slices.BinarySearchFunc(p.ticks, index, func(t Tick, index int) int {
		return t.Index - index
	})
}

func (p *ListProvider) clone() *ListProvider {
	return &ListProvider{ticks: slices.Clone(p.ticks), tickSpacing: p.tickSpacing}
}

// Update describes a liquidity change at one boundary of a position.
type Update struct {
	Index int
	// LiquidityDelta is positive on mint and negative on burn.
	LiquidityDelta *big.Int
	// Upper marks the upper boundary, where net liquidity moves against the delta.
	Upper bool
	// The pool state decides the fee growth of newly initialized ticks.
	TickCurrent          int
	FeeGrowthGlobal0X128 *big.Int
	FeeGrowthGlobal1X128 *big.Int
}

// WithLiquidity returns a list with the update applied. A tick whose gross
// liquidity drops to zero is removed.
func (p *ListProvider) WithLiquidity(u Update) (*ListProvider, error) {
	if u.Index < tickmath.MinTick || u.Index > tickmath.MaxTick {
		return nil, invariant.New(invariant.ErrInvalidRange, "TICK")
	}
	if u.Index%p.tickSpacing != 0 {
		return nil, invariant.New(invariant.ErrInvariantViolation, "TICK_SPACING")
	}

	next := p.clone()
	i, found := next.search(u.Index)

	var tick Tick
	if found {
		tick = next.ticks[i].Clone()
	} else {
		tick = Tick{Index: u.Index, LiquidityGross: new(big.Int), LiquidityNet: new(big.Int)}
		// by convention all growth before a tick is initialized happened below it
		if u.Index <= u.TickCurrent {
			tick.FeeGrowthOutside0X128 = orZero(u.FeeGrowthGlobal0X128)
			tick.FeeGrowthOutside1X128 = orZero(u.FeeGrowthGlobal1X128)
		} else {
			tick.FeeGrowthOutside0X128 = new(big.Int)
			tick.FeeGrowthOutside1X128 = new(big.Int)
		}
	}

	tick.LiquidityGross.Add(tick.LiquidityGross, u.LiquidityDelta)
	if tick.LiquidityGross.Sign() < 0 {
		return nil, invariant.New(invariant.ErrInvalidRange, "LS")
	}
	if u.Upper {
		tick.LiquidityNet.Sub(tick.LiquidityNet, u.LiquidityDelta)
	} else {
		tick.LiquidityNet.Add(tick.LiquidityNet, u.LiquidityDelta)
	}

	switch {
	case tick.LiquidityGross.Sign() == 0 && found:
		next.ticks = slices.Delete(next.ticks, i, i+1)
	case tick.LiquidityGross.Sign() == 0:
		// nothing to record
	case found:
		next.ticks[i] = tick
	default:
		next.ticks = slices.Insert(next.ticks, i, tick)
	}
	return next, nil
}

// Cross flips the fee growth outside the tick at index, as the pool does when the
// price moves across it.
func (p *ListProvider) Cross(index int, feeGrowthGlobal0X128, feeGrowthGlobal1X128 *big.Int) (*ListProvider, error) {
	i, found := p.search(index)
	if !found {
		return nil, invariant.New(invariant.ErrNotFound, "NOT_CONTAINED")
	}
	next := p.clone()
	tick := next.ticks[i].Clone()
	outside0, outside1 := feeGrowthOutside(tick)
	tick.FeeGrowthOutside0X128 = fm.SubIn256(feeGrowthGlobal0X128, outside0)
	tick.FeeGrowthOutside1X128 = fm.SubIn256(feeGrowthGlobal1X128, outside1)
	next.ticks[i] = tick
	return next, nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}
