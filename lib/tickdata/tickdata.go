package tickdata

import (
	"fmt"
	"math/big"

	"github.com/ftchann/v3-quoter/lib/invariant"
	"github.com/ftchann/v3-quoter/lib/tickmath"
)

type Tick struct {
	Index          int
	LiquidityGross *big.Int
	LiquidityNet   *big.Int
	// Fee growth on the other side of the tick, relative to the current tick.
	// Nil when the tick was loaded without fee data.
	FeeGrowthOutside0X128 *big.Int
	FeeGrowthOutside1X128 *big.Int
}

func NewTick(index int, liquidityGross, liquidityNet *big.Int) (Tick, error) {
	if index < tickmath.MinTick || index > tickmath.MaxTick {
		return Tick{}, invariant.New(invariant.ErrInvalidRange, "TICK")
	}
	return Tick{
		Index:          index,
		LiquidityGross: new(big.Int).Set(liquidityGross),
		LiquidityNet:   new(big.Int).Set(liquidityNet),
	}, nil
}

// Clone deep-copies the tick's integers.
func (t Tick) Clone() Tick {
	c := Tick{
		Index:          t.Index,
		LiquidityGross: new(big.Int).Set(t.LiquidityGross),
		LiquidityNet:   new(big.Int).Set(t.LiquidityNet),
	}
	if t.FeeGrowthOutside0X128 != nil {
		c.FeeGrowthOutside0X128 = new(big.Int).Set(t.FeeGrowthOutside0X128)
	}
	if t.FeeGrowthOutside1X128 != nil {
		c.FeeGrowthOutside1X128 = new(big.Int).Set(t.FeeGrowthOutside1X128)
	}
	return c
}

func (t Tick) String() string {
	return fmt.Sprintf("tick(%d gross=%v net=%v)", t.Index, t.LiquidityGross, t.LiquidityNet)
}

func feeGrowthOutside(t Tick) (*big.Int, *big.Int) {
	f0, f1 := t.FeeGrowthOutside0X128, t.FeeGrowthOutside1X128
	if f0 == nil {
		f0 = new(big.Int)
	}
	if f1 == nil {
		f1 = new(big.Int)
	}
	return f0, f1
}

// Provider answers the tick queries of the swap loop.
type Provider interface {
	// GetTick returns the initialized tick at index.
	GetTick(index int) (Tick, error)
	// NextInitializedTickWithinOneWord returns the next initialized tick in the
	// bitmap word of tick, or the word boundary when there is none.
	NextInitializedTickWithinOneWord(tick int, lte bool, tickSpacing int) (int, bool, error)
}

// ErrNoTickData is returned by NoProvider.
var ErrNoTickData = fmt.Errorf("no tick data provider was given: %w", invariant.ErrNoProvider)

// NoProvider fails every query, for pools that are never swapped across ticks.
type NoProvider struct{}

func (NoProvider) GetTick(int) (Tick, error) {
	return Tick{}, ErrNoTickData
}

func (NoProvider) NextInitializedTickWithinOneWord(int, bool, int) (int, bool, error) {
	return 0, false, ErrNoTickData
}
