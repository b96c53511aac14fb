package position

import (
	"fmt"
	"math/big"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/fullmath"
	"github.com/ftchann/v3-quoter/lib/invariant"
)

// Info is the pool's ledger entry for one owner and tick range.
type Info struct {
	Liquidity                *big.Int
	FeeGrowthInside0LastX128 *big.Int
	FeeGrowthInside1LastX128 *big.Int
	TokensOwed0              *big.Int
	TokensOwed1              *big.Int
}

func NewInfo() *Info {
	return &Info{
		Liquidity:                new(big.Int),
		FeeGrowthInside0LastX128: new(big.Int),
		FeeGrowthInside1LastX128: new(big.Int),
		TokensOwed0:              new(big.Int),
		TokensOwed1:              new(big.Int),
	}
}

func (i *Info) Clone() *Info {
	return &Info{
		Liquidity:                new(big.Int).Set(i.Liquidity),
		FeeGrowthInside0LastX128: new(big.Int).Set(i.FeeGrowthInside0LastX128),
		FeeGrowthInside1LastX128: new(big.Int).Set(i.FeeGrowthInside1LastX128),
		TokensOwed0:              new(big.Int).Set(i.TokensOwed0),
		TokensOwed1:              new(big.Int).Set(i.TokensOwed1),
	}
}

// TokensOwed returns the fees earned by liquidity since the fee growth last seen.
func TokensOwed(feeGrowthInside0LastX128, feeGrowthInside1LastX128, liquidity, feeGrowthInside0X128, feeGrowthInside1X128 *big.Int) (*big.Int, *big.Int) {
	owed0 := fullmath.MulDiv(fullmath.SubIn256(feeGrowthInside0X128, feeGrowthInside0LastX128), liquidity, cons.Q128)
	owed1 := fullmath.MulDiv(fullmath.SubIn256(feeGrowthInside1X128, feeGrowthInside1LastX128), liquidity, cons.Q128)
	return owed0, owed1
}

// Update credits the fees earned since the last update and applies the
// liquidity delta. It returns a new entry.
func (i *Info) Update(liquidityDelta, feeGrowthInside0X128, feeGrowthInside1X128 *big.Int) (*Info, error) {
	if liquidityDelta.Sign() == 0 && i.Liquidity.Sign() == 0 {
		// disallow pokes for 0 liquidity positions
		return nil, invariant.New(invariant.ErrInvalidRange, "NP")
	}
	liquidity := new(big.Int).Add(i.Liquidity, liquidityDelta)
	if liquidity.Sign() < 0 {
		return nil, fmt.Errorf("burn %v of %v: %w", liquidityDelta, i.Liquidity, invariant.New(invariant.ErrInvalidRange, "LS"))
	}
	owed0, owed1 := TokensOwed(i.FeeGrowthInside0LastX128, i.FeeGrowthInside1LastX128, i.Liquidity, feeGrowthInside0X128, feeGrowthInside1X128)
	return &Info{
		Liquidity:                liquidity,
		FeeGrowthInside0LastX128: new(big.Int).Set(feeGrowthInside0X128),
		FeeGrowthInside1LastX128: new(big.Int).Set(feeGrowthInside1X128),
		TokensOwed0:              owed0.Add(owed0, i.TokensOwed0),
		TokensOwed1:              owed1.Add(owed1, i.TokensOwed1),
	}, nil
}

// Collect pays out the owed tokens, up to the requested amounts.
func (i *Info) Collect(amount0Requested, amount1Requested *big.Int) (next *Info, amount0, amount1 *big.Int) {
	amount0 = new(big.Int).Set(i.TokensOwed0)
	if amount0Requested.Cmp(amount0) < 0 {
		amount0.Set(amount0Requested)
	}
	amount1 = new(big.Int).Set(i.TokensOwed1)
	if amount1Requested.Cmp(amount1) < 0 {
		amount1.Set(amount1Requested)
	}
	next = i.Clone()
	next.TokensOwed0.Sub(next.TokensOwed0, amount0)
	next.TokensOwed1.Sub(next.TokensOwed1, amount1)
	return
}
