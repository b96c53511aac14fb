package constants

import (
	"math/big"
)

var (
	NegativeOne = big.NewInt(-1)
	Zero        = big.NewInt(0)
	One         = big.NewInt(1)
	Two         = big.NewInt(2)
	MaxUint256  = new(big.Int).Sub(new(big.Int).Lsh(One, 256), One)
	MaxUint160  = new(big.Int).Sub(new(big.Int).Lsh(One, 160), One)
	// used in liquidity amount math
	Q32  = new(big.Int).Lsh(One, 32)
	Q96  = new(big.Int).Lsh(One, 96)
	Q128 = new(big.Int).Lsh(One, 128)
	Q192 = new(big.Int).Lsh(One, 192)
	E6   = big.NewInt(1_000_000)
)

// FeeAmount is a pool fee in hundredths of a basis point.
type FeeAmount uint32

const (
	FeeLowest FeeAmount = 100
	FeeLow    FeeAmount = 500
	FeeMedium FeeAmount = 3000
	FeeHigh   FeeAmount = 10000
)

// TickSpacings is the default tick spacing of each fee tier.
var TickSpacings = map[FeeAmount]int{
	FeeLowest: 1,
	FeeLow:    10,
	FeeMedium: 60,
	FeeHigh:   200,
}

type TradeType int

const (
	ExactInput TradeType = iota
	ExactOutput
)

func (t TradeType) String() string {
	if t == ExactOutput {
		return "EXACT_OUTPUT"
	}
	return "EXACT_INPUT"
}
