package pool

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/currency"
	"github.com/ftchann/v3-quoter/lib/factory"
	"github.com/ftchann/v3-quoter/lib/invariant"
	td "github.com/ftchann/v3-quoter/lib/tickdata"
	"github.com/ftchann/v3-quoter/lib/tickmath"
)

// Pool is a snapshot of a concentrated liquidity pool. Its fields must not be
// modified; swaps and liquidity changes return a new Pool.
type Pool struct {
	Token0               *currency.Token
	Token1               *currency.Token
	Fee                  cons.FeeAmount
	SqrtRatioX96         *big.Int
	Liquidity            *big.Int
	TickCurrent          int
	FeeGrowthGlobal0X128 *big.Int
	FeeGrowthGlobal1X128 *big.Int
	TickDataProvider     td.Provider

	token0Price currency.Price
	token1Price currency.Price
}

// New builds a pool from on-chain shaped state. A nil provider means the pool has
// no tick data and can only be quoted within the current word.
func New(tokenA, tokenB *currency.Token, fee cons.FeeAmount, sqrtRatioX96, liquidity *big.Int, tickCurrent int, ticks td.Provider) (*Pool, error) {
	if fee >= cons.FeeAmount(cons.E6.Int64()) {
		return nil, invariant.New(invariant.ErrInvalidRange, "FEE")
	}
	if _, ok := cons.TickSpacings[fee]; !ok {
		return nil, fmt.Errorf("fee %d has no tick spacing: %w", fee, invariant.New(invariant.ErrInvalidRange, "FEE"))
	}

	tickCurrentSqrtRatioX96, err := tickmath.GetSqrtRatioAtTick(tickCurrent)
	if err != nil {
		return nil, err
	}
	nextTickSqrtRatioX96, err := tickmath.GetSqrtRatioAtTick(tickCurrent + 1)
	if err != nil {
		return nil, err
	}
	if sqrtRatioX96.Cmp(tickCurrentSqrtRatioX96) < 0 || sqrtRatioX96.Cmp(nextTickSqrtRatioX96) > 0 {
		return nil, invariant.New(invariant.ErrInvalidRange, "PRICE_BOUNDS")
	}

	sorted, err := tokenA.SortsBefore(tokenB)
	if err != nil {
		return nil, err
	}
	token0, token1 := tokenA, tokenB
	if !sorted {
		token0, token1 = tokenB, tokenA
	}
	if ticks == nil {
		ticks = td.NoProvider{}
	}

	return newPool(token0, token1, fee, new(big.Int).Set(sqrtRatioX96), new(big.Int).Set(liquidity), tickCurrent,
		new(big.Int), new(big.Int), ticks), nil
}

// NewWithTicks builds a pool over an in-memory tick list, spaced for the fee.
func NewWithTicks(tokenA, tokenB *currency.Token, fee cons.FeeAmount, sqrtRatioX96, liquidity *big.Int, tickCurrent int, ticks []td.Tick) (*Pool, error) {
	spacing, ok := cons.TickSpacings[fee]
	if !ok {
		return nil, invariant.New(invariant.ErrInvalidRange, "FEE")
	}
	provider, err := td.NewListProvider(ticks, spacing)
	if err != nil {
		return nil, err
	}
	return New(tokenA, tokenB, fee, sqrtRatioX96, liquidity, tickCurrent, provider)
}

func newPool(token0, token1 *currency.Token, fee cons.FeeAmount, sqrtRatioX96, liquidity *big.Int, tickCurrent int, feeGrowth0, feeGrowth1 *big.Int, ticks td.Provider) *Pool {
	ratioX192 := new(big.Int).Mul(sqrtRatioX96, sqrtRatioX96)
	return &Pool{
		Token0:               token0,
		Token1:               token1,
		Fee:                  fee,
		SqrtRatioX96:         sqrtRatioX96,
		Liquidity:            liquidity,
		TickCurrent:          tickCurrent,
		FeeGrowthGlobal0X128: feeGrowth0,
		FeeGrowthGlobal1X128: feeGrowth1,
		TickDataProvider:     ticks,
		token0Price:          currency.NewPrice(token0, token1, cons.Q192, ratioX192),
		token1Price:          currency.NewPrice(token1, token0, ratioX192, cons.Q192),
	}
}

// WithFeeGrowth returns a copy of p carrying the given global fee growth.
func (p *Pool) WithFeeGrowth(feeGrowthGlobal0X128, feeGrowthGlobal1X128 *big.Int) *Pool {
	return newPool(p.Token0, p.Token1, p.Fee, p.SqrtRatioX96, p.Liquidity, p.TickCurrent,
		new(big.Int).Set(feeGrowthGlobal0X128), new(big.Int).Set(feeGrowthGlobal1X128), p.TickDataProvider)
}

func (p *Pool) TickSpacing() int {
	return cons.TickSpacings[p.Fee]
}

// Token0Price is the ratio of token1 over token0.
func (p *Pool) Token0Price() currency.Price { return p.token0Price }

// Token1Price is the ratio of token0 over token1.
func (p *Pool) Token1Price() currency.Price { return p.token1Price }

// InvolvesToken reports whether the currency is token0 or token1.
func (p *Pool) InvolvesToken(c currency.Currency) bool {
	return p.Token0.Equals(c) || p.Token1.Equals(c)
}

// PriceOf returns the price of token in terms of the other pool token.
func (p *Pool) PriceOf(token *currency.Token) (currency.Price, error) {
	if !p.InvolvesToken(token) {
		return currency.Price{}, invariant.New(invariant.ErrCurrencyMismatch, "TOKEN")
	}
	if token.Equals(p.Token0) {
		return p.token0Price, nil
	}
	return p.token1Price, nil
}

// Equal compares the pool identity: both tokens and the fee.
func (p *Pool) Equal(other *Pool) bool {
	return p.Token0.Equals(other.Token0) && p.Token1.Equals(other.Token1) && p.Fee == other.Fee
}

// Address resolves the pool's address through the factory.
func (p *Pool) Address(f factory.PoolFactoryProvider) (common.Address, error) {
	return f.GetPool(p.Token0, p.Token1, p.Fee)
}

func (p *Pool) String() string {
	return fmt.Sprintf("%v/%v %d sqrtPrice=%v liquidity=%v tick=%d", p.Token0, p.Token1, p.Fee, p.SqrtRatioX96, p.Liquidity, p.TickCurrent)
}
