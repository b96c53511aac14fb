package transaction

import (
	"encoding/json"
	"fmt"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/currency"
	"github.com/ftchann/v3-quoter/lib/pool"
	td "github.com/ftchann/v3-quoter/lib/tickdata"
)

type TokenInput struct {
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
}

type TickInput struct {
	Index          int    `json:"index"`
	LiquidityGross string `json:"liquidityGross"`
	LiquidityNet   string `json:"liquidityNet"`
}

// PoolInput is the recorded state of one pool.
type PoolInput struct {
	Token0       TokenInput  `json:"token0"`
	Token1       TokenInput  `json:"token1"`
	Fee          uint32      `json:"fee"`
	SqrtPriceX96 string      `json:"sqrtPriceX96"`
	Liquidity    string      `json:"liquidity"`
	Tick         int         `json:"tick"`
	Ticks        []TickInput `json:"ticks"`
}

type Snapshot struct {
	Pools []PoolInput `json:"pools"`
}

func ParseSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

func (t TokenInput) Token() (*currency.Token, error) {
	return currency.ParseToken(t.Address, t.Decimals, t.Symbol, t.Name)
}

// Pool builds the immutable pool the record describes.
func (in PoolInput) Pool() (*pool.Pool, error) {
	token0, err := in.Token0.Token()
	if err != nil {
		return nil, fmt.Errorf("token0: %w", err)
	}
	token1, err := in.Token1.Token()
	if err != nil {
		return nil, fmt.Errorf("token1: %w", err)
	}
	sqrtPriceX96, err := ParseInt(in.SqrtPriceX96)
	if err != nil {
		return nil, fmt.Errorf("sqrtPriceX96: %w", err)
	}
	liquidity, err := ParseInt(in.Liquidity)
	if err != nil {
		return nil, fmt.Errorf("liquidity: %w", err)
	}
	ticks := make([]td.Tick, 0, len(in.Ticks))
	for _, ti := range in.Ticks {
		gross, err := ParseInt(ti.LiquidityGross)
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", ti.Index, err)
		}
		net, err := ParseInt(ti.LiquidityNet)
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", ti.Index, err)
		}
		tick, err := td.NewTick(ti.Index, gross, net)
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", ti.Index, err)
		}
		ticks = append(ticks, tick)
	}
	return pool.NewWithTicks(token0, token1, cons.FeeAmount(in.Fee), sqrtPriceX96, liquidity, in.Tick, ticks)
}

func (s Snapshot) Build() ([]*pool.Pool, error) {
	pools := make([]*pool.Pool, 0, len(s.Pools))
	for i, in := range s.Pools {
		p, err := in.Pool()
		if err != nil {
			return nil, fmt.Errorf("pool %d: %w", i, err)
		}
		pools = append(pools, p)
	}
	return pools, nil
}

// PoolRecord is the inverse of PoolInput.Pool.
func PoolRecord(p *pool.Pool) PoolInput {
	in := PoolInput{
		Token0:       tokenRecord(p.Token0),
		Token1:       tokenRecord(p.Token1),
		Fee:          uint32(p.Fee),
		SqrtPriceX96: p.SqrtRatioX96.String(),
		Liquidity:    p.Liquidity.String(),
		Tick:         p.TickCurrent,
	}
	if list, ok := p.TickDataProvider.(*td.ListProvider); ok {
		for _, t := range list.Ticks() {
			in.Ticks = append(in.Ticks, TickInput{
				Index:          t.Index,
				LiquidityGross: t.LiquidityGross.String(),
				LiquidityNet:   t.LiquidityNet.String(),
			})
		}
	}
	return in
}

func tokenRecord(t *currency.Token) TokenInput {
	return TokenInput{Address: t.Address.Hex(), Decimals: t.Decimals(), Symbol: t.Symbol(), Name: t.Name()}
}
