// Package result holds the JSON records the command line prints.
package result

import (
	"strings"

	"github.com/ftchann/v3-quoter/lib/fraction"
	"github.com/ftchann/v3-quoter/lib/trade"
	"github.com/ftchann/v3-quoter/lib/transaction"
)

// Snapshot is the replayed pool state at one point in time.
type Snapshot struct {
	Timestamp int    `json:"timestamp"`
	Tick      int    `json:"tick"`
	Liquidity string `json:"liquidity"`
	Price     string `json:"price"`
}

type Quote struct {
	TradeType        string `json:"trade_type"`
	Route            string `json:"route"`
	InputAmount      string `json:"input_amount"`
	OutputAmount     string `json:"output_amount"`
	ExecutionPrice   string `json:"execution_price"`
	PriceImpact      string `json:"price_impact"`
	MinimumAmountOut string `json:"minimum_amount_out"`
	MaximumAmountIn  string `json:"maximum_amount_in"`
}

type PositionAmounts struct {
	TickLower     int    `json:"tick_lower"`
	TickUpper     int    `json:"tick_upper"`
	Liquidity     string `json:"liquidity"`
	Amount0       string `json:"amount0"`
	Amount1       string `json:"amount1"`
	MintAmount0   string `json:"mint_amount0_with_slippage"`
	MintAmount1   string `json:"mint_amount1_with_slippage"`
	BurnAmount0   string `json:"burn_amount0_with_slippage"`
	BurnAmount1   string `json:"burn_amount1_with_slippage"`
	TokensOwed0   string `json:"tokens_owed0,omitempty"`
	TokensOwed1   string `json:"tokens_owed1,omitempty"`
	ValueInToken0 string `json:"value_in_token0,omitempty"`
}

type Replay struct {
	StartTime       int                   `json:"start_time"`
	EndTime         int                   `json:"end_time"`
	Transactions    int                   `json:"transactions"`
	Mismatches      int                   `json:"mismatches"`
	PriceAverage    string                `json:"price_average_x192"`
	PriceVolatility string                `json:"price_volatility_x192"`
	Pool            transaction.PoolInput `json:"pool"`
	Positions       []PositionAmounts     `json:"positions"`
	Snapshots       []Snapshot            `json:"snapshots,omitempty"`
	Bands           *Range                `json:"bands,omitempty"`
}

type Range struct {
	TickLower int `json:"tick_lower"`
	TickUpper int `json:"tick_upper"`
}

// FromTrade renders a trade, with the slippage bounds at the given tolerance.
func FromTrade(t *trade.Trade, slippageTolerance fraction.Percent) (Quote, error) {
	minOut, err := t.MinimumAmountOut(slippageTolerance)
	if err != nil {
		return Quote{}, err
	}
	maxIn, err := t.MaximumAmountIn(slippageTolerance)
	if err != nil {
		return Quote{}, err
	}
	routes := make([]string, len(t.Swaps))
	for i, s := range t.Swaps {
		routes[i] = s.Route.String()
	}
	return Quote{
		TradeType:        t.TradeType.String(),
		Route:            strings.Join(routes, ", "),
		InputAmount:      t.InputAmount().String(),
		OutputAmount:     t.OutputAmount().String(),
		ExecutionPrice:   t.ExecutionPrice().String(),
		PriceImpact:      t.PriceImpact().ToFixed(2, fraction.RoundHalfUp),
		MinimumAmountOut: minOut.Quotient().String(),
		MaximumAmountIn:  maxIn.Quotient().String(),
	}, nil
}
