package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ftchann/v3-quoter/lib/pool"
	ent "github.com/ftchann/v3-quoter/lib/transaction"
)

const snapshotJSON = `{"pools": [{
	"token0": {"address": "0x0000000000000000000000000000000000000001", "decimals": 18, "symbol": "T0"},
	"token1": {"address": "0x0000000000000000000000000000000000000002", "decimals": 18, "symbol": "T1"},
	"fee": 500,
	"sqrtPriceX96": "79228162514264337593543950336",
	"liquidity": "1000000000000000000",
	"tick": 0,
	"ticks": [
		{"index": -887270, "liquidityGross": "1000000000000000000", "liquidityNet": "1000000000000000000"},
		{"index": 887270, "liquidityGross": "1000000000000000000", "liquidityNet": "-1000000000000000000"}
	]
}]}`

const eventsJSON = `[
	{"type": "Mint", "id": "1", "timestamp": 100, "amount": "1000000000000000000",
	 "amount0": "2995354955910781", "amount1": "2995354955910781", "tickLower": -60, "tickUpper": 60},
	{"type": "Swap", "id": "2", "timestamp": 200, "amount0": "1000000000000000", "amount1": "-999000749375499",
	 "sqrtPriceX96": "79188588017402640623892160229", "tick": -10, "useX96": "false"},
	{"type": "Burn", "id": "3", "timestamp": 300, "amount": "500000000000000000",
	 "amount0": "1747552477955390", "amount1": "1247927290611515", "tickLower": -60, "tickUpper": 60},
	{"type": "Flash", "id": "4", "timestamp": 400, "amount0": "0", "amount1": "0"}
]`

func fixture(t *testing.T) (*pool.Pool, []ent.Transaction) {
	t.Helper()
	snapshot, err := ent.ParseSnapshot([]byte(snapshotJSON))
	require.NoError(t, err)
	pools, err := snapshot.Build()
	require.NoError(t, err)
	require.Len(t, pools, 1)
	transactions, err := ent.Parse([]byte(eventsJSON))
	require.NoError(t, err)
	require.Len(t, transactions, 4)
	return pools[0], transactions
}

func TestRun(t *testing.T) {
	p, transactions := fixture(t)
	e, err := CreateExecution(p, transactions, 10, 150, zap.NewNop())
	require.NoError(t, err)
	e.Strict = true

	replay, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, replay.Mismatches)
	assert.Equal(t, 4, replay.Transactions)
	// opening price and the one swap
	assert.Equal(t, 2, e.Window().Len())
	assert.Equal(t, 100, replay.StartTime)
	assert.Equal(t, 400, replay.EndTime)
	assert.Equal(t, "79188588017402640623892160229", replay.Pool.SqrtPriceX96)
	assert.Equal(t, -10, replay.Pool.Tick)
	assert.Equal(t, "1500000000000000000", replay.Pool.Liquidity)
	assert.Len(t, replay.Pool.Ticks, 4)

	// before the events at 100, 300 and 400, and once at the end
	require.Len(t, replay.Snapshots, 4)
	assert.Equal(t, "1", replay.Snapshots[0].Price)
	assert.Equal(t, 0, replay.Snapshots[0].Tick)
	assert.Equal(t, -10, replay.Snapshots[3].Tick)

	require.Len(t, replay.Positions, 1)
	pos := replay.Positions[0]
	assert.Equal(t, -60, pos.TickLower)
	assert.Equal(t, 60, pos.TickUpper)
	assert.Equal(t, "500000000000000000", pos.Liquidity)
	assert.Equal(t, "249999999999", pos.TokensOwed0)
	assert.Equal(t, "0", pos.TokensOwed1)
	assert.Equal(t, "1747552477955390", pos.Amount0)
	assert.Equal(t, "1247927290611515", pos.Amount1)
	assert.Equal(t, "2996727383563790", pos.ValueInToken0)
}

func TestRunMismatch(t *testing.T) {
	p, transactions := fixture(t)
	transactions[1].Amount1.SetInt64(-1)

	e, err := CreateExecution(p, transactions, 10, 0, nil)
	require.NoError(t, err)
	replay, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, replay.Mismatches)
	assert.Len(t, replay.Snapshots, 1)

	e, err = CreateExecution(p, transactions, 10, 0, nil)
	require.NoError(t, err)
	e.Strict = true
	_, err = e.Run(context.Background())
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestRunErrors(t *testing.T) {
	p, transactions := fixture(t)

	_, err := CreateExecution(p, transactions, 1, 0, nil)
	assert.Error(t, err)

	e, err := CreateExecution(p, nil, 10, 0, nil)
	require.NoError(t, err)
	_, err = e.Run(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e, err = CreateExecution(p, transactions, 10, 0, nil)
	require.NoError(t, err)
	_, err = e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValueInToken0(t *testing.T) {
	sqrtPriceX96, err := ent.ParseInt("79228162514264337593543950336")
	require.NoError(t, err)
	value, err := ent.ParseInt("5")
	require.NoError(t, err)
	assert.Equal(t, "10", ValueInToken0(sqrtPriceX96, value, value).String())
}
