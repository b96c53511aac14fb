// Package executor replays recorded pool events against an immutable pool.
package executor

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"go.uber.org/zap"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/fraction"
	"github.com/ftchann/v3-quoter/lib/fullmath"
	la "github.com/ftchann/v3-quoter/lib/liquidity_amounts"
	"github.com/ftchann/v3-quoter/lib/pool"
	"github.com/ftchann/v3-quoter/lib/position"
	"github.com/ftchann/v3-quoter/lib/prices"
	"github.com/ftchann/v3-quoter/lib/result"
	"github.com/ftchann/v3-quoter/lib/tickmath"
	ent "github.com/ftchann/v3-quoter/lib/transaction"
)

// ErrMismatch is returned in strict mode when a replayed event disagrees with
// its record.
var ErrMismatch = errors.New("replayed event does not match its record")

// positions are tracked per range; events carry no owner
type positionKey struct {
	lower, upper int
}

type Execution struct {
	Pool             *pool.Pool
	Transactions     []ent.Transaction
	SnapshotInterval int
	// Strict stops the replay at the first mismatch.
	Strict bool

	Snapshots  []result.Snapshot
	Mismatches int

	window    *prices.Window
	positions map[positionKey]*position.Info
	logger    *zap.Logger
}

func CreateExecution(p *pool.Pool, transactions []ent.Transaction, windowSize, snapshotInterval int, logger *zap.Logger) (*Execution, error) {
	window, err := prices.NewWindow(windowSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Execution{
		Pool:             p,
		Transactions:     transactions,
		SnapshotInterval: snapshotInterval,
		window:           window,
		positions:        make(map[positionKey]*position.Info),
		logger:           logger,
	}, nil
}

// Window holds the pool price before the replay and after every swap.
func (e *Execution) Window() *prices.Window { return e.window }

// Run applies every transaction in order and summarizes the final state.
func (e *Execution) Run(ctx context.Context) (result.Replay, error) {
	if len(e.Transactions) == 0 {
		return result.Replay{}, fmt.Errorf("no transactions to replay")
	}
	startTime := e.Transactions[0].Timestamp
	nextSnapshot := startTime
	e.window.Add(e.Pool.SqrtRatioX96)

	for _, trans := range e.Transactions {
		if err := ctx.Err(); err != nil {
			return result.Replay{}, err
		}
		if e.SnapshotInterval > 0 && trans.Timestamp >= nextSnapshot {
			e.snapshot(trans.Timestamp)
			for nextSnapshot <= trans.Timestamp {
				nextSnapshot += e.SnapshotInterval
			}
		}
		if err := e.apply(trans); err != nil {
			return result.Replay{}, fmt.Errorf("transaction %s: %w", trans.ID, err)
		}
	}

	endTime := e.Transactions[len(e.Transactions)-1].Timestamp
	e.snapshot(endTime)
	positions, err := e.positionAmounts()
	if err != nil {
		return result.Replay{}, err
	}
	e.logger.Info("replay done",
		zap.Int("transactions", len(e.Transactions)),
		zap.Int("mismatches", e.Mismatches),
		zap.Int("tick", e.Pool.TickCurrent),
		zap.Stringer("liquidity", e.Pool.Liquidity),
	)
	return result.Replay{
		StartTime:       startTime,
		EndTime:         endTime,
		Transactions:    len(e.Transactions),
		Mismatches:      e.Mismatches,
		PriceAverage:    e.window.Average().String(),
		PriceVolatility: e.window.Volatility().String(),
		Pool:            ent.PoolRecord(e.Pool),
		Positions:       positions,
		Snapshots:       e.Snapshots,
	}, nil
}

func (e *Execution) apply(trans ent.Transaction) error {
	switch trans.Type {
	case ent.Mint:
		if trans.Amount.Sign() == 0 {
			return nil
		}
		return e.modify(trans, trans.Amount)
	case ent.Burn:
		if trans.Amount.Sign() == 0 {
			return nil
		}
		return e.modify(trans, new(big.Int).Neg(trans.Amount))
	case ent.Swap:
		return e.swap(trans)
	case ent.Flash:
		next, err := e.Pool.Flash(trans.Amount0, trans.Amount1)
		if err != nil {
			return err
		}
		e.Pool = next
		return nil
	}
	return fmt.Errorf("unknown type %q", trans.Type)
}

func (e *Execution) modify(trans ent.Transaction, liquidityDelta *big.Int) error {
	key := positionKey{trans.TickLower, trans.TickUpper}
	burn := liquidityDelta.Sign() < 0

	// a burn may clear the ticks, so its fee growth is read before
	var fg0, fg1 *big.Int
	var err error
	if burn {
		if fg0, fg1, err = e.Pool.FeeGrowthInside(trans.TickLower, trans.TickUpper); err != nil {
			return err
		}
	}
	next, amount0, amount1, err := e.Pool.ModifyLiquidity(trans.TickLower, trans.TickUpper, liquidityDelta)
	if err != nil {
		return err
	}
	if !burn {
		if fg0, fg1, err = next.FeeGrowthInside(trans.TickLower, trans.TickUpper); err != nil {
			return err
		}
	}
	e.Pool = next

	if err := e.check(trans, new(big.Int).Abs(amount0), new(big.Int).Abs(amount1)); err != nil {
		return err
	}

	info, ok := e.positions[key]
	if !ok {
		if burn {
			// minted before the snapshot
			return nil
		}
		info = position.NewInfo()
	}
	if burn && info.Liquidity.Cmp(trans.Amount) < 0 {
		// part of the range was minted before the snapshot
		liquidityDelta = new(big.Int).Neg(info.Liquidity)
	}
	if info.Liquidity.Sign() == 0 && liquidityDelta.Sign() == 0 {
		return nil
	}
	if info, err = info.Update(liquidityDelta, fg0, fg1); err != nil {
		return err
	}
	e.positions[key] = info
	return nil
}

func (e *Execution) swap(trans ent.Transaction) error {
	var zeroForOne bool
	var amountIn *big.Int
	switch {
	case trans.Amount0.Sign() > 0:
		zeroForOne, amountIn = true, trans.Amount0
	case trans.Amount1.Sign() > 0:
		zeroForOne, amountIn = false, trans.Amount1
	default:
		return nil
	}
	var limit *big.Int
	if trans.UseX96 {
		limit = trans.SqrtPriceX96
	}
	res, err := e.Pool.Swap(zeroForOne, amountIn, limit)
	if err != nil {
		return err
	}
	e.Pool = res.Pool
	e.window.Add(e.Pool.SqrtRatioX96)

	if err := e.check(trans, res.Amount0, res.Amount1); err != nil {
		return err
	}
	if trans.SqrtPriceX96 != nil && trans.SqrtPriceX96.Sign() > 0 &&
		(trans.SqrtPriceX96.Cmp(e.Pool.SqrtRatioX96) != 0 || trans.Tick != e.Pool.TickCurrent) {
		return e.mismatch(trans,
			zap.Stringer("want_sqrt_price", trans.SqrtPriceX96),
			zap.Stringer("sqrt_price", e.Pool.SqrtRatioX96),
			zap.Int("want_tick", trans.Tick),
			zap.Int("tick", e.Pool.TickCurrent),
		)
	}
	return nil
}

func (e *Execution) check(trans ent.Transaction, amount0, amount1 *big.Int) error {
	if trans.Amount0.Cmp(amount0) == 0 && trans.Amount1.Cmp(amount1) == 0 {
		return nil
	}
	return e.mismatch(trans,
		zap.Stringer("want_amount0", trans.Amount0),
		zap.Stringer("amount0", amount0),
		zap.Stringer("want_amount1", trans.Amount1),
		zap.Stringer("amount1", amount1),
	)
}

func (e *Execution) mismatch(trans ent.Transaction, fields ...zap.Field) error {
	e.Mismatches++
	e.logger.Warn("mismatch", append([]zap.Field{zap.String("id", trans.ID), zap.String("type", trans.Type)}, fields...)...)
	if e.Strict {
		return ErrMismatch
	}
	return nil
}

func (e *Execution) snapshot(timestamp int) {
	e.Snapshots = append(e.Snapshots, result.Snapshot{
		Timestamp: timestamp,
		Tick:      e.Pool.TickCurrent,
		Liquidity: e.Pool.Liquidity.String(),
		Price:     e.Pool.Token0Price().ToSignificant(6, fraction.RoundHalfUp),
	})
}

// ValueInToken0 prices amount1 at the sqrt price and adds it to amount0.
func ValueInToken0(sqrtPriceX96, amount0, amount1 *big.Int) *big.Int {
	priceSquareX192 := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	amount1to0 := fullmath.MulDiv(amount1, cons.Q192, priceSquareX192)
	return amount1to0.Add(amount1to0, amount0)
}

func (e *Execution) positionAmounts() ([]result.PositionAmounts, error) {
	keys := make([]positionKey, 0, len(e.positions))
	for k := range e.positions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].lower != keys[j].lower {
			return keys[i].lower < keys[j].lower
		}
		return keys[i].upper < keys[j].upper
	})

	out := make([]result.PositionAmounts, 0, len(keys))
	for _, k := range keys {
		info := e.positions[k]
		if info.Liquidity.Sign() > 0 {
			// credit the fees earned since the last event
			fg0, fg1, err := e.Pool.FeeGrowthInside(k.lower, k.upper)
			if err != nil {
				return nil, err
			}
			if info, err = info.Update(cons.Zero, fg0, fg1); err != nil {
				return nil, err
			}
		}
		sqrtLower, err := tickmath.GetSqrtRatioAtTick(k.lower)
		if err != nil {
			return nil, err
		}
		sqrtUpper, err := tickmath.GetSqrtRatioAtTick(k.upper)
		if err != nil {
			return nil, err
		}
		amount0, amount1 := la.GetAmountsForLiquidity(e.Pool.SqrtRatioX96, sqrtLower, sqrtUpper, info.Liquidity)
		out = append(out, result.PositionAmounts{
			TickLower:     k.lower,
			TickUpper:     k.upper,
			Liquidity:     info.Liquidity.String(),
			Amount0:       amount0.String(),
			Amount1:       amount1.String(),
			TokensOwed0:   info.TokensOwed0.String(),
			TokensOwed1:   info.TokensOwed1.String(),
			ValueInToken0: ValueInToken0(e.Pool.SqrtRatioX96, amount0, amount1).String(),
		})
	}
	return out, nil
}
