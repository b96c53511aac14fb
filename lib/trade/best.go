package trade

import (
	"errors"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/currency"
	"github.com/ftchann/v3-quoter/lib/factory"
	"github.com/ftchann/v3-quoter/lib/invariant"
	"github.com/ftchann/v3-quoter/lib/pool"
	"github.com/ftchann/v3-quoter/lib/route"
)

// BestTradeOptions bound the search. Zero values take the defaults.
type BestTradeOptions struct {
	// MaxNumResults is how many trades are kept.
	MaxNumResults int
	// MaxHops is the longest route considered.
	MaxHops int
}

func (o BestTradeOptions) withDefaults() BestTradeOptions {
	if o.MaxNumResults == 0 {
		o.MaxNumResults = 3
	}
	if o.MaxHops == 0 {
		o.MaxHops = 3
	}
	return o
}

func (o BestTradeOptions) check(pools []*pool.Pool) error {
	if len(pools) == 0 {
		return invariant.New(invariant.ErrInvalidRange, "POOLS")
	}
	if o.MaxHops <= 0 {
		return invariant.New(invariant.ErrInvalidRange, "MAX_HOPS")
	}
	if o.MaxNumResults <= 0 {
		return invariant.New(invariant.ErrInvalidRange, "MAX_SIZE_ZERO")
	}
	return nil
}

// BestTradeExactIn returns the best trades, ordered by Comparator, that
// spend amountIn for currencyOut through at most MaxHops of the given pools.
// Each pool is used at most once per route; f resolves the pool addresses.
func BestTradeExactIn(f factory.PoolFactoryProvider, pools []*pool.Pool, amountIn currency.Amount, currencyOut currency.Currency, opts BestTradeOptions) ([]*Trade, error) {
	opts = opts.withDefaults()
	if err := opts.check(pools); err != nil {
		return nil, err
	}
	s := &search{factory: f, maxResults: opts.MaxNumResults}
	if err := s.exactIn(pools, amountIn, currencyOut.Wrapped(), currencyOut, opts.MaxHops, nil, amountIn.Wrapped()); err != nil {
		return nil, err
	}
	return s.best, nil
}

// BestTradeExactOut is the reverse search: the trades that deliver amountOut
// for the least currencyIn.
func BestTradeExactOut(f factory.PoolFactoryProvider, pools []*pool.Pool, currencyIn currency.Currency, amountOut currency.Amount, opts BestTradeOptions) ([]*Trade, error) {
	opts = opts.withDefaults()
	if err := opts.check(pools); err != nil {
		return nil, err
	}
	s := &search{factory: f, maxResults: opts.MaxNumResults}
	if err := s.exactOut(pools, currencyIn, currencyIn.Wrapped(), amountOut, opts.MaxHops, nil, amountOut.Wrapped()); err != nil {
		return nil, err
	}
	return s.best, nil
}

type search struct {
	factory    factory.PoolFactoryProvider
	maxResults int
	best       []*Trade
}

func (s *search) insert(t *Trade) error {
	best, _, err := SortedInsert(s.best, t, s.maxResults, Comparator)
	if err != nil {
		return err
	}
	s.best = best
	return nil
}

func without(pools []*pool.Pool, i int) []*pool.Pool {
	rest := make([]*pool.Pool, 0, len(pools)-1)
	rest = append(rest, pools[:i]...)
	return append(rest, pools[i+1:]...)
}

// exactIn walks forward from the currency of next, the amount reaching the
// end of current.
func (s *search) exactIn(pools []*pool.Pool, amountIn currency.Amount, tokenOut *currency.Token, currencyOut currency.Currency,
	maxHops int, current []*pool.Pool, next currency.Amount) error {
	for i, p := range pools {
		if !p.InvolvesToken(next.Currency) {
			continue
		}
		amountOut, _, err := p.GetOutputAmount(next, nil)
		if errors.Is(err, invariant.ErrInsufficientInput) {
			continue
		}
		if err != nil {
			return err
		}

		path := append(append([]*pool.Pool(nil), current...), p)
		if amountOut.Currency.Equals(tokenOut) {
			r, err := route.New(path, amountIn.Currency, currencyOut)
			if err != nil {
				return err
			}
			t, err := FromRoute(s.factory, r, amountIn, cons.ExactInput)
			if err != nil {
				return err
			}
			if err := s.insert(t); err != nil {
				return err
			}
		} else if maxHops > 1 && len(pools) > 1 {
			if err := s.exactIn(without(pools, i), amountIn, tokenOut, currencyOut, maxHops-1, path, amountOut); err != nil {
				return err
			}
		}
	}
	return nil
}

// exactOut walks backward from the currency of next, the amount leaving the
// start of current.
func (s *search) exactOut(pools []*pool.Pool, currencyIn currency.Currency, tokenIn *currency.Token, amountOut currency.Amount,
	maxHops int, current []*pool.Pool, next currency.Amount) error {
	for i, p := range pools {
		if !p.InvolvesToken(next.Currency) {
			continue
		}
		amountIn, _, err := p.GetInputAmount(next, nil)
		if errors.Is(err, invariant.ErrInsufficientInput) {
			continue
		}
		if err != nil {
			return err
		}

		path := append([]*pool.Pool{p}, current...)
		if amountIn.Currency.Equals(tokenIn) {
			r, err := route.New(path, currencyIn, amountOut.Currency)
			if err != nil {
				return err
			}
			t, err := FromRoute(s.factory, r, amountOut, cons.ExactOutput)
			if err != nil {
				return err
			}
			if err := s.insert(t); err != nil {
				return err
			}
		} else if maxHops > 1 && len(pools) > 1 {
			if err := s.exactOut(without(pools, i), currencyIn, tokenIn, amountOut, maxHops-1, path, amountIn); err != nil {
				return err
			}
		}
	}
	return nil
}
