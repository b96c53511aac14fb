// Package trade quotes swaps along one or more routes and searches the pools
// for the best ones.
package trade

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/currency"
	"github.com/ftchann/v3-quoter/lib/factory"
	"github.com/ftchann/v3-quoter/lib/fraction"
	"github.com/ftchann/v3-quoter/lib/invariant"
	"github.com/ftchann/v3-quoter/lib/route"
)

// Swap is the part of a trade sent through a single route.
type Swap struct {
	Route        *route.Route
	InputAmount  currency.Amount
	OutputAmount currency.Amount
}

// RouteAmount pairs a route with the amount fixed by the trade type.
type RouteAmount struct {
	Route  *route.Route
	Amount currency.Amount
}

// Trade is a quoted exchange of one currency for another split over routes
// that all start and end in the same currencies.
type Trade struct {
	Swaps     []Swap
	TradeType cons.TradeType

	inputAmount    currency.Amount
	outputAmount   currency.Amount
	executionPrice currency.Price
	priceImpact    fraction.Percent
}

// New builds a trade from already quoted swaps.
func New(swaps []Swap, tradeType cons.TradeType) (*Trade, error) {
	if len(swaps) == 0 {
		return nil, invariant.New(invariant.ErrInvalidRange, "ROUTES")
	}
	inputCurrency := swaps[0].InputAmount.Currency
	outputCurrency := swaps[0].OutputAmount.Currency
	for _, s := range swaps {
		if !inputCurrency.Wrapped().Equals(s.Route.Input.Wrapped()) {
			return nil, invariant.New(invariant.ErrCurrencyMismatch, "INPUT_CURRENCY_MATCH")
		}
		if !outputCurrency.Wrapped().Equals(s.Route.Output.Wrapped()) {
			return nil, invariant.New(invariant.ErrCurrencyMismatch, "OUTPUT_CURRENCY_MATCH")
		}
	}

	t := &Trade{Swaps: append([]Swap(nil), swaps...), TradeType: tradeType}
	var err error
	if t.inputAmount, err = sum(swaps, func(s Swap) currency.Amount { return s.InputAmount }); err != nil {
		return nil, err
	}
	if t.outputAmount, err = sum(swaps, func(s Swap) currency.Amount { return s.OutputAmount }); err != nil {
		return nil, err
	}
	t.executionPrice = currency.NewPrice(
		t.inputAmount.Currency, t.outputAmount.Currency,
		t.inputAmount.Quotient(), t.outputAmount.Quotient(),
	)
	if t.priceImpact, err = t.computePriceImpact(); err != nil {
		return nil, err
	}
	return t, nil
}

func sum(swaps []Swap, pick func(Swap) currency.Amount) (currency.Amount, error) {
	total := pick(swaps[0])
	for _, s := range swaps[1:] {
		var err error
		if total, err = total.Add(pick(s)); err != nil {
			return currency.Amount{}, err
		}
	}
	return total, nil
}

func (t *Trade) computePriceImpact() (fraction.Percent, error) {
	spot, err := currency.FromRawAmount(t.outputAmount.Currency, cons.Zero)
	if err != nil {
		return fraction.Percent{}, err
	}
	for _, s := range t.Swaps {
		quoted, err := s.Route.MidPrice().Quote(s.InputAmount)
		if err != nil {
			return fraction.Percent{}, err
		}
		if spot, err = spot.Add(quoted); err != nil {
			return fraction.Percent{}, err
		}
	}
	diff, err := spot.Subtract(t.outputAmount)
	if err != nil {
		return fraction.Percent{}, err
	}
	return fraction.ToPercent(diff.Fraction.Divide(spot)), nil
}

// FromRoute quotes amount along r. For exact input amount is what goes in,
// for exact output it is what must come out. f resolves pool addresses so
// that no pool is used twice.
func FromRoute(f factory.PoolFactoryProvider, r *route.Route, amount currency.Amount, tradeType cons.TradeType) (*Trade, error) {
	s, err := quoteRoute(r, amount, tradeType)
	if err != nil {
		return nil, err
	}
	return newChecked(f, []Swap{s}, tradeType)
}

// FromRoutes quotes every route with its own amount and joins the results.
// No pool may appear in more than one route.
func FromRoutes(f factory.PoolFactoryProvider, routes []RouteAmount, tradeType cons.TradeType) (*Trade, error) {
	swaps := make([]Swap, 0, len(routes))
	for i, ra := range routes {
		s, err := quoteRoute(ra.Route, ra.Amount, tradeType)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		swaps = append(swaps, s)
	}
	return newChecked(f, swaps, tradeType)
}

func ExactIn(f factory.PoolFactoryProvider, r *route.Route, amountIn currency.Amount) (*Trade, error) {
	return FromRoute(f, r, amountIn, cons.ExactInput)
}

func ExactOut(f factory.PoolFactoryProvider, r *route.Route, amountOut currency.Amount) (*Trade, error) {
	return FromRoute(f, r, amountOut, cons.ExactOutput)
}

func quoteRoute(r *route.Route, amount currency.Amount, tradeType cons.TradeType) (Swap, error) {
	amounts := make([]currency.Amount, len(r.TokenPath))
	var inputAmount, outputAmount currency.Amount
	var err error
	if tradeType == cons.ExactInput {
		if !amount.Currency.Equals(r.Input) {
			return Swap{}, invariant.New(invariant.ErrCurrencyMismatch, "INPUT")
		}
		amounts[0] = amount.Wrapped()
		for i, p := range r.Pools {
			if amounts[i+1], _, err = p.GetOutputAmount(amounts[i], nil); err != nil {
				return Swap{}, err
			}
		}
		if inputAmount, err = currency.FromFractionalAmount(r.Input, amount.Numerator, amount.Denominator); err != nil {
			return Swap{}, err
		}
		last := amounts[len(amounts)-1]
		if outputAmount, err = currency.FromFractionalAmount(r.Output, last.Numerator, last.Denominator); err != nil {
			return Swap{}, err
		}
	} else {
		if !amount.Currency.Equals(r.Output) {
			return Swap{}, invariant.New(invariant.ErrCurrencyMismatch, "OUTPUT")
		}
		amounts[len(amounts)-1] = amount.Wrapped()
		for i := len(r.Pools) - 1; i >= 0; i-- {
			if amounts[i], _, err = r.Pools[i].GetInputAmount(amounts[i+1], nil); err != nil {
				return Swap{}, err
			}
		}
		if inputAmount, err = currency.FromFractionalAmount(r.Input, amounts[0].Numerator, amounts[0].Denominator); err != nil {
			return Swap{}, err
		}
		if outputAmount, err = currency.FromFractionalAmount(r.Output, amount.Numerator, amount.Denominator); err != nil {
			return Swap{}, err
		}
	}
	return Swap{Route: r, InputAmount: inputAmount, OutputAmount: outputAmount}, nil
}

// CreateUncheckedTrade trusts the given amounts instead of quoting them. The
// route may not use the same pool twice.
func CreateUncheckedTrade(f factory.PoolFactoryProvider, r *route.Route, inputAmount, outputAmount currency.Amount, tradeType cons.TradeType) (*Trade, error) {
	return newChecked(f, []Swap{{Route: r, InputAmount: inputAmount, OutputAmount: outputAmount}}, tradeType)
}

func CreateUncheckedTradeWithMultipleRoutes(f factory.PoolFactoryProvider, swaps []Swap, tradeType cons.TradeType) (*Trade, error) {
	return newChecked(f, swaps, tradeType)
}

func newChecked(f factory.PoolFactoryProvider, swaps []Swap, tradeType cons.TradeType) (*Trade, error) {
	t, err := New(swaps, tradeType)
	if err != nil {
		return nil, err
	}
	if err := t.checkPools(f); err != nil {
		return nil, err
	}
	return t, nil
}

// checkPools fails when a pool address repeats anywhere in the trade, within
// one route or across routes.
func (t *Trade) checkPools(f factory.PoolFactoryProvider) error {
	count := 0
	seen := make(map[common.Address]struct{})
	for _, s := range t.Swaps {
		for _, p := range s.Route.Pools {
			addr, err := p.Address(f)
			if err != nil {
				return err
			}
			seen[addr] = struct{}{}
			count++
		}
	}
	if len(seen) != count {
		return invariant.New(invariant.ErrDuplicatePool, "POOLS_DUPLICATED")
	}
	return nil
}

// Route returns the only route of a single route trade.
func (t *Trade) Route() (*route.Route, error) {
	if len(t.Swaps) != 1 {
		return nil, invariant.New(invariant.ErrInvariantViolation, "MULTIPLE_ROUTES")
	}
	return t.Swaps[0].Route, nil
}

func (t *Trade) InputAmount() currency.Amount  { return t.inputAmount }
func (t *Trade) OutputAmount() currency.Amount { return t.outputAmount }

// ExecutionPrice is output per input, ignoring slippage.
func (t *Trade) ExecutionPrice() currency.Price { return t.executionPrice }

// PriceImpact is the share of the mid price quote lost to the swaps.
func (t *Trade) PriceImpact() fraction.Percent { return t.priceImpact }

func checkSlippage(slippageTolerance fraction.Percent) error {
	if slippageTolerance.LessThan(0) {
		return invariant.New(invariant.ErrInvalidRange, "SLIPPAGE_TOLERANCE")
	}
	return nil
}

// MinimumAmountOut is the least output accepted if the price moves against
// the trade by up to the tolerance.
func (t *Trade) MinimumAmountOut(slippageTolerance fraction.Percent) (currency.Amount, error) {
	if err := checkSlippage(slippageTolerance); err != nil {
		return currency.Amount{}, err
	}
	if t.TradeType == cons.ExactOutput {
		return t.outputAmount, nil
	}
	adjusted := fraction.FromInt(1).Add(slippageTolerance).Invert().Multiply(t.outputAmount.Quotient())
	return currency.FromRawAmount(t.outputAmount.Currency, adjusted.Quotient())
}

// MaximumAmountIn is the most input spent if the price moves against the
// trade by up to the tolerance.
func (t *Trade) MaximumAmountIn(slippageTolerance fraction.Percent) (currency.Amount, error) {
	if err := checkSlippage(slippageTolerance); err != nil {
		return currency.Amount{}, err
	}
	if t.TradeType == cons.ExactInput {
		return t.inputAmount, nil
	}
	adjusted := fraction.FromInt(1).Add(slippageTolerance).Multiply(t.inputAmount.Quotient())
	return currency.FromRawAmount(t.inputAmount.Currency, adjusted.Quotient())
}

func (t *Trade) WorstExecutionPrice(slippageTolerance fraction.Percent) (currency.Price, error) {
	in, err := t.MaximumAmountIn(slippageTolerance)
	if err != nil {
		return currency.Price{}, err
	}
	out, err := t.MinimumAmountOut(slippageTolerance)
	if err != nil {
		return currency.Price{}, err
	}
	return currency.NewPrice(in.Currency, out.Currency, in.Quotient(), out.Quotient()), nil
}

func (t *Trade) hops() int {
	n := 0
	for _, s := range t.Swaps {
		n += len(s.Route.TokenPath)
	}
	return n
}

func (t *Trade) String() string {
	return fmt.Sprintf("%v %v -> %v", t.TradeType, t.inputAmount, t.outputAmount)
}

// Comparator orders trades from best to worst: more output first, then less
// input, then fewer hops. It panics unless both trades have the same input
// and output currencies.
func Comparator(a, b *Trade) int {
	if !a.inputAmount.Currency.Equals(b.inputAmount.Currency) {
		panic(invariant.New(invariant.ErrCurrencyMismatch, "INPUT_CURRENCY"))
	}
	if !a.outputAmount.Currency.Equals(b.outputAmount.Currency) {
		panic(invariant.New(invariant.ErrCurrencyMismatch, "OUTPUT_CURRENCY"))
	}
	if a.outputAmount.EqualTo(b.outputAmount) {
		if a.inputAmount.EqualTo(b.inputAmount) {
			return a.hops() - b.hops()
		}
		if a.inputAmount.LessThan(b.inputAmount) {
			return -1
		}
		return 1
	}
	if a.outputAmount.LessThan(b.outputAmount) {
		return 1
	}
	return -1
}
