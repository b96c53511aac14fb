// Package route describes a path of pools a swap travels through.
package route

import (
	"fmt"
	"strings"

	"github.com/ftchann/v3-quoter/lib/currency"
	"github.com/ftchann/v3-quoter/lib/invariant"
	"github.com/ftchann/v3-quoter/lib/pool"
)

// Route is an ordered list of pools from Input to Output. TokenPath holds the
// wrapped token entering each pool, followed by the final token.
type Route struct {
	Pools     []*pool.Pool
	TokenPath []*currency.Token
	Input     currency.Currency
	Output    currency.Currency
	midPrice  currency.Price
}

func New(pools []*pool.Pool, input, output currency.Currency) (*Route, error) {
	if len(pools) == 0 {
		return nil, invariant.New(invariant.ErrInvalidRange, "POOLS")
	}
	wrappedInput := input.Wrapped()
	if !pools[0].InvolvesToken(wrappedInput) {
		return nil, invariant.New(invariant.ErrCurrencyMismatch, "INPUT")
	}
	if !pools[len(pools)-1].InvolvesToken(output.Wrapped()) {
		return nil, invariant.New(invariant.ErrCurrencyMismatch, "OUTPUT")
	}

	tokenPath := make([]*currency.Token, 0, len(pools)+1)
	tokenPath = append(tokenPath, wrappedInput)
	for i, p := range pools {
		current := tokenPath[i]
		if !p.InvolvesToken(current) {
			return nil, fmt.Errorf("pool %d: %w", i, invariant.New(invariant.ErrCurrencyMismatch, "PATH"))
		}
		next := p.Token0
		if current.Equals(p.Token0) {
			next = p.Token1
		}
		tokenPath = append(tokenPath, next)
	}

	r := &Route{
		Pools:     append([]*pool.Pool(nil), pools...),
		TokenPath: tokenPath,
		Input:     input,
		Output:    output,
	}
	price, err := r.computeMidPrice()
	if err != nil {
		return nil, err
	}
	r.midPrice = price
	return r, nil
}

func (r *Route) computeMidPrice() (currency.Price, error) {
	price, err := r.Pools[0].PriceOf(r.TokenPath[0])
	if err != nil {
		return currency.Price{}, err
	}
	for i, p := range r.Pools[1:] {
		next, err := p.PriceOf(r.TokenPath[i+1])
		if err != nil {
			return currency.Price{}, err
		}
		if price, err = price.Multiply(next); err != nil {
			return currency.Price{}, err
		}
	}
	return currency.NewPrice(r.Input, r.Output, price.Denominator, price.Numerator), nil
}

// MidPrice is the product of the pool prices along the path, in Output per Input.
func (r *Route) MidPrice() currency.Price { return r.midPrice }

func (r *Route) String() string {
	symbols := make([]string, len(r.TokenPath))
	for i, t := range r.TokenPath {
		symbols[i] = t.String()
	}
	return strings.Join(symbols, " -> ")
}
