// Package currency models fungible assets, raw amounts of them and the prices
// between them.
package currency

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ftchann/v3-quoter/lib/invariant"
)

// Currency is any fungible asset: a token or the chain's native coin.
type Currency interface {
	// IsNative reports whether the currency must be wrapped before it can be pooled.
	IsNative() bool
	IsToken() bool
	Decimals() int
	Symbol() string
	Name() string
	Equals(other Currency) bool
	// Wrapped returns the token used in pools for this currency.
	Wrapped() *Token
}

type base struct {
	decimals int
	symbol   string
	name     string
}

func newBase(decimals int, symbol, name string) (base, error) {
	if decimals < 0 || decimals >= 255 {
		return base{}, invariant.New(invariant.ErrInvalidRange, "DECIMALS")
	}
	return base{decimals: decimals, symbol: symbol, name: name}, nil
}

func (b base) Decimals() int  { return b.decimals }
func (b base) Symbol() string { return b.symbol }
func (b base) Name() string   { return b.name }

type Token struct {
	base
	Address common.Address
}

func NewToken(address common.Address, decimals int, symbol, name string) (*Token, error) {
	b, err := newBase(decimals, symbol, name)
	if err != nil {
		return nil, err
	}
	return &Token{base: b, Address: address}, nil
}

// ParseToken validates a 0x-prefixed hex address before building the token.
func ParseToken(address string, decimals int, symbol, name string) (*Token, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%q: %w", address, invariant.New(invariant.ErrInvalidRange, "ADDRESS"))
	}
	return NewToken(common.HexToAddress(address), decimals, symbol, name)
}

func (t *Token) IsNative() bool { return false }
func (t *Token) IsToken() bool  { return true }
func (t *Token) Wrapped() *Token {
	return t
}

// Equals compares addresses only.
func (t *Token) Equals(other Currency) bool {
	o, ok := other.(*Token)
	return ok && o != nil && t.Address == o.Address
}

// SortsBefore reports whether t's address orders before other's.
func (t *Token) SortsBefore(other *Token) (bool, error) {
	if t.Address == other.Address {
		return false, invariant.New(invariant.ErrInvalidOrdering, "ADDRESSES")
	}
	return bytes.Compare(t.Address.Bytes(), other.Address.Bytes()) < 0, nil
}

func (t *Token) String() string {
	if t.symbol != "" {
		return t.symbol
	}
	return t.Address.Hex()
}

// Native is the chain's own coin, pooled through its wrapped token.
type Native struct {
	base
	wrapped *Token
}

func NewNative(wrapped *Token, symbol, name string) (*Native, error) {
	b, err := newBase(wrapped.Decimals(), symbol, name)
	if err != nil {
		return nil, err
	}
	return &Native{base: b, wrapped: wrapped}, nil
}

func (n *Native) IsNative() bool  { return true }
func (n *Native) IsToken() bool   { return false }
func (n *Native) Wrapped() *Token { return n.wrapped }
func (n *Native) String() string  { return n.symbol }

func (n *Native) Equals(other Currency) bool {
	return other != nil && other.IsNative() && other.Symbol() == n.symbol
}
