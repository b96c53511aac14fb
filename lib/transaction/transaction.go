// Package transaction reads and writes the JSON records of pool events and
// pool snapshots.
package transaction

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

const (
	Mint  = "Mint"
	Burn  = "Burn"
	Swap  = "Swap"
	Flash = "Flash"
)

type TransactionInput struct {
	Type         string `json:"type"`
	ID           string `json:"id"`
	Timestamp    int    `json:"timestamp"`
	Amount0      string `json:"amount0"`
	Amount1      string `json:"amount1"`
	Amount       string `json:"amount,omitempty"`
	SqrtPriceX96 string `json:"sqrtPriceX96,omitempty"`
	Tick         int    `json:"tick,omitempty"`
	TickLower    int    `json:"tickLower,omitempty"`
	TickUpper    int    `json:"tickUpper,omitempty"`
	UseX96       string `json:"useX96,omitempty"`
}

// Transaction is one recorded pool event. Amount is the liquidity of a mint or
// burn. For swaps the positive amount is the one paid in, and SqrtPriceX96 and
// Tick are the recorded state after the swap; with UseX96 the sqrt price is
// also the swap's limit.
type Transaction struct {
	Type         string
	Amount       *big.Int
	Amount0      *big.Int
	Amount1      *big.Int
	ID           string
	SqrtPriceX96 *big.Int
	Tick         int
	TickLower    int
	TickUpper    int
	Timestamp    int
	UseX96       bool
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	switch t.Type {
	case Swap:
		return json.Marshal(&TransactionInput{
			Type:         t.Type,
			Amount0:      t.Amount0.String(),
			Amount1:      t.Amount1.String(),
			ID:           t.ID,
			SqrtPriceX96: t.SqrtPriceX96.String(),
			Tick:         t.Tick,
			Timestamp:    t.Timestamp,
			UseX96:       strconv.FormatBool(t.UseX96),
		})
	case Mint, Burn:
		return json.Marshal(&TransactionInput{
			Type:      t.Type,
			Amount:    t.Amount.String(),
			Amount1:   t.Amount1.String(),
			Amount0:   t.Amount0.String(),
			TickLower: t.TickLower,
			TickUpper: t.TickUpper,
			ID:        t.ID,
			Timestamp: t.Timestamp,
		})
	case Flash:
		return json.Marshal(&TransactionInput{
			Type:      t.Type,
			Amount0:   t.Amount0.String(),
			Amount1:   t.Amount1.String(),
			ID:        t.ID,
			Timestamp: t.Timestamp,
		})
	}
	return nil, fmt.Errorf("transaction %s: unknown type %q", t.ID, t.Type)
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var in TransactionInput
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	parsed, err := in.Transaction()
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Transaction validates the record and parses its amounts.
func (in TransactionInput) Transaction() (Transaction, error) {
	t := Transaction{
		Type:      in.Type,
		ID:        in.ID,
		Tick:      in.Tick,
		TickLower: in.TickLower,
		TickUpper: in.TickUpper,
		Timestamp: in.Timestamp,
	}
	var err error
	if t.Amount0, err = ParseInt(in.Amount0); err != nil {
		return Transaction{}, fmt.Errorf("transaction %s amount0: %w", in.ID, err)
	}
	if t.Amount1, err = ParseInt(in.Amount1); err != nil {
		return Transaction{}, fmt.Errorf("transaction %s amount1: %w", in.ID, err)
	}
	switch in.Type {
	case Mint, Burn:
		if t.Amount, err = ParseInt(in.Amount); err != nil {
			return Transaction{}, fmt.Errorf("transaction %s amount: %w", in.ID, err)
		}
	case Swap:
		if t.SqrtPriceX96, err = ParseInt(in.SqrtPriceX96); err != nil {
			return Transaction{}, fmt.Errorf("transaction %s sqrtPriceX96: %w", in.ID, err)
		}
		if in.UseX96 != "" {
			if t.UseX96, err = strconv.ParseBool(in.UseX96); err != nil {
				return Transaction{}, fmt.Errorf("transaction %s useX96: %w", in.ID, err)
			}
		}
	case Flash:
	default:
		return Transaction{}, fmt.Errorf("transaction %s: unknown type %q", in.ID, in.Type)
	}
	return t, nil
}

// ParseInt parses a base 10 integer; the empty string is zero.
func ParseInt(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

// Parse decodes a JSON array of transactions.
func Parse(data []byte) ([]Transaction, error) {
	var transactions []Transaction
	if err := json.Unmarshal(data, &transactions); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return transactions, nil
}
