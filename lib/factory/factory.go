// Package factory resolves pool addresses from their tokens and fee.
package factory

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/currency"
	"github.com/ftchann/v3-quoter/lib/invariant"
)

// PoolFactoryProvider returns the address of the pool for two tokens and a fee.
type PoolFactoryProvider interface {
	GetPool(tokenA, tokenB *currency.Token, fee cons.FeeAmount) (common.Address, error)
}

var ErrNoFactory = fmt.Errorf("no pool factory provider was given: %w", invariant.ErrNoProvider)

// NoProvider fails on every lookup. Use it when addresses are never needed.
type NoProvider struct{}

func (NoProvider) GetPool(*currency.Token, *currency.Token, cons.FeeAmount) (common.Address, error) {
	return common.Address{}, ErrNoFactory
}

var saltArguments abi.Arguments

func init() {
	address, err := abi.NewType("address", "", nil)
	if err != nil {
		panic(err)
	}
	uint24, err := abi.NewType("uint24", "", nil)
	if err != nil {
		panic(err)
	}
	saltArguments = abi.Arguments{{Type: address}, {Type: address}, {Type: uint24}}
}

// Create2Provider computes pool addresses the way the factory deploys them:
// CREATE2 from the factory with keccak256(abi.encode(token0, token1, fee)) as salt.
type Create2Provider struct {
	Factory      common.Address
	InitCodeHash common.Hash
}

func NewCreate2Provider(factory, initCodeHash string) (*Create2Provider, error) {
	if !common.IsHexAddress(factory) {
		return nil, fmt.Errorf("factory %q: %w", factory, invariant.New(invariant.ErrInvalidRange, "ADDRESS"))
	}
	hash := common.FromHex(initCodeHash)
	if len(hash) != common.HashLength {
		return nil, fmt.Errorf("init code hash %q: %w", initCodeHash, invariant.New(invariant.ErrInvalidRange, "INIT_CODE_HASH"))
	}
	return &Create2Provider{Factory: common.HexToAddress(factory), InitCodeHash: common.BytesToHash(hash)}, nil
}

func (c *Create2Provider) GetPool(tokenA, tokenB *currency.Token, fee cons.FeeAmount) (common.Address, error) {
	sorted, err := tokenA.SortsBefore(tokenB)
	if err != nil {
		return common.Address{}, err
	}
	token0, token1 := tokenA, tokenB
	if !sorted {
		token0, token1 = tokenB, tokenA
	}
	encoded, err := saltArguments.Pack(token0.Address, token1.Address, big.NewInt(int64(fee)))
	if err != nil {
		return common.Address{}, fmt.Errorf("encode pool key: %w", err)
	}
	salt := crypto.Keccak256Hash(encoded)
	return crypto.CreateAddress2(c.Factory, salt, c.InitCodeHash.Bytes()), nil
}
