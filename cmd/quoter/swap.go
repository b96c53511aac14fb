package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/factory"
	"github.com/ftchann/v3-quoter/lib/pool"
	"github.com/ftchann/v3-quoter/lib/result"
	"github.com/ftchann/v3-quoter/lib/route"
	"github.com/ftchann/v3-quoter/lib/trade"
)

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Quote a swap through one pool of the snapshot",
		RunE:  runSwap,
	}
	cmd.Flags().Int("pool", 0, "index of the pool in the snapshot")
	cmd.Flags().String("token-in", "", "address or symbol of the token paid in")
	cmd.Flags().String("amount", "", "raw amount paid in, or received with --exact-out")
	cmd.Flags().Bool("exact-out", false, "treat the amount as the output")
	return cmd
}

func runSwap(cmd *cobra.Command, _ []string) error {
	cfg, logger, pools, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	index, _ := cmd.Flags().GetInt("pool")
	if index < 0 || index >= len(pools) {
		return fmt.Errorf("pool %d out of range, snapshot has %d", index, len(pools))
	}
	p := pools[index]
	provider, err := factory.NewCreate2Provider(cfg.Factory, cfg.InitCodeHash)
	if err != nil {
		return err
	}
	address, err := p.Address(provider)
	if err != nil {
		return err
	}

	key, _ := cmd.Flags().GetString("token-in")
	tokenIn, err := findToken([]*pool.Pool{p}, key)
	if err != nil {
		return err
	}
	tokenOut := p.Token1
	if tokenIn.Equals(p.Token1) {
		tokenOut = p.Token0
	}
	r, err := route.New([]*pool.Pool{p}, tokenIn, tokenOut)
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetString("amount")
	exactOut, _ := cmd.Flags().GetBool("exact-out")
	var t *trade.Trade
	if exactOut {
		amount, err := parseAmount(tokenOut, raw)
		if err != nil {
			return err
		}
		t, err = trade.FromRoute(provider, r, amount, cons.ExactOutput)
		if err != nil {
			return err
		}
	} else {
		amount, err := parseAmount(tokenIn, raw)
		if err != nil {
			return err
		}
		t, err = trade.FromRoute(provider, r, amount, cons.ExactInput)
		if err != nil {
			return err
		}
	}

	quote, err := result.FromTrade(t, slippage(cfg))
	if err != nil {
		return err
	}
	logger.Info("swap quoted",
		zap.Stringer("pool", p),
		zap.String("address", address.Hex()),
		zap.Stringer("input", t.InputAmount()),
		zap.Stringer("output", t.OutputAmount()),
	)
	return writeJSON(cmd.OutOrStdout(), quote)
}
