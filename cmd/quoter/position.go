package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ftchann/v3-quoter/lib/executor"
	"github.com/ftchann/v3-quoter/lib/position"
	"github.com/ftchann/v3-quoter/lib/result"
	"github.com/ftchann/v3-quoter/lib/strategy"
	ent "github.com/ftchann/v3-quoter/lib/transaction"
)

func newPositionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Token amounts of a position at the pool price",
		RunE:  runPosition,
	}
	cmd.Flags().Int("pool", 0, "index of the pool in the snapshot")
	cmd.Flags().Int("lower", 0, "lower tick")
	cmd.Flags().Int("upper", 0, "upper tick")
	cmd.Flags().Int("width", 0, "center the range on the current tick instead of --lower and --upper")
	cmd.Flags().String("liquidity", "", "position liquidity")
	cmd.Flags().String("amount0", "", "size the position from token0 and token1 amounts instead")
	cmd.Flags().String("amount1", "", "token1 amount used with --amount0")
	return cmd
}

func runPosition(cmd *cobra.Command, _ []string) error {
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
	lower, _ := cmd.Flags().GetInt("lower")
	upper, _ := cmd.Flags().GetInt("upper")
	if width, _ := cmd.Flags().GetInt("width"); width != 0 {
		r, err := strategy.AroundPrice(p, width)
		if err != nil {
			return err
		}
		lower, upper = r.Lower, r.Upper
	}

	var pos *position.Position
	if raw0, _ := cmd.Flags().GetString("amount0"); raw0 != "" {
		raw1, _ := cmd.Flags().GetString("amount1")
		amount0, err := ent.ParseInt(raw0)
		if err != nil {
			return err
		}
		amount1, err := ent.ParseInt(raw1)
		if err != nil {
			return err
		}
		if pos, err = strategy.Size(p, strategy.Range{Lower: lower, Upper: upper}, amount0, amount1); err != nil {
			return err
		}
	} else {
		raw, _ := cmd.Flags().GetString("liquidity")
		liquidity, err := ent.ParseInt(raw)
		if err != nil {
			return err
		}
		if pos, err = position.New(p, lower, upper, liquidity); err != nil {
			return err
		}
	}

	amounts := pos.MintAmounts()
	mint, err := pos.MintAmountsWithSlippage(slippage(cfg))
	if err != nil {
		return err
	}
	burn, err := pos.BurnAmountsWithSlippage(slippage(cfg))
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result.PositionAmounts{
		TickLower:     pos.TickLower,
		TickUpper:     pos.TickUpper,
		Liquidity:     pos.Liquidity.String(),
		Amount0:       amounts.Amount0.String(),
		Amount1:       amounts.Amount1.String(),
		MintAmount0:   mint.Amount0.String(),
		MintAmount1:   mint.Amount1.String(),
		BurnAmount0:   burn.Amount0.String(),
		BurnAmount1:   burn.Amount1.String(),
		ValueInToken0: executor.ValueInToken0(p.SqrtRatioX96, amounts.Amount0, amounts.Amount1).String(),
	})
}
