package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ftchann/v3-quoter/lib/factory"
	"github.com/ftchann/v3-quoter/lib/result"
	"github.com/ftchann/v3-quoter/lib/trade"
)

type bestTrades struct {
	Amount string         `json:"amount"`
	Trades []result.Quote `json:"trades"`
}

func newBestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "best",
		Short: "Search the snapshot pools for the best trades",
		RunE:  runBest,
	}
	cmd.Flags().String("token-in", "", "address or symbol of the token paid in")
	cmd.Flags().String("token-out", "", "address or symbol of the token received")
	cmd.Flags().StringSlice("amount", nil, "raw amounts to quote (comma-separated)")
	cmd.Flags().Bool("exact-out", false, "treat the amounts as outputs")
	cmd.Flags().Int("max-hops", 3, "longest route considered")
	cmd.Flags().Int("max-results", 3, "trades kept per amount")
	cmd.Flags().Int("concurrency", 4, "amounts searched at once")
	return cmd
}

func runBest(cmd *cobra.Command, _ []string) error {
	cfg, logger, pools, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	inKey, _ := cmd.Flags().GetString("token-in")
	tokenIn, err := findToken(pools, inKey)
	if err != nil {
		return err
	}
	outKey, _ := cmd.Flags().GetString("token-out")
	tokenOut, err := findToken(pools, outKey)
	if err != nil {
		return err
	}
	provider, err := factory.NewCreate2Provider(cfg.Factory, cfg.InitCodeHash)
	if err != nil {
		return err
	}
	amounts, _ := cmd.Flags().GetStringSlice("amount")
	exactOut, _ := cmd.Flags().GetBool("exact-out")
	opts := trade.BestTradeOptions{MaxNumResults: cfg.MaxResults, MaxHops: cfg.MaxHops}

	// each search only reads the immutable pools
	out := make([]bestTrades, len(amounts))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Concurrency)
	for i, raw := range amounts {
		i, raw := i, raw
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var trades []*trade.Trade
			if exactOut {
				amount, err := parseAmount(tokenOut, raw)
				if err != nil {
					return err
				}
				if trades, err = trade.BestTradeExactOut(provider, pools, tokenIn, amount, opts); err != nil {
					return err
				}
			} else {
				amount, err := parseAmount(tokenIn, raw)
				if err != nil {
					return err
				}
				if trades, err = trade.BestTradeExactIn(provider, pools, amount, tokenOut, opts); err != nil {
					return err
				}
			}

			quotes := make([]result.Quote, 0, len(trades))
			for _, t := range trades {
				q, err := result.FromTrade(t, slippage(cfg))
				if err != nil {
					return err
				}
				quotes = append(quotes, q)
			}
			logger.Debug("searched", zap.String("amount", raw), zap.Int("trades", len(quotes)))
			out[i] = bestTrades{Amount: raw, Trades: quotes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
