package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ftchann/v3-quoter/internal/config"
	"github.com/ftchann/v3-quoter/lib/currency"
	"github.com/ftchann/v3-quoter/lib/fraction"
	"github.com/ftchann/v3-quoter/lib/pool"
	ent "github.com/ftchann/v3-quoter/lib/transaction"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quoter",
		Short:        "Quote swaps and positions on concentrated liquidity pools",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("snapshot", "./data/snapshot.json", "pool snapshot JSON")
	root.PersistentFlags().Int64("slippage-bps", 50, "slippage tolerance in basis points")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(newSwapCmd(), newBestCmd(), newPositionCmd(), newReplayCmd())
	return root
}

// setup loads the configuration and the snapshot pools shared by all commands.
func setup(cmd *cobra.Command) (config.Config, *zap.Logger, []*pool.Pool, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	data, err := os.ReadFile(cfg.Snapshot)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("read snapshot: %w", err)
	}
	snapshot, err := ent.ParseSnapshot(data)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	pools, err := snapshot.Build()
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("build pools: %w", err)
	}
	if len(pools) == 0 {
		return config.Config{}, nil, nil, fmt.Errorf("snapshot %s has no pools", cfg.Snapshot)
	}
	logger.Debug("snapshot loaded", zap.String("path", cfg.Snapshot), zap.Int("pools", len(pools)))
	return cfg, logger, pools, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func slippage(cfg config.Config) fraction.Percent {
	return fraction.NewPercentInt(cfg.SlippageBps, 10000)
}

// findToken matches an address or a symbol against the tokens of the pools.
func findToken(pools []*pool.Pool, key string) (*currency.Token, error) {
	for _, p := range pools {
		for _, t := range []*currency.Token{p.Token0, p.Token1} {
			if strings.EqualFold(t.Address.Hex(), key) || strings.EqualFold(t.Symbol(), key) {
				return t, nil
			}
		}
	}
	return nil, fmt.Errorf("token %q is in no pool of the snapshot", key)
}

func parseAmount(c currency.Currency, raw string) (currency.Amount, error) {
	n, err := ent.ParseInt(raw)
	if err != nil {
		return currency.Amount{}, err
	}
	if n.Sign() <= 0 {
		return currency.Amount{}, fmt.Errorf("amount %s must be positive", raw)
	}
	return currency.FromRawAmount(c, n)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
