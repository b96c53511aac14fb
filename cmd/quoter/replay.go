package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ftchann/v3-quoter/lib/executor"
	"github.com/ftchann/v3-quoter/lib/result"
	"github.com/ftchann/v3-quoter/lib/strategy"
	ent "github.com/ftchann/v3-quoter/lib/transaction"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded events against a snapshot pool",
		RunE:  runReplay,
	}
	cmd.Flags().Int("pool", 0, "index of the pool in the snapshot")
	cmd.Flags().String("events", "./data/events.json", "recorded events JSON")
	cmd.Flags().Int("window-size", 24, "swaps kept in the price window")
	cmd.Flags().Int("snapshot-interval", 3600, "seconds between state snapshots, 0 disables")
	cmd.Flags().Float64("bands", 0, "also report Bollinger bands at this many standard deviations")
	cmd.Flags().Bool("strict", false, "stop at the first event that does not match its record")
	return cmd
}

func runReplay(cmd *cobra.Command, _ []string) error {
	cfg, logger, pools, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	index, _ := cmd.Flags().GetInt("pool")
	if index < 0 || index >= len(pools) {
		return fmt.Errorf("pool %d out of range, snapshot has %d", index, len(pools))
	}

	data, err := os.ReadFile(cfg.Events)
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}
	transactions, err := ent.Parse(data)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exec, err := executor.CreateExecution(pools[index], transactions, cfg.WindowSize, cfg.SnapshotInterval, logger)
	if err != nil {
		return err
	}
	exec.Strict = cfg.Strict

	logger.Info("replay start",
		zap.String("snapshot", cfg.Snapshot),
		zap.String("events", cfg.Events),
		zap.Int("transactions", len(transactions)),
		zap.Bool("strict", cfg.Strict),
	)
	replay, err := exec.Run(ctx)
	if err != nil {
		return err
	}
	if bands, _ := cmd.Flags().GetFloat64("bands"); bands > 0 {
		r, err := strategy.BollingerBands(exec.Pool, exec.Window(), int64(bands*1024))
		if err != nil {
			return err
		}
		replay.Bands = &result.Range{TickLower: r.Lower, TickUpper: r.Upper}
	}
	return writeJSON(cmd.OutOrStdout(), replay)
}
