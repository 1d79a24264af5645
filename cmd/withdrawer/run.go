package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"curveWithdraw/internal/chain"
	"curveWithdraw/internal/config"
	"curveWithdraw/internal/curve"
	"curveWithdraw/internal/withdraw"
)

func runWithdraw(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	runner := withdraw.NewRunner(withdraw.RunConfig{
		RPCURL:       cfg.RPCURL,
		Pool:         curve.PoolAddress,
		Token:        curve.USDCAddress,
		Impersonated: common.HexToAddress(cfg.ImpersonatedAddress),
		BurnBps:      cfg.BurnBps,
		FundWei:      cfg.FundWei,
		MaxCoins:     curve.MaxCoins,
		DryRun:       cfg.DryRun,
	}, chainClient, logger, os.Stdout)

	logger.Info("withdrawal start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("pool", curve.PoolAddress.Hex()),
		zap.String("impersonated", cfg.ImpersonatedAddress),
		zap.Uint64("burn_bps", cfg.BurnBps),
		zap.Bool("dry_run", cfg.DryRun),
	)

	if _, err := runner.Run(ctx); err != nil {
		logger.Error("withdrawal aborted", zap.Error(err))
		return err
	}
	return nil
}
