package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"curveWithdraw/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "withdrawer",
		Short:        "Single-sided Curve LP withdrawal on a local mainnet fork",
		SilenceUsage: true,
		RunE:         runWithdraw,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.Flags().String("rpc-url", config.DefaultRPCURL, "RPC URL of the local fork")
	root.Flags().String("impersonated-address", "", "LP holder address to impersonate")
	root.Flags().Uint64("burn-bps", config.DefaultBurnBps, "basis points of the LP balance to burn (1-10000)")
	root.Flags().Bool("dry-run", false, "print the withdrawal plan without sending a transaction")
	root.Flags().String("fund-eth", config.DefaultFundEth, "ether sent to the impersonated address for gas")
	root.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
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
