package config

import (
	"fmt"
	"math/big"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Defaults for the optional knobs.
const (
	DefaultRPCURL  = "http://127.0.0.1:8545"
	DefaultBurnBps = 100
	DefaultFundEth = "0.1"
)

// Burn fraction bounds, in basis points.
const (
	MinBurnBps = 1
	MaxBurnBps = 10000
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL              string
	ImpersonatedAddress string
	BurnBps             uint64
	DryRun              bool
	FundEth             string
	LogLevel            string

	// FundWei is FundEth converted to base units, set by Validate.
	FundWei *big.Int
}

// envBindings maps config keys to their documented environment variables.
// dry-run intentionally has no binding: it stays flag-only.
var envBindings = map[string]string{
	"rpc-url":              "RPC_URL",
	"impersonated-address": "IMPERSONATED_ADDRESS",
	"burn-bps":             "BURN_BPS",
	"fund-eth":             "FUND_ETH",
	"log-level":            "LOG_LEVEL",
}

// Load merges config file, environment variables, and flags into Config.
// A .env file in the working directory is applied to the environment first
// without overriding variables that are already set.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("rpc-url", DefaultRPCURL)
	v.SetDefault("burn-bps", uint64(DefaultBurnBps))
	v.SetDefault("fund-eth", DefaultFundEth)
	v.SetDefault("log-level", "info")

	for key, envName := range envBindings {
		if err := v.BindEnv(key, envName); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", envName, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		RPCURL:              strings.TrimSpace(v.GetString("rpc-url")),
		ImpersonatedAddress: strings.TrimSpace(v.GetString("impersonated-address")),
		BurnBps:             v.GetUint64("burn-bps"),
		DryRun:              v.GetBool("dry-run"),
		FundEth:             strings.TrimSpace(v.GetString("fund-eth")),
		LogLevel:            v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the resolved values and derives FundWei.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.RPCURL)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid rpc url: %q", c.RPCURL)
	}
	switch parsed.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported rpc url scheme %q in %q", parsed.Scheme, c.RPCURL)
	}

	if c.ImpersonatedAddress == "" {
		return fmt.Errorf("impersonated address is required (--impersonated-address or IMPERSONATED_ADDRESS)")
	}
	if !common.IsHexAddress(c.ImpersonatedAddress) {
		return fmt.Errorf("invalid impersonated address: %s", c.ImpersonatedAddress)
	}

	if c.BurnBps < MinBurnBps || c.BurnBps > MaxBurnBps {
		return fmt.Errorf("burn bps must be in [%d, %d], got %d", MinBurnBps, MaxBurnBps, c.BurnBps)
	}

	fundWei, err := ParseEther(c.FundEth)
	if err != nil {
		return fmt.Errorf("invalid fund amount: %w", err)
	}
	if fundWei.Sign() <= 0 {
		return fmt.Errorf("fund amount must be positive, got %s", c.FundEth)
	}
	c.FundWei = fundWei

	return nil
}

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// ParseEther converts a decimal ether amount to wei, truncating anything
// below one wei.
func ParseEther(value string) (*big.Int, error) {
	rat, ok := new(big.Rat).SetString(value)
	if !ok {
		return nil, fmt.Errorf("not a decimal number: %q", value)
	}
	wei := new(big.Rat).Mul(rat, new(big.Rat).SetInt(weiPerEther))
	return new(big.Int).Quo(wei.Num(), wei.Denom()), nil
}
