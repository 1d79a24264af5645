package config

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

const testHolder = "0xF977814e90dA44bFA03b6295A0616a897441aceC"

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", newTestFlags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.RPCURL != DefaultRPCURL {
		t.Fatalf("rpc url mismatch: %q", cfg.RPCURL)
	}
	if cfg.BurnBps != DefaultBurnBps {
		t.Fatalf("burn bps mismatch: %d", cfg.BurnBps)
	}
	if cfg.FundEth != DefaultFundEth {
		t.Fatalf("fund eth mismatch: %q", cfg.FundEth)
	}
	if cfg.DryRun {
		t.Fatalf("dry run should default to false")
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level mismatch: %q", cfg.LogLevel)
	}
	if cfg.ImpersonatedAddress != "" {
		t.Fatalf("impersonated address should default to empty, got %q", cfg.ImpersonatedAddress)
	}
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("RPC_URL", "http://localhost:9999")
	t.Setenv("IMPERSONATED_ADDRESS", testHolder)
	t.Setenv("BURN_BPS", "250")

	cfg, err := Load("", newTestFlags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.RPCURL != "http://localhost:9999" {
		t.Fatalf("rpc url mismatch: %q", cfg.RPCURL)
	}
	if cfg.ImpersonatedAddress != testHolder {
		t.Fatalf("impersonated address mismatch: %q", cfg.ImpersonatedAddress)
	}
	if cfg.BurnBps != 250 {
		t.Fatalf("burn bps mismatch: %d", cfg.BurnBps)
	}
}

func TestLoadFlagsBeatEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BURN_BPS", "250")

	flags := newTestFlags()
	if err := flags.Set("burn-bps", "500"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if err := flags.Set("dry-run", "true"); err != nil {
		t.Fatalf("set flag: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.BurnBps != 500 {
		t.Fatalf("flag should beat env, got %d", cfg.BurnBps)
	}
	if !cfg.DryRun {
		t.Fatalf("dry run flag not applied")
	}
}

func TestLoadDryRunIgnoresEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRY_RUN", "true")

	cfg, err := Load("", newTestFlags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DryRun {
		t.Fatalf("dry run must not be settable from the environment")
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load("/nonexistent/config.yaml", newTestFlags()); err == nil {
		t.Fatalf("expected error for explicit missing config file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{RPCURL: DefaultRPCURL, ImpersonatedAddress: testHolder, BurnBps: 100, FundEth: "0.1"},
		},
		{
			name: "full burn",
			cfg:  Config{RPCURL: DefaultRPCURL, ImpersonatedAddress: testHolder, BurnBps: 10000, FundEth: "0.1"},
		},
		{
			name:    "missing address",
			cfg:     Config{RPCURL: DefaultRPCURL, BurnBps: 100, FundEth: "0.1"},
			wantErr: "impersonated address is required",
		},
		{
			name:    "garbage address",
			cfg:     Config{RPCURL: DefaultRPCURL, ImpersonatedAddress: "0x1234", BurnBps: 100, FundEth: "0.1"},
			wantErr: "invalid impersonated address",
		},
		{
			name:    "url without scheme",
			cfg:     Config{RPCURL: "127.0.0.1:8545", ImpersonatedAddress: testHolder, BurnBps: 100, FundEth: "0.1"},
			wantErr: "invalid rpc url",
		},
		{
			name:    "unsupported scheme",
			cfg:     Config{RPCURL: "ftp://127.0.0.1:8545", ImpersonatedAddress: testHolder, BurnBps: 100, FundEth: "0.1"},
			wantErr: "unsupported rpc url scheme",
		},
		{
			name:    "bps zero",
			cfg:     Config{RPCURL: DefaultRPCURL, ImpersonatedAddress: testHolder, BurnBps: 0, FundEth: "0.1"},
			wantErr: "burn bps must be in",
		},
		{
			name:    "bps above max",
			cfg:     Config{RPCURL: DefaultRPCURL, ImpersonatedAddress: testHolder, BurnBps: 10001, FundEth: "0.1"},
			wantErr: "burn bps must be in",
		},
		{
			name:    "fund not a number",
			cfg:     Config{RPCURL: DefaultRPCURL, ImpersonatedAddress: testHolder, BurnBps: 100, FundEth: "lots"},
			wantErr: "invalid fund amount",
		},
		{
			name:    "fund zero",
			cfg:     Config{RPCURL: DefaultRPCURL, ImpersonatedAddress: testHolder, BurnBps: 100, FundEth: "0"},
			wantErr: "fund amount must be positive",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tc.cfg.FundWei == nil || tc.cfg.FundWei.Sign() <= 0 {
					t.Fatalf("fund wei not derived: %v", tc.cfg.FundWei)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParseEther(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0.1", "100000000000000000"},
		{"1", "1000000000000000000"},
		{"2.5", "2500000000000000000"},
		{"0.000000000000000001", "1"},
		// Below one wei truncates to zero.
		{"0.0000000000000000001", "0"},
	}

	for _, tc := range cases {
		got, err := ParseEther(tc.in)
		if err != nil {
			t.Fatalf("ParseEther(%q): %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Fatalf("ParseEther(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := ParseEther("lots"); err == nil {
		t.Fatalf("expected error for non-numeric amount")
	}
}

func newTestFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("withdrawer", pflag.ContinueOnError)
	flags.String("rpc-url", DefaultRPCURL, "")
	flags.String("impersonated-address", "", "")
	flags.Uint64("burn-bps", DefaultBurnBps, "")
	flags.Bool("dry-run", false, "")
	flags.String("fund-eth", DefaultFundEth, "")
	flags.String("log-level", "info", "")
	return flags
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envBindings {
		t.Setenv(name, "")
	}
}
