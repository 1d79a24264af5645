package withdraw

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"curveWithdraw/internal/chain"
	"curveWithdraw/internal/curve"
	"curveWithdraw/internal/model"
)

// RunConfig holds runtime settings for one withdrawal run.
type RunConfig struct {
	RPCURL       string
	Pool         common.Address
	Token        common.Address
	Impersonated common.Address
	BurnBps      uint64
	FundWei      *big.Int
	MaxCoins     int
	DryRun       bool
}

// Backend is the chain surface the runner drives. *chain.Client implements
// it; tests substitute a scripted fake.
type Backend interface {
	GetChainID(ctx context.Context) (*big.Int, error)
	Accounts(ctx context.Context) ([]common.Address, error)
	BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error)
	ImpersonateAccount(ctx context.Context, addr common.Address) error
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, msg ethereum.CallMsg) (common.Hash, error)
	WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Runner drives one withdrawal end to end.
type Runner struct {
	cfg     RunConfig
	backend Backend
	logger  *zap.Logger
	out     io.Writer
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, backend Backend, logger *zap.Logger, out io.Writer) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = os.Stdout
	}
	return &Runner{cfg: cfg, backend: backend, logger: logger, out: out}
}

// Run executes the flow in order: connectivity probe, impersonation and gas
// funding, coin discovery, snapshot, plan, optional dry-run stop, submission,
// re-snapshot, report. The first failure aborts the run; on a failed receipt
// the balances are still re-read and reported before the error returns.
func (r *Runner) Run(ctx context.Context) (*model.Result, error) {
	if r.backend == nil {
		return nil, fmt.Errorf("backend is nil")
	}
	if r.cfg.MaxCoins <= 0 {
		return nil, fmt.Errorf("max coins must be greater than zero")
	}
	if r.cfg.FundWei == nil || r.cfg.FundWei.Sign() <= 0 {
		return nil, fmt.Errorf("fund amount must be positive")
	}

	chainID, err := r.backend.GetChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("rpc endpoint not responsive: %w", err)
	}
	r.logger.Info("connected", zap.String("rpc", r.cfg.RPCURL), zap.String("chain_id", chainID.String()))

	pool, err := curve.NewPool(r.cfg.Pool, r.backend)
	if err != nil {
		return nil, err
	}
	token := curve.NewERC20(r.cfg.Token, r.backend)

	funder, err := r.pickFunder(ctx)
	if err != nil {
		return nil, err
	}

	if err := r.impersonateAndFund(ctx, funder); err != nil {
		return nil, err
	}

	tokenMeta, err := token.Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("read token metadata: %w", err)
	}
	lpDecimals, err := pool.Decimals(ctx)
	if err != nil {
		return nil, fmt.Errorf("read pool decimals: %w", err)
	}

	coinIndex, err := pool.CoinIndex(ctx, r.cfg.Token, r.cfg.MaxCoins)
	if err != nil {
		return nil, err
	}
	r.logger.Info("coin index discovered", zap.Int("index", coinIndex), zap.String("symbol", tokenMeta.Symbol))

	before, err := r.snapshot(ctx, pool, token)
	if err != nil {
		return nil, err
	}
	r.logger.Info("balances read",
		zap.String("lp_balance", before.LP.String()),
		zap.String("token_balance", before.Token.String()),
	)
	if before.LP.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s holds no LP tokens of pool %s",
			ErrNoPosition, r.cfg.Impersonated.Hex(), r.cfg.Pool.Hex())
	}

	burnAmount, err := BurnAmount(before.LP, r.cfg.BurnBps)
	if err != nil {
		return nil, err
	}

	expected, err := pool.CalcWithdrawOneCoin(ctx, burnAmount, coinIndex)
	if err != nil {
		return nil, fmt.Errorf("simulate withdrawal: %w", err)
	}
	if expected.Sign() == 0 {
		return nil, fmt.Errorf("%w: pool quoted nothing for %s LP, the pool may be imbalanced or the amount too small",
			ErrZeroEstimate, burnAmount.String())
	}
	minReceived := MinReceived(expected)

	supply, err := pool.TotalSupply(ctx)
	if err != nil {
		return nil, fmt.Errorf("read pool total supply: %w", err)
	}

	result := &model.Result{
		RPCURL:       r.cfg.RPCURL,
		Pool:         r.cfg.Pool.Hex(),
		Impersonated: r.cfg.Impersonated.Hex(),
		Token:        tokenMeta,
		LPDecimals:   lpDecimals,
		LPSupply:     supply,
		Plan: model.Plan{
			CoinIndex:   coinIndex,
			BurnAmount:  burnAmount,
			ExpectedOut: expected,
			MinReceived: minReceived,
		},
		Before: before,
		DryRun: r.cfg.DryRun,
	}

	r.logger.Info("withdrawal plan",
		zap.Int("coin_index", coinIndex),
		zap.String("burn_amount", burnAmount.String()),
		zap.String("expected_out", expected.String()),
		zap.String("min_received", minReceived.String()),
	)

	if r.cfg.DryRun {
		result.Succeeded = true
		fmt.Fprint(r.out, Render(result))
		r.logger.Info("dry run complete, no transaction submitted")
		return result, nil
	}

	msg, err := pool.RemoveLiquidityOneCoinMsg(r.cfg.Impersonated, burnAmount, coinIndex, minReceived, r.cfg.Impersonated)
	if err != nil {
		return nil, err
	}
	txHash, err := r.backend.SendTransaction(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: submit: %v", ErrTxFailed, err)
	}
	result.TxHash = txHash.Hex()
	r.logger.Info("transaction submitted", zap.String("tx_hash", result.TxHash))

	receipt, err := r.backend.WaitForReceipt(ctx, txHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTxFailed, err)
	}

	after, err := r.snapshot(ctx, pool, token)
	if err != nil {
		return nil, err
	}
	result.After = after
	result.LPBurned = new(big.Int).Sub(before.LP, after.LP)
	result.Received = new(big.Int).Sub(after.Token, before.Token)

	if receipt.Status != types.ReceiptStatusSuccessful {
		result.RevertReason = chain.RevertReason(ctx, r.backend, msg, receipt.BlockNumber)
		fmt.Fprint(r.out, Render(result))
		if result.RevertReason != "" {
			return result, fmt.Errorf("%w: tx %s reverted: %s", ErrTxFailed, result.TxHash, result.RevertReason)
		}
		return result, fmt.Errorf("%w: tx %s reverted", ErrTxFailed, result.TxHash)
	}
	result.Succeeded = true

	if transfers, err := curve.ParseTransfers(receipt); err == nil {
		for _, transfer := range transfers {
			r.logger.Debug("transfer",
				zap.String("token", transfer.Token.Hex()),
				zap.String("from", transfer.From.Hex()),
				zap.String("to", transfer.To.Hex()),
				zap.String("value", transfer.Value.String()),
			)
		}
	}

	r.logger.Info("withdrawal complete",
		zap.String("tx_hash", result.TxHash),
		zap.String("lp_burned", result.LPBurned.String()),
		zap.String("received", result.Received.String()),
	)

	fmt.Fprint(r.out, Render(result))
	return result, nil
}

func (r *Runner) pickFunder(ctx context.Context) (common.Address, error) {
	accounts, err := r.backend.Accounts(ctx)
	if err != nil {
		return common.Address{}, fmt.Errorf("list endpoint accounts: %w", err)
	}
	if len(accounts) == 0 {
		return common.Address{}, fmt.Errorf("endpoint exposes no accounts, expected a dev fork with funded accounts")
	}
	return accounts[0], nil
}

func (r *Runner) impersonateAndFund(ctx context.Context, funder common.Address) error {
	if err := r.backend.ImpersonateAccount(ctx, r.cfg.Impersonated); err != nil {
		return fmt.Errorf("impersonate %s: %w", r.cfg.Impersonated.Hex(), err)
	}

	to := r.cfg.Impersonated
	txHash, err := r.backend.SendTransaction(ctx, ethereum.CallMsg{
		From:  funder,
		To:    &to,
		Value: r.cfg.FundWei,
	})
	if err != nil {
		return fmt.Errorf("fund %s: %w", r.cfg.Impersonated.Hex(), err)
	}
	receipt, err := r.backend.WaitForReceipt(ctx, txHash)
	if err != nil {
		return fmt.Errorf("fund %s: %w", r.cfg.Impersonated.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("fund %s: transfer %s reverted", r.cfg.Impersonated.Hex(), txHash.Hex())
	}

	fields := []zap.Field{
		zap.String("address", r.cfg.Impersonated.Hex()),
		zap.String("funder", funder.Hex()),
		zap.String("funded_wei", r.cfg.FundWei.String()),
	}
	if balance, err := r.backend.BalanceAt(ctx, r.cfg.Impersonated); err == nil {
		fields = append(fields, zap.String("gas_balance_wei", balance.String()))
	}
	r.logger.Info("impersonation ready", fields...)
	return nil
}

func (r *Runner) snapshot(ctx context.Context, pool *curve.Pool, token *curve.ERC20) (model.Balances, error) {
	lpBalance, err := pool.BalanceOf(ctx, r.cfg.Impersonated)
	if err != nil {
		return model.Balances{}, fmt.Errorf("read lp balance: %w", err)
	}
	tokenBalance, err := token.BalanceOf(ctx, r.cfg.Impersonated)
	if err != nil {
		return model.Balances{}, fmt.Errorf("read token balance: %w", err)
	}
	return model.Balances{LP: lpBalance, Token: tokenBalance}, nil
}
