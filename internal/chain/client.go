package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

const (
	// receiptWaitTimeout bounds the blocking wait for a transaction receipt.
	receiptWaitTimeout = 2 * time.Minute
)

// Client wraps go-ethereum RPC and provides helper methods.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// GetChainID returns the chain ID.
func (c *Client) GetChainID(ctx context.Context) (*big.Int, error) {
	return c.ethClient.ChainID(ctx)
}

// Accounts returns the accounts the endpoint itself controls.
func (c *Client) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.rpcClient.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}

// BalanceAt returns the native currency balance at the latest block.
func (c *Client) BalanceAt(ctx context.Context, addr common.Address) (*big.Int, error) {
	return c.ethClient.BalanceAt(ctx, addr, nil)
}

// ImpersonateAccount asks the node to accept transactions originating from
// addr without holding its key. Anvil and Hardhat name the directive
// differently; nodes without fork tooling reject both, which aborts the run
// before any transaction is attempted.
func (c *Client) ImpersonateAccount(ctx context.Context, addr common.Address) error {
	anvilErr := c.rpcClient.CallContext(ctx, nil, "anvil_impersonateAccount", addr)
	if anvilErr == nil {
		return nil
	}
	if hardhatErr := c.rpcClient.CallContext(ctx, nil, "hardhat_impersonateAccount", addr); hardhatErr == nil {
		return nil
	}
	return fmt.Errorf("impersonation directive rejected, endpoint is not a dev fork: %w", anvilErr)
}

// SendTransaction submits a node-signed transaction via eth_sendTransaction
// and returns its hash. The node must control or impersonate msg.From. Gas
// fields left unset are filled by the node.
func (c *Client) SendTransaction(ctx context.Context, msg ethereum.CallMsg) (common.Hash, error) {
	var txHash common.Hash
	if err := c.rpcClient.CallContext(ctx, &txHash, "eth_sendTransaction", sendTxArg(msg)); err != nil {
		return common.Hash{}, err
	}
	return txHash, nil
}

func sendTxArg(msg ethereum.CallMsg) map[string]interface{} {
	arg := map[string]interface{}{
		"from": msg.From,
		"to":   msg.To,
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if len(msg.Data) > 0 {
		arg["data"] = hexutil.Bytes(msg.Data)
	}
	if msg.Gas != 0 {
		arg["gas"] = hexutil.Uint64(msg.Gas)
	}
	if msg.GasPrice != nil {
		arg["gasPrice"] = (*hexutil.Big)(msg.GasPrice)
	}
	return arg
}

// WaitForReceipt blocks until the transaction is mined or the wait times
// out. A missing receipt is retried; any other error ends the wait.
func (c *Client) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	operation := func() (*types.Receipt, error) {
		receipt, err := c.ethClient.TransactionReceipt(ctx, txHash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return receipt, nil
	}

	receipt, err := backoff.Retry(
		ctx,
		operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(receiptWaitTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("wait receipt %s: %w", txHash.Hex(), err)
	}
	return receipt, nil
}

// CallContract performs an eth_call for a contract method.
func (c *Client) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.ethClient.CallContract(ctx, msg, blockNumber)
}

// ContractCaller is the read surface needed to replay a call for its revert
// reason.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// RevertReason replays msg at the given block and decodes the ABI revert
// string, if any. Best effort: it falls back to the raw error text and
// returns the empty string when the replayed call does not fail at all.
func RevertReason(ctx context.Context, caller ContractCaller, msg ethereum.CallMsg, blockNumber *big.Int) string {
	_, err := caller.CallContract(ctx, msg, blockNumber)
	if err == nil {
		return ""
	}

	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return err.Error()
	}
	encoded, ok := dataErr.ErrorData().(string)
	if !ok {
		return err.Error()
	}
	raw, decodeErr := hexutil.Decode(encoded)
	if decodeErr != nil {
		return err.Error()
	}
	reason, unpackErr := abi.UnpackRevert(raw)
	if unpackErr != nil {
		return err.Error()
	}
	return reason
}
