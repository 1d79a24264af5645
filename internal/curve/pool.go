package curve

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ErrCoinNotFound reports that the probe exhausted the pool's coin list
// without matching the target asset.
var ErrCoinNotFound = errors.New("coin not found in pool")

// ContractCaller is the read-only call surface the bindings need.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Pool binds the stableswap pool's read functions and builds the withdrawal
// call. State-changing submission stays with the caller.
type Pool struct {
	addr   common.Address
	abi    abi.ABI
	caller ContractCaller
}

// NewPool builds a Pool binding for the contract at addr.
func NewPool(addr common.Address, caller ContractCaller) (*Pool, error) {
	parsed, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	return &Pool{addr: addr, abi: parsed, caller: caller}, nil
}

// Address returns the pool contract address.
func (p *Pool) Address() common.Address {
	return p.addr
}

func (p *Pool) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := p.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &p.addr, Data: data}
	resp, err := p.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := p.abi.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

// BalanceOf returns the owner's LP token balance.
func (p *Pool) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	values, err := p.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// TotalSupply returns the LP token total supply.
func (p *Pool) TotalSupply(ctx context.Context) (*big.Int, error) {
	values, err := p.call(ctx, "totalSupply")
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// Decimals returns the LP token decimal precision.
func (p *Pool) Decimals(ctx context.Context) (uint8, error) {
	values, err := p.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	return asUint8(values[0])
}

// Coin returns the coin address at index i. Stableswap pools revert past the
// last coin.
func (p *Pool) Coin(ctx context.Context, i int64) (common.Address, error) {
	values, err := p.call(ctx, "coins", big.NewInt(i))
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(values[0])
}

// CoinIndex probes coins(i) from zero until the target matches or a lookup
// fails, meaning the pool is exhausted. The probe never goes past maxCoins.
func (p *Pool) CoinIndex(ctx context.Context, target common.Address, maxCoins int) (int, error) {
	for i := 0; i < maxCoins; i++ {
		coin, err := p.Coin(ctx, int64(i))
		if err != nil {
			break
		}
		if coin == target {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s not among the first %d coins of %s",
		ErrCoinNotFound, target.Hex(), maxCoins, p.addr.Hex())
}

// CalcWithdrawOneCoin simulates burning burnAmount LP for coin i only and
// returns the payout in that coin's base units.
func (p *Pool) CalcWithdrawOneCoin(ctx context.Context, burnAmount *big.Int, i int) (*big.Int, error) {
	values, err := p.call(ctx, "calc_withdraw_one_coin", burnAmount, big.NewInt(int64(i)))
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// RemoveLiquidityOneCoinMsg builds the single-sided withdrawal call, to be
// submitted from the holder's own address.
func (p *Pool) RemoveLiquidityOneCoinMsg(from common.Address, burnAmount *big.Int, i int, minReceived *big.Int, receiver common.Address) (ethereum.CallMsg, error) {
	data, err := p.abi.Pack("remove_liquidity_one_coin", burnAmount, big.NewInt(int64(i)), minReceived, receiver)
	if err != nil {
		return ethereum.CallMsg{}, fmt.Errorf("pack remove_liquidity_one_coin: %w", err)
	}
	to := p.addr
	return ethereum.CallMsg{From: from, To: &to, Data: data}, nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case uint16:
		return uint8(v), nil
	case uint32:
		return uint8(v), nil
	case uint64:
		return uint8(v), nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
