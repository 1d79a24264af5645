package withdraw

import (
	"fmt"
	"math/big"
)

var (
	bpsDenominator = big.NewInt(10000)
	slippageKeep   = big.NewInt(99)
	slippageBase   = big.NewInt(100)
)

// BurnAmount computes floor(lpBalance * burnBps / 10000). burnBps arrives
// validated to [1, 10000]; a zero result is rejected because the pool cannot
// burn nothing.
func BurnAmount(lpBalance *big.Int, burnBps uint64) (*big.Int, error) {
	burn := new(big.Int).Mul(lpBalance, new(big.Int).SetUint64(burnBps))
	burn.Quo(burn, bpsDenominator)
	if burn.Sign() == 0 {
		return nil, fmt.Errorf("%w: %s LP at %d bps, position too small for the requested fraction",
			ErrBurnTooSmall, lpBalance.String(), burnBps)
	}
	return burn, nil
}

// MinReceived applies the fixed 1% slippage tolerance:
// floor(expected * 99 / 100).
func MinReceived(expected *big.Int) *big.Int {
	guarded := new(big.Int).Mul(expected, slippageKeep)
	return guarded.Quo(guarded, slippageBase)
}

// BurnShareBps expresses burnAmount as basis points of the LP total supply,
// for display only. A zero or missing supply yields zero.
func BurnShareBps(burnAmount, totalSupply *big.Int) *big.Int {
	if burnAmount == nil || totalSupply == nil || totalSupply.Sign() == 0 {
		return big.NewInt(0)
	}
	share := new(big.Int).Mul(burnAmount, bpsDenominator)
	return share.Quo(share, totalSupply)
}
