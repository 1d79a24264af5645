package curve

import "github.com/ethereum/go-ethereum/common"

// Ethereum mainnet deployments this tool targets on a fork.
var (
	// PoolAddress is the Curve USDC/crvUSD plain pool, which is also its
	// own LP token.
	PoolAddress = common.HexToAddress("0x4DEcE678ceceb27446b35C672dC7d61F30bAD69E")

	// USDCAddress is the withdrawal target coin.
	USDCAddress = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
)

// MaxCoins bounds the coins(i) probe. Stableswap pools hold a handful of
// coins at most; this pool holds two.
const MaxCoins = 4
