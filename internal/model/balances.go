package model

import "math/big"

// Balances is a point-in-time snapshot of the holder's LP token and target
// asset balances, in base units.
type Balances struct {
	LP    *big.Int
	Token *big.Int
}
