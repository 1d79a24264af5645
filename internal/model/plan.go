package model

import "math/big"

// Plan describes the withdrawal before submission: how much LP to burn,
// which pool coin pays out, and the guarded output range. Amounts are base
// units.
type Plan struct {
	CoinIndex   int
	BurnAmount  *big.Int
	ExpectedOut *big.Int
	MinReceived *big.Int
}
