package model

import "math/big"

// Result collects everything the final report needs about one run. After,
// LPBurned, and Received stay nil on a dry run.
type Result struct {
	RPCURL       string
	Pool         string
	Impersonated string
	Token        TokenMeta
	LPDecimals   uint8
	LPSupply     *big.Int

	Plan   Plan
	Before Balances
	After  Balances

	LPBurned *big.Int
	Received *big.Int

	TxHash       string
	DryRun       bool
	Succeeded    bool
	RevertReason string
}
