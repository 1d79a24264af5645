package withdraw

import "errors"

// Terminal failure kinds the runner distinguishes for callers. Each is
// wrapped with the offending values at the failure site.
var (
	// ErrNoPosition means the impersonated address holds no LP tokens.
	ErrNoPosition = errors.New("lp balance is zero")

	// ErrBurnTooSmall means the requested fraction rounds down to zero.
	ErrBurnTooSmall = errors.New("computed burn amount is zero")

	// ErrZeroEstimate means the pool quoted no output for the burn.
	ErrZeroEstimate = errors.New("estimated output is zero")

	// ErrTxFailed means the withdrawal could not be submitted or its
	// receipt reported failure.
	ErrTxFailed = errors.New("withdrawal transaction failed")
)
