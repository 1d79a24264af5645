package model

// TokenMeta captures ERC20 metadata, read once per run.
type TokenMeta struct {
	Address  string
	Decimals uint8
	Symbol   string
}
