package curve

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Transfer is one decoded ERC20 Transfer log. Token is the emitting
// contract; for the LP burn leg that is the pool itself.
type Transfer struct {
	Token common.Address
	From  common.Address
	To    common.Address
	Value *big.Int
}

// ParseTransfers decodes the ERC20 Transfer logs in a receipt. Logs that are
// not well-formed Transfers are skipped.
func ParseTransfers(receipt *types.Receipt) ([]Transfer, error) {
	parsed, err := erc20ABIStringInstance()
	if err != nil {
		return nil, err
	}
	transferID := parsed.Events["Transfer"].ID

	transfers := make([]Transfer, 0, len(receipt.Logs))
	for _, logEntry := range receipt.Logs {
		if len(logEntry.Topics) != 3 || logEntry.Topics[0] != transferID {
			continue
		}
		values, err := parsed.Unpack("Transfer", logEntry.Data)
		if err != nil || len(values) != 1 {
			continue
		}
		value, err := asBigInt(values[0])
		if err != nil {
			continue
		}
		transfers = append(transfers, Transfer{
			Token: logEntry.Address,
			From:  common.BytesToAddress(logEntry.Topics[1].Bytes()),
			To:    common.BytesToAddress(logEntry.Topics[2].Bytes()),
			Value: value,
		})
	}
	return transfers, nil
}
