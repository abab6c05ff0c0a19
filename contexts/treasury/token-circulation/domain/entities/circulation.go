package entities

import domainerrors "ballotbridge/contexts/treasury/token-circulation/domain/errors"

// BasisPointsDenominator is 100% expressed in basis points.
const BasisPointsDenominator = 10_000

// Holder is an account holding a custodial wallet.
type Holder struct {
	AccountID    string
	Address      string
	EncryptedKey string
}

// TransferResult is the outcome of one transfer inside a batch.
type TransferResult struct {
	AccountID string
	Address   string
	Amount    int64
	Success   bool
	TxID      string
	Error     string
}

// PercentageAmount returns floor(balance*bps/10000), lowered when needed so
// the fee stays payable from what remains.
func PercentageAmount(balance int64, fee int64, basisPoints int) (int64, error) {
	if basisPoints <= 0 || basisPoints > BasisPointsDenominator || fee < 0 {
		return 0, domainerrors.ErrInvalidTransfer
	}
	amount := balance / BasisPointsDenominator * int64(basisPoints)
	amount += balance % BasisPointsDenominator * int64(basisPoints) / BasisPointsDenominator
	if balance-amount < fee {
		amount = balance - fee
	}
	if amount <= 0 {
		return 0, domainerrors.ErrInsufficientBalance
	}
	return amount, nil
}

// FullAmount returns everything but the fee.
func FullAmount(balance int64, fee int64) (int64, error) {
	if fee < 0 {
		return 0, domainerrors.ErrInvalidTransfer
	}
	amount := balance - fee
	if amount <= 0 {
		return 0, domainerrors.ErrInsufficientBalance
	}
	return amount, nil
}
