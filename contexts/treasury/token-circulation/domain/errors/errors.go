package errors

import "errors"

var (
	ErrOperatorRequired    = errors.New("operator role is required")
	ErrOperatorUnavailable = errors.New("operator account is not available")
	ErrNoTargets           = errors.New("no participant wallets to transfer to")
	ErrInvalidTransfer     = errors.New("invalid transfer request")
	ErrHolderKeyMissing    = errors.New("account has no custodial signing key")
	ErrInsufficientBalance = errors.New("balance does not cover the transfer fee")
	ErrLedgerUnavailable   = errors.New("ledger gateway call failed")
)
