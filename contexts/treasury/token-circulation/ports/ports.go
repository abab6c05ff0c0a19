package ports

import (
	"context"

	"ballotbridge/contexts/treasury/token-circulation/domain/entities"
)

// Actor is the authenticated caller.
type Actor struct {
	Holder   entities.Holder
	Operator bool
}

// Accounts resolves wallets. Operator returns the authoritative operator,
// the oldest operator account.
type Accounts interface {
	Operator(ctx context.Context) (entities.Holder, error)
	Holders(ctx context.Context) ([]entities.Holder, error)
}

// ElectionStatus reports whether an election is currently accepting votes.
type ElectionStatus interface {
	ElectionActive(ctx context.Context) (bool, error)
}

type Ledger interface {
	Transfer(ctx context.Context, fromKey []byte, toAddress string, amount int64) (string, error)
	EstimateFee(ctx context.Context, fromKey []byte, toAddress string, amount int64) (int64, error)
	Balance(ctx context.Context, address string) (int64, error)
}

type KeyVault interface {
	Decrypt(blob string) ([]byte, error)
}
