package ports

import (
	"context"
	"time"

	"ballotbridge/contexts/identity-access/account-service/domain/entities"
)

type AccountRepository interface {
	CreateAccount(ctx context.Context, account entities.Account) error
	GetAccount(ctx context.Context, accountID string) (entities.Account, error)
	FindByLogin(ctx context.Context, identifier string) (entities.Account, error)
	FirstOperator(ctx context.Context) (entities.Account, error)
	ListCustodialAccounts(ctx context.Context) ([]entities.Account, error)
	ListAccountsByID(ctx context.Context, accountIDs []string) ([]entities.Account, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
}

type WalletGenerator interface {
	NewWallet() (address string, privateKey []byte, err error)
}

type KeySealer interface {
	Encrypt(raw []byte) (string, error)
}

type TokenIssuer interface {
	Issue(accountID string, role string) (string, time.Time, error)
}

// LoginHook runs after a participant authenticates. It must not block the
// login on its own failures.
type LoginHook interface {
	AfterLogin(ctx context.Context, account entities.Account)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
