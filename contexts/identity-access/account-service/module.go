package accountservice

import (
	"log/slog"

	httpadapter "ballotbridge/contexts/identity-access/account-service/adapters/http"
	"ballotbridge/contexts/identity-access/account-service/adapters/memory"
	"ballotbridge/contexts/identity-access/account-service/adapters/security"
	"ballotbridge/contexts/identity-access/account-service/adapters/wallet"
	"ballotbridge/contexts/identity-access/account-service/application/commands"
	"ballotbridge/contexts/identity-access/account-service/application/queries"
	"ballotbridge/contexts/identity-access/account-service/domain/entities"
	"ballotbridge/contexts/identity-access/account-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Queries queries.AccountQueries
	Store   *memory.Store
}

type Dependencies struct {
	Accounts                ports.AccountRepository
	Passwords               ports.PasswordHasher
	Wallets                 ports.WalletGenerator
	Keys                    ports.KeySealer
	Tokens                  ports.TokenIssuer
	LoginHook               ports.LoginHook
	Clock                   ports.Clock
	IDGen                   ports.IDGenerator
	AutoVerify              bool
	OperatorRegistrationKey string
	Logger                  *slog.Logger
}

func NewModule(deps Dependencies) Module {
	passwords := deps.Passwords
	if passwords == nil {
		passwords = security.BcryptHasher{}
	}
	wallets := deps.Wallets
	if wallets == nil {
		wallets = wallet.Generator{}
	}
	accountQueries := queries.AccountQueries{Accounts: deps.Accounts}
	return Module{
		Handler: httpadapter.Handler{
			Register: commands.RegisterUseCase{
				Accounts:                deps.Accounts,
				Passwords:               passwords,
				Wallets:                 wallets,
				Keys:                    deps.Keys,
				Clock:                   deps.Clock,
				IDGen:                   deps.IDGen,
				AutoVerify:              deps.AutoVerify,
				OperatorRegistrationKey: deps.OperatorRegistrationKey,
				Logger:                  deps.Logger,
			},
			Login: commands.LoginUseCase{
				Accounts:  deps.Accounts,
				Passwords: passwords,
				Tokens:    deps.Tokens,
				Hook:      deps.LoginHook,
				Logger:    deps.Logger,
			},
			Accounts: accountQueries,
			Logger:   deps.Logger,
		},
		Queries: accountQueries,
	}
}

// NewInMemoryModule backs the module with an in-memory store; Accounts,
// Clock and IDGen in deps are replaced by the store.
func NewInMemoryModule(seed []entities.Account, deps Dependencies) Module {
	store := memory.NewStore(seed)
	deps.Accounts = store
	deps.Clock = store
	deps.IDGen = store
	module := NewModule(deps)
	module.Store = store
	return module
}
