package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "ballotbridge/contexts/identity-access/account-service/application"
	"ballotbridge/contexts/identity-access/account-service/domain/entities"
	domainerrors "ballotbridge/contexts/identity-access/account-service/domain/errors"
	"ballotbridge/contexts/identity-access/account-service/ports"
)

type LoginCommand struct {
	Identifier string
	Password   string
}

type LoginResult struct {
	Account   entities.Account
	Token     string
	ExpiresAt time.Time
}

type LoginUseCase struct {
	Accounts  ports.AccountRepository
	Passwords ports.PasswordHasher
	Tokens    ports.TokenIssuer
	Hook      ports.LoginHook
	Logger    *slog.Logger
}

// Login authenticates by username or email. Unknown identifiers and wrong
// passwords are indistinguishable to the caller.
func (uc LoginUseCase) Login(ctx context.Context, cmd LoginCommand) (LoginResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	identifier := strings.TrimSpace(cmd.Identifier)
	if identifier == "" || cmd.Password == "" {
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}

	account, err := uc.Accounts.FindByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return LoginResult{}, domainerrors.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if err := uc.Passwords.Compare(account.PasswordHash, cmd.Password); err != nil {
		logger.Warn("login rejected",
			"event", "account_login_rejected",
			"module", "identity-access/account-service",
			"layer", "application",
			"account_id", account.AccountID,
		)
		return LoginResult{}, domainerrors.ErrInvalidCredentials
	}
	if !account.Verified {
		return LoginResult{}, domainerrors.ErrAccountNotVerified
	}

	token, expiresAt, err := uc.Tokens.Issue(account.AccountID, string(account.Role))
	if err != nil {
		return LoginResult{}, err
	}

	if uc.Hook != nil && !account.IsOperator() {
		uc.Hook.AfterLogin(ctx, account)
	}

	logger.Info("login succeeded",
		"event", "account_login_succeeded",
		"module", "identity-access/account-service",
		"layer", "application",
		"account_id", account.AccountID,
		"role", string(account.Role),
	)
	return LoginResult{Account: account, Token: token, ExpiresAt: expiresAt}, nil
}
