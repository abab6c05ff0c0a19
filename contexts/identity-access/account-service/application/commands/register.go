package commands

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/mail"
	"strings"

	application "ballotbridge/contexts/identity-access/account-service/application"
	"ballotbridge/contexts/identity-access/account-service/domain/entities"
	domainerrors "ballotbridge/contexts/identity-access/account-service/domain/errors"
	"ballotbridge/contexts/identity-access/account-service/ports"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 64
	minPasswordLength = 8
)

type RegisterCommand struct {
	Username    string
	Email       string
	Password    string
	Operator    bool
	OperatorKey string
}

// RegisterUseCase provisions an account together with its custodial wallet.
// The private key leaves this use case only in sealed form.
type RegisterUseCase struct {
	Accounts                ports.AccountRepository
	Passwords               ports.PasswordHasher
	Wallets                 ports.WalletGenerator
	Keys                    ports.KeySealer
	Clock                   ports.Clock
	IDGen                   ports.IDGenerator
	AutoVerify              bool
	OperatorRegistrationKey string
	Logger                  *slog.Logger
}

func (uc RegisterUseCase) Register(ctx context.Context, cmd RegisterCommand) (entities.Account, error) {
	logger := application.ResolveLogger(uc.Logger)
	username := strings.TrimSpace(cmd.Username)
	email := entities.NormalizeEmail(cmd.Email)

	if len(username) < minUsernameLength || len(username) > maxUsernameLength ||
		len(cmd.Password) < minPasswordLength {
		return entities.Account{}, domainerrors.ErrInvalidRegistration
	}
	if parsed, err := mail.ParseAddress(email); err != nil || parsed.Address != email {
		return entities.Account{}, domainerrors.ErrInvalidRegistration
	}

	role := entities.RoleParticipant
	if cmd.Operator {
		expected := strings.TrimSpace(uc.OperatorRegistrationKey)
		provided := strings.TrimSpace(cmd.OperatorKey)
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) != 1 {
			logger.Warn("operator registration denied",
				"event", "account_operator_registration_denied",
				"module", "identity-access/account-service",
				"layer", "application",
				"username", username,
			)
			return entities.Account{}, domainerrors.ErrOperatorRegistrationDenied
		}
		role = entities.RoleOperator
	}

	passwordHash, err := uc.Passwords.Hash(cmd.Password)
	if err != nil {
		return entities.Account{}, err
	}
	address, privateKey, err := uc.Wallets.NewWallet()
	if err != nil {
		return entities.Account{}, err
	}
	sealedKey, err := uc.Keys.Encrypt(privateKey)
	clear(privateKey)
	if err != nil {
		return entities.Account{}, err
	}
	accountID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Account{}, err
	}

	now := uc.Clock.Now().UTC()
	account := entities.Account{
		AccountID:    accountID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Address:      address,
		EncryptedKey: sealedKey,
		Role:         role,
		Verified:     uc.AutoVerify,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.Accounts.CreateAccount(ctx, account); err != nil {
		return entities.Account{}, err
	}

	logger.Info("account registered",
		"event", "account_registered",
		"module", "identity-access/account-service",
		"layer", "application",
		"account_id", account.AccountID,
		"role", string(account.Role),
		"address", account.Address,
	)
	return account, nil
}
