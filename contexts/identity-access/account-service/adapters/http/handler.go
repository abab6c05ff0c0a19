package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ballotbridge/contexts/identity-access/account-service/application/commands"
	"ballotbridge/contexts/identity-access/account-service/application/queries"
	"ballotbridge/contexts/identity-access/account-service/domain/entities"
	httptransport "ballotbridge/contexts/identity-access/account-service/transport/http"
)

type Handler struct {
	Register commands.RegisterUseCase
	Login    commands.LoginUseCase
	Accounts queries.AccountQueries
	Logger   *slog.Logger
}

func (h Handler) RegisterHandler(
	ctx context.Context,
	req httptransport.RegisterRequest,
	operator bool,
	operatorKey string,
) (httptransport.AccountResponse, error) {
	account, err := h.Register.Register(ctx, commands.RegisterCommand{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Operator:    operator,
		OperatorKey: operatorKey,
	})
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return mapAccount(account), nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}
	result, err := h.Login.Login(ctx, commands.LoginCommand{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.UTC().Format(time.RFC3339),
		Account:   mapAccount(result.Account),
	}, nil
}

func (h Handler) ProfileHandler(ctx context.Context, accountID string) (httptransport.AccountResponse, error) {
	account, err := h.Accounts.Get(ctx, accountID)
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return mapAccount(account), nil
}

// SessionAccount resolves the account behind an authenticated session.
func (h Handler) SessionAccount(ctx context.Context, accountID string) (entities.Account, error) {
	return h.Accounts.Get(ctx, accountID)
}

func mapAccount(account entities.Account) httptransport.AccountResponse {
	return httptransport.AccountResponse{
		AccountID: account.AccountID,
		Username:  account.Username,
		Email:     account.Email,
		Address:   account.Address,
		Role:      string(account.Role),
		Verified:  account.Verified,
		CreatedAt: account.CreatedAt.UTC().Format(time.RFC3339),
	}
}
