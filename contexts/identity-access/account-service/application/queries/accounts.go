package queries

import (
	"context"
	"strings"

	"ballotbridge/contexts/identity-access/account-service/domain/entities"
	"ballotbridge/contexts/identity-access/account-service/ports"
)

type AccountQueries struct {
	Accounts ports.AccountRepository
}

func (q AccountQueries) Get(ctx context.Context, accountID string) (entities.Account, error) {
	return q.Accounts.GetAccount(ctx, strings.TrimSpace(accountID))
}

// Operator resolves the authoritative operator: the oldest operator account.
func (q AccountQueries) Operator(ctx context.Context) (entities.Account, error) {
	return q.Accounts.FirstOperator(ctx)
}

func (q AccountQueries) Custodial(ctx context.Context) ([]entities.Account, error) {
	return q.Accounts.ListCustodialAccounts(ctx)
}

func (q AccountQueries) ByIDs(ctx context.Context, accountIDs []string) (map[string]entities.Account, error) {
	items, err := q.Accounts.ListAccountsByID(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]entities.Account, len(items))
	for _, item := range items {
		out[item.AccountID] = item
	}
	return out, nil
}
