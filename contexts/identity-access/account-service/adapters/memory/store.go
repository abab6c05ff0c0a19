package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ballotbridge/contexts/identity-access/account-service/domain/entities"
	domainerrors "ballotbridge/contexts/identity-access/account-service/domain/errors"
	"ballotbridge/contexts/identity-access/account-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	accounts map[string]entities.Account
}

func NewStore(seed []entities.Account) *Store {
	accounts := make(map[string]entities.Account, len(seed))
	for _, account := range seed {
		accounts[account.AccountID] = account
	}
	return &Store{accounts: accounts}
}

func (s *Store) CreateAccount(_ context.Context, account entities.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.AccountID]; exists {
		return domainerrors.ErrAccountExists
	}
	for _, existing := range s.accounts {
		if existing.Username == account.Username ||
			existing.Email == account.Email ||
			(account.Address != "" && existing.Address == account.Address) {
			return domainerrors.ErrAccountExists
		}
	}
	s.accounts[account.AccountID] = account
	return nil
}

func (s *Store) GetAccount(_ context.Context, accountID string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[strings.TrimSpace(accountID)]
	if !ok {
		return entities.Account{}, domainerrors.ErrAccountNotFound
	}
	return account, nil
}

func (s *Store) FindByLogin(_ context.Context, identifier string) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value := strings.TrimSpace(identifier)
	email := entities.NormalizeEmail(identifier)
	for _, account := range s.accounts {
		if account.Username == value || account.Email == email {
			return account, nil
		}
	}
	return entities.Account{}, domainerrors.ErrAccountNotFound
}

func (s *Store) FirstOperator(_ context.Context) (entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		found    entities.Account
		hasFound bool
	)
	for _, account := range s.accounts {
		if !account.IsOperator() {
			continue
		}
		if !hasFound || account.CreatedAt.Before(found.CreatedAt) {
			found = account
			hasFound = true
		}
	}
	if !hasFound {
		return entities.Account{}, domainerrors.ErrOperatorNotFound
	}
	return found, nil
}

func (s *Store) ListCustodialAccounts(_ context.Context) ([]entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		if account.HasCustodialKey() {
			items = append(items, account)
		}
	}
	sortByCreated(items)
	return items, nil
}

func (s *Store) ListAccountsByID(_ context.Context, accountIDs []string) ([]entities.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Account, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		if account, ok := s.accounts[strings.TrimSpace(accountID)]; ok {
			items = append(items, account)
		}
	}
	sortByCreated(items)
	return items, nil
}

// SetVerified flips the verification flag for tests and local seeding.
func (s *Store) SetVerified(accountID string, verified bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account, ok := s.accounts[accountID]; ok {
		account.Verified = verified
		s.accounts[accountID] = account
	}
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func sortByCreated(items []entities.Account) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].AccountID < items[j].AccountID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

var _ ports.AccountRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
