package ports

import (
	"context"
	"time"

	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
)

// Actor is the authenticated caller as seen by this module.
type Actor struct {
	AccountID    string
	Operator     bool
	EncryptedKey string
}

type ElectionFilter struct {
	OperatorID    string
	UnstartedOnly bool
	ActiveOnly    bool
}

// ElectionRepository persists elections. The Mark* methods are
// compare-and-set: each applies only when the stored row is still in the
// required source state and returns ErrTransitionConflict otherwise.
// MarkStarted returns ErrAnotherElectionActive when the single-active
// constraint rejects the update.
type ElectionRepository interface {
	CreateElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	ListElections(ctx context.Context, filter ElectionFilter) ([]entities.Election, error)
	FindActiveElection(ctx context.Context) (entities.Election, bool, error)
	MarkStarted(ctx context.Context, electionID string, startDate time.Time, endDate time.Time, updatedAt time.Time) error
	MarkEnded(ctx context.Context, electionID string, endDate *time.Time, updatedAt time.Time) error
	MarkClosed(ctx context.Context, electionID string, results []entities.PostResult, updatedAt time.Time) error
}

type LedgerElection struct {
	ElectionRef string
	TxID        string
}

type Ledger interface {
	CreateElection(ctx context.Context, operatorKey []byte, posts []entities.Post) (LedgerElection, error)
	StartElection(ctx context.Context, operatorKey []byte) (string, error)
	EndElection(ctx context.Context, operatorKey []byte) (string, error)
	CloseElection(ctx context.Context, operatorKey []byte) (string, error)
	FetchTally(ctx context.Context, electionRef string) ([]entities.PostResult, error)
}

type KeyVault interface {
	Decrypt(blob string) ([]byte, error)
}

// OperatorDirectory returns the sealed signing key of an operator account.
// Auto-expiry uses it because no caller key is at hand on read paths.
type OperatorDirectory interface {
	OperatorKey(ctx context.Context, operatorID string) (string, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
