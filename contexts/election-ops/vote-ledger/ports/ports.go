package ports

import (
	"context"
	"time"

	"ballotbridge/contexts/election-ops/vote-ledger/domain/entities"
)

// Voter is the authenticated caller casting or reading votes.
type Voter struct {
	AccountID    string
	Address      string
	EncryptedKey string
}

// VoteRepository is insert-only. SaveVote returns ErrAlreadyVoted when the
// (voter, election, post) uniqueness constraint rejects the row.
type VoteRepository interface {
	SaveVote(ctx context.Context, vote entities.VoteRecord) error
	HasVote(ctx context.Context, voterID string, electionID string, postIndex int) (bool, error)
	CountVotes(ctx context.Context, voterID string, electionID string) (int, error)
	ListVotesByVoter(ctx context.Context, voterID string) ([]entities.VoteRecord, error)
	ListVotesByElection(ctx context.Context, electionID string) ([]entities.VoteRecord, error)
}

// ElectionSource reads elections owned by the lifecycle module.
// RawElection leaves state untouched; CurrentElection applies auto-expiry
// first. Both return ErrElectionNotFound for unknown ids.
type ElectionSource interface {
	RawElection(ctx context.Context, electionID string) (entities.ElectionView, error)
	CurrentElection(ctx context.Context, electionID string) (entities.ElectionView, error)
}

// Ledger returns ErrAlreadyVoted when the ledger itself reports a duplicate.
type Ledger interface {
	SubmitVote(ctx context.Context, voterKey []byte, postIndex int, candidateIndex int) (string, error)
}

type KeyVault interface {
	Decrypt(blob string) ([]byte, error)
}

// FundReclaimer returns a voter's remaining balance to the operator.
type FundReclaimer interface {
	ReclaimAll(ctx context.Context, voter Voter) (string, error)
}

type VoterProfile struct {
	AccountID string
	Username  string
	Address   string
}

type VoterDirectory interface {
	Profiles(ctx context.Context, accountIDs []string) (map[string]VoterProfile, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
