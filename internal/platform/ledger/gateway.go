// Package ledger is the boundary to the external settlement ledger.
//
// The ledger holds the canonical tally and balances. Only one election
// account exists on the ledger at a time; its address is derived from a
// configured seed, so every election call implicitly targets that slot.
// Amounts are expressed in the ledger's smallest integer unit.
package ledger

import (
	"context"
	"errors"
)

// Key is raw ed25519 private key material as produced by GenerateWallet.
type Key []byte

type PostSpec struct {
	Title      string
	Candidates []string
}

type CreateResult struct {
	ElectionRef string
	TxID        string
}

type CandidateTally struct {
	Name  string
	Votes int64
}

type PostTally struct {
	PostIndex  int
	Title      string
	Candidates []CandidateTally
}

// Gateway is the narrow RPC surface consumed by the election, vote and
// circulation modules. Implementations must bound every call and must not
// retry on their own.
type Gateway interface {
	CreateElection(ctx context.Context, operatorKey Key, posts []PostSpec) (CreateResult, error)
	StartElection(ctx context.Context, operatorKey Key) (string, error)
	EndElection(ctx context.Context, operatorKey Key) (string, error)
	CloseElection(ctx context.Context, operatorKey Key) (string, error)
	SubmitVote(ctx context.Context, voterKey Key, postIndex int, candidateIndex int) (string, error)
	FetchTally(ctx context.Context, electionRef string) ([]PostTally, error)
	Transfer(ctx context.Context, fromKey Key, toAddress string, amount int64) (string, error)
	EstimateFee(ctx context.Context, fromKey Key, toAddress string, amount int64) (int64, error)
	Balance(ctx context.Context, address string) (int64, error)
}

var (
	ErrInvalidKey        = errors.New("ledger: invalid signing key")
	ErrInvalidAddress    = errors.New("ledger: invalid address")
	ErrInvalidAmount     = errors.New("ledger: invalid amount")
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	ErrSlotOccupied      = errors.New("ledger: election slot is occupied")
	ErrNoElection        = errors.New("ledger: no election in slot")
	ErrWrongState        = errors.New("ledger: election is not in the required state")
	ErrUnauthorized      = errors.New("ledger: signer is not the election authority")
	ErrAlreadyVoted      = errors.New("ledger: voter already voted for post")
	ErrOutOfRange        = errors.New("ledger: post or candidate index out of range")
)

// LamportsPerSOL converts whole-token amounts into ledger units.
const LamportsPerSOL int64 = 1_000_000_000
