package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ballotbridge/contexts/election-ops/vote-ledger/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/vote-ledger/domain/errors"
	"ballotbridge/contexts/election-ops/vote-ledger/ports"

	"github.com/google/uuid"
)

type voteKey struct {
	voterID    string
	electionID string
	postIndex  int
}

// Store keeps vote records in memory with the same uniqueness rule as the
// SQL store: one record per (voter, election, post).
type Store struct {
	mu    sync.RWMutex
	votes map[voteKey]entities.VoteRecord
}

func NewStore(seed []entities.VoteRecord) *Store {
	votes := make(map[voteKey]entities.VoteRecord, len(seed))
	for _, vote := range seed {
		votes[keyOf(vote)] = vote
	}
	return &Store{votes: votes}
}

func (s *Store) SaveVote(_ context.Context, vote entities.VoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := keyOf(vote)
	if _, exists := s.votes[key]; exists {
		return domainerrors.ErrAlreadyVoted
	}
	s.votes[key] = vote
	return nil
}

func (s *Store) HasVote(_ context.Context, voterID string, electionID string, postIndex int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.votes[voteKey{voterID: strings.TrimSpace(voterID), electionID: strings.TrimSpace(electionID), postIndex: postIndex}]
	return exists, nil
}

func (s *Store) CountVotes(_ context.Context, voterID string, electionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for key := range s.votes {
		if key.voterID == voterID && key.electionID == electionID {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListVotesByVoter(_ context.Context, voterID string) ([]entities.VoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.VoteRecord, 0)
	for key, vote := range s.votes {
		if key.voterID == voterID {
			items = append(items, vote)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].VoteID > items[j].VoteID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListVotesByElection(_ context.Context, electionID string) ([]entities.VoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.VoteRecord, 0)
	for key, vote := range s.votes {
		if key.electionID == electionID {
			items = append(items, vote)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].VoteID < items[j].VoteID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func keyOf(vote entities.VoteRecord) voteKey {
	return voteKey{voterID: vote.VoterID, electionID: vote.ElectionID, postIndex: vote.PostIndex}
}

var _ ports.VoteRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
