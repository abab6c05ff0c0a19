package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
	"ballotbridge/contexts/election-ops/election-lifecycle/ports"

	"github.com/google/uuid"
)

// Store keeps elections in memory. The mutex makes every Mark* call an
// atomic compare-and-set, matching the conditional updates of the SQL store.
type Store struct {
	mu        sync.RWMutex
	elections map[string]entities.Election
	now       func() time.Time
}

func NewStore(seed []entities.Election) *Store {
	elections := make(map[string]entities.Election, len(seed))
	for _, election := range seed {
		elections[election.ElectionID] = clone(election)
	}
	return &Store{elections: elections, now: time.Now}
}

// SetNow overrides the store clock for tests.
func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.elections[election.ElectionID]; exists {
		return domainerrors.ErrTransitionConflict
	}
	if election.IsActive && s.hasActiveLocked("") {
		return domainerrors.ErrAnotherElectionActive
	}
	s.elections[election.ElectionID] = clone(election)
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return clone(election), nil
}

func (s *Store) ListElections(_ context.Context, filter ports.ElectionFilter) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0, len(s.elections))
	for _, election := range s.elections {
		if filter.OperatorID != "" && election.OperatorID != filter.OperatorID {
			continue
		}
		if filter.UnstartedOnly && (election.Started() || election.Closed) {
			continue
		}
		if filter.ActiveOnly && !election.IsActive {
			continue
		}
		items = append(items, clone(election))
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ElectionID > items[j].ElectionID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) FindActiveElection(_ context.Context) (entities.Election, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, election := range s.elections {
		if election.IsActive {
			return clone(election), true, nil
		}
	}
	return entities.Election{}, false, nil
}

func (s *Store) MarkStarted(_ context.Context, electionID string, startDate time.Time, endDate time.Time, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[electionID]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	if election.IsActive || election.Closed || election.Started() {
		return domainerrors.ErrTransitionConflict
	}
	if s.hasActiveLocked(electionID) {
		return domainerrors.ErrAnotherElectionActive
	}
	election.IsActive = true
	election.StartDate = &startDate
	election.EndDate = &endDate
	election.UpdatedAt = updatedAt
	s.elections[electionID] = election
	return nil
}

func (s *Store) MarkEnded(_ context.Context, electionID string, endDate *time.Time, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[electionID]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	if !election.IsActive {
		return domainerrors.ErrTransitionConflict
	}
	election.IsActive = false
	if endDate != nil {
		value := *endDate
		election.EndDate = &value
	}
	election.UpdatedAt = updatedAt
	s.elections[electionID] = election
	return nil
}

func (s *Store) MarkClosed(_ context.Context, electionID string, results []entities.PostResult, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[electionID]
	if !ok {
		return domainerrors.ErrElectionNotFound
	}
	if election.IsActive || election.Closed || !election.Started() {
		return domainerrors.ErrTransitionConflict
	}
	election.Closed = true
	election.Results = cloneResults(results)
	election.UpdatedAt = updatedAt
	s.elections[electionID] = election
	return nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) hasActiveLocked(exceptID string) bool {
	for id, election := range s.elections {
		if id != exceptID && election.IsActive {
			return true
		}
	}
	return false
}

func clone(election entities.Election) entities.Election {
	posts := make([]entities.Post, 0, len(election.Posts))
	for _, post := range election.Posts {
		posts = append(posts, entities.Post{
			Title:      post.Title,
			Candidates: append([]entities.Candidate(nil), post.Candidates...),
		})
	}
	election.Posts = posts
	election.Results = cloneResults(election.Results)
	return election
}

func cloneResults(results []entities.PostResult) []entities.PostResult {
	if results == nil {
		return nil
	}
	out := make([]entities.PostResult, 0, len(results))
	for _, result := range results {
		out = append(out, entities.PostResult{
			PostIndex:  result.PostIndex,
			Title:      result.Title,
			Candidates: append([]entities.CandidateResult(nil), result.Candidates...),
		})
	}
	return out
}

var _ ports.ElectionRepository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
