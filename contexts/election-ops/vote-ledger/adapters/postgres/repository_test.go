package postgresadapter

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"ballotbridge/contexts/election-ops/vote-ledger/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/vote-ledger/domain/errors"
	"ballotbridge/internal/platform/db"

	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	database *db.Database
	repo     *Repository
	base     time.Time
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	database, err := db.OpenSQLite("", "votes_"+s.T().Name())
	s.Require().NoError(err)
	s.database = database
	s.repo = NewRepository(database.DB, nil)
	s.Require().NoError(s.repo.Migrate(context.Background()))
	s.base = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
}

func (s *RepositorySuite) TearDownTest() {
	s.Require().NoError(s.database.Close())
}

func (s *RepositorySuite) vote(id string, voterID string, post int, at time.Time) entities.VoteRecord {
	return entities.VoteRecord{
		VoteID:         id,
		VoterID:        voterID,
		ElectionID:     "e1",
		PostIndex:      post,
		CandidateIndex: 1,
		TxID:           "tx-" + id,
		VoterAddress:   "addr-" + voterID,
		CreatedAt:      at,
	}
}

func (s *RepositorySuite) TestSaveCountAndList() {
	ctx := context.Background()
	s.Require().NoError(s.repo.SaveVote(ctx, s.vote("v1", "alice", 0, s.base)))
	s.Require().NoError(s.repo.SaveVote(ctx, s.vote("v2", "alice", 1, s.base.Add(time.Minute))))
	s.Require().NoError(s.repo.SaveVote(ctx, s.vote("v3", "bob", 0, s.base.Add(2*time.Minute))))

	voted, err := s.repo.HasVote(ctx, "alice", "e1", 1)
	s.Require().NoError(err)
	s.True(voted)
	voted, err = s.repo.HasVote(ctx, "bob", "e1", 1)
	s.Require().NoError(err)
	s.False(voted)

	count, err := s.repo.CountVotes(ctx, "alice", "e1")
	s.Require().NoError(err)
	s.Equal(2, count)

	mine, err := s.repo.ListVotesByVoter(ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(mine, 2)
	s.Equal("v2", mine[0].VoteID)

	all, err := s.repo.ListVotesByElection(ctx, "e1")
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("v1", all[0].VoteID)
	s.Equal("addr-bob", all[2].VoterAddress)
}

func (s *RepositorySuite) TestUniqueTripleRejectsDuplicate() {
	ctx := context.Background()
	s.Require().NoError(s.repo.SaveVote(ctx, s.vote("v1", "alice", 0, s.base)))
	s.ErrorIs(s.repo.SaveVote(ctx, s.vote("v2", "alice", 0, s.base)), domainerrors.ErrAlreadyVoted)
}

func (s *RepositorySuite) TestConcurrentInsertsKeepOneRow() {
	ctx := context.Background()
	const writers = 6
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		saved    int
		rejected int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.repo.SaveVote(ctx, s.vote("v"+strconv.Itoa(i), "alice", 0, s.base))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				saved++
			} else if errors.Is(err, domainerrors.ErrAlreadyVoted) {
				rejected++
			}
		}(i)
	}
	wg.Wait()
	s.Equal(1, saved)
	s.Equal(writers-1, rejected)

	count, err := s.repo.CountVotes(ctx, "alice", "e1")
	s.Require().NoError(err)
	s.Equal(1, count)
}
