package postgresadapter

import (
	"context"
	"testing"
	"time"

	"ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
	"ballotbridge/contexts/election-ops/election-lifecycle/ports"
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
	database, err := db.OpenSQLite("", "elections_"+s.T().Name())
	s.Require().NoError(err)
	s.database = database
	s.repo = NewRepository(database.DB, nil)
	s.Require().NoError(s.repo.Migrate(context.Background()))
	s.base = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RepositorySuite) TearDownTest() {
	s.Require().NoError(s.database.Close())
}

func (s *RepositorySuite) election(id string, operatorID string, created time.Time) entities.Election {
	return entities.Election{
		ElectionID:  id,
		LedgerRef:   "slot",
		Title:       "Election " + id,
		Description: "desc",
		Posts: []entities.Post{
			{Title: "Chair", Candidates: []entities.Candidate{{Name: "Ada", ImageRef: "img/ada.png"}, {Name: "Grace"}}},
		},
		DurationHours: 2,
		OperatorID:    operatorID,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func (s *RepositorySuite) TestCreateAndGetKeepsPosts() {
	ctx := context.Background()
	s.Require().NoError(s.repo.CreateElection(ctx, s.election("e1", "op", s.base)))

	got, err := s.repo.GetElection(ctx, "e1")
	s.Require().NoError(err)
	s.Equal("Election e1", got.Title)
	s.Require().Len(got.Posts, 1)
	s.Equal("img/ada.png", got.Posts[0].Candidates[0].ImageRef)
	s.Nil(got.StartDate)
	s.Nil(got.Results)

	_, err = s.repo.GetElection(ctx, "missing")
	s.ErrorIs(err, domainerrors.ErrElectionNotFound)
}

func (s *RepositorySuite) TestStartIsCompareAndSet() {
	ctx := context.Background()
	s.Require().NoError(s.repo.CreateElection(ctx, s.election("e1", "op", s.base)))
	end := s.base.Add(2 * time.Hour)

	s.Require().NoError(s.repo.MarkStarted(ctx, "e1", s.base, end, s.base))
	s.ErrorIs(s.repo.MarkStarted(ctx, "e1", s.base, end, s.base), domainerrors.ErrTransitionConflict)
	s.ErrorIs(s.repo.MarkStarted(ctx, "missing", s.base, end, s.base), domainerrors.ErrElectionNotFound)

	active, found, err := s.repo.FindActiveElection(ctx)
	s.Require().NoError(err)
	s.True(found)
	s.Equal("e1", active.ElectionID)
	s.Require().NotNil(active.EndDate)
	s.True(active.EndDate.Equal(end))
}

func (s *RepositorySuite) TestPartialIndexAllowsSingleActiveElection() {
	ctx := context.Background()
	s.Require().NoError(s.repo.CreateElection(ctx, s.election("e1", "op", s.base)))
	s.Require().NoError(s.repo.CreateElection(ctx, s.election("e2", "op", s.base.Add(time.Minute))))
	end := s.base.Add(time.Hour)

	s.Require().NoError(s.repo.MarkStarted(ctx, "e1", s.base, end, s.base))
	s.ErrorIs(s.repo.MarkStarted(ctx, "e2", s.base, end, s.base), domainerrors.ErrAnotherElectionActive)

	s.Require().NoError(s.repo.MarkEnded(ctx, "e1", nil, s.base))
	s.Require().NoError(s.repo.MarkStarted(ctx, "e2", s.base, end, s.base))
}

func (s *RepositorySuite) TestEndThenCloseStoresResultsOnce() {
	ctx := context.Background()
	s.Require().NoError(s.repo.CreateElection(ctx, s.election("e1", "op", s.base)))
	s.ErrorIs(s.repo.MarkClosed(ctx, "e1", nil, s.base), domainerrors.ErrTransitionConflict)

	end := s.base.Add(2 * time.Hour)
	s.Require().NoError(s.repo.MarkStarted(ctx, "e1", s.base, end, s.base))
	s.ErrorIs(s.repo.MarkClosed(ctx, "e1", nil, s.base), domainerrors.ErrTransitionConflict)

	actualEnd := s.base.Add(30 * time.Minute)
	s.Require().NoError(s.repo.MarkEnded(ctx, "e1", &actualEnd, actualEnd))
	s.ErrorIs(s.repo.MarkEnded(ctx, "e1", nil, actualEnd), domainerrors.ErrTransitionConflict)

	results := []entities.PostResult{{PostIndex: 0, Title: "Chair", Candidates: []entities.CandidateResult{{Name: "Ada", Votes: 4}}}}
	s.Require().NoError(s.repo.MarkClosed(ctx, "e1", results, actualEnd))
	s.ErrorIs(s.repo.MarkClosed(ctx, "e1", []entities.PostResult{}, actualEnd), domainerrors.ErrTransitionConflict)

	got, err := s.repo.GetElection(ctx, "e1")
	s.Require().NoError(err)
	s.True(got.Closed)
	s.False(got.IsActive)
	s.Require().NotNil(got.EndDate)
	s.True(got.EndDate.Equal(actualEnd))
	s.Require().Len(got.Results, 1)
	s.Equal(int64(4), got.Results[0].Candidates[0].Votes)
}

func (s *RepositorySuite) TestListFilters() {
	ctx := context.Background()
	s.Require().NoError(s.repo.CreateElection(ctx, s.election("e1", "op-a", s.base)))
	s.Require().NoError(s.repo.CreateElection(ctx, s.election("e2", "op-b", s.base.Add(time.Minute))))
	s.Require().NoError(s.repo.MarkStarted(ctx, "e1", s.base, s.base.Add(time.Hour), s.base))

	all, err := s.repo.ListElections(ctx, ports.ElectionFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("e2", all[0].ElectionID)

	mine, err := s.repo.ListElections(ctx, ports.ElectionFilter{OperatorID: "op-a"})
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal("e1", mine[0].ElectionID)

	unstarted, err := s.repo.ListElections(ctx, ports.ElectionFilter{UnstartedOnly: true})
	s.Require().NoError(err)
	s.Require().Len(unstarted, 1)
	s.Equal("e2", unstarted[0].ElectionID)

	active, err := s.repo.ListElections(ctx, ports.ElectionFilter{ActiveOnly: true})
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal("e1", active[0].ElectionID)
}
