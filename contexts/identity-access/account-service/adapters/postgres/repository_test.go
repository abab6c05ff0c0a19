package postgresadapter

import (
	"context"
	"testing"
	"time"

	"ballotbridge/contexts/identity-access/account-service/domain/entities"
	domainerrors "ballotbridge/contexts/identity-access/account-service/domain/errors"
	"ballotbridge/internal/platform/db"

	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	database *db.Database
	repo     *Repository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	database, err := db.OpenSQLite("", "accounts_"+s.T().Name())
	s.Require().NoError(err)
	s.database = database
	s.repo = NewRepository(database.DB, nil)
	s.Require().NoError(s.repo.Migrate(context.Background()))
}

func (s *RepositorySuite) TearDownTest() {
	s.Require().NoError(s.database.Close())
}

func (s *RepositorySuite) account(id string, username string, role entities.Role, created time.Time) entities.Account {
	return entities.Account{
		AccountID:    id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Address:      "addr-" + id,
		EncryptedKey: "nonce:cipher",
		Role:         role,
		Verified:     true,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func (s *RepositorySuite) TestCreateAndLookup() {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.CreateAccount(ctx, s.account("a1", "alice", entities.RoleParticipant, base)))

	byID, err := s.repo.GetAccount(ctx, "a1")
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)

	byEmail, err := s.repo.FindByLogin(ctx, "ALICE@example.com")
	s.Require().NoError(err)
	s.Equal("a1", byEmail.AccountID)

	_, err = s.repo.GetAccount(ctx, "missing")
	s.ErrorIs(err, domainerrors.ErrAccountNotFound)
}

func (s *RepositorySuite) TestUniqueUsernameMapsToConflict() {
	ctx := context.Background()
	now := time.Now().UTC()
	s.Require().NoError(s.repo.CreateAccount(ctx, s.account("a1", "alice", entities.RoleParticipant, now)))
	duplicate := s.account("a2", "alice", entities.RoleParticipant, now)
	duplicate.Email = "second@example.com"
	s.ErrorIs(s.repo.CreateAccount(ctx, duplicate), domainerrors.ErrAccountExists)
}

func (s *RepositorySuite) TestFirstOperatorAndCustodialListing() {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.CreateAccount(ctx, s.account("op2", "second-op", entities.RoleOperator, base.Add(time.Hour))))
	s.Require().NoError(s.repo.CreateAccount(ctx, s.account("op1", "first-op", entities.RoleOperator, base)))
	noKey := s.account("p1", "keyless", entities.RoleParticipant, base.Add(2*time.Hour))
	noKey.EncryptedKey = ""
	s.Require().NoError(s.repo.CreateAccount(ctx, noKey))

	operator, err := s.repo.FirstOperator(ctx)
	s.Require().NoError(err)
	s.Equal("op1", operator.AccountID)

	custodial, err := s.repo.ListCustodialAccounts(ctx)
	s.Require().NoError(err)
	s.Len(custodial, 2)
	s.Equal("op1", custodial[0].AccountID)

	byIDs, err := s.repo.ListAccountsByID(ctx, []string{"p1", "op2"})
	s.Require().NoError(err)
	s.Len(byIDs, 2)
}
