package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	electionqueries "ballotbridge/contexts/election-ops/election-lifecycle/application/queries"
	electionentities "ballotbridge/contexts/election-ops/election-lifecycle/domain/entities"
	electionerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
	voteentities "ballotbridge/contexts/election-ops/vote-ledger/domain/entities"
	voteerrors "ballotbridge/contexts/election-ops/vote-ledger/domain/errors"
	voteports "ballotbridge/contexts/election-ops/vote-ledger/ports"
	accountqueries "ballotbridge/contexts/identity-access/account-service/application/queries"
	accountentities "ballotbridge/contexts/identity-access/account-service/domain/entities"
	circulationcommands "ballotbridge/contexts/treasury/token-circulation/application/commands"
	circulationentities "ballotbridge/contexts/treasury/token-circulation/domain/entities"
)

// Bridges adapt one context's public surface to another context's ports.
// Contexts never import each other; translation happens only here.

type operatorDirectory struct {
	accounts accountqueries.AccountQueries
}

func (d operatorDirectory) OperatorKey(ctx context.Context, operatorID string) (string, error) {
	account, err := d.accounts.Get(ctx, operatorID)
	if err != nil {
		return "", err
	}
	return account.EncryptedKey, nil
}

type electionSource struct {
	elections electionqueries.ElectionQueries
}

func (s electionSource) RawElection(ctx context.Context, electionID string) (voteentities.ElectionView, error) {
	election, err := s.elections.Raw(ctx, electionID)
	if err != nil {
		return voteentities.ElectionView{}, mapElectionError(err)
	}
	return electionView(election), nil
}

func (s electionSource) CurrentElection(ctx context.Context, electionID string) (voteentities.ElectionView, error) {
	election, err := s.elections.Get(ctx, electionID)
	if err != nil {
		return voteentities.ElectionView{}, mapElectionError(err)
	}
	return electionView(election), nil
}

func mapElectionError(err error) error {
	if errors.Is(err, electionerrors.ErrElectionNotFound) {
		return voteerrors.ErrElectionNotFound
	}
	return err
}

func electionView(election electionentities.Election) voteentities.ElectionView {
	posts := make([]voteentities.PostView, 0, len(election.Posts))
	for _, post := range election.Posts {
		candidates := make([]voteentities.CandidateView, 0, len(post.Candidates))
		for _, candidate := range post.Candidates {
			candidates = append(candidates, voteentities.CandidateView{Name: candidate.Name, ImageRef: candidate.ImageRef})
		}
		posts = append(posts, voteentities.PostView{Title: post.Title, Candidates: candidates})
	}
	return voteentities.ElectionView{
		ElectionID: election.ElectionID,
		Title:      election.Title,
		Posts:      posts,
		IsActive:   election.IsActive,
		StartDate:  election.StartDate,
		EndDate:    election.EndDate,
		Closed:     election.Closed,
	}
}

type voterDirectory struct {
	accounts accountqueries.AccountQueries
}

func (d voterDirectory) Profiles(ctx context.Context, accountIDs []string) (map[string]voteports.VoterProfile, error) {
	accounts, err := d.accounts.ByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]voteports.VoterProfile, len(accounts))
	for id, account := range accounts {
		out[id] = voteports.VoterProfile{AccountID: id, Username: account.Username, Address: account.Address}
	}
	return out, nil
}

type fundReclaimer struct {
	circulation circulationcommands.CirculationUseCase
}

func (r fundReclaimer) ReclaimAll(ctx context.Context, voter voteports.Voter) (string, error) {
	result, err := r.circulation.ReclaimAll(ctx, circulationentities.Holder{
		AccountID:    voter.AccountID,
		Address:      voter.Address,
		EncryptedKey: voter.EncryptedKey,
	})
	if err != nil {
		return "", err
	}
	return result.TxID, nil
}

type circulationAccounts struct {
	accounts accountqueries.AccountQueries
}

func (a circulationAccounts) Operator(ctx context.Context) (circulationentities.Holder, error) {
	account, err := a.accounts.Operator(ctx)
	if err != nil {
		return circulationentities.Holder{}, err
	}
	return holder(account), nil
}

// Holders lists participant wallets only; operator accounts never receive
// airdrops.
func (a circulationAccounts) Holders(ctx context.Context) ([]circulationentities.Holder, error) {
	accounts, err := a.accounts.Custodial(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]circulationentities.Holder, 0, len(accounts))
	for _, account := range accounts {
		if account.IsOperator() {
			continue
		}
		out = append(out, holder(account))
	}
	return out, nil
}

func holder(account accountentities.Account) circulationentities.Holder {
	return circulationentities.Holder{
		AccountID:    account.AccountID,
		Address:      account.Address,
		EncryptedKey: account.EncryptedKey,
	}
}

type electionStatus struct {
	elections electionqueries.ElectionQueries
}

func (s electionStatus) ElectionActive(ctx context.Context) (bool, error) {
	_, active, err := s.elections.Active(ctx)
	return active, err
}

// prefundHook tops up a participant's wallet when they log in during an
// active election. The circulation use case is bound after construction
// because accounts are built first.
type prefundHook struct {
	circulation *circulationcommands.CirculationUseCase
	logger      *slog.Logger
}

func (h *prefundHook) AfterLogin(ctx context.Context, account accountentities.Account) {
	if h.circulation == nil {
		return
	}
	txID, funded, err := h.circulation.PreFund(ctx, holder(account))
	if err != nil {
		h.logger.Warn("login pre-fund failed",
			"event", "bootstrap_login_prefund_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"account_id", account.AccountID,
			"error", err.Error(),
		)
		return
	}
	if funded {
		h.logger.Debug("login pre-fund sent",
			"event", "bootstrap_login_prefund_sent",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"account_id", account.AccountID,
			"tx_id", txID,
		)
	}
}
