package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "ballotbridge/contexts/election-ops/vote-ledger/application"
	"ballotbridge/contexts/election-ops/vote-ledger/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/vote-ledger/domain/errors"
	"ballotbridge/contexts/election-ops/vote-ledger/ports"
)

type SubmitVoteCommand struct {
	Voter          ports.Voter
	ElectionID     string
	PostIndex      int
	CandidateIndex int
}

type SubmitVoteResult struct {
	Vote          entities.VoteRecord
	PostTitle     string
	Candidate     entities.CandidateView
	VotesCast     int
	PostsTotal    int
	Reclaimed     bool
	ReclaimTxID   string
	ReclaimFailed bool
}

type SubmitVoteUseCase struct {
	Votes     ports.VoteRepository
	Elections ports.ElectionSource
	Ledger    ports.Ledger
	Vault     ports.KeyVault
	Reclaimer ports.FundReclaimer
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc SubmitVoteUseCase) Execute(ctx context.Context, cmd SubmitVoteCommand) (SubmitVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)
	if electionID == "" || strings.TrimSpace(cmd.Voter.AccountID) == "" {
		return SubmitVoteResult{}, domainerrors.ErrInvalidVote
	}
	if strings.TrimSpace(cmd.Voter.EncryptedKey) == "" {
		return SubmitVoteResult{}, domainerrors.ErrVoterKeyMissing
	}

	election, err := uc.Elections.RawElection(ctx, electionID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if !election.IsActive {
		return SubmitVoteResult{}, domainerrors.ErrElectionNotActive
	}
	if election.PastEnd(uc.Clock.Now().UTC()) {
		if _, err := uc.Elections.CurrentElection(ctx, electionID); err != nil {
			logger.Warn("auto-expiry during vote submission failed",
				"event", "vote_submit_expiry_failed",
				"module", "election-ops/vote-ledger",
				"layer", "application",
				"election_id", electionID,
				"error", err.Error(),
			)
		}
		return SubmitVoteResult{}, domainerrors.ErrElectionEnded
	}

	if cmd.PostIndex < 0 || cmd.PostIndex >= len(election.Posts) {
		return SubmitVoteResult{}, domainerrors.ErrInvalidPost
	}
	candidate, ok := election.Candidate(cmd.PostIndex, cmd.CandidateIndex)
	if !ok {
		return SubmitVoteResult{}, domainerrors.ErrInvalidCandidate
	}

	voted, err := uc.Votes.HasVote(ctx, cmd.Voter.AccountID, electionID, cmd.PostIndex)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if voted {
		return SubmitVoteResult{}, domainerrors.ErrAlreadyVoted
	}

	key, err := uc.Vault.Decrypt(cmd.Voter.EncryptedKey)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	txID, err := uc.Ledger.SubmitVote(ctx, key, cmd.PostIndex, cmd.CandidateIndex)
	clear(key)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyVoted) {
			return SubmitVoteResult{}, err
		}
		logger.Warn("ledger rejected vote",
			"event", "vote_ledger_submit_failed",
			"module", "election-ops/vote-ledger",
			"layer", "application",
			"election_id", electionID,
			"voter_id", cmd.Voter.AccountID,
			"post_index", cmd.PostIndex,
			"error", err.Error(),
		)
		return SubmitVoteResult{}, fmt.Errorf("%w: submit vote: %v", domainerrors.ErrLedgerUnavailable, err)
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	vote := entities.VoteRecord{
		VoteID:         voteID,
		VoterID:        cmd.Voter.AccountID,
		ElectionID:     electionID,
		PostIndex:      cmd.PostIndex,
		CandidateIndex: cmd.CandidateIndex,
		TxID:           txID,
		VoterAddress:   cmd.Voter.Address,
		CreatedAt:      uc.Clock.Now().UTC(),
	}
	if err := uc.Votes.SaveVote(ctx, vote); err != nil {
		// The ledger already holds this vote; the local row is the one that
		// lost the race.
		logger.Error("vote accepted by ledger but not recorded locally",
			"event", "vote_record_failed_after_ledger",
			"module", "election-ops/vote-ledger",
			"layer", "application",
			"election_id", electionID,
			"voter_id", cmd.Voter.AccountID,
			"post_index", cmd.PostIndex,
			"tx_id", txID,
			"error", err.Error(),
		)
		return SubmitVoteResult{}, err
	}

	result := SubmitVoteResult{
		Vote:       vote,
		PostTitle:  election.PostTitle(cmd.PostIndex),
		Candidate:  candidate,
		PostsTotal: len(election.Posts),
	}
	logger.Info("vote recorded",
		"event", "vote_recorded",
		"module", "election-ops/vote-ledger",
		"layer", "application",
		"election_id", electionID,
		"voter_id", vote.VoterID,
		"post_index", vote.PostIndex,
		"tx_id", txID,
	)

	cast, err := uc.Votes.CountVotes(ctx, cmd.Voter.AccountID, electionID)
	if err != nil {
		logger.Warn("vote count after submission failed",
			"event", "vote_count_failed",
			"module", "election-ops/vote-ledger",
			"layer", "application",
			"election_id", electionID,
			"voter_id", vote.VoterID,
			"error", err.Error(),
		)
		return result, nil
	}
	result.VotesCast = cast
	if cast == len(election.Posts) {
		uc.reclaim(ctx, logger, cmd.Voter, electionID, &result)
	}
	return result, nil
}

func (uc SubmitVoteUseCase) reclaim(ctx context.Context, logger *slog.Logger, voter ports.Voter, electionID string, result *SubmitVoteResult) {
	if uc.Reclaimer == nil {
		return
	}
	result.Reclaimed = true
	txID, err := uc.Reclaimer.ReclaimAll(ctx, voter)
	if err != nil {
		result.ReclaimFailed = true
		logger.Warn("fund reclaim after final vote failed",
			"event", "vote_completion_reclaim_failed",
			"module", "election-ops/vote-ledger",
			"layer", "application",
			"election_id", electionID,
			"voter_id", voter.AccountID,
			"error", err.Error(),
		)
		return
	}
	result.ReclaimTxID = txID
	logger.Info("funds reclaimed after final vote",
		"event", "vote_completion_reclaimed",
		"module", "election-ops/vote-ledger",
		"layer", "application",
		"election_id", electionID,
		"voter_id", voter.AccountID,
		"tx_id", txID,
	)
}
