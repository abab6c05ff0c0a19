package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"ballotbridge/contexts/election-ops/vote-ledger/application/commands"
	"ballotbridge/contexts/election-ops/vote-ledger/application/queries"
	"ballotbridge/contexts/election-ops/vote-ledger/domain/entities"
	domainerrors "ballotbridge/contexts/election-ops/vote-ledger/domain/errors"
	"ballotbridge/contexts/election-ops/vote-ledger/ports"
	httptransport "ballotbridge/contexts/election-ops/vote-ledger/transport/http"
)

const (
	reclaimCompleted = "reclaimed"
	reclaimFailed    = "failed"
)

type Handler struct {
	Submit  commands.SubmitVoteUseCase
	Queries queries.VoteQueries
	Logger  *slog.Logger
}

// SubmitVoteHandler godoc
// @Summary Submit vote
// @Description Records one vote per post on the ledger and locally.
// @Tags vote-ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.SubmitVoteRequest true "Vote"
// @Success 201 {object} httptransport.SubmitVoteResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/votes/submit [post]
func (h Handler) SubmitVoteHandler(
	ctx context.Context,
	voter ports.Voter,
	req httptransport.SubmitVoteRequest,
) (httptransport.SubmitVoteResponse, error) {
	if req.PostIndex == nil || req.CandidateIndex == nil {
		return httptransport.SubmitVoteResponse{}, domainerrors.ErrInvalidVote
	}
	result, err := h.Submit.Execute(ctx, commands.SubmitVoteCommand{
		Voter:          voter,
		ElectionID:     req.ElectionID,
		PostIndex:      *req.PostIndex,
		CandidateIndex: *req.CandidateIndex,
	})
	if err != nil {
		return httptransport.SubmitVoteResponse{}, err
	}
	response := httptransport.SubmitVoteResponse{
		Vote: httptransport.VoteResponse{
			VoteID:         result.Vote.VoteID,
			ElectionID:     result.Vote.ElectionID,
			PostIndex:      result.Vote.PostIndex,
			PostTitle:      result.PostTitle,
			CandidateIndex: result.Vote.CandidateIndex,
			Candidate:      mapCandidate(result.Candidate),
			VotedAt:        result.Vote.CreatedAt.UTC().Format(time.RFC3339),
		},
		TxID:       result.Vote.TxID,
		VotesCast:  result.VotesCast,
		PostsTotal: result.PostsTotal,
		Completed:  result.VotesCast == result.PostsTotal,
	}
	switch {
	case result.ReclaimFailed:
		response.FundsReclaim = reclaimFailed
	case result.Reclaimed:
		response.FundsReclaim = reclaimCompleted
		response.ReclaimTxID = result.ReclaimTxID
	}
	return response, nil
}

// MyVotesHandler godoc
// @Summary List my votes
// @Description Returns the caller's votes grouped by election.
// @Tags vote-ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httptransport.MyVotesResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/votes/my [get]
func (h Handler) MyVotesHandler(ctx context.Context, voterID string) (httptransport.MyVotesResponse, error) {
	history, err := h.Queries.MyVotes(ctx, voterID)
	if err != nil {
		return httptransport.MyVotesResponse{}, err
	}
	out := make([]httptransport.ElectionHistoryResponse, 0, len(history.Elections))
	for _, election := range history.Elections {
		votes := make([]httptransport.HistoryVoteResponse, 0, len(election.Votes))
		for _, vote := range election.Votes {
			votes = append(votes, httptransport.HistoryVoteResponse{
				PostIndex:      vote.PostIndex,
				PostTitle:      vote.PostTitle,
				CandidateIndex: vote.CandidateIndex,
				Candidate:      mapCandidate(vote.Candidate),
				VotedAt:        vote.VotedAt.UTC().Format(time.RFC3339),
				TxID:           vote.TxID,
			})
		}
		out = append(out, httptransport.ElectionHistoryResponse{
			ElectionID:     election.ElectionID,
			ElectionTitle:  election.Title,
			ElectionStatus: string(election.Status),
			Votes:          votes,
		})
	}
	return httptransport.MyVotesResponse{TotalVotes: history.TotalVotes, VoteHistory: out}, nil
}

// VoteStatusHandler godoc
// @Summary Get vote status
// @Description Reports which posts of an election the caller has voted on.
// @Tags vote-ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param election_id path string true "Election id"
// @Success 200 {object} httptransport.VoteStatusResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/votes/status/{election_id} [get]
func (h Handler) VoteStatusHandler(ctx context.Context, voterID string, electionID string) (httptransport.VoteStatusResponse, error) {
	statuses, err := h.Queries.VoteStatus(ctx, voterID, electionID)
	if err != nil {
		return httptransport.VoteStatusResponse{}, err
	}
	out := make([]httptransport.PostStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, httptransport.PostStatusResponse{
			PostIndex: status.PostIndex,
			PostTitle: status.PostTitle,
			Voted:     status.Voted,
		})
	}
	return httptransport.VoteStatusResponse{ElectionID: electionID, VoteStatus: out}, nil
}

// ElectionVotersHandler godoc
// @Summary List election voters
// @Description Returns who voted in an election and when.
// @Tags vote-ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param election_id path string true "Election id"
// @Success 200 {object} httptransport.ElectionVotersResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/elections/{election_id}/voters [get]
func (h Handler) ElectionVotersHandler(ctx context.Context, electionID string) (httptransport.ElectionVotersResponse, error) {
	voters, err := h.Queries.ElectionVoters(ctx, electionID)
	if err != nil {
		return httptransport.ElectionVotersResponse{}, err
	}
	out := make([]httptransport.VoterResponse, 0, len(voters))
	for _, voter := range voters {
		out = append(out, httptransport.VoterResponse{
			Username:  voter.Username,
			Address:   voter.Address,
			PostIndex: voter.PostIndex,
			VotedAt:   voter.VotedAt.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.ElectionVotersResponse{ElectionID: electionID, VoterCount: len(out), Voters: out}, nil
}

func mapCandidate(candidate entities.CandidateView) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{Name: candidate.Name, ImageRef: candidate.ImageRef}
}
