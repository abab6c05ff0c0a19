package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	voteerrors "ballotbridge/contexts/election-ops/vote-ledger/domain/errors"
	votehttp "ballotbridge/contexts/election-ops/vote-ledger/transport/http"
	accountentities "ballotbridge/contexts/identity-access/account-service/domain/entities"
)

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	var req votehttp.SubmitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	resp, err := s.votes.Handler.SubmitVoteHandler(r.Context(), voter(account), req)
	if err != nil {
		s.writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleMyVotes(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.votes.Handler.MyVotesHandler(r.Context(), account.AccountID)
	if err != nil {
		s.writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteStatus(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.votes.Handler.VoteStatusHandler(r.Context(), account.AccountID, r.PathValue("election_id"))
	if err != nil {
		s.writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Voter listings are visible to every authenticated caller.
func (s *Server) handleElectionVoters(w http.ResponseWriter, r *http.Request, _ accountentities.Account) {
	resp, err := s.votes.Handler.ElectionVotersHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		s.writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeVoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voteerrors.ErrInvalidVote),
		errors.Is(err, voteerrors.ErrInvalidPost),
		errors.Is(err, voteerrors.ErrInvalidCandidate),
		errors.Is(err, voteerrors.ErrVoterKeyMissing):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, voteerrors.ErrElectionNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, voteerrors.ErrElectionNotActive),
		errors.Is(err, voteerrors.ErrElectionEnded),
		errors.Is(err, voteerrors.ErrAlreadyVoted):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, voteerrors.ErrLedgerUnavailable):
		s.logUnexpected("vote", err)
		writeError(w, http.StatusBadGateway, codeExternalService, voteerrors.ErrLedgerUnavailable.Error())
	default:
		if writeSharedDomainError(w, err) {
			return
		}
		s.logUnexpected("vote", err)
		writeUnexpectedError(w)
	}
}
