package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	electionerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
	electionhttp "ballotbridge/contexts/election-ops/election-lifecycle/transport/http"
	accountentities "ballotbridge/contexts/identity-access/account-service/domain/entities"
)

func (s *Server) handleInitializeElection(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	var req electionhttp.InitializeElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	resp, err := s.elections.Handler.InitializeHandler(r.Context(), electionActor(account), req)
	if err != nil {
		s.writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleStartElection(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.elections.Handler.StartHandler(r.Context(), electionActor(account), r.PathValue("election_id"))
	if err != nil {
		s.writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEndElection(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.elections.Handler.EndHandler(r.Context(), electionActor(account), r.PathValue("election_id"))
	if err != nil {
		s.writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseElection(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.elections.Handler.CloseHandler(r.Context(), electionActor(account), r.PathValue("election_id"))
	if err != nil {
		s.writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAllElections(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.elections.Handler.ListAllHandler(r.Context(), electionActor(account))
	if err != nil {
		s.writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListMyElections(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.elections.Handler.ListMineHandler(r.Context(), electionActor(account))
	if err != nil {
		s.writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUnstartedElections(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.elections.Handler.ListUnstartedHandler(r.Context(), electionActor(account))
	if err != nil {
		s.writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListActiveElections(w http.ResponseWriter, r *http.Request, _ accountentities.Account) {
	resp, err := s.elections.Handler.ListActiveHandler(r.Context())
	if err != nil {
		s.writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectionDetails(w http.ResponseWriter, r *http.Request, _ accountentities.Account) {
	includeResults := true
	if raw := r.URL.Query().Get("include_results"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "include_results must be a boolean")
			return
		}
		includeResults = parsed
	}
	resp, err := s.elections.Handler.DetailsHandler(r.Context(), r.PathValue("election_id"), includeResults)
	if err != nil {
		s.writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrInvalidElection):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, electionerrors.ErrElectionNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, electionerrors.ErrOperatorRequired),
		errors.Is(err, electionerrors.ErrNotElectionOwner):
		writeError(w, http.StatusForbidden, codeAuthorization, err.Error())
	case errors.Is(err, electionerrors.ErrAnotherElectionActive),
		errors.Is(err, electionerrors.ErrElectionAlreadyActive),
		errors.Is(err, electionerrors.ErrElectionAlreadyStarted),
		errors.Is(err, electionerrors.ErrElectionNotActive),
		errors.Is(err, electionerrors.ErrElectionStillActive),
		errors.Is(err, electionerrors.ErrElectionNotStarted),
		errors.Is(err, electionerrors.ErrElectionClosed),
		errors.Is(err, electionerrors.ErrTransitionConflict):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, electionerrors.ErrLedgerUnavailable):
		s.logUnexpected("election", err)
		writeError(w, http.StatusBadGateway, codeExternalService, electionerrors.ErrLedgerUnavailable.Error())
	default:
		if writeSharedDomainError(w, err) {
			return
		}
		s.logUnexpected("election", err)
		writeUnexpectedError(w)
	}
}
