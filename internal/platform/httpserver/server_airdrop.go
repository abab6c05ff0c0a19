package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	accountentities "ballotbridge/contexts/identity-access/account-service/domain/entities"
	circulationerrors "ballotbridge/contexts/treasury/token-circulation/domain/errors"
	circulationhttp "ballotbridge/contexts/treasury/token-circulation/transport/http"
)

// Batch endpoints answer 200 even when individual transfers fail; the
// per-item outcomes are in the body.
func (s *Server) handleAirdropAll(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.circulation.Handler.AirdropAllHandler(r.Context(), circulationActor(account))
	if err != nil {
		s.writeCirculationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAirdropToUser(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	var req circulationhttp.AirdropToUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	resp, err := s.circulation.Handler.AirdropToUserHandler(r.Context(), circulationActor(account), req)
	if err != nil {
		s.writeCirculationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSendBack(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.circulation.Handler.SendBackHandler(r.Context(), circulationActor(account))
	if err != nil {
		s.writeCirculationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReclaim(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.circulation.Handler.ReclaimHandler(r.Context(), circulationActor(account))
	if err != nil {
		s.writeCirculationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeCirculationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, circulationerrors.ErrInvalidTransfer),
		errors.Is(err, circulationerrors.ErrNoTargets),
		errors.Is(err, circulationerrors.ErrHolderKeyMissing):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, circulationerrors.ErrOperatorRequired):
		writeError(w, http.StatusForbidden, codeAuthorization, err.Error())
	case errors.Is(err, circulationerrors.ErrOperatorUnavailable):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, circulationerrors.ErrInsufficientBalance):
		writeError(w, http.StatusUnprocessableEntity, codeInsufficientBalance, err.Error())
	case errors.Is(err, circulationerrors.ErrLedgerUnavailable):
		s.logUnexpected("circulation", err)
		writeError(w, http.StatusBadGateway, codeExternalService, circulationerrors.ErrLedgerUnavailable.Error())
	default:
		if writeSharedDomainError(w, err) {
			return
		}
		s.logUnexpected("circulation", err)
		writeUnexpectedError(w)
	}
}
