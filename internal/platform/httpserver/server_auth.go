package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	accountentities "ballotbridge/contexts/identity-access/account-service/domain/entities"
	accounterrors "ballotbridge/contexts/identity-access/account-service/domain/errors"
	accounthttp "ballotbridge/contexts/identity-access/account-service/transport/http"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.register(w, r, false)
}

func (s *Server) handleRegisterOperator(w http.ResponseWriter, r *http.Request) {
	s.register(w, r, true)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, operator bool) {
	var req accounthttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	resp, err := s.accounts.Handler.RegisterHandler(r.Context(), req, operator, r.Header.Get(OperatorKeyHeader))
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req accounthttp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
		return
	}
	resp, err := s.accounts.Handler.LoginHandler(r.Context(), req)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, account accountentities.Account) {
	resp, err := s.accounts.Handler.ProfileHandler(r.Context(), account.AccountID)
	if err != nil {
		s.writeAccountDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeAccountDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounterrors.ErrInvalidRegistration):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, accounterrors.ErrAccountExists):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, accounterrors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeAuthorization, err.Error())
	case errors.Is(err, accounterrors.ErrAccountNotVerified),
		errors.Is(err, accounterrors.ErrOperatorRegistrationDenied):
		writeError(w, http.StatusForbidden, codeAuthorization, err.Error())
	case errors.Is(err, accounterrors.ErrOperatorNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	default:
		if writeSharedDomainError(w, err) {
			return
		}
		s.logUnexpected("account", err)
		writeUnexpectedError(w)
	}
}

func (s *Server) logUnexpected(area string, err error) {
	s.logger.Error("request failed",
		"event", "http_request_failed",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"area", area,
		"error", err.Error(),
	)
}
