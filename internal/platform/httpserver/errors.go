package httpserver

import (
	"errors"
	"net/http"

	keyvaulterrors "ballotbridge/contexts/custody/key-vault/domain/errors"
	accounterrors "ballotbridge/contexts/identity-access/account-service/domain/errors"
	accounthttp "ballotbridge/contexts/identity-access/account-service/transport/http"
)

const (
	codeValidation          = "VALIDATION_ERROR"
	codeAuthorization       = "AUTHORIZATION_ERROR"
	codeConflict            = "CONFLICT_ERROR"
	codeNotFound            = "NOT_FOUND_ERROR"
	codeInsufficientBalance = "INSUFFICIENT_BALANCE_ERROR"
	codeDataIntegrity       = "DATA_INTEGRITY_ERROR"
	codeExternalService     = "EXTERNAL_SERVICE_ERROR"
	codeInternal            = "INTERNAL_ERROR"
)

// writeSharedDomainError handles failures any area can surface: vault
// corruption and lookups of the calling account. It reports false when err
// is not one of them.
func writeSharedDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, keyvaulterrors.ErrMalformedBlob),
		errors.Is(err, keyvaulterrors.ErrEmptyKeyMaterial):
		writeError(w, http.StatusInternalServerError, codeDataIntegrity, err.Error())
	case errors.Is(err, accounterrors.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	default:
		return false
	}
	return true
}

// writeUnexpectedError hides the cause; callers log it first.
func writeUnexpectedError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, accounthttp.ErrorResponse{Code: code, Message: message})
}
