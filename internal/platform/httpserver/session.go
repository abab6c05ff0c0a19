package httpserver

import (
	"errors"
	"net/http"

	electionports "ballotbridge/contexts/election-ops/election-lifecycle/ports"
	voteports "ballotbridge/contexts/election-ops/vote-ledger/ports"
	accountentities "ballotbridge/contexts/identity-access/account-service/domain/entities"
	accounterrors "ballotbridge/contexts/identity-access/account-service/domain/errors"
	circulationentities "ballotbridge/contexts/treasury/token-circulation/domain/entities"
	circulationports "ballotbridge/contexts/treasury/token-circulation/ports"
	"ballotbridge/internal/platform/auth"
)

type sessionHandler func(w http.ResponseWriter, r *http.Request, account accountentities.Account)

// authenticated resolves the bearer token to a verified account before the
// wrapped handler runs. The account is reloaded on every request so a role
// or verification change applies without re-issuing tokens.
func (s *Server) authenticated(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.tokens == nil {
			writeError(w, http.StatusUnauthorized, codeAuthorization, auth.ErrInvalidToken.Error())
			return
		}
		claims, err := s.tokens.Verify(auth.BearerToken(r.Header.Get("Authorization")))
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeAuthorization, err.Error())
			return
		}
		account, err := s.accounts.Handler.SessionAccount(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, accounterrors.ErrAccountNotFound) {
				writeError(w, http.StatusUnauthorized, codeAuthorization, auth.ErrInvalidToken.Error())
				return
			}
			s.logger.Error("session lookup failed",
				"event", "http_session_lookup_failed",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"error", err.Error(),
			)
			writeUnexpectedError(w)
			return
		}
		if !account.Verified {
			writeError(w, http.StatusForbidden, codeAuthorization, accounterrors.ErrAccountNotVerified.Error())
			return
		}
		next(w, r, account)
	}
}

func electionActor(account accountentities.Account) electionports.Actor {
	return electionports.Actor{
		AccountID:    account.AccountID,
		Operator:     account.IsOperator(),
		EncryptedKey: account.EncryptedKey,
	}
}

func voter(account accountentities.Account) voteports.Voter {
	return voteports.Voter{
		AccountID:    account.AccountID,
		Address:      account.Address,
		EncryptedKey: account.EncryptedKey,
	}
}

func circulationActor(account accountentities.Account) circulationports.Actor {
	return circulationports.Actor{
		Holder: circulationentities.Holder{
			AccountID:    account.AccountID,
			Address:      account.Address,
			EncryptedKey: account.EncryptedKey,
		},
		Operator: account.IsOperator(),
	}
}
