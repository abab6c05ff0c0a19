package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	keyvaulterrors "ballotbridge/contexts/custody/key-vault/domain/errors"
	electionerrors "ballotbridge/contexts/election-ops/election-lifecycle/domain/errors"
	voteerrors "ballotbridge/contexts/election-ops/vote-ledger/domain/errors"
	accountservice "ballotbridge/contexts/identity-access/account-service"
	"ballotbridge/contexts/identity-access/account-service/adapters/security"
	accountentities "ballotbridge/contexts/identity-access/account-service/domain/entities"
	circulationerrors "ballotbridge/contexts/treasury/token-circulation/domain/errors"
	"ballotbridge/internal/platform/auth"
	"ballotbridge/internal/platform/metrics"

	"golang.org/x/crypto/bcrypt"
)

const operatorKey = "operator-key"

type plainSealer struct{}

func (plainSealer) Encrypt(raw []byte) (string, error) {
	return fmt.Sprintf("sealed:%x", raw), nil
}

type testServer struct {
	*Server
	tokens   *auth.Tokens
	accounts accountservice.Module
}

func newTestServer(t *testing.T, seed ...accountentities.Account) testServer {
	t.Helper()
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	accounts := accountservice.NewInMemoryModule(seed, accountservice.Dependencies{
		Passwords:               security.BcryptHasher{Cost: bcrypt.MinCost},
		Keys:                    plainSealer{},
		Tokens:                  tokens,
		AutoVerify:              true,
		OperatorRegistrationKey: operatorKey,
	})
	server := New(Modules{Accounts: accounts}, tokens, metrics.NewRegistry(), nil, "")
	return testServer{Server: server, tokens: tokens, accounts: accounts}
}

func (s testServer) do(method string, path string, body any, token string, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return payload.Code
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)
	rr := server.do(http.MethodGet, "/healthz", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	server := newTestServer(t)
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/profile"},
		{http.MethodPost, "/api/elections/initialize"},
		{http.MethodPost, "/api/elections/e-1/start"},
		{http.MethodGet, "/api/elections/active"},
		{http.MethodGet, "/api/elections/e-1/voters"},
		{http.MethodPost, "/api/votes/submit"},
		{http.MethodGet, "/api/votes/my"},
		{http.MethodPost, "/api/airdrop/all"},
		{http.MethodPost, "/api/airdrop/reclaim"},
	}
	for _, tc := range paths {
		rr := server.do(tc.method, tc.path, nil, "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d body=%s", tc.method, tc.path, rr.Code, rr.Body.String())
		}
		if code := decodeError(t, rr); code != codeAuthorization {
			t.Fatalf("%s %s: expected %s, got %s", tc.method, tc.path, codeAuthorization, code)
		}
	}

	rr := server.do(http.MethodGet, "/api/auth/profile", nil, "not-a-jwt")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", rr.Code)
	}
}

func TestRegisterLoginAndProfile(t *testing.T) {
	server := newTestServer(t)
	rr := server.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "correct horse",
	}, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = server.do(http.MethodPost, "/api/auth/login", map[string]string{
		"identifier": "alice",
		"password":   "correct horse",
	}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("expected token in login response, got %s", rr.Body.String())
	}

	rr = server.do(http.MethodGet, "/api/auth/profile", nil, login.Token)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"username":"alice"`) {
		t.Fatalf("unexpected profile body %s", rr.Body.String())
	}

	rr = server.do(http.MethodPost, "/api/auth/login", map[string]string{
		"identifier": "alice",
		"password":   "wrong",
	}, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rr.Code)
	}
}

func TestRegisterOperatorRequiresRegistrationKey(t *testing.T) {
	server := newTestServer(t)
	body := map[string]string{
		"username": "opal",
		"email":    "op@example.com",
		"password": "correct horse",
	}
	rr := server.do(http.MethodPost, "/api/auth/register-operator", body, "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without key, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = server.do(http.MethodPost, "/api/auth/register-operator", body, "", OperatorKeyHeader, operatorKey)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 with key, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"role":"operator"`) {
		t.Fatalf("expected operator role, got %s", rr.Body.String())
	}
}

func TestUnverifiedAccountIsForbidden(t *testing.T) {
	server := newTestServer(t, accountentities.Account{
		AccountID: "acct-unverified",
		Username:  "bob",
		Email:     "bob@example.com",
		Role:      accountentities.RoleParticipant,
		Verified:  false,
		CreatedAt: time.Now(),
	})
	token, _, err := server.tokens.Issue("acct-unverified", string(accountentities.RoleParticipant))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rr := server.do(http.MethodGet, "/api/auth/profile", nil, token)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}

	token, _, _ = server.tokens.Issue("acct-deleted", string(accountentities.RoleParticipant))
	rr = server.do(http.MethodGet, "/api/auth/profile", nil, token)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown subject, got %d", rr.Code)
	}
}

func TestElectionDetailsRejectsMalformedIncludeResults(t *testing.T) {
	server := newTestServer(t, accountentities.Account{
		AccountID: "acct-1",
		Username:  "carol",
		Email:     "carol@example.com",
		Role:      accountentities.RoleParticipant,
		Verified:  true,
		CreatedAt: time.Now(),
	})
	token, _, _ := server.tokens.Issue("acct-1", string(accountentities.RoleParticipant))
	rr := server.do(http.MethodGet, "/api/elections/e-1?include_results=maybe", nil, token)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	if code := decodeError(t, rr); code != codeValidation {
		t.Fatalf("expected %s, got %s", codeValidation, code)
	}
}

func TestDomainErrorTaxonomy(t *testing.T) {
	server := newTestServer(t)
	cases := []struct {
		name   string
		write  func(http.ResponseWriter, error)
		err    error
		status int
		code   string
	}{
		{"invalid election", server.writeElectionDomainError, electionerrors.ErrInvalidElection, http.StatusBadRequest, codeValidation},
		{"another active", server.writeElectionDomainError, electionerrors.ErrAnotherElectionActive, http.StatusConflict, codeConflict},
		{"still active", server.writeElectionDomainError, electionerrors.ErrElectionStillActive, http.StatusConflict, codeConflict},
		{"not owner", server.writeElectionDomainError, electionerrors.ErrNotElectionOwner, http.StatusForbidden, codeAuthorization},
		{"election missing", server.writeElectionDomainError, electionerrors.ErrElectionNotFound, http.StatusNotFound, codeNotFound},
		{"election ledger", server.writeElectionDomainError, fmt.Errorf("%w: start: timeout", electionerrors.ErrLedgerUnavailable), http.StatusBadGateway, codeExternalService},
		{"corrupt key", server.writeElectionDomainError, keyvaulterrors.ErrMalformedBlob, http.StatusInternalServerError, codeDataIntegrity},
		{"election store down", server.writeElectionDomainError, fmt.Errorf("dial tcp: connection refused"), http.StatusInternalServerError, codeInternal},
		{"vote store down", server.writeVoteDomainError, fmt.Errorf("dial tcp: connection refused"), http.StatusInternalServerError, codeInternal},
		{"already voted", server.writeVoteDomainError, voteerrors.ErrAlreadyVoted, http.StatusConflict, codeConflict},
		{"election ended", server.writeVoteDomainError, voteerrors.ErrElectionEnded, http.StatusConflict, codeConflict},
		{"bad candidate", server.writeVoteDomainError, voteerrors.ErrInvalidCandidate, http.StatusBadRequest, codeValidation},
		{"vote ledger", server.writeVoteDomainError, fmt.Errorf("%w: submit: refused", voteerrors.ErrLedgerUnavailable), http.StatusBadGateway, codeExternalService},
		{"insufficient", server.writeCirculationDomainError, circulationerrors.ErrInsufficientBalance, http.StatusUnprocessableEntity, codeInsufficientBalance},
		{"no targets", server.writeCirculationDomainError, circulationerrors.ErrNoTargets, http.StatusBadRequest, codeValidation},
		{"not operator", server.writeCirculationDomainError, circulationerrors.ErrOperatorRequired, http.StatusForbidden, codeAuthorization},
		{"unknown", server.writeCirculationDomainError, fmt.Errorf("disk on fire"), http.StatusInternalServerError, codeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tc.write(rr, tc.err)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d body=%s", tc.status, rr.Code, rr.Body.String())
			}
			if code := decodeError(t, rr); code != tc.code {
				t.Fatalf("expected %s, got %s", tc.code, code)
			}
		})
	}
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	server := newTestServer(t)
	server.do(http.MethodGet, "/healthz", nil, "")
	rr := server.do(http.MethodGet, "/metrics", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `http_requests_total{code="200",route="GET /healthz"}`) {
		t.Fatalf("expected healthz request counter, got %s", rr.Body.String())
	}
}
