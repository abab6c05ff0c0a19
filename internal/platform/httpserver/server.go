package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	electionlifecycle "ballotbridge/contexts/election-ops/election-lifecycle"
	voteledger "ballotbridge/contexts/election-ops/vote-ledger"
	accountservice "ballotbridge/contexts/identity-access/account-service"
	tokencirculation "ballotbridge/contexts/treasury/token-circulation"
	"ballotbridge/internal/platform/auth"
	"ballotbridge/internal/platform/metrics"

	_ "ballotbridge/internal/platform/httpserver/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

// OperatorKeyHeader carries the registration key required to create an
// operator account.
const OperatorKeyHeader = "X-Operator-Registration-Key"

type Modules struct {
	Accounts    accountservice.Module
	Elections   electionlifecycle.Module
	Votes       voteledger.Module
	Circulation tokencirculation.Module
}

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	accounts    accountservice.Module
	elections   electionlifecycle.Module
	votes       voteledger.Module
	circulation tokencirculation.Module
	tokens      *auth.Tokens
	metrics     *metrics.Registry
	http        *http.Server
}

func New(
	modules Modules,
	tokens *auth.Tokens,
	registry *metrics.Registry,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		accounts:    modules.Accounts,
		elections:   modules.Elections,
		votes:       modules.Votes,
		circulation: modules.Circulation,
		tokens:      tokens,
		metrics:     registry,
	}
	s.registerRoutes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed mux, wrapped with request metrics when a
// registry is configured.
func (s *Server) Handler() http.Handler {
	if s.metrics == nil {
		return s.mux
	}
	return s.metrics.Middleware(s.mux)
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/register-operator", s.handleRegisterOperator)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("GET /api/auth/profile", s.authenticated(s.handleProfile))

	s.mux.HandleFunc("POST /api/elections/initialize", s.authenticated(s.handleInitializeElection))
	s.mux.HandleFunc("POST /api/elections/{election_id}/start", s.authenticated(s.handleStartElection))
	s.mux.HandleFunc("POST /api/elections/{election_id}/end", s.authenticated(s.handleEndElection))
	s.mux.HandleFunc("POST /api/elections/{election_id}/close", s.authenticated(s.handleCloseElection))
	s.mux.HandleFunc("GET /api/elections/admin/all", s.authenticated(s.handleListAllElections))
	s.mux.HandleFunc("GET /api/elections/admin/my", s.authenticated(s.handleListMyElections))
	s.mux.HandleFunc("GET /api/elections/admin/unstarted", s.authenticated(s.handleListUnstartedElections))
	s.mux.HandleFunc("GET /api/elections/active", s.authenticated(s.handleListActiveElections))
	s.mux.HandleFunc("GET /api/elections/{election_id}", s.authenticated(s.handleElectionDetails))
	s.mux.HandleFunc("GET /api/elections/{election_id}/voters", s.authenticated(s.handleElectionVoters))

	s.mux.HandleFunc("POST /api/votes/submit", s.authenticated(s.handleSubmitVote))
	s.mux.HandleFunc("GET /api/votes/my", s.authenticated(s.handleMyVotes))
	s.mux.HandleFunc("GET /api/votes/status/{election_id}", s.authenticated(s.handleVoteStatus))

	s.mux.HandleFunc("POST /api/airdrop/all", s.authenticated(s.handleAirdropAll))
	s.mux.HandleFunc("POST /api/airdrop/to-user", s.authenticated(s.handleAirdropToUser))
	s.mux.HandleFunc("POST /api/airdrop/send-back", s.authenticated(s.handleSendBack))
	s.mux.HandleFunc("POST /api/airdrop/reclaim", s.authenticated(s.handleReclaim))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
