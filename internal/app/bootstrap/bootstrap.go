package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	keyvault "ballotbridge/contexts/custody/key-vault"
	electionlifecycle "ballotbridge/contexts/election-ops/election-lifecycle"
	electionledger "ballotbridge/contexts/election-ops/election-lifecycle/adapters/ledger"
	electionpostgres "ballotbridge/contexts/election-ops/election-lifecycle/adapters/postgres"
	voteledger "ballotbridge/contexts/election-ops/vote-ledger"
	voteledgeradapter "ballotbridge/contexts/election-ops/vote-ledger/adapters/ledger"
	votepostgres "ballotbridge/contexts/election-ops/vote-ledger/adapters/postgres"
	accountservice "ballotbridge/contexts/identity-access/account-service"
	accountpostgres "ballotbridge/contexts/identity-access/account-service/adapters/postgres"
	tokencirculation "ballotbridge/contexts/treasury/token-circulation"
	circulationledger "ballotbridge/contexts/treasury/token-circulation/adapters/ledger"
	"ballotbridge/internal/platform/auth"
	"ballotbridge/internal/platform/config"
	"ballotbridge/internal/platform/db"
	"ballotbridge/internal/platform/httpserver"
	"ballotbridge/internal/platform/ledger"
	"ballotbridge/internal/platform/metrics"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const shutdownTimeout = 15 * time.Second

type APIApp struct {
	server   *httpserver.Server
	database *db.Database
	logger   *slog.Logger
}

// Migrator is implemented by every repository that owns tables.
type Migrator interface {
	Migrate(ctx context.Context) error
}

func NewLogger(cfg config.Config, process string) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", cfg.ServiceName, "process", process)
}

// OpenStore connects to postgres when a DSN is configured and falls back to
// the embedded sqlite file otherwise.
func OpenStore(cfg config.Config) (*db.Database, error) {
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		return db.Connect(cfg.PostgresDSN)
	}
	return db.OpenSQLite(cfg.SQLitePath, cfg.ServiceName)
}

// OpenLedger selects the ledger gateway for cfg.LedgerMode.
func OpenLedger(cfg config.Config, logger *slog.Logger) (ledger.Gateway, error) {
	switch cfg.LedgerMode {
	case config.LedgerModeRPC:
		return ledger.NewClient(cfg.LedgerRPCURL, cfg.LedgerRPCTimeout, logger)
	case config.LedgerModeMemory:
		logger.Warn("using in-process simulated ledger",
			"event", "bootstrap_simulated_ledger",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return ledger.NewSimulated(cfg.LedgerElectionSeed, cfg.LedgerSimulatedFee), nil
	default:
		return nil, fmt.Errorf("unsupported ledger mode %q", cfg.LedgerMode)
	}
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, "api")

	database, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(context.Background(), database, logger); err != nil {
		_ = database.Close()
		return nil, err
	}
	gateway, err := OpenLedger(cfg, logger)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	app, err := Build(cfg, database, gateway, logger)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return app, nil
}

// MigrateStore loads configuration, opens the configured store and applies
// the schema without starting the API.
func MigrateStore(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := NewLogger(cfg, "migrate")
	database, err := OpenStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	return Migrate(ctx, database, logger)
}

// Migrate creates every table and index the repositories rely on.
func Migrate(ctx context.Context, database *db.Database, logger *slog.Logger) error {
	migrators := []Migrator{
		accountpostgres.NewRepository(database.DB, logger),
		electionpostgres.NewRepository(database.DB, logger),
		votepostgres.NewRepository(database.DB, logger),
	}
	for _, migrator := range migrators {
		if err := migrator.Migrate(ctx); err != nil {
			return err
		}
	}
	logger.Info("schema migrated",
		"event", "bootstrap_schema_migrated",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"dialect", database.Dialect,
	)
	return nil
}

// Build wires every module over an open store and ledger gateway.
func Build(cfg config.Config, database *db.Database, gateway ledger.Gateway, logger *slog.Logger) (*APIApp, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registry := metrics.NewRegistry()
	if cfg.MetricsEnabled {
		instrumented, err := ledger.Instrument(gateway, registry.Registerer())
		if err != nil {
			return nil, err
		}
		gateway = instrumented
	}

	vault, err := keyvault.NewModule(keyvault.Dependencies{Secret: cfg.VaultSecret, Logger: logger})
	if err != nil {
		return nil, err
	}
	tokens, err := auth.NewTokens(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	hook := &prefundHook{logger: logger}
	accounts := accountservice.NewModule(accountservice.Dependencies{
		Accounts:                accountpostgres.NewRepository(database.DB, logger),
		Keys:                    vault.Vault,
		Tokens:                  tokens,
		LoginHook:               hook,
		Clock:                   accountpostgres.SystemClock{},
		IDGen:                   accountpostgres.UUIDGenerator{},
		AutoVerify:              cfg.AutoVerifyAccounts,
		OperatorRegistrationKey: cfg.OperatorRegistrationKey,
		Logger:                  logger,
	})

	elections := electionlifecycle.NewModule(electionlifecycle.Dependencies{
		Elections: electionpostgres.NewRepository(database.DB, logger),
		Ledger:    electionledger.NewGateway(gateway),
		Vault:     vault.Vault,
		Operators: operatorDirectory{accounts: accounts.Queries},
		Clock:     electionpostgres.SystemClock{},
		IDGen:     electionpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	circulation := tokencirculation.NewModule(tokencirculation.Dependencies{
		Accounts:           circulationAccounts{accounts: accounts.Queries},
		Elections:          electionStatus{elections: elections.Queries},
		Ledger:             circulationledger.NewGateway(gateway),
		Vault:              vault.Vault,
		StakeAmount:        cfg.StakeLamports,
		ReclaimBasisPoints: cfg.ReclaimBasisPoints,
		Concurrency:        cfg.AirdropConcurrency,
		Logger:             logger,
	})
	hook.circulation = &circulation.Circulation

	votes := voteledger.NewModule(voteledger.Dependencies{
		Votes:     votepostgres.NewRepository(database.DB, logger),
		Elections: electionSource{elections: elections.Queries},
		Ledger:    voteledgeradapter.NewGateway(gateway),
		Vault:     vault.Vault,
		Reclaimer: fundReclaimer{circulation: circulation.Circulation},
		Voters:    voterDirectory{accounts: accounts.Queries},
		Clock:     votepostgres.SystemClock{},
		IDGen:     votepostgres.UUIDGenerator{},
		Logger:    logger,
	})

	var serverMetrics *metrics.Registry
	if cfg.MetricsEnabled {
		serverMetrics = registry
	}
	server := httpserver.New(httpserver.Modules{
		Accounts:    accounts,
		Elections:   elections,
		Votes:       votes,
		Circulation: circulation,
	}, tokens, serverMetrics, logger, normalizeAddr(cfg.HTTPPort))

	return &APIApp{
		server:   server,
		database: database,
		logger:   logger,
	}, nil
}

func (a *APIApp) Handler() http.Handler {
	return a.server.Handler()
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	errs := make(chan error, 1)
	go func() {
		errs <- a.server.Start()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errs
}

func (a *APIApp) Close() error {
	if a.database != nil {
		return a.database.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
