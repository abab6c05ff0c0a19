package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	LedgerModeMemory = "memory"
	LedgerModeRPC    = "rpc"
)

// Config is centralized process configuration.
// Values are layered: built-in defaults, then an optional YAML file named by
// BALLOT_CONFIG_FILE, then environment variables (a local .env is honored).
type Config struct {
	ServiceName string `yaml:"serviceName" envconfig:"SERVICE_NAME"`
	HTTPPort    string `yaml:"httpPort"    envconfig:"HTTP_PORT"`
	LogLevel    string `yaml:"logLevel"    envconfig:"LOG_LEVEL"`
	PostgresDSN string `yaml:"postgresDsn" envconfig:"POSTGRES_DSN"`
	SQLitePath  string `yaml:"sqlitePath"  envconfig:"SQLITE_PATH"`

	LedgerMode         string        `yaml:"ledgerMode"         envconfig:"LEDGER_MODE"`
	LedgerRPCURL       string        `yaml:"ledgerRpcUrl"       envconfig:"LEDGER_RPC_URL"`
	LedgerRPCTimeout   time.Duration `yaml:"ledgerRpcTimeout"   envconfig:"LEDGER_RPC_TIMEOUT"`
	LedgerElectionSeed string        `yaml:"ledgerElectionSeed" envconfig:"LEDGER_ELECTION_SEED"`
	LedgerSimulatedFee int64         `yaml:"ledgerSimulatedFee" envconfig:"LEDGER_SIMULATED_FEE"`

	VaultSecret string        `yaml:"-" envconfig:"VAULT_SECRET"`
	TokenSecret string        `yaml:"-" envconfig:"TOKEN_SECRET"`
	TokenTTL    time.Duration `yaml:"tokenTtl" envconfig:"TOKEN_TTL"`

	StakeLamports      int64 `yaml:"stakeLamports"      envconfig:"STAKE_LAMPORTS"`
	ReclaimBasisPoints int   `yaml:"reclaimBasisPoints" envconfig:"RECLAIM_BASIS_POINTS"`
	AirdropConcurrency int   `yaml:"airdropConcurrency" envconfig:"AIRDROP_CONCURRENCY"`

	AutoVerifyAccounts      bool   `yaml:"autoVerifyAccounts" envconfig:"AUTO_VERIFY_ACCOUNTS"`
	OperatorRegistrationKey string `yaml:"-"                  envconfig:"OPERATOR_REGISTRATION_KEY"`
	MetricsEnabled          bool   `yaml:"metricsEnabled"     envconfig:"METRICS_ENABLED"`
}

func Defaults() Config {
	return Config{
		ServiceName:        "ballotbridge",
		HTTPPort:           "8080",
		LogLevel:           "info",
		LedgerMode:         LedgerModeMemory,
		LedgerRPCTimeout:   10 * time.Second,
		LedgerElectionSeed: "election_v6",
		LedgerSimulatedFee: 5000,
		TokenTTL:           24 * time.Hour,
		StakeLamports:      2_100_000,
		ReclaimBasisPoints: 9000,
		AirdropConcurrency: 4,
		AutoVerifyAccounts: true,
		MetricsEnabled:     true,
	}
}

func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()
	if path := strings.TrimSpace(os.Getenv("BALLOT_CONFIG_FILE")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	var problems []string
	switch c.LedgerMode {
	case LedgerModeMemory:
	case LedgerModeRPC:
		if strings.TrimSpace(c.LedgerRPCURL) == "" {
			problems = append(problems, "LEDGER_RPC_URL is required when LEDGER_MODE=rpc")
		}
	default:
		problems = append(problems, fmt.Sprintf("unsupported LEDGER_MODE %q", c.LedgerMode))
	}
	if strings.TrimSpace(c.LedgerElectionSeed) == "" {
		problems = append(problems, "LEDGER_ELECTION_SEED must not be empty")
	}
	if strings.TrimSpace(c.VaultSecret) == "" {
		problems = append(problems, "VAULT_SECRET is required")
	}
	if strings.TrimSpace(c.TokenSecret) == "" {
		problems = append(problems, "TOKEN_SECRET is required")
	}
	if c.StakeLamports <= 0 {
		problems = append(problems, "STAKE_LAMPORTS must be positive")
	}
	if c.ReclaimBasisPoints < 1 || c.ReclaimBasisPoints > 10000 {
		problems = append(problems, "RECLAIM_BASIS_POINTS must be within 1..10000")
	}
	if c.AirdropConcurrency < 1 {
		problems = append(problems, "AIRDROP_CONCURRENCY must be at least 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
