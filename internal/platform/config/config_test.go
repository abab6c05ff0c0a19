package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadLayersFileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ballot.yaml")
	content := "httpPort: \"9090\"\nledgerRpcTimeout: 3s\nstakeLamports: 1000\nreclaimBasisPoints: 8000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("BALLOT_CONFIG_FILE", path)
	t.Setenv("VAULT_SECRET", "vault-secret")
	t.Setenv("TOKEN_SECRET", "token-secret")
	t.Setenv("STAKE_LAMPORTS", "2000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected file port 9090, got %s", cfg.HTTPPort)
	}
	if cfg.LedgerRPCTimeout != 3*time.Second {
		t.Fatalf("expected file timeout 3s, got %s", cfg.LedgerRPCTimeout)
	}
	if cfg.StakeLamports != 2000 {
		t.Fatalf("expected env stake to win, got %d", cfg.StakeLamports)
	}
	if cfg.ReclaimBasisPoints != 8000 {
		t.Fatalf("expected reclaim 8000, got %d", cfg.ReclaimBasisPoints)
	}
	if cfg.LedgerElectionSeed != "election_v6" {
		t.Fatalf("expected default seed, got %s", cfg.LedgerElectionSeed)
	}
}

func TestValidateRejectsMissingSecretsAndRPCURL(t *testing.T) {
	cfg := Defaults()
	cfg.LedgerMode = LedgerModeRPC
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}

	cfg.VaultSecret = "v"
	cfg.TokenSecret = "t"
	cfg.LedgerRPCURL = "http://ledger:8899"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
