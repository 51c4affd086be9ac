package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CHAIN_ID", "")
	t.Setenv("API_PORT", "")
	t.Setenv("CONTRACTS_FILE", "")
	t.Setenv("TOKEN_MANAGER_ADDRESS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChainID != 56 {
		t.Fatalf("expected BSC chain id 56, got %d", cfg.ChainID)
	}
	if cfg.APIPort != 3002 {
		t.Fatalf("expected port 3002, got %d", cfg.APIPort)
	}
	if cfg.TokenManagerAddress == "" {
		t.Fatal("expected default TokenManager address")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONTRACTS_FILE", "")
	t.Setenv("CHAIN_ID", "97")
	t.Setenv("DB_ENABLED", "yes")
	t.Setenv("RELOAD_INTERVAL_MINUTES", "notanumber")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChainID != 97 {
		t.Fatalf("CHAIN_ID: got %d", cfg.ChainID)
	}
	if !cfg.DBEnabled {
		t.Fatal("DB_ENABLED=yes should enable snapshots")
	}
	if cfg.ReloadIntervalMinutes != 15 {
		t.Fatalf("bad int should fall back to default, got %d", cfg.ReloadIntervalMinutes)
	}
}

func TestLoad_ContractsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.toml")
	body := `chain_id = 97

[contracts]
token_manager = "0x1111111111111111111111111111111111111111"
pancake_router = "0x2222222222222222222222222222222222222222"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONTRACTS_FILE", path)
	t.Setenv("CHAIN_ID", "")
	t.Setenv("HELPER3_ADDRESS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ChainID != 97 {
		t.Fatalf("chain_id from file: got %d", cfg.ChainID)
	}
	if cfg.TokenManagerAddress != "0x1111111111111111111111111111111111111111" {
		t.Fatalf("token_manager: got %s", cfg.TokenManagerAddress)
	}
	if cfg.PancakeRouterAddress != "0x2222222222222222222222222222222222222222" {
		t.Fatalf("pancake_router: got %s", cfg.PancakeRouterAddress)
	}
	if cfg.Helper3Address != "0xF251F83e40a78868FcfA3FA4599Dad6494E46034" {
		t.Fatalf("helper3 should keep default, got %s", cfg.Helper3Address)
	}
}

func TestLoad_BadContractsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contracts.toml")
	if err := os.WriteFile(path, []byte("chain_id = [[["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("CONTRACTS_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected decode error")
	}
}

func validConfig() *Config {
	return &Config{
		ChainID:              56,
		APIPort:              3002,
		RPCURL:               "http://localhost:8545",
		APIKey:               "k",
		ABIDir:               "",
		TokenManagerAddress:  "0x5c952063c7fc8610FFDB798152D69F0B9550762b",
		Helper3Address:       "0xF251F83e40a78868FcfA3FA4599Dad6494E46034",
		PancakeRouterAddress: "0x10ED43C718714eb63d5aA57B78B54704E256024E",
		WBNBAddress:          "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c",
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cfg := validConfig()
	cfg.Helper3Address = "0xnothex"
	cfg.ChainID = 0
	cfg.ABIDir = filepath.Join(t.TempDir(), "missing")
	cfg.DBEnabled = true

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"HELPER3_ADDRESS", "CHAIN_ID", "ABI_DIR", "DB_USER"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in error, got:\n%v", want, err)
		}
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: 5433, DBName: "n"}
	if got := cfg.DSN(); got != "postgres://u:p@h:5433/n?sslmode=disable" {
		t.Fatalf("DSN: %s", got)
	}
}
