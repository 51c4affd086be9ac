package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

type Config struct {
	// ABI registry
	ABIDir                string
	ReloadIntervalMinutes int

	// Chain
	RPCURL               string
	ChainID              int
	TokenManagerAddress  string
	Helper3Address       string
	PancakeRouterAddress string
	WBNBAddress          string
	ContractsFile        string

	// API
	APIPort         int
	APIKey          string
	CORSAllowOrigin string

	// Database (snapshot history)
	DBEnabled  bool
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Notifications
	WebhookURL  string
	ServiceName string
}

// contractsFile is the layout of CONTRACTS_FILE.
type contractsFile struct {
	ChainID   int `toml:"chain_id"`
	Contracts struct {
		TokenManager  string `toml:"token_manager"`
		Helper3       string `toml:"helper3"`
		PancakeRouter string `toml:"pancake_router"`
		WBNB          string `toml:"wbnb"`
	} `toml:"contracts"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ABIDir:                envStr("ABI_DIR", ""),
		ReloadIntervalMinutes: envInt("RELOAD_INTERVAL_MINUTES", 15),

		// BNB Smart Chain mainnet
		RPCURL:               envStr("RPC_URL", "https://bsc-dataseed.binance.org"),
		ChainID:              envInt("CHAIN_ID", 56),
		TokenManagerAddress:  envStr("TOKEN_MANAGER_ADDRESS", "0x5c952063c7fc8610FFDB798152D69F0B9550762b"),
		Helper3Address:       envStr("HELPER3_ADDRESS", "0xF251F83e40a78868FcfA3FA4599Dad6494E46034"),
		PancakeRouterAddress: envStr("PANCAKE_ROUTER_ADDRESS", "0x10ED43C718714eb63d5aA57B78B54704E256024E"),
		WBNBAddress:          envStr("WBNB_ADDRESS", "0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c"),
		ContractsFile:        envStr("CONTRACTS_FILE", ""),

		APIPort:         envInt("API_PORT", 3002),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		DBEnabled:  envBool("DB_ENABLED", false),
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "fourmeme_abis"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),

		WebhookURL:  envStr("WEBHOOK_URL", ""),
		ServiceName: envStr("SERVICE_NAME", "FourMemeABIRegistry"),
	}

	if cfg.ContractsFile != "" {
		if err := cfg.applyContractsFile(cfg.ContractsFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyContractsFile overrides chain settings with the non-empty values of
// a TOML contracts file.
func (c *Config) applyContractsFile(path string) error {
	var f contractsFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return fmt.Errorf("decode contracts file %s: %w", path, err)
	}

	if f.ChainID != 0 {
		c.ChainID = f.ChainID
	}
	override(&c.TokenManagerAddress, f.Contracts.TokenManager)
	override(&c.Helper3Address, f.Contracts.Helper3)
	override(&c.PancakeRouterAddress, f.Contracts.PancakeRouter)
	override(&c.WBNBAddress, f.Contracts.WBNB)
	return nil
}

func (c *Config) Validate() error {
	var errs []string

	addrs := []struct {
		key, val string
	}{
		{"TOKEN_MANAGER_ADDRESS", c.TokenManagerAddress},
		{"HELPER3_ADDRESS", c.Helper3Address},
		{"PANCAKE_ROUTER_ADDRESS", c.PancakeRouterAddress},
		{"WBNB_ADDRESS", c.WBNBAddress},
	}
	for _, a := range addrs {
		if !common.IsHexAddress(a.val) {
			errs = append(errs, fmt.Sprintf("%s is not a valid address: %q", a.key, a.val))
		}
	}

	if c.ChainID <= 0 {
		errs = append(errs, "CHAIN_ID must be positive")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Sprintf("API_PORT out of range: %d", c.APIPort))
	}
	if c.ABIDir != "" {
		if info, err := os.Stat(c.ABIDir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Sprintf("ABI_DIR %q is not a readable directory", c.ABIDir))
		}
	}
	if c.DBEnabled && c.DBUser == "" {
		errs = append(errs, "DB_USER is required when DB_ENABLED is set")
	}

	if c.ABIDir == "" {
		fmt.Println("[WARN] ABI_DIR not set — serving built-in ABIs only")
	}
	if c.RPCURL == "" {
		fmt.Println("[WARN] RPC_URL not set — contract calls are unavailable")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — REST API has no authentication")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== four.meme ABI Registry Configuration ===")
	fmt.Printf("ABI Dir: %s\n", boolLabel(c.ABIDir != "", c.ABIDir, "(built-in only)"))
	fmt.Printf("Reload: every %d minutes\n", c.ReloadIntervalMinutes)
	fmt.Println("--------------------------------------")
	fmt.Printf("Chain ID: %d\n", c.ChainID)
	fmt.Printf("RPC: %s\n", c.RPCURL)
	fmt.Printf("TokenManager:  %s\n", c.TokenManagerAddress)
	fmt.Printf("Helper3:       %s\n", c.Helper3Address)
	fmt.Printf("PancakeRouter: %s\n", c.PancakeRouterAddress)
	fmt.Printf("WBNB:          %s\n", c.WBNBAddress)
	fmt.Println("--------------------------------------")
	fmt.Printf("API Port: %d\n", c.APIPort)
	fmt.Printf("Snapshots: %s\n", boolLabel(c.DBEnabled, "postgres "+c.DBHost, "disabled"))
	fmt.Printf("Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("======================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
