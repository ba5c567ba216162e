package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
	StorageMySQL  = "mysql"
)

// Config holds all configuration for the application
type Config struct {
	Environment string // "development" or "production"
	LogLevel    string

	// HTTP / websocket transport
	ListenAddr   string
	JWTSecret    string
	TokenTTL     time.Duration
	TableIdleTTL time.Duration

	// Session storage
	StorageType string
	DataDir     string
	SQLitePath  string
	MySQLDSN    string

	// Optional result indexing
	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string
	ElasticsearchIndex    string

	// Optional round announcements
	DiscordToken     string
	DiscordChannelID string

	RulesFile string
	Table     TableRules
}

// TableRules are the house rules for a table. They are read from an HCL
// file with a single "table" block.
type TableRules struct {
	Decks            int   `hcl:"decks,optional"`
	StartingBalance  int64 `hcl:"starting_balance,optional"`
	MinBet           int64 `hcl:"min_bet,optional"`
	MaxBet           int64 `hcl:"max_bet,optional"`
	MaxSeats         int   `hcl:"max_seats,optional"`
	PeekDelayMS      int   `hcl:"peek_delay_ms,optional"`
	ActionDelayMS    int   `hcl:"action_delay_ms,optional"`
	DealerDelayMS    int   `hcl:"dealer_delay_ms,optional"`
	AutoResetDelayMS int   `hcl:"auto_reset_delay_ms,optional"`
}

type rulesFile struct {
	Table *TableRules `hcl:"table,block"`
}

// DefaultTableRules returns the standard six-deck table
func DefaultTableRules() TableRules {
	return TableRules{
		Decks:           6,
		StartingBalance: 10000,
		MinBet:          2,
		MaxBet:          0,
		MaxSeats:        7,
		PeekDelayMS:     100,
		ActionDelayMS:   1000,
		DealerDelayMS:   1000,
	}
}

// PeekDelay is the pause before the dealer checks for blackjack
func (t TableRules) PeekDelay() time.Duration {
	return time.Duration(t.PeekDelayMS) * time.Millisecond
}

// ActionDelay is the pause before advancing past a busted or 21 hand
func (t TableRules) ActionDelay() time.Duration {
	return time.Duration(t.ActionDelayMS) * time.Millisecond
}

// DealerDelay is the pause between dealer draws
func (t TableRules) DealerDelay() time.Duration {
	return time.Duration(t.DealerDelayMS) * time.Millisecond
}

// AutoResetDelay is the pause before a settled round is cleared. Zero disables it.
func (t TableRules) AutoResetDelay() time.Duration {
	return time.Duration(t.AutoResetDelayMS) * time.Millisecond
}

// Validate checks the rules for impossible values
func (t TableRules) Validate() error {
	if t.Decks <= 0 {
		return fmt.Errorf("decks must be positive, got %d", t.Decks)
	}
	if t.StartingBalance < 0 {
		return fmt.Errorf("starting_balance cannot be negative")
	}
	if t.MinBet <= 0 || t.MinBet%2 != 0 {
		return fmt.Errorf("min_bet must be a positive even amount, got %d", t.MinBet)
	}
	if t.MaxBet != 0 && t.MaxBet < t.MinBet {
		return fmt.Errorf("max_bet %d is below min_bet %d", t.MaxBet, t.MinBet)
	}
	if t.MaxSeats <= 0 {
		return fmt.Errorf("max_seats must be positive, got %d", t.MaxSeats)
	}
	if t.PeekDelayMS < 0 || t.ActionDelayMS < 0 || t.DealerDelayMS < 0 || t.AutoResetDelayMS < 0 {
		return fmt.Errorf("delays cannot be negative")
	}
	return nil
}

// LoadRules reads table rules from an HCL file. A missing file yields the
// defaults; unset attributes keep their default values.
func LoadRules(filename string) (TableRules, error) {
	rules := DefaultTableRules()
	if filename == "" {
		return rules, nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return rules, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return rules, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	parsed := rulesFile{Table: &TableRules{}}
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return rules, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if parsed.Table != nil {
		rules = mergeRules(rules, *parsed.Table)
	}
	return rules, rules.Validate()
}

func mergeRules(base, override TableRules) TableRules {
	if override.Decks != 0 {
		base.Decks = override.Decks
	}
	if override.StartingBalance != 0 {
		base.StartingBalance = override.StartingBalance
	}
	if override.MinBet != 0 {
		base.MinBet = override.MinBet
	}
	if override.MaxBet != 0 {
		base.MaxBet = override.MaxBet
	}
	if override.MaxSeats != 0 {
		base.MaxSeats = override.MaxSeats
	}
	if override.PeekDelayMS != 0 {
		base.PeekDelayMS = override.PeekDelayMS
	}
	if override.ActionDelayMS != 0 {
		base.ActionDelayMS = override.ActionDelayMS
	}
	if override.DealerDelayMS != 0 {
		base.DealerDelayMS = override.DealerDelayMS
	}
	if override.AutoResetDelayMS != 0 {
		base.AutoResetDelayMS = override.AutoResetDelayMS
	}
	return base
}

// Load reads the configuration from the environment and the rules file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	ttl, err := time.ParseDuration(getEnvWithDefault("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	idleTTL, err := time.ParseDuration(getEnvWithDefault("TABLE_IDLE_TTL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TABLE_IDLE_TTL: %w", err)
	}

	dataDir := getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data"))
	cfg := &Config{
		Environment:           getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:              getEnvWithDefault("LOG_LEVEL", "info"),
		ListenAddr:            getEnvWithDefault("LISTEN_ADDR", ":8080"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		TokenTTL:              ttl,
		TableIdleTTL:          idleTTL,
		StorageType:           getEnvWithDefault("STORAGE_TYPE", StorageMemory),
		DataDir:               dataDir,
		SQLitePath:            getEnvWithDefault("SQLITE_PATH", filepath.Join(dataDir, "tablejack.db")),
		MySQLDSN:              os.Getenv("MYSQL_DSN"),
		ElasticsearchURL:      os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchUsername: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword: os.Getenv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchIndex:    getEnvWithDefault("ELASTICSEARCH_INDEX", "tablejack_hands"),
		DiscordToken:          os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID:      os.Getenv("DISCORD_CHANNEL_ID"),
		RulesFile:             getEnvWithDefault("TABLEJACK_RULES", filepath.Join(wd, "table.hcl")),
	}

	cfg.Table, err = LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("loading table rules: %w", err)
	}
	if v := os.Getenv("STARTING_BALANCE"); v != "" {
		balance, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid STARTING_BALANCE: %w", err)
		}
		cfg.Table.StartingBalance = balance
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.StorageType == StorageSQLite {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// validate checks that the configuration is usable
func (c *Config) validate() error {
	switch c.StorageType {
	case StorageMemory, StorageSQLite:
	case StorageMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required when STORAGE_TYPE=mysql")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	if c.DiscordToken != "" && c.DiscordChannelID == "" {
		return fmt.Errorf("DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}
	if !c.IsDevelopment() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return c.Table.Validate()
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
