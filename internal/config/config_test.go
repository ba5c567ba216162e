package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRulesMissingFileUsesDefaults(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTableRules(), rules)
}

func TestLoadRulesOverridesDefaults(t *testing.T) {
	path := writeRules(t, `
table {
  decks            = 2
  starting_balance = 5000
  dealer_delay_ms  = 250
}
`)

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 2, rules.Decks)
	assert.Equal(t, int64(5000), rules.StartingBalance)
	assert.Equal(t, 250*time.Millisecond, rules.DealerDelay())
	assert.Equal(t, 100*time.Millisecond, rules.PeekDelay(), "unset values keep defaults")
	assert.Equal(t, time.Duration(0), rules.AutoResetDelay())
}

func TestLoadRulesRejectsBadValues(t *testing.T) {
	path := writeRules(t, `
table {
  min_bet = 3
}
`)
	_, err := LoadRules(path)
	assert.ErrorContains(t, err, "min_bet")
}

func TestLoadRulesRejectsInvalidHCL(t *testing.T) {
	path := writeRules(t, `table { decks = `)
	_, err := LoadRules(path)
	assert.Error(t, err)
}

func TestTableRulesValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*TableRules)
		ok     bool
	}{
		{name: "defaults", mutate: func(*TableRules) {}, ok: true},
		{name: "zero decks", mutate: func(r *TableRules) { r.Decks = 0 }},
		{name: "max below min", mutate: func(r *TableRules) { r.MaxBet = 1 }},
		{name: "no seats", mutate: func(r *TableRules) { r.MaxSeats = 0 }},
		{name: "negative delay", mutate: func(r *TableRules) { r.ActionDelayMS = -1 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rules := DefaultTableRules()
			tc.mutate(&rules)
			err := rules.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORAGE_TYPE", StorageSQLite)
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("TABLEJACK_RULES", filepath.Join(dir, "missing.hcl"))
	t.Setenv("STARTING_BALANCE", "2500")
	t.Setenv("ENVIRONMENT", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageSQLite, cfg.StorageType)
	assert.Equal(t, int64(2500), cfg.Table.StartingBalance)
	assert.DirExists(t, filepath.Join(dir, "data"))
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "postgres")
	t.Setenv("TABLEJACK_RULES", filepath.Join(t.TempDir(), "missing.hcl"))

	_, err := Load()
	assert.ErrorContains(t, err, "STORAGE_TYPE")
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("TABLEJACK_RULES", filepath.Join(t.TempDir(), "missing.hcl"))
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("TABLE_IDLE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.TableIdleTTL)

	t.Setenv("TABLE_IDLE_TTL", "soon")
	_, err = Load()
	assert.ErrorContains(t, err, "TABLE_IDLE_TTL")
}
