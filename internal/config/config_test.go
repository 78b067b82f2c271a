package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WritesTemplateOnFirstRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.FileExists(t, Path(dir))

	assert.Equal(t, "Main Account", cfg.Account.DefaultName)
	assert.Equal(t, 10000.0, cfg.Account.DefaultBalance)
	assert.Equal(t, "USD", cfg.Account.DefaultCurrency)
	assert.Equal(t, 50, cfg.Account.DefaultLeverage)
	assert.Equal(t, 1.0, cfg.Account.RiskPerTrade)
	assert.Equal(t, "local", cfg.Journal.OwnerID)
	assert.Equal(t, filepath.Join(dir, "journal.db"), cfg.Journal.DBPath)
	assert.Equal(t, 50, cfg.Journal.BatchSize)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, filepath.Join(dir, "logs", "journal.log"), cfg.Logging.FilePath)
	assert.Equal(t, filepath.Join(dir, "session.yaml"), cfg.SessionPath())
}

func TestLoad_ReadsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := `
[account]
default_balance = 2500.0
default_currency = "EUR"
default_leverage = 30
risk_per_trade = 0.5

[journal]
owner_id = "alice"
workers = 2

[server]
port = 9000
`
	require.NoError(t, os.WriteFile(Path(dir), []byte(content), 0644))
	t.Setenv("JOURNAL_PORT", "9100")
	t.Setenv("JOURNAL_LOG_LEVEL", "DEBUG")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, cfg.Account.DefaultBalance)
	assert.Equal(t, "EUR", cfg.Account.DefaultCurrency)
	assert.Equal(t, "Main Account", cfg.Account.DefaultName, "unset keys keep defaults")
	assert.Equal(t, "alice", cfg.Journal.OwnerID)
	assert.Equal(t, 2, cfg.Journal.Workers)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "debug", cfg.LogConfig().Level)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JOURNAL_OWNER_ID=from-dotenv\n"), 0600))
	t.Setenv("JOURNAL_OWNER_ID", "")
	os.Unsetenv("JOURNAL_OWNER_ID")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Journal.OwnerID)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Account.RiskPerTrade = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Account.DefaultCurrency = "DOLLAR"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Server.Port = 70000
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Logging.Level = "verbose"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Journal.OwnerID = " "
	assert.Error(t, bad.Validate())
}
