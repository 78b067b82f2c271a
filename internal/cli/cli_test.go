package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/models"
)

// run executes the CLI against configDir and returns its standard output.
func run(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(zerolog.Nop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", configDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "`+Version+`"`)
}

func TestConfigPathAndValidate(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), strings.TrimSpace(out))

	out, err = run(t, dir, "config", "validate", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)
}

func TestTradeAddListStats(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "trade", "add", "--json",
		"-s", "EUR/USD", "-t", "long", "-e", "1.1", "--stop", "1.095", "--target", "1.11", "--size", "1")
	require.NoError(t, err)

	var tr models.Trade
	require.NoError(t, json.Unmarshal([]byte(out), &tr))
	assert.Equal(t, 1000.0, tr.Profit)
	assert.Equal(t, 5.0, tr.RiskPercent)

	out, err = run(t, dir, "trade", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "EUR/USD")
	assert.Contains(t, out, tr.ID)

	out, err = run(t, dir, "stats", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalTrades": 1`)

	out, err = run(t, dir, "trade", "update", tr.ID, "--size", "2", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"profit": 2000`)

	_, err = run(t, dir, "trade", "delete", tr.ID)
	require.NoError(t, err)
	out, err = run(t, dir, "trade", "list", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestTradeListFilters(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "trade", "add",
		"-s", "EUR/USD", "-t", "long", "-e", "1.1", "--stop", "1.095", "--size", "1")
	require.NoError(t, err)
	_, err = run(t, dir, "trade", "add",
		"-s", "NAS100", "-t", "short", "-e", "18000", "--stop", "18040", "--size", "0.5")
	require.NoError(t, err)

	list := func(args ...string) []models.Trade {
		t.Helper()
		out, err := run(t, dir, append([]string{"trade", "list", "--json"}, args...)...)
		require.NoError(t, err)
		var trades []models.Trade
		require.NoError(t, json.Unmarshal([]byte(out), &trades))
		return trades
	}

	nas := list("--symbol", "nas100")
	require.Len(t, nas, 1)
	assert.Equal(t, "NAS100", nas[0].Symbol)
	assert.Len(t, list("--limit", "1"), 1)
	assert.Len(t, list("--since", "2000-01-01"), 2)
	assert.Empty(t, list("--until", "2000-01-01"))

	_, err = run(t, dir, "trade", "list", "--since", "last week")
	assert.Error(t, err)
}

func TestTradeAdd_InvalidInput(t *testing.T) {
	_, err := run(t, t.TempDir(), "trade", "add",
		"-s", "EUR/USD", "--entry", "0", "--stop", "1.095", "--size", "1")
	assert.Error(t, err)
}

func TestAccountsIsolateTrades(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "trade", "add",
		"-s", "NAS100", "-t", "short", "-e", "18000", "--stop", "18040", "--size", "0.5")
	require.NoError(t, err)

	_, err = run(t, dir, "account", "create", "Swing", "5000", "--currency", "eur", "--switch")
	require.NoError(t, err)

	out, err := run(t, dir, "trade", "list", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))

	out, err = run(t, dir, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Swing")
	assert.Contains(t, out, "€5,000.00")

	_, err = run(t, dir, "account", "switch", "Main Account")
	require.NoError(t, err)
	out, err = run(t, dir, "trade", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "NAS100")

	_, err = run(t, dir, "account", "delete", "Swing", "--yes")
	require.NoError(t, err)
	out, err = run(t, dir, "account", "list", "--json")
	require.NoError(t, err)
	assert.NotContains(t, out, "Swing")
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Date,Pair,Side,Entry Price,SL,TP,Lots\n"+
			"2024-05-01,GBP/USD,sell,1.25,1.255,1.24,1\n"+
			"2024-05-02,US30,buy,39000,38900,39100\n"), 0644))

	out, err := run(t, dir, "import", csvPath, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"imported": 1`)
	assert.Contains(t, out, `"skipped": 1`)

	outPath := filepath.Join(dir, "out.csv")
	_, err = run(t, dir, "export", "--out", outPath)
	require.NoError(t, err)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "GBP/USD")

	out, err = run(t, dir, "export", "--format", "json", "--out", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "1.0"`)
}

func TestCalc(t *testing.T) {
	out, err := run(t, t.TempDir(), "calc", "--json",
		"-s", "EUR/USD", "-e", "1.1", "--stop", "1.095", "--size", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"riskAmount": 500`)
	assert.Contains(t, out, `"riskPercent": 5`)
}
