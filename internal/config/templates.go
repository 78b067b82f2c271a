package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trade Journal Configuration

[account]
# Name of the account created on first run
default_name = "Main Account"
# Starting balance of new accounts
default_balance = 10000.0
# Account currency (display only, no conversion)
default_currency = "USD"
# Leverage recorded on new trades
default_leverage = 50
# Risk per trade in percent of balance, used by the position size calculator
risk_per_trade = 1.0

[journal]
# Owner of every journaled record
owner_id = "local"
# SQLite database path (defaults to journal.db next to this file)
db_path = ""
# Rows per transaction when importing CSV files
batch_size = 50
# Concurrent store calls for bulk deletes
workers = 4

[server]
# HTTP API port for "journal serve"
port = 8080
# Log every request at debug level
dev_mode = false
# Origins allowed by CORS
allowed_origins = ["*"]

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to the terminal
console = false
# Log to a rotating file
file = true
# Log file path (defaults to logs/journal.log next to this file)
file_path = ""
# Rotate after this many megabytes
max_size = 10
# Rotated files to keep
max_backups = 5
# Days to keep rotated files
max_age = 30
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
