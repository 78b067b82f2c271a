// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	retry RetryConfig
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db, retry: DefaultRetryConfig()}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Accounts table, one balance per named account
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		balance REAL NOT NULL,
		currency TEXT NOT NULL,
		is_default INTEGER DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	-- Trades table for journaled trades
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		category TEXT NOT NULL,
		entry_price REAL NOT NULL,
		stop_loss REAL NOT NULL,
		take_profit REAL,
		position_size REAL NOT NULL,
		mood TEXT,
		notes TEXT,
		before_screenshot TEXT,
		after_screenshot TEXT,
		timestamp DATETIME NOT NULL,
		profit REAL NOT NULL,
		risk_distance REAL NOT NULL,
		risk_amount REAL NOT NULL,
		risk_percent REAL NOT NULL,
		account_balance REAL NOT NULL,
		leverage INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_owner ON accounts(owner_id);
	CREATE INDEX IF NOT EXISTS idx_trades_owner_account ON trades(owner_id, account_id);
	CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Trades Methods
// ============================================================================

const tradeColumns = `id, owner_id, account_id, symbol, direction, category, entry_price, stop_loss,
	take_profit, position_size, mood, notes, before_screenshot, after_screenshot, timestamp,
	profit, risk_distance, risk_amount, risk_percent, account_balance, leverage`

const insertTradeSQL = `INSERT INTO trades (` + tradeColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertTrade(ctx context.Context, db execer, t *models.Trade) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := db.ExecContext(ctx, insertTradeSQL,
		t.ID, t.OwnerID, t.AccountID, t.Symbol, t.Direction, t.Category, t.EntryPrice, t.StopLoss,
		nullFloat(t.TakeProfit), t.PositionSize, t.Mood, t.Notes, t.BeforeScreenshotURL, t.AfterScreenshotURL,
		t.Timestamp.UTC(), t.Profit, t.RiskDistance, t.RiskAmount, t.RiskPercent, t.AccountBalanceAtEntry, t.Leverage)
	return err
}

// InsertTrade saves a trade and assigns its ID.
func (s *SQLiteStore) InsertTrade(ctx context.Context, trade *models.Trade) error {
	if err := insertTrade(ctx, s.db, trade); err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// InsertTrades saves trades in one transaction and assigns their IDs. A
// transaction that loses a lock race is retried as a whole.
func (s *SQLiteStore) InsertTrades(ctx context.Context, trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	return retryBusy(ctx, s.retry, func() error {
		return s.insertTradesTx(ctx, trades)
	})
}

func (s *SQLiteStore) insertTradesTx(ctx context.Context, trades []models.Trade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range trades {
		if err := insertTrade(ctx, tx, &trades[i]); err != nil {
			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// QueryTrades retrieves an owner's trades from the database.
func (s *SQLiteStore) QueryTrades(ctx context.Context, ownerID string, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT " + tradeColumns + " FROM trades WHERE owner_id = ?"
	args := []interface{}{ownerID}

	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate.UTC())
	}
	if !filter.EndDate.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndDate.UTC())
	}

	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// UpdateTrade overwrites every stored field of a trade.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, t *models.Trade) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE trades SET owner_id = ?, account_id = ?, symbol = ?, direction = ?, category = ?,
			entry_price = ?, stop_loss = ?, take_profit = ?, position_size = ?, mood = ?, notes = ?,
			before_screenshot = ?, after_screenshot = ?, timestamp = ?, profit = ?, risk_distance = ?,
			risk_amount = ?, risk_percent = ?, account_balance = ?, leverage = ?
		WHERE id = ?
	`, t.OwnerID, t.AccountID, t.Symbol, t.Direction, t.Category,
		t.EntryPrice, t.StopLoss, nullFloat(t.TakeProfit), t.PositionSize, t.Mood, t.Notes,
		t.BeforeScreenshotURL, t.AfterScreenshotURL, t.Timestamp.UTC(), t.Profit, t.RiskDistance,
		t.RiskAmount, t.RiskPercent, t.AccountBalanceAtEntry, t.Leverage, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	return requireRow(result, "trade", t.ID)
}

// DeleteTrade removes a trade by ID.
func (s *SQLiteStore) DeleteTrade(ctx context.Context, id string) error {
	var result sql.Result
	err := retryBusy(ctx, s.retry, func() error {
		var err error
		result, err = s.db.ExecContext(ctx, "DELETE FROM trades WHERE id = ?", id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	return requireRow(result, "trade", id)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row scanner) (*models.Trade, error) {
	var t models.Trade
	var takeProfit sql.NullFloat64
	var mood, notes, before, after sql.NullString

	err := row.Scan(&t.ID, &t.OwnerID, &t.AccountID, &t.Symbol, &t.Direction, &t.Category,
		&t.EntryPrice, &t.StopLoss, &takeProfit, &t.PositionSize, &mood, &notes, &before, &after,
		&t.Timestamp, &t.Profit, &t.RiskDistance, &t.RiskAmount, &t.RiskPercent,
		&t.AccountBalanceAtEntry, &t.Leverage)
	if err != nil {
		return nil, fmt.Errorf("failed to scan trade: %w", err)
	}

	if takeProfit.Valid {
		t.TakeProfit = models.Float(takeProfit.Float64)
	}
	t.Mood = models.Mood(mood.String)
	t.Notes = notes.String
	t.BeforeScreenshotURL = before.String
	t.AfterScreenshotURL = after.String
	t.Timestamp = t.Timestamp.UTC()
	return &t, nil
}

// ============================================================================
// Accounts Methods
// ============================================================================

// InsertAccount saves an account and assigns its ID.
func (s *SQLiteStore) InsertAccount(ctx context.Context, a *models.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, owner_id, name, balance, currency, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.OwnerID, a.Name, a.Balance, a.Currency, boolInt(a.IsDefault), a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// QueryAccounts retrieves an owner's accounts, oldest first.
func (s *SQLiteStore) QueryAccounts(ctx context.Context, ownerID string) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, name, balance, currency, is_default, created_at
		FROM accounts
		WHERE owner_id = ?
		ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var isDefault int
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Balance, &a.Currency, &isDefault, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.IsDefault = isDefault == 1
		a.CreatedAt = a.CreatedAt.UTC()
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// UpdateAccount overwrites the name, balance, currency and default flag.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, a *models.Account) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, balance = ?, currency = ?, is_default = ?
		WHERE id = ?
	`, a.Name, a.Balance, a.Currency, boolInt(a.IsDefault), a.ID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireRow(result, "account", a.ID)
}

// DeleteAccount removes an account by ID. Its trades are not touched.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return requireRow(result, "account", id)
}

func requireRow(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return errors.Wrapf(errors.ErrNotFound, "%s %s", kind, id)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
