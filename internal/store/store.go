// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"trade-journal/internal/models"
)

// DataStore defines the interface for data persistence. Records are scoped
// by owner; IDs are generated on insert. Callers must not rely on the order
// of query results.
type DataStore interface {
	// Trades
	InsertTrade(ctx context.Context, trade *models.Trade) error
	InsertTrades(ctx context.Context, trades []models.Trade) error
	QueryTrades(ctx context.Context, ownerID string, filter TradeFilter) ([]models.Trade, error)
	UpdateTrade(ctx context.Context, trade *models.Trade) error
	DeleteTrade(ctx context.Context, id string) error

	// Accounts
	InsertAccount(ctx context.Context, account *models.Account) error
	QueryAccounts(ctx context.Context, ownerID string) ([]models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, id string) error

	// Lifecycle
	Close() error
}

// TradeFilter represents equality and range filters for querying trades.
// Zero fields do not filter; the date range is inclusive.
type TradeFilter struct {
	AccountID string
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
