package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleTrade(owner, account string, ts time.Time) models.Trade {
	return models.Trade{
		OwnerID:               owner,
		AccountID:             account,
		Symbol:                "EUR/USD",
		Direction:             models.DirectionShort,
		Category:              models.CategoryForex,
		EntryPrice:            1.1,
		StopLoss:              1.105,
		TakeProfit:            models.Float(1.09),
		PositionSize:          0.5,
		Mood:                  models.MoodDisciplined,
		Notes:                 `waited for "the" retest`,
		BeforeScreenshotURL:   "https://example.com/b.png",
		Timestamp:             ts,
		Profit:                500,
		RiskDistance:          50,
		RiskAmount:            250,
		RiskPercent:           2.5,
		AccountBalanceAtEntry: 10000,
		Leverage:              30,
	}
}

func tradeByID(t *testing.T, s *SQLiteStore, ownerID, id string) *models.Trade {
	t.Helper()
	trades, err := s.QueryTrades(context.Background(), ownerID, TradeFilter{})
	require.NoError(t, err)
	for i := range trades {
		if trades[i].ID == id {
			return &trades[i]
		}
	}
	return nil
}

func TestTradeLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ts := time.Date(2024, 4, 2, 9, 15, 30, 123000000, time.UTC)

	tr := sampleTrade("u1", "a1", ts)
	require.NoError(t, s.InsertTrade(ctx, &tr))
	require.NotEmpty(t, tr.ID)

	got := tradeByID(t, s, "u1", tr.ID)
	require.NotNil(t, got)
	assert.Equal(t, tr.Symbol, got.Symbol)
	assert.Equal(t, tr.Direction, got.Direction)
	assert.Equal(t, tr.Category, got.Category)
	require.NotNil(t, got.TakeProfit)
	assert.Equal(t, 1.09, *got.TakeProfit)
	assert.Equal(t, tr.Mood, got.Mood)
	assert.Equal(t, tr.Notes, got.Notes)
	assert.Equal(t, "", got.AfterScreenshotURL)
	assert.True(t, ts.Equal(got.Timestamp))
	assert.Equal(t, 30, got.Leverage)
	assert.Equal(t, 2.5, got.RiskPercent)

	got.TakeProfit = nil
	got.Profit = 0
	require.NoError(t, s.UpdateTrade(ctx, got))
	updated := tradeByID(t, s, "u1", tr.ID)
	require.NotNil(t, updated)
	assert.Nil(t, updated.TakeProfit)
	assert.Equal(t, 0.0, updated.Profit)

	require.NoError(t, s.DeleteTrade(ctx, tr.ID))
	assert.Nil(t, tradeByID(t, s, "u1", tr.ID))
	assert.True(t, errors.Is(s.DeleteTrade(ctx, tr.ID), errors.ErrNotFound))
	assert.True(t, errors.Is(s.UpdateTrade(ctx, got), errors.ErrNotFound))
}

func TestQueryTradesScopesByOwnerAndAccount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	batch := []models.Trade{
		sampleTrade("u1", "a1", base),
		sampleTrade("u1", "a1", base.Add(time.Hour)),
		sampleTrade("u1", "a2", base.Add(2*time.Hour)),
		sampleTrade("u2", "a1", base.Add(3*time.Hour)),
	}
	batch[1].Symbol = "US30"
	require.NoError(t, s.InsertTrades(ctx, batch))
	for _, tr := range batch {
		assert.NotEmpty(t, tr.ID)
	}

	all, err := s.QueryTrades(ctx, "u1", TradeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	a1, err := s.QueryTrades(ctx, "u1", TradeFilter{AccountID: "a1"})
	require.NoError(t, err)
	assert.Len(t, a1, 2)

	us30, err := s.QueryTrades(ctx, "u1", TradeFilter{Symbol: "US30"})
	require.NoError(t, err)
	require.Len(t, us30, 1)
	assert.Equal(t, batch[1].ID, us30[0].ID)

	limited, err := s.QueryTrades(ctx, "u1", TradeFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, batch[2].ID, limited[0].ID, "newest first")

	ranged, err := s.QueryTrades(ctx, "u1", TradeFilter{
		StartDate: base.Add(30 * time.Minute),
		EndDate:   base.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.ElementsMatch(t, []string{batch[1].ID, batch[2].ID}, []string{ranged[0].ID, ranged[1].ID})

	none, err := s.QueryTrades(ctx, "nobody", TradeFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.NoError(t, s.InsertTrades(ctx, nil))
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	main := models.Account{OwnerID: "u1", Name: "Main Account", Balance: 10000, Currency: "USD", IsDefault: true,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	prop := models.Account{OwnerID: "u1", Name: "Prop", Balance: 50000, Currency: "EUR",
		CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	other := models.Account{OwnerID: "u2", Name: "Theirs", Balance: 1, Currency: "GBP"}

	require.NoError(t, s.InsertAccount(ctx, &main))
	require.NoError(t, s.InsertAccount(ctx, &prop))
	require.NoError(t, s.InsertAccount(ctx, &other))
	assert.NotEmpty(t, main.ID)
	assert.False(t, other.CreatedAt.IsZero())

	accounts, err := s.QueryAccounts(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "Main Account", accounts[0].Name)
	assert.True(t, accounts[0].IsDefault)
	assert.False(t, accounts[1].IsDefault)

	prop.Name = "Prop Firm"
	prop.Balance = 48000
	require.NoError(t, s.UpdateAccount(ctx, &prop))
	accounts, err = s.QueryAccounts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Prop Firm", accounts[1].Name)
	assert.Equal(t, 48000.0, accounts[1].Balance)

	require.NoError(t, s.DeleteAccount(ctx, prop.ID))
	assert.True(t, errors.Is(s.DeleteAccount(ctx, prop.ID), errors.ErrNotFound))
	accounts, err = s.QueryAccounts(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
