package journal

import (
	"context"
	"strings"
	"time"

	"trade-journal/internal/calc"
	"trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/stats"
	"trade-journal/internal/store"
	"trade-journal/internal/validate"
)

// AddTrade validates in, derives every computed field against the active
// account and stores the trade.
func (s *Service) AddTrade(ctx context.Context, in models.TradeInput) (models.Trade, error) {
	if err := validate.TradeInput(&in); err != nil {
		return models.Trade{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.current()
	if err != nil {
		return models.Trade{}, err
	}

	t := calc.NewTrade(in, acct.Balance, s.opts.DefaultLeverage, s.opts.Now())
	t.OwnerID = s.opts.OwnerID
	t.AccountID = acct.ID

	if err := s.store.InsertTrade(ctx, &t); err != nil {
		return models.Trade{}, s.storeFailure("insert trade", err)
	}

	s.trades = append(s.trades, t)
	stats.SortNewestFirst(s.trades)
	logging.LogTrade(s.log, "added", &t)
	return t, nil
}

// UpdateTrade replaces the editable fields of trade id and re-derives the
// rest against the balance snapshot taken at entry. The timestamp is
// refreshed; owner, account, leverage and snapshot are kept.
func (s *Service) UpdateTrade(ctx context.Context, id string, in models.TradeInput) (models.Trade, error) {
	if err := validate.TradeInput(&in); err != nil {
		return models.Trade{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findTrade(id)
	if !ok {
		return models.Trade{}, notFound("trade", id)
	}
	if _, err := s.current(); err != nil {
		return models.Trade{}, err
	}

	existing := s.trades[i]
	leverage := existing.Leverage
	if leverage <= 0 {
		leverage = s.opts.DefaultLeverage
	}

	t := calc.NewTrade(in, existing.AccountBalanceAtEntry, leverage, s.opts.Now())
	if existing.AccountBalanceAtEntry <= 0 {
		// Imported without a balance: the stored percentage is all there is.
		t.RiskPercent = existing.RiskPercent
	}
	t.ID = existing.ID
	t.OwnerID = existing.OwnerID
	t.AccountID = existing.AccountID

	if err := s.store.UpdateTrade(ctx, &t); err != nil {
		return models.Trade{}, s.storeFailure("update trade", err)
	}

	s.trades[i] = t
	stats.SortNewestFirst(s.trades)
	logging.LogTrade(s.log, "updated", &t)
	return t, nil
}

// DeleteTrade removes trade id from the active account.
func (s *Service) DeleteTrade(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findTrade(id)
	if !ok {
		return notFound("trade", id)
	}
	if err := s.store.DeleteTrade(ctx, id); err != nil {
		return s.storeFailure("delete trade", err)
	}

	t := s.trades[i]
	s.trades = append(s.trades[:i], s.trades[i+1:]...)
	logging.LogTrade(s.log, "deleted", &t)
	return nil
}

// Trade returns trade id of the active account.
func (s *Service) Trade(id string) (models.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.findTrade(id)
	if !ok {
		return models.Trade{}, notFound("trade", id)
	}
	return s.trades[i], nil
}

// Trades returns the active account's trades, newest first.
func (s *Service) Trades() []models.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.Trade, 0, len(s.trades)), s.trades...)
}

// TradeQuery narrows a listing of the active account's trades. Zero fields
// do not filter; Since and Until are inclusive.
type TradeQuery struct {
	Symbol string
	Since  time.Time
	Until  time.Time
	Limit  int
}

// FindTrades returns the active account's trades matching q, newest first.
func (s *Service) FindTrades(ctx context.Context, q TradeQuery) ([]models.Trade, error) {
	symbol := strings.ToUpper(strings.TrimSpace(q.Symbol))
	if symbol != "" {
		if err := validate.Symbol(symbol); err != nil {
			return nil, err
		}
	}
	if q.Limit < 0 {
		return nil, errors.NewValidationError("limit", q.Limit, "limit cannot be negative")
	}
	if !q.Since.IsZero() && !q.Until.IsZero() && q.Until.Before(q.Since) {
		return nil, errors.NewValidationError("until", q.Until, "until is before since")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, err := s.current()
	if err != nil {
		return nil, err
	}
	trades, err := s.store.QueryTrades(ctx, s.opts.OwnerID, store.TradeFilter{
		AccountID: acct.ID,
		Symbol:    symbol,
		StartDate: q.Since,
		EndDate:   q.Until,
		Limit:     q.Limit,
	})
	if err != nil {
		return nil, s.storeFailure("query trades", err)
	}
	stats.SortNewestFirst(trades)
	return append(make([]models.Trade, 0, len(trades)), trades...), nil
}

func (s *Service) findTrade(id string) (int, bool) {
	for i := range s.trades {
		if s.trades[i].ID == id {
			return i, true
		}
	}
	return -1, false
}
