package journal

import (
	"context"
	"time"

	"trade-journal/internal/errors"
	"trade-journal/internal/models"
	"trade-journal/internal/store"
	"trade-journal/internal/validate"
	"trade-journal/internal/workers"
)

// Accounts returns the owner's accounts.
func (s *Service) Accounts() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.Account, 0, len(s.accounts)), s.accounts...)
}

// CurrentAccount returns the active account.
func (s *Service) CurrentAccount() (models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current()
}

// CreateAccount adds a named account. An empty currency uses the
// configured default.
func (s *Service) CreateAccount(ctx context.Context, name string, balance float64, currency string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := validate.AccountName(name, s.accounts, "")
	if err != nil {
		return models.Account{}, err
	}
	if err := validate.Balance(balance); err != nil {
		return models.Account{}, err
	}
	if currency == "" {
		currency = s.opts.DefaultCurrency
	}
	if currency, err = validate.Currency(currency); err != nil {
		return models.Account{}, err
	}

	a := models.Account{
		OwnerID:   s.opts.OwnerID,
		Name:      name,
		Balance:   balance,
		Currency:  currency,
		CreatedAt: s.opts.Now().UTC(),
	}
	if err := s.store.InsertAccount(ctx, &a); err != nil {
		return models.Account{}, s.storeFailure("insert account", err)
	}

	s.accounts = append(s.accounts, a)
	s.log.Info().Str("account_id", a.ID).Str("name", a.Name).Msg("Account created")
	return a, nil
}

// RenameAccount changes an account's name.
func (s *Service) RenameAccount(ctx context.Context, id, name string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findAccount(id)
	if !ok {
		return models.Account{}, notFound("account", id)
	}
	name, err := validate.AccountName(name, s.accounts, id)
	if err != nil {
		return models.Account{}, err
	}

	a := s.accounts[i]
	a.Name = name
	return a, s.saveAccount(ctx, i, a)
}

// SetBalance changes an account's balance. Existing trades keep the balance
// recorded when they were entered.
func (s *Service) SetBalance(ctx context.Context, id string, balance float64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findAccount(id)
	if !ok {
		return models.Account{}, notFound("account", id)
	}
	if err := validate.Balance(balance); err != nil {
		return models.Account{}, err
	}

	a := s.accounts[i]
	a.Balance = balance
	return a, s.saveAccount(ctx, i, a)
}

func (s *Service) saveAccount(ctx context.Context, i int, a models.Account) error {
	if err := s.store.UpdateAccount(ctx, &a); err != nil {
		return s.storeFailure("update account", err)
	}
	s.accounts[i] = a
	return nil
}

// SwitchAccount makes account id active and loads its trades.
func (s *Service) SwitchAccount(ctx context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findAccount(id)
	if !ok {
		return models.Account{}, notFound("account", id)
	}
	if err := s.activate(ctx, id); err != nil {
		return models.Account{}, err
	}
	s.log.Info().Str("account_id", id).Int("trades", len(s.trades)).Msg("Switched account")
	return s.accounts[i], nil
}

// DeleteAccount removes a non-default account and all of its trades. The
// trades are deleted by independent concurrent calls; if any fails the
// account itself is kept. Deleting the active account activates the default.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.findAccount(id)
	if !ok {
		return notFound("account", id)
	}
	if s.accounts[i].IsDefault {
		return errors.ErrDefaultAccount
	}

	trades, err := s.store.QueryTrades(ctx, s.opts.OwnerID, store.TradeFilter{AccountID: id})
	if err != nil {
		return s.storeFailure("query trades", err)
	}

	start := time.Now()
	tasks := make([]workers.Task, len(trades))
	for j := range trades {
		tradeID := trades[j].ID
		tasks[j] = func(ctx context.Context) error {
			return s.store.DeleteTrade(ctx, tradeID)
		}
	}
	if err := workers.RunAll(ctx, s.pool, tasks); err != nil {
		return s.storeFailure("delete account trades", err)
	}

	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return s.storeFailure("delete account", err)
	}
	s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)

	pool := s.pool.Stats()
	s.log.Info().
		Str("account_id", id).
		Int("trades", len(trades)).
		Dur("duration", time.Since(start)).
		Int("workers", pool.Workers).
		Uint64("pool_tasks_done", pool.TasksDone).
		Int("pool_queue", pool.QueueLen).
		Msg("Account deleted")

	if s.currentID == id {
		return s.activate(ctx, s.defaultAccount().ID)
	}
	return nil
}
