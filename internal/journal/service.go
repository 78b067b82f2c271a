// Package journal is the composition root of the trading journal. A Service
// holds the session context and the active account's trades in memory and
// exposes the commands every front end uses.
package journal

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"trade-journal/internal/config"
	"trade-journal/internal/errors"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/stats"
	"trade-journal/internal/store"
	"trade-journal/internal/workers"
)

// Options configures a Service.
type Options struct {
	OwnerID            string
	DefaultAccountName string
	DefaultBalance     float64
	DefaultCurrency    string
	DefaultLeverage    int
	RiskPerTrade       float64
	BatchSize          int
	Workers            int
	SessionPath        string
	Now                func() time.Time
	Logger             zerolog.Logger
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, logger zerolog.Logger) Options {
	return Options{
		OwnerID:            cfg.Journal.OwnerID,
		DefaultAccountName: cfg.Account.DefaultName,
		DefaultBalance:     cfg.Account.DefaultBalance,
		DefaultCurrency:    cfg.Account.DefaultCurrency,
		DefaultLeverage:    cfg.Account.DefaultLeverage,
		RiskPerTrade:       cfg.Account.RiskPerTrade,
		BatchSize:          cfg.Journal.BatchSize,
		Workers:            cfg.Journal.Workers,
		SessionPath:        cfg.SessionPath(),
		Logger:             logger,
	}
}

// Service is the single owner of journal state for one process.
type Service struct {
	store store.DataStore
	opts  Options
	pool  *workers.Pool
	log   zerolog.Logger

	mu        sync.RWMutex
	accounts  []models.Account
	currentID string
	trades    []models.Trade
}

// New creates a Service over st. Call Open before using it.
func New(st store.DataStore, opts Options) *Service {
	if opts.OwnerID == "" {
		opts.OwnerID = "local"
	}
	if opts.DefaultAccountName == "" {
		opts.DefaultAccountName = "Main Account"
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}
	if opts.DefaultLeverage <= 0 {
		opts.DefaultLeverage = 50
	}
	if opts.RiskPerTrade <= 0 {
		opts.RiskPerTrade = 1.0
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	pool := workers.NewPool(opts.Workers)
	pool.Start()

	return &Service{
		store: st,
		opts:  opts,
		pool:  pool,
		log:   logging.WithComponent(opts.Logger, "journal"),
	}
}

// Close stops the worker pool. The store is owned by the caller.
func (s *Service) Close() {
	s.pool.Stop()
}

// OwnerID returns the owner every record is scoped to.
func (s *Service) OwnerID() string {
	return s.opts.OwnerID
}

// RiskPerTrade returns the configured risk per trade in percent.
func (s *Service) RiskPerTrade() float64 {
	return s.opts.RiskPerTrade
}

// Open loads the owner's accounts, creating the default account on first
// use, restores the session's active account and loads its trades.
func (s *Service) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := LoadSession(s.opts.SessionPath)
	if err != nil {
		s.log.Warn().Err(err).Msg("Ignoring unreadable session file")
	}
	if sess.OwnerID != s.opts.OwnerID {
		sess = Session{OwnerID: s.opts.OwnerID}
	}

	if err := s.loadAccounts(ctx); err != nil {
		return err
	}
	if err := s.ensureDefault(ctx); err != nil {
		return err
	}

	target := s.defaultAccount().ID
	if _, ok := s.findAccount(sess.CurrentAccountID); ok {
		target = sess.CurrentAccountID
	}
	if err := s.activate(ctx, target); err != nil {
		return err
	}

	s.log.Info().
		Str("owner_id", s.opts.OwnerID).
		Str("account_id", s.currentID).
		Int("accounts", len(s.accounts)).
		Int("trades", len(s.trades)).
		Msg("Journal opened")
	return nil
}

// Reload re-reads accounts and the active account's trades from the store.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadAccounts(ctx); err != nil {
		return err
	}
	target := s.currentID
	if _, ok := s.findAccount(target); !ok {
		target = s.defaultAccount().ID
	}
	return s.activate(ctx, target)
}

func (s *Service) loadAccounts(ctx context.Context) error {
	accounts, err := s.store.QueryAccounts(ctx, s.opts.OwnerID)
	if err != nil {
		return s.storeFailure("query accounts", err)
	}
	s.accounts = accounts
	return nil
}

func (s *Service) ensureDefault(ctx context.Context) error {
	for _, a := range s.accounts {
		if a.IsDefault {
			return nil
		}
	}

	if len(s.accounts) > 0 {
		promoted := s.accounts[0]
		promoted.IsDefault = true
		if err := s.store.UpdateAccount(ctx, &promoted); err != nil {
			return s.storeFailure("update account", err)
		}
		s.accounts[0] = promoted
		return nil
	}

	a := models.Account{
		OwnerID:   s.opts.OwnerID,
		Name:      s.opts.DefaultAccountName,
		Balance:   s.opts.DefaultBalance,
		Currency:  s.opts.DefaultCurrency,
		IsDefault: true,
		CreatedAt: s.opts.Now().UTC(),
	}
	if err := s.store.InsertAccount(ctx, &a); err != nil {
		return s.storeFailure("insert account", err)
	}
	s.accounts = append(s.accounts, a)
	s.log.Info().Str("account_id", a.ID).Str("name", a.Name).Msg("Created default account")
	return nil
}

// activate loads the trades of account id and makes it current. State is
// unchanged when the store fails.
func (s *Service) activate(ctx context.Context, id string) error {
	trades, err := s.store.QueryTrades(ctx, s.opts.OwnerID, store.TradeFilter{AccountID: id})
	if err != nil {
		return s.storeFailure("query trades", err)
	}
	stats.SortNewestFirst(trades)
	s.trades = trades
	s.currentID = id

	if err := SaveSession(s.opts.SessionPath, Session{OwnerID: s.opts.OwnerID, CurrentAccountID: id}); err != nil {
		s.log.Warn().Err(err).Msg("Failed to persist session")
	}
	return nil
}

func (s *Service) findAccount(id string) (int, bool) {
	if id == "" {
		return -1, false
	}
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *Service) defaultAccount() models.Account {
	for _, a := range s.accounts {
		if a.IsDefault {
			return a
		}
	}
	if len(s.accounts) > 0 {
		return s.accounts[0]
	}
	return models.Account{}
}

func (s *Service) current() (models.Account, error) {
	i, ok := s.findAccount(s.currentID)
	if !ok {
		return models.Account{}, errors.ErrNoAccount
	}
	return s.accounts[i], nil
}

// storeFailure logs a persistence failure and collapses it into the single
// store error category.
func (s *Service) storeFailure(op string, err error) error {
	s.log.Error().Err(err).Str("operation", op).Msg("Store call failed")
	return errors.NewStoreError(op, err)
}

func notFound(kind, id string) error {
	return errors.Wrapf(errors.ErrNotFound, "%s %s", kind, id)
}
