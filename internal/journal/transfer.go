package journal

import (
	"context"
	"fmt"
	"io"
	"time"

	"trade-journal/internal/csvio"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
	"trade-journal/internal/workers"
)

// ImportCSV parses r into the active account and stores the parsed trades
// in batches. Rows the parser rejects are reported, not fatal. When a batch
// fails, earlier batches stay stored and Imported counts only those.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (csvio.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, err := s.current()
	if err != nil {
		return csvio.Result{}, err
	}

	start := time.Now()
	log := logging.WithAccount(s.log, acct.ID)
	res, err := csvio.FromReader(r, csvio.Session{
		OwnerID:        s.opts.OwnerID,
		AccountID:      acct.ID,
		AccountBalance: acct.Balance,
		Leverage:       s.opts.DefaultLeverage,
		Now:            s.opts.Now,
		Logger:         log,
	})
	if err != nil {
		return csvio.Result{}, err
	}

	batch := workers.NewBatchProcessor(s.opts.BatchSize, func(trades []models.Trade) error {
		return s.store.InsertTrades(ctx, trades)
	})
	var insertErr error
	for _, t := range res.Trades {
		if insertErr = batch.Add(t); insertErr != nil {
			break
		}
	}
	if insertErr == nil {
		insertErr = batch.Flush()
	}
	res.Imported = batch.Processed()

	if err := s.activate(ctx, acct.ID); err != nil {
		return res, err
	}
	logging.LogImport(log, res.Imported, res.Skipped, time.Since(start))

	if insertErr != nil {
		return res, s.storeFailure("insert trades", insertErr)
	}
	return res, nil
}

// ExportCSV writes the active account's trades as CSV.
func (s *Service) ExportCSV(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := io.WriteString(w, csvio.ToCSV(s.trades)+"\n"); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ExportBackup writes the active account's trades and settings as a JSON
// backup.
func (s *Service) ExportBackup(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, err := s.current()
	if err != nil {
		return err
	}
	b := csvio.NewBackup(s.trades, csvio.BackupData{
		AccountSize:     acct.Balance,
		RiskPerTrade:    s.opts.RiskPerTrade,
		AccountCurrency: acct.Currency,
		Leverage:        s.opts.DefaultLeverage,
	}, s.opts.Now())
	return csvio.WriteBackup(w, b)
}

// ExportFileName returns the dated file name for an export format, "csv"
// or "json".
func (s *Service) ExportFileName(format string) string {
	if format == "json" {
		return csvio.BackupFileName(s.opts.Now())
	}
	return csvio.ExportFileName(s.opts.Now())
}
