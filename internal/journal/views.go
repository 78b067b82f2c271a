package journal

import (
	"trade-journal/internal/calc"
	"trade-journal/internal/models"
	"trade-journal/internal/stats"
)

// RecentWindow is the number of newest trades summed for the dashboard.
const RecentWindow = 3

// Dashboard bundles every aggregate of the active account.
type Dashboard struct {
	Account      models.Account     `json:"account"`
	Summary      stats.Summary      `json:"summary"`
	Advanced     stats.Advanced     `json:"advanced"`
	Charts       stats.ChartData    `json:"charts"`
	Symbols      []stats.SymbolStat `json:"symbols"`
	RecentProfit float64            `json:"recentProfit"`
}

// Stats returns the summary statistics of the active account.
func (s *Service) Stats() stats.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Compute(s.trades, s.balance())
}

// Advanced returns the advanced analytics of the active account.
func (s *Service) Advanced() stats.Advanced {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.ComputeAdvanced(s.trades)
}

// Charts returns the chart series of the active account.
func (s *Service) Charts() stats.ChartData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.Charts(s.trades, s.balance())
}

// SymbolStats returns per-symbol totals of the active account.
func (s *Service) SymbolStats() []stats.SymbolStat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stats.BySymbol(s.trades)
}

// Dashboard recomputes every aggregate from the cached trades.
func (s *Service) Dashboard() (Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, err := s.current()
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Account:      acct,
		Summary:      stats.Compute(s.trades, acct.Balance),
		Advanced:     stats.ComputeAdvanced(s.trades),
		Charts:       stats.Charts(s.trades, acct.Balance),
		Symbols:      stats.BySymbol(s.trades),
		RecentProfit: stats.Recent(s.trades, RecentWindow),
	}, nil
}

// Preview computes the live risk panel for a trade being entered. A zero
// balance or risk per trade is taken from the active account and config.
func (s *Service) Preview(in calc.PreviewInput) calc.Preview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if in.Balance <= 0 {
		in.Balance = s.balance()
	}
	if in.RiskPerTrade <= 0 {
		in.RiskPerTrade = s.opts.RiskPerTrade
	}
	return calc.ComputePreview(in)
}

func (s *Service) balance() float64 {
	acct, err := s.current()
	if err != nil {
		return 0
	}
	return acct.Balance
}
