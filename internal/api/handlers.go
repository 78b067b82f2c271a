package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"trade-journal/internal/calc"
	"trade-journal/internal/errors"
	"trade-journal/internal/journal"
	"trade-journal/internal/logging"
	"trade-journal/internal/models"
)

// maxImportBytes bounds an uploaded CSV.
const maxImportBytes = 10 << 20

const dayLayout = "2006-01-02"

type accountRequest struct {
	Name     string  `json:"name"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

type balanceRequest struct {
	Balance float64 `json:"balance"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError maps journal errors to status codes. Store failures are
// reported with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *errors.ValidationError
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: verr.Field})
	case errors.Is(err, errors.ErrInputValidation), errors.Is(err, errors.ErrDefaultAccount):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrNoAccount):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Msg("Request failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	current, err := s.journal.CurrentAccount()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"accounts":  s.journal.Accounts(),
		"currentId": current.ID,
	})
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !s.decode(w, r, &req) {
		return
	}
	a, err := s.journal.CreateAccount(r.Context(), req.Name, req.Balance, req.Currency)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleRenameAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !s.decode(w, r, &req) {
		return
	}
	a, err := s.journal.RenameAccount(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleSwitchAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.journal.SwitchAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if !s.decode(w, r, &req) {
		return
	}
	a, err := s.journal.SetBalance(r.Context(), chi.URLParam(r, "id"), req.Balance)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	q, err := tradeQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trades, err := s.journal.FindTrades(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, trades)
}

// tradeQuery reads symbol, since, until (YYYY-MM-DD, inclusive, UTC) and
// limit from the query string.
func tradeQuery(r *http.Request) (journal.TradeQuery, error) {
	params := r.URL.Query()
	q := journal.TradeQuery{Symbol: params.Get("symbol")}

	if v := params.Get("since"); v != "" {
		day, err := time.Parse(dayLayout, v)
		if err != nil {
			return q, errors.NewValidationError("since", v, "want YYYY-MM-DD")
		}
		q.Since = day
	}
	if v := params.Get("until"); v != "" {
		day, err := time.Parse(dayLayout, v)
		if err != nil {
			return q, errors.NewValidationError("until", v, "want YYYY-MM-DD")
		}
		q.Until = day.Add(24*time.Hour - time.Nanosecond)
	}
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, errors.NewValidationError("limit", v, "not a number")
		}
		q.Limit = n
	}
	return q, nil
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	t, err := s.journal.Trade(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleAddTrade(w http.ResponseWriter, r *http.Request) {
	var in models.TradeInput
	if !s.decode(w, r, &in) {
		return
	}
	t, err := s.journal.AddTrade(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	var in models.TradeInput
	if !s.decode(w, r, &in) {
		return
	}
	t, err := s.journal.UpdateTrade(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.DeleteTrade(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.journal.Stats())
}

func (s *Server) handleAdvanced(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.journal.Advanced())
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.journal.SymbolStats())
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.journal.Charts())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.journal.Dashboard()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var in calc.PreviewInput
	if !s.decode(w, r, &in) {
		return
	}
	in.Direction, _ = models.ParseDirection(string(in.Direction))
	s.writeJSON(w, http.StatusOK, s.journal.Preview(in))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.journal.ExportFileName("csv")))
	if err := s.journal.ExportCSV(w); err != nil {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Msg("Failed to write CSV export")
	}
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.journal.ExportFileName("json")))
	if err := s.journal.ExportBackup(w); err != nil {
		logger := logging.FromContext(r.Context())
		logger.Error().Err(err).Msg("Failed to write backup export")
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	res, err := s.journal.ImportCSV(r.Context(), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"imported": res.Imported,
		"skipped":  res.Skipped,
		"warnings": res.Warnings,
	})
}
