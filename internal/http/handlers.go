package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finrecon/internal/core"
	applog "finrecon/internal/log"
	"finrecon/internal/store"
)

const (
	summaryCacheKey = "summary"
	monthlyCacheKey = "monthly"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", applog.FieldError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// isSpendingCategory reports whether a category is one of the
// assignable spending labels.
func isSpendingCategory(cat core.Category) bool {
	for _, known := range core.SpendingCategories() {
		if cat == known {
			return true
		}
	}
	return false
}

type transactionRequest struct {
	Date          string `json:"date"`
	Vendor        string `json:"vendor"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	Type          string `json:"type"`
	Notes         string `json:"notes"`
	SourceAccount string `json:"source_account"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.LoadTransactions(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to load transactions", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	yearParam := r.URL.Query().Get("year")
	monthParam := r.URL.Query().Get("month")
	if yearParam != "" && monthParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		month, err := strconv.Atoi(monthParam)
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		wantKey := fmt.Sprintf("%04d-%02d", year, month)
		filtered := make([]core.Transaction, 0, len(txs))
		for _, tx := range txs {
			key, err := core.MonthKey(tx.Date)
			if err != nil || key != wantKey {
				continue
			}
			filtered = append(filtered, tx)
		}
		txs = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+req.Amount)
		return
	}

	txType := core.TxType(req.Type)
	if req.Type == "" {
		txType = core.DetectType(req.Vendor)
	}

	category := core.Category(req.Category)
	if req.Category == "" {
		category = core.Classify(req.Vendor)
	} else if !isSpendingCategory(category) && category != core.CategoryExcludePayment {
		writeError(w, http.StatusBadRequest, "unknown category: "+req.Category)
		return
	}
	if category == core.CategoryExcludePayment {
		writeError(w, http.StatusUnprocessableEntity, "card payments are excluded from the ledger")
		return
	}

	tx := core.Transaction{
		Date:          req.Date,
		Vendor:        strings.TrimSpace(req.Vendor),
		Amount:        amount,
		Category:      category,
		Type:          txType,
		Notes:         req.Notes,
		SourceAccount: req.SourceAccount,
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.store.SaveTransaction(r.Context(), tx)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to save transaction", applog.FieldError, err.Error(), applog.FieldVendor, tx.Vendor)
		writeError(w, http.StatusInternalServerError, "failed to save transaction")
		return
	}
	tx.ID = id
	s.invalidateReadCaches()

	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to delete transaction", applog.FieldError, err.Error(), "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	s.invalidateReadCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if cached, ok := s.summaryCache.Get(summaryCacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.dashboard.Summary(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to build summary", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	s.summaryCache.Set(summaryCacheKey, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if cached, ok := s.monthlyCache.Get(monthlyCacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	report, err := s.dashboard.MonthlyStats(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to build monthly stats", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to build monthly stats")
		return
	}
	s.monthlyCache.Set(monthlyCacheKey, report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	alerts, err := s.dashboard.Alerts(r.Context(), time.Now())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to check alerts", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to check alerts")
		return
	}
	if alerts == nil {
		alerts = []core.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		budget, err := s.store.LoadBudget(r.Context())
		if err != nil {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to load budget", applog.FieldError, err.Error())
			writeError(w, http.StatusInternalServerError, "failed to load budget")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"budget": budget})
	case http.MethodPut:
		s.replaceBudget(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) replaceBudget(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	budget := core.Budget{}
	for name, raw := range req {
		cat := core.Category(name)
		if !isSpendingCategory(cat) {
			writeError(w, http.StatusBadRequest, "unknown category: "+name)
			return
		}
		limit, err := core.ParseLimit(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit for "+name+": "+raw)
			return
		}
		budget[cat] = limit
	}

	if err := s.store.SaveBudget(r.Context(), budget); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to save budget", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to save budget")
		return
	}
	s.invalidateReadCaches()
	writeJSON(w, http.StatusOK, map[string]any{"budget": budget})
}

func (s *Server) handleSuggestedBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	suggested, err := s.dashboard.SuggestedBudget(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to suggest budget", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to suggest budget")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"budget": suggested})
}

type importRequest struct {
	Account    string          `json:"account"`
	Extraction json.RawMessage `json:"extraction"`
}

func (s *Server) handleImports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Extraction) == 0 {
		writeError(w, http.StatusBadRequest, "missing extraction document")
		return
	}

	queued, result, err := s.importSvc.SubmitStatement(r.Context(), req.Account, req.Extraction)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Statement import failed", applog.FieldError, err.Error(), applog.FieldAccount, req.Account)
		writeError(w, http.StatusUnprocessableEntity, "statement import failed: "+err.Error())
		return
	}
	if queued {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	s.invalidateReadCaches()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var input core.PurchaseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !input.TotalCost.IsPositive() {
		writeError(w, http.StatusBadRequest, "total_cost must be positive")
		return
	}
	if input.FinanceMonths < 0 {
		writeError(w, http.StatusBadRequest, "finance_months cannot be negative")
		return
	}
	if input.DownPayment.IsNegative() {
		writeError(w, http.StatusBadRequest, "down_payment cannot be negative")
		return
	}

	writeJSON(w, http.StatusOK, core.SimulatePurchase(input))
}
