package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"finrecon/internal/core"
	applog "finrecon/internal/log"
	"finrecon/internal/statement"
	"finrecon/internal/store"
)

type recurringRequest struct {
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Category  string `json:"category"`
	Frequency string `json:"frequency"`
	NextDue   string `json:"next_due"`
}

type goalRequest struct {
	Name     string `json:"name"`
	Target   string `json:"target"`
	Current  string `json:"current"`
	Deadline string `json:"deadline"`
}

func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listRecurring(w, r)
	case http.MethodPost:
		s.createRecurring(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listRecurring(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.LoadRecurringExpenses(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to load recurring expenses", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load recurring expenses")
		return
	}
	if items == nil {
		items = []core.RecurringExpense{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recurring":     items,
		"monthly_total": core.MonthlyRecurringTotal(items),
	})
}

func (s *Server) createRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount: "+req.Amount)
		return
	}

	category := core.Category(req.Category)
	if !isSpendingCategory(category) {
		writeError(w, http.StatusBadRequest, "unknown category: "+req.Category)
		return
	}

	re := core.RecurringExpense{
		Name:      strings.TrimSpace(req.Name),
		Amount:    amount,
		Category:  category,
		Frequency: core.Frequency(req.Frequency),
		NextDue:   req.NextDue,
	}
	if err := re.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.store.SaveRecurringExpense(r.Context(), re)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to save recurring expense", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to save recurring expense")
		return
	}
	re.ID = id

	writeJSON(w, http.StatusCreated, re)
}

func (s *Server) handleRecurringByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/recurring/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid recurring expense id")
		return
	}

	if err := s.store.DeleteRecurringExpense(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "recurring expense not found")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to delete recurring expense", applog.FieldError, err.Error(), "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete recurring expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listGoals(w, r)
	case http.MethodPost:
		s.createGoal(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.dashboard.Goals(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to load goals", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load goals")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"goals": goals})
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	target, err := core.ParseAmount(req.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid target: "+req.Target)
		return
	}

	if req.Current == "" {
		req.Current = "0"
	}
	current, err := core.ParseLimit(req.Current)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid current amount: "+req.Current)
		return
	}

	g := core.Goal{
		Name:     strings.TrimSpace(req.Name),
		Target:   target,
		Current:  current,
		Deadline: req.Deadline,
	}
	if err := g.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.store.SaveGoal(r.Context(), g)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to save goal", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to save goal")
		return
	}
	g.ID = id

	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleGoalByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/goals/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	if err := s.store.DeleteGoal(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "goal not found")
			return
		}
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to delete goal", applog.FieldError, err.Error(), "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImportPages screens statement page texts before extraction and
// returns the indexes of pages that look like they carry transactions.
func (s *Server) handleImportPages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Pages []string `json:"pages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Pages) == 0 {
		writeError(w, http.StatusBadRequest, "missing pages")
		return
	}

	indexes := statement.TransactionPages(req.Pages)
	if indexes == nil {
		indexes = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transaction_pages": indexes})
}
