package http

import (
	"fmt"
	"net/http"
	"strings"

	"tally/internal/core"
	"tally/internal/ledger"
	applog "tally/internal/log"
)

// ledgerResponse is the full state the presentation layer renders
// from. Display strings carry the profile currency; the numeric
// values stay currency-agnostic.
type ledgerResponse struct {
	Expenses      []core.Expense    `json:"expenses"`
	TotalIncome   core.Money        `json:"totalIncome"`
	TotalExpenses core.Money        `json:"totalExpenses"`
	Balance       core.Money        `json:"balance"`
	Currency      string            `json:"currency"`
	Display       map[string]string `json:"display"`
}

func (s *Server) ledgerState() ledgerResponse {
	currency := s.profiles.Currency()
	income := s.store.TotalIncome()
	expenses := s.store.TotalExpenses()
	balance := s.store.Balance()
	return ledgerResponse{
		Expenses:      s.store.Expenses(),
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       balance,
		Currency:      currency,
		Display: map[string]string{
			"totalIncome":   core.FormatAmount(income, currency),
			"totalExpenses": core.FormatAmount(expenses, currency),
			"balance":       core.FormatAmount(balance, currency),
		},
	}
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, s.ledgerState())
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var opts ledger.ListOptions
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		cat := core.Category(v)
		if !cat.Valid() {
			writeError(w, r, fmt.Errorf("category %q: %w", v, core.ErrUnknownCategory))
			return
		}
		opts.Category = cat
	}
	if v := strings.TrimSpace(q.Get("sort")); v != "" {
		mode := ledger.SortMode(v)
		if !ledger.ValidSortMode(mode) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown sort mode " + v})
			return
		}
		opts.Sort = mode
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"expenses": s.store.List(opts),
	})
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var in core.ExpenseInput
	if !readJSON(w, r, &in) {
		return
	}
	in.Title = sanitizeInput(in.Title)
	in.Description = sanitizeInput(in.Description)

	rec, err := s.store.AddExpense(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "Expense created",
		applog.FieldExpenseID, rec.ID,
		applog.FieldExpenseTitle, rec.Title,
		applog.FieldAmountCents, rec.Amount.Cents,
		applog.FieldCategory, rec.Category.String())
	writeJSON(w, http.StatusCreated, rec)
}

// handleExpenseByID serves /api/expenses/{id}.
func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/expenses/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.updateExpense(w, r, id)
	case http.MethodDelete:
		s.deleteExpense(w, r, id)
	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request, id string) {
	var in core.ExpenseInput
	if !readJSON(w, r, &in) {
		return
	}
	in.Title = sanitizeInput(in.Title)
	in.Description = sanitizeInput(in.Description)

	rec, err := s.store.UpdateExpense(r.Context(), core.Expense{
		ID:          id,
		Title:       in.Title,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, "PUT")
		return
	}

	var body struct {
		Amount core.Money `json:"amount"`
	}
	if !readJSON(w, r, &body) {
		return
	}

	if err := s.store.SetIncome(r.Context(), body.Amount); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]core.Money{
		"totalIncome": s.store.TotalIncome(),
		"balance":     s.store.Balance(),
	})
}
