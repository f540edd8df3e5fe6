package http

import (
	"net/http"
	"strconv"
	"strings"

	"tally/internal/core"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	top := s.topCategories
	if v := strings.TrimSpace(r.URL.Query().Get("top")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "top must be a positive number"})
			return
		}
		top = n
	}

	currency := s.profiles.Currency()
	income := s.store.TotalIncome()
	expenses := s.store.TotalExpenses()
	balance := s.store.Balance()

	type topEntry struct {
		Category core.Category `json:"category"`
		Total    core.Money    `json:"total"`
		Display  string        `json:"display"`
	}
	topCats := s.store.TopCategories(top)
	entries := make([]topEntry, len(topCats))
	for i, ct := range topCats {
		entries[i] = topEntry{
			Category: ct.Category,
			Total:    ct.Total,
			Display:  core.FormatAmount(ct.Total, currency),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalIncome":   income,
		"totalExpenses": expenses,
		"balance":       balance,
		"currency":      currency,
		"expenseCount":  len(s.store.Expenses()),
		"topCategories": entries,
		"display": map[string]string{
			"totalIncome":   core.FormatAmount(income, currency),
			"totalExpenses": core.FormatAmount(expenses, currency),
			"balance":       core.FormatAmount(balance, currency),
		},
	})
}

// handleCharts returns the two aggregation series the chart views
// plot: per-category totals and the chronological monthly series.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	byCategory := s.store.TotalsByCategory()
	categories := make(map[string]core.Money, len(byCategory))
	for c, total := range byCategory {
		categories[c.String()] = total
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"byCategory": categories,
		"byMonth":    s.store.TotalsByMonth(),
	})
}
