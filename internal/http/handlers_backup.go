package http

import (
	"fmt"
	"net/http"
	"time"

	"tally/internal/impexp"
	applog "tally/internal/log"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	doc := impexp.Export(s.store.Snapshot())
	filename := fmt.Sprintf("expense-tracker-backup-%s.json", time.Now().Format("2006-01-02"))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := doc.EncodeJSON(w); err != nil {
		s.logger.ErrorContext(r.Context(), "Export write failed", applog.FieldError, err.Error())
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Backup exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldCount, len(doc.Expenses))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	if err := impexp.ImportJSON(r.Context(), s.store, r.Body); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"imported":    len(s.store.Expenses()),
		"totalIncome": s.store.TotalIncome(),
		"balance":     s.store.Balance(),
	})
}

// handleClearData wipes every expense and the stored income. The
// confirm query parameter guards against accidental calls.
func (s *Server) handleClearData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "pass confirm=true to clear all data"})
		return
	}

	if err := s.store.ClearAll(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
