package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"tally/internal/core"
	"tally/internal/impexp"
	"tally/internal/ledger"
	applog "tally/internal/log"
	"tally/internal/profile"
)

// errorResponse is the JSON body for every non-2xx answer.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps domain errors onto HTTP statuses: validation
// failures are 422, unknown records 404, malformed documents and
// requests 400.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err.Error())
		// Do not leak internals on unexpected failures.
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, impexp.ErrInvalidFormat), errors.Is(err, ledger.ErrDuplicateID):
		return http.StatusBadRequest
	case errors.Is(err, profile.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrTitleTooLong),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrMissingID),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidCurrency),
		errors.Is(err, core.ErrEmptyName):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// readJSON decodes the request body into v. Domain sentinels raised
// by custom unmarshalers (a negative amount, a malformed date) keep
// their own status; anything else is a plain 400. Returns false when
// the response has already been written.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		} else {
			writeError(w, r, err)
		}
		return false
	}
	return true
}

// methodNotAllowed answers with the allowed verbs, the way every
// handler guards its method.
func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
