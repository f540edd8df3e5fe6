package http

import (
	"net/http"

	"tally/internal/core"
	"tally/internal/profile"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	var p core.Profile
	if !readJSON(w, r, &p) {
		return
	}
	p.Name = sanitizeInput(p.Name)
	p.Email = sanitizeInput(p.Email)

	if err := s.profiles.Login(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}

	current, _ := s.profiles.Current()
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	if err := s.profiles.Logout(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p, ok := s.profiles.Current()
		if !ok {
			writeError(w, r, profile.ErrNotLoggedIn)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		var p core.Profile
		if !readJSON(w, r, &p) {
			return
		}
		p.Name = sanitizeInput(p.Name)
		p.Email = sanitizeInput(p.Email)

		updated, err := s.profiles.Update(r.Context(), p)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) handleProfileCurrency(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, "PUT")
		return
	}

	var req struct {
		Currency string `json:"currency"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	if err := s.profiles.SetCurrency(r.Context(), req.Currency); err != nil {
		writeError(w, r, err)
		return
	}

	meta := core.LookupCurrency(s.profiles.Currency())
	writeJSON(w, http.StatusOK, map[string]string{
		"currency": meta.Code,
		"symbol":   meta.Symbol,
	})
}

// handleCurrencies lists the currencies the currency selector offers.
func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	type entry struct {
		Code   string `json:"code"`
		Symbol string `json:"symbol"`
	}
	codes := core.SupportedCurrencies()
	entries := make([]entry, len(codes))
	for i, code := range codes {
		meta := core.LookupCurrency(code)
		entries[i] = entry{Code: meta.Code, Symbol: meta.Symbol}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currencies": entries,
		"default":    core.DefaultCurrency,
	})
}
