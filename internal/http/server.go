// Package http exposes the ledger to presentation layers as a JSON
// API. Handlers never hold state of their own; everything flows
// through the ledger store, the codec and the profile manager.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tally/internal/ledger"
	applog "tally/internal/log"
	"tally/internal/profile"
)

type Server struct {
	http.Server

	store    *ledger.Store
	profiles *profile.Manager
	logger   *applog.Logger

	topCategories int

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// Options tune the server beyond its collaborators.
type Options struct {
	TopCategories int
}

// NewServer wires the API routes around the given collaborators.
func NewServer(addr string, store *ledger.Store, profiles *profile.Manager, logger *applog.Logger, opts Options) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	if opts.TopCategories <= 0 {
		opts.TopCategories = 5
	}

	s := &Server{
		store:         store,
		profiles:      profiles,
		logger:        logger.WithComponent(applog.ComponentHTTP),
		topCategories: opts.TopCategories,
		rateLimiter:   newRateLimiter(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/api/ledger", s.handleLedger)
	mux.HandleFunc("/api/expenses", s.handleExpenses)
	mux.HandleFunc("/api/expenses/", s.handleExpenseByID)
	mux.HandleFunc("/api/income", s.handleIncome)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/charts", s.handleCharts)

	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/import", s.handleImport)
	mux.HandleFunc("/api/data", s.handleClearData)

	mux.HandleFunc("/api/login", s.handleLogin)
	mux.HandleFunc("/api/logout", s.handleLogout)
	mux.HandleFunc("/api/profile", s.handleProfile)
	mux.HandleFunc("/api/profile/currency", s.handleProfileCurrency)
	mux.HandleFunc("/api/currencies", s.handleCurrencies)

	handler := applog.Middleware(logger)(s.withRequestID(s.withSecurityHeaders(s.withRateLimit(mux))))

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return s
}

// Shutdown stops the rate limiter's cleanup goroutine alongside the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
	})
	return s.Server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
