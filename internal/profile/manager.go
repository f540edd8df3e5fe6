// Package profile manages the local user profile and its display
// preferences. The login flow is the tracker's historical local
// simulation: no credentials are verified, and the profile is only
// persisted when the user asked to be remembered.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"tally/internal/core"
	applog "tally/internal/log"
	"tally/internal/storage"
)

// ErrNotLoggedIn is returned by operations that need a current profile.
var ErrNotLoggedIn = errors.New("not logged in")

// Manager holds the session profile and mirrors it to storage under
// its own key, independent of the ledger.
type Manager struct {
	mu      sync.Mutex
	kv      storage.KV
	logger  *applog.Logger
	current *core.Profile
}

// NewManager restores any remembered profile from storage. A corrupt
// profile record is dropped and treated as logged out.
func NewManager(ctx context.Context, kv storage.KV, logger *applog.Logger) (*Manager, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	m := &Manager{kv: kv, logger: logger.WithComponent(applog.ComponentProfile)}

	raw, ok, err := kv.Get(ctx, storage.KeyProfile)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if ok {
		var p core.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			m.logger.WarnContext(ctx, "Discarding corrupt profile record",
				applog.FieldStorageKey, storage.KeyProfile,
				applog.FieldError, err.Error())
			_ = kv.Delete(ctx, storage.KeyProfile)
		} else {
			m.current = &p
		}
	}
	return m, nil
}

// Login starts a session with the given profile. It is persisted only
// when RememberMe is set.
func (m *Manager) Login(ctx context.Context, p core.Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = &p
	if p.RememberMe {
		if err := m.save(ctx, p); err != nil {
			return err
		}
	}
	m.logger.InfoContext(ctx, "User logged in", "remember_me", p.RememberMe)
	return nil
}

// Logout drops the session and the persisted record.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	if err := m.kv.Delete(ctx, storage.KeyProfile); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	m.logger.InfoContext(ctx, "User logged out")
	return nil
}

// Current returns the session profile, or false when logged out.
func (m *Manager) Current() (core.Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return core.Profile{}, false
	}
	return *m.current, true
}

// Update merges the given fields into the current profile, stamps
// LastUpdated and persists the result. Zero-valued fields keep their
// current values, so partial updates never wipe preferences.
func (m *Manager) Update(ctx context.Context, p core.Profile) (core.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return core.Profile{}, ErrNotLoggedIn
	}
	merged := *m.current
	if p.Name != "" {
		merged.Name = p.Name
	}
	if p.Email != "" {
		merged.Email = p.Email
	}
	if p.Currency != "" {
		merged.Currency = p.Currency
	}
	if p.DateFormat != "" {
		merged.DateFormat = p.DateFormat
	}
	if p.Theme != "" {
		merged.Theme = p.Theme
	}
	if err := merged.Validate(); err != nil {
		return core.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	merged.LastUpdated = time.Now().UTC()
	if err := m.save(ctx, merged); err != nil {
		return core.Profile{}, err
	}
	m.current = &merged
	return merged, nil
}

// SetCurrency changes only the display currency of the current
// profile.
func (m *Manager) SetCurrency(ctx context.Context, code string) error {
	if !core.ValidCurrency(code) {
		return fmt.Errorf("set currency %q: %w", code, core.ErrInvalidCurrency)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return ErrNotLoggedIn
	}
	p := *m.current
	p.Currency = code
	if err := m.save(ctx, p); err != nil {
		return err
	}
	m.current = &p
	return nil
}

// Currency returns the display currency of the current session,
// falling back to the default when logged out or unset.
func (m *Manager) Currency() string {
	if p, ok := m.Current(); ok && p.Currency != "" {
		return p.Currency
	}
	return core.DefaultCurrency
}

func (m *Manager) save(ctx context.Context, p core.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := m.kv.Set(ctx, storage.KeyProfile, string(data)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
