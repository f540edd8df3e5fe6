package core

import (
	"errors"
	"strings"
	"time"
)

var ErrEmptyName = errors.New("empty name")

// Profile holds the local user's identity and display preferences.
// There is no real authentication behind it; the login flow is a
// local simulation and the profile is persisted on its own key,
// separate from the ledger.
type Profile struct {
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	DateFormat  string    `json:"dateFormat,omitempty"`
	Theme       string    `json:"theme,omitempty"`
	RememberMe  bool      `json:"rememberMe,omitempty"`
	LastUpdated time.Time `json:"lastUpdated,omitempty"`
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Currency != "" && !ValidCurrency(p.Currency) {
		return ErrInvalidCurrency
	}
	return nil
}
