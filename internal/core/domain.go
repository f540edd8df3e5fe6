package core

import (
	"errors"
	"strings"
	"time"
)

const (
	FoodAndDining  Category = "Food & Dining"
	Transportation Category = "Transportation"
	Shopping       Category = "Shopping"
	Entertainment  Category = "Entertainment"
	BillsUtilities Category = "Bills & Utilities"
	Healthcare     Category = "Healthcare"
	Education      Category = "Education"
	Travel         Category = "Travel"
	Other          Category = "Other"
)

type (
	// Category is one of the fixed expense categories.
	Category string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a single ledger record. ID and Date are assigned once
	// at creation and never change afterwards.
	Expense struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Description string   `json:"description,omitempty"`
		Date        Date     `json:"date"`
	}

	// ExpenseInput carries the user-supplied fields of a new expense.
	ExpenseInput struct {
		Title       string   `json:"title"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Description string   `json:"description,omitempty"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyTitle      = errors.New("empty title")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrUnknownCategory = errors.New("unknown category")
	ErrMissingID       = errors.New("missing expense id")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidCurrency = errors.New("unknown currency code")
)

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return []Category{
		FoodAndDining,
		Transportation,
		Shopping,
		Entertainment,
		BillsUtilities,
		Healthcare,
		Education,
		Travel,
		Other,
	}
}

func (c Category) Valid() bool {
	switch c {
	case FoodAndDining, Transportation, Shopping, Entertainment,
		BillsUtilities, Healthcare, Education, Travel, Other:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

// dateWire is the wire format for expense dates.
const dateWire = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date, truncated to midnight UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthLabel returns the short month/year bucket label, e.g. "Jan 2026".
func (d Date) MonthLabel() string {
	return d.Format("Jan 2006")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateWire) + `"`), nil
}

// UnmarshalJSON accepts both the plain date format and full RFC 3339
// timestamps, keeping only the calendar date.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateWire, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (in ExpenseInput) Validate() error {
	if len(strings.TrimSpace(in.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(in.Title) > 200 {
		return ErrTitleTooLong
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if !in.Category.Valid() {
		return ErrUnknownCategory
	}
	return nil
}

// Validate checks a full record, including the fields the store assigns.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrMissingID
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	return e.Input().Validate()
}

// Input returns the user-editable fields of the record.
func (e Expense) Input() ExpenseInput {
	return ExpenseInput{
		Title:       e.Title,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
	}
}
