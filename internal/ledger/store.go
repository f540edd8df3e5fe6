// Package ledger owns the authoritative in-memory expense state and
// its derived totals. Every mutation revalidates its input, recomputes
// the totals from the expense list, and writes through to persistence
// before it returns; a failed write rolls the mutation back so the
// in-memory and persisted states never diverge.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"tally/internal/core"
	applog "tally/internal/log"
)

// ErrNotFound is returned when an update targets an id that is not in
// the ledger.
var ErrNotFound = errors.New("expense not found")

// ErrDuplicateID is returned when a bulk swap carries the same id
// more than once.
var ErrDuplicateID = errors.New("duplicate expense id")

// Persistence is the durable side of the store. Load must tolerate
// absent or corrupt data by returning empty defaults.
type Persistence interface {
	Load(ctx context.Context) (core.Snapshot, error)
	Save(ctx context.Context, snap core.Snapshot) error
	Clear(ctx context.Context) error
}

// Store is the ledger's single mutation path. Construct one per
// session with New; callers hold an explicit reference, there is no
// package-level instance.
type Store struct {
	mu          sync.Mutex
	persistence Persistence
	logger      *applog.Logger

	expenses      []core.Expense
	totalIncome   core.Money
	totalExpenses core.Money
	balance       core.Money
}

// New builds a store from whatever the persistence layer has. A fresh
// backend yields an empty ledger with zero income.
func New(ctx context.Context, persistence Persistence, logger *applog.Logger) (*Store, error) {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	snap, err := persistence.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	s := &Store{
		persistence: persistence,
		logger:      logger.WithComponent(applog.ComponentLedger),
		expenses:    snap.Expenses,
		totalIncome: snap.TotalIncome,
	}
	s.recompute()
	s.logger.InfoContext(ctx, "Ledger loaded",
		applog.FieldCount, len(s.expenses),
		applog.FieldAmountCents, s.totalExpenses.Cents)
	return s, nil
}

// recompute rebuilds both derived totals from the expense list.
// Callers must hold the lock.
func (s *Store) recompute() {
	var sum int64
	for _, e := range s.expenses {
		sum += e.Amount.Cents
	}
	s.totalExpenses = core.Money{Cents: sum}
	s.balance = core.Money{Cents: s.totalIncome.Cents - sum}
}

// persist writes the current state through. Callers must hold the lock.
func (s *Store) persist(ctx context.Context) error {
	return s.persistence.Save(ctx, core.Snapshot{
		Expenses:    s.expenses,
		TotalIncome: s.totalIncome,
	})
}

// AddExpense validates the input, assigns an id and today's date,
// appends the record and persists. The created record is returned.
func (s *Store) AddExpense(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	rec := core.Expense{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        core.Today(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses = append(s.expenses, rec)
	s.recompute()
	if err := s.persist(ctx); err != nil {
		s.expenses = s.expenses[:len(s.expenses)-1]
		s.recompute()
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldExpenseID, rec.ID,
		applog.FieldExpenseTitle, rec.Title,
		applog.FieldAmountCents, rec.Amount.Cents,
		applog.FieldCategory, rec.Category.String())
	return rec, nil
}

// UpdateExpense replaces the record with a matching id in place. The
// record keeps its position in the list; id and date are immutable and
// taken from the existing entry.
func (s *Store) UpdateExpense(ctx context.Context, rec core.Expense) (core.Expense, error) {
	if rec.ID == "" {
		return core.Expense{}, fmt.Errorf("update expense: %w", core.ErrMissingID)
	}
	if err := rec.Input().Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.expenses {
		if e.ID == rec.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", rec.ID, ErrNotFound)
	}

	prev := s.expenses[idx]
	rec.Date = prev.Date
	s.expenses[idx] = rec
	s.recompute()
	if err := s.persist(ctx); err != nil {
		s.expenses[idx] = prev
		s.recompute()
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense updated",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldExpenseID, rec.ID,
		applog.FieldAmountCents, rec.Amount.Cents)
	return rec, nil
}

// DeleteExpense removes the record if present. Deleting an unknown id
// is a no-op, not an error.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.expenses {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	prev := s.expenses
	s.expenses = append(append([]core.Expense{}, prev[:idx]...), prev[idx+1:]...)
	s.recompute()
	if err := s.persist(ctx); err != nil {
		s.expenses = prev
		s.recompute()
		return fmt.Errorf("delete expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense deleted",
		applog.FieldOperation, applog.OpDelete,
		applog.FieldExpenseID, id)
	return nil
}

// SetIncome replaces the income figure. Amounts are non-negative.
func (s *Store) SetIncome(ctx context.Context, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return fmt.Errorf("set income: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.totalIncome
	s.totalIncome = amount
	s.recompute()
	if err := s.persist(ctx); err != nil {
		s.totalIncome = prev
		s.recompute()
		return fmt.Errorf("set income: %w", err)
	}

	s.logger.InfoContext(ctx, "Income set",
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldAmountCents, amount.Cents)
	return nil
}

// ReplaceAll swaps the entire ledger state in one step. Every record
// is validated up front and ids must be unique; nothing is applied on
// failure. A nil income keeps the current figure. This is the import
// path.
func (s *Store) ReplaceAll(ctx context.Context, expenses []core.Expense, income *core.Money) error {
	seen := make(map[string]struct{}, len(expenses))
	for i, e := range expenses {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("record %d: %w (%s)", i, ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	if income != nil {
		if err := income.Validate(); err != nil {
			return fmt.Errorf("income: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevExpenses, prevIncome := s.expenses, s.totalIncome
	s.expenses = append([]core.Expense{}, expenses...)
	if income != nil {
		s.totalIncome = *income
	}
	s.recompute()
	if err := s.persist(ctx); err != nil {
		s.expenses, s.totalIncome = prevExpenses, prevIncome
		s.recompute()
		return fmt.Errorf("replace ledger: %w", err)
	}

	s.logger.InfoContext(ctx, "Ledger replaced",
		applog.FieldOperation, applog.OpImport,
		applog.FieldCount, len(expenses))
	return nil
}

// ClearAll resets the ledger to empty defaults and purges the
// persisted keys. Whether the user confirmed is the caller's concern.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistence.Clear(ctx); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	s.expenses = nil
	s.totalIncome = core.Money{}
	s.recompute()

	s.logger.InfoContext(ctx, "Ledger cleared",
		applog.FieldOperation, applog.OpClear)
	return nil
}

// Expenses returns a copy of the expense list in insertion order.
func (s *Store) Expenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense{}, s.expenses...)
}

func (s *Store) TotalIncome() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalIncome
}

func (s *Store) TotalExpenses() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalExpenses
}

func (s *Store) Balance() core.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Snapshot returns a copy of the persisted fields, for export.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Snapshot{
		Expenses:    append([]core.Expense{}, s.expenses...),
		TotalIncome: s.totalIncome,
	}
}
