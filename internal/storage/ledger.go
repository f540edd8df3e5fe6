package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"tally/internal/core"
	applog "tally/internal/log"
)

// Ledger adapts a KV backend to the store's persistence contract.
// Loading is deliberately forgiving: absent or corrupt records fall
// back to empty defaults so a damaged data file costs the user their
// history, never their session.
type Ledger struct {
	kv     KV
	logger *applog.Logger
}

func NewLedger(kv KV, logger *applog.Logger) *Ledger {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Ledger{kv: kv, logger: logger.WithComponent(applog.ComponentStorage)}
}

// Load reads the persisted snapshot. It never returns an error for
// malformed content; only backend I/O failures propagate.
func (l *Ledger) Load(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot

	raw, ok, err := l.kv.Get(ctx, KeyExpenses)
	if err != nil {
		return snap, fmt.Errorf("load expenses: %w", err)
	}
	if ok {
		var expenses []core.Expense
		if err := json.Unmarshal([]byte(raw), &expenses); err != nil {
			l.logger.WarnContext(ctx, "Discarding corrupt expense record",
				applog.FieldStorageKey, KeyExpenses,
				applog.FieldError, err.Error())
		} else {
			snap.Expenses = expenses
		}
	}

	raw, ok, err = l.kv.Get(ctx, KeyIncome)
	if err != nil {
		return snap, fmt.Errorf("load income: %w", err)
	}
	if ok {
		cents, err := core.ParseDecimalToCents(raw)
		if err != nil {
			l.logger.WarnContext(ctx, "Discarding corrupt income record",
				applog.FieldStorageKey, KeyIncome,
				applog.FieldError, err.Error())
		} else {
			snap.TotalIncome = core.Money{Cents: cents}
		}
	}

	l.logger.DebugContext(ctx, "Ledger state loaded",
		applog.FieldOperation, applog.OpLoad,
		applog.FieldCount, len(snap.Expenses))
	return snap, nil
}

// Save writes both ledger keys. The expense list is stored as a JSON
// array, the income figure as decimal text.
func (l *Ledger) Save(ctx context.Context, snap core.Snapshot) error {
	expenses := snap.Expenses
	if expenses == nil {
		expenses = []core.Expense{}
	}
	data, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	if err := l.kv.Set(ctx, KeyExpenses, string(data)); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	if err := l.kv.Set(ctx, KeyIncome, snap.TotalIncome.Decimal()); err != nil {
		return fmt.Errorf("save income: %w", err)
	}
	l.logger.DebugContext(ctx, "Ledger state saved",
		applog.FieldOperation, applog.OpSave,
		applog.FieldCount, len(expenses))
	return nil
}

// Clear purges both ledger keys. The profile key is managed separately
// and survives a ledger reset. The income key goes first and is
// restored if the expense delete fails, so a failed clear never
// leaves the keys half-purged.
func (l *Ledger) Clear(ctx context.Context) error {
	prevIncome, hadIncome, err := l.kv.Get(ctx, KeyIncome)
	if err != nil {
		return fmt.Errorf("clear income: %w", err)
	}
	if err := l.kv.Delete(ctx, KeyIncome); err != nil {
		return fmt.Errorf("clear income: %w", err)
	}
	if err := l.kv.Delete(ctx, KeyExpenses); err != nil {
		if hadIncome {
			if restoreErr := l.kv.Set(ctx, KeyIncome, prevIncome); restoreErr != nil {
				l.logger.ErrorContext(ctx, "Failed to restore income after aborted clear",
					applog.FieldStorageKey, KeyIncome,
					applog.FieldError, restoreErr.Error())
			}
		}
		return fmt.Errorf("clear expenses: %w", err)
	}
	return nil
}
