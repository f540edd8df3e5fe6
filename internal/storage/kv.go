// Package storage persists the tracker's state as a small set of
// key-value records, mirroring the browser-local layout the data
// model originated with: one key for the expense list, one for the
// income figure, one for the user profile.
package storage

import "context"

// Stable storage keys. The values are part of the on-disk format and
// must not change.
const (
	KeyExpenses = "expenseTracker_expenses"
	KeyIncome   = "expenseTracker_income"
	KeyProfile  = "expenseTracker_user"
)

// KV is the minimal durable key-value contract the backends satisfy.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores the value under the key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
