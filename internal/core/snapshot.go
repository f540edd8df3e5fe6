package core

// Snapshot is the persisted portion of the ledger: the ordered expense
// list and the income figure. Derived totals are never part of it;
// they are recomputed from the list on every mutation.
type Snapshot struct {
	Expenses    []Expense
	TotalIncome Money
}
