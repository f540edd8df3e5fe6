package ledger

import (
	"sort"
	"strings"

	"tally/internal/core"
)

// SortMode selects the ordering of a filtered expense view.
type SortMode string

const (
	SortDateDesc    SortMode = "date"     // newest first (default)
	SortAmountDesc  SortMode = "amount"   // largest first
	SortTitleAsc    SortMode = "title"    // alphabetical
	SortCategoryAsc SortMode = "category" // alphabetical by category
)

// ValidSortMode reports whether the mode is one of the supported
// orderings. The empty string selects the default.
func ValidSortMode(m SortMode) bool {
	switch m {
	case "", SortDateDesc, SortAmountDesc, SortTitleAsc, SortCategoryAsc:
		return true
	default:
		return false
	}
}

// ListOptions filters and orders an expense view. A zero Category
// means all categories.
type ListOptions struct {
	Category core.Category
	Sort     SortMode
}

// List returns a non-mutating view over the expenses. Ties keep
// insertion order.
func (s *Store) List(opts ListOptions) []core.Expense {
	all := s.Expenses()

	out := all
	if opts.Category != "" {
		out = make([]core.Expense, 0, len(all))
		for _, e := range all {
			if e.Category == opts.Category {
				out = append(out, e)
			}
		}
	}

	switch opts.Sort {
	case SortAmountDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount.Cents > out[j].Amount.Cents
		})
	case SortTitleAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
		})
	case SortCategoryAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Category < out[j].Category
		})
	default: // SortDateDesc
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date.Time)
		})
	}
	return out
}

// TotalsByCategory sums amounts per category. Only categories present
// in the data appear in the result.
func (s *Store) TotalsByCategory() map[core.Category]core.Money {
	totals := make(map[core.Category]core.Money)
	for _, e := range s.Expenses() {
		t := totals[e.Category]
		t.Cents += e.Amount.Cents
		totals[e.Category] = t
	}
	return totals
}

// TopCategories returns the category totals sorted by descending
// amount, truncated to n. Equal totals order alphabetically so the
// result is deterministic.
func (s *Store) TopCategories(n int) []core.CategoryTotal {
	totals := s.TotalsByCategory()
	out := make([]core.CategoryTotal, 0, len(totals))
	for c, t := range totals {
		out = append(out, core.CategoryTotal{Category: c, Total: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Category < out[j].Category
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// TotalsByMonth buckets amounts by each expense's calendar month,
// oldest bucket first.
func (s *Store) TotalsByMonth() []core.MonthTotal {
	type bucket struct {
		year, month int
		cents       int64
	}
	buckets := make(map[int]*bucket)
	for _, e := range s.Expenses() {
		key := e.Date.Year()*100 + int(e.Date.Month())
		b, ok := buckets[key]
		if !ok {
			b = &bucket{year: e.Date.Year(), month: int(e.Date.Month())}
			buckets[key] = b
		}
		b.cents += e.Amount.Cents
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]core.MonthTotal, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, core.MonthTotal{
			Label: core.NewDate(b.year, b.month, 1).MonthLabel(),
			Year:  b.year,
			Month: b.month,
			Total: core.Money{Cents: b.cents},
		})
	}
	return out
}
