package ledger

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tally/internal/core"
	"tally/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	st, err := New(context.Background(), storage.NewLedger(kv, nil), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st, kv
}

// checkTotals asserts the derived-totals invariant: totalExpenses is
// the exact sum over the list and balance is income minus expenses.
func checkTotals(t *testing.T, st *Store) {
	t.Helper()
	var sum int64
	for _, e := range st.Expenses() {
		sum += e.Amount.Cents
	}
	if got := st.TotalExpenses().Cents; got != sum {
		t.Fatalf("totalExpenses %d != sum %d", got, sum)
	}
	if got, want := st.Balance().Cents, st.TotalIncome().Cents-sum; got != want {
		t.Fatalf("balance %d != income-expenses %d", got, want)
	}
}

func TestScenarioIncomeAndExpenses(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.SetIncome(ctx, core.Money{Cents: 200000}); err != nil {
		t.Fatalf("set income: %v", err)
	}
	if _, err := st.AddExpense(ctx, core.ExpenseInput{Title: "Rent", Amount: core.Money{Cents: 80000}, Category: core.BillsUtilities}); err != nil {
		t.Fatalf("add rent: %v", err)
	}
	if _, err := st.AddExpense(ctx, core.ExpenseInput{Title: "Food", Amount: core.Money{Cents: 20000}, Category: core.FoodAndDining}); err != nil {
		t.Fatalf("add food: %v", err)
	}

	if got := st.TotalExpenses().Cents; got != 100000 {
		t.Fatalf("totalExpenses = %d, want 100000", got)
	}
	if got := st.Balance().Cents; got != 100000 {
		t.Fatalf("balance = %d, want 100000", got)
	}
	checkTotals(t, st)
}

func TestTotalsInvariantAcrossMutations(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	a, err := st.AddExpense(ctx, core.ExpenseInput{Title: "Coffee", Amount: core.Money{Cents: 450}, Category: core.FoodAndDining})
	if err != nil {
		t.Fatal(err)
	}
	checkTotals(t, st)

	b, err := st.AddExpense(ctx, core.ExpenseInput{Title: "Bus", Amount: core.Money{Cents: 200}, Category: core.Transportation})
	if err != nil {
		t.Fatal(err)
	}
	checkTotals(t, st)

	a.Amount = core.Money{Cents: 900}
	if _, err := st.UpdateExpense(ctx, a); err != nil {
		t.Fatal(err)
	}
	checkTotals(t, st)

	if err := st.DeleteExpense(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	checkTotals(t, st)

	if err := st.SetIncome(ctx, core.Money{Cents: 5000}); err != nil {
		t.Fatal(err)
	}
	checkTotals(t, st)
}

func TestAddExpenseAssignsIDAndDate(t *testing.T) {
	st, _ := newTestStore(t)

	rec, err := st.AddExpense(context.Background(), core.ExpenseInput{
		Title: "Cinema", Amount: core.Money{Cents: 1500}, Category: core.Entertainment,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID == "" {
		t.Fatal("id not assigned")
	}
	if rec.Date.IsZero() {
		t.Fatal("date not assigned")
	}

	other, err := st.AddExpense(context.Background(), core.ExpenseInput{
		Title: "Cinema again", Amount: core.Money{Cents: 1500}, Category: core.Entertainment,
	})
	if err != nil {
		t.Fatal(err)
	}
	if other.ID == rec.ID {
		t.Fatal("ids must be unique")
	}
}

func TestAddExpenseRejectsInvalidInput(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := st.AddExpense(ctx, core.ExpenseInput{Title: "Seed", Amount: core.Money{Cents: 100}, Category: core.Other}); err != nil {
		t.Fatal(err)
	}
	before := st.Snapshot()

	cases := []struct {
		in   core.ExpenseInput
		want error
	}{
		{core.ExpenseInput{Title: "", Amount: core.Money{Cents: 100}, Category: core.Other}, core.ErrEmptyTitle},
		{core.ExpenseInput{Title: "Bad", Amount: core.Money{Cents: -500}, Category: core.Other}, core.ErrInvalidAmount},
		{core.ExpenseInput{Title: "Bad", Amount: core.Money{Cents: 100}, Category: "Misc"}, core.ErrUnknownCategory},
	}
	for i, tc := range cases {
		if _, err := st.AddExpense(ctx, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, err)
		}
	}

	if !reflect.DeepEqual(before, st.Snapshot()) {
		t.Fatal("rejected input must leave the ledger unchanged")
	}
	checkTotals(t, st)
}

func TestUpdatePreservesPositionAndIdentity(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	var recs []core.Expense
	for _, title := range []string{"one", "two", "three"} {
		rec, err := st.AddExpense(ctx, core.ExpenseInput{Title: title, Amount: core.Money{Cents: 100}, Category: core.Other})
		if err != nil {
			t.Fatal(err)
		}
		recs = append(recs, rec)
	}

	mid := recs[1]
	mid.Title = "two edited"
	mid.Amount = core.Money{Cents: 250}
	updated, err := st.UpdateExpense(ctx, mid)
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != recs[1].ID {
		t.Fatal("id must not change on update")
	}
	if !updated.Date.Equal(recs[1].Date.Time) {
		t.Fatal("date must not change on update")
	}

	got := st.Expenses()
	if got[1].ID != recs[1].ID || got[1].Title != "two edited" || got[1].Amount.Cents != 250 {
		t.Fatalf("record not updated in place: %+v", got[1])
	}
	if got[0].Title != "one" || got[2].Title != "three" {
		t.Fatal("other records must be untouched")
	}
	checkTotals(t, st)
}

func TestUpdateUnknownID(t *testing.T) {
	st, _ := newTestStore(t)

	_, err := st.UpdateExpense(context.Background(), core.Expense{
		ID: "nope", Title: "x", Amount: core.Money{Cents: 1}, Category: core.Other,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	rec, err := st.AddExpense(ctx, core.ExpenseInput{Title: "Gone", Amount: core.Money{Cents: 300}, Category: core.Shopping})
	if err != nil {
		t.Fatal(err)
	}
	before := st.Snapshot()

	if err := st.DeleteExpense(ctx, "does-not-exist"); err != nil {
		t.Fatalf("deleting unknown id must be a no-op: %v", err)
	}
	if !reflect.DeepEqual(before, st.Snapshot()) {
		t.Fatal("no-op delete must leave state unchanged")
	}

	if err := st.DeleteExpense(ctx, rec.ID); err != nil {
		t.Fatal(err)
	}
	if err := st.DeleteExpense(ctx, rec.ID); err != nil {
		t.Fatalf("second delete must be a no-op: %v", err)
	}
	if len(st.Expenses()) != 0 {
		t.Fatal("expected empty list")
	}
	checkTotals(t, st)
}

func TestSetIncomeRejectsNegative(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	if err := st.SetIncome(ctx, core.Money{Cents: -1}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if st.TotalIncome().Cents != 0 {
		t.Fatal("rejected income must not be applied")
	}
}

func TestClearAllPurgesState(t *testing.T) {
	st, kv := newTestStore(t)
	ctx := context.Background()

	if err := st.SetIncome(ctx, core.Money{Cents: 100000}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.AddExpense(ctx, core.ExpenseInput{Title: "x", Amount: core.Money{Cents: 100}, Category: core.Other}); err != nil {
		t.Fatal(err)
	}

	if err := st.ClearAll(ctx); err != nil {
		t.Fatal(err)
	}
	if len(st.Expenses()) != 0 || st.TotalIncome().Cents != 0 || st.Balance().Cents != 0 {
		t.Fatal("clear must reset to empty defaults")
	}
	if _, ok, _ := kv.Get(ctx, storage.KeyExpenses); ok {
		t.Fatal("persisted expenses must be purged")
	}
	if _, ok, _ := kv.Get(ctx, storage.KeyIncome); ok {
		t.Fatal("persisted income must be purged")
	}
}

func TestStateRestoredAcrossSessions(t *testing.T) {
	kv := storage.NewMemoryStore()
	ctx := context.Background()

	first, err := New(ctx, storage.NewLedger(kv, nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.SetIncome(ctx, core.Money{Cents: 50000}); err != nil {
		t.Fatal(err)
	}
	rec, err := first.AddExpense(ctx, core.ExpenseInput{Title: "Hotel", Amount: core.Money{Cents: 12000}, Category: core.Travel})
	if err != nil {
		t.Fatal(err)
	}

	second, err := New(ctx, storage.NewLedger(kv, nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	got := second.Expenses()
	if len(got) != 1 || got[0].ID != rec.ID || got[0].Title != "Hotel" {
		t.Fatalf("expected restored record, got %+v", got)
	}
	if second.TotalIncome().Cents != 50000 {
		t.Fatalf("income not restored: %d", second.TotalIncome().Cents)
	}
	checkTotals(t, second)
}

// failingPersistence rejects saves while fail is set.
type failingPersistence struct {
	inner Persistence
	fail  bool
}

func (p *failingPersistence) Load(ctx context.Context) (core.Snapshot, error) {
	return p.inner.Load(ctx)
}

func (p *failingPersistence) Save(ctx context.Context, snap core.Snapshot) error {
	if p.fail {
		return errors.New("disk full")
	}
	return p.inner.Save(ctx, snap)
}

func (p *failingPersistence) Clear(ctx context.Context) error {
	return p.inner.Clear(ctx)
}

func TestFailedPersistRollsBack(t *testing.T) {
	kv := storage.NewMemoryStore()
	fp := &failingPersistence{inner: storage.NewLedger(kv, nil)}
	st, err := New(context.Background(), fp, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := st.AddExpense(ctx, core.ExpenseInput{Title: "kept", Amount: core.Money{Cents: 100}, Category: core.Other}); err != nil {
		t.Fatal(err)
	}
	before := st.Snapshot()

	fp.fail = true
	if _, err := st.AddExpense(ctx, core.ExpenseInput{Title: "lost", Amount: core.Money{Cents: 200}, Category: core.Other}); err == nil {
		t.Fatal("expected save failure to surface")
	}
	if err := st.SetIncome(ctx, core.Money{Cents: 999}); err == nil {
		t.Fatal("expected save failure to surface")
	}

	if !reflect.DeepEqual(before, st.Snapshot()) {
		t.Fatal("failed persist must roll the mutation back")
	}
	checkTotals(t, st)
}
