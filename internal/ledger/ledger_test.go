package ledger

import (
	"errors"
	"testing"

	"expense-tracker/internal/core"
)

func mustTx(t *testing.T, date core.Date, desc string, amount float64, category string, typ core.Type) core.Transaction {
	t.Helper()
	tx, err := core.NewTransactionOn(date, desc, amount, category, typ)
	if err != nil {
		t.Fatalf("new transaction: %v", err)
	}
	return tx
}

func ids(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLedgerAddAndFind(t *testing.T) {
	l := New()
	const n = 10000
	added := make([]core.Transaction, 0, n)
	for i := 0; i < n; i++ {
		typ := core.Expense
		if i%3 == 0 {
			typ = core.Income
		}
		tx := mustTx(t, core.NewDate(2024, 1+i%12, 1), "item", float64(i), "cat", typ)
		if err := l.Add(tx); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		added = append(added, tx)
	}

	if got, _ := l.Len(); got != n {
		t.Fatalf("expected %d transactions, got %d", n, got)
	}
	seen := make(map[string]struct{}, n)
	for _, want := range added {
		if _, dup := seen[want.ID]; dup {
			t.Fatalf("duplicate id %q", want.ID)
		}
		seen[want.ID] = struct{}{}

		got, err := l.FindByID(want.ID)
		if err != nil {
			t.Fatalf("find %s: %v", want.ID, err)
		}
		if got != want {
			t.Fatalf("find %s: got %+v, want %+v", want.ID, got, want)
		}
	}
}

func TestLedgerAddRejects(t *testing.T) {
	l := New()
	tx := mustTx(t, core.NewDate(2024, 1, 1), "a", 1, "c", core.Income)
	if err := l.Add(tx); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := l.Add(tx); !errors.Is(err, core.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	bad := tx
	bad.ID = "zzzzzzzz"
	bad.Amount = -1
	if err := l.Add(bad); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if n, _ := l.Len(); n != 1 {
		t.Fatalf("rejected adds must not change the ledger, len=%d", n)
	}
}

func TestLedgerFindMissing(t *testing.T) {
	l := New()
	if _, err := l.FindByID("nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLedgerListPreservesOrder(t *testing.T) {
	l := New()
	var want []string
	for i := 0; i < 5; i++ {
		tx := mustTx(t, core.NewDate(2024, 1, 1), "x", 1, "c", core.Expense)
		_ = l.Add(tx)
		want = append(want, tx.ID)
	}
	list, _ := l.List()
	if !equalStrings(ids(list), want) {
		t.Fatalf("order mismatch: got %v want %v", ids(list), want)
	}

	// The returned slice is a copy.
	list[0].Description = "mutated"
	again, _ := l.FindByID(want[0])
	if again.Description != "x" {
		t.Fatalf("List leaked internal storage")
	}
}

func TestLedgerDelete(t *testing.T) {
	l := New()
	var all []core.Transaction
	for i := 0; i < 5; i++ {
		tx := mustTx(t, core.NewDate(2024, 1, 1), "x", float64(i), "c", core.Expense)
		_ = l.Add(tx)
		all = append(all, tx)
	}

	victim := all[2].ID
	if err := l.Delete(victim); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := l.FindByID(victim); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if n, _ := l.Len(); n != 4 {
		t.Fatalf("expected 4 transactions, got %d", n)
	}

	list, _ := l.List()
	want := []string{all[0].ID, all[1].ID, all[3].ID, all[4].ID}
	if !equalStrings(ids(list), want) {
		t.Fatalf("order mismatch after delete: got %v want %v", ids(list), want)
	}
	// Index must follow the shifted positions.
	for _, tx := range all[3:] {
		got, err := l.FindByID(tx.ID)
		if err != nil || got.Amount != tx.Amount {
			t.Fatalf("find %s after delete: %+v %v", tx.ID, got, err)
		}
	}

	if err := l.Delete(victim); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if n, _ := l.Len(); n != 4 {
		t.Fatalf("failed delete changed the ledger, len=%d", n)
	}
}

func TestLedgerEditField(t *testing.T) {
	l := New()
	tx := mustTx(t, core.NewDate(2024, 3, 10), "rent", 800, "home", core.Expense)
	_ = l.Add(tx)

	updated, err := l.EditField(tx.ID, core.SetAmount(850))
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if updated.Amount != 850 {
		t.Fatalf("expected returned amount 850, got %v", updated.Amount)
	}

	got, err := l.FindByID(tx.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Amount != 850 || got.ID != tx.ID || !got.Date.Equal(tx.Date.Time) || got.Type != tx.Type {
		t.Fatalf("unexpected transaction after edit: %+v", got)
	}

	if _, err := l.EditField(tx.ID, core.SetDescription("rent (june)")); err != nil {
		t.Fatalf("edit description: %v", err)
	}
	if _, err := l.EditField(tx.ID, core.SetCategory("housing")); err != nil {
		t.Fatalf("edit category: %v", err)
	}
	got, _ = l.FindByID(tx.ID)
	if got.Description != "rent (june)" || got.Category != "housing" || got.Amount != 850 {
		t.Fatalf("unexpected transaction after edits: %+v", got)
	}
}

func TestLedgerEditFieldFailures(t *testing.T) {
	l := New()
	a := mustTx(t, core.NewDate(2024, 1, 1), "a", 10, "c1", core.Income)
	b := mustTx(t, core.NewDate(2024, 1, 2), "b", 20, "c2", core.Expense)
	_ = l.Add(a)
	_ = l.Add(b)
	before, _ := l.List()

	if _, err := l.EditField("missing1", core.SetAmount(5)); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := l.EditField(a.ID, core.SetAmount(-5)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	after, _ := l.List()
	if len(after) != len(before) {
		t.Fatalf("length changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("transaction %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestLedgerCategoryNetTotal(t *testing.T) {
	l := New()
	_ = l.Add(mustTx(t, core.NewDate(2024, 1, 1), "pay", 100, "side", core.Income))
	_ = l.Add(mustTx(t, core.NewDate(2024, 1, 2), "tools", 30, "side", core.Expense))
	_ = l.Add(mustTx(t, core.NewDate(2024, 1, 3), "food", 12, "food", core.Expense))

	got, err := l.CategoryNetTotal("side")
	if err != nil || got != 70.0 {
		t.Fatalf("expected 70, got %v (err=%v)", got, err)
	}
	if got, _ := l.CategoryNetTotal("food"); got != -12 {
		t.Fatalf("expected -12, got %v", got)
	}
	if got, _ := l.CategoryNetTotal("unknown"); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
