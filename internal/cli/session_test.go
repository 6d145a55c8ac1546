package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"expense-tracker/internal/core"
	"expense-tracker/internal/ledger"
	"expense-tracker/internal/services"
)

func newService(clock func() time.Time) *services.LedgerService {
	if clock == nil {
		clock = time.Now
	}
	return services.NewLedgerService(ledger.New(), services.WithClock(clock))
}

func runSession(t *testing.T, svc *services.LedgerService, input string) string {
	t.Helper()
	var out bytes.Buffer
	s := NewSession(svc, strings.NewReader(input), &out, nil)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func mustContain(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(out, p) {
			t.Fatalf("output missing %q:\n%s", p, out)
		}
	}
}

func TestSessionAddAndViewAll(t *testing.T) {
	svc := newService(func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local) })
	out := runSession(t, svc, "1\ncoffee\n3.50\nfood\n2\n2\n8\n")

	mustContain(t, out,
		"=== Personal Expense Tracker ===",
		"Transaction added successfully! ID: ",
		transactionHeader,
		"| 2024-03-09 | $3.50 | EXPENSE | food | coffee",
		"Total transactions: 1",
		"Thank you for using Expense Tracker!",
	)

	txs, _ := svc.List(context.Background())
	if len(txs) != 1 || txs[0].Amount != 3.5 || txs[0].Type != core.Expense {
		t.Fatalf("unexpected ledger: %+v", txs)
	}
	if !strings.Contains(out, "ID: "+txs[0].ID) {
		t.Fatalf("output does not show id %s", txs[0].ID)
	}
}

func TestSessionRepromptsInvalidInput(t *testing.T) {
	svc := newService(nil)
	out := runSession(t, svc, "x\n1\nsalary\n-5\nabc\n10\nwork\none\n1\n8\n")

	mustContain(t, out,
		"Please enter a valid number: ",
		"Please enter a positive amount: ",
		"Please enter a valid amount: ",
		"Transaction added successfully!",
	)
	txs, _ := svc.List(context.Background())
	if len(txs) != 1 || txs[0].Amount != 10 || txs[0].Type != core.Income {
		t.Fatalf("unexpected ledger: %+v", txs)
	}
}

func TestSessionEmptyLedger(t *testing.T) {
	out := runSession(t, newService(nil), "2\n3\n4\n5\n6\n7\n9\n8\n")

	if n := strings.Count(out, "No transactions found."); n != 4 {
		t.Fatalf("expected 4 empty messages, got %d:\n%s", n, out)
	}
	mustContain(t, out,
		"No transactions to edit.",
		"No transactions to delete.",
		"Invalid choice. Please try again.",
	)
}

func TestSessionEdit(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	tx, _ := svc.Record(ctx, "rent", 800, "home", core.Expense)

	out := runSession(t, svc, "5\n"+tx.ID+"\n2\n850\n5\n"+tx.ID+"\n3\nhousing\n5\n"+tx.ID+"\n1\nrent (june)\n8\n")
	if n := strings.Count(out, "Transaction updated successfully!"); n != 3 {
		t.Fatalf("expected 3 updates, got %d:\n%s", n, out)
	}
	mustContain(t, out, "Current transaction: "+tx.ID)

	got, _ := svc.Find(ctx, tx.ID)
	if got.Amount != 850 || got.Category != "housing" || got.Description != "rent (june)" {
		t.Fatalf("unexpected transaction: %+v", got)
	}
	if got.ID != tx.ID || got.Type != tx.Type || !got.Date.Equal(tx.Date.Time) {
		t.Fatalf("immutable fields changed: %+v", got)
	}
}

func TestSessionEditFailures(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	tx, _ := svc.Record(ctx, "rent", 800, "home", core.Expense)

	out := runSession(t, svc, "5\nzzzzzzzz\n5\n"+tx.ID+"\n4\n8\n")
	mustContain(t, out, "Transaction not found.", "Invalid choice.")

	got, _ := svc.Find(ctx, tx.ID)
	if got != tx {
		t.Fatalf("transaction changed: %+v", got)
	}
}

func TestSessionDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(nil)
	keep, _ := svc.Record(ctx, "salary", 500, "work", core.Income)
	drop, _ := svc.Record(ctx, "rent", 200, "home", core.Expense)

	out := runSession(t, svc, "6\n"+drop.ID+"\nn\n6\n"+drop.ID+"\nY\n6\nmissing1\n8\n")
	mustContain(t, out,
		"Transaction to delete: "+drop.ID,
		"Deletion cancelled.",
		"Transaction deleted successfully!",
		"Transaction not found.",
	)

	txs, _ := svc.List(ctx)
	if len(txs) != 1 || txs[0].ID != keep.ID {
		t.Fatalf("unexpected ledger after delete: %+v", txs)
	}
}

func TestSessionReports(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	svc := newService(func() time.Time { return now })
	_, _ = svc.Record(ctx, "salary", 500, "side", core.Income)
	now = time.Date(2024, 2, 3, 9, 0, 0, 0, time.Local)
	_, _ = svc.Record(ctx, "rent", 200, "home", core.Expense)
	_, _ = svc.Record(ctx, "tools", 30, "side", core.Expense)

	out := runSession(t, svc, "3\n4\n7\n8\n")
	mustContain(t, out,
		"Category: side",
		"Category Total: $470.00",
		"Category: home",
		"Category Total: -$200.00",
		"Total Income: $500.00",
		"Total Expenses: $230.00",
		"Net Balance: $270.00",
		"You're in the positive!",
		"2024-01    | $500.00      | $0.00        | $500.00",
		"2024-02    | $0.00        | $230.00      | -$230.00",
	)
	if strings.Index(out, "Category: side") > strings.Index(out, "Category: home") {
		t.Fatalf("categories should appear in order of first use:\n%s", out)
	}
	if strings.Index(out, "2024-01    |") > strings.Index(out, "2024-02    |") {
		t.Fatalf("months out of order:\n%s", out)
	}
}

func TestSessionNegativeSummary(t *testing.T) {
	svc := newService(nil)
	_, _ = svc.Record(context.Background(), "rent", 200, "home", core.Expense)
	out := runSession(t, svc, "4\n8\n")
	mustContain(t, out, "Net Balance: -$200.00", "You're spending more than you earn.")
}

func TestSessionEndsOnEOF(t *testing.T) {
	out := runSession(t, newService(nil), "1\npartial")
	mustContain(t, out, "Thank you for using Expense Tracker!")
}

func TestSessionStopsOnCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	s := NewSession(newService(nil), r, &out, nil)

	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("expected clean exit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("session did not stop after cancel")
	}
}

type failingLedger struct {
	*services.LedgerService
}

func (failingLedger) List(context.Context) ([]core.Transaction, error) {
	return nil, errors.New("disk on fire")
}

func TestSessionReportsStoreErrors(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(failingLedger{newService(nil)}, strings.NewReader("2\n8\n"), &out, nil)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("store errors must not end the session: %v", err)
	}
	mustContain(t, out.String(), "Could not list transactions: disk on fire", "Thank you")
}
