package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"expense-tracker/internal/core"
	applog "expense-tracker/internal/log"
)

// Ledger is what the session needs from the ledger service.
type Ledger interface {
	Record(ctx context.Context, description string, amount float64, category string, typ core.Type) (core.Transaction, error)
	Find(ctx context.Context, id string) (core.Transaction, error)
	Edit(ctx context.Context, id string, c core.Change) (core.Transaction, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]core.Transaction, error)
	Count(ctx context.Context) (int, error)
	ByCategory(ctx context.Context) ([]core.CategoryGroup, error)
	Summary(ctx context.Context) (core.Summary, error)
	MonthlyReport(ctx context.Context) ([]core.MonthReport, error)
}

// Menu choices.
const (
	choiceAdd = iota + 1
	choiceViewAll
	choiceByCategory
	choiceSummary
	choiceEdit
	choiceDelete
	choiceMonthly
	choiceExit
)

// Session is one interactive run over a single ledger.
type Session struct {
	ledger Ledger
	in     io.Reader
	out    io.Writer
	logger *applog.Logger

	lines <-chan string
}

func NewSession(l Ledger, in io.Reader, out io.Writer, logger *applog.Logger) *Session {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Session{
		ledger: l,
		in:     in,
		out:    out,
		logger: logger.WithComponent(applog.ComponentCLI),
	}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	s.lines = readLines(s.in, done)

	s.println("=== Personal Expense Tracker ===")

	for {
		s.showMenu()
		choice, err := s.readInt(ctx)
		if err != nil {
			return s.finish(err)
		}

		switch choice {
		case choiceAdd:
			err = s.addTransaction(ctx)
		case choiceViewAll:
			s.viewAll(ctx)
		case choiceByCategory:
			s.viewByCategory(ctx)
		case choiceSummary:
			s.showSummary(ctx)
		case choiceEdit:
			err = s.editTransaction(ctx)
		case choiceDelete:
			err = s.deleteTransaction(ctx)
		case choiceMonthly:
			s.showMonthlyReport(ctx)
		case choiceExit:
			s.println("Thank you for using Expense Tracker!")
			return nil
		default:
			s.println("Invalid choice. Please try again.")
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

// finish turns end of input and cancellation into a normal exit.
func (s *Session) finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		s.println("\nThank you for using Expense Tracker!")
		return nil
	}
	return err
}

func (s *Session) showMenu() {
	s.println("\n--- Menu ---")
	s.println("1. Add Transaction")
	s.println("2. View All Transactions")
	s.println("3. View by Category")
	s.println("4. Show Summary")
	s.println("5. Edit Transaction")
	s.println("6. Delete Transaction")
	s.println("7. Monthly Report")
	s.println("8. Exit")
	s.print("Choose an option: ")
}

func (s *Session) addTransaction(ctx context.Context) error {
	s.println("\n--- Add New Transaction ---")

	s.print("Description: ")
	description, err := s.readLine(ctx)
	if err != nil {
		return err
	}

	s.print("Amount: $")
	amount, err := s.readAmount(ctx)
	if err != nil {
		return err
	}

	s.print("Category: ")
	category, err := s.readLine(ctx)
	if err != nil {
		return err
	}

	s.println("Transaction Type:")
	s.println("1. Income")
	s.println("2. Expense")
	s.print("Choose type: ")
	typeChoice, err := s.readInt(ctx)
	if err != nil {
		return err
	}
	typ := core.Expense
	if typeChoice == 1 {
		typ = core.Income
	}

	t, err := s.ledger.Record(ctx, description, amount, category, typ)
	if err != nil {
		s.reportError("Could not add transaction", err)
		return nil
	}
	s.printf("Transaction added successfully! ID: %s\n", t.ID)
	return nil
}

func (s *Session) viewAll(ctx context.Context) {
	s.println("\n--- All Transactions ---")

	txs, err := s.ledger.List(ctx)
	if err != nil {
		s.reportError("Could not list transactions", err)
		return
	}
	if len(txs) == 0 {
		s.println("No transactions found.")
		return
	}

	s.println(transactionHeader)
	s.println(strings.Repeat("-", 70))
	for _, t := range txs {
		s.println(formatTransaction(t))
	}
	s.printf("\nTotal transactions: %d\n", len(txs))
}

func (s *Session) viewByCategory(ctx context.Context) {
	s.println("\n--- Transactions by Category ---")

	groups, err := s.ledger.ByCategory(ctx)
	if err != nil {
		s.reportError("Could not group transactions", err)
		return
	}
	if len(groups) == 0 {
		s.println("No transactions found.")
		return
	}

	for _, g := range groups {
		s.printf("\nCategory: %s\n", g.Category)
		s.println(strings.Repeat("-", 50))
		for _, t := range g.Transactions {
			s.println(formatTransaction(t))
		}
		s.printf("Category Total: %s\n", core.FormatAmount(g.NetTotal()))
	}
}

func (s *Session) showSummary(ctx context.Context) {
	s.println("\n--- Financial Summary ---")

	if s.isEmpty(ctx) {
		s.println("No transactions found.")
		return
	}
	sum, err := s.ledger.Summary(ctx)
	if err != nil {
		s.reportError("Could not compute summary", err)
		return
	}

	s.printf("Total Income: %s\n", core.FormatAmount(sum.TotalIncome))
	s.printf("Total Expenses: %s\n", core.FormatAmount(sum.TotalExpenses))
	s.printf("Net Balance: %s\n", core.FormatAmount(sum.NetBalance))
	if sum.Positive() {
		s.println("You're in the positive!")
	} else {
		s.println("You're spending more than you earn.")
	}
}

func (s *Session) editTransaction(ctx context.Context) error {
	s.println("\n--- Edit Transaction ---")

	if s.isEmpty(ctx) {
		s.println("No transactions to edit.")
		return nil
	}

	s.print("Enter transaction ID to edit: ")
	id, err := s.readLine(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)

	t, err := s.ledger.Find(ctx, id)
	if err != nil {
		s.reportError("Could not find transaction", err)
		return nil
	}

	s.println("Current transaction: " + formatTransaction(t))
	s.println("\nWhat would you like to edit?")
	s.println("1. Description")
	s.println("2. Amount")
	s.println("3. Category")
	s.print("Choose: ")

	choice, err := s.readInt(ctx)
	if err != nil {
		return err
	}

	var change core.Change
	switch choice {
	case 1:
		s.print("New description: ")
		v, err := s.readLine(ctx)
		if err != nil {
			return err
		}
		change = core.SetDescription(v)
	case 2:
		s.print("New amount: $")
		v, err := s.readAmount(ctx)
		if err != nil {
			return err
		}
		change = core.SetAmount(v)
	case 3:
		s.print("New category: ")
		v, err := s.readLine(ctx)
		if err != nil {
			return err
		}
		change = core.SetCategory(v)
	default:
		s.println("Invalid choice.")
		return nil
	}

	if _, err := s.ledger.Edit(ctx, id, change); err != nil {
		s.reportError("Could not update transaction", err)
		return nil
	}
	s.println("Transaction updated successfully!")
	return nil
}

func (s *Session) deleteTransaction(ctx context.Context) error {
	s.println("\n--- Delete Transaction ---")

	if s.isEmpty(ctx) {
		s.println("No transactions to delete.")
		return nil
	}

	s.print("Enter transaction ID to delete: ")
	id, err := s.readLine(ctx)
	if err != nil {
		return err
	}
	id = strings.TrimSpace(id)

	t, err := s.ledger.Find(ctx, id)
	if err != nil {
		s.reportError("Could not find transaction", err)
		return nil
	}

	s.println("Transaction to delete: " + formatTransaction(t))
	s.print("Are you sure? (y/n): ")
	confirmation, err := s.readLine(ctx)
	if err != nil {
		return err
	}
	if strings.ToLower(strings.TrimSpace(confirmation)) != "y" {
		s.println("Deletion cancelled.")
		return nil
	}

	if err := s.ledger.Delete(ctx, id); err != nil {
		s.reportError("Could not delete transaction", err)
		return nil
	}
	s.println("Transaction deleted successfully!")
	return nil
}

func (s *Session) showMonthlyReport(ctx context.Context) {
	s.println("\n--- Monthly Report ---")

	months, err := s.ledger.MonthlyReport(ctx)
	if err != nil {
		s.reportError("Could not compute monthly report", err)
		return
	}
	if len(months) == 0 {
		s.println("No transactions found.")
		return
	}

	s.printf(monthRowFormat, "Month", "Income", "Expenses", "Balance")
	s.println(strings.Repeat("-", 55))
	for _, m := range months {
		s.printf(monthRowFormat, m.Month,
			core.FormatAmount(m.Income),
			core.FormatAmount(m.Expenses),
			core.FormatAmount(m.Balance))
	}
}

func (s *Session) isEmpty(ctx context.Context) bool {
	n, err := s.ledger.Count(ctx)
	return err == nil && n == 0
}

// reportError shows not-found as the plain user message and anything else
// with its cause.
func (s *Session) reportError(msg string, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		s.println("Transaction not found.")
		s.logger.Debug(msg, applog.FieldError, err, applog.FieldErrorType, applog.ErrorTypeNotFound)
	case errors.Is(err, core.ErrInvalidAmount):
		s.println("Amount must be a non-negative number.")
		s.logger.Debug(msg, applog.FieldError, err, applog.FieldErrorType, applog.ErrorTypeValidation)
	default:
		s.printf("%s: %v\n", msg, err)
		s.logger.Error(msg, applog.FieldError, err, applog.FieldErrorType, applog.ErrorTypeInternal)
	}
}

func (s *Session) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// readInt re-prompts until the line is an integer.
func (s *Session) readInt(ctx context.Context) (int, error) {
	for {
		line, err := s.readLine(ctx)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			return v, nil
		}
		s.print("Please enter a valid number: ")
	}
}

// readAmount re-prompts until the line is a non-negative amount.
func (s *Session) readAmount(ctx context.Context) (float64, error) {
	for {
		line, err := s.readLine(ctx)
		if err != nil {
			return 0, err
		}
		v, err := core.ParseAmount(line)
		if err == nil {
			return v, nil
		}
		if core.IsNegativeAmount(line) {
			s.print("Please enter a positive amount: ")
		} else {
			s.print("Please enter a valid amount: ")
		}
	}
}

// readLines feeds r line by line until EOF or until done is closed.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-done:
				return
			}
		}
	}()
	return ch
}

func (s *Session) print(a string) {
	fmt.Fprint(s.out, a)
}

func (s *Session) println(a string) {
	fmt.Fprintln(s.out, a)
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
