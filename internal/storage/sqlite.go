package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"expense-tracker/internal/core"
	"expense-tracker/internal/ledger"

	_ "modernc.org/sqlite"
)

// memoryDSN opens a private in-memory database. Its content is gone when the
// last connection closes, which is when the session ends.
const memoryDSN = ":memory:"

// SQLiteLedger is a ledger.Store backed by an in-memory SQLite database.
// The seq column keeps insertion order.
type SQLiteLedger struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteLedger)(nil)

func NewSQLiteLedger() (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Every new connection would see an empty database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteLedger{db: db}, nil
}

func (r *SQLiteLedger) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteLedger) Add(t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	var exists int
	err := r.db.QueryRow(`SELECT COUNT(1) FROM transactions WHERE id = ?`, t.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check transaction id: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", core.ErrDuplicateID, t.ID)
	}

	_, err = r.db.Exec(
		`INSERT INTO transactions (id, description, amount, category, date, type) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Description, t.Amount, t.Category, t.Date.String(), string(t.Type),
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.Debug("Transaction saved to SQLite",
		"id", t.ID,
		"amount", t.Amount,
		"category", t.Category,
		"type", t.Type)
	return nil
}

func (r *SQLiteLedger) FindByID(id string) (core.Transaction, error) {
	row := r.db.QueryRow(
		`SELECT id, description, amount, category, date, type FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteLedger) EditField(id string, c core.Change) (core.Transaction, error) {
	t, err := r.FindByID(id)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := c.Apply(&t); err != nil {
		return core.Transaction{}, err
	}

	_, err = r.db.Exec(
		`UPDATE transactions SET description = ?, amount = ?, category = ? WHERE id = ?`,
		t.Description, t.Amount, t.Category, id,
	)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}
	return t, nil
}

func (r *SQLiteLedger) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return nil
}

func (r *SQLiteLedger) List() ([]core.Transaction, error) {
	return r.query("list transactions",
		`SELECT id, description, amount, category, date, type FROM transactions ORDER BY seq`)
}

// query runs a transaction listing and scans every row.
func (r *SQLiteLedger) query(op, q string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *SQLiteLedger) Len() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(1) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// Aggregates are folded over rows in seq order with the ledger package
// helpers, so totals match the memory ledger bit for bit.

func (r *SQLiteLedger) GroupByCategory() ([]core.CategoryGroup, error) {
	txs, err := r.List()
	if err != nil {
		return nil, err
	}
	return ledger.GroupByCategory(txs), nil
}

func (r *SQLiteLedger) CategoryNetTotal(category string) (float64, error) {
	txs, err := r.query(fmt.Sprintf("category net total %q", category),
		`SELECT id, description, amount, category, date, type FROM transactions
		WHERE category = ? ORDER BY seq`, category)
	if err != nil {
		return 0, err
	}
	return ledger.CategoryNet(txs, category), nil
}

func (r *SQLiteLedger) Summary() (core.Summary, error) {
	txs, err := r.List()
	if err != nil {
		return core.Summary{}, fmt.Errorf("summary: %w", err)
	}
	return ledger.Summarize(txs), nil
}

func (r *SQLiteLedger) MonthlyReport() ([]core.MonthReport, error) {
	txs, err := r.List()
	if err != nil {
		return nil, fmt.Errorf("monthly report: %w", err)
	}
	return ledger.Monthly(txs), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t    core.Transaction
		date string
		typ  string
	)
	if err := row.Scan(&t.ID, &t.Description, &t.Amount, &t.Category, &date, &typ); err != nil {
		return core.Transaction{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Date = d
	t.Type = core.Type(typ)
	return t, nil
}
