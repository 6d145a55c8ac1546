// Package ledger holds the in-memory record store of a session and the
// aggregations computed over it.
package ledger

import (
	"fmt"

	"expense-tracker/internal/core"
)

// Store is the set of operations the session needs from a ledger backend.
type Store interface {
	Add(t core.Transaction) error
	FindByID(id string) (core.Transaction, error)
	EditField(id string, c core.Change) (core.Transaction, error)
	Delete(id string) error
	List() ([]core.Transaction, error)
	Len() (int, error)
	GroupByCategory() ([]core.CategoryGroup, error)
	CategoryNetTotal(category string) (float64, error)
	Summary() (core.Summary, error)
	MonthlyReport() ([]core.MonthReport, error)
}

// Ledger keeps transactions in insertion order with an id index for lookups.
// It has a single owner and is not safe for concurrent use.
type Ledger struct {
	items []core.Transaction
	index map[string]int
}

var _ Store = (*Ledger)(nil)

func New() *Ledger {
	return &Ledger{index: make(map[string]int)}
}

// Add appends t to the end of the ledger.
func (l *Ledger) Add(t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, ok := l.index[t.ID]; ok {
		return fmt.Errorf("%w: %s", core.ErrDuplicateID, t.ID)
	}
	l.index[t.ID] = len(l.items)
	l.items = append(l.items, t)
	return nil
}

// FindByID returns a copy of the transaction with the given id.
func (l *Ledger) FindByID(id string) (core.Transaction, error) {
	i, ok := l.index[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	return l.items[i], nil
}

// EditField applies c to the transaction with the given id and returns the
// updated value. Nothing changes when the id is unknown or c is invalid.
func (l *Ledger) EditField(id string, c core.Change) (core.Transaction, error) {
	i, ok := l.index[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err := c.Apply(&l.items[i]); err != nil {
		return core.Transaction{}, err
	}
	return l.items[i], nil
}

// Delete removes the transaction with the given id, keeping the order of
// the others.
func (l *Ledger) Delete(id string) error {
	i, ok := l.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	delete(l.index, id)
	for j := i; j < len(l.items); j++ {
		l.index[l.items[j].ID] = j
	}
	return nil
}

// List returns a copy of all transactions in insertion order.
func (l *Ledger) List() ([]core.Transaction, error) {
	return append([]core.Transaction(nil), l.items...), nil
}

func (l *Ledger) Len() (int, error) {
	return len(l.items), nil
}

func (l *Ledger) GroupByCategory() ([]core.CategoryGroup, error) {
	return GroupByCategory(l.items), nil
}

// CategoryNetTotal is the signed total of one category, 0 when it has no
// transactions.
func (l *Ledger) CategoryNetTotal(category string) (float64, error) {
	return CategoryNet(l.items, category), nil
}

func (l *Ledger) Summary() (core.Summary, error) {
	return Summarize(l.items), nil
}

func (l *Ledger) MonthlyReport() ([]core.MonthReport, error) {
	return Monthly(l.items), nil
}
