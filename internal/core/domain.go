package core

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Income  Type = "income"
	Expense Type = "expense"
)

const (
	FieldDescription Field = "description"
	FieldAmount      Field = "amount"
	FieldCategory    Field = "category"
)

// IDLength is the length of every transaction ID.
const IDLength = 8

// idSpace is 36^IDLength.
const idSpace = 2821109907456

type (
	// Type tells whether a transaction adds to or subtracts from the balance.
	Type string

	// Field names the editable parts of a transaction.
	Field string

	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string
		Description string
		Amount      float64 // always >= 0, the sign comes from Type
		Category    string
		Date        Date
		Type        Type
	}

	// Change describes an edit of exactly one mutable field.
	Change struct {
		Field  Field
		Text   string  // description or category
		Amount float64 // amount
	}
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidField  = errors.New("invalid field")
	ErrDuplicateID   = errors.New("duplicate transaction id")
	ErrEmptyID       = errors.New("empty transaction id")
	ErrInvalidDate   = errors.New("invalid date")
)

// NewID returns a fresh 8 character lowercase base-36 token.
func NewID() string {
	u := uuid.New()
	// Folding both halves keeps the version and variant bits from biasing the token.
	v := binary.BigEndian.Uint64(u[:8]) ^ binary.BigEndian.Uint64(u[8:])
	s := strconv.FormatUint(v%idSpace, 36)
	if len(s) < IDLength {
		s = strings.Repeat("0", IDLength-len(s)) + s
	}
	return s
}

// NewTransaction creates a transaction dated today.
func NewTransaction(description string, amount float64, category string, typ Type) (Transaction, error) {
	return NewTransactionOn(Today(), description, amount, category, typ)
}

// NewTransactionOn creates a transaction with an explicit date.
func NewTransactionOn(date Date, description string, amount float64, category string, typ Type) (Transaction, error) {
	t := Transaction{
		ID:          NewID(),
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date,
		Type:        typ,
	}
	if err := t.Validate(); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	return t.Date.Validate()
}

// Signed returns the amount with the sign implied by the transaction type.
func (t Transaction) Signed() float64 {
	if t.Type == Income {
		return t.Amount
	}
	return -t.Amount
}

func (t Type) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidType, string(t))
	}
}

func (t Type) String() string {
	return string(t)
}

func (f Field) Validate() error {
	switch f {
	case FieldDescription, FieldAmount, FieldCategory:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, string(f))
	}
}

// SetDescription returns a change replacing the description.
func SetDescription(s string) Change {
	return Change{Field: FieldDescription, Text: s}
}

// SetAmount returns a change replacing the amount.
func SetAmount(v float64) Change {
	return Change{Field: FieldAmount, Amount: v}
}

// SetCategory returns a change replacing the category.
func SetCategory(s string) Change {
	return Change{Field: FieldCategory, Text: s}
}

func (c Change) Validate() error {
	if err := c.Field.Validate(); err != nil {
		return err
	}
	if c.Field == FieldAmount {
		return ValidateAmount(c.Amount)
	}
	return nil
}

// Apply mutates t in place. ID, Date and Type are never touched, and t is
// left unchanged when the change is invalid.
func (c Change) Apply(t *Transaction) error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c.Field {
	case FieldDescription:
		t.Description = c.Text
	case FieldAmount:
		t.Amount = c.Amount
	case FieldCategory:
		t.Category = c.Text
	}
	return nil
}

// ValidateAmount rejects negative, NaN and infinite amounts. Zero is allowed.
func ValidateAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// MonthKey returns the zero padded "YYYY-MM" bucket of the date.
func (d Date) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", d.Year(), d.Month())
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the clock part of t, keeping its local calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current local calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a "YYYY-MM-DD" date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}
