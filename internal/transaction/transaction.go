package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/dedupe"
)

var (
	ErrNotFound  = errors.New("transaction not found")
	ErrImmutable = errors.New("transaction is committed and cannot be edited")
	// ErrLinked rejects edits that would change what a linked transaction settles.
	ErrLinked = errors.New("transaction settles an obligation; unlink it before changing company, amount or type")
)

// Type is the flow direction of a transaction (inflow or outflow).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is a known flow direction.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Status represents the lifecycle state of a transaction.
type Status string

const (
	// StatusDraft transactions are still editable, e.g. freshly imported rows.
	StatusDraft Status = "draft"
	// StatusCommitted transactions are immutable except for their obligation link.
	StatusCommitted Status = "committed"
)

// Transaction represents a recorded cash movement.
type Transaction struct {
	ID             uuid.UUID
	Company        string
	Amount         int64 // Amount in cents, always positive; Type carries the sign
	Type           Type
	Status         Status
	Description    string
	RawDescription string
	Category       string
	Subcategory    string
	Date           time.Time
	ObligationRef  *string // "{collection}/{id}" of the settled obligation
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
}

// Linked reports whether the transaction settles an obligation.
func (t *Transaction) Linked() bool {
	return t.ObligationRef != nil && *t.ObligationRef != ""
}

// Signed returns the amount in cents with outflows negative.
func (t *Transaction) Signed() int64 {
	return signed(t.Amount, t.Type)
}

// Params returns the transaction as a draft, e.g. to score it against obligations.
func (t *Transaction) Params() CreateParams {
	return CreateParams{
		Company:        t.Company,
		Amount:         t.Amount,
		Type:           t.Type,
		Status:         t.Status,
		Description:    t.Description,
		RawDescription: t.RawDescription,
		Category:       t.Category,
		Subcategory:    t.Subcategory,
		Date:           t.Date,
	}
}

// Record returns the duplicate-detection view of the transaction.
func (t *Transaction) Record() dedupe.Record {
	return dedupe.Record{
		ID:          t.ID.String(),
		Company:     t.Company,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Direction:   string(t.Type),
	}
}

func signed(amount int64, t Type) int64 {
	if t == TypeExpense {
		return -amount
	}

	return amount
}
