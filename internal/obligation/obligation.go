// Package obligation models money expected to move: tax or contract deadlines,
// expense forecasts and income forecasts.
//
// The three kinds are stored differently (a deadline has a due date, a
// forecast an expected date) and are exposed to the rest of the system
// through the common Obligation projection.
package obligation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/dedupe"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

var (
	ErrNotFound      = errors.New("obligation not found")
	ErrInvalidRef    = errors.New("invalid obligation reference")
	ErrMismatch      = errors.New("transaction and obligation differ in company or flow direction")
	ErrAlreadyLinked = errors.New("transaction already settles an obligation")
	ErrNotLinked     = errors.New("transaction does not settle an obligation")
	ErrNotSettleable = errors.New("obligation is not open")
)

// Kind tags which record variant an obligation comes from.
type Kind string

const (
	KindDeadline        Kind = "deadline"
	KindExpenseForecast Kind = "expense_forecast"
	KindIncomeForecast  Kind = "income_forecast"
)

// Kinds lists every obligation kind.
var Kinds = []Kind{KindDeadline, KindExpenseForecast, KindIncomeForecast}

// Collection is the tag used in obligation references, e.g. "deadlines/<id>".
func (k Kind) Collection() string {
	switch k {
	case KindDeadline:
		return "deadlines"
	case KindExpenseForecast:
		return "expense_forecasts"
	case KindIncomeForecast:
		return "income_forecasts"
	}

	return ""
}

// Direction is the flow direction of the transactions that settle this kind.
func (k Kind) Direction() transaction.Type {
	if k == KindIncomeForecast {
		return transaction.TypeIncome
	}

	return transaction.TypeExpense
}

// KindOf returns the kind whose collection tag is c.
func KindOf(collection string) (Kind, bool) {
	for _, k := range Kinds {
		if k.Collection() == collection {
			return k, true
		}
	}

	return "", false
}

// KindsFor returns the kinds settled by transactions flowing in direction t.
func KindsFor(t transaction.Type) []Kind {
	var out []Kind

	for _, k := range Kinds {
		if k.Direction() == t {
			out = append(out, k)
		}
	}

	return out
}

// Status is the lifecycle state of an obligation.
type Status string

const (
	StatusOpen             Status = "open"
	StatusPartiallySettled Status = "partially_settled"
	StatusSettled          Status = "settled"
	StatusCancelled        Status = "cancelled"
)

// Open reports whether an obligation in this status can still be settled.
func (s Status) Open() bool {
	return s == StatusOpen || s == StatusPartiallySettled
}

// Deadline is a tax or contract payment due on a fixed date.
type Deadline struct {
	ID          uuid.UUID
	Company     string
	Description string
	Reference   string // e.g. the tax form or contract number
	Category    string
	Subcategory string
	DueDate     time.Time
	Amount      int64
	Outstanding int64
	Status      Status
}

// Forecast is an expected expense or income, often generated from a recurrence pattern.
type Forecast struct {
	ID           uuid.UUID
	Company      string
	Description  string
	Category     string
	Subcategory  string
	ExpectedDate time.Time
	Amount       int64
	Outstanding  int64
	Estimated    bool // amount is an estimate of a variable charge
	PatternID    *uuid.UUID
	Status       Status
}

type (
	ExpenseForecast Forecast
	IncomeForecast  Forecast
)

// Record is one stored obligation of any kind. Exactly one of the variant
// pointers, the one matching Kind, is set.
type Record struct {
	Kind     Kind
	Deadline *Deadline
	Expense  *ExpenseForecast
	Income   *IncomeForecast
}

// Obligation is the kind-independent projection used for matching and settlement.
type Obligation struct {
	ID          uuid.UUID
	Kind        Kind
	Company     string
	Description string
	Category    string
	Subcategory string
	DueDate     time.Time // zero when the record carries no usable date
	Amount      int64
	Outstanding int64
	Status      Status
}

// Project normalizes the record into the common Obligation view.
// It returns false when the variant for Kind is missing.
func (r Record) Project() (Obligation, bool) {
	switch r.Kind {
	case KindDeadline:
		if r.Deadline == nil {
			return Obligation{}, false
		}

		d := r.Deadline

		return Obligation{
			ID:          d.ID,
			Kind:        KindDeadline,
			Company:     d.Company,
			Description: d.Description,
			Category:    d.Category,
			Subcategory: d.Subcategory,
			DueDate:     d.DueDate,
			Amount:      d.Amount,
			Outstanding: max(d.Outstanding, 0),
			Status:      d.Status,
		}, true
	case KindExpenseForecast:
		if r.Expense == nil {
			return Obligation{}, false
		}

		return projectForecast(KindExpenseForecast, Forecast(*r.Expense)), true
	case KindIncomeForecast:
		if r.Income == nil {
			return Obligation{}, false
		}

		return projectForecast(KindIncomeForecast, Forecast(*r.Income)), true
	}

	return Obligation{}, false
}

func projectForecast(k Kind, f Forecast) Obligation {
	return Obligation{
		ID:          f.ID,
		Kind:        k,
		Company:     f.Company,
		Description: f.Description,
		Category:    f.Category,
		Subcategory: f.Subcategory,
		DueDate:     f.ExpectedDate,
		Amount:      f.Amount,
		Outstanding: max(f.Outstanding, 0),
		Status:      f.Status,
	}
}

// Collection is the obligation's collection tag.
func (o Obligation) Collection() string {
	return o.Kind.Collection()
}

// Direction is the flow direction of transactions that settle o.
func (o Obligation) Direction() transaction.Type {
	return o.Kind.Direction()
}

// Ref returns the reference a transaction stores to link to o.
func (o Obligation) Ref() Ref {
	return Ref{Kind: o.Kind, ID: o.ID}
}

// Ref identifies an obligation across collections.
type Ref struct {
	Kind Kind
	ID   uuid.UUID
}

// String formats the reference as "{collection}/{id}".
func (r Ref) String() string {
	return r.Kind.Collection() + "/" + r.ID.String()
}

// ParseRef parses a "{collection}/{id}" reference.
func ParseRef(s string) (Ref, error) {
	collection, rawID, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidRef, s)
	}

	kind, ok := KindOf(collection)
	if !ok {
		return Ref{}, fmt.Errorf("%w: unknown collection %q", ErrInvalidRef, collection)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %v", ErrInvalidRef, err)
	}

	return Ref{Kind: kind, ID: id}, nil
}

// Draft is a not-yet-stored forecast, e.g. one instance of a recurrence pattern.
type Draft struct {
	Kind        Kind
	Company     string
	Description string
	Category    string
	Subcategory string
	Date        time.Time
	Amount      int64
	Estimated   bool
	PatternID   *uuid.UUID
}

// Record returns the duplicate-detection view of the draft.
func (d Draft) Record() dedupe.Record {
	return dedupe.Record{
		Company:     d.Company,
		Date:        d.Date,
		Description: d.Description,
		Amount:      d.Amount,
		Direction:   string(d.Kind.Direction()),
	}
}

// DedupeRecord returns the duplicate-detection view of the obligation.
func (o Obligation) DedupeRecord() dedupe.Record {
	return dedupe.Record{
		ID:          o.Ref().String(),
		Company:     o.Company,
		Date:        o.DueDate,
		Description: o.Description,
		Amount:      o.Amount,
		Direction:   string(o.Direction()),
	}
}
