// Package recurrence turns detected recurring movements into dated forecasts.
package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

var (
	ErrNotFound        = errors.New("recurrence pattern not found")
	ErrNotPending      = errors.New("recurrence pattern is not pending")
	ErrUnknownInterval = errors.New("unknown recurrence interval")
	ErrInvalidPattern  = errors.New("invalid recurrence pattern")
)

type Interval string

const (
	Monthly     Interval = "monthly"
	Bimonthly   Interval = "bimonthly"
	Quarterly   Interval = "quarterly"
	FourMonthly Interval = "four_monthly"
	Semiannual  Interval = "semiannual"
	Annual      Interval = "annual"
)

// Step is the number of months between two instances, or 0 for an unknown interval.
func (i Interval) Step() int {
	switch i {
	case Monthly:
		return 1
	case Bimonthly:
		return 2
	case Quarterly:
		return 3
	case FourMonthly:
		return 4
	case Semiannual:
		return 6
	case Annual:
		return 12
	}

	return 0
}

// Repetitions is how many instances fit in a year.
func (i Interval) Repetitions() int {
	if s := i.Step(); s > 0 {
		return 12 / s
	}

	return 0
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Pattern is a repeating movement inferred from past transactions.
type Pattern struct {
	ID           uuid.UUID
	Company      string
	Description  string
	Amount       int64
	Variable     bool // Amount is an average of varying charges
	Type         transaction.Type
	Interval     Interval
	EstimatedDay int
	AnchorMonth  time.Month
	Category     string
	Subcategory  string
	SourceIDs    []uuid.UUID
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Expand returns the forecast drafts p produces for year. Instances whose month
// would fall past December are dropped, not carried into the next year.
// A day past the end of a short month is moved to that month's last day.
func Expand(p Pattern, year int) ([]obligation.Draft, error) {
	step := p.Interval.Step()
	if step == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInterval, p.Interval)
	}

	if p.AnchorMonth < time.January || p.AnchorMonth > time.December {
		return nil, fmt.Errorf("%w: anchor month %d", ErrInvalidPattern, p.AnchorMonth)
	}

	kind := obligation.KindExpenseForecast
	if p.Type == transaction.TypeIncome {
		kind = obligation.KindIncomeForecast
	}

	var drafts []obligation.Draft

	for i := range p.Interval.Repetitions() {
		first := time.Date(year, p.AnchorMonth+time.Month(i*step), 1, 0, 0, 0, 0, time.UTC)
		if first.Year() != year {
			continue
		}

		date := first.AddDate(0, 0, clampDay(p.EstimatedDay, first)-1)

		drafts = append(drafts, obligation.Draft{
			Kind:        kind,
			Company:     p.Company,
			Description: p.Description + " " + PeriodLabel(p.Interval, date),
			Category:    p.Category,
			Subcategory: p.Subcategory,
			Date:        date,
			Amount:      p.Amount,
			Estimated:   p.Variable,
			PatternID:   &p.ID,
		})
	}

	return drafts, nil
}

func clampDay(day int, monthStart time.Time) int {
	last := monthStart.AddDate(0, 1, -1).Day()

	return min(max(day, 1), last)
}

// PeriodLabel names the period an instance falls in, e.g. "March 2025",
// "Q2 2025", "H1 2025" or "Mar-Apr 2025".
func PeriodLabel(i Interval, date time.Time) string {
	y := strconv.Itoa(date.Year())
	m := date.Month()

	switch i {
	case Monthly:
		return m.String() + " " + y
	case Quarterly:
		return "Q" + strconv.Itoa((int(m)-1)/3+1) + " " + y
	case Semiannual:
		if m <= time.June {
			return "H1 " + y
		}

		return "H2 " + y
	case Annual:
		return y
	case Bimonthly, FourMonthly:
		end := min(m+time.Month(i.Step()-1), time.December)
		return m.String()[:3] + "-" + end.String()[:3] + " " + y
	}

	return y
}

// Expansion is the result of expanding one pattern in a run.
type Expansion struct {
	Pattern Pattern
	Drafts  []obligation.Draft
	Err     error
}

// ExpandAll expands every pattern independently. A pattern that fails yields
// no drafts and does not stop the others.
func ExpandAll(patterns []Pattern, year int) []Expansion {
	out := make([]Expansion, len(patterns))

	for i, p := range patterns {
		drafts, err := Expand(p, year)
		out[i] = Expansion{Pattern: p, Drafts: drafts, Err: err}
	}

	return out
}
