package reconcile

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/textmatch"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Breakdown holds each feature's contribution to a candidate's score.
type Breakdown struct {
	Date        float64 `json:"date"`
	Amount      float64 `json:"amount"`
	Description float64 `json:"description"`
	Category    float64 `json:"category"`
	Subcategory float64 `json:"subcategory"`
}

func (b Breakdown) Total() float64 {
	return b.Date + b.Amount + b.Description + b.Category + b.Subcategory
}

// Exclusion says why a candidate was dropped before ranking.
type Exclusion string

const (
	ExcludedCompany   Exclusion = "company"
	ExcludedDirection Exclusion = "direction"
	ExcludedClosed    Exclusion = "closed"
	ExcludedNoDate    Exclusion = "no_date"
	ExcludedTooFar    Exclusion = "too_far_ahead"
)

// Candidate is an obligation scored against one transaction. It is recomputed
// on every call and never stored.
type Candidate struct {
	Obligation obligation.Obligation
	Breakdown  Breakdown
	Score      float64
	Excluded   Exclusion // empty when the candidate can be ranked
}

// Ref is the reference a transaction stores when linked to this candidate.
func (c Candidate) Ref() obligation.Ref {
	return c.Obligation.Ref()
}

// DaysLate is the number of days between the obligation's due date and the
// transaction date; negative when the obligation is still in the future.
func DaysLate(txDate, due time.Time) int {
	return civilDay(txDate) - civilDay(due)
}

// civilDay numbers t's calendar day from the epoch. Midnight UTC is a whole
// multiple of 86400 seconds on either side of 1970, so the division is exact.
func civilDay(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// Matcher scores obligations against transactions. One Matcher serves both
// interactive entry and batch import; the latter enables the category bonuses.
type Matcher struct {
	weights   Weights
	tolerance decimal.Decimal
	bonuses   bool
}

type Option func(*Matcher)

// WithBonuses adds the category and subcategory bonus terms used by batch import.
func WithBonuses() Option {
	return func(m *Matcher) {
		m.bonuses = true
	}
}

func NewMatcher(w Weights, opts ...Option) *Matcher {
	m := &Matcher{
		weights:   w,
		tolerance: decimal.NewFromFloat(w.AmountTolerance),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Score computes the candidate for o. A candidate of another company scores -1;
// any other exclusion scores 0.
func (m *Matcher) Score(tx transaction.CreateParams, o obligation.Obligation) Candidate {
	return m.score(tx, textmatch.Tokens(tx.Description), o)
}

func (m *Matcher) score(tx transaction.CreateParams, tokens textmatch.TokenSet, o obligation.Obligation) Candidate {
	c := Candidate{Obligation: o}

	switch {
	case o.Company != tx.Company:
		c.Score = -1
		c.Excluded = ExcludedCompany

		return c
	case o.Direction() != tx.Type:
		c.Excluded = ExcludedDirection
		return c
	case !o.Status.Open():
		c.Excluded = ExcludedClosed
		return c
	case o.DueDate.IsZero() || tx.Date.IsZero():
		c.Excluded = ExcludedNoDate
		return c
	}

	date, ok := m.dateTerm(tx.Date, o.DueDate)
	if !ok {
		c.Excluded = ExcludedTooFar
		return c
	}

	c.Breakdown = Breakdown{
		Date:        date,
		Amount:      m.amountTerm(tx.Amount, o.Outstanding),
		Description: textmatch.Jaccard(tokens, textmatch.Tokens(o.Description)) * m.weights.Description,
	}

	if m.bonuses {
		if tx.Category != "" && tx.Category == o.Category {
			c.Breakdown.Category = m.weights.CategoryBonus
		}

		if tx.Subcategory != "" && tx.Subcategory == o.Subcategory {
			c.Breakdown.Subcategory = m.weights.SubcategoryBonus
		}
	}

	c.Score = c.Breakdown.Total()

	return c
}

// dateTerm returns false when the obligation lies further ahead than the window.
func (m *Matcher) dateTerm(txDate, due time.Time) (float64, bool) {
	diff := DaysLate(txDate, due)

	if diff >= 0 {
		return m.weights.OverdueBase - float64(diff)/m.weights.OverdueDecayDays, true
	}

	ahead := -diff
	if ahead > m.weights.FutureWindowDays {
		return 0, false
	}

	return m.weights.FutureBase - float64(ahead), true
}

// amountTerm compares cent amounts. Over- and under-payment are treated alike.
func (m *Matcher) amountTerm(txAmount, outstanding int64) float64 {
	paid := decimal.New(txAmount, -2).Abs()
	due := decimal.New(outstanding, -2).Abs()
	delta := paid.Sub(due).Abs()

	if delta.LessThan(m.tolerance) {
		return m.weights.ExactAmount
	}

	if due.IsZero() {
		return 0
	}

	pct := delta.Div(due).Mul(decimal.NewFromInt(100)).InexactFloat64()

	return max(0, m.weights.PartialAmount-pct)
}

// Rank scores every obligation and returns the ones that pass the gates,
// best first. Ties go to the obligation due earliest.
func (m *Matcher) Rank(tx transaction.CreateParams, obligations []obligation.Obligation) []Candidate {
	tokens := textmatch.Tokens(tx.Description)

	ranked := make([]Candidate, 0, len(obligations))

	for _, o := range obligations {
		c := m.score(tx, tokens, o)
		if c.Excluded != "" {
			continue
		}

		ranked = append(ranked, c)
	}

	slices.SortStableFunc(ranked, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return a.Obligation.DueDate.Compare(b.Obligation.DueDate)
	})

	return ranked
}

// Best returns the top-ranked candidate, if any obligation passes the gates.
func (m *Matcher) Best(tx transaction.CreateParams, obligations []obligation.Obligation) (Candidate, bool) {
	ranked := m.Rank(tx, obligations)
	if len(ranked) == 0 {
		return Candidate{}, false
	}

	return ranked[0], true
}
