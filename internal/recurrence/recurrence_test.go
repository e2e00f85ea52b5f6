package recurrence_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/recurrence"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func pattern(interval recurrence.Interval, anchor time.Month, day int) recurrence.Pattern {
	return recurrence.Pattern{
		ID:           uuid.New(),
		Company:      "LNC",
		Description:  "Affitto ufficio",
		Amount:       90000,
		Type:         transaction.TypeExpense,
		Interval:     interval,
		EstimatedDay: day,
		AnchorMonth:  anchor,
		Category:     "rent",
		Status:       recurrence.StatusPending,
	}
}

func dates(drafts []obligation.Draft) []string {
	out := make([]string, len(drafts))
	for i, d := range drafts {
		out[i] = d.Date.Format(time.DateOnly)
	}

	return out
}

func TestExpand(t *testing.T) {
	type testCase struct {
		name      string
		pattern   recurrence.Pattern
		wantDates []string
	}

	tests := []testCase{
		{
			name:      "QuarterlyFromJanuary",
			pattern:   pattern(recurrence.Quarterly, time.January, 15),
			wantDates: []string{"2025-01-15", "2025-04-15", "2025-07-15", "2025-10-15"},
		},
		{
			name:      "QuarterlyFromApril",
			pattern:   pattern(recurrence.Quarterly, time.April, 15),
			wantDates: []string{"2025-04-15", "2025-07-15", "2025-10-15"},
		},
		{
			name:      "SemiannualFromSeptember",
			pattern:   pattern(recurrence.Semiannual, time.September, 1),
			wantDates: []string{"2025-09-01"},
		},
		{
			name:      "AnnualFromDecember",
			pattern:   pattern(recurrence.Annual, time.December, 31),
			wantDates: []string{"2025-12-31"},
		},
		{
			name:      "BimonthlyFromFebruary",
			pattern:   pattern(recurrence.Bimonthly, time.February, 10),
			wantDates: []string{"2025-02-10", "2025-04-10", "2025-06-10", "2025-08-10", "2025-10-10", "2025-12-10"},
		},
		{
			name:      "FourMonthlyFromMarch",
			pattern:   pattern(recurrence.FourMonthly, time.March, 5),
			wantDates: []string{"2025-03-05", "2025-07-05", "2025-11-05"},
		},
		{
			name:    "MonthlyDayClampedToMonthEnd",
			pattern: pattern(recurrence.Monthly, time.January, 31),
			wantDates: []string{
				"2025-01-31", "2025-02-28", "2025-03-31", "2025-04-30", "2025-05-31", "2025-06-30",
				"2025-07-31", "2025-08-31", "2025-09-30", "2025-10-31", "2025-11-30", "2025-12-31",
			},
		},
		{
			name:      "MonthlyFromNovember",
			pattern:   pattern(recurrence.Monthly, time.November, 0),
			wantDates: []string{"2025-11-01", "2025-12-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := recurrence.Expand(tt.pattern, 2025)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDates, dates(got))

			for _, d := range got {
				assert.Equal(t, 2025, d.Date.Year())
				assert.Equal(t, "LNC", d.Company)
				assert.Equal(t, "rent", d.Category)
				assert.Equal(t, int64(90000), d.Amount)
				assert.Equal(t, obligation.KindExpenseForecast, d.Kind)
				require.NotNil(t, d.PatternID)
				assert.Equal(t, tt.pattern.ID, *d.PatternID)
			}
		})
	}
}

func TestExpand_Descriptions(t *testing.T) {
	got, err := recurrence.Expand(pattern(recurrence.Quarterly, time.January, 15), 2025)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, "Affitto ufficio Q1 2025", got[0].Description)
	assert.Equal(t, "Affitto ufficio Q4 2025", got[3].Description)
}

func TestExpand_IncomeVariable(t *testing.T) {
	p := pattern(recurrence.Annual, time.June, 30)
	p.Type = transaction.TypeIncome
	p.Variable = true

	got, err := recurrence.Expand(p, 2026)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, obligation.KindIncomeForecast, got[0].Kind)
	assert.True(t, got[0].Estimated)
}

func TestExpand_Invalid(t *testing.T) {
	_, err := recurrence.Expand(pattern("weekly", time.January, 1), 2025)
	assert.ErrorIs(t, err, recurrence.ErrUnknownInterval)

	_, err = recurrence.Expand(pattern(recurrence.Monthly, 13, 1), 2025)
	assert.ErrorIs(t, err, recurrence.ErrInvalidPattern)
}

func TestExpandAll(t *testing.T) {
	patterns := []recurrence.Pattern{
		pattern(recurrence.Quarterly, time.January, 15),
		pattern("fortnightly", time.January, 1),
		pattern(recurrence.Annual, time.March, 1),
	}

	got := recurrence.ExpandAll(patterns, 2025)
	require.Len(t, got, 3)

	assert.Len(t, got[0].Drafts, 4)
	assert.NoError(t, got[0].Err)
	assert.Empty(t, got[1].Drafts)
	assert.ErrorIs(t, got[1].Err, recurrence.ErrUnknownInterval)
	assert.Len(t, got[2].Drafts, 1)
}

func TestPeriodLabel(t *testing.T) {
	type testCase struct {
		interval recurrence.Interval
		date     time.Time
		want     string
	}

	tests := []testCase{
		{recurrence.Monthly, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "March 2025"},
		{recurrence.Quarterly, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), "Q2 2025"},
		{recurrence.Semiannual, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "H2 2025"},
		{recurrence.Annual, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2025"},
		{recurrence.Bimonthly, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "Mar-Apr 2025"},
		{recurrence.FourMonthly, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), "Nov-Dec 2025"},
	}

	for _, tt := range tests {
		t.Run(string(tt.interval), func(t *testing.T) {
			assert.Equal(t, tt.want, recurrence.PeriodLabel(tt.interval, tt.date))
		})
	}
}
