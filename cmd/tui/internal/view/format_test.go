package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{5, "0,05"},
		{123456, "1.234,56"},
		{100000000, "1.000.000,00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(tt.cents))
		})
	}
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "-12,50", FormatSigned(1250, transaction.TypeExpense))
	assert.Equal(t, "+12,50", FormatSigned(1250, transaction.TypeIncome))
}

func TestFormatAge(t *testing.T) {
	assert.Empty(t, FormatAge(time.Time{}))
	assert.Equal(t, "3 days ago", FormatAge(time.Now().Add(-72*time.Hour)))
}

func TestNormalizeDateRange(t *testing.T) {
	start, end := normalizeDateRange(
		time.Date(2025, 3, 1, 15, 4, 5, 0, time.UTC),
		time.Date(2025, 3, 31, 1, 0, 0, 0, time.UTC),
	)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC), end)
}

func TestAwaitsConfirmation(t *testing.T) {
	ref := &obligation.Ref{Kind: obligation.KindDeadline}

	tests := []struct {
		name     string
		decision reconcile.Decision
		want     bool
	}{
		{"Pending", reconcile.Decision{State: reconcile.StatePendingConfirmation, Ref: ref}, true},
		{"AutoLinked", reconcile.Decision{State: reconcile.StateAutoLinked, Ref: ref}, true},
		{"Unlinked", reconcile.Decision{State: reconcile.StateUnlinked}, false},
		{"LinkedByChoice", reconcile.Decision{State: reconcile.StateLinked, Ref: ref}, false},
		{"PendingWithoutRef", reconcile.Decision{State: reconcile.StatePendingConfirmation}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, awaitsConfirmation(tt.decision))
		})
	}
}
