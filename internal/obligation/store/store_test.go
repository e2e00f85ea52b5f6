package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

func TestUnmatchedLink(t *testing.T) {
	connErr := errors.New("connection reset")

	tests := []struct {
		name      string
		lookupErr error
		deleted   bool
		want      error
	}{
		{name: "StillLinked", want: obligation.ErrAlreadyLinked},
		{name: "SoftDeleted", deleted: true, want: transaction.ErrNotFound},
		{name: "Missing", lookupErr: sql.ErrNoRows, want: transaction.ErrNotFound},
		{name: "LookupFailed", lookupErr: connErr, want: connErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := unmatchedLink(tt.lookupErr, tt.deleted)
			assert.ErrorIs(t, err, tt.want)

			if tt.want != obligation.ErrAlreadyLinked {
				assert.NotErrorIs(t, err, obligation.ErrAlreadyLinked)
			}
		})
	}
}

func TestTableFor(t *testing.T) {
	assert.Equal(t, "deadlines", tableFor(obligation.KindDeadline).name)
	assert.Equal(t, "due_date", tableFor(obligation.KindDeadline).dateCol)
	assert.Equal(t, "income_forecasts", tableFor(obligation.KindIncomeForecast).name)
	assert.Equal(t, "expected_date", tableFor(obligation.KindExpenseForecast).dateCol)
}
