package dedupe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/dedupe"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func record(id string) dedupe.Record {
	return dedupe.Record{
		ID:          id,
		Company:     "LNC",
		Date:        date(2025, 3, 10),
		Description: "Pagamento fattura Alfa",
		Amount:      50000,
		Direction:   "expense",
	}
}

func TestDetector_Contains(t *testing.T) {
	type testCase struct {
		name    string
		mutate  func(r *dedupe.Record)
		wantDup bool
	}

	tests := []testCase{
		{
			name:    "SameKeyDifferentID",
			mutate:  func(r *dedupe.Record) {},
			wantDup: true,
		},
		{
			name:    "DescriptionCaseAndSpaces",
			mutate:  func(r *dedupe.Record) { r.Description = "  PAGAMENTO FATTURA ALFA " },
			wantDup: true,
		},
		{
			name:    "DifferentCompany",
			mutate:  func(r *dedupe.Record) { r.Company = "ACME" },
			wantDup: false,
		},
		{
			name:    "DifferentDirection",
			mutate:  func(r *dedupe.Record) { r.Direction = "income" },
			wantDup: false,
		},
		{
			name:    "DifferentAmount",
			mutate:  func(r *dedupe.Record) { r.Amount = 50001 },
			wantDup: false,
		},
		{
			name:    "DifferentDate",
			mutate:  func(r *dedupe.Record) { r.Date = date(2025, 3, 11) },
			wantDup: false,
		},
		{
			name:    "MissingDescriptionFailsOpen",
			mutate:  func(r *dedupe.Record) { r.Description = "  " },
			wantDup: false,
		},
		{
			name:    "MissingDateFailsOpen",
			mutate:  func(r *dedupe.Record) { r.Date = time.Time{} },
			wantDup: false,
		},
		{
			name:    "MissingCompanyFailsOpen",
			mutate:  func(r *dedupe.Record) { r.Company = "" },
			wantDup: false,
		},
		{
			name:    "MissingAmountFailsOpen",
			mutate:  func(r *dedupe.Record) { r.Amount = 0 },
			wantDup: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dedupe.NewDetector([]dedupe.Record{record("existing")})

			incoming := record("incoming")
			tt.mutate(&incoming)

			id, dup := d.Contains(incoming)
			assert.Equal(t, tt.wantDup, dup)

			if tt.wantDup {
				assert.Equal(t, "existing", id)
			}
		})
	}
}

func TestDetector_SameIDIsNotDuplicate(t *testing.T) {
	d := dedupe.NewDetector([]dedupe.Record{record("a")})

	_, dup := d.Contains(record("a"))
	assert.False(t, dup)
}

func TestDetector_CheckAddsToPool(t *testing.T) {
	d := dedupe.NewDetector(nil)

	first := record("")
	second := record("")

	_, dup := d.Check(first)
	assert.False(t, dup)

	id, dup := d.Check(second)
	assert.True(t, dup)
	assert.Equal(t, "row:1", id)
}

func TestFindDuplicates_InBatchPairFlagsBoth(t *testing.T) {
	batch := []dedupe.Record{record(""), record(""), {
		Company:     "LNC",
		Date:        date(2025, 3, 11),
		Description: "Canone affitto",
		Amount:      120000,
		Direction:   "expense",
	}}

	dups := dedupe.FindDuplicates(batch, nil)
	require.Len(t, dups, 2)

	assert.Equal(t, 0, dups[0].Index)
	assert.Equal(t, "row:2", dups[0].DuplicateOf)
	assert.True(t, dups[0].InBatch)
	assert.Equal(t, 1, dups[0].OtherIndex)

	assert.Equal(t, 1, dups[1].Index)
	assert.Equal(t, "row:1", dups[1].DuplicateOf)
	assert.True(t, dups[1].InBatch)
}

func TestFindDuplicates_ReimportAgainstStored(t *testing.T) {
	second := dedupe.Record{
		Company:     "LNC",
		Date:        date(2025, 3, 12),
		Description: "Canone affitto",
		Amount:      120000,
		Direction:   "expense",
	}

	stored := []dedupe.Record{record("tx-1"), second}
	stored[1].ID = "tx-2"

	batch := []dedupe.Record{record(""), second}

	dups := dedupe.FindDuplicates(batch, stored)
	require.Len(t, dups, 2)

	assert.Equal(t, "tx-1", dups[0].DuplicateOf)
	assert.False(t, dups[0].InBatch)
	assert.Equal(t, -1, dups[0].OtherIndex)
	assert.Equal(t, "tx-2", dups[1].DuplicateOf)
	assert.False(t, dups[1].InBatch)
}

func TestFindDuplicates_IncompleteRowsIgnored(t *testing.T) {
	incomplete := record("")
	incomplete.Description = ""

	dups := dedupe.FindDuplicates([]dedupe.Record{incomplete, incomplete}, nil)
	assert.Empty(t, dups)
}
