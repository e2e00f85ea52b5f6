package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOf(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

func TestTimeframeToDateRange(t *testing.T) {
	thursday := time.Date(2026, time.October, 15, 14, 30, 0, 0, time.UTC)
	sunday := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		tf        Timeframe
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"ThisWeek", TimeframeThisWeek, thursday, day(2026, time.October, 12), endOf(2026, time.October, 15)},
		{"ThisWeekOnSunday", TimeframeThisWeek, sunday, day(2026, time.October, 12), endOf(2026, time.October, 18)},
		{"LastWeek", TimeframeLastWeek, thursday, day(2026, time.October, 5), endOf(2026, time.October, 11)},
		{"ThisMonth", TimeframeThisMonth, thursday, day(2026, time.October, 1), endOf(2026, time.October, 31)},
		{"LastMonth", TimeframeLastMonth, thursday, day(2026, time.September, 1), endOf(2026, time.September, 30)},
		{"LastMonthAcrossYear", TimeframeLastMonth, day(2026, time.January, 10), day(2025, time.December, 1), endOf(2025, time.December, 31)},
		{"ThisQuarter", TimeframeThisQuarter, thursday, day(2026, time.October, 1), endOf(2026, time.December, 31)},
		{"FirstQuarter", TimeframeThisQuarter, day(2026, time.March, 31), day(2026, time.January, 1), endOf(2026, time.March, 31)},
		{"ThisYear", TimeframeThisYear, thursday, day(2026, time.January, 1), endOf(2026, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := timeframeToDateRange(tt.tf, tt.now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestParseCustomRange(t *testing.T) {
	start, end, err := parseCustomRange("2026-01-01", "2026-03-31")
	require.NoError(t, err)
	assert.Equal(t, day(2026, time.January, 1), start)
	assert.Equal(t, endOf(2026, time.March, 31), end)

	_, _, err = parseCustomRange("2026-03-31", "2026-01-01")
	assert.ErrorIs(t, err, errInvertedRange)

	_, _, err = parseCustomRange("31/03/2026", "2026-04-01")
	assert.ErrorContains(t, err, "start date")

	_, _, err = parseCustomRange("2026-03-31", "")
	assert.ErrorContains(t, err, "end date")
}

func TestTimeframePicker_EmitsSelectedRange(t *testing.T) {
	p := NewTimeframePicker(TimeframeThisMonth)
	p.now = func() time.Time { return time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC) }

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(TimeframeSelectedMsg)
	require.True(t, ok)
	assert.False(t, msg.All)
	assert.Equal(t, day(2026, time.October, 1), msg.Start)
	assert.Equal(t, endOf(2026, time.December, 31), msg.End)
	assert.True(t, p.IsSelecting())
}

func TestTimeframePicker_StopsAtMinimum(t *testing.T) {
	p := NewTimeframePicker(TimeframeThisMonth)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, TimeframeThisMonth, p.selected)
}

func TestTimeframePicker_CustomRejectsInvertedRange(t *testing.T) {
	p := NewTimeframePicker(TimeframeCustom)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.False(t, p.IsSelecting())

	p.startInput.SetValue("2026-05-01")
	p.endInput.SetValue("2026-04-01")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.ErrorIs(t, p.err, errInvertedRange)

	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, p.IsSelecting())
	assert.NoError(t, p.err)
}

func TestNextListTimeframe(t *testing.T) {
	assert.Equal(t, TimeframeThisWeek, nextListTimeframe(TimeframeAll))
	assert.Equal(t, TimeframeThisYear, nextListTimeframe(TimeframeThisQuarter))
	assert.Equal(t, TimeframeAll, nextListTimeframe(TimeframeThisYear))
}
