package view

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount stored as cents the way the bank statements
// print it, e.g. 1.234,56.
func FormatAmount(cents int64) string {
	return humanize.FormatFloat("#.###,##", float64(cents)/100.0)
}

// FormatSigned prefixes outflows with a minus sign.
func FormatSigned(cents int64, t transaction.Type) string {
	if t == transaction.TypeExpense {
		return "-" + FormatAmount(cents)
	}

	return "+" + FormatAmount(cents)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatAge renders how long ago t was, e.g. "3 days ago".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return humanize.Time(t)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
