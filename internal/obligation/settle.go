package obligation

// Settlement is the state an obligation moves to when a transaction is linked or unlinked.
type Settlement struct {
	Outstanding int64
	Status      Status
}

// Settle applies a payment of amount cents to o. The outstanding amount never
// drops below zero.
func Settle(o Obligation, amount int64) Settlement {
	left := max(o.Outstanding-abs(amount), 0)
	if left == 0 {
		return Settlement{Outstanding: 0, Status: StatusSettled}
	}

	return Settlement{Outstanding: left, Status: StatusPartiallySettled}
}

// Unsettle reverses a payment of amount cents, capped at the obligation's full
// amount. A cancelled obligation gets its outstanding amount back but stays
// cancelled.
func Unsettle(o Obligation, amount int64) Settlement {
	left := o.Outstanding + abs(amount)
	if o.Amount > 0 {
		left = min(left, o.Amount)
	}

	if o.Status == StatusCancelled {
		return Settlement{Outstanding: left, Status: StatusCancelled}
	}

	if left >= o.Amount {
		return Settlement{Outstanding: left, Status: StatusOpen}
	}

	return Settlement{Outstanding: left, Status: StatusPartiallySettled}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
