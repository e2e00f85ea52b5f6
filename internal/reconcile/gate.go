package reconcile

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

var ErrInvalidTransition = errors.New("invalid confirmation transition")

// State is where a transaction stands in the link confirmation flow.
type State string

const (
	StateScoring             State = "scoring"
	StateAutoLinked          State = "auto_linked"
	StatePendingConfirmation State = "pending_confirmation"
	StateLinked              State = "linked"
	StateUnlinked            State = "unlinked"
)

// Decision is the Gate's verdict for one transaction.
type Decision struct {
	State     State
	Candidate *Candidate
	Ref       *obligation.Ref
	// OverduePriority marks a confirmation prompt whose obligation was due
	// before the transaction date.
	OverduePriority bool
}

// Gate turns the best candidate's score into a Decision.
type Gate struct {
	thresholds Thresholds
}

func NewGate(t Thresholds) *Gate {
	return &Gate{thresholds: t}
}

// Preview is the live check run while a transaction is being drafted. Only a
// candidate above the auto-link threshold is pre-selected.
func (g *Gate) Preview(best *Candidate) Decision {
	if best == nil || best.Score <= g.thresholds.AutoLink {
		return Decision{State: StateUnlinked}
	}

	return Decision{State: StateAutoLinked, Candidate: best, Ref: refOf(best)}
}

// Submit decides what happens when the transaction is saved. An explicit
// choice by the user always wins; otherwise a candidate above the confirmation
// threshold must be accepted or declined.
func (g *Gate) Submit(tx transaction.CreateParams, best *Candidate, choice *obligation.Ref) Decision {
	if choice != nil {
		return Decision{State: StateLinked, Ref: choice}
	}

	if best == nil || best.Score <= g.thresholds.Confirm {
		return Decision{State: StateUnlinked}
	}

	return Decision{
		State:           StatePendingConfirmation,
		Candidate:       best,
		Ref:             refOf(best),
		OverduePriority: DaysLate(tx.Date, best.Obligation.DueDate) > 0,
	}
}

func refOf(c *Candidate) *obligation.Ref {
	ref := c.Ref()
	return &ref
}

// Confirmation tracks one transaction through the link flow.
//
//	Scoring -> AutoLinked | PendingConfirmation | Unlinked
//	AutoLinked | PendingConfirmation -> Linked   (Accept)
//	AutoLinked | PendingConfirmation -> Unlinked (Decline)
//	Linked | Unlinked -> Scoring                 (Reopen)
type Confirmation struct {
	State State
	Ref   *obligation.Ref
}

// NewConfirmation starts the flow from a Gate decision.
func NewConfirmation(d Decision) *Confirmation {
	return &Confirmation{State: d.State, Ref: d.Ref}
}

func (c *Confirmation) Accept() error {
	if err := c.expect(StatePendingConfirmation, StateAutoLinked); err != nil {
		return err
	}

	c.State = StateLinked

	return nil
}

func (c *Confirmation) Decline() error {
	if err := c.expect(StatePendingConfirmation, StateAutoLinked); err != nil {
		return err
	}

	c.State = StateUnlinked
	c.Ref = nil

	return nil
}

// Reopen lets the user edit the link field of a settled decision again.
func (c *Confirmation) Reopen() error {
	if err := c.expect(StateLinked, StateUnlinked); err != nil {
		return err
	}

	c.State = StateScoring
	c.Ref = nil

	return nil
}

func (c *Confirmation) expect(states ...State) error {
	for _, s := range states {
		if c.State == s {
			return nil
		}
	}

	return fmt.Errorf("%w: from %s", ErrInvalidTransition, c.State)
}
