package reconcile_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
)

func candidate(score float64) *reconcile.Candidate {
	o := deadline(day(2025, 3, 1), 50000, "Fattura Alfa Srl")
	return &reconcile.Candidate{Obligation: o, Score: score}
}

func TestGate_Preview(t *testing.T) {
	type testCase struct {
		name string
		best *reconcile.Candidate
		want reconcile.State
	}

	tests := []testCase{
		{name: "NoCandidate", best: nil, want: reconcile.StateUnlinked},
		{name: "AtThreshold", best: candidate(80), want: reconcile.StateUnlinked},
		{name: "AboveThreshold", best: candidate(80.1), want: reconcile.StateAutoLinked},
	}

	g := reconcile.NewGate(reconcile.DefaultThresholds())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Preview(tt.best)
			assert.Equal(t, tt.want, got.State)

			if tt.want == reconcile.StateAutoLinked {
				require.NotNil(t, got.Ref)
				assert.Equal(t, tt.best.Obligation.Ref(), *got.Ref)
			}
		})
	}
}

func TestGate_Submit(t *testing.T) {
	g := reconcile.NewGate(reconcile.DefaultThresholds())

	t.Run("ExplicitChoiceWins", func(t *testing.T) {
		choice := obligation.Ref{Kind: obligation.KindIncomeForecast, ID: uuid.New()}

		got := g.Submit(draft(), candidate(900), &choice)
		assert.Equal(t, reconcile.StateLinked, got.State)
		assert.Equal(t, &choice, got.Ref)
	})

	t.Run("OverdueNeedsConfirmation", func(t *testing.T) {
		got := g.Submit(draft(), candidate(1124.7), nil)
		assert.Equal(t, reconcile.StatePendingConfirmation, got.State)
		assert.True(t, got.OverduePriority)
	})

	t.Run("SameDayIsNotOverduePriority", func(t *testing.T) {
		tx := draft()
		tx.Date = day(2025, 3, 1)

		got := g.Submit(tx, candidate(1100), nil)
		assert.Equal(t, reconcile.StatePendingConfirmation, got.State)
		assert.False(t, got.OverduePriority)
	})

	t.Run("BelowConfirm", func(t *testing.T) {
		got := g.Submit(draft(), candidate(480.9), nil)
		assert.Equal(t, reconcile.StateUnlinked, got.State)
		assert.Nil(t, got.Ref)
	})

	t.Run("NoCandidate", func(t *testing.T) {
		assert.Equal(t, reconcile.StateUnlinked, g.Submit(draft(), nil, nil).State)
	})

	t.Run("NeverAutoLinks", func(t *testing.T) {
		for _, score := range []float64{80.1, 250, 500, 500.1, 1124.7} {
			assert.NotEqual(t, reconcile.StateAutoLinked, g.Submit(draft(), candidate(score), nil).State, score)
		}
	})
}

func TestConfirmation(t *testing.T) {
	ref := obligation.Ref{Kind: obligation.KindDeadline, ID: uuid.New()}
	pending := reconcile.Decision{State: reconcile.StatePendingConfirmation, Ref: &ref}

	t.Run("Accept", func(t *testing.T) {
		c := reconcile.NewConfirmation(pending)
		require.NoError(t, c.Accept())
		assert.Equal(t, reconcile.StateLinked, c.State)
		assert.Equal(t, &ref, c.Ref)

		assert.ErrorIs(t, c.Accept(), reconcile.ErrInvalidTransition)
		assert.ErrorIs(t, c.Decline(), reconcile.ErrInvalidTransition)
	})

	t.Run("Decline", func(t *testing.T) {
		c := reconcile.NewConfirmation(pending)
		require.NoError(t, c.Decline())
		assert.Equal(t, reconcile.StateUnlinked, c.State)
		assert.Nil(t, c.Ref)
	})

	t.Run("Reopen", func(t *testing.T) {
		c := reconcile.NewConfirmation(pending)
		assert.ErrorIs(t, c.Reopen(), reconcile.ErrInvalidTransition)

		require.NoError(t, c.Accept())
		require.NoError(t, c.Reopen())
		assert.Equal(t, reconcile.StateScoring, c.State)
		assert.Nil(t, c.Ref)
	})

	t.Run("AutoLinkedCanBeAccepted", func(t *testing.T) {
		c := reconcile.NewConfirmation(reconcile.Decision{State: reconcile.StateAutoLinked, Ref: &ref})
		require.NoError(t, c.Accept())
		assert.Equal(t, reconcile.StateLinked, c.State)
	})
}
