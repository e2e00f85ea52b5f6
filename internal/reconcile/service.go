package reconcile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=reconcile
type ObligationSource interface {
	ListOpen(ctx context.Context, company string, t transaction.Type) ([]obligation.Obligation, error)
}

type Linker interface {
	Link(ctx context.Context, tx *transaction.Transaction, ref obligation.Ref) (obligation.Settlement, error)
	Unlink(ctx context.Context, tx *transaction.Transaction) error
}

type TransactionGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
}

// Proposal is the outcome of matching one transaction draft.
type Proposal struct {
	Decision   Decision
	Candidates []Candidate
}

type Service struct {
	obligations  ObligationSource
	linker       Linker
	transactions TransactionGetter

	interactive *Matcher
	batch       *Matcher
	gate        *Gate
}

func NewService(obligations ObligationSource, linker Linker, transactions TransactionGetter, w Weights, t Thresholds) *Service {
	return &Service{
		obligations:  obligations,
		linker:       linker,
		transactions: transactions,
		interactive:  NewMatcher(w),
		batch:        NewMatcher(w, WithBonuses()),
		gate:         NewGate(t),
	}
}

// Preview returns the live suggestion for a draft being typed.
func (s *Service) Preview(ctx context.Context, tx transaction.CreateParams) (Proposal, error) {
	open, err := s.obligations.ListOpen(ctx, tx.Company, tx.Type)
	if err != nil {
		return Proposal{}, fmt.Errorf("loading obligations: %w", err)
	}

	ranked := s.interactive.Rank(tx, open)

	return Proposal{Decision: s.gate.Preview(top(ranked)), Candidates: ranked}, nil
}

// Propose runs the submit stage for one draft. choice is the obligation the
// user picked explicitly, if any.
func (s *Service) Propose(ctx context.Context, tx transaction.CreateParams, choice *obligation.Ref) (Proposal, error) {
	open, err := s.obligations.ListOpen(ctx, tx.Company, tx.Type)
	if err != nil {
		return Proposal{}, fmt.Errorf("loading obligations: %w", err)
	}

	ranked := s.interactive.Rank(tx, open)

	return Proposal{Decision: s.gate.Submit(tx, top(ranked), choice), Candidates: ranked}, nil
}

// ProposeBatch matches imported rows with the bonus terms enabled. Open
// obligations are loaded once per company and direction.
func (s *Service) ProposeBatch(ctx context.Context, txs []transaction.CreateParams) ([]Proposal, error) {
	type poolKey struct {
		company string
		typ     transaction.Type
	}

	pools := make(map[poolKey][]obligation.Obligation)
	proposals := make([]Proposal, len(txs))

	for i, tx := range txs {
		k := poolKey{company: tx.Company, typ: tx.Type}

		open, ok := pools[k]
		if !ok {
			var err error

			open, err = s.obligations.ListOpen(ctx, tx.Company, tx.Type)
			if err != nil {
				return nil, fmt.Errorf("loading obligations for %s: %w", tx.Company, err)
			}

			pools[k] = open
		}

		ranked := s.batch.Rank(tx, open)
		proposals[i] = Proposal{Decision: s.gate.Submit(tx, top(ranked), nil), Candidates: ranked}
	}

	return proposals, nil
}

// Accept applies a confirmed link for a stored transaction.
func (s *Service) Accept(ctx context.Context, txID uuid.UUID, ref obligation.Ref) (*transaction.Transaction, obligation.Settlement, error) {
	tx, err := s.transactions.Get(ctx, txID)
	if err != nil {
		return nil, obligation.Settlement{}, err
	}

	settlement, err := s.linker.Link(ctx, tx, ref)
	if err != nil {
		return nil, obligation.Settlement{}, err
	}

	return tx, settlement, nil
}

// Reopen clears a transaction's link so it can be matched again.
func (s *Service) Reopen(ctx context.Context, txID uuid.UUID) (*transaction.Transaction, error) {
	tx, err := s.transactions.Get(ctx, txID)
	if err != nil {
		return nil, err
	}

	if err := s.linker.Unlink(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func top(ranked []Candidate) *Candidate {
	if len(ranked) == 0 {
		return nil
	}

	return &ranked[0]
}
