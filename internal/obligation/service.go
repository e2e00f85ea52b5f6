package obligation

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/dedupe"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=obligation
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Record, error)
	Get(ctx context.Context, ref Ref) (*Record, error)
	CreateForecasts(ctx context.Context, drafts []Draft) ([]Ref, error)

	// ApplyLink sets the transaction's reference and the obligation's
	// settlement in a single database transaction.
	ApplyLink(ctx context.Context, link Link) error
	// ClearLink removes the transaction's reference and, when Ref is set,
	// restores the obligation's settlement in a single database transaction.
	ClearLink(ctx context.Context, link Link) error
	// Delete removes the obligation and clears every transaction reference to it.
	Delete(ctx context.Context, ref Ref) error
}

// Filter narrows a listing. Zero values mean "any".
type Filter struct {
	Company  *string
	Kinds    []Kind
	OpenOnly bool
}

// Link is a transaction-obligation pairing together with the resulting settlement.
type Link struct {
	TransactionID uuid.UUID
	Ref           *Ref
	Settlement    Settlement
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListOpen returns open obligations of company settled by transactions of direction t.
func (s *Service) ListOpen(ctx context.Context, company string, t transaction.Type) ([]Obligation, error) {
	records, err := s.repo.List(ctx, Filter{
		Company:  &company,
		Kinds:    KindsFor(t),
		OpenOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("listing open obligations: %w", err)
	}

	return project(records, func(o Obligation) bool {
		return o.Status.Open() && o.Company == company && o.Direction() == t
	}), nil
}

// List returns the projection of every obligation matching filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]Obligation, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing obligations: %w", err)
	}

	return project(records, nil), nil
}

func (s *Service) Get(ctx context.Context, ref Ref) (Obligation, error) {
	rec, err := s.repo.Get(ctx, ref)
	if err != nil {
		return Obligation{}, err
	}

	o, ok := rec.Project()
	if !ok {
		return Obligation{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}

	return o, nil
}

// Link settles the obligation at ref with tx. A transaction settles at most one
// obligation, and only one of its own company and flow direction.
func (s *Service) Link(ctx context.Context, tx *transaction.Transaction, ref Ref) (Settlement, error) {
	if tx.Linked() {
		return Settlement{}, ErrAlreadyLinked
	}

	o, err := s.Get(ctx, ref)
	if err != nil {
		return Settlement{}, err
	}

	if o.Company != tx.Company || o.Direction() != tx.Type {
		return Settlement{}, ErrMismatch
	}

	if !o.Status.Open() {
		return Settlement{}, ErrNotSettleable
	}

	settlement := Settle(o, tx.Amount)

	if err := s.repo.ApplyLink(ctx, Link{TransactionID: tx.ID, Ref: &ref, Settlement: settlement}); err != nil {
		return Settlement{}, fmt.Errorf("applying link: %w", err)
	}

	refStr := ref.String()
	tx.ObligationRef = &refStr

	return settlement, nil
}

// Unlink reopens tx's obligation link. If the obligation still exists its
// outstanding amount is restored.
func (s *Service) Unlink(ctx context.Context, tx *transaction.Transaction) error {
	if !tx.Linked() {
		return ErrNotLinked
	}

	link := Link{TransactionID: tx.ID}

	ref, err := ParseRef(*tx.ObligationRef)
	if err == nil {
		o, getErr := s.Get(ctx, ref)
		switch {
		case getErr == nil:
			link.Ref = &ref
			link.Settlement = Unsettle(o, tx.Amount)
		case !isNotFound(getErr):
			return getErr
		}
	}

	if err := s.repo.ClearLink(ctx, link); err != nil {
		return fmt.Errorf("clearing link: %w", err)
	}

	tx.ObligationRef = nil

	return nil
}

func (s *Service) Delete(ctx context.Context, ref Ref) error {
	return s.repo.Delete(ctx, ref)
}

// CommitResult reports which drafts were stored and which were skipped as duplicates.
type CommitResult struct {
	Created    []Ref
	Duplicates []DraftDuplicate
}

// DraftDuplicate is a draft that collided with a stored obligation.
type DraftDuplicate struct {
	Draft       Draft
	DuplicateOf string
}

// CommitDrafts stores drafts as forecasts, skipping any that duplicate an
// existing obligation of the same company.
func (s *Service) CommitDrafts(ctx context.Context, drafts []Draft) (*CommitResult, error) {
	result := &CommitResult{}
	if len(drafts) == 0 {
		return result, nil
	}

	var companies []string

	for _, d := range drafts {
		if !slices.Contains(companies, d.Company) {
			companies = append(companies, d.Company)
		}
	}

	var existing []dedupe.Record

	for _, c := range companies {
		records, err := s.repo.List(ctx, Filter{Company: &c})
		if err != nil {
			return nil, fmt.Errorf("listing obligations of %s: %w", c, err)
		}

		for _, o := range project(records, nil) {
			existing = append(existing, o.DedupeRecord())
		}
	}

	detector := dedupe.NewDetector(existing)

	var fresh []Draft

	for _, d := range drafts {
		if id, dup := detector.Check(d.Record()); dup {
			result.Duplicates = append(result.Duplicates, DraftDuplicate{Draft: d, DuplicateOf: id})
			continue
		}

		fresh = append(fresh, d)
	}

	if len(fresh) == 0 {
		return result, nil
	}

	refs, err := s.repo.CreateForecasts(ctx, fresh)
	if err != nil {
		return nil, fmt.Errorf("creating forecasts: %w", err)
	}

	result.Created = refs

	return result, nil
}

func project(records []Record, keep func(Obligation) bool) []Obligation {
	out := make([]Obligation, 0, len(records))

	for _, r := range records {
		o, ok := r.Project()
		if !ok {
			continue
		}

		if keep != nil && !keep(o) {
			continue
		}

		out = append(out, o)
	}

	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
