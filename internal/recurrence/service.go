package recurrence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=recurrence
type Repository interface {
	CreatePattern(ctx context.Context, p *Pattern) error
	GetPattern(ctx context.Context, id uuid.UUID) (*Pattern, error)
	ListPatterns(ctx context.Context, status *Status) ([]*Pattern, error)
	// TransitionStatus moves the pattern from one status to another and
	// returns ErrNotPending if it is no longer in from.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status) error
}

// DraftCommitter stores forecast drafts, skipping duplicates of existing obligations.
type DraftCommitter interface {
	CommitDrafts(ctx context.Context, drafts []obligation.Draft) (*obligation.CommitResult, error)
}

type Service struct {
	repo      Repository
	committer DraftCommitter
}

func NewService(repo Repository, committer DraftCommitter) *Service {
	return &Service{repo: repo, committer: committer}
}

// Create records a newly detected pattern as pending.
func (s *Service) Create(ctx context.Context, p *Pattern) error {
	if p.Interval.Step() == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownInterval, p.Interval)
	}

	p.Status = StatusPending

	if err := s.repo.CreatePattern(ctx, p); err != nil {
		return fmt.Errorf("creating pattern: %w", err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Pattern, error) {
	return s.repo.GetPattern(ctx, id)
}

func (s *Service) List(ctx context.Context, status *Status) ([]*Pattern, error) {
	return s.repo.ListPatterns(ctx, status)
}

// AcceptResult reports what accepting one pattern produced.
type AcceptResult struct {
	Pattern    *Pattern
	Created    []obligation.Ref
	Duplicates []obligation.DraftDuplicate
}

// Accept expands a pending pattern for year, commits the drafts and marks the
// pattern accepted. A pattern that cannot be expanded stays pending.
func (s *Service) Accept(ctx context.Context, id uuid.UUID, year int) (*AcceptResult, error) {
	p, err := s.repo.GetPattern(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status != StatusPending {
		return nil, ErrNotPending
	}

	return s.accept(ctx, p, year)
}

func (s *Service) accept(ctx context.Context, p *Pattern, year int) (*AcceptResult, error) {
	drafts, err := Expand(*p, year)
	if err != nil {
		return nil, err
	}

	committed, err := s.committer.CommitDrafts(ctx, drafts)
	if err != nil {
		return nil, fmt.Errorf("committing drafts: %w", err)
	}

	// Drafts are already stored; retrying after a failure here only finds duplicates.
	if err := s.repo.TransitionStatus(ctx, p.ID, StatusPending, StatusAccepted); err != nil {
		return nil, fmt.Errorf("marking pattern accepted: %w", err)
	}

	p.Status = StatusAccepted

	return &AcceptResult{Pattern: p, Created: committed.Created, Duplicates: committed.Duplicates}, nil
}

func (s *Service) Reject(ctx context.Context, id uuid.UUID) error {
	return s.repo.TransitionStatus(ctx, id, StatusPending, StatusRejected)
}

// Failure is a pattern a run could not accept.
type Failure struct {
	Pattern *Pattern
	Err     error
}

type RunResult struct {
	Accepted []*AcceptResult
	Failed   []Failure
}

// AcceptPending accepts every pending pattern for year. A failing pattern is
// logged and reported; the others are still accepted.
func (s *Service) AcceptPending(ctx context.Context, year int) (*RunResult, error) {
	pending := StatusPending

	patterns, err := s.repo.ListPatterns(ctx, &pending)
	if err != nil {
		return nil, fmt.Errorf("listing pending patterns: %w", err)
	}

	result := &RunResult{}

	for _, p := range patterns {
		res, err := s.accept(ctx, p, year)
		if err != nil {
			slog.Warn("skipping recurrence pattern", "pattern_id", p.ID, "interval", p.Interval, "error", err)
			result.Failed = append(result.Failed, Failure{Pattern: p, Err: err})

			continue
		}

		result.Accepted = append(result.Accepted, res)
	}

	return result, nil
}
