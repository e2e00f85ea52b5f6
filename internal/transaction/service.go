package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/dedupe"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	// ListExisting returns every non-deleted transaction dated within the import range.
	ListExisting(ctx context.Context) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams is a transaction draft as entered in the form or parsed from an import.
type CreateParams struct {
	Company        string
	Amount         int64
	Type           Type
	Status         Status
	Description    string
	RawDescription string
	Category       string
	Subcategory    string
	Date           time.Time
}

// Signed returns the draft amount in cents with outflows negative.
func (p CreateParams) Signed() int64 {
	return signed(p.Amount, p.Type)
}

// Record returns the duplicate-detection view of the draft.
func (p CreateParams) Record() dedupe.Record {
	return dedupe.Record{
		Company:     p.Company,
		Date:        p.Date,
		Description: p.Description,
		Amount:      p.Amount,
		Direction:   string(p.Type),
	}
}

type ListFilter struct {
	Company   *string
	Type      *Type
	Status    *Status
	Linked    *bool
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	status := params.Status
	if status == "" {
		status = StatusCommitted
	}

	tx := &Transaction{
		Company:        params.Company,
		Amount:         params.Amount,
		Type:           params.Type,
		Status:         status,
		Description:    params.Description,
		RawDescription: params.RawDescription,
		Category:       params.Category,
		Subcategory:    params.Subcategory,
		Date:           params.Date,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// FindDuplicate looks for a stored transaction sharing the draft's duplicate key.
// It returns uuid.Nil and false when there is none or the draft is incomplete.
func (s *Service) FindDuplicate(ctx context.Context, params CreateParams) (uuid.UUID, bool, error) {
	if _, ok := dedupe.KeyOf(params.Record()); !ok {
		return uuid.Nil, false, nil
	}

	day := time.Date(params.Date.Year(), params.Date.Month(), params.Date.Day(), 0, 0, 0, 0, time.UTC)
	end := day.Add(24*time.Hour - time.Second)

	existing, err := s.repo.ListTransactions(ctx, ListFilter{
		Company:   &params.Company,
		StartDate: &day,
		EndDate:   &end,
	})
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("listing same-day transactions: %w", err)
	}

	d := dedupe.NewDetector(records(existing))

	id, found := d.Contains(params.Record())
	if !found {
		return uuid.Nil, false, nil
	}

	dupID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("parsing duplicate id: %w", err)
	}

	return dupID, true, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Update saves edits to a draft. Committed transactions only change through
// their link, and a linked draft keeps the company, amount and type its
// settlement was computed from.
func (s *Service) Update(ctx context.Context, tx *Transaction) error {
	stored, err := s.repo.GetTransaction(ctx, tx.ID)
	if err != nil {
		return err
	}

	if stored.Status == StatusCommitted {
		return ErrImmutable
	}

	if stored.Linked() && (tx.Company != stored.Company || tx.Amount != stored.Amount || tx.Type != stored.Type) {
		return ErrLinked
	}

	return s.repo.UpdateTransaction(ctx, tx)
}

// UpdateStatus moves a transaction along draft -> committed. Committing is
// one-way.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	stored, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if stored.Status == status {
		return nil
	}

	if stored.Status == StatusCommitted {
		return ErrImmutable
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

// Conflict pairs an incoming row with the record it duplicates. Existing is nil
// when the collision is with another row of the same import; OtherRow then
// holds that row's 0-based index.
type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
	OtherRow int
}

func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	existing, err := itx.ListExisting(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing: %w", err)
	}

	byID := make(map[string]*Transaction, len(existing))
	for _, tx := range existing {
		byID[tx.ID.String()] = tx
	}

	batch := make([]dedupe.Record, len(params))
	for i, p := range params {
		batch[i] = p.Record()
	}

	dups := dedupe.FindDuplicates(batch, records(existing))

	flagged := make(map[int]dedupe.Duplicate, len(dups))
	for _, d := range dups {
		flagged[d.Index] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for i, p := range params {
		d, found := flagged[i]
		if !found {
			newParams = append(newParams, p)
			continue
		}

		c := Conflict{Incoming: p, OtherRow: d.OtherIndex}
		if !d.InBatch {
			c.Existing = byID[d.DuplicateOf]
		}

		conflicts = append(conflicts, c)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(newParams)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := paramsToTransactions(params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func records(txs []*Transaction) []dedupe.Record {
	out := make([]dedupe.Record, len(txs))
	for i, tx := range txs {
		out[i] = tx.Record()
	}

	return out
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		status := p.Status
		if status == "" {
			status = StatusDraft
		}

		txs[i] = &Transaction{
			Company:        p.Company,
			Amount:         p.Amount,
			Type:           p.Type,
			Status:         status,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Category:       p.Category,
			Subcategory:    p.Subcategory,
			Date:           p.Date,
		}
	}

	return txs
}
