package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// table holds the per-kind schema differences. Each kind lives in the table
// named after its collection tag.
type table struct {
	name    string
	dateCol string
	extra   string // kind-specific columns, selected after the common ones
}

func tableFor(k obligation.Kind) table {
	if k == obligation.KindDeadline {
		return table{name: k.Collection(), dateCol: "due_date", extra: "reference"}
	}

	return table{name: k.Collection(), dateCol: "expected_date", extra: "estimated, pattern_id"}
}

func (t table) selectColumns() string {
	return "id, company, description, category, subcategory, " + t.dateCol + ", amount, outstanding, status, " + t.extra
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(k obligation.Kind, s scanner) (*obligation.Record, error) {
	var (
		f                     obligation.Forecast
		category, subcategory sql.NullString
		status                string
	)

	dest := []any{&f.ID, &f.Company, &f.Description, &category, &subcategory, &f.ExpectedDate, &f.Amount, &f.Outstanding, &status}

	var (
		reference sql.NullString
		patternID uuid.NullUUID
	)

	if k == obligation.KindDeadline {
		dest = append(dest, &reference)
	} else {
		dest = append(dest, &f.Estimated, &patternID)
	}

	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	f.Category = category.String
	f.Subcategory = subcategory.String
	f.Status = obligation.Status(status)

	if patternID.Valid {
		f.PatternID = &patternID.UUID
	}

	rec := &obligation.Record{Kind: k}

	switch k {
	case obligation.KindDeadline:
		rec.Deadline = &obligation.Deadline{
			ID:          f.ID,
			Company:     f.Company,
			Description: f.Description,
			Reference:   reference.String,
			Category:    f.Category,
			Subcategory: f.Subcategory,
			DueDate:     f.ExpectedDate,
			Amount:      f.Amount,
			Outstanding: f.Outstanding,
			Status:      f.Status,
		}
	case obligation.KindExpenseForecast:
		e := obligation.ExpenseForecast(f)
		rec.Expense = &e
	case obligation.KindIncomeForecast:
		i := obligation.IncomeForecast(f)
		rec.Income = &i
	}

	return rec, nil
}

func (s *Store) List(ctx context.Context, filter obligation.Filter) ([]obligation.Record, error) {
	kinds := filter.Kinds
	if len(kinds) == 0 {
		kinds = obligation.Kinds
	}

	var records []obligation.Record

	for _, k := range kinds {
		recs, err := s.listKind(ctx, k, filter)
		if err != nil {
			return nil, err
		}

		records = append(records, recs...)
	}

	return records, nil
}

func (s *Store) listKind(ctx context.Context, k obligation.Kind, filter obligation.Filter) ([]obligation.Record, error) {
	t := tableFor(k)
	query := `SELECT ` + t.selectColumns() + ` FROM ` + t.name + ` WHERE 1 = 1`

	var args []any

	if filter.Company != nil {
		args = append(args, *filter.Company)
		query += fmt.Sprintf(" AND company = $%d", len(args))
	}

	if filter.OpenOnly {
		query += fmt.Sprintf(" AND status IN ('%s', '%s')", obligation.StatusOpen, obligation.StatusPartiallySettled)
	}

	query += " ORDER BY " + t.dateCol + " ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.name, err)
	}
	defer rows.Close()

	var records []obligation.Record

	for rows.Next() {
		rec, err := scanRecord(k, rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.name, err)
		}

		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", t.name, err)
	}

	return records, nil
}

func (s *Store) Get(ctx context.Context, ref obligation.Ref) (*obligation.Record, error) {
	t := tableFor(ref.Kind)
	query := `SELECT ` + t.selectColumns() + ` FROM ` + t.name + ` WHERE id = $1`

	rec, err := scanRecord(ref.Kind, s.db.QueryRowContext(ctx, query, ref.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, obligation.ErrNotFound
		}

		return nil, fmt.Errorf("getting %s: %w", ref, err)
	}

	return rec, nil
}

// CreateForecasts inserts every draft in one database transaction.
func (s *Store) CreateForecasts(ctx context.Context, drafts []obligation.Draft) ([]obligation.Ref, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning tx: %w", err)
	}
	defer dbTx.Rollback()

	refs := make([]obligation.Ref, 0, len(drafts))

	for _, d := range drafts {
		if d.Kind == obligation.KindDeadline {
			return nil, fmt.Errorf("creating forecast: kind %q is not a forecast", d.Kind)
		}

		t := tableFor(d.Kind)
		query := `INSERT INTO ` + t.name + ` (company, description, category, subcategory, expected_date, amount, outstanding, estimated, pattern_id, status)
			VALUES ($1, $2, $3, $4, $5, $6, $6, $7, $8, $9)
			RETURNING id`

		var patternID uuid.NullUUID
		if d.PatternID != nil {
			patternID = uuid.NullUUID{UUID: *d.PatternID, Valid: true}
		}

		ref := obligation.Ref{Kind: d.Kind}

		if err := dbTx.QueryRowContext(ctx, query,
			d.Company,
			d.Description,
			nullString(d.Category),
			nullString(d.Subcategory),
			d.Date,
			d.Amount,
			d.Estimated,
			patternID,
			obligation.StatusOpen,
		).Scan(&ref.ID); err != nil {
			return nil, fmt.Errorf("inserting into %s: %w", t.name, err)
		}

		refs = append(refs, ref)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing forecasts: %w", err)
	}

	return refs, nil
}

// ApplyLink writes the transaction reference and the obligation settlement atomically.
func (s *Store) ApplyLink(ctx context.Context, link obligation.Link) error {
	if link.Ref == nil {
		return fmt.Errorf("applying link: %w", obligation.ErrInvalidRef)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx, `
		UPDATE transactions
		SET obligation_ref = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL AND obligation_ref IS NULL`,
		link.Ref.String(), link.TransactionID,
	)
	if err != nil {
		return fmt.Errorf("setting obligation ref: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		var deleted bool

		err := dbTx.QueryRowContext(ctx,
			`SELECT deleted_at IS NOT NULL FROM transactions WHERE id = $1`,
			link.TransactionID,
		).Scan(&deleted)

		return unmatchedLink(err, deleted)
	}

	if err := updateSettlement(ctx, dbTx, *link.Ref, link.Settlement); err != nil {
		return err
	}

	return dbTx.Commit()
}

// unmatchedLink explains why setting the reference matched no row, given the
// lookup of the transaction's deletion marker.
func unmatchedLink(lookupErr error, deleted bool) error {
	switch {
	case errors.Is(lookupErr, sql.ErrNoRows):
		return transaction.ErrNotFound
	case lookupErr != nil:
		return fmt.Errorf("checking transaction: %w", lookupErr)
	case deleted:
		return transaction.ErrNotFound
	}

	return obligation.ErrAlreadyLinked
}

// ClearLink removes the transaction reference and, if the obligation still
// exists, restores its settlement atomically.
func (s *Store) ClearLink(ctx context.Context, link obligation.Link) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `
		UPDATE transactions
		SET obligation_ref = NULL, updated_at = NOW()
		WHERE id = $1`,
		link.TransactionID,
	); err != nil {
		return fmt.Errorf("clearing obligation ref: %w", err)
	}

	if link.Ref != nil {
		if err := updateSettlement(ctx, dbTx, *link.Ref, link.Settlement); err != nil {
			return err
		}
	}

	return dbTx.Commit()
}

func updateSettlement(ctx context.Context, dbTx *sql.Tx, ref obligation.Ref, st obligation.Settlement) error {
	t := tableFor(ref.Kind)

	res, err := dbTx.ExecContext(ctx,
		`UPDATE `+t.name+` SET outstanding = $1, status = $2 WHERE id = $3`,
		max(st.Outstanding, 0), st.Status, ref.ID,
	)
	if err != nil {
		return fmt.Errorf("updating %s: %w", t.name, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return obligation.ErrNotFound
	}

	return nil
}

// Delete removes the obligation. Transactions that settled it keep existing
// with their reference cleared.
func (s *Store) Delete(ctx context.Context, ref obligation.Ref) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx,
		`UPDATE transactions SET obligation_ref = NULL, updated_at = NOW() WHERE obligation_ref = $1`,
		ref.String(),
	); err != nil {
		return fmt.Errorf("clearing references to %s: %w", ref, err)
	}

	t := tableFor(ref.Kind)

	res, err := dbTx.ExecContext(ctx, `DELETE FROM `+t.name+` WHERE id = $1`, ref.ID)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", ref, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return obligation.ErrNotFound
	}

	return dbTx.Commit()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: strings.TrimSpace(s), Valid: strings.TrimSpace(s) != ""}
}
