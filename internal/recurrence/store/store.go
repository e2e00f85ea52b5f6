package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/recurrence"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectPatternColumns = `
	id, company, description, amount, variable, type, recurrence_interval, estimated_day, anchor_month,
	category, subcategory, source_ids, status, created_at, updated_at
`

type scanner interface {
	Scan(dest ...any) error
}

func scanPattern(s scanner) (*recurrence.Pattern, error) {
	var (
		p                     recurrence.Pattern
		typ, interval, status string
		anchor                int
		category, subcategory sql.NullString
		sourceIDs             []byte
	)

	if err := s.Scan(
		&p.ID, &p.Company, &p.Description, &p.Amount, &p.Variable, &typ, &interval, &p.EstimatedDay, &anchor,
		&category, &subcategory, &sourceIDs, &status, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	p.Type = transaction.Type(typ)
	p.Interval = recurrence.Interval(interval)
	p.AnchorMonth = time.Month(anchor)
	p.Category = category.String
	p.Subcategory = subcategory.String
	p.Status = recurrence.Status(status)

	if len(sourceIDs) > 0 {
		if err := json.Unmarshal(sourceIDs, &p.SourceIDs); err != nil {
			return nil, fmt.Errorf("decoding source ids: %w", err)
		}
	}

	return &p, nil
}

func (s *Store) CreatePattern(ctx context.Context, p *recurrence.Pattern) error {
	sourceIDs, err := json.Marshal(p.SourceIDs)
	if err != nil {
		return fmt.Errorf("encoding source ids: %w", err)
	}

	query := `
		INSERT INTO recurrence_patterns (company, description, amount, variable, type, recurrence_interval, estimated_day, anchor_month,
			category, subcategory, source_ids, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING id, created_at
	`

	return s.db.QueryRowContext(ctx, query,
		p.Company,
		p.Description,
		p.Amount,
		p.Variable,
		p.Type,
		p.Interval,
		p.EstimatedDay,
		int(p.AnchorMonth),
		nullString(p.Category),
		nullString(p.Subcategory),
		sourceIDs,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)
}

func (s *Store) GetPattern(ctx context.Context, id uuid.UUID) (*recurrence.Pattern, error) {
	query := `SELECT ` + selectPatternColumns + ` FROM recurrence_patterns WHERE id = $1`

	p, err := scanPattern(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recurrence.ErrNotFound
		}

		return nil, fmt.Errorf("getting pattern: %w", err)
	}

	return p, nil
}

func (s *Store) ListPatterns(ctx context.Context, status *recurrence.Status) ([]*recurrence.Pattern, error) {
	query := `SELECT ` + selectPatternColumns + ` FROM recurrence_patterns`

	var args []any

	if status != nil {
		query += " WHERE status = $1"

		args = append(args, *status)
	}

	query += " ORDER BY company, created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*recurrence.Pattern

	for rows.Next() {
		p, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pattern: %w", err)
		}

		patterns = append(patterns, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating patterns: %w", err)
	}

	return patterns, nil
}

// TransitionStatus only updates a row still in from, so concurrent accepts of
// the same pattern cannot both succeed.
func (s *Store) TransitionStatus(ctx context.Context, id uuid.UUID, from, to recurrence.Status) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE recurrence_patterns
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3`,
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("updating pattern status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating pattern status: %w", err)
	}

	if n == 0 {
		if _, err := s.GetPattern(ctx, id); err != nil {
			return err
		}

		return recurrence.ErrNotPending
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
