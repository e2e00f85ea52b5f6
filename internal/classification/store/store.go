package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/classification"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, rawDescription string) (classification.Suggestion, error) {
	query := `
		SELECT preferred_description, category, subcategory, vat_rate
		FROM description_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var (
		sg                    classification.Suggestion
		category, subcategory sql.NullString
		vat                   decimal.NullDecimal
	)

	err := s.db.QueryRowContext(ctx, query, rawDescription).Scan(&sg.Description, &category, &subcategory, &vat)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return classification.Suggestion{}, nil
		}

		return classification.Suggestion{}, fmt.Errorf("finding match: %w", err)
	}

	sg.Category = category.String
	sg.Subcategory = subcategory.String
	sg.VATRate = vat

	return sg, nil
}

func (s *Store) CreateMapping(ctx context.Context, m classification.Mapping) error {
	query := `
		INSERT INTO description_mappings (raw_pattern, preferred_description, category, subcategory, vat_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`

	_, err := s.db.ExecContext(ctx, query,
		m.RawPattern,
		m.Description,
		sql.NullString{String: m.Category, Valid: m.Category != ""},
		sql.NullString{String: m.Subcategory, Valid: m.Subcategory != ""},
		m.VATRate,
	)
	if err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
