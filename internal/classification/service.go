// Package classification suggests a clean description, category, subcategory
// and VAT rate for a raw bank description, from mappings the user taught it.
package classification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidMapping = errors.New("invalid classification mapping")

// Suggestion is what a learned mapping says about a raw description.
type Suggestion struct {
	Description string
	Category    string
	Subcategory string
	VATRate     decimal.NullDecimal
}

// Empty reports whether the suggestion carries nothing usable.
func (s Suggestion) Empty() bool {
	return s.Description == "" && s.Category == "" && s.Subcategory == "" && !s.VATRate.Valid
}

// Mapping teaches the classifier that descriptions containing RawPattern
// mean Suggestion.
type Mapping struct {
	RawPattern string
	Suggestion
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=classification
type Repository interface {
	// FindMatch returns the suggestion of the longest pattern contained in
	// rawDescription, or an empty Suggestion when none matches.
	FindMatch(ctx context.Context, rawDescription string) (Suggestion, error)
	CreateMapping(ctx context.Context, m Mapping) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest looks up the mapping for rawDescription.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (Suggestion, error) {
	return s.repo.FindMatch(ctx, strings.TrimSpace(rawDescription))
}

// Learn remembers a new mapping.
func (s *Service) Learn(ctx context.Context, m Mapping) error {
	m.RawPattern = strings.TrimSpace(m.RawPattern)

	if m.RawPattern == "" || m.Description == "" {
		return fmt.Errorf("%w: raw pattern and description are required", ErrInvalidMapping)
	}

	if m.VATRate.Valid && (m.VATRate.Decimal.IsNegative() || m.VATRate.Decimal.GreaterThan(decimal.NewFromInt(100))) {
		return fmt.Errorf("%w: vat rate %s out of range", ErrInvalidMapping, m.VATRate.Decimal)
	}

	return s.repo.CreateMapping(ctx, m)
}
