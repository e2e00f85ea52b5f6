// Package reconcile scores open obligations against a transaction and decides
// whether the best one is linked silently, proposed for confirmation, or
// ignored.
//
// Scoring and gating work on in-memory snapshots and perform no I/O, so the
// matcher can run on every keystroke of a transaction draft.
package reconcile

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Weights is the table of points each feature of a match contributes.
//
//	feature      rule
//	date         overdue:  OverdueBase - daysLate/OverdueDecayDays
//	             future:   FutureBase - daysAhead, excluded beyond FutureWindowDays
//	amount       ExactAmount within AmountTolerance, else
//	             max(0, PartialAmount - relativeDelta*100)
//	description  jaccard * Description
//	category     CategoryBonus on exact match (bonus variant only)
//	subcategory  SubcategoryBonus on exact match (bonus variant only)
//
// OverdueBase and FutureBase keep overdue and future obligations in disjoint
// bands, so a late obligation outranks an upcoming one of similar quality.
type Weights struct {
	OverdueBase      float64 `yaml:"overdue_base"`
	OverdueDecayDays float64 `yaml:"overdue_decay_days"`
	FutureBase       float64 `yaml:"future_base"`
	FutureWindowDays int     `yaml:"future_window_days"`
	AmountTolerance  float64 `yaml:"amount_tolerance"` // in currency units, not cents
	ExactAmount      float64 `yaml:"exact_amount"`
	PartialAmount    float64 `yaml:"partial_amount"`
	Description      float64 `yaml:"description"`
	CategoryBonus    float64 `yaml:"category_bonus"`
	SubcategoryBonus float64 `yaml:"subcategory_bonus"`
}

func DefaultWeights() Weights {
	return Weights{
		OverdueBase:      1000,
		OverdueDecayDays: 30,
		FutureBase:       500,
		FutureWindowDays: 90,
		AmountTolerance:  0.02,
		ExactAmount:      100,
		PartialAmount:    50,
		Description:      50,
		CategoryBonus:    20,
		SubcategoryBonus: 10,
	}
}

// Thresholds are the score boundaries the Gate compares the best candidate against.
type Thresholds struct {
	// AutoLink is the score above which a live preview pre-selects the link.
	AutoLink float64 `yaml:"auto_link"`
	// Confirm is the score above which a submitted transaction asks the user
	// to accept or decline the link.
	Confirm float64 `yaml:"confirm"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{AutoLink: 80, Confirm: 500}
}

// Table is the on-disk form of a tuning file.
type Table struct {
	Weights    Weights    `yaml:"weights"`
	Thresholds Thresholds `yaml:"thresholds"`
}

// LoadTable decodes a YAML tuning file over base. Keys absent from the file
// keep base's values.
func LoadTable(r io.Reader, base Table) (Table, error) {
	t := base

	if err := yaml.NewDecoder(r).Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Table{}, fmt.Errorf("decoding weight table: %w", err)
	}

	if t.Weights.OverdueDecayDays <= 0 {
		return Table{}, fmt.Errorf("overdue_decay_days must be positive, got %v", t.Weights.OverdueDecayDays)
	}

	return t, nil
}
