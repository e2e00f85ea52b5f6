// Package dedupe flags records that collide on the composite duplicate key
// (company, date, description, signed amount).
//
// Records with any key field missing never collide: the check fails open so
// that incomplete rows are not silently blocked.
package dedupe

import (
	"strconv"
	"strings"
	"time"
)

// Record is the minimal view of a transaction or obligation needed to detect duplicates.
type Record struct {
	ID          string
	Company     string
	Date        time.Time
	Description string
	Amount      int64  // magnitude in cents
	Direction   string // flow direction, e.g. "income" or "expense"
}

// Key is the composite identity two records must share to be duplicates.
type Key struct {
	Company     string
	Date        string
	Description string
	Amount      int64
	Direction   string
}

// KeyOf builds the duplicate key of r. ok is false when a key field is missing.
func KeyOf(r Record) (Key, bool) {
	desc := strings.ToLower(strings.TrimSpace(r.Description))

	if r.Company == "" || r.Date.IsZero() || desc == "" || r.Amount == 0 || r.Direction == "" {
		return Key{}, false
	}

	return Key{
		Company:     strings.TrimSpace(r.Company),
		Date:        r.Date.Format(time.DateOnly),
		Description: desc,
		Amount:      r.Amount,
		Direction:   r.Direction,
	}, true
}

// Duplicate reports that Record collides with the record identified by DuplicateOf.
type Duplicate struct {
	Index       int // position of the flagged record in the checked batch
	Record      Record
	DuplicateOf string
	// InBatch is true when the colliding record is another row of the same batch,
	// whose position is then OtherIndex.
	InBatch    bool
	OtherIndex int
}

// Detector checks records one at a time against a pool of known records.
// Records passed to Check join the pool, so later rows of the same batch are
// compared against earlier ones.
type Detector struct {
	pool    map[Key][]string
	checked int
}

// NewDetector indexes existing records by duplicate key.
func NewDetector(existing []Record) *Detector {
	d := &Detector{pool: make(map[Key][]string, len(existing))}

	for _, r := range existing {
		d.add(r)
	}

	return d
}

func (d *Detector) add(r Record) {
	k, ok := KeyOf(r)
	if !ok {
		return
	}

	d.pool[k] = append(d.pool[k], r.ID)
}

// Check returns the id of a pooled record that r duplicates, then adds r to the pool.
// A record without an ID joins the pool under its BatchID.
func (d *Detector) Check(r Record) (string, bool) {
	self := r.ID
	if self == "" {
		self = BatchID(d.checked)
	}

	d.checked++

	k, ok := KeyOf(r)
	if !ok {
		return "", false
	}

	id, found := d.lookup(k, self)
	d.pool[k] = append(d.pool[k], self)

	return id, found
}

// Contains reports whether r duplicates a pooled record, without adding it.
func (d *Detector) Contains(r Record) (string, bool) {
	k, ok := KeyOf(r)
	if !ok {
		return "", false
	}

	return d.lookup(k, r.ID)
}

func (d *Detector) lookup(k Key, selfID string) (string, bool) {
	for _, id := range d.pool[k] {
		if id != selfID {
			return id, true
		}
	}

	return "", false
}

// FindDuplicates flags every batch record that collides with an existing record
// or with another record of the same batch. Both rows of an in-batch pair are
// flagged. Existing records take precedence as the reported collision.
//
// Batch records without an ID are identified by their position.
func FindDuplicates(batch, existing []Record) []Duplicate {
	stored := NewDetector(existing)

	ids := make([]string, len(batch))
	inBatch := make(map[Key][]int, len(batch))

	for i, r := range batch {
		ids[i] = r.ID
		if ids[i] == "" {
			ids[i] = BatchID(i)
		}

		if k, ok := KeyOf(r); ok {
			inBatch[k] = append(inBatch[k], i)
		}
	}

	var dups []Duplicate

	for i, r := range batch {
		k, ok := KeyOf(r)
		if !ok {
			continue
		}

		if id, found := stored.lookup(k, ids[i]); found {
			dups = append(dups, Duplicate{Index: i, Record: r, DuplicateOf: id, OtherIndex: -1})
			continue
		}

		for _, j := range inBatch[k] {
			if ids[j] != ids[i] {
				dups = append(dups, Duplicate{Index: i, Record: r, DuplicateOf: ids[j], InBatch: true, OtherIndex: j})
				break
			}
		}
	}

	return dups
}

// BatchID is the placeholder identifier of the i-th row of an unsaved batch.
func BatchID(i int) string {
	return "row:" + strconv.Itoa(i+1)
}
