// Package record defines the document model for revw: two ordered
// sections of records whose slice order is the canonical storage order.
package record

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the timestamp format stamped onto new inside records.
const TimeLayout = "2006-01-02 15:04:05"

// Section identifies one of the two record sections of a document.
type Section int

const (
	SectionOutside Section = iota
	SectionInside
)

// String returns the canonical section header text.
func (s Section) String() string {
	if s == SectionInside {
		return "INSIDE"
	}
	return "OUTSIDE"
}

// ParseSection maps a section name ("outside", "inside", any case) to
// its Section, for --section style flags.
func ParseSection(name string) (Section, error) {
	switch strings.ToLower(name) {
	case "outside":
		return SectionOutside, nil
	case "inside":
		return SectionInside, nil
	default:
		return SectionOutside, fmt.Errorf("record: unknown section %q", name)
	}
}

// OutsideRecord is an external reference entry. Percentage is optional;
// a nil pointer means absent, which is distinct from zero.
type OutsideRecord struct {
	Name       string `json:"name"`
	Context    string `json:"context"`
	URL        string `json:"url"`
	Percentage *int   `json:"percentage,omitempty"`
}

// InsideRecord is a timestamped note entry. Date is free-form text and
// sorts lexicographically in the default layout.
type InsideRecord struct {
	Date    string `json:"date"`
	Context string `json:"context"`
}

// Document is the full in-memory record set for one open file.
type Document struct {
	Outside []OutsideRecord `json:"outside"`
	Inside  []InsideRecord  `json:"inside"`
}

// Ref locates a record by section and storage index at the moment of
// capture. Commands resolve their targets through a Ref so that a
// filtered view can never redirect an edit to the wrong record.
type Ref struct {
	Section Section
	Index   int
}

// NewDocument returns an empty document with non-nil sections.
func NewDocument() *Document {
	return &Document{Outside: []OutsideRecord{}, Inside: []InsideRecord{}}
}

// DefaultDocument returns the template for a brand-new file: one empty
// outside record and one inside record stamped with now.
func DefaultDocument(now time.Time) *Document {
	return &Document{
		Outside: []OutsideRecord{{}},
		Inside:  []InsideRecord{{Date: now.Format(TimeLayout)}},
	}
}

// Percent returns a pointer to v, for building records with a set
// percentage in literals and tests.
func Percent(v int) *int {
	return &v
}

// Clone returns a deep copy of the record.
func (r OutsideRecord) Clone() OutsideRecord {
	c := r
	if r.Percentage != nil {
		p := *r.Percentage
		c.Percentage = &p
	}
	return c
}

// Equal reports field-wise equality, treating absent and zero
// percentages as different values.
func (r OutsideRecord) Equal(o OutsideRecord) bool {
	if r.Name != o.Name || r.Context != o.Context || r.URL != o.URL {
		return false
	}
	if (r.Percentage == nil) != (o.Percentage == nil) {
		return false
	}
	return r.Percentage == nil || *r.Percentage == *o.Percentage
}

// Equal reports field-wise equality.
func (r InsideRecord) Equal(o InsideRecord) bool {
	return r.Date == o.Date && r.Context == o.Context
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Outside: make([]OutsideRecord, len(d.Outside)),
		Inside:  make([]InsideRecord, len(d.Inside)),
	}
	for i, r := range d.Outside {
		c.Outside[i] = r.Clone()
	}
	copy(c.Inside, d.Inside)
	return c
}

// Equal reports whether both documents hold the same records in the
// same storage order.
func (d *Document) Equal(o *Document) bool {
	if len(d.Outside) != len(o.Outside) || len(d.Inside) != len(o.Inside) {
		return false
	}
	for i, r := range d.Outside {
		if !r.Equal(o.Outside[i]) {
			return false
		}
	}
	for i, r := range d.Inside {
		if !r.Equal(o.Inside[i]) {
			return false
		}
	}
	return true
}

// Len returns the number of records in the given section.
func (d *Document) Len(s Section) int {
	if s == SectionInside {
		return len(d.Inside)
	}
	return len(d.Outside)
}
