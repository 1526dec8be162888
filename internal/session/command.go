// Package session implements the document engine boundary: reversible
// edit commands, the undo history, ordering, filtering, and rendered
// copy. A Session owns exactly one open document; it performs no I/O
// and holds no process-wide state.
package session

import (
	"fmt"
	"strconv"

	"github.com/voidwyrm/revw/internal/record"
)

// EditError reports a command that cannot apply to the current
// document, such as an index past the end of a section or a field the
// record kind does not have.
type EditError struct {
	Op    string
	Cause string
}

func (e *EditError) Error() string { return e.Op + ": " + e.Cause }

func editErr(op, format string, args ...any) *EditError {
	return &EditError{Op: op, Cause: fmt.Sprintf(format, args...)}
}

// Command is one reversible edit. Apply mutates the document and
// returns the inverse command that restores the prior state. Commands
// address records by storage index, never by filtered position.
type Command interface {
	Apply(d *record.Document) (Command, error)
	Describe() string
}

// Field identifies one editable slot of a record. Outside records use
// all four; inside records store the date in the first slot and use
// FieldContext for the second.
type Field int

const (
	FieldName Field = iota
	FieldContext
	FieldURL
	FieldPercentage
)

// FieldDate aliases the first slot for inside records.
const FieldDate = FieldName

func (f Field) String() string {
	switch f {
	case FieldContext:
		return "context"
	case FieldURL:
		return "url"
	case FieldPercentage:
		return "percentage"
	default:
		return "name"
	}
}

// FieldText reads the addressed field as displayed text. An absent
// percentage reads as the empty string.
func FieldText(d *record.Document, ref record.Ref, f Field) (string, error) {
	return fieldText(d, "read field", ref, f)
}

// fieldText reads the addressed field as text. An absent percentage
// reads as the empty string.
func fieldText(d *record.Document, op string, ref record.Ref, f Field) (string, error) {
	switch ref.Section {
	case record.SectionOutside:
		if ref.Index < 0 || ref.Index >= len(d.Outside) {
			return "", editErr(op, "outside index %d out of range", ref.Index)
		}
		r := &d.Outside[ref.Index]
		switch f {
		case FieldName:
			return r.Name, nil
		case FieldContext:
			return r.Context, nil
		case FieldURL:
			return r.URL, nil
		case FieldPercentage:
			if r.Percentage == nil {
				return "", nil
			}
			return strconv.Itoa(*r.Percentage), nil
		}
	case record.SectionInside:
		if ref.Index < 0 || ref.Index >= len(d.Inside) {
			return "", editErr(op, "inside index %d out of range", ref.Index)
		}
		r := &d.Inside[ref.Index]
		switch f {
		case FieldDate:
			return r.Date, nil
		case FieldContext:
			return r.Context, nil
		}
	}
	return "", editErr(op, "record has no field %q", f)
}

// setFieldText writes the addressed field from text. The percentage
// field accepts an empty string for absent or an integer 0..100.
func setFieldText(d *record.Document, op string, ref record.Ref, f Field, text string) error {
	switch ref.Section {
	case record.SectionOutside:
		if ref.Index < 0 || ref.Index >= len(d.Outside) {
			return editErr(op, "outside index %d out of range", ref.Index)
		}
		r := &d.Outside[ref.Index]
		switch f {
		case FieldName:
			r.Name = text
			return nil
		case FieldContext:
			r.Context = text
			return nil
		case FieldURL:
			r.URL = text
			return nil
		case FieldPercentage:
			if text == "" {
				r.Percentage = nil
				return nil
			}
			v, err := strconv.Atoi(text)
			if err != nil {
				return editErr(op, "non-integer percentage %q", text)
			}
			if v < 0 || v > 100 {
				return editErr(op, "percentage %d out of range 0-100", v)
			}
			r.Percentage = &v
			return nil
		}
	case record.SectionInside:
		if ref.Index < 0 || ref.Index >= len(d.Inside) {
			return editErr(op, "inside index %d out of range", ref.Index)
		}
		r := &d.Inside[ref.Index]
		switch f {
		case FieldDate:
			r.Date = text
			return nil
		case FieldContext:
			r.Context = text
			return nil
		}
	}
	return editErr(op, "record has no field %q", f)
}

// InsertChar inserts one rune into a field at a rune position.
type InsertChar struct {
	Ref   record.Ref
	Field Field
	Pos   int
	Char  rune
}

func (c *InsertChar) Describe() string { return "insert character" }

func (c *InsertChar) Apply(d *record.Document) (Command, error) {
	text, err := fieldText(d, c.Describe(), c.Ref, c.Field)
	if err != nil {
		return nil, err
	}
	runes := []rune(text)
	if c.Pos < 0 || c.Pos > len(runes) {
		return nil, editErr(c.Describe(), "position %d out of range", c.Pos)
	}
	next := make([]rune, 0, len(runes)+1)
	next = append(next, runes[:c.Pos]...)
	next = append(next, c.Char)
	next = append(next, runes[c.Pos:]...)
	if err := setFieldText(d, c.Describe(), c.Ref, c.Field, string(next)); err != nil {
		return nil, err
	}
	return &DeleteChar{Ref: c.Ref, Field: c.Field, Pos: c.Pos}, nil
}

// DeleteChar removes one rune from a field at a rune position.
type DeleteChar struct {
	Ref   record.Ref
	Field Field
	Pos   int
}

func (c *DeleteChar) Describe() string { return "delete character" }

func (c *DeleteChar) Apply(d *record.Document) (Command, error) {
	text, err := fieldText(d, c.Describe(), c.Ref, c.Field)
	if err != nil {
		return nil, err
	}
	runes := []rune(text)
	if c.Pos < 0 || c.Pos >= len(runes) {
		return nil, editErr(c.Describe(), "position %d out of range", c.Pos)
	}
	removed := runes[c.Pos]
	next := append(append([]rune{}, runes[:c.Pos]...), runes[c.Pos+1:]...)
	if err := setFieldText(d, c.Describe(), c.Ref, c.Field, string(next)); err != nil {
		return nil, err
	}
	return &InsertChar{Ref: c.Ref, Field: c.Field, Pos: c.Pos, Char: removed}, nil
}

// ReplaceFieldText swaps a field's entire content.
type ReplaceFieldText struct {
	Ref   record.Ref
	Field Field
	Text  string
}

func (c *ReplaceFieldText) Describe() string { return "replace field" }

func (c *ReplaceFieldText) Apply(d *record.Document) (Command, error) {
	old, err := fieldText(d, c.Describe(), c.Ref, c.Field)
	if err != nil {
		return nil, err
	}
	if err := setFieldText(d, c.Describe(), c.Ref, c.Field, c.Text); err != nil {
		return nil, err
	}
	return &ReplaceFieldText{Ref: c.Ref, Field: c.Field, Text: old}, nil
}

// InsertRecord inserts a record at a storage index. The payload in
// Outside or Inside is chosen by Ref.Section; the other is ignored.
type InsertRecord struct {
	Ref     record.Ref
	Outside record.OutsideRecord
	Inside  record.InsideRecord
}

func (c *InsertRecord) Describe() string { return "insert record" }

func (c *InsertRecord) Apply(d *record.Document) (Command, error) {
	i := c.Ref.Index
	switch c.Ref.Section {
	case record.SectionOutside:
		if i < 0 || i > len(d.Outside) {
			return nil, editErr(c.Describe(), "outside index %d out of range", i)
		}
		d.Outside = append(d.Outside, record.OutsideRecord{})
		copy(d.Outside[i+1:], d.Outside[i:])
		d.Outside[i] = c.Outside.Clone()
	case record.SectionInside:
		if i < 0 || i > len(d.Inside) {
			return nil, editErr(c.Describe(), "inside index %d out of range", i)
		}
		d.Inside = append(d.Inside, record.InsideRecord{})
		copy(d.Inside[i+1:], d.Inside[i:])
		d.Inside[i] = c.Inside
	default:
		return nil, editErr(c.Describe(), "unknown section")
	}
	return &DeleteRecord{Ref: c.Ref}, nil
}

// DeleteRecord removes the record at a storage index. Its inverse
// reinserts the removed record at the same index.
type DeleteRecord struct {
	Ref record.Ref
}

func (c *DeleteRecord) Describe() string { return "delete record" }

func (c *DeleteRecord) Apply(d *record.Document) (Command, error) {
	i := c.Ref.Index
	inv := &InsertRecord{Ref: c.Ref}
	switch c.Ref.Section {
	case record.SectionOutside:
		if i < 0 || i >= len(d.Outside) {
			return nil, editErr(c.Describe(), "outside index %d out of range", i)
		}
		inv.Outside = d.Outside[i].Clone()
		d.Outside = append(d.Outside[:i], d.Outside[i+1:]...)
	case record.SectionInside:
		if i < 0 || i >= len(d.Inside) {
			return nil, editErr(c.Describe(), "inside index %d out of range", i)
		}
		inv.Inside = d.Inside[i]
		d.Inside = append(d.Inside[:i], d.Inside[i+1:]...)
	default:
		return nil, editErr(c.Describe(), "unknown section")
	}
	return inv, nil
}

// DuplicateRecord clones the record at a storage index and inserts the
// copy directly after it.
type DuplicateRecord struct {
	Ref record.Ref
}

func (c *DuplicateRecord) Describe() string { return "duplicate record" }

func (c *DuplicateRecord) Apply(d *record.Document) (Command, error) {
	i := c.Ref.Index
	switch c.Ref.Section {
	case record.SectionOutside:
		if i < 0 || i >= len(d.Outside) {
			return nil, editErr(c.Describe(), "outside index %d out of range", i)
		}
		dup := d.Outside[i].Clone()
		d.Outside = append(d.Outside, record.OutsideRecord{})
		copy(d.Outside[i+2:], d.Outside[i+1:])
		d.Outside[i+1] = dup
	case record.SectionInside:
		if i < 0 || i >= len(d.Inside) {
			return nil, editErr(c.Describe(), "inside index %d out of range", i)
		}
		dup := d.Inside[i]
		d.Inside = append(d.Inside, record.InsideRecord{})
		copy(d.Inside[i+2:], d.Inside[i+1:])
		d.Inside[i+1] = dup
	default:
		return nil, editErr(c.Describe(), "unknown section")
	}
	return &DeleteRecord{Ref: record.Ref{Section: c.Ref.Section, Index: i + 1}}, nil
}

// ReorderSection replaces a section's storage order with a stored
// permutation: position i of the new order holds the record that was
// at Perm[i]. Randomized orders record the drawn permutation here so
// undo restores the exact prior order.
type ReorderSection struct {
	Section record.Section
	Perm    []int
}

func (c *ReorderSection) Describe() string { return "reorder section" }

func (c *ReorderSection) Apply(d *record.Document) (Command, error) {
	n := d.Len(c.Section)
	if len(c.Perm) != n {
		return nil, editErr(c.Describe(), "permutation length %d does not match section length %d", len(c.Perm), n)
	}
	seen := make([]bool, n)
	for _, p := range c.Perm {
		if p < 0 || p >= n || seen[p] {
			return nil, editErr(c.Describe(), "invalid permutation")
		}
		seen[p] = true
	}

	inv := make([]int, n)
	for i, p := range c.Perm {
		inv[p] = i
	}

	switch c.Section {
	case record.SectionOutside:
		next := make([]record.OutsideRecord, n)
		for i, p := range c.Perm {
			next[i] = d.Outside[p]
		}
		d.Outside = next
	case record.SectionInside:
		next := make([]record.InsideRecord, n)
		for i, p := range c.Perm {
			next[i] = d.Inside[p]
		}
		d.Inside = next
	default:
		return nil, editErr(c.Describe(), "unknown section")
	}
	return &ReorderSection{Section: c.Section, Perm: inv}, nil
}
