package session

import (
	"math/rand"
	"time"

	"github.com/voidwyrm/revw/internal/format"
	"github.com/voidwyrm/revw/internal/record"
)

// Session owns one open document together with its undo history and
// filter state. Loading a new document resets both; timelines never
// survive a file switch.
type Session struct {
	doc      *record.Document
	history  History
	filter   Filter
	rng      *rand.Rand
	modified bool
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source used by Order with the Random key.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// New returns a session over an empty document.
func New(opts ...Option) *Session {
	s := &Session{doc: record.NewDocument()}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.filter.recompute(s.doc)
	return s
}

// Document returns the live document. Mutate it only through Apply so
// the history stays consistent.
func (s *Session) Document() *record.Document { return s.doc }

// Modified reports whether the document changed since the last Load or
// Save.
func (s *Session) Modified() bool { return s.modified }

// Load parses data and replaces the open document. On a parse error
// the current document, history, and filter are left untouched.
func (s *Session) Load(data []byte, f format.Format) error {
	doc, err := format.Parse(f, data)
	if err != nil {
		return err
	}
	s.LoadDocument(doc)
	return nil
}

// LoadDocument replaces the open document wholesale, resetting the
// history, the filter pattern, and the modified flag.
func (s *Session) LoadDocument(doc *record.Document) {
	s.doc = doc
	s.history.Reset()
	s.filter.pattern = ""
	s.filter.recompute(s.doc)
	s.modified = false
}

// Save serializes the document and clears the modified flag. The
// caller owns writing the bytes out.
func (s *Session) Save(f format.Format) []byte {
	data := format.Serialize(f, s.doc)
	s.modified = false
	return data
}

// Apply executes cmd, pushes it with its inverse onto the history, and
// recomputes the filter. A failed command changes nothing.
func (s *Session) Apply(cmd Command) error {
	inv, err := cmd.Apply(s.doc)
	if err != nil {
		return err
	}
	s.history.Push(cmd, inv)
	s.modified = true
	s.filter.recompute(s.doc)
	return nil
}

// Undo reverts the most recent command. It reports false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	if !s.history.CanUndo() {
		return false
	}
	ent := &s.history.entries[s.history.cursor-1]
	redo, _ := ent.inv.Apply(s.doc)
	ent.cmd = redo
	s.history.cursor--
	s.modified = true
	s.filter.recompute(s.doc)
	return true
}

// Redo re-applies the most recently undone command. It reports false
// when there is nothing to redo.
func (s *Session) Redo() bool {
	if !s.history.CanRedo() {
		return false
	}
	ent := &s.history.entries[s.history.cursor]
	inv, _ := ent.cmd.Apply(s.doc)
	ent.inv = inv
	s.history.cursor++
	s.modified = true
	s.filter.recompute(s.doc)
	return true
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// SetFilter restricts the visible list to records whose rendered text
// contains pattern, case-insensitively. Storage order is untouched.
func (s *Session) SetFilter(pattern string) {
	s.filter.pattern = pattern
	s.filter.recompute(s.doc)
}

// ClearFilter makes every record visible again.
func (s *Session) ClearFilter() {
	s.filter.pattern = ""
	s.filter.recompute(s.doc)
}

// FilterPattern returns the active pattern, empty when unfiltered.
func (s *Session) FilterPattern() string { return s.filter.Pattern() }

// Visible returns the filtered record refs in storage order.
func (s *Session) Visible() []record.Ref { return s.filter.Visible() }

// Order commits a new storage order for the section. The permutation
// is applied as a reversible command, so undo restores the exact prior
// order even after a random shuffle. An order that changes nothing is
// skipped.
func (s *Session) Order(section record.Section, key OrderKey) error {
	perm := permutation(s.doc, section, key, s.rng)
	if isIdentity(perm) {
		return nil
	}
	return s.Apply(&ReorderSection{Section: section, Perm: perm})
}
