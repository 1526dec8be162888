package session

import (
	"strings"

	"github.com/voidwyrm/revw/internal/record"
)

// Filter derives the visible record list from the document. The
// visible list is always a subsequence of storage order; filtering
// never reorders or mutates storage.
type Filter struct {
	pattern string
	visible []record.Ref
}

func (f *Filter) Pattern() string { return f.pattern }

// Visible returns the refs of records whose rendered text matches the
// pattern, in storage order. With no pattern set, every record is
// visible.
func (f *Filter) Visible() []record.Ref { return f.visible }

// recompute rebuilds the visible list against the current document.
func (f *Filter) recompute(d *record.Document) {
	f.visible = f.visible[:0]
	pat := strings.ToLower(f.pattern)
	for i := range d.Outside {
		if pat == "" || strings.Contains(strings.ToLower(d.Outside[i].Render()), pat) {
			f.visible = append(f.visible, record.Ref{Section: record.SectionOutside, Index: i})
		}
	}
	for i := range d.Inside {
		if pat == "" || strings.Contains(strings.ToLower(d.Inside[i].Render()), pat) {
			f.visible = append(f.visible, record.Ref{Section: record.SectionInside, Index: i})
		}
	}
}
