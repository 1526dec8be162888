package session

import "github.com/voidwyrm/revw/internal/record"

// CopyScope selects what CopyRendered returns.
type CopyScope int

const (
	CopyAll CopyScope = iota
	CopyOutside
	CopyInside
	CopySelection
)

// CopyRendered returns the plain-text rendering used for clipboard
// copy: section headers with blank-line separated entries for the
// section scopes, or a single record's rendering for CopySelection.
// sel is only consulted for CopySelection.
func (s *Session) CopyRendered(scope CopyScope, sel record.Ref) (string, error) {
	switch scope {
	case CopyOutside:
		return s.doc.RenderOutside(), nil
	case CopyInside:
		return s.doc.RenderInside(), nil
	case CopySelection:
		switch sel.Section {
		case record.SectionOutside:
			if sel.Index < 0 || sel.Index >= len(s.doc.Outside) {
				return "", editErr("copy", "outside index %d out of range", sel.Index)
			}
			return s.doc.Outside[sel.Index].Render(), nil
		case record.SectionInside:
			if sel.Index < 0 || sel.Index >= len(s.doc.Inside) {
				return "", editErr("copy", "inside index %d out of range", sel.Index)
			}
			return s.doc.Inside[sel.Index].Render(), nil
		}
		return "", editErr("copy", "unknown section")
	default:
		return s.doc.RenderAll(), nil
	}
}
