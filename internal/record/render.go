package record

import (
	"strconv"
	"strings"
)

// Render returns the plain-text form of an outside record: name,
// context and url when non-empty, and the percentage as "N%" when
// present, one field per line. Filter matching and clipboard copy both
// operate on this string.
func (r OutsideRecord) Render() string {
	lines := []string{r.Name}
	if r.Context != "" {
		lines = append(lines, r.Context)
	}
	if r.URL != "" {
		lines = append(lines, r.URL)
	}
	if r.Percentage != nil {
		lines = append(lines, strconv.Itoa(*r.Percentage)+"%")
	}
	return strings.Join(lines, "\n")
}

// Render returns the plain-text form of an inside record: date and
// context when non-empty, one per line.
func (r InsideRecord) Render() string {
	var lines []string
	if r.Date != "" {
		lines = append(lines, r.Date)
	}
	if r.Context != "" {
		lines = append(lines, r.Context)
	}
	return strings.Join(lines, "\n")
}

// RenderAll returns the whole document as plain text: each non-empty
// section under its header, entries separated by blank lines.
func (d *Document) RenderAll() string {
	var blocks []string
	if len(d.Outside) > 0 {
		blocks = append(blocks, d.RenderOutside())
	}
	if len(d.Inside) > 0 {
		blocks = append(blocks, d.RenderInside())
	}
	return strings.Join(blocks, "\n\n")
}

// RenderOutside returns the outside section under its header.
func (d *Document) RenderOutside() string {
	parts := []string{SectionOutside.String()}
	for _, r := range d.Outside {
		parts = append(parts, r.Render())
	}
	return strings.Join(parts, "\n\n")
}

// RenderInside returns the inside section under its header.
func (d *Document) RenderInside() string {
	parts := []string{SectionInside.String()}
	for _, r := range d.Inside {
		parts = append(parts, r.Render())
	}
	return strings.Join(parts, "\n\n")
}
