// Package format implements the three interchangeable document
// serializations: Markup (Markdown sections), JSON, and Tabular (TOON).
// Each codec is all-or-nothing: a malformed input yields a *FormatError
// and no partial document.
package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/voidwyrm/revw/internal/record"
)

// Format tags one of the supported serializations.
type Format int

const (
	Markup Format = iota
	JSON
	Tabular
)

// String returns the short format name used in flags and the API.
func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case Tabular:
		return "toon"
	default:
		return "md"
	}
}

// Ext returns the file extension for the format, with leading dot.
func (f Format) Ext() string {
	return "." + f.String()
}

// Detect maps a file path to its format by extension.
func Detect(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return Markup, nil
	case ".json":
		return JSON, nil
	case ".toon":
		return Tabular, nil
	default:
		return Markup, fmt.Errorf("format: unsupported extension %q", filepath.Ext(path))
	}
}

// ParseName maps a format name ("md", "markdown", "json", "toon") to its
// Format, for --to style flags.
func ParseName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "md", "markdown", "markup":
		return Markup, nil
	case "json":
		return JSON, nil
	case "toon", "tabular":
		return Tabular, nil
	default:
		return Markup, fmt.Errorf("format: unknown format %q", name)
	}
}

// FormatError reports a parse failure with its position in the input.
// Offset is a byte offset and Line is 1-based; either may be zero when
// the position is unknown (for example a structurally missing field).
type FormatError struct {
	Offset int
	Line   int
	Cause  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Cause)
	}
	if e.Offset > 0 {
		return fmt.Sprintf("offset %d: %s", e.Offset, e.Cause)
	}
	return e.Cause
}

func errAtLine(line int, format string, args ...any) *FormatError {
	return &FormatError{Line: line, Cause: fmt.Sprintf(format, args...)}
}

func errAtOffset(data []byte, offset int, format string, args ...any) *FormatError {
	return &FormatError{
		Offset: offset,
		Line:   lineOf(data, offset),
		Cause:  fmt.Sprintf(format, args...),
	}
}

// lineOf converts a byte offset to a 1-based line number.
func lineOf(data []byte, offset int) int {
	if offset > len(data) {
		offset = len(data)
	}
	line := 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
		}
	}
	return line
}

// Parse decodes data in the given format.
func Parse(f Format, data []byte) (*record.Document, error) {
	switch f {
	case JSON:
		return parseJSON(data)
	case Tabular:
		return parseTabular(data)
	default:
		return parseMarkup(data)
	}
}

// Serialize encodes the document in the given format.
func Serialize(f Format, d *record.Document) []byte {
	switch f {
	case JSON:
		return serializeJSON(d)
	case Tabular:
		return serializeTabular(d)
	default:
		return serializeMarkup(d)
	}
}
