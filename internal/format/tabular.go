package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/voidwyrm/revw/internal/record"
)

var tabularHeaderRe = regexp.MustCompile(`^([a-z]+)\[(\d+)\]\{([^}]*)\}:$`)

var (
	outsideFields = []string{"name", "context", "url", "percentage"}
	insideFields  = []string{"date", "context"}
)

// parseTabular decodes the TOON representation: per section a header
// line declaring field names and a row count, then exactly that many
// comma-separated rows. Quoted values may span lines; internal quotes
// are escaped by doubling.
func parseTabular(data []byte) (*record.Document, error) {
	doc := record.NewDocument()
	s := &tabularScanner{data: data, line: 1}
	seen := map[string]bool{}

	for {
		s.skipBlankLines()
		if s.atEOF() {
			return doc, nil
		}

		headerLine := s.line
		header := strings.TrimSpace(s.readLine())
		m := tabularHeaderRe.FindStringSubmatch(header)
		if m == nil {
			return nil, errAtLine(headerLine, "invalid section header %q", header)
		}
		section, count, declared := m[1], m[2], m[3]
		if seen[section] {
			return nil, errAtLine(headerLine, "duplicate section %q", section)
		}
		seen[section] = true

		var want []string
		switch section {
		case "outside":
			want = outsideFields
		case "inside":
			want = insideFields
		default:
			return nil, errAtLine(headerLine, "unknown section %q", section)
		}
		fields, err := checkFields(declared, want, headerLine)
		if err != nil {
			return nil, err
		}
		n, _ := strconv.Atoi(count)

		for row := 0; row < n; row++ {
			if s.rowMissing() {
				return nil, errAtLine(s.line, "truncated section %q: expected %d rows, got %d", section, n, row)
			}
			rowLine := s.line
			values, rerr := s.readRow()
			if rerr != nil {
				return nil, rerr
			}
			if len(values) != len(fields) {
				return nil, errAtLine(rowLine, "field count mismatch: expected %d, got %d", len(fields), len(values))
			}
			if section == "outside" {
				rec, cerr := outsideFromRow(fields, values, rowLine)
				if cerr != nil {
					return nil, cerr
				}
				doc.Outside = append(doc.Outside, rec)
			} else {
				doc.Inside = append(doc.Inside, insideFromRow(fields, values))
			}
		}

		// Anything but a blank line, a new header, or EOF here is a row
		// beyond the declared count.
		if !s.atEOF() {
			next := strings.TrimSpace(s.peekLine())
			if next != "" && !tabularHeaderRe.MatchString(next) {
				return nil, errAtLine(s.line, "unexpected row beyond declared count in section %q", section)
			}
		}
	}
}

// checkFields validates the declared field list against the canonical
// set for the section: every field exactly once, any order.
func checkFields(declared string, want []string, line int) ([]string, *FormatError) {
	fields := strings.Split(declared, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) != len(want) {
		return nil, errAtLine(line, "expected fields {%s}, got {%s}", strings.Join(want, ","), declared)
	}
	seen := map[string]bool{}
	for _, f := range fields {
		ok := false
		for _, w := range want {
			if f == w {
				ok = true
				break
			}
		}
		if !ok || seen[f] {
			return nil, errAtLine(line, "expected fields {%s}, got {%s}", strings.Join(want, ","), declared)
		}
		seen[f] = true
	}
	return fields, nil
}

func outsideFromRow(fields, values []string, line int) (record.OutsideRecord, *FormatError) {
	var rec record.OutsideRecord
	for i, f := range fields {
		v := values[i]
		switch f {
		case "name":
			rec.Name = v
		case "context":
			rec.Context = v
		case "url":
			rec.URL = v
		case "percentage":
			if v == "" {
				continue
			}
			p, err := strconv.Atoi(v)
			if err != nil {
				return rec, errAtLine(line, "non-integer percentage %q", v)
			}
			if p < 0 || p > 100 {
				return rec, errAtLine(line, "percentage %d out of range 0-100", p)
			}
			rec.Percentage = &p
		}
	}
	return rec, nil
}

func insideFromRow(fields, values []string) record.InsideRecord {
	var rec record.InsideRecord
	for i, f := range fields {
		switch f {
		case "date":
			rec.Date = values[i]
		case "context":
			rec.Context = values[i]
		}
	}
	return rec
}

// tabularScanner walks the input byte-wise so quoted values can span
// line breaks. line is the 1-based line number at pos.
type tabularScanner struct {
	data []byte
	pos  int
	line int
}

func (s *tabularScanner) atEOF() bool {
	return s.pos >= len(s.data)
}

// peekLine returns the text of the current line without consuming it.
func (s *tabularScanner) peekLine() string {
	end := s.pos
	for end < len(s.data) && s.data[end] != '\n' {
		end++
	}
	return string(s.data[s.pos:end])
}

// readLine consumes the current line including its newline.
func (s *tabularScanner) readLine() string {
	text := s.peekLine()
	s.pos += len(text)
	if s.pos < len(s.data) {
		s.pos++ // newline
		s.line++
	}
	return text
}

func (s *tabularScanner) skipBlankLines() {
	for !s.atEOF() && strings.TrimSpace(s.peekLine()) == "" {
		s.readLine()
	}
}

// rowMissing reports whether the scanner is positioned at something
// that cannot be a data row: EOF, a blank line, or a section header.
func (s *tabularScanner) rowMissing() bool {
	if s.atEOF() {
		return true
	}
	trimmed := strings.TrimSpace(s.peekLine())
	return trimmed == "" || tabularHeaderRe.MatchString(trimmed)
}

func (s *tabularScanner) skipSpaces() {
	for s.pos < len(s.data) && (s.data[s.pos] == ' ' || s.data[s.pos] == '\t') {
		s.pos++
	}
}

// readRow consumes one comma-separated record ending at an unquoted
// newline or EOF. Unquoted values are trimmed; quoted values are kept
// verbatim.
func (s *tabularScanner) readRow() ([]string, *FormatError) {
	var values []string
	for {
		s.skipSpaces()
		if !s.atEOF() && s.data[s.pos] == '"' {
			v, err := s.readQuoted()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
			s.skipSpaces()
		} else {
			start := s.pos
			for !s.atEOF() && s.data[s.pos] != ',' && s.data[s.pos] != '\n' {
				s.pos++
			}
			values = append(values, strings.TrimSpace(string(s.data[start:s.pos])))
		}
		if s.atEOF() {
			return values, nil
		}
		switch s.data[s.pos] {
		case ',':
			s.pos++
		case '\n':
			s.pos++
			s.line++
			return values, nil
		default:
			return nil, errAtLine(s.line, "unexpected character %q after quoted value", s.data[s.pos])
		}
	}
}

// readQuoted consumes a quoted value starting at the opening quote.
// A doubled quote is a literal quote; a lone quote closes the value.
func (s *tabularScanner) readQuoted() (string, *FormatError) {
	openLine := s.line
	s.pos++
	var b strings.Builder
	for !s.atEOF() {
		c := s.data[s.pos]
		if c == '"' {
			if s.pos+1 < len(s.data) && s.data[s.pos+1] == '"' {
				b.WriteByte('"')
				s.pos += 2
				continue
			}
			s.pos++
			return b.String(), nil
		}
		if c == '\n' {
			s.line++
		}
		b.WriteByte(c)
		s.pos++
	}
	return "", errAtLine(openLine, "unterminated quote")
}

// serializeTabular encodes the document in TOON form. Sections are
// emitted only when non-empty; an absent percentage serializes as an
// empty value.
func serializeTabular(d *record.Document) []byte {
	var b strings.Builder

	if len(d.Outside) > 0 {
		fmt.Fprintf(&b, "outside[%d]{%s}:\n", len(d.Outside), strings.Join(outsideFields, ","))
		for _, r := range d.Outside {
			pct := ""
			if r.Percentage != nil {
				pct = strconv.Itoa(*r.Percentage)
			}
			row := []string{quoteValue(r.Name), quoteValue(r.Context), quoteValue(r.URL), pct}
			b.WriteString("  " + strings.Join(row, ",") + "\n")
		}
		b.WriteString("\n")
	}

	if len(d.Inside) > 0 {
		fmt.Fprintf(&b, "inside[%d]{%s}:\n", len(d.Inside), strings.Join(insideFields, ","))
		for _, r := range d.Inside {
			b.WriteString("  " + quoteValue(r.Date) + "," + quoteValue(r.Context) + "\n")
		}
	}

	return []byte(b.String())
}

// quoteValue wraps a value in quotes when it contains a delimiter,
// quote, or newline, when surrounding whitespace would otherwise be
// trimmed on parse, or when the bare value could be mistaken for a
// section header. Internal quotes are doubled.
func quoteValue(s string) string {
	if strings.ContainsAny(s, ",\"\n") || s != strings.TrimSpace(s) || tabularHeaderRe.MatchString(s) {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
