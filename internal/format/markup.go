package format

import (
	"strconv"
	"strings"

	"github.com/voidwyrm/revw/internal/record"
)

// Marker prefixes binding a line to the current outside record.
const (
	urlMarker = "**URL:**"
	pctMarker = "**Percentage:**"
)

// markupLine pairs a raw input line with its 1-based position.
type markupLine struct {
	text string
	num  int
}

// parseMarkup decodes the Markdown representation. Section headers are
// matched case-insensitively. Each section is parsed in two passes:
// heading-delimited when it contains at least one "### " heading,
// blank-line-delimited otherwise.
func parseMarkup(data []byte) (*record.Document, error) {
	doc := record.NewDocument()

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return doc, nil
	}

	var (
		outside, inside []markupLine
		current         *[]markupLine
		seenOutside     bool
		seenInside      bool
	)
	for i, raw := range strings.Split(text, "\n") {
		num := i + 1
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "## outside":
			if seenOutside {
				return nil, errAtLine(num, "duplicate OUTSIDE section header")
			}
			seenOutside = true
			current = &outside
			continue
		case "## inside":
			if seenInside {
				return nil, errAtLine(num, "duplicate INSIDE section header")
			}
			seenInside = true
			current = &inside
			continue
		}
		if current == nil {
			if strings.TrimSpace(raw) != "" {
				return nil, errAtLine(num, "missing section header before content")
			}
			continue
		}
		*current = append(*current, markupLine{text: raw, num: num})
	}
	if !seenOutside && !seenInside {
		return nil, errAtLine(1, "missing section header")
	}

	var err error
	if doc.Outside, err = parseOutsideSection(outside); err != nil {
		return nil, err
	}
	if doc.Inside, err = parseInsideSection(inside); err != nil {
		return nil, err
	}
	return doc, nil
}

// isHeading reports whether the trimmed line introduces a record and
// returns the heading text. A bare "###" counts as a heading with an
// empty title so that nameless records survive a round trip.
func isHeading(trimmed string) (string, bool) {
	if trimmed == "###" {
		return "", true
	}
	if after, ok := strings.CutPrefix(trimmed, "### "); ok {
		return strings.TrimSpace(after), true
	}
	return "", false
}

func hasHeadings(lines []markupLine) bool {
	for _, l := range lines {
		if _, ok := isHeading(strings.TrimSpace(l.text)); ok {
			return true
		}
	}
	return false
}

func parseOutsideSection(lines []markupLine) ([]record.OutsideRecord, error) {
	if hasHeadings(lines) {
		return parseOutsideHeaded(lines)
	}
	return parseOutsideBlankDelimited(lines)
}

// parseOutsideHeaded reads "### name" records. URL and percentage marker
// lines bind to the record; every other line accumulates into context,
// with leading and trailing blank lines trimmed and inner ones kept.
func parseOutsideHeaded(lines []markupLine) ([]record.OutsideRecord, error) {
	var out []record.OutsideRecord
	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i].text)
		name, ok := isHeading(trimmed)
		if !ok {
			if trimmed != "" {
				return nil, errAtLine(lines[i].num, "content before first record heading")
			}
			i++
			continue
		}
		i++

		rec := record.OutsideRecord{Name: name}
		var ctx []string
		for i < len(lines) {
			trimmed = strings.TrimSpace(lines[i].text)
			if _, next := isHeading(trimmed); next {
				break
			}
			consumed, err := bindMarker(&rec, trimmed, lines[i].num)
			if err != nil {
				return nil, err
			}
			if !consumed {
				if trimmed != "" || len(ctx) > 0 {
					ctx = append(ctx, lines[i].text)
				}
			}
			i++
		}
		rec.Context = joinContext(ctx)
		out = append(out, rec)
	}
	return out, nil
}

// parseOutsideBlankDelimited handles the headerless form: records are
// separated by blank lines, the first line of each group is the name.
// A blank line does not end the record when the next content line is a
// marker, so "name, context, blank, **URL:** u" stays one record.
func parseOutsideBlankDelimited(lines []markupLine) ([]record.OutsideRecord, error) {
	var out []record.OutsideRecord
	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i].text) == "" {
			i++
			continue
		}

		rec := record.OutsideRecord{Name: strings.TrimSpace(lines[i].text)}
		i++
		var ctx []string
		for i < len(lines) {
			trimmed := strings.TrimSpace(lines[i].text)
			if trimmed == "" {
				if next, ok := nextContent(lines, i+1); !ok || !strings.HasPrefix(next, "**") {
					i++
					break
				}
				i++
				continue
			}
			consumed, err := bindMarker(&rec, trimmed, lines[i].num)
			if err != nil {
				return nil, err
			}
			if !consumed {
				ctx = append(ctx, lines[i].text)
			}
			i++
		}
		rec.Context = joinContext(ctx)
		out = append(out, rec)
	}
	return out, nil
}

func parseInsideSection(lines []markupLine) ([]record.InsideRecord, error) {
	var out []record.InsideRecord
	if hasHeadings(lines) {
		i := 0
		for i < len(lines) {
			trimmed := strings.TrimSpace(lines[i].text)
			date, ok := isHeading(trimmed)
			if !ok {
				if trimmed != "" {
					return nil, errAtLine(lines[i].num, "content before first record heading")
				}
				i++
				continue
			}
			i++
			var ctx []string
			for i < len(lines) {
				if _, next := isHeading(strings.TrimSpace(lines[i].text)); next {
					break
				}
				if strings.TrimSpace(lines[i].text) != "" || len(ctx) > 0 {
					ctx = append(ctx, lines[i].text)
				}
				i++
			}
			out = append(out, record.InsideRecord{Date: date, Context: joinContext(ctx)})
		}
		return out, nil
	}

	// Headerless fallback: blank-line groups, first line is the date.
	i := 0
	for i < len(lines) {
		if strings.TrimSpace(lines[i].text) == "" {
			i++
			continue
		}
		rec := record.InsideRecord{Date: strings.TrimSpace(lines[i].text)}
		i++
		var ctx []string
		for i < len(lines) && strings.TrimSpace(lines[i].text) != "" {
			ctx = append(ctx, lines[i].text)
			i++
		}
		rec.Context = joinContext(ctx)
		out = append(out, rec)
	}
	return out, nil
}

// bindMarker applies a URL or percentage marker line to rec. It returns
// true when the line was a marker. A non-integer or out-of-range
// percentage is a FormatError.
func bindMarker(rec *record.OutsideRecord, trimmed string, line int) (bool, error) {
	if after, ok := strings.CutPrefix(trimmed, urlMarker); ok {
		rec.URL = strings.TrimSpace(after)
		return true, nil
	}
	if after, ok := strings.CutPrefix(trimmed, pctMarker); ok {
		raw := strings.TrimSuffix(strings.TrimSpace(after), "%")
		v, err := strconv.Atoi(raw)
		if err != nil {
			return false, errAtLine(line, "non-integer percentage %q", raw)
		}
		if v < 0 || v > 100 {
			return false, errAtLine(line, "percentage %d out of range 0-100", v)
		}
		rec.Percentage = &v
		return true, nil
	}
	return false, nil
}

// nextContent returns the first non-blank trimmed line at or after i.
func nextContent(lines []markupLine, i int) (string, bool) {
	for ; i < len(lines); i++ {
		if t := strings.TrimSpace(lines[i].text); t != "" {
			return t, true
		}
	}
	return "", false
}

// joinContext joins context lines, dropping trailing blanks.
func joinContext(ctx []string) string {
	for len(ctx) > 0 && strings.TrimSpace(ctx[len(ctx)-1]) == "" {
		ctx = ctx[:len(ctx)-1]
	}
	return strings.Join(ctx, "\n")
}

// serializeMarkup encodes the document as Markdown. Empty sections are
// omitted entirely; record headings are always emitted (a nameless
// record serializes as "### ") so parsing is unambiguous.
func serializeMarkup(d *record.Document) []byte {
	var lines []string

	if len(d.Outside) > 0 {
		lines = append(lines, "## OUTSIDE", "")
		for _, r := range d.Outside {
			lines = append(lines, "### "+r.Name)
			if r.Context != "" {
				lines = append(lines, r.Context)
			}
			if r.URL != "" {
				lines = append(lines, "", urlMarker+" "+r.URL)
			}
			if r.Percentage != nil {
				lines = append(lines, "", pctMarker+" "+strconv.Itoa(*r.Percentage)+"%")
			}
			lines = append(lines, "")
		}
	}

	if len(d.Inside) > 0 {
		lines = append(lines, "## INSIDE", "")
		for _, r := range d.Inside {
			lines = append(lines, "### "+r.Date)
			if r.Context != "" {
				lines = append(lines, r.Context)
			}
			lines = append(lines, "")
		}
	}

	return []byte(strings.Join(lines, "\n"))
}
