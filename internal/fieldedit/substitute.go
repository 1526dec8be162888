package fieldedit

import (
	"regexp"
	"strings"
)

// Scope selects which lines Substitute scans.
type Scope int

const (
	ScopeCurrentLine Scope = iota
	ScopeAllLines
)

// Occurrence selects how many matches per line are replaced.
type Occurrence int

const (
	OccurrenceFirst Occurrence = iota
	OccurrenceAll
)

// Substitute replaces pattern with replacement in the scoped lines and
// returns the prior content and the number of replacements made. The
// pattern is tried as a regular expression first and falls back to a
// literal string when it does not compile; the replacement is always
// inserted literally. Zero matches is a no-op, not an error.
func (e *Editor) Substitute(scope Scope, occ Occurrence, pattern, replacement string) (string, int) {
	prior := string(e.content)
	if pattern == "" {
		return prior, 0
	}

	replace := literalReplacer(pattern, replacement)
	if re, err := regexp.Compile(pattern); err == nil {
		replace = regexReplacer(re, replacement)
	}

	lines := strings.Split(prior, "\n")
	from, to := 0, len(lines)
	if scope == ScopeCurrentLine {
		from = e.CursorLine()
		to = from + 1
	}

	total := 0
	for i := from; i < to && i < len(lines); i++ {
		line, n := replace(lines[i], occ)
		lines[i] = line
		total += n
	}
	if total == 0 {
		return prior, 0
	}

	e.content = []rune(strings.Join(lines, "\n"))
	if e.cursor > len(e.content) {
		e.cursor = len(e.content)
	}
	return prior, total
}

// literalReplacer substitutes a plain substring.
func literalReplacer(pattern, replacement string) func(string, Occurrence) (string, int) {
	return func(line string, occ Occurrence) (string, int) {
		switch occ {
		case OccurrenceAll:
			n := strings.Count(line, pattern)
			return strings.ReplaceAll(line, pattern, replacement), n
		default:
			if !strings.Contains(line, pattern) {
				return line, 0
			}
			return strings.Replace(line, pattern, replacement, 1), 1
		}
	}
}

// regexReplacer substitutes regular expression matches, ignoring any
// group references in the replacement.
func regexReplacer(re *regexp.Regexp, replacement string) func(string, Occurrence) (string, int) {
	return func(line string, occ Occurrence) (string, int) {
		n := 0
		out := re.ReplaceAllStringFunc(line, func(m string) string {
			if occ == OccurrenceFirst && n > 0 {
				return m
			}
			n++
			return replacement
		})
		return out, n
	}
}
