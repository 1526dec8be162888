// Package fieldedit implements the modal editor used on a single
// record field. Content is one string with literal newlines; the
// cursor is a rune index into it. Every mutating operation returns the
// prior content so callers can wrap it as a reversible command.
package fieldedit

import "strings"

// Mode is the editor's modal state. FieldSelect is the outer mode
// where whole fields are picked, Normal moves the cursor inside one
// field, Insert types into it.
type Mode int

const (
	ModeFieldSelect Mode = iota
	ModeNormal
	ModeInsert
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInsert:
		return "insert"
	default:
		return "select"
	}
}

// Editor edits one field's text.
type Editor struct {
	content []rune
	cursor  int
	mode    Mode

	yanked    string
	hasYanked bool
}

// New returns an editor over content, in FieldSelect mode with the
// cursor at the start.
func New(content string) *Editor {
	return &Editor{content: []rune(content)}
}

func (e *Editor) Content() string { return string(e.content) }
func (e *Editor) Cursor() int     { return e.cursor }
func (e *Editor) Mode() Mode      { return e.mode }

func (e *Editor) SetMode(m Mode) { e.mode = m }

// SetContent replaces the whole buffer and returns the prior content.
// The cursor is clamped to the new length.
func (e *Editor) SetContent(content string) string {
	prior := string(e.content)
	e.content = []rune(content)
	if e.cursor > len(e.content) {
		e.cursor = len(e.content)
	}
	return prior
}

// Preview renders content for single-line field lists: embedded
// newlines appear as a two-character backslash escape.
func Preview(content string) string {
	return strings.ReplaceAll(content, "\n", `\n`)
}

// InsertChar inserts c at the cursor and advances past it.
func (e *Editor) InsertChar(c rune) string {
	prior := string(e.content)
	e.content = append(e.content[:e.cursor], append([]rune{c}, e.content[e.cursor:]...)...)
	e.cursor++
	return prior
}

// InsertString inserts s at the cursor, advancing past it.
func (e *Editor) InsertString(s string) string {
	prior := string(e.content)
	ins := []rune(s)
	e.content = append(e.content[:e.cursor], append(ins, e.content[e.cursor:]...)...)
	e.cursor += len(ins)
	return prior
}

// Backspace removes the rune before the cursor. At the start of the
// buffer it is a no-op.
func (e *Editor) Backspace() string {
	prior := string(e.content)
	if e.cursor == 0 {
		return prior
	}
	e.content = append(e.content[:e.cursor-1], e.content[e.cursor:]...)
	e.cursor--
	return prior
}

// DeleteChar removes the rune under the cursor. At the end of the
// buffer it is a no-op.
func (e *Editor) DeleteChar() string {
	prior := string(e.content)
	if e.cursor >= len(e.content) {
		return prior
	}
	e.content = append(e.content[:e.cursor], e.content[e.cursor+1:]...)
	return prior
}

// lineBounds returns the rune range [start, end) of the line the
// cursor is on, excluding its trailing newline.
func (e *Editor) lineBounds() (int, int) {
	start := e.cursor
	for start > 0 && e.content[start-1] != '\n' {
		start--
	}
	end := e.cursor
	for end < len(e.content) && e.content[end] != '\n' {
		end++
	}
	return start, end
}

// CursorLine returns the 0-based index of the line the cursor is on.
func (e *Editor) CursorLine() int {
	n := 0
	for _, c := range e.content[:e.cursor] {
		if c == '\n' {
			n++
		}
	}
	return n
}

// CursorCol returns the cursor's rune offset within its line.
func (e *Editor) CursorCol() int {
	start, _ := e.lineBounds()
	return e.cursor - start
}

// CurrentLine returns the text of the line the cursor is on.
func (e *Editor) CurrentLine() string {
	start, end := e.lineBounds()
	return string(e.content[start:end])
}

// YankLine copies the current line into the yank register and returns
// it. The buffer is not changed.
func (e *Editor) YankLine() string {
	line := e.CurrentLine()
	e.yanked = line
	e.hasYanked = true
	return line
}

// DeleteLine removes the current line and its newline, yanking the
// removed text. On the last line the preceding newline is removed
// instead so no empty tail is left behind.
func (e *Editor) DeleteLine() string {
	prior := string(e.content)
	start, end := e.lineBounds()
	e.yanked = string(e.content[start:end])
	e.hasYanked = true

	switch {
	case end < len(e.content):
		e.content = append(e.content[:start], e.content[end+1:]...)
	case start > 0:
		e.content = e.content[:start-1]
	default:
		e.content = e.content[:0]
	}
	if start > len(e.content) {
		start = len(e.content)
	}
	e.cursor = start
	e.LineStart()
	return prior
}

// PasteLine inserts the yank register as a new line below the current
// one and moves the cursor to its start. With nothing yanked it is a
// no-op.
func (e *Editor) PasteLine() string {
	prior := string(e.content)
	if !e.hasYanked {
		return prior
	}
	_, end := e.lineBounds()
	ins := append([]rune{'\n'}, []rune(e.yanked)...)
	e.content = append(e.content[:end], append(ins, e.content[end:]...)...)
	e.cursor = end + 1
	return prior
}
