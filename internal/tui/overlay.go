package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voidwyrm/revw/internal/fieldedit"
	"github.com/voidwyrm/revw/internal/record"
	"github.com/voidwyrm/revw/internal/session"
)

// overlay is the record editor: a field list with one field at a time
// opened in a modal text editor. Edits stay local to the editor until
// the field is left, then commit as a single replace command.
type overlay struct {
	ref    record.Ref
	fields []overlayField
	index  int

	ed       *fieldedit.Editor
	baseline string
	pending  string

	cmdline bool
	input   string
}

type overlayField struct {
	field session.Field
	label string
}

func fieldsFor(s record.Section) []overlayField {
	if s == record.SectionInside {
		return []overlayField{
			{session.FieldDate, "date"},
			{session.FieldContext, "context"},
		}
	}
	return []overlayField{
		{session.FieldName, "name"},
		{session.FieldContext, "context"},
		{session.FieldURL, "url"},
		{session.FieldPercentage, "percentage"},
	}
}

// openOverlay starts editing the selected record.
func (m *Model) openOverlay() {
	ref, ok := m.selection()
	if !ok {
		m.message = "no record selected"
		return
	}
	m.overlay = &overlay{ref: ref, fields: fieldsFor(ref.Section)}
	m.mode = ModeEdit
}

func (m *Model) closeOverlay() {
	m.overlay = nil
	m.mode = ModeView
}

func (m *Model) overlayKey(msg tea.KeyMsg) tea.Cmd {
	ov := m.overlay
	switch {
	case ov.cmdline:
		m.overlayPromptKey(msg)
	case ov.ed == nil:
		m.fieldSelectKey(msg)
	case ov.ed.Mode() == fieldedit.ModeInsert:
		m.fieldInsertKey(msg)
	default:
		m.fieldNormalKey(msg)
	}
	return nil
}

// fieldSelectKey navigates the field list.
func (m *Model) fieldSelectKey(msg tea.KeyMsg) {
	ov := m.overlay
	switch msg.String() {
	case "esc", "q":
		m.closeOverlay()
	case "j", "down":
		if ov.index < len(ov.fields)-1 {
			ov.index++
		}
	case "k", "up":
		if ov.index > 0 {
			ov.index--
		}
	case "enter":
		m.enterField(false)
	case "i":
		m.enterField(true)
	}
}

// enterField opens the selected field in the editor, in normal mode or
// straight into insert mode with the cursor at the end.
func (m *Model) enterField(insert bool) {
	ov := m.overlay
	text, err := session.FieldText(m.sess.Document(), ov.ref, ov.fields[ov.index].field)
	if err != nil {
		m.message = err.Error()
		m.closeOverlay()
		return
	}
	ov.ed = fieldedit.New(text)
	ov.baseline = text
	if insert {
		ov.ed.BufferEnd()
		ov.ed.SetMode(fieldedit.ModeInsert)
	} else {
		ov.ed.SetMode(fieldedit.ModeNormal)
	}
}

// commitField applies the edited text as one replace command and
// returns to the field list. A rejected value, such as a non-integer
// percentage, keeps the editor open.
func (m *Model) commitField() {
	ov := m.overlay
	text := ov.ed.Content()
	if text != ov.baseline {
		cmd := &session.ReplaceFieldText{Ref: ov.ref, Field: ov.fields[ov.index].field, Text: text}
		if err := m.sess.Apply(cmd); err != nil {
			m.message = err.Error()
			return
		}
	}
	ov.ed = nil
	ov.pending = ""
}

// fieldNormalKey handles cursor motion and line edits within a field.
func (m *Model) fieldNormalKey(msg tea.KeyMsg) {
	ov := m.overlay
	key := msg.String()

	if ov.pending != "" {
		combined := ov.pending + key
		ov.pending = ""
		switch combined {
		case "dd":
			ov.ed.DeleteLine()
		case "yy":
			ov.ed.YankLine()
		}
		return
	}

	switch key {
	case "esc":
		m.commitField()
	case "h", "left":
		ov.ed.Left()
	case "l", "right":
		ov.ed.Right()
	case "up":
		ov.ed.Up()
	case "down":
		ov.ed.Down()
	case "0":
		ov.ed.LineStart()
	case "$":
		ov.ed.LineEnd()
	case "w":
		ov.ed.WordForward()
	case "b":
		ov.ed.WordBackward()
	case "e":
		ov.ed.WordEnd()
	case "g":
		ov.ed.BufferStart()
	case "G":
		ov.ed.BufferEnd()
	case "x":
		ov.ed.DeleteChar()
	case "X":
		ov.ed.Backspace()
	case "s":
		ov.ed.DeleteChar()
		ov.ed.SetMode(fieldedit.ModeInsert)
	case "i":
		ov.ed.SetMode(fieldedit.ModeInsert)
	case "p":
		ov.ed.PasteLine()
	case "d", "y":
		ov.pending = key
	case ":":
		ov.cmdline = true
		ov.input = ""
	}
}

// fieldInsertKey types into the field.
func (m *Model) fieldInsertKey(msg tea.KeyMsg) {
	ov := m.overlay
	switch msg.Type {
	case tea.KeyEsc:
		ov.ed.SetMode(fieldedit.ModeNormal)
	case tea.KeyEnter:
		ov.ed.InsertChar('\n')
	case tea.KeyBackspace:
		ov.ed.Backspace()
	case tea.KeyLeft:
		ov.ed.Left()
	case tea.KeyRight:
		ov.ed.Right()
	case tea.KeyUp:
		ov.ed.Up()
	case tea.KeyDown:
		ov.ed.Down()
	case tea.KeySpace:
		ov.ed.InsertChar(' ')
	case tea.KeyRunes:
		ov.ed.InsertString(string(msg.Runes))
	}
}

// overlayPromptKey edits the substitute command line.
func (m *Model) overlayPromptKey(msg tea.KeyMsg) {
	ov := m.overlay
	switch msg.Type {
	case tea.KeyEsc:
		ov.cmdline = false
		ov.input = ""
	case tea.KeyEnter:
		input := ov.input
		ov.cmdline = false
		ov.input = ""
		m.runSubstitute(input)
	case tea.KeyBackspace:
		if ov.input == "" {
			ov.cmdline = false
			return
		}
		runes := []rune(ov.input)
		ov.input = string(runes[:len(runes)-1])
	case tea.KeySpace:
		ov.input += " "
	case tea.KeyRunes:
		ov.input += string(msg.Runes)
	}
}

// runSubstitute executes a parsed :s command on the open field editor.
func (m *Model) runSubstitute(cmd string) {
	scope, occ, pattern, replacement, ok := parseSubstitute(cmd)
	if !ok {
		m.message = "malformed substitute (use :s/pattern/replacement/[g])"
		return
	}
	_, n := m.overlay.ed.Substitute(scope, occ, pattern, replacement)
	if n == 0 {
		m.message = "no match: " + pattern
		return
	}
	plural := "s"
	if n == 1 {
		plural = ""
	}
	m.message = fmt.Sprintf("%d replacement%s", n, plural)
}

// parseSubstitute parses "s/pat/rep", "s/pat/rep/g" and the "%s"
// all-lines variants. The replacement may be empty; trailing flags
// other than g are rejected.
func parseSubstitute(cmd string) (fieldedit.Scope, fieldedit.Occurrence, string, string, bool) {
	scope := fieldedit.ScopeCurrentLine
	if strings.HasPrefix(cmd, "%") {
		scope = fieldedit.ScopeAllLines
		cmd = cmd[1:]
	}
	if !strings.HasPrefix(cmd, "s/") {
		return 0, 0, "", "", false
	}
	parts := strings.SplitN(cmd[2:], "/", 3)
	if len(parts) < 2 || parts[0] == "" {
		return 0, 0, "", "", false
	}
	occ := fieldedit.OccurrenceFirst
	if len(parts) == 3 {
		switch parts[2] {
		case "g":
			occ = fieldedit.OccurrenceAll
		case "":
		default:
			return 0, 0, "", "", false
		}
	}
	return scope, occ, parts[0], parts[1], true
}
