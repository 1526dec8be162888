package tui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/voidwyrm/revw/internal/record"
	"github.com/voidwyrm/revw/internal/session"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fileChangedMsg:
		if m.autoReload && !m.sess.Modified() && time.Since(m.lastSave) > saveQuiet {
			m.reload()
		}
		return m, m.watchCmd()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.message = ""
		switch m.mode {
		case ModeEdit:
			return m, m.overlayKey(msg)
		case ModeFilter, ModeCommand:
			return m, m.promptKey(msg)
		case ModeOrder:
			m.orderKey(msg)
			return m, nil
		case ModeCopy:
			m.copyKey(msg)
			return m, nil
		default:
			return m, m.viewKey(msg)
		}
	}
	return m, nil
}

// viewKey handles normal-mode keys over the record list.
func (m *Model) viewKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()

	if m.pending != "" {
		combined := m.pending + key
		m.pending = ""
		switch combined {
		case "gg":
			m.cursor = 0
		case "dd":
			m.deleteSelected()
		case "yy":
			m.duplicateSelected()
		}
		return nil
	}

	switch key {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "tab":
		m.setSection(otherSection(m.active))
	case "J", "}":
		m.setSection(record.SectionInside)
	case "K", "{":
		m.setSection(record.SectionOutside)
	case "g", "d", "y":
		m.pending = key
	case "G":
		if n := len(m.visibleIn(m.active)); n > 0 {
			m.cursor = n - 1
		}
	case "p":
		m.pasteYanked()
	case "u":
		if !m.sess.Undo() {
			m.message = "nothing to undo"
		}
		m.clampCursor()
	case "ctrl+r":
		if !m.sess.Redo() {
			m.message = "nothing to redo"
		}
		m.clampCursor()
	case "o":
		m.mode = ModeOrder
	case "c":
		m.mode = ModeCopy
	case "a":
		m.addRecord()
	case "e", "enter":
		m.openOverlay()
	case "/":
		m.mode = ModeFilter
		m.input = ""
	case ":":
		m.mode = ModeCommand
		m.input = ""
	case "esc":
		if m.sess.FilterPattern() != "" {
			m.sess.ClearFilter()
			m.clampCursor()
			m.message = "filter cleared"
		}
	case "q":
		if m.sess.Modified() {
			m.message = "unsaved changes (:q! discards, :wq saves)"
			return nil
		}
		return tea.Quit
	}
	return nil
}

// promptKey edits the filter or command line buffer.
func (m *Model) promptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeView
		m.input = ""
	case tea.KeyEnter:
		input := m.input
		mode := m.mode
		m.mode = ModeView
		m.input = ""
		if mode == ModeFilter {
			m.sess.SetFilter(input)
			m.clampCursor()
			return nil
		}
		return m.execCommand(input)
	case tea.KeyBackspace:
		if m.input == "" {
			m.mode = ModeView
			return nil
		}
		runes := []rune(m.input)
		m.input = string(runes[:len(runes)-1])
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return nil
}

// orderKey picks the ordering applied to the active section.
func (m *Model) orderKey(msg tea.KeyMsg) {
	var key session.OrderKey
	switch msg.String() {
	case "1":
		key = session.PercentageThenName
	case "2":
		key = session.PercentageOnly
	case "3":
		key = session.NameOnly
	case "4":
		key = session.Random
	case "esc", "q":
		m.mode = ModeView
		return
	default:
		return
	}
	m.mode = ModeView
	if err := m.sess.Order(m.active, key); err != nil {
		m.message = err.Error()
		return
	}
	m.clampCursor()
	m.message = "ordered " + sectionName(m.active) + " by " + key.String()
}

// copyKey picks the clipboard copy scope.
func (m *Model) copyKey(msg tea.KeyMsg) {
	var scope session.CopyScope
	var sel record.Ref
	switch msg.String() {
	case "a":
		scope = session.CopyAll
	case "o":
		scope = session.CopyOutside
	case "i":
		scope = session.CopyInside
	case "s":
		ref, ok := m.selection()
		if !ok {
			m.mode = ModeView
			m.message = "no record selected"
			return
		}
		scope, sel = session.CopySelection, ref
	case "esc", "q":
		m.mode = ModeView
		return
	default:
		return
	}
	m.mode = ModeView
	text, err := m.sess.CopyRendered(scope, sel)
	if err != nil {
		m.message = err.Error()
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		m.message = "clipboard: " + err.Error()
		return
	}
	m.message = "copied to clipboard"
}

func otherSection(s record.Section) record.Section {
	if s == record.SectionOutside {
		return record.SectionInside
	}
	return record.SectionOutside
}

func sectionName(s record.Section) string {
	return strings.ToLower(s.String())
}

// visibleIn returns the filtered refs of one section, storage order.
func (m *Model) visibleIn(s record.Section) []record.Ref {
	var out []record.Ref
	for _, ref := range m.sess.Visible() {
		if ref.Section == s {
			out = append(out, ref)
		}
	}
	return out
}

// selection resolves the cursor to a storage ref in the active section.
func (m *Model) selection() (record.Ref, bool) {
	refs := m.visibleIn(m.active)
	if len(refs) == 0 {
		return record.Ref{}, false
	}
	if m.cursor >= len(refs) {
		return refs[len(refs)-1], true
	}
	return refs[m.cursor], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := len(m.visibleIn(m.active))
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

func (m *Model) setSection(s record.Section) {
	if m.active == s {
		return
	}
	m.active = s
	m.clampCursor()
}

// deleteSelected removes the selected record and keeps it in the yank
// register so p can put it back.
func (m *Model) deleteSelected() {
	ref, ok := m.selection()
	if !ok {
		m.message = "no record selected"
		return
	}
	doc := m.sess.Document()
	yank := &yankedRecord{Section: ref.Section}
	switch ref.Section {
	case record.SectionOutside:
		yank.Outside = doc.Outside[ref.Index].Clone()
	case record.SectionInside:
		yank.Inside = doc.Inside[ref.Index]
	}
	if err := m.sess.Apply(&session.DeleteRecord{Ref: ref}); err != nil {
		m.message = err.Error()
		return
	}
	m.yank = yank
	m.clampCursor()
	m.message = "deleted record"
}

func (m *Model) duplicateSelected() {
	ref, ok := m.selection()
	if !ok {
		m.message = "no record selected"
		return
	}
	if err := m.sess.Apply(&session.DuplicateRecord{Ref: ref}); err != nil {
		m.message = err.Error()
		return
	}
	m.message = "duplicated record"
}

// pasteYanked inserts the yank register after the selection when the
// selection is in the register's section, at the section end otherwise.
func (m *Model) pasteYanked() {
	if m.yank == nil {
		m.message = "nothing to paste"
		return
	}
	idx := m.sess.Document().Len(m.yank.Section)
	if sel, ok := m.selection(); ok && sel.Section == m.yank.Section {
		idx = sel.Index + 1
	}
	cmd := &session.InsertRecord{
		Ref:     record.Ref{Section: m.yank.Section, Index: idx},
		Outside: m.yank.Outside,
		Inside:  m.yank.Inside,
	}
	if err := m.sess.Apply(cmd); err != nil {
		m.message = err.Error()
		return
	}
	m.active = m.yank.Section
	m.cursorTo(record.Ref{Section: m.yank.Section, Index: idx})
	m.message = "pasted record"
}

// addRecord inserts a fresh record into the active section: inside
// records prepend with the current timestamp, outside records append
// empty. The filter is cleared so the new record is visible.
func (m *Model) addRecord() {
	m.sess.ClearFilter()
	doc := m.sess.Document()

	var cmd *session.InsertRecord
	switch m.active {
	case record.SectionInside:
		cmd = &session.InsertRecord{
			Ref:    record.Ref{Section: record.SectionInside, Index: 0},
			Inside: record.InsideRecord{Date: time.Now().Format(record.TimeLayout)},
		}
	default:
		cmd = &session.InsertRecord{
			Ref: record.Ref{Section: record.SectionOutside, Index: len(doc.Outside)},
		}
	}
	if err := m.sess.Apply(cmd); err != nil {
		m.message = err.Error()
		return
	}
	m.cursorTo(cmd.Ref)
	m.message = "added " + sectionName(m.active) + " record"
}

// cursorTo moves the selection to a storage ref, when visible.
func (m *Model) cursorTo(ref record.Ref) {
	for i, v := range m.visibleIn(ref.Section) {
		if v.Index == ref.Index {
			m.active = ref.Section
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}
