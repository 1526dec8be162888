package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/voidwyrm/revw/internal/fieldedit"
	"github.com/voidwyrm/revw/internal/record"
	"github.com/voidwyrm/revw/internal/session"
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))
)

// View renders the record list or the edit overlay, with a status bar
// and a prompt/message line at the bottom.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading...\n"
	}

	var body string
	if m.mode == ModeEdit && m.overlay != nil {
		body = m.overlayView()
	} else {
		body = m.listView()
	}
	return body + "\n" + m.statusBar() + "\n" + m.bottomLine()
}

// listView renders both sections, the active selection highlighted.
func (m *Model) listView() string {
	var b strings.Builder
	for i, s := range []record.Section{record.SectionOutside, record.SectionInside} {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headerStyle.Render(s.String()))
		b.WriteString("\n")
		m.renderSection(&b, s)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderSection(b *strings.Builder, s record.Section) {
	refs := m.visibleIn(s)
	active := s == m.active

	limit := m.opts.MaxVisible
	// Roughly three rows per record: text, detail, separator.
	if m.height > 0 {
		if byHeight := m.height / 3; byHeight > 0 && byHeight < limit {
			limit = byHeight
		}
	}
	start := 0
	if active && m.cursor >= limit {
		start = m.cursor - limit + 1
	}
	end := start + limit
	if end > len(refs) {
		end = len(refs)
	}

	if start > 0 {
		fmt.Fprintf(b, "%s\n", detailStyle.Render(fmt.Sprintf("... %d above", start)))
	}
	for i := start; i < end; i++ {
		m.renderRecord(b, refs[i], active && i == m.cursor)
	}
	if end < len(refs) {
		fmt.Fprintf(b, "%s\n", detailStyle.Render(fmt.Sprintf("... %d more", len(refs)-end)))
	}
}

func (m *Model) renderRecord(b *strings.Builder, ref record.Ref, selected bool) {
	doc := m.sess.Document()
	var text string
	if ref.Section == record.SectionOutside {
		text = doc.Outside[ref.Index].Render()
	} else {
		text = doc.Inside[ref.Index].Render()
	}
	if text == "" {
		text = "(empty)"
	}
	for i, line := range strings.Split(text, "\n") {
		switch {
		case selected:
			line = selectedStyle.Render("  " + line)
		case i > 0:
			line = "  " + detailStyle.Render(line)
		default:
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// overlayView renders the field list, or the open field editor.
func (m *Model) overlayView() string {
	ov := m.overlay
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", headerStyle.Render("edit "+sectionName(ov.ref.Section)+" record"))

	if ov.ed == nil {
		doc := m.sess.Document()
		for i, f := range ov.fields {
			text, err := session.FieldText(doc, ov.ref, f.field)
			if err != nil {
				text = "?"
			}
			line := fmt.Sprintf("%-10s %s", f.label, fieldedit.Preview(text))
			if i == ov.index {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("j/k select  enter edit  i append  esc close"))
		return b.String()
	}

	fmt.Fprintf(&b, "%s\n", detailStyle.Render(ov.fields[ov.index].label))
	b.WriteString(renderWithCursor(ov.ed))
	b.WriteString("\n\n")
	if ov.ed.Mode() == fieldedit.ModeInsert {
		b.WriteString(hintStyle.Render("esc to normal mode"))
	} else {
		b.WriteString(hintStyle.Render("i insert  :s substitute  esc commit"))
	}
	return b.String()
}

// renderWithCursor draws the editor content with a block cursor.
func renderWithCursor(ed *fieldedit.Editor) string {
	runes := []rune(ed.Content())
	cur := ed.Cursor()
	if cur >= len(runes) {
		return string(runes) + cursorStyle.Render(" ")
	}
	at := string(runes[cur])
	if at == "\n" {
		at = cursorStyle.Render(" ") + "\n"
	} else {
		at = cursorStyle.Render(at)
	}
	return string(runes[:cur]) + at + string(runes[cur+1:])
}

func (m *Model) statusBar() string {
	file := m.path
	if file == "" {
		file = "[no name]"
	}
	left := statusStyle.Render(strings.ToUpper(m.modeLabel())) + " " + file
	if m.sess.Modified() {
		left += " [+]"
	}
	if p := m.sess.FilterPattern(); p != "" {
		left += "  /" + p
	}

	refs := m.visibleIn(m.active)
	pos := 0
	if len(refs) > 0 {
		pos = m.cursor + 1
	}
	right := fmt.Sprintf("%s %d/%d", sectionName(m.active), pos, len(refs))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + hintStyle.Render(right)
}

func (m *Model) modeLabel() string {
	switch m.mode {
	case ModeFilter:
		return "filter"
	case ModeCommand:
		return "command"
	case ModeOrder:
		return "order"
	case ModeCopy:
		return "copy"
	case ModeEdit:
		if m.overlay == nil || m.overlay.ed == nil {
			return "select"
		}
		return m.overlay.ed.Mode().String()
	default:
		return "view"
	}
}

func (m *Model) bottomLine() string {
	switch {
	case m.mode == ModeFilter:
		return "/" + m.input
	case m.mode == ModeCommand:
		return ":" + m.input
	case m.mode == ModeEdit && m.overlay != nil && m.overlay.cmdline:
		return ":" + m.overlay.input
	case m.mode == ModeOrder:
		return hintStyle.Render("order: 1 percentage+name  2 percentage  3 name  4 random  esc cancel")
	case m.mode == ModeCopy:
		return hintStyle.Render("copy: a all  o outside  i inside  s selection  esc cancel")
	}
	return m.message
}
