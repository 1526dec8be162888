package fieldedit

import "unicode"

// Left moves one rune back, crossing newlines.
func (e *Editor) Left() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// Right moves one rune forward, crossing newlines.
func (e *Editor) Right() {
	if e.cursor < len(e.content) {
		e.cursor++
	}
}

// Up moves to the previous line, keeping the column when it fits.
func (e *Editor) Up() {
	start, _ := e.lineBounds()
	if start == 0 {
		return
	}
	col := e.cursor - start
	prevEnd := start - 1
	prevStart := prevEnd
	for prevStart > 0 && e.content[prevStart-1] != '\n' {
		prevStart--
	}
	if col > prevEnd-prevStart {
		col = prevEnd - prevStart
	}
	e.cursor = prevStart + col
}

// Down moves to the next line, keeping the column when it fits.
func (e *Editor) Down() {
	start, end := e.lineBounds()
	if end >= len(e.content) {
		return
	}
	col := e.cursor - start
	nextStart := end + 1
	nextEnd := nextStart
	for nextEnd < len(e.content) && e.content[nextEnd] != '\n' {
		nextEnd++
	}
	if col > nextEnd-nextStart {
		col = nextEnd - nextStart
	}
	e.cursor = nextStart + col
}

// LineStart moves to the first rune of the current line.
func (e *Editor) LineStart() {
	start, _ := e.lineBounds()
	e.cursor = start
}

// LineEnd moves past the last rune of the current line.
func (e *Editor) LineEnd() {
	_, end := e.lineBounds()
	e.cursor = end
}

// BufferStart moves to the start of the field.
func (e *Editor) BufferStart() { e.cursor = 0 }

// BufferEnd moves past the last rune of the field.
func (e *Editor) BufferEnd() { e.cursor = len(e.content) }

// charClass groups runes for word motions: whitespace separates words,
// and a word is either a run of letters, digits, and underscores or a
// run of other punctuation.
func charClass(c rune) int {
	switch {
	case unicode.IsSpace(c):
		return 0
	case c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c):
		return 1
	default:
		return 2
	}
}

// WordForward moves to the start of the next word.
func (e *Editor) WordForward() {
	pos := e.cursor
	if pos >= len(e.content) {
		return
	}
	if cls := charClass(e.content[pos]); cls != 0 {
		for pos < len(e.content) && charClass(e.content[pos]) == cls {
			pos++
		}
	}
	for pos < len(e.content) && charClass(e.content[pos]) == 0 {
		pos++
	}
	e.cursor = pos
}

// WordBackward moves to the start of the previous word, or of the
// current one when the cursor is inside it.
func (e *Editor) WordBackward() {
	pos := e.cursor
	if pos == 0 {
		return
	}
	pos--
	for pos > 0 && charClass(e.content[pos]) == 0 {
		pos--
	}
	cls := charClass(e.content[pos])
	for pos > 0 && charClass(e.content[pos-1]) == cls && cls != 0 {
		pos--
	}
	e.cursor = pos
}

// WordEnd moves to the last rune of the current or next word.
func (e *Editor) WordEnd() {
	pos := e.cursor
	if pos >= len(e.content) {
		return
	}
	pos++
	for pos < len(e.content) && charClass(e.content[pos]) == 0 {
		pos++
	}
	if pos >= len(e.content) {
		return
	}
	cls := charClass(e.content[pos])
	for pos+1 < len(e.content) && charClass(e.content[pos+1]) == cls {
		pos++
	}
	e.cursor = pos
}
