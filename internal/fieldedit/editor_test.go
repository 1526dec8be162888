package fieldedit

import "testing"

func TestInsertChar_ReturnsPrior(t *testing.T) {
	e := New("ab")
	e.Right()
	prior := e.InsertChar('x')
	if prior != "ab" {
		t.Errorf("prior = %q, want %q", prior, "ab")
	}
	if e.Content() != "axb" {
		t.Errorf("content = %q, want %q", e.Content(), "axb")
	}
	if e.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", e.Cursor())
	}
}

func TestBackspace_AtStartIsNoop(t *testing.T) {
	e := New("ab")
	if prior := e.Backspace(); prior != "ab" || e.Content() != "ab" {
		t.Errorf("content = %q, prior = %q", e.Content(), prior)
	}
	e.BufferEnd()
	e.Backspace()
	if e.Content() != "a" || e.Cursor() != 1 {
		t.Errorf("content = %q, cursor = %d", e.Content(), e.Cursor())
	}
}

func TestDeleteChar_UnderCursor(t *testing.T) {
	e := New("abc")
	e.Right()
	e.DeleteChar()
	if e.Content() != "ac" || e.Cursor() != 1 {
		t.Errorf("content = %q, cursor = %d", e.Content(), e.Cursor())
	}
	e.BufferEnd()
	if prior := e.DeleteChar(); prior != "ac" || e.Content() != "ac" {
		t.Errorf("delete at end changed content: %q", e.Content())
	}
}

func TestMode_StartsInFieldSelect(t *testing.T) {
	e := New("")
	if e.Mode() != ModeFieldSelect {
		t.Errorf("mode = %v, want field select", e.Mode())
	}
	e.SetMode(ModeInsert)
	if e.Mode() != ModeInsert {
		t.Errorf("mode = %v, want insert", e.Mode())
	}
}

func TestPreview_EscapesNewlines(t *testing.T) {
	if got := Preview("line one\nline two"); got != `line one\nline two` {
		t.Errorf("preview = %q", got)
	}
}

func TestWordForward(t *testing.T) {
	e := New("foo bar.baz")
	e.WordForward()
	if e.Cursor() != 4 {
		t.Errorf("cursor = %d, want 4 (start of bar)", e.Cursor())
	}
	e.WordForward()
	if e.Cursor() != 7 {
		t.Errorf("cursor = %d, want 7 (the dot)", e.Cursor())
	}
	e.WordForward()
	if e.Cursor() != 8 {
		t.Errorf("cursor = %d, want 8 (start of baz)", e.Cursor())
	}
}

func TestWordBackward(t *testing.T) {
	e := New("foo bar.baz")
	e.BufferEnd()
	e.WordBackward()
	if e.Cursor() != 8 {
		t.Errorf("cursor = %d, want 8 (start of baz)", e.Cursor())
	}
	e.WordBackward()
	if e.Cursor() != 7 {
		t.Errorf("cursor = %d, want 7 (the dot)", e.Cursor())
	}
	e.WordBackward()
	e.WordBackward()
	if e.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", e.Cursor())
	}
}

func TestWordEnd(t *testing.T) {
	e := New("ab cd")
	e.WordEnd()
	if e.Cursor() != 1 {
		t.Errorf("cursor = %d, want 1 (end of ab)", e.Cursor())
	}
	e.WordEnd()
	if e.Cursor() != 4 {
		t.Errorf("cursor = %d, want 4 (end of cd)", e.Cursor())
	}
	e.WordEnd()
	if e.Cursor() != 4 {
		t.Errorf("cursor = %d, want 4 (stays at last word)", e.Cursor())
	}
}

func TestUpDown_ClampsColumn(t *testing.T) {
	e := New("long line\nab\nanother")
	e.LineEnd() // col 9 on line 0
	e.Down()
	if e.CursorLine() != 1 || e.CursorCol() != 2 {
		t.Errorf("line/col = %d/%d, want 1/2", e.CursorLine(), e.CursorCol())
	}
	e.Down()
	if e.CursorLine() != 2 || e.CursorCol() != 2 {
		t.Errorf("line/col = %d/%d, want 2/2", e.CursorLine(), e.CursorCol())
	}
	e.Up()
	e.Up()
	if e.CursorLine() != 0 || e.CursorCol() != 2 {
		t.Errorf("line/col = %d/%d, want 0/2", e.CursorLine(), e.CursorCol())
	}
	e.Up() // already on first line
	if e.CursorLine() != 0 {
		t.Errorf("line = %d, want 0", e.CursorLine())
	}
}

func TestLineJumps(t *testing.T) {
	e := New("ab\ncdef")
	e.Down()
	e.Right()
	e.LineEnd()
	if e.Cursor() != 7 {
		t.Errorf("cursor = %d, want 7", e.Cursor())
	}
	e.LineStart()
	if e.Cursor() != 3 {
		t.Errorf("cursor = %d, want 3", e.Cursor())
	}
	e.BufferStart()
	if e.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", e.Cursor())
	}
}

func TestDeleteLine_MiddleAndLast(t *testing.T) {
	e := New("a\nb\nc")
	e.Down() // line 1
	prior := e.DeleteLine()
	if prior != "a\nb\nc" {
		t.Errorf("prior = %q", prior)
	}
	if e.Content() != "a\nc" {
		t.Errorf("content = %q, want %q", e.Content(), "a\nc")
	}
	if e.CursorLine() != 1 || e.CursorCol() != 0 {
		t.Errorf("line/col = %d/%d, want 1/0", e.CursorLine(), e.CursorCol())
	}

	e.DeleteLine() // last line: preceding newline goes too
	if e.Content() != "a" {
		t.Errorf("content = %q, want %q", e.Content(), "a")
	}
	e.DeleteLine() // only line
	if e.Content() != "" || e.Cursor() != 0 {
		t.Errorf("content = %q, cursor = %d", e.Content(), e.Cursor())
	}
}

func TestYankPasteLine(t *testing.T) {
	e := New("a\nb")
	if got := e.YankLine(); got != "a" {
		t.Errorf("yanked = %q, want %q", got, "a")
	}
	e.PasteLine()
	if e.Content() != "a\na\nb" {
		t.Errorf("content = %q, want %q", e.Content(), "a\na\nb")
	}
	if e.CursorLine() != 1 {
		t.Errorf("line = %d, want 1 (start of pasted line)", e.CursorLine())
	}
}

func TestPasteLine_WithoutYankIsNoop(t *testing.T) {
	e := New("a")
	e.PasteLine()
	if e.Content() != "a" {
		t.Errorf("content = %q, want %q", e.Content(), "a")
	}
}

func TestDeleteThenPaste_MovesLine(t *testing.T) {
	e := New("a\nb\nc")
	e.Down()
	e.DeleteLine() // cuts b, cursor on c
	e.PasteLine()
	if e.Content() != "a\nc\nb" {
		t.Errorf("content = %q, want %q", e.Content(), "a\nc\nb")
	}
}

func TestSetContent_ClampsCursor(t *testing.T) {
	e := New("abcdef")
	e.BufferEnd()
	prior := e.SetContent("ab")
	if prior != "abcdef" {
		t.Errorf("prior = %q", prior)
	}
	if e.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", e.Cursor())
	}
}
