package session

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/voidwyrm/revw/internal/format"
	"github.com/voidwyrm/revw/internal/record"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := New(WithRand(rand.New(rand.NewSource(1))))
	s.LoadDocument(testDoc())
	return s
}

func outsideNames(d *record.Document) []string {
	names := make([]string, len(d.Outside))
	for i, r := range d.Outside {
		names[i] = r.Name
	}
	return names
}

func TestApplyThenUndoAll_RestoresDocument(t *testing.T) {
	s := newTestSession(t)
	want := s.Document().Clone()

	cmds := []Command{
		&InsertRecord{
			Ref:    record.Ref{Section: record.SectionInside, Index: 0},
			Inside: record.InsideRecord{Date: "2025-02-01 00:00:00", Context: "x"},
		},
		&ReplaceFieldText{
			Ref:   record.Ref{Section: record.SectionOutside, Index: 0},
			Field: FieldName,
			Text:  "Rust 2024",
		},
		&DeleteRecord{Ref: record.Ref{Section: record.SectionInside, Index: 2}},
		&DuplicateRecord{Ref: record.Ref{Section: record.SectionOutside, Index: 1}},
		&ReorderSection{Section: record.SectionOutside, Perm: []int{3, 2, 1, 0}},
		&InsertChar{
			Ref:   record.Ref{Section: record.SectionOutside, Index: 0},
			Field: FieldContext,
			Pos:   0,
			Char:  '!',
		},
	}
	for i, cmd := range cmds {
		if err := s.Apply(cmd); err != nil {
			t.Fatalf("apply %d (%s): %v", i, cmd.Describe(), err)
		}
	}
	for range cmds {
		if !s.Undo() {
			t.Fatalf("undo exhausted early")
		}
	}
	if !s.Document().Equal(want) {
		t.Errorf("document after undoing everything differs from the original")
	}
	if s.Undo() {
		t.Errorf("undo past the start reported work done")
	}
}

func TestRedo_ReappliesUndoneCommands(t *testing.T) {
	s := newTestSession(t)
	if err := s.Apply(&DeleteRecord{Ref: record.Ref{Section: record.SectionOutside, Index: 0}}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	after := s.Document().Clone()

	if !s.Undo() {
		t.Fatalf("undo reported nothing to do")
	}
	if !s.Redo() {
		t.Fatalf("redo reported nothing to do")
	}
	if !s.Document().Equal(after) {
		t.Errorf("redo did not restore the post-command document")
	}
	if s.Redo() {
		t.Errorf("redo past the end reported work done")
	}
}

func TestApply_TruncatesRedoTail(t *testing.T) {
	s := newTestSession(t)
	ref := record.Ref{Section: record.SectionOutside, Index: 0}
	s.Apply(&ReplaceFieldText{Ref: ref, Field: FieldName, Text: "A"})
	s.Apply(&ReplaceFieldText{Ref: ref, Field: FieldName, Text: "B"})
	s.Undo()
	s.Apply(&ReplaceFieldText{Ref: ref, Field: FieldName, Text: "C"})

	if s.CanRedo() {
		t.Errorf("redo tail survived a new apply")
	}
	if s.Document().Outside[0].Name != "C" {
		t.Errorf("name = %q, want %q", s.Document().Outside[0].Name, "C")
	}
	s.Undo()
	if s.Document().Outside[0].Name != "A" {
		t.Errorf("name = %q, want %q", s.Document().Outside[0].Name, "A")
	}
}

func TestFailedApply_LeavesHistoryAlone(t *testing.T) {
	s := newTestSession(t)
	err := s.Apply(&DeleteRecord{Ref: record.Ref{Section: record.SectionOutside, Index: 99}})
	var ee *EditError
	if !errors.As(err, &ee) {
		t.Fatalf("error = %v, want *EditError", err)
	}
	if s.CanUndo() {
		t.Errorf("failed command was pushed onto history")
	}
	if s.Modified() {
		t.Errorf("failed command marked the session modified")
	}
}

func TestSetFilter_MatchesRenderedTextCaseInsensitive(t *testing.T) {
	s := newTestSession(t)
	s.SetFilter("RUST")
	vis := s.Visible()
	if len(vis) != 1 || vis[0] != (record.Ref{Section: record.SectionOutside, Index: 0}) {
		t.Fatalf("visible = %+v", vis)
	}

	// The URL participates in the rendered text too.
	s.SetFilter("u")
	found := false
	for _, ref := range s.Visible() {
		if ref == (record.Ref{Section: record.SectionOutside, Index: 0}) {
			found = true
		}
	}
	if !found {
		t.Errorf("filter on url text missed the record")
	}
}

func TestClearFilter_RestoresAllRecords(t *testing.T) {
	s := newTestSession(t)
	all := len(s.Visible())
	s.SetFilter("third")
	if len(s.Visible()) != 1 {
		t.Fatalf("visible = %+v", s.Visible())
	}
	s.ClearFilter()
	if len(s.Visible()) != all {
		t.Errorf("visible = %d records, want %d", len(s.Visible()), all)
	}
	if got := outsideNames(s.Document()); strings.Join(got, ",") != "Rust,ada,Go" {
		t.Errorf("filtering changed storage order: %v", got)
	}
}

func TestDeleteUnderFilter_RemovesIntendedRecord(t *testing.T) {
	s := newTestSession(t)
	s.SetFilter("go")
	vis := s.Visible()
	if len(vis) != 1 {
		t.Fatalf("visible = %+v", vis)
	}
	// vis[0] is the Go record at storage index 2 even though it sits
	// at visible position 0.
	if err := s.Apply(&DeleteRecord{Ref: vis[0]}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	for _, r := range s.Document().Outside {
		if r.Name == "Go" {
			t.Errorf("deleted record still in storage")
		}
	}
	if len(s.Visible()) != 0 {
		t.Errorf("visible after delete = %+v", s.Visible())
	}
}

func TestOrder_PercentageThenName(t *testing.T) {
	s := newTestSession(t)
	if err := s.Order(record.SectionOutside, PercentageThenName); err != nil {
		t.Fatalf("order: %v", err)
	}
	// ada 90, Rust 40, Go absent.
	if got := outsideNames(s.Document()); strings.Join(got, ",") != "ada,Rust,Go" {
		t.Fatalf("order = %v", got)
	}

	// Idempotent: ordering again changes nothing and records nothing.
	undoDepth := s.history.Len()
	if err := s.Order(record.SectionOutside, PercentageThenName); err != nil {
		t.Fatalf("order: %v", err)
	}
	if got := outsideNames(s.Document()); strings.Join(got, ",") != "ada,Rust,Go" {
		t.Errorf("second order = %v", got)
	}
	if s.history.Len() != undoDepth {
		t.Errorf("identity order was pushed onto history")
	}
}

func TestOrder_NameOnly(t *testing.T) {
	s := newTestSession(t)
	if err := s.Order(record.SectionOutside, NameOnly); err != nil {
		t.Fatalf("order: %v", err)
	}
	if got := outsideNames(s.Document()); strings.Join(got, ",") != "ada,Go,Rust" {
		t.Errorf("order = %v", got)
	}
}

func TestOrder_InsideSortsByDateDescending(t *testing.T) {
	s := newTestSession(t)
	if err := s.Order(record.SectionInside, PercentageThenName); err != nil {
		t.Fatalf("order: %v", err)
	}
	dates := make([]string, len(s.Document().Inside))
	for i, r := range s.Document().Inside {
		dates[i] = r.Date
	}
	want := "2025-01-03 10:00:00,2025-01-02 10:00:00,2025-01-01 10:00:00"
	if strings.Join(dates, ",") != want {
		t.Errorf("dates = %v", dates)
	}
}

func TestOrder_RandomIsUndoable(t *testing.T) {
	s := newTestSession(t)
	want := s.Document().Clone()
	if err := s.Order(record.SectionOutside, Random); err != nil {
		t.Fatalf("order: %v", err)
	}
	// Regardless of the permutation drawn, undo must restore the
	// exact prior order. An identity draw applies no command, which
	// leaves the document untouched either way.
	s.Undo()
	if !s.Document().Equal(want) {
		t.Errorf("undo after random order did not restore storage order")
	}
}

func TestCopyRendered_Scopes(t *testing.T) {
	s := newTestSession(t)

	all, err := s.CopyRendered(CopyAll, record.Ref{})
	if err != nil {
		t.Fatalf("copy all: %v", err)
	}
	if !strings.HasPrefix(all, "OUTSIDE\n\nRust\nc\nu\n40%\n\nada\n90%") {
		t.Errorf("copy all = %q", all)
	}
	if !strings.Contains(all, "\n\nINSIDE\n\n2025-01-02 10:00:00\nsecond") {
		t.Errorf("copy all missing inside block: %q", all)
	}

	inside, err := s.CopyRendered(CopyInside, record.Ref{})
	if err != nil {
		t.Fatalf("copy inside: %v", err)
	}
	if !strings.HasPrefix(inside, "INSIDE\n\n") || strings.Contains(inside, "OUTSIDE") {
		t.Errorf("copy inside = %q", inside)
	}

	sel, err := s.CopyRendered(CopySelection, record.Ref{Section: record.SectionOutside, Index: 1})
	if err != nil {
		t.Fatalf("copy selection: %v", err)
	}
	if sel != "ada\n90%" {
		t.Errorf("copy selection = %q", sel)
	}

	var ee *EditError
	if _, err := s.CopyRendered(CopySelection, record.Ref{Section: record.SectionOutside, Index: 9}); !errors.As(err, &ee) {
		t.Errorf("error = %v, want *EditError", err)
	}
}

func TestLoad_ResetsHistoryAndFilter(t *testing.T) {
	s := newTestSession(t)
	s.Apply(&DeleteRecord{Ref: record.Ref{Section: record.SectionOutside, Index: 0}})
	s.SetFilter("ada")

	data := format.Serialize(format.JSON, testDoc())
	if err := s.Load(data, format.JSON); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.CanUndo() {
		t.Errorf("history survived a load")
	}
	if s.FilterPattern() != "" {
		t.Errorf("filter survived a load")
	}
	if s.Modified() {
		t.Errorf("freshly loaded session reports modified")
	}
	if len(s.Visible()) != 6 {
		t.Errorf("visible = %d records, want 6", len(s.Visible()))
	}
}

func TestLoad_ParseErrorKeepsState(t *testing.T) {
	s := newTestSession(t)
	s.Apply(&DeleteRecord{Ref: record.Ref{Section: record.SectionOutside, Index: 0}})
	before := s.Document().Clone()

	err := s.Load([]byte("{broken"), format.JSON)
	var fe *format.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *format.FormatError", err)
	}
	if !s.Document().Equal(before) {
		t.Errorf("failed load replaced the document")
	}
	if !s.CanUndo() {
		t.Errorf("failed load cleared the history")
	}
}

func TestSave_ClearsModified(t *testing.T) {
	s := newTestSession(t)
	s.Apply(&DuplicateRecord{Ref: record.Ref{Section: record.SectionInside, Index: 0}})
	if !s.Modified() {
		t.Fatalf("apply did not mark the session modified")
	}
	data := s.Save(format.Tabular)
	if s.Modified() {
		t.Errorf("save left the session modified")
	}
	got, err := format.Parse(format.Tabular, data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !got.Equal(s.Document()) {
		t.Errorf("saved bytes do not round trip the document")
	}
}

func TestUndo_MarksModified(t *testing.T) {
	s := newTestSession(t)
	s.Apply(&DeleteRecord{Ref: record.Ref{Section: record.SectionInside, Index: 0}})
	s.Save(format.JSON)
	s.Undo()
	if !s.Modified() {
		t.Errorf("undo after save did not mark the session modified")
	}
}
