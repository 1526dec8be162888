package format

import (
	"testing"

	"github.com/voidwyrm/revw/internal/record"
)

// sampleDoc builds a document that exercises every value shape all
// three codecs must carry: multi-line context, zero versus absent
// percentage, empty optional fields, and an empty inside context.
func sampleDoc() *record.Document {
	return &record.Document{
		Outside: []record.OutsideRecord{
			{Name: "Rust", Context: "Systems language.", URL: "https://rust-lang.org", Percentage: record.Percent(100)},
			{Name: "Go", Context: "First line.\n\nAfter a gap.", URL: "https://go.dev", Percentage: record.Percent(0)},
			{Name: "Zig"},
		},
		Inside: []record.InsideRecord{
			{Date: "2025-06-01 10:00:00", Context: "Read the borrow checker chapter."},
			{Date: "2025-06-02 09:30:00"},
		},
	}
}

func TestRoundTrip_AllFormats(t *testing.T) {
	d := sampleDoc()
	for _, f := range []Format{Markup, JSON, Tabular} {
		got, err := Parse(f, Serialize(f, d))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", f, err)
		}
		if !got.Equal(d) {
			t.Errorf("%s: round trip changed document", f)
		}
	}
}

func TestCrossFormat_Fidelity(t *testing.T) {
	// Converting through every format in turn must land on the same
	// document the chain started from.
	d := sampleDoc()
	chain := []Format{Markup, JSON, Tabular, Markup}
	cur := d
	for _, f := range chain {
		next, err := Parse(f, Serialize(f, cur))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", f, err)
		}
		cur = next
	}
	if !cur.Equal(d) {
		t.Errorf("conversion chain changed document")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"notes.md", Markup, false},
		{"notes.markdown", Markup, false},
		{"Notes.MD", Markup, false},
		{"notes.json", JSON, false},
		{"notes.toon", Tabular, false},
		{"notes.txt", Markup, true},
		{"notes", Markup, true},
	}
	for _, tt := range tests {
		got, err := Detect(tt.path)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Detect(%q): expected error", tt.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("Detect(%q): %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseName(t *testing.T) {
	for name, want := range map[string]Format{
		"md":       Markup,
		"markdown": Markup,
		"JSON":     JSON,
		"toon":     Tabular,
		"tabular":  Tabular,
	} {
		got, err := ParseName(name)
		if err != nil {
			t.Errorf("ParseName(%q): %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseName(%q) = %v, want %v", name, got, want)
		}
	}
	if _, err := ParseName("yaml"); err == nil {
		t.Errorf("ParseName(yaml): expected error")
	}
}

func TestFormatError_Message(t *testing.T) {
	if got := (&FormatError{Line: 3, Cause: "boom"}).Error(); got != "line 3: boom" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&FormatError{Offset: 17, Cause: "boom"}).Error(); got != "offset 17: boom" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&FormatError{Cause: "boom"}).Error(); got != "boom" {
		t.Errorf("Error() = %q", got)
	}
}
