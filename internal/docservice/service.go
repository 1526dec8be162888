// Package docservice coordinates storage, index, and codec operations on
// workspace documents. The HTTP API and the MCP server both sit on top of
// this service.
package docservice

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/voidwyrm/revw/internal/apperr"
	"github.com/voidwyrm/revw/internal/checksum"
	"github.com/voidwyrm/revw/internal/format"
	"github.com/voidwyrm/revw/internal/index"
	"github.com/voidwyrm/revw/internal/record"
	"github.com/voidwyrm/revw/internal/session"
	"github.com/voidwyrm/revw/internal/storage"
)

// DocumentDetail is the full representation of a document.
type DocumentDetail struct {
	Path         string    `json:"path"`
	Format       string    `json:"format"`
	Content      string    `json:"content"`
	Checksum     string    `json:"checksum"`
	OutsideCount int       `json:"outside_count"`
	InsideCount  int       `json:"inside_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListItem is a lightweight item in a list response.
type ListItem struct {
	Path         string    `json:"path"`
	Format       string    `json:"format"`
	Checksum     string    `json:"checksum"`
	OutsideCount int       `json:"outside_count"`
	InsideCount  int       `json:"inside_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	db    *index.DB
}

// NewService creates a new document service.
func NewService(store storage.Provider, db *index.DB) *Service {
	return &Service{store: store, db: db}
}

// GetDocument reads a document from storage and parses it.
func (s *Service) GetDocument(_ context.Context, path string) (*DocumentDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return buildDetail(path, data)
}

// CreateDocument writes a new document and indexes it. Empty content
// creates the default template: one blank outside record and one inside
// record stamped with the current time.
func (s *Service) CreateDocument(_ context.Context, path string, content []byte) (*DocumentDetail, error) {
	ft, err := format.Detect(path)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	if len(content) == 0 {
		content = format.Serialize(ft, record.DefaultDocument(time.Now()))
	}
	detail, err := buildDetail(path, content)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(path, content); err != nil {
		return nil, err
	}
	if err := index.IndexDocument(s.db, path, content); err != nil {
		return nil, err
	}
	return detail, nil
}

// AddInsideRecord prepends a new inside record stamped with the current
// time, going through the document engine so the edit obeys the same
// rules as an interactive one, then saves and reindexes.
func (s *Service) AddInsideRecord(_ context.Context, path, text string) (*DocumentDetail, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	ft, err := format.Detect(path)
	if err != nil {
		return nil, err
	}
	doc, err := format.Parse(ft, data)
	if err != nil {
		return nil, err
	}

	cmd := &session.InsertRecord{
		Ref: record.Ref{Section: record.SectionInside, Index: 0},
		Inside: record.InsideRecord{
			Date:    time.Now().Format(record.TimeLayout),
			Context: text,
		},
	}
	if _, err := cmd.Apply(doc); err != nil {
		return nil, err
	}

	out := format.Serialize(ft, doc)
	if err := s.store.Write(path, out); err != nil {
		return nil, err
	}
	if err := index.IndexDocument(s.db, path, out); err != nil {
		return nil, err
	}
	return buildDetail(path, out)
}

// ListDocuments returns every indexed document ordered by path.
func (s *Service) ListDocuments(_ context.Context) ([]ListItem, error) {
	rows, err := s.db.ListDocuments()
	if err != nil {
		return nil, err
	}
	items := make([]ListItem, len(rows))
	for i, r := range rows {
		ft, _ := format.Detect(r.Path)
		items[i] = ListItem{
			Path:         r.Path,
			Format:       ft.String(),
			Checksum:     r.Checksum,
			OutsideCount: r.OutsideCount,
			InsideCount:  r.InsideCount,
			UpdatedAt:    r.UpdatedAt,
		}
	}
	return items, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// RawDocument returns the document serialized in the target format. When
// the target matches the file's own format the bytes are returned as
// stored, without a parse round trip.
func (s *Service) RawDocument(_ context.Context, path string, to format.Format) ([]byte, error) {
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	ft, err := format.Detect(path)
	if err != nil {
		return nil, err
	}
	if to == ft {
		return data, nil
	}
	doc, err := format.Parse(ft, data)
	if err != nil {
		return nil, err
	}
	return format.Serialize(to, doc), nil
}

// ConvertOptions controls a document conversion.
type ConvertOptions struct {
	// To is the target serialization.
	To format.Format
	// Section, when non-nil, restricts the output to one section.
	Section *record.Section
	// Append merges the converted records into the existing target
	// document instead of replacing it.
	Append bool
}

// Convert transforms src bytes between serializations: parse with the
// source codec, optionally drop one section, optionally merge into
// existing target content, serialize with the target codec.
func Convert(src []byte, from format.Format, existing []byte, opts ConvertOptions) ([]byte, error) {
	doc, err := format.Parse(from, src)
	if err != nil {
		return nil, err
	}
	if opts.Section != nil {
		switch *opts.Section {
		case record.SectionOutside:
			doc.Inside = nil
		case record.SectionInside:
			doc.Outside = nil
		}
	}
	if opts.Append && len(existing) > 0 {
		base, err := format.Parse(opts.To, existing)
		if err != nil {
			return nil, err
		}
		base.Outside = append(base.Outside, doc.Outside...)
		base.Inside = append(base.Inside, doc.Inside...)
		doc = base
	}
	return format.Serialize(opts.To, doc), nil
}

// ConvertDocument converts a workspace document into another file. The
// target format comes from the destination's extension. Without Append
// an existing destination is refused.
func (s *Service) ConvertDocument(_ context.Context, src, dst string, section *record.Section, appendTo bool) (*DocumentDetail, error) {
	srcData, err := s.store.Read(src)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	from, err := format.Detect(src)
	if err != nil {
		return nil, err
	}
	to, err := format.Detect(dst)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.Read(dst)
	if err == nil && !appendTo {
		return nil, apperr.ErrAlreadyExists
	}

	out, err := Convert(srcData, from, existing, ConvertOptions{To: to, Section: section, Append: appendTo})
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(dst, out); err != nil {
		return nil, err
	}
	if err := index.IndexDocument(s.db, dst, out); err != nil {
		return nil, err
	}
	return buildDetail(dst, out)
}

// buildDetail constructs a DocumentDetail from raw data without re-reading
// the file. The parse also validates: malformed content surfaces as a
// *format.FormatError.
func buildDetail(path string, data []byte) (*DocumentDetail, error) {
	ft, err := format.Detect(path)
	if err != nil {
		return nil, err
	}
	doc, err := format.Parse(ft, data)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{
		Path:         path,
		Format:       ft.String(),
		Content:      string(data),
		Checksum:     checksum.Sum(data),
		OutsideCount: len(doc.Outside),
		InsideCount:  len(doc.Inside),
		UpdatedAt:    time.Now(),
	}, nil
}
