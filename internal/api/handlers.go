package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/voidwyrm/revw/internal/apperr"
	"github.com/voidwyrm/revw/internal/docservice"
	"github.com/voidwyrm/revw/internal/format"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the document path from the URL (everything after
// /api/documents/). Supports encoded slashes from API clients
// (e.g. topics%2Frecords.md).
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListDocuments handles GET /api/documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		slog.Error("list documents failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": items,
		"total":     len(items),
	})
}

// GetDocument handles GET /api/documents/*.
// Without a query it returns the JSON detail with the checksum as a
// quoted ETag; a matching If-None-Match short-circuits to 304. With
// ?format=md|json|toon it returns the document converted to that
// serialization as a download.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	p := docPath(r)
	if p == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if name := r.URL.Query().Get("format"); name != "" {
		h.serveConverted(w, r, p, name)
		return
	}
	doc, err := h.svc.GetDocument(r.Context(), p)
	if err != nil {
		writeDocError(w, p, err)
		return
	}
	etag := `"` + doc.Checksum + `"`
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// serveConverted writes the document re-serialized in the requested
// format, as an attachment named after the source file.
func (h *Handler) serveConverted(w http.ResponseWriter, r *http.Request, p, name string) {
	ft, err := format.ParseName(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	data, err := h.svc.RawDocument(r.Context(), p, ft)
	if err != nil {
		writeDocError(w, p, err)
		return
	}
	base := path.Base(p)
	filename := strings.TrimSuffix(base, path.Ext(base)) + ft.Ext()
	w.Header().Set("Content-Type", contentType(ft))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("write converted document failed", slog.String("path", p), slog.String("error", err.Error()))
	}
}

func contentType(ft format.Format) string {
	switch ft {
	case format.JSON:
		return "application/json; charset=utf-8"
	case format.Markup:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// writeDocError maps document errors onto status codes: missing file is
// 404, a parse failure is 422 with the codec's line-positioned message,
// anything else is logged and reported as 500.
func writeDocError(w http.ResponseWriter, p string, err error) {
	var ferr *format.FormatError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.As(err, &ferr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody("malformed document: "+ferr.Error()))
	default:
		slog.Error("document request failed", slog.String("path", p), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}
