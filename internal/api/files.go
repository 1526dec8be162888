package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

const filesDir = "files"

// FileHandler serves files that records link to (the url field of an
// outside record can point at files/<name> inside the workspace).
// Serving is read-only; the preview API never writes to the workspace.
type FileHandler struct {
	workspaceRoot string
}

// NewFileHandler creates a handler rooted at the workspace directory.
func NewFileHandler(workspaceRoot string) *FileHandler {
	return &FileHandler{workspaceRoot: workspaceRoot}
}

// filesPath returns the absolute path to the linked-files directory.
func (h *FileHandler) filesPath() string {
	return filepath.Join(h.workspaceRoot, filesDir)
}

// safeName validates that the filename is a plain name (no path separators,
// no traversal) and returns the absolute path under the files dir.
func (h *FileHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	// Reject anything with path separators or traversal.
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	abs := filepath.Join(h.filesPath(), cleaned)
	// Double-check the resolved path is under the files dir.
	if !strings.HasPrefix(abs, h.filesPath()+string(os.PathSeparator)) && abs != h.filesPath() {
		return "", fmt.Errorf("path escapes files directory")
	}
	return abs, nil
}

// ServeFile handles GET /api/files/{filename}.
func (h *FileHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	abs, err := h.safeName(filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
