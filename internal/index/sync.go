package index

import (
	"log/slog"
	"time"

	"github.com/voidwyrm/revw/internal/checksum"
	"github.com/voidwyrm/revw/internal/format"
	"github.com/voidwyrm/revw/internal/storage"
)

// Sync walks the workspace and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	infos, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(infos))
	for _, fi := range infos {
		disk[fi.Path] = struct{}{}

		if checksums[fi.Path] == fi.Checksum {
			continue
		}

		data, err := store.Read(fi.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", fi.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexDocument(db, fi.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", fi.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", fi.Path), slog.String("checksum", checksum.Short(fi.Checksum)))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexDocument parses data in the format implied by path's extension and
// upserts the result. The stored body is the rendered plain text, the same
// text filter and clipboard operations see.
func IndexDocument(db *DB, path string, data []byte) error {
	ft, err := format.Detect(path)
	if err != nil {
		return err
	}
	doc, err := format.Parse(ft, data)
	if err != nil {
		return err
	}

	row := DocRow{
		Path:         path,
		Checksum:     checksum.Sum(data),
		OutsideCount: len(doc.Outside),
		InsideCount:  len(doc.Inside),
		UpdatedAt:    time.Now(),
	}
	return db.UpsertDocument(row, doc.RenderAll())
}
