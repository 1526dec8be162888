package tui

import (
	"errors"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voidwyrm/revw/internal/format"
	"github.com/voidwyrm/revw/internal/gitsync"
	"github.com/voidwyrm/revw/internal/storage"
)

// execCommand runs one colon command. It returns tea.Quit for the
// commands that leave the interface.
func (m *Model) execCommand(cmd string) tea.Cmd {
	cmd = strings.TrimSpace(cmd)
	switch {
	case cmd == "":
	case cmd == "w":
		m.save()
	case strings.HasPrefix(cmd, "w "):
		return m.saveAs(strings.TrimSpace(strings.TrimPrefix(cmd, "w ")))
	case cmd == "q":
		if m.sess.Modified() {
			m.message = "unsaved changes (:q! discards, :wq saves)"
			return nil
		}
		return tea.Quit
	case cmd == "q!":
		return tea.Quit
	case cmd == "wq":
		if m.save() == nil {
			return tea.Quit
		}
	case cmd == "e":
		m.reload()
	case cmd == "ar":
		m.autoReload = !m.autoReload
		if m.autoReload {
			m.message = "auto-reload enabled"
		} else {
			m.message = "auto-reload disabled"
		}
	default:
		m.message = "unknown command: :" + cmd
	}
	return nil
}

// save serializes the document to the open path. The modified flag is
// only cleared once the bytes are on disk.
func (m *Model) save() error {
	if m.path == "" {
		m.message = "no file name (use :w path)"
		return errors.New("no file name")
	}
	data := format.Serialize(m.ft, m.sess.Document())
	if err := storage.WriteFileAtomic(m.path, data); err != nil {
		m.message = err.Error()
		return err
	}
	m.sess.Save(m.ft)
	m.lastSave = time.Now()
	m.message = "saved " + m.path
	m.autocommit()
	return nil
}

// saveAs writes to a new path, whose extension picks the format, and
// makes it the open file. The watcher moves to the new path.
func (m *Model) saveAs(path string) tea.Cmd {
	ft, err := format.Detect(path)
	if err != nil {
		m.message = err.Error()
		return nil
	}
	oldPath, oldFt := m.path, m.ft
	m.path, m.ft = path, ft
	if err := m.save(); err != nil {
		m.path, m.ft = oldPath, oldFt
		return nil
	}
	if m.watcher == nil {
		return nil
	}
	m.stopWatch()
	m.startWatch()
	return m.watchCmd()
}

// autocommit stages and commits the saved file when enabled. A file
// outside any git work tree is a quiet no-op.
func (m *Model) autocommit() {
	if !m.opts.GitAutocommit {
		return
	}
	switch err := gitsync.CommitFile(m.path); {
	case err == nil:
	case errors.Is(err, gitsync.ErrNotRepo):
		m.opts.Logger.Debug("git autocommit skipped", "path", m.path, "error", err)
	default:
		m.message += " (git commit failed: " + err.Error() + ")"
	}
}

// reload replaces the session with the on-disk content, discarding any
// unsaved changes.
func (m *Model) reload() {
	if m.path == "" {
		m.message = "no file to reload"
		return
	}
	data, err := os.ReadFile(m.path)
	if err != nil {
		m.message = err.Error()
		return
	}
	if err := m.sess.Load(data, m.ft); err != nil {
		m.message = err.Error()
		return
	}
	m.cursor = 0
	m.clampCursor()
	m.message = "reloaded " + m.path
}
