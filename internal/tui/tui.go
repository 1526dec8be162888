// Package tui implements the terminal interface: a modal, vim-style
// view over one open document. All document mutations go through a
// session so every edit is undoable; the interface itself holds only
// selection, prompt, and overlay state.
package tui

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voidwyrm/revw/internal/format"
	"github.com/voidwyrm/revw/internal/record"
	"github.com/voidwyrm/revw/internal/session"
	"github.com/voidwyrm/revw/internal/watch"
)

// Writes to the open file within this window after a save are our own
// and must not trigger an auto-reload.
const saveQuiet = time.Second

// Mode is the interface's modal state.
type Mode int

const (
	ModeView Mode = iota
	ModeFilter
	ModeCommand
	ModeOrder
	ModeCopy
	ModeEdit
)

// Options configures the interface from the application config.
type Options struct {
	AutoReload    bool
	GitAutocommit bool
	MaxVisible    int
	Logger        *slog.Logger
}

// Model is the bubbletea model for one open document.
type Model struct {
	sess *session.Session
	opts Options

	path string
	ft   format.Format

	mode    Mode
	active  record.Section
	cursor  int
	pending string
	input   string
	message string

	yank    *yankedRecord
	overlay *overlay

	watcher     *watch.Watcher
	watchCancel context.CancelFunc
	autoReload  bool
	lastSave    time.Time

	width  int
	height int
}

// yankedRecord is the register filled by dd and emptied by p. Exactly
// one of Outside or Inside carries the record, chosen by Section.
type yankedRecord struct {
	Section record.Section
	Outside record.OutsideRecord
	Inside  record.InsideRecord
}

// New opens path into a fresh session. A missing file opens as the
// default document and is only created on the first save.
func New(path string, opts Options) (*Model, error) {
	ft, err := format.Detect(path)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.MaxVisible <= 0 {
		opts.MaxVisible = 500
	}

	m := &Model{
		sess:       session.New(),
		opts:       opts,
		path:       path,
		ft:         ft,
		active:     record.SectionOutside,
		autoReload: opts.AutoReload,
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m.sess.LoadDocument(record.DefaultDocument(time.Now()))
		m.message = "new file " + path
	case err != nil:
		return nil, err
	default:
		if err := m.sess.Load(data, ft); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Run opens path and runs the interface until the user quits.
func Run(path string, opts Options) error {
	m, err := New(path, opts)
	if err != nil {
		return err
	}
	m.startWatch()
	defer m.stopWatch()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// fileChangedMsg reports that the open file changed on disk.
type fileChangedMsg struct{}

// startWatch begins watching the open file for external changes. The
// interface works without a watcher, so failures are only logged.
func (m *Model) startWatch() {
	w, err := watch.New(m.path)
	if err != nil {
		m.opts.Logger.Debug("file watch unavailable", "path", m.path, "error", err)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.watcher = w
	m.watchCancel = cancel
	go w.Run(ctx)
}

func (m *Model) stopWatch() {
	if m.watcher == nil {
		return
	}
	m.watchCancel()
	m.watcher.Close()
	m.watcher = nil
}

// waitFileChange delivers the next on-disk change as a message. The
// channel closes when the watcher stops, ending the wait.
func waitFileChange(ch <-chan time.Time) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func (m *Model) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return waitFileChange(m.watcher.Events())
}

func (m *Model) Init() tea.Cmd {
	return m.watchCmd()
}
