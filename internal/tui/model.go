package tui

import (
	"fmt"
	"path/filepath"

	"imagesort/internal/actions"
	"imagesort/internal/browser"
	"imagesort/internal/config"
	"imagesort/internal/tui/common"
	"imagesort/internal/tui/components"
	"imagesort/internal/tui/messages"
	"imagesort/internal/tui/views"
	"imagesort/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Browser is the part of browser.Browser the TUI drives.
type Browser interface {
	Images() []string
	SelectedIndex() int
	SelectedImage() string
	SearchTerm() string
	SetSearchTerm(term string) error
	CurrentFolder() string
	GoLeft() bool
	GoRight() bool
	NewMove(file, toFolder string) (actions.ReversibleAction, error)
	NewRename(file, newName string) (actions.ReversibleAction, error)
	Record(action actions.ReversibleAction) error
	Undo() (actions.ReversibleAction, error)
	Redo() (actions.ReversibleAction, error)
	History() browser.HistoryStatus
	Subscribe(fn func(view.Change)) (func(), error)
	Errors() <-chan error
}

var _ Browser = (*browser.Browser)(nil)

type Model struct {
	browser Browser
	targets []common.Target

	// Core state, refreshed from the browser
	images []string
	cursor int

	mode   common.Mode
	input  textinput.Model
	status *components.StatusBar
	keys   KeyMap
	help   help.Model

	changes     chan view.Change
	unsubscribe func()
}

// New builds a model over b. Move targets are bound to their digit keys.
func New(b Browser, targets []config.MoveTarget) *Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 255

	m := &Model{
		browser:     b,
		input:       input,
		status:      components.NewStatusBar(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		changes:     make(chan view.Change, 64),
		unsubscribe: func() {},
	}
	for _, t := range targets {
		m.targets = append(m.targets, common.Target{Key: t.Key, Folder: t.Folder})
	}

	// A full buffer already guarantees a pending refresh, so dropping is fine.
	if unsubscribe, err := b.Subscribe(func(c view.Change) {
		select {
		case m.changes <- c:
		default:
		}
	}); err != nil {
		m.status.SetError(err)
	} else {
		m.unsubscribe = unsubscribe
	}

	m.refresh()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForChange(), m.waitForWatchError())
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.ChangeMsg:
		m.refresh()
		return m, m.waitForChange()
	case messages.WatchErrorMsg:
		m.status.SetError(msg.Err)
		return m, m.waitForWatchError()
	case messages.ErrorMsg:
		m.status.SetError(msg.Err)
		return m, nil
	case messages.ActionDoneMsg:
		m.status.SetText(fmt.Sprintf("%s: %s", msg.Verb, msg.Name))
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case common.Search:
		return m.handleSearchKeys(msg)
	case common.Rename:
		return m.handleRenameKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unsubscribe()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		m.browser.GoLeft()
	case key.Matches(msg, m.keys.Right):
		m.browser.GoRight()
	case key.Matches(msg, m.keys.Search):
		m.mode = common.Search
		m.input.SetValue(m.browser.SearchTerm())
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.ClearSearch):
		if err := m.browser.SetSearchTerm(""); err != nil {
			m.status.SetError(err)
		} else {
			m.status.SetText("Filter cleared")
		}
	case key.Matches(msg, m.keys.Rename):
		selected := m.browser.SelectedImage()
		if selected == "" {
			m.status.SetText("No image selected")
			break
		}
		m.mode = common.Rename
		m.input.SetValue(filepath.Base(selected))
		m.input.CursorEnd()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Undo):
		action, err := m.browser.Undo()
		return m.finish("Undid", action, err)
	case key.Matches(msg, m.keys.Redo):
		action, err := m.browser.Redo()
		return m.finish("Redid", action, err)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Move):
		if target, ok := m.target(msg.String()); ok {
			return m.moveSelected(target.Folder)
		}
		m.status.SetText("No move target bound to " + msg.String())
	}

	m.refresh()
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		m.mode = common.Normal
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.mode = common.Normal
		m.input.Blur()
		if err := m.browser.SetSearchTerm(""); err != nil {
			m.status.SetError(err)
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		if err := m.browser.SetSearchTerm(m.input.Value()); err != nil {
			m.status.SetError(err)
		}
		m.refresh()
	}
	return m, cmd
}

func (m *Model) handleRenameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		m.mode = common.Normal
		m.input.Blur()
		return m.renameSelected(m.input.Value())
	case key.Matches(msg, m.keys.Cancel):
		m.mode = common.Normal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) moveSelected(folder string) (tea.Model, tea.Cmd) {
	selected := m.browser.SelectedImage()
	if selected == "" {
		m.status.SetText("No image selected")
		return m, nil
	}
	action, err := m.browser.NewMove(selected, folder)
	if err == nil {
		err = m.browser.Record(action)
	}
	return m.finish("Moved", action, err)
}

func (m *Model) renameSelected(name string) (tea.Model, tea.Cmd) {
	selected := m.browser.SelectedImage()
	if selected == "" {
		m.status.SetText("No image selected")
		return m, nil
	}
	action, err := m.browser.NewRename(selected, name)
	if err == nil {
		err = m.browser.Record(action)
	}
	return m.finish("Renamed", action, err)
}

// finish reports the outcome of a history operation on the status line.
func (m *Model) finish(verb string, action actions.ReversibleAction, err error) (tea.Model, tea.Cmd) {
	m.refresh()
	if err != nil {
		m.status.SetError(err)
		return m, nil
	}
	return m.Update(messages.ActionDoneMsg{Verb: verb, Name: action.DisplayName()})
}

func (m *Model) target(key string) (common.Target, bool) {
	for _, t := range m.targets {
		if t.Key == key {
			return t, true
		}
	}
	return common.Target{}, false
}

func (m *Model) refresh() {
	m.images = m.browser.Images()
	m.cursor = m.browser.SelectedIndex()
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		c, ok := <-m.changes
		if !ok {
			return nil
		}
		return messages.ChangeMsg{Change: c}
	}
}

func (m *Model) waitForWatchError() tea.Cmd {
	errs := m.browser.Errors()
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return nil
		}
		return messages.WatchErrorMsg{Err: err}
	}
}

// Getters
func (m *Model) Images() []string         { return m.images }
func (m *Model) Cursor() int              { return m.cursor }
func (m *Model) CurrentDir() string       { return m.browser.CurrentFolder() }
func (m *Model) SearchTerm() string       { return m.browser.SearchTerm() }
func (m *Model) Mode() common.Mode        { return m.mode }
func (m *Model) Input() string            { return m.input.View() }
func (m *Model) Status() string           { return m.status.Text() }
func (m *Model) Err() error               { return m.status.Err() }
func (m *Model) ShowHelp() bool           { return m.help.ShowAll }
func (m *Model) KeyHelp() string          { return m.help.View(m.keys) }
func (m *Model) Targets() []common.Target { return m.targets }

// LastAction describes the newest history entry, or nil when empty.
func (m *Model) LastAction() *common.ActionEntry {
	h := m.browser.History()
	var latest actions.ReversibleAction
	name := ""
	switch {
	case len(h.Done) > 0:
		latest = h.Done[len(h.Done)-1]
		name = latest.DisplayName()
	case len(h.Undone) > 0:
		latest = h.Undone[len(h.Undone)-1]
		name = "undone " + latest.DisplayName()
	default:
		return nil
	}
	return &common.ActionEntry{
		Name:    name,
		At:      latest.CreatedAt(),
		CanUndo: h.CanUndo,
		CanRedo: h.CanRedo,
	}
}
