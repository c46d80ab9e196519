package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/groupview/internal/compare"
	"github.com/Iron-Ham/groupview/internal/config"
	"github.com/Iron-Ham/groupview/internal/errors"
	"github.com/Iron-Ham/groupview/internal/event"
	"github.com/Iron-Ham/groupview/internal/grouping"
	"github.com/Iron-Ham/groupview/internal/session"
)

// Layout constants
const (
	// ChromeHeight is the number of lines used by everything except the grid
	// body: title, column captions and their border, status bar, help bar.
	ChromeHeight = 7
	// EditorHeight is the extra space taken by the cell editor.
	EditorHeight = 3
	// IconWidth is the width of the expander gutter left of the cells.
	IconWidth = 2
)

// Scroll holds the first visible display index. The grouped view reads and
// restores it across regroups through the grouping.ScrollHint interface.
type Scroll struct {
	offset int
}

// NewScroll creates a scroll state at the top of the grid.
func NewScroll() *Scroll {
	return &Scroll{}
}

// FirstVisible implements grouping.ScrollHint.
func (s *Scroll) FirstVisible() (int, bool) {
	return s.offset, true
}

// SetFirstVisible implements grouping.ScrollHint.
func (s *Scroll) SetFirstVisible(i int) error {
	if i < 0 {
		return errors.NewValidationError("first visible row must be non-negative").WithValue(i)
	}
	s.offset = i
	return nil
}

var _ grouping.ScrollHint = (*Scroll)(nil)

// status is shared between model copies and the bus handlers.
type status struct {
	err error
	msg string
}

func (s *status) set(err error) {
	s.err = err
	s.msg = ""
}

func (s *status) info(msg string) {
	s.err = nil
	s.msg = msg
}

func (s *status) clear() {
	s.err = nil
	s.msg = ""
}

// Model is the Bubbletea model for the grouped grid
type Model struct {
	session    *session.Session
	scroll     *Scroll
	status     *status
	subs       []string
	colWidth   int
	showCounts bool

	width  int
	height int

	column    int
	editing   bool
	editField string
	input     textinput.Model
	quitting  bool
}

// Messages

// reloadMsg asks the model to re-read the dataset file.
type reloadMsg struct{}

// NewModel creates a model over s. sc must be the scroll hint s's view was
// built with.
func NewModel(s *session.Session, sc *Scroll, cfg config.TUIConfig) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	width := cfg.ColumnWidth
	if width == 0 {
		width = config.Default().TUI.ColumnWidth
	}

	m := Model{
		session:    s,
		scroll:     sc,
		status:     &status{},
		colWidth:   width,
		showCounts: cfg.ShowCounts,
		input:      ti,
	}
	m.subs = append(m.subs,
		s.View().Bus().Subscribe(event.TypeRebuildFailed, func(e event.Event) {
			if failed, ok := e.(event.RebuildFailedEvent); ok {
				m.status.set(failed.Err)
			}
		}),
	)
	return m
}

// Close removes the model's bus subscriptions.
func (m Model) Close() {
	for _, id := range m.subs {
		m.session.View().Bus().Unsubscribe(id)
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible()
		return m, nil

	case reloadMsg:
		if err := m.session.Reload(); err != nil {
			m.status.set(err)
		} else {
			m.status.info("dataset reloaded")
		}
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := m.session.View()
	m.status.clear()

	var err error
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "j", "down":
		err = m.session.MoveTo(v.Position() + 1)
	case "k", "up":
		err = m.session.MoveTo(max(v.Position()-1, 0))
	case "pgdown", "ctrl+d":
		err = m.session.MoveTo(v.Position() + m.bodyHeight())
	case "pgup", "ctrl+u":
		err = m.session.MoveTo(max(v.Position()-m.bodyHeight(), 0))
	case "home":
		err = m.session.MoveTo(0)
	case "end":
		err = m.session.MoveTo(v.Count() - 1)
	case "h", "left":
		m.column = max(m.column-1, 0)
	case "l", "right":
		m.column = min(m.column+1, max(len(m.session.Fields())-1, 0))
	case " ", "enter":
		if n := v.CurrentNode(); n != nil && v.IsGroupRow(v.Position()) {
			n.Toggle()
		}
	case "g":
		err = m.session.NextGroupField()
	case "G":
		err = v.RemoveGrouping()
	case "e":
		err = v.ExpandAll()
	case "c":
		err = v.CollapseAll()
	case "s":
		err = v.SetSortDirection(nextDirection(v.SortDirection()))
	case "n":
		err = v.SetAllowNewRows(!v.AllowNewRows())
	case "a":
		_, err = m.session.AppendRow()
	case "r":
		err = v.Rebuild()
	case "i":
		return m.beginEdit()
	}
	if err != nil {
		m.status.set(err)
	}
	m.ensureVisible()
	return m, nil
}

func nextDirection(d grouping.SortDirection) grouping.SortDirection {
	switch d {
	case grouping.SortAscending:
		return grouping.SortDescending
	case grouping.SortDescending:
		return grouping.SortNone
	default:
		return grouping.SortAscending
	}
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	v := m.session.View()
	fields := m.session.Fields()
	if err := v.BeginEdit(v.Position()); err != nil {
		m.status.set(err)
		return m, nil
	}
	if m.column >= len(fields) {
		return m, nil
	}

	field := fields[m.column].Name
	value, err := m.session.Accessor().Get(v.CurrentRow(), field)
	if err != nil {
		m.status.set(err)
		return m, nil
	}
	text := ""
	if !compare.IsNull(value) {
		text = compare.Text(value)
	}

	m.editing = true
	m.editField = field
	m.input.SetValue(text)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.endEdit()
		return m, nil
	case "enter":
		v := m.session.View()
		if err := v.SetField(v.Position(), m.editField, m.input.Value()); err != nil {
			m.status.set(err)
		}
		m.endEdit()
		m.ensureVisible()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endEdit() {
	m.editing = false
	m.editField = ""
	m.input.Blur()
	m.input.SetValue("")
}

// bodyHeight returns how many grid lines fit on screen.
func (m Model) bodyHeight() int {
	if m.height == 0 {
		return max(m.session.View().Count(), 1)
	}
	h := m.height - ChromeHeight
	if m.editing {
		h -= EditorHeight
	}
	return max(h, 1)
}

// ensureVisible scrolls so the current position is on screen.
func (m Model) ensureVisible() {
	v := m.session.View()
	h := m.bodyHeight()
	pos := v.Position()
	off := m.scroll.offset
	if pos >= 0 {
		if pos < off {
			off = pos
		}
		if pos >= off+h {
			off = pos - h + 1
		}
	}
	off = min(off, max(v.Count()-h, 0))
	m.scroll.offset = max(off, 0)
}
