package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"filtergrid/internal/config"
	"filtergrid/internal/domain"
	"filtergrid/internal/logic"
	"filtergrid/internal/ui/coordinator"
	"filtergrid/internal/ui/handlers"
	"filtergrid/internal/ui/input"
	"filtergrid/internal/ui/input/modes"
	inputtypes "filtergrid/internal/ui/input/types"
	"filtergrid/internal/ui/state"
	"filtergrid/internal/ui/views"
)

// filterKinds is the order tab cycles through
var filterKinds = []logic.FilterKind{logic.KindSubstring, logic.KindFuzzy, logic.KindRegex}

// Model represents the UI state
type Model struct {
	state *state.AppState
	coord *coordinator.Coordinator

	help         help.Model
	keys         keyMap
	inputHandler *input.Handler
	renderer     *views.Renderer
	eventHandler *handlers.EventHandler
	pager        *PagerOps

	preFilter   *logic.Filter // filter active when the prompt opened, restored on cancel
	inPagerMode bool          // tracks if we're currently in pager mode

	// Program reference for terminal management
	program *tea.Program
	log     zerolog.Logger
}

// NewModel creates a new UI model over coord
func NewModel(cfg *config.Config, coord *coordinator.Coordinator, log zerolog.Logger) *Model {
	appState := state.NewAppState()
	appState.ShowLineNumbers = cfg.UI.ShowLineNumbers
	if kind, err := logic.ParseFilterKind(cfg.UI.FilterKind); err == nil {
		appState.FilterKind = kind
	}
	if f := coord.Filter(); f != nil {
		appState.FilterKind = f.Kind
	}

	m := &Model{
		state:        appState,
		coord:        coord,
		help:         help.New(),
		keys:         newKeyMap(),
		inputHandler: input.New(),
		renderer:     views.NewRenderer(cfg.UI.ShowLineNumbers),
		pager:        NewPagerOps(nil),
		log:          log.With().Str("component", "ui").Logger(),
	}
	m.eventHandler = handlers.NewEventHandler(appState, coord, m.log)
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.state.EnsureVisible(m.coord.Cursor(), m.coord.RowCount())
		return m, nil

	case tea.KeyMsg:
		before := m.inputHandler.CurrentMode()
		ctx := &input.ModelContext{Coord: m.coord}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)
		if before != inputtypes.ModeFilter && m.inputHandler.CurrentMode() == inputtypes.ModeFilter {
			m.preFilter = m.coord.Filter()
		}

		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		return m, tea.Batch(cmds...)

	case EventMsg:
		m.eventHandler.HandleEvent(msg.Event)
		m.state.EnsureVisible(m.coord.Cursor(), m.coord.RowCount())
		return m, nil

	case tickMsg:
		// the spinner stops while ov owns the terminal
		if m.inPagerMode {
			return m, nil
		}
		return m, tick()

	case pagerMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("pager failed")
			m.state.SetError("Pager failed: " + msg.err.Error())
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, tick()
	}

	return m, m.inputHandler.Update(msg)
}

// processAction applies one action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.ToggleSelectAction:
		m.coord.ToggleCursor()

	case inputtypes.SelectAllAction:
		m.coord.SelectAll()
		m.state.SetStatus("Selected all entries")

	case inputtypes.SelectVisibleAction:
		m.coord.SelectVisible()
		m.state.SetStatus("Selected shown entries")

	case inputtypes.DeselectAllAction:
		m.coord.UnselectAll()
		m.state.SetStatus("Selection cleared")

	case inputtypes.RemoveAction:
		if err := m.coord.RemoveCursor(); err != nil {
			m.log.Error().Err(err).Msg("remove failed")
			m.state.SetError(err.Error())
		}
		m.state.EnsureVisible(m.coord.Cursor(), m.coord.RowCount())

	case inputtypes.UpdateTextAction:
		m.applyFilterText(a.Text)

	case inputtypes.SubmitTextAction:
		if !m.applyFilterText(a.Text) {
			m.coord.SetFilter(m.preFilter)
		}
		m.preFilter = nil

	case inputtypes.CancelTextAction:
		m.coord.SetFilter(m.preFilter)
		m.preFilter = nil
		m.state.LastError = ""
		m.state.EnsureVisible(m.coord.Cursor(), m.coord.RowCount())

	case inputtypes.ClearFilterAction:
		m.coord.SetFilter(nil)
		m.state.SetStatus("Filter cleared")
		m.state.EnsureVisible(m.coord.Cursor(), m.coord.RowCount())

	case inputtypes.CycleFilterKindAction:
		m.cycleFilterKind()

	case inputtypes.SortByAction:
		m.coord.SetSort(a.Mode)
		m.state.SetStatus(m.coord.Status())
		m.state.EnsureVisible(m.coord.Cursor(), m.coord.RowCount())

	case inputtypes.UpdateSortIndexAction:
		m.state.SortOptionIndex = a.Index

	case inputtypes.ToggleHelpAction:
		m.state.ShowHelp = !m.state.ShowHelp
		m.help.ShowAll = m.state.ShowHelp

	case inputtypes.OpenPagerAction:
		return m.showSelectionInPager()

	case inputtypes.AcceptAction:
		m.state.Accepted = true
		return tea.Quit

	case inputtypes.QuitAction:
		return tea.Quit
	}
	return nil
}

func (m *Model) navigate(direction string) {
	switch direction {
	case "up":
		m.coord.MoveCursor(-1)
	case "down":
		m.coord.MoveCursor(1)
	case "pageup":
		m.coord.MoveCursor(-m.state.ViewportHeight)
	case "pagedown":
		m.coord.MoveCursor(m.state.ViewportHeight)
	case "home":
		m.coord.SetCursor(0)
	case "end":
		m.coord.SetCursor(m.coord.RowCount() - 1)
	}
	m.state.EnsureVisible(m.coord.Cursor(), m.coord.RowCount())
}

// applyFilterText filters by text with the current kind. An invalid query
// leaves the previous filter in place and reports false.
func (m *Model) applyFilterText(text string) bool {
	f, err := logic.NewFilter(m.state.FilterKind, text)
	if err != nil {
		m.state.SetError(err.Error())
		return false
	}
	m.coord.SetFilter(f)
	m.state.SetStatus(m.coord.Status())
	m.state.EnsureVisible(m.coord.Cursor(), m.coord.RowCount())
	return true
}

func (m *Model) cycleFilterKind() {
	next := filterKinds[0]
	for i, kind := range filterKinds {
		if kind == m.state.FilterKind {
			next = filterKinds[(i+1)%len(filterKinds)]
			break
		}
	}
	m.state.FilterKind = next

	text := ""
	if ti := m.inputHandler.TextInput(); ti != nil {
		text = ti.Value()
	} else if f := m.coord.Filter(); f != nil {
		text = f.Query
	}
	m.applyFilterText(text)
}

// showSelectionInPager opens the selected entries in ov, pausing rendering
// while it runs
func (m *Model) showSelectionInPager() tea.Cmd {
	if m.program == nil {
		m.state.SetError("Pager unavailable")
		return nil
	}

	lines := make([]string, 0, m.coord.SelectedCount())
	for _, e := range m.coord.Selected() {
		lines = append(lines, e.Text)
	}
	content := strings.Join(lines, "\n")

	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.pager.ShowInPager(content)
		m.program.Send(resumeRenderingMsg{})
		return pagerMsg{err: err}
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.state.Width == 0 {
		return "Loading..."
	}

	vs := views.ViewState{
		Width:          m.state.Width,
		Height:         m.state.Height,
		ViewportOffset: m.state.ViewportOffset,
		Shown:          m.coord.RowCount(),
		Total:          m.coord.TotalCount(),
		Selected:       m.coord.SelectedCount(),
		SelectionMode:  m.coord.Mode(),
		SortName:       m.coord.Sort().String(),
		FilterLabel:    m.coord.Filter().String(),
		Loading:        m.state.Loading,
		LoadedCount:    m.state.LoadedCount,
		StatusMessage:  m.state.StatusMessage,
		ErrorMessage:   m.state.LastError,
		ShowHelp:       m.state.ShowHelp,
		HelpView:       m.help.View(m.keys),
	}

	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeFilter:
		vs.InputMode = "filter"
		vs.Prompt = m.inputHandler.Prompt()
		if ti := m.inputHandler.TextInput(); ti != nil {
			vs.TextInput = ti.View()
		}
	case inputtypes.ModeSort:
		vs.InputMode = "sort"
		vs.SortOptionIndex = m.state.SortOptionIndex
		for _, option := range modes.SortOptions {
			vs.SortOptions = append(vs.SortOptions, option.Name)
		}
	}

	filter := m.coord.Filter()
	end := min(m.state.ViewportOffset+m.state.ViewportHeight, m.coord.RowCount())
	for row := m.state.ViewportOffset; row < end; row++ {
		e, ok := m.coord.Row(row)
		if !ok {
			continue
		}
		vs.Rows = append(vs.Rows, views.RowState{
			Entry:      e,
			Selected:   m.coord.IsRowSelected(row),
			Cursor:     row == m.coord.Cursor(),
			Highlights: filter.Positions(e.Text),
		})
	}

	return m.renderer.Render(vs)
}

// Accepted reports whether the user confirmed the selection
func (m *Model) Accepted() bool {
	return m.state.Accepted
}

// Selection returns the selected entries in load order
func (m *Model) Selection() []domain.Entry {
	return m.coord.Selected()
}
