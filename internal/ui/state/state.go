package state

import "filtergrid/internal/logic"

// chromeLines is the height taken by title, input line, status and help bar
const chromeLines = 7

// AppState contains the UI state that is not owned by the coordinator
type AppState struct {
	Width  int
	Height int

	ViewportOffset int // first row shown
	ViewportHeight int // rows that fit on screen

	ShowHelp        bool
	ShowLineNumbers bool

	FilterKind      logic.FilterKind
	SortOptionIndex int // highlighted option while the sort menu is open

	Loading       bool
	LoadSources   int
	LoadedCount   int
	StatusMessage string
	LastError     string

	Accepted bool // the user confirmed the selection
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		ViewportHeight: 20,
		FilterKind:     logic.KindSubstring,
	}
}

// Resize records the terminal size and recomputes the list height
func (s *AppState) Resize(width, height int) {
	s.Width = width
	s.Height = height
	s.ViewportHeight = max(height-chromeLines, 3)
}

// EnsureVisible scrolls the viewport so the cursor row is on screen
func (s *AppState) EnsureVisible(cursor, rows int) {
	if cursor < s.ViewportOffset {
		s.ViewportOffset = cursor
	}
	if cursor >= s.ViewportOffset+s.ViewportHeight {
		s.ViewportOffset = cursor - s.ViewportHeight + 1
	}
	// keep the page full when rows disappear from the bottom
	if maxOffset := max(rows-s.ViewportHeight, 0); s.ViewportOffset > maxOffset {
		s.ViewportOffset = maxOffset
	}
	if s.ViewportOffset < 0 {
		s.ViewportOffset = 0
	}
}

// SetError records an error for the status line
func (s *AppState) SetError(msg string) {
	s.LastError = msg
	s.StatusMessage = ""
}

// SetStatus records a status message and clears any error
func (s *AppState) SetStatus(msg string) {
	s.StatusMessage = msg
	s.LastError = ""
}
