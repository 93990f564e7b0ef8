package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"filtergrid/internal/logic"
	"filtergrid/internal/ui/input/types"
)

// SortOptions available for sorting, in menu order
var SortOptions = []struct {
	Mode        logic.SortMode
	Name        string
	Description string
}{
	{logic.SortNone, "None", "Keep load order"},
	{logic.SortByText, "Text", "Sort alphabetically, ignoring case"},
	{logic.SortByLength, "Length", "Shortest lines first"},
	{logic.SortBySource, "Source", "Group by file, then line number"},
}

// SortSelectMode previews each sort as the menu moves and restores the
// original one on cancel
type SortSelectMode struct {
	sortIndex     int
	originalIndex int
}

func NewSortSelectMode() *SortSelectMode {
	return &SortSelectMode{}
}

func (m *SortSelectMode) Name() string {
	return "sort"
}

func (m *SortSelectMode) Enter(ctx types.Context) []types.Action {
	m.sortIndex = 0
	for i, option := range SortOptions {
		if option.Mode == ctx.CurrentSort() {
			m.sortIndex = i
			break
		}
	}
	m.originalIndex = m.sortIndex
	return []types.Action{types.UpdateSortIndexAction{Index: m.sortIndex}}
}

func (m *SortSelectMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// HandleKey processes key messages for sort selection
func (m *SortSelectMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "q":
		return []types.Action{
			types.SortByAction{Mode: SortOptions[m.originalIndex].Mode},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "enter":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case "up", "k":
		return m.move(-1), true
	case "down", "j":
		return m.move(1), true
	}
	return nil, true
}

// move steps through the options and applies the new sort immediately
func (m *SortSelectMode) move(delta int) []types.Action {
	n := len(SortOptions)
	m.sortIndex = ((m.sortIndex+delta)%n + n) % n
	return []types.Action{
		types.UpdateSortIndexAction{Index: m.sortIndex},
		types.SortByAction{Mode: SortOptions[m.sortIndex].Mode},
	}
}

// GetCurrentIndex returns the current sort option index
func (m *SortSelectMode) GetCurrentIndex() int {
	return m.sortIndex
}
