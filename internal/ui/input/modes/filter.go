package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"filtergrid/internal/ui/input/types"
)

// FilterMode edits the filter query; the view follows every keystroke
type FilterMode struct {
	TextInputMode
}

func NewFilterMode(ti *textinput.Model) *FilterMode {
	return &FilterMode{
		TextInputMode: NewTextInputMode(types.ModeFilter, "filter", "Filter: ", ti),
	}
}

// HandleKey adds tab to switch the match kind without leaving the mode
func (m *FilterMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.Type == tea.KeyTab {
		return []types.Action{types.CycleFilterKindAction{}}, true
	}
	return m.TextInputMode.HandleKey(msg, ctx)
}
