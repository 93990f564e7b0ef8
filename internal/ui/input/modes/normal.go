package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"filtergrid/internal/ui/input/types"
)

// gPrefixTimeout bounds the gap between the two keys of "gg"
const gPrefixTimeout = 500 * time.Millisecond

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
	now         func() time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{now: time.Now}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyUp:
		return navigate("up"), true
	case tea.KeyDown:
		return navigate("down"), true
	case tea.KeyPgUp:
		return navigate("pageup"), true
	case tea.KeyPgDown:
		return navigate("pagedown"), true
	case tea.KeyHome:
		return navigate("home"), true
	case tea.KeyEnd:
		return navigate("end"), true
	case tea.KeyEnter:
		return []types.Action{types.AcceptAction{}}, true
	case tea.KeySpace:
		return []types.Action{types.ToggleSelectAction{}, types.NavigateAction{Direction: "down"}}, true
	}

	key := msg.String()
	if key != "g" {
		m.lastKeyWasG = false
	}

	switch key {
	case "j":
		return navigate("down"), true
	case "k":
		return navigate("up"), true
	case "a":
		// toggle between all and nothing
		if ctx.HasSelection() {
			return []types.Action{types.DeselectAllAction{}}, true
		}
		return []types.Action{types.SelectAllAction{}}, true
	case "A":
		return []types.Action{types.SelectVisibleAction{}}, true
	case "d", "x":
		if ctx.RowCount() == 0 {
			return nil, true
		}
		return []types.Action{types.RemoveAction{}}, true
	case "/", "f", "F":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter, Data: ctx.FilterQuery()}}, true
	case "s":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSort}}, true
	case "p", "P":
		if !ctx.HasSelection() {
			return nil, true
		}
		return []types.Action{types.OpenPagerAction{}}, true
	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true
	case "esc":
		// clear the filter first, then the selection
		if ctx.FilterQuery() != "" {
			return []types.Action{types.ClearFilterAction{}}, true
		}
		if ctx.HasSelection() {
			return []types.Action{types.DeselectAllAction{}}, true
		}
		return nil, true
	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	case "g":
		if m.lastKeyWasG && m.now().Sub(m.lastGTime) < gPrefixTimeout {
			m.lastKeyWasG = false
			return navigate("home"), true
		}
		m.lastKeyWasG = true
		m.lastGTime = m.now()
		return nil, true
	case "G":
		return navigate("end"), true
	}

	return nil, false
}

func navigate(direction string) []types.Action {
	return []types.Action{types.NavigateAction{Direction: direction}}
}
