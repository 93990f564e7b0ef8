package types

import "filtergrid/internal/logic"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Selection actions
type ToggleSelectAction struct{}

func (a ToggleSelectAction) Type() string { return "toggle_select" }

type SelectAllAction struct{}

func (a SelectAllAction) Type() string { return "select_all" }

type SelectVisibleAction struct{}

func (a SelectVisibleAction) Type() string { return "select_visible" }

type DeselectAllAction struct{}

func (a DeselectAllAction) Type() string { return "deselect_all" }

// RemoveAction drops the entry under the cursor from the list
type RemoveAction struct{}

func (a RemoveAction) Type() string { return "remove" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // initial text for text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

type ClearFilterAction struct{}

func (a ClearFilterAction) Type() string { return "clear_filter" }

// CycleFilterKindAction switches between substring, fuzzy and regex matching
type CycleFilterKindAction struct{}

func (a CycleFilterKindAction) Type() string { return "cycle_filter_kind" }

// Sort actions
type SortByAction struct {
	Mode logic.SortMode
}

func (a SortByAction) Type() string { return "sort_by" }

type UpdateSortIndexAction struct {
	Index int
}

func (a UpdateSortIndexAction) Type() string { return "update_sort_index" }

// Other actions
type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

// OpenPagerAction shows the selected entries in the pager
type OpenPagerAction struct{}

func (a OpenPagerAction) Type() string { return "open_pager" }

// AcceptAction quits and prints the selection
type AcceptAction struct{}

func (a AcceptAction) Type() string { return "accept" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
