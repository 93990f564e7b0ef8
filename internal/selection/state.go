package selection

import (
	"github.com/rs/zerolog"
)

// State is the phase of the echo-suppression state machine
type State int

const (
	// Normal means no library-driven change is running; control callbacks
	// come from the user.
	Normal State = iota
	// SelectionChanging means a library-driven change is pushing state into
	// the control; its callbacks are echoes.
	SelectionChanging
	// SelectionChanged means the change has been applied and the outward
	// notification is being raised.
	SelectionChanged
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case SelectionChanging:
		return "changing"
	case SelectionChanged:
		return "changed"
	default:
		return "unknown"
	}
}

// SelectionChangedEvent is published once per selection change. Consumers
// re-read the selection from Source.
type SelectionChangedEvent struct {
	Source interface{}
}

// Tracker separates selection changes made by the library from changes made
// by the user on the control, so each change is reported exactly once.
type Tracker struct {
	state  State
	notify func()
	log    zerolog.Logger
}

// NewTracker creates a tracker that calls notify for every outward
// selection-changed notification.
func NewTracker(notify func(), log zerolog.Logger) *Tracker {
	if notify == nil {
		notify = func() {}
	}
	return &Tracker{notify: notify, log: log}
}

// State returns the current phase
func (t *Tracker) State() State {
	return t.state
}

// ChangeSelection runs action as a library-driven change and then raises one
// notification. Nested calls run inside the outer change and do not notify.
func (t *Tracker) ChangeSelection(action func()) {
	if t.state != Normal {
		action()
		return
	}

	t.state = SelectionChanging
	defer func() { t.state = Normal }()

	action()

	t.state = SelectionChanged
	t.notify()
}

// Sync runs action with control callbacks suppressed and raises no
// notification. It restores control state after a reload, when the selection
// itself has not changed.
func (t *Tracker) Sync(action func()) {
	if t.state != Normal {
		action()
		return
	}
	t.state = SelectionChanging
	defer func() { t.state = Normal }()
	action()
}

// Suppress is called from the control's selection-changed callback. It
// reports true when the callback is an echo of a library-driven change.
// Otherwise the change came from the user: rederive rebuilds the selection
// from the control and reports whether it differs, in which case a
// notification is raised.
func (t *Tracker) Suppress(rederive func() bool) bool {
	if t.state != Normal {
		t.log.Debug().Str("state", t.state.String()).Msg("suppressed selection echo")
		return true
	}
	if rederive != nil && rederive() {
		t.notify()
	}
	return false
}

// Raise reports a change that happened outside ChangeSelection, such as a
// selected item being removed. Inside a running change it is folded into
// that change's single notification.
func (t *Tracker) Raise() {
	if t.state != Normal {
		return
	}
	t.notify()
}
