package projection

import (
	"slices"

	"filtergrid/internal/collection"
	"filtergrid/internal/control"
	"filtergrid/internal/selection"
)

// SelectableFilterCollection is a FilterCollection that owns the selection of
// the control showing it. The selection is kept as model items, so items stay
// selected while a filter hides them and are shown selected again when they
// come back.
//
// The selection is kept as model indices, so equal items are selected
// independently.
type SelectableFilterCollection[T comparable] struct {
	*FilterCollection[T]

	selected *collection.IndexSet
	all      bool
	tracker  *selection.Tracker

	control      control.Selectable
	unsubControl func()

	modelToView []int
	mapDirty    bool
}

// NewSelectableFilterCollection creates an empty projection with an empty
// selection. Selection changes are published on the bus set by WithBus.
func NewSelectableFilterCollection[T comparable](opts ...Option) *SelectableFilterCollection[T] {
	s := &SelectableFilterCollection[T]{
		FilterCollection: NewFilterCollection[T](opts...),
		selected:         collection.NewIndexSet(),
		mapDirty:         true,
	}
	s.tracker = selection.NewTracker(s.publish, s.opts.log)
	s.modelListeners.Add(s.onModelChange)
	s.viewListeners.Add(func(collection.Event[T]) { s.mapDirty = true })
	s.rebuilt.Add(s.pushToControl)
	return s
}

// SetControl binds the control showing the view. The current selection is
// pushed to it and user changes on it are read back. nil unbinds.
func (s *SelectableFilterCollection[T]) SetControl(c control.Selectable) {
	if s.unsubControl != nil {
		s.unsubControl()
		s.unsubControl = nil
	}
	s.control = c
	if c == nil {
		return
	}
	s.unsubControl = c.OnSelectionChanged(func() {
		s.SuppressSelectionChanged()
	})
	s.pushToControl()
}

// Close unbinds the control and the host
func (s *SelectableFilterCollection[T]) Close() {
	s.SetControl(nil)
	s.Detach()
}

// State returns the phase of the echo-suppression state machine
func (s *SelectableFilterCollection[T]) State() selection.State {
	return s.tracker.State()
}

// SuppressSelectionChanged handles a selection-changed callback from the
// control and reports whether it was an echo of a library-driven change.
func (s *SelectableFilterCollection[T]) SuppressSelectionChanged() bool {
	return s.tracker.Suppress(s.rederive)
}

// HasFilterOrSort reports whether rows differ from model order
func (s *SelectableFilterCollection[T]) HasFilterOrSort() bool {
	return s.active()
}

// ViewToModel returns the model index shown at row, or -1
func (s *SelectableFilterCollection[T]) ViewToModel(row int) int {
	if row < 0 || row >= s.Len() {
		return -1
	}
	return s.viewToModel(row)
}

// ModelToView returns the row showing model index m. It returns (-1, false)
// when the item is hidden or m is out of range.
func (s *SelectableFilterCollection[T]) ModelToView(m int) (int, bool) {
	if m < 0 || m >= len(s.model) {
		return -1, false
	}
	if !s.active() {
		return m, true
	}
	if s.mapDirty || len(s.modelToView) != len(s.model) {
		s.buildModelToView()
	}
	row := s.modelToView[m]
	return row, row >= 0
}

// SelectedItems returns the selected items in model order, hidden ones
// included
func (s *SelectableFilterCollection[T]) SelectedItems() []T {
	if s.all {
		return s.ModelItems()
	}
	out := make([]T, 0, s.selected.Len())
	s.selected.Ascend(func(m int) bool {
		out = append(out, s.model[m])
		return true
	})
	return out
}

// SelectedRows returns the rows of the visible selected items
func (s *SelectableFilterCollection[T]) SelectedRows() []int {
	n := s.Len()
	if s.all {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	var out []int
	for row := 0; row < n; row++ {
		if s.selected.Has(s.viewToModel(row)) {
			out = append(out, row)
		}
	}
	return out
}

// IsSelected reports whether any model occurrence of item is selected
func (s *SelectableFilterCollection[T]) IsSelected(item T) bool {
	for _, m := range s.indicesOf(item) {
		if s.all || s.selected.Has(m) {
			return true
		}
	}
	return false
}

// SetSelectedRows replaces the selection with the items shown at rows.
// Nothing changes when any row is out of range.
func (s *SelectableFilterCollection[T]) SetSelectedRows(rows []int) error {
	for _, row := range rows {
		if err := s.checkRow(row); err != nil {
			return err
		}
	}
	s.tracker.ChangeSelection(func() {
		s.all = false
		s.selected.Clear()
		for _, row := range rows {
			s.selected.Add(s.viewToModel(row))
		}
		if s.control != nil {
			s.control.UnselectAll()
			for _, row := range rows {
				s.control.SelectRow(row)
			}
		}
	})
	return nil
}

// SelectRow selects the item shown at row
func (s *SelectableFilterCollection[T]) SelectRow(row int) error {
	if err := s.checkRow(row); err != nil {
		return err
	}
	s.tracker.ChangeSelection(func() {
		if !s.all {
			s.selected.Add(s.viewToModel(row))
		}
		if s.control != nil {
			s.control.SelectRow(row)
		}
	})
	return nil
}

// UnselectRow unselects the item shown at row
func (s *SelectableFilterCollection[T]) UnselectRow(row int) error {
	if err := s.checkRow(row); err != nil {
		return err
	}
	s.tracker.ChangeSelection(func() {
		s.materialize()
		s.selected.Remove(s.viewToModel(row))
		if s.control != nil {
			s.control.UnselectRow(row)
		}
	})
	return nil
}

// SelectItem selects every model occurrence of item, visible or not, and
// reports whether the model holds it. The control only hears about visible
// occurrences.
func (s *SelectableFilterCollection[T]) SelectItem(item T) bool {
	indices := s.indicesOf(item)
	if len(indices) == 0 {
		return false
	}
	s.tracker.ChangeSelection(func() {
		for _, m := range indices {
			if !s.all {
				s.selected.Add(m)
			}
			s.forRowOf(m, func(row int) { s.control.SelectRow(row) })
		}
	})
	return true
}

// UnselectItem unselects every model occurrence of item, visible or not
func (s *SelectableFilterCollection[T]) UnselectItem(item T) bool {
	indices := s.indicesOf(item)
	if len(indices) == 0 {
		return false
	}
	s.tracker.ChangeSelection(func() {
		s.materialize()
		for _, m := range indices {
			s.selected.Remove(m)
			s.forRowOf(m, func(row int) { s.control.UnselectRow(row) })
		}
	})
	return true
}

// SelectAll selects every model item, hidden ones included
func (s *SelectableFilterCollection[T]) SelectAll() {
	s.tracker.ChangeSelection(func() {
		s.all = true
		s.selected.Clear()
		if s.control != nil {
			s.control.SelectAll()
		}
	})
}

// UnselectAll clears the selection
func (s *SelectableFilterCollection[T]) UnselectAll() {
	s.tracker.ChangeSelection(func() {
		s.all = false
		s.selected.Clear()
		if s.control != nil {
			s.control.UnselectAll()
		}
	})
}

func (s *SelectableFilterCollection[T]) publish() {
	s.opts.bus.Publish(selection.SelectionChangedEvent{Source: s})
}

func (s *SelectableFilterCollection[T]) checkRow(row int) error {
	if row < 0 || row >= s.Len() {
		return collection.IndexError(row, s.Len())
	}
	return nil
}

func (s *SelectableFilterCollection[T]) indicesOf(item T) []int {
	var out []int
	for m, v := range s.model {
		if v == item {
			out = append(out, m)
		}
	}
	return out
}

// forRowOf calls fn with the row showing model index m, if the control can
// see it
func (s *SelectableFilterCollection[T]) forRowOf(m int, fn func(row int)) {
	if s.control == nil {
		return
	}
	if row, ok := s.ModelToView(m); ok {
		fn(row)
	}
}

func (s *SelectableFilterCollection[T]) buildModelToView() {
	s.modelToView = make([]int, len(s.model))
	for i := range s.modelToView {
		s.modelToView[i] = -1
	}
	for row, m := range s.indices {
		s.modelToView[m] = row
	}
	s.mapDirty = false
}

// materialize turns the all flag into an explicit set
func (s *SelectableFilterCollection[T]) materialize() {
	s.materializeExcept(0, 0)
}

// materializeExcept is materialize leaving out the n model items at start
func (s *SelectableFilterCollection[T]) materializeExcept(start, n int) {
	if !s.all {
		return
	}
	s.all = false
	s.selected.Clear()
	for m := range s.model {
		if m < start || m >= start+n {
			s.selected.Add(m)
		}
	}
}

func (s *SelectableFilterCollection[T]) onModelChange(e collection.Event[T]) {
	s.mapDirty = true

	switch e.Action {
	case collection.ActionAdd:
		// new items start unselected
		if s.all {
			s.materializeExcept(e.Index, len(e.Items))
		} else {
			s.selected.ShiftFrom(e.Index, len(e.Items))
		}

	case collection.ActionRemove:
		changed := s.all
		if s.all {
			// the model no longer holds the removed items
			s.materialize()
		} else {
			for range e.OldItems {
				if s.selected.RemoveAndShift(e.Index) {
					changed = true
				}
			}
		}
		if changed {
			s.tracker.Raise()
		}

	case collection.ActionReplace:
		// a replacement item starts unselected
		changed := s.all
		if s.all {
			s.materializeExcept(e.Index, len(e.Items))
		} else {
			for i := range e.Items {
				if s.selected.Remove(e.Index + i) {
					changed = true
				}
			}
		}
		if changed {
			s.tracker.Raise()
		}

	case collection.ActionReset:
		if s.all || s.selected.Len() > 0 {
			s.all = false
			s.selected.Clear()
			s.tracker.Raise()
		}
	}
}

// rederive reads a user change back from the control. Selected items the
// control cannot show are kept. A control whose rows are not in step with the
// view yet is not read.
func (s *SelectableFilterCollection[T]) rederive() bool {
	if s.control == nil {
		return false
	}
	n := s.Len()
	if g, ok := s.control.(control.Grid); ok && g.RowCount() != n {
		return false
	}
	rows := s.control.SelectedRows()
	for _, row := range rows {
		if row < 0 || row >= n {
			return false
		}
	}

	if s.all && len(rows) == n {
		return false
	}

	var next *collection.IndexSet
	if s.all {
		next = collection.NewIndexSet()
		for m := range s.model {
			next.Add(m)
		}
	} else {
		next = s.selected.Clone()
	}
	for row := 0; row < n; row++ {
		next.Remove(s.viewToModel(row))
	}
	for _, row := range rows {
		next.Add(s.viewToModel(row))
	}

	if !s.all && slices.Equal(next.Values(), s.selected.Values()) {
		return false
	}
	s.all = false
	s.selected = next
	s.opts.log.Debug().Int("selected", next.Len()).Msg("selection read back from control")
	return true
}

// pushToControl restores the visible selection on the control after it
// reloaded its rows
func (s *SelectableFilterCollection[T]) pushToControl() {
	if s.control == nil {
		return
	}
	s.tracker.Sync(func() {
		s.control.UnselectAll()
		if s.all {
			s.control.SelectAll()
			return
		}
		for _, row := range s.SelectedRows() {
			s.control.SelectRow(row)
		}
	})
}
