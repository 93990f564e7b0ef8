package control

import (
	"filtergrid/internal/collection"
)

// Table is a headless multi-select grid control. It mirrors the row count of
// its data store and keeps its selected rows aligned when rows are inserted or
// removed, the way a native grid does. Reloading the data store, or replacing
// a row, clears the selection of the affected rows without raising a callback.
type Table struct {
	store    collection.Untyped
	adapter  *collection.Adapter[any]
	rows     int
	selected *collection.IndexSet
	cursor   int
	changed  collection.Hooks
}

// NewTable creates an empty table
func NewTable() *Table {
	t := &Table{selected: collection.NewIndexSet()}
	t.adapter = collection.NewAdapter[any](t)
	return t
}

// SetDataStore binds the rows shown by the table. Any Untyped collection
// (a projection, an ObservableList) is tracked; nil empties the table.
func (t *Table) SetDataStore(store collection.Untyped) error {
	t.store = store
	if store == nil {
		return t.adapter.Attach(nil)
	}
	return t.adapter.Attach(store)
}

// Close detaches from the data store
func (t *Table) Close() {
	t.adapter.Detach()
	t.store = nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return t.rows
}

// Row returns the item displayed at row
func (t *Table) Row(row int) (any, bool) {
	if t.store == nil || row < 0 || row >= t.rows {
		return nil, false
	}
	return t.store.AtAny(row), true
}

// Cursor returns the focused row
func (t *Table) Cursor() int {
	return t.cursor
}

// MoveCursor moves the focus by delta rows, clamped to the table
func (t *Table) MoveCursor(delta int) {
	t.SetCursor(t.cursor + delta)
}

// SetCursor focuses row, clamped to the table
func (t *Table) SetCursor(row int) {
	if row >= t.rows {
		row = t.rows - 1
	}
	if row < 0 {
		row = 0
	}
	t.cursor = row
}

// ToggleCursor flips the selection of the focused row, as a user click would
func (t *Table) ToggleCursor() {
	if t.rows == 0 {
		return
	}
	if t.selected.Has(t.cursor) {
		t.UnselectRow(t.cursor)
	} else {
		t.SelectRow(t.cursor)
	}
}

// SelectRow selects row. Rows outside the table are ignored.
func (t *Table) SelectRow(row int) {
	if row < 0 || row >= t.rows {
		return
	}
	if t.selected.Add(row) {
		t.changed.Fire()
	}
}

// UnselectRow unselects row
func (t *Table) UnselectRow(row int) {
	if t.selected.Remove(row) {
		t.changed.Fire()
	}
}

// SelectAll selects every row
func (t *Table) SelectAll() {
	if t.selected.Len() == t.rows {
		return
	}
	for i := 0; i < t.rows; i++ {
		t.selected.Add(i)
	}
	t.changed.Fire()
}

// UnselectAll clears the selection
func (t *Table) UnselectAll() {
	if t.selected.Len() == 0 {
		return
	}
	t.selected.Clear()
	t.changed.Fire()
}

// SelectedRows returns the selected rows in ascending order
func (t *Table) SelectedRows() []int {
	return t.selected.Values()
}

// IsRowSelected reports whether row is selected
func (t *Table) IsRowSelected(row int) bool {
	return t.selected.Has(row)
}

// OnSelectionChanged registers fn and returns a func that unregisters it
func (t *Table) OnSelectionChanged(fn func()) func() {
	return t.changed.Add(fn)
}

// AddItem implements collection.Handler
func (t *Table) AddItem(item any) {
	t.rows++
}

// AddRange implements collection.Handler
func (t *Table) AddRange(items []any) {
	t.rows += len(items)
}

// InsertItem implements collection.Handler
func (t *Table) InsertItem(index int, item any) {
	t.rows++
	t.selected.ShiftFrom(index, 1)
	if index <= t.cursor && t.rows > 1 {
		t.cursor++
	}
}

// RemoveItem implements collection.Handler. Removing a selected row changes
// the selection and is reported.
func (t *Table) RemoveItem(index int, item any) {
	t.rows--
	wasSelected := t.selected.RemoveAndShift(index)
	if index < t.cursor {
		t.cursor--
	}
	t.SetCursor(t.cursor)
	if wasSelected {
		t.changed.Fire()
	}
}

// ReplaceItem implements collection.Replacer. The row keeps its place and
// drops its selection without a callback; the data store decides whether the
// new item is selected.
func (t *Table) ReplaceItem(index int, oldItem, item any) {
	t.selected.Remove(index)
}

// RemoveAllItems implements collection.Handler
func (t *Table) RemoveAllItems() {
	t.reload(0)
}

// InitializeCollection implements collection.Initializer
func (t *Table) InitializeCollection(items []any) {
	t.reload(len(items))
}

func (t *Table) reload(rows int) {
	t.rows = rows
	t.selected.Clear()
	t.SetCursor(t.cursor)
}
