package control

// Selectable is the selection surface of a list or grid control. Rows are in
// the control's own (view) index space.
//
// The control raises OnSelectionChanged callbacks for every change to its
// selection, whether the change came from the user or from SelectRow and
// friends.
type Selectable interface {
	SelectRow(row int)
	UnselectRow(row int)
	SelectAll()
	UnselectAll()
	SelectedRows() []int
	OnSelectionChanged(fn func()) func()
}

// Grid is a Selectable that knows how many rows it displays
type Grid interface {
	Selectable
	RowCount() int
}
