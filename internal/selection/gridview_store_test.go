package selection_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filtergrid/internal/control"
	"filtergrid/internal/events"
	"filtergrid/internal/projection"
	"filtergrid/internal/selection"
)

func evenIndex(s string) bool {
	return strings.Index("ABCDEFGH", s)%2 == 0
}

func TestGridViewOverProjection(t *testing.T) {
	bus := events.NewBus()
	changes := 0
	bus.Subscribe(events.TypeOf(selection.SelectionChangedEvent{}), func(interface{}) { changes++ })

	store := projection.NewSelectableFilterCollection[string]()
	store.AddRange([]string{"A", "B", "C", "D", "E"})
	table := control.NewTable()
	require.NoError(t, table.SetDataStore(store))

	gv := selection.NewGridView(table, bus)
	require.NoError(t, gv.SetDataStore(store))

	require.NoError(t, gv.SelectRow(2))
	require.NoError(t, gv.SelectRow(1))
	assert.Equal(t, 2, changes)

	store.SetFilter(evenIndex)
	assert.Equal(t, []int{1}, gv.SelectedRows())
	assert.Equal(t, []int{1}, table.SelectedRows())
	assert.Equal(t, []int{1, 2}, gv.SelectedModelRows())
	assert.Equal(t, 2, changes)

	// the user adds A; B stays selected while hidden
	table.SetCursor(0)
	table.ToggleCursor()
	assert.Equal(t, 3, changes)
	assert.Equal(t, []int{0, 1, 2}, gv.SelectedModelRows())

	store.SetFilter(nil)
	assert.Equal(t, []int{0, 1, 2}, gv.SelectedRows())
	assert.Equal(t, []int{0, 1, 2}, table.SelectedRows())

	// inserting ahead of the selection shifts it in model space
	store.SetFilter(evenIndex)
	require.NoError(t, store.Insert(0, "Z"))
	assert.Equal(t, []int{1, 2, 3}, gv.SelectedModelRows())
	assert.Equal(t, 3, changes)
}

func TestGridViewOverSortedProjectionRemoval(t *testing.T) {
	bus := events.NewBus()
	changes := 0
	bus.Subscribe(events.TypeOf(selection.SelectionChangedEvent{}), func(interface{}) { changes++ })

	store := projection.NewSelectableFilterCollection[string]()
	store.AddRange([]string{"A", "B", "C"})
	store.SetSort(func(a, b string) int { return strings.Compare(b, a) })
	table := control.NewTable()
	require.NoError(t, table.SetDataStore(store))
	gv := selection.NewGridView(table, bus)
	require.NoError(t, gv.SetDataStore(store))

	// row 0 shows C
	require.NoError(t, gv.SelectRow(0))
	assert.Equal(t, []int{2}, gv.SelectedModelRows())

	require.NoError(t, store.RemoveAt(0))
	assert.Empty(t, gv.SelectedModelRows())
	assert.Empty(t, table.SelectedRows())
	assert.Equal(t, 2, changes)
}

func TestGridViewReplacedItemStartsUnselected(t *testing.T) {
	newGrid := func(t *testing.T, items ...string) (*projection.SelectableFilterCollection[string], *control.Table, *selection.GridView, *int) {
		t.Helper()
		bus := events.NewBus()
		changes := 0
		bus.Subscribe(events.TypeOf(selection.SelectionChangedEvent{}), func(interface{}) { changes++ })

		store := projection.NewSelectableFilterCollection[string]()
		store.AddRange(items)
		table := control.NewTable()
		require.NoError(t, table.SetDataStore(store))
		gv := selection.NewGridView(table, bus)
		require.NoError(t, gv.SetDataStore(store))
		return store, table, gv, &changes
	}

	t.Run("in place", func(t *testing.T) {
		store, table, gv, changes := newGrid(t, "A", "B")
		require.NoError(t, gv.SelectRow(0))
		require.NoError(t, gv.SelectRow(1))

		require.NoError(t, store.SetItem(0, "Z"))
		assert.Equal(t, []int{1}, gv.SelectedModelRows())
		assert.Equal(t, []int{1}, gv.SelectedRows())
		assert.Equal(t, []int{1}, table.SelectedRows())
		assert.Equal(t, 3, *changes)
	})

	t.Run("sorted item moves", func(t *testing.T) {
		store, table, gv, _ := newGrid(t, "A", "B", "C")
		store.SetSort(strings.Compare)
		require.NoError(t, gv.SelectRow(1))
		require.NoError(t, gv.SelectRow(2))

		require.NoError(t, store.SetItem(1, "Z"))
		assert.Equal(t, []string{"A", "C", "Z"}, store.Items())
		assert.Equal(t, []int{2}, gv.SelectedModelRows())
		assert.Equal(t, []int{1}, gv.SelectedRows())
		assert.Equal(t, []int{1}, table.SelectedRows())
	})

	t.Run("after select all", func(t *testing.T) {
		store, table, gv, _ := newGrid(t, "A", "B", "C")
		gv.SelectAll()

		require.NoError(t, store.SetItem(1, "Z"))
		assert.Equal(t, []int{0, 2}, gv.SelectedModelRows())
		assert.Equal(t, []int{0, 2}, table.SelectedRows())
	})
}
