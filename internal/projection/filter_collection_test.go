package projection

import (
	"cmp"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filtergrid/internal/collection"
	"filtergrid/internal/events"
)

func even(n int) bool { return n%2 == 0 }

// record collects view-space events
func record[T comparable](fc *FilterCollection[T]) *[]collection.Event[T] {
	var got []collection.Event[T]
	fc.Subscribe(func(e collection.Event[T]) {
		got = append(got, e)
	})
	return &got
}

func newInts(items ...int) *FilterCollection[int] {
	fc := NewFilterCollection[int]()
	fc.AddRange(items)
	return fc
}

func TestAddRangeOnEmptyIsOneAdd(t *testing.T) {
	fc := NewFilterCollection[string]()
	got := record(fc)

	fc.AddRange([]string{"A", "B", "C"})

	require.Len(t, *got, 1)
	assert.Equal(t, collection.Event[string]{
		Action: collection.ActionAdd,
		Index:  0,
		Items:  []string{"A", "B", "C"},
	}, (*got)[0])
}

func TestAddRangeWithoutCoalescingIsOneReset(t *testing.T) {
	fc := NewFilterCollection[string](WithCoalescedRangeAdds(false))
	got := record(fc)

	fc.AddRange([]string{"A", "B"})
	fc.Add("C")

	require.Len(t, *got, 2)
	assert.Equal(t, collection.ActionReset, (*got)[0].Action)
	assert.Equal(t, collection.ActionAdd, (*got)[1].Action)
}

func TestFilterAndSort(t *testing.T) {
	fc := newInts(5, 2, 8, 3, 4, 6)
	got := record(fc)

	fc.SetFilter(even)
	assert.Equal(t, []int{2, 8, 4, 6}, fc.Items())
	assert.Equal(t, 6, fc.ModelLen())

	fc.SetSort(cmp.Compare[int])
	assert.Equal(t, []int{2, 4, 6, 8}, fc.Items())

	fc.SetFilter(nil)
	assert.Equal(t, []int{2, 3, 4, 5, 6, 8}, fc.Items())

	fc.SetSort(nil)
	assert.Equal(t, []int{5, 2, 8, 3, 4, 6}, fc.Items())

	for _, e := range *got {
		assert.Equal(t, collection.ActionReset, e.Action)
	}
	assert.Len(t, *got, 4)
}

func TestSortIsStable(t *testing.T) {
	fc := NewFilterCollection[string]()
	fc.AddRange([]string{"ccc", "a", "bb", "b", "aa", "c"})

	fc.SetSort(func(a, b string) int { return cmp.Compare(len(a), len(b)) })
	assert.Equal(t, []string{"a", "b", "c", "bb", "aa", "ccc"}, fc.Items())
}

func TestInsertWithFilter(t *testing.T) {
	fc := newInts(1, 2, 3, 4, 6)
	fc.SetFilter(even)
	got := record(fc)

	// before the 4, which is model index 3
	require.NoError(t, fc.Insert(1, 8))
	assert.Equal(t, []int{1, 2, 3, 8, 4, 6}, fc.ModelItems())
	assert.Equal(t, []int{2, 8, 4, 6}, fc.Items())
	assert.Equal(t, []collection.Event[int]{
		{Action: collection.ActionAdd, Index: 1, Items: []int{8}},
	}, *got)

	// hidden items change the model only
	require.NoError(t, fc.Insert(0, 5))
	assert.Equal(t, []int{1, 5, 2, 3, 8, 4, 6}, fc.ModelItems())
	assert.Equal(t, []int{2, 8, 4, 6}, fc.Items())
	assert.Len(t, *got, 1)

	// at the end
	require.NoError(t, fc.Insert(fc.Len(), 10))
	assert.Equal(t, []int{2, 8, 4, 6, 10}, fc.Items())
	assert.Equal(t, collection.Event[int]{Action: collection.ActionAdd, Index: 4, Items: []int{10}}, (*got)[1])
}

func TestInsertRangeWithFilterCoalesces(t *testing.T) {
	fc := newInts(2, 4)
	fc.SetFilter(even)
	got := record(fc)

	require.NoError(t, fc.InsertRange(1, []int{6, 7, 8}))
	assert.Equal(t, []int{2, 6, 8, 4}, fc.Items())
	assert.Equal(t, []collection.Event[int]{
		{Action: collection.ActionAdd, Index: 1, Items: []int{6, 8}},
	}, *got)
}

func TestInsertWithSort(t *testing.T) {
	fc := newInts(7, 1, 3)
	fc.SetSort(cmp.Compare[int])
	got := record(fc)

	require.NoError(t, fc.Insert(0, 5))
	assert.Equal(t, []int{7, 1, 3, 5}, fc.ModelItems())
	assert.Equal(t, []int{1, 3, 5, 7}, fc.Items())
	assert.Equal(t, []collection.Event[int]{
		{Action: collection.ActionAdd, Index: 2, Items: []int{5}},
	}, *got)

	fc.AddRange([]int{0, 9})
	assert.Equal(t, []int{0, 1, 3, 5, 7, 9}, fc.Items())
	assert.Equal(t, collection.ActionReset, (*got)[1].Action)
}

func TestRemove(t *testing.T) {
	t.Run("while sorted", func(t *testing.T) {
		fc := newInts(7, 1, 3, 5)
		fc.SetSort(cmp.Compare[int])
		got := record(fc)

		require.NoError(t, fc.RemoveAt(3))
		assert.Equal(t, []int{1, 3, 5}, fc.ModelItems())
		assert.Equal(t, []int{1, 3, 5}, fc.Items())
		assert.Equal(t, []collection.Event[int]{
			{Action: collection.ActionRemove, Index: 3, OldItems: []int{7}},
		}, *got)
	})

	t.Run("hidden item", func(t *testing.T) {
		fc := newInts(1, 2, 3)
		fc.SetFilter(even)
		got := record(fc)

		assert.True(t, fc.Remove(3))
		assert.False(t, fc.Remove(42))
		assert.Equal(t, []int{1, 2}, fc.ModelItems())
		assert.Equal(t, []int{2}, fc.Items())
		assert.Empty(t, *got)
	})

	t.Run("visible item under filter", func(t *testing.T) {
		fc := newInts(1, 2, 3, 4)
		fc.SetFilter(even)
		got := record(fc)

		assert.True(t, fc.Remove(2))
		assert.Equal(t, []int{4}, fc.Items())
		assert.Equal(t, []collection.Event[int]{
			{Action: collection.ActionRemove, Index: 0, OldItems: []int{2}},
		}, *got)
		v, err := fc.At(0)
		require.NoError(t, err)
		assert.Equal(t, 4, v)
	})
}

func TestSetItem(t *testing.T) {
	t.Run("in place", func(t *testing.T) {
		fc := newInts(1, 2)
		got := record(fc)
		require.NoError(t, fc.SetItem(1, 9))
		assert.Equal(t, []collection.Event[int]{
			{Action: collection.ActionReplace, Index: 1, Items: []int{9}, OldItems: []int{2}},
		}, *got)
	})

	t.Run("leaves the filter", func(t *testing.T) {
		fc := newInts(2, 4, 6)
		fc.SetFilter(even)
		got := record(fc)

		require.NoError(t, fc.SetItem(1, 5))
		assert.Equal(t, []int{2, 6}, fc.Items())
		assert.Equal(t, []collection.Event[int]{
			{Action: collection.ActionRemove, Index: 1, OldItems: []int{4}},
		}, *got)
	})

	t.Run("moves under sort", func(t *testing.T) {
		fc := newInts(1, 2, 3)
		fc.SetSort(cmp.Compare[int])
		got := record(fc)

		require.NoError(t, fc.SetItem(0, 10))
		assert.Equal(t, []int{2, 3, 10}, fc.Items())
		require.Len(t, *got, 1)
		assert.Equal(t, collection.ActionReset, (*got)[0].Action)
	})
}

func TestClear(t *testing.T) {
	fc := newInts(1, 2)
	got := record(fc)
	rebuilds := 0
	fc.SubscribeRebuild(func() { rebuilds++ })

	fc.Clear()
	assert.Zero(t, fc.Len())
	assert.Equal(t, []collection.Event[int]{{Action: collection.ActionReset, Index: -1}}, *got)
	assert.Equal(t, 1, rebuilds)
}

func TestIndexOutOfRange(t *testing.T) {
	fc := newInts(1, 2, 3)
	fc.SetFilter(even)

	_, err := fc.At(1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, fc.Insert(2, 4), ErrIndexOutOfRange)
	assert.ErrorIs(t, fc.InsertRange(-1, []int{4}), ErrIndexOutOfRange)
	assert.ErrorIs(t, fc.RemoveAt(1), ErrIndexOutOfRange)
	assert.ErrorIs(t, fc.SetItem(-1, 4), ErrIndexOutOfRange)
	assert.Nil(t, fc.AtAny(5))

	assert.Equal(t, []int{1, 2, 3}, fc.ModelItems())
	assert.Equal(t, []int{2}, fc.Items())
}

func TestReadOnlyView(t *testing.T) {
	fc := newInts(1, 2)
	ro := fc.ReadOnly()

	assert.ErrorIs(t, ro.Add(3), ErrReadOnly)
	assert.ErrorIs(t, ro.Insert(0, 3), ErrReadOnly)
	assert.ErrorIs(t, ro.RemoveAt(0), ErrReadOnly)
	assert.ErrorIs(t, ro.Remove(1), ErrReadOnly)
	assert.ErrorIs(t, ro.SetItem(0, 3), ErrReadOnly)
	assert.ErrorIs(t, ro.Clear(), ErrReadOnly)
	assert.Equal(t, []int{1, 2}, ro.Items())

	var seen int
	ro.Subscribe(func(collection.Event[int]) { seen++ })
	fc.Add(3)
	assert.Equal(t, 1, seen)
	assert.Equal(t, 3, ro.Len())
}

func TestAttachMutableHostWritesThrough(t *testing.T) {
	host := collection.NewObservableList("a", "b")
	fc := NewFilterCollection[string]()
	require.NoError(t, fc.Attach(host))
	assert.Equal(t, collection.TrackingChanges, fc.Tracking())
	got := record(fc)

	fc.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, host.Items())

	require.NoError(t, fc.InsertRange(1, []string{"x", "y"}))
	assert.Equal(t, []string{"a", "x", "y", "b", "c"}, host.Items())

	require.NoError(t, host.RemoveAt(0))
	require.NoError(t, fc.SetItem(0, "z"))

	assert.Equal(t, []string{"z", "y", "b", "c"}, fc.Items())
	assert.Equal(t, []string{"z", "y", "b", "c"}, host.Items())
	assert.Equal(t, []collection.Event[string]{
		{Action: collection.ActionAdd, Index: 2, Items: []string{"c"}},
		{Action: collection.ActionAdd, Index: 1, Items: []string{"x", "y"}},
		{Action: collection.ActionRemove, Index: 0, OldItems: []string{"a"}},
		{Action: collection.ActionReplace, Index: 0, Items: []string{"z"}, OldItems: []string{"x"}},
	}, *got)

	fc.Clear()
	assert.Zero(t, host.Len())
}

func TestAttachSnapshotHost(t *testing.T) {
	src := []string{"a"}
	fc := NewFilterCollection[string]()
	require.NoError(t, fc.Attach(src))
	assert.Equal(t, collection.TrackingNone, fc.Tracking())

	fc.Add("b")
	assert.Equal(t, []string{"a", "b"}, fc.Items())
	assert.Equal(t, []string{"a"}, src)

	fc.Refresh()
	assert.Equal(t, []string{"a"}, fc.Items())

	err := fc.Attach(3.14)
	assert.ErrorIs(t, err, collection.ErrUnsupportedCollection)
}

func TestModelSourceSeesChangesFirst(t *testing.T) {
	fc := newInts(1, 2)
	fc.SetFilter(even)

	var order []string
	fc.ModelSource().SubscribeAny(func(e collection.Event[any]) {
		order = append(order, "model "+e.Action.String())
	})
	fc.Subscribe(func(e collection.Event[int]) {
		order = append(order, "view "+e.Action.String())
	})

	fc.Add(4)
	fc.Add(5)
	assert.Equal(t, []string{"model add", "view add", "model add"}, order)
	assert.Equal(t, 4, fc.ModelSource().Len())
	assert.Equal(t, 5, fc.ModelSource().AtAny(3))
}

func TestFilterAndSortEventsOnBus(t *testing.T) {
	bus := events.NewBus()
	var filters []FilterChangedEvent
	var sorts []SortChangedEvent
	bus.Subscribe(events.TypeOf(FilterChangedEvent{}), func(e interface{}) {
		filters = append(filters, e.(FilterChangedEvent))
	})
	bus.Subscribe(events.TypeOf(SortChangedEvent{}), func(e interface{}) {
		sorts = append(sorts, e.(SortChangedEvent))
	})

	fc := NewFilterCollection[int](WithBus(bus))
	fc.AddRange([]int{1, 2, 3, 4})
	fc.SetFilter(even)
	fc.SetSort(cmp.Compare[int])
	fc.SetFilter(nil)

	assert.Equal(t, []FilterChangedEvent{{Active: true, Rows: 2}, {Active: false, Rows: 4}}, filters)
	assert.Equal(t, []SortChangedEvent{{Active: true, Rows: 2}}, sorts)
}

func TestFilterCorrectnessProperty(t *testing.T) {
	model := []int{9, 4, 7, 2, 2, 8, 1, 0, 6, 3, 5}
	fc := newInts(model...)
	fc.SetFilter(even)
	fc.SetSort(func(a, b int) int { return cmp.Compare(b, a) })

	view := fc.Items()
	for _, item := range model {
		assert.Equal(t, even(item), slices.Contains(view, item), "item %d", item)
	}
	for i := 1; i < len(view); i++ {
		assert.GreaterOrEqual(t, view[i-1], view[i])
	}
}
