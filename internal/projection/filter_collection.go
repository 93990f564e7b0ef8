package projection

import (
	"fmt"
	"slices"

	"filtergrid/internal/collection"
)

// FilterCollection is a filtered and sorted view over a model sequence.
//
// Rows (view indices) are what a control shows; the model keeps host order.
// Mutations take view rows and are applied to the model, and every change that
// is visible in the view is reported once to view subscribers. Model-space
// subscribers (see ModelSource) hear about every change, visible or not.
type FilterCollection[T comparable] struct {
	model   []T
	view    []T
	indices []int // view row -> model index; nil while no filter or sort is set
	filter  func(T) bool
	compare func(a, b T) int

	adapter *collection.Adapter[T]
	host    collection.Mutable[T]

	viewListeners  collection.Listeners[T]
	modelListeners collection.Listeners[T]
	rebuilt        collection.Hooks

	opts options
}

// NewFilterCollection creates an empty projection
func NewFilterCollection[T comparable](opts ...Option) *FilterCollection[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	fc := &FilterCollection[T]{opts: o}
	fc.adapter = collection.NewAdapter[T](modelHandler[T]{fc})
	return fc
}

// Attach binds the projection to a host collection and rebuilds from it.
//
// When the host reports its changes and is collection.Mutable, mutations made
// through the projection are written to the host and applied when the host
// reports them back. Otherwise the projection owns its model copy and Refresh
// re-reads the host.
func (fc *FilterCollection[T]) Attach(host any) error {
	if err := fc.adapter.Attach(host); err != nil {
		return fmt.Errorf("attach projection: %w", err)
	}
	fc.host = nil
	if m, ok := host.(collection.Mutable[T]); ok && fc.adapter.Tracking() == collection.TrackingChanges {
		fc.host = m
	}
	return nil
}

// Detach stops tracking the host. The current model is kept.
func (fc *FilterCollection[T]) Detach() {
	fc.adapter.Detach()
	fc.host = nil
}

// Refresh re-reads the host
func (fc *FilterCollection[T]) Refresh() {
	fc.adapter.Refresh()
}

// Tracking reports whether host changes are picked up automatically
func (fc *FilterCollection[T]) Tracking() collection.Tracking {
	return fc.adapter.Tracking()
}

// Filter returns the active predicate, or nil
func (fc *FilterCollection[T]) Filter() func(T) bool {
	return fc.filter
}

// SetFilter sets the predicate that decides which model items are visible.
// nil shows every item. The view is rebuilt and reported as one Reset.
func (fc *FilterCollection[T]) SetFilter(filter func(T) bool) {
	fc.filter = filter
	fc.Rebuild()
	fc.opts.bus.Publish(FilterChangedEvent{Active: filter != nil, Rows: fc.Len()})
}

// Sort returns the active comparator, or nil
func (fc *FilterCollection[T]) Sort() func(a, b T) int {
	return fc.compare
}

// SetSort sets the view order. Items comparing equal keep model order. nil
// restores model order. The view is rebuilt and reported as one Reset.
func (fc *FilterCollection[T]) SetSort(compare func(a, b T) int) {
	fc.compare = compare
	fc.Rebuild()
	fc.opts.bus.Publish(SortChangedEvent{Active: compare != nil, Rows: fc.Len()})
}

// Rebuild recomputes the view from the model and reports a Reset
func (fc *FilterCollection[T]) Rebuild() {
	fc.recompute()
	fc.opts.log.Debug().
		Int("model", len(fc.model)).
		Int("view", fc.Len()).
		Bool("filter", fc.filter != nil).
		Bool("sort", fc.compare != nil).
		Msg("projection rebuilt")
	fc.reset()
}

// Len returns the number of visible rows
func (fc *FilterCollection[T]) Len() int {
	if !fc.active() {
		return len(fc.model)
	}
	return len(fc.view)
}

// At returns the item at row
func (fc *FilterCollection[T]) At(row int) (T, error) {
	if row < 0 || row >= fc.Len() {
		var zero T
		return zero, collection.IndexError(row, fc.Len())
	}
	return fc.row(row), nil
}

// AtAny returns the item at row, or nil when row is out of range
func (fc *FilterCollection[T]) AtAny(row int) any {
	if row < 0 || row >= fc.Len() {
		return nil
	}
	return fc.row(row)
}

// Items returns a copy of the visible items in view order
func (fc *FilterCollection[T]) Items() []T {
	if !fc.active() {
		return slices.Clone(fc.model)
	}
	return slices.Clone(fc.view)
}

// ModelLen returns the number of model items, hidden ones included
func (fc *FilterCollection[T]) ModelLen() int {
	return len(fc.model)
}

// ModelItems returns a copy of the model in host order
func (fc *FilterCollection[T]) ModelItems() []T {
	return slices.Clone(fc.model)
}

// Add appends item to the model
func (fc *FilterCollection[T]) Add(item T) {
	fc.AddRange([]T{item})
}

// AddRange appends items to the model. Without a comparator the visible ones
// are reported as one Add event.
func (fc *FilterCollection[T]) AddRange(items []T) {
	if len(items) == 0 {
		return
	}
	if fc.host != nil {
		fc.host.Append(items...)
		return
	}
	fc.insertModel(len(fc.model), slices.Clone(items))
}

// Insert inserts item before row; row == Len appends. While a comparator is
// active the item is appended to the model and the comparator places it.
func (fc *FilterCollection[T]) Insert(row int, item T) error {
	return fc.InsertRange(row, []T{item})
}

// InsertRange inserts items before row, see Insert
func (fc *FilterCollection[T]) InsertRange(row int, items []T) error {
	if row < 0 || row > fc.Len() {
		return collection.IndexError(row, fc.Len())
	}
	if len(items) == 0 {
		return nil
	}
	at := len(fc.model)
	if fc.compare == nil && row < fc.Len() {
		at = fc.viewToModel(row)
	}
	if fc.host != nil {
		if err := fc.host.Insert(at, items...); err != nil {
			return fmt.Errorf("insert into host: %w", err)
		}
		return nil
	}
	fc.insertModel(at, slices.Clone(items))
	return nil
}

// RemoveAt removes the item shown at row
func (fc *FilterCollection[T]) RemoveAt(row int) error {
	if row < 0 || row >= fc.Len() {
		return collection.IndexError(row, fc.Len())
	}
	return fc.removeModelAt(fc.viewToModel(row))
}

// Remove removes the first model occurrence of item, visible or not, and
// reports whether there was one.
func (fc *FilterCollection[T]) Remove(item T) bool {
	m := slices.Index(fc.model, item)
	if m < 0 {
		return false
	}
	return fc.removeModelAt(m) == nil
}

// Clear removes every model item
func (fc *FilterCollection[T]) Clear() {
	if fc.host != nil {
		fc.host.Clear()
		return
	}
	fc.resetModel(nil)
}

// SetItem replaces the item shown at row
func (fc *FilterCollection[T]) SetItem(row int, item T) error {
	if row < 0 || row >= fc.Len() {
		return collection.IndexError(row, fc.Len())
	}
	m := fc.viewToModel(row)
	if fc.host != nil {
		if err := fc.host.Set(m, item); err != nil {
			return fmt.Errorf("replace in host: %w", err)
		}
		return nil
	}
	fc.replaceModel(m, item)
	return nil
}

// Subscribe registers a listener for view-space changes
func (fc *FilterCollection[T]) Subscribe(fn func(collection.Event[T])) func() {
	return fc.viewListeners.Add(fn)
}

// SubscribeAny is Subscribe for type-erased consumers such as controls
func (fc *FilterCollection[T]) SubscribeAny(fn func(collection.Event[any])) func() {
	return fc.viewListeners.Add(func(e collection.Event[T]) {
		fn(collection.Erase(e))
	})
}

// SubscribeRebuild registers fn to run after every Reset of the view, once
// view subscribers have seen it.
func (fc *FilterCollection[T]) SubscribeRebuild(fn func()) func() {
	return fc.rebuilt.Add(fn)
}

// ModelSource exposes the model in host order. Its listeners hear about every
// model change before the view reports it.
func (fc *FilterCollection[T]) ModelSource() collection.Untyped {
	return modelSource[T]{fc}
}

// ReadOnly returns a view that rejects mutation
func (fc *FilterCollection[T]) ReadOnly() *ReadOnlyView[T] {
	return &ReadOnlyView[T]{fc: fc}
}

func (fc *FilterCollection[T]) active() bool {
	return fc.filter != nil || fc.compare != nil
}

func (fc *FilterCollection[T]) passes(item T) bool {
	return fc.filter == nil || fc.filter(item)
}

func (fc *FilterCollection[T]) row(row int) T {
	if !fc.active() {
		return fc.model[row]
	}
	return fc.view[row]
}

func (fc *FilterCollection[T]) viewToModel(row int) int {
	if !fc.active() {
		return row
	}
	return fc.indices[row]
}

// findView returns the row showing model index m
func (fc *FilterCollection[T]) findView(m int) (int, bool) {
	if !fc.active() {
		return m, m >= 0 && m < len(fc.model)
	}
	if fc.compare == nil {
		// without a comparator rows keep model order
		return slices.BinarySearch(fc.indices, m)
	}
	row := slices.Index(fc.indices, m)
	return row, row >= 0
}

func (fc *FilterCollection[T]) recompute() {
	if !fc.active() {
		fc.view, fc.indices = nil, nil
		return
	}
	indices := make([]int, 0, len(fc.model))
	for i, item := range fc.model {
		if fc.passes(item) {
			indices = append(indices, i)
		}
	}
	if fc.compare != nil {
		slices.SortStableFunc(indices, func(a, b int) int {
			return fc.compare(fc.model[a], fc.model[b])
		})
	}
	view := make([]T, len(indices))
	for row, m := range indices {
		view[row] = fc.model[m]
	}
	fc.view, fc.indices = view, indices
}

func (fc *FilterCollection[T]) reset() {
	fc.viewListeners.Notify(collection.Event[T]{Action: collection.ActionReset, Index: -1})
	fc.rebuilt.Fire()
}

func (fc *FilterCollection[T]) notifyAdd(row int, items []T) {
	if len(items) > 1 && !fc.opts.coalesce {
		fc.reset()
		return
	}
	fc.viewListeners.Notify(collection.Event[T]{Action: collection.ActionAdd, Index: row, Items: items})
}

func (fc *FilterCollection[T]) removeModelAt(m int) error {
	if fc.host != nil {
		if err := fc.host.RemoveAt(m); err != nil {
			return fmt.Errorf("remove from host: %w", err)
		}
		return nil
	}
	fc.removeModel(m)
	return nil
}

// insertModel splices items into the model at m and updates the view.
// Both are updated before anyone is notified.
func (fc *FilterCollection[T]) insertModel(m int, items []T) {
	fc.model = slices.Insert(fc.model, m, items...)
	modelEvent := collection.Event[T]{Action: collection.ActionAdd, Index: m, Items: items}

	switch {
	case !fc.active():
		fc.modelListeners.Notify(modelEvent)
		fc.notifyAdd(m, slices.Clone(items))

	case fc.compare == nil:
		row, _ := slices.BinarySearch(fc.indices, m)
		for k := row; k < len(fc.indices); k++ {
			fc.indices[k] += len(items)
		}
		var (
			added   []T
			indices []int
		)
		for j, item := range items {
			if fc.passes(item) {
				added = append(added, item)
				indices = append(indices, m+j)
			}
		}
		fc.indices = slices.Insert(fc.indices, row, indices...)
		fc.view = slices.Insert(fc.view, row, added...)

		fc.modelListeners.Notify(modelEvent)
		if len(added) > 0 {
			fc.notifyAdd(row, added)
		}

	default:
		var visible []int
		for j, item := range items {
			if fc.passes(item) {
				visible = append(visible, m+j)
			}
		}
		fc.recompute()
		fc.modelListeners.Notify(modelEvent)
		switch len(visible) {
		case 0:
		case 1:
			row, _ := fc.findView(visible[0])
			fc.viewListeners.Notify(collection.Event[T]{
				Action: collection.ActionAdd,
				Index:  row,
				Items:  []T{fc.model[visible[0]]},
			})
		default:
			fc.reset()
		}
	}
}

// removeModel drops model index m. The view is patched in place, sorted or
// not; surviving rows keep their relative order.
func (fc *FilterCollection[T]) removeModel(m int) {
	old := fc.model[m]
	fc.model = slices.Delete(fc.model, m, m+1)
	modelEvent := collection.Event[T]{Action: collection.ActionRemove, Index: m, OldItems: []T{old}}

	if !fc.active() {
		fc.modelListeners.Notify(modelEvent)
		fc.viewListeners.Notify(collection.Event[T]{Action: collection.ActionRemove, Index: m, OldItems: []T{old}})
		return
	}

	row, visible := fc.findView(m)
	if visible {
		fc.indices = slices.Delete(fc.indices, row, row+1)
		fc.view = slices.Delete(fc.view, row, row+1)
	}
	for k, idx := range fc.indices {
		if idx > m {
			fc.indices[k] = idx - 1
		}
	}

	fc.modelListeners.Notify(modelEvent)
	if visible {
		fc.viewListeners.Notify(collection.Event[T]{Action: collection.ActionRemove, Index: row, OldItems: []T{old}})
	}
}

func (fc *FilterCollection[T]) replaceModel(m int, item T) {
	old := fc.model[m]
	fc.model[m] = item
	modelEvent := collection.Event[T]{Action: collection.ActionReplace, Index: m, Items: []T{item}, OldItems: []T{old}}

	if !fc.active() {
		fc.modelListeners.Notify(modelEvent)
		fc.viewListeners.Notify(collection.Event[T]{Action: collection.ActionReplace, Index: m, Items: []T{item}, OldItems: []T{old}})
		return
	}

	row, was := fc.findView(m)
	now := fc.passes(item)

	if fc.compare == nil {
		switch {
		case was && now:
			fc.view[row] = item
		case was:
			fc.indices = slices.Delete(fc.indices, row, row+1)
			fc.view = slices.Delete(fc.view, row, row+1)
		case now:
			fc.indices = slices.Insert(fc.indices, row, m)
			fc.view = slices.Insert(fc.view, row, item)
		}
		fc.modelListeners.Notify(modelEvent)
		switch {
		case was && now:
			fc.viewListeners.Notify(collection.Event[T]{Action: collection.ActionReplace, Index: row, Items: []T{item}, OldItems: []T{old}})
		case was:
			fc.viewListeners.Notify(collection.Event[T]{Action: collection.ActionRemove, Index: row, OldItems: []T{old}})
		case now:
			fc.viewListeners.Notify(collection.Event[T]{Action: collection.ActionAdd, Index: row, Items: []T{item}})
		}
		return
	}

	if !was && !now {
		fc.modelListeners.Notify(modelEvent)
		return
	}
	fc.recompute()
	fc.modelListeners.Notify(modelEvent)
	if next, is := fc.findView(m); was && is && next == row {
		fc.viewListeners.Notify(collection.Event[T]{Action: collection.ActionReplace, Index: row, Items: []T{item}, OldItems: []T{old}})
		return
	}
	fc.reset()
}

func (fc *FilterCollection[T]) resetModel(items []T) {
	fc.model = slices.Clone(items)
	fc.modelListeners.Notify(collection.Event[T]{Action: collection.ActionReset, Index: -1})
	fc.Rebuild()
}

// modelHandler applies host changes to the model
type modelHandler[T comparable] struct {
	fc *FilterCollection[T]
}

func (h modelHandler[T]) AddItem(item T) {
	h.fc.insertModel(len(h.fc.model), []T{item})
}

func (h modelHandler[T]) AddRange(items []T) {
	h.fc.insertModel(len(h.fc.model), slices.Clone(items))
}

func (h modelHandler[T]) InsertItem(index int, item T) {
	h.fc.insertModel(index, []T{item})
}

func (h modelHandler[T]) InsertRange(index int, items []T) {
	h.fc.insertModel(index, slices.Clone(items))
}

func (h modelHandler[T]) RemoveItem(index int, item T) {
	h.fc.removeModel(index)
}

func (h modelHandler[T]) ReplaceItem(index int, oldItem, item T) {
	h.fc.replaceModel(index, item)
}

func (h modelHandler[T]) RemoveAllItems() {
	h.fc.resetModel(nil)
}

func (h modelHandler[T]) InitializeCollection(items []T) {
	h.fc.resetModel(items)
}

// modelSource is the model-space face of a FilterCollection
type modelSource[T comparable] struct {
	fc *FilterCollection[T]
}

func (s modelSource[T]) Len() int {
	return len(s.fc.model)
}

func (s modelSource[T]) AtAny(i int) any {
	return s.fc.model[i]
}

func (s modelSource[T]) SubscribeAny(fn func(collection.Event[any])) func() {
	return s.fc.modelListeners.Add(func(e collection.Event[T]) {
		fn(collection.Erase(e))
	})
}
