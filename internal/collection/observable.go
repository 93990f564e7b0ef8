package collection

// ObservableList is an in-memory host collection that reports every
// structural change to its subscribers.
type ObservableList[T any] struct {
	items     []T
	listeners Listeners[T]
}

// NewObservableList creates a list holding a copy of items
func NewObservableList[T any](items ...T) *ObservableList[T] {
	l := &ObservableList[T]{}
	if len(items) > 0 {
		l.items = append(make([]T, 0, len(items)), items...)
	}
	return l
}

// Len returns the number of items
func (l *ObservableList[T]) Len() int {
	return len(l.items)
}

// At returns the item at index i. It panics when i is out of range, like a slice.
func (l *ObservableList[T]) At(i int) T {
	return l.items[i]
}

// AtAny returns the item at index i as an interface value
func (l *ObservableList[T]) AtAny(i int) any {
	return l.items[i]
}

// Items returns a copy of the items
func (l *ObservableList[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Append adds items at the end
func (l *ObservableList[T]) Append(items ...T) {
	if len(items) == 0 {
		return
	}
	idx := len(l.items)
	l.items = append(l.items, items...)
	l.listeners.Notify(Event[T]{Action: ActionAdd, Index: idx, Items: clone(items)})
}

// Insert splices items in before index; index == Len appends.
func (l *ObservableList[T]) Insert(index int, items ...T) error {
	if index < 0 || index > len(l.items) {
		return IndexError(index, len(l.items))
	}
	if len(items) == 0 {
		return nil
	}
	l.items = append(l.items[:index], append(clone(items), l.items[index:]...)...)
	l.listeners.Notify(Event[T]{Action: ActionAdd, Index: index, Items: clone(items)})
	return nil
}

// RemoveAt removes the item at index
func (l *ObservableList[T]) RemoveAt(index int) error {
	if index < 0 || index >= len(l.items) {
		return IndexError(index, len(l.items))
	}
	old := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.listeners.Notify(Event[T]{Action: ActionRemove, Index: index, OldItems: []T{old}})
	return nil
}

// Set replaces the item at index
func (l *ObservableList[T]) Set(index int, item T) error {
	if index < 0 || index >= len(l.items) {
		return IndexError(index, len(l.items))
	}
	old := l.items[index]
	l.items[index] = item
	l.listeners.Notify(Event[T]{Action: ActionReplace, Index: index, Items: []T{item}, OldItems: []T{old}})
	return nil
}

// Clear removes all items
func (l *ObservableList[T]) Clear() {
	l.items = nil
	l.listeners.Notify(Event[T]{Action: ActionReset, Index: -1})
}

// Reset replaces the whole content with items
func (l *ObservableList[T]) Reset(items []T) {
	l.items = clone(items)
	l.listeners.Notify(Event[T]{Action: ActionReset, Index: -1})
}

// Subscribe adds a change listener and returns an unsubscribe function.
func (l *ObservableList[T]) Subscribe(fn func(Event[T])) func() {
	return l.listeners.Add(fn)
}

// SubscribeAny is Subscribe for type-erased consumers
func (l *ObservableList[T]) SubscribeAny(fn func(Event[any])) func() {
	return l.listeners.Add(func(e Event[T]) {
		fn(Erase(e))
	})
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
