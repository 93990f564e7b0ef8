package projection

import (
	"filtergrid/internal/collection"
)

// ReadOnlyView exposes a projection to code that may read and observe it but
// must not change it. Every mutator fails with ErrReadOnly.
type ReadOnlyView[T comparable] struct {
	fc *FilterCollection[T]
}

func (r *ReadOnlyView[T]) Len() int                      { return r.fc.Len() }
func (r *ReadOnlyView[T]) At(row int) (T, error)         { return r.fc.At(row) }
func (r *ReadOnlyView[T]) AtAny(row int) any             { return r.fc.AtAny(row) }
func (r *ReadOnlyView[T]) Items() []T                    { return r.fc.Items() }
func (r *ReadOnlyView[T]) Add(item T) error              { return ErrReadOnly }
func (r *ReadOnlyView[T]) Insert(row int, item T) error  { return ErrReadOnly }
func (r *ReadOnlyView[T]) RemoveAt(row int) error        { return ErrReadOnly }
func (r *ReadOnlyView[T]) Remove(item T) error           { return ErrReadOnly }
func (r *ReadOnlyView[T]) SetItem(row int, item T) error { return ErrReadOnly }
func (r *ReadOnlyView[T]) Clear() error                  { return ErrReadOnly }

// Subscribe registers a listener for view-space changes
func (r *ReadOnlyView[T]) Subscribe(fn func(collection.Event[T])) func() {
	return r.fc.Subscribe(fn)
}

// SubscribeAny is Subscribe for type-erased consumers
func (r *ReadOnlyView[T]) SubscribeAny(fn func(collection.Event[any])) func() {
	return r.fc.SubscribeAny(fn)
}
