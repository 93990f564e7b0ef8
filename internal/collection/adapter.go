package collection

import "fmt"

// Adapter observes a host collection, whatever notification shape it uses,
// and re-emits its changes through a Handler.
type Adapter[T any] struct {
	handler     Handler[T]
	host        any
	snapshot    func() []T
	unsubscribe func()
	tracking    Tracking
	count       int // host length as last reported to the handler
}

// NewAdapter creates an adapter that forwards to h
func NewAdapter[T any](h Handler[T]) *Adapter[T] {
	return &Adapter[T]{handler: h}
}

// Attach binds the adapter to host, replacing any previous host, and
// initializes the handler from a snapshot. A nil host initializes the
// handler as empty.
//
// Recognised shapes, in order: Observable[T], Untyped, Sequence[T], []T.
// Hosts without notifications are tracked as TrackingNone.
func (a *Adapter[T]) Attach(host any) error {
	var (
		snapshot  func() []T
		subscribe func() func()
		tracking  Tracking
	)

	switch h := host.(type) {
	case nil:
		snapshot = func() []T { return nil }
	case Observable[T]:
		snapshot = func() []T { return snapshotSequence[T](h) }
		subscribe = func() func() { return h.Subscribe(a.dispatch) }
		tracking = TrackingChanges
	case Untyped:
		snapshot = func() []T { return snapshotUntyped[T](h) }
		subscribe = func() func() {
			return h.SubscribeAny(func(e Event[any]) { a.dispatch(unerase[T](e)) })
		}
		tracking = TrackingChanges
	case Sequence[T]:
		snapshot = func() []T { return snapshotSequence[T](h) }
	case []T:
		snapshot = func() []T { return clone(h) }
	default:
		return fmt.Errorf("attach %T: %w", host, ErrUnsupportedCollection)
	}

	a.Detach()
	a.host = host
	a.snapshot = snapshot
	a.tracking = tracking
	if subscribe != nil {
		a.unsubscribe = subscribe()
	}
	a.initialize()
	return nil
}

// Detach stops observing the current host. The handler keeps its working copy.
func (a *Adapter[T]) Detach() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.host = nil
	a.tracking = TrackingNone
}

// Refresh re-reads the host and re-initializes the handler. This is the only
// way to pick up changes from hosts attached with TrackingNone.
func (a *Adapter[T]) Refresh() {
	if a.snapshot == nil {
		return
	}
	a.initialize()
}

// Tracking reports the capability of the attached host
func (a *Adapter[T]) Tracking() Tracking {
	return a.tracking
}

// Host returns the attached host, or nil
func (a *Adapter[T]) Host() any {
	return a.host
}

func (a *Adapter[T]) initialize() {
	items := a.snapshot()
	a.count = len(items)
	if init, ok := a.handler.(Initializer[T]); ok {
		init.InitializeCollection(items)
		return
	}
	a.handler.RemoveAllItems()
	if len(items) > 0 {
		a.handler.AddRange(items)
	}
}

// dispatch maps one host event onto the five handler reactions
func (a *Adapter[T]) dispatch(e Event[T]) {
	switch e.Action {
	case ActionAdd:
		switch {
		case len(e.Items) == 0:
		case e.Index >= a.count && len(e.Items) == 1:
			a.count++
			a.handler.AddItem(e.Items[0])
		case e.Index >= a.count:
			a.count += len(e.Items)
			a.handler.AddRange(e.Items)
		default:
			if r, ok := a.handler.(RangeInserter[T]); ok && len(e.Items) > 1 {
				a.count += len(e.Items)
				r.InsertRange(e.Index, e.Items)
				return
			}
			for i, item := range e.Items {
				a.count++
				a.handler.InsertItem(e.Index+i, item)
			}
		}
	case ActionRemove:
		for _, item := range e.OldItems {
			a.count--
			a.handler.RemoveItem(e.Index, item)
		}
	case ActionReplace:
		r, canReplace := a.handler.(Replacer[T])
		for i := range e.Items {
			if canReplace && i < len(e.OldItems) {
				r.ReplaceItem(e.Index+i, e.OldItems[i], e.Items[i])
				continue
			}
			if i < len(e.OldItems) {
				a.handler.RemoveItem(e.Index+i, e.OldItems[i])
			} else {
				a.count++
			}
			a.handler.InsertItem(e.Index+i, e.Items[i])
		}
	case ActionReset:
		a.initialize()
	}
}

func snapshotSequence[T any](s Sequence[T]) []T {
	n := s.Len()
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = s.At(i)
	}
	return out
}

func snapshotUntyped[T any](s Untyped) []T {
	n := s.Len()
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i], _ = s.AtAny(i).(T)
	}
	return out
}

func unerase[T any](e Event[any]) Event[T] {
	out := Event[T]{Action: e.Action, Index: e.Index}
	if e.Items != nil {
		out.Items = make([]T, len(e.Items))
		for i, item := range e.Items {
			out.Items[i], _ = item.(T)
		}
	}
	if e.OldItems != nil {
		out.OldItems = make([]T, len(e.OldItems))
		for i, item := range e.OldItems {
			out.OldItems[i], _ = item.(T)
		}
	}
	return out
}
