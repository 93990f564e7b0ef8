package collection

// Listeners is an ordered list of change callbacks. Callbacks run
// synchronously in subscription order.
type Listeners[T any] struct {
	fns []func(Event[T])
}

// Add registers fn and returns a func that unregisters it.
func (l *Listeners[T]) Add(fn func(Event[T])) func() {
	l.fns = append(l.fns, fn)
	idx := len(l.fns) - 1
	return func() {
		// keep positions stable for the other unsubscribe funcs
		if idx < len(l.fns) {
			l.fns[idx] = nil
		}
	}
}

// Notify delivers e to every live callback.
func (l *Listeners[T]) Notify(e Event[T]) {
	for _, fn := range l.fns {
		if fn != nil {
			fn(e)
		}
	}
}

// Len returns the number of live callbacks.
func (l *Listeners[T]) Len() int {
	n := 0
	for _, fn := range l.fns {
		if fn != nil {
			n++
		}
	}
	return n
}

// Hooks is a list of parameterless callbacks.
type Hooks struct {
	fns []func()
}

// Add registers fn and returns a func that unregisters it.
func (h *Hooks) Add(fn func()) func() {
	h.fns = append(h.fns, fn)
	idx := len(h.fns) - 1
	return func() {
		if idx < len(h.fns) {
			h.fns[idx] = nil
		}
	}
}

// Fire runs every live callback.
func (h *Hooks) Fire() {
	for _, fn := range h.fns {
		if fn != nil {
			fn()
		}
	}
}
