package collection

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedCollection is returned when a host collection exposes
	// neither change notifications nor random access.
	ErrUnsupportedCollection = errors.New("unsupported collection")

	// ErrIndexOutOfRange is returned for reads and writes outside [0, Len).
	ErrIndexOutOfRange = errors.New("index out of range")
)

// IndexError wraps ErrIndexOutOfRange with the offending index and bound
func IndexError(index, length int) error {
	return fmt.Errorf("index %d with length %d: %w", index, length, ErrIndexOutOfRange)
}

// Action is the kind of structural change an Event describes
type Action int

const (
	ActionAdd Action = iota
	ActionRemove
	ActionReplace
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes one structural change in a single index space.
// Index is the first affected position and is -1 for ActionReset.
// Items holds added (or replacement) items, OldItems removed (or replaced) ones.
type Event[T any] struct {
	Action   Action
	Index    int
	Items    []T
	OldItems []T
}

// Erase drops the static item type so index-only consumers can observe the event.
func Erase[T any](e Event[T]) Event[any] {
	out := Event[any]{Action: e.Action, Index: e.Index}
	if e.Items != nil {
		out.Items = make([]any, len(e.Items))
		for i, item := range e.Items {
			out.Items[i] = item
		}
	}
	if e.OldItems != nil {
		out.OldItems = make([]any, len(e.OldItems))
		for i, item := range e.OldItems {
			out.OldItems[i] = item
		}
	}
	return out
}

// Sequence is a random-access collection without change notifications.
type Sequence[T any] interface {
	Len() int
	At(i int) T
}

// Observable is a random-access collection that reports its changes.
type Observable[T any] interface {
	Sequence[T]
	Subscribe(fn func(Event[T])) func()
}

// Untyped is the type-erased form of Observable.
type Untyped interface {
	Len() int
	AtAny(i int) any
	SubscribeAny(fn func(Event[any])) func()
}

// Mutable is a host collection the projection can write through to.
type Mutable[T any] interface {
	Append(items ...T)
	Insert(index int, items ...T) error
	RemoveAt(index int) error
	Set(index int, item T) error
	Clear()
}

// Handler receives normalized change reactions from an Adapter.
type Handler[T any] interface {
	AddItem(item T)
	AddRange(items []T)
	InsertItem(index int, item T)
	RemoveItem(index int, item T)
	RemoveAllItems()
}

// Initializer is implemented by handlers that rebuild their working copy in
// one step when a host is attached or reset.
type Initializer[T any] interface {
	InitializeCollection(items []T)
}

// Replacer is implemented by handlers that can apply an in-place
// replacement. Without it a replacement arrives as RemoveItem + InsertItem.
type Replacer[T any] interface {
	ReplaceItem(index int, oldItem, item T)
}

// RangeInserter is implemented by handlers that take a block inserted in the
// middle of the host in one call instead of one InsertItem per item.
type RangeInserter[T any] interface {
	InsertRange(index int, items []T)
}

// Tracking reports whether an attached host delivers change notifications.
type Tracking int

const (
	// TrackingNone means only a snapshot was taken; call Refresh to resync.
	TrackingNone Tracking = iota
	// TrackingChanges means host mutations are forwarded as they happen.
	TrackingChanges
)

func (t Tracking) String() string {
	if t == TrackingChanges {
		return "changes"
	}
	return "none"
}
