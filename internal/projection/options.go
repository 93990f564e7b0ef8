package projection

import (
	"errors"

	"github.com/rs/zerolog"

	"filtergrid/internal/collection"
	"filtergrid/internal/events"
)

var (
	// ErrIndexOutOfRange is returned for view rows outside [0, Len)
	ErrIndexOutOfRange = collection.ErrIndexOutOfRange

	// ErrReadOnly is returned by every mutator of a ReadOnlyView
	ErrReadOnly = errors.New("projection is read-only")
)

// FilterChangedEvent is published when the filter predicate is set or cleared
type FilterChangedEvent struct {
	Active bool
	Rows   int
}

// SortChangedEvent is published when the comparator is set or cleared
type SortChangedEvent struct {
	Active bool
	Rows   int
}

type options struct {
	coalesce bool
	log      zerolog.Logger
	bus      events.EventBus
}

func defaultOptions() options {
	return options{
		coalesce: true,
		log:      zerolog.Nop(),
		bus:      &events.NullBus{},
	}
}

// Option configures a projection
type Option func(*options)

// WithCoalescedRangeAdds selects how AddRange and InsertRange are reported
// when no comparator is active: one Add event carrying every visible item
// (the default), or a single Reset for controls that cannot take a multi-item
// add.
func WithCoalescedRangeAdds(coalesce bool) Option {
	return func(o *options) {
		o.coalesce = coalesce
	}
}

// WithLogger sets the logger for rebuild and selection debug output
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithBus sets the bus that receives filter, sort and selection events
func WithBus(bus events.EventBus) Option {
	return func(o *options) {
		if bus != nil {
			o.bus = bus
		}
	}
}
