package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventEntriesLoaded EventType = "EntriesLoaded"
	EventLoadStarted   EventType = "LoadStarted"
	EventLoadCompleted EventType = "LoadCompleted"
	EventError         EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// EntriesLoadedEvent carries a batch of entries read from one source
type EntriesLoadedEvent struct {
	Source  string
	Entries []Entry
}

func (e EntriesLoadedEvent) Type() EventType { return EventEntriesLoaded }

// LoadStartedEvent is emitted when reading sources begins
type LoadStartedEvent struct {
	Sources []string
}

func (e LoadStartedEvent) Type() EventType { return EventLoadStarted }

// LoadCompletedEvent is emitted when every source has been read
type LoadCompletedEvent struct {
	EntriesFound int
}

func (e LoadCompletedEvent) Type() EventType { return EventLoadCompleted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
