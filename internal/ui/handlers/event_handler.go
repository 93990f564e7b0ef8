package handlers

import (
	"fmt"

	"github.com/rs/zerolog"

	"filtergrid/internal/eventbus"
	"filtergrid/internal/ui/coordinator"
	"filtergrid/internal/ui/state"
)

// EventHandler applies loader events to the entry list and the UI state
type EventHandler struct {
	state *state.AppState
	coord *coordinator.Coordinator
	log   zerolog.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(appState *state.AppState, coord *coordinator.Coordinator, log zerolog.Logger) *EventHandler {
	return &EventHandler{
		state: appState,
		coord: coord,
		log:   log,
	}
}

// HandleEvent processes one domain event on the UI goroutine
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.LoadStartedEvent:
		h.state.Loading = true
		h.state.LoadSources = len(e.Sources)
		h.state.SetStatus(fmt.Sprintf("Loading %d source(s)", len(e.Sources)))

	case eventbus.EntriesLoadedEvent:
		h.coord.AddEntries(e.Entries)
		h.state.LoadedCount += len(e.Entries)
		h.log.Debug().Str("source", e.Source).Int("entries", len(e.Entries)).Msg("entries added")

	case eventbus.LoadCompletedEvent:
		h.state.Loading = false
		h.state.SetStatus(fmt.Sprintf("Loaded %d entries", e.EntriesFound))

	case eventbus.ErrorEvent:
		h.state.SetError(fmt.Sprintf("Error: %s", e.Message))
		h.log.Error().Err(e.Err).Msg(e.Message)
	}
}
