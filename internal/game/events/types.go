package events

// Event is the base interface for all trial events
type Event interface {
	// Type returns the event type as a string for filtering and logging
	Type() string
	// TrialID returns the ID of the trial this event belongs to
	TrialID() string
	// Turn returns the turn the event happened on; 0 is the mulligan phase
	Turn() int
}

// BaseEvent provides common fields for all events. Events carry the turn
// instead of a wall-clock timestamp so traces are reproducible.
type BaseEvent struct {
	EventType  string `json:"type"`
	Trial      string `json:"trial_id"`
	TurnNumber int    `json:"turn"`
}

// Type implements Event interface
func (e BaseEvent) Type() string {
	return e.EventType
}

// TrialID implements Event interface
func (e BaseEvent) TrialID() string {
	return e.Trial
}

// Turn implements Event interface
func (e BaseEvent) Turn() int {
	return e.TurnNumber
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscriber represents an entity that can receive events
type Subscriber interface {
	// ID returns a unique identifier for this subscriber
	ID() string
	// HandleEvent processes an event
	HandleEvent(Event)
	// InterestedIn returns true if the subscriber wants to receive this event type
	InterestedIn(eventType string) bool
}

// Publisher is the interface for publishing events
type Publisher interface {
	// Publish sends an event to all interested subscribers
	Publish(Event)
}

// Bus is the main event bus interface
type Bus interface {
	Publisher
	// Subscribe adds a new subscriber to the event bus
	Subscribe(Subscriber)
	// SubscribeFunc adds a function handler for specific event types
	SubscribeFunc(eventType string, handler EventHandler) string
}
