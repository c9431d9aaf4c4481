package events

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus(zerolog.Nop())

	received := false
	var receivedEvent Event

	id := bus.SubscribeFunc(TypeTrialStarted, func(e Event) {
		received = true
		receivedEvent = e
	})
	assert.Equal(t, "trial.started_func_1", id)

	bus.Publish(NewTrialStartedEvent("trial-1", 42, 40, true))

	assert.True(t, received, "Event handler should have been called")
	require.NotNil(t, receivedEvent)
	assert.Equal(t, TypeTrialStarted, receivedEvent.Type())
	assert.Equal(t, "trial-1", receivedEvent.TrialID())
	assert.Equal(t, 0, receivedEvent.Turn())
}

func TestEventBusMultipleHandlers(t *testing.T) {
	bus := NewEventBus(zerolog.Nop())

	var calls []int
	bus.SubscribeFunc(TypeTurnStarted, func(e Event) { calls = append(calls, 1) })
	bus.SubscribeFunc(TypeTurnStarted, func(e Event) { calls = append(calls, 2) })

	bus.Publish(NewTurnStartedEvent("trial-1", 1, mana.Pool{}))

	assert.Equal(t, []int{1, 2}, calls)

	id := bus.SubscribeFunc(TypeTurnStarted, func(e Event) { calls = append(calls, 3) })
	assert.Equal(t, "turn.started_func_3", id)
	bus.Publish(NewTurnEndedEvent("trial-1", 1))
	assert.Equal(t, []int{1, 2}, calls)
}

// TestSubscriber is a test implementation of Subscriber
type TestSubscriber struct {
	id              string
	interestedTypes map[string]bool
	receivedEvents  []Event
}

func (ts *TestSubscriber) ID() string {
	return ts.id
}

func (ts *TestSubscriber) HandleEvent(e Event) {
	ts.receivedEvents = append(ts.receivedEvents, e)
}

func (ts *TestSubscriber) InterestedIn(eventType string) bool {
	if ts.interestedTypes == nil {
		return true
	}
	return ts.interestedTypes[eventType]
}

func TestEventBusSubscriber(t *testing.T) {
	bus := NewEventBus(zerolog.Nop())

	subscriber := &TestSubscriber{
		id: "test-subscriber",
		interestedTypes: map[string]bool{
			TypeTrialStarted:  true,
			TypeTrialFinished: true,
		},
	}
	bus.Subscribe(subscriber)

	bus.Publish(NewTrialStartedEvent("trial-1", 1, 40, true))
	bus.Publish(NewTurnStartedEvent("trial-1", 1, mana.Pool{}))
	bus.Publish(NewTrialFinishedEvent("trial-1", 10, "turn_limit_reached"))

	require.Len(t, subscriber.receivedEvents, 2)
	assert.Equal(t, TypeTrialStarted, subscriber.receivedEvents[0].Type())
	assert.Equal(t, TypeTrialFinished, subscriber.receivedEvents[1].Type())
}

func TestEventBusSubscriberOrder(t *testing.T) {
	bus := NewEventBus(zerolog.Nop())

	var order []string
	for _, id := range []string{"c", "a", "b"} {
		bus.Subscribe(&orderSubscriber{id: id, order: &order})
	}
	bus.Publish(NewTurnEndedEvent("trial-1", 3))

	assert.Equal(t, []string{"c", "a", "b"}, order)

	// re-subscribing an ID replaces it without moving it
	var replaced []string
	bus.Subscribe(&orderSubscriber{id: "a", order: &replaced})
	bus.Publish(NewTurnEndedEvent("trial-1", 4))

	assert.Equal(t, []string{"c", "a", "b", "c", "b"}, order)
	assert.Equal(t, []string{"a"}, replaced)
}

type orderSubscriber struct {
	id    string
	order *[]string
}

func (o *orderSubscriber) ID() string               { return o.id }
func (o *orderSubscriber) InterestedIn(string) bool { return true }
func (o *orderSubscriber) HandleEvent(Event)        { *o.order = append(*o.order, o.id) }

func TestEventBusRecoversFromPanics(t *testing.T) {
	bus := NewEventBus(zerolog.Nop())

	bus.Subscribe(&panicSubscriber{})
	recorder := NewTraceRecorder("trial-1")
	bus.Subscribe(recorder)
	handled := false
	bus.SubscribeFunc(TypeTurnEnded, func(Event) { panic("boom") })
	bus.SubscribeFunc(TypeTurnEnded, func(Event) { handled = true })

	assert.NotPanics(t, func() {
		bus.Publish(NewTurnEndedEvent("trial-1", 1))
	})
	assert.True(t, handled)
	assert.Equal(t, 1, recorder.Trace().Len())
}

type panicSubscriber struct{}

func (p *panicSubscriber) ID() string               { return "panic" }
func (p *panicSubscriber) InterestedIn(string) bool { return true }
func (p *panicSubscriber) HandleEvent(Event)        { panic("subscriber failure") }

func TestTraceRecorder(t *testing.T) {
	bus := NewEventBus(zerolog.Nop())
	recorder := NewTraceRecorder("trial-7")
	bus.Subscribe(recorder)

	assert.Nil(t, recorder.Trace().Last())

	bus.Publish(NewTrialStartedEvent("trial-7", 7, 40, false))
	bus.Publish(NewTurnStartedEvent("trial-7", 1, mana.Pool{}))
	bus.Publish(NewTurnEndedEvent("trial-7", 1))
	bus.Publish(NewTurnStartedEvent("trial-7", 2, mana.Pool{G: 1}))

	trace := recorder.Trace()
	assert.Equal(t, "trial-7", trace.TrialID)
	assert.Equal(t, 4, trace.Len())
	turns := trace.OfType(TypeTurnStarted)
	require.Len(t, turns, 2)
	assert.Equal(t, 2, turns[1].Turn())
	assert.Equal(t, mana.Pool{G: 1}, turns[1].(*TurnStartedEvent).ManaAvailable)
	assert.Equal(t, TypeTurnStarted, trace.Last().Type())
}
