package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/events"
)

// LoggerSubscriber logs trial events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         bool            // If true, log full event details
	catalog         *core.Catalog   // If set, card IDs are logged with names
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

// SetCatalog makes the subscriber log card names next to IDs
func (ls *LoggerSubscriber) SetCatalog(cat *core.Catalog) {
	ls.catalog = cat
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("trial_id", event.TrialID()).
		Int("turn", event.Turn()).
		Logger()

	var logEvent *zerolog.Event
	switch ls.logLevel {
	case zerolog.TraceLevel:
		logEvent = eventLogger.Trace()
	case zerolog.DebugLevel:
		logEvent = eventLogger.Debug()
	case zerolog.InfoLevel:
		logEvent = eventLogger.Info()
	case zerolog.WarnLevel:
		logEvent = eventLogger.Warn()
	case zerolog.ErrorLevel:
		logEvent = eventLogger.Error()
	default:
		logEvent = eventLogger.Info()
	}
	if logEvent == nil {
		return
	}

	switch e := event.(type) {
	case *events.TrialStartedEvent:
		logEvent.
			Int64("seed", e.Seed).
			Int("deck_size", e.DeckSize).
			Bool("on_the_play", e.OnThePlay)

	case *events.PhaseChangedEvent:
		logEvent.
			Str("from_phase", e.From).
			Str("to_phase", e.To).
			Str("reason", e.Reason)

	case *events.HandDrawnEvent:
		logEvent.
			Int("attempt", e.Attempt).
			Int("hand_size", len(e.Cards)).
			Int("lands", e.Lands)

	case *events.MulliganDecidedEvent:
		logEvent.
			Int("attempt", e.Attempt).
			Bool("ship", e.Ship).
			Bool("forced", e.Forced)

	case *events.HandKeptEvent:
		logEvent.
			Int("hand_size", len(e.Cards)).
			Int("lands", e.Lands).
			Int("mulligans", e.Mulligans).
			Int("bottomed", len(e.Bottomed))

	case *events.TurnStartedEvent:
		logEvent.Str("mana_available", e.ManaAvailable.String())

	case *events.CardDrawnEvent:
		ls.card(logEvent, e.Card)

	case *events.LandPlayedEvent:
		ls.card(logEvent, e.Card)
		logEvent.Str("produces", e.Produces.String())

	case *events.SpellCastEvent:
		ls.card(logEvent, e.Card)
		logEvent.
			Str("from", e.From.String()).
			Str("payment", e.Payment.String()).
			Int("mana_value", e.ManaValue).
			Bool("commander", e.Commander)

	case *events.TurnEndedEvent:
		logEvent.
			Bool("land_played", e.LandPlayed).
			Int("spells_cast", e.SpellsCast).
			Int("mana_spent", e.ManaSpent).
			Int("lands_in_play", e.LandsInPlay).
			Int("mana_production", e.ManaProduction)

	case *events.StopConditionMetEvent:
		logEvent.Str("condition", e.Condition)

	case *events.LibraryEmptiedEvent:
		logEvent.
			Int("wanted", e.Wanted).
			Int("drawn", e.Drawn)

	case *events.TrialFinishedEvent:
		logEvent.
			Str("reason", e.Reason).
			Int("turns_played", e.TurnsPlayed)

	case *events.TrialAbortedEvent:
		logEvent.Str("error", e.Error)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Trial event")
}

func (ls *LoggerSubscriber) card(logEvent *zerolog.Event, id core.CardID) {
	logEvent.Int("card_id", int(id))
	if ls.catalog != nil {
		logEvent.Str("card", ls.catalog.Name(id))
	}
}
