package events

import (
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
)

// Event type constants
const (
	TypeTrialStarted     = "trial.started"
	TypeTrialFinished    = "trial.finished"
	TypeTrialAborted     = "trial.aborted"
	TypePhaseChanged     = "phase.changed"
	TypeHandDrawn        = "hand.drawn"
	TypeMulliganDecided  = "mulligan.decided"
	TypeHandKept         = "hand.kept"
	TypeTurnStarted      = "turn.started"
	TypeCardDrawn        = "card.drawn"
	TypeLandPlayed       = "land.played"
	TypeSpellCast        = "spell.cast"
	TypeTurnEnded        = "turn.ended"
	TypeStopConditionMet = "stop_condition.met"
	TypeLibraryEmptied   = "library.emptied"
)

func base(eventType, trialID string, turn int) BaseEvent {
	return BaseEvent{EventType: eventType, Trial: trialID, TurnNumber: turn}
}

// TrialStartedEvent is published once the library has been shuffled
type TrialStartedEvent struct {
	BaseEvent
	Seed      int64 `json:"seed"`
	DeckSize  int   `json:"deck_size"`
	OnThePlay bool  `json:"on_the_play"`
}

// NewTrialStartedEvent creates a new TrialStartedEvent
func NewTrialStartedEvent(trialID string, seed int64, deckSize int, onThePlay bool) *TrialStartedEvent {
	return &TrialStartedEvent{
		BaseEvent: base(TypeTrialStarted, trialID, 0),
		Seed:      seed,
		DeckSize:  deckSize,
		OnThePlay: onThePlay,
	}
}

// PhaseChangedEvent is published on every trial phase transition
type PhaseChangedEvent struct {
	BaseEvent
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason"`
}

// NewPhaseChangedEvent creates a new PhaseChangedEvent
func NewPhaseChangedEvent(trialID string, turn int, from, to, reason string) *PhaseChangedEvent {
	return &PhaseChangedEvent{
		BaseEvent: base(TypePhaseChanged, trialID, turn),
		From:      from,
		To:        to,
		Reason:    reason,
	}
}

// HandDrawnEvent is published for every opening hand, including redraws
type HandDrawnEvent struct {
	BaseEvent
	Attempt int           `json:"attempt"`
	Cards   []core.CardID `json:"cards"`
	Lands   int           `json:"lands"`
}

// NewHandDrawnEvent creates a new HandDrawnEvent
func NewHandDrawnEvent(trialID string, attempt int, cards []core.CardID, lands int) *HandDrawnEvent {
	return &HandDrawnEvent{
		BaseEvent: base(TypeHandDrawn, trialID, 0),
		Attempt:   attempt,
		Cards:     cards,
		Lands:     lands,
	}
}

// MulliganDecidedEvent records one keep/ship decision. Forced is set when
// the mulligan limit made the executor keep regardless of the decision.
type MulliganDecidedEvent struct {
	BaseEvent
	Attempt int  `json:"attempt"`
	Ship    bool `json:"ship"`
	Forced  bool `json:"forced"`
}

// NewMulliganDecidedEvent creates a new MulliganDecidedEvent
func NewMulliganDecidedEvent(trialID string, attempt int, ship, forced bool) *MulliganDecidedEvent {
	return &MulliganDecidedEvent{
		BaseEvent: base(TypeMulliganDecided, trialID, 0),
		Attempt:   attempt,
		Ship:      ship,
		Forced:    forced,
	}
}

// HandKeptEvent is published when the final hand is settled, after any
// London mulligan bottoming.
type HandKeptEvent struct {
	BaseEvent
	Cards     []core.CardID `json:"cards"`
	Lands     int           `json:"lands"`
	Mulligans int           `json:"mulligans"`
	Bottomed  []core.CardID `json:"bottomed,omitempty"`
}

// NewHandKeptEvent creates a new HandKeptEvent
func NewHandKeptEvent(trialID string, cards []core.CardID, lands, mulligans int, bottomed []core.CardID) *HandKeptEvent {
	return &HandKeptEvent{
		BaseEvent: base(TypeHandKept, trialID, 0),
		Cards:     cards,
		Lands:     lands,
		Mulligans: mulligans,
		Bottomed:  bottomed,
	}
}

// TurnStartedEvent is published at the beginning of each turn
type TurnStartedEvent struct {
	BaseEvent
	ManaAvailable mana.Pool `json:"mana_available"`
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(trialID string, turn int, available mana.Pool) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent:     base(TypeTurnStarted, trialID, turn),
		ManaAvailable: available,
	}
}

// CardDrawnEvent is published for the draw step
type CardDrawnEvent struct {
	BaseEvent
	Card core.CardID `json:"card"`
}

// NewCardDrawnEvent creates a new CardDrawnEvent
func NewCardDrawnEvent(trialID string, turn int, card core.CardID) *CardDrawnEvent {
	return &CardDrawnEvent{
		BaseEvent: base(TypeCardDrawn, trialID, turn),
		Card:      card,
	}
}

// LandPlayedEvent is published for each land drop
type LandPlayedEvent struct {
	BaseEvent
	Card     core.CardID `json:"card"`
	Produces mana.Pool   `json:"produces"`
}

// NewLandPlayedEvent creates a new LandPlayedEvent
func NewLandPlayedEvent(trialID string, turn int, card core.CardID, produces mana.Pool) *LandPlayedEvent {
	return &LandPlayedEvent{
		BaseEvent: base(TypeLandPlayed, trialID, turn),
		Card:      card,
		Produces:  produces,
	}
}

// SpellCastEvent is published for each resolved spell. The card's name and
// tags are copied in so collectors do not need the catalog.
type SpellCastEvent struct {
	BaseEvent
	Card      core.CardID `json:"card"`
	Name      string      `json:"name"`
	From      core.Zone   `json:"from"`
	Payment   mana.Pool   `json:"payment"`
	ManaValue int         `json:"mana_value"`
	Damage    int         `json:"damage,omitempty"`
	Commander bool        `json:"commander,omitempty"`
	Combo     bool        `json:"combo,omitempty"`
}

// NewSpellCastEvent creates a new SpellCastEvent from the resolved card
func NewSpellCastEvent(trialID string, turn int, id core.CardID, card *core.Card, from core.Zone, payment mana.Pool) *SpellCastEvent {
	return &SpellCastEvent{
		BaseEvent: base(TypeSpellCast, trialID, turn),
		Card:      id,
		Name:      card.Name,
		From:      from,
		Payment:   payment,
		ManaValue: card.Cost.ManaValue(),
		Damage:    card.Damage,
		Commander: card.IsCommander(),
		Combo:     card.IsCombo(),
	}
}

// TurnEndedEvent summarises a turn's board state
type TurnEndedEvent struct {
	BaseEvent
	LandPlayed     bool `json:"land_played"`
	LandInHand     bool `json:"land_in_hand"`
	SpellsCast     int  `json:"spells_cast"`
	ManaSpent      int  `json:"mana_spent"`
	LandsInPlay    int  `json:"lands_in_play"`
	ManaProduction int  `json:"mana_production"`
	TotalDamage    int  `json:"total_damage"`
	HandSize       int  `json:"hand_size"`
}

// NewTurnEndedEvent creates a new TurnEndedEvent
func NewTurnEndedEvent(trialID string, turn int) *TurnEndedEvent {
	return &TurnEndedEvent{BaseEvent: base(TypeTurnEnded, trialID, turn)}
}

// StopConditionMetEvent is published when the configured stop condition holds
type StopConditionMetEvent struct {
	BaseEvent
	Condition string `json:"condition"`
}

// NewStopConditionMetEvent creates a new StopConditionMetEvent
func NewStopConditionMetEvent(trialID string, turn int, condition string) *StopConditionMetEvent {
	return &StopConditionMetEvent{
		BaseEvent: base(TypeStopConditionMet, trialID, turn),
		Condition: condition,
	}
}

// LibraryEmptiedEvent is published when a draw finds the library empty
type LibraryEmptiedEvent struct {
	BaseEvent
	Wanted int `json:"wanted"`
	Drawn  int `json:"drawn"`
}

// NewLibraryEmptiedEvent creates a new LibraryEmptiedEvent
func NewLibraryEmptiedEvent(trialID string, turn, wanted, drawn int) *LibraryEmptiedEvent {
	return &LibraryEmptiedEvent{
		BaseEvent: base(TypeLibraryEmptied, trialID, turn),
		Wanted:    wanted,
		Drawn:     drawn,
	}
}

// TrialFinishedEvent is the last event of a completed trial
type TrialFinishedEvent struct {
	BaseEvent
	Reason      string `json:"reason"`
	TurnsPlayed int    `json:"turns_played"`
}

// NewTrialFinishedEvent creates a new TrialFinishedEvent
func NewTrialFinishedEvent(trialID string, turn int, reason string) *TrialFinishedEvent {
	return &TrialFinishedEvent{
		BaseEvent:   base(TypeTrialFinished, trialID, turn),
		Reason:      reason,
		TurnsPlayed: turn,
	}
}

// TrialAbortedEvent is the last event of a trial that hit an illegal action
type TrialAbortedEvent struct {
	BaseEvent
	Error string `json:"error"`
}

// NewTrialAbortedEvent creates a new TrialAbortedEvent
func NewTrialAbortedEvent(trialID string, turn int, err error) *TrialAbortedEvent {
	return &TrialAbortedEvent{
		BaseEvent: base(TypeTrialAborted, trialID, turn),
		Error:     err.Error(),
	}
}
