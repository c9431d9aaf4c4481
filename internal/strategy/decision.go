package strategy

import "github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"

// DecisionKind tags a Decision
type DecisionKind int

const (
	KindMulligan DecisionKind = iota
	KindLandDrop
	KindCardPlay
)

func (k DecisionKind) String() string {
	switch k {
	case KindMulligan:
		return "mulligan"
	case KindLandDrop:
		return "land_drop"
	case KindCardPlay:
		return "card_play"
	default:
		return "unknown"
	}
}

// Decision is a value returned by a strategy call. The trial executor is the
// only thing that applies decisions to a game state.
type Decision interface {
	Kind() DecisionKind
}

// MulliganDecision keeps the current hand, or ships it when Ship is set
type MulliganDecision struct {
	Ship bool
}

// LandDropDecision plays Card when Play is set
type LandDropDecision struct {
	Card core.CardID
	Play bool
}

// Play is one cast in a CardPlayDecision
type Play struct {
	Card core.CardID
	From core.Zone
}

// CardPlayDecision casts Plays in order; an empty list passes the turn
type CardPlayDecision struct {
	Plays []Play
}

func (MulliganDecision) Kind() DecisionKind { return KindMulligan }
func (LandDropDecision) Kind() DecisionKind { return KindLandDrop }
func (CardPlayDecision) Kind() DecisionKind { return KindCardPlay }

// Keep is the MulliganDecision that keeps the hand
func Keep() MulliganDecision { return MulliganDecision{Ship: false} }

// Ship is the MulliganDecision that mulligans the hand
func Ship() MulliganDecision { return MulliganDecision{Ship: true} }

// NoLand is the LandDropDecision that skips the land drop
func NoLand() LandDropDecision { return LandDropDecision{Card: core.NoCard} }

// PlayLand is the LandDropDecision that plays id
func PlayLand(id core.CardID) LandDropDecision { return LandDropDecision{Card: id, Play: true} }
