package processor

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/events"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/strategy"
)

// Action names used in wrapped errors
const (
	ActionPlayLand = "play_land"
	ActionCast     = "cast"
)

// DecisionProcessor applies strategy decisions to a game state and publishes
// an event for each action that resolves
type DecisionProcessor struct {
	trialID   string
	publisher events.Publisher
	logger    zerolog.Logger
}

// PlayResult sums the card plays of one turn
type PlayResult struct {
	SpellsCast int
	ManaSpent  int
}

// NewDecisionProcessor creates a new decision processor. publisher may be nil.
func NewDecisionProcessor(trialID string, publisher events.Publisher, logger zerolog.Logger) *DecisionProcessor {
	return &DecisionProcessor{
		trialID:   trialID,
		publisher: publisher,
		logger:    logger.With().Str("component", "DecisionProcessor").Logger(),
	}
}

// ApplyLandDrop plays the chosen land, if any. It reports whether a land
// was played.
func (dp *DecisionProcessor) ApplyLandDrop(gs *game.GameState, d strategy.LandDropDecision) (bool, error) {
	if !d.Play {
		return false, nil
	}
	if err := gs.PlayLand(d.Card); err != nil {
		wrapped := core.WrapActionError(gs.Turn(), ActionPlayLand, gs.Catalog().Name(d.Card), err)
		dp.logger.Debug().Err(wrapped).Msg("Failed to apply land drop")
		return false, wrapped
	}
	card := gs.Card(d.Card)
	dp.logger.Trace().Int("turn", gs.Turn()).Str("card", card.Name).Msg("Land played")
	dp.publish(events.NewLandPlayedEvent(dp.trialID, gs.Turn(), d.Card, card.Produces))
	return true, nil
}

// ApplyCardPlays casts the plays in order. The first illegal play stops the
// turn and is returned; plays before it stay resolved.
func (dp *DecisionProcessor) ApplyCardPlays(gs *game.GameState, d strategy.CardPlayDecision) (PlayResult, error) {
	var result PlayResult
	for _, play := range d.Plays {
		payment, err := gs.Cast(play.Card, play.From)
		if err != nil {
			wrapped := core.WrapActionError(gs.Turn(), ActionCast, gs.Catalog().Name(play.Card), err)
			dp.logger.Debug().Err(wrapped).Str("from", play.From.String()).Msg("Failed to apply card play")
			return result, wrapped
		}
		card := gs.Card(play.Card)
		result.SpellsCast++
		result.ManaSpent += payment.Total()
		dp.logger.Trace().
			Int("turn", gs.Turn()).
			Str("card", card.Name).
			Str("payment", payment.String()).
			Msg("Spell cast")
		dp.publish(events.NewSpellCastEvent(dp.trialID, gs.Turn(), play.Card, card, play.From, payment))
	}
	return result, nil
}

func (dp *DecisionProcessor) publish(e events.Event) {
	if dp.publisher != nil {
		dp.publisher.Publish(e)
	}
}
