package rules

import (
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
)

// Castable is a card that can be cast right now and the zone it is cast from
type Castable struct {
	Card core.CardID
	From core.Zone
}

// LegalPlayCalculator computes the legal land drops and casts for a view
type LegalPlayCalculator struct{}

// NewLegalPlayCalculator creates a new legal play calculator
func NewLegalPlayCalculator() *LegalPlayCalculator {
	return &LegalPlayCalculator{}
}

// PlayableLands returns the distinct lands in hand, in hand order, or nil
// when the land drop for this turn has been used.
func (lpc *LegalPlayCalculator) PlayableLands(v game.View) []core.CardID {
	if v.LandDropsRemaining() <= 0 {
		return nil
	}
	var out []core.CardID
	seen := make(map[core.CardID]bool)
	for _, id := range v.Hand() {
		if seen[id] || !v.Card(id).IsLand() {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// CastableCards returns the distinct nonland cards in the command zone and
// hand (in that order) whose cost the pool covers.
func (lpc *LegalPlayCalculator) CastableCards(v game.View, pool mana.Pool) []Castable {
	var out []Castable
	seen := make(map[core.CardID]bool)
	add := func(ids []core.CardID, from core.Zone) {
		for _, id := range ids {
			card := v.Card(id)
			if seen[id] || card.IsLand() || !mana.CanPay(pool, card.Cost) {
				continue
			}
			seen[id] = true
			out = append(out, Castable{Card: id, From: from})
		}
	}
	add(v.Command(), core.ZoneCommand)
	add(v.Hand(), core.ZoneHand)
	return out
}

// NonlandCards returns every nonland card that could be cast with enough
// mana, from the command zone and hand. Duplicates are kept.
func (lpc *LegalPlayCalculator) NonlandCards(v game.View) []Castable {
	var out []Castable
	for _, id := range v.Command() {
		out = append(out, Castable{Card: id, From: core.ZoneCommand})
	}
	for _, id := range v.Hand() {
		if !v.Card(id).IsLand() {
			out = append(out, Castable{Card: id, From: core.ZoneHand})
		}
	}
	return out
}
