package strategy

import (
	"math/rand"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
)

// NameGreedy is the registry name of Greedy
const NameGreedy = "greedy"

// Greedy keeps every hand, plays the first land it holds and casts the
// highest mana value spells first.
type Greedy struct {
	legal *rules.LegalPlayCalculator
}

// NewGreedy creates a greedy strategy. It takes no options.
func NewGreedy(Options) *Greedy {
	return &Greedy{legal: rules.NewLegalPlayCalculator()}
}

func (g *Greedy) Name() string { return NameGreedy }

func (g *Greedy) DecideMulligan(game.View, *rand.Rand) MulliganDecision {
	return Keep()
}

func (g *Greedy) DecideLandDrop(v game.View, _ *rand.Rand) LandDropDecision {
	lands := g.legal.PlayableLands(v)
	if len(lands) == 0 {
		return NoLand()
	}
	return PlayLand(lands[0])
}

func (g *Greedy) DecideCardPlays(v game.View, _ *rand.Rand) CardPlayDecision {
	candidates := g.legal.NonlandCards(v)
	rank(v, candidates, func(c *core.Card) int { return c.Cost.ManaValue() })
	return CardPlayDecision{Plays: greedyPlays(v, v.ManaAvailable(), candidates, nil)}
}
