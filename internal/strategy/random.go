package strategy

import (
	"math/rand"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
)

// NameRandom is the registry name of Random
const NameRandom = "random"

// Random makes every choice with the trial's generator. Landless hands are
// always shipped.
type Random struct {
	keep  float64
	legal *rules.LegalPlayCalculator
}

// NewRandom creates a random strategy keeping with opts.KeepProbability
func NewRandom(opts Options) *Random {
	opts = opts.withDefaults()
	return &Random{keep: opts.KeepProbability, legal: rules.NewLegalPlayCalculator()}
}

func (r *Random) Name() string { return NameRandom }

func (r *Random) DecideMulligan(v game.View, rng *rand.Rand) MulliganDecision {
	if LandsInHand(v) == 0 {
		return Ship()
	}
	return MulliganDecision{Ship: rng.Float64() >= r.keep}
}

func (r *Random) DecideLandDrop(v game.View, rng *rand.Rand) LandDropDecision {
	lands := r.legal.PlayableLands(v)
	if len(lands) == 0 {
		return NoLand()
	}
	return PlayLand(lands[rng.Intn(len(lands))])
}

func (r *Random) DecideCardPlays(v game.View, rng *rand.Rand) CardPlayDecision {
	candidates := r.legal.NonlandCards(v)
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return CardPlayDecision{Plays: greedyPlays(v, v.ManaAvailable(), candidates, nil)}
}
