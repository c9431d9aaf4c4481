package strategy

import (
	"math/rand"
	"sort"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
)

// NameBaseline is the registry name of Baseline
const NameBaseline = "baseline"

// Baseline keeps hands inside a land range, picks the land drop that lets it
// spend the most this turn, and casts greedily by utility.
type Baseline struct {
	opts    Options
	utility Utility
	legal   *rules.LegalPlayCalculator
}

// NewBaseline creates a baseline strategy. Zero options take defaults.
func NewBaseline(opts Options) *Baseline {
	opts = opts.withDefaults()
	return &Baseline{
		opts:    opts,
		utility: Utility{CommanderBonus: opts.CommanderBonus, ComboBonus: opts.ComboBonus},
		legal:   rules.NewLegalPlayCalculator(),
	}
}

func (b *Baseline) Name() string { return NameBaseline }

// Options returns the effective options
func (b *Baseline) Options() Options { return b.opts }

func (b *Baseline) DecideMulligan(v game.View, rng *rand.Rand) MulliganDecision {
	if v.Mulligans() >= b.opts.KeepAfter {
		return Keep()
	}
	lands := LandsInHand(v)
	if lands < b.opts.MinLands || lands > b.opts.MaxLands {
		return Ship()
	}
	return Keep()
}

func (b *Baseline) DecideLandDrop(v game.View, rng *rand.Rand) LandDropDecision {
	lands := b.legal.PlayableLands(v)
	if len(lands) == 0 {
		return NoLand()
	}
	if b.sloppy(rng) {
		return PlayLand(lands[rng.Intn(len(lands))])
	}

	needed := colorsNeeded(v)
	best, bestUtility, bestColors := core.NoCard, -1, -1
	for _, id := range lands {
		land := v.Card(id)
		utility := b.forecast(v, land)
		colors := 0
		for _, c := range land.Produces.ColorsPresent() {
			if needed[c] {
				colors++
			}
		}
		better := utility > bestUtility ||
			(utility == bestUtility && colors > bestColors) ||
			(utility == bestUtility && colors == bestColors && id < best)
		if better {
			best, bestUtility, bestColors = id, utility, colors
		}
	}
	return PlayLand(best)
}

// forecast is the utility the greedy pass would cast this turn after
// playing land
func (b *Baseline) forecast(v game.View, land *core.Card) int {
	pool := v.ManaAvailable().Add(land.Produces)
	candidates := b.legal.NonlandCards(v)
	rank(v, candidates, b.utility.Score)
	total := 0
	for _, p := range greedyPlays(v, pool, candidates, nil) {
		total += b.utility.Score(v.Card(p.Card))
	}
	return total
}

func (b *Baseline) DecideCardPlays(v game.View, rng *rand.Rand) CardPlayDecision {
	candidates := b.legal.NonlandCards(v)
	rank(v, candidates, b.utility.Score)
	var skip func() bool
	if b.opts.Sloppiness > 0 {
		skip = func() bool { return b.sloppy(rng) }
	}
	return CardPlayDecision{Plays: greedyPlays(v, v.ManaAvailable(), candidates, skip)}
}

// ChooseBottom keeps a playable mix: it bottoms lands while they outnumber
// spells and the hand keeps at least MinLands, otherwise the most expensive
// spell.
func (b *Baseline) ChooseBottom(v game.View, n int, rng *rand.Rand) []core.CardID {
	var lands, spells []core.CardID
	for _, id := range v.Hand() {
		if v.Card(id).IsLand() {
			lands = append(lands, id)
		} else {
			spells = append(spells, id)
		}
	}
	sort.SliceStable(spells, func(i, j int) bool {
		mi, mj := v.Card(spells[i]).Cost.ManaValue(), v.Card(spells[j]).Cost.ManaValue()
		if mi != mj {
			return mi > mj
		}
		return spells[i] > spells[j]
	})

	bottom := make([]core.CardID, 0, n)
	for len(bottom) < n && len(lands)+len(spells) > 0 {
		takeLand := len(spells) == 0 ||
			(len(lands) > len(spells) && len(lands) > b.opts.MinLands)
		if takeLand {
			bottom = append(bottom, lands[len(lands)-1])
			lands = lands[:len(lands)-1]
			continue
		}
		bottom = append(bottom, spells[0])
		spells = spells[1:]
	}
	return bottom
}

// sloppy draws from rng only when sloppiness is configured, so a careful
// baseline leaves the generator untouched
func (b *Baseline) sloppy(rng *rand.Rand) bool {
	return b.opts.Sloppiness > 0 && rng.Float64() < b.opts.Sloppiness
}
