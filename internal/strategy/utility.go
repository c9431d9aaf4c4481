package strategy

import (
	"sort"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/rules"
)

// Utility scores cards for the greedy players
type Utility struct {
	CommanderBonus int
	ComboBonus     int
}

// Score is the card's mana value, 1 for a land, plus any tag bonus
func (u Utility) Score(card *core.Card) int {
	if card.IsLand() {
		return 1
	}
	score := card.Cost.ManaValue()
	if card.IsCommander() {
		score += u.CommanderBonus
	}
	if card.IsCombo() {
		score += u.ComboBonus
	}
	return score
}

// rank sorts candidates by score descending, then by ID
func rank(v game.View, candidates []rules.Castable, score func(*core.Card) int) {
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := score(v.Card(candidates[i].Card)), score(v.Card(candidates[j].Card))
		if si != sj {
			return si > sj
		}
		return candidates[i].Card < candidates[j].Card
	})
}

// greedyPlays walks ranked candidates once, casting each one the pool still
// covers. The pool only shrinks, so a skipped card never becomes affordable
// later in the same pass. skip, when set, can veto a cast.
func greedyPlays(v game.View, pool mana.Pool, candidates []rules.Castable, skip func() bool) []Play {
	var plays []Play
	for _, c := range candidates {
		card := v.Card(c.Card)
		_, remaining, ok := mana.Pay(pool, card.Cost)
		if !ok {
			continue
		}
		if skip != nil && skip() {
			continue
		}
		pool = remaining
		plays = append(plays, Play{Card: c.Card, From: c.From})
	}
	return plays
}

// colorsNeeded is the set of colors in the pips of the nonland cards the
// player could cast
func colorsNeeded(v game.View) map[mana.Color]bool {
	needed := make(map[mana.Color]bool)
	mark := func(ids []core.CardID) {
		for _, id := range ids {
			card := v.Card(id)
			if card.IsLand() {
				continue
			}
			for _, c := range card.Cost.Colors.ColorsPresent() {
				needed[c] = true
			}
		}
	}
	mark(v.Hand())
	mark(v.Command())
	return needed
}
