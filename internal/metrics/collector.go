package metrics

import (
	"sort"
	"strconv"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/events"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/states"
)

const seventhSpell = 7

// Options configure the Collector schema
type Options struct {
	CheckpointTurns []int `mapstructure:"checkpoint_turns"`
	FloodThreshold  int   `mapstructure:"flood_threshold"`
	ScrewThreshold  int   `mapstructure:"screw_threshold"`
}

// DefaultOptions returns checkpoints on turns 2 to 6, flood at five lands in
// the kept hand and screw at one or fewer.
func DefaultOptions() Options {
	return Options{
		CheckpointTurns: []int{2, 3, 4, 5, 6},
		FloodThreshold:  5,
		ScrewThreshold:  1,
	}
}

// Collector turns a trial trace into observations. It is pure: the same
// trace always yields the same set, and it keeps no state between calls.
type Collector struct {
	opts Options
	// cards get a first_cast_turn metric each, sorted by name
	cards []string
}

// NewCollector creates a new collector. A zero FloodThreshold takes the
// default; ScrewThreshold 0 is a valid setting.
func NewCollector(opts Options) *Collector {
	if opts.FloodThreshold == 0 {
		opts.FloodThreshold = DefaultOptions().FloodThreshold
	}
	opts.CheckpointTurns = append([]int(nil), opts.CheckpointTurns...)
	return &Collector{opts: opts}
}

// TrackCards adds a first_cast_turn::<name> metric for each card name. It
// must be called before the collector is shared between goroutines.
func (c *Collector) TrackCards(names ...string) *Collector {
	seen := make(map[string]bool, len(c.cards)+len(names))
	for _, n := range c.cards {
		seen[n] = true
	}
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			c.cards = append(c.cards, n)
		}
	}
	sort.Strings(c.cards)
	return c
}

// Options returns the effective options
func (c *Collector) Options() Options { return c.opts }

// Schema lists every metric name Collect emits, in order
func (c *Collector) Schema() []string {
	names := []string{
		OpeningHandSize, OpeningHandLands, Mulligans, LandFlood, LandScrew,
		TurnsPlayed, LandDrops, SpellsCast, ManaSpent, MissedLandDrops, DamageDealt,
		FirstLandTurn, FirstSpellTurn, FirstCommanderTurn, SeventhSpellTurn, StopConditionTurn,
	}
	for _, turn := range c.opts.CheckpointTurns {
		names = append(names, LandsInPlayPrefix+strconv.Itoa(turn), ManaAvailablePrefix+strconv.Itoa(turn))
	}
	for _, name := range c.cards {
		names = append(names, FirstCastTurnPrefix+name)
	}
	return append(names, FinishReason)
}

// turnOf remembers the first turn something happened on
type turnOf struct {
	turn int
	seen bool
}

func (t *turnOf) mark(turn int) {
	if !t.seen {
		t.turn, t.seen = turn, true
	}
}

func (t turnOf) observe(name string) Observation {
	if !t.seen {
		return Absent(name)
	}
	return Scalar(name, float64(t.turn))
}

// Collect computes the observation set of one trace
func (c *Collector) Collect(trace *events.Trace) ObservationSet {
	var (
		kept                                  *events.HandKeptEvent
		turns, landDrops, spells, spent       int
		missed, damage                        int
		firstLand, firstSpell, firstCommander turnOf
		seventh, stop                         turnOf
		reason                                string
		ended                                 = make(map[int]*events.TurnEndedEvent)
		firstCast                             = make(map[string]*turnOf, len(c.cards))
	)
	for _, name := range c.cards {
		firstCast[name] = &turnOf{}
	}

	for _, e := range trace.Events {
		switch ev := e.(type) {
		case *events.HandKeptEvent:
			kept = ev
		case *events.TurnStartedEvent:
			turns = ev.Turn()
		case *events.LandPlayedEvent:
			landDrops++
			firstLand.mark(ev.Turn())
		case *events.SpellCastEvent:
			spells++
			spent += ev.Payment.Total()
			damage += ev.Damage
			firstSpell.mark(ev.Turn())
			if t, ok := firstCast[ev.Name]; ok {
				t.mark(ev.Turn())
			}
			if ev.Commander {
				firstCommander.mark(ev.Turn())
			}
			if spells == seventhSpell {
				seventh.mark(ev.Turn())
			}
		case *events.TurnEndedEvent:
			ended[ev.Turn()] = ev
			if !ev.LandPlayed {
				missed++
			}
		case *events.StopConditionMetEvent:
			stop.mark(ev.Turn())
		case *events.TrialFinishedEvent:
			reason = ev.Reason
			turns = ev.TurnsPlayed
		case *events.TrialAbortedEvent:
			reason = states.AbortedReason
		}
	}

	obs := make([]Observation, 0, 17+2*len(c.opts.CheckpointTurns)+len(c.cards))
	if kept != nil {
		lands := kept.Lands
		obs = append(obs,
			Scalar(OpeningHandSize, float64(len(kept.Cards))),
			Scalar(OpeningHandLands, float64(lands)),
			Scalar(Mulligans, float64(kept.Mulligans)),
			Scalar(LandFlood, boolValue(lands >= c.opts.FloodThreshold)),
			Scalar(LandScrew, boolValue(lands <= c.opts.ScrewThreshold)),
		)
	} else {
		obs = append(obs, Absent(OpeningHandSize), Absent(OpeningHandLands), Absent(Mulligans), Absent(LandFlood), Absent(LandScrew))
	}

	obs = append(obs,
		Scalar(TurnsPlayed, float64(turns)),
		Scalar(LandDrops, float64(landDrops)),
		Scalar(SpellsCast, float64(spells)),
		Scalar(ManaSpent, float64(spent)),
		Scalar(MissedLandDrops, float64(missed)),
		Scalar(DamageDealt, float64(damage)),
		firstLand.observe(FirstLandTurn),
		firstSpell.observe(FirstSpellTurn),
		firstCommander.observe(FirstCommanderTurn),
		seventh.observe(SeventhSpellTurn),
		stop.observe(StopConditionTurn),
	)

	for _, turn := range c.opts.CheckpointTurns {
		lands, mana := LandsInPlayPrefix+strconv.Itoa(turn), ManaAvailablePrefix+strconv.Itoa(turn)
		if ev, ok := ended[turn]; ok {
			obs = append(obs, Scalar(lands, float64(ev.LandsInPlay)), Scalar(mana, float64(ev.ManaProduction)))
		} else {
			obs = append(obs, Absent(lands), Absent(mana))
		}
	}

	for _, name := range c.cards {
		obs = append(obs, firstCast[name].observe(FirstCastTurnPrefix+name))
	}

	if reason == "" {
		reason = states.FinishNone.String()
	}
	obs = append(obs, Category(FinishReason, reason))
	return ObservationSet{TrialID: trace.TrialID, Observations: obs}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
