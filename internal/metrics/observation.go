package metrics

// Metric names produced by the Collector
const (
	OpeningHandSize    = "opening_hand_size"
	OpeningHandLands   = "opening_hand_lands"
	Mulligans          = "mulligans"
	LandFlood          = "land_flood"
	LandScrew          = "land_screw"
	TurnsPlayed        = "turns_played"
	LandDrops          = "land_drops"
	SpellsCast         = "spells_cast"
	ManaSpent          = "mana_spent"
	MissedLandDrops    = "missed_land_drops"
	DamageDealt        = "damage_dealt"
	FirstLandTurn      = "first_land_turn"
	FirstSpellTurn     = "first_spell_turn"
	FirstCommanderTurn = "first_commander_turn"
	SeventhSpellTurn   = "seventh_spell_turn"
	StopConditionTurn  = "stop_condition_turn"
	FinishReason       = "finish_reason"

	LandsInPlayPrefix   = "lands_in_play_t"
	ManaAvailablePrefix = "mana_available_t"
	// FirstCastTurnPrefix is followed by a tracked card name
	FirstCastTurnPrefix = "first_cast_turn::"
)

// Kind separates numeric metrics from categorical ones
type Kind int

const (
	KindScalar Kind = iota
	KindCategorical
)

// Observation is one metric of one trial. A scalar that never happened has
// Present false and a zero Value; absence is never encoded as a sentinel.
type Observation struct {
	Name     string  `json:"name"`
	Kind     Kind    `json:"kind"`
	Value    float64 `json:"value"`
	Present  bool    `json:"present"`
	Category string  `json:"category,omitempty"`
}

// Scalar returns a present scalar observation
func Scalar(name string, value float64) Observation {
	return Observation{Name: name, Kind: KindScalar, Value: value, Present: true}
}

// Absent returns a scalar observation for an event that did not happen
func Absent(name string) Observation {
	return Observation{Name: name, Kind: KindScalar}
}

// Category returns a categorical observation
func Category(name, value string) Observation {
	return Observation{Name: name, Kind: KindCategorical, Present: true, Category: value}
}

// ObservationSet holds every metric of one trial, in schema order
type ObservationSet struct {
	TrialID      string        `json:"trial_id"`
	Observations []Observation `json:"observations"`
}

// Get returns the named observation
func (s ObservationSet) Get(name string) (Observation, bool) {
	for _, o := range s.Observations {
		if o.Name == name {
			return o, true
		}
	}
	return Observation{}, false
}
