package core

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/mana"
)

// CardType represents the type line of a card
type CardType int

const (
	TypeLand CardType = iota
	TypeCreature
	TypeInstant
	TypeSorcery
	TypeArtifact
	TypeEnchantment
	TypePlaneswalker
)

// Well-known card tags
const (
	TagCommander = "commander"
	TagCombo     = "combo"
	TagBasic     = "basic"
)

func (t CardType) String() string {
	switch t {
	case TypeLand:
		return "land"
	case TypeCreature:
		return "creature"
	case TypeInstant:
		return "instant"
	case TypeSorcery:
		return "sorcery"
	case TypeArtifact:
		return "artifact"
	case TypeEnchantment:
		return "enchantment"
	case TypePlaneswalker:
		return "planeswalker"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// IsPermanent returns true if cards of this type stay on the battlefield after resolving
func (t CardType) IsPermanent() bool {
	return t != TypeInstant && t != TypeSorcery
}

// ParseCardType converts a type name such as "Creature" to a CardType
func ParseCardType(s string) (CardType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "land":
		return TypeLand, nil
	case "creature":
		return TypeCreature, nil
	case "instant":
		return TypeInstant, nil
	case "sorcery":
		return TypeSorcery, nil
	case "artifact":
		return TypeArtifact, nil
	case "enchantment":
		return TypeEnchantment, nil
	case "planeswalker":
		return TypePlaneswalker, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCardType, s)
	}
}

// Card is the immutable definition of a card. Zones never hold Card values,
// only the CardID assigned by a Catalog.
type Card struct {
	Name string
	Type CardType
	Cost mana.Cost
	// Produces is the mana this permanent adds every turn it is on the battlefield
	Produces mana.Pool
	// Damage is dealt to the opponent when the card resolves
	Damage int
	Tags   []string
}

func (c *Card) IsLand() bool {
	return c.Type == TypeLand
}

// IsManaSource returns true if the card adds mana once it is on the battlefield
func (c *Card) IsManaSource() bool {
	return c.Type.IsPermanent() && !c.Produces.IsEmpty()
}

// HasTag reports whether the card carries the tag (case-insensitive)
func (c *Card) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (c *Card) IsCommander() bool { return c.HasTag(TagCommander) }
func (c *Card) IsCombo() bool     { return c.HasTag(TagCombo) }

func (c *Card) String() string {
	if c.IsLand() {
		return c.Name
	}
	return c.Name + " " + c.Cost.String()
}
