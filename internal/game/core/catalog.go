package core

import "fmt"

// CardID indexes a card definition inside a Catalog
type CardID int

// NoCard is the zero value used when a decision names no card
const NoCard CardID = -1

// Catalog is the arena every card definition of an experiment lives in.
// It is append-only; once a deck is built from it the catalog must not change.
type Catalog struct {
	cards  []Card
	byName map[string]CardID
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]CardID)}
}

// Add interns a card definition and returns its ID. Names are unique.
func (c *Catalog) Add(card Card) (CardID, error) {
	if card.Name == "" {
		return NoCard, fmt.Errorf("%w: card name is empty", ErrInvalidCard)
	}
	if _, exists := c.byName[card.Name]; exists {
		return NoCard, fmt.Errorf("%w: %q", ErrDuplicateCard, card.Name)
	}
	if card.Type == TypeLand && card.Cost.ManaValue() != 0 {
		return NoCard, fmt.Errorf("%w: land %q has a mana cost", ErrInvalidCard, card.Name)
	}
	tags := make([]string, len(card.Tags))
	copy(tags, card.Tags)
	card.Tags = tags

	id := CardID(len(c.cards))
	c.cards = append(c.cards, card)
	c.byName[card.Name] = id
	return id, nil
}

// MustAdd is Add for fixtures; it panics on error
func (c *Catalog) MustAdd(card Card) CardID {
	id, err := c.Add(card)
	if err != nil {
		panic(err)
	}
	return id
}

// Card returns the definition for id. Callers must treat it as read-only.
func (c *Catalog) Card(id CardID) *Card {
	if !c.Has(id) {
		return nil
	}
	return &c.cards[id]
}

// Has reports whether id was issued by this catalog
func (c *Catalog) Has(id CardID) bool {
	return id >= 0 && int(id) < len(c.cards)
}

// Lookup finds a card by name
func (c *Catalog) Lookup(name string) (CardID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Len returns the number of distinct cards
func (c *Catalog) Len() int {
	return len(c.cards)
}

// Name returns the card name for id, or a placeholder for unknown IDs
func (c *Catalog) Name(id CardID) string {
	if card := c.Card(id); card != nil {
		return card.Name
	}
	return fmt.Sprintf("card#%d", int(id))
}
