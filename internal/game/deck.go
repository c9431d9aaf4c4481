package game

import (
	"errors"
	"fmt"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
)

var (
	ErrInvalidDeck = errors.New("invalid deck")
)

// DeckEntry is one line of a deck list
type DeckEntry struct {
	Card     core.CardID
	Quantity int
}

// Deck is an ordered list of catalog cards with quantities. Commanders start
// in the command zone instead of the library. A Deck is not modified once an
// experiment starts using it.
type Deck struct {
	Catalog    *core.Catalog
	Entries    []DeckEntry
	Commanders []core.CardID
}

// NewDeck creates an empty deck backed by the catalog
func NewDeck(catalog *core.Catalog) *Deck {
	return &Deck{Catalog: catalog}
}

// Add appends qty copies of id to the main deck, merging with an existing entry
func (d *Deck) Add(id core.CardID, qty int) *Deck {
	for i := range d.Entries {
		if d.Entries[i].Card == id {
			d.Entries[i].Quantity += qty
			return d
		}
	}
	d.Entries = append(d.Entries, DeckEntry{Card: id, Quantity: qty})
	return d
}

// AddCommander puts id in the command zone
func (d *Deck) AddCommander(id core.CardID) *Deck {
	d.Commanders = append(d.Commanders, id)
	return d
}

// Size returns the number of cards in the main deck
func (d *Deck) Size() int {
	n := 0
	for _, e := range d.Entries {
		n += e.Quantity
	}
	return n
}

// LandCount returns the number of lands in the main deck
func (d *Deck) LandCount() int {
	n := 0
	for _, e := range d.Entries {
		if card := d.Catalog.Card(e.Card); card != nil && card.IsLand() {
			n += e.Quantity
		}
	}
	return n
}

// Quantity returns how many copies of id the main deck holds
func (d *Deck) Quantity(id core.CardID) int {
	for _, e := range d.Entries {
		if e.Card == id {
			return e.Quantity
		}
	}
	return 0
}

// Cards expands the main deck into one ID per physical card, in entry order
func (d *Deck) Cards() []core.CardID {
	out := make([]core.CardID, 0, d.Size())
	for _, e := range d.Entries {
		for i := 0; i < e.Quantity; i++ {
			out = append(out, e.Card)
		}
	}
	return out
}

// Multiset counts every card of the deck, commanders included
func (d *Deck) Multiset() map[core.CardID]int {
	counts := make(map[core.CardID]int, len(d.Entries)+len(d.Commanders))
	for _, e := range d.Entries {
		counts[e.Card] += e.Quantity
	}
	for _, id := range d.Commanders {
		counts[id]++
	}
	return counts
}

// Validate checks that every card is known and every quantity positive
func (d *Deck) Validate() error {
	if d.Catalog == nil {
		return fmt.Errorf("%w: deck has no catalog", ErrInvalidDeck)
	}
	for _, e := range d.Entries {
		if !d.Catalog.Has(e.Card) {
			return fmt.Errorf("%w: unknown card id %d", ErrInvalidDeck, e.Card)
		}
		if e.Quantity <= 0 {
			return fmt.Errorf("%w: %s has quantity %d", ErrInvalidDeck, d.Catalog.Name(e.Card), e.Quantity)
		}
	}
	for _, id := range d.Commanders {
		card := d.Catalog.Card(id)
		if card == nil {
			return fmt.Errorf("%w: unknown commander id %d", ErrInvalidDeck, id)
		}
		if card.IsLand() {
			return fmt.Errorf("%w: commander %s is a land", ErrInvalidDeck, card.Name)
		}
	}
	return nil
}

// Clone returns a deep copy sharing the catalog
func (d *Deck) Clone() *Deck {
	out := &Deck{Catalog: d.Catalog}
	out.Entries = append([]DeckEntry(nil), d.Entries...)
	out.Commanders = append([]core.CardID(nil), d.Commanders...)
	return out
}

// WithLandCount returns a copy of the deck with n lands. The land slot grows
// or shrinks by the difference and the filler slot absorbs it, so the deck
// size stays the same.
func (d *Deck) WithLandCount(n int, land, filler core.CardID) (*Deck, error) {
	landCard := d.Catalog.Card(land)
	if landCard == nil || !landCard.IsLand() {
		return nil, fmt.Errorf("%w: land slot %s is not a land", ErrInvalidDeck, d.Catalog.Name(land))
	}
	fillerCard := d.Catalog.Card(filler)
	if fillerCard == nil || fillerCard.IsLand() {
		return nil, fmt.Errorf("%w: filler slot %s must be a nonland card", ErrInvalidDeck, d.Catalog.Name(filler))
	}
	if n < 0 || n > d.Size() {
		return nil, fmt.Errorf("%w: land count %d outside 0..%d", ErrInvalidDeck, n, d.Size())
	}

	delta := n - d.LandCount()
	out := d.Clone()
	if delta == 0 {
		return out, nil
	}
	landQty := out.Quantity(land) + delta
	fillerQty := out.Quantity(filler) - delta
	if landQty < 0 {
		return nil, fmt.Errorf("%w: cannot remove %d copies of %s", ErrInvalidDeck, -delta, landCard.Name)
	}
	if fillerQty < 0 {
		return nil, fmt.Errorf("%w: not enough %s to replace with %d lands", ErrInvalidDeck, fillerCard.Name, delta)
	}
	out.setQuantity(land, landQty)
	out.setQuantity(filler, fillerQty)
	return out, nil
}

func (d *Deck) setQuantity(id core.CardID, qty int) {
	for i := range d.Entries {
		if d.Entries[i].Card != id {
			continue
		}
		if qty == 0 {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
		} else {
			d.Entries[i].Quantity = qty
		}
		return
	}
	if qty > 0 {
		d.Entries = append(d.Entries, DeckEntry{Card: id, Quantity: qty})
	}
}
