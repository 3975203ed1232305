package stage

import (
	"github.com/milk9111/slotbattler/battle"
)

// Hand is the player's hand. A played card is replaced by a fresh copy of
// the same definition that sits out Def.Cooldown player turns.
type Hand struct {
	factory battle.CardFactory
	defs    []*battle.Definition
	size    int
	cards   []*battle.Card
}

// NewHand deals from defs, keeping at most size cards.
func NewHand(factory battle.CardFactory, defs []*battle.Definition, size int) *Hand {
	if size <= 0 || size > len(defs) {
		size = len(defs)
	}
	return &Hand{factory: factory, defs: defs, size: size}
}

func (h *Hand) ClearAll() {
	h.cards = nil
}

func (h *Hand) GenerateInitialHand() {
	h.cards = h.cards[:0]
	for _, def := range h.defs[:h.size] {
		h.cards = append(h.cards, h.factory.CreateFromDefinition(def, battle.SidePlayer, def.Name))
	}
}

func (h *Hand) Remove(card *battle.Card) {
	for i, c := range h.cards {
		if c != card {
			continue
		}
		if card.Def == nil {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			return
		}
		fresh := h.factory.CreateFromDefinition(card.Def, battle.SidePlayer, card.Name())
		if card.Def.Cooldown > 0 {
			// the start of the next player turn already ticks once
			fresh.Cooldown = card.Def.Cooldown + 1
		}
		h.cards[i] = fresh
		return
	}
}

func (h *Hand) Cards() []*battle.Card {
	return h.cards
}

// Card returns the card at index, or nil.
func (h *Hand) Card(index int) *battle.Card {
	if index < 0 || index >= len(h.cards) {
		return nil
	}
	return h.cards[index]
}

// Playable returns the cards that are off cooldown and affordable.
func (h *Hand) Playable(resource int) []*battle.Card {
	var out []*battle.Card
	for _, c := range h.cards {
		if c.Cooldown == 0 && c.Cost() <= resource {
			out = append(out, c)
		}
	}
	return out
}
