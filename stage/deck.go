package stage

import (
	"math/rand/v2"

	"github.com/milk9111/slotbattler/battle"
)

// Deck draws weighted entries from an enemy's card list.
type Deck struct {
	entries []battle.CardEntry
	total   int
	rng     *rand.Rand
}

// NewDeck builds a deck over entries. Entries without a definition are
// skipped; a non-positive weight counts as one.
func NewDeck(entries []battle.CardEntry, rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	for _, e := range entries {
		if e.Definition == nil {
			continue
		}
		if e.Weight <= 0 {
			e.Weight = 1
		}
		d.entries = append(d.entries, e)
		d.total += e.Weight
	}
	return d
}

func (d *Deck) RandomEntry() (battle.CardEntry, bool) {
	if d == nil || d.total == 0 {
		return battle.CardEntry{}, false
	}
	roll := d.rng.IntN(d.total)
	for _, e := range d.entries {
		if roll < e.Weight {
			return e, true
		}
		roll -= e.Weight
	}
	return battle.CardEntry{}, false
}

func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Decks caches one Deck per enemy and satisfies battle.DeckSource through
// its For method.
type Decks struct {
	rng   *rand.Rand
	decks map[*battle.CharacterData]*Deck
}

func NewDecks(rng *rand.Rand) *Decks {
	return &Decks{rng: rng, decks: map[*battle.CharacterData]*Deck{}}
}

func (d *Decks) For(enemy *battle.CharacterData) battle.EnemyDeck {
	if enemy == nil {
		return nil
	}
	deck, ok := d.decks[enemy]
	if !ok {
		deck = NewDeck(enemy.Deck, d.rng)
		d.decks[enemy] = deck
	}
	return deck
}

// Reset forgets cached decks, e.g. after prefabs were reloaded.
func (d *Decks) Reset() {
	d.decks = map[*battle.CharacterData]*Deck{}
}
