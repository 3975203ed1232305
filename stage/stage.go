// Package stage builds the battle collaborators (enemy queue, decks, hand,
// inventory and card factory) from a prefab library.
package stage

import (
	"math/rand/v2"

	"github.com/milk9111/slotbattler/battle"
	"github.com/milk9111/slotbattler/prefabs"
)

// Kit groups the collaborators of one stage run.
type Kit struct {
	Library     *prefabs.Library
	Progression *Progression
	Decks       *Decks
	Hand        *Hand
	Inventory   *Inventory
	Factory     Factory
}

// New builds a kit whose enemy draws are driven by seed. A zero seed falls
// back to the stage's own seed.
func New(lib *prefabs.Library, handSize int, seed uint64) *Kit {
	if seed == 0 && lib.Stage != nil {
		seed = uint64(lib.Stage.Seed)
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	k := &Kit{
		Library:     lib,
		Progression: NewProgression(lib),
		Decks:       NewDecks(rng),
	}
	k.Hand = NewHand(k.Factory, lib.PlayerHand, handSize)
	if lib.Stage != nil {
		k.Inventory = NewInventory(lib.Stage.Items)
	} else {
		k.Inventory = NewInventory(nil)
	}
	return k
}

// Deps fills the stage-owned fields of battle.Deps.
func (k *Kit) Deps(effects battle.EffectResolver, presenter battle.Presenter) battle.Deps {
	return battle.Deps{
		Player:    k.Library.Player,
		Factory:   k.Factory,
		Effects:   effects,
		Decks:     k.Decks.For,
		Hand:      k.Hand,
		Inventory: k.Inventory,
		Stage:     k.Progression,
		Presenter: presenter,
	}
}
