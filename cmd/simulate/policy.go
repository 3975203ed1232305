package main

import (
	"github.com/milk9111/slotbattler/battle"
)

// pickCard chooses what the auto-player plays from hand, or nil to pass.
// A card that finishes the enemy wins; a hurt player heals or guards;
// otherwise the highest damage per resource point is played.
func pickCard(hand []*battle.Card, player, enemy *battle.Character) *battle.Card {
	var playable []*battle.Card
	for _, c := range hand {
		if c.Cooldown == 0 && c.Cost() <= player.Resource() && c.Def != nil && c.Def.Summon == "" {
			playable = append(playable, c)
		}
	}
	if len(playable) == 0 {
		return nil
	}

	for _, c := range playable {
		if c.Damage() >= enemy.HP() && c.Damage() > 0 {
			return c
		}
	}

	if player.HP()*10 < player.MaxHP()*4 {
		for _, c := range playable {
			if c.Def.Effect == "heal" || c.Def.Effect == "drain" {
				return c
			}
		}
		if _, guarded := player.Status(battle.StatusGuard); !guarded {
			for _, c := range playable {
				if c.Def.Effect == "guard" {
					return c
				}
			}
		}
	}

	var best *battle.Card
	bestScore := 0
	for _, c := range playable {
		score := c.Damage() * 10 / max(c.Cost(), 1)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}
