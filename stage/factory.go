package stage

import (
	"github.com/google/uuid"
	"github.com/milk9111/slotbattler/battle"
)

// Factory creates card instances with random identifiers.
type Factory struct{}

func (Factory) CreateFromDefinition(def *battle.Definition, owner battle.Side, displayName string) *battle.Card {
	if def == nil {
		return nil
	}
	return &battle.Card{
		ID:          uuid.NewString(),
		Owner:       owner,
		Def:         def,
		DisplayName: displayName,
	}
}

func (Factory) CreateEnemyCard(def *battle.Definition, owner battle.Side, damageOverride int) *battle.Card {
	if def == nil {
		return nil
	}
	return &battle.Card{
		ID:             uuid.NewString(),
		Owner:          owner,
		Def:            def,
		DamageOverride: damageOverride,
	}
}
