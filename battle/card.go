package battle

// Definition is the template a card is created from. Effect names the entry
// the EffectResolver looks up; an empty Effect with Damage > 0 deals plain
// damage.
type Definition struct {
	ID       string
	Name     string
	Damage   int
	Cost     int
	Cooldown int
	Effect   string
	Amount   int
	Duration int
	Summon   string
	Script   string
	// Link marks a card that replays an earlier card of the same owner.
	Link bool
	// Marker marks the damage-less sentinel that stands for a player turn.
	Marker bool
}

// MarkerDefinition backs every player turn marker.
var MarkerDefinition = &Definition{ID: "player_turn", Name: "Player Turn", Marker: true}

// Card is one playable unit in the hand or queue.
type Card struct {
	// ID identifies this instance; two cards from one definition differ.
	ID          string
	Owner       Side
	Def         *Definition
	DisplayName string
	// Cooldown is the remaining cooldown in player turns. Player cards only.
	Cooldown int
	// DamageOverride replaces Def.Damage when > 0. Enemy decks use it to
	// scale shared definitions.
	DamageOverride int
	// Handle carries the presentation binding and moves with the card.
	Handle any
}

// IsMarker reports whether c is a player turn marker.
func (c *Card) IsMarker() bool {
	return c != nil && c.Def != nil && c.Def.Marker
}

// IsLink reports whether c replays a previous card.
func (c *Card) IsLink() bool {
	return c != nil && c.Def != nil && (c.Def.Link || c.Def.Effect == "link")
}

// Cost returns the resource cost declared by the definition.
func (c *Card) Cost() int {
	if c == nil || c.Def == nil || c.Def.Cost < 0 {
		return 0
	}
	return c.Def.Cost
}

// Damage returns the effective damage, honouring DamageOverride.
func (c *Card) Damage() int {
	if c == nil {
		return 0
	}
	if c.DamageOverride > 0 {
		return c.DamageOverride
	}
	if c.Def == nil {
		return 0
	}
	return c.Def.Damage
}

// DefinitionID returns the definition identifier, or "" for a bare card.
func (c *Card) DefinitionID() string {
	if c == nil || c.Def == nil {
		return ""
	}
	return c.Def.ID
}

// Name returns the display name, falling back to the definition name.
func (c *Card) Name() string {
	if c == nil {
		return ""
	}
	if c.DisplayName != "" {
		return c.DisplayName
	}
	if c.Def != nil {
		return c.Def.Name
	}
	return c.ID
}

// CardEntry is one weighted line of an enemy deck.
type CardEntry struct {
	Definition     *Definition
	DamageOverride int
	Weight         int
}

// CardFactory creates card instances.
type CardFactory interface {
	CreateFromDefinition(def *Definition, owner Side, displayName string) *Card
	CreateEnemyCard(def *Definition, owner Side, damageOverride int) *Card
}
