package battle

// EnemyDeck draws cards for the active enemy. RandomEntry may legitimately
// report no entry.
type EnemyDeck interface {
	RandomEntry() (CardEntry, bool)
}

// DeckSource returns the deck of the given enemy.
type DeckSource func(enemy *CharacterData) EnemyDeck

// ItemInventory is consulted when the player dies.
type ItemInventory interface {
	FindReviveSlot() (int, bool)
	UseItem(index int) bool
}

// StageProgression supplies the enemies of an encounter chain.
type StageProgression interface {
	HasNextEnemy() bool
	SpawnNext() *CharacterData
	SummonTarget(id string) (*CharacterData, bool)
}

// HandManager tracks the player's hand.
type HandManager interface {
	ClearAll()
	GenerateInitialHand()
	Remove(card *Card)
	Cards() []*Card
}

// Presenter is the animation layer. Each method returns the wait that
// completes when the corresponding visual has finished.
type Presenter interface {
	QueueShift() Wait
	CardExecution(card *Card) Wait
	FatalHit(side Side) Wait
	StatusTick(c *Character, kind StatusKind) Wait
}

// NopPresenter completes every visual immediately.
type NopPresenter struct{}

func (NopPresenter) QueueShift() Wait                       { return Immediate }
func (NopPresenter) CardExecution(*Card) Wait               { return Immediate }
func (NopPresenter) FatalHit(Side) Wait                     { return Immediate }
func (NopPresenter) StatusTick(*Character, StatusKind) Wait { return Immediate }

// EffectContext is handed to an Effect when a card resolves.
type EffectContext struct {
	Card   *Card
	Source *Character
	Target *Character
	Turn   int

	previous func() *Card
	replay   func(card *Card) error
	summon   func(id string) error
}

// PreviousCard returns the most recent card of the source side played in an
// earlier turn, or nil.
func (ctx *EffectContext) PreviousCard() *Card {
	if ctx == nil || ctx.previous == nil {
		return nil
	}
	return ctx.previous()
}

// Replay applies card's effect with this context's source and target.
func (ctx *EffectContext) Replay(card *Card) error {
	if ctx == nil || ctx.replay == nil {
		return ErrMissingDependency
	}
	return ctx.replay(card)
}

// RequestSummon asks the machine to swap in the enemy with id at the next
// safe point.
func (ctx *EffectContext) RequestSummon(id string) error {
	if ctx == nil || ctx.summon == nil {
		return ErrMissingDependency
	}
	return ctx.summon(id)
}

// Effect applies a card.
type Effect interface {
	Apply(ctx *EffectContext) error
}

// EffectFunc adapts a function to Effect.
type EffectFunc func(ctx *EffectContext) error

func (f EffectFunc) Apply(ctx *EffectContext) error { return f(ctx) }

// EffectResolver finds the effect for a card.
type EffectResolver interface {
	Resolve(card *Card) (Effect, bool)
}
