package battle

import (
	"fmt"

	"go.uber.org/zap"
)

// Result is the outcome of one card execution.
type Result struct {
	Card   *Card
	Source *Character
	Target *Character
	Err    error
}

// OK reports whether the card resolved without error.
func (r Result) OK() bool { return r.Err == nil }

// Kind classifies Err.
func (r Result) Kind() ErrorKind { return KindOf(r.Err) }

// Pipeline resolves cards: cost, effect, history, notifications and slot
// cleanup.
type Pipeline struct {
	slots      *Registry
	combatants *Combatants
	history    *History
	effects    EffectResolver
	bus        *Bus
	log        *zap.Logger

	// Turn reports the current turn count for history and link lookups.
	Turn func() int
	// Hand receives removals of executed player cards; may be nil.
	Hand HandManager
	// Forget drops execution scheduling bookkeeping for a card.
	Forget func(card *Card)
	// Summon requests an enemy swap on behalf of a card effect.
	Summon func(id string) error

	executing bool
}

func NewPipeline(slots *Registry, combatants *Combatants, history *History, effects EffectResolver, bus *Bus, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		slots:      slots,
		combatants: combatants,
		history:    history,
		effects:    effects,
		bus:        bus,
		log:        logger.Named("pipeline"),
	}
}

// IsExecuting reports whether an execution is in flight.
func (p *Pipeline) IsExecuting() bool { return p.executing }

// Execute resolves card from pos. A re-entrant call is rejected with
// ErrBusy and changes nothing.
func (p *Pipeline) Execute(card *Card, pos SlotPosition) Result {
	res := Result{Card: card}
	if p.executing {
		p.log.Warn("execute rejected", zap.String("card", card.DefinitionID()), zap.Error(ErrBusy))
		res.Err = ErrBusy
		return res
	}
	if card == nil {
		res.Err = fmt.Errorf("%w: nil card", ErrExecution)
		return res
	}
	p.executing = true
	defer func() { p.executing = false }()

	source := p.combatants.Provider(card.Owner).Character()
	target := p.combatants.Provider(card.Owner.Opponent()).Character()
	if source == nil || target == nil {
		res.Err = fmt.Errorf("%w: %s card %q", ErrResolution, card.Owner, card.DefinitionID())
		p.log.Warn("execute aborted", zap.String("card", card.DefinitionID()), zap.Error(res.Err))
		return res
	}
	res.Source, res.Target = source, target

	if card.Owner == SidePlayer && card.Cost() > 0 {
		if !source.ConsumeResource(card.Cost()) {
			res.Err = fmt.Errorf("%w: need %d, have %d", ErrInsufficientResource, card.Cost(), source.Resource())
			p.log.Info("execute aborted", zap.String("card", card.DefinitionID()), zap.Error(res.Err))
			return res
		}
	}

	turn := p.turn()
	if !card.IsMarker() {
		res.Err = p.apply(p.newContext(card, source, target, turn), card)
		if res.Err != nil {
			p.log.Error("card effect failed", zap.String("card", card.DefinitionID()), zap.Error(res.Err))
		}
	}

	if res.Err == nil {
		p.history.Record(card.Owner, card, turn)
	}

	p.bus.Publish(Event{Type: EventCardExecuted, Data: CardExecution{Card: card, Source: source, Target: target}})
	if !card.IsMarker() {
		p.bus.Publish(Event{Type: EventCardUsed, Data: CardUse{Side: card.Owner, CardID: card.DefinitionID()}})
	}

	if pos == SlotBattle {
		p.slots.ClearSlot(SlotBattle)
		if p.Forget != nil {
			p.Forget(card)
		}
		if card.Owner == SidePlayer && !card.IsMarker() && p.Hand != nil {
			p.Hand.Remove(card)
		}
	}
	return res
}

// FindPreviousCard returns side's most recent card from an earlier turn.
func (p *Pipeline) FindPreviousCard(side Side) *Card {
	return p.history.FindPrevious(side, p.turn())
}

func (p *Pipeline) turn() int {
	if p.Turn == nil {
		return 0
	}
	return p.Turn()
}

func (p *Pipeline) newContext(card *Card, source, target *Character, turn int) *EffectContext {
	ctx := &EffectContext{Card: card, Source: source, Target: target, Turn: turn}
	ctx.previous = func() *Card { return p.history.FindPrevious(card.Owner, turn) }
	ctx.replay = func(prev *Card) error {
		if prev == nil || prev.IsLink() {
			return nil
		}
		return p.apply(&EffectContext{
			Card:     prev,
			Source:   source,
			Target:   target,
			Turn:     turn,
			previous: ctx.previous,
			summon:   ctx.summon,
		}, prev)
	}
	ctx.summon = func(id string) error {
		if p.Summon == nil {
			return fmt.Errorf("%w: summon handler", ErrMissingDependency)
		}
		return p.Summon(id)
	}
	return ctx
}

// apply runs the effect for card, converting a panic into ErrExecution.
func (p *Pipeline) apply(ctx *EffectContext, card *Card) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", ErrExecution, card.DefinitionID(), r)
		}
	}()
	if p.effects == nil {
		return fmt.Errorf("%w: effect resolver", ErrMissingDependency)
	}
	effect, ok := p.effects.Resolve(card)
	if !ok {
		if card.Damage() > 0 {
			ctx.Target.Damage(card.Damage())
			return nil
		}
		return fmt.Errorf("%w: no effect for %q", ErrExecution, card.DefinitionID())
	}
	if err := effect.Apply(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrExecution, card.DefinitionID(), err)
	}
	return nil
}
