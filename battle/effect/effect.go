// Package effect is the card effect catalogue: built-in effects keyed by
// name plus tengo scripted effects.
package effect

import (
	"fmt"
	"strings"

	"github.com/milk9111/slotbattler/battle"
	"go.uber.org/zap"
)

// Effect names understood by the registry.
const (
	Damage   = "damage"
	Heal     = "heal"
	Guard    = "guard"
	Bleed    = "bleed"
	Stun     = "stun"
	Drain    = "drain"
	Link     = "link"
	Summon   = "summon"
	Resource = "resource"
)

// Registry resolves cards to effects. A definition with a Script path runs
// that script; otherwise its Effect name is looked up, and a bare damage
// value falls back to plain damage.
type Registry struct {
	effects map[string]battle.Effect
	scripts *ScriptCache
	log     *zap.Logger
}

// NewRegistry returns a registry holding the built-in effects. loader may be
// nil, in which case scripted cards fail to resolve.
func NewRegistry(loader ScriptLoader, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		effects: map[string]battle.Effect{},
		log:     logger.Named("effects"),
	}
	if loader != nil {
		r.scripts = NewScriptCache(loader, logger)
	}
	r.Register(Damage, battle.EffectFunc(applyDamage))
	r.Register(Heal, battle.EffectFunc(applyHeal))
	r.Register(Guard, battle.EffectFunc(applyGuard))
	r.Register(Bleed, battle.EffectFunc(applyBleed))
	r.Register(Stun, battle.EffectFunc(applyStun))
	r.Register(Drain, battle.EffectFunc(applyDrain))
	r.Register(Link, battle.EffectFunc(applyLink))
	r.Register(Summon, battle.EffectFunc(applySummon))
	r.Register(Resource, battle.EffectFunc(applyResource))
	return r
}

// Register adds or replaces the effect called name.
func (r *Registry) Register(name string, e battle.Effect) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || e == nil {
		return
	}
	r.effects[name] = e
}

// Scripts exposes the script cache so callers can invalidate it on reload.
func (r *Registry) Scripts() *ScriptCache { return r.scripts }

func (r *Registry) Resolve(card *battle.Card) (battle.Effect, bool) {
	if card == nil || card.Def == nil {
		return nil, false
	}
	if path := strings.TrimSpace(card.Def.Script); path != "" {
		if r.scripts == nil {
			r.log.Error("scripted card without loader", zap.String("card", card.Def.ID), zap.String("script", path))
			return nil, false
		}
		return r.scripts.Effect(path), true
	}
	name := strings.ToLower(strings.TrimSpace(card.Def.Effect))
	if card.Def.Link {
		name = Link
	}
	if name == "" {
		if card.Damage() > 0 {
			name = Damage
		} else {
			return nil, false
		}
	}
	e, ok := r.effects[name]
	if !ok {
		r.log.Warn("unknown effect", zap.String("card", card.Def.ID), zap.String("effect", name))
	}
	return e, ok
}

func turns(def *battle.Definition) int {
	if def == nil || def.Duration <= 0 {
		return 1
	}
	return def.Duration
}

func amount(def *battle.Definition) int {
	if def == nil {
		return 0
	}
	return def.Amount
}

func applyDamage(ctx *battle.EffectContext) error {
	ctx.Target.Damage(ctx.Card.Damage())
	return nil
}

func applyHeal(ctx *battle.EffectContext) error {
	ctx.Source.Heal(amount(ctx.Card.Def))
	return nil
}

func applyGuard(ctx *battle.EffectContext) error {
	ctx.Source.AddStatus(battle.StatusGuard, amount(ctx.Card.Def), turns(ctx.Card.Def))
	return nil
}

func applyBleed(ctx *battle.EffectContext) error {
	ctx.Target.Damage(ctx.Card.Damage())
	ctx.Target.AddStatus(battle.StatusBleed, amount(ctx.Card.Def), turns(ctx.Card.Def))
	return nil
}

func applyStun(ctx *battle.EffectContext) error {
	ctx.Target.Damage(ctx.Card.Damage())
	ctx.Target.AddStatus(battle.StatusStun, 0, turns(ctx.Card.Def))
	return nil
}

func applyDrain(ctx *battle.EffectContext) error {
	dealt := ctx.Target.Damage(ctx.Card.Damage())
	ctx.Source.Heal(dealt)
	return nil
}

func applyLink(ctx *battle.EffectContext) error {
	prev := ctx.PreviousCard()
	if prev == nil {
		return nil
	}
	return ctx.Replay(prev)
}

func applySummon(ctx *battle.EffectContext) error {
	id := strings.TrimSpace(ctx.Card.Def.Summon)
	if id == "" {
		return fmt.Errorf("card %q names no summon target", ctx.Card.Def.ID)
	}
	return ctx.RequestSummon(id)
}

func applyResource(ctx *battle.EffectContext) error {
	ctx.Source.GainResource(amount(ctx.Card.Def))
	return nil
}
