package effect

import (
	"errors"
	"testing"

	"github.com/milk9111/slotbattler/battle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newContext(def *battle.Definition) *battle.EffectContext {
	return &battle.EffectContext{
		Card:   &battle.Card{ID: "c1", Owner: battle.SidePlayer, Def: def},
		Source: battle.NewCharacter(&battle.CharacterData{Name: "hero", MaxHP: 20, MaxResource: 5}),
		Target: battle.NewCharacter(&battle.CharacterData{Name: "rat", MaxHP: 20}),
		Turn:   2,
	}
}

func TestBuiltinEffects(t *testing.T) {
	r := NewRegistry(nil, zaptest.NewLogger(t))
	tests := []struct {
		name  string
		def   *battle.Definition
		setup func(ctx *battle.EffectContext)
		check func(t *testing.T, ctx *battle.EffectContext)
	}{
		{
			name: "bare damage",
			def:  &battle.Definition{ID: "jab", Damage: 3},
			check: func(t *testing.T, ctx *battle.EffectContext) {
				assert.Equal(t, 17, ctx.Target.HP())
			},
		},
		{
			name:  "heal",
			def:   &battle.Definition{ID: "mend", Effect: Heal, Amount: 4},
			setup: func(ctx *battle.EffectContext) { ctx.Source.SetHP(10) },
			check: func(t *testing.T, ctx *battle.EffectContext) {
				assert.Equal(t, 14, ctx.Source.HP())
			},
		},
		{
			name: "guard",
			def:  &battle.Definition{ID: "block", Effect: Guard, Amount: 6, Duration: 2},
			check: func(t *testing.T, ctx *battle.EffectContext) {
				s, ok := ctx.Source.Status(battle.StatusGuard)
				require.True(t, ok)
				assert.Equal(t, battle.Status{Kind: battle.StatusGuard, Amount: 6, Turns: 2}, s)
			},
		},
		{
			name: "bleed",
			def:  &battle.Definition{ID: "cut", Effect: Bleed, Damage: 2, Amount: 1, Duration: 3},
			check: func(t *testing.T, ctx *battle.EffectContext) {
				assert.Equal(t, 18, ctx.Target.HP())
				s, ok := ctx.Target.Status(battle.StatusBleed)
				require.True(t, ok)
				assert.Equal(t, 3, s.Turns)
			},
		},
		{
			name: "stun",
			def:  &battle.Definition{ID: "bash", Effect: Stun, Damage: 1},
			check: func(t *testing.T, ctx *battle.EffectContext) {
				assert.True(t, ctx.Target.Stunned())
			},
		},
		{
			name:  "drain",
			def:   &battle.Definition{ID: "leech", Effect: Drain, Damage: 5},
			setup: func(ctx *battle.EffectContext) { ctx.Source.SetHP(10) },
			check: func(t *testing.T, ctx *battle.EffectContext) {
				assert.Equal(t, 15, ctx.Target.HP())
				assert.Equal(t, 15, ctx.Source.HP())
			},
		},
		{
			name:  "resource",
			def:   &battle.Definition{ID: "focus", Effect: Resource, Amount: 2},
			setup: func(ctx *battle.EffectContext) { ctx.Source.SetResource(1) },
			check: func(t *testing.T, ctx *battle.EffectContext) {
				assert.Equal(t, 3, ctx.Source.Resource())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(tt.def)
			if tt.setup != nil {
				tt.setup(ctx)
			}
			e, ok := r.Resolve(ctx.Card)
			require.True(t, ok)
			require.NoError(t, e.Apply(ctx))
			tt.check(t, ctx)
		})
	}
}

func TestResolveUnknownEffect(t *testing.T) {
	r := NewRegistry(nil, zaptest.NewLogger(t))
	_, ok := r.Resolve(&battle.Card{Def: &battle.Definition{ID: "x", Effect: "teleport"}})
	assert.False(t, ok)
	_, ok = r.Resolve(&battle.Card{Def: battle.MarkerDefinition})
	assert.False(t, ok)
	_, ok = r.Resolve(&battle.Card{Def: &battle.Definition{ID: "s", Script: "s.tengo"}})
	assert.False(t, ok, "no loader configured")
}

func TestSummonNeedsTarget(t *testing.T) {
	r := NewRegistry(nil, nil)
	ctx := newContext(&battle.Definition{ID: "call", Effect: Summon})
	e, ok := r.Resolve(ctx.Card)
	require.True(t, ok)
	assert.Error(t, e.Apply(ctx))
}

const venomScript = `
apply := func(engine, card) {
	dealt := engine.damage(card.damage)
	engine.bleed(card.amount, card.duration)
	if engine.target_hp() < 10 {
		engine.heal(dealt)
	}
}
`

const callScript = `
apply := func(engine, card) {
	engine.summon("imp")
}
`

func TestScriptedEffect(t *testing.T) {
	loads := 0
	sources := map[string]string{"venom.tengo": venomScript, "call.tengo": callScript}
	loader := func(path string) ([]byte, error) {
		loads++
		src, ok := sources[path]
		if !ok {
			return nil, errors.New("missing")
		}
		return []byte(src), nil
	}
	r := NewRegistry(loader, zaptest.NewLogger(t))

	def := &battle.Definition{ID: "venom", Damage: 12, Amount: 2, Duration: 2, Script: "venom.tengo"}
	ctx := newContext(def)
	ctx.Source.SetHP(5)
	e, ok := r.Resolve(ctx.Card)
	require.True(t, ok)
	require.NoError(t, e.Apply(ctx))

	assert.Equal(t, 8, ctx.Target.HP())
	assert.Equal(t, 17, ctx.Source.HP())
	s, ok := ctx.Target.Status(battle.StatusBleed)
	require.True(t, ok)
	assert.Equal(t, 2, s.Amount)

	require.NoError(t, e.Apply(newContext(def)))
	assert.Equal(t, 1, loads, "compiled once")
	r.Scripts().Invalidate("venom.tengo")
	require.NoError(t, e.Apply(newContext(def)))
	assert.Equal(t, 2, loads)

	callCtx := newContext(&battle.Definition{ID: "call", Script: "call.tengo"})
	e, ok = r.Resolve(callCtx.Card)
	require.True(t, ok)
	assert.Error(t, e.Apply(callCtx), "context has no summon handler")

	missing, ok := r.Resolve(&battle.Card{Def: &battle.Definition{ID: "m", Script: "nope.tengo"}})
	require.True(t, ok)
	assert.Error(t, missing.Apply(newContext(&battle.Definition{ID: "m"})))
}
