package effect

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/slotbattler/battle"
	"go.uber.org/zap"
)

// ScriptLoader returns the source of a tengo script by path.
type ScriptLoader func(path string) ([]byte, error)

// A card script defines apply(engine, card). The engine map exposes the
// actions below; card carries the definition fields.
const scriptDispatch = `
apply(__engine, __card)
`

// ScriptCache compiles card scripts once per path.
type ScriptCache struct {
	load     ScriptLoader
	compiled map[string]*tengo.Compiled
	log      *zap.Logger
}

func NewScriptCache(load ScriptLoader, logger *zap.Logger) *ScriptCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptCache{load: load, compiled: map[string]*tengo.Compiled{}, log: logger.Named("scripts")}
}

// Invalidate drops the compiled copy of path, or every copy when path is
// empty.
func (c *ScriptCache) Invalidate(path string) {
	if c == nil {
		return
	}
	if path == "" {
		c.compiled = map[string]*tengo.Compiled{}
		return
	}
	delete(c.compiled, path)
}

// Effect returns an effect that runs the script at path.
func (c *ScriptCache) Effect(path string) battle.Effect {
	return battle.EffectFunc(func(ctx *battle.EffectContext) error {
		compiled, err := c.get(path)
		if err != nil {
			return err
		}
		var failure error
		engine := buildScriptEngine(ctx, &failure)
		if err := compiled.Set("__engine", engine); err != nil {
			return err
		}
		if err := compiled.Set("__card", cardObject(ctx.Card)); err != nil {
			return err
		}
		if err := compiled.Run(); err != nil {
			return fmt.Errorf("script %s: %w", path, err)
		}
		return failure
	})
}

func (c *ScriptCache) get(path string) (*tengo.Compiled, error) {
	if compiled, ok := c.compiled[path]; ok {
		return compiled, nil
	}
	src, err := c.load(path)
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}
	script := tengo.NewScript([]byte(string(src) + "\n" + scriptDispatch))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__card", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile script %s: %w", path, err)
	}
	c.compiled[path] = compiled
	c.log.Debug("script compiled", zap.String("path", path))
	return compiled, nil
}

func cardObject(card *battle.Card) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"id":       &tengo.String{Value: card.DefinitionID()},
		"name":     &tengo.String{Value: card.Name()},
		"damage":   &tengo.Int{Value: int64(card.Damage())},
		"cost":     &tengo.Int{Value: int64(card.Cost())},
		"amount":   &tengo.Int{Value: 0},
		"duration": &tengo.Int{Value: 0},
		"owner":    &tengo.String{Value: card.Owner.String()},
	}
	if card.Def != nil {
		values["amount"] = &tengo.Int{Value: int64(card.Def.Amount)}
		values["duration"] = &tengo.Int{Value: int64(card.Def.Duration)}
	}
	return &tengo.ImmutableMap{Value: values}
}

// buildScriptEngine exposes the effect context to a script. Errors raised
// by context operations are stored in failure rather than aborting the VM.
func buildScriptEngine(ctx *battle.EffectContext, failure *error) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	intFn := func(name string, fn func(args []int) int) {
		values[name] = &tengo.UserFunction{Name: name, Value: func(args ...tengo.Object) (tengo.Object, error) {
			ints := make([]int, len(args))
			for i, a := range args {
				n, ok := objectAsInt(a)
				if !ok {
					return nil, tengo.ErrInvalidArgumentType{Name: fmt.Sprintf("arg %d", i), Expected: "int", Found: a.TypeName()}
				}
				ints[i] = n
			}
			return &tengo.Int{Value: int64(fn(ints))}, nil
		}}
	}
	arg := func(args []int, i int) int {
		if i < len(args) {
			return args[i]
		}
		return 0
	}

	intFn("damage", func(a []int) int { return ctx.Target.Damage(arg(a, 0)) })
	intFn("pierce", func(a []int) int { return ctx.Target.LoseHP(arg(a, 0)) })
	intFn("heal", func(a []int) int { return ctx.Source.Heal(arg(a, 0)) })
	intFn("gain_resource", func(a []int) int {
		ctx.Source.GainResource(arg(a, 0))
		return ctx.Source.Resource()
	})
	intFn("guard", func(a []int) int {
		ctx.Source.AddStatus(battle.StatusGuard, arg(a, 0), max(arg(a, 1), 1))
		return 0
	})
	intFn("bleed", func(a []int) int {
		ctx.Target.AddStatus(battle.StatusBleed, arg(a, 0), max(arg(a, 1), 1))
		return 0
	})
	intFn("stun", func(a []int) int {
		ctx.Target.AddStatus(battle.StatusStun, 0, max(arg(a, 0), 1))
		return 0
	})
	intFn("source_hp", func([]int) int { return ctx.Source.HP() })
	intFn("target_hp", func([]int) int { return ctx.Target.HP() })
	intFn("target_max_hp", func([]int) int { return ctx.Target.MaxHP() })
	intFn("turn", func([]int) int { return ctx.Turn })

	values["previous_card"] = &tengo.UserFunction{Name: "previous_card", Value: func(args ...tengo.Object) (tengo.Object, error) {
		prev := ctx.PreviousCard()
		if prev == nil {
			return tengo.UndefinedValue, nil
		}
		return &tengo.String{Value: prev.DefinitionID()}, nil
	}}

	values["replay"] = &tengo.UserFunction{Name: "replay", Value: func(args ...tengo.Object) (tengo.Object, error) {
		prev := ctx.PreviousCard()
		if prev == nil {
			return tengo.FalseValue, nil
		}
		if err := ctx.Replay(prev); err != nil {
			*failure = err
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["summon"] = &tengo.UserFunction{Name: "summon", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		id := strings.TrimSpace(objectAsString(args[0]))
		if err := ctx.RequestSummon(id); err != nil {
			*failure = err
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsInt(obj tengo.Object) (int, bool) {
	switch v := obj.(type) {
	case *tengo.Int:
		return int(v.Value), true
	case *tengo.Float:
		return int(v.Value), true
	case *tengo.Char:
		return int(v.Value), true
	case *tengo.Bool:
		if v.IsFalsy() {
			return 0, true
		}
		return 1, true
	default:
		return 0, false
	}
}
