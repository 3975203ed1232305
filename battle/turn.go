package battle

import (
	"go.uber.org/zap"
)

// TurnController owns the turn side and counter.
type TurnController struct {
	side  Side
	count int

	bus        *Bus
	combatants *Combatants
	presenter  Presenter
	// phase reports the machine's current state; effects are skipped once
	// the fight is practically over.
	phase      func() StateID
	cfg        Config
	log        *zap.Logger
}

// NewTurnController starts at turn 1 on the player side.
func NewTurnController(bus *Bus, combatants *Combatants, presenter Presenter, cfg Config, logger *zap.Logger) *TurnController {
	if logger == nil {
		logger = zap.NewNop()
	}
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &TurnController{
		side:       SidePlayer,
		count:      1,
		bus:        bus,
		combatants: combatants,
		presenter:  presenter,
		cfg:        cfg.withDefaults(),
		log:        logger.Named("turn"),
	}
}

func (t *TurnController) Side() Side { return t.side }

func (t *TurnController) Count() int { return t.count }

// SetSideAndIncrement switches to side. The counter advances only when the
// side actually changes. It reports whether it did.
func (t *TurnController) SetSideAndIncrement(side Side) bool {
	changed := side != t.side
	t.side = side
	if changed {
		t.count++
		t.bus.Publish(Event{Type: EventTurnCountChanged, Data: TurnCountChange{Count: t.count}})
	}
	t.bus.Publish(Event{Type: EventTurnChanged, Data: TurnChange{Side: side}})
	return changed
}

// SetSide sets the side without touching the counter. Restore only.
func (t *TurnController) SetSide(side Side) {
	t.side = side
	t.bus.Publish(Event{Type: EventTurnChanged, Data: TurnChange{Side: side}})
}

// Restore overwrites the counter and side.
func (t *TurnController) Restore(count int, side Side) {
	if count < 1 {
		count = 1
	}
	t.count = count
	t.bus.Publish(Event{Type: EventTurnCountChanged, Data: TurnCountChange{Count: t.count}})
	t.SetSide(side)
}

// ProcessTurnEffects resolves one turn of statuses on both combatants and
// returns the wait covering their visuals. Each visual is bounded by the
// configured timeout.
func (t *TurnController) ProcessTurnEffects() Wait {
	if t.phase != nil {
		switch t.phase() {
		case StateEnemyDefeated, StateBattleEnd:
			return Immediate
		}
	}
	var waits []Wait
	for _, side := range []Side{SidePlayer, SideEnemy} {
		c := t.combatants.Provider(side).Character()
		if c == nil {
			continue
		}
		for _, kind := range c.TickStatuses() {
			t.log.Debug("status ticked",
				zap.Stringer("side", side),
				zap.String("status", string(kind)),
				zap.Int("hp", c.HP()),
			)
			waits = append(waits, Timeout(t.presenter.StatusTick(c, kind), t.cfg.TurnEffectTimeout))
		}
	}
	return All(waits...)
}
