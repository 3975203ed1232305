package battle

import (
	"go.uber.org/zap"
)

type initMode int

const (
	initFresh initMode = iota
	initAfterSummon
	initAfterReturn
)

// initState builds the encounter. A fresh init resets turn, history and
// queue; the summon modes only hand control back with the queue the
// coordinator already bootstrapped.
type initState struct {
	baseState
	enemy *CharacterData
	mode  initMode
}

func (*initState) ID() StateID { return StateInit }

func (s *initState) Enter(m *Machine) {
	switch s.mode {
	case initAfterSummon:
		m.hand.GenerateInitialHand()
		m.RequestTransition(&enemyTurnState{})
		return
	case initAfterReturn:
		m.hand.GenerateInitialHand()
		m.RequestTransition(&playerTurnState{})
		return
	}

	enemy := m.pool.Acquire(s.enemy)
	if enemy == nil {
		m.log.Error("init aborted", zap.Error(ErrMissingDependency))
		m.RequestTransition(&battleEndState{victory: false})
		return
	}
	enemy.Resume()
	m.combatants.SetEnemy(enemy)
	m.enemyDefeatInFlight = false
	m.summonTarget = nil
	m.summon.Clear()
	m.history.Clear()
	m.turns.Restore(1, SidePlayer)

	m.slots.ClearAll()
	m.advancer.Reset()
	m.advancer.Bootstrap(true)

	m.hand.ClearAll()
	m.hand.GenerateInitialHand()

	m.log.Info("combat started", zap.String("enemy", enemy.Name()), zap.Int("enemy_hp", enemy.HP()))
	m.bus.Publish(Event{Type: EventCombatStarted, Data: CombatStart{Enemy: enemy.Name()}})
	m.RequestTransition(&playerTurnState{})
}

// playerTurnState waits for the player to place a card or pass. Input is
// refused until the turn's status effects have resolved.
type playerTurnState struct {
	baseState
	ready bool
}

func (*playerTurnState) ID() StateID { return StatePlayerTurn }

func (s *playerTurnState) Enter(m *Machine) {
	newTurn := m.turns.SetSideAndIncrement(SidePlayer)
	player := m.combatants.Player()
	if newTurn && player.Data != nil {
		player.GainResource(player.Data.ResourcePerTurn)
		m.tickHandCooldowns()
	}
	if m.checkDeaths() {
		return
	}
	effects := Immediate
	if newTurn {
		effects = m.turns.ProcessTurnEffects()
	}
	m.await(effects, func() {
		if m.checkDeaths() {
			return
		}
		s.ready = true
		if player.ConsumeStun() {
			m.log.Info("player stunned, turn forfeited")
			m.passTurn()
		}
	})
}

// Ready reports whether the player may act.
func (s *playerTurnState) Ready() bool { return s.ready }

// enemyTurnState hands the Battle slot occupant to execution, or cedes the
// turn when Battle holds a marker or nothing.
type enemyTurnState struct {
	baseState
}

func (*enemyTurnState) ID() StateID { return StateEnemyTurn }

func (s *enemyTurnState) Enter(m *Machine) {
	newTurn := m.turns.SetSideAndIncrement(SideEnemy)
	if m.checkDeaths() {
		return
	}
	effects := Immediate
	if newTurn {
		effects = m.turns.ProcessTurnEffects()
	}
	m.await(effects, func() {
		if m.checkDeaths() {
			return
		}
		m.resolveBattleSlot()
	})
}

// resolveBattleSlot picks the next state from the Battle occupant.
func (m *Machine) resolveBattleSlot() {
	card := m.slots.Card(SlotBattle)
	owner, _ := m.slots.Owner(SlotBattle)
	switch {
	case card == nil, card.IsMarker():
		m.RequestTransition(&playerTurnState{})
	case owner == SideEnemy:
		if m.State() != StateEnemyTurn {
			m.RequestTransition(&enemyTurnState{})
			return
		}
		if enemy := m.combatants.Enemy(); enemy.ConsumeStun() {
			m.log.Info("enemy stunned, card discarded", zap.String("card", card.DefinitionID()))
			m.slots.ClearSlot(SlotBattle)
			m.advancer.Forget(card)
			m.RequestTransition(&slotMovingState{})
			return
		}
		if m.advancer.MarkScheduled(card) {
			m.RequestTransition(&cardExecutionState{card: card})
		}
	default:
		m.log.Warn("player card in battle outside player turn", zap.String("card", card.DefinitionID()))
		m.RequestTransition(&playerTurnState{})
	}
}

// cardExecutionState runs the pipeline on the Battle occupant and waits for
// its visual.
type cardExecutionState struct {
	baseState
	card      *Card
	displaced *Card
}

func (*cardExecutionState) ID() StateID { return StateCardExecution }

func (s *cardExecutionState) Enter(m *Machine) {
	card := m.slots.Card(SlotBattle)
	if s.card != nil && card != s.card {
		m.log.Warn("battle slot changed before execution",
			zap.String("expected", s.card.DefinitionID()),
			zap.String("found", card.DefinitionID()),
		)
	}
	if card == nil {
		m.log.Error("nothing to execute", zap.Error(ErrMissingDependency))
		m.RequestTransition(&slotMovingState{})
		return
	}
	s.card = card
	res := m.pipeline.Execute(card, SlotBattle)
	visual := Immediate
	if res.OK() {
		visual = m.presenter.CardExecution(card)
	}
	m.await(visual, func() { s.complete(m, res) })
}

func (s *cardExecutionState) complete(m *Machine, res Result) {
	switch res.Kind() {
	case KindInsufficientResource:
		if s.displaced != nil {
			m.slots.Register(SlotBattle, s.displaced, SidePlayer)
		} else {
			m.slots.ClearSlot(SlotBattle)
		}
		m.advancer.Forget(s.card)
		m.RequestTransition(&playerTurnState{})
		return
	case KindResolution, KindBusy:
		m.slots.ClearSlot(SlotBattle)
		m.advancer.Forget(s.card)
	}

	if m.checkDeaths() {
		return
	}
	switch m.Pending() {
	case StateEnemyDefeated, StateSummon, StateSummonReturn, StateInit, StateBattleEnd:
		return
	}
	m.RequestTransition(&slotMovingState{})
}

// slotMovingState shifts the queue and chooses the next turn from the new
// Battle occupant. A requested summon preempts the shift.
type slotMovingState struct {
	baseState
	decided bool
}

func (*slotMovingState) ID() StateID { return StateSlotMoving }

func (s *slotMovingState) Enter(m *Machine) {
	if target := m.summonTarget; target != nil {
		s.decided = true
		m.RequestTransition(&summonState{target: target})
		return
	}
	if !m.advancer.Advance() {
		m.log.Warn("queue did not advance")
	}
}

func (s *slotMovingState) Update(m *Machine) {
	if s.decided || m.advancer.IsAdvancing() {
		return
	}
	s.decided = true
	if m.pending != nil || m.checkDeaths() {
		return
	}
	if target := m.summonTarget; target != nil {
		m.RequestTransition(&summonState{target: target})
		return
	}
	m.resolveBattleSlot()
}

func (*slotMovingState) CanTransition(m *Machine) bool {
	return !m.advancer.IsAdvancing()
}

// summonState swaps in the substitute enemy.
type summonState struct {
	baseState
	target *CharacterData
}

func (*summonState) ID() StateID { return StateSummon }

func (s *summonState) Enter(m *Machine) {
	m.summonTarget = nil
	if err := m.summon.Trigger(s.target); err != nil {
		m.log.Error("summon failed", zap.Error(err))
		m.RequestTransition(&slotMovingState{})
		return
	}
	m.RequestTransition(&initState{mode: initAfterSummon})
}

// summonReturnState restores the original enemy after the substitute fell.
type summonReturnState struct {
	baseState
}

func (*summonReturnState) ID() StateID { return StateSummonReturn }

func (s *summonReturnState) Enter(m *Machine) {
	m.enemyDefeatInFlight = false
	if _, err := m.summon.Return(); err != nil {
		m.log.Error("summon return failed", zap.Error(err))
		m.RequestTransition(&enemyDefeatedState{})
		return
	}
	m.RequestTransition(&initState{mode: initAfterReturn})
}

// enemyDefeatedState tears down the encounter and moves to the next enemy
// or ends the battle.
type enemyDefeatedState struct {
	baseState
}

func (*enemyDefeatedState) ID() StateID { return StateEnemyDefeated }

func (s *enemyDefeatedState) Enter(m *Machine) {
	m.slots.ClearAll()
	m.hand.ClearAll()
	m.advancer.Reset()
	if enemy := m.combatants.Enemy(); enemy != nil {
		m.pool.Release(enemy)
		m.combatants.SetEnemy(nil)
	}
	m.enemyDefeatInFlight = false
	m.summonTarget = nil

	if m.stage != nil && m.stage.HasNextEnemy() {
		if next := m.stage.SpawnNext(); next != nil {
			m.RequestTransition(&initState{enemy: next, mode: initFresh})
			return
		}
		m.log.Error("next enemy missing", zap.Error(ErrMissingDependency))
	}
	m.RequestTransition(&battleEndState{victory: true})
}

// battleEndState is terminal until the next Start.
type battleEndState struct {
	baseState
	victory bool
}

func (*battleEndState) ID() StateID { return StateBattleEnd }

func (s *battleEndState) Enter(m *Machine) {
	m.advancer.Reset()
	m.log.Info("combat ended", zap.Bool("victory", s.victory), zap.Int("turns", m.turns.Count()))
	m.bus.Publish(Event{Type: EventCombatEnded, Data: CombatEnd{Victory: s.victory}})
}

// Victory reports the outcome.
func (s *battleEndState) Victory() bool { return s.victory }
