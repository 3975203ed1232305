package battle

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// Deps are the collaborators a Machine is wired with. Only Player, Factory
// and Effects are required.
type Deps struct {
	Player    *CharacterData
	Factory   CardFactory
	Effects   EffectResolver
	Decks     DeckSource
	Hand      HandManager
	Inventory ItemInventory
	Stage     StageProgression
	Presenter Presenter
	Bus       *Bus
	Logger    *zap.Logger
}

// Machine is the combat state machine. It owns the current state and
// sequences every other component; nothing here runs concurrently.
type Machine struct {
	cfg Config
	log *zap.Logger

	bus        *Bus
	sched      *Scheduler
	pool       *CharacterPool
	combatants *Combatants
	slots      *Registry
	turns      *TurnController
	advancer   *Advancer
	history    *History
	pipeline   *Pipeline
	summon     *SummonCoordinator

	hand      HandManager
	inventory ItemInventory
	stage     StageProgression
	presenter Presenter
	decks     DeckSource

	current    State
	pending    State
	completion Wait
	epoch      uint64

	enemyDefeatInFlight bool
	playerDefeated      bool
	summonTarget        *CharacterData
}

// NewMachine wires the core components around deps.
func NewMachine(cfg Config, deps Deps) (*Machine, error) {
	if deps.Player == nil {
		return nil, fmt.Errorf("%w: player data", ErrMissingDependency)
	}
	if deps.Factory == nil {
		return nil, fmt.Errorf("%w: card factory", ErrMissingDependency)
	}
	if deps.Effects == nil {
		return nil, fmt.Errorf("%w: effect resolver", ErrMissingDependency)
	}
	cfg = cfg.withDefaults()
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bus := deps.Bus
	if bus == nil {
		bus = NewBus()
	}
	presenter := deps.Presenter
	if presenter == nil {
		presenter = NopPresenter{}
	}
	hand := deps.Hand
	if hand == nil {
		hand = nopHand{}
	}

	m := &Machine{
		cfg:       cfg,
		log:       logger.Named("machine"),
		bus:       bus,
		sched:     NewScheduler(),
		pool:      NewCharacterPool(),
		history:   NewHistory(),
		hand:      hand,
		inventory: deps.Inventory,
		stage:     deps.Stage,
		presenter: presenter,
		decks:     deps.Decks,
	}
	m.combatants = NewCombatants(m.pool.Acquire(deps.Player))
	m.slots = NewRegistry(bus, logger)
	m.turns = NewTurnController(bus, m.combatants, presenter, cfg, logger)
	m.turns.phase = m.State

	m.advancer = NewAdvancer(m.slots, deps.Factory, presenter, bus, cfg, logger)
	m.advancer.Deck = m.enemyDeck
	m.advancer.Side = m.turns.Side
	m.advancer.Caps = m.Capabilities
	m.advancer.OnAutoExecute = m.autoExecute

	m.pipeline = NewPipeline(m.slots, m.combatants, m.history, deps.Effects, bus, logger)
	m.pipeline.Turn = m.turns.Count
	m.pipeline.Hand = hand
	m.pipeline.Forget = m.advancer.Forget
	m.pipeline.Summon = m.requestSummon

	m.summon = NewSummonCoordinator(m.pool, m.combatants, m.slots, m.advancer, hand, logger)
	return m, nil
}

func (m *Machine) Bus() *Bus                   { return m.bus }
func (m *Machine) Slots() *Registry            { return m.slots }
func (m *Machine) Turns() *TurnController      { return m.turns }
func (m *Machine) Advancer() *Advancer         { return m.advancer }
func (m *Machine) Pipeline() *Pipeline         { return m.pipeline }
func (m *Machine) History() *History           { return m.history }
func (m *Machine) Summons() *SummonCoordinator { return m.summon }
func (m *Machine) Combatants() *Combatants     { return m.combatants }
func (m *Machine) Pool() *CharacterPool        { return m.pool }
func (m *Machine) Config() Config              { return m.cfg }
func (m *Machine) PlayerDefeated() bool        { return m.playerDefeated }
func (m *Machine) EnemyDefeatInFlight() bool   { return m.enemyDefeatInFlight }

// State returns the identifier of the active state.
func (m *Machine) State() StateID {
	if m.current == nil {
		return StateNone
	}
	return m.current.ID()
}

// Pending returns the identifier of the requested next state, if any.
func (m *Machine) Pending() StateID {
	if m.pending == nil {
		return StateNone
	}
	return m.pending.ID()
}

// Capabilities returns the permissions of the active state.
func (m *Machine) Capabilities() Capabilities {
	return m.State().Capabilities()
}

// Start resets every flag and enters Init for enemy. It is the only way out
// of BattleEnd.
func (m *Machine) Start(enemy *CharacterData) error {
	if enemy == nil {
		return fmt.Errorf("%w: enemy data", ErrMissingDependency)
	}
	m.sched.Reset()
	m.pending = nil
	m.completion = nil
	m.enemyDefeatInFlight = false
	m.playerDefeated = false
	m.summonTarget = nil
	if ctx := m.summon.Context(); ctx.Active && ctx.Original != nil && ctx.Original != m.combatants.Player() {
		m.pool.Release(ctx.Original)
	}
	m.summon.Clear()

	if prev := m.combatants.Enemy(); prev != nil {
		m.pool.Release(prev)
		m.combatants.SetEnemy(nil)
	}
	if player := m.combatants.Player(); player != nil {
		player.Revive(player.MaxHP())
		player.SetResource(player.MaxResource())
	}

	m.install(&initState{enemy: enemy, mode: initFresh})
	m.processTransitions(0)
	return nil
}

// RequestTransition records next as the state to install once the current
// one has finished. Requests are dropped once BattleEnd is reached or
// pending, and after the player has been defeated.
func (m *Machine) RequestTransition(next State) bool {
	if next == nil {
		return false
	}
	id := next.ID()
	switch {
	case m.State() == StateBattleEnd:
		m.log.Debug("transition dropped: battle ended", zap.Stringer("next", id))
		return false
	case m.Pending() == StateBattleEnd && id != StateBattleEnd:
		m.log.Debug("transition dropped: battle end pending", zap.Stringer("next", id))
		return false
	case m.playerDefeated && id != StateBattleEnd:
		m.log.Debug("transition dropped: player defeated", zap.Stringer("next", id))
		return false
	}
	if m.pending != nil {
		m.log.Debug("pending transition replaced", zap.Stringer("old", m.pending.ID()), zap.Stringer("next", id))
	}
	m.pending = next
	return true
}

// Tick advances the machine by one frame of dt.
func (m *Machine) Tick(dt time.Duration) {
	m.sched.Tick(dt)
	m.advancer.Tick(dt)
	if m.current != nil {
		m.current.Update(m)
	}
	m.processTransitions(dt)
}

// processTransitions runs the two phase handoff: the current state must
// agree to leave and its completion wait must finish before the pending
// state is installed.
func (m *Machine) processTransitions(dt time.Duration) {
	for range m.cfg.MaxTransitionsPerTick {
		if m.pending == nil {
			return
		}
		if m.current != nil {
			if m.completion == nil {
				if !m.current.CanTransition(m) {
					return
				}
				m.completion = m.current.Completion(m)
				if m.completion == nil {
					m.completion = Immediate
				}
				dt = 0
			}
			if !m.completion.Poll(dt) {
				return
			}
		}
		next := m.pending
		m.pending = nil
		m.completion = nil
		m.install(next)
		dt = 0
	}
	if m.pending != nil {
		m.log.Warn("transition chain deferred", zap.Int("limit", m.cfg.MaxTransitionsPerTick), zap.Stringer("pending", m.pending.ID()))
	}
}

func (m *Machine) install(next State) {
	prev := m.State()
	if m.current != nil {
		m.current.Exit(m)
	}
	m.epoch++
	m.current = next
	m.log.Debug("state changed", zap.Stringer("from", prev), zap.Stringer("to", next.ID()))
	m.bus.Publish(Event{Type: EventStateChanged, Data: StateChange{Previous: prev, Next: next.ID()}})
	next.Enter(m)
}

// await runs fn once w completes, unless the state that scheduled it has
// been replaced in the meantime.
func (m *Machine) await(w Wait, fn func()) {
	epoch := m.epoch
	m.sched.Await(w, func() {
		if m.epoch == epoch {
			fn()
		}
	})
}

// PlacePlayerCard puts card from the hand into Battle, replacing the turn
// marker, and starts its execution.
func (m *Machine) PlacePlayerCard(card *Card) error {
	st, ok := m.current.(*playerTurnState)
	if !ok || !st.ready || !m.Capabilities().AllowPlayerDrag || m.pending != nil {
		return fmt.Errorf("%w: place card in %s", ErrNotAllowed, m.State())
	}
	if card == nil || card.Owner != SidePlayer || card.IsMarker() {
		return fmt.Errorf("%w: not a player card", ErrNotAllowed)
	}
	if !slices.Contains(m.hand.Cards(), card) {
		return fmt.Errorf("%w: %q is not in the hand", ErrNotAllowed, card.DefinitionID())
	}
	if card.Cooldown > 0 {
		return fmt.Errorf("%w: %d turns left", ErrCardOnCooldown, card.Cooldown)
	}
	player := m.combatants.Player()
	if card.Cost() > player.Resource() {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientResource, card.Cost(), player.Resource())
	}
	displaced := m.slots.Card(SlotBattle)
	if displaced != nil && !displaced.IsMarker() {
		return fmt.Errorf("%w: battle slot holds %q", ErrNotAllowed, displaced.DefinitionID())
	}
	m.slots.Register(SlotBattle, card, SidePlayer)
	m.RequestTransition(&cardExecutionState{card: card, displaced: displaced})
	return nil
}

// PassTurn spends the player's turn without playing a card.
func (m *Machine) PassTurn() error {
	st, ok := m.current.(*playerTurnState)
	if !ok || !st.ready || m.pending != nil {
		return fmt.Errorf("%w: pass in %s", ErrNotAllowed, m.State())
	}
	m.passTurn()
	return nil
}

func (m *Machine) passTurn() {
	if card := m.slots.Card(SlotBattle); card != nil && card.IsMarker() {
		m.RequestTransition(&cardExecutionState{card: card})
		return
	}
	m.RequestTransition(&slotMovingState{})
}

// checkDeaths is evaluated at safe points only. It reports whether a death
// is being handled and the caller must not proceed with its own flow.
func (m *Machine) checkDeaths() bool {
	if m.playerDefeated || m.State() == StateBattleEnd {
		return true
	}
	if m.combatants.Player().IsDead() {
		m.handlePlayerDeath()
		if m.playerDefeated {
			return true
		}
	}
	if m.enemyDefeatInFlight {
		return true
	}
	if enemy := m.combatants.Enemy(); enemy != nil && enemy.Active() && enemy.IsDead() {
		m.handleEnemyDeath()
		return true
	}
	return false
}

func (m *Machine) handlePlayerDeath() {
	player := m.combatants.Player()
	if m.inventory != nil {
		if slot, ok := m.inventory.FindReviveSlot(); ok && m.inventory.UseItem(slot) {
			hp := max(1, player.MaxHP()*m.cfg.ReviveHPPercent/100)
			player.Revive(hp)
			m.log.Info("player revived", zap.Int("slot", slot), zap.Int("hp", hp))
			m.bus.Publish(Event{Type: EventPlayerRevived, Data: PlayerRevive{HP: hp}})
			return
		}
	}
	m.log.Info("player defeated")
	m.playerDefeated = true
	if m.Pending() != StateBattleEnd {
		m.pending = nil
		m.completion = nil
	}
	m.sched.Await(m.fatalHitWait(SidePlayer), func() {
		m.RequestTransition(&battleEndState{victory: false})
	})
}

func (m *Machine) handleEnemyDeath() {
	if m.enemyDefeatInFlight {
		return
	}
	m.enemyDefeatInFlight = true
	m.log.Info("enemy defeated", zap.String("enemy", m.combatants.Enemy().Name()))
	m.sched.Await(m.fatalHitWait(SideEnemy), func() {
		if m.playerDefeated {
			return
		}
		if m.summon.Active() {
			m.RequestTransition(&summonReturnState{})
			return
		}
		m.RequestTransition(&enemyDefeatedState{})
	})
}

// fatalHitWait lets the lethal hit visual play out: at least FatalHitDelay,
// at most FatalHitCap for the presenter's own signal.
func (m *Machine) fatalHitWait(side Side) Wait {
	return All(
		Delay(m.cfg.FatalHitDelay),
		Timeout(m.presenter.FatalHit(side), m.cfg.FatalHitCap),
	)
}

// autoExecute is the advancer's post-shift hook.
func (m *Machine) autoExecute(card *Card) {
	if m.pending != nil || m.checkDeaths() {
		m.advancer.Forget(card)
		return
	}
	m.RequestTransition(&cardExecutionState{card: card})
}

func (m *Machine) requestSummon(id string) error {
	if m.summon.Active() || m.summonTarget != nil {
		return fmt.Errorf("%w: summon already in flight", ErrNotAllowed)
	}
	if m.stage == nil {
		return fmt.Errorf("%w: stage progression", ErrMissingDependency)
	}
	target, ok := m.stage.SummonTarget(id)
	if !ok || target == nil {
		return fmt.Errorf("%w: %q", ErrNoSummon, id)
	}
	m.summonTarget = target
	m.log.Info("summon requested", zap.String("target", target.Name))
	return nil
}

func (m *Machine) enemyDeck() EnemyDeck {
	enemy := m.combatants.Enemy()
	if enemy == nil || m.decks == nil {
		return nil
	}
	return m.decks(enemy.Data)
}

func (m *Machine) tickHandCooldowns() {
	for _, c := range m.hand.Cards() {
		if c != nil && c.Cooldown > 0 {
			c.Cooldown--
		}
	}
}
