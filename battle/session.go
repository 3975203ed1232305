package battle

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Snapshot holds the primitives a save system needs to rebuild the queue
// and turn state.
type Snapshot struct {
	State     StateID
	Side      Side
	TurnCount int
	Slots     [SlotCount]string
	Hand      []string
}

// Session owns one combat core and is driven by the surrounding frame loop
// through Initialize and Tick.
type Session struct {
	cfg  Config
	deps Deps
	log  *zap.Logger

	machine *Machine
}

func NewSession(cfg Config, deps Deps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{cfg: cfg, deps: deps, log: logger.Named("session")}
}

// Initialize wires the core. It must be called once before StartCombat.
func (s *Session) Initialize() error {
	if s.machine != nil {
		return nil
	}
	m, err := NewMachine(s.cfg, s.deps)
	if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	s.machine = m
	return nil
}

// StartCombat begins a new combat against enemy, or against the next enemy
// of the stage when enemy is nil.
func (s *Session) StartCombat(enemy *CharacterData) error {
	if s.machine == nil {
		return fmt.Errorf("start combat: %w: session not initialized", ErrMissingDependency)
	}
	if enemy == nil && s.deps.Stage != nil && s.deps.Stage.HasNextEnemy() {
		enemy = s.deps.Stage.SpawnNext()
	}
	if err := s.machine.Start(enemy); err != nil {
		return fmt.Errorf("start combat: %w", err)
	}
	return nil
}

// Tick advances the core by dt.
func (s *Session) Tick(dt time.Duration) {
	if s.machine != nil {
		s.machine.Tick(dt)
	}
}

// PlayCard places a hand card into Battle.
func (s *Session) PlayCard(card *Card) error {
	if s.machine == nil {
		return ErrMissingDependency
	}
	return s.machine.PlacePlayerCard(card)
}

// Pass spends the player's turn.
func (s *Session) Pass() error {
	if s.machine == nil {
		return ErrMissingDependency
	}
	return s.machine.PassTurn()
}

// CanAct reports whether the player may play or pass right now.
func (s *Session) CanAct() bool {
	if s.machine == nil {
		return false
	}
	st, ok := s.machine.current.(*playerTurnState)
	return ok && st.ready && s.machine.pending == nil
}

func (s *Session) Machine() *Machine { return s.machine }

// Events returns the bus notifications are published on.
func (s *Session) Events() *Bus {
	if s.machine == nil {
		return s.deps.Bus
	}
	return s.machine.bus
}

func (s *Session) State() StateID {
	if s.machine == nil {
		return StateNone
	}
	return s.machine.State()
}

func (s *Session) TurnCount() int {
	if s.machine == nil {
		return 0
	}
	return s.machine.turns.Count()
}

func (s *Session) Side() Side {
	if s.machine == nil {
		return SidePlayer
	}
	return s.machine.turns.Side()
}

func (s *Session) Player() *Character {
	if s.machine == nil {
		return nil
	}
	return s.machine.combatants.Player()
}

func (s *Session) Enemy() *Character {
	if s.machine == nil {
		return nil
	}
	return s.machine.combatants.Enemy()
}

// Victory reports the outcome once the session reached BattleEnd.
func (s *Session) Victory() (victory, ended bool) {
	if s.machine == nil {
		return false, false
	}
	st, ok := s.machine.current.(*battleEndState)
	if !ok {
		return false, false
	}
	return st.victory, true
}

// Snapshot captures turn side, turn count, slot and hand identifiers.
func (s *Session) Snapshot() Snapshot {
	if s.machine == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		State:     s.machine.State(),
		Side:      s.machine.turns.Side(),
		TurnCount: s.machine.turns.Count(),
		Slots:     s.machine.slots.DefinitionIDs(),
	}
	for _, c := range s.machine.hand.Cards() {
		snap.Hand = append(snap.Hand, c.DefinitionID())
	}
	return snap
}

// Restore sets the turn counter and side directly, bypassing the gameplay
// increment path.
func (s *Session) Restore(turnCount int, side Side) error {
	if s.machine == nil {
		return ErrMissingDependency
	}
	s.machine.turns.Restore(turnCount, side)
	return nil
}
