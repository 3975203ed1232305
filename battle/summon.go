package battle

import (
	"fmt"

	"go.uber.org/zap"
)

// SummonContext describes a summon cycle in flight.
type SummonContext struct {
	Original     *Character
	OriginalData *CharacterData
	OriginalHP   int
	Target       *CharacterData
	Substitute   *Character
	Active       bool
}

// SummonCoordinator swaps the active enemy for a substitute and later puts
// the original back. The original is paused, never released.
type SummonCoordinator struct {
	pool       *CharacterPool
	combatants *Combatants
	slots      *Registry
	advancer   *Advancer
	hand       HandManager
	log        *zap.Logger

	ctx SummonContext
}

func NewSummonCoordinator(pool *CharacterPool, combatants *Combatants, slots *Registry, advancer *Advancer, hand HandManager, logger *zap.Logger) *SummonCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hand == nil {
		hand = nopHand{}
	}
	return &SummonCoordinator{
		pool:       pool,
		combatants: combatants,
		slots:      slots,
		advancer:   advancer,
		hand:       hand,
		log:        logger.Named("summon"),
	}
}

// Active reports whether a substitute is standing in.
func (s *SummonCoordinator) Active() bool { return s.ctx.Active }

// Context returns a copy of the cycle in flight.
func (s *SummonCoordinator) Context() SummonContext { return s.ctx }

// Clear forgets the cycle without touching any character.
func (s *SummonCoordinator) Clear() { s.ctx = SummonContext{} }

// Trigger pauses the current enemy, snapshots its health and installs the
// substitute built from target with a freshly bootstrapped queue, enemy
// first.
func (s *SummonCoordinator) Trigger(target *CharacterData) error {
	if target == nil {
		return fmt.Errorf("%w: summon target", ErrMissingDependency)
	}
	if s.ctx.Active {
		return fmt.Errorf("%w: summon already active", ErrNotAllowed)
	}
	original := s.combatants.Enemy()
	if original == nil || original.Data == nil {
		return fmt.Errorf("%w: no enemy to replace", ErrResolution)
	}
	if original.Data == target {
		return fmt.Errorf("%w: enemy cannot summon itself", ErrNotAllowed)
	}

	s.ctx = SummonContext{
		Original:     original,
		OriginalData: original.Data,
		OriginalHP:   original.HP(),
		Target:       target,
		Active:       true,
	}
	original.Pause()

	s.slots.ClearAll()
	s.advancer.Reset()
	s.hand.ClearAll()

	sub := s.pool.Acquire(target)
	sub.Resume()
	s.ctx.Substitute = sub
	s.combatants.SetEnemy(sub)
	s.advancer.Bootstrap(false)

	s.log.Info("summon triggered",
		zap.String("original", original.Name()),
		zap.Int("original_hp", s.ctx.OriginalHP),
		zap.String("substitute", sub.Name()),
	)
	return nil
}

// Return releases the substitute and resumes the original with the health
// it had when it was paused. The queue is bootstrapped player first.
func (s *SummonCoordinator) Return() (*Character, error) {
	if !s.ctx.Active {
		return nil, ErrNoSummon
	}
	original, ok := s.pool.Find(s.ctx.OriginalData)
	if !ok {
		s.ctx = SummonContext{}
		return nil, fmt.Errorf("%w: original enemy left the pool", ErrResolution)
	}
	if s.ctx.Substitute != nil {
		s.pool.Release(s.ctx.Substitute)
	}
	original.Resume()
	original.SetHP(s.ctx.OriginalHP)
	s.combatants.SetEnemy(original)

	s.slots.ClearAll()
	s.advancer.Reset()
	s.hand.ClearAll()
	s.advancer.Bootstrap(true)

	s.log.Info("summon returned", zap.String("original", original.Name()), zap.Int("hp", original.HP()))
	s.ctx = SummonContext{}
	return original, nil
}

type nopHand struct{}

func (nopHand) ClearAll()            {}
func (nopHand) GenerateInitialHand() {}
func (nopHand) Remove(*Card)         {}
func (nopHand) Cards() []*Card       { return nil }
