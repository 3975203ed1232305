package battle

import (
	"time"

	"go.uber.org/zap"
)

// Advancer shifts the slot queue toward Battle and refills Wait4, alternating
// a player turn marker with a card drawn from the enemy deck.
type Advancer struct {
	slots     *Registry
	factory   CardFactory
	presenter Presenter
	bus       *Bus
	log       *zap.Logger

	// Deck returns the active enemy's deck; may return nil.
	Deck func() EnemyDeck
	// Side reports the current turn side.
	Side func() Side
	// Caps reports the capabilities of the current state.
	Caps func() Capabilities
	// OnAutoExecute is called once per enemy card that lands in Battle on
	// the enemy's turn.
	OnAutoExecute func(card *Card)

	maxDraw       int
	nextIsPlayer  bool
	advancing     bool
	bootstrapping bool
	shift         Wait
	scheduled     map[*Card]struct{}
}

func NewAdvancer(slots *Registry, factory CardFactory, presenter Presenter, bus *Bus, cfg Config, logger *zap.Logger) *Advancer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if presenter == nil {
		presenter = NopPresenter{}
	}
	cfg = cfg.withDefaults()
	return &Advancer{
		slots:        slots,
		factory:      factory,
		presenter:    presenter,
		bus:          bus,
		log:          logger.Named("advancer"),
		maxDraw:      cfg.MaxDrawAttempts,
		nextIsPlayer: true,
		scheduled:    map[*Card]struct{}{},
	}
}

// IsAdvancing reports whether a shift is still waiting on its visual.
func (a *Advancer) IsAdvancing() bool { return a.advancing }

// NextIsPlayer reports the owner of the next refill.
func (a *Advancer) NextIsPlayer() bool { return a.nextIsPlayer }

// Advance shifts every occupant one position toward Battle and refills
// Wait4. The shift is only started when the current state allows slot
// moves.
func (a *Advancer) Advance() bool {
	if a.advancing {
		a.log.Warn("advance ignored: shift in progress")
		return false
	}
	if a.Caps != nil && !a.Caps().AllowSlotMove {
		a.log.Warn("advance ignored", zap.Error(ErrNotAllowed))
		return false
	}
	moved := a.shiftAll()
	a.refill()
	a.log.Debug("queue advanced", zap.Int("moved", moved), zap.Int("occupied", a.slots.Count()))
	a.advancing = true
	a.shift = a.presenter.QueueShift()
	return true
}

// Tick completes a pending shift once its visual finishes and then runs the
// post-advance hook.
func (a *Advancer) Tick(dt time.Duration) {
	if !a.advancing {
		return
	}
	if a.shift != nil && !a.shift.Poll(dt) {
		return
	}
	a.advancing = false
	a.shift = nil
	a.afterShift()
}

// Bootstrap fills an empty queue with five alternating insert and shift
// cycles, starting with a player marker when playerFirst is set. No
// animation, refill or auto-execution happens meanwhile.
func (a *Advancer) Bootstrap(playerFirst bool) {
	a.bootstrapping = true
	defer func() { a.bootstrapping = false }()

	a.advancing = false
	a.shift = nil
	a.nextIsPlayer = playerFirst
	for range SlotCount {
		a.insert()
		a.shiftAll()
	}
	a.log.Debug("queue bootstrapped",
		zap.Bool("player_first", playerFirst),
		zap.Strings("slots", a.slotIDs()),
	)
}

// MarkScheduled records that card is about to execute. It reports false
// when the card was already scheduled.
func (a *Advancer) MarkScheduled(card *Card) bool {
	if card == nil {
		return false
	}
	if _, ok := a.scheduled[card]; ok {
		return false
	}
	a.scheduled[card] = struct{}{}
	return true
}

// Forget drops the scheduling record for card.
func (a *Advancer) Forget(card *Card) {
	delete(a.scheduled, card)
}

// Reset abandons any shift in flight and forgets scheduled cards. The
// alternation flag returns to player first.
func (a *Advancer) Reset() {
	a.advancing = false
	a.shift = nil
	a.nextIsPlayer = true
	a.scheduled = map[*Card]struct{}{}
}

func (a *Advancer) shiftAll() int {
	moved := 0
	for pos := SlotWait1; pos <= SlotWait4; pos++ {
		dst := pos - 1
		if a.slots.IsEmpty(pos) || !a.slots.IsEmpty(dst) {
			continue
		}
		if a.slots.MoveCardData(pos, dst) {
			moved++
		}
	}
	return moved
}

func (a *Advancer) refill() {
	if a.bootstrapping || !a.slots.IsEmpty(SlotWait4) {
		return
	}
	a.insert()
}

// insert places the next card of the alternation in Wait4. A failed draw
// leaves Wait4 empty and the flag untouched, so the next refill retries the
// enemy side.
func (a *Advancer) insert() bool {
	if !a.slots.IsEmpty(SlotWait4) {
		return false
	}
	var (
		card  *Card
		owner Side
	)
	if a.nextIsPlayer {
		owner = SidePlayer
		card = a.factory.CreateFromDefinition(MarkerDefinition, SidePlayer, MarkerDefinition.Name)
	} else {
		owner = SideEnemy
		card = a.drawEnemy()
	}
	if card == nil {
		return false
	}
	a.slots.Register(SlotWait4, card, owner)
	a.nextIsPlayer = !a.nextIsPlayer
	a.bus.Publish(Event{Type: EventCardSpawned, Data: CardSpawn{Side: owner, CardID: card.DefinitionID()}})
	return true
}

func (a *Advancer) drawEnemy() *Card {
	var deck EnemyDeck
	if a.Deck != nil {
		deck = a.Deck()
	}
	if deck == nil {
		a.log.Error("enemy draw skipped", zap.Error(ErrMissingDependency))
		return nil
	}
	for attempt := 1; attempt <= a.maxDraw; attempt++ {
		entry, ok := deck.RandomEntry()
		if !ok || entry.Definition == nil {
			continue
		}
		return a.factory.CreateEnemyCard(entry.Definition, SideEnemy, entry.DamageOverride)
	}
	a.log.Warn("enemy draw failed", zap.Int("attempts", a.maxDraw))
	return nil
}

func (a *Advancer) afterShift() {
	card := a.slots.Card(SlotBattle)
	owner, _ := a.slots.Owner(SlotBattle)
	if card == nil || card.IsMarker() || owner != SideEnemy {
		return
	}
	if a.Side == nil || a.Side() != SideEnemy {
		return
	}
	if a.Caps != nil && !a.Caps().AllowEnemyAutoExec {
		return
	}
	if !a.MarkScheduled(card) {
		return
	}
	if a.OnAutoExecute != nil {
		a.OnAutoExecute(card)
	}
}

func (a *Advancer) slotIDs() []string {
	ids := a.slots.DefinitionIDs()
	return ids[:]
}
