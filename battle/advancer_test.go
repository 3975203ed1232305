package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type advancerFixture struct {
	slots *Registry
	adv   *Advancer
	deck  *cycleDeck
	rec   *recorder
	side  Side
	fired []*Card
}

func newAdvancerFixture(t *testing.T, presenter Presenter) *advancerFixture {
	t.Helper()
	bus := NewBus()
	rec := &recorder{}
	bus.Subscribe(rec.handle)
	logger := zaptest.NewLogger(t)
	f := &advancerFixture{
		slots: NewRegistry(bus, logger),
		deck:  &cycleDeck{entries: []CardEntry{{Definition: biteDef, DamageOverride: 5}}},
		rec:   rec,
		side:  SidePlayer,
	}
	f.adv = NewAdvancer(f.slots, &testFactory{}, presenter, bus, DefaultConfig(), logger)
	f.adv.Deck = func() EnemyDeck { return f.deck }
	f.adv.Side = func() Side { return f.side }
	f.adv.OnAutoExecute = func(c *Card) { f.fired = append(f.fired, c) }
	return f
}

func (f *advancerFixture) spawnedSides() []Side {
	var sides []Side
	for _, e := range f.rec.events {
		if e.Type == EventCardSpawned {
			sides = append(sides, e.Data.(CardSpawn).Side)
		}
	}
	return sides
}

func TestAdvancerBootstrapPlayerFirst(t *testing.T) {
	f := newAdvancerFixture(t, nil)
	f.adv.Bootstrap(true)

	assert.Equal(t, [SlotCount]string{"player_turn", "bite", "player_turn", "bite", "player_turn"}, f.slots.DefinitionIDs())
	for i, pos := range AllSlots {
		owner, ok := f.slots.Owner(pos)
		require.True(t, ok)
		assert.Equal(t, Side(i%2), owner, pos.String())
	}
	assert.False(t, f.adv.IsAdvancing())
	assert.False(t, f.adv.NextIsPlayer())
	assert.Empty(t, f.fired)
	assert.Equal(t, 5, f.slots.Card(SlotWait1).Damage())
}

func TestAdvancerBootstrapEnemyFirst(t *testing.T) {
	f := newAdvancerFixture(t, nil)
	f.adv.Bootstrap(false)

	assert.Equal(t, [SlotCount]string{"bite", "player_turn", "bite", "player_turn", "bite"}, f.slots.DefinitionIDs())
	assert.True(t, f.adv.NextIsPlayer())
}

func TestAdvancerShiftOrder(t *testing.T) {
	f := newAdvancerFixture(t, nil)
	f.adv.Bootstrap(true)
	battle := f.slots.Card(SlotBattle)
	w1 := f.slots.Card(SlotWait1)
	w4 := f.slots.Card(SlotWait4)

	assert.True(t, f.adv.Advance())
	assert.Same(t, battle, f.slots.Card(SlotBattle), "occupied battle blocks the shift")

	f.adv.Tick(frame)
	f.slots.ClearSlot(SlotBattle)
	require.True(t, f.adv.Advance())
	assert.Same(t, w1, f.slots.Card(SlotBattle))
	assert.Same(t, w4, f.slots.Card(SlotWait3))
	assert.Equal(t, "bite", f.slots.Card(SlotWait4).DefinitionID())
	assert.Equal(t, SlotCount, f.slots.Count())
}

func TestAdvancerRefillAlternates(t *testing.T) {
	const k = 100
	f := newAdvancerFixture(t, nil)
	for range 2 * k {
		f.slots.ClearSlot(SlotBattle)
		require.True(t, f.adv.Advance())
		f.adv.Tick(frame)
	}
	sides := f.spawnedSides()
	require.Len(t, sides, 2*k)
	for i, s := range sides {
		require.Equal(t, Side(i%2), s, "refill %d", i)
	}
}

func TestAdvancerFailedDrawKeepsAlternation(t *testing.T) {
	f := newAdvancerFixture(t, nil)
	f.adv.Bootstrap(true)
	f.deck.entries = nil

	f.slots.ClearSlot(SlotBattle)
	require.True(t, f.adv.Advance())
	assert.True(t, f.slots.IsEmpty(SlotWait4))
	assert.Equal(t, 3, f.deck.draws-2, "two bootstrap draws plus three retries")
	assert.False(t, f.adv.NextIsPlayer())
}

func TestAdvancerWaitsForShiftVisual(t *testing.T) {
	sig := NewSignal()
	f := newAdvancerFixture(t, shiftPresenter{sig})
	f.adv.Bootstrap(true)
	f.slots.ClearSlot(SlotBattle)

	require.True(t, f.adv.Advance())
	assert.True(t, f.adv.IsAdvancing())
	assert.False(t, f.adv.Advance(), "second advance while shifting")

	f.adv.Tick(frame)
	assert.True(t, f.adv.IsAdvancing())
	sig.Fire()
	f.adv.Tick(frame)
	assert.False(t, f.adv.IsAdvancing())
}

func TestAdvancerAutoExecutesEnemyCardOnce(t *testing.T) {
	f := newAdvancerFixture(t, nil)
	f.adv.Bootstrap(true)
	f.side = SideEnemy
	f.slots.ClearSlot(SlotBattle)

	require.True(t, f.adv.Advance())
	f.adv.Tick(frame)
	require.Len(t, f.fired, 1)
	assert.Same(t, f.slots.Card(SlotBattle), f.fired[0])

	require.True(t, f.adv.Advance())
	f.adv.Tick(frame)
	assert.Len(t, f.fired, 1, "same card must not fire twice")
}

func TestAdvancerRespectsCapabilities(t *testing.T) {
	f := newAdvancerFixture(t, nil)
	f.adv.Caps = func() Capabilities { return StatePlayerTurn.Capabilities() }
	assert.False(t, f.adv.Advance())

	f.adv.Caps = func() Capabilities { return StateSlotMoving.Capabilities() }
	assert.True(t, f.adv.Advance())
}

type shiftPresenter struct {
	sig *Signal
}

func (p shiftPresenter) QueueShift() Wait                     { return p.sig }
func (shiftPresenter) CardExecution(*Card) Wait               { return Immediate }
func (shiftPresenter) FatalHit(Side) Wait                     { return Immediate }
func (shiftPresenter) StatusTick(*Character, StatusKind) Wait { return Immediate }
