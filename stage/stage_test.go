package stage

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/milk9111/slotbattler/battle"
	"github.com/milk9111/slotbattler/battle/effect"
	"github.com/milk9111/slotbattler/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func loadKit(t *testing.T) *Kit {
	t.Helper()
	lib, err := prefabs.LoadLibrary("")
	require.NoError(t, err)
	return New(lib, 4, 1)
}

func TestProgressionSpawnsInStageOrder(t *testing.T) {
	k := loadKit(t)
	p := k.Progression

	var got []string
	for p.HasNextEnemy() {
		got = append(got, p.SpawnNext().ID)
	}
	assert.Equal(t, []string{"goblin", "spider", "ogre"}, got)
	assert.Nil(t, p.SpawnNext())
	assert.Zero(t, p.Remaining())
}

func TestProgressionSummonTarget(t *testing.T) {
	k := loadKit(t)

	imp, ok := k.Progression.SummonTarget("imp")
	require.True(t, ok)
	assert.Equal(t, "imp", imp.ID)
	assert.Same(t, k.Library.Enemies["imp"], imp)

	_, ok = k.Progression.SummonTarget("dragon")
	assert.False(t, ok)
}

func TestDeckHonoursWeights(t *testing.T) {
	heavy := &battle.Definition{ID: "heavy"}
	light := &battle.Definition{ID: "light"}
	deck := NewDeck([]battle.CardEntry{
		{Definition: heavy, Weight: 9},
		{Definition: light, Weight: 1},
		{Definition: nil, Weight: 50},
	}, rand.New(rand.NewPCG(1, 2)))
	require.Equal(t, 2, deck.Len())

	counts := map[string]int{}
	for range 1000 {
		e, ok := deck.RandomEntry()
		require.True(t, ok)
		counts[e.Definition.ID]++
	}
	assert.Greater(t, counts["heavy"], counts["light"]*4)
	assert.Positive(t, counts["light"])
}

func TestEmptyDeckDrawFails(t *testing.T) {
	deck := NewDeck(nil, rand.New(rand.NewPCG(1, 2)))
	_, ok := deck.RandomEntry()
	assert.False(t, ok)

	var none *Deck
	_, ok = none.RandomEntry()
	assert.False(t, ok)
}

func TestDecksCachePerEnemy(t *testing.T) {
	k := loadKit(t)
	goblin := k.Library.Enemies["goblin"]

	a := k.Decks.For(goblin)
	b := k.Decks.For(goblin)
	assert.Same(t, a, b)
	assert.Nil(t, k.Decks.For(nil))

	k.Decks.Reset()
	assert.NotSame(t, a, k.Decks.For(goblin))
}

func TestHandReplacesPlayedCardWithCooldown(t *testing.T) {
	def := &battle.Definition{ID: "focus", Name: "Focus", Cooldown: 2}
	plain := &battle.Definition{ID: "slash", Name: "Slash"}
	h := NewHand(Factory{}, []*battle.Definition{def, plain}, 0)
	h.GenerateInitialHand()
	require.Len(t, h.Cards(), 2)

	played := h.Card(0)
	h.Remove(played)
	fresh := h.Card(0)
	require.NotNil(t, fresh)
	assert.NotSame(t, played, fresh)
	assert.NotEqual(t, played.ID, fresh.ID)
	assert.Equal(t, 3, fresh.Cooldown)
	assert.Equal(t, "focus", fresh.DefinitionID())

	h.Remove(h.Card(1))
	assert.Zero(t, h.Card(1).Cooldown)

	assert.Len(t, h.Playable(0), 1)
	assert.Nil(t, h.Card(5))

	h.ClearAll()
	assert.Empty(t, h.Cards())
}

func TestHandSizeLimitsDeal(t *testing.T) {
	k := loadKit(t)
	k.Hand.GenerateInitialHand()
	assert.Len(t, k.Hand.Cards(), 4)
	for _, c := range k.Hand.Cards() {
		assert.Equal(t, battle.SidePlayer, c.Owner)
	}
}

func TestInventoryRevive(t *testing.T) {
	inv := NewInventory([]prefabs.ItemSpec{
		{ID: "rations", Kind: "food", Count: 3},
		{ID: "feather", Kind: KindRevive, Count: 1},
	})

	slot, ok := inv.FindReviveSlot()
	require.True(t, ok)
	assert.Equal(t, 1, slot)
	assert.True(t, inv.UseItem(slot))
	assert.False(t, inv.UseItem(slot))

	_, ok = inv.FindReviveSlot()
	assert.False(t, ok)
	assert.False(t, inv.UseItem(7))
	assert.Equal(t, "feather", inv.Items()[1].Name)
}

func TestFactoryAssignsUniqueIDs(t *testing.T) {
	def := &battle.Definition{ID: "bite", Damage: 3}
	a := Factory{}.CreateEnemyCard(def, battle.SideEnemy, 5)
	b := Factory{}.CreateEnemyCard(def, battle.SideEnemy, 0)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 5, a.Damage())
	assert.Equal(t, 3, b.Damage())
	assert.Nil(t, Factory{}.CreateFromDefinition(nil, battle.SidePlayer, ""))
}

func TestKitRunsABattle(t *testing.T) {
	k := loadKit(t)
	deps := k.Deps(effect.NewRegistry(prefabs.LoadScript, nil), nil)
	deps.Logger = zaptest.NewLogger(t)

	s := battle.NewSession(battle.DefaultConfig(), deps)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.StartCombat(nil))
	assert.Equal(t, "goblin", s.Enemy().Data.ID)
	assert.Equal(t, 2, k.Progression.Remaining())

	waitForPlayer := func() {
		t.Helper()
		for range 600 {
			if s.CanAct() {
				return
			}
			s.Tick(time.Second / 60)
		}
		t.Fatalf("player never got control, state %s", s.State())
	}

	waitForPlayer()
	slash := k.Hand.Card(0)
	require.Equal(t, "slash", slash.DefinitionID())
	require.NoError(t, s.PlayCard(slash))
	s.Tick(time.Second / 60)
	waitForPlayer()

	assert.Equal(t, 10, s.Enemy().HP())
	assert.NotSame(t, slash, k.Hand.Card(0))
	require.ErrorIs(t, s.PlayCard(slash), battle.ErrNotAllowed, "replaced by its cooling copy")
	assert.Equal(t, 10, s.Enemy().HP())
}
