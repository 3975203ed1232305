package battle

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const frame = time.Second / 60

type testFactory struct {
	n int
}

func (f *testFactory) CreateFromDefinition(def *Definition, owner Side, displayName string) *Card {
	f.n++
	return &Card{ID: fmt.Sprintf("card-%d", f.n), Owner: owner, Def: def, DisplayName: displayName}
}

func (f *testFactory) CreateEnemyCard(def *Definition, owner Side, damageOverride int) *Card {
	f.n++
	return &Card{ID: fmt.Sprintf("card-%d", f.n), Owner: owner, Def: def, DamageOverride: damageOverride}
}

// cycleDeck hands out its entries in order, forever.
type cycleDeck struct {
	entries []CardEntry
	next    int
	draws   int
}

func (d *cycleDeck) RandomEntry() (CardEntry, bool) {
	d.draws++
	if len(d.entries) == 0 {
		return CardEntry{}, false
	}
	e := d.entries[d.next%len(d.entries)]
	d.next++
	return e, true
}

type effectMap map[string]Effect

func (e effectMap) Resolve(card *Card) (Effect, bool) {
	eff, ok := e[card.DefinitionID()]
	return eff, ok
}

type testHand struct {
	factory *testFactory
	defs    []*Definition
	cards   []*Card
	cleared int
}

func (h *testHand) ClearAll() {
	h.cleared++
	h.cards = nil
}

func (h *testHand) GenerateInitialHand() {
	for _, def := range h.defs {
		h.cards = append(h.cards, h.factory.CreateFromDefinition(def, SidePlayer, def.Name))
	}
}

func (h *testHand) Remove(card *Card) {
	for i, c := range h.cards {
		if c == card {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			return
		}
	}
}

func (h *testHand) Cards() []*Card { return h.cards }

func (h *testHand) find(defID string) *Card {
	for _, c := range h.cards {
		if c.DefinitionID() == defID {
			return c
		}
	}
	return nil
}

type testInventory struct {
	revives int
	used    int
}

func (i *testInventory) FindReviveSlot() (int, bool) {
	if i.revives > 0 {
		return 0, true
	}
	return -1, false
}

func (i *testInventory) UseItem(int) bool {
	if i.revives == 0 {
		return false
	}
	i.revives--
	i.used++
	return true
}

type testStage struct {
	queue   []*CharacterData
	summons map[string]*CharacterData
}

func (s *testStage) HasNextEnemy() bool { return len(s.queue) > 0 }

func (s *testStage) SpawnNext() *CharacterData {
	if len(s.queue) == 0 {
		return nil
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	return next
}

func (s *testStage) SummonTarget(id string) (*CharacterData, bool) {
	d, ok := s.summons[id]
	return d, ok
}

type recorder struct {
	events []Event
}

func (r *recorder) handle(evt Event) { r.events = append(r.events, evt) }

func (r *recorder) count(t EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) last(t EventType) (Event, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return Event{}, false
}

var (
	biteDef   = &Definition{ID: "bite", Name: "Bite", Damage: 3}
	slashDef  = &Definition{ID: "slash", Name: "Slash", Damage: 4, Cost: 1}
	heavyDef  = &Definition{ID: "heavy", Name: "Heavy", Damage: 9, Cost: 5}
	summonDef = &Definition{ID: "call", Name: "Call Imp", Effect: "summon", Summon: "imp"}
)

type harness struct {
	m         *Machine
	factory   *testFactory
	hand      *testHand
	inventory *testInventory
	stage     *testStage
	effects   effectMap
	decks     map[*CharacterData]*cycleDeck
	rec       *recorder
	player    *CharacterData
}

// harnessOption adjusts the machine's config and collaborators before it is
// built.
type harnessOption func(cfg *Config, deps *Deps)

func newHarness(t *testing.T, player *CharacterData, opts ...harnessOption) *harness {
	t.Helper()
	factory := &testFactory{}
	h := &harness{
		factory:   factory,
		hand:      &testHand{factory: factory, defs: []*Definition{slashDef, heavyDef}},
		inventory: &testInventory{},
		stage:     &testStage{summons: map[string]*CharacterData{}},
		effects:   effectMap{},
		decks:     map[*CharacterData]*cycleDeck{},
		rec:       &recorder{},
		player:    player,
	}
	cfg := DefaultConfig()
	cfg.FatalHitDelay = 0
	deps := Deps{
		Player:    player,
		Factory:   factory,
		Effects:   h.effects,
		Decks:     h.deckFor,
		Hand:      h.hand,
		Inventory: h.inventory,
		Stage:     h.stage,
		Logger:    zaptest.NewLogger(t),
	}
	for _, opt := range opts {
		opt(&cfg, &deps)
	}
	m, err := NewMachine(cfg, deps)
	require.NoError(t, err)
	m.Bus().Subscribe(h.rec.handle)
	h.m = m
	return h
}

// lostFatalHit never reports the lethal hit visual as finished.
type lostFatalHit struct {
	NopPresenter
	requests int
}

func (p *lostFatalHit) FatalHit(Side) Wait {
	p.requests++
	return NewSignal()
}

func withFatalHit(presenter Presenter, delay, limit time.Duration) harnessOption {
	return func(cfg *Config, deps *Deps) {
		cfg.FatalHitDelay = delay
		cfg.FatalHitCap = limit
		deps.Presenter = presenter
	}
}

func (h *harness) deckFor(enemy *CharacterData) EnemyDeck {
	if d, ok := h.decks[enemy]; ok {
		return d
	}
	return nil
}

func (h *harness) enemy(name string, hp int, cards ...*Definition) *CharacterData {
	data := &CharacterData{ID: name, Name: name, MaxHP: hp}
	deck := &cycleDeck{}
	for _, def := range cards {
		deck.entries = append(deck.entries, CardEntry{Definition: def, Weight: 1})
	}
	h.decks[data] = deck
	return data
}

// runUntil ticks until cond holds or the frame budget is spent.
func (h *harness) runUntil(t *testing.T, cond func() bool) {
	t.Helper()
	for range 600 {
		if cond() {
			return
		}
		h.m.Tick(frame)
	}
	require.Truef(t, cond(), "condition not reached; state=%s pending=%s", h.m.State(), h.m.Pending())
}

// entered counts how often the machine installed id.
func (h *harness) entered(id StateID) int {
	n := 0
	for _, e := range h.rec.events {
		if change, ok := e.Data.(StateChange); ok && change.Next == id {
			n++
		}
	}
	return n
}

func (h *harness) playerReady() bool {
	st, ok := h.m.current.(*playerTurnState)
	return ok && st.ready && h.m.pending == nil
}
