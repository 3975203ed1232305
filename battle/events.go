package battle

// EventType identifies a notification raised by the combat core.
type EventType string

const (
	EventStateChanged     EventType = "state_changed"
	EventCombatStarted    EventType = "combat_started"
	EventCombatEnded      EventType = "combat_ended"
	EventCardExecuted     EventType = "card_executed"
	EventCardUsed         EventType = "card_used"
	EventCardSpawned      EventType = "card_spawned"
	EventTurnChanged      EventType = "turn_changed"
	EventTurnCountChanged EventType = "turn_count_changed"
	EventCardStateChanged EventType = "card_state_changed"
	EventPlayerRevived    EventType = "player_revived"
)

// Event is a notification payload. Data holds one of the typed payloads
// below, matching Type.
type Event struct {
	Type EventType
	Data any
}

type StateChange struct {
	Previous StateID
	Next     StateID
}

type CombatStart struct {
	Enemy string
}

type CombatEnd struct {
	Victory bool
}

type CardExecution struct {
	Card   *Card
	Source *Character
	Target *Character
}

type CardUse struct {
	Side   Side
	CardID string
}

type CardSpawn struct {
	Side   Side
	CardID string
}

type TurnChange struct {
	Side Side
}

type TurnCountChange struct {
	Count int
}

type PlayerRevive struct {
	HP int
}

// Handler receives published events.
type Handler func(evt Event)

type subscription struct {
	id int
	fn Handler
}

// Bus is an ordered observer list. Subscribers are notified in the order
// they subscribed.
type Bus struct {
	subs   []subscription
	nextID int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns the function that removes it.
func (b *Bus) Subscribe(fn Handler) func() {
	if b == nil || fn == nil {
		return func() {}
	}
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	return func() { b.unsubscribe(id) }
}

func (b *Bus) unsubscribe(id int) {
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers evt to every subscriber. Handlers added during delivery
// see the next event, not this one.
func (b *Bus) Publish(evt Event) {
	if b == nil || len(b.subs) == 0 {
		return
	}
	subs := append([]subscription(nil), b.subs...)
	for _, s := range subs {
		s.fn(evt)
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	if b == nil {
		return 0
	}
	return len(b.subs)
}
