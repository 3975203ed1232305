package battle

import "go.uber.org/zap"

type slotEntry struct {
	card  *Card
	owner Side
}

// Registry is the slot queue: at most one card per position.
type Registry struct {
	slots [SlotCount]*slotEntry
	bus   *Bus
	log   *zap.Logger
}

// NewRegistry creates an empty queue. bus may be nil.
func NewRegistry(bus *Bus, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{bus: bus, log: logger.Named("slots")}
}

// Register places card at pos on behalf of owner, replacing any occupant.
func (r *Registry) Register(pos SlotPosition, card *Card, owner Side) {
	if r == nil {
		return
	}
	if card == nil {
		r.log.Warn("register ignored: nil card", zap.Stringer("slot", pos))
		return
	}
	if !pos.Valid() {
		r.log.Warn("register ignored: invalid slot", zap.Stringer("slot", pos))
		return
	}
	r.slots[pos] = &slotEntry{card: card, owner: owner}
	r.changed()
}

// Card returns the occupant of pos, or nil.
func (r *Registry) Card(pos SlotPosition) *Card {
	if r == nil || !pos.Valid() || r.slots[pos] == nil {
		return nil
	}
	return r.slots[pos].card
}

// Owner returns the side that registered the occupant of pos.
func (r *Registry) Owner(pos SlotPosition) (Side, bool) {
	if r == nil || !pos.Valid() || r.slots[pos] == nil {
		return 0, false
	}
	return r.slots[pos].owner, true
}

// IsEmpty reports whether pos has no occupant.
func (r *Registry) IsEmpty(pos SlotPosition) bool {
	return r.Card(pos) == nil
}

// MoveCardData relocates the occupant of from into to. Moving from an empty
// slot or into an occupied one is a logged no-op.
func (r *Registry) MoveCardData(from, to SlotPosition) bool {
	if r == nil || !from.Valid() || !to.Valid() || from == to {
		return false
	}
	entry := r.slots[from]
	if entry == nil {
		r.log.Warn("move skipped: source empty", zap.Stringer("from", from), zap.Stringer("to", to))
		return false
	}
	if r.slots[to] != nil {
		r.log.Warn("move skipped: destination occupied", zap.Stringer("from", from), zap.Stringer("to", to))
		return false
	}
	r.slots[from] = nil
	r.slots[to] = entry
	r.changed()
	return true
}

// ClearSlot empties pos.
func (r *Registry) ClearSlot(pos SlotPosition) {
	if r == nil || !pos.Valid() {
		return
	}
	r.slots[pos] = nil
	r.changed()
}

// ClearAll empties every position.
func (r *Registry) ClearAll() {
	r.clearWhere(func(SlotPosition, *slotEntry) bool { return true })
}

// ClearWaitSlots empties Wait1..Wait4 and leaves Battle untouched.
func (r *Registry) ClearWaitSlots() {
	r.clearWhere(func(pos SlotPosition, _ *slotEntry) bool { return pos.IsWait() })
}

// ClearSide empties every position registered by side.
func (r *Registry) ClearSide(side Side) {
	r.clearWhere(func(_ SlotPosition, e *slotEntry) bool { return e.owner == side })
}

func (r *Registry) clearWhere(match func(SlotPosition, *slotEntry) bool) {
	if r == nil {
		return
	}
	for _, pos := range AllSlots {
		if e := r.slots[pos]; e != nil && match(pos, e) {
			r.slots[pos] = nil
		}
	}
	r.changed()
}

// HasCardFor reports whether any position holds a card registered by side.
func (r *Registry) HasCardFor(side Side) bool {
	_, ok := r.ReservedSlotFor(side)
	return ok
}

// ReservedSlotFor returns the position nearest Battle held by side.
func (r *Registry) ReservedSlotFor(side Side) (SlotPosition, bool) {
	if r == nil {
		return 0, false
	}
	for _, pos := range AllSlots {
		if e := r.slots[pos]; e != nil && e.owner == side {
			return pos, true
		}
	}
	return 0, false
}

// Find returns the position holding card.
func (r *Registry) Find(card *Card) (SlotPosition, bool) {
	if r == nil || card == nil {
		return 0, false
	}
	for _, pos := range AllSlots {
		if e := r.slots[pos]; e != nil && e.card == card {
			return pos, true
		}
	}
	return 0, false
}

// Count returns the number of occupied positions.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, e := range r.slots {
		if e != nil {
			n++
		}
	}
	return n
}

// DefinitionIDs returns the definition identifier per position, "" when
// empty.
func (r *Registry) DefinitionIDs() [SlotCount]string {
	var out [SlotCount]string
	if r == nil {
		return out
	}
	for i, e := range r.slots {
		if e != nil {
			out[i] = e.card.DefinitionID()
		}
	}
	return out
}

func (r *Registry) changed() {
	r.bus.Publish(Event{Type: EventCardStateChanged})
}
