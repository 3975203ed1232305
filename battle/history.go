package battle

// HistoryEntry records one executed card and the turn it was used on.
type HistoryEntry struct {
	Card *Card
	Turn int
}

// History is the per-side log consulted by link cards. It is append-only
// until Clear.
type History struct {
	entries map[Side][]HistoryEntry
}

func NewHistory() *History {
	return &History{entries: map[Side][]HistoryEntry{}}
}

// Record appends card for side. Link cards and markers are never recorded.
func (h *History) Record(side Side, card *Card, turn int) bool {
	if h == nil || card == nil || card.IsLink() || card.IsMarker() {
		return false
	}
	h.entries[side] = append(h.entries[side], HistoryEntry{Card: card, Turn: turn})
	return true
}

// FindPrevious returns the most recent card side used on a turn strictly
// before currentTurn.
func (h *History) FindPrevious(side Side, currentTurn int) *Card {
	if h == nil {
		return nil
	}
	list := h.entries[side]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Turn < currentTurn {
			return list[i].Card
		}
	}
	return nil
}

// Entries returns a copy of side's log, oldest first.
func (h *History) Entries(side Side) []HistoryEntry {
	if h == nil {
		return nil
	}
	return append([]HistoryEntry(nil), h.entries[side]...)
}

// Clear empties both logs.
func (h *History) Clear() {
	if h != nil {
		h.entries = map[Side][]HistoryEntry{}
	}
}
