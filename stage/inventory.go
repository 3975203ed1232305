package stage

import (
	"github.com/milk9111/slotbattler/prefabs"
)

const KindRevive = "revive"

// Item is one inventory slot.
type Item struct {
	ID    string
	Name  string
	Kind  string
	Count int
}

// Inventory holds the stage's consumable items.
type Inventory struct {
	items []Item
}

func NewInventory(specs []prefabs.ItemSpec) *Inventory {
	inv := &Inventory{}
	for _, s := range specs {
		name := s.Name
		if name == "" {
			name = s.ID
		}
		inv.items = append(inv.items, Item{ID: s.ID, Name: name, Kind: s.Kind, Count: s.Count})
	}
	return inv
}

func (inv *Inventory) FindReviveSlot() (int, bool) {
	for i, it := range inv.items {
		if it.Kind == KindRevive && it.Count > 0 {
			return i, true
		}
	}
	return -1, false
}

func (inv *Inventory) UseItem(slot int) bool {
	if slot < 0 || slot >= len(inv.items) || inv.items[slot].Count <= 0 {
		return false
	}
	inv.items[slot].Count--
	return true
}

func (inv *Inventory) Items() []Item {
	return inv.items
}
