package battle

import "fmt"

// Side identifies who owns a card or whose turn it is.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

// SlotPosition is one of the five queue positions. Battle is the only
// position whose occupant may execute.
type SlotPosition int

const (
	SlotBattle SlotPosition = iota
	SlotWait1
	SlotWait2
	SlotWait3
	SlotWait4
)

// SlotCount is the fixed number of queue positions.
const SlotCount = 5

// AllSlots lists every position from Battle to Wait4.
var AllSlots = [SlotCount]SlotPosition{SlotBattle, SlotWait1, SlotWait2, SlotWait3, SlotWait4}

var slotNames = [SlotCount]string{"battle", "wait1", "wait2", "wait3", "wait4"}

func (p SlotPosition) String() string {
	if p.Valid() {
		return slotNames[p]
	}
	return fmt.Sprintf("slot(%d)", int(p))
}

// Valid reports whether p is one of the five positions.
func (p SlotPosition) Valid() bool {
	return p >= SlotBattle && p <= SlotWait4
}

// IsWait reports whether p is one of the four wait positions.
func (p SlotPosition) IsWait() bool {
	return p >= SlotWait1 && p <= SlotWait4
}
