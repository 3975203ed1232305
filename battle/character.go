package battle

// StatusKind names a per-turn status effect.
type StatusKind string

const (
	StatusGuard StatusKind = "guard"
	StatusBleed StatusKind = "bleed"
	StatusStun  StatusKind = "stun"
)

var statusOrder = []StatusKind{StatusGuard, StatusBleed, StatusStun}

// Status is one active status on a character. Amount is the guard pool or
// the bleed damage per turn; Turns is the remaining duration.
type Status struct {
	Kind   StatusKind
	Amount int
	Turns  int
}

// CharacterData is the static description a character is built from. Pools
// key characters by the identity of this value.
type CharacterData struct {
	ID              string
	Name            string
	MaxHP           int
	MaxResource     int
	ResourcePerTurn int
	Deck            []CardEntry
}

// Character is a live combatant. A paused character keeps every field
// intact and can be resumed later.
type Character struct {
	Data *CharacterData

	hp          int
	maxHP       int
	resource    int
	maxResource int
	paused      bool
	statuses    map[StatusKind]*Status
}

// NewCharacter creates an active character at full health and resource.
func NewCharacter(data *CharacterData) *Character {
	c := &Character{Data: data, statuses: map[StatusKind]*Status{}}
	if data != nil {
		c.maxHP = data.MaxHP
		c.maxResource = data.MaxResource
	}
	if c.maxHP <= 0 {
		c.maxHP = 1
	}
	c.hp = c.maxHP
	c.resource = c.maxResource
	return c
}

// Name returns the data name, or "" for a nil character.
func (c *Character) Name() string {
	if c == nil || c.Data == nil {
		return ""
	}
	return c.Data.Name
}

func (c *Character) HP() int {
	if c == nil {
		return 0
	}
	return c.hp
}

func (c *Character) MaxHP() int {
	if c == nil {
		return 0
	}
	return c.maxHP
}

// SetHP sets current health clamped to [0, MaxHP].
func (c *Character) SetHP(v int) {
	if c == nil {
		return
	}
	c.hp = clamp(v, 0, c.maxHP)
}

// IsDead reports whether health has reached zero.
func (c *Character) IsDead() bool {
	return c == nil || c.hp <= 0
}

// Damage applies guarded damage and returns the health actually lost.
func (c *Character) Damage(amount int) int {
	if c == nil || amount <= 0 || c.IsDead() {
		return 0
	}
	if g, ok := c.statuses[StatusGuard]; ok && g.Amount > 0 {
		absorbed := min(g.Amount, amount)
		g.Amount -= absorbed
		amount -= absorbed
		if g.Amount <= 0 {
			delete(c.statuses, StatusGuard)
		}
	}
	return c.LoseHP(amount)
}

// LoseHP removes health ignoring guard and returns the health lost.
func (c *Character) LoseHP(amount int) int {
	if c == nil || amount <= 0 || c.IsDead() {
		return 0
	}
	before := c.hp
	c.hp = clamp(c.hp-amount, 0, c.maxHP)
	return before - c.hp
}

// Heal restores health up to MaxHP. Dead characters cannot be healed; use
// Revive.
func (c *Character) Heal(amount int) int {
	if c == nil || amount <= 0 || c.IsDead() {
		return 0
	}
	before := c.hp
	c.hp = clamp(c.hp+amount, 0, c.maxHP)
	return c.hp - before
}

// Revive brings a dead character back with hp health and clears statuses.
func (c *Character) Revive(hp int) {
	if c == nil {
		return
	}
	c.statuses = map[StatusKind]*Status{}
	c.hp = clamp(hp, 1, c.maxHP)
}

func (c *Character) Resource() int {
	if c == nil {
		return 0
	}
	return c.resource
}

func (c *Character) MaxResource() int {
	if c == nil {
		return 0
	}
	return c.maxResource
}

// ConsumeResource deducts n when affordable and reports whether it did.
func (c *Character) ConsumeResource(n int) bool {
	if c == nil || n < 0 || c.resource < n {
		return false
	}
	c.resource -= n
	return true
}

// GainResource adds n, capped at MaxResource.
func (c *Character) GainResource(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.resource = clamp(c.resource+n, 0, c.maxResource)
}

// SetResource sets the resource clamped to [0, MaxResource].
func (c *Character) SetResource(n int) {
	if c == nil {
		return
	}
	c.resource = clamp(n, 0, c.maxResource)
}

// Active reports whether the character is taking part in combat.
func (c *Character) Active() bool {
	return c != nil && !c.paused
}

// Pause takes the character out of combat without discarding it.
func (c *Character) Pause() {
	if c != nil {
		c.paused = true
	}
}

// Resume puts a paused character back into combat.
func (c *Character) Resume() {
	if c != nil {
		c.paused = false
	}
}

// AddStatus applies or stacks a status. Stacking adds Amount and keeps the
// longer duration.
func (c *Character) AddStatus(kind StatusKind, amount, turns int) {
	if c == nil || turns <= 0 {
		return
	}
	if c.statuses == nil {
		c.statuses = map[StatusKind]*Status{}
	}
	if s, ok := c.statuses[kind]; ok {
		s.Amount += amount
		s.Turns = max(s.Turns, turns)
		return
	}
	c.statuses[kind] = &Status{Kind: kind, Amount: amount, Turns: turns}
}

// Status returns a copy of the named status.
func (c *Character) Status(kind StatusKind) (Status, bool) {
	if c == nil {
		return Status{}, false
	}
	s, ok := c.statuses[kind]
	if !ok {
		return Status{}, false
	}
	return *s, true
}

// Stunned reports whether the character will forfeit its next action.
func (c *Character) Stunned() bool {
	s, ok := c.Status(StatusStun)
	return ok && s.Turns > 0
}

// ConsumeStun spends one stunned turn and reports whether one was spent.
func (c *Character) ConsumeStun() bool {
	if c == nil {
		return false
	}
	s, ok := c.statuses[StatusStun]
	if !ok || s.Turns <= 0 {
		return false
	}
	s.Turns--
	if s.Turns <= 0 {
		delete(c.statuses, StatusStun)
	}
	return true
}

// TickStatuses resolves one turn of guard and bleed and returns the kinds
// that produced a visible tick. Stun is spent by ConsumeStun instead.
func (c *Character) TickStatuses() []StatusKind {
	if c == nil || len(c.statuses) == 0 {
		return nil
	}
	var ticked []StatusKind
	for _, kind := range statusOrder {
		s, ok := c.statuses[kind]
		if !ok || kind == StatusStun {
			continue
		}
		if kind == StatusBleed && s.Amount > 0 && !c.IsDead() {
			c.LoseHP(s.Amount)
			ticked = append(ticked, kind)
		}
		s.Turns--
		if s.Turns <= 0 {
			delete(c.statuses, kind)
		}
	}
	return ticked
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
