package battle

// CharacterProvider exposes one side's combatant to the core.
type CharacterProvider interface {
	Character() *Character
	IsDead() bool
	Resource() int
	ConsumeResource(n int) bool
}

// CharacterPool owns every character created during a session, keyed by
// the identity of its data. Paused characters stay in the pool so they can
// be found and resumed.
type CharacterPool struct {
	byData map[*CharacterData]*Character
}

func NewCharacterPool() *CharacterPool {
	return &CharacterPool{byData: map[*CharacterData]*Character{}}
}

// Acquire returns the living character for data, creating a fresh one when
// none exists or the previous one died.
func (p *CharacterPool) Acquire(data *CharacterData) *Character {
	if p == nil || data == nil {
		return nil
	}
	if c, ok := p.byData[data]; ok && !c.IsDead() {
		return c
	}
	c := NewCharacter(data)
	p.byData[data] = c
	return c
}

// Find returns the pooled character for data, paused or not.
func (p *CharacterPool) Find(data *CharacterData) (*Character, bool) {
	if p == nil || data == nil {
		return nil, false
	}
	c, ok := p.byData[data]
	return c, ok
}

// Release drops c from the pool.
func (p *CharacterPool) Release(c *Character) {
	if p == nil || c == nil {
		return
	}
	if cur, ok := p.byData[c.Data]; ok && cur == c {
		delete(p.byData, c.Data)
	}
}

// Len returns the number of pooled characters.
func (p *CharacterPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.byData)
}

// Combatants tracks the player and the currently registered enemy.
type Combatants struct {
	player *Character
	enemy  *Character
}

func NewCombatants(player *Character) *Combatants {
	return &Combatants{player: player}
}

func (c *Combatants) Player() *Character {
	if c == nil {
		return nil
	}
	return c.player
}

func (c *Combatants) Enemy() *Character {
	if c == nil {
		return nil
	}
	return c.enemy
}

func (c *Combatants) SetPlayer(p *Character) {
	if c != nil {
		c.player = p
	}
}

// SetEnemy registers e as the active enemy.
func (c *Combatants) SetEnemy(e *Character) {
	if c != nil {
		c.enemy = e
	}
}

// Of returns the character for side.
func (c *Combatants) Of(side Side) *Character {
	if side == SidePlayer {
		return c.Player()
	}
	return c.Enemy()
}

// Provider returns the CharacterProvider view of side.
func (c *Combatants) Provider(side Side) CharacterProvider {
	return sideProvider{c: c, side: side}
}

type sideProvider struct {
	c    *Combatants
	side Side
}

// Character returns the side's combatant, or nil when it is missing or
// paused.
func (p sideProvider) Character() *Character {
	ch := p.c.Of(p.side)
	if ch == nil || !ch.Active() {
		return nil
	}
	return ch
}

func (p sideProvider) IsDead() bool {
	ch := p.Character()
	return ch != nil && ch.IsDead()
}

func (p sideProvider) Resource() int {
	return p.Character().Resource()
}

func (p sideProvider) ConsumeResource(n int) bool {
	return p.Character().ConsumeResource(n)
}
