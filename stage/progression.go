package stage

import (
	"github.com/milk9111/slotbattler/battle"
	"github.com/milk9111/slotbattler/prefabs"
)

// Progression walks the stage's enemy list in order.
type Progression struct {
	lib   *prefabs.Library
	queue []string
	next  int
}

func NewProgression(lib *prefabs.Library) *Progression {
	p := &Progression{lib: lib}
	if lib != nil && lib.Stage != nil {
		p.queue = append(p.queue, lib.Stage.Enemies...)
	}
	return p
}

func (p *Progression) HasNextEnemy() bool {
	return p.next < len(p.queue)
}

func (p *Progression) SpawnNext() *battle.CharacterData {
	for p.next < len(p.queue) {
		id := p.queue[p.next]
		p.next++
		if data, ok := p.lib.Enemy(id); ok {
			return data
		}
	}
	return nil
}

func (p *Progression) SummonTarget(id string) (*battle.CharacterData, bool) {
	if p.lib == nil || p.lib.Stage == nil {
		return nil, false
	}
	enemyID, ok := p.lib.Stage.Summons[id]
	if !ok {
		return nil, false
	}
	return p.lib.Enemy(enemyID)
}

// Remaining is the number of enemies not yet spawned.
func (p *Progression) Remaining() int {
	return len(p.queue) - p.next
}
