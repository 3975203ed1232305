package prefabs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/slotbattler/battle"
)

var ErrUnknownCard = errors.New("prefabs: unknown card")

// Library is the parsed prefab set converted to core types. Character data
// pointers are stable for the lifetime of the library, which lets the
// character pool key on them.
type Library struct {
	Cards      map[string]*battle.Definition
	Player     *battle.CharacterData
	PlayerHand []*battle.Definition
	Enemies    map[string]*battle.CharacterData
	Stage      *StageSpec
}

// LoadLibrary reads cards.yaml, characters.yaml and the named stage file.
func LoadLibrary(stageFile string) (*Library, error) {
	cards, err := LoadCardsSpec()
	if err != nil {
		return nil, err
	}
	chars, err := LoadCharactersSpec()
	if err != nil {
		return nil, err
	}
	stage, err := LoadStageSpec(stageFile)
	if err != nil {
		return nil, err
	}
	return BuildLibrary(cards, chars, stage)
}

// BuildLibrary validates the specs and converts them.
func BuildLibrary(cards *CardsSpec, chars *CharactersSpec, stage *StageSpec) (*Library, error) {
	if cards == nil || chars == nil || stage == nil {
		return nil, errors.New("prefabs: incomplete spec set")
	}
	lib := &Library{
		Cards:   make(map[string]*battle.Definition, len(cards.Cards)),
		Enemies: make(map[string]*battle.CharacterData, len(chars.Enemies)),
		Stage:   stage,
	}
	for _, c := range cards.Cards {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return nil, fmt.Errorf("prefabs: card %q has no id", c.Name)
		}
		if _, dup := lib.Cards[id]; dup {
			return nil, fmt.Errorf("prefabs: duplicate card %q", id)
		}
		name := c.Name
		if name == "" {
			name = id
		}
		lib.Cards[id] = &battle.Definition{
			ID:       id,
			Name:     name,
			Damage:   c.Damage,
			Cost:     c.Cost,
			Cooldown: c.Cooldown,
			Effect:   c.Effect,
			Amount:   c.Amount,
			Duration: c.Duration,
			Summon:   c.Summon,
			Script:   c.Script,
			Link:     c.Link,
		}
	}

	player, err := lib.character(chars.Player)
	if err != nil {
		return nil, err
	}
	lib.Player = player
	for _, id := range chars.Player.Hand {
		def, ok := lib.Cards[id]
		if !ok {
			return nil, fmt.Errorf("%w %q in player hand", ErrUnknownCard, id)
		}
		lib.PlayerHand = append(lib.PlayerHand, def)
	}

	for _, spec := range chars.Enemies {
		data, err := lib.character(spec)
		if err != nil {
			return nil, err
		}
		lib.Enemies[data.ID] = data
	}

	for _, id := range stage.Enemies {
		if _, ok := lib.Enemies[id]; !ok {
			return nil, fmt.Errorf("prefabs: stage %q references unknown enemy %q", stage.Name, id)
		}
	}
	for key, id := range stage.Summons {
		if _, ok := lib.Enemies[id]; !ok {
			return nil, fmt.Errorf("prefabs: summon %q references unknown enemy %q", key, id)
		}
	}
	for _, def := range lib.Cards {
		if def.Summon == "" {
			continue
		}
		if _, ok := stage.Summons[def.Summon]; !ok {
			return nil, fmt.Errorf("prefabs: card %q summons %q which the stage does not define", def.ID, def.Summon)
		}
	}
	return lib, nil
}

func (lib *Library) character(spec CharacterSpec) (*battle.CharacterData, error) {
	id := strings.TrimSpace(spec.ID)
	if id == "" {
		return nil, fmt.Errorf("prefabs: character %q has no id", spec.Name)
	}
	if spec.MaxHP <= 0 {
		return nil, fmt.Errorf("prefabs: character %q needs max_hp > 0", id)
	}
	name := spec.Name
	if name == "" {
		name = id
	}
	data := &battle.CharacterData{
		ID:              id,
		Name:            name,
		MaxHP:           spec.MaxHP,
		MaxResource:     spec.MaxResource,
		ResourcePerTurn: spec.ResourcePerTurn,
	}
	for _, entry := range spec.Deck {
		def, ok := lib.Cards[entry.Card]
		if !ok {
			return nil, fmt.Errorf("%w %q in deck of %q", ErrUnknownCard, entry.Card, id)
		}
		weight := entry.Weight
		if weight <= 0 {
			weight = 1
		}
		data.Deck = append(data.Deck, battle.CardEntry{Definition: def, DamageOverride: entry.Damage, Weight: weight})
	}
	return data, nil
}

// Enemy returns the data of the enemy with id.
func (lib *Library) Enemy(id string) (*battle.CharacterData, bool) {
	data, ok := lib.Enemies[id]
	return data, ok
}

// Scripts lists the script paths referenced by cards.
func (lib *Library) Scripts() []string {
	var out []string
	for _, def := range lib.Cards {
		if def.Script != "" {
			out = append(out, def.Script)
		}
	}
	return out
}
