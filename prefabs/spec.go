package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type CardSpec struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Damage   int    `yaml:"damage"`
	Cost     int    `yaml:"cost"`
	Cooldown int    `yaml:"cooldown"`
	Effect   string `yaml:"effect"`
	Amount   int    `yaml:"amount"`
	Duration int    `yaml:"duration"`
	Summon   string `yaml:"summon"`
	Script   string `yaml:"script"`
	Link     bool   `yaml:"link"`
}

type CardsSpec struct {
	Cards []CardSpec `yaml:"cards"`
}

func LoadCardsSpec() (*CardsSpec, error) {
	spec, err := LoadSpec[CardsSpec]("cards.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type DeckEntrySpec struct {
	Card   string `yaml:"card"`
	Damage int    `yaml:"damage"`
	Weight int    `yaml:"weight"`
}

type CharacterSpec struct {
	ID              string          `yaml:"id"`
	Name            string          `yaml:"name"`
	MaxHP           int             `yaml:"max_hp"`
	MaxResource     int             `yaml:"max_resource"`
	ResourcePerTurn int             `yaml:"resource_per_turn"`
	Deck            []DeckEntrySpec `yaml:"deck"`
	// Hand lists the card ids dealt to the player at every initial hand.
	Hand []string `yaml:"hand"`
}

type CharactersSpec struct {
	Player  CharacterSpec   `yaml:"player"`
	Enemies []CharacterSpec `yaml:"enemies"`
}

func LoadCharactersSpec() (*CharactersSpec, error) {
	spec, err := LoadSpec[CharactersSpec]("characters.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type ItemSpec struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Count int    `yaml:"count"`
}

type StageSpec struct {
	Name    string            `yaml:"name"`
	Enemies []string          `yaml:"enemies"`
	Summons map[string]string `yaml:"summons"`
	Items   []ItemSpec        `yaml:"items"`
	Seed    int64             `yaml:"seed"`
}

func LoadStageSpec(filename string) (*StageSpec, error) {
	if filename == "" {
		filename = "stage.yaml"
	}
	spec, err := LoadSpec[StageSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
