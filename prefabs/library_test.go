package prefabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLibraryFromEmbeddedSpecs(t *testing.T) {
	lib, err := LoadLibrary("")
	require.NoError(t, err)

	require.NotNil(t, lib.Player)
	assert.Equal(t, "hero", lib.Player.ID)
	assert.Positive(t, lib.Player.MaxHP)
	assert.NotEmpty(t, lib.PlayerHand)

	for _, id := range lib.Stage.Enemies {
		data, ok := lib.Enemy(id)
		require.True(t, ok, id)
		assert.NotEmpty(t, data.Deck, id)
	}
	assert.True(t, lib.Cards["echo"].Link)

	for _, path := range lib.Scripts() {
		src, err := LoadScript(path)
		require.NoError(t, err, path)
		assert.Contains(t, string(src), "apply")
	}
}

func TestBuildLibraryValidation(t *testing.T) {
	cards := &CardsSpec{Cards: []CardSpec{{ID: "bite", Damage: 2}, {ID: "call", Effect: "summon", Summon: "imp"}}}
	player := CharacterSpec{ID: "hero", MaxHP: 10, Hand: []string{"bite"}}
	imp := CharacterSpec{ID: "imp", MaxHP: 3, Deck: []DeckEntrySpec{{Card: "bite"}}}

	tests := []struct {
		name  string
		cards *CardsSpec
		chars *CharactersSpec
		stage *StageSpec
		ok    bool
	}{
		{
			name:  "valid",
			cards: cards,
			chars: &CharactersSpec{Player: player, Enemies: []CharacterSpec{imp}},
			stage: &StageSpec{Enemies: []string{"imp"}, Summons: map[string]string{"imp": "imp"}},
			ok:    true,
		},
		{
			name:  "unknown deck card",
			cards: cards,
			chars: &CharactersSpec{Player: player, Enemies: []CharacterSpec{{ID: "rat", MaxHP: 1, Deck: []DeckEntrySpec{{Card: "nope"}}}}},
			stage: &StageSpec{Summons: map[string]string{"imp": "rat"}},
		},
		{
			name:  "unknown stage enemy",
			cards: cards,
			chars: &CharactersSpec{Player: player, Enemies: []CharacterSpec{imp}},
			stage: &StageSpec{Enemies: []string{"dragon"}, Summons: map[string]string{"imp": "imp"}},
		},
		{
			name:  "summon without stage entry",
			cards: cards,
			chars: &CharactersSpec{Player: player, Enemies: []CharacterSpec{imp}},
			stage: &StageSpec{Enemies: []string{"imp"}},
		},
		{
			name:  "player without health",
			cards: cards,
			chars: &CharactersSpec{Player: CharacterSpec{ID: "hero"}},
			stage: &StageSpec{},
		},
		{
			name:  "duplicate card",
			cards: &CardsSpec{Cards: []CardSpec{{ID: "bite"}, {ID: "bite"}}},
			chars: &CharactersSpec{Player: CharacterSpec{ID: "hero", MaxHP: 1}},
			stage: &StageSpec{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := BuildLibrary(tt.cards, tt.chars, tt.stage)
			if tt.ok {
				require.NoError(t, err)
				assert.Len(t, lib.Enemies["imp"].Deck, 1)
				assert.Equal(t, 1, lib.Enemies["imp"].Deck[0].Weight)
				return
			}
			assert.Error(t, err)
		})
	}
}

func TestCleanPaths(t *testing.T) {
	assert.Equal(t, "scripts/venom.tengo", cleanScriptPath("prefabs/scripts/venom.tengo"))
	assert.Equal(t, "scripts/venom.tengo", cleanScriptPath("venom.tengo"))
	assert.Equal(t, "cards.yaml", cleanPrefabPath("prefabs/cards.yaml"))
	assert.Empty(t, cleanPrefabPath(""))
}
