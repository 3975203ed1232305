package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryFindPreviousUsesEarlierTurns(t *testing.T) {
	h := NewHistory()
	first := &Card{ID: "1", Owner: SidePlayer, Def: slashDef}
	second := &Card{ID: "2", Owner: SidePlayer, Def: heavyDef}
	h.Record(SidePlayer, first, 1)
	h.Record(SidePlayer, second, 3)

	assert.Nil(t, h.FindPrevious(SidePlayer, 1))
	assert.Same(t, first, h.FindPrevious(SidePlayer, 3), "card of the current turn is skipped")
	assert.Same(t, second, h.FindPrevious(SidePlayer, 5))
	assert.Nil(t, h.FindPrevious(SideEnemy, 5))
}

func TestHistoryExcludesLinkCards(t *testing.T) {
	h := NewHistory()
	plain := &Card{ID: "1", Def: slashDef}
	link := &Card{ID: "2", Def: &Definition{ID: "echo", Link: true}}
	linkByEffect := &Card{ID: "3", Def: &Definition{ID: "echo2", Effect: "link"}}
	marker := &Card{ID: "4", Def: MarkerDefinition}

	assert.True(t, h.Record(SidePlayer, plain, 1))
	assert.False(t, h.Record(SidePlayer, link, 2))
	assert.False(t, h.Record(SidePlayer, linkByEffect, 3))
	assert.False(t, h.Record(SidePlayer, marker, 4))

	assert.Same(t, plain, h.FindPrevious(SidePlayer, 10))
	assert.Len(t, h.Entries(SidePlayer), 1)

	h.Clear()
	assert.Nil(t, h.FindPrevious(SidePlayer, 10))
}
