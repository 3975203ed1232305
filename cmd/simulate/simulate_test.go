package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/milk9111/slotbattler/battle"
	"github.com/milk9111/slotbattler/battle/effect"
	"github.com/milk9111/slotbattler/config"
	"github.com/milk9111/slotbattler/prefabs"
	"github.com/milk9111/slotbattler/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRunPlaysStageToTheEnd(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	lib, err := prefabs.LoadLibrary("")
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	stats := telemetry.New(reg)
	logger := zaptest.NewLogger(t)
	var log bytes.Buffer

	res, err := run(cfg, lib, effect.NewRegistry(prefabs.LoadScript, logger), 7, stats, &log, logger)
	require.NoError(t, err)

	assert.True(t, res.Ended)
	assert.Greater(t, res.Turns, 1)
	assert.Contains(t, log.String(), "combat started against Goblin")
	assert.GreaterOrEqual(t, testutil.ToFloat64(stats.CombatsStarted), 1.0)
	ended := testutil.ToFloat64(stats.CombatsEnded.WithLabelValues("victory")) +
		testutil.ToFloat64(stats.CombatsEnded.WithLabelValues("defeat"))
	assert.Equal(t, 1.0, ended)
	assert.Positive(t, testutil.ToFloat64(stats.CardsUsed.WithLabelValues("player")))

	var metrics bytes.Buffer
	require.NoError(t, writeMetrics(&metrics, reg))
	assert.True(t, strings.Contains(metrics.String(), "slotbattler_cards_spawned_total"))
}

func TestRunIsDeterministicPerSeed(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	lib, err := prefabs.LoadLibrary("")
	require.NoError(t, err)
	effects := effect.NewRegistry(prefabs.LoadScript, nil)

	var a, b bytes.Buffer
	_, err = run(cfg, lib, effects, 3, nil, &a, nil)
	require.NoError(t, err)
	_, err = run(cfg, lib, effects, 3, nil, &b, nil)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestRunStopsAtTickBudget(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Simulate.MaxTicks = 5
	lib, err := prefabs.LoadLibrary("")
	require.NoError(t, err)

	res, err := run(cfg, lib, effect.NewRegistry(nil, nil), 1, nil, io.Discard, nil)
	require.NoError(t, err)
	assert.False(t, res.Ended)
	assert.Equal(t, 5, res.Ticks)
}

func TestPickCard(t *testing.T) {
	slash := &battle.Definition{ID: "slash", Damage: 4, Cost: 1}
	heavy := &battle.Definition{ID: "heavy", Damage: 9, Cost: 3}
	mend := &battle.Definition{ID: "mend", Effect: "heal", Amount: 5, Cost: 2}
	guard := &battle.Definition{ID: "guard", Effect: "guard", Amount: 6, Cost: 1}
	card := func(def *battle.Definition, cooldown int) *battle.Card {
		return &battle.Card{ID: def.ID, Owner: battle.SidePlayer, Def: def, Cooldown: cooldown}
	}
	character := func(maxHP, hp, resource int) *battle.Character {
		c := battle.NewCharacter(&battle.CharacterData{MaxHP: maxHP, MaxResource: 3})
		c.SetHP(hp)
		c.SetResource(resource)
		return c
	}

	tests := []struct {
		name   string
		hand   []*battle.Card
		player *battle.Character
		enemy  *battle.Character
		want   string
	}{
		{
			name:   "finishing blow",
			hand:   []*battle.Card{card(heavy, 0), card(slash, 0)},
			player: character(30, 30, 3),
			enemy:  character(20, 3, 0),
			want:   "heavy",
		},
		{
			name:   "best damage per cost",
			hand:   []*battle.Card{card(heavy, 0), card(slash, 0)},
			player: character(30, 30, 3),
			enemy:  character(20, 20, 0),
			want:   "slash",
		},
		{
			name:   "heal when hurt",
			hand:   []*battle.Card{card(slash, 0), card(mend, 0)},
			player: character(30, 5, 3),
			enemy:  character(20, 20, 0),
			want:   "mend",
		},
		{
			name:   "guard when heal unaffordable",
			hand:   []*battle.Card{card(slash, 0), card(mend, 0), card(guard, 0)},
			player: character(30, 5, 1),
			enemy:  character(20, 20, 0),
			want:   "guard",
		},
		{
			name:   "cooldown and cost leave nothing",
			hand:   []*battle.Card{card(slash, 1), card(heavy, 0)},
			player: character(30, 30, 2),
			enemy:  character(20, 20, 0),
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickCard(tt.hand, tt.player, tt.enemy)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}
