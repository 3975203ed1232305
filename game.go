package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/slotbattler/battle"
	"github.com/milk9111/slotbattler/battle/effect"
	"github.com/milk9111/slotbattler/config"
	"github.com/milk9111/slotbattler/prefabs"
	"github.com/milk9111/slotbattler/stage"
	"go.uber.org/zap"
)

const (
	baseWidth  = 960
	baseHeight = 540

	slotWidth  = 140
	slotHeight = 70
	slotGap    = 12
	queueX     = 40
	queueY     = 120

	logLines = 10
)

var handKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

type Game struct {
	frames int
	dt     time.Duration

	cfg       *config.Config
	log       *zap.Logger
	lib       *prefabs.Library
	effects   *effect.Registry
	presenter *timedPresenter
	watcher   *prefabs.Watcher

	kit     *stage.Kit
	session *battle.Session
	events  []string

	result *resultUI
	ended  bool
}

func NewGame(cfg *config.Config, logger *zap.Logger) (*Game, error) {
	lib, err := prefabs.LoadLibrary(cfg.Viewer.StageFile)
	if err != nil {
		return nil, err
	}

	tps := cfg.Viewer.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	g := &Game{
		dt:        time.Second / time.Duration(tps),
		cfg:       cfg,
		log:       logger.Named("viewer"),
		lib:       lib,
		effects:   effect.NewRegistry(prefabs.LoadScript, logger),
		presenter: newTimedPresenter(),
	}
	g.result = newResultUI(g.restart)

	if cfg.Viewer.Watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			g.log.Warn("prefab hot reload disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}

	g.restart()
	return g, nil
}

// restart throws the current session away and starts the stage over.
func (g *Game) restart() {
	g.presenter.Reset()
	g.events = g.events[:0]
	g.ended = false

	g.kit = stage.New(g.lib, g.cfg.Battle.HandSize, uint64(time.Now().UnixNano()))
	deps := g.kit.Deps(g.effects, g.presenter)
	deps.Logger = g.log

	g.session = battle.NewSession(g.cfg.Battle, deps)
	if err := g.session.Initialize(); err != nil {
		g.log.Error("initialize session", zap.Error(err))
		return
	}
	g.session.Events().Subscribe(g.record)
	if err := g.session.StartCombat(nil); err != nil {
		g.log.Error("start combat", zap.Error(err))
	}
}

func (g *Game) record(evt battle.Event) {
	line := describe(evt)
	if line == "" {
		return
	}
	g.events = append(g.events, line)
	if len(g.events) > logLines {
		g.events = g.events[len(g.events)-logLines:]
	}
}

func (g *Game) Update() error {
	g.frames++
	g.reload()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart()
		return nil
	}
	if g.ended {
		g.result.ui.Update()
		return nil
	}

	if g.session.CanAct() {
		for i, key := range handKeys {
			if !inpututil.IsKeyJustPressed(key) {
				continue
			}
			if card := g.kit.Hand.Card(i); card != nil {
				if err := g.session.PlayCard(card); err != nil {
					g.record(battle.Event{Data: fmt.Sprintf("cannot play %s: %v", card.Name(), err)})
				}
			}
			break
		}
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
			if err := g.session.Pass(); err != nil {
				g.log.Warn("pass", zap.Error(err))
			}
		}
	}

	g.presenter.Update(g.dt)
	g.session.Tick(g.dt)

	if victory, ended := g.session.Victory(); ended {
		g.ended = true
		g.result.Show(victory, fmt.Sprintf("%d turns, %d enemies left", g.session.TurnCount(), g.kit.Progression.Remaining()))
	}
	return nil
}

// reload applies prefab edits picked up by the watcher. Script edits only
// drop compiled scripts; spec edits rebuild the library and restart.
func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	select {
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.log.Warn("prefab watcher", zap.Error(err))
		}
	default:
	}

	specs := false
	for _, path := range g.watcher.Drain() {
		if prefabs.IsScript(path) {
			if cache := g.effects.Scripts(); cache != nil {
				cache.Invalidate("")
			}
			g.log.Info("script reloaded", zap.String("path", path))
			continue
		}
		specs = true
	}
	if !specs {
		return
	}
	lib, err := prefabs.LoadLibrary(g.cfg.Viewer.StageFile)
	if err != nil {
		g.log.Warn("prefab reload failed, keeping previous library", zap.Error(err))
		return
	}
	g.lib = lib
	g.log.Info("prefabs reloaded")
	g.restart()
}

func (g *Game) Close() error {
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	s := g.session
	if s.Machine() == nil {
		ebitenutil.DebugPrint(screen, "session failed to start, see log")
		return
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    State: %s    Turn %d (%s)",
		g.frames, ebiten.ActualFPS(), s.State(), s.TurnCount(), s.Side()))

	g.drawCombatant(screen, "Player", s.Player(), 40, 40)
	g.drawCombatant(screen, "Enemy", s.Enemy(), 520, 40)
	g.drawQueue(screen)
	g.drawHand(screen)

	y := baseHeight - 16*logLines - 10
	for i, line := range g.events {
		ebitenutil.DebugPrintAt(screen, line, 40, y+16*i)
	}

	if g.ended {
		g.result.ui.Draw(screen)
	}
}

func (g *Game) drawCombatant(screen *ebiten.Image, label string, c *battle.Character, x, y int) {
	if c == nil {
		ebitenutil.DebugPrintAt(screen, label+": -", x, y)
		return
	}
	line := fmt.Sprintf("%s: %s  HP %d/%d  RES %d/%d", label, c.Name(), c.HP(), c.MaxHP(), c.Resource(), c.MaxResource())
	var statuses []string
	for _, kind := range []battle.StatusKind{battle.StatusGuard, battle.StatusBleed, battle.StatusStun} {
		if st, ok := c.Status(kind); ok {
			statuses = append(statuses, fmt.Sprintf("%s %d/%dt", kind, st.Amount, st.Turns))
		}
	}
	ebitenutil.DebugPrintAt(screen, line, x, y)
	if len(statuses) > 0 {
		ebitenutil.DebugPrintAt(screen, strings.Join(statuses, ", "), x, y+16)
	}
	if side, ok := g.presenter.Fatal(); ok && c == g.session.Machine().Combatants().Of(side) {
		ebitenutil.DebugPrintAt(screen, "FATAL HIT", x, y+32)
	}
}

func (g *Game) drawQueue(screen *ebiten.Image) {
	slots := g.session.Machine().Slots()
	offset := g.presenter.ShiftOffset(slotWidth + slotGap)
	for pos := battle.SlotBattle; pos < battle.SlotCount; pos++ {
		x := float32(queueX + int(pos)*(slotWidth+slotGap))
		card := slots.Card(pos)
		if card != nil && pos != battle.SlotBattle {
			x += offset
		}
		vector.DrawFilledRect(screen, x, queueY, slotWidth, slotHeight, slotColor(card), false)
		ebitenutil.DebugPrintAt(screen, pos.String(), int(x)+4, queueY+4)
		if card != nil {
			ebitenutil.DebugPrintAt(screen, card.Name(), int(x)+4, queueY+24)
			if dmg := card.Damage(); dmg > 0 {
				ebitenutil.DebugPrintAt(screen, fmt.Sprintf("dmg %d", dmg), int(x)+4, queueY+44)
			}
		}
	}
	if name, ok := g.presenter.Flash(); ok {
		ebitenutil.DebugPrintAt(screen, "> "+name, queueX, queueY+slotHeight+8)
	}
}

func (g *Game) drawHand(screen *ebiten.Image) {
	y := queueY + slotHeight + 40
	prompt := "Waiting..."
	if g.session.CanAct() {
		prompt = "Your turn: 1-9 play a card, Space pass, R restart"
	}
	ebitenutil.DebugPrintAt(screen, prompt, queueX, y)
	for i, card := range g.kit.Hand.Cards() {
		line := fmt.Sprintf("%d) %-12s cost %d", i+1, card.Name(), card.Cost())
		if card.Cooldown > 0 {
			line += fmt.Sprintf("  (cooldown %d)", card.Cooldown)
		}
		ebitenutil.DebugPrintAt(screen, line, queueX, y+16*(i+1))
	}
}

func slotColor(card *battle.Card) color.Color {
	switch {
	case card == nil:
		return color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	case card.IsMarker():
		return color.NRGBA{R: 0x22, G: 0x44, B: 0x88, A: 0xff}
	case card.Owner == battle.SideEnemy:
		return color.NRGBA{R: 0x88, G: 0x22, B: 0x22, A: 0xff}
	default:
		return color.NRGBA{R: 0x22, G: 0x66, B: 0x33, A: 0xff}
	}
}

func describe(evt battle.Event) string {
	switch d := evt.Data.(type) {
	case string:
		return d
	case battle.CombatStart:
		return "combat started against " + d.Enemy
	case battle.CombatEnd:
		if d.Victory {
			return "victory"
		}
		return "defeat"
	case battle.CardUse:
		return fmt.Sprintf("%s used %s", d.Side, d.CardID)
	case battle.TurnCountChange:
		return fmt.Sprintf("turn %d", d.Count)
	case battle.PlayerRevive:
		return fmt.Sprintf("revived with %d HP", d.HP)
	}
	return ""
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
