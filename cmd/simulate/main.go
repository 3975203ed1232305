// Command simulate plays stage runs headlessly with an auto-player and
// prints the event log and the collected metrics.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/milk9111/slotbattler/battle"
	"github.com/milk9111/slotbattler/battle/effect"
	"github.com/milk9111/slotbattler/common"
	"github.com/milk9111/slotbattler/config"
	"github.com/milk9111/slotbattler/prefabs"
	"github.com/milk9111/slotbattler/stage"
	"github.com/milk9111/slotbattler/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
)

// frame is the fixed step the simulation advances by.
const frame = time.Second / 60

type outcome struct {
	Victory bool
	Ended   bool
	Turns   int
	Ticks   int
}

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	stageFile := flag.String("stage", "", "stage file in prefabs/ (overrides config)")
	runs := flag.Int("runs", 1, "number of stage runs")
	quiet := flag.Bool("q", false, "do not print the event log")
	metrics := flag.Bool("metrics", true, "print Prometheus metrics after the runs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *stageFile != "" {
		cfg.Viewer.StageFile = *stageFile
	}

	logger, err := common.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	lib, err := prefabs.LoadLibrary(cfg.Viewer.StageFile)
	if err != nil {
		logger.Fatal("load prefabs", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	stats := telemetry.New(reg)
	effects := effect.NewRegistry(prefabs.LoadScript, logger)

	var out io.Writer = os.Stdout
	if *quiet {
		out = io.Discard
	}

	wins := 0
	for i := range *runs {
		seed := cfg.Simulate.Seed + uint64(i)
		res, err := run(cfg, lib, effects, seed, stats, out, logger)
		if err != nil {
			logger.Fatal("simulation failed", zap.Uint64("seed", seed), zap.Error(err))
		}
		if res.Victory {
			wins++
		}
		fmt.Printf("run %d (seed %d): victory=%t ended=%t turns=%d ticks=%d\n", i+1, seed, res.Victory, res.Ended, res.Turns, res.Ticks)
	}
	fmt.Printf("%d/%d runs won\n", wins, *runs)

	if *metrics {
		if err := writeMetrics(os.Stdout, reg); err != nil {
			logger.Error("write metrics", zap.Error(err))
		}
	}
}

// run plays one stage to completion or until the tick budget is spent.
func run(cfg *config.Config, lib *prefabs.Library, effects battle.EffectResolver, seed uint64, stats *telemetry.Stats, out io.Writer, logger *zap.Logger) (outcome, error) {
	kit := stage.New(lib, cfg.Battle.HandSize, seed)
	deps := kit.Deps(effects, nil)
	deps.Logger = logger

	session := battle.NewSession(cfg.Battle, deps)
	if err := session.Initialize(); err != nil {
		return outcome{}, err
	}
	if stats != nil {
		stats.Attach(session.Events())
	}
	session.Events().Subscribe(func(evt battle.Event) {
		if line := describe(evt); line != "" {
			fmt.Fprintf(out, "  [turn %d] %s\n", session.TurnCount(), line)
		}
	})
	if err := session.StartCombat(nil); err != nil {
		return outcome{}, err
	}

	maxTicks := cfg.Simulate.MaxTicks
	if maxTicks <= 0 {
		maxTicks = 200000
	}
	var res outcome
	for res.Ticks = 0; res.Ticks < maxTicks; res.Ticks++ {
		if victory, ended := session.Victory(); ended {
			res.Victory, res.Ended = victory, true
			break
		}
		if session.CanAct() {
			act(session, kit.Hand)
		}
		session.Tick(frame)
	}
	res.Turns = session.TurnCount()
	return res, nil
}

func act(session *battle.Session, hand *stage.Hand) {
	card := pickCard(hand.Cards(), session.Player(), session.Enemy())
	if card != nil {
		if err := session.PlayCard(card); err == nil {
			return
		}
	}
	_ = session.Pass()
}

func describe(evt battle.Event) string {
	switch d := evt.Data.(type) {
	case battle.CombatStart:
		return "combat started against " + d.Enemy
	case battle.CombatEnd:
		if d.Victory {
			return "stage cleared"
		}
		return "player defeated"
	case battle.CardExecution:
		if d.Card == nil || d.Card.IsMarker() {
			return ""
		}
		return fmt.Sprintf("%s plays %s (%s %d/%d, %s %d/%d)", d.Card.Owner, d.Card.Name(),
			d.Source.Name(), d.Source.HP(), d.Source.MaxHP(), d.Target.Name(), d.Target.HP(), d.Target.MaxHP())
	case battle.PlayerRevive:
		return fmt.Sprintf("player revived with %d HP", d.HP)
	case battle.StateChange:
		switch d.Next {
		case battle.StateSummon, battle.StateSummonReturn, battle.StateEnemyDefeated:
			return "state " + d.Next.String()
		}
	}
	return ""
}

func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
