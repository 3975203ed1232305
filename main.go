package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/slotbattler/common"
	"github.com/milk9111/slotbattler/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (optional, SLOTBATTLER_* env applies on top)")
	stageFile := flag.String("stage", "", "stage file in prefabs/ (overrides config)")
	watch := flag.Bool("watch", false, "hot reload prefabs and scripts from disk")
	debug := flag.Bool("debug", false, "enable debug logging")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintln(flag.CommandLine.Output(), config.Usage())
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *stageFile != "" {
		cfg.Viewer.StageFile = *stageFile
	}
	if *watch {
		cfg.Viewer.Watch = true
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	logger, err := common.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle("slotbattler")
	if cfg.Viewer.TPS > 0 {
		ebiten.SetTPS(cfg.Viewer.TPS)
	}

	game, err := NewGame(cfg, logger)
	if err != nil {
		logger.Fatal("load game", zap.Error(err))
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game exited", zap.Error(err))
	}
}
