package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/pursuit/logger"
	"github.com/milk9111/pursuit/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging, the nav overlay and hot reload of prefabs/")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	logFormat := flag.String("log-format", "console", "log format: console, text or json")
	flag.Parse()

	tuning, err := prefabs.LoadTuning("")
	if err != nil {
		logger.Init(logger.Config{Level: "info", Format: *logFormat})
		logger.L().Error("load tuning", "err", err)
		os.Exit(1)
	}
	level := tuning.Log.Level
	if *debug {
		level = "debug"
		tuning.Viewer.ShowNav = true
	}
	logger.Init(logger.Config{Level: level, Format: *logFormat})

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("pursuit")

	game, err := NewGame(tuning, *debug)
	if err != nil {
		logger.L().Error("start", "err", err)
		os.Exit(1)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.L().Error("run", "err", err)
		os.Exit(1)
	}
}
