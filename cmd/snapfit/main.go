package main

import (
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/gekko3d/snapfit"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	levelNum := flag.Int("level", 0, "Start this built-in level instead of the title screen")
	levelFile := flag.String("level-file", "", "Load the level from a YAML file instead of a built-in one")
	progressDir := flag.String("progress", "", "Directory for level progress files (disabled when empty)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	hudPath := flag.String("hud", "", "Write a PNG of the HUD to this path on exit")
	flag.Parse()

	logger := snapfit.NewDefaultLogger("snapfit", *debug)

	levels, err := snapfit.BuiltinLevels()
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	assets := snapfit.NewAssetServer()
	snapfit.RegisterFallbackModels(assets)

	opts := snapfit.SessionOptions{Logger: logger, Assets: assets, Levels: levels}
	if *progressDir != "" {
		opts.Progress = snapfit.NewFileProgressStore(*progressDir)
	}
	session := snapfit.NewGameSession(opts)

	switch {
	case *levelFile != "":
		var level *snapfit.LevelConfig
		if level, err = snapfit.LoadLevelFile(*levelFile); err == nil {
			err = session.LoadLevel(level)
		}
	case *levelNum > 0:
		err = session.StartLevel(*levelNum)
	}
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	if best, err := session.BestProgress(); err == nil {
		logger.Infof("best so far: %s, %d stars", snapfit.FormatClock(best.BestTime), best.BestStars)
	}

	window, err := snapfit.OpenWindow(snapfit.WindowConfig{Title: "SnapFit", Width: 1280, Height: 720})
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	source := snapfit.NewGlfwInputSource(window)
	controls := snapfit.DefaultControls()
	input := &snapfit.Input{}
	clock := snapfit.NewFrameClock(time.Now())

	title := ""
	for !window.ShouldClose() {
		dt := clock.Tick(time.Now())
		source.Poll(input)
		controls.Apply(input, session)
		session.Update(dt)

		// Without a renderer the window title carries the status line.
		lines := snapfit.HUDLines(session)
		if t := strings.Join(lines[:min(2, len(lines))], " | "); t != title {
			window.SetTitle(t)
			title = t
		}
		time.Sleep(time.Second / 60)
	}

	if *hudPath != "" {
		if err := snapfit.WriteHUDPNG(*hudPath, snapfit.HUDLines(session)); err != nil {
			logger.Errorf("%v", err)
		}
	}
}
