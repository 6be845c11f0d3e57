package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/softsim/audio"
	"github.com/lixenwraith/softsim/config"
	"github.com/lixenwraith/softsim/core"
	"github.com/lixenwraith/softsim/engine"
	"github.com/lixenwraith/softsim/parameter"
	"github.com/lixenwraith/softsim/render"
	"github.com/lixenwraith/softsim/scene"
	"github.com/lixenwraith/softsim/sim"
)

//go:embed default_scene.yaml
var defaultScene []byte

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "softbody-sandbox: %v\n", err)
		os.Exit(1)
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}
	level, _ := cfg.Level()
	if levelFlag.set {
		level = levelFlag.value
	}
	logSink := setupLogging(*logFileFlag, level)
	defer logSink.Close()

	f, err := loadScene(*sceneFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "softbody-sandbox: %v\n", err)
		os.Exit(1)
	}

	s, err := sim.New(cfg, slog.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "softbody-sandbox: %v\n", err)
		os.Exit(1)
	}
	if _, err := s.Load(f); err != nil {
		fmt.Fprintf(os.Stderr, "softbody-sandbox: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	// Panic recovery: the terminal must be restored before the stack is printed
	core.SetCrashHook(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	defer screen.Fini()

	sound := audio.NewSoundManager()
	if err := sound.Initialize(); err != nil {
		slog.Warn("audio unavailable, continuing without sound", "error", err)
	}
	defer sound.Cleanup()
	if *muteFlag {
		sound.ToggleMute()
	}

	run(s, screen, sound)
	slog.Info("sandbox closed", "ticks", s.Scheduler().TickCount())
}

func loadScene(path string) (*scene.File, error) {
	if path == "" {
		return scene.Parse(defaultScene)
	}
	return scene.LoadFile(path)
}

// run is the frame loop: poll input, tick the simulation with unpaused wall time, draw
func run(s *sim.Sim, screen tcell.Screen, sound *audio.SoundManager) {
	renderer := render.NewTerminalRenderer(screen)
	clock := engine.NewPausableClock()
	latch := newKeyLatch(keyHold)

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	})

	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	var pending engine.InputState
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				w, h := ev.Size()
				renderer.Resize(w, h)
				screen.Sync()
			case *tcell.EventKey:
				key, cmd := mapKey(ev)
				switch cmd {
				case cmdQuit:
					return
				case cmdPause:
					paused := clock.Toggle()
					slog.Debug("pause toggled", "paused", paused)
				case cmdReset:
					release(&pending, latch.releaseAll())
					if _, err := s.Reset(); err != nil {
						slog.Error("reset failed", "error", err)
					}
				case cmdMute:
					sound.ToggleMute()
				case cmdZoomIn:
					renderer.Zoom(1.25)
				case cmdZoomOut:
					renderer.Zoom(0.8)
				case cmdNone:
					if key != engine.KeyNone && latch.press(key, time.Now()) {
						pending.Pressed.Add(key)
					}
				}
			}

		case <-ticker.C:
			release(&pending, latch.expire(time.Now()))
			if !pending.IsZero() {
				s.PushInput(pending)
				pending = engine.InputState{}
			}

			snap := s.Tick(clock.Delta())
			st := s.Stats()
			if !clock.IsPaused() {
				sound.ObserveContacts(int(st.Contacts), st.Energy)
			}
			renderer.RenderFrame(snap, []string{hudLine(st, clock.IsPaused(), sound.IsMuted())}, st.Backlog > 0)
		}
	}
}

func release(pending *engine.InputState, keys []engine.Key) {
	pending.Released.Add(keys...)
}
