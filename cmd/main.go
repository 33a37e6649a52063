package cmd

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/MobRulesGames/boardscene/assets"
	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/camera"
	"github.com/MobRulesGames/boardscene/config"
	"github.com/MobRulesGames/boardscene/journal"
	"github.com/MobRulesGames/boardscene/logging"
	"github.com/MobRulesGames/boardscene/scene"
	"github.com/MobRulesGames/boardscene/script"
	"github.com/MobRulesGames/boardscene/sound"
	"github.com/MobRulesGames/boardscene/termview"
	"github.com/gdamore/tcell/v2"
)

func openLogFile(dir string) (*os.File, error) {
	logFileName := filepath.Join(dir, "logs", "boardscene.log")
	if err := os.MkdirAll(filepath.Dir(logFileName), 0o755); err != nil {
		return nil, fmt.Errorf("couldn't create dir for %q: %w", logFileName, err)
	}
	f, err := os.Create(logFileName)
	if err != nil {
		return nil, fmt.Errorf("couldn't create %q: %w", logFileName, err)
	}
	return f, nil
}

func onPanic(recoveredValue interface{}) {
	stack := debug.Stack()
	logging.Error("PANIC", "val", recoveredValue, "stack", string(stack))
	fmt.Fprintf(os.Stderr, "PANIC: %v\n%s\n", recoveredValue, stack)
}

// Main runs the demo. argv[1], if given, is the directory holding the config
// file; it defaults to the working directory.
func Main(argv []string) error {
	dir := "."
	if len(argv) > 1 {
		dir = argv[1]
	}

	var logSink io.Writer = io.Discard
	if logFile, err := openLogFile(dir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\nlogging is disabled\n", err)
	} else {
		defer logFile.Close()
		logSink = logFile
	}
	// Anything written to the terminal would land on top of the board, so
	// logs go to the file and the console overlay.
	logReader := logging.SetupLogger(logSink)

	defer func() {
		if r := recover(); r != nil {
			onPanic(r)
			panic(r)
		}
	}()

	a, cleanup, err := setup(dir)
	if err != nil {
		return err
	}
	defer cleanup()
	a.view.SetConsole(termview.MakeConsole(logReader))
	return a.run()
}

type app struct {
	screen tcell.Screen
	events chan tcell.Event
	view   *termview.View
	cam    *camera.OrbitCamera
	coord  *scene.Coordinator
	rec    *journal.Recorder
	log    *journal.Journal
	frame  time.Duration
	quit   bool
}

func setup(dir string) (*app, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*app, func(), error) {
		cleanup()
		return nil, nil, err
	}

	if err := config.Load(dir); err != nil {
		return fail(err)
	}
	lvl, err := config.LogLevel()
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, logging.SetLogLevel(lvl))

	layout, err := config.Layout()
	if err != nil {
		return fail(err)
	}
	camOpts, err := config.CameraOptions()
	if err != nil {
		return fail(err)
	}
	position, center, err := config.CameraPlacement()
	if err != nil {
		return fail(err)
	}
	if _, err := assets.RegisterModels(config.ModelsDir()); err != nil {
		return fail(err)
	}

	cues := sound.NewCues(config.SoundSampleRate())
	if config.SoundEnabled() {
		if err := cues.Init(); err != nil {
			logging.Warn("sound disabled", "err", err)
		}
		cleanups = append(cleanups, cues.Close)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fail(fmt.Errorf("creating screen: %w", err))
	}
	if err := screen.Init(); err != nil {
		return fail(fmt.Errorf("initializing screen: %w", err))
	}
	cleanups = append(cleanups, screen.Fini)
	screen.EnableMouse()

	a := &app{
		screen: screen,
		events: make(chan tcell.Event, 100),
		cam:    camera.New(position, center, camOpts),
		frame:  config.FrameInterval(),
	}
	a.view = termview.New(screen, a.cam, layout.TileSize)
	a.coord, err = scene.NewCoordinator(scene.Options{
		Scene:        a.view,
		Models:       assets.NewCatalog(assets.ModelRegistry, nil),
		Layout:       layout,
		StepInterval: config.StepInterval(),
		Cues:         cues,
	})
	if err != nil {
		return fail(err)
	}

	a.log, err = journal.Open(config.JournalPath(), config.JournalSession())
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, func() {
		if err := a.log.Close(); err != nil {
			logging.Warn("closing journal", "err", err)
		}
	})
	a.rec = journal.NewRecorder(a.coord, a.log)

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			a.events <- ev
		}
	}()
	return a, cleanup, nil
}

// scriptHost lets scripts both act through the journal and look at the
// coordinator.
type scriptHost struct {
	*journal.Recorder
	coord *scene.Coordinator
}

func (h scriptHost) PlayerTile(slot int) (board.TileIndex, bool) {
	return h.coord.PlayerTile(slot)
}

func (h scriptHost) Moving(slot int) bool {
	return h.coord.Moving(slot)
}

func (a *app) run() error {
	events, err := a.log.Events(a.log.Session())
	if err != nil {
		return err
	}
	switch {
	case len(events) > 0:
		if err := a.log.Replay(a.log.Session(), a.coord, time.Now()); err != nil {
			return err
		}
		a.view.SetStatus(fmt.Sprintf("resumed %s", a.log.Session()))
	case config.ScriptPath() != "":
		a.runScript(config.ScriptPath())
	default:
		if err := a.rec.SpawnPlayers([]board.TileIndex{0, 0, 0, 0}, a.loaded); err != nil {
			return err
		}
		a.view.SetStatus("1-4 rolls for a player, q quits")
	}
	a.loop(-1)
	return nil
}

func (a *app) loaded(err error) {
	if err != nil {
		a.view.SetStatus(err.Error())
	}
}

// runScript plays a script in real time. A failing script is reported on the
// status line and leaves the board as far as it got.
func (a *app) runScript(path string) {
	s := script.New(scriptHost{Recorder: a.rec, coord: a.coord}, script.Options{
		InstructionLimit: config.ScriptInstructionLimit(),
		Start:            time.Now(),
		Wait: func(d time.Duration) time.Time {
			a.loop(d)
			return time.Now()
		},
	})
	defer s.Close()

	var err error
	run := func() { err = s.RunFile(path) }
	if config.ScriptTrace() {
		logging.TraceBracket(run)
	} else {
		run()
	}
	if err != nil {
		logging.Error("script failed", "path", path, "err", err)
		a.view.SetStatus(err.Error())
		return
	}
	a.view.SetStatus("script finished, q quits")
}

// roll walks slot forward by two dice.
func (a *app) roll(slot int) {
	from, ok := a.coord.PlayerTile(slot)
	if !ok {
		return
	}
	dice := 2 + rand.Intn(6) + rand.Intn(6)
	to := board.TileIndex((int(from) + dice) % board.TileCount)
	if _, err := a.rec.MovePlayer(slot, to, time.Now()); err != nil {
		a.view.SetStatus(err.Error())
		return
	}
	a.view.SetStatus(fmt.Sprintf("player %d rolled %d", slot+1, dice))
}

func (a *app) handle(ev tcell.Event) bool {
	if key, ok := ev.(*tcell.EventKey); ok && key.Key() == tcell.KeyRune {
		if r := key.Rune(); r >= '1' && r <= '4' {
			a.roll(int(r - '1'))
			return true
		}
	}
	return a.view.HandleEvent(ev)
}

// loop draws frames and handles input for d, or until the user quits when d
// is negative. Once the user has quit it returns immediately.
func (a *app) loop(d time.Duration) {
	if a.quit {
		return
	}
	ticker := time.NewTicker(a.frame)
	defer ticker.Stop()
	deadline := time.Now().Add(d)

	for {
		select {
		case ev := <-a.events:
			if !a.handle(ev) {
				a.quit = true
				return
			}
		case now := <-ticker.C:
			a.cam.Update()
			a.coord.Advance(now)
			a.view.Draw()
			if d >= 0 && !now.Before(deadline) {
				return
			}
		}
	}
}
