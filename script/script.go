// Package script drives a scene from Lua. Scripts see a global table Board:
//
//	Board.Spawn({0, 0, 5})   -- one start tile per player
//	Board.Move(slot, tile)
//	Board.Buy(slot, tile)
//	Board.House(tile)
//	Board.Hotel(tile)
//	Board.Wait(ms)
//	Board.Tile(slot)         -- tile the token stands on, or nil
//	Board.Moving(slot)
package script

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/logging"
	"github.com/MobRulesGames/boardscene/scene"
	"github.com/MobRulesGames/golua/lua"
)

var ErrScript = errors.New("script error")

// Host receives the actions of a script.
type Host interface {
	SpawnPlayers(tiles []board.TileIndex, done func(error)) error
	MovePlayer(slot int, to board.TileIndex, now time.Time) (*scene.Move, error)
	BuyProperty(owner int, t board.TileIndex, done func(error)) error
	BuildHouse(t board.TileIndex, done func(error)) error
	BuildHotel(t board.TileIndex, done func(error)) error
	Advance(now time.Time)
}

// Observer is optionally implemented by a Host to answer Board.Tile and
// Board.Moving.
type Observer interface {
	PlayerTile(slot int) (board.TileIndex, bool)
	Moving(slot int) bool
}

type Options struct {
	// Lua instructions per Run; zero means DefaultInstructionLimit.
	InstructionLimit int

	// Clock start for moves; zero means time.Now().
	Start time.Time

	// Wait implements Board.Wait and returns the time afterwards. The
	// default advances a simulated clock and the host with it, so scripts
	// run without sleeping.
	Wait func(d time.Duration) time.Time
}

const DefaultInstructionLimit = 1000000

type Script struct {
	L     *lua.State
	host  Host
	opts  Options
	now   time.Time
	err   error
	moves []*scene.Move
}

func New(host Host, opts Options) *Script {
	if opts.InstructionLimit <= 0 {
		opts.InstructionLimit = DefaultInstructionLimit
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}
	s := &Script{host: host, opts: opts, now: opts.Start}
	if s.opts.Wait == nil {
		s.opts.Wait = s.simulatedWait
	}
	s.L = lua.NewState()
	s.L.OpenLibs()
	s.pushBoard()
	return s
}

func (s *Script) simulatedWait(d time.Duration) time.Time {
	s.now = s.now.Add(d)
	s.host.Advance(s.now)
	return s.now
}

// Now is the script's clock.
func (s *Script) Now() time.Time {
	return s.now
}

// Moves lists every move the script started, in order.
func (s *Script) Moves() []*scene.Move {
	return s.moves
}

func (s *Script) Close() {
	s.L.Close()
}

// Run executes source. The first failed Board call aborts the remaining
// Board calls and is returned.
func (s *Script) Run(source string) error {
	s.err = nil
	s.L.SetExecutionLimit(s.opts.InstructionLimit)
	if err := s.L.DoString(source); err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	return s.err
}

func (s *Script) RunFile(path string) error {
	prog, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	logging.Info("running script", "path", path)
	if err := s.Run(string(prog)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (s *Script) fail(name string, err error) {
	if s.err == nil {
		s.err = fmt.Errorf("Board.%s: %w", name, err)
	}
	logging.Error("script call failed", "func", name, "err", err)
}

// checkParams reports whether the call should go ahead: no earlier call
// failed and the arguments are 'want' numbers, or a table for Spawn.
func (s *Script) checkParams(L *lua.State, name string, want int) bool {
	if s.err != nil {
		return false
	}
	if L.GetTop() != want {
		s.fail(name, fmt.Errorf("want %d arguments, got %d: %w", want, L.GetTop(), ErrScript))
		return false
	}
	for i := 1; i <= want; i++ {
		if name == "Spawn" {
			if !L.IsTable(i) {
				s.fail(name, fmt.Errorf("argument %d must be a table: %w", i, ErrScript))
				return false
			}
			continue
		}
		if !L.IsNumber(i) {
			s.fail(name, fmt.Errorf("argument %d must be a number: %w", i, ErrScript))
			return false
		}
	}
	return true
}

func (s *Script) loaded(name string) func(error) {
	return func(err error) {
		if err != nil {
			logging.Warn("script model load failed", "func", name, "err", err)
		}
	}
}

func (s *Script) pushBoard() {
	L := s.L
	L.NewTable()
	for name, fn := range map[string]lua.LuaGoFunction{
		"Spawn":  s.spawn,
		"Move":   s.move,
		"Buy":    s.buy,
		"House":  s.house,
		"Hotel":  s.hotel,
		"Wait":   s.wait,
		"Tile":   s.tile,
		"Moving": s.moving,
	} {
		L.PushString(name)
		L.PushGoFunction(fn)
		L.SetTable(-3)
	}
	L.PushString("Tiles")
	L.PushInteger(board.TileCount)
	L.SetTable(-3)
	L.SetGlobal("Board")
}

func (s *Script) spawn(L *lua.State) int {
	if !s.checkParams(L, "Spawn", 1) {
		return 0
	}
	var tiles []board.TileIndex
	for i := int64(1); ; i++ {
		L.PushInteger(i)
		L.GetTable(1)
		if L.IsNil(-1) {
			L.Pop(1)
			break
		}
		if !L.IsNumber(-1) {
			L.Pop(1)
			s.fail("Spawn", fmt.Errorf("entry %d must be a number: %w", i, ErrScript))
			return 0
		}
		tiles = append(tiles, board.TileIndex(L.ToInteger(-1)))
		L.Pop(1)
	}
	if err := s.host.SpawnPlayers(tiles, s.loaded("Spawn")); err != nil {
		s.fail("Spawn", err)
	}
	return 0
}

func (s *Script) move(L *lua.State) int {
	if !s.checkParams(L, "Move", 2) {
		return 0
	}
	slot := L.ToInteger(1)
	tile := board.TileIndex(L.ToInteger(2))
	m, err := s.host.MovePlayer(slot, tile, s.now)
	if err != nil {
		s.fail("Move", err)
		return 0
	}
	s.moves = append(s.moves, m)
	return 0
}

func (s *Script) buy(L *lua.State) int {
	if !s.checkParams(L, "Buy", 2) {
		return 0
	}
	if err := s.host.BuyProperty(L.ToInteger(1), board.TileIndex(L.ToInteger(2)), s.loaded("Buy")); err != nil {
		s.fail("Buy", err)
	}
	return 0
}

func (s *Script) house(L *lua.State) int {
	if !s.checkParams(L, "House", 1) {
		return 0
	}
	if err := s.host.BuildHouse(board.TileIndex(L.ToInteger(1)), s.loaded("House")); err != nil {
		s.fail("House", err)
	}
	return 0
}

func (s *Script) hotel(L *lua.State) int {
	if !s.checkParams(L, "Hotel", 1) {
		return 0
	}
	if err := s.host.BuildHotel(board.TileIndex(L.ToInteger(1)), s.loaded("Hotel")); err != nil {
		s.fail("Hotel", err)
	}
	return 0
}

func (s *Script) wait(L *lua.State) int {
	if !s.checkParams(L, "Wait", 1) {
		return 0
	}
	ms := L.ToNumber(1)
	if ms < 0 {
		s.fail("Wait", fmt.Errorf("negative wait %v: %w", ms, ErrScript))
		return 0
	}
	s.now = s.opts.Wait(time.Duration(ms * float64(time.Millisecond)))
	return 0
}

func (s *Script) tile(L *lua.State) int {
	if !s.checkParams(L, "Tile", 1) {
		return 0
	}
	obs, ok := s.host.(Observer)
	if !ok {
		L.PushNil()
		return 1
	}
	t, ok := obs.PlayerTile(L.ToInteger(1))
	if !ok {
		L.PushNil()
		return 1
	}
	L.PushInteger(int64(t))
	return 1
}

func (s *Script) moving(L *lua.State) int {
	if !s.checkParams(L, "Moving", 1) {
		return 0
	}
	obs, ok := s.host.(Observer)
	L.PushBoolean(ok && obs.Moving(L.ToInteger(1)))
	return 1
}
