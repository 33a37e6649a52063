package scene

import (
	"fmt"
	"time"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/logging"
	"github.com/MobRulesGames/boardscene/placement"
	"github.com/MobRulesGames/mathgl"
	"github.com/runningwild/glop/util/algorithm"
)

const DefaultStepInterval = 200 * time.Millisecond

type Options struct {
	Scene  Scene
	Models ModelSource

	// Zero means placement.DefaultLayout().
	Layout placement.Layout

	// How long a token rests on each tile it walks over. Zero means
	// DefaultStepInterval.
	StepInterval time.Duration

	Cues Cues
}

type token struct {
	slot int

	// Nil until the model has loaded.
	handle Handle

	// The tile the token is drawn on. While moving this lags behind the
	// tile the grid has it registered on.
	tile board.TileIndex

	move *Move
	next step
}

// Coordinator keeps the OccupancyGrid and the Scene in agreement. It is not
// safe for concurrent use; all calls are expected from one event loop.
type Coordinator struct {
	scene    Scene
	models   ModelSource
	cues     Cues
	interval time.Duration

	resolver *placement.Resolver
	grid     *board.OccupancyGrid

	players  [board.MaxPlayers]*token
	estates  map[board.TileIndex]*estate
	steps    *stepQueue
	attached []Handle
}

func NewCoordinator(opts Options) (*Coordinator, error) {
	if opts.Scene == nil {
		return nil, ErrMissingScene
	}
	if opts.Models == nil {
		return nil, ErrMissingModels
	}
	if opts.Layout == (placement.Layout{}) {
		opts.Layout = placement.DefaultLayout()
	}
	resolver, err := placement.NewResolver(opts.Layout)
	if err != nil {
		return nil, err
	}
	if opts.StepInterval <= 0 {
		opts.StepInterval = DefaultStepInterval
	}
	if opts.Cues == nil {
		opts.Cues = noCues{}
	}
	return &Coordinator{
		scene:    opts.Scene,
		models:   opts.Models,
		cues:     opts.Cues,
		interval: opts.StepInterval,
		resolver: resolver,
		grid:     board.NewOccupancyGrid(),
		estates:  make(map[board.TileIndex]*estate),
		steps:    newStepQueue(),
	}, nil
}

// Grid is the coordinator's occupancy record. Callers must treat it as
// read-only.
func (c *Coordinator) Grid() *board.OccupancyGrid {
	return c.grid
}

func (c *Coordinator) Resolver() *placement.Resolver {
	return c.resolver
}

func (c *Coordinator) player(slot int) (*token, error) {
	if slot < 0 || slot >= board.MaxPlayers || c.players[slot] == nil {
		return nil, fmt.Errorf("slot %d: %w", slot, ErrUnknownPlayer)
	}
	return c.players[slot], nil
}

// PlayerTile is the tile the player's token is currently drawn on.
func (c *Coordinator) PlayerTile(slot int) (board.TileIndex, bool) {
	tok, err := c.player(slot)
	if err != nil {
		return board.NoTile, false
	}
	return tok.tile, true
}

func (c *Coordinator) Moving(slot int) bool {
	tok, err := c.player(slot)
	return err == nil && tok.move != nil
}

func (c *Coordinator) attach(h Handle, pos mathgl.Vec3) {
	c.scene.Attach(h, pos)
	c.attached = append(c.attached, h)
}

func (c *Coordinator) detach(h Handle) {
	c.scene.Detach(h)
	algorithm.Choose(&c.attached, func(a Handle) bool {
		return a != h
	})
}

// Attached lists every handle the coordinator has put in the scene.
func (c *Coordinator) Attached() []Handle {
	return append([]Handle(nil), c.attached...)
}

// SpawnPlayers puts one token per entry of tiles on the board, slot i on
// tiles[i]. done is called once every model has loaded, with the first load
// error if there was one.
func (c *Coordinator) SpawnPlayers(tiles []board.TileIndex, done func(error)) error {
	if len(tiles) == 0 || len(tiles) > board.MaxPlayers {
		return fmt.Errorf("%d players: %w", len(tiles), board.ErrInvalidSlot)
	}
	for _, tok := range c.players {
		if tok != nil {
			return ErrAlreadySpawned
		}
	}
	for i, t := range tiles {
		if !t.Valid() {
			return fmt.Errorf("player %d on tile %d: %w", i, t, board.ErrInvalidTile)
		}
	}

	for i, t := range tiles {
		if err := c.grid.SetPlayerPresence(t, i, true); err != nil {
			return err
		}
		c.players[i] = &token{slot: i, tile: t}
	}

	pending := len(tiles)
	var firstErr error
	for i := range tiles {
		tok := c.players[i]
		c.models.Load(fmt.Sprintf("players/%d", i), func(h Handle, err error) {
			if err != nil {
				logging.Error("player model failed to load", "slot", tok.slot, "err", err)
				if firstErr == nil {
					firstErr = err
				}
			} else if c.players[tok.slot] == tok {
				tok.handle = h
				c.placeToken(tok, true)
				c.relayout(tok.tile)
			}
			pending--
			if pending == 0 && done != nil {
				done(firstErr)
			}
		})
	}
	return nil
}

// tokenPosition is where tok belongs right now. A walking token is an extra
// occupant of whatever tile it is passing over.
func (c *Coordinator) tokenPosition(tok *token) (mathgl.Vec3, error) {
	req := placement.Request{Tile: tok.tile, Kind: board.KindPlayer}
	if tok.move != nil {
		present, err := c.grid.OccupantCountAt(tok.tile, board.KindPlayer)
		if err != nil {
			return mathgl.Vec3{}, err
		}
		if present >= board.MaxPlayers {
			present = board.MaxPlayers - 1
		}
		req.Total = present + 1
		req.Slot = present
	} else {
		slots, err := c.grid.PlayersAt(tok.tile)
		if err != nil {
			return mathgl.Vec3{}, err
		}
		rank, _ := c.grid.SlotRank(tok.tile, tok.slot)
		req.Total = len(slots)
		req.Slot = rank
	}
	return c.resolver.Resolve(req)
}

func (c *Coordinator) placeToken(tok *token, attach bool) {
	if tok.handle == nil {
		return
	}
	pos, err := c.tokenPosition(tok)
	if err != nil {
		logging.Error("cannot place player", "slot", tok.slot, "tile", tok.tile, "err", err)
		return
	}
	if attach {
		c.attach(tok.handle, pos)
	} else {
		c.scene.SetPosition(tok.handle, pos)
	}
}

// relayout repositions every resting token registered on t.
func (c *Coordinator) relayout(t board.TileIndex) {
	slots, err := c.grid.PlayersAt(t)
	if err != nil {
		return
	}
	for _, slot := range slots {
		tok := c.players[slot]
		if tok == nil || tok.move != nil {
			continue
		}
		c.placeToken(tok, false)
	}
}

// MovePlayer registers the player on 'to' straight away and then walks its
// token there one tile per step interval, starting from 'now'. A move that
// is still in progress for the same player is replaced: it completes with
// ErrMoveReplaced and the new walk starts from wherever the token is.
func (c *Coordinator) MovePlayer(slot int, to board.TileIndex, now time.Time) (*Move, error) {
	tok, err := c.player(slot)
	if err != nil {
		return nil, err
	}
	if !to.Valid() {
		return nil, fmt.Errorf("tile %d: %w", to, board.ErrInvalidTile)
	}

	registered := tok.tile
	if prev := tok.move; prev != nil {
		registered = prev.to
		c.steps.remove(tok.next)
		tok.move = nil
		prev.finish(ErrMoveReplaced)
		logging.Debug("move replaced", "slot", slot, "at", tok.tile, "was", prev.to, "now", to)
	}

	if err := c.grid.SetPlayerPresence(registered, slot, false); err != nil {
		return nil, err
	}
	if err := c.grid.SetPlayerPresence(to, slot, true); err != nil {
		return nil, err
	}
	c.relayout(registered)

	move := newMove(slot, tok.tile, to)
	if tok.tile == to {
		c.relayout(to)
		move.finish(nil)
		return move, nil
	}
	tok.move = move
	tok.next = step{due: now.Add(c.interval), slot: slot}
	c.steps.push(tok.next)
	// The token is now a transient occupant of the tile it stands on.
	c.placeToken(tok, false)
	logging.Debug("move started", "slot", slot, "from", tok.tile, "to", to, "steps", board.Distance(tok.tile, to))
	return move, nil
}

// CancelMove stops a walking player where it stands and registers it on
// that tile. It reports whether there was a move to cancel.
func (c *Coordinator) CancelMove(slot int) bool {
	tok, err := c.player(slot)
	if err != nil || tok.move == nil {
		return false
	}
	move := tok.move
	c.steps.remove(tok.next)
	tok.move = nil

	if err := c.grid.SetPlayerPresence(move.to, slot, false); err != nil {
		logging.Error("cannot unregister player", "slot", slot, "tile", move.to, "err", err)
	}
	if err := c.grid.SetPlayerPresence(tok.tile, slot, true); err != nil {
		logging.Error("cannot register player", "slot", slot, "tile", tok.tile, "err", err)
	}
	c.relayout(move.to)
	c.relayout(tok.tile)

	move.finish(ErrMoveCanceled)
	logging.Debug("move canceled", "slot", slot, "at", tok.tile)
	return true
}

// Advance runs every step that is due at 'now'. Steps keep their own
// cadence, so a late call catches up by running several.
func (c *Coordinator) Advance(now time.Time) {
	for {
		s, ok := c.steps.popDue(now)
		if !ok {
			return
		}
		tok := c.players[s.slot]
		if tok == nil || tok.move == nil {
			continue
		}
		c.stepToken(tok, s.due)
	}
}

func (c *Coordinator) stepToken(tok *token, due time.Time) {
	move := tok.move
	tok.tile = tok.tile.Next()
	c.cues.Step(tok.slot, tok.tile)
	logging.Trace("player step", "slot", tok.slot, "tile", tok.tile)

	if tok.tile != move.to {
		c.placeToken(tok, false)
		tok.next = step{due: due.Add(c.interval), slot: tok.slot}
		c.steps.push(tok.next)
		return
	}

	tok.move = nil
	c.relayout(move.to)
	move.finish(nil)
	logging.Debug("move finished", "slot", tok.slot, "tile", move.to)
}

// Pending is the number of steps waiting to run.
func (c *Coordinator) Pending() int {
	return c.steps.Len()
}

// Clear detaches everything from the scene, completes walking players'
// moves with ErrMoveCanceled and forgets all players and properties.
func (c *Coordinator) Clear() {
	for i, tok := range c.players {
		if tok == nil {
			continue
		}
		if tok.move != nil {
			c.steps.remove(tok.next)
			tok.move.finish(ErrMoveCanceled)
		}
		c.players[i] = nil
	}
	for len(c.attached) > 0 {
		c.detach(c.attached[len(c.attached)-1])
	}
	c.grid = board.NewOccupancyGrid()
	c.estates = make(map[board.TileIndex]*estate)
}
