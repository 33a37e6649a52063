package journal

import (
	"fmt"
	"time"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/logging"
	"github.com/MobRulesGames/boardscene/scene"
)

// Target is what events are applied to; *scene.Coordinator is one.
type Target interface {
	SpawnPlayers(tiles []board.TileIndex, done func(error)) error
	MovePlayer(slot int, to board.TileIndex, now time.Time) (*scene.Move, error)
	BuyProperty(owner int, t board.TileIndex, done func(error)) error
	BuildHouse(t board.TileIndex, done func(error)) error
	BuildHotel(t board.TileIndex, done func(error)) error
	Advance(now time.Time)
}

// Longer than any walk around the board at any sensible step interval.
const replayMoveBudget = 24 * time.Hour

// Replay applies every event of session to target. Moves are driven to
// completion straight away on a private clock starting at 'from'.
func (j *Journal) Replay(session string, target Target, from time.Time) error {
	events, err := j.Events(session)
	if err != nil {
		return err
	}
	clock := from
	for _, e := range events {
		if err := apply(e, target, clock); err != nil {
			return fmt.Errorf("replaying event %d (%s): %w", e.Seq, e.Kind, err)
		}
		if e.Kind == KindMove {
			clock = clock.Add(replayMoveBudget)
			target.Advance(clock)
		}
	}
	logging.Info("journal replayed", "session", session, "events", len(events))
	return nil
}

func apply(e Event, target Target, now time.Time) error {
	tile := board.TileIndex(e.Tile)
	switch e.Kind {
	case KindSpawn:
		tiles, err := e.SpawnTiles()
		if err != nil {
			return err
		}
		return target.SpawnPlayers(tiles, nil)
	case KindMove:
		_, err := target.MovePlayer(e.Slot, tile, now)
		return err
	case KindBuy:
		return target.BuyProperty(e.Slot, tile, nil)
	case KindHouse:
		return target.BuildHouse(tile, nil)
	case KindHotel:
		return target.BuildHotel(tile, nil)
	}
	return fmt.Errorf("%q: %w", e.Kind, ErrUnknownKind)
}

// Recorder forwards calls to a Target and journals the ones that succeed.
type Recorder struct {
	Target
	journal *Journal
}

func NewRecorder(target Target, j *Journal) *Recorder {
	return &Recorder{Target: target, journal: j}
}

func (r *Recorder) record(e Event) {
	if err := r.journal.Record(e); err != nil {
		logging.Error("journal write failed", "kind", e.Kind, "err", err)
	}
}

func (r *Recorder) SpawnPlayers(tiles []board.TileIndex, done func(error)) error {
	if err := r.Target.SpawnPlayers(tiles, done); err != nil {
		return err
	}
	r.record(Event{Kind: KindSpawn, Tiles: encodeTiles(tiles)})
	return nil
}

func (r *Recorder) MovePlayer(slot int, to board.TileIndex, now time.Time) (*scene.Move, error) {
	move, err := r.Target.MovePlayer(slot, to, now)
	if err != nil {
		return nil, err
	}
	r.record(Event{Kind: KindMove, Slot: slot, Tile: int(to), At: now})
	return move, nil
}

func (r *Recorder) BuyProperty(owner int, t board.TileIndex, done func(error)) error {
	if err := r.Target.BuyProperty(owner, t, done); err != nil {
		return err
	}
	r.record(Event{Kind: KindBuy, Slot: owner, Tile: int(t)})
	return nil
}

func (r *Recorder) BuildHouse(t board.TileIndex, done func(error)) error {
	if err := r.Target.BuildHouse(t, done); err != nil {
		return err
	}
	r.record(Event{Kind: KindHouse, Tile: int(t)})
	return nil
}

func (r *Recorder) BuildHotel(t board.TileIndex, done func(error)) error {
	if err := r.Target.BuildHotel(t, done); err != nil {
		return err
	}
	r.record(Event{Kind: KindHotel, Tile: int(t)})
	return nil
}
