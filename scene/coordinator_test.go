package scene_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/logging/logtesting"
	"github.com/MobRulesGames/boardscene/placement"
	"github.com/MobRulesGames/boardscene/scene"
	"github.com/MobRulesGames/mathgl"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Unix(1000, 0)

func at(ms int) time.Time {
	return start.Add(time.Duration(ms) * time.Millisecond)
}

func isDone(m *scene.Move) bool {
	select {
	case <-m.Done():
		return true
	default:
		return false
	}
}

type fixture struct {
	scene  *fakeScene
	models *fakeModels
	cues   *fakeCues
	coord  *scene.Coordinator
}

func newFixture() *fixture {
	f := &fixture{scene: newFakeScene(), models: &fakeModels{}, cues: &fakeCues{}}
	coord, err := scene.NewCoordinator(scene.Options{
		Scene:  f.scene,
		Models: f.models,
		Cues:   f.cues,
	})
	So(err, ShouldBeNil)
	f.coord = coord
	return f
}

func (f *fixture) playerPos(slot int) mathgl.Vec3 {
	for h, pos := range f.scene.positions {
		if m := h.(*model); m.name == fmt.Sprintf("players/%d", slot) {
			return pos
		}
	}
	panic("player not in scene")
}

func (f *fixture) center(t board.TileIndex) mathgl.Vec3 {
	pos, err := f.coord.Resolver().TileCenter(t)
	So(err, ShouldBeNil)
	return pos
}

func TestSpawnPlayers(t *testing.T) {
	Convey("Spawning players", t, func() {
		f := newFixture()

		Convey("four on GO gives four distinct positions", func() {
			var result error = errors.New("not called")
			err := f.coord.SpawnPlayers([]board.TileIndex{0, 0, 0, 0}, func(err error) { result = err })
			So(err, ShouldBeNil)
			So(result, ShouldBeNil)
			So(f.models.requests, ShouldResemble, []string{"players/0", "players/1", "players/2", "players/3"})

			n, _ := f.coord.Grid().OccupantCountAt(0, board.KindPlayer)
			So(n, ShouldEqual, 4)

			seen := map[mathgl.Vec3]bool{}
			for slot := 0; slot < 4; slot++ {
				seen[f.playerPos(slot)] = true
			}
			So(len(seen), ShouldEqual, 4)
		})

		Convey("waits for every model before finishing", func() {
			f.models.deferred = true
			calls := 0
			f.coord.SpawnPlayers([]board.TileIndex{0, 5}, func(error) { calls++ })
			So(calls, ShouldEqual, 0)
			So(f.scene.positions, ShouldBeEmpty)

			f.models.flush()
			So(calls, ShouldEqual, 1)
			So(f.playerPos(1), ShouldResemble, f.center(5))
		})

		Convey("reports the first load failure", func() {
			boom := errors.New("boom")
			f.models.fail = map[string]error{"players/1": boom}
			var result error
			f.coord.SpawnPlayers([]board.TileIndex{0, 0}, func(err error) { result = err })
			So(result, ShouldEqual, boom)
			So(len(f.scene.positions), ShouldEqual, 1)
		})

		Convey("rejects bad input", func() {
			err := f.coord.SpawnPlayers([]board.TileIndex{0, 40}, nil)
			So(errors.Is(err, board.ErrInvalidArgument), ShouldBeTrue)

			err = f.coord.SpawnPlayers(make([]board.TileIndex, 5), nil)
			So(errors.Is(err, board.ErrInvalidArgument), ShouldBeTrue)

			So(f.coord.SpawnPlayers([]board.TileIndex{0}, nil), ShouldBeNil)
			So(f.coord.SpawnPlayers([]board.TileIndex{0}, nil), ShouldEqual, scene.ErrAlreadySpawned)
		})
	})
}

func TestMovePlayer(t *testing.T) {
	Convey("Moving a player", t, func() {
		f := newFixture()
		So(f.coord.SpawnPlayers([]board.TileIndex{0, 0}, nil), ShouldBeNil)

		move, err := f.coord.MovePlayer(0, 3, start)
		So(err, ShouldBeNil)

		Convey("registers the destination at once", func() {
			at3, _ := f.coord.Grid().PlayersAt(3)
			at0, _ := f.coord.Grid().PlayersAt(0)
			So(at3, ShouldResemble, []int{0})
			So(at0, ShouldResemble, []int{1})
			So(f.coord.Moving(0), ShouldBeTrue)
			So(f.coord.Moving(1), ShouldBeFalse)

			// The player left behind has the tile to itself now.
			So(f.playerPos(1), ShouldResemble, f.center(0))
		})

		Convey("takes one step per interval", func() {
			f.coord.Advance(at(199))
			tile, _ := f.coord.PlayerTile(0)
			So(tile, ShouldEqual, 0)

			f.coord.Advance(at(200))
			tile, _ = f.coord.PlayerTile(0)
			So(tile, ShouldEqual, 1)
			So(f.playerPos(0), ShouldResemble, f.center(1))
			So(isDone(move), ShouldBeFalse)

			f.coord.Advance(at(600))
			tile, _ = f.coord.PlayerTile(0)
			So(tile, ShouldEqual, 3)
			So(isDone(move), ShouldBeTrue)
			So(move.Err(), ShouldBeNil)
			So(f.coord.Moving(0), ShouldBeFalse)
			So(f.coord.Pending(), ShouldEqual, 0)
			So(f.playerPos(0), ShouldResemble, f.center(3))

			So(f.cues.got, ShouldResemble, []cue{
				{kind: "step", slot: 0, tile: 1},
				{kind: "step", slot: 0, tile: 2},
				{kind: "step", slot: 0, tile: 3},
			})
		})

		Convey("is replaced by a second move", func() {
			f.coord.Advance(at(400))
			second, err := f.coord.MovePlayer(0, 4, at(400))
			So(err, ShouldBeNil)

			So(isDone(move), ShouldBeTrue)
			So(move.Err(), ShouldEqual, scene.ErrMoveReplaced)
			So(second.From(), ShouldEqual, 2)

			at3, _ := f.coord.Grid().PlayersAt(3)
			at4, _ := f.coord.Grid().PlayersAt(4)
			So(at3, ShouldBeEmpty)
			So(at4, ShouldResemble, []int{0})

			f.coord.Advance(at(800))
			So(isDone(second), ShouldBeTrue)
			So(second.Err(), ShouldBeNil)
			tile, _ := f.coord.PlayerTile(0)
			So(tile, ShouldEqual, 4)
		})

		Convey("can be canceled mid-walk", func() {
			f.coord.Advance(at(400))
			var canceled bool
			lines := logtesting.CollectOutput(func() {
				canceled = f.coord.CancelMove(0)
			})
			So(canceled, ShouldBeTrue)
			for _, line := range lines {
				So(line, ShouldNotContainSubstring, "level=ERROR")
			}
			So(move.Err(), ShouldEqual, scene.ErrMoveCanceled)
			So(f.coord.CancelMove(0), ShouldBeFalse)

			at2, _ := f.coord.Grid().PlayersAt(2)
			at3, _ := f.coord.Grid().PlayersAt(3)
			So(at2, ShouldResemble, []int{0})
			So(at3, ShouldBeEmpty)
			So(f.playerPos(0), ShouldResemble, f.center(2))

			f.coord.Advance(at(5000))
			tile, _ := f.coord.PlayerTile(0)
			So(tile, ShouldEqual, 2)
		})

		Convey("shares the destination with players already there", func() {
			f.coord.Advance(at(600))
			other, err := f.coord.MovePlayer(1, 3, at(600))
			So(err, ShouldBeNil)
			f.coord.Advance(at(1200))
			So(isDone(other), ShouldBeTrue)

			layout := placement.DefaultLayout()
			So(f.playerPos(0), ShouldNotResemble, f.playerPos(1))
			p0, p1 := f.playerPos(0), f.playerPos(1)
			So(p0.Z, ShouldAlmostEqual, p1.Z, 0.0001)
			So(p1.X-p0.X, ShouldAlmostEqual, 2*layout.PlayerOffset*layout.TileSize, 0.0001)
		})
	})
}

func TestMoveWrapsAroundGo(t *testing.T) {
	Convey("A move from 38 to 1 passes GO", t, func() {
		f := newFixture()
		So(f.coord.SpawnPlayers([]board.TileIndex{38}, nil), ShouldBeNil)
		move, err := f.coord.MovePlayer(0, 1, start)
		So(err, ShouldBeNil)

		var tiles []board.TileIndex
		for ms := 200; !isDone(move); ms += 200 {
			f.coord.Advance(at(ms))
			tile, _ := f.coord.PlayerTile(0)
			tiles = append(tiles, tile)
		}
		So(tiles, ShouldResemble, []board.TileIndex{39, 0, 1})
	})
}

func TestLateAdvanceCatchesUp(t *testing.T) {
	f := &fixture{scene: newFakeScene(), models: &fakeModels{}}
	coord, err := scene.NewCoordinator(scene.Options{Scene: f.scene, Models: f.models, StepInterval: time.Second})
	require.NoError(t, err)
	require.NoError(t, coord.SpawnPlayers([]board.TileIndex{0, 10}, nil))

	a, err := coord.MovePlayer(0, 5, start)
	require.NoError(t, err)
	b, err := coord.MovePlayer(1, 12, start)
	require.NoError(t, err)

	coord.Advance(start.Add(10 * time.Second))
	assert.True(t, isDone(a))
	assert.True(t, isDone(b))
	tile, _ := coord.PlayerTile(1)
	assert.Equal(t, board.TileIndex(12), tile)
}

func TestMoveErrors(t *testing.T) {
	f := &fixture{scene: newFakeScene(), models: &fakeModels{}}
	coord, err := scene.NewCoordinator(scene.Options{Scene: f.scene, Models: f.models})
	require.NoError(t, err)

	_, err = coord.MovePlayer(0, 3, start)
	assert.ErrorIs(t, err, scene.ErrUnknownPlayer)
	assert.ErrorIs(t, err, board.ErrInvalidArgument)

	require.NoError(t, coord.SpawnPlayers([]board.TileIndex{0}, nil))
	_, err = coord.MovePlayer(0, 40, start)
	assert.ErrorIs(t, err, board.ErrInvalidTile)

	move, err := coord.MovePlayer(0, 0, start)
	require.NoError(t, err)
	assert.True(t, isDone(move))
	assert.NoError(t, move.Err())

	_, err = scene.NewCoordinator(scene.Options{Models: f.models})
	assert.Equal(t, scene.ErrMissingScene, err)
	_, err = scene.NewCoordinator(scene.Options{Scene: f.scene})
	assert.Equal(t, scene.ErrMissingModels, err)
	bad := placement.DefaultLayout()
	bad.TileSize = -1
	_, err = scene.NewCoordinator(scene.Options{Scene: f.scene, Models: f.models, Layout: bad})
	assert.ErrorIs(t, err, placement.ErrInvalidLayout)
}
