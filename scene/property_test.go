package scene_test

import (
	"errors"
	"testing"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/placement"
	"github.com/MobRulesGames/boardscene/scene"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperties(t *testing.T) {
	Convey("Properties on tile 5", t, func() {
		f := newFixture()
		layout := placement.DefaultLayout()

		Convey("cannot be built on before they are bought", func() {
			err := f.coord.BuildHouse(5, nil)
			So(errors.Is(err, scene.ErrNotOwned), ShouldBeTrue)
			err = f.coord.BuildHotel(5, nil)
			So(errors.Is(err, scene.ErrNotOwned), ShouldBeTrue)
		})

		Convey("once bought", func() {
			var result error = errors.New("not called")
			So(f.coord.BuyProperty(2, 5, func(err error) { result = err }), ShouldBeNil)
			So(result, ShouldBeNil)
			So(f.scene.named("deed"), ShouldHaveLength, 1)

			prop, _ := f.coord.Grid().Property(5)
			So(prop.Owner, ShouldEqual, 2)

			Convey("lines houses up one spacing apart", func() {
				So(f.coord.BuildHouse(5, nil), ShouldBeNil)
				So(f.coord.BuildHouse(5, nil), ShouldBeNil)
				houses := f.scene.named("house")
				So(houses, ShouldHaveLength, 2)

				first := f.scene.positions[houses[0]]
				second := f.scene.positions[houses[1]]
				So(first.Z, ShouldAlmostEqual, second.Z, 0.0001)
				dx := first.X - second.X
				if dx < 0 {
					dx = -dx
				}
				So(dx, ShouldAlmostEqual, layout.PropertySpacing*layout.TileSize, 0.0001)

				prop, _ := f.coord.Grid().Property(5)
				So(prop.Houses, ShouldEqual, 2)
			})

			Convey("allows at most four houses", func() {
				for i := 0; i < 4; i++ {
					So(f.coord.BuildHouse(5, nil), ShouldBeNil)
				}
				err := f.coord.BuildHouse(5, nil)
				So(errors.Is(err, scene.ErrTooManyHouses), ShouldBeTrue)
				So(f.scene.named("house"), ShouldHaveLength, 4)
			})

			Convey("swaps houses for a hotel", func() {
				So(f.coord.BuildHouse(5, nil), ShouldBeNil)
				housePos := f.scene.positions[f.scene.named("house")[0]]
				So(f.coord.BuildHouse(5, nil), ShouldBeNil)

				So(f.coord.BuildHotel(5, nil), ShouldBeNil)
				So(f.scene.named("house"), ShouldBeEmpty)
				hotels := f.scene.named("hotel")
				So(hotels, ShouldHaveLength, 1)
				So(f.scene.positions[hotels[0]], ShouldResemble, housePos)

				prop, _ := f.coord.Grid().Property(5)
				So(prop.Hotel, ShouldBeTrue)
				So(prop.Houses, ShouldEqual, 0)
				So(prop.Markers(), ShouldEqual, 1)

				So(errors.Is(f.coord.BuildHouse(5, nil), scene.ErrHasHotel), ShouldBeTrue)
				So(errors.Is(f.coord.BuildHotel(5, nil), scene.ErrHasHotel), ShouldBeTrue)
			})

			Convey("sold again loses its buildings", func() {
				So(f.coord.BuildHouse(5, nil), ShouldBeNil)
				So(f.coord.BuyProperty(1, 5, nil), ShouldBeNil)
				So(f.scene.named("house"), ShouldBeEmpty)
				So(f.scene.named("deed"), ShouldHaveLength, 1)
				prop, _ := f.coord.Grid().Property(5)
				So(prop.Owner, ShouldEqual, 1)
				So(prop.Houses, ShouldEqual, 0)
			})

			So(f.cues.got[0], ShouldResemble, cue{kind: "deed", slot: -1, tile: 5})
		})
	})
}

func TestStaleMarkerLoads(t *testing.T) {
	models := &fakeModels{}
	fs := newFakeScene()
	coord, err := scene.NewCoordinator(scene.Options{Scene: fs, Models: models})
	require.NoError(t, err)

	require.NoError(t, coord.BuyProperty(0, 12, nil))
	models.deferred = true

	var houseErr error
	require.NoError(t, coord.BuildHouse(12, func(err error) { houseErr = err }))
	require.NoError(t, coord.BuildHotel(12, nil))
	models.flush()

	assert.ErrorIs(t, houseErr, scene.ErrStale)
	assert.Empty(t, fs.named("house"))
	assert.Len(t, fs.named("hotel"), 1)
}

func TestClear(t *testing.T) {
	fs := newFakeScene()
	coord, err := scene.NewCoordinator(scene.Options{Scene: fs, Models: &fakeModels{}})
	require.NoError(t, err)

	require.NoError(t, coord.SpawnPlayers([]board.TileIndex{0, 1}, nil))
	require.NoError(t, coord.BuyProperty(0, 3, nil))
	move, err := coord.MovePlayer(0, 9, start)
	require.NoError(t, err)
	assert.Len(t, coord.Attached(), 3)

	coord.Clear()
	assert.Empty(t, fs.positions)
	assert.Empty(t, coord.Attached())
	assert.ErrorIs(t, move.Err(), scene.ErrMoveCanceled)
	assert.Equal(t, 0, coord.Pending())
	_, ok := coord.PlayerTile(0)
	assert.False(t, ok)
	assert.NoError(t, coord.SpawnPlayers([]board.TileIndex{0}, nil))
}

func TestFailedHouseIsTakenBack(t *testing.T) {
	resolver, err := placement.NewResolver(placement.DefaultLayout())
	require.NoError(t, err)
	firstPlace, err := resolver.Resolve(placement.Request{Tile: 5, Kind: board.KindPropertyMarker, Total: 1, Slot: 0})
	require.NoError(t, err)

	setup := func(t *testing.T) (*scene.Coordinator, *fakeModels, *fakeScene) {
		models := &fakeModels{fail: map[string]error{}}
		fs := newFakeScene()
		coord, err := scene.NewCoordinator(scene.Options{Scene: fs, Models: models})
		require.NoError(t, err)
		require.NoError(t, coord.BuyProperty(0, 5, nil))
		return coord, models, fs
	}

	t.Run("still allows four houses", func(t *testing.T) {
		coord, models, fs := setup(t)
		broken := errors.New("no such file")

		models.fail["house"] = broken
		var got error
		require.NoError(t, coord.BuildHouse(5, func(err error) { got = err }))
		assert.ErrorIs(t, got, broken)
		prop, _ := coord.Grid().Property(5)
		assert.Equal(t, 0, prop.Houses)

		delete(models.fail, "house")
		for i := 0; i < 4; i++ {
			require.NoError(t, coord.BuildHouse(5, nil))
		}
		assert.ErrorIs(t, coord.BuildHouse(5, nil), scene.ErrTooManyHouses)
		assert.Len(t, fs.named("house"), 4)
		prop, _ = coord.Grid().Property(5)
		assert.Equal(t, 4, prop.Houses)
	})

	t.Run("leaves no gap in the row", func(t *testing.T) {
		coord, models, fs := setup(t)
		models.deferred = true

		models.fail["house"] = errors.New("no such file")
		require.NoError(t, coord.BuildHouse(5, nil))
		delete(models.fail, "house")
		require.NoError(t, coord.BuildHouse(5, nil))
		models.flush()

		houses := fs.named("house")
		require.Len(t, houses, 1)
		assert.Equal(t, firstPlace, fs.positions[houses[0]])
		prop, _ := coord.Grid().Property(5)
		assert.Equal(t, 1, prop.Houses)
	})

	t.Run("is left alone once the tile changed hands", func(t *testing.T) {
		coord, models, _ := setup(t)
		models.deferred = true

		models.fail["house"] = errors.New("no such file")
		require.NoError(t, coord.BuildHouse(5, nil))
		models.deferred = false
		delete(models.fail, "house")
		require.NoError(t, coord.BuyProperty(1, 5, nil))
		require.NoError(t, coord.BuildHouse(5, nil))
		models.flush()

		prop, _ := coord.Grid().Property(5)
		assert.Equal(t, 1, prop.Owner)
		assert.Equal(t, 1, prop.Houses)
	})
}
