package placement_test

import (
	"testing"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/placement"
	"github.com/MobRulesGames/mathgl"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-4

func givenAResolver(t *testing.T) *placement.Resolver {
	r, err := placement.NewResolver(placement.DefaultLayout())
	require.NoError(t, err)
	return r
}

func resolve(r *placement.Resolver, tile board.TileIndex, kind board.EntityKind, total, slot int) mathgl.Vec3 {
	pos, err := r.Resolve(placement.Request{Tile: tile, Kind: kind, Total: total, Slot: slot})
	So(err, ShouldBeNil)
	return pos
}

func offset(r *placement.Resolver, tile board.TileIndex, kind board.EntityKind, total, slot int) mathgl.Vec3 {
	off, err := r.Offset(placement.Request{Tile: tile, Kind: kind, Total: total, Slot: slot})
	So(err, ShouldBeNil)
	return off
}

func TestResolver(t *testing.T) {
	layout := placement.DefaultLayout()
	size := layout.TileSize

	Convey("a lone player stands on the tile centre", t, func() {
		r := givenAResolver(t)
		for i := 0; i < board.TileCount; i++ {
			tile := board.TileIndex(i)
			center, err := r.TileCenter(tile)
			So(err, ShouldBeNil)
			So(resolve(r, tile, board.KindPlayer, 1, 0), ShouldResemble, center)
		}
	})

	Convey("tile centres are in world units", t, func() {
		r := givenAResolver(t)
		center, err := r.TileCenter(0)
		So(err, ShouldBeNil)
		So(center.X, ShouldAlmostEqual, 10.5*size, tolerance)
		So(center.Y, ShouldEqual, 0)
		So(center.Z, ShouldAlmostEqual, 10.5*size, tolerance)

		center, err = r.TileCenter(20)
		So(err, ShouldBeNil)
		So(center.X, ShouldAlmostEqual, 0.5*size, tolerance)
		So(center.Z, ShouldAlmostEqual, 0.5*size, tolerance)
	})

	Convey("two players on the bottom edge", t, func() {
		r := givenAResolver(t)
		even := offset(r, 3, board.KindPlayer, 2, 0)
		odd := offset(r, 3, board.KindPlayer, 2, 1)

		Convey("are pushed towards the edge", func() {
			So(even.Z, ShouldAlmostEqual, layout.PlayerMargin*size, tolerance)
			So(odd.Z, ShouldAlmostEqual, layout.PlayerMargin*size, tolerance)
		})
		Convey("split by slot parity", func() {
			So(even.X, ShouldAlmostEqual, -layout.PlayerOffset*size, tolerance)
			So(odd.X, ShouldAlmostEqual, layout.PlayerOffset*size, tolerance)
		})
	})

	Convey("top and bottom are mirror images", t, func() {
		r := givenAResolver(t)
		for total := 2; total <= board.MaxPlayers; total++ {
			for slot := 0; slot < total; slot++ {
				top := offset(r, 25, board.KindPlayer, total, slot)
				bottom := offset(r, 5, board.KindPlayer, total, slot)
				So(top.Z, ShouldAlmostEqual, -bottom.Z, tolerance)
				So(top.X, ShouldAlmostEqual, -bottom.X, tolerance)
				So(top.Z, ShouldNotEqual, 0)
			}
		}
	})

	Convey("left and right are mirror images", t, func() {
		r := givenAResolver(t)
		for total := 2; total <= board.MaxPlayers; total++ {
			for slot := 0; slot < total; slot++ {
				left := offset(r, 15, board.KindPlayer, total, slot)
				right := offset(r, 35, board.KindPlayer, total, slot)
				So(left.X, ShouldAlmostEqual, -right.X, tolerance)
				So(left.Z, ShouldAlmostEqual, -right.Z, tolerance)
			}
		}
	})

	Convey("four players on GO", t, func() {
		r := givenAResolver(t)
		seen := []mathgl.Vec3{}
		for slot := 0; slot < 4; slot++ {
			pos := resolve(r, 0, board.KindPlayer, 4, slot)
			off := offset(r, 0, board.KindPlayer, 4, slot)

			So(off.Y, ShouldEqual, 0)
			So(abs(off.X), ShouldBeLessThanOrEqualTo, layout.PlayerOffset*size+tolerance)
			So(abs(off.Z), ShouldBeLessThanOrEqualTo, (layout.PlayerMargin+layout.PlayerOffset)*size+tolerance)

			for _, other := range seen {
				dx, dz := pos.X-other.X, pos.Z-other.Z
				So(dx*dx+dz*dz, ShouldBeGreaterThan, (layout.PlayerOffset*size)*(layout.PlayerOffset*size))
			}
			seen = append(seen, pos)
		}
	})

	Convey("property markers on tile 5", t, func() {
		r := givenAResolver(t)
		first := resolve(r, 5, board.KindPropertyMarker, 2, 0)
		second := resolve(r, 5, board.KindPropertyMarker, 2, 1)

		Convey("differ by exactly one spacing along the edge", func() {
			So(second.Z, ShouldAlmostEqual, first.Z, tolerance)
			So(abs(second.X-first.X), ShouldAlmostEqual, layout.PropertySpacing*size, tolerance)
		})

		Convey("sit inward of the tile centre", func() {
			center, err := r.TileCenter(5)
			So(err, ShouldBeNil)
			So(first.Z, ShouldAlmostEqual, center.Z-layout.PropertyTopMargin*size, tolerance)
		})

		Convey("keep clear of the deed", func() {
			deed := resolve(r, 5, board.KindDeed, 1, 0)
			gap := (layout.PropertySpacing + layout.PropertyLeftOffset) * size
			So(abs(first.X-deed.X), ShouldAlmostEqual, gap, tolerance)
			So(first.Z, ShouldAlmostEqual, deed.Z, tolerance)
		})
	})

	Convey("the same request always gives the same answer", t, func() {
		r := givenAResolver(t)
		req := placement.Request{Tile: 33, Kind: board.KindPlayer, Total: 3, Slot: 2}
		a, err := r.Resolve(req)
		So(err, ShouldBeNil)
		b, err := r.Resolve(req)
		So(err, ShouldBeNil)
		So(a, ShouldResemble, b)
	})
}

func TestResolverRejectsBadRequests(t *testing.T) {
	r := givenAResolver(t)
	bad := []placement.Request{
		{Tile: 40, Kind: board.KindPlayer, Total: 1, Slot: 0},
		{Tile: -1, Kind: board.KindPlayer, Total: 1, Slot: 0},
		{Tile: 3, Kind: board.KindPlayer, Total: 2, Slot: 2},
		{Tile: 3, Kind: board.KindPlayer, Total: 0, Slot: 0},
		{Tile: 3, Kind: board.KindPlayer, Total: 2, Slot: -1},
		{Tile: 3, Kind: board.KindPlayer, Total: 5, Slot: 4},
		{Tile: 3, Kind: board.EntityKind(7), Total: 1, Slot: 0},
	}
	for _, req := range bad {
		_, err := r.Resolve(req)
		assert.ErrorIs(t, err, placement.ErrInvalidRequest, "%+v", req)
		assert.ErrorIs(t, err, board.ErrInvalidArgument, "%+v", req)

		_, err = r.Offset(req)
		assert.ErrorIs(t, err, placement.ErrInvalidRequest, "%+v", req)
	}
}

func TestLayoutValidation(t *testing.T) {
	assert.NoError(t, placement.DefaultLayout().Validate())

	l := placement.DefaultLayout()
	l.TileSize = 0
	_, err := placement.NewResolver(l)
	assert.ErrorIs(t, err, placement.ErrInvalidLayout)

	l = placement.DefaultLayout()
	l.PropertySpacing = -1
	assert.ErrorIs(t, l.Validate(), placement.ErrInvalidLayout)
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
