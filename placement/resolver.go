package placement

import (
	"fmt"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/mathgl"
)

// Request describes one entity to place: which tile it is on, what it is,
// how many entities of its kind share the tile and which of those it is.
type Request struct {
	Tile  board.TileIndex
	Kind  board.EntityKind
	Total int
	Slot  int
}

var ErrInvalidRequest = fmt.Errorf("invalid placement request: %w", board.ErrInvalidArgument)

func (req Request) validate() error {
	if !req.Tile.Valid() {
		return fmt.Errorf("tile %d: %w", req.Tile, ErrInvalidRequest)
	}
	if !req.Kind.Valid() {
		return fmt.Errorf("kind %v: %w", req.Kind, ErrInvalidRequest)
	}
	if req.Total < 1 {
		return fmt.Errorf("total %d: %w", req.Total, ErrInvalidRequest)
	}
	if req.Slot < 0 || req.Slot >= req.Total {
		return fmt.Errorf("slot %d of %d: %w", req.Slot, req.Total, ErrInvalidRequest)
	}
	if req.Kind == board.KindPlayer && req.Total > board.MaxPlayers {
		return fmt.Errorf("%d players on one tile: %w", req.Total, ErrInvalidRequest)
	}
	return nil
}

// edgeFrame describes one side of the board in grid space: 'out' points
// from the board centre towards the outer edge, 'along' points in the
// direction of play.
type edgeFrame struct {
	out, along mathgl.Vec3
}

var frames = map[board.Side]edgeFrame{
	board.SideBottom: {out: mathgl.Vec3{Z: 1}, along: mathgl.Vec3{X: -1}},
	board.SideLeft:   {out: mathgl.Vec3{X: -1}, along: mathgl.Vec3{Z: -1}},
	board.SideTop:    {out: mathgl.Vec3{Z: -1}, along: mathgl.Vec3{X: 1}},
	board.SideRight:  {out: mathgl.Vec3{X: 1}, along: mathgl.Vec3{Z: 1}},
}

func (f edgeFrame) offset(perp, lateral float32) mathgl.Vec3 {
	out := f.out
	out.Scale(perp)
	along := f.along
	along.Scale(lateral)
	out.Add(&along)
	return out
}

// Resolver turns placement requests into world positions. It has no state
// besides its Layout, so the same request always yields the same position.
type Resolver struct {
	layout Layout
}

func NewResolver(layout Layout) (*Resolver, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{layout: layout}, nil
}

func (r *Resolver) Layout() Layout {
	return r.layout
}

func gridCenter(t board.TileIndex) mathgl.Vec3 {
	pos := board.TileToGrid(t)
	return mathgl.Vec3{X: float32(pos.Col) + 0.5, Z: float32(pos.Row) + 0.5}
}

func (r *Resolver) toWorld(v mathgl.Vec3) mathgl.Vec3 {
	v.Scale(r.layout.TileSize)
	v.Y = 0
	return v
}

// TileCenter is the world position of the middle of t.
func (r *Resolver) TileCenter(t board.TileIndex) (mathgl.Vec3, error) {
	if !t.Valid() {
		return mathgl.Vec3{}, fmt.Errorf("tile %d: %w", t, board.ErrInvalidTile)
	}
	return r.toWorld(gridCenter(t)), nil
}

// Resolve returns the world position for req.
func (r *Resolver) Resolve(req Request) (mathgl.Vec3, error) {
	if err := req.validate(); err != nil {
		return mathgl.Vec3{}, err
	}
	pos := gridCenter(req.Tile)
	off := r.gridOffset(req)
	pos.Add(&off)
	return r.toWorld(pos), nil
}

// Offset is Resolve relative to the tile centre, in world units.
func (r *Resolver) Offset(req Request) (mathgl.Vec3, error) {
	if err := req.validate(); err != nil {
		return mathgl.Vec3{}, err
	}
	return r.toWorld(r.gridOffset(req)), nil
}

func (r *Resolver) gridOffset(req Request) mathgl.Vec3 {
	frame := frames[board.SideOf(req.Tile)]
	l := r.layout

	switch req.Kind {
	case board.KindPlayer:
		if req.Total == 1 {
			return mathgl.Vec3{}
		}
		perp := l.PlayerMargin
		lateral := l.PlayerOffset
		if req.Slot%2 != 0 {
			lateral = -lateral
		}
		if req.Total > 2 {
			if req.Slot < 2 {
				perp -= l.PlayerOffset
			} else {
				perp += l.PlayerOffset
			}
		}
		return frame.offset(perp, lateral)

	case board.KindDeed:
		return frame.offset(-l.PropertyTopMargin, l.PropertyLeftMargin)

	case board.KindPropertyMarker:
		// Markers form a row starting beside the deed; the first one is a
		// spacing plus the deed gap away from it, each next one a spacing
		// further.
		row := float32(req.Slot + 1)
		lateral := l.PropertyLeftMargin - row*l.PropertySpacing - l.PropertyLeftOffset
		return frame.offset(-l.PropertyTopMargin, lateral)
	}
	return mathgl.Vec3{}
}
