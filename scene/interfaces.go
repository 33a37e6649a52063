package scene

import (
	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/mathgl"
)

// Handle is an opaque reference to a visual object owned by a Scene. Handles
// must be comparable.
type Handle interface{}

// Scene is whatever draws the board. The coordinator only ever tells it
// where things are.
type Scene interface {
	Attach(h Handle, pos mathgl.Vec3)
	Detach(h Handle)
	SetPosition(h Handle, pos mathgl.Vec3)
}

// ModelSource loads named models. done may be called synchronously.
type ModelSource interface {
	Load(name string, done func(Handle, error))
}

type Structure int

const (
	StructureDeed Structure = iota
	StructureHouse
	StructureHotel
)

func (s Structure) String() string {
	switch s {
	case StructureDeed:
		return "deed"
	case StructureHouse:
		return "house"
	case StructureHotel:
		return "hotel"
	}
	return "unknown"
}

// Cues are optional side effects, such as sounds, for scene events.
type Cues interface {
	Step(slot int, tile board.TileIndex)
	Built(s Structure, tile board.TileIndex)
}

type noCues struct{}

func (noCues) Step(int, board.TileIndex)        {}
func (noCues) Built(Structure, board.TileIndex) {}
