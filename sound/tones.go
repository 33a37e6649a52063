package sound

import (
	"time"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/scene"
)

const (
	stepLength  = 50 * time.Millisecond
	builtLength = 150 * time.Millisecond
)

// One note per player, C D E G.
var slotNotes = [...]float64{523.25, 587.33, 659.25, 783.99}

func stepFrequency(slot int, tile board.TileIndex) float64 {
	f := slotNotes[(slot%len(slotNotes)+len(slotNotes))%len(slotNotes)]
	if tile%10 == 0 {
		f *= 2
	}
	return f
}

func builtFrequency(s scene.Structure) float64 {
	switch s {
	case scene.StructureHouse:
		return 659.25
	case scene.StructureHotel:
		return 880
	}
	return 440
}
