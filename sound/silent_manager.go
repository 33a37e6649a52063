// Cues that never make a sound, for builds without an audio device.

//go:build nosound
// +build nosound

package sound

import (
	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/scene"
)

type Cues struct{}

var _ scene.Cues = (*Cues)(nil)

func NewCues(int) *Cues                              { return &Cues{} }
func (*Cues) Init() error                            { return nil }
func (*Cues) Close()                                 {}
func (*Cues) Step(int, board.TileIndex)              {}
func (*Cues) Built(scene.Structure, board.TileIndex) {}
