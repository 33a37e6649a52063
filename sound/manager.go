//go:build !nosound

package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/logging"
	"github.com/MobRulesGames/boardscene/scene"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Cues beeps when a token steps onto a tile or something gets built. Until
// Init succeeds every cue is dropped.
type Cues struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
}

var _ scene.Cues = (*Cues)(nil)

func NewCues(sampleRate int) *Cues {
	return &Cues{
		rate:  beep.SampleRate(sampleRate),
		mixer: &beep.Mixer{},
	}
}

// Init opens the speaker. Callers should treat a failure as "no sound" rather
// than as fatal.
func (c *Cues) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if c.rate <= 0 {
		return fmt.Errorf("sample rate %d must be positive", c.rate)
	}
	if err := speaker.Init(c.rate, c.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	c.mixer.Clear()
	c.initialized = false
}

func (c *Cues) Step(slot int, tile board.TileIndex) {
	c.play(stepFrequency(slot, tile), stepLength)
}

func (c *Cues) Built(s scene.Structure, tile board.TileIndex) {
	c.play(builtFrequency(s), builtLength)
}

func (c *Cues) play(freq float64, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	s, err := tone(c.rate, freq, d)
	if err != nil {
		logging.Warn("dropping cue", "freq", freq, "err", err)
		return
	}
	c.mixer.Add(s)
}

func tone(rate beep.SampleRate, freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(rate.N(d), sine), nil
}
