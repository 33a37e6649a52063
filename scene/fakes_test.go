package scene_test

import (
	"github.com/MobRulesGames/boardscene/board"
	"github.com/MobRulesGames/boardscene/scene"
	"github.com/MobRulesGames/mathgl"
)

type model struct {
	name string
	id   int
}

type fakeScene struct {
	positions map[scene.Handle]mathgl.Vec3
	detached  []scene.Handle
}

func newFakeScene() *fakeScene {
	return &fakeScene{positions: map[scene.Handle]mathgl.Vec3{}}
}

func (s *fakeScene) Attach(h scene.Handle, pos mathgl.Vec3) {
	s.positions[h] = pos
}

func (s *fakeScene) Detach(h scene.Handle) {
	delete(s.positions, h)
	s.detached = append(s.detached, h)
}

func (s *fakeScene) SetPosition(h scene.Handle, pos mathgl.Vec3) {
	if _, ok := s.positions[h]; ok {
		s.positions[h] = pos
	}
}

func (s *fakeScene) named(name string) []*model {
	var out []*model
	for h := range s.positions {
		if m := h.(*model); m.name == name {
			out = append(out, m)
		}
	}
	return out
}

// fakeModels hands out fresh models, either straight away or when flush is
// called.
type fakeModels struct {
	deferred bool
	fail     map[string]error
	queue    []func()
	requests []string
	next     int
}

func (f *fakeModels) Load(name string, done func(scene.Handle, error)) {
	f.requests = append(f.requests, name)
	f.next++
	m := &model{name: name, id: f.next}
	err := f.fail[name]
	call := func() {
		if err != nil {
			done(nil, err)
			return
		}
		done(m, nil)
	}
	if f.deferred {
		f.queue = append(f.queue, call)
		return
	}
	call()
}

func (f *fakeModels) flush() {
	queue := f.queue
	f.queue = nil
	for _, call := range queue {
		call()
	}
}

type cue struct {
	kind string
	slot int
	tile board.TileIndex
}

type fakeCues struct {
	got []cue
}

func (f *fakeCues) Step(slot int, tile board.TileIndex) {
	f.got = append(f.got, cue{kind: "step", slot: slot, tile: tile})
}

func (f *fakeCues) Built(s scene.Structure, tile board.TileIndex) {
	f.got = append(f.got, cue{kind: s.String(), slot: -1, tile: tile})
}
