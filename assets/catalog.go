package assets

import (
	"errors"
	"fmt"

	"github.com/MobRulesGames/boardscene/logging"
	"github.com/MobRulesGames/boardscene/scene"
)

var ErrUnknownModel = errors.New("unknown model")

// Loader turns a model instance into something a scene can hold.
type Loader func(m *Model) (scene.Handle, error)

// Catalog serves models out of a registry. Without a Loader the *Model
// itself is the handle.
type Catalog struct {
	registry string
	loader   Loader
	made     int
}

func NewCatalog(registry string, loader Loader) *Catalog {
	if loader == nil {
		loader = func(m *Model) (scene.Handle, error) { return m, nil }
	}
	return &Catalog{registry: registry, loader: loader}
}

func (c *Catalog) Load(name string, done func(scene.Handle, error)) {
	if !HasObject(c.registry, name) {
		done(nil, fmt.Errorf("model %q: %w", name, ErrUnknownModel))
		return
	}
	c.made++
	m := &Model{Defname: name, Instance: c.made}
	if err := GetObject(c.registry, m); err != nil {
		done(nil, err)
		return
	}
	h, err := c.loader(m)
	if err != nil {
		logging.Warn("model loader failed", "model", name, "err", err)
	}
	done(h, err)
}
